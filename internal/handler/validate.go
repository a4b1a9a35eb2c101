package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/globetrotter/backend/internal/service"
)

// dateRanged is implemented by request bodies that carry a start/end pair.
type dateRanged interface {
	dateRange() (start, end *openapi_types.Date)
}

// newValidator returns a validator that reports JSON field names and knows
// the cross-field date rule.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterAlias("pwd", fmt.Sprintf("min=%d", service.MinPasswordLength))
	v.RegisterStructValidation(validateDateRange,
		createTripRequest{}, updateTripRequest{}, addCityRequest{}, updateCityRequest{})
	return v
}

func validateDateRange(sl validator.StructLevel) {
	r, ok := sl.Current().Interface().(dateRanged)
	if !ok {
		return
	}
	start, end := r.dateRange()
	if start == nil || end == nil {
		return
	}
	if end.Time.Before(start.Time) {
		sl.ReportError(end, "end_date", "EndDate", "daterange", "start_date")
	}
}

// toDetails converts decode and validation errors into a field -> message map
// for the error body.
func toDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	if errors.Is(err, errEmptyBody) {
		return map[string]string{"payload": "is required"}
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "pwd":
		return fmt.Sprintf("must be at least %d characters long", service.MinPasswordLength)
	case "min":
		return "must be at least " + param + " characters long"
	case "max":
		return "must be at most " + param + " characters long"
	case "datetime":
		return "must match time format HH:MM"
	case "daterange":
		return "must not be before " + param
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", fe.Tag(), param)
		}
		return fmt.Sprintf("validation failed for '%s'", fe.Tag())
	}
}
