// Package api embeds the OpenAPI document for the GlobeTrotter API.
// It is imported by main and served at /openapi.yaml.
package api

import _ "embed"

// OpenAPI contains the raw bytes of openapi.yaml, embedded at compile time.
//
//go:embed openapi.yaml
var OpenAPI []byte
