package handler

import "net/http"

// getHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) getHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getOpenAPI handles GET /openapi.yaml.
func (s *Server) getOpenAPI(w http.ResponseWriter, _ *http.Request) {
	if len(s.apiDoc) == 0 {
		notFound(w, "api document not available")
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.apiDoc)
}
