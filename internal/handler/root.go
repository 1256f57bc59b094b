package handler

import (
	"fmt"
	"net/http"
)

// HandleRoot is the API entry point: a discovery map from resource names to
// absolute collection URLs, so clients can navigate the API from a single
// known address.
//
// HTTP: GET /
func HandleRoot(w http.ResponseWriter, r *http.Request) {
	base := baseURL(r)
	writeJSON(w, http.StatusOK, map[string]string{
		"users":    fmt.Sprintf("%s/users/", base),
		"snippets": fmt.Sprintf("%s/snippets/", base),
	})
}

// HandleHealthz is a liveness probe.
//
// HTTP: GET /healthz
func HandleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
