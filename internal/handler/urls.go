package handler

import (
	"fmt"
	"net/http"
)

// baseURL reconstructs the absolute URL prefix of the running server from
// the incoming request, honouring X-Forwarded-Proto when behind a proxy.
// The hyperlinked representation (snippet url/highlight, user snippets,
// root discovery map) is built on top of this.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

func snippetURL(r *http.Request, id string) string {
	return fmt.Sprintf("%s/snippets/%s/", baseURL(r), id)
}

func snippetHighlightURL(r *http.Request, id string) string {
	return fmt.Sprintf("%s/snippets/%s/highlight/", baseURL(r), id)
}

func userURL(r *http.Request, id string) string {
	return fmt.Sprintf("%s/users/%s/", baseURL(r), id)
}
