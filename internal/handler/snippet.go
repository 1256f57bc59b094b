package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/snippetbin/internal/auth"
	"github.com/sakif/snippetbin/internal/model"
	"github.com/sakif/snippetbin/internal/repository"
	"github.com/sakif/snippetbin/internal/service"
)

// SnippetHandler maps HTTP verbs onto the snippet CRUD operations plus the
// highlight sub-resource.
type SnippetHandler struct {
	snippets *service.SnippetService
	logger   *slog.Logger
}

// NewSnippetHandler creates a SnippetHandler.
func NewSnippetHandler(snippets *service.SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{snippets: snippets, logger: logger}
}

// snippetResponse is the wire representation of a snippet: the stored fields
// plus hyperlinks to the resource itself and its highlight sub-resource.
// The owner appears as a username; the raw owner ID stays internal.
type snippetResponse struct {
	URL         string    `json:"url"`
	ID          string    `json:"id"`
	Created     time.Time `json:"created"`
	Title       string    `json:"title"`
	Code        string    `json:"code"`
	Linenos     bool      `json:"linenos"`
	Language    string    `json:"language"`
	Style       string    `json:"style"`
	Owner       string    `json:"owner"`
	Highlighted string    `json:"highlighted"`
	Highlight   string    `json:"highlight"`
}

func newSnippetResponse(r *http.Request, s *model.Snippet) snippetResponse {
	return snippetResponse{
		URL:         snippetURL(r, s.ID),
		ID:          s.ID,
		Created:     s.Created,
		Title:       s.Title,
		Code:        s.Code,
		Linenos:     s.Linenos,
		Language:    s.Language,
		Style:       s.Style,
		Owner:       s.Owner,
		Highlighted: s.Highlighted,
		Highlight:   snippetHighlightURL(r, s.ID),
	}
}

// listOptions reads optional limit/offset query parameters. Absent or
// malformed values mean "everything" — the collection endpoint's default is
// the full set, oldest first.
func listOptions(r *http.Request) repository.ListOptions {
	var opts repository.ListOptions
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Offset = n
		}
	}
	return opts
}

// HandleList returns all snippets, ascending by creation time.
//
// HTTP: GET /snippets/
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	snippets, err := h.snippets.List(r.Context(), listOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]snippetResponse, 0, len(snippets))
	for i := range snippets {
		out = append(out, newSnippetResponse(r, &snippets[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleCreate creates a snippet owned by the requesting principal.
//
// HTTP: POST /snippets/
//
// Decoding into service.SnippetInput drops unknown fields silently, which is
// deliberate — extras are ignored, not rejected. A client-supplied "owner"
// or "highlighted" key therefore simply vanishes.
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.SnippetInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"non_field_errors": {"request body must be valid JSON"},
		})
		return
	}

	snippet, err := h.snippets.Create(r.Context(), auth.PrincipalFromContext(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newSnippetResponse(r, snippet))
}

// HandleGet retrieves a single snippet.
//
// HTTP: GET /snippets/{id}/
func (h *SnippetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	snippet, err := h.snippets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSnippetResponse(r, snippet))
}

// HandleUpdate fully replaces a snippet's writable fields.
//
// HTTP: PUT /snippets/{id}/
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in service.SnippetInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"non_field_errors": {"request body must be valid JSON"},
		})
		return
	}

	snippet, err := h.snippets.Replace(r.Context(), auth.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newSnippetResponse(r, snippet))
}

// HandleDelete removes a snippet.
//
// HTTP: DELETE /snippets/{id}/
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.snippets.Delete(r.Context(), auth.PrincipalFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleHighlight serves the stored HTML rendering as a raw document — the
// one endpoint that answers text/html instead of JSON.
//
// HTTP: GET /snippets/{id}/highlight/
func (h *SnippetHandler) HandleHighlight(w http.ResponseWriter, r *http.Request) {
	html, err := h.snippets.Highlighted(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		h.logger.Error("failed to write highlight response", slog.String("error", err.Error()))
	}
}
