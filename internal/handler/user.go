package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/snippetbin/internal/service"
)

// UserHandler exposes the read-only user resource.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// userResponse is the wire representation of a user. Snippets is the derived
// reverse relation, rendered as absolute snippet URLs.
type userResponse struct {
	URL      string   `json:"url"`
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Snippets []string `json:"snippets"`
}

func newUserResponse(r *http.Request, u service.UserWithSnippets) userResponse {
	links := make([]string, 0, len(u.SnippetIDs))
	for _, id := range u.SnippetIDs {
		links = append(links, snippetURL(r, id))
	}
	return userResponse{
		URL:      userURL(r, u.User.ID),
		ID:       u.User.ID,
		Username: u.User.Username,
		Snippets: links,
	}
}

// HandleList returns all users.
//
// HTTP: GET /users/
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context(), listOptions(r))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, newUserResponse(r, u))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGet retrieves a single user.
//
// HTTP: GET /users/{id}/
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(r, *user))
}
