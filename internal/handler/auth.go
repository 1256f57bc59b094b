package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rs/xid"
	"github.com/sakif/snippetbin/internal/auth"
	"github.com/sakif/snippetbin/internal/service"
)

// AuthHandler manages account creation and login for both identity sources.
//
//   - HandleRegister / HandleLogin  → local username/password accounts
//   - HandleGitHubLogin / Callback  → GitHub OAuth (browser flow, cookie)
//   - HandleMe                      → current principal's user record
//   - HandleLogout                  → clear the token cookie
type AuthHandler struct {
	authSvc *service.AuthService
	github  *auth.GitHubProvider // nil when OAuth isn't configured
	logger  *slog.Logger
}

// NewAuthHandler creates an AuthHandler. github may be nil; the OAuth routes
// are only registered when a provider is configured.
func NewAuthHandler(authSvc *service.AuthService, github *auth.GitHubProvider, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, github: github, logger: logger}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authResponse returns the issued token alongside the minimal public view of
// the account. API clients put the token in an Authorization: Bearer header.
type authResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

func setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// HandleRegister creates a local account.
//
// HTTP: POST /auth/register  {"username": "...", "password": "..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"non_field_errors": {"request body must be valid JSON"},
		})
		return
	}

	result, err := h.authSvc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	setTokenCookie(w, result.Token)
	writeJSON(w, http.StatusCreated, authResponse{
		Token:    result.Token,
		UserID:   result.User.ID,
		Username: result.User.Username,
	})
}

// HandleLogin verifies credentials and issues a token.
//
// HTTP: POST /auth/login  {"username": "...", "password": "..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"non_field_errors": {"request body must be valid JSON"},
		})
		return
	}

	result, err := h.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	setTokenCookie(w, result.Token)
	writeJSON(w, http.StatusOK, authResponse{
		Token:    result.Token,
		UserID:   result.User.ID,
		Username: result.User.Username,
	})
}

// HandleGitHubLogin redirects the browser to GitHub's authorization page.
// The random state cookie ties the upcoming callback to this flow.
//
// HTTP: GET /auth/github/login
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth flow: verify state, exchange the
// code, upsert the user, set the token cookie, land on the API root.
//
// HTTP: GET /auth/github/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("oauth callback: state mismatch")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// The state cookie is single-use.
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: "", Path: "/", MaxAge: -1})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("oauth callback: user denied authorization", slog.String("error", errParam))
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.logger.Error("oauth callback: exchange failed", slog.String("error", err.Error()))
		http.Error(w, "OAuth exchange failed", http.StatusBadGateway)
		return
	}

	result, err := h.authSvc.LoginOrRegisterGitHub(r.Context(), ghUser)
	if err != nil {
		h.logger.Error("oauth callback: login failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	setTokenCookie(w, result.Token)
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

// HandleMe returns the authenticated principal's user record. Runs behind
// auth.RequireAuth, so the principal is always set here.
//
// HTTP: GET /auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())

	user, err := h.authSvc.GetUserByID(r.Context(), p.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleLogout clears the token cookie. Bearer-header clients just discard
// their token; nothing is stored server-side either way.
//
// HTTP: POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: "token", Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	w.WriteHeader(http.StatusNoContent)
}
