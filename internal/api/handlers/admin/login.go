package admin

import (
	"net/http"
	"net/url"
	"time"

	"Quill/internal/api/handlers"
	"Quill/internal/api/middleware"
	"Quill/internal/core/admin"
)

// LoginHandler exchanges the admin credentials for a session token
type LoginHandler struct {
	service      admin.Service
	secureCookie bool
	exposeDetail bool
}

// NewLoginHandler creates a new login handler.
// secureCookie marks the token cookie Secure (HTTPS only).
func NewLoginHandler(service admin.Service, secureCookie, exposeDetail bool) *LoginHandler {
	return &LoginHandler{
		service:      service,
		secureCookie: secureCookie,
		exposeDetail: exposeDetail,
	}
}

// loginInput is the body of POST /admin
type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// DecodeForm fills the input from a form-encoded body
func (in *loginInput) DecodeForm(form url.Values) error {
	in.Username = form.Get("username")
	in.Password = form.Get("password")
	return nil
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	ExpiresAt time.Time `json:"expires_at"`
	Message   string    `json:"message"`
	Token     string    `json:"token"`
}

// HandleLogin handles POST /admin
//
// Request body: { "username": "...", "password": "..." }
// Response: 200 { "message": "Logged in!", "token": "...", "expires_at": "..." }
// plus a "token" cookie carrying the same token
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var input loginInput
	if err := handlers.DecodeBody(w, r, &input); err != nil {
		handlers.WriteBodyError(w, err)
		return
	}

	session, err := h.service.Login(r.Context(), admin.LoginRequest{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		handleServiceError(w, r, err, h.exposeDetail)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	handlers.WriteJSON(w, http.StatusOK, LoginResponse{
		Message:   "Logged in!",
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}
