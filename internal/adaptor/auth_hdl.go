package adaptor

import (
	"net/http"
	"time"

	"rental-marketplace/internal/dto/request"
	"rental-marketplace/internal/usecase"
	"rental-marketplace/pkg/middleware"
	"rental-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service      usecase.AuthService
	cookieMaxAge int
	secureCookie bool
	log          *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, expiryHours int, secureCookie bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:      service,
		cookieMaxAge: int((time.Duration(expiryHours) * time.Hour).Seconds()),
		secureCookie: secureCookie,
		log:          log.With(zap.String("handler", "auth")),
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		respondError(w, h.log, err, "register")
		return
	}

	h.setTokenCookie(w, resp.Token, h.cookieMaxAge)
	utils.ResponseCreated(w, "User registered successfully", resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		respondError(w, h.log, err, "login")
		return
	}

	h.setTokenCookie(w, resp.Token, h.cookieMaxAge)
	utils.ResponseSuccess(w, "Login successful", resp)
}

// Me handles GET /api/auth/me (protected)
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	user, err := h.service.Me(r.Context(), p)
	if err != nil {
		respondError(w, h.log, err, "get current user")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so logging
// out only clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setTokenCookie(w, "", -1)
	utils.ResponseSuccess(w, "Logged out successfully", nil)
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
