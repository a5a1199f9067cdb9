package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"rental-marketplace/internal/data/repository"
	"rental-marketplace/internal/policy"
	"rental-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccessTokenCookie is the cookie set on login and read when no bearer header is sent.
const AccessTokenCookie = "accessToken"

var (
	errMissingToken = errors.New("missing authorization token")
	errInactiveUser = errors.New("account is deactivated")
)

// Auth requires a valid access token for an active user and stores the
// principal in the request context.
func Auth(userRepo repository.UserRepository, secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := authenticate(r, userRepo, secret)
			switch {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(utils.SetPrincipal(r.Context(), principal)))
			case errors.Is(err, errMissingToken):
				utils.ResponseUnauthorized(w, "Access denied. No token provided")
			case errors.Is(err, utils.ErrInvalidToken):
				logger.Warn("Rejected access token", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
			case errors.Is(err, errInactiveUser):
				utils.ResponseUnauthorized(w, "Account is deactivated")
			default:
				logger.Error("Failed to authenticate request", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
			}
		})
	}
}

// OptionalAuth attaches a principal when a valid token is present and lets
// anonymous requests through untouched.
func OptionalAuth(userRepo repository.UserRepository, secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := authenticate(r, userRepo, secret)
			if err != nil {
				if !errors.Is(err, errMissingToken) {
					logger.Debug("Ignoring unusable token on public route", zap.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(utils.SetPrincipal(r.Context(), principal)))
		})
	}
}

// RequireAction rejects principals whose role may not attempt action.
// Ownership is checked later by the service that loads the resource.
func RequireAction(action policy.Action, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := utils.GetPrincipal(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !policy.AllowsRole(action, principal.Role) {
				logger.Warn("Role not permitted",
					zap.String("user_id", principal.UserID.String()),
					zap.String("role", principal.Role),
					zap.String("action", string(action)),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseForbidden(w, "Access denied. Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func authenticate(r *http.Request, userRepo repository.UserRepository, secret string) (utils.Principal, error) {
	token := extractToken(r)
	if token == "" {
		return utils.Principal{}, errMissingToken
	}

	claims, err := utils.ParseToken(secret, token)
	if err != nil {
		return utils.Principal{}, err
	}

	return loadPrincipal(r.Context(), userRepo, uuid.MustParse(claims.UserID))
}

// loadPrincipal takes the role from the stored user, not the token, so role
// changes and deactivation apply immediately.
func loadPrincipal(ctx context.Context, userRepo repository.UserRepository, userID uuid.UUID) (utils.Principal, error) {
	user, err := userRepo.FindByID(ctx, userID)
	if err != nil {
		return utils.Principal{}, err
	}
	if user == nil {
		return utils.Principal{}, utils.ErrInvalidToken
	}
	if !user.IsActive {
		return utils.Principal{}, errInactiveUser
	}
	return utils.Principal{UserID: user.ID, Role: string(user.Role)}, nil
}

func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}
