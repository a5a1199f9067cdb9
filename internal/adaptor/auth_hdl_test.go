package adaptor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rental-marketplace/internal/dto/request"
	"rental-marketplace/internal/dto/response"
	"rental-marketplace/internal/usecase"
	"rental-marketplace/pkg/middleware"
	"rental-marketplace/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockAuthService struct {
	loginFn func(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
}

func (m *mockAuthService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	return nil, usecase.ErrEmailTaken
}
func (m *mockAuthService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	return m.loginFn(ctx, req)
}
func (m *mockAuthService) Me(ctx context.Context, p utils.Principal) (*response.UserResponse, error) {
	return &response.UserResponse{ID: p.UserID.String()}, nil
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLogin_Handler_SetsCookie(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
			return &response.AuthResponse{Token: "signed.jwt.token"}, nil
		},
	}
	h := NewAuthHandler(svc, 168, true, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.co","password":"secret1"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	cookie := findCookie(rec, middleware.AccessTokenCookie)
	require.NotNil(t, cookie)
	assert.Equal(t, "signed.jwt.token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, 168*3600, cookie.MaxAge)
}

func TestLogin_Handler_InvalidCredentials(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
			return nil, usecase.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(svc, 168, false, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.co","password":"nope"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, findCookie(rec, middleware.AccessTokenCookie))
}

func TestRegister_Handler_DuplicateEmail(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, 168, false, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"name":"Ada","email":"a@b.co","password":"secret1"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists with this email", decodeEnvelope(t, rec).Message)
}

func TestLogout_Handler_ClearsCookie(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, 168, false, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	cookie := findCookie(rec, middleware.AccessTokenCookie)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestMe_Handler_RequiresPrincipal(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, 168, false, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(utils.SetPrincipal(req.Context(), testCustomer))
	rec = httptest.NewRecorder()
	h.Me(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
