package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/auth"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type stubAuth struct {
	signupIn  auth.SignupInput
	signupErr error
	confirmed string
	loginErr  error
	loggedOut *auth.Claims
	users     map[uint]*models.User
}

func (s *stubAuth) Signup(_ context.Context, in auth.SignupInput) (*models.User, error) {
	s.signupIn = in
	if s.signupErr != nil {
		return nil, s.signupErr
	}
	return &models.User{ID: 7, Name: in.Name, Email: in.Email, Role: string(auth.RoleCustomer)}, nil
}

func (s *stubAuth) Confirm(_ context.Context, token string) (*models.User, error) {
	if token != "good-token" {
		return nil, auth.ErrInvalidToken
	}
	s.confirmed = token
	return &models.User{ID: 7, Email: "jane@shop.test", Role: string(auth.RoleCustomer), IsVerified: true}, nil
}

func (s *stubAuth) Login(_ context.Context, email, _ string) (*auth.Session, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	exp := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	return &auth.Session{
		Token:  "signed.jwt.token",
		Claims: &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}},
		User:   &models.User{ID: 7, Email: email, Role: string(auth.RoleCustomer), IsVerified: true},
	}, nil
}

func (s *stubAuth) Logout(_ context.Context, claims *auth.Claims) error {
	s.loggedOut = claims
	return nil
}

func (s *stubAuth) Me(_ context.Context, userID uint) (*models.User, error) {
	u, ok := s.users[userID]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

func authRouter(svc *stubAuth) *gin.Engine {
	h := NewAuthHandler(svc)
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.GET("/auth/confirm", h.Confirm)
	r.POST("/auth/confirm", h.Confirm)
	r.POST("/auth/login", h.Login)
	return r
}

func TestRegister(t *testing.T) {
	svc := &stubAuth{}
	r := authRouter(svc)

	w := do(r, http.MethodPost, "/auth/register", `{"name":"Jane","email":"jane@shop.test","password":"secret1"}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "jane@shop.test", svc.signupIn.Email)
	user := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "customer", user["role"])
	assert.NotContains(t, w.Body.String(), "secret1")
}

func TestRegisterRejectsShortPasswordAndDuplicates(t *testing.T) {
	svc := &stubAuth{}
	r := authRouter(svc)

	w := do(r, http.MethodPost, "/auth/register", `{"name":"Jane","email":"jane@shop.test","password":"123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.signupErr = auth.ErrEmailTaken
	w = do(r, http.MethodPost, "/auth/register", `{"name":"Jane","email":"jane@shop.test","password":"secret1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email_already_exists", decode(t, w)["error_code"])
}

func TestConfirmByQueryAndBody(t *testing.T) {
	svc := &stubAuth{}
	r := authRouter(svc)

	w := do(r, http.MethodGet, "/auth/confirm?token=good-token", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "good-token", svc.confirmed)

	w = do(r, http.MethodPost, "/auth/confirm", `{"token":"good-token"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/auth/confirm", `{"token":"stale"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_token", decode(t, w)["error_code"])
}

func TestLogin(t *testing.T) {
	svc := &stubAuth{}
	r := authRouter(svc)

	w := do(r, http.MethodPost, "/auth/login", `{"email":"jane@shop.test","password":"secret1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "signed.jwt.token", body["token"])
	assert.Equal(t, "2026-10-17T12:00:00Z", body["expires_at"])

	svc.loginErr = auth.ErrEmailNotVerified
	w = do(r, http.MethodPost, "/auth/login", `{"email":"jane@shop.test","password":"secret1"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	svc.loginErr = auth.ErrInvalidCredentials
	w = do(r, http.MethodPost, "/auth/login", `{"email":"jane@shop.test","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutNeedsClaims(t *testing.T) {
	svc := &stubAuth{}
	h := NewAuthHandler(svc)
	claims := &auth.Claims{Role: auth.RoleCustomer}

	r := gin.New()
	r.POST("/bare/logout", h.Logout)
	r.POST("/auth/logout", func(c *gin.Context) {
		c.Set(middleware.ContextClaims, claims)
		c.Next()
	}, h.Logout)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/bare/logout", nil).Code)
	assert.Nil(t, svc.loggedOut)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/auth/logout", nil).Code)
	assert.Same(t, claims, svc.loggedOut)
}

func TestGetMeIncludesBarberRecord(t *testing.T) {
	svc := &stubAuth{users: map[uint]*models.User{
		100: {ID: 100, Name: "Alex", Role: string(auth.RoleBarber)},
		200: {ID: 200, Name: "Jane", Role: string(auth.RoleCustomer)},
		102: {ID: 102, Name: "Unlinked", Role: string(auth.RoleBarber)},
	}}
	h := NewMeHandler(svc, newMemCatalog())

	get := func(userID uint, role auth.Role) map[string]any {
		r := gin.New()
		r.GET("/me", as(userID, role), h.GetMe)
		w := do(r, http.MethodGet, "/me", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return decode(t, w)
	}

	barber := get(100, auth.RoleBarber)
	require.Contains(t, barber, "barber")
	assert.Equal(t, "Alex", barber["barber"].(map[string]any)["name"])

	assert.NotContains(t, get(200, auth.RoleCustomer), "barber")
	assert.NotContains(t, get(102, auth.RoleBarber), "barber")
}

func TestGetMeUnknownUser(t *testing.T) {
	h := NewMeHandler(&stubAuth{}, newMemCatalog())
	r := gin.New()
	r.GET("/me", as(999, auth.RoleCustomer), h.GetMe)

	w := do(r, http.MethodGet, "/me", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "user_not_found", decode(t, w)["error_code"])
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	svc := &stubAuth{}
	r := authRouter(svc)

	body := `{"name":"Jane","email":"jane@shop.test","password":"` + strings.Repeat("x", 73) + `"}`
	w := do(r, http.MethodPost, "/auth/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.signupIn.Email)

	// 40 runes pass binding but exceed bcrypt's 72 bytes
	svc.signupErr = auth.ErrPasswordTooLong
	body = `{"name":"Jane","email":"jane@shop.test","password":"` + strings.Repeat("é", 40) + `"}`
	w = do(r, http.MethodPost, "/auth/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "password_too_long", decode(t, w)["error_code"])
}
