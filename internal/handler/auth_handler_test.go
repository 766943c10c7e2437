package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jansamvad/police-feedback-api/internal/middleware"
	"github.com/jansamvad/police-feedback-api/internal/models"
	"github.com/jansamvad/police-feedback-api/internal/service"
)

type stubAdminRepo struct {
	admin *models.Admin
}

func (s *stubAdminRepo) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	if s.admin == nil || s.admin.Email != email {
		return nil, sql.ErrNoRows
	}
	return s.admin, nil
}

func (s *stubAdminRepo) SetOTP(_ context.Context, _ string, otp string, expiresAt time.Time) error {
	s.admin.OTP = &otp
	s.admin.OTPExpiresAt = &expiresAt
	return nil
}

func (s *stubAdminRepo) ClearOTP(_ context.Context, _ string) error {
	s.admin.OTP = nil
	s.admin.OTPExpiresAt = nil
	return nil
}

func (s *stubAdminRepo) UpdatePassword(_ context.Context, _ string, passwordHash string) error {
	s.admin.PasswordHash = passwordHash
	return nil
}

func newAuthHandler(t *testing.T, password string) (*AuthHandler, *stubAdminRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &stubAdminRepo{admin: &models.Admin{
		ID:           "admin-1",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
	}}
	svc := service.NewAuthService(repo, nil, nil, zap.NewNop(), service.AuthServiceConfig{
		JWTSecret: "test-secret",
	})
	return NewAuthHandler(svc), repo
}

func postJSON(t *testing.T, target string, payload interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	return rec, c
}

func TestAuthHandlerLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newAuthHandler(t, "s3cret")

	rec, c := postJSON(t, "/auth/login", models.LoginRequest{
		Email:    "admin@example.com",
		Password: "s3cret",
	})

	handler.Login(c)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data["token"])
}

func TestAuthHandlerLoginUnknownEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newAuthHandler(t, "s3cret")

	rec, c := postJSON(t, "/auth/login", models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "s3cret",
	})

	handler.Login(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthHandlerResetPasswordFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newAuthHandler(t, "old-pass")

	otp := "123456"
	future := time.Now().Add(10 * time.Minute)
	repo.admin.OTP = &otp
	repo.admin.OTPExpiresAt = &future

	rec, c := postJSON(t, "/auth/verify-otp", models.VerifyOTPRequest{
		Email: "admin@example.com",
		OTP:   otp,
	})
	handler.VerifyOTP(c)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, c = postJSON(t, "/auth/reset-password", models.ResetPasswordRequest{
		Email:           "admin@example.com",
		OTP:             otp,
		NewPassword:     "new-password",
		ConfirmPassword: "new-password",
	})
	handler.ResetPassword(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, repo.admin.OTP)

	rec, c = postJSON(t, "/auth/login", models.LoginRequest{
		Email:    "admin@example.com",
		Password: "new-password",
	})
	handler.Login(c)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandlerMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newAuthHandler(t, "s3cret")

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	c.Set(middleware.ContextUserKey, &models.AdminClaims{AdminID: "admin-1", Email: "admin@example.com"})

	handler.Me(c)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "admin-1", envelope.Data["admin_id"])
}

func TestAuthHandlerLogout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newAuthHandler(t, "s3cret")

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	c.Set(middleware.ContextUserKey, &models.AdminClaims{AdminID: "admin-1"})

	handler.Logout(c)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "logged out", envelope.Data["message"])
}

func TestAuthHandlerMeUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newAuthHandler(t, "s3cret")

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)

	handler.Me(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
