package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jansamvad/police-feedback-api/internal/models"
	appErrors "github.com/jansamvad/police-feedback-api/pkg/errors"
)

type fakeAdminRepo struct {
	admin       *models.Admin
	setOTP      string
	setExpires  time.Time
	cleared     bool
	newPassword string
}

func (f *fakeAdminRepo) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	if f.admin == nil || f.admin.Email != email {
		return nil, sql.ErrNoRows
	}
	return f.admin, nil
}

func (f *fakeAdminRepo) SetOTP(_ context.Context, _ string, otp string, expiresAt time.Time) error {
	f.setOTP = otp
	f.setExpires = expiresAt
	return nil
}

func (f *fakeAdminRepo) ClearOTP(_ context.Context, _ string) error {
	f.cleared = true
	return nil
}

func (f *fakeAdminRepo) UpdatePassword(_ context.Context, _ string, passwordHash string) error {
	f.newPassword = passwordHash
	return nil
}

type fakeOTPMailer struct {
	email string
	otp   string
}

func (f *fakeOTPMailer) EnqueueOTP(email, otp string, _ time.Duration) {
	f.email = email
	f.otp = otp
}

func testAdmin(t *testing.T, password string) *models.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.Admin{ID: "admin-1", Email: "admin@example.com", PasswordHash: string(hash)}
}

func newTestAuthService(repo *fakeAdminRepo, mailer *fakeOTPMailer) *AuthService {
	return NewAuthService(repo, mailer, nil, zap.NewNop(), AuthServiceConfig{
		JWTSecret:     "test-secret",
		JWTExpiration: time.Hour,
		JWTIssuer:     "test",
		OTPLength:     6,
		OTPTTL:        15 * time.Minute,
	})
}

func TestAuthLogin(t *testing.T) {
	repo := &fakeAdminRepo{admin: testAdmin(t, "s3cret")}
	svc := newTestAuthService(repo, nil)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.AdminID)
	assert.Equal(t, "admin@example.com", claims.Email)
}

func TestAuthLoginUnknownEmail(t *testing.T) {
	svc := newTestAuthService(&fakeAdminRepo{}, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAuthLoginWrongPassword(t *testing.T) {
	repo := &fakeAdminRepo{admin: testAdmin(t, "s3cret")}
	svc := newTestAuthService(repo, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthForgotPassword(t *testing.T) {
	repo := &fakeAdminRepo{admin: testAdmin(t, "s3cret")}
	mailer := &fakeOTPMailer{}
	svc := newTestAuthService(repo, mailer)

	err := svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "admin@example.com"})
	require.NoError(t, err)

	assert.Len(t, repo.setOTP, 6)
	assert.Equal(t, repo.setOTP, mailer.otp)
	assert.Equal(t, "admin@example.com", mailer.email)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), repo.setExpires, time.Minute)
}

func TestAuthVerifyOTP(t *testing.T) {
	otp := "123456"
	future := time.Now().Add(10 * time.Minute)
	admin := testAdmin(t, "s3cret")
	admin.OTP = &otp
	admin.OTPExpiresAt = &future

	svc := newTestAuthService(&fakeAdminRepo{admin: admin}, nil)

	require.NoError(t, svc.VerifyOTP(context.Background(), models.VerifyOTPRequest{
		Email: "admin@example.com",
		OTP:   "123456",
	}))

	err := svc.VerifyOTP(context.Background(), models.VerifyOTPRequest{
		Email: "admin@example.com",
		OTP:   "000000",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidOTP.Code, appErrors.FromError(err).Code)
}

func TestAuthVerifyOTPExpired(t *testing.T) {
	otp := "123456"
	past := time.Now().Add(-time.Minute)
	admin := testAdmin(t, "s3cret")
	admin.OTP = &otp
	admin.OTPExpiresAt = &past

	svc := newTestAuthService(&fakeAdminRepo{admin: admin}, nil)

	err := svc.VerifyOTP(context.Background(), models.VerifyOTPRequest{
		Email: "admin@example.com",
		OTP:   "123456",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrExpiredOTP.Code, appErrors.FromError(err).Code)
}

func TestAuthResetPassword(t *testing.T) {
	otp := "123456"
	future := time.Now().Add(10 * time.Minute)
	admin := testAdmin(t, "old-pass")
	admin.OTP = &otp
	admin.OTPExpiresAt = &future

	repo := &fakeAdminRepo{admin: admin}
	svc := newTestAuthService(repo, nil)

	err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{
		Email:           "admin@example.com",
		OTP:             "123456",
		NewPassword:     "new-password",
		ConfirmPassword: "new-password",
	})
	require.NoError(t, err)
	assert.True(t, repo.cleared)
	require.NotEmpty(t, repo.newPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.newPassword), []byte("new-password")))
}

func TestAuthResetPasswordWrongOTP(t *testing.T) {
	otp := "123456"
	future := time.Now().Add(10 * time.Minute)
	admin := testAdmin(t, "old-pass")
	admin.OTP = &otp
	admin.OTPExpiresAt = &future

	repo := &fakeAdminRepo{admin: admin}
	svc := newTestAuthService(repo, nil)

	err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{
		Email:           "admin@example.com",
		OTP:             "654321",
		NewPassword:     "new-password",
		ConfirmPassword: "new-password",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidOTP.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.newPassword)
	assert.False(t, repo.cleared)
}

func TestAuthResetPasswordWithoutPendingOTP(t *testing.T) {
	repo := &fakeAdminRepo{admin: testAdmin(t, "old-pass")}
	svc := newTestAuthService(repo, nil)

	err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{
		Email:           "admin@example.com",
		OTP:             "123456",
		NewPassword:     "new-password",
		ConfirmPassword: "new-password",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidOTP.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.newPassword)
}

func TestAuthResetPasswordMismatch(t *testing.T) {
	svc := newTestAuthService(&fakeAdminRepo{admin: testAdmin(t, "old-pass")}, nil)

	err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{
		Email:           "admin@example.com",
		OTP:             "123456",
		NewPassword:     "new-password",
		ConfirmPassword: "different",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPasswordMismatch.Code, appErrors.FromError(err).Code)
}

func TestAuthParseTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(&fakeAdminRepo{}, nil)

	_, err := svc.ParseToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
