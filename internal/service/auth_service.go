package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jansamvad/police-feedback-api/internal/models"
	appErrors "github.com/jansamvad/police-feedback-api/pkg/errors"
)

type adminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	SetOTP(ctx context.Context, id, otp string, expiresAt time.Time) error
	ClearOTP(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type otpMailer interface {
	EnqueueOTP(email, otp string, ttl time.Duration)
}

// AuthServiceConfig carries token and OTP tuning.
type AuthServiceConfig struct {
	JWTSecret     string
	JWTExpiration time.Duration
	JWTIssuer     string
	OTPLength     int
	OTPTTL        time.Duration
}

// AuthService implements admin login and the OTP password-reset flow.
type AuthService struct {
	repo      adminRepository
	mailer    otpMailer
	validator *validator.Validate
	logger    *zap.Logger
	cfg       AuthServiceConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(repo adminRepository, mailer otpMailer, validate *validator.Validate, logger *zap.Logger, cfg AuthServiceConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.JWTExpiration <= 0 {
		cfg.JWTExpiration = 7 * 24 * time.Hour
	}
	if cfg.OTPLength <= 0 {
		cfg.OTPLength = 6
	}
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 15 * time.Minute
	}
	return &AuthService{repo: repo, mailer: mailer, validator: validate, logger: logger, cfg: cfg, now: time.Now}
}

// Login verifies credentials and issues a signed bearer token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "email and password are required")
	}

	admin, err := s.findAdmin(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "incorrect password")
	}

	issuedAt := s.now()
	claims := models.AdminClaims{
		AdminID: admin.ID,
		Email:   admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.JWTIssuer,
			Subject:   admin.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.cfg.JWTExpiration)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	return &models.LoginResponse{
		Message:   "login successful",
		Token:     token,
		ExpiresIn: int64(s.cfg.JWTExpiration.Seconds()),
		IssuedAt:  issuedAt,
	}, nil
}

// ForgotPassword generates an OTP, stores it against the admin, and queues
// the notification mail.
func (s *AuthService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "a valid email is required")
	}

	admin, err := s.findAdmin(ctx, req.Email)
	if err != nil {
		return err
	}

	otp, err := generateOTP(s.cfg.OTPLength)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate otp")
	}

	expiresAt := s.now().Add(s.cfg.OTPTTL)
	if err := s.repo.SetOTP(ctx, admin.ID, otp, expiresAt); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store otp")
	}

	if s.mailer != nil {
		s.mailer.EnqueueOTP(admin.Email, otp, s.cfg.OTPTTL)
	}
	s.logger.Info("password reset otp issued", zap.String("admin_id", admin.ID))
	return nil
}

// VerifyOTP checks the mailed code without consuming it; the code stays valid
// until the reset completes or it expires.
func (s *AuthService) VerifyOTP(ctx context.Context, req models.VerifyOTPRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "email and otp are required")
	}

	admin, err := s.findAdmin(ctx, req.Email)
	if err != nil {
		return err
	}
	return s.checkOTP(admin, req.OTP)
}

// ResetPassword completes the flow: re-checks the OTP value, stores the new
// bcrypt hash and clears the code.
func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "email, otp and a new password are required")
	}
	if req.NewPassword != req.ConfirmPassword {
		return appErrors.Clone(appErrors.ErrPasswordMismatch, "")
	}

	admin, err := s.findAdmin(ctx, req.Email)
	if err != nil {
		return err
	}
	if err := s.checkOTP(admin, req.OTP); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	if err := s.repo.UpdatePassword(ctx, admin.ID, string(hash)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update password")
	}
	if err := s.repo.ClearOTP(ctx, admin.ID); err != nil {
		s.logger.Warn("failed to clear otp after reset", zap.String("admin_id", admin.ID), zap.Error(err))
	}

	s.logger.Info("admin password reset", zap.String("admin_id", admin.ID))
	return nil
}

// ParseToken validates a bearer token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*models.AdminClaims, error) {
	claims := &models.AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

func (s *AuthService) findAdmin(ctx context.Context, email string) (*models.Admin, error) {
	admin, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no admin account for this email")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up admin")
	}
	return admin, nil
}

func (s *AuthService) checkOTP(admin *models.Admin, otp string) error {
	if admin.OTP == nil || *admin.OTP != otp {
		return appErrors.Clone(appErrors.ErrInvalidOTP, "")
	}
	if admin.OTPExpiresAt != nil && admin.OTPExpiresAt.Before(s.now()) {
		return appErrors.Clone(appErrors.ErrExpiredOTP, "")
	}
	return nil
}

func generateOTP(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
