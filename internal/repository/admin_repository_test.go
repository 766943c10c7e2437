package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAdminByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "otp", "otp_expires_at", "created_at", "updated_at"}).
		AddRow("1", "admin@example.com", "hash", nil, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash, otp, otp_expires_at, created_at, updated_at FROM admins WHERE email = $1 LIMIT 1")).
		WithArgs("admin@example.com").
		WillReturnRows(rows)

	admin, err := repo.FindByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.Nil(t, admin.OTP)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAdminByEmailNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectQuery("SELECT .* FROM admins WHERE email").
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetAndClearOTP(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	expiry := time.Now().Add(15 * time.Minute)
	mock.ExpectExec("UPDATE admins SET otp =").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetOTP(context.Background(), "1", "482913", expiry))

	mock.ExpectExec("UPDATE admins SET otp = NULL").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.ClearOTP(context.Background(), "1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAdminPassword(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectExec("UPDATE admins SET password_hash =").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdatePassword(context.Background(), "1", "newhash"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
