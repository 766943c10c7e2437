package mailer

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/jansamvad/police-feedback-api/pkg/config"
)

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New constructs a Mailer from SMTP settings.
func New(cfg config.MailConfig) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// SendOTP delivers the password-reset code to the admin's mailbox.
func (m *Mailer) SendOTP(to, otp string, ttlMinutes int) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Password reset code")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Your password reset code is %s. It expires in %d minutes.\n\nIf you did not request a reset, ignore this mail.",
		otp, ttlMinutes,
	))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send otp mail: %w", err)
	}
	return nil
}
