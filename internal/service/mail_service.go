package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jansamvad/police-feedback-api/pkg/config"
	"github.com/jansamvad/police-feedback-api/pkg/jobs"
)

type otpSender interface {
	SendOTP(to, otp string, ttlMinutes int) error
}

type otpMailPayload struct {
	To         string
	OTP        string
	TTLMinutes int
}

// MailService dispatches OTP mails through a background queue so the HTTP
// request never waits on SMTP.
type MailService struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewMailService wires the sender behind a worker queue.
func NewMailService(sender otpSender, cfg config.MailConfig, logger *zap.Logger) *MailService {
	if logger == nil {
		logger = zap.NewNop()
	}

	handler := func(_ context.Context, job jobs.Job) error {
		payload, ok := job.Payload.(otpMailPayload)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", job.Payload)
		}
		return sender.SendOTP(payload.To, payload.OTP, payload.TTLMinutes)
	}

	queue := jobs.NewQueue("otp-mail", handler, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})

	return &MailService{queue: queue, logger: logger}
}

// Start launches the mail workers.
func (s *MailService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *MailService) Stop() {
	s.queue.Stop()
}

// EnqueueOTP queues a password-reset mail. A full queue is logged, not
// surfaced: the OTP is already stored and the caller can retry the flow.
func (s *MailService) EnqueueOTP(email, otp string, ttl time.Duration) {
	job := jobs.Job{
		ID:   uuid.NewString(),
		Type: "otp-mail",
		Payload: otpMailPayload{
			To:         email,
			OTP:        otp,
			TTLMinutes: int(ttl.Minutes()),
		},
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Error("failed to enqueue otp mail", zap.String("email", email), zap.Error(err))
	}
}
