package handler

import (
	"context"
	"database/sql"

	"github.com/jansamvad/police-feedback-api/internal/models"
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type stubFeedbackRepo struct {
	records []models.Feedback
	created []*models.Feedback
}

func (s *stubFeedbackRepo) Create(_ context.Context, fb *models.Feedback) error {
	s.created = append(s.created, fb)
	return nil
}

func (s *stubFeedbackRepo) List(_ context.Context) ([]models.Feedback, error) {
	return s.records, nil
}

func (s *stubFeedbackRepo) FindByID(_ context.Context, id string) (*models.Feedback, error) {
	for i := range s.records {
		if s.records[i].ID == id {
			return &s.records[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubFeedbackRepo) MarkRead(_ context.Context, id string) error {
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Status = models.StatusRead
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *stubFeedbackRepo) Delete(_ context.Context, id string) error {
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *stubFeedbackRepo) DeleteAll(_ context.Context) error {
	s.records = nil
	return nil
}
