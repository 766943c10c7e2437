package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jansamvad/police-feedback-api/internal/models"
)

// FeedbackRepository provides database access for citizen submissions.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository creates a new instance of FeedbackRepository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

const feedbackColumns = `id, name, phone, police_station, description, overall_rating, department_ratings, image_url, status, created_at`

// Create inserts a new feedback record.
func (r *FeedbackRepository) Create(ctx context.Context, fb *models.Feedback) error {
	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}
	if fb.Status == "" {
		fb.Status = models.StatusNew
	}

	const query = `INSERT INTO feedback (id, name, phone, police_station, description, overall_rating, department_ratings, image_url, status, created_at) VALUES (:id, :name, :phone, :police_station, :description, :overall_rating, :department_ratings, :image_url, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, fb); err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

// List returns the full collection newest first. The dashboard filters and
// aggregates in memory, so no server-side pagination exists.
func (r *FeedbackRepository) List(ctx context.Context) ([]models.Feedback, error) {
	query := fmt.Sprintf(`SELECT %s FROM feedback ORDER BY created_at DESC`, feedbackColumns)
	records := make([]models.Feedback, 0)
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return records, nil
}

// FindByID returns a single record.
func (r *FeedbackRepository) FindByID(ctx context.Context, id string) (*models.Feedback, error) {
	query := fmt.Sprintf(`SELECT %s FROM feedback WHERE id = $1 LIMIT 1`, feedbackColumns)
	var fb models.Feedback
	if err := r.db.GetContext(ctx, &fb, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find feedback by id: %w", err)
	}
	return &fb, nil
}

// MarkRead flips the status of a record to read. Returns sql.ErrNoRows for an
// unknown id.
func (r *FeedbackRepository) MarkRead(ctx context.Context, id string) error {
	const query = `UPDATE feedback SET status = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, models.StatusRead)
	if err != nil {
		return fmt.Errorf("mark feedback read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark feedback read: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a single record.
func (r *FeedbackRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM feedback WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteAll truncates the collection.
func (r *FeedbackRepository) DeleteAll(ctx context.Context) error {
	const query = `DELETE FROM feedback`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("delete all feedback: %w", err)
	}
	return nil
}
