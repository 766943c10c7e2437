package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"mime/multipart"
	"path"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jansamvad/police-feedback-api/internal/models"
	appErrors "github.com/jansamvad/police-feedback-api/pkg/errors"
)

const dashboardCachePattern = "dash:*"

type feedbackRepository interface {
	Create(ctx context.Context, fb *models.Feedback) error
	List(ctx context.Context) ([]models.Feedback, error)
	FindByID(ctx context.Context, id string) (*models.Feedback, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

type imageStore interface {
	Accepts(filename string) bool
	MaxSize() int64
	SaveStream(originalName string, r io.Reader) (string, error)
}

// FeedbackServiceConfig tunes ingestion behaviour.
type FeedbackServiceConfig struct {
	UploadURLPrefix string
}

// FeedbackService implements the ingestion and query operations over citizen
// submissions.
type FeedbackService struct {
	repo      feedbackRepository
	images    imageStore
	validator *validator.Validate
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       FeedbackServiceConfig
}

// NewFeedbackService constructs a FeedbackService instance.
func NewFeedbackService(repo feedbackRepository, images imageStore, validate *validator.Validate, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg FeedbackServiceConfig) *FeedbackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.UploadURLPrefix == "" {
		cfg.UploadURLPrefix = "/uploads"
	}
	return &FeedbackService{repo: repo, images: images, validator: validate, cache: cache, metrics: metrics, logger: logger, cfg: cfg}
}

// Create persists a new submission. A malformed department_ratings payload is
// treated as an empty list, never a request failure; an attached image is
// stored first and only its relative URL is persisted.
func (s *FeedbackService) Create(ctx context.Context, input models.CreateFeedbackInput, image *multipart.FileHeader) error {
	if err := s.validator.Struct(input); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "overall rating and contact details are required")
	}

	ratings, ok := models.ParseDepartmentRatings(input.DepartmentRatingsJSON)
	if !ok {
		s.logger.Warn("malformed department_ratings payload dropped",
			zap.Int("payload_len", len(input.DepartmentRatingsJSON)))
		ratings = nil
	}

	fb := &models.Feedback{
		Name:              input.Name,
		Phone:             input.Phone,
		PoliceStation:     input.PoliceStation,
		Description:       input.Description,
		OverallRating:     input.OverallRating,
		DepartmentRatings: ratings,
		Status:            models.StatusNew,
	}

	if image != nil {
		url, err := s.saveImage(image)
		if err != nil {
			return err
		}
		fb.ImageURL = url
	}

	if err := s.repo.Create(ctx, fb); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store feedback")
	}

	if s.metrics != nil {
		s.metrics.RecordFeedbackAccepted()
	}
	s.invalidateDashboards(ctx)
	return nil
}

// List returns the full collection, newest first.
func (s *FeedbackService) List(ctx context.Context) ([]models.Feedback, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch feedback")
	}
	return records, nil
}

// Get returns a single record by id.
func (s *FeedbackService) Get(ctx context.Context, id string) (*models.Feedback, error) {
	fb, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "feedback not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch feedback")
	}
	return fb, nil
}

// MarkRead records the single new→read transition for a record.
func (s *FeedbackService) MarkRead(ctx context.Context, id string) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "feedback not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update feedback")
	}
	return nil
}

// Delete removes a single record.
func (s *FeedbackService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "feedback not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete feedback")
	}
	s.invalidateDashboards(ctx)
	return nil
}

// DeleteAll clears the collection.
func (s *FeedbackService) DeleteAll(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete feedback")
	}
	s.invalidateDashboards(ctx)
	return nil
}

func (s *FeedbackService) saveImage(header *multipart.FileHeader) (string, error) {
	if s.images == nil {
		return "", appErrors.Clone(appErrors.ErrInternal, "image storage unavailable")
	}
	if !s.images.Accepts(header.Filename) {
		return "", appErrors.Clone(appErrors.ErrUnsupportedUpload, "unsupported image type")
	}
	if max := s.images.MaxSize(); max > 0 && header.Size > max {
		return "", appErrors.Clone(appErrors.ErrUnsupportedUpload, "image exceeds the size limit")
	}

	file, err := header.Open()
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read image")
	}
	defer file.Close() //nolint:errcheck

	name, err := s.images.SaveStream(header.Filename, file)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store image")
	}
	return path.Join(s.cfg.UploadURLPrefix, name), nil
}

func (s *FeedbackService) invalidateDashboards(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, dashboardCachePattern); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
