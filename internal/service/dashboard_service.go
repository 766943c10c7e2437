package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jansamvad/police-feedback-api/internal/analytics"
	"github.com/jansamvad/police-feedback-api/internal/models"
	appErrors "github.com/jansamvad/police-feedback-api/pkg/errors"
)

type dashboardRepository interface {
	List(ctx context.Context) ([]models.Feedback, error)
}

// SummaryResponse is the headline dashboard payload.
type SummaryResponse struct {
	analytics.Summary
	Sentiments analytics.SentimentBreakdown `json:"sentiments"`
}

// DepartmentResponse carries the per-department averages.
type DepartmentResponse struct {
	Departments []analytics.DepartmentStat `json:"departments"`
	Unmatched   []string                   `json:"unmatched_labels,omitempty"`
}

// StationResponse carries the per-station breakdown and the headline top-3 lists.
type StationResponse struct {
	Stations    []analytics.StationStat      `json:"stations"`
	TopByRating []analytics.StationStat      `json:"top_by_rating"`
	TopByCount  []analytics.StationStat      `json:"top_by_count"`
	Sentiments  analytics.SentimentBreakdown `json:"sentiments"`
}

// TrendResponse carries the zero-filled daily series.
type TrendResponse struct {
	Points     []analytics.DailyTrendPoint `json:"points"`
	WindowDays int                         `json:"window_days"`
}

// DashboardService computes the admin dashboard aggregates over the feedback
// snapshot. Every view runs the same pipeline: fetch, filter, aggregate.
type DashboardService struct {
	repo   dashboardRepository
	cache  *CacheService
	cfg    analytics.Config
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(repo dashboardRepository, cache *CacheService, cfg analytics.Config, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, cache: cache, cfg: cfg, logger: logger, now: time.Now}
}

// Summary returns the headline counts plus the sentiment breakdown.
func (s *DashboardService) Summary(ctx context.Context, filter analytics.Filter) (*SummaryResponse, bool, error) {
	key := s.cacheKey("summary", filter)

	var cached SummaryResponse
	if hit, _ := s.cacheGet(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	records, err := s.snapshot(ctx, filter)
	if err != nil {
		return nil, false, err
	}

	resp := &SummaryResponse{
		Summary:    analytics.Summarize(records, s.now()),
		Sentiments: analytics.CountSentiments(records),
	}
	s.cacheSet(ctx, key, resp)
	return resp, false, nil
}

// Departments returns per-department averages with improvement flags, plus
// any labels the normaliser could not place.
func (s *DashboardService) Departments(ctx context.Context, filter analytics.Filter) (*DepartmentResponse, bool, error) {
	key := s.cacheKey("departments", filter)

	var cached DepartmentResponse
	if hit, _ := s.cacheGet(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	records, err := s.snapshot(ctx, filter)
	if err != nil {
		return nil, false, err
	}

	report := analytics.AggregateDepartments(records, s.cfg)
	resp := &DepartmentResponse{Departments: report.Stats, Unmatched: report.Unmatched}
	s.cacheSet(ctx, key, resp)
	return resp, false, nil
}

// Stations returns the per-station breakdown and top-3 lists.
func (s *DashboardService) Stations(ctx context.Context, filter analytics.Filter) (*StationResponse, bool, error) {
	key := s.cacheKey("stations", filter)

	var cached StationResponse
	if hit, _ := s.cacheGet(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	records, err := s.snapshot(ctx, filter)
	if err != nil {
		return nil, false, err
	}

	stats := analytics.AggregateStations(records)
	resp := &StationResponse{
		Stations:    stats,
		TopByRating: analytics.TopByRating(stats, 3),
		TopByCount:  analytics.TopByCount(stats, 3),
		Sentiments:  analytics.CountSentiments(records),
	}
	s.cacheSet(ctx, key, resp)
	return resp, false, nil
}

// Trend returns the daily submission counts over the configured window.
func (s *DashboardService) Trend(ctx context.Context, filter analytics.Filter) (*TrendResponse, bool, error) {
	key := s.cacheKey("trend", filter)

	var cached TrendResponse
	if hit, _ := s.cacheGet(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	records, err := s.snapshot(ctx, filter)
	if err != nil {
		return nil, false, err
	}

	resp := &TrendResponse{
		Points:     analytics.DailyTrend(records, s.now(), s.cfg.TrendWindowDays),
		WindowDays: s.cfg.TrendWindowDays,
	}
	s.cacheSet(ctx, key, resp)
	return resp, false, nil
}

func (s *DashboardService) snapshot(ctx context.Context, filter analytics.Filter) ([]models.Feedback, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch feedback")
	}
	return analytics.Apply(records, filter), nil
}

func (s *DashboardService) cacheKey(view string, f analytics.Filter) string {
	from, to := "", ""
	if f.From != nil {
		from = f.From.Format("2006-01-02")
	}
	if f.To != nil {
		to = f.To.Format("2006-01-02")
	}
	return fmt.Sprintf("dash:%s:%s:%s:%s:%s", view, from, to, f.Station, f.Sentiment)
}

func (s *DashboardService) cacheGet(ctx context.Context, key string, dest interface{}) (bool, error) {
	if s.cache == nil {
		return false, nil
	}
	return s.cache.Get(ctx, key, dest)
}

func (s *DashboardService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, 0); err != nil {
		s.logger.Warn("dashboard cache store failed", zap.String("key", key), zap.Error(err))
	}
}
