package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jansamvad/police-feedback-api/internal/analytics"
	"github.com/jansamvad/police-feedback-api/internal/models"
	appErrors "github.com/jansamvad/police-feedback-api/pkg/errors"
	"github.com/jansamvad/police-feedback-api/pkg/export"
)

// ExportFormat selects the rendering backend.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportResult carries the rendered document.
type ExportResult struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService renders the feedback collection as a downloadable report.
type ExportService struct {
	repo dashboardRepository
	csv  *export.CSVExporter
	pdf  *export.PDFExporter
	now  func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(repo dashboardRepository) *ExportService {
	return &ExportService{
		repo: repo,
		csv:  export.NewCSVExporter(),
		pdf:  export.NewPDFExporter(),
		now:  time.Now,
	}
}

// Export renders the filtered collection in the requested format.
func (s *ExportService) Export(ctx context.Context, format ExportFormat, filter analytics.Filter) (*ExportResult, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch feedback")
	}
	records = analytics.Apply(records, filter)

	dataset := buildDataset(records)
	stamp := s.now().Format("2006-01-02")

	switch format {
	case FormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("feedback-%s.csv", stamp),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	case FormatPDF:
		content, err := s.pdf.Render(dataset, "Citizen Feedback Report")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("feedback-%s.pdf", stamp),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func buildDataset(records []models.Feedback) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"ID", "Name", "Phone", "Police Station", "Overall Rating", "Sentiment", "Department Ratings", "Status", "Submitted At"},
	}
	for _, record := range records {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ID":                 record.ID,
			"Name":               record.Name,
			"Phone":              record.Phone,
			"Police Station":     record.PoliceStation,
			"Overall Rating":     fmt.Sprintf("%d", record.OverallRating),
			"Sentiment":          string(analytics.SentimentOf(record.OverallRating)),
			"Department Ratings": formatDepartmentRatings(record.DepartmentRatings),
			"Status":             string(record.Status),
			"Submitted At":       record.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return dataset
}

func formatDepartmentRatings(ratings models.DepartmentRatingList) string {
	if len(ratings) == 0 {
		return ""
	}
	parts := make([]string, 0, len(ratings))
	for _, r := range ratings {
		parts = append(parts, fmt.Sprintf("%s: %.0f", r.Department, r.Rating))
	}
	return strings.Join(parts, "; ")
}
