package analytics

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jansamvad/police-feedback-api/internal/models"
)

// DepartmentStat is the derived per-department aggregate. Departments with no
// matched ratings never appear in a report.
type DepartmentStat struct {
	Department       string  `json:"department"`
	AverageRating    float64 `json:"average_rating"`
	FeedbackCount    int     `json:"feedback_count"`
	NeedsImprovement bool    `json:"needs_improvement"`
}

// DepartmentReport pairs the canonical aggregates with the labels that failed
// normalization, so unmatched input surfaces instead of silently vanishing.
type DepartmentReport struct {
	Stats     []DepartmentStat `json:"stats"`
	Unmatched []string         `json:"unmatched,omitempty"`
}

// Normalize maps a free-text department label onto a canonical department.
// Three tiers, first match wins: exact variant match, case-insensitive
// substring in either direction, then token-level substring for tokens of at
// least MinTokenRunes runes. When no tier matches the original label is
// returned with matched=false. This is a best-effort fuzzy classifier over
// multilingual input, not a bijection.
func (c Config) Normalize(label string) (string, bool) {
	c = c.withDefaults()
	input := strings.ToLower(strings.TrimSpace(label))
	if input == "" {
		return label, false
	}

	for _, dept := range CanonicalDepartments() {
		if strings.EqualFold(dept, input) {
			return dept, true
		}
		for _, variant := range c.Variants[dept] {
			if input == strings.ToLower(variant) {
				return dept, true
			}
		}
	}

	for _, dept := range CanonicalDepartments() {
		for _, variant := range c.Variants[dept] {
			v := strings.ToLower(variant)
			if strings.Contains(input, v) || strings.Contains(v, input) {
				return dept, true
			}
		}
	}

	for _, token := range strings.Fields(input) {
		if utf8.RuneCountInString(token) < c.MinTokenRunes {
			continue
		}
		for _, dept := range CanonicalDepartments() {
			for _, variant := range c.Variants[dept] {
				v := strings.ToLower(variant)
				if strings.Contains(v, token) || strings.Contains(token, v) {
					return dept, true
				}
			}
		}
	}

	return label, false
}

// AggregateDepartments folds every department rating of the snapshot into
// canonical buckets and averages them to one decimal place.
func AggregateDepartments(records []models.Feedback, cfg Config) DepartmentReport {
	cfg = cfg.withDefaults()

	sums := make(map[string]float64, 4)
	counts := make(map[string]int, 4)
	unmatchedSet := make(map[string]struct{})

	for _, record := range records {
		for _, entry := range record.DepartmentRatings {
			canonical, matched := cfg.Normalize(entry.Department)
			if !matched {
				if trimmed := strings.TrimSpace(entry.Department); trimmed != "" {
					unmatchedSet[trimmed] = struct{}{}
				}
				continue
			}
			sums[canonical] += entry.Rating
			counts[canonical]++
		}
	}

	report := DepartmentReport{Stats: make([]DepartmentStat, 0, len(counts))}
	for _, dept := range CanonicalDepartments() {
		count := counts[dept]
		if count == 0 {
			continue
		}
		avg := Round1(sums[dept] / float64(count))
		report.Stats = append(report.Stats, DepartmentStat{
			Department:       dept,
			AverageRating:    avg,
			FeedbackCount:    count,
			NeedsImprovement: avg < cfg.ImprovementThreshold,
		})
	}

	for label := range unmatchedSet {
		report.Unmatched = append(report.Unmatched, label)
	}
	sort.Strings(report.Unmatched)

	return report
}
