package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// FeedbackStatus tracks the admin review state of a submission.
type FeedbackStatus string

const (
	StatusNew  FeedbackStatus = "new"
	StatusRead FeedbackStatus = "read"
)

// DepartmentRating is one department score attached to a submission. The
// department label arrives as free text and is only normalised at read time.
type DepartmentRating struct {
	Department string  `json:"department"`
	Rating     float64 `json:"rating"`
}

// DepartmentRatingList is stored as a JSONB column.
type DepartmentRatingList []DepartmentRating

// Value implements driver.Valuer.
func (l DepartmentRatingList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *DepartmentRatingList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported department_ratings type %T", src)
	}
	return json.Unmarshal(raw, l)
}

// ParseDepartmentRatings decodes the JSON-encoded form field. The boolean
// makes the lenience explicit: a malformed payload yields (nil, false) and is
// treated as an empty list by the caller, never as a request failure.
func ParseDepartmentRatings(raw string) (DepartmentRatingList, bool) {
	if raw == "" {
		return nil, true
	}
	var list DepartmentRatingList
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, false
	}
	return list, true
}

// Feedback is one citizen submission.
type Feedback struct {
	ID                string               `db:"id" json:"id"`
	Name              string               `db:"name" json:"name"`
	Phone             string               `db:"phone" json:"phone"`
	PoliceStation     string               `db:"police_station" json:"police_station,omitempty"`
	Description       string               `db:"description" json:"description"`
	OverallRating     int                  `db:"overall_rating" json:"overall_rating"`
	DepartmentRatings DepartmentRatingList `db:"department_ratings" json:"department_ratings"`
	ImageURL          string               `db:"image_url" json:"image_url,omitempty"`
	Status            FeedbackStatus       `db:"status" json:"status"`
	CreatedAt         time.Time            `db:"created_at" json:"created_at"`
}

// CreateFeedbackInput carries the raw ingestion fields from the public form.
// DepartmentRatingsJSON stays a string until the service applies the lenient
// parse; OverallRating has no upper bound at write time.
type CreateFeedbackInput struct {
	Name                  string `validate:"required"`
	Phone                 string `validate:"required"`
	PoliceStation         string
	Description           string
	OverallRating         int `validate:"required,min=1"`
	DepartmentRatingsJSON string
}
