package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/skateparkfinder/skatepark-backend/pkg/enums"
)

// SkateparkSubmission is a user-proposed skatepark awaiting moderation.
type SkateparkSubmission struct {
	ID             int64                  `gorm:"column:id;primaryKey;autoIncrement"`
	Name           string                 `gorm:"column:name;not null"`
	Description    string                 `gorm:"column:description;not null"`
	Address        string                 `gorm:"column:address;not null"`
	City           string                 `gorm:"column:city;not null"`
	State          string                 `gorm:"column:state;not null"`
	ImageURL       *string                `gorm:"column:image_url"`
	IsFree         bool                   `gorm:"column:is_free;not null"`
	Price          *string                `gorm:"column:price"`
	Features       pq.StringArray         `gorm:"column:features;type:text[]"`
	SubmitterName  *string                `gorm:"column:submitter_name"`
	SubmitterEmail string                 `gorm:"column:submitter_email;not null"`
	SubmissionDate time.Time              `gorm:"column:submission_date;not null"`
	Status         enums.SubmissionStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	ReviewNotes    *string                `gorm:"column:review_notes"`
	Latitude       *float64               `gorm:"column:latitude"`
	Longitude      *float64               `gorm:"column:longitude"`
}

func (SkateparkSubmission) TableName() string {
	return "skatepark_submissions"
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (s SkateparkSubmission) Clone() SkateparkSubmission {
	out := s
	out.ImageURL = cloneString(s.ImageURL)
	out.Price = cloneString(s.Price)
	out.SubmitterName = cloneString(s.SubmitterName)
	out.ReviewNotes = cloneString(s.ReviewNotes)
	out.Latitude = cloneFloat(s.Latitude)
	out.Longitude = cloneFloat(s.Longitude)
	if s.Features != nil {
		out.Features = append(pq.StringArray{}, s.Features...)
	}
	return out
}
