package submissions

import (
	"time"

	"github.com/skateparkfinder/skatepark-backend/internal/venues"
	"github.com/skateparkfinder/skatepark-backend/pkg/db/models"
	"github.com/skateparkfinder/skatepark-backend/pkg/enums"
)

// SubmissionDTO is the moderation view of a submission.
type SubmissionDTO struct {
	ID             int64                  `json:"id"`
	Name           string                 `json:"name"`
	Description    string                 `json:"description"`
	Address        string                 `json:"address"`
	City           string                 `json:"city"`
	State          string                 `json:"state"`
	ImageURL       *string                `json:"image_url"`
	IsFree         bool                   `json:"is_free"`
	Price          *string                `json:"price"`
	Features       []string               `json:"features"`
	SubmitterName  *string                `json:"submitter_name"`
	SubmitterEmail string                 `json:"submitter_email"`
	SubmissionDate time.Time              `json:"submission_date"`
	Status         enums.SubmissionStatus `json:"status"`
	ReviewNotes    *string                `json:"review_notes"`
	Latitude       *float64               `json:"latitude"`
	Longitude      *float64               `json:"longitude"`
}

// StatusChangeDTO is returned by a status update. Skatepark is set only when the
// update approved a pending submission.
type StatusChangeDTO struct {
	Submission SubmissionDTO    `json:"submission"`
	Skatepark  *venues.VenueDTO `json:"skatepark,omitempty"`
}

// StatsDTO feeds the moderation dashboard counters.
type StatsDTO struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// CreateSubmissionInput carries a public skatepark proposal.
type CreateSubmissionInput struct {
	Name           string
	Description    string
	Address        string
	City           string
	State          string
	ImageURL       *string
	IsFree         bool
	Price          *string
	Features       []string
	SubmitterName  *string
	SubmitterEmail string
	Latitude       *float64
	Longitude      *float64
}

// FromModel maps the persisted submission into a DTO.
func FromModel(m *models.SkateparkSubmission) *SubmissionDTO {
	if m == nil {
		return nil
	}
	c := m.Clone()
	features := []string(c.Features)
	if features == nil {
		features = []string{}
	}
	return &SubmissionDTO{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		Address:        c.Address,
		City:           c.City,
		State:          c.State,
		ImageURL:       c.ImageURL,
		IsFree:         c.IsFree,
		Price:          c.Price,
		Features:       features,
		SubmitterName:  c.SubmitterName,
		SubmitterEmail: c.SubmitterEmail,
		SubmissionDate: c.SubmissionDate,
		Status:         c.Status,
		ReviewNotes:    c.ReviewNotes,
		Latitude:       c.Latitude,
		Longitude:      c.Longitude,
	}
}

func fromModels(list []models.SkateparkSubmission) []SubmissionDTO {
	out := make([]SubmissionDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
