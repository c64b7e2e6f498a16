// Package store owns the skatepark and submission collections. Two interchangeable
// implementations are provided: an in-memory store for tests and local runs, and a
// GORM-backed store for postgres or sqlite.
package store

import (
	"context"
	"strings"

	"github.com/skateparkfinder/skatepark-backend/pkg/db/models"
	"github.com/skateparkfinder/skatepark-backend/pkg/enums"
	pkgerrors "github.com/skateparkfinder/skatepark-backend/pkg/errors"
)

// Store is the persistence contract shared by every backend. Implementations
// return *pkgerrors.Error values coded NOT_FOUND, VALIDATION_ERROR or PERSISTENCE_ERROR.
type Store interface {
	CreateVenue(ctx context.Context, venue models.Skatepark) (*models.Skatepark, error)
	GetVenueByID(ctx context.Context, id int64) (*models.Skatepark, error)
	// ListVenues returns venues in insertion order.
	ListVenues(ctx context.Context, filter enums.VenueFilter) ([]models.Skatepark, error)

	CreateSubmission(ctx context.Context, submission models.SkateparkSubmission) (*models.SkateparkSubmission, error)
	GetSubmissionByID(ctx context.Context, id int64) (*models.SkateparkSubmission, error)
	// ListSubmissions returns submissions in insertion order; a nil status lists all.
	ListSubmissions(ctx context.Context, status *enums.SubmissionStatus) ([]models.SkateparkSubmission, error)
	// UpdateSubmissionStatus sets the status and, when notes is non-nil, the review notes.
	// It never creates a venue.
	UpdateSubmissionStatus(ctx context.Context, id int64, status enums.SubmissionStatus, notes *string) (*models.SkateparkSubmission, error)
	// RestoreSubmissionStatus writes status and notes exactly; a nil notes clears them.
	RestoreSubmissionStatus(ctx context.Context, id int64, status enums.SubmissionStatus, notes *string) (*models.SkateparkSubmission, error)
}

func venueNotFound(id int64) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "skatepark not found").
		WithDetails(map[string]any{"id": id})
}

func submissionNotFound(id int64) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "submission not found").
		WithDetails(map[string]any{"id": id})
}

func invalidStatus(status enums.SubmissionStatus) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid submission status").
		WithDetails(map[string]any{
			"status":  status.String(),
			"allowed": enums.SubmissionStatuses(),
		})
}

func invalidFilter(filter enums.VenueFilter) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid skatepark filter").
		WithDetails(map[string]any{"filter": filter.String()})
}

func requireVenueFields(v models.Skatepark) error {
	return requireFields("skatepark is missing required fields", map[string]string{
		"name":        v.Name,
		"description": v.Description,
		"address":     v.Address,
		"city":        v.City,
		"state":       v.State,
	})
}

func requireSubmissionFields(s models.SkateparkSubmission) error {
	return requireFields("submission is missing required fields", map[string]string{
		"name":            s.Name,
		"description":     s.Description,
		"address":         s.Address,
		"city":            s.City,
		"state":           s.State,
		"submitter_email": s.SubmitterEmail,
	})
}

func requireFields(message string, fields map[string]string) error {
	var missing []string
	for _, name := range requiredFieldOrder {
		value, ok := fields[name]
		if ok && strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, message).
		WithDetails(map[string]any{"missing": missing})
}

var requiredFieldOrder = []string{"name", "description", "address", "city", "state", "submitter_email"}

func matchesFilter(v models.Skatepark, filter enums.VenueFilter) bool {
	switch filter {
	case enums.VenueFilterFree:
		return v.IsFree
	case enums.VenueFilterPaid:
		return !v.IsFree
	case enums.VenueFilterFeatured:
		return v.IsFeatured
	default:
		return true
	}
}

func normalizeFilter(filter enums.VenueFilter) (enums.VenueFilter, error) {
	if filter == "" {
		return enums.VenueFilterAll, nil
	}
	if !filter.IsValid() {
		return "", invalidFilter(filter)
	}
	return filter, nil
}
