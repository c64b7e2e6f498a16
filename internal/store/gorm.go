package store

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/skateparkfinder/skatepark-backend/pkg/db/models"
	"github.com/skateparkfinder/skatepark-backend/pkg/enums"
	pkgerrors "github.com/skateparkfinder/skatepark-backend/pkg/errors"
)

// Gorm persists both collections through GORM (postgres or sqlite).
type Gorm struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGorm builds a store bound to the provided connection.
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db, now: time.Now}
}

func (g *Gorm) CreateVenue(ctx context.Context, venue models.Skatepark) (*models.Skatepark, error) {
	if err := requireVenueFields(venue); err != nil {
		return nil, err
	}

	record := venue.Clone()
	record.ID = 0
	if record.Features == nil {
		record.Features = pq.StringArray{}
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = g.now().UTC()
	}

	if err := g.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, persistence(err, "create skatepark")
	}
	return &record, nil
}

func (g *Gorm) GetVenueByID(ctx context.Context, id int64) (*models.Skatepark, error) {
	var record models.Skatepark
	err := g.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, venueNotFound(id)
	}
	if err != nil {
		return nil, persistence(err, "load skatepark")
	}
	return &record, nil
}

func (g *Gorm) ListVenues(ctx context.Context, filter enums.VenueFilter) ([]models.Skatepark, error) {
	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	query := g.db.WithContext(ctx).Model(&models.Skatepark{})
	switch filter {
	case enums.VenueFilterFree:
		query = query.Where("is_free = ?", true)
	case enums.VenueFilterPaid:
		query = query.Where("is_free = ?", false)
	case enums.VenueFilterFeatured:
		query = query.Where("is_featured = ?", true)
	}

	records := []models.Skatepark{}
	if err := query.Order("id ASC").Find(&records).Error; err != nil {
		return nil, persistence(err, "list skateparks")
	}
	return records, nil
}

func (g *Gorm) CreateSubmission(ctx context.Context, submission models.SkateparkSubmission) (*models.SkateparkSubmission, error) {
	if err := requireSubmissionFields(submission); err != nil {
		return nil, err
	}

	record := submission.Clone()
	record.ID = 0
	record.Status = enums.SubmissionStatusPending
	record.SubmissionDate = g.now().UTC()
	record.ReviewNotes = nil

	if err := g.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, persistence(err, "create submission")
	}
	return &record, nil
}

func (g *Gorm) GetSubmissionByID(ctx context.Context, id int64) (*models.SkateparkSubmission, error) {
	return g.findSubmission(g.db.WithContext(ctx), id)
}

func (g *Gorm) ListSubmissions(ctx context.Context, status *enums.SubmissionStatus) ([]models.SkateparkSubmission, error) {
	if status != nil && !status.IsValid() {
		return nil, invalidStatus(*status)
	}

	query := g.db.WithContext(ctx).Model(&models.SkateparkSubmission{})
	if status != nil {
		query = query.Where("status = ?", status.String())
	}

	records := []models.SkateparkSubmission{}
	if err := query.Order("id ASC").Find(&records).Error; err != nil {
		return nil, persistence(err, "list submissions")
	}
	return records, nil
}

func (g *Gorm) UpdateSubmissionStatus(ctx context.Context, id int64, status enums.SubmissionStatus, notes *string) (*models.SkateparkSubmission, error) {
	return g.setSubmissionStatus(ctx, id, status, notes, false)
}

func (g *Gorm) RestoreSubmissionStatus(ctx context.Context, id int64, status enums.SubmissionStatus, notes *string) (*models.SkateparkSubmission, error) {
	return g.setSubmissionStatus(ctx, id, status, notes, true)
}

// setSubmissionStatus leaves nil notes untouched unless exact is set.
func (g *Gorm) setSubmissionStatus(ctx context.Context, id int64, status enums.SubmissionStatus, notes *string, exact bool) (*models.SkateparkSubmission, error) {
	if !status.IsValid() {
		return nil, invalidStatus(status)
	}

	var updated *models.SkateparkSubmission
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := g.findSubmission(tx, id); err != nil {
			return err
		}

		changes := map[string]any{"status": status.String()}
		switch {
		case notes != nil:
			changes["review_notes"] = *notes
		case exact:
			changes["review_notes"] = gorm.Expr("NULL")
		}
		if err := tx.Model(&models.SkateparkSubmission{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return persistence(err, "update submission status")
		}

		record, err := g.findSubmission(tx, id)
		if err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, persistence(err, "update submission status")
	}
	return updated, nil
}

func (g *Gorm) findSubmission(db *gorm.DB, id int64) (*models.SkateparkSubmission, error) {
	var record models.SkateparkSubmission
	err := db.First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, submissionNotFound(id)
	}
	if err != nil {
		return nil, persistence(err, "load submission")
	}
	return &record, nil
}

func persistence(err error, message string) error {
	return pkgerrors.Wrap(pkgerrors.CodePersistence, err, message)
}
