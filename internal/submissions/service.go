package submissions

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/skateparkfinder/skatepark-backend/internal/venues"
	"github.com/skateparkfinder/skatepark-backend/pkg/db/models"
	"github.com/skateparkfinder/skatepark-backend/pkg/enums"
	pkgerrors "github.com/skateparkfinder/skatepark-backend/pkg/errors"
	"github.com/skateparkfinder/skatepark-backend/pkg/logger"
	"github.com/skateparkfinder/skatepark-backend/pkg/metrics"
	"github.com/skateparkfinder/skatepark-backend/pkg/pubsub"
)

type submissionStore interface {
	CreateSubmission(ctx context.Context, submission models.SkateparkSubmission) (*models.SkateparkSubmission, error)
	GetSubmissionByID(ctx context.Context, id int64) (*models.SkateparkSubmission, error)
	ListSubmissions(ctx context.Context, status *enums.SubmissionStatus) ([]models.SkateparkSubmission, error)
	UpdateSubmissionStatus(ctx context.Context, id int64, status enums.SubmissionStatus, notes *string) (*models.SkateparkSubmission, error)
	RestoreSubmissionStatus(ctx context.Context, id int64, status enums.SubmissionStatus, notes *string) (*models.SkateparkSubmission, error)
	CreateVenue(ctx context.Context, venue models.Skatepark) (*models.Skatepark, error)
}

// Service runs the moderation workflow: pending submissions are approved into
// skateparks or rejected, and any submission can be reset to pending.
type Service interface {
	Create(ctx context.Context, input CreateSubmissionInput) (*SubmissionDTO, error)
	Get(ctx context.Context, id int64) (*SubmissionDTO, error)
	List(ctx context.Context, status *enums.SubmissionStatus) ([]SubmissionDTO, error)
	UpdateStatus(ctx context.Context, id int64, status string, reviewNotes *string) (*StatusChangeDTO, error)
	Stats(ctx context.Context) (*StatsDTO, error)
}

type service struct {
	store            submissionStore
	fallbackImageURL string
	events           pubsub.EventPublisher
	metrics          *metrics.DirectoryMetrics
	logg             *logger.Logger
}

// NewService wires the workflow. events and m may be nil.
func NewService(store submissionStore, fallbackImageURL string, events pubsub.EventPublisher, m *metrics.DirectoryMetrics, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("submission store required")
	}
	if strings.TrimSpace(fallbackImageURL) == "" {
		return nil, fmt.Errorf("fallback image url required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if events == nil {
		events = pubsub.NoopPublisher{}
	}
	return &service{
		store:            store,
		fallbackImageURL: fallbackImageURL,
		events:           events,
		metrics:          m,
		logg:             logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateSubmissionInput) (*SubmissionDTO, error) {
	created, err := s.store.CreateSubmission(ctx, input.toModel())
	if err != nil {
		return nil, err
	}

	dto := FromModel(created)
	ctx = s.logg.WithSubmissionID(ctx, created.ID)
	s.logg.Info(ctx, "submission received")
	s.metrics.IncSubmissionCreated()
	pubsub.Emit(ctx, s.events, s.logg, enums.EventSubmissionCreated, created.ID, dto)
	return dto, nil
}

func (s *service) Get(ctx context.Context, id int64) (*SubmissionDTO, error) {
	submission, err := s.store.GetSubmissionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(submission), nil
}

func (s *service) List(ctx context.Context, status *enums.SubmissionStatus) ([]SubmissionDTO, error) {
	list, err := s.store.ListSubmissions(ctx, status)
	if err != nil {
		return nil, err
	}
	return fromModels(list), nil
}

func (s *service) UpdateStatus(ctx context.Context, id int64, status string, reviewNotes *string) (*StatusChangeDTO, error) {
	next, err := enums.ParseSubmissionStatus(status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid submission status").
			WithDetails(map[string]any{"status": status, "allowed": enums.SubmissionStatuses()})
	}

	current, err := s.store.GetSubmissionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status transition").
			WithDetails(map[string]any{"from": current.Status, "to": next})
	}

	updated, err := s.store.UpdateSubmissionStatus(ctx, id, next, reviewNotes)
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithFields(s.logg.WithSubmissionID(ctx, id), map[string]any{
		"from_status": current.Status.String(),
		"to_status":   next.String(),
	})

	result := &StatusChangeDTO{Submission: *FromModel(updated)}
	if current.Status == enums.SubmissionStatusPending && next == enums.SubmissionStatusApproved {
		venue, err := s.promote(ctx, updated, current)
		if err != nil {
			return nil, err
		}
		result.Skatepark = venue
	}

	s.logg.Info(ctx, "submission status updated")
	s.metrics.IncTransition(current.Status.String(), next.String())
	pubsub.Emit(ctx, s.events, s.logg, enums.EventSubmissionStatusChanged, id, result.Submission)
	return result, nil
}

// promote publishes the approved submission as a new skatepark. When the venue
// cannot be created the submission is put back to its previous status.
func (s *service) promote(ctx context.Context, approved, previous *models.SkateparkSubmission) (*venues.VenueDTO, error) {
	created, err := s.store.CreateVenue(ctx, VenueFromSubmission(approved, s.fallbackImageURL))
	if err != nil {
		if _, revertErr := s.store.RestoreSubmissionStatus(ctx, approved.ID, previous.Status, previous.ReviewNotes); revertErr != nil {
			s.logg.Error(ctx, "failed to revert submission after venue creation failure", revertErr)
		}
		return nil, err
	}

	dto := venues.FromModel(created)
	ctx = s.logg.WithVenueID(ctx, created.ID)
	s.logg.Info(ctx, "submission promoted to skatepark")
	s.metrics.IncVenueCreated("submission")
	pubsub.Emit(ctx, s.events, s.logg, enums.EventVenueCreated, created.ID, dto)
	return dto, nil
}

func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	list, err := s.store.ListSubmissions(ctx, nil)
	if err != nil {
		return nil, err
	}
	stats := &StatsDTO{Total: len(list)}
	for _, sub := range list {
		switch sub.Status {
		case enums.SubmissionStatusPending:
			stats.Pending++
		case enums.SubmissionStatusApproved:
			stats.Approved++
		case enums.SubmissionStatusRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

// VenueFromSubmission builds the skatepark published on approval. Free parks never
// carry a price, missing features become an empty set and rating starts at zero.
func VenueFromSubmission(sub *models.SkateparkSubmission, fallbackImageURL string) models.Skatepark {
	imageURL := fallbackImageURL
	if sub.ImageURL != nil && strings.TrimSpace(*sub.ImageURL) != "" {
		imageURL = strings.TrimSpace(*sub.ImageURL)
	}

	var price *string
	if !sub.IsFree && sub.Price != nil {
		p := *sub.Price
		price = &p
	}

	features := pq.StringArray{}
	features = append(features, sub.Features...)

	c := sub.Clone()
	return models.Skatepark{
		Name:        c.Name,
		Description: c.Description,
		Address:     c.Address,
		City:        c.City,
		State:       c.State,
		ImageURL:    imageURL,
		IsFree:      c.IsFree,
		Price:       price,
		Rating:      0,
		Features:    features,
		IsFeatured:  false,
		Latitude:    c.Latitude,
		Longitude:   c.Longitude,
	}
}

func (in CreateSubmissionInput) toModel() models.SkateparkSubmission {
	sub := models.SkateparkSubmission{
		Name:           strings.TrimSpace(in.Name),
		Description:    strings.TrimSpace(in.Description),
		Address:        strings.TrimSpace(in.Address),
		City:           strings.TrimSpace(in.City),
		State:          strings.TrimSpace(in.State),
		ImageURL:       trimOptional(in.ImageURL),
		IsFree:         in.IsFree,
		Price:          trimOptional(in.Price),
		SubmitterName:  trimOptional(in.SubmitterName),
		SubmitterEmail: strings.TrimSpace(in.SubmitterEmail),
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
	}
	if len(in.Features) > 0 {
		features := pq.StringArray{}
		for _, f := range in.Features {
			if trimmed := strings.TrimSpace(f); trimmed != "" {
				features = append(features, trimmed)
			}
		}
		if len(features) > 0 {
			sub.Features = features
		}
	}
	return sub
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
