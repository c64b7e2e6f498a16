package store

import (
	"context"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/skateparkfinder/skatepark-backend/pkg/db/models"
	"github.com/skateparkfinder/skatepark-backend/pkg/enums"
)

// Memory keeps both collections in process. Safe for concurrent use; every read
// returns a deep copy.
type Memory struct {
	mu sync.RWMutex

	venues      map[int64]models.Skatepark
	venueOrder  []int64
	nextVenueID int64

	submissions      map[int64]models.SkateparkSubmission
	submissionOrder  []int64
	nextSubmissionID int64

	now func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		venues:           make(map[int64]models.Skatepark),
		nextVenueID:      1,
		submissions:      make(map[int64]models.SkateparkSubmission),
		nextSubmissionID: 1,
		now:              time.Now,
	}
}

func (m *Memory) CreateVenue(ctx context.Context, venue models.Skatepark) (*models.Skatepark, error) {
	if err := requireVenueFields(venue); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record := venue.Clone()
	record.ID = m.nextVenueID
	if record.Features == nil {
		record.Features = pq.StringArray{}
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = m.now().UTC()
	}
	m.nextVenueID++

	m.venues[record.ID] = record
	m.venueOrder = append(m.venueOrder, record.ID)

	out := record.Clone()
	return &out, nil
}

func (m *Memory) GetVenueByID(ctx context.Context, id int64) (*models.Skatepark, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.venues[id]
	if !ok {
		return nil, venueNotFound(id)
	}
	out := record.Clone()
	return &out, nil
}

func (m *Memory) ListVenues(ctx context.Context, filter enums.VenueFilter) ([]models.Skatepark, error) {
	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Skatepark, 0, len(m.venueOrder))
	for _, id := range m.venueOrder {
		record := m.venues[id]
		if matchesFilter(record, filter) {
			out = append(out, record.Clone())
		}
	}
	return out, nil
}

func (m *Memory) CreateSubmission(ctx context.Context, submission models.SkateparkSubmission) (*models.SkateparkSubmission, error) {
	if err := requireSubmissionFields(submission); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record := submission.Clone()
	record.ID = m.nextSubmissionID
	record.Status = enums.SubmissionStatusPending
	record.SubmissionDate = m.now().UTC()
	record.ReviewNotes = nil
	m.nextSubmissionID++

	m.submissions[record.ID] = record
	m.submissionOrder = append(m.submissionOrder, record.ID)

	out := record.Clone()
	return &out, nil
}

func (m *Memory) GetSubmissionByID(ctx context.Context, id int64) (*models.SkateparkSubmission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.submissions[id]
	if !ok {
		return nil, submissionNotFound(id)
	}
	out := record.Clone()
	return &out, nil
}

func (m *Memory) ListSubmissions(ctx context.Context, status *enums.SubmissionStatus) ([]models.SkateparkSubmission, error) {
	if status != nil && !status.IsValid() {
		return nil, invalidStatus(*status)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.SkateparkSubmission, 0, len(m.submissionOrder))
	for _, id := range m.submissionOrder {
		record := m.submissions[id]
		if status != nil && record.Status != *status {
			continue
		}
		out = append(out, record.Clone())
	}
	return out, nil
}

func (m *Memory) UpdateSubmissionStatus(ctx context.Context, id int64, status enums.SubmissionStatus, notes *string) (*models.SkateparkSubmission, error) {
	return m.setSubmissionStatus(id, status, notes, false)
}

func (m *Memory) RestoreSubmissionStatus(ctx context.Context, id int64, status enums.SubmissionStatus, notes *string) (*models.SkateparkSubmission, error) {
	return m.setSubmissionStatus(id, status, notes, true)
}

// setSubmissionStatus leaves nil notes untouched unless exact is set.
func (m *Memory) setSubmissionStatus(id int64, status enums.SubmissionStatus, notes *string, exact bool) (*models.SkateparkSubmission, error) {
	if !status.IsValid() {
		return nil, invalidStatus(status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.submissions[id]
	if !ok {
		return nil, submissionNotFound(id)
	}
	record.Status = status
	switch {
	case notes != nil:
		n := *notes
		record.ReviewNotes = &n
	case exact:
		record.ReviewNotes = nil
	}
	m.submissions[id] = record

	out := record.Clone()
	return &out, nil
}
