package controllers

import (
	"net/http"
	"strings"

	"github.com/skateparkfinder/skatepark-backend/api/responses"
	"github.com/skateparkfinder/skatepark-backend/api/validators"
	"github.com/skateparkfinder/skatepark-backend/internal/submissions"
	"github.com/skateparkfinder/skatepark-backend/pkg/enums"
	pkgerrors "github.com/skateparkfinder/skatepark-backend/pkg/errors"
	"github.com/skateparkfinder/skatepark-backend/pkg/logger"
)

func submissionServiceUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "submission service unavailable")
}

type createSubmissionRequest struct {
	Name           string   `json:"name" validate:"required,min=3"`
	Description    string   `json:"description" validate:"required,min=20"`
	Address        string   `json:"address" validate:"required,min=5"`
	City           string   `json:"city" validate:"required,min=2"`
	State          string   `json:"state" validate:"required,min=2"`
	ImageURL       string   `json:"image_url" validate:"omitempty,http_url"`
	IsFree         bool     `json:"is_free"`
	Price          *string  `json:"price"`
	Features       []string `json:"features" validate:"max=20"`
	SubmitterName  *string  `json:"submitter_name"`
	SubmitterEmail string   `json:"submitter_email" validate:"required,email"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
}

func (r createSubmissionRequest) toInput() submissions.CreateSubmissionInput {
	return submissions.CreateSubmissionInput{
		Name:           r.Name,
		Description:    r.Description,
		Address:        r.Address,
		City:           r.City,
		State:          r.State,
		ImageURL:       optionalString(r.ImageURL),
		IsFree:         r.IsFree,
		Price:          r.Price,
		Features:       r.Features,
		SubmitterName:  r.SubmitterName,
		SubmitterEmail: r.SubmitterEmail,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
	}
}

// CreateSubmission accepts a public skatepark proposal into the pending queue.
func CreateSubmission(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, submissionServiceUnavailable())
			return
		}

		var req createSubmissionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub, err := svc.Create(r.Context(), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"id":      sub.ID,
			"status":  sub.Status,
			"message": "Skatepark submitted for review",
		})
	}
}

// optionalString maps the blank value the submit form sends to "not provided".
func optionalString(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

func AdminListSubmissions(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, submissionServiceUnavailable())
			return
		}

		var status *enums.SubmissionStatus
		if raw := r.URL.Query().Get("status"); raw != "" {
			parsed, err := enums.ParseSubmissionStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status").
					WithDetails(map[string]any{"field": "status", "allowed": enums.SubmissionStatuses()}))
				return
			}
			status = &parsed
		}

		list, err := svc.List(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminSubmissionStats(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, submissionServiceUnavailable())
			return
		}

		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func AdminGetSubmission(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, submissionServiceUnavailable())
			return
		}

		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sub)
	}
}

type updateSubmissionStatusRequest struct {
	Status      string  `json:"status" validate:"required"`
	ReviewNotes *string `json:"review_notes"`
}

// AdminUpdateSubmissionStatus moves a submission through moderation. Approving
// a pending submission also returns the published skatepark.
func AdminUpdateSubmissionStatus(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, submissionServiceUnavailable())
			return
		}

		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateSubmissionStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdateStatus(r.Context(), id, req.Status, req.ReviewNotes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
