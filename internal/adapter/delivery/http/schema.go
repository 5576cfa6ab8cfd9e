package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortlinks/internal/entity"
	"github.com/vadimbarashkov/shortlinks/internal/usecase"
	"github.com/vadimbarashkov/shortlinks/pkg/problem"
)

// Problem titles, one per error kind.
const (
	titleValidation     = "ValidationError"
	titleConflict       = "ConflictError"
	titleNotFound       = "NotFoundError"
	titleExpired        = "ExpiredError"
	titleInfrastructure = "InfrastructureError"
)

// createLinkRequest represents the body of a request to create a short link.
type createLinkRequest struct {
	URL        string     `json:"url" validate:"required,max=2048"`
	Alias      string     `json:"alias,omitempty" validate:"omitempty,min=3,max=20"`
	Expiration *time.Time `json:"expiration,omitempty"`
}

func (r createLinkRequest) toInput() usecase.ShortenInput {
	return usecase.ShortenInput{
		URL:       r.URL,
		Alias:     r.Alias,
		ExpiresAt: r.Expiration,
	}
}

type createLinkResponse struct {
	Code     string `json:"code"`
	ShortURL string `json:"shortUrl"`
}

func toCreateLinkResponse(link *entity.ShortLink) createLinkResponse {
	return createLinkResponse{
		Code:     link.Code,
		ShortURL: link.ShortURL,
	}
}

// statsResponse carries the access statistics of a link. Absent timestamps are encoded as null.
type statsResponse struct {
	CreatedAt  time.Time  `json:"createdAt"`
	Clicks     int64      `json:"clicks"`
	LastAccess *time.Time `json:"lastAccess"`
	Expiration *time.Time `json:"expiration"`
}

func toStatsResponse(link *entity.Link) statsResponse {
	return statsResponse{
		CreatedAt:  link.CreatedAt,
		Clicks:     link.ClickCount,
		LastAccess: link.LastAccessedAt,
		Expiration: link.ExpiresAt,
	}
}

// Predefined problems for common scenarios.
var (
	emptyRequestBodyProblem = problem.New(
		http.StatusBadRequest,
		titleValidation,
		"empty request body",
	)

	invalidRequestBodyProblem = problem.New(
		http.StatusBadRequest,
		titleValidation,
		"invalid request body",
	)

	internalProblem = problem.New(
		http.StatusInternalServerError,
		titleInfrastructure,
		"an internal error occurred",
	)
)

// messageForTag returns a user-friendly message based on the validation tag.
func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "min":
		return "value is too short"
	case "max":
		return "value is too long"
	default:
		return "invalid value"
	}
}

func getValidationErrors(err error) []problem.FieldError {
	var fieldErrs []problem.FieldError

	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		for _, e := range errs {
			fieldErrs = append(fieldErrs, problem.FieldError{
				Field:   e.Field(),
				Message: messageForTag(e.Tag()),
			})
		}
	}

	return fieldErrs
}

func validationProblem(err error) problem.Details {
	return problem.New(http.StatusBadRequest, titleValidation, "request validation failed").
		WithErrors(getValidationErrors(err))
}
