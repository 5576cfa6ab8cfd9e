// Package problem writes RFC 7807 problem details responses.
package problem

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ContentType is the media type of problem details responses.
const ContentType = "application/problem+json"

const defaultType = "about:blank"

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Details is a problem details object. Errors is an extension member used for
// request validation failures.
type Details struct {
	Type   string       `json:"type"`
	Title  string       `json:"title"`
	Status int          `json:"status"`
	Detail string       `json:"detail,omitempty"`
	Errors []FieldError `json:"errors,omitempty"`
}

// New returns Details of type about:blank.
func New(status int, title, detail string) Details {
	return Details{
		Type:   defaultType,
		Title:  title,
		Status: status,
		Detail: detail,
	}
}

// WithErrors returns a copy of d carrying field errors.
func (d Details) WithErrors(errs []FieldError) Details {
	d.Errors = errs
	return d
}

// Write encodes d to w with the problem details media type and d.Status as the status code.
func Write(w http.ResponseWriter, d Details) error {
	const op = "problem.Write"

	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(d.Status)

	if err := json.NewEncoder(w).Encode(d); err != nil {
		return fmt.Errorf("%s: failed to encode problem: %w", op, err)
	}

	return nil
}
