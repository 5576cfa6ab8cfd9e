package problem

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	got := New(http.StatusNotFound, "NotFoundError", "short link not found")

	assert.Equal(t, Details{
		Type:   "about:blank",
		Title:  "NotFoundError",
		Status: http.StatusNotFound,
		Detail: "short link not found",
	}, got)
}

func TestWithErrors(t *testing.T) {
	base := New(http.StatusBadRequest, "ValidationError", "invalid request")
	errs := []FieldError{{Field: "url", Message: "this field is required"}}

	got := base.WithErrors(errs)

	assert.Equal(t, errs, got.Errors)
	assert.Nil(t, base.Errors)
}

func TestWrite(t *testing.T) {
	tests := []struct {
		name    string
		details Details
		want    map[string]any
	}{
		{
			name:    "without errors",
			details: New(http.StatusGone, "ExpiredError", "short link has expired"),
			want: map[string]any{
				"type":   "about:blank",
				"title":  "ExpiredError",
				"status": float64(http.StatusGone),
				"detail": "short link has expired",
			},
		},
		{
			name: "with errors",
			details: New(http.StatusBadRequest, "ValidationError", "invalid request").
				WithErrors([]FieldError{{Field: "url", Message: "invalid url"}}),
			want: map[string]any{
				"type":   "about:blank",
				"title":  "ValidationError",
				"status": float64(http.StatusBadRequest),
				"detail": "invalid request",
				"errors": []any{
					map[string]any{"field": "url", "message": "invalid url"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			require.NoError(t, Write(rec, tt.details))

			assert.Equal(t, tt.details.Status, rec.Code)
			assert.Equal(t, ContentType, rec.Header().Get("Content-Type"))

			var got map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}
