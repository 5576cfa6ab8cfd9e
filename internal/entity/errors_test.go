package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	cause := errors.New("connection refused")

	t.Run("without cause", func(t *testing.T) {
		err := NewError(ErrConflict, "alias already in use", nil)

		assert.EqualError(t, err, "conflict: alias already in use")
		assert.ErrorIs(t, err, ErrConflict)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("with cause", func(t *testing.T) {
		err := NewError(ErrInfrastructure, "failed to add link", cause)

		assert.EqualError(t, err, "infrastructure error: failed to add link: connection refused")
		assert.ErrorIs(t, err, ErrInfrastructure)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("wrapped", func(t *testing.T) {
		err := fmt.Errorf("%s: %w", "usecase.LinkUseCase.Resolve", NewError(ErrExpired, "short link has expired", nil))

		assert.ErrorIs(t, err, ErrExpired)
		assert.Equal(t, "short link has expired", DetailOf(err))
	})

	t.Run("detail of plain error", func(t *testing.T) {
		assert.Empty(t, DetailOf(cause))
	})
}
