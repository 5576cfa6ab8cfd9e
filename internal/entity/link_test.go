package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLink(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("expiration not in the future", func(t *testing.T) {
		link, err := NewLink("abc123", "https://example.com/", &now, now)

		assert.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, link)
	})

	t.Run("success", func(t *testing.T) {
		exp := now.Add(time.Hour)

		link, err := NewLink("abc123", "https://example.com/", &exp, now)

		require.NoError(t, err)
		assert.Equal(t, "abc123", link.Code)
		assert.Equal(t, "https://example.com/", link.TargetURL)
		assert.Equal(t, now, link.CreatedAt)
		assert.Equal(t, &exp, link.ExpiresAt)
		assert.Zero(t, link.ClickCount)
		assert.Nil(t, link.LastAccessedAt)
	})
}

func TestLink_IsExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	exp := now.Add(2 * time.Second)

	tests := []struct {
		name string
		link Link
		at   time.Time
		want bool
	}{
		{name: "no expiration", link: Link{}, at: now.Add(100 * 365 * 24 * time.Hour), want: false},
		{name: "before expiration", link: Link{ExpiresAt: &exp}, at: now.Add(time.Second), want: false},
		{name: "at expiration", link: Link{ExpiresAt: &exp}, at: exp, want: false},
		{name: "after expiration", link: Link{ExpiresAt: &exp}, at: now.Add(3 * time.Second), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.link.IsExpired(tt.at))
		})
	}
}

func TestLink_RecordAccess(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	link := Link{ClickCount: 4}

	link.RecordAccess(now)

	assert.Equal(t, int64(5), link.ClickCount)
	if assert.NotNil(t, link.LastAccessedAt) {
		assert.Equal(t, now, *link.LastAccessedAt)
	}
}

func TestCacheEntry(t *testing.T) {
	target, ok := Found("https://example.com/").Target()
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/", target)

	target, ok = Missing().Target()
	assert.False(t, ok)
	assert.Empty(t, target)

	_, ok = CacheEntry{}.Target()
	assert.False(t, ok)
}
