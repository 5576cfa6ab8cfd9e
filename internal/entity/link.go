// Package entity defines the entities, value objects and errors used in the application.
package entity

import "time"

// Link maps a short code to its target URL and carries access statistics.
type Link struct {
	Code           string     // Code is the unique short code; it never changes.
	TargetURL      string     // TargetURL is the normalized absolute URL the code resolves to.
	CreatedAt      time.Time  // CreatedAt is the moment the link was created.
	ExpiresAt      *time.Time // ExpiresAt is the optional moment after which the link no longer resolves.
	ClickCount     int64      // ClickCount is the number of successful resolutions.
	LastAccessedAt *time.Time // LastAccessedAt is the moment of the last successful resolution.
	Version        int64      // Version is bumped on every persisted update.
}

// NewLink returns a link created at now. expiresAt, when set, must be after now.
func NewLink(code, targetURL string, expiresAt *time.Time, now time.Time) (*Link, error) {
	if expiresAt != nil && !expiresAt.After(now) {
		return nil, NewError(ErrValidation, "expiration must be in the future", nil)
	}

	return &Link{
		Code:      code,
		TargetURL: targetURL,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}, nil
}

// IsExpired reports whether the link is past its expiry at now.
func (l *Link) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// RecordAccess counts a successful resolution made at now.
func (l *Link) RecordAccess(now time.Time) {
	l.ClickCount++
	l.LastAccessedAt = &now
}

// ShortLink is the result of shortening a URL.
type ShortLink struct {
	Code     string
	ShortURL string
}
