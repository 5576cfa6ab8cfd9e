// Package memory provides an in-process durable store stand-in for local development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/vadimbarashkov/shortlinks/internal/entity"
)

// LinkRepository keeps links in a map. Records are copied on the way in and out,
// so callers never share state with the store.
type LinkRepository struct {
	mu    sync.RWMutex
	links map[string]entity.Link
}

func NewLinkRepository() *LinkRepository {
	return &LinkRepository{links: make(map[string]entity.Link)}
}

func (r *LinkRepository) Exists(ctx context.Context, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, entity.NewError(entity.ErrInfrastructure, "failed to check code", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.links[code]
	return ok, nil
}

func (r *LinkRepository) Add(ctx context.Context, link *entity.Link) error {
	if err := ctx.Err(); err != nil {
		return entity.NewError(entity.ErrInfrastructure, "failed to add link", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.links[link.Code]; ok {
		return entity.NewError(entity.ErrConflict, "short code exists", nil)
	}

	link.Version = 1
	r.links[link.Code] = clone(link)

	return nil
}

func (r *LinkRepository) GetByCode(ctx context.Context, code string) (*entity.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, entity.NewError(entity.ErrInfrastructure, "failed to get link", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	link, ok := r.links[code]
	if !ok {
		return nil, entity.NewError(entity.ErrNotFound, "short link not found", nil)
	}

	c := clone(&link)
	return &c, nil
}

// Update persists the statistics of link if nobody updated it since it was read.
func (r *LinkRepository) Update(ctx context.Context, link *entity.Link) error {
	if err := ctx.Err(); err != nil {
		return entity.NewError(entity.ErrInfrastructure, "failed to update link", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.links[link.Code]
	if !ok || stored.Version != link.Version {
		return entity.NewError(entity.ErrConflict, "link was modified concurrently", nil)
	}

	stored.ClickCount = link.ClickCount
	stored.LastAccessedAt = copyTime(link.LastAccessedAt)
	stored.Version++
	r.links[link.Code] = stored

	link.Version = stored.Version

	return nil
}

func clone(link *entity.Link) entity.Link {
	c := *link
	c.ExpiresAt = copyTime(link.ExpiresAt)
	c.LastAccessedAt = copyTime(link.LastAccessedAt)
	return c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
