// Package usecase implements the short link pipelines: creation, resolution and statistics.
// The durable store and the volatile cache are independent collaborators composed here;
// the store is the system of record and the cache is advisory.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/vadimbarashkov/shortlinks/internal/entity"
	"github.com/vadimbarashkov/shortlinks/pkg/clock"
)

type linkRepository interface {
	Exists(ctx context.Context, code string) (bool, error)
	Add(ctx context.Context, link *entity.Link) error
	GetByCode(ctx context.Context, code string) (*entity.Link, error)
	Update(ctx context.Context, link *entity.Link) error
}

// linkCache never fails: implementations degrade errors to a miss or a no-op.
type linkCache interface {
	Get(ctx context.Context, code string) (entity.CacheEntry, bool)
	Set(ctx context.Context, code string, entry entity.CacheEntry, ttl time.Duration)
}

type codeGenerator interface {
	Generate(length int) (string, error)
}

// Options tunes the pipelines.
type Options struct {
	BaseURL          string
	CodeLength       int
	MaxAttempts      int
	MinTTL           time.Duration
	MaxTTL           time.Duration
	CacheTTL         time.Duration
	NegativeCacheTTL time.Duration
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		BaseURL:          "http://localhost:8080",
		CodeLength:       7,
		MaxAttempts:      10,
		MinTTL:           time.Minute,
		MaxTTL:           365 * 24 * time.Hour,
		CacheTTL:         24 * time.Hour,
		NegativeCacheTTL: time.Minute,
	}
}

type LinkUseCase struct {
	repo   linkRepository
	cache  linkCache
	gen    codeGenerator
	clock  clock.Clock
	opts   Options
	logger *slog.Logger
}

func New(
	repo linkRepository,
	cache linkCache,
	gen codeGenerator,
	clk clock.Clock,
	opts Options,
	logger *slog.Logger,
) *LinkUseCase {
	return &LinkUseCase{
		repo:   repo,
		cache:  cache,
		gen:    gen,
		clock:  clk,
		opts:   opts,
		logger: logger,
	}
}

// cacheTTL bounds ttl so that a positive entry never outlives the link it points to.
func cacheTTL(ttl time.Duration, link *entity.Link, now time.Time) time.Duration {
	if link.ExpiresAt == nil {
		return ttl
	}
	return min(ttl, link.ExpiresAt.Sub(now))
}
