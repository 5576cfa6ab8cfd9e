package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vadimbarashkov/shortlinks/internal/entity"
	"github.com/vadimbarashkov/shortlinks/pkg/metrics"
)

// Resolve returns the live target URL of code and records the access.
// It fails with entity.ErrNotFound for unknown or syntactically invalid codes
// and with entity.ErrExpired for links past their expiry.
func (uc *LinkUseCase) Resolve(ctx context.Context, code string) (string, error) {
	const op = "usecase.LinkUseCase.Resolve"

	target, err := uc.resolve(ctx, code)
	switch {
	case err == nil:
		metrics.Resolutions.WithLabelValues("found").Inc()
		return target, nil
	case errors.Is(err, entity.ErrNotFound):
		metrics.Resolutions.WithLabelValues("not_found").Inc()
	case errors.Is(err, entity.ErrExpired):
		metrics.Resolutions.WithLabelValues("expired").Inc()
	default:
		metrics.Resolutions.WithLabelValues("error").Inc()
	}

	return "", fmt.Errorf("%s: %w", op, err)
}

func (uc *LinkUseCase) resolve(ctx context.Context, code string) (string, error) {
	if entity.ValidateCode(code) != nil {
		return "", entity.NewError(entity.ErrNotFound, "short link not found", nil)
	}

	if entry, ok := uc.cache.Get(ctx, code); ok {
		target, found := entry.Target()
		if !found {
			metrics.CacheLookups.WithLabelValues("negative").Inc()
			return "", entity.NewError(entity.ErrNotFound, "short link not found", nil)
		}

		metrics.CacheLookups.WithLabelValues("hit").Inc()

		if expired := uc.tryRecordAccess(ctx, code); expired {
			return "", entity.NewError(entity.ErrExpired, "short link has expired", nil)
		}

		return target, nil
	}

	metrics.CacheLookups.WithLabelValues("miss").Inc()

	link, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			uc.cache.Set(ctx, code, entity.Missing(), uc.opts.NegativeCacheTTL)
			return "", entity.NewError(entity.ErrNotFound, "short link not found", nil)
		}

		return "", fmt.Errorf("failed to get link: %w", err)
	}

	now := uc.clock.Now()

	if link.IsExpired(now) {
		uc.cache.Set(ctx, code, entity.Missing(), uc.opts.NegativeCacheTTL)
		return "", entity.NewError(entity.ErrExpired, "short link has expired", nil)
	}

	link.RecordAccess(now)

	if err := uc.repo.Update(ctx, link); err != nil {
		if !errors.Is(err, entity.ErrConflict) {
			return "", fmt.Errorf("failed to record access: %w", err)
		}

		// Another resolution won the race; its click is persisted, this one is dropped.
		metrics.StatsUpdateFailures.Inc()
		uc.logger.Warn("access not recorded", slog.String("code", code), slog.Any("err", err))
	}

	uc.cache.Set(ctx, code, entity.Found(link.TargetURL), cacheTTL(uc.opts.CacheTTL, link, now))

	return link.TargetURL, nil
}

// tryRecordAccess counts a resolution served from the cache. Failures are logged
// and discarded; the cached target is served regardless. It reports whether the
// backing record turned out to be expired, in which case the cached entry is
// replaced with a negative one.
func (uc *LinkUseCase) tryRecordAccess(ctx context.Context, code string) (expired bool) {
	link, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			metrics.StatsUpdateFailures.Inc()
			uc.logger.Warn("access not recorded", slog.String("code", code), slog.Any("err", err))
		}
		return false
	}

	now := uc.clock.Now()

	if link.IsExpired(now) {
		uc.cache.Set(ctx, code, entity.Missing(), uc.opts.NegativeCacheTTL)
		return true
	}

	link.RecordAccess(now)

	if err := uc.repo.Update(ctx, link); err != nil {
		metrics.StatsUpdateFailures.Inc()
		uc.logger.Warn("access not recorded", slog.String("code", code), slog.Any("err", err))
	}

	return false
}
