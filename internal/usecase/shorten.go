package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vadimbarashkov/shortlinks/internal/entity"
	"github.com/vadimbarashkov/shortlinks/pkg/metrics"
)

// ShortenInput describes a link to create. Alias and ExpiresAt are optional.
type ShortenInput struct {
	URL       string
	Alias     string
	ExpiresAt *time.Time
}

// Shorten creates a new short link for in.URL, using in.Alias as the code when given
// and a generated code otherwise.
func (uc *LinkUseCase) Shorten(ctx context.Context, in ShortenInput) (*entity.ShortLink, error) {
	const op = "usecase.LinkUseCase.Shorten"

	target, err := entity.NormalizeTargetURL(in.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := uc.clock.Now()

	if in.ExpiresAt != nil {
		if err := uc.validateExpiration(*in.ExpiresAt, now); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	origin := "generated"
	var code string

	if strings.TrimSpace(in.Alias) != "" {
		origin = "alias"
		code, err = uc.claimAlias(ctx, in.Alias)
	} else {
		code, err = uc.generateCode(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	link, err := entity.NewLink(code, target, in.ExpiresAt, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := uc.repo.Add(ctx, link); err != nil {
		if errors.Is(err, entity.ErrConflict) {
			return nil, fmt.Errorf("%s: %w", op, entity.NewError(entity.ErrConflict, "short code already in use", err))
		}

		return nil, fmt.Errorf("%s: failed to add link: %w", op, err)
	}

	metrics.LinksCreated.WithLabelValues(origin).Inc()

	uc.cache.Set(ctx, code, entity.Found(target), cacheTTL(uc.opts.CacheTTL, link, now))

	return &entity.ShortLink{
		Code:     code,
		ShortURL: strings.TrimRight(uc.opts.BaseURL, "/") + "/" + code,
	}, nil
}

// validateExpiration requires expiresAt to lie strictly between now+MinTTL and now+MaxTTL.
func (uc *LinkUseCase) validateExpiration(expiresAt, now time.Time) error {
	if !expiresAt.After(now.Add(uc.opts.MinTTL)) {
		return entity.NewError(entity.ErrValidation,
			fmt.Sprintf("expiration must be more than %s from now", uc.opts.MinTTL), nil)
	}
	if !expiresAt.Before(now.Add(uc.opts.MaxTTL)) {
		return entity.NewError(entity.ErrValidation,
			fmt.Sprintf("expiration must be less than %s from now", uc.opts.MaxTTL), nil)
	}
	return nil
}

func (uc *LinkUseCase) claimAlias(ctx context.Context, alias string) (string, error) {
	if err := entity.ValidateCode(alias); err != nil {
		return "", err
	}

	exists, err := uc.repo.Exists(ctx, alias)
	if err != nil {
		return "", fmt.Errorf("failed to check alias: %w", err)
	}
	if exists {
		return "", entity.NewError(entity.ErrConflict, "alias already in use", nil)
	}

	return alias, nil
}

// generateCode draws candidates until one is free, giving up after MaxAttempts collisions.
func (uc *LinkUseCase) generateCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < uc.opts.MaxAttempts; attempt++ {
		code, err := uc.gen.Generate(uc.opts.CodeLength)
		if err != nil {
			return "", entity.NewError(entity.ErrInfrastructure, "failed to generate code", err)
		}

		exists, err := uc.repo.Exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}

	return "", entity.NewError(entity.ErrConflict, "unable to generate a unique code", nil)
}
