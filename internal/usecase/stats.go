package usecase

import (
	"context"
	"fmt"

	"github.com/vadimbarashkov/shortlinks/internal/entity"
)

// GetStats returns the authoritative record of code, bypassing the cache.
// Expired links are still reported.
func (uc *LinkUseCase) GetStats(ctx context.Context, code string) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.GetStats"

	if err := entity.ValidateCode(code); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	link, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get link stats: %w", op, err)
	}

	return link, nil
}
