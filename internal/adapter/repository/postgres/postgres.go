// Package postgres implements the durable link store on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/shortlinks/internal/entity"
)

const uniqueViolationErrCode = "23505"

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.SQLState() == uniqueViolationErrCode
}

type linkDB struct {
	Code           string       `db:"code"`
	TargetURL      string       `db:"target_url"`
	CreatedAt      time.Time    `db:"created_at"`
	ExpiresAt      sql.NullTime `db:"expires_at"`
	ClickCount     int64        `db:"click_count"`
	LastAccessedAt sql.NullTime `db:"last_accessed_at"`
	Version        int64        `db:"version"`
}

func (l *linkDB) toEntity() *entity.Link {
	return &entity.Link{
		Code:           l.Code,
		TargetURL:      l.TargetURL,
		CreatedAt:      l.CreatedAt.UTC(),
		ExpiresAt:      nullTimePtr(l.ExpiresAt),
		ClickCount:     l.ClickCount,
		LastAccessedAt: nullTimePtr(l.LastAccessedAt),
		Version:        l.Version,
	}
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) Exists(ctx context.Context, code string) (bool, error) {
	const op = "adapter.repository.postgres.LinkRepository.Exists"
	const query = `SELECT EXISTS(SELECT 1 FROM links WHERE code = $1)`

	var exists bool

	if err := r.db.GetContext(ctx, &exists, query, code); err != nil {
		return false, fmt.Errorf("%s: %w", op,
			entity.NewError(entity.ErrInfrastructure, "failed to check code in links table", err))
	}

	return exists, nil
}

func (r *LinkRepository) Add(ctx context.Context, link *entity.Link) error {
	const op = "adapter.repository.postgres.LinkRepository.Add"
	const query = `INSERT INTO links(code, target_url, created_at, expires_at, click_count, last_accessed_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, 1)`

	_, err := r.db.ExecContext(ctx, query,
		link.Code, link.TargetURL, link.CreatedAt, link.ExpiresAt, link.ClickCount, link.LastAccessedAt)
	if err != nil {
		if isUniqueViolationError(err) {
			return fmt.Errorf("%s: %w", op, entity.NewError(entity.ErrConflict, "short code exists", err))
		}

		return fmt.Errorf("%s: %w", op,
			entity.NewError(entity.ErrInfrastructure, "failed to insert into links table", err))
	}

	link.Version = 1

	return nil
}

func (r *LinkRepository) GetByCode(ctx context.Context, code string) (*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.GetByCode"
	const query = `SELECT code, target_url, created_at, expires_at, click_count, last_accessed_at, version
		FROM links WHERE code = $1`

	var link linkDB

	if err := r.db.GetContext(ctx, &link, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.NewError(entity.ErrNotFound, "short link not found", nil))
		}

		return nil, fmt.Errorf("%s: %w", op,
			entity.NewError(entity.ErrInfrastructure, "failed to get row from links table", err))
	}

	return link.toEntity(), nil
}

// Update persists the access statistics of link. It only succeeds if the row still has
// the version link was read with; otherwise the link was modified concurrently.
func (r *LinkRepository) Update(ctx context.Context, link *entity.Link) error {
	const op = "adapter.repository.postgres.LinkRepository.Update"
	const query = `UPDATE links SET click_count = $1, last_accessed_at = $2, version = version + 1
		WHERE code = $3 AND version = $4`

	res, err := r.db.ExecContext(ctx, query, link.ClickCount, link.LastAccessedAt, link.Code, link.Version)
	if err != nil {
		return fmt.Errorf("%s: %w", op,
			entity.NewError(entity.ErrInfrastructure, "failed to update links table row", err))
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op,
			entity.NewError(entity.ErrInfrastructure, "failed to get number of affected rows", err))
	}

	if rowsAffected != 1 {
		return fmt.Errorf("%s: %w", op, entity.NewError(entity.ErrConflict, "link was modified concurrently", nil))
	}

	link.Version++

	return nil
}
