// Package sqlite implements the durable link store on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/vadimbarashkov/shortlinks/internal/entity"
)

func isUniqueViolationError(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
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

// LinkRepository stores links in a SQLite database.
type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) Exists(ctx context.Context, code string) (bool, error) {
	const op = "adapter.repository.sqlite.LinkRepository.Exists"
	const query = `SELECT EXISTS(SELECT 1 FROM links WHERE code = ?)`

	var exists bool

	if err := r.db.GetContext(ctx, &exists, query, code); err != nil {
		return false, fmt.Errorf("%s: %w", op,
			entity.NewError(entity.ErrInfrastructure, "failed to check code in links table", err))
	}

	return exists, nil
}

func (r *LinkRepository) Add(ctx context.Context, link *entity.Link) error {
	const op = "adapter.repository.sqlite.LinkRepository.Add"
	const query = `INSERT INTO links(code, target_url, created_at, expires_at, click_count, last_accessed_at, version)
		VALUES (?, ?, ?, ?, ?, ?, 1)`

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
	const op = "adapter.repository.sqlite.LinkRepository.GetByCode"
	const query = `SELECT code, target_url, created_at, expires_at, click_count, last_accessed_at, version
		FROM links WHERE code = ?`

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

// Update persists the access statistics of link, guarded by its version.
func (r *LinkRepository) Update(ctx context.Context, link *entity.Link) error {
	const op = "adapter.repository.sqlite.LinkRepository.Update"
	const query = `UPDATE links SET click_count = ?, last_accessed_at = ?, version = version + 1
		WHERE code = ? AND version = ?`

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
