//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vadimbarashkov/shortlinks/internal/adapter/repository/postgres"
	"github.com/vadimbarashkov/shortlinks/internal/entity"
	"github.com/vadimbarashkov/shortlinks/migrations"

	pgpkg "github.com/vadimbarashkov/shortlinks/pkg/postgres"
)

func setupLinkRepository(t testing.TB) *postgres.LinkRepository {
	t.Helper()

	ctx := context.Background()

	pgCont, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: "postgres:16-alpine",
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "shortlinks",
			},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgCont.Terminate(ctx); err != nil {
			t.Fatalf("Failed to terminate postgres container: %v", err)
		}
	})

	host, err := pgCont.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := pgCont.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://test:test@%s:%d/shortlinks?sslmode=disable", host, port.Int())

	if err := pgpkg.RunMigrations(migrations.Postgres, "postgres", dsn); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	db, err := pgpkg.New(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	return postgres.NewLinkRepository(db)
}

func TestLinkRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.SkipNow()
	}

	ctx := context.Background()
	repo := setupLinkRepository(t)
	now := time.Now().UTC().Truncate(time.Microsecond)
	exp := now.Add(time.Hour)

	link := &entity.Link{
		Code:      "abc123",
		TargetURL: "https://example.com/",
		CreatedAt: now,
		ExpiresAt: &exp,
	}

	require.NoError(t, repo.Add(ctx, link))

	t.Run("duplicate code", func(t *testing.T) {
		err := repo.Add(ctx, &entity.Link{Code: "abc123", TargetURL: "https://other.example/", CreatedAt: now})

		assert.ErrorIs(t, err, entity.ErrConflict)
	})

	t.Run("exists", func(t *testing.T) {
		exists, err := repo.Exists(ctx, "abc123")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.Exists(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("update and read back", func(t *testing.T) {
		first, err := repo.GetByCode(ctx, "abc123")
		require.NoError(t, err)
		stale, err := repo.GetByCode(ctx, "abc123")
		require.NoError(t, err)

		first.RecordAccess(now)
		require.NoError(t, repo.Update(ctx, first))

		stale.RecordAccess(now)
		assert.ErrorIs(t, repo.Update(ctx, stale), entity.ErrConflict)

		got, err := repo.GetByCode(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ClickCount)
		assert.True(t, exp.Equal(*got.ExpiresAt))
		assert.True(t, now.Equal(*got.LastAccessedAt))
	})

	t.Run("not found", func(t *testing.T) {
		got, err := repo.GetByCode(ctx, "missing")

		assert.ErrorIs(t, err, entity.ErrNotFound)
		assert.Nil(t, got)
	})
}
