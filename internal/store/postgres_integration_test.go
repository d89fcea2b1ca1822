//go:build integration

package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/MikeSquared-Agency/CloudAssess/internal/questionnaire"
)

func setupTestDB(t *testing.T) *PostgresStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	migration, err := os.ReadFile("../../migrations/001_catalog.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if _, err := s.pool.Exec(ctx, string(migration)); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	_, _ = s.pool.Exec(ctx, "TRUNCATE catalog_versions CASCADE")

	t.Cleanup(func() {
		_, _ = s.pool.Exec(ctx, "TRUNCATE catalog_versions CASCADE")
		s.Close()
	})

	return s
}

func TestLoadCatalogEmpty(t *testing.T) {
	s := setupTestDB(t)
	if _, err := s.LoadCatalog(context.Background()); !errors.Is(err, ErrNoCatalog) {
		t.Errorf("expected ErrNoCatalog, got %v", err)
	}
}

func TestPublishAndLoadCatalog(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	want := questionnaire.DefaultCatalog()
	if err := s.PublishCatalog(ctx, want); err != nil {
		t.Fatalf("PublishCatalog failed: %v", err)
	}

	got, err := s.LoadCatalog(ctx)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if got.Version() != want.Version() {
		t.Errorf("expected version %s, got %s", want.Version(), got.Version())
	}
	if got.Len() != want.Len() {
		t.Fatalf("expected %d questions, got %d", want.Len(), got.Len())
	}
	for i, q := range got.Questions() {
		w := want.Questions()[i]
		if q.ID != w.ID || q.Category != w.Category || q.Type != w.Type || q.Weight != w.Weight || len(q.Options) != len(w.Options) {
			t.Errorf("question %d: expected %+v, got %+v", i, w, q)
		}
	}

	if err := s.PublishCatalog(ctx, want); err == nil {
		t.Error("expected error publishing the same version twice")
	}

	byVersion, err := s.LoadCatalogVersion(ctx, want.Version())
	if err != nil || byVersion.Len() != want.Len() {
		t.Errorf("LoadCatalogVersion: %v, %v", byVersion, err)
	}
	if _, err := s.LoadCatalogVersion(ctx, "missing"); !errors.Is(err, ErrNoCatalog) {
		t.Errorf("expected ErrNoCatalog, got %v", err)
	}
}
