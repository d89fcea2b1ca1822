package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/CloudAssess/internal/config"
	"github.com/MikeSquared-Agency/CloudAssess/internal/questionnaire"
)

var ErrNoCatalog = errors.New("no catalog published")

// CatalogStore supplies the question catalog the deployer controls.
// Assessments themselves are never stored.
type CatalogStore interface {
	LoadCatalog(ctx context.Context) (*questionnaire.Catalog, error)
	Close() error
}

// StaticStore serves a catalog held in memory.
type StaticStore struct {
	catalog *questionnaire.Catalog
}

func NewStaticStore(c *questionnaire.Catalog) *StaticStore {
	return &StaticStore{catalog: c}
}

func (s *StaticStore) LoadCatalog(_ context.Context) (*questionnaire.Catalog, error) {
	if s.catalog == nil {
		return nil, ErrNoCatalog
	}
	return s.catalog, nil
}

func (s *StaticStore) Close() error { return nil }

// catalogFile is the YAML layout shared by FileStore and ParseCatalog.
type catalogFile struct {
	Version   string                   `yaml:"version"`
	Questions []questionnaire.Question `yaml:"questions"`
}

// FileStore reads a YAML catalog from disk on every load.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) LoadCatalog(_ context.Context) (*questionnaire.Catalog, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

func (s *FileStore) Close() error { return nil }

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*questionnaire.Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c, err := questionnaire.NewCatalog(f.Version, f.Questions)
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return c, nil
}

// Open returns the store selected by cfg.Catalog.Source.
func Open(ctx context.Context, cfg *config.Config) (CatalogStore, error) {
	switch cfg.Catalog.Source {
	case config.CatalogFile:
		return NewFileStore(cfg.Catalog.Path), nil
	case config.CatalogPostgres:
		return NewPostgresStore(ctx, cfg.Database.URL)
	case config.CatalogBuiltin, "":
		return NewStaticStore(questionnaire.DefaultCatalog()), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}
