package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/datainfa/compliance-cli/internal/config"
	"github.com/datainfa/compliance-cli/internal/model"
)

// Filter specifies criteria for listing stored assessments.
type Filter struct {
	Regulation   string `json:"regulation,omitempty"`
	Industry     string `json:"industry,omitempty"`
	Organization string `json:"organization,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	Offset       int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for assessment history.
type Store interface {
	CreateAssessment(ctx context.Context, a *model.Assessment) (*model.Assessment, error)
	CreateAssessments(ctx context.Context, assessments []model.Assessment) (int64, error)
	GetAssessment(ctx context.Context, id string) (*model.Assessment, error)
	ListAssessments(ctx context.Context, filter Filter) ([]model.Assessment, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open returns a Store for the configured driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
