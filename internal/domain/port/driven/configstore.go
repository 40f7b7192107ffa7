package driven

import (
	"context"

	"github.com/forgebyte/relaybot/internal/domain/model"
)

// ConfigStore defines the driven port for per-tenant destination mappings.
type ConfigStore interface {
	// Get returns nil, nil when the guild has no config (setup never ran).
	Get(ctx context.Context, guildID string) (*model.ServerConfig, error)

	// Upsert inserts or replaces the guild's config (last writer wins).
	Upsert(ctx context.Context, cfg model.ServerConfig) error
}
