package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/forgebyte/relaybot/internal/domain/model"
	"github.com/forgebyte/relaybot/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ConfigStore = (*ConfigRepo)(nil)

// ConfigRepo is the SQLite implementation of the ConfigStore port interface.
type ConfigRepo struct {
	db *DB
}

// NewConfigRepo creates a new ConfigRepo backed by the given DB.
func NewConfigRepo(db *DB) *ConfigRepo {
	return &ConfigRepo{db: db}
}

// Get retrieves a guild's configuration. Returns nil, nil if the guild has
// never been set up.
func (r *ConfigRepo) Get(ctx context.Context, guildID string) (*model.ServerConfig, error) {
	const query = `SELECT guild_id, announcements_id, project_category_id, mod_category_id, project_review_id, approvals_id
		FROM server_configs WHERE guild_id = ?`

	var cfg model.ServerConfig
	var announcements, category string
	var modCategory, review, approvals sql.NullString

	err := r.db.Reader.QueryRowContext(ctx, query, guildID).Scan(
		&cfg.GuildID, &announcements, &category, &modCategory, &review, &approvals,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get config for guild %s: %w", guildID, err)
	}

	cfg.AnnouncementsID = model.ParseChannelID(announcements)
	cfg.ProjectCategoryID = model.ParseChannelID(category)
	if modCategory.Valid {
		cfg.ModCategoryID = model.ParseChannelID(modCategory.String)
	}
	if review.Valid {
		cfg.ProjectReviewID = model.ParseChannelID(review.String)
	}
	if approvals.Valid {
		cfg.ApprovalsID = model.ParseChannelID(approvals.String)
	}

	return &cfg, nil
}

// Upsert inserts or replaces the guild's configuration, last writer wins.
func (r *ConfigRepo) Upsert(ctx context.Context, cfg model.ServerConfig) error {
	const query = `INSERT INTO server_configs (guild_id, announcements_id, project_category_id, mod_category_id, project_review_id, approvals_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET
			announcements_id = excluded.announcements_id,
			project_category_id = excluded.project_category_id,
			mod_category_id = excluded.mod_category_id,
			project_review_id = excluded.project_review_id,
			approvals_id = excluded.approvals_id,
			updated_at = excluded.updated_at`

	_, err := r.db.Writer.ExecContext(ctx, query,
		cfg.GuildID,
		cfg.AnnouncementsID.String(),
		cfg.ProjectCategoryID.String(),
		nullableID(cfg.ModCategoryID),
		nullableID(cfg.ProjectReviewID),
		nullableID(cfg.ApprovalsID),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert config for guild %s: %w", cfg.GuildID, err)
	}

	return nil
}

func nullableID(id model.ChannelID) any {
	if id.IsZero() {
		return nil
	}
	return id.String()
}
