package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/forgebyte/relaybot/internal/domain/model"
	"github.com/forgebyte/relaybot/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ProjectStore = (*ProjectRepo)(nil)

// ProjectRepo is the SQLite implementation of the ProjectStore port interface.
// Repository names are lowercased on both writes and lookups so mixed-case
// duplicates cannot exist.
type ProjectRepo struct {
	db *DB
}

// NewProjectRepo creates a new ProjectRepo backed by the given DB.
func NewProjectRepo(db *DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

const projectColumns = `id, github_repo, name, forum_channel_id, activity_thread_id, guild_id, is_approved, submitted_at`

// Submit inserts a pending project for the repository. Returns
// driven.ErrProjectExists if the repository was already submitted.
func (r *ProjectRepo) Submit(ctx context.Context, repoFullName, guildID string) (*model.Project, error) {
	const query = `INSERT INTO projects (github_repo, name, guild_id, submitted_at) VALUES (?, ?, ?, ?)`

	repo := strings.ToLower(repoFullName)
	submittedAt := time.Now().UTC()

	result, err := r.db.Writer.ExecContext(ctx, query, repo, model.ShortName(repo), guildID, submittedAt.Format(time.RFC3339))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, fmt.Errorf("submit project %s: %w", repo, driven.ErrProjectExists)
		}
		return nil, fmt.Errorf("submit project %s: %w", repo, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read inserted id: %w", err)
	}

	return &model.Project{
		ID:           id,
		RepoFullName: repo,
		Name:         model.ShortName(repo),
		GuildID:      guildID,
		SubmittedAt:  submittedAt,
	}, nil
}

// GetByRepo retrieves a project by repository full name. Returns nil, nil if
// the project does not exist.
func (r *ProjectRepo) GetByRepo(ctx context.Context, repoFullName string) (*model.Project, error) {
	const query = `SELECT ` + projectColumns + ` FROM projects WHERE github_repo = ?`

	repo := strings.ToLower(repoFullName)

	project, err := scanProject(r.db.Reader.QueryRowContext(ctx, query, repo))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", repo, err)
	}

	return project, nil
}

// GetApproved retrieves a project only if it is approved. Returns nil, nil if
// the project does not exist or is still pending.
func (r *ProjectRepo) GetApproved(ctx context.Context, repoFullName string) (*model.Project, error) {
	const query = `SELECT ` + projectColumns + ` FROM projects WHERE github_repo = ? AND is_approved = 1`

	repo := strings.ToLower(repoFullName)

	project, err := scanProject(r.db.Reader.QueryRowContext(ctx, query, repo))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get approved project %s: %w", repo, err)
	}

	return project, nil
}

// ListByGuild returns all projects registered in a guild ordered by
// repository name.
func (r *ProjectRepo) ListByGuild(ctx context.Context, guildID string) ([]model.Project, error) {
	const query = `SELECT ` + projectColumns + ` FROM projects WHERE guild_id = ? ORDER BY github_repo`

	rows, err := r.db.Reader.QueryContext(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, *project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	return projects, nil
}

// Approve marks the project approved with its forum channel and owning guild.
// Returns driven.ErrProjectNotFound if the project does not exist.
func (r *ProjectRepo) Approve(ctx context.Context, repoFullName string, forumID model.ChannelID, guildID string) error {
	const query = `UPDATE projects SET is_approved = 1, forum_channel_id = ?, guild_id = ? WHERE github_repo = ?`

	repo := strings.ToLower(repoFullName)

	result, err := r.db.Writer.ExecContext(ctx, query, forumID.String(), guildID, repo)
	if err != nil {
		return fmt.Errorf("approve project %s: %w", repo, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("approve project %s: %w", repo, driven.ErrProjectNotFound)
	}

	return nil
}

// Deny deletes the project. Returns driven.ErrProjectNotFound if absent.
func (r *ProjectRepo) Deny(ctx context.Context, repoFullName string) error {
	const query = `DELETE FROM projects WHERE github_repo = ?`

	repo := strings.ToLower(repoFullName)

	result, err := r.db.Writer.ExecContext(ctx, query, repo)
	if err != nil {
		return fmt.Errorf("deny project %s: %w", repo, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("deny project %s: %w", repo, driven.ErrProjectNotFound)
	}

	return nil
}

// SetForumChannel rewrites the stored forum identifier.
func (r *ProjectRepo) SetForumChannel(ctx context.Context, repoFullName string, id model.ChannelID) error {
	const query = `UPDATE projects SET forum_channel_id = ? WHERE github_repo = ?`

	repo := strings.ToLower(repoFullName)

	result, err := r.db.Writer.ExecContext(ctx, query, id.String(), repo)
	if err != nil {
		return fmt.Errorf("set forum channel for %s: %w", repo, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("set forum channel for %s: %w", repo, driven.ErrProjectNotFound)
	}

	return nil
}

// SetActivityThread rewrites the stored activity-thread identifier.
func (r *ProjectRepo) SetActivityThread(ctx context.Context, repoFullName string, id model.ChannelID) error {
	const query = `UPDATE projects SET activity_thread_id = ? WHERE github_repo = ?`

	repo := strings.ToLower(repoFullName)

	result, err := r.db.Writer.ExecContext(ctx, query, id.String(), repo)
	if err != nil {
		return fmt.Errorf("set activity thread for %s: %w", repo, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("set activity thread for %s: %w", repo, driven.ErrProjectNotFound)
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (*model.Project, error) {
	var project model.Project
	var repo, forumID string
	var activityThread sql.NullString
	var approved int
	var submittedAt string

	err := s.Scan(&project.ID, &repo, &project.Name, &forumID, &activityThread, &project.GuildID, &approved, &submittedAt)
	if err != nil {
		return nil, err
	}

	project.RepoFullName = repo
	project.ForumChannelID = model.ParseChannelID(forumID)
	if activityThread.Valid {
		project.ActivityThreadID = model.ParseChannelID(activityThread.String)
	}
	project.IsApproved = approved != 0

	project.SubmittedAt, err = parseTime(submittedAt)
	if err != nil {
		return nil, fmt.Errorf("parse submitted_at: %w", err)
	}

	return &project, nil
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
