package driven

import (
	"context"
	"errors"

	"github.com/forgebyte/relaybot/internal/domain/model"
)

// Sentinel errors returned by ProjectStore implementations.
var (
	// ErrProjectNotFound indicates the requested project does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrProjectExists indicates a project for the same repository has
	// already been submitted.
	ErrProjectExists = errors.New("project already exists")
)

// ProjectStore defines the driven port for project persistence.
// Repository names are normalized to lowercase at this boundary, on both
// writes and lookups, so mixed-case duplicates cannot exist.
// Get methods return nil, nil when no matching project exists.
type ProjectStore interface {
	// Submit creates a pending (unapproved) project for the repository in
	// the given guild. Returns ErrProjectExists if the repository was
	// already submitted.
	Submit(ctx context.Context, repoFullName, guildID string) (*model.Project, error)

	GetByRepo(ctx context.Context, repoFullName string) (*model.Project, error)

	// GetApproved returns the project only if it is approved.
	GetApproved(ctx context.Context, repoFullName string) (*model.Project, error)

	ListByGuild(ctx context.Context, guildID string) ([]model.Project, error)

	// Approve marks the project approved with its forum channel and owning
	// guild. Returns ErrProjectNotFound if the project does not exist.
	Approve(ctx context.Context, repoFullName string, forumID model.ChannelID, guildID string) error

	// Deny deletes the project. Returns ErrProjectNotFound if absent.
	Deny(ctx context.Context, repoFullName string) error

	// SetForumChannel rewrites the stored forum identifier (repair path).
	SetForumChannel(ctx context.Context, repoFullName string, id model.ChannelID) error

	// SetActivityThread rewrites the stored activity-thread identifier.
	SetActivityThread(ctx context.Context, repoFullName string, id model.ChannelID) error
}
