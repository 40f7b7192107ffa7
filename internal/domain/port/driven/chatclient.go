package driven

import (
	"context"

	"github.com/forgebyte/relaybot/internal/domain/model"
)

// ChatClient defines the driven port for the destination chat platform.
// The routing core depends only on this capability set; there is one
// production REST implementation and an in-memory double for tests.
type ChatClient interface {
	// GuildChannels returns a fresh snapshot of the tenant's channels.
	GuildChannels(ctx context.Context, guildID string) (model.ChannelList, error)

	// CreateTextChannel creates a text channel, optionally inside a category
	// (zero parent means top level).
	CreateTextChannel(ctx context.Context, guildID, name string, parent model.ChannelID) (model.ChannelID, error)

	// CreateCategory creates a category channel. A private category denies
	// VIEW_CHANNEL to the everyone role.
	CreateCategory(ctx context.Context, guildID, name string, private bool) (model.ChannelID, error)

	// CreateForumChannel creates a forum-type channel inside a category.
	CreateForumChannel(ctx context.Context, guildID, name string, parent model.ChannelID) (model.ChannelID, error)

	// ActiveThreads returns the tenant's active (non-archived) threads.
	ActiveThreads(ctx context.Context, guildID string) (model.ThreadList, error)

	// CreateForumThread creates a thread in a forum seeded with a plain
	// message and returns the thread's channel id.
	CreateForumThread(ctx context.Context, forum model.ChannelID, name, content string) (model.ChannelID, error)

	// CreateForumThreadEmbed creates a thread in a forum seeded with a rich
	// message and returns the thread's channel id.
	CreateForumThreadEmbed(ctx context.Context, forum model.ChannelID, name string, embed model.Embed) (model.ChannelID, error)

	SendMessage(ctx context.Context, channel model.ChannelID, content string) error
	SendEmbed(ctx context.Context, channel model.ChannelID, embed model.Embed) error

	// LockThread locks a thread and keeps it unarchived.
	LockThread(ctx context.Context, thread model.ChannelID) error

	// PinAndLockThread locks a thread and pins it. The platform allows a
	// single pinned thread per forum, so this is reserved for the activity
	// thread.
	PinAndLockThread(ctx context.Context, thread model.ChannelID) error

	// SelfPermissions returns the bot's effective permission bitfield in the
	// guild, computed from its roles.
	SelfPermissions(ctx context.Context, guildID string) (model.Permissions, error)

	// SendFollowup delivers an asynchronous ephemeral follow-up message for
	// a previously deferred interaction.
	SendFollowup(ctx context.Context, interactionToken, content string) error
}
