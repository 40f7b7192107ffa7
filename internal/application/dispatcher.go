package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/forgebyte/relaybot/internal/domain/model"
	"github.com/forgebyte/relaybot/internal/domain/port/driven"
)

const (
	// ProjectCategoryName is the category that holds per-project forums.
	ProjectCategoryName = "GitHub"

	// AnnouncementsKeyword matches the server-wide announcements channel by
	// substring, so renamed variants like "bot-announcements" still resolve.
	AnnouncementsKeyword = "announcements"
)

// Dispatcher routes a normalized repository event to its destinations,
// reconciling the expected channel topology on every delivery. Missing
// channels and threads are recreated rather than reported, so manual
// deletions heal on the next event.
type Dispatcher struct {
	projects driven.ProjectStore
	configs  driven.ConfigStore
	chat     driven.ChatClient
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher. A nil logger falls back to
// slog.Default().
func NewDispatcher(projects driven.ProjectStore, configs driven.ConfigStore, chat driven.ChatClient, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		projects: projects,
		configs:  configs,
		chat:     chat,
		logger:   logger,
	}
}

// Dispatch delivers one event. Only a missing project or an unrecoverable
// forum failure stops delivery; every later destination is best effort and
// failures there are logged without blocking the others.
func (d *Dispatcher) Dispatch(ctx context.Context, e model.Event) error {
	repo := strings.ToLower(e.RepoFullName)

	project, err := d.projects.GetApproved(ctx, repo)
	if err != nil {
		return fmt.Errorf("look up project for %s: %w", repo, err)
	}
	if project == nil {
		d.logger.Info("event from unlisted project, ignoring", "repo", repo, "kind", e.Kind)
		return nil
	}

	channels, err := d.chat.GuildChannels(ctx, project.GuildID)
	if err != nil {
		return fmt.Errorf("list channels for guild %s: %w", project.GuildID, err)
	}

	forumID, err := d.ensureForum(ctx, project, channels)
	if err != nil {
		return fmt.Errorf("ensure forum for %s: %w", repo, err)
	}

	if ShouldLog(e) && !IsBotActor(e) {
		if err := d.postToActivityThread(ctx, project, forumID, e); err != nil {
			d.logger.Error("post to activity thread failed", "repo", repo, "error", err)
		}
	}

	if ShouldPost(e) {
		if err := d.postToSidebarThread(ctx, project, forumID, e); err != nil {
			d.logger.Error("post to sidebar thread failed", "repo", repo, "error", err)
		}
	}

	if ShouldAnnounce(e) {
		if err := d.postAnnouncement(ctx, project, channels, e); err != nil {
			d.logger.Error("post announcement failed", "repo", repo, "error", err)
		}
	}

	return nil
}

// ensureForum returns the project's forum channel, recreating it (and its
// parent category) if the stored id no longer exists in the guild. The
// repaired id is persisted before use.
func (d *Dispatcher) ensureForum(ctx context.Context, project *model.Project, channels model.ChannelList) (model.ChannelID, error) {
	if !project.ForumChannelID.IsZero() && channels.Contains(project.ForumChannelID) {
		return project.ForumChannelID, nil
	}

	categoryID, err := d.ensureCategory(ctx, project.GuildID, channels)
	if err != nil {
		return "", fmt.Errorf("ensure project category: %w", err)
	}

	forumID, err := d.chat.CreateForumChannel(ctx, project.GuildID, project.Name, categoryID)
	if err != nil {
		return "", fmt.Errorf("create forum channel: %w", err)
	}

	if err := d.projects.SetForumChannel(ctx, project.RepoFullName, forumID); err != nil {
		return "", fmt.Errorf("persist forum channel: %w", err)
	}

	d.logger.Info("recreated project forum", "repo", project.RepoFullName, "forum", forumID)
	project.ForumChannelID = forumID
	return forumID, nil
}

func (d *Dispatcher) ensureCategory(ctx context.Context, guildID string, channels model.ChannelList) (model.ChannelID, error) {
	if cat, ok := channels.FindCategoryExact(ProjectCategoryName); ok {
		return cat.ID, nil
	}
	return d.chat.CreateCategory(ctx, guildID, ProjectCategoryName, false)
}

// postToActivityThread logs the event in the project's pinned activity
// thread, creating the thread on first use or after manual deletion.
func (d *Dispatcher) postToActivityThread(ctx context.Context, project *model.Project, forumID model.ChannelID, e model.Event) error {
	name := ActivityThreadName(project.Name)

	threads, err := d.chat.ActiveThreads(ctx, project.GuildID)
	if err != nil {
		return fmt.Errorf("list active threads: %w", err)
	}

	var threadID model.ChannelID
	if found, ok := threads.FindUnder(forumID, name); ok && found.ID == project.ActivityThreadID {
		threadID = found.ID
	}

	if threadID.IsZero() {
		created, err := d.chat.CreateForumThread(ctx, forumID, name,
			"Project activity thread. All qualifying events are posted here.")
		if err != nil {
			return fmt.Errorf("create activity thread: %w", err)
		}
		if err := d.chat.PinAndLockThread(ctx, created); err != nil {
			d.logger.Warn("pin activity thread failed", "repo", project.RepoFullName, "error", err)
		}
		if err := d.projects.SetActivityThread(ctx, project.RepoFullName, created); err != nil {
			return fmt.Errorf("persist activity thread: %w", err)
		}
		project.ActivityThreadID = created
		threadID = created
	}

	return d.chat.SendEmbed(ctx, threadID, FormatEvent(e))
}

// postToSidebarThread posts into the milestone thread named for the event,
// creating a locked thread seeded with the embed when none exists yet.
func (d *Dispatcher) postToSidebarThread(ctx context.Context, project *model.Project, forumID model.ChannelID, e model.Event) error {
	title := MilestoneTitle(e)
	if title == "" {
		return nil
	}

	threads, err := d.chat.ActiveThreads(ctx, project.GuildID)
	if err != nil {
		return fmt.Errorf("list active threads: %w", err)
	}

	if found, ok := threads.FindUnder(forumID, title); ok {
		return d.chat.SendEmbed(ctx, found.ID, FormatEvent(e))
	}

	created, err := d.chat.CreateForumThreadEmbed(ctx, forumID, title, FormatEvent(e))
	if err != nil {
		return fmt.Errorf("create milestone thread: %w", err)
	}
	if err := d.chat.LockThread(ctx, created); err != nil {
		d.logger.Warn("lock milestone thread failed", "repo", project.RepoFullName, "error", err)
	}
	return nil
}

// postAnnouncement delivers to the server-wide announcements channel,
// repairing the stored mapping when the channel was deleted or renamed.
func (d *Dispatcher) postAnnouncement(ctx context.Context, project *model.Project, channels model.ChannelList, e model.Event) error {
	cfg, err := d.configs.Get(ctx, project.GuildID)
	if err != nil {
		return fmt.Errorf("load server config: %w", err)
	}
	if cfg == nil {
		d.logger.Info("guild not configured, skipping announcement", "guild", project.GuildID)
		return nil
	}

	if !channels.Contains(cfg.AnnouncementsID) {
		var announcementsID model.ChannelID
		if found, ok := channels.FindContaining(AnnouncementsKeyword); ok {
			announcementsID = found.ID
		} else {
			created, err := d.chat.CreateTextChannel(ctx, project.GuildID, AnnouncementsKeyword, "")
			if err != nil {
				return fmt.Errorf("recreate announcements channel: %w", err)
			}
			announcementsID = created
		}

		cfg.AnnouncementsID = announcementsID
		if err := d.configs.Upsert(ctx, *cfg); err != nil {
			return fmt.Errorf("persist repaired announcements channel: %w", err)
		}
		d.logger.Info("repaired announcements channel", "guild", project.GuildID, "channel", announcementsID)
	}

	return d.chat.SendEmbed(ctx, cfg.AnnouncementsID, FormatAnnouncement(e))
}
