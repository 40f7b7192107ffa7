package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/forgebyte/relaybot/internal/domain/model"
	"github.com/forgebyte/relaybot/internal/domain/port/driven"
)

// Well-known channel names the setup command converges on.
const (
	ModCategoryName      = "Mod"
	ProjectReviewChannel = "project-review"
	ApprovalsChannel     = "approvals"
	AnnouncementsChannel = "announcements"
)

// AdminService implements the slash-command operations. Authorization and
// rate limiting are transport concerns and happen in the webhook handler
// before these methods run; the service assumes an authorized caller.
type AdminService struct {
	projects driven.ProjectStore
	configs  driven.ConfigStore
	chat     driven.ChatClient
	logger   *slog.Logger
}

// NewAdminService creates an AdminService. A nil logger falls back to
// slog.Default().
func NewAdminService(projects driven.ProjectStore, configs driven.ConfigStore, chat driven.ChatClient, logger *slog.Logger) *AdminService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminService{
		projects: projects,
		configs:  configs,
		chat:     chat,
		logger:   logger,
	}
}

// Setup converges the guild onto the expected channel topology and persists
// the resulting mapping. It is idempotent: existing channels are adopted,
// missing ones created.
func (s *AdminService) Setup(ctx context.Context, guildID string) (string, error) {
	perms, err := s.chat.SelfPermissions(ctx, guildID)
	if err != nil {
		s.logger.Warn("could not resolve bot permissions", "guild", guildID, "error", err)
	} else if !perms.CanManageChannels() {
		s.logger.Warn("bot lacks manage-channels permission, setup may fail", "guild", guildID)
	}

	channels, err := s.chat.GuildChannels(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("list channels: %w", err)
	}

	var announcementsID model.ChannelID
	if found, ok := channels.FindContaining(AnnouncementsKeyword); ok {
		announcementsID = found.ID
	} else {
		announcementsID, err = s.chat.CreateTextChannel(ctx, guildID, AnnouncementsChannel, "")
		if err != nil {
			return "", fmt.Errorf("create announcements channel: %w", err)
		}
	}

	var projectCategoryID model.ChannelID
	if found, ok := channels.FindCategoryExact(ProjectCategoryName); ok {
		projectCategoryID = found.ID
	} else {
		projectCategoryID, err = s.chat.CreateCategory(ctx, guildID, ProjectCategoryName, false)
		if err != nil {
			return "", fmt.Errorf("create project category: %w", err)
		}
	}

	var modCategoryID model.ChannelID
	if found, ok := channels.FindCategoryExact(ModCategoryName); ok {
		modCategoryID = found.ID
	} else {
		modCategoryID, err = s.chat.CreateCategory(ctx, guildID, ModCategoryName, true)
		if err != nil {
			return "", fmt.Errorf("create mod category: %w", err)
		}
	}

	reviewID, err := s.ensureTextChannel(ctx, guildID, channels, ProjectReviewChannel, modCategoryID)
	if err != nil {
		return "", fmt.Errorf("create project-review channel: %w", err)
	}

	approvalsID, err := s.ensureTextChannel(ctx, guildID, channels, ApprovalsChannel, modCategoryID)
	if err != nil {
		return "", fmt.Errorf("create approvals channel: %w", err)
	}

	cfg := model.ServerConfig{
		GuildID:           guildID,
		AnnouncementsID:   announcementsID,
		ProjectCategoryID: projectCategoryID,
		ModCategoryID:     modCategoryID,
		ProjectReviewID:   reviewID,
		ApprovalsID:       approvalsID,
	}
	if err := s.configs.Upsert(ctx, cfg); err != nil {
		return "", fmt.Errorf("persist server config: %w", err)
	}

	s.logger.Info("server setup complete", "guild", guildID)
	return fmt.Sprintf("✅ **Server setup complete!**\nAnnouncements: %s\nProject category: **%s**\nMod channels: %s, %s",
		announcementsID.Mention(), ProjectCategoryName, reviewID.Mention(), approvalsID.Mention()), nil
}

func (s *AdminService) ensureTextChannel(ctx context.Context, guildID string, channels model.ChannelList, name string, parent model.ChannelID) (model.ChannelID, error) {
	if found, ok := channels.FindExact(name); ok {
		return found.ID, nil
	}
	return s.chat.CreateTextChannel(ctx, guildID, name, parent)
}

// Approve marks a submitted project approved and provisions its forum
// channel. Approving an already approved project fails with
// ErrAlreadyApproved and changes nothing.
func (s *AdminService) Approve(ctx context.Context, guildID, repoFullName string) (string, error) {
	repo := strings.ToLower(repoFullName)

	cfg, err := s.configs.Get(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("load server config: %w", err)
	}
	if cfg == nil {
		return "", ErrNotConfigured
	}

	project, err := s.projects.GetByRepo(ctx, repo)
	if err != nil {
		return "", fmt.Errorf("look up project %s: %w", repo, err)
	}
	if project == nil {
		return "", fmt.Errorf("project %s: %w", repo, driven.ErrProjectNotFound)
	}
	if project.IsApproved {
		return "", fmt.Errorf("project %s: %w", repo, ErrAlreadyApproved)
	}

	channels, err := s.chat.GuildChannels(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("list channels: %w", err)
	}

	categoryID := cfg.ProjectCategoryID
	if !channels.Contains(categoryID) {
		if found, ok := channels.FindCategoryExact(ProjectCategoryName); ok {
			categoryID = found.ID
		} else {
			categoryID, err = s.chat.CreateCategory(ctx, guildID, ProjectCategoryName, false)
			if err != nil {
				return "", fmt.Errorf("recreate project category: %w", err)
			}
		}
		cfg.ProjectCategoryID = categoryID
		if err := s.configs.Upsert(ctx, *cfg); err != nil {
			return "", fmt.Errorf("persist repaired category: %w", err)
		}
	}

	forumID := project.ForumChannelID
	created := false
	if forumID.IsZero() || !channels.Contains(forumID) {
		forumID, err = s.chat.CreateForumChannel(ctx, guildID, project.Name, categoryID)
		if err != nil {
			return "", fmt.Errorf("create forum channel: %w", err)
		}
		created = true
	}

	if err := s.projects.Approve(ctx, repo, forumID, guildID); err != nil {
		return "", fmt.Errorf("approve project %s: %w", repo, err)
	}

	s.logger.Info("project approved", "repo", repo, "guild", guildID, "forum", forumID)
	if created {
		return fmt.Sprintf("✅ Project `%s` approved! Created forum channel %s.", repo, forumID.Mention()), nil
	}
	return fmt.Sprintf("✅ Project `%s` approved! Reusing forum channel %s.", repo, forumID.Mention()), nil
}

// Repair diffs the stored topology against the live guild and recreates
// whatever is missing: announcements channel, project category, and each
// approved project's forum. Repaired ids are persisted.
func (s *AdminService) Repair(ctx context.Context, guildID string) (string, error) {
	cfg, err := s.configs.Get(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("load server config: %w", err)
	}
	if cfg == nil {
		return "", ErrNotConfigured
	}

	channels, err := s.chat.GuildChannels(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("list channels: %w", err)
	}

	var repairs []string
	configDirty := false

	if !channels.Contains(cfg.AnnouncementsID) {
		var announcementsID model.ChannelID
		if found, ok := channels.FindContaining(AnnouncementsKeyword); ok {
			announcementsID = found.ID
		} else {
			announcementsID, err = s.chat.CreateTextChannel(ctx, guildID, AnnouncementsChannel, "")
			if err != nil {
				return "", fmt.Errorf("recreate announcements channel: %w", err)
			}
		}
		cfg.AnnouncementsID = announcementsID
		configDirty = true
		repairs = append(repairs, fmt.Sprintf("announcements channel %s", announcementsID.Mention()))
	}

	if !channels.Contains(cfg.ProjectCategoryID) {
		var categoryID model.ChannelID
		if found, ok := channels.FindCategoryExact(ProjectCategoryName); ok {
			categoryID = found.ID
		} else {
			categoryID, err = s.chat.CreateCategory(ctx, guildID, ProjectCategoryName, false)
			if err != nil {
				return "", fmt.Errorf("recreate project category: %w", err)
			}
		}
		cfg.ProjectCategoryID = categoryID
		configDirty = true
		repairs = append(repairs, fmt.Sprintf("project category **%s**", ProjectCategoryName))
	}

	if configDirty {
		if err := s.configs.Upsert(ctx, *cfg); err != nil {
			return "", fmt.Errorf("persist repaired config: %w", err)
		}
	}

	projects, err := s.projects.ListByGuild(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("list projects: %w", err)
	}
	for _, project := range projects {
		if !project.IsApproved {
			continue
		}
		if !project.ForumChannelID.IsZero() && channels.Contains(project.ForumChannelID) {
			continue
		}
		forumID, err := s.chat.CreateForumChannel(ctx, guildID, project.Name, cfg.ProjectCategoryID)
		if err != nil {
			return "", fmt.Errorf("recreate forum for %s: %w", project.RepoFullName, err)
		}
		if err := s.projects.SetForumChannel(ctx, project.RepoFullName, forumID); err != nil {
			return "", fmt.Errorf("persist forum for %s: %w", project.RepoFullName, err)
		}
		repairs = append(repairs, fmt.Sprintf("forum for `%s` %s", project.RepoFullName, forumID.Mention()))
	}

	if len(repairs) == 0 {
		return "Nothing to repair — all channels are in place.", nil
	}

	s.logger.Info("repairs performed", "guild", guildID, "count", len(repairs))
	return "🔧 **Repairs performed:**\n• " + strings.Join(repairs, "\n• "), nil
}

// Submit registers a project for review. Duplicate submissions surface the
// store's ErrProjectExists.
func (s *AdminService) Submit(ctx context.Context, guildID, repoFullName string) (string, error) {
	repo := strings.ToLower(repoFullName)

	if _, err := s.projects.Submit(ctx, repo, guildID); err != nil {
		return "", fmt.Errorf("submit project %s: %w", repo, err)
	}

	s.notifyReviewChannel(ctx, guildID, repo)

	s.logger.Info("project submitted", "repo", repo, "guild", guildID)
	return fmt.Sprintf("Project `%s` submitted for approval.", repo), nil
}

// notifyReviewChannel tells the moderation team about a new submission. The
// submission itself already succeeded, so delivery problems are only logged.
func (s *AdminService) notifyReviewChannel(ctx context.Context, guildID, repo string) {
	cfg, err := s.configs.Get(ctx, guildID)
	if err != nil {
		s.logger.Warn("load server config for review notice", "guild", guildID, "error", err)
		return
	}
	if cfg == nil || cfg.ProjectReviewID.IsZero() {
		return
	}

	notice := fmt.Sprintf("📨 New submission awaiting review: `%s`. Approve it with `/approve repo:%s`.", repo, repo)
	if err := s.chat.SendMessage(ctx, cfg.ProjectReviewID, notice); err != nil {
		s.logger.Warn("post review notice failed", "guild", guildID, "repo", repo, "error", err)
	}
}

// Deny removes a pending project. Approved projects are denied the same way;
// their channels are left for moderators to clean up manually.
func (s *AdminService) Deny(ctx context.Context, repoFullName string) (string, error) {
	repo := strings.ToLower(repoFullName)

	if err := s.projects.Deny(ctx, repo); err != nil {
		return "", fmt.Errorf("deny project %s: %w", repo, err)
	}

	s.logger.Info("project denied", "repo", repo)
	return fmt.Sprintf("Project `%s` denied and removed.", repo), nil
}

// List renders the guild's projects grouped by approval state.
func (s *AdminService) List(ctx context.Context, guildID string) (string, error) {
	projects, err := s.projects.ListByGuild(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("list projects: %w", err)
	}
	if len(projects) == 0 {
		return "No projects registered.", nil
	}

	var approved, pending []string
	for _, p := range projects {
		line := fmt.Sprintf("• `%s`", p.RepoFullName)
		if p.IsApproved {
			approved = append(approved, line)
		} else {
			pending = append(pending, line)
		}
	}

	var b strings.Builder
	if len(approved) > 0 {
		b.WriteString("**✅ Approved:**\n")
		b.WriteString(strings.Join(approved, "\n"))
	}
	if len(pending) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("**⏳ Pending:**\n")
		b.WriteString(strings.Join(pending, "\n"))
	}
	return b.String(), nil
}
