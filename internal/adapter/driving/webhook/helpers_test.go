package webhook_test

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/forgebyte/relaybot/internal/domain/model"
	"github.com/forgebyte/relaybot/internal/domain/port/driven"
)

// fakeStores and fakeChat back the real application services in handler
// tests, so the handlers are exercised end to end below the HTTP layer.

type fakeProjects struct {
	mu       sync.Mutex
	projects map[string]*model.Project
}

var _ driven.ProjectStore = (*fakeProjects)(nil)

func newFakeProjects() *fakeProjects {
	return &fakeProjects{projects: make(map[string]*model.Project)}
}

func (f *fakeProjects) add(p model.Project) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := p
	f.projects[p.RepoFullName] = &cp
}

func (f *fakeProjects) Submit(_ context.Context, repoFullName, guildID string) (*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projects[repoFullName]; ok {
		return nil, fmt.Errorf("submit project %s: %w", repoFullName, driven.ErrProjectExists)
	}
	p := &model.Project{
		RepoFullName: repoFullName,
		Name:         model.ShortName(repoFullName),
		GuildID:      guildID,
		SubmittedAt:  time.Now().UTC(),
	}
	f.projects[repoFullName] = p
	cp := *p
	return &cp, nil
}

func (f *fakeProjects) GetByRepo(_ context.Context, repoFullName string) (*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[repoFullName]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjects) GetApproved(_ context.Context, repoFullName string) (*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[repoFullName]
	if !ok || !p.IsApproved {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjects) ListByGuild(_ context.Context, guildID string) ([]model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Project
	for _, p := range f.projects {
		if p.GuildID == guildID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProjects) Approve(_ context.Context, repoFullName string, forumID model.ChannelID, guildID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[repoFullName]
	if !ok {
		return driven.ErrProjectNotFound
	}
	p.IsApproved = true
	p.ForumChannelID = forumID
	p.GuildID = guildID
	return nil
}

func (f *fakeProjects) Deny(_ context.Context, repoFullName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projects[repoFullName]; !ok {
		return driven.ErrProjectNotFound
	}
	delete(f.projects, repoFullName)
	return nil
}

func (f *fakeProjects) SetForumChannel(_ context.Context, repoFullName string, id model.ChannelID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[repoFullName]
	if !ok {
		return driven.ErrProjectNotFound
	}
	p.ForumChannelID = id
	return nil
}

func (f *fakeProjects) SetActivityThread(_ context.Context, repoFullName string, id model.ChannelID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[repoFullName]
	if !ok {
		return driven.ErrProjectNotFound
	}
	p.ActivityThreadID = id
	return nil
}

type fakeConfigs struct {
	mu      sync.Mutex
	configs map[string]*model.ServerConfig
}

var _ driven.ConfigStore = (*fakeConfigs)(nil)

func newFakeConfigs() *fakeConfigs {
	return &fakeConfigs{configs: make(map[string]*model.ServerConfig)}
}

func (f *fakeConfigs) Get(_ context.Context, guildID string) (*model.ServerConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cfg, ok := f.configs[guildID]
	if !ok {
		return nil, nil
	}
	cp := *cfg
	return &cp, nil
}

func (f *fakeConfigs) Upsert(_ context.Context, cfg model.ServerConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := cfg
	f.configs[cfg.GuildID] = &cp
	return nil
}

// fakeChat records sent content. Follow-ups are delivered from a goroutine,
// so access is mutex-guarded.
type fakeChat struct {
	mu       sync.Mutex
	channels model.ChannelList
	threads  model.ThreadList
	nextID   int
	embeds   map[model.ChannelID][]model.Embed

	followups []string
}

var _ driven.ChatClient = (*fakeChat)(nil)

func newFakeChat() *fakeChat {
	return &fakeChat{nextID: 9000, embeds: make(map[model.ChannelID][]model.Embed)}
}

func (f *fakeChat) followupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.followups)
}

func (f *fakeChat) lastFollowup() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.followups) == 0 {
		return ""
	}
	return f.followups[len(f.followups)-1]
}

func (f *fakeChat) embedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.embeds {
		n += len(e)
	}
	return n
}

func (f *fakeChat) mint() model.ChannelID {
	f.nextID++
	return model.ChannelID(strconv.Itoa(f.nextID))
}

func (f *fakeChat) GuildChannels(_ context.Context, _ string) (model.ChannelList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.channels, nil
}

func (f *fakeChat) CreateTextChannel(_ context.Context, _, name string, parent model.ChannelID) (model.ChannelID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := model.Channel{ID: f.mint(), Name: name, Type: model.ChannelTypeText, ParentID: parent}
	f.channels = append(f.channels, ch)
	return ch.ID, nil
}

func (f *fakeChat) CreateCategory(_ context.Context, _, name string, _ bool) (model.ChannelID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := model.Channel{ID: f.mint(), Name: name, Type: model.ChannelTypeCategory}
	f.channels = append(f.channels, ch)
	return ch.ID, nil
}

func (f *fakeChat) CreateForumChannel(_ context.Context, _, name string, parent model.ChannelID) (model.ChannelID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := model.Channel{ID: f.mint(), Name: name, Type: model.ChannelTypeForum, ParentID: parent}
	f.channels = append(f.channels, ch)
	return ch.ID, nil
}

func (f *fakeChat) ActiveThreads(_ context.Context, _ string) (model.ThreadList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.threads, nil
}

func (f *fakeChat) CreateForumThread(_ context.Context, forum model.ChannelID, name, _ string) (model.ChannelID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	th := model.Thread{ID: f.mint(), Name: name, ParentID: forum}
	f.threads = append(f.threads, th)
	return th.ID, nil
}

func (f *fakeChat) CreateForumThreadEmbed(_ context.Context, forum model.ChannelID, name string, embed model.Embed) (model.ChannelID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	th := model.Thread{ID: f.mint(), Name: name, ParentID: forum}
	f.threads = append(f.threads, th)
	f.embeds[th.ID] = append(f.embeds[th.ID], embed)
	return th.ID, nil
}

func (f *fakeChat) SendMessage(_ context.Context, _ model.ChannelID, _ string) error {
	return nil
}

func (f *fakeChat) SendEmbed(_ context.Context, channel model.ChannelID, embed model.Embed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embeds[channel] = append(f.embeds[channel], embed)
	return nil
}

func (f *fakeChat) LockThread(_ context.Context, _ model.ChannelID) error { return nil }

func (f *fakeChat) PinAndLockThread(_ context.Context, _ model.ChannelID) error { return nil }

func (f *fakeChat) SelfPermissions(_ context.Context, _ string) (model.Permissions, error) {
	return model.PermissionAdministrator, nil
}

func (f *fakeChat) SendFollowup(_ context.Context, _, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followups = append(f.followups, content)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
