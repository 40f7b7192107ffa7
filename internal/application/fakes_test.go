package application_test

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/forgebyte/relaybot/internal/domain/model"
	"github.com/forgebyte/relaybot/internal/domain/port/driven"
)

// fakeProjects is an in-memory ProjectStore.
type fakeProjects struct {
	projects map[string]*model.Project
}

var _ driven.ProjectStore = (*fakeProjects)(nil)

func newFakeProjects() *fakeProjects {
	return &fakeProjects{projects: make(map[string]*model.Project)}
}

func (f *fakeProjects) add(p model.Project) {
	cp := p
	f.projects[p.RepoFullName] = &cp
}

func (f *fakeProjects) Submit(_ context.Context, repoFullName, guildID string) (*model.Project, error) {
	if _, ok := f.projects[repoFullName]; ok {
		return nil, fmt.Errorf("submit project %s: %w", repoFullName, driven.ErrProjectExists)
	}
	p := &model.Project{
		ID:           int64(len(f.projects) + 1),
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
	p, ok := f.projects[repoFullName]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjects) GetApproved(_ context.Context, repoFullName string) (*model.Project, error) {
	p, ok := f.projects[repoFullName]
	if !ok || !p.IsApproved {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjects) ListByGuild(_ context.Context, guildID string) ([]model.Project, error) {
	var out []model.Project
	for _, p := range f.projects {
		if p.GuildID == guildID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProjects) Approve(_ context.Context, repoFullName string, forumID model.ChannelID, guildID string) error {
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
	if _, ok := f.projects[repoFullName]; !ok {
		return driven.ErrProjectNotFound
	}
	delete(f.projects, repoFullName)
	return nil
}

func (f *fakeProjects) SetForumChannel(_ context.Context, repoFullName string, id model.ChannelID) error {
	p, ok := f.projects[repoFullName]
	if !ok {
		return driven.ErrProjectNotFound
	}
	p.ForumChannelID = id
	return nil
}

func (f *fakeProjects) SetActivityThread(_ context.Context, repoFullName string, id model.ChannelID) error {
	p, ok := f.projects[repoFullName]
	if !ok {
		return driven.ErrProjectNotFound
	}
	p.ActivityThreadID = id
	return nil
}

// fakeConfigs is an in-memory ConfigStore.
type fakeConfigs struct {
	configs map[string]*model.ServerConfig
	upserts int
}

var _ driven.ConfigStore = (*fakeConfigs)(nil)

func newFakeConfigs() *fakeConfigs {
	return &fakeConfigs{configs: make(map[string]*model.ServerConfig)}
}

func (f *fakeConfigs) Get(_ context.Context, guildID string) (*model.ServerConfig, error) {
	cfg, ok := f.configs[guildID]
	if !ok {
		return nil, nil
	}
	cp := *cfg
	return &cp, nil
}

func (f *fakeConfigs) Upsert(_ context.Context, cfg model.ServerConfig) error {
	cp := cfg
	f.configs[cfg.GuildID] = &cp
	f.upserts++
	return nil
}

// fakeChat is an in-memory ChatClient that mints sequential channel ids and
// records everything sent through it. Individual methods can be made to fail
// by setting errs["MethodName"].
type fakeChat struct {
	channels model.ChannelList
	threads  model.ThreadList
	perms    model.Permissions

	nextID int

	createdChannels []model.Channel
	createdThreads  []string
	embeds          map[model.ChannelID][]model.Embed
	messages        map[model.ChannelID][]string
	locked          []model.ChannelID
	pinnedLocked    []model.ChannelID
	followups       []string

	errs map[string]error
}

var _ driven.ChatClient = (*fakeChat)(nil)

func newFakeChat() *fakeChat {
	return &fakeChat{
		perms:    model.PermissionAdministrator,
		nextID:   9000,
		embeds:   make(map[model.ChannelID][]model.Embed),
		messages: make(map[model.ChannelID][]string),
		errs:     make(map[string]error),
	}
}

func (f *fakeChat) mint() model.ChannelID {
	f.nextID++
	return model.ChannelID(strconv.Itoa(f.nextID))
}

func (f *fakeChat) GuildChannels(_ context.Context, _ string) (model.ChannelList, error) {
	if err := f.errs["GuildChannels"]; err != nil {
		return nil, err
	}
	return f.channels, nil
}

func (f *fakeChat) CreateTextChannel(_ context.Context, _, name string, parent model.ChannelID) (model.ChannelID, error) {
	if err := f.errs["CreateTextChannel"]; err != nil {
		return "", err
	}
	ch := model.Channel{ID: f.mint(), Name: name, Type: model.ChannelTypeText, ParentID: parent}
	f.channels = append(f.channels, ch)
	f.createdChannels = append(f.createdChannels, ch)
	return ch.ID, nil
}

func (f *fakeChat) CreateCategory(_ context.Context, _, name string, _ bool) (model.ChannelID, error) {
	if err := f.errs["CreateCategory"]; err != nil {
		return "", err
	}
	ch := model.Channel{ID: f.mint(), Name: name, Type: model.ChannelTypeCategory}
	f.channels = append(f.channels, ch)
	f.createdChannels = append(f.createdChannels, ch)
	return ch.ID, nil
}

func (f *fakeChat) CreateForumChannel(_ context.Context, _, name string, parent model.ChannelID) (model.ChannelID, error) {
	if err := f.errs["CreateForumChannel"]; err != nil {
		return "", err
	}
	ch := model.Channel{ID: f.mint(), Name: name, Type: model.ChannelTypeForum, ParentID: parent}
	f.channels = append(f.channels, ch)
	f.createdChannels = append(f.createdChannels, ch)
	return ch.ID, nil
}

func (f *fakeChat) ActiveThreads(_ context.Context, _ string) (model.ThreadList, error) {
	if err := f.errs["ActiveThreads"]; err != nil {
		return nil, err
	}
	return f.threads, nil
}

func (f *fakeChat) CreateForumThread(_ context.Context, forum model.ChannelID, name, content string) (model.ChannelID, error) {
	if err := f.errs["CreateForumThread"]; err != nil {
		return "", err
	}
	th := model.Thread{ID: f.mint(), Name: name, ParentID: forum}
	f.threads = append(f.threads, th)
	f.createdThreads = append(f.createdThreads, name)
	f.messages[th.ID] = append(f.messages[th.ID], content)
	return th.ID, nil
}

func (f *fakeChat) CreateForumThreadEmbed(_ context.Context, forum model.ChannelID, name string, embed model.Embed) (model.ChannelID, error) {
	if err := f.errs["CreateForumThreadEmbed"]; err != nil {
		return "", err
	}
	th := model.Thread{ID: f.mint(), Name: name, ParentID: forum}
	f.threads = append(f.threads, th)
	f.createdThreads = append(f.createdThreads, name)
	f.embeds[th.ID] = append(f.embeds[th.ID], embed)
	return th.ID, nil
}

func (f *fakeChat) SendMessage(_ context.Context, channel model.ChannelID, content string) error {
	if err := f.errs["SendMessage"]; err != nil {
		return err
	}
	f.messages[channel] = append(f.messages[channel], content)
	return nil
}

func (f *fakeChat) SendEmbed(_ context.Context, channel model.ChannelID, embed model.Embed) error {
	if err := f.errs["SendEmbed"]; err != nil {
		return err
	}
	f.embeds[channel] = append(f.embeds[channel], embed)
	return nil
}

func (f *fakeChat) LockThread(_ context.Context, thread model.ChannelID) error {
	if err := f.errs["LockThread"]; err != nil {
		return err
	}
	f.locked = append(f.locked, thread)
	return nil
}

func (f *fakeChat) PinAndLockThread(_ context.Context, thread model.ChannelID) error {
	if err := f.errs["PinAndLockThread"]; err != nil {
		return err
	}
	f.pinnedLocked = append(f.pinnedLocked, thread)
	return nil
}

func (f *fakeChat) SelfPermissions(_ context.Context, _ string) (model.Permissions, error) {
	if err := f.errs["SelfPermissions"]; err != nil {
		return 0, err
	}
	return f.perms, nil
}

func (f *fakeChat) SendFollowup(_ context.Context, _, content string) error {
	if err := f.errs["SendFollowup"]; err != nil {
		return err
	}
	f.followups = append(f.followups, content)
	return nil
}
