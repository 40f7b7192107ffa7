// Package discord implements the ChatClient port against the Discord REST
// API v10 with plain HTTP.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/forgebyte/relaybot/internal/domain/model"
	"github.com/forgebyte/relaybot/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ChatClient = (*Client)(nil)

const (
	defaultBaseURL = "https://discord.com/api/v10"

	// CHANNEL_FLAG_PINNED for forum threads.
	flagPinned = 1 << 1

	// VIEW_CHANNEL permission bit, denied to everyone on private categories.
	permViewChannel = 1 << 10
)

// Client implements the driven.ChatClient port with bot-token auth.
type Client struct {
	http          *http.Client
	baseURL       string
	token         string
	applicationID string
}

// NewClient creates a production client for the given bot token and
// application id.
func NewClient(token, applicationID string) *Client {
	return &Client{
		http:          &http.Client{Timeout: 30 * time.Second},
		baseURL:       defaultBaseURL,
		token:         token,
		applicationID: applicationID,
	}
}

// NewClientWithBaseURL creates a Client against a custom base URL.
// This constructor is intended for testing against an httptest server.
func NewClientWithBaseURL(httpClient *http.Client, baseURL, token, applicationID string) *Client {
	return &Client{
		http:          httpClient,
		baseURL:       baseURL,
		token:         token,
		applicationID: applicationID,
	}
}

// GuildChannels returns a fresh snapshot of the guild's channels.
func (c *Client) GuildChannels(ctx context.Context, guildID string) (model.ChannelList, error) {
	var raw []channelJSON
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/guilds/%s/channels", guildID), nil, &raw); err != nil {
		return nil, fmt.Errorf("list guild channels: %w", err)
	}

	channels := make(model.ChannelList, 0, len(raw))
	for _, ch := range raw {
		channels = append(channels, model.Channel{
			ID:       model.ChannelID(ch.ID),
			Name:     ch.Name,
			Type:     model.ChannelType(ch.Type),
			ParentID: model.ChannelID(ch.ParentID),
		})
	}
	return channels, nil
}

// CreateTextChannel creates a text channel, optionally inside a category.
func (c *Client) CreateTextChannel(ctx context.Context, guildID, name string, parent model.ChannelID) (model.ChannelID, error) {
	req := createChannelRequest{Name: name, Type: int(model.ChannelTypeText), ParentID: parent.String()}

	var created channelJSON
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/guilds/%s/channels", guildID), req, &created); err != nil {
		return "", fmt.Errorf("create text channel %q: %w", name, err)
	}
	return model.ChannelID(created.ID), nil
}

// CreateCategory creates a category channel. A private category denies
// VIEW_CHANNEL to the everyone role, whose id equals the guild id.
func (c *Client) CreateCategory(ctx context.Context, guildID, name string, private bool) (model.ChannelID, error) {
	req := createChannelRequest{Name: name, Type: int(model.ChannelTypeCategory)}
	if private {
		req.PermissionOverwrites = []overwriteJSON{{
			ID:   guildID,
			Type: 0,
			Deny: strconv.Itoa(permViewChannel),
		}}
	}

	var created channelJSON
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/guilds/%s/channels", guildID), req, &created); err != nil {
		return "", fmt.Errorf("create category %q: %w", name, err)
	}
	return model.ChannelID(created.ID), nil
}

// CreateForumChannel creates a forum-type channel inside a category.
func (c *Client) CreateForumChannel(ctx context.Context, guildID, name string, parent model.ChannelID) (model.ChannelID, error) {
	req := createChannelRequest{Name: name, Type: int(model.ChannelTypeForum), ParentID: parent.String()}

	var created channelJSON
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/guilds/%s/channels", guildID), req, &created); err != nil {
		return "", fmt.Errorf("create forum channel %q: %w", name, err)
	}
	return model.ChannelID(created.ID), nil
}

// ActiveThreads returns the guild's active (non-archived) threads.
func (c *Client) ActiveThreads(ctx context.Context, guildID string) (model.ThreadList, error) {
	var resp activeThreadsResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/guilds/%s/threads/active", guildID), nil, &resp); err != nil {
		return nil, fmt.Errorf("list active threads: %w", err)
	}

	threads := make(model.ThreadList, 0, len(resp.Threads))
	for _, th := range resp.Threads {
		threads = append(threads, model.Thread{
			ID:       model.ChannelID(th.ID),
			Name:     th.Name,
			ParentID: model.ChannelID(th.ParentID),
		})
	}
	return threads, nil
}

// CreateForumThread creates a thread in a forum seeded with a plain message.
func (c *Client) CreateForumThread(ctx context.Context, forum model.ChannelID, name, content string) (model.ChannelID, error) {
	req := createThreadRequest{Name: name, Message: messageRequest{Content: content}}

	var created threadJSON
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/channels/%s/threads", forum), req, &created); err != nil {
		return "", fmt.Errorf("create forum thread %q: %w", name, err)
	}
	return model.ChannelID(created.ID), nil
}

// CreateForumThreadEmbed creates a thread in a forum seeded with a rich message.
func (c *Client) CreateForumThreadEmbed(ctx context.Context, forum model.ChannelID, name string, embed model.Embed) (model.ChannelID, error) {
	req := createThreadRequest{Name: name, Message: messageRequest{Embeds: []embedJSON{mapEmbed(embed)}}}

	var created threadJSON
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/channels/%s/threads", forum), req, &created); err != nil {
		return "", fmt.Errorf("create forum thread %q: %w", name, err)
	}
	return model.ChannelID(created.ID), nil
}

// SendMessage posts a plain message to a channel or thread.
func (c *Client) SendMessage(ctx context.Context, channel model.ChannelID, content string) error {
	req := messageRequest{Content: content}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/channels/%s/messages", channel), req, nil); err != nil {
		return fmt.Errorf("send message to %s: %w", channel, err)
	}
	return nil
}

// SendEmbed posts a rich message to a channel or thread.
func (c *Client) SendEmbed(ctx context.Context, channel model.ChannelID, embed model.Embed) error {
	req := messageRequest{Embeds: []embedJSON{mapEmbed(embed)}}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/channels/%s/messages", channel), req, nil); err != nil {
		return fmt.Errorf("send embed to %s: %w", channel, err)
	}
	return nil
}

// LockThread locks a thread and keeps it unarchived.
func (c *Client) LockThread(ctx context.Context, thread model.ChannelID) error {
	req := modifyThreadRequest{Locked: true, Archived: false}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/channels/%s", thread), req, nil); err != nil {
		return fmt.Errorf("lock thread %s: %w", thread, err)
	}
	return nil
}

// PinAndLockThread locks a forum thread and pins it. Forums allow a single
// pinned thread, so this is reserved for the activity thread.
func (c *Client) PinAndLockThread(ctx context.Context, thread model.ChannelID) error {
	flags := flagPinned
	req := modifyThreadRequest{Locked: true, Archived: false, Flags: &flags}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/channels/%s", thread), req, nil); err != nil {
		return fmt.Errorf("pin and lock thread %s: %w", thread, err)
	}
	return nil
}

// SelfPermissions computes the bot's effective permission bitfield in the
// guild by OR-ing the permissions of its roles.
func (c *Client) SelfPermissions(ctx context.Context, guildID string) (model.Permissions, error) {
	var member guildMemberJSON
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/guilds/%s/members/@me", guildID), nil, &member); err != nil {
		return 0, fmt.Errorf("get own guild member: %w", err)
	}

	var roles []roleJSON
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/guilds/%s/roles", guildID), nil, &roles); err != nil {
		return 0, fmt.Errorf("list guild roles: %w", err)
	}

	mine := make(map[string]bool, len(member.Roles))
	for _, id := range member.Roles {
		mine[id] = true
	}

	var perms model.Permissions
	for _, role := range roles {
		// The everyone role applies to all members and shares the guild id.
		if !mine[role.ID] && role.ID != guildID {
			continue
		}
		bits, err := strconv.ParseUint(role.Permissions, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse permissions for role %s: %w", role.ID, err)
		}
		perms |= model.Permissions(bits)
	}
	return perms, nil
}

// SendFollowup delivers a follow-up message for a previously deferred
// interaction. Follow-ups authenticate by interaction token, not bot token.
func (c *Client) SendFollowup(ctx context.Context, interactionToken, content string) error {
	req := messageRequest{Content: content}
	path := fmt.Sprintf("/webhooks/%s/%s", c.applicationID, interactionToken)
	if err := c.do(ctx, http.MethodPost, path, req, nil); err != nil {
		return fmt.Errorf("send interaction follow-up: %w", err)
	}
	return nil
}

// do executes one REST call: marshals the body when present, sets bot auth,
// and decodes the response into out when non-nil. Non-2xx responses surface
// the status and response body verbatim.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, text)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response for %s %s: %w", method, path, err)
	}
	return nil
}

func mapEmbed(e model.Embed) embedJSON {
	out := embedJSON{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	if e.Footer != "" {
		out.Footer = &embedFooterJSON{Text: e.Footer}
	}
	return out
}
