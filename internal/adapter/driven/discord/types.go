package discord

// Wire structs for the subset of the Discord REST API v10 the bot uses.

type channelJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     int    `json:"type"`
	ParentID string `json:"parent_id,omitempty"`
}

type createChannelRequest struct {
	Name                 string          `json:"name"`
	Type                 int             `json:"type"`
	ParentID             string          `json:"parent_id,omitempty"`
	PermissionOverwrites []overwriteJSON `json:"permission_overwrites,omitempty"`
}

// overwriteJSON denies or allows permission bits for a role or member.
// Type 0 targets a role; the everyone role shares the guild's id.
type overwriteJSON struct {
	ID    string `json:"id"`
	Type  int    `json:"type"`
	Allow string `json:"allow,omitempty"`
	Deny  string `json:"deny,omitempty"`
}

type embedJSON struct {
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description,omitempty"`
	Color       int              `json:"color,omitempty"`
	Footer      *embedFooterJSON `json:"footer,omitempty"`
}

type embedFooterJSON struct {
	Text string `json:"text"`
}

type messageRequest struct {
	Content string      `json:"content,omitempty"`
	Embeds  []embedJSON `json:"embeds,omitempty"`
}

type createThreadRequest struct {
	Name    string         `json:"name"`
	Message messageRequest `json:"message"`
}

type threadJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id"`
}

type activeThreadsResponse struct {
	Threads []threadJSON `json:"threads"`
}

type modifyThreadRequest struct {
	Locked   bool `json:"locked"`
	Archived bool `json:"archived"`
	// Flags carries CHANNEL_FLAG_PINNED (1<<1) when pinning a forum thread.
	Flags *int `json:"flags,omitempty"`
}

type guildMemberJSON struct {
	Roles []string `json:"roles"`
}

type roleJSON struct {
	ID          string `json:"id"`
	Permissions string `json:"permissions"`
}
