package model

import "strings"

// ChannelID is an opaque destination-platform channel/thread identifier.
// The zero value means "absent". Identifiers read from the persistent store
// go through ParseChannelID so that a corrupted or non-numeric value is
// treated as absent and routed through the repair path instead of being
// carried around as a silently-wrong id.
type ChannelID string

// ParseChannelID validates a stored identifier. Anything that is not a
// non-empty decimal string parses to the zero ChannelID.
func ParseChannelID(s string) ChannelID {
	if s == "" {
		return ""
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return ChannelID(s)
}

// IsZero reports whether the identifier is absent.
func (id ChannelID) IsZero() bool { return id == "" }

func (id ChannelID) String() string { return string(id) }

// Mention renders the identifier as a clickable channel mention.
func (id ChannelID) Mention() string { return "<#" + string(id) + ">" }

// ChannelType is the destination platform's channel kind discriminator.
type ChannelType int

const (
	ChannelTypeText     ChannelType = 0
	ChannelTypeCategory ChannelType = 4
	ChannelTypeForum    ChannelType = 15
)

// Channel is one entry in a tenant's channel listing.
type Channel struct {
	ID       ChannelID
	Name     string
	Type     ChannelType
	ParentID ChannelID
}

// ChannelList is a snapshot of a tenant's channels, fetched once per
// reconciliation pass so every lookup within the pass sees the same view.
type ChannelList []Channel

// Contains reports whether the given id resolves in the listing.
// Absent ids never resolve.
func (l ChannelList) Contains(id ChannelID) bool {
	if id.IsZero() {
		return false
	}
	for _, c := range l {
		if c.ID == id {
			return true
		}
	}
	return false
}

// FindExact returns the first channel with exactly the given name.
func (l ChannelList) FindExact(name string) (Channel, bool) {
	for _, c := range l {
		if c.Name == name {
			return c, true
		}
	}
	return Channel{}, false
}

// FindContaining returns the first channel whose name contains the keyword,
// case-insensitively.
func (l ChannelList) FindContaining(keyword string) (Channel, bool) {
	keyword = strings.ToLower(keyword)
	for _, c := range l {
		if strings.Contains(strings.ToLower(c.Name), keyword) {
			return c, true
		}
	}
	return Channel{}, false
}

// FindCategoryExact returns the first category-typed channel with exactly the
// given name. Non-category channels with a matching name are skipped.
func (l ChannelList) FindCategoryExact(name string) (Channel, bool) {
	for _, c := range l {
		if c.Type == ChannelTypeCategory && c.Name == name {
			return c, true
		}
	}
	return Channel{}, false
}

// Thread is one entry in a tenant's active-thread listing.
type Thread struct {
	ID       ChannelID
	Name     string
	ParentID ChannelID
}

// ThreadList is a snapshot of a tenant's active threads.
type ThreadList []Thread

// FindUnder returns the first active thread with exactly the given name whose
// parent is the given channel.
func (l ThreadList) FindUnder(parent ChannelID, name string) (Thread, bool) {
	for _, t := range l {
		if t.ParentID == parent && t.Name == name {
			return t, true
		}
	}
	return Thread{}, false
}
