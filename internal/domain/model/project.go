package model

import (
	"strings"
	"time"
)

// Project is a governed GitHub repository. RepoFullName is stored lowercase
// and compared case-insensitively; the store normalizes on write and lookup.
type Project struct {
	ID               int64
	RepoFullName     string
	Name             string
	ForumChannelID   ChannelID // zero until approved, or after out-of-band deletion
	ActivityThreadID ChannelID // zero until first qualifying event
	GuildID          string    // set once approved
	IsApproved       bool
	SubmittedAt      time.Time
}

// ShortName derives a project display name from a repo full name,
// e.g. "octo/widgets" -> "widgets".
func ShortName(repoFullName string) string {
	if i := strings.LastIndex(repoFullName, "/"); i >= 0 && i < len(repoFullName)-1 {
		return repoFullName[i+1:]
	}
	return repoFullName
}
