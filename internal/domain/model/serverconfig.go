package model

// ServerConfig is a tenant's destination-channel mapping. At most one config
// exists per guild; saves are upserts. The moderation category and its two
// sub-channels are optional (zero ChannelID when unset).
type ServerConfig struct {
	GuildID           string
	AnnouncementsID   ChannelID
	ProjectCategoryID ChannelID
	ModCategoryID     ChannelID
	ProjectReviewID   ChannelID
	ApprovalsID       ChannelID
}
