package model

// Embed is a rich message: a titled, colored block with an optional footer.
type Embed struct {
	Title       string
	Description string
	Color       int
	Footer      string
}

// Permissions is the destination platform's permission bitfield.
type Permissions uint64

const (
	PermissionAdministrator  Permissions = 1 << 3
	PermissionManageChannels Permissions = 1 << 4
	PermissionManageGuild    Permissions = 1 << 5
)

// IsModerator reports whether the bitfield carries an administrator-equivalent
// bit (ADMINISTRATOR or MANAGE_GUILD).
func (p Permissions) IsModerator() bool {
	return p&PermissionAdministrator != 0 || p&PermissionManageGuild != 0
}

// CanManageChannels reports whether channel CRUD is permitted.
func (p Permissions) CanManageChannels() bool {
	return p&PermissionAdministrator != 0 || p&PermissionManageChannels != 0
}
