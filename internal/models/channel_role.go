package models

// ChannelRole activates a role for one channel. A role may be active in many
// channels; a channel activates at most Channel.MaxRoles roles.
type ChannelRole struct {
	ID        int64 `json:"id,string"`
	ChannelID int64 `json:"channel_id,string"`
	RoleID    int64 `json:"role_id,string"`
}
