package models

import "time"

// Member is a user's membership record in exactly one channel. Roles are
// assigned through member_roles rows referencing the channel's active roles.
type Member struct {
	ID        int64     `json:"id,string"`
	ChannelID int64     `json:"channel_id,string"`
	UserID    int64     `json:"user_id,string"`
	JoinedAt  time.Time `json:"joined_at"`

	// ChannelRoleIDs holds the channel-role bindings assigned to the member,
	// populated on load.
	ChannelRoleIDs []int64 `json:"channel_role_ids"`
}
