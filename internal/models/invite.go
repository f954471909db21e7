package models

import "time"

// Invite is a redeemable join code for a channel. MaxUses of zero means
// unlimited.
type Invite struct {
	Code      string     `json:"code"`
	ChannelID int64      `json:"channel_id,string"`
	CreatorID int64      `json:"creator_id,string"`
	MaxUses   int        `json:"max_uses"`
	Uses      int        `json:"uses"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Expired reports whether the invite's expiry has passed.
func (i *Invite) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && i.ExpiresAt.Before(now)
}

// Exhausted reports whether the invite has no uses left.
func (i *Invite) Exhausted() bool {
	return i.MaxUses > 0 && i.Uses >= i.MaxUses
}
