package models

import "time"

// DefaultMaxRoles caps how many roles a channel may activate unless
// configured otherwise at creation time.
const DefaultMaxRoles = 10

type Channel struct {
	ID        int64     `json:"id,string"`
	Name      string    `json:"name"`
	CreatorID int64     `json:"creator_id,string"`
	MaxRoles  int       `json:"max_roles"`
	CreatedAt time.Time `json:"created_at"`
}
