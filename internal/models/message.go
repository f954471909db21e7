package models

import "time"

type Message struct {
	ID            int64      `json:"id,string"`
	SubchannelID  int64      `json:"subchannel_id,string"`
	AuthorID      int64      `json:"author_id,string"`
	Content       string     `json:"content"`
	AttachmentURL *string    `json:"attachment_url,omitempty"`
	Pinned        bool       `json:"pinned"`
	CreatedAt     time.Time  `json:"created_at"`
	EditedAt      *time.Time `json:"edited_at,omitempty"`
}

// MessageWithAuthor carries denormalized author fields for list responses.
type MessageWithAuthor struct {
	Message
	AuthorUsername    string  `json:"author_username"`
	AuthorDisplayName string  `json:"author_display_name"`
	AuthorAvatarHash  *string `json:"author_avatar_hash,omitempty"`
}
