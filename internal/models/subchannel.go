package models

// Subchannel is a message room inside a channel.
type Subchannel struct {
	ID        int64   `json:"id,string"`
	ChannelID int64   `json:"channel_id,string"`
	Name      string  `json:"name"`
	Topic     *string `json:"topic,omitempty"`
	Position  int     `json:"position"`
}
