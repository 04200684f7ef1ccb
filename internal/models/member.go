package models

import "time"

// Member is a user's membership in one guild. Roles holds role IDs and
// may reference roles that no longer exist; consumers tolerate dangling
// IDs as ordinary eventual-consistency artifacts.
type Member struct {
	GuildID  int64     `json:"guild_id,string"`
	UserID   int64     `json:"user_id,string"`
	Nickname *string   `json:"nickname,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
	Roles    []int64   `json:"roles"`
}
