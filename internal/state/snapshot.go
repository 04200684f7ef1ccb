// Package state holds immutable guild snapshots: one internally
// consistent view of a guild's roles, members and channels, produced
// wholesale by a synchronization layer and read by the permission
// engine. A snapshot is never mutated after construction.
package state

import "github.com/victorivanov/guildauth/internal/models"

// Snapshot is an ID-keyed view of one guild's entity graph. Lookups
// return (zero, false) for absent entities; absence is an expected
// steady state on a live guild, not an error.
type Snapshot struct {
	Guild models.Guild

	roles    map[int64]models.Role
	members  map[int64]models.Member
	channels map[int64]models.Channel
}

// NewSnapshot builds a snapshot from entity slices. The slices are
// copied into internal maps; the caller may reuse them afterwards.
func NewSnapshot(guild models.Guild, roles []models.Role, members []models.Member, channels []models.Channel) *Snapshot {
	s := &Snapshot{
		Guild:    guild,
		roles:    make(map[int64]models.Role, len(roles)),
		members:  make(map[int64]models.Member, len(members)),
		channels: make(map[int64]models.Channel, len(channels)),
	}
	for _, r := range roles {
		s.roles[r.ID] = r
	}
	for _, m := range members {
		s.members[m.UserID] = m
	}
	for _, c := range channels {
		s.channels[c.ID] = c
	}
	return s
}

// EveryoneRoleID returns the ID of the guild's implicit @everyone role.
// By convention it equals the guild's own ID. The role itself may be
// absent from the snapshot; callers treat that as absent-but-expected.
func (s *Snapshot) EveryoneRoleID() int64 {
	return s.Guild.ID
}

// Role looks up a role by ID.
func (s *Snapshot) Role(id int64) (models.Role, bool) {
	r, ok := s.roles[id]
	return r, ok
}

// Member looks up a member by user ID.
func (s *Snapshot) Member(userID int64) (models.Member, bool) {
	m, ok := s.members[userID]
	return m, ok
}

// Channel looks up a channel by ID.
func (s *Snapshot) Channel(id int64) (models.Channel, bool) {
	c, ok := s.channels[id]
	return c, ok
}

// RoleCount returns the number of roles in the snapshot.
func (s *Snapshot) RoleCount() int { return len(s.roles) }

// MemberCount returns the number of members in the snapshot.
func (s *Snapshot) MemberCount() int { return len(s.members) }
