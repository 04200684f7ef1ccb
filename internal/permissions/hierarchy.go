package permissions

import (
	"log/slog"

	"github.com/victorivanov/guildauth/internal/models"
	"github.com/victorivanov/guildauth/internal/state"
)

// RoleStore resolves role IDs to roles. Absence is a normal outcome.
type RoleStore interface {
	Role(id int64) (models.Role, bool)
}

// Sentinel rank assigned to a member with no resolvable roles when
// comparing hierarchy: lower than any genuine role.
const (
	unrankedRoleID   int64 = 1
	unrankedPosition int   = 0
)

// MemberHighestRole returns the highest-ranked role a member holds that
// still resolves in the store. Between roles of equal position, the one
// with the numerically smaller (older) ID ranks higher. Unresolvable
// role IDs are skipped. Returns ok=false if no role resolves.
func MemberHighestRole(member models.Member, roles RoleStore) (models.Role, bool) {
	var highest models.Role
	found := false

	for _, roleID := range member.Roles {
		role, ok := roles.Role(roleID)
		if !ok {
			slog.Debug("member references nonexistent role",
				"guildID", member.GuildID, "userID", member.UserID, "roleID", roleID)
			continue
		}

		// Skip the candidate if it has a position below the recorded
		// highest, or an equal position but a higher ID.
		if found {
			if role.Position < highest.Position ||
				(role.Position == highest.Position && role.ID > highest.ID) {
				continue
			}
		}

		highest = role
		found = true
	}

	return highest, found
}

// GreaterMemberHierarchy reports which of two users outranks the other
// in the guild, for gating moderation actions between members.
//
// Returns ok=false when either user is not a member of the guild, when
// the two IDs are the same, or when neither outranks the other (both
// unranked, or their highest roles are the same role). The guild owner
// outranks everyone regardless of roles. Otherwise the user whose
// highest role has the greater position wins; on equal positions the
// numerically smaller role ID wins.
func GreaterMemberHierarchy(snap *state.Snapshot, lhsID, rhsID int64) (int64, bool) {
	if lhsID == rhsID {
		return 0, false
	}

	lhs, ok := snap.Member(lhsID)
	if !ok {
		return 0, false
	}
	rhs, ok := snap.Member(rhsID)
	if !ok {
		return 0, false
	}

	if lhs.UserID == snap.Guild.OwnerID {
		return lhs.UserID, true
	}
	if rhs.UserID == snap.Guild.OwnerID {
		return rhs.UserID, true
	}

	lhsRoleID, lhsPos := unrankedRoleID, unrankedPosition
	if role, ok := MemberHighestRole(lhs, snap); ok {
		lhsRoleID, lhsPos = role.ID, role.Position
	}
	rhsRoleID, rhsPos := unrankedRoleID, unrankedPosition
	if role, ok := MemberHighestRole(rhs, snap); ok {
		rhsRoleID, rhsPos = role.ID, role.Position
	}

	// Both unranked, or the same role on both sides: no one wins.
	if (lhsPos == unrankedPosition && rhsPos == unrankedPosition) || lhsRoleID == rhsRoleID {
		return 0, false
	}

	if lhsPos > rhsPos {
		return lhs.UserID, true
	}
	if rhsPos > lhsPos {
		return rhs.UserID, true
	}

	// Equal positions with differing role IDs: the lower ID wins.
	if lhsRoleID < rhsRoleID {
		return lhs.UserID, true
	}
	return rhs.UserID, true
}
