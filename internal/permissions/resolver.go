package permissions

import (
	"log/slog"
	"slices"

	"github.com/victorivanov/guildauth/internal/models"
	"github.com/victorivanov/guildauth/internal/state"
)

// ResolvePermissions computes a member's effective permissions against
// one guild snapshot. With a nil channel it returns the guild-level
// result; with a channel it additionally applies that channel's
// overwrites. The computation is total and pure: it never fails, never
// mutates the snapshot, and two calls with identical inputs return
// identical results.
//
// Precedence, applied strictly in this order:
//  1. The guild owner holds every permission.
//  2. Start from the @everyone role's permissions.
//  3. OR in the permissions of the member's resolvable roles.
//  4. ADMINISTRATOR at this point grants everything; channel overwrites
//     cannot take it away.
//  5. Apply the channel's @everyone overwrite: deny, then allow.
//  6. Apply the union of overwrites for roles the member holds: all
//     denies, then all allows.
//  7. Apply the member-specific overwrite: deny, then allow.
//
// Within each step deny is applied before allow, so an overwrite that
// both denies and allows the same bit resolves to allow. Across steps,
// the more specific level always wins regardless of polarity.
func ResolvePermissions(member models.Member, snap *state.Snapshot, channel *models.Channel) Permission {
	if member.UserID == snap.Guild.OwnerID {
		return PermAll
	}

	base := everyonePermissions(snap)

	for _, roleID := range member.Roles {
		role, ok := snap.Role(roleID)
		if !ok {
			// An ordinary artifact of a live membership graph; skip it.
			slog.Debug("member references nonexistent role",
				"guildID", snap.Guild.ID, "userID", member.UserID, "roleID", roleID)
			continue
		}
		base = base.Add(Permission(role.Permissions))
	}

	if base.Has(PermAdministrator) {
		return PermAll
	}

	if channel == nil {
		return base
	}

	everyoneID := snap.EveryoneRoleID()

	var everyoneOverwrite, memberOverwrite *models.Overwrite
	var roleAllow, roleDeny Permission

	for i := range channel.Overwrites {
		ow := &channel.Overwrites[i]
		switch ow.Kind {
		case models.OverwriteMember:
			if ow.TargetID == member.UserID {
				memberOverwrite = ow
			}
		case models.OverwriteRole:
			if ow.TargetID == everyoneID {
				everyoneOverwrite = ow
			} else if slices.Contains(member.Roles, ow.TargetID) {
				roleAllow = roleAllow.Add(Permission(ow.Allow))
				roleDeny = roleDeny.Add(Permission(ow.Deny))
			}
		}
	}

	if everyoneOverwrite != nil {
		base = base.Remove(Permission(everyoneOverwrite.Deny))
		base = base.Add(Permission(everyoneOverwrite.Allow))
	}

	base = base.Remove(roleDeny)
	base = base.Add(roleAllow)

	if memberOverwrite != nil {
		base = base.Remove(Permission(memberOverwrite.Deny))
		base = base.Add(Permission(memberOverwrite.Allow))
	}

	return base
}

// MemberPermissions computes a member's guild-level permissions,
// ignoring channel overwrites.
func MemberPermissions(member models.Member, snap *state.Snapshot) Permission {
	return ResolvePermissions(member, snap, nil)
}

// UserPermissionsIn computes a member's effective permissions in the
// given channel.
func UserPermissionsIn(member models.Member, snap *state.Snapshot, channel models.Channel) Permission {
	return ResolvePermissions(member, snap, &channel)
}

// everyonePermissions returns the @everyone role's permission set, or
// the empty set if the role row is missing from the snapshot. A missing
// @everyone role is an integrity problem worth surfacing, but it never
// aborts resolution.
func everyonePermissions(snap *state.Snapshot) Permission {
	everyone, ok := snap.Role(snap.EveryoneRoleID())
	if !ok {
		slog.Warn("@everyone role missing from snapshot", "guildID", snap.Guild.ID)
		return 0
	}
	return Permission(everyone.Permissions)
}
