package service

import (
	"context"
	"log/slog"

	"github.com/victorivanov/guildauth/internal/database"
	"github.com/victorivanov/guildauth/internal/permissions"
	"github.com/victorivanov/guildauth/internal/redis"
)

// GuildLevel marks a guild-level check with no channel involved.
const GuildLevel int64 = 0

// PermissionChecker turns snapshots and the permission engine into
// allow/deny decisions for guild actions, channel actions, and
// moderation between members.
type PermissionChecker struct {
	snapshots database.SnapshotRepository
	cache     *redis.Client
}

// NewPermissionChecker creates a PermissionChecker. cache may be nil to
// disable result caching.
func NewPermissionChecker(snapshots database.SnapshotRepository, cache *redis.Client) *PermissionChecker {
	return &PermissionChecker{snapshots: snapshots, cache: cache}
}

// ResolvedPermissions computes a user's effective permissions in a
// guild, or in one of its channels when channelID is not GuildLevel.
// Useful for callers making several checks against one result.
func (p *PermissionChecker) ResolvedPermissions(ctx context.Context, guildID, channelID, userID int64) (permissions.Permission, error) {
	if p.cache != nil {
		cached, ok, err := p.cache.GetPermissions(ctx, guildID, channelID, userID)
		if err != nil {
			slog.Warn("permission cache read failed", "guildID", guildID, "userID", userID, "error", err)
		} else if ok {
			return permissions.Permission(cached), nil
		}
	}

	snap, err := p.snapshots.LoadGuild(ctx, guildID)
	if err != nil {
		return 0, Internal("INTERNAL", "internal server error")
	}
	if snap == nil {
		return 0, NotFound("NOT_FOUND", "guild not found")
	}

	member, ok := snap.Member(userID)
	if !ok {
		return 0, Forbidden("FORBIDDEN", "you are not a member of this guild")
	}

	var perms permissions.Permission
	if channelID == GuildLevel {
		perms = permissions.ResolvePermissions(member, snap, nil)
	} else {
		channel, ok := snap.Channel(channelID)
		if !ok {
			return 0, NotFound("NOT_FOUND", "channel not found")
		}
		perms = permissions.ResolvePermissions(member, snap, &channel)
	}

	if p.cache != nil {
		if err := p.cache.SetPermissions(ctx, guildID, channelID, userID, int64(perms)); err != nil {
			slog.Warn("permission cache write failed", "guildID", guildID, "userID", userID, "error", err)
		}
	}
	return perms, nil
}

// RequireGuildPermission checks that the user has the given permission
// in a guild. Guild owners and administrators pass every check.
func (p *PermissionChecker) RequireGuildPermission(ctx context.Context, guildID, userID int64, perm permissions.Permission) error {
	perms, err := p.ResolvedPermissions(ctx, guildID, GuildLevel, userID)
	if err != nil {
		return err
	}
	if !perms.Has(perm) {
		return Forbidden("MISSING_PERMISSIONS", "you do not have permission to perform this action")
	}
	return nil
}

// RequireChannelPermission checks that the user has the given permission
// in a channel, applying channel-level overwrites on top of guild-level
// base permissions.
func (p *PermissionChecker) RequireChannelPermission(ctx context.Context, guildID, channelID, userID int64, perm permissions.Permission) error {
	perms, err := p.ResolvedPermissions(ctx, guildID, channelID, userID)
	if err != nil {
		return err
	}
	if !perms.Has(perm) {
		return Forbidden("MISSING_PERMISSIONS", "you do not have the required permissions")
	}
	return nil
}

// CanModerate checks that the actor may perform a moderation action
// (kick, ban, role edit) against the target: the actor needs the given
// permission and must outrank the target in the role hierarchy. The
// guild owner can never be moderated.
func (p *PermissionChecker) CanModerate(ctx context.Context, guildID, actorID, targetID int64, perm permissions.Permission) error {
	if actorID == targetID {
		return BadRequest("CANNOT_MODERATE_SELF", "you cannot moderate yourself")
	}

	snap, err := p.snapshots.LoadGuild(ctx, guildID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if snap == nil {
		return NotFound("NOT_FOUND", "guild not found")
	}

	actor, ok := snap.Member(actorID)
	if !ok {
		return Forbidden("FORBIDDEN", "you are not a member of this guild")
	}
	if _, ok := snap.Member(targetID); !ok {
		return NotFound("NOT_FOUND", "target is not a member of this guild")
	}
	if targetID == snap.Guild.OwnerID {
		return Forbidden("FORBIDDEN", "cannot moderate the guild owner")
	}

	if !permissions.ResolvePermissions(actor, snap, nil).Has(perm) {
		return Forbidden("MISSING_PERMISSIONS", "you do not have permission to perform this action")
	}

	winner, ok := permissions.GreaterMemberHierarchy(snap, actorID, targetID)
	if !ok || winner != actorID {
		return RoleHierarchyError("your highest role must be above the target's highest role")
	}
	return nil
}

// IsGuildOwner returns true if the user is the owner of the guild.
func (p *PermissionChecker) IsGuildOwner(ctx context.Context, guildID, userID int64) (bool, error) {
	snap, err := p.snapshots.LoadGuild(ctx, guildID)
	if err != nil {
		return false, Internal("INTERNAL", "internal server error")
	}
	if snap == nil {
		return false, nil
	}
	return snap.Guild.OwnerID == userID, nil
}
