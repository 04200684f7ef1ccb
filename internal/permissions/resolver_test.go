package permissions

import (
	"testing"

	"github.com/victorivanov/guildauth/internal/models"
	"github.com/victorivanov/guildauth/internal/state"
)

const (
	testGuildID = int64(100)
	testOwnerID = int64(1)
)

// testSnapshot builds a snapshot for guild 100 owned by user 1, with the
// @everyone role (ID == guild ID) plus any extra roles and members.
func testSnapshot(everyonePerms Permission, roles []models.Role, members []models.Member) *state.Snapshot {
	guild := models.Guild{ID: testGuildID, Name: "test", OwnerID: testOwnerID}
	all := append([]models.Role{{
		ID:          testGuildID,
		GuildID:     testGuildID,
		Name:        "@everyone",
		Permissions: int64(everyonePerms),
		IsDefault:   true,
	}}, roles...)
	return state.NewSnapshot(guild, all, members, nil)
}

func member(userID int64, roleIDs ...int64) models.Member {
	return models.Member{GuildID: testGuildID, UserID: userID, Roles: roleIDs}
}

func TestResolvePermissions_OwnerGetsEverything(t *testing.T) {
	// Even with an empty @everyone role and a channel overwrite denying
	// everything, the owner keeps the full set.
	snap := testSnapshot(0, nil, nil)
	channel := &models.Channel{
		ID:      500,
		GuildID: testGuildID,
		Overwrites: []models.Overwrite{
			{ChannelID: 500, TargetID: testGuildID, Kind: models.OverwriteRole, Deny: int64(PermAll)},
			{ChannelID: 500, TargetID: testOwnerID, Kind: models.OverwriteMember, Deny: int64(PermAll)},
		},
	}

	got := ResolvePermissions(member(testOwnerID), snap, channel)
	if got != PermAll {
		t.Errorf("owner permissions = %v, want PermAll", got)
	}
}

func TestResolvePermissions_EveryoneBase(t *testing.T) {
	snap := testSnapshot(PermViewChannel|PermSendMessages, nil, nil)
	got := ResolvePermissions(member(2), snap, nil)
	if got != PermViewChannel|PermSendMessages {
		t.Errorf("base permissions = %v, want @everyone set", got)
	}
}

func TestResolvePermissions_MissingEveryoneRole(t *testing.T) {
	// The @everyone role row is absent from the snapshot entirely. The
	// computation proceeds with an empty base instead of failing.
	guild := models.Guild{ID: testGuildID, OwnerID: testOwnerID}
	snap := state.NewSnapshot(guild, []models.Role{
		{ID: 200, GuildID: testGuildID, Permissions: int64(PermSendMessages), Position: 1},
	}, nil, nil)

	got := ResolvePermissions(member(2, 200), snap, nil)
	if got != PermSendMessages {
		t.Errorf("permissions = %v, want only the role grant", got)
	}
}

func TestResolvePermissions_RoleUnion(t *testing.T) {
	snap := testSnapshot(PermViewChannel, []models.Role{
		{ID: 200, GuildID: testGuildID, Permissions: int64(PermSendMessages), Position: 1},
		{ID: 201, GuildID: testGuildID, Permissions: int64(PermManageMessages), Position: 2},
	}, nil)

	got := ResolvePermissions(member(2, 200, 201), snap, nil)
	if !got.Has(PermViewChannel | PermSendMessages | PermManageMessages) {
		t.Errorf("permissions = %v, want union of @everyone and both roles", got)
	}
}

func TestResolvePermissions_DanglingRoleSkipped(t *testing.T) {
	snap := testSnapshot(PermViewChannel, nil, nil)
	// Role 999 no longer exists; it must be skipped, not treated as an error.
	got := ResolvePermissions(member(2, 999), snap, nil)
	if got != PermViewChannel {
		t.Errorf("permissions = %v, want just the @everyone set", got)
	}
}

func TestResolvePermissions_AdministratorBypassesOverwrites(t *testing.T) {
	snap := testSnapshot(PermViewChannel, []models.Role{
		{ID: 200, GuildID: testGuildID, Permissions: int64(PermAdministrator), Position: 1},
	}, nil)
	channel := &models.Channel{
		ID:      500,
		GuildID: testGuildID,
		Overwrites: []models.Overwrite{
			{ChannelID: 500, TargetID: 2, Kind: models.OverwriteMember, Deny: int64(PermAll)},
		},
	}

	got := ResolvePermissions(member(2, 200), snap, channel)
	if got != PermAll {
		t.Errorf("administrator permissions = %v, want PermAll", got)
	}
}

func TestResolvePermissions_NilChannelReturnsGuildLevel(t *testing.T) {
	snap := testSnapshot(PermViewChannel|PermSendMessages, nil, nil)
	got := ResolvePermissions(member(2), snap, nil)
	if got != PermViewChannel|PermSendMessages {
		t.Errorf("guild-level permissions = %v", got)
	}
}

func TestResolvePermissions_EveryoneOverwriteDenyThenAllow(t *testing.T) {
	snap := testSnapshot(PermViewChannel|PermSendMessages, nil, nil)
	// The same bit denied and allowed in one overwrite resolves to allow.
	channel := &models.Channel{
		ID:      500,
		GuildID: testGuildID,
		Overwrites: []models.Overwrite{
			{ChannelID: 500, TargetID: testGuildID, Kind: models.OverwriteRole,
				Deny: int64(PermSendMessages | PermViewChannel), Allow: int64(PermSendMessages)},
		},
	}

	got := ResolvePermissions(member(2), snap, channel)
	if !got.Has(PermSendMessages) {
		t.Error("allow should win over deny within the @everyone overwrite")
	}
	if got.Has(PermViewChannel) {
		t.Error("ViewChannel should stay denied")
	}
}

func TestResolvePermissions_RoleOverwriteUnion(t *testing.T) {
	// Member holds R1 (denies ATTACH_FILES) and R2 (allows ATTACH_FILES).
	// All role denies apply before all role allows, so the allow wins.
	snap := testSnapshot(PermViewChannel|PermAttachFiles, []models.Role{
		{ID: 200, GuildID: testGuildID, Position: 1},
		{ID: 201, GuildID: testGuildID, Position: 2},
	}, nil)
	channel := &models.Channel{
		ID:      500,
		GuildID: testGuildID,
		Overwrites: []models.Overwrite{
			{ChannelID: 500, TargetID: 200, Kind: models.OverwriteRole, Deny: int64(PermAttachFiles)},
			{ChannelID: 500, TargetID: 201, Kind: models.OverwriteRole, Allow: int64(PermAttachFiles)},
		},
	}

	got := ResolvePermissions(member(2, 200, 201), snap, channel)
	if !got.Has(PermAttachFiles) {
		t.Error("unioned role allow should win over unioned role deny")
	}
}

func TestResolvePermissions_UnheldRoleOverwriteIgnored(t *testing.T) {
	snap := testSnapshot(PermViewChannel|PermSendMessages, []models.Role{
		{ID: 200, GuildID: testGuildID, Position: 1},
	}, nil)
	channel := &models.Channel{
		ID:      500,
		GuildID: testGuildID,
		Overwrites: []models.Overwrite{
			// Member does not hold role 200; its deny must not apply.
			{ChannelID: 500, TargetID: 200, Kind: models.OverwriteRole, Deny: int64(PermSendMessages)},
		},
	}

	got := ResolvePermissions(member(2), snap, channel)
	if !got.Has(PermSendMessages) {
		t.Error("overwrite for a role the member lacks should be ignored")
	}
}

func TestResolvePermissions_MemberOverwriteMostSpecific(t *testing.T) {
	// @everyone denies SEND_MESSAGES, role R allows it back, and the
	// member-specific overwrite denies it again. The member overwrite is
	// the most specific level and wins.
	snap := testSnapshot(PermViewChannel, []models.Role{
		{ID: 200, GuildID: testGuildID, Position: 1},
	}, nil)
	channel := &models.Channel{
		ID:      500,
		GuildID: testGuildID,
		Overwrites: []models.Overwrite{
			{ChannelID: 500, TargetID: testGuildID, Kind: models.OverwriteRole, Deny: int64(PermSendMessages)},
			{ChannelID: 500, TargetID: 200, Kind: models.OverwriteRole, Allow: int64(PermSendMessages)},
			{ChannelID: 500, TargetID: 2, Kind: models.OverwriteMember, Deny: int64(PermSendMessages)},
		},
	}

	got := ResolvePermissions(member(2, 200), snap, channel)
	if got.Has(PermSendMessages) {
		t.Error("member-specific deny should win over the role-level allow")
	}
}

func TestResolvePermissions_MemberOverwriteAllow(t *testing.T) {
	snap := testSnapshot(PermViewChannel, nil, nil)
	channel := &models.Channel{
		ID:      500,
		GuildID: testGuildID,
		Overwrites: []models.Overwrite{
			{ChannelID: 500, TargetID: 2, Kind: models.OverwriteMember, Allow: int64(PermManageMessages)},
		},
	}

	got := ResolvePermissions(member(2), snap, channel)
	if !got.Has(PermManageMessages) {
		t.Error("member-specific allow should grant the permission")
	}
}

func TestResolvePermissions_OtherMembersOverwriteIgnored(t *testing.T) {
	snap := testSnapshot(PermViewChannel|PermSendMessages, nil, nil)
	channel := &models.Channel{
		ID:      500,
		GuildID: testGuildID,
		Overwrites: []models.Overwrite{
			{ChannelID: 500, TargetID: 3, Kind: models.OverwriteMember, Deny: int64(PermSendMessages)},
		},
	}

	got := ResolvePermissions(member(2), snap, channel)
	if !got.Has(PermSendMessages) {
		t.Error("another member's overwrite must not apply")
	}
}

func TestResolvePermissions_Idempotent(t *testing.T) {
	snap := testSnapshot(PermViewChannel|PermSendMessages, []models.Role{
		{ID: 200, GuildID: testGuildID, Permissions: int64(PermManageMessages), Position: 1},
	}, nil)
	channel := &models.Channel{
		ID:      500,
		GuildID: testGuildID,
		Overwrites: []models.Overwrite{
			{ChannelID: 500, TargetID: testGuildID, Kind: models.OverwriteRole, Deny: int64(PermSendMessages)},
			{ChannelID: 500, TargetID: 200, Kind: models.OverwriteRole, Allow: int64(PermAttachFiles)},
			{ChannelID: 500, TargetID: 2, Kind: models.OverwriteMember, Allow: int64(PermSendMessages)},
		},
	}

	m := member(2, 200)
	first := ResolvePermissions(m, snap, channel)
	second := ResolvePermissions(m, snap, channel)
	if first != second {
		t.Errorf("identical calls returned %v then %v", first, second)
	}
}

func TestMemberPermissions(t *testing.T) {
	snap := testSnapshot(PermViewChannel, []models.Role{
		{ID: 200, GuildID: testGuildID, Permissions: int64(PermBanMembers), Position: 1},
	}, nil)

	got := MemberPermissions(member(2, 200), snap)
	if !got.Has(PermViewChannel | PermBanMembers) {
		t.Errorf("guild-level permissions = %v", got)
	}
}

func TestUserPermissionsIn(t *testing.T) {
	snap := testSnapshot(PermViewChannel|PermSendMessages, nil, nil)
	channel := models.Channel{
		ID:      500,
		GuildID: testGuildID,
		Overwrites: []models.Overwrite{
			{ChannelID: 500, TargetID: testGuildID, Kind: models.OverwriteRole, Deny: int64(PermSendMessages)},
		},
	}

	got := UserPermissionsIn(member(2), snap, channel)
	if got.Has(PermSendMessages) {
		t.Error("channel overwrite should deny SendMessages")
	}
	if !got.Has(PermViewChannel) {
		t.Error("ViewChannel should remain")
	}
}
