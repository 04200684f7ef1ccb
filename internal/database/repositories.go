package database

import (
	"context"

	"github.com/victorivanov/guildauth/internal/models"
	"github.com/victorivanov/guildauth/internal/state"
)

type GuildRepository interface {
	Create(ctx context.Context, guild *models.Guild) error
	GetByID(ctx context.Context, id int64) (*models.Guild, error)
	Update(ctx context.Context, guild *models.Guild) error
	Delete(ctx context.Context, id int64) error
}

type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByID(ctx context.Context, id int64) (*models.Role, error)
	GetByGuildID(ctx context.Context, guildID int64) ([]models.Role, error)
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id int64) error
	GetByMember(ctx context.Context, guildID, userID int64) ([]models.Role, error)
}

type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByGuildAndUser(ctx context.Context, guildID, userID int64) (*models.Member, error)
	GetByGuildID(ctx context.Context, guildID int64) ([]models.Member, error)
	Delete(ctx context.Context, guildID, userID int64) error
	AddRole(ctx context.Context, guildID, userID, roleID int64) error
	RemoveRole(ctx context.Context, guildID, userID, roleID int64) error
}

type ChannelRepository interface {
	Create(ctx context.Context, channel *models.Channel) error
	GetByID(ctx context.Context, id int64) (*models.Channel, error)
	GetByGuildID(ctx context.Context, guildID int64) ([]models.Channel, error)
	Delete(ctx context.Context, id int64) error
}

type OverwriteRepository interface {
	Set(ctx context.Context, overwrite *models.Overwrite) error
	GetByChannel(ctx context.Context, channelID int64) ([]models.Overwrite, error)
	Delete(ctx context.Context, channelID, targetID int64, kind models.OverwriteKind) error
}

// SnapshotRepository materializes one internally consistent snapshot of
// a guild's entity graph per call.
type SnapshotRepository interface {
	LoadGuild(ctx context.Context, guildID int64) (*state.Snapshot, error)
}
