package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/victorivanov/guildauth/internal/models"
	"github.com/victorivanov/guildauth/internal/state"
)

type snapshotRepo struct {
	pool *pgxpool.Pool
}

func NewSnapshotRepository(pool *pgxpool.Pool) SnapshotRepository {
	return &snapshotRepo{pool: pool}
}

// LoadGuild reads the guild's full entity graph inside one repeatable-
// read, read-only transaction, so the snapshot is internally consistent
// even while writers are active. Returns (nil, nil) if the guild does
// not exist.
func (r *snapshotRepo) LoadGuild(ctx context.Context, guildID int64) (*state.Snapshot, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("beginning snapshot transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var guild models.Guild
	err = tx.QueryRow(ctx,
		`SELECT id, name, owner_id, created_at
		 FROM guilds WHERE id = $1`, guildID,
	).Scan(&guild.ID, &guild.Name, &guild.OwnerID, &guild.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading guild %d: %w", guildID, err)
	}

	roles, err := loadGuildRoles(ctx, tx, guildID)
	if err != nil {
		return nil, fmt.Errorf("loading roles for guild %d: %w", guildID, err)
	}

	members, err := loadGuildMembers(ctx, tx, guildID)
	if err != nil {
		return nil, fmt.Errorf("loading members for guild %d: %w", guildID, err)
	}

	channels, err := loadGuildChannels(ctx, tx, guildID)
	if err != nil {
		return nil, fmt.Errorf("loading channels for guild %d: %w", guildID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing snapshot transaction: %w", err)
	}

	return state.NewSnapshot(guild, roles, members, channels), nil
}

func loadGuildRoles(ctx context.Context, tx pgx.Tx, guildID int64) ([]models.Role, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, guild_id, name, color, permissions, position, is_default
		 FROM roles WHERE guild_id = $1`, guildID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRoles(rows)
}

func loadGuildMembers(ctx context.Context, tx pgx.Tx, guildID int64) ([]models.Member, error) {
	rows, err := tx.Query(ctx,
		`SELECT guild_id, user_id, nickname, joined_at
		 FROM members WHERE guild_id = $1`, guildID,
	)
	if err != nil {
		return nil, err
	}

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.GuildID, &m.UserID, &m.Nickname, &m.JoinedAt); err != nil {
			rows.Close()
			return nil, err
		}
		members = append(members, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Attach role IDs in one pass over the whole join table.
	roleRows, err := tx.Query(ctx,
		`SELECT user_id, role_id FROM member_roles WHERE guild_id = $1`, guildID,
	)
	if err != nil {
		return nil, err
	}
	defer roleRows.Close()

	byUser := make(map[int64][]int64)
	for roleRows.Next() {
		var userID, roleID int64
		if err := roleRows.Scan(&userID, &roleID); err != nil {
			return nil, err
		}
		byUser[userID] = append(byUser[userID], roleID)
	}
	if err := roleRows.Err(); err != nil {
		return nil, err
	}

	for i := range members {
		members[i].Roles = byUser[members[i].UserID]
	}
	return members, nil
}

func loadGuildChannels(ctx context.Context, tx pgx.Tx, guildID int64) ([]models.Channel, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, guild_id, name, type, position, topic
		 FROM channels WHERE guild_id = $1
		 ORDER BY position`, guildID,
	)
	if err != nil {
		return nil, err
	}

	var channels []models.Channel
	for rows.Next() {
		var c models.Channel
		if err := rows.Scan(&c.ID, &c.GuildID, &c.Name, &c.Type, &c.Position, &c.Topic); err != nil {
			rows.Close()
			return nil, err
		}
		channels = append(channels, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range channels {
		overwrites, err := getChannelOverwrites(ctx, tx, channels[i].ID)
		if err != nil {
			return nil, err
		}
		channels[i].Overwrites = overwrites
	}
	return channels, nil
}
