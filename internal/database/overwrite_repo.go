package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/victorivanov/guildauth/internal/models"
)

type overwriteRepo struct {
	pool *pgxpool.Pool
}

func NewOverwriteRepository(pool *pgxpool.Pool) OverwriteRepository {
	return &overwriteRepo{pool: pool}
}

func (r *overwriteRepo) Set(ctx context.Context, overwrite *models.Overwrite) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO channel_overwrites (channel_id, target_id, target_kind, allow_perms, deny_perms)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (channel_id, target_id, target_kind)
		 DO UPDATE SET allow_perms = EXCLUDED.allow_perms, deny_perms = EXCLUDED.deny_perms`,
		overwrite.ChannelID, overwrite.TargetID, overwrite.Kind, overwrite.Allow, overwrite.Deny,
	)
	return err
}

func (r *overwriteRepo) GetByChannel(ctx context.Context, channelID int64) ([]models.Overwrite, error) {
	return getChannelOverwrites(ctx, r.pool, channelID)
}

func (r *overwriteRepo) Delete(ctx context.Context, channelID, targetID int64, kind models.OverwriteKind) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM channel_overwrites WHERE channel_id = $1 AND target_id = $2 AND target_kind = $3`,
		channelID, targetID, kind,
	)
	return err
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so overwrite
// reads can run inside the snapshot transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func getChannelOverwrites(ctx context.Context, q querier, channelID int64) ([]models.Overwrite, error) {
	rows, err := q.Query(ctx,
		`SELECT channel_id, target_id, target_kind, allow_perms, deny_perms
		 FROM channel_overwrites WHERE channel_id = $1`, channelID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overwrites []models.Overwrite
	for rows.Next() {
		var o models.Overwrite
		if err := rows.Scan(&o.ChannelID, &o.TargetID, &o.Kind, &o.Allow, &o.Deny); err != nil {
			return nil, err
		}
		overwrites = append(overwrites, o)
	}
	return overwrites, rows.Err()
}
