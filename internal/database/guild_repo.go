package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/victorivanov/guildauth/internal/models"
)

type guildRepo struct {
	pool *pgxpool.Pool
}

func NewGuildRepository(pool *pgxpool.Pool) GuildRepository {
	return &guildRepo{pool: pool}
}

func (r *guildRepo) Create(ctx context.Context, guild *models.Guild) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO guilds (id, name, owner_id, created_at)
		 VALUES ($1, $2, $3, $4)`,
		guild.ID, guild.Name, guild.OwnerID, guild.CreatedAt,
	)
	return err
}

func (r *guildRepo) GetByID(ctx context.Context, id int64) (*models.Guild, error) {
	g := &models.Guild{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, owner_id, created_at
		 FROM guilds WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.OwnerID, &g.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return g, err
}

func (r *guildRepo) Update(ctx context.Context, guild *models.Guild) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE guilds SET name = $2, owner_id = $3 WHERE id = $1`,
		guild.ID, guild.Name, guild.OwnerID,
	)
	return err
}

func (r *guildRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM guilds WHERE id = $1`, id)
	return err
}
