package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andreivolkov/gatechat/internal/models"
)

type subchannelRepo struct {
	pool *pgxpool.Pool
}

func NewSubchannelRepository(pool *pgxpool.Pool) SubchannelRepository {
	return &subchannelRepo{pool: pool}
}

func (r *subchannelRepo) Create(ctx context.Context, sub *models.Subchannel) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO subchannels (id, channel_id, name, topic, position)
		 VALUES ($1, $2, $3, $4, $5)`,
		sub.ID, sub.ChannelID, sub.Name, sub.Topic, sub.Position,
	)
	return err
}

func (r *subchannelRepo) GetByID(ctx context.Context, id int64) (*models.Subchannel, error) {
	sub := &models.Subchannel{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, channel_id, name, topic, position
		 FROM subchannels WHERE id = $1`, id,
	).Scan(&sub.ID, &sub.ChannelID, &sub.Name, &sub.Topic, &sub.Position)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return sub, err
}

func (r *subchannelRepo) GetByChannelID(ctx context.Context, channelID int64) ([]models.Subchannel, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, channel_id, name, topic, position
		 FROM subchannels WHERE channel_id = $1
		 ORDER BY position, id`, channelID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.Subchannel
	for rows.Next() {
		var sub models.Subchannel
		if err := rows.Scan(&sub.ID, &sub.ChannelID, &sub.Name, &sub.Topic, &sub.Position); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (r *subchannelRepo) Update(ctx context.Context, sub *models.Subchannel) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE subchannels SET name = $2, topic = $3, position = $4
		 WHERE id = $1`,
		sub.ID, sub.Name, sub.Topic, sub.Position,
	)
	return err
}

func (r *subchannelRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM subchannels WHERE id = $1`, id)
	return err
}
