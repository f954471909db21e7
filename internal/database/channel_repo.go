package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andreivolkov/gatechat/internal/models"
)

type channelRepo struct {
	pool *pgxpool.Pool
}

func NewChannelRepository(pool *pgxpool.Pool) ChannelRepository {
	return &channelRepo{pool: pool}
}

func (r *channelRepo) CreateWithOwner(ctx context.Context, channel *models.Channel, channelRoleIDs []int64, templateRoleIDs []int64, ownerTemplateRoleID, memberID int64) error {
	// A failure at any step must not leave a channel without an owner, so
	// the whole sequence runs in one transaction.
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO channels (id, name, creator_id, max_roles, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			channel.ID, channel.Name, channel.CreatorID, channel.MaxRoles, channel.CreatedAt,
		)
		if err != nil {
			return err
		}

		var ownerChannelRoleID int64
		for i, roleID := range templateRoleIDs {
			_, err := tx.Exec(ctx,
				`INSERT INTO channel_roles (id, channel_id, role_id) VALUES ($1, $2, $3)`,
				channelRoleIDs[i], channel.ID, roleID,
			)
			if err != nil {
				return err
			}
			if roleID == ownerTemplateRoleID {
				ownerChannelRoleID = channelRoleIDs[i]
			}
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO members (id, channel_id, user_id, joined_at)
			 VALUES ($1, $2, $3, $4)`,
			memberID, channel.ID, channel.CreatorID, channel.CreatedAt,
		)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO member_roles (member_id, channel_role_id) VALUES ($1, $2)`,
			memberID, ownerChannelRoleID,
		)
		return err
	})
}

func (r *channelRepo) GetByID(ctx context.Context, id int64) (*models.Channel, error) {
	ch := &models.Channel{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, creator_id, max_roles, created_at
		 FROM channels WHERE id = $1`, id,
	).Scan(&ch.ID, &ch.Name, &ch.CreatorID, &ch.MaxRoles, &ch.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return ch, err
}

func (r *channelRepo) GetByUserID(ctx context.Context, userID int64) ([]models.Channel, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.name, c.creator_id, c.max_roles, c.created_at
		 FROM channels c
		 INNER JOIN members m ON m.channel_id = c.id
		 WHERE m.user_id = $1
		 ORDER BY c.id`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []models.Channel
	for rows.Next() {
		var ch models.Channel
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.CreatorID, &ch.MaxRoles, &ch.CreatedAt); err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, rows.Err()
}

func (r *channelRepo) Update(ctx context.Context, channel *models.Channel) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE channels SET name = $2, max_roles = $3 WHERE id = $1`,
		channel.ID, channel.Name, channel.MaxRoles,
	)
	return err
}

func (r *channelRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM channels WHERE id = $1`, id)
	return err
}
