package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andreivolkov/gatechat/internal/models"
)

type memberRepo struct {
	pool *pgxpool.Pool
}

func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &memberRepo{pool: pool}
}

func (r *memberRepo) CreateWithRole(ctx context.Context, member *models.Member, channelRoleID int64) error {
	// Membership and the starter role commit together; a failure between
	// the two must not leave a member holding no roles.
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO members (id, channel_id, user_id, joined_at)
			 VALUES ($1, $2, $3, $4)`,
			member.ID, member.ChannelID, member.UserID, member.JoinedAt,
		)
		if err != nil {
			return err
		}
		if channelRoleID == 0 {
			return nil
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO member_roles (member_id, channel_role_id)
			 VALUES ($1, $2)`,
			member.ID, channelRoleID,
		)
		return err
	})
}

func (r *memberRepo) GetByChannelAndUser(ctx context.Context, channelID, userID int64) (*models.Member, error) {
	m := &models.Member{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, channel_id, user_id, joined_at
		 FROM members WHERE channel_id = $1 AND user_id = $2`, channelID, userID,
	).Scan(&m.ID, &m.ChannelID, &m.UserID, &m.JoinedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	roleIDs, err := r.getAssignedRoles(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	m.ChannelRoleIDs = roleIDs
	return m, nil
}

func (r *memberRepo) GetByChannelID(ctx context.Context, channelID int64, limit, offset int) ([]models.Member, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, channel_id, user_id, joined_at
		 FROM members WHERE channel_id = $1
		 ORDER BY joined_at
		 LIMIT $2 OFFSET $3`, channelID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.ChannelID, &m.UserID, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range members {
		roleIDs, err := r.getAssignedRoles(ctx, members[i].ID)
		if err != nil {
			return nil, err
		}
		members[i].ChannelRoleIDs = roleIDs
	}
	return members, nil
}

func (r *memberRepo) Delete(ctx context.Context, channelID, userID int64) error {
	// member_roles rows go with the member via ON DELETE CASCADE.
	_, err := r.pool.Exec(ctx,
		`DELETE FROM members WHERE channel_id = $1 AND user_id = $2`, channelID, userID,
	)
	return err
}

func (r *memberRepo) AssignRole(ctx context.Context, memberID, channelRoleID int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO member_roles (member_id, channel_role_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		memberID, channelRoleID,
	)
	return err
}

func (r *memberRepo) RemoveRole(ctx context.Context, memberID, channelRoleID int64) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM member_roles WHERE member_id = $1 AND channel_role_id = $2`,
		memberID, channelRoleID,
	)
	return err
}

func (r *memberRepo) getAssignedRoles(ctx context.Context, memberID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT channel_role_id FROM member_roles WHERE member_id = $1`, memberID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
