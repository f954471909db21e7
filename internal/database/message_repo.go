package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andreivolkov/gatechat/internal/models"
)

type messageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepo{pool: pool}
}

const messageWithAuthorColumns = `m.id, m.subchannel_id, m.author_id, m.content, m.attachment_url, m.pinned, m.created_at, m.edited_at,
	 u.username, u.display_name, u.avatar_hash`

func scanMessageWithAuthor(row pgx.Row) (*models.MessageWithAuthor, error) {
	msg := &models.MessageWithAuthor{}
	err := row.Scan(
		&msg.ID, &msg.SubchannelID, &msg.AuthorID, &msg.Content, &msg.AttachmentURL, &msg.Pinned, &msg.CreatedAt, &msg.EditedAt,
		&msg.AuthorUsername, &msg.AuthorDisplayName, &msg.AuthorAvatarHash,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *messageRepo) Create(ctx context.Context, msg *models.Message) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO messages (id, subchannel_id, author_id, content, attachment_url, pinned, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		msg.ID, msg.SubchannelID, msg.AuthorID, msg.Content, msg.AttachmentURL, msg.Pinned, msg.CreatedAt,
	)
	return err
}

func (r *messageRepo) GetByID(ctx context.Context, id int64) (*models.MessageWithAuthor, error) {
	return scanMessageWithAuthor(r.pool.QueryRow(ctx,
		`SELECT `+messageWithAuthorColumns+`
		 FROM messages m
		 INNER JOIN users u ON u.id = m.author_id
		 WHERE m.id = $1`, id,
	))
}

func (r *messageRepo) GetBySubchannelID(ctx context.Context, subchannelID int64, before *int64, limit int) ([]models.MessageWithAuthor, error) {
	query := `SELECT ` + messageWithAuthorColumns + `
		 FROM messages m
		 INNER JOIN users u ON u.id = m.author_id
		 WHERE m.subchannel_id = $1`
	args := []any{subchannelID}

	if before != nil {
		query += ` AND m.id < $2 ORDER BY m.id DESC LIMIT $3`
		args = append(args, *before, limit)
	} else {
		query += ` ORDER BY m.id DESC LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.MessageWithAuthor
	for rows.Next() {
		var msg models.MessageWithAuthor
		if err := rows.Scan(
			&msg.ID, &msg.SubchannelID, &msg.AuthorID, &msg.Content, &msg.AttachmentURL, &msg.Pinned, &msg.CreatedAt, &msg.EditedAt,
			&msg.AuthorUsername, &msg.AuthorDisplayName, &msg.AuthorAvatarHash,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *messageRepo) Update(ctx context.Context, msg *models.Message) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE messages SET content = $2, edited_at = $3 WHERE id = $1`,
		msg.ID, msg.Content, msg.EditedAt,
	)
	return err
}

func (r *messageRepo) SetPinned(ctx context.Context, id int64, pinned bool) error {
	_, err := r.pool.Exec(ctx, `UPDATE messages SET pinned = $2 WHERE id = $1`, id, pinned)
	return err
}

func (r *messageRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	return err
}
