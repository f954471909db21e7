package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andreivolkov/gatechat/internal/models"
)

type gateRepo struct {
	pool *pgxpool.Pool
}

func NewGateRepository(pool *pgxpool.Pool) GateRepository {
	return &gateRepo{pool: pool}
}

func (r *gateRepo) SetGate(ctx context.Context, gate *models.TokenGate) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO token_gates (channel_id, token_symbol, min_balance)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (channel_id) DO UPDATE
		 SET token_symbol = EXCLUDED.token_symbol, min_balance = EXCLUDED.min_balance`,
		gate.ChannelID, gate.TokenSymbol, gate.MinBalance,
	)
	return err
}

func (r *gateRepo) GetGate(ctx context.Context, channelID int64) (*models.TokenGate, error) {
	gate := &models.TokenGate{}
	err := r.pool.QueryRow(ctx,
		`SELECT channel_id, token_symbol, min_balance
		 FROM token_gates WHERE channel_id = $1`, channelID,
	).Scan(&gate.ChannelID, &gate.TokenSymbol, &gate.MinBalance)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return gate, err
}

func (r *gateRepo) DeleteGate(ctx context.Context, channelID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM token_gates WHERE channel_id = $1`, channelID)
	return err
}

func (r *gateRepo) GetBalance(ctx context.Context, userID int64, tokenSymbol string) (int64, error) {
	var amount int64
	err := r.pool.QueryRow(ctx,
		`SELECT amount FROM balances WHERE user_id = $1 AND token_symbol = $2`,
		userID, tokenSymbol,
	).Scan(&amount)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	return amount, err
}

func (r *gateRepo) SetBalance(ctx context.Context, balance *models.Balance) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO balances (user_id, token_symbol, amount)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, token_symbol) DO UPDATE SET amount = EXCLUDED.amount`,
		balance.UserID, balance.TokenSymbol, balance.Amount,
	)
	return err
}
