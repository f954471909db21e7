package service

import (
	"context"

	"github.com/andreivolkov/gatechat/internal/database"
	"github.com/andreivolkov/gatechat/internal/models"
	"github.com/andreivolkov/gatechat/internal/permissions"
	"github.com/andreivolkov/gatechat/internal/redis"
)

// GateService manages token gates on channels and answers join-time access
// checks against recorded balances. Balance reads are cached in redis for a
// short window so bursts of joins do not hammer the balances table.
type GateService struct {
	gates database.GateRepository
	redis *redis.Client
	perms *PermissionChecker
}

// NewGateService creates a GateService.
func NewGateService(gates database.GateRepository, rdb *redis.Client, perms *PermissionChecker) *GateService {
	return &GateService{gates: gates, redis: rdb, perms: perms}
}

// SetGate installs or replaces a channel's token gate. Requires MANAGE_CHANNELS.
func (s *GateService) SetGate(ctx context.Context, channelID, actorID int64, tokenSymbol string, minBalance int64) (*models.TokenGate, error) {
	if err := s.perms.Require(ctx, channelID, actorID, permissions.PermManageChannels); err != nil {
		return nil, err
	}
	if tokenSymbol == "" || len(tokenSymbol) > 16 {
		return nil, Validation("INVALID_TOKEN_SYMBOL", "token symbol must be 1-16 characters")
	}
	if minBalance <= 0 {
		return nil, Validation("INVALID_MIN_BALANCE", "minimum balance must be positive")
	}

	gate := &models.TokenGate{ChannelID: channelID, TokenSymbol: tokenSymbol, MinBalance: minBalance}
	if err := s.gates.SetGate(ctx, gate); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	return gate, nil
}

// GetGate returns a channel's gate, or nil if the channel is ungated. Caller
// must be a member.
func (s *GateService) GetGate(ctx context.Context, channelID, userID int64) (*models.TokenGate, error) {
	if err := s.perms.RequireMember(ctx, channelID, userID); err != nil {
		return nil, err
	}
	gate, err := s.gates.GetGate(ctx, channelID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	return gate, nil
}

// ClearGate removes a channel's token gate. Requires MANAGE_CHANNELS.
func (s *GateService) ClearGate(ctx context.Context, channelID, actorID int64) error {
	if err := s.perms.Require(ctx, channelID, actorID, permissions.PermManageChannels); err != nil {
		return err
	}
	if err := s.gates.DeleteGate(ctx, channelID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	return nil
}

// CheckAccess decides whether a user clears the channel's gate. Ungated
// channels admit everyone. An insufficient balance (including a user with no
// balance row at all) is a GateDenied error.
func (s *GateService) CheckAccess(ctx context.Context, channelID, userID int64) error {
	gate, err := s.gates.GetGate(ctx, channelID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if gate == nil {
		return nil
	}

	amount, err := s.balance(ctx, userID, gate.TokenSymbol)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if amount < gate.MinBalance {
		return GateDenied("insufficient " + gate.TokenSymbol + " balance to join this channel")
	}
	return nil
}

// balance reads a user's token balance through the redis cache. Cache errors
// fall through to the database; the gate check must not fail open or closed
// because redis hiccupped.
func (s *GateService) balance(ctx context.Context, userID int64, symbol string) (int64, error) {
	if amount, ok, err := s.redis.GetCachedBalance(ctx, userID, symbol); err == nil && ok {
		return amount, nil
	}

	amount, err := s.gates.GetBalance(ctx, userID, symbol)
	if err != nil {
		return 0, err
	}
	_ = s.redis.CacheBalance(ctx, userID, symbol, amount)
	return amount, nil
}

// RecordBalance upserts a user's recorded holding and invalidates the cache
// entry. Used by the CLI seeder and the balance-sync endpoint.
func (s *GateService) RecordBalance(ctx context.Context, userID int64, tokenSymbol string, amount int64) error {
	if tokenSymbol == "" || len(tokenSymbol) > 16 {
		return Validation("INVALID_TOKEN_SYMBOL", "token symbol must be 1-16 characters")
	}
	if amount < 0 {
		return Validation("INVALID_AMOUNT", "amount cannot be negative")
	}

	if err := s.gates.SetBalance(ctx, &models.Balance{UserID: userID, TokenSymbol: tokenSymbol, Amount: amount}); err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	_ = s.redis.InvalidateBalance(ctx, userID, tokenSymbol)
	return nil
}
