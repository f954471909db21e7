package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andreivolkov/gatechat/internal/models"
)

type inviteFixture struct {
	invites *mockInviteRepo
	gates   *mockGateRepo
	svc     *InviteService
}

type mockInviteRepo struct {
	CreateFn         func(ctx context.Context, invite *models.Invite) error
	GetByCodeFn      func(ctx context.Context, code string) (*models.Invite, error)
	GetByChannelIDFn func(ctx context.Context, channelID int64) ([]models.Invite, error)
	IncrementUsesFn  func(ctx context.Context, code string) error
	DeleteFn         func(ctx context.Context, code string) error
}

func (m *mockInviteRepo) Create(ctx context.Context, invite *models.Invite) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, invite)
	}
	return nil
}

func (m *mockInviteRepo) GetByCode(ctx context.Context, code string) (*models.Invite, error) {
	if m.GetByCodeFn != nil {
		return m.GetByCodeFn(ctx, code)
	}
	return nil, nil
}

func (m *mockInviteRepo) GetByChannelID(ctx context.Context, channelID int64) ([]models.Invite, error) {
	if m.GetByChannelIDFn != nil {
		return m.GetByChannelIDFn(ctx, channelID)
	}
	return nil, nil
}

func (m *mockInviteRepo) IncrementUses(ctx context.Context, code string) error {
	if m.IncrementUsesFn != nil {
		return m.IncrementUsesFn(ctx, code)
	}
	return nil
}

func (m *mockInviteRepo) Delete(ctx context.Context, code string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, code)
	}
	return nil
}

func newInviteFixture(t *testing.T, invites *mockInviteRepo, gates *mockGateRepo) inviteFixture {
	t.Helper()

	channels := &mockChannelRepo{
		GetByIDFn: func(_ context.Context, id int64) (*models.Channel, error) {
			return &models.Channel{ID: id, CreatorID: 1, MaxRoles: 10}, nil
		},
	}
	checker := NewPermissionChecker(channels, &mockMemberRepo{}, &mockRoleRepo{})
	gateSvc := NewGateService(gates, newTestRedis(t), checker)
	chanSvc := NewChannelService(channels, &mockSubchannelRepo{}, &mockRoleRepo{}, &mockMemberRepo{}, gateSvc, newTestSnowflake(t), &recordingDispatcher{}, checker)
	return inviteFixture{
		invites: invites,
		gates:   gates,
		svc:     NewInviteService(invites, chanSvc, checker),
	}
}

func TestRedeemInvite_Expired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	invites := &mockInviteRepo{
		GetByCodeFn: func(_ context.Context, code string) (*models.Invite, error) {
			return &models.Invite{Code: code, ChannelID: 100, CreatorID: 1, ExpiresAt: &past}, nil
		},
	}
	fx := newInviteFixture(t, invites, &mockGateRepo{})

	_, err := fx.svc.Redeem(context.Background(), "abc123", 42)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.Code != "INVITE_EXPIRED" {
		t.Errorf("err = %v, want code INVITE_EXPIRED", err)
	}
}

func TestRedeemInvite_Exhausted(t *testing.T) {
	invites := &mockInviteRepo{
		GetByCodeFn: func(_ context.Context, code string) (*models.Invite, error) {
			return &models.Invite{Code: code, ChannelID: 100, CreatorID: 1, MaxUses: 3, Uses: 3}, nil
		},
	}
	fx := newInviteFixture(t, invites, &mockGateRepo{})

	_, err := fx.svc.Redeem(context.Background(), "abc123", 42)
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.Code != "INVITE_EXHAUSTED" {
		t.Fatalf("err = %v, want code INVITE_EXHAUSTED", err)
	}
}

func TestRedeemInvite_GateStillApplies(t *testing.T) {
	incremented := false
	invites := &mockInviteRepo{
		GetByCodeFn: func(_ context.Context, code string) (*models.Invite, error) {
			return &models.Invite{Code: code, ChannelID: 100, CreatorID: 1}, nil
		},
		IncrementUsesFn: func(context.Context, string) error {
			incremented = true
			return nil
		},
	}
	gates := &mockGateRepo{
		GetGateFn: func(_ context.Context, channelID int64) (*models.TokenGate, error) {
			return &models.TokenGate{ChannelID: channelID, TokenSymbol: "VIP", MinBalance: 100}, nil
		},
	}
	fx := newInviteFixture(t, invites, gates)

	// A valid invite does not bypass the token gate.
	_, err := fx.svc.Redeem(context.Background(), "abc123", 42)
	if !errors.Is(err, ErrGateDenied) {
		t.Fatalf("err = %v, want ErrGateDenied", err)
	}
	if incremented {
		t.Error("a denied redemption must not consume a use")
	}
}

func TestRedeemInvite_Success(t *testing.T) {
	incremented := false
	invites := &mockInviteRepo{
		GetByCodeFn: func(_ context.Context, code string) (*models.Invite, error) {
			return &models.Invite{Code: code, ChannelID: 100, CreatorID: 1, MaxUses: 5, Uses: 2}, nil
		},
		IncrementUsesFn: func(context.Context, string) error {
			incremented = true
			return nil
		},
	}
	fx := newInviteFixture(t, invites, &mockGateRepo{})

	member, err := fx.svc.Redeem(context.Background(), "abc123", 42)
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if member.UserID != 42 || member.ChannelID != 100 {
		t.Errorf("member = %+v, want user 42 in channel 100", member)
	}
	if !incremented {
		t.Error("a successful redemption consumes a use")
	}
}

func TestCreateInvite_RequiresInviteMembers(t *testing.T) {
	fx := newInviteFixture(t, &mockInviteRepo{}, &mockGateRepo{})

	// User 42 is not a member at all.
	_, err := fx.svc.Create(context.Background(), 100, 42, 0, nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestDeleteInvite_CreatorBypassesPermission(t *testing.T) {
	deleted := false
	invites := &mockInviteRepo{
		GetByCodeFn: func(_ context.Context, code string) (*models.Invite, error) {
			return &models.Invite{Code: code, ChannelID: 100, CreatorID: 42}, nil
		},
		DeleteFn: func(context.Context, string) error {
			deleted = true
			return nil
		},
	}
	fx := newInviteFixture(t, invites, &mockGateRepo{})

	// User 42 holds no permissions but created the invite.
	if err := fx.svc.Delete(context.Background(), "abc123", 42); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Error("invite should be deleted")
	}

	// A stranger without MANAGE_CHANNELS cannot revoke it.
	invites.GetByCodeFn = func(_ context.Context, code string) (*models.Invite, error) {
		return &models.Invite{Code: code, ChannelID: 100, CreatorID: 1}, nil
	}
	if err := fx.svc.Delete(context.Background(), "abc123", 42); !errors.Is(err, ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}
