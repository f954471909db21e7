package database

import (
	"context"
	"testing"

	"github.com/andreivolkov/gatechat/internal/permissions"
)

func TestChannelRepo_CreateWithOwner(t *testing.T) {
	pool := testPool(t)
	userRepo := NewUserRepository(pool)
	channelRepo := NewChannelRepository(pool)
	roleRepo := NewRoleRepository(pool)
	memberRepo := NewMemberRepository(pool)
	ctx := context.Background()

	creator := createTestUser(t, userRepo)
	ch := createTestChannel(t, channelRepo, roleRepo, creator.ID)

	got, err := channelRepo.GetByID(ctx, ch.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil {
		t.Fatal("channel missing after CreateWithOwner")
	}
	if got.MaxRoles != 10 {
		t.Errorf("MaxRoles = %d, want 10", got.MaxRoles)
	}

	// The creator is a member holding the Owner template.
	member, err := memberRepo.GetByChannelAndUser(ctx, ch.ID, creator.ID)
	if err != nil {
		t.Fatalf("GetByChannelAndUser: %v", err)
	}
	if member == nil {
		t.Fatal("creator should be a member of the new channel")
	}
	if len(member.ChannelRoleIDs) != 1 {
		t.Fatalf("creator should hold exactly the owner role, got %d assignments", len(member.ChannelRoleIDs))
	}

	roles, err := roleRepo.GetByMember(ctx, ch.ID, creator.ID)
	if err != nil {
		t.Fatalf("GetByMember: %v", err)
	}
	if len(roles) != 1 || roles[0].TemplateType != permissions.TemplateOwner {
		t.Errorf("creator roles = %+v, want single OWNER template", roles)
	}
}

func TestChannelRepo_GetByID_NotFound(t *testing.T) {
	pool := testPool(t)
	channelRepo := NewChannelRepository(pool)

	got, err := channelRepo.GetByID(context.Background(), 999999999)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestChannelRepo_GetByUserID(t *testing.T) {
	pool := testPool(t)
	userRepo := NewUserRepository(pool)
	channelRepo := NewChannelRepository(pool)
	roleRepo := NewRoleRepository(pool)
	ctx := context.Background()

	creator := createTestUser(t, userRepo)
	ch := createTestChannel(t, channelRepo, roleRepo, creator.ID)

	channels, err := channelRepo.GetByUserID(ctx, creator.ID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	found := false
	for _, c := range channels {
		if c.ID == ch.ID {
			found = true
		}
	}
	if !found {
		t.Error("creator's channel list should include the new channel")
	}
}
