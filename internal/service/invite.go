package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/andreivolkov/gatechat/internal/database"
	"github.com/andreivolkov/gatechat/internal/models"
	"github.com/andreivolkov/gatechat/internal/permissions"
)

// InviteService handles invite creation and redemption.
type InviteService struct {
	invites  database.InviteRepository
	channels *ChannelService
	perms    *PermissionChecker
}

// NewInviteService creates an InviteService.
func NewInviteService(invites database.InviteRepository, channels *ChannelService, perms *PermissionChecker) *InviteService {
	return &InviteService{invites: invites, channels: channels, perms: perms}
}

func generateInviteCode() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Create issues an invite for a channel. Requires INVITE_MEMBERS.
func (s *InviteService) Create(ctx context.Context, channelID, creatorID int64, maxUses int, expiresAt *time.Time) (*models.Invite, error) {
	if err := s.perms.Require(ctx, channelID, creatorID, permissions.PermInviteMembers); err != nil {
		return nil, err
	}
	if maxUses < 0 {
		return nil, Validation("INVALID_MAX_USES", "max_uses cannot be negative")
	}
	if expiresAt != nil && expiresAt.Before(time.Now()) {
		return nil, Validation("INVALID_EXPIRY", "expiry must be in the future")
	}

	code, err := generateInviteCode()
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	invite := &models.Invite{
		Code:      code,
		ChannelID: channelID,
		CreatorID: creatorID,
		MaxUses:   maxUses,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	if err := s.invites.Create(ctx, invite); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	return invite, nil
}

// List returns a channel's invites. Requires INVITE_MEMBERS.
func (s *InviteService) List(ctx context.Context, channelID, userID int64) ([]models.Invite, error) {
	if err := s.perms.Require(ctx, channelID, userID, permissions.PermInviteMembers); err != nil {
		return nil, err
	}

	invites, err := s.invites.GetByChannelID(ctx, channelID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if invites == nil {
		invites = []models.Invite{}
	}
	return invites, nil
}

// Get looks up an invite by code so a user can inspect it before redeeming.
func (s *InviteService) Get(ctx context.Context, code string) (*models.Invite, error) {
	invite, err := s.invites.GetByCode(ctx, code)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if invite == nil {
		return nil, NotFound("NOT_FOUND", "invite not found")
	}
	return invite, nil
}

// Redeem joins the user to the invite's channel. Expired or exhausted invites
// are rejected; the channel's token gate still applies.
func (s *InviteService) Redeem(ctx context.Context, code string, userID int64) (*models.Member, error) {
	invite, err := s.invites.GetByCode(ctx, code)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if invite == nil {
		return nil, NotFound("NOT_FOUND", "invite not found")
	}
	if invite.Expired(time.Now()) {
		return nil, Validation("INVITE_EXPIRED", "invite has expired")
	}
	if invite.Exhausted() {
		return nil, Validation("INVITE_EXHAUSTED", "invite has no uses left")
	}

	member, err := s.channels.Join(ctx, invite.ChannelID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.invites.IncrementUses(ctx, code); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	return member, nil
}

// Delete revokes an invite. Requires MANAGE_CHANNELS, or being its creator.
func (s *InviteService) Delete(ctx context.Context, code string, userID int64) error {
	invite, err := s.invites.GetByCode(ctx, code)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if invite == nil {
		return NotFound("NOT_FOUND", "invite not found")
	}

	if invite.CreatorID != userID {
		if err := s.perms.Require(ctx, invite.ChannelID, userID, permissions.PermManageChannels); err != nil {
			return err
		}
	}

	if err := s.invites.Delete(ctx, code); err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	return nil
}
