package service

import (
	"context"

	"github.com/andreivolkov/gatechat/internal/database"
	"github.com/andreivolkov/gatechat/internal/gateway"
	"github.com/andreivolkov/gatechat/internal/models"
	"github.com/andreivolkov/gatechat/internal/permissions"
)

// MemberService handles member listing and moderation.
type MemberService struct {
	channels database.ChannelRepository
	members  database.MemberRepository
	gateway  gateway.Dispatcher
	perms    *PermissionChecker
}

// NewMemberService creates a MemberService.
func NewMemberService(
	channels database.ChannelRepository,
	members database.MemberRepository,
	gw gateway.Dispatcher,
	perms *PermissionChecker,
) *MemberService {
	return &MemberService{channels: channels, members: members, gateway: gw, perms: perms}
}

// List returns a page of a channel's members. Caller must be a member.
func (s *MemberService) List(ctx context.Context, channelID, userID int64, limit, offset int) ([]models.Member, error) {
	if err := s.perms.RequireMember(ctx, channelID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	members, err := s.members.GetByChannelID(ctx, channelID, limit, offset)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if members == nil {
		members = []models.Member{}
	}
	return members, nil
}

// Get returns one member of a channel. Caller must be a member.
func (s *MemberService) Get(ctx context.Context, channelID, userID, targetUserID int64) (*models.Member, error) {
	if err := s.perms.RequireMember(ctx, channelID, userID); err != nil {
		return nil, err
	}

	member, err := s.members.GetByChannelAndUser(ctx, channelID, targetUserID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return nil, NotFound("NOT_FOUND", "member not found")
	}
	return member, nil
}

// Kick removes another user from a channel. Requires KICK_MEMBERS; the channel
// creator cannot be kicked.
func (s *MemberService) Kick(ctx context.Context, channelID, actorID, targetUserID int64) error {
	if err := s.perms.Require(ctx, channelID, actorID, permissions.PermKickMembers); err != nil {
		return err
	}

	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if channel == nil {
		return NotFound("NOT_FOUND", "channel not found")
	}
	if channel.CreatorID == targetUserID {
		return Forbidden("CANNOT_KICK_CREATOR", "the channel creator cannot be kicked")
	}

	member, err := s.members.GetByChannelAndUser(ctx, channelID, targetUserID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return NotFound("NOT_FOUND", "member not found")
	}

	if err := s.members.Delete(ctx, channelID, targetUserID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToChannel(channelID, gateway.EventMemberRemove, map[string]any{"channel_id": channelID, "user_id": targetUserID})
	s.gateway.DispatchToUser(targetUserID, gateway.EventMemberRemove, map[string]any{"channel_id": channelID, "user_id": targetUserID})
	return nil
}
