package service

import (
	"context"

	"github.com/andreivolkov/gatechat/internal/database"
	"github.com/andreivolkov/gatechat/internal/gateway"
	"github.com/andreivolkov/gatechat/internal/models"
	"github.com/andreivolkov/gatechat/internal/permissions"
	"github.com/andreivolkov/gatechat/internal/snowflake"
)

// SubchannelService handles the rooms inside a channel.
type SubchannelService struct {
	subchannels database.SubchannelRepository
	snowflake   *snowflake.Generator
	gateway     gateway.Dispatcher
	perms       *PermissionChecker
}

// NewSubchannelService creates a SubchannelService.
func NewSubchannelService(
	subchannels database.SubchannelRepository,
	sf *snowflake.Generator,
	gw gateway.Dispatcher,
	perms *PermissionChecker,
) *SubchannelService {
	return &SubchannelService{subchannels: subchannels, snowflake: sf, gateway: gw, perms: perms}
}

// List returns a channel's subchannels. Caller must be a member.
func (s *SubchannelService) List(ctx context.Context, channelID, userID int64) ([]models.Subchannel, error) {
	if err := s.perms.RequireMember(ctx, channelID, userID); err != nil {
		return nil, err
	}

	subs, err := s.subchannels.GetByChannelID(ctx, channelID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if subs == nil {
		subs = []models.Subchannel{}
	}
	return subs, nil
}

// Create adds a subchannel. Requires MANAGE_CHANNELS.
func (s *SubchannelService) Create(ctx context.Context, channelID, actorID int64, name string, topic *string, position int) (*models.Subchannel, error) {
	if err := s.perms.Require(ctx, channelID, actorID, permissions.PermManageChannels); err != nil {
		return nil, err
	}
	if name == "" || len(name) > 100 {
		return nil, Validation("INVALID_NAME", "name must be 1-100 characters")
	}

	sub := &models.Subchannel{
		ID:        s.snowflake.Generate().Int64(),
		ChannelID: channelID,
		Name:      name,
		Topic:     topic,
		Position:  position,
	}
	if err := s.subchannels.Create(ctx, sub); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToChannel(channelID, gateway.EventSubchannelCreate, sub)
	return sub, nil
}

// Update edits a subchannel's name, topic, or position. Requires MANAGE_CHANNELS.
func (s *SubchannelService) Update(ctx context.Context, subchannelID, actorID int64, name *string, topic *string, position *int) (*models.Subchannel, error) {
	sub, err := s.subchannels.GetByID(ctx, subchannelID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if sub == nil {
		return nil, NotFound("NOT_FOUND", "subchannel not found")
	}
	if err := s.perms.Require(ctx, sub.ChannelID, actorID, permissions.PermManageChannels); err != nil {
		return nil, err
	}

	if name != nil {
		if *name == "" || len(*name) > 100 {
			return nil, Validation("INVALID_NAME", "name must be 1-100 characters")
		}
		sub.Name = *name
	}
	if topic != nil {
		sub.Topic = topic
	}
	if position != nil {
		sub.Position = *position
	}

	if err := s.subchannels.Update(ctx, sub); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToChannel(sub.ChannelID, gateway.EventSubchannelUpdate, sub)
	return sub, nil
}

// Delete removes a subchannel and its messages. Requires MANAGE_CHANNELS.
func (s *SubchannelService) Delete(ctx context.Context, subchannelID, actorID int64) error {
	sub, err := s.subchannels.GetByID(ctx, subchannelID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if sub == nil {
		return NotFound("NOT_FOUND", "subchannel not found")
	}
	if err := s.perms.Require(ctx, sub.ChannelID, actorID, permissions.PermManageChannels); err != nil {
		return err
	}

	if err := s.subchannels.Delete(ctx, subchannelID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToChannel(sub.ChannelID, gateway.EventSubchannelDelete, map[string]any{
		"id":         subchannelID,
		"channel_id": sub.ChannelID,
	})
	return nil
}
