package service

import (
	"context"
	"time"

	"github.com/andreivolkov/gatechat/internal/database"
	"github.com/andreivolkov/gatechat/internal/gateway"
	"github.com/andreivolkov/gatechat/internal/models"
	"github.com/andreivolkov/gatechat/internal/permissions"
	"github.com/andreivolkov/gatechat/internal/snowflake"
)

// ChannelService handles channel lifecycle and membership entry/exit.
type ChannelService struct {
	channels    database.ChannelRepository
	subchannels database.SubchannelRepository
	roles       database.RoleRepository
	members     database.MemberRepository
	gates       *GateService
	snowflake   *snowflake.Generator
	gateway     gateway.Dispatcher
	perms       *PermissionChecker
}

// NewChannelService creates a ChannelService.
func NewChannelService(
	channels database.ChannelRepository,
	subchannels database.SubchannelRepository,
	roles database.RoleRepository,
	members database.MemberRepository,
	gates *GateService,
	sf *snowflake.Generator,
	gw gateway.Dispatcher,
	perms *PermissionChecker,
) *ChannelService {
	return &ChannelService{
		channels:    channels,
		subchannels: subchannels,
		roles:       roles,
		members:     members,
		gates:       gates,
		snowflake:   sf,
		gateway:     gw,
		perms:       perms,
	}
}

// Create builds a channel with its five default template roles activated, the
// creator joined as a member, and the Owner role assigned. All of it commits
// in one transaction; any failure leaves nothing behind.
func (s *ChannelService) Create(ctx context.Context, creatorID int64, name string, maxRoles int) (*models.Channel, error) {
	if name == "" || len(name) > 100 {
		return nil, Validation("INVALID_NAME", "name must be 1-100 characters")
	}
	if maxRoles == 0 {
		maxRoles = models.DefaultMaxRoles
	}
	if maxRoles < len(permissions.DefaultTemplateIDs) {
		return nil, Validation("INVALID_MAX_ROLES", "max_roles cannot be lower than the default template count")
	}

	channel := &models.Channel{
		ID:        s.snowflake.Generate().Int64(),
		Name:      name,
		CreatorID: creatorID,
		MaxRoles:  maxRoles,
		CreatedAt: time.Now(),
	}

	templateRoleIDs := permissions.DefaultTemplateIDs
	channelRoleIDs := make([]int64, len(templateRoleIDs))
	for i := range templateRoleIDs {
		channelRoleIDs[i] = s.snowflake.Generate().Int64()
	}
	memberID := s.snowflake.Generate().Int64()

	if err := s.channels.CreateWithOwner(ctx, channel, channelRoleIDs, templateRoleIDs, permissions.TemplateOwnerID, memberID); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	general := &models.Subchannel{
		ID:        s.snowflake.Generate().Int64(),
		ChannelID: channel.ID,
		Name:      "general",
		Position:  0,
	}
	if err := s.subchannels.Create(ctx, general); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	return channel, nil
}

// Get returns a channel. Caller must be a member.
func (s *ChannelService) Get(ctx context.Context, channelID, userID int64) (*models.Channel, error) {
	if err := s.perms.RequireMember(ctx, channelID, userID); err != nil {
		return nil, err
	}
	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if channel == nil {
		return nil, NotFound("NOT_FOUND", "channel not found")
	}
	return channel, nil
}

// ListMine returns the channels the user belongs to.
func (s *ChannelService) ListMine(ctx context.Context, userID int64) ([]models.Channel, error) {
	channels, err := s.channels.GetByUserID(ctx, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if channels == nil {
		channels = []models.Channel{}
	}
	return channels, nil
}

// Update renames a channel. Requires MANAGE_CHANNELS.
func (s *ChannelService) Update(ctx context.Context, channelID, actorID int64, name string) (*models.Channel, error) {
	if err := s.perms.Require(ctx, channelID, actorID, permissions.PermManageChannels); err != nil {
		return nil, err
	}
	if name == "" || len(name) > 100 {
		return nil, Validation("INVALID_NAME", "name must be 1-100 characters")
	}

	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if channel == nil {
		return nil, NotFound("NOT_FOUND", "channel not found")
	}

	channel.Name = name
	if err := s.channels.Update(ctx, channel); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToChannel(channelID, gateway.EventChannelUpdate, channel)
	return channel, nil
}

// Delete removes a channel. Only the creator may do this, regardless of roles.
func (s *ChannelService) Delete(ctx context.Context, channelID, actorID int64) error {
	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if channel == nil {
		return NotFound("NOT_FOUND", "channel not found")
	}
	if channel.CreatorID != actorID {
		return Forbidden("NOT_CREATOR", "only the channel creator can delete it")
	}

	if err := s.channels.Delete(ctx, channelID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToChannel(channelID, gateway.EventChannelDelete, map[string]any{"channel_id": channelID})
	return nil
}

// Join makes the user a member of a channel, clearing its token gate first if
// one is set. New members receive the Member template automatically.
func (s *ChannelService) Join(ctx context.Context, channelID, userID int64) (*models.Member, error) {
	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if channel == nil {
		return nil, NotFound("NOT_FOUND", "channel not found")
	}

	existing, err := s.members.GetByChannelAndUser(ctx, channelID, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if existing != nil {
		return existing, nil
	}

	if err := s.gates.CheckAccess(ctx, channelID, userID); err != nil {
		return nil, err
	}

	memberRole, err := s.roles.GetActive(ctx, channelID, permissions.TemplateMemberID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	var starterBinding int64
	if memberRole != nil {
		starterBinding = memberRole.ChannelRoleID
	}

	member := &models.Member{
		ID:        s.snowflake.Generate().Int64(),
		ChannelID: channelID,
		UserID:    userID,
		JoinedAt:  time.Now(),
	}
	if err := s.members.CreateWithRole(ctx, member, starterBinding); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if starterBinding != 0 {
		member.ChannelRoleIDs = []int64{starterBinding}
	}

	s.gateway.DispatchToChannel(channelID, gateway.EventMemberAdd, member)
	return member, nil
}

// Leave removes the user's own membership. The creator cannot leave their own
// channel; they delete it instead.
func (s *ChannelService) Leave(ctx context.Context, channelID, userID int64) error {
	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if channel == nil {
		return NotFound("NOT_FOUND", "channel not found")
	}
	if channel.CreatorID == userID {
		return Validation("CREATOR_CANNOT_LEAVE", "the creator cannot leave their own channel")
	}

	member, err := s.members.GetByChannelAndUser(ctx, channelID, userID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return NotFound("NOT_FOUND", "channel not found")
	}

	if err := s.members.Delete(ctx, channelID, userID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToChannel(channelID, gateway.EventMemberRemove, map[string]any{"channel_id": channelID, "user_id": userID})
	return nil
}
