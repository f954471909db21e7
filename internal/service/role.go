package service

import (
	"context"

	"github.com/andreivolkov/gatechat/internal/database"
	"github.com/andreivolkov/gatechat/internal/gateway"
	"github.com/andreivolkov/gatechat/internal/models"
	"github.com/andreivolkov/gatechat/internal/permissions"
	"github.com/andreivolkov/gatechat/internal/snowflake"
)

// RoleService handles custom role administration and member-role assignment.
type RoleService struct {
	channels  database.ChannelRepository
	roles     database.RoleRepository
	members   database.MemberRepository
	snowflake *snowflake.Generator
	gateway   gateway.Dispatcher
	perms     *PermissionChecker
}

// NewRoleService creates a RoleService.
func NewRoleService(
	channels database.ChannelRepository,
	roles database.RoleRepository,
	members database.MemberRepository,
	sf *snowflake.Generator,
	gw gateway.Dispatcher,
	perms *PermissionChecker,
) *RoleService {
	return &RoleService{
		channels:  channels,
		roles:     roles,
		members:   members,
		snowflake: sf,
		gateway:   gw,
		perms:     perms,
	}
}

// validateRoleInput checks name and permission list against the catalog.
func validateRoleInput(name string, perms []permissions.Permission) error {
	if name == "" || len(name) > 100 {
		return Validation("INVALID_NAME", "name must be 1-100 characters")
	}
	if len(perms) == 0 {
		return Validation("INVALID_PERMISSIONS", "permission list must not be empty")
	}
	for _, p := range perms {
		if !permissions.Valid(p) {
			return Validation("INVALID_PERMISSIONS", "unknown permission: "+string(p))
		}
	}
	return nil
}

// ListRoles returns all roles active in a channel. Caller must be a member.
func (s *RoleService) ListRoles(ctx context.Context, channelID, userID int64) ([]models.ActiveRole, error) {
	if err := s.perms.RequireMember(ctx, channelID, userID); err != nil {
		return nil, err
	}

	active, err := s.roles.ListActive(ctx, channelID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if active == nil {
		active = []models.ActiveRole{}
	}
	return active, nil
}

// CreateCustomRole creates a channel-scoped role and activates it. The
// MANAGE_ROLES check runs before any validation.
func (s *RoleService) CreateCustomRole(ctx context.Context, channelID, actorID int64, name string, perms []permissions.Permission, description *string) (*models.ActiveRole, error) {
	if err := s.perms.Require(ctx, channelID, actorID, permissions.PermManageRoles); err != nil {
		return nil, err
	}

	if err := validateRoleInput(name, perms); err != nil {
		return nil, err
	}

	role := &models.Role{
		ID:           s.snowflake.Generate().Int64(),
		ChannelID:    &channelID,
		Name:         name,
		Description:  description,
		Permissions:  perms,
		TemplateType: permissions.TemplateCustom,
		IsDefault:    false,
	}
	channelRoleID := s.snowflake.Generate().Int64()

	created, err := s.roles.CreateCustom(ctx, role, channelRoleID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if !created {
		return nil, RoleLimitExceeded("channel has reached its role limit")
	}

	active := &models.ActiveRole{ChannelRoleID: channelRoleID, Role: *role}
	s.gateway.DispatchToChannel(channelID, gateway.EventRoleCreate, map[string]any{"channel_id": channelID, "role": active})
	return active, nil
}

// UpdateCustomRole edits a custom role's name, description, or permissions.
func (s *RoleService) UpdateCustomRole(ctx context.Context, channelID, actorID, roleID int64, name *string, perms []permissions.Permission, description *string) (*models.Role, error) {
	if err := s.perms.Require(ctx, channelID, actorID, permissions.PermManageRoles); err != nil {
		return nil, err
	}

	active, err := s.roles.GetActive(ctx, channelID, roleID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if active == nil {
		return nil, RoleNotInChannel("role is not active in this channel")
	}
	if active.IsDefault {
		return nil, ImmutableRole("default template roles cannot be edited")
	}

	role := active.Role
	if name != nil {
		role.Name = *name
	}
	if description != nil {
		role.Description = description
	}
	if perms != nil {
		role.Permissions = perms
	}
	if err := validateRoleInput(role.Name, role.Permissions); err != nil {
		return nil, err
	}

	if err := s.roles.Update(ctx, &role); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToChannel(channelID, gateway.EventRoleUpdate, map[string]any{"channel_id": channelID, "role": role})
	return &role, nil
}

// DeleteCustomRole removes a custom role, its activation binding, and every
// member assignment referencing it. Default templates are never deletable.
func (s *RoleService) DeleteCustomRole(ctx context.Context, channelID, actorID, roleID int64) error {
	if err := s.perms.Require(ctx, channelID, actorID, permissions.PermManageRoles); err != nil {
		return err
	}

	active, err := s.roles.GetActive(ctx, channelID, roleID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if active == nil {
		return RoleNotInChannel("role is not active in this channel")
	}
	if active.IsDefault {
		return ImmutableRole("default template roles cannot be deleted")
	}

	if err := s.roles.DeleteCustom(ctx, channelID, roleID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToChannel(channelID, gateway.EventRoleDelete, map[string]any{"channel_id": channelID, "role_id": roleID})
	return nil
}

// AssignRole binds an active channel role to a member.
func (s *RoleService) AssignRole(ctx context.Context, channelID, actorID, targetUserID, roleID int64) error {
	if err := s.perms.Require(ctx, channelID, actorID, permissions.PermManageRoles); err != nil {
		return err
	}

	member, err := s.members.GetByChannelAndUser(ctx, channelID, targetUserID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return NotFound("NOT_FOUND", "member not found")
	}

	active, err := s.roles.GetActive(ctx, channelID, roleID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if active == nil {
		return RoleNotInChannel("role is not active in this channel")
	}

	if err := s.members.AssignRole(ctx, member.ID, active.ChannelRoleID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToChannel(channelID, gateway.EventMemberRolesUpdate, map[string]any{"channel_id": channelID, "user_id": targetUserID})
	return nil
}

// RemoveRole unbinds a role from a member. Removing a role the member does
// not hold succeeds as a no-op.
func (s *RoleService) RemoveRole(ctx context.Context, channelID, actorID, targetUserID, roleID int64) error {
	if err := s.perms.Require(ctx, channelID, actorID, permissions.PermManageRoles); err != nil {
		return err
	}

	member, err := s.members.GetByChannelAndUser(ctx, channelID, targetUserID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return NotFound("NOT_FOUND", "member not found")
	}

	active, err := s.roles.GetActive(ctx, channelID, roleID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if active == nil {
		return RoleNotInChannel("role is not active in this channel")
	}

	if err := s.members.RemoveRole(ctx, member.ID, active.ChannelRoleID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToChannel(channelID, gateway.EventMemberRolesUpdate, map[string]any{"channel_id": channelID, "user_id": targetUserID})
	return nil
}
