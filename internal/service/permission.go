package service

import (
	"context"

	"github.com/andreivolkov/gatechat/internal/database"
	"github.com/andreivolkov/gatechat/internal/models"
	"github.com/andreivolkov/gatechat/internal/permissions"
)

// PermissionChecker loads the member/role graph for a channel and answers
// permission checks. Resolution itself is pure (internal/permissions); this
// type owns the I/O around it.
type PermissionChecker struct {
	channels database.ChannelRepository
	members  database.MemberRepository
	roles    database.RoleRepository
}

// NewPermissionChecker creates a PermissionChecker.
func NewPermissionChecker(
	channels database.ChannelRepository,
	members database.MemberRepository,
	roles database.RoleRepository,
) *PermissionChecker {
	return &PermissionChecker{
		channels: channels,
		members:  members,
		roles:    roles,
	}
}

// roleGrants flattens loaded roles into their permission lists.
func roleGrants(roles []models.Role) [][]permissions.Permission {
	grants := make([][]permissions.Permission, len(roles))
	for i, r := range roles {
		grants[i] = r.Permissions
	}
	return grants
}

// QueryFor loads the caller's membership in a channel and builds a permission
// query over it. A user with no membership record gets a query that denies
// everything (default-deny); the channel not existing is reported as NotFound.
func (p *PermissionChecker) QueryFor(ctx context.Context, channelID, userID int64) (permissions.Query, error) {
	channel, err := p.channels.GetByID(ctx, channelID)
	if err != nil {
		return permissions.Query{}, Internal("INTERNAL", "internal server error")
	}
	if channel == nil {
		return permissions.Query{}, NotFound("NOT_FOUND", "channel not found")
	}

	member, err := p.members.GetByChannelAndUser(ctx, channelID, userID)
	if err != nil {
		return permissions.Query{}, Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return permissions.NewQuery(false), nil
	}

	roles, err := p.roles.GetByMember(ctx, channelID, userID)
	if err != nil {
		return permissions.Query{}, Internal("INTERNAL", "internal server error")
	}

	return permissions.NewQuery(true, roleGrants(roles)...), nil
}

// Require checks that the user holds perm in the channel. It runs before any
// other validation in mutation paths, so callers without the permission learn
// nothing about role limits or other channel state.
func (p *PermissionChecker) Require(ctx context.Context, channelID, userID int64, perm permissions.Permission) error {
	q, err := p.QueryFor(ctx, channelID, userID)
	if err != nil {
		return err
	}
	if !q.Can(perm) {
		return Forbidden("MISSING_PERMISSIONS", "you do not have permission to perform this action")
	}
	return nil
}

// RequireMember checks that the user has a membership record in the channel.
func (p *PermissionChecker) RequireMember(ctx context.Context, channelID, userID int64) error {
	q, err := p.QueryFor(ctx, channelID, userID)
	if err != nil {
		return err
	}
	if !q.IsMember() {
		return NotFound("NOT_FOUND", "channel not found")
	}
	return nil
}
