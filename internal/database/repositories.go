package database

import (
	"context"

	"github.com/andreivolkov/gatechat/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}

type ChannelRepository interface {
	// CreateWithOwner runs the whole channel-creation sequence in one
	// transaction: the channel row, the default template activations, the
	// creator's member row, and the creator's owner-role assignment.
	CreateWithOwner(ctx context.Context, channel *models.Channel, channelRoleIDs []int64, templateRoleIDs []int64, ownerTemplateRoleID, memberID int64) error
	GetByID(ctx context.Context, id int64) (*models.Channel, error)
	GetByUserID(ctx context.Context, userID int64) ([]models.Channel, error)
	Update(ctx context.Context, channel *models.Channel) error
	Delete(ctx context.Context, id int64) error
}

type SubchannelRepository interface {
	Create(ctx context.Context, sub *models.Subchannel) error
	GetByID(ctx context.Context, id int64) (*models.Subchannel, error)
	GetByChannelID(ctx context.Context, channelID int64) ([]models.Subchannel, error)
	Update(ctx context.Context, sub *models.Subchannel) error
	Delete(ctx context.Context, id int64) error
}

type RoleRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Role, error)
	// ListActive returns every role activated in a channel together with its
	// channel-role binding.
	ListActive(ctx context.Context, channelID int64) ([]models.ActiveRole, error)
	// GetActive returns the binding for one role in one channel, or nil if
	// the role is not active there.
	GetActive(ctx context.Context, channelID, roleID int64) (*models.ActiveRole, error)
	// CreateCustom inserts a custom role and its activation binding in one
	// transaction, guarded by the channel's max_roles. Returns false without
	// inserting anything when the channel is already at its role limit.
	CreateCustom(ctx context.Context, role *models.Role, channelRoleID int64) (bool, error)
	Update(ctx context.Context, role *models.Role) error
	// DeleteCustom removes member assignments, the activation binding, and
	// (for CUSTOM roles) the role row itself.
	DeleteCustom(ctx context.Context, channelID, roleID int64) error
	// GetByMember returns the roles assigned to a user's membership in a
	// channel, permissions included.
	GetByMember(ctx context.Context, channelID, userID int64) ([]models.Role, error)
	// SeedTemplates upserts the global default template rows. Idempotent.
	SeedTemplates(ctx context.Context, templates []models.Role) error
}

type MemberRepository interface {
	// CreateWithRole inserts the member and, when channelRoleID is non-zero,
	// its initial role assignment in one transaction.
	CreateWithRole(ctx context.Context, member *models.Member, channelRoleID int64) error
	GetByChannelAndUser(ctx context.Context, channelID, userID int64) (*models.Member, error)
	GetByChannelID(ctx context.Context, channelID int64, limit, offset int) ([]models.Member, error)
	Delete(ctx context.Context, channelID, userID int64) error
	// AssignRole binds a member to an active channel role. Duplicate
	// assignments are deduplicated by the primary key.
	AssignRole(ctx context.Context, memberID, channelRoleID int64) error
	// RemoveRole is a no-op if the member does not hold the role.
	RemoveRole(ctx context.Context, memberID, channelRoleID int64) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	GetByID(ctx context.Context, id int64) (*models.MessageWithAuthor, error)
	GetBySubchannelID(ctx context.Context, subchannelID int64, before *int64, limit int) ([]models.MessageWithAuthor, error)
	Update(ctx context.Context, msg *models.Message) error
	SetPinned(ctx context.Context, id int64, pinned bool) error
	Delete(ctx context.Context, id int64) error
}

type InviteRepository interface {
	Create(ctx context.Context, invite *models.Invite) error
	GetByCode(ctx context.Context, code string) (*models.Invite, error)
	GetByChannelID(ctx context.Context, channelID int64) ([]models.Invite, error)
	IncrementUses(ctx context.Context, code string) error
	Delete(ctx context.Context, code string) error
}

type GateRepository interface {
	SetGate(ctx context.Context, gate *models.TokenGate) error
	GetGate(ctx context.Context, channelID int64) (*models.TokenGate, error)
	DeleteGate(ctx context.Context, channelID int64) error
	GetBalance(ctx context.Context, userID int64, tokenSymbol string) (int64, error)
	SetBalance(ctx context.Context, balance *models.Balance) error
}
