package models

import "github.com/andreivolkov/gatechat/internal/permissions"

// Role is a named bundle of permissions. Default templates (IsDefault = true)
// are global rows shared by every channel that activates them; custom roles
// are scoped to a single channel.
type Role struct {
	ID           int64                    `json:"id,string"`
	ChannelID    *int64                   `json:"channel_id,string,omitempty"` // nil for default templates
	Name         string                   `json:"name"`
	Description  *string                  `json:"description,omitempty"`
	Permissions  []permissions.Permission `json:"permissions"`
	TemplateType permissions.TemplateType `json:"template_type"`
	IsDefault    bool                     `json:"is_default"`
}

// ActiveRole is a role together with the channel binding that activates it.
type ActiveRole struct {
	ChannelRoleID int64 `json:"channel_role_id,string"`
	Role
}

// DefaultTemplateRoles returns the five global template role rows in the
// shape SeedTemplates expects.
func DefaultTemplateRoles() []Role {
	types := []permissions.TemplateType{
		permissions.TemplateOwner,
		permissions.TemplateAdmin,
		permissions.TemplateModerator,
		permissions.TemplateMember,
		permissions.TemplateGuest,
	}
	names := []string{"Owner", "Admin", "Moderator", "Member", "Guest"}
	roles := make([]Role, len(types))
	for i, tt := range types {
		roles[i] = Role{
			ID:           permissions.DefaultTemplateIDs[i],
			Name:         names[i],
			Permissions:  permissions.TemplateGrants(tt),
			TemplateType: tt,
			IsDefault:    true,
		}
	}
	return roles
}
