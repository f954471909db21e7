package permissions

// TemplateType discriminates default role templates from channel-scoped
// custom roles.
type TemplateType string

const (
	TemplateOwner     TemplateType = "OWNER"
	TemplateAdmin     TemplateType = "ADMIN"
	TemplateModerator TemplateType = "MODERATOR"
	TemplateMember    TemplateType = "MEMBER"
	TemplateGuest     TemplateType = "GUEST"
	TemplateCustom    TemplateType = "CUSTOM"
)

// Default template role IDs. The templates are global rows shared by every
// channel that activates them; fixed IDs keep seeding idempotent.
const (
	TemplateOwnerID     int64 = 1
	TemplateAdminID     int64 = 2
	TemplateModeratorID int64 = 3
	TemplateMemberID    int64 = 4
	TemplateGuestID     int64 = 5
)

// DefaultTemplateIDs lists the template role IDs activated for every new
// channel, in seeding order.
var DefaultTemplateIDs = []int64{
	TemplateOwnerID,
	TemplateAdminID,
	TemplateModeratorID,
	TemplateMemberID,
	TemplateGuestID,
}

// TemplateGrants returns the permission list for a default template type,
// or nil for CUSTOM and unknown types.
func TemplateGrants(t TemplateType) []Permission {
	switch t {
	case TemplateOwner:
		return []Permission{PermAdministrator}
	case TemplateAdmin:
		return []Permission{
			PermViewChannels, PermSendMessages, PermManageMessages,
			PermManageChannels, PermManageRoles, PermKickMembers,
			PermBanMembers, PermInviteMembers, PermPinMessages,
			PermManageWebhooks, PermManageNicknames, PermManageEmojis,
			PermMentionEveryone, PermModerateMembers, PermViewAuditLog,
			PermAddReactions, PermAttachFiles, PermEmbedLinks,
			PermChangeNickname, PermConnectVoice, PermSpeakVoice,
			PermStreamVideo,
		}
	case TemplateModerator:
		return []Permission{
			PermViewChannels, PermSendMessages, PermManageMessages,
			PermKickMembers, PermBanMembers, PermInviteMembers,
			PermPinMessages, PermModerateMembers, PermManageNicknames,
			PermAddReactions, PermAttachFiles, PermEmbedLinks,
			PermChangeNickname, PermConnectVoice, PermSpeakVoice,
			PermStreamVideo,
		}
	case TemplateMember:
		return []Permission{
			PermViewChannels, PermSendMessages, PermInviteMembers,
			PermAddReactions, PermAttachFiles, PermEmbedLinks,
			PermChangeNickname, PermConnectVoice, PermSpeakVoice,
			PermStreamVideo,
		}
	case TemplateGuest:
		return []Permission{PermViewChannels, PermAddReactions}
	default:
		return nil
	}
}
