package permissions

import (
	"encoding/json"
	"sort"
	"strings"
)

// Permission is a single capability identifier from the closed catalog.
type Permission string

const (
	PermSendMessages    Permission = "SEND_MESSAGES"
	PermManageMessages  Permission = "MANAGE_MESSAGES"
	PermManageChannels  Permission = "MANAGE_CHANNELS"
	PermManageRoles     Permission = "MANAGE_ROLES"
	PermKickMembers     Permission = "KICK_MEMBERS"
	PermBanMembers      Permission = "BAN_MEMBERS"
	PermInviteMembers   Permission = "INVITE_MEMBERS"
	PermPinMessages     Permission = "PIN_MESSAGES"
	PermManageWebhooks  Permission = "MANAGE_WEBHOOKS"
	PermAddReactions    Permission = "ADD_REACTIONS"
	PermAttachFiles     Permission = "ATTACH_FILES"
	PermEmbedLinks      Permission = "EMBED_LINKS"
	PermMentionEveryone Permission = "MENTION_EVERYONE"
	PermChangeNickname  Permission = "CHANGE_NICKNAME"
	PermManageNicknames Permission = "MANAGE_NICKNAMES"
	PermViewChannels    Permission = "VIEW_CHANNELS"
	PermConnectVoice    Permission = "CONNECT_VOICE"
	PermSpeakVoice      Permission = "SPEAK_VOICE"
	PermStreamVideo     Permission = "STREAM_VIDEO"
	PermPrioritySpeaker Permission = "PRIORITY_SPEAKER"
	PermViewAuditLog    Permission = "VIEW_AUDIT_LOG"
	PermModerateMembers Permission = "MODERATE_MEMBERS"
	PermManageEmojis    Permission = "MANAGE_EMOJIS"
	PermAdministrator   Permission = "ADMINISTRATOR" // grants the entire catalog
)

// catalog is the closed set of valid permissions. No dynamic additions.
var catalog = map[Permission]struct{}{
	PermSendMessages:    {},
	PermManageMessages:  {},
	PermManageChannels:  {},
	PermManageRoles:     {},
	PermKickMembers:     {},
	PermBanMembers:      {},
	PermInviteMembers:   {},
	PermPinMessages:     {},
	PermManageWebhooks:  {},
	PermAddReactions:    {},
	PermAttachFiles:     {},
	PermEmbedLinks:      {},
	PermMentionEveryone: {},
	PermChangeNickname:  {},
	PermManageNicknames: {},
	PermViewChannels:    {},
	PermConnectVoice:    {},
	PermSpeakVoice:      {},
	PermStreamVideo:     {},
	PermPrioritySpeaker: {},
	PermViewAuditLog:    {},
	PermModerateMembers: {},
	PermManageEmojis:    {},
	PermAdministrator:   {},
}

// Valid reports whether p is a member of the catalog.
func Valid(p Permission) bool {
	_, ok := catalog[p]
	return ok
}

// CatalogSize returns the number of permissions in the catalog.
func CatalogSize() int { return len(catalog) }

// Set is an unordered collection of catalog permissions.
type Set map[Permission]struct{}

// NewSet builds a Set from the given permissions. Values are not validated;
// callers that accept external input must check Valid first.
func NewSet(perms ...Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

// All returns a fresh Set containing the full catalog.
func All() Set {
	s := make(Set, len(catalog))
	for p := range catalog {
		s[p] = struct{}{}
	}
	return s
}

// Has reports whether p is in the set. Safe on a nil Set.
func (s Set) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Add inserts p into the set.
func (s Set) Add(p Permission) { s[p] = struct{}{} }

// Union inserts every permission from other into s and returns s.
func (s Set) Union(other Set) Set {
	for p := range other {
		s[p] = struct{}{}
	}
	return s
}

// Len returns the number of permissions in the set.
func (s Set) Len() int { return len(s) }

// Values returns the permissions in sorted order.
func (s Set) Values() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Equal reports whether both sets contain exactly the same permissions.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for p := range s {
		if !other.Has(p) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as a sorted JSON array of identifiers.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// UnmarshalJSON decodes a JSON array of identifiers.
func (s *Set) UnmarshalJSON(data []byte) error {
	var perms []Permission
	if err := json.Unmarshal(data, &perms); err != nil {
		return err
	}
	*s = NewSet(perms...)
	return nil
}

// String returns the sorted identifiers joined with " | ", or "NONE".
func (s Set) String() string {
	if len(s) == 0 {
		return "NONE"
	}
	vals := s.Values()
	parts := make([]string, len(vals))
	for i, p := range vals {
		parts[i] = string(p)
	}
	return strings.Join(parts, " | ")
}
