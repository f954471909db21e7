package permissions

// Query answers boolean permission questions for one member of one channel.
// The zero value represents "not loaded yet" and answers false to everything,
// so callers gating actions on an in-flight or failed load fail closed.
type Query struct {
	member   bool
	resolved Set
}

// NewQuery builds a Query for a member holding the given role grants.
// Pass member=false for a user with no membership record in the channel;
// such a query denies every permission.
func NewQuery(member bool, roleGrants ...[]Permission) Query {
	if !member {
		return Query{}
	}
	return Query{member: true, resolved: Resolve(roleGrants...)}
}

// Can reports whether the member holds the given permission.
func (q Query) Can(p Permission) bool {
	return q.resolved.Has(p)
}

// IsMember reports whether a membership record exists.
func (q Query) IsMember() bool { return q.member }

// IsAdmin reports whether the member holds ADMINISTRATOR.
func (q Query) IsAdmin() bool { return q.Can(PermAdministrator) }

// IsModerator reports whether the member can kick, ban, or manage messages.
// This is deliberately an OR of three grants rather than a named tier; the
// client relies on exactly this union.
func (q Query) IsModerator() bool {
	return q.Can(PermKickMembers) || q.Can(PermBanMembers) || q.Can(PermManageMessages)
}

// Permissions returns the member's resolved permission set.
func (q Query) Permissions() Set { return q.resolved }
