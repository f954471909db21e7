package permissions

// Resolve flattens the permission lists of a member's assigned roles into a
// single set.
//  1. Union each role's permissions in turn.
//  2. If any role grants ADMINISTRATOR, return the full catalog immediately.
//
// The result is order-independent: shuffling the role lists never changes it.
func Resolve(roleGrants ...[]Permission) Set {
	resolved := Set{}
	for _, grants := range roleGrants {
		for _, p := range grants {
			if p == PermAdministrator {
				return All()
			}
		}
		resolved.Union(NewSet(grants...))
	}
	return resolved
}

// Has reports whether the resolved permissions of the given role grants
// include perm.
func Has(perm Permission, roleGrants ...[]Permission) bool {
	return Resolve(roleGrants...).Has(perm)
}
