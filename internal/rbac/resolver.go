package rbac

// Grant is the resolved effective permission set of a principal. The superuser
// case is a tagged sentinel rather than an enumerated set, so callers cannot
// forget the bypass.
type Grant struct {
	all   bool
	codes map[string]struct{}
}

// AllGranted returns the universal grant held by superusers.
func AllGranted() Grant {
	return Grant{all: true}
}

// GrantOf builds a grant from explicit permission codes.
func GrantOf(codes ...string) Grant {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return Grant{codes: set}
}

// All reports whether the grant is the universal superuser sentinel.
func (g Grant) All() bool {
	return g.all
}

// Has reports whether a single permission code is granted.
func (g Grant) Has(code string) bool {
	if g.all {
		return true
	}
	_, ok := g.codes[code]
	return ok
}

// HasAll reports whether every required code is granted.
func (g Grant) HasAll(required []string) bool {
	if g.all {
		return true
	}
	for _, code := range required {
		if _, ok := g.codes[code]; !ok {
			return false
		}
	}
	return true
}

// HasAny reports whether at least one required code is granted.
func (g Grant) HasAny(required []string) bool {
	if g.all {
		return true
	}
	for _, code := range required {
		if _, ok := g.codes[code]; ok {
			return true
		}
	}
	return false
}

// Missing returns the required codes absent from the grant.
func (g Grant) Missing(required []string) []string {
	if g.all {
		return nil
	}
	var missing []string
	for _, code := range required {
		if _, ok := g.codes[code]; !ok {
			missing = append(missing, code)
		}
	}
	return missing
}

// Resolve computes the effective permission set of a principal: the union of
// permission codes over all assigned roles, or the universal grant for
// superusers.
func Resolve(p Principal) Grant {
	if p.IsSuperUser() {
		return AllGranted()
	}
	set := make(map[string]struct{})
	for _, role := range p.GetRoles() {
		for _, perm := range role.Permissions {
			set[perm.Code] = struct{}{}
		}
	}
	return Grant{codes: set}
}

// HasRole reports whether the principal holds the role. Superusers pass any
// role check.
func HasRole(p Principal, code string) bool {
	if p.IsSuperUser() {
		return true
	}
	for _, role := range p.GetRoles() {
		if role.Code == code {
			return true
		}
	}
	return false
}

// Scopes flattens the principal's assignment into token scope strings: one
// "role:<code>" entry per assigned role followed by every permission code
// granted through those roles, deduplicated with first-occurrence order
// preserved. The result is a mint-time snapshot.
func Scopes(p Principal) []string {
	var scopes []string
	seen := make(map[string]struct{})
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		scopes = append(scopes, s)
	}
	for _, role := range p.GetRoles() {
		add("role:" + role.Code)
		for _, perm := range role.Permissions {
			add(perm.Code)
		}
	}
	return scopes
}
