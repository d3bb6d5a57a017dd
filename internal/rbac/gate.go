package rbac

import "github.com/sentinel-iam/sentinel/internal/shared"

type requirementKind int

const (
	requireAllOf requirementKind = iota
	requireAnyOf
	requireRole
)

// Requirement describes what a protected operation demands of a principal:
// every listed permission, at least one of them, or a single role.
type Requirement struct {
	kind  requirementKind
	codes []string
}

// AllOf requires every listed permission code.
func AllOf(codes ...string) Requirement {
	return Requirement{kind: requireAllOf, codes: codes}
}

// AnyOf requires at least one of the listed permission codes.
func AnyOf(codes ...string) Requirement {
	return Requirement{kind: requireAnyOf, codes: codes}
}

// RoleOf requires a single role by code.
func RoleOf(code string) Requirement {
	return Requirement{kind: requireRole, codes: []string{code}}
}

// Authorize decides whether the principal satisfies the requirement. The
// principal must already be known-active; activity is checked at
// authentication time, not here. Failure is a *shared.ForbiddenError listing
// exactly the missing items.
func Authorize(p Principal, req Requirement) error {
	switch req.kind {
	case requireRole:
		if HasRole(p, req.codes[0]) {
			return nil
		}
		return &shared.ForbiddenError{Missing: []string{"role:" + req.codes[0]}}
	case requireAnyOf:
		grant := Resolve(p)
		if grant.HasAny(req.codes) {
			return nil
		}
		missing := make([]string, len(req.codes))
		copy(missing, req.codes)
		return &shared.ForbiddenError{Missing: missing}
	default:
		grant := Resolve(p)
		if missing := grant.Missing(req.codes); len(missing) > 0 {
			return &shared.ForbiddenError{Missing: missing}
		}
		return nil
	}
}
