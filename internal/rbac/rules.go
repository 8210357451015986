package rbac

import (
	"errors"
	"fmt"
	"slices"
)

// ErrValidation is wrapped by every rule validation failure.
var ErrValidation = errors.New("invalid permission rules")

// Rule is what one role may do and see within a tenant.
type Rule struct {
	Actions []string `json:"actions"`
	Pages   []string `json:"pages"`
}

// RoleRule is the list form the console submits: one entry per role.
type RoleRule struct {
	Role    string   `json:"role"`
	Actions []string `json:"actions"`
	Pages   []string `json:"pages"`
}

// Rules maps role to rule for one tenant. A nil or empty Rules denies everything.
type Rules map[string]Rule

// IsAllowed reports whether role may perform action on page. Pure; unknown
// roles, actions and pages are denied.
func (r Rules) IsAllowed(role, action, page string) bool {
	rule, ok := r[role]
	if !ok {
		return false
	}
	return slices.Contains(rule.Actions, action) && slices.Contains(rule.Pages, page)
}

// Validate checks every value against the fixed enumerations.
func (r Rules) Validate() error {
	for role, rule := range r {
		if !IsRole(role) {
			return fmt.Errorf("%w: unknown role %q", ErrValidation, role)
		}
		for _, a := range rule.Actions {
			if !IsAction(a) {
				return fmt.Errorf("%w: unknown action %q for role %q", ErrValidation, a, role)
			}
		}
		for _, p := range rule.Pages {
			if !IsPage(p) {
				return fmt.Errorf("%w: unknown page %q for role %q", ErrValidation, p, role)
			}
		}
	}
	return nil
}

// Normalize returns a copy with actions and pages deduplicated and sorted.
func (r Rules) Normalize() Rules {
	out := make(Rules, len(r))
	for role, rule := range r {
		out[role] = Rule{Actions: sortedSet(rule.Actions), Pages: sortedSet(rule.Pages)}
	}
	return out
}

// Equal compares two rule sets with set semantics for actions and pages.
func (r Rules) Equal(o Rules) bool {
	if len(r) != len(o) {
		return false
	}
	a, b := r.Normalize(), o.Normalize()
	for role, ra := range a {
		rb, ok := b[role]
		if !ok || !slices.Equal(ra.Actions, rb.Actions) || !slices.Equal(ra.Pages, rb.Pages) {
			return false
		}
	}
	return true
}

// List returns the rules in list form ordered by role.
func (r Rules) List() []RoleRule {
	n := r.Normalize()
	roles := make([]string, 0, len(n))
	for role := range n {
		roles = append(roles, role)
	}
	slices.Sort(roles)
	out := make([]RoleRule, 0, len(roles))
	for _, role := range roles {
		out = append(out, RoleRule{Role: role, Actions: n[role].Actions, Pages: n[role].Pages})
	}
	return out
}

// FromList builds Rules from the list form. A role may appear once.
func FromList(list []RoleRule) (Rules, error) {
	out := make(Rules, len(list))
	for _, rr := range list {
		if _, dup := out[rr.Role]; dup {
			return nil, fmt.Errorf("%w: role %q listed twice", ErrValidation, rr.Role)
		}
		out[rr.Role] = Rule{Actions: rr.Actions, Pages: rr.Pages}
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out.Normalize(), nil
}

func sortedSet(in []string) []string {
	out := make([]string, 0, len(in))
	out = append(out, in...)
	slices.Sort(out)
	return slices.Compact(out)
}
