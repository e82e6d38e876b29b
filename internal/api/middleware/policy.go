package middleware

import (
	"slices"
	"sort"
	"strings"

	"github.com/pawcare/auth-service/internal/core/domain"
)

// RoleRule restricts Prefix and every path below it to Roles.
type RoleRule struct {
	Prefix string
	Roles  []domain.Role
}

// Policy is the gate's routing table. It is built once and never mutated, so
// one value can be shared by every request.
type Policy struct {
	public []string
	rules  []RoleRule // longest prefix first
}

// NewPolicy copies public and rules into an immutable Policy.
func NewPolicy(public []string, rules []RoleRule) *Policy {
	p := &Policy{
		public: slices.Clone(public),
		rules:  make([]RoleRule, len(rules)),
	}
	for i, r := range rules {
		p.rules[i] = RoleRule{Prefix: r.Prefix, Roles: slices.Clone(r.Roles)}
	}
	sort.SliceStable(p.rules, func(i, j int) bool {
		return len(p.rules[i].Prefix) > len(p.rules[j].Prefix)
	})
	return p
}

// DefaultPolicy is the service's allow-list and role table.
func DefaultPolicy() *Policy {
	return NewPolicy(
		[]string{
			"/",
			"/api/health",
			"/api/auth/register",
			"/api/auth/login",
			"/api/auth/refresh",
			"/api/auth/logout",
			"/metrics",
			"/swagger",
		},
		[]RoleRule{
			{Prefix: "/api/admin", Roles: []domain.Role{domain.RoleAdmin}},
			{Prefix: "/api/veterinary", Roles: []domain.Role{domain.RoleVeterinary, domain.RoleAdmin}},
			{Prefix: "/api/receptionist", Roles: []domain.Role{domain.RoleReceptionist, domain.RoleAdmin}},
			{Prefix: "/api/trainer", Roles: []domain.Role{domain.RoleTrainer, domain.RoleAdmin}},
			{Prefix: "/api/driver", Roles: []domain.Role{domain.RoleDriver, domain.RoleAdmin}},
		},
	)
}

// underPrefix reports whether path is prefix itself or a sub-path of it.
// "/api/admin" covers "/api/admin/users" but not "/api/administrator".
func underPrefix(path, prefix string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// IsPublic reports whether path is on the allow-list, either exactly or as a
// sub-path ("/api/health/ready" is public because "/api/health" is).
func (p *Policy) IsPublic(path string) bool {
	for _, pub := range p.public {
		// "/" is exact-only; otherwise every path would be public.
		if pub == "/" {
			if path == "/" {
				return true
			}
			continue
		}
		if underPrefix(path, pub) {
			return true
		}
	}
	return false
}

// RequiredRoles returns the roles of the longest matching rule, or nil when
// any authenticated caller may pass.
func (p *Policy) RequiredRoles(path string) []domain.Role {
	for _, r := range p.rules {
		if underPrefix(path, r.Prefix) {
			return r.Roles
		}
	}
	return nil
}

// Allows reports whether role may access path.
func (p *Policy) Allows(path string, role domain.Role) bool {
	roles := p.RequiredRoles(path)
	return len(roles) == 0 || slices.Contains(roles, role)
}
