// Package authroles maps identity provider groups onto application roles.
package authroles

import (
	domainauth "github.com/target/jobops-api/internal/domain/auth"
	"github.com/target/jobops-api/internal/ports"
)

// StaticRoleMapper maps configured group names to roles. When a caller belongs to
// several mapped groups the most privileged role wins: ADMIN, then SALES_AGENT,
// then TECHNICIAN.
type StaticRoleMapper struct {
	AdminGroup      string
	SalesAgentGroup string
	TechnicianGroup string
}

var _ ports.RoleMapper = StaticRoleMapper{}

// Map returns the role granted by groups, or false when none of them is mapped.
func (m StaticRoleMapper) Map(groups []string) (domainauth.Role, bool) {
	member := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		member[g] = struct{}{}
	}
	for _, rule := range []struct {
		group string
		role  domainauth.Role
	}{
		{m.AdminGroup, domainauth.RoleAdmin},
		{m.SalesAgentGroup, domainauth.RoleSalesAgent},
		{m.TechnicianGroup, domainauth.RoleTechnician},
	} {
		if rule.group == "" {
			continue
		}
		if _, ok := member[rule.group]; ok {
			return rule.role, true
		}
	}
	return "", false
}
