package authorize

import (
	"strings"

	"github.com/goliatone/go-guard"
)

// RolePrefix marks attributes the RoleVoter handles, e.g. "ROLE_ADMIN".
const RolePrefix = "ROLE_"

// RoleVoter votes on ROLE_ prefixed attributes. For attributes it supports,
// absence of the role is an explicit Deny, never an abstention.
type RoleVoter struct{}

var _ Voter = RoleVoter{}

func NewRoleVoter() RoleVoter {
	return RoleVoter{}
}

func (RoleVoter) Supports(attribute string, _ any) bool {
	return strings.HasPrefix(attribute, RolePrefix)
}

func (v RoleVoter) Vote(identity guard.Identity, attribute string, subject any) Decision {
	if !v.Supports(attribute, subject) {
		return Abstain
	}

	role := strings.ToLower(strings.TrimPrefix(attribute, RolePrefix))

	if identity.HasRole(role) {
		return Allow
	}

	// some applications store the raw attribute as the role name
	if identity.HasRole(attribute) {
		return Allow
	}

	return Deny
}
