package authorize

import (
	"reflect"
	"strings"

	"github.com/goliatone/go-guard"
)

// ResourceTyped lets a subject declare its own resource-type tag.
type ResourceTyped interface {
	ResourceType() string
}

// TableNamed covers record types that expose their table name.
type TableNamed interface {
	TableName() string
}

// PolicyVoter consults the policy store. It supports every attribute; when no
// policy matches (or none with a satisfied condition) it abstains so the
// other voters decide.
type PolicyVoter struct {
	loader *PolicyLoader
}

var _ Voter = (*PolicyVoter)(nil)

func NewPolicyVoter(loader *PolicyLoader) *PolicyVoter {
	return &PolicyVoter{loader: loader}
}

func (*PolicyVoter) Supports(string, any) bool {
	return true
}

func (v *PolicyVoter) Vote(identity guard.Identity, attribute string, subject any) Decision {
	policies, err := v.loader.FindMatching(
		identity.ID(),
		identity.Roles(),
		attribute,
		resourceType(subject),
	)
	if err != nil {
		// a broken policy store is not an opinion
		return Abstain
	}

	if len(policies) == 0 {
		return Abstain
	}

	// policies arrive priority-sorted; the first whose condition holds wins
	for _, policy := range policies {
		if !policy.EvaluateCondition(identity, subject) {
			continue
		}

		if policy.IsAllow() {
			return Allow
		}
		return Deny
	}

	return Abstain
}

// resourceType derives the type tag a policy's resource field is matched
// against: explicit accessor, table name, lower-cased type name, or "*" for
// untyped subjects.
func resourceType(subject any) string {
	if subject == nil {
		return "*"
	}

	if s, ok := subject.(string); ok {
		return s
	}

	if typed, ok := subject.(ResourceTyped); ok {
		return typed.ResourceType()
	}

	if named, ok := subject.(TableNamed); ok {
		return named.TableName()
	}

	t := reflect.TypeOf(subject)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() == reflect.Struct {
		return strings.ToLower(t.Name())
	}

	return "*"
}
