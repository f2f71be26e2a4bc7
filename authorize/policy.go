package authorize

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-guard"
)

// Effect is a policy's outcome when it matches.
type Effect string

const (
	EffectAllow Effect = "allow"
	EffectDeny  Effect = "deny"
)

// Condition is an optional runtime predicate evaluated against the identity
// and the concrete subject once a policy matches.
type Condition func(identity guard.Identity, subject any) bool

// Policy is a declarative subject/action/resource/effect rule.
//
// Subject grammar: "role:<name>", "role:*", "user:<id>", "user:*", or a bare
// "*". Actions are a scalar, a set, or "*". Resource is a type tag or "*".
// Higher priority policies are evaluated first; ties keep source order.
type Policy struct {
	// Subject is the pattern for who this applies to.
	Subject string
	// Actions this policy covers; empty or ["*"] means all.
	Actions []string
	// Resource type this policy covers; "*" for all.
	Resource string
	Effect   Effect
	// Condition is optional; row-backed policies cannot carry one.
	Condition Condition
	Priority  int
}

// Validate checks the policy's declarative parts. Conditions are opaque and
// not validated.
func (p Policy) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Subject,
			validation.Required,
			validation.By(validateSubjectPattern),
		),
		validation.Field(&p.Effect,
			validation.Required,
			validation.In(EffectAllow, EffectDeny),
		),
		validation.Field(&p.Resource, validation.Required),
	)
}

func validateSubjectPattern(value any) error {
	subject, _ := value.(string)
	if subject == "*" {
		return nil
	}
	if strings.HasPrefix(subject, "role:") || strings.HasPrefix(subject, "user:") {
		if len(subject) > len("role:") {
			return nil
		}
	}
	return validation.NewError(
		"validation_policy_subject",
		"must be 'role:<name>', 'user:<id>', or '*'",
	)
}

// MatchesSubject reports whether the pattern covers the given user id and
// role set. Unknown patterns never match.
func (p Policy) MatchesSubject(userID string, roles []string) bool {
	if strings.HasPrefix(p.Subject, "role:") {
		required := strings.TrimPrefix(p.Subject, "role:")
		if required == "*" {
			return true
		}
		for _, role := range roles {
			if role == required {
				return true
			}
		}
		return false
	}

	if strings.HasPrefix(p.Subject, "user:") {
		required := strings.TrimPrefix(p.Subject, "user:")
		return required == "*" || required == userID
	}

	return p.Subject == "*"
}

// MatchesAction reports whether the policy covers the action.
func (p Policy) MatchesAction(action string) bool {
	if len(p.Actions) == 0 {
		return true
	}

	for _, a := range p.Actions {
		if a == "*" || a == action {
			return true
		}
	}

	return false
}

// MatchesResource reports whether the policy covers the resource type.
func (p Policy) MatchesResource(resourceType string) bool {
	return p.Resource == "*" || p.Resource == resourceType
}

// EvaluateCondition runs the optional predicate; policies without one always
// pass.
func (p Policy) EvaluateCondition(identity guard.Identity, subject any) bool {
	if p.Condition == nil {
		return true
	}
	return p.Condition(identity, subject)
}

func (p Policy) IsAllow() bool {
	return p.Effect == EffectAllow
}

func (p Policy) IsDeny() bool {
	return p.Effect == EffectDeny
}

// PolicyFromMap builds a policy from a decoded document (config file row).
// Missing action/resource/effect default to "*", "*", allow.
func PolicyFromMap(data map[string]any) Policy {
	p := Policy{
		Subject:  stringValue(data["subject"]),
		Resource: "*",
		Effect:   EffectAllow,
	}

	switch action := data["action"].(type) {
	case string:
		if action != "" {
			p.Actions = []string{action}
		}
	case []string:
		p.Actions = action
	case []any:
		for _, a := range action {
			if s, ok := a.(string); ok {
				p.Actions = append(p.Actions, s)
			}
		}
	}

	if resource := stringValue(data["resource"]); resource != "" {
		p.Resource = resource
	}

	if effect := stringValue(data["effect"]); effect != "" {
		p.Effect = Effect(effect)
	}

	switch priority := data["priority"].(type) {
	case int:
		p.Priority = priority
	case int64:
		p.Priority = int(priority)
	case float64:
		p.Priority = int(priority)
	}

	return p
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
