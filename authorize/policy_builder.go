package authorize

// PolicyBuilder is the fluent way to declare policies in code:
//
//	AllowPolicy("role:admin").AnyAction().On("post").WithPriority(10).Build()
type PolicyBuilder struct {
	subject   string
	effect    Effect
	actions   []string
	resource  string
	condition Condition
	priority  int
}

// AllowPolicy starts an allow policy for the given subject pattern.
func AllowPolicy(subject string) *PolicyBuilder {
	return newPolicyBuilder(subject, EffectAllow)
}

// DenyPolicy starts a deny policy for the given subject pattern.
func DenyPolicy(subject string) *PolicyBuilder {
	return newPolicyBuilder(subject, EffectDeny)
}

func newPolicyBuilder(subject string, effect Effect) *PolicyBuilder {
	return &PolicyBuilder{
		subject:  subject,
		effect:   effect,
		resource: "*",
	}
}

// Action sets a single action.
func (b *PolicyBuilder) Action(action string) *PolicyBuilder {
	b.actions = []string{action}
	return b
}

// Actions sets multiple actions.
func (b *PolicyBuilder) Actions(actions ...string) *PolicyBuilder {
	b.actions = actions
	return b
}

// AnyAction covers every action.
func (b *PolicyBuilder) AnyAction() *PolicyBuilder {
	b.actions = nil
	return b
}

// On sets the resource type.
func (b *PolicyBuilder) On(resource string) *PolicyBuilder {
	b.resource = resource
	return b
}

// AnyResource covers every resource type.
func (b *PolicyBuilder) AnyResource() *PolicyBuilder {
	b.resource = "*"
	return b
}

// When adds a runtime condition.
func (b *PolicyBuilder) When(condition Condition) *PolicyBuilder {
	b.condition = condition
	return b
}

// WithPriority sets the priority; higher evaluates first.
func (b *PolicyBuilder) WithPriority(priority int) *PolicyBuilder {
	b.priority = priority
	return b
}

// Build returns the policy.
func (b *PolicyBuilder) Build() Policy {
	return Policy{
		Subject:   b.subject,
		Actions:   b.actions,
		Resource:  b.resource,
		Effect:    b.effect,
		Condition: b.condition,
		Priority:  b.priority,
	}
}
