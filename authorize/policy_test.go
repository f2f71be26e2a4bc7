package authorize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-guard"
	"github.com/goliatone/go-guard/authorize"
)

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name   string
		policy authorize.Policy
		ok     bool
	}{
		{
			"role subject",
			authorize.AllowPolicy("role:admin").On("post").Build(),
			true,
		},
		{
			"user subject",
			authorize.DenyPolicy("user:u-1").On("post").Build(),
			true,
		},
		{
			"wildcard subject",
			authorize.AllowPolicy("*").AnyResource().Build(),
			true,
		},
		{
			"bare word subject",
			authorize.AllowPolicy("admin").On("post").Build(),
			false,
		},
		{
			"empty prefix subject",
			authorize.AllowPolicy("role:").On("post").Build(),
			false,
		},
		{
			"missing subject",
			authorize.Policy{Effect: authorize.EffectAllow, Resource: "*"},
			false,
		},
		{
			"bad effect",
			authorize.Policy{Subject: "role:admin", Effect: "maybe", Resource: "*"},
			false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.policy.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestPolicyMatchesSubject(t *testing.T) {
	roles := []string{"editor", "user"}

	assert.True(t, authorize.AllowPolicy("role:editor").Build().MatchesSubject("u-1", roles))
	assert.False(t, authorize.AllowPolicy("role:admin").Build().MatchesSubject("u-1", roles))
	assert.True(t, authorize.AllowPolicy("role:*").Build().MatchesSubject("u-1", roles))

	assert.True(t, authorize.AllowPolicy("user:u-1").Build().MatchesSubject("u-1", roles))
	assert.False(t, authorize.AllowPolicy("user:u-2").Build().MatchesSubject("u-1", roles))
	assert.True(t, authorize.AllowPolicy("user:*").Build().MatchesSubject("u-1", roles))

	assert.True(t, authorize.AllowPolicy("*").Build().MatchesSubject("u-1", nil))

	// unknown grammar never matches
	assert.False(t, authorize.AllowPolicy("group:editors").Build().MatchesSubject("u-1", roles))
}

func TestPolicyMatchesActionAndResource(t *testing.T) {
	policy := authorize.AllowPolicy("role:editor").Actions("edit", "update").On("post").Build()

	assert.True(t, policy.MatchesAction("edit"))
	assert.True(t, policy.MatchesAction("update"))
	assert.False(t, policy.MatchesAction("delete"))

	assert.True(t, policy.MatchesResource("post"))
	assert.False(t, policy.MatchesResource("comment"))

	wildcard := authorize.AllowPolicy("*").AnyAction().AnyResource().Build()
	assert.True(t, wildcard.MatchesAction("anything"))
	assert.True(t, wildcard.MatchesResource("anything"))

	starAction := authorize.AllowPolicy("*").Action("*").Build()
	assert.True(t, starAction.MatchesAction("delete"))
}

func TestPolicyEvaluateCondition(t *testing.T) {
	identity := identityWithRoles("u-1", "editor")

	t.Run("no condition always passes", func(t *testing.T) {
		policy := authorize.AllowPolicy("role:editor").Build()
		assert.True(t, policy.EvaluateCondition(identity, nil))
	})

	t.Run("condition sees identity and subject", func(t *testing.T) {
		policy := authorize.AllowPolicy("role:editor").
			When(func(id guard.Identity, subject any) bool {
				p, ok := subject.(*post)
				return ok && p.UserID == id.ID()
			}).
			Build()

		assert.True(t, policy.EvaluateCondition(identity, &post{UserID: "u-1"}))
		assert.False(t, policy.EvaluateCondition(identity, &post{UserID: "u-2"}))
	})
}

func TestPolicyFromMap(t *testing.T) {
	t.Run("full document", func(t *testing.T) {
		policy := authorize.PolicyFromMap(map[string]any{
			"subject":  "role:admin",
			"action":   []any{"edit", "delete"},
			"resource": "post",
			"effect":   "deny",
			"priority": float64(7),
		})

		require.NoError(t, policy.Validate())
		assert.Equal(t, "role:admin", policy.Subject)
		assert.Equal(t, []string{"edit", "delete"}, policy.Actions)
		assert.Equal(t, "post", policy.Resource)
		assert.True(t, policy.IsDeny())
		assert.Equal(t, 7, policy.Priority)
	})

	t.Run("defaults", func(t *testing.T) {
		policy := authorize.PolicyFromMap(map[string]any{"subject": "role:user"})

		assert.Equal(t, "*", policy.Resource)
		assert.True(t, policy.IsAllow())
		assert.Empty(t, policy.Actions)
		assert.Zero(t, policy.Priority)
	})

	t.Run("scalar action", func(t *testing.T) {
		policy := authorize.PolicyFromMap(map[string]any{
			"subject": "role:user",
			"action":  "view",
		})
		assert.Equal(t, []string{"view"}, policy.Actions)
	})
}

func TestPolicyBuilder(t *testing.T) {
	policy := authorize.DenyPolicy("role:user").
		Action("delete").
		On("account").
		WithPriority(100).
		Build()

	assert.Equal(t, "role:user", policy.Subject)
	assert.Equal(t, []string{"delete"}, policy.Actions)
	assert.Equal(t, "account", policy.Resource)
	assert.True(t, policy.IsDeny())
	assert.Equal(t, 100, policy.Priority)
	assert.NoError(t, policy.Validate())
}
