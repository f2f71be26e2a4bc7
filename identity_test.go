package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goliatone/go-guard"
)

func TestUserIdentityClaims(t *testing.T) {
	identity := guard.NewIdentity("u-1", map[string]any{
		"email": "rosa@example.com",
		"roles": []string{"editor", "user"},
	})

	assert.Equal(t, "u-1", identity.ID())
	assert.True(t, identity.IsAuthenticated())
	assert.True(t, identity.HasClaim("email"))
	assert.False(t, identity.HasClaim("department"))
	assert.Equal(t, "rosa@example.com", identity.Claim("email", nil))
	assert.Equal(t, "fallback", identity.Claim("department", "fallback"))

	assert.Equal(t, []string{"editor", "user"}, identity.Roles())
	assert.True(t, identity.HasRole("editor"))
	assert.False(t, identity.HasRole("admin"))
}

func TestUserIdentityRolesVariants(t *testing.T) {
	t.Run("missing roles claim is empty", func(t *testing.T) {
		identity := guard.NewIdentity("u-1", nil)
		assert.Empty(t, identity.Roles())
	})

	t.Run("scalar role claim", func(t *testing.T) {
		identity := guard.NewIdentity("u-1", map[string]any{"roles": "admin"})
		assert.Equal(t, []string{"admin"}, identity.Roles())
	})

	t.Run("decoded json roles", func(t *testing.T) {
		identity := guard.NewIdentity("u-1", map[string]any{"roles": []any{"admin", "user"}})
		assert.Equal(t, []string{"admin", "user"}, identity.Roles())
	})
}

func TestWithClaimsCopiesNeverMutates(t *testing.T) {
	original := guard.NewIdentity("u-1", map[string]any{"roles": []string{"user"}})

	enriched := original.WithClaims(map[string]any{"department": "ops"})

	assert.False(t, original.HasClaim("department"))
	assert.True(t, enriched.HasClaim("department"))
	assert.Equal(t, original.ID(), enriched.ID())

	// mutating a returned claims map must not leak back in
	claims := original.Claims()
	claims["injected"] = true
	assert.False(t, original.HasClaim("injected"))
}

func TestAnonymousIdentity(t *testing.T) {
	anon := guard.AnonymousIdentity()

	assert.Equal(t, "0", anon.ID())
	assert.False(t, anon.IsAuthenticated())
	assert.Empty(t, anon.Claims())
	assert.False(t, anon.HasClaim("anything"))
	assert.Equal(t, "fallback", anon.Claim("anything", "fallback"))
	assert.Equal(t, []string{guard.RoleGuest}, anon.Roles())
	assert.True(t, anon.HasRole(guard.RoleGuest))
	assert.False(t, anon.HasRole(guard.RoleAdmin))
}

func TestIdentityFromUserDefaults(t *testing.T) {
	user := &testUser{id: "u-9"}
	identity := guard.IdentityFromUser(user)

	assert.Equal(t, "u-9", identity.ID())
	assert.Equal(t, []string{"user"}, identity.Roles())
}
