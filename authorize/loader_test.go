package authorize_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-guard/authorize"
)

// shufflingSource returns the same policies in a different order on every
// call, the way an unordered database scan might.
type shufflingSource struct {
	policies []authorize.Policy
	calls    int
}

func (s *shufflingSource) Load() ([]authorize.Policy, error) {
	s.calls++

	out := make([]authorize.Policy, len(s.policies))
	copy(out, s.policies)
	if s.calls%2 == 0 {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

type failingSource struct{}

func (failingSource) Load() ([]authorize.Policy, error) {
	return nil, errors.New("store offline")
}

func mustStaticSource(t *testing.T, policies ...authorize.Policy) *authorize.StaticPolicySource {
	t.Helper()
	source, err := authorize.NewStaticPolicySource(policies...)
	require.NoError(t, err)
	return source
}

func TestStaticPolicySourceRejectsInvalidPolicies(t *testing.T) {
	_, err := authorize.NewStaticPolicySource(
		authorize.AllowPolicy("admin").Build(),
	)
	assert.Error(t, err)
}

func TestLoaderSortsByPriority(t *testing.T) {
	source := mustStaticSource(t,
		authorize.AllowPolicy("role:user").On("post").WithPriority(1).Build(),
		authorize.DenyPolicy("role:user").On("post").WithPriority(10).Build(),
		authorize.AllowPolicy("role:admin").On("post").WithPriority(5).Build(),
	)

	loader := authorize.NewPolicyLoader(source)

	policies, err := loader.Load()
	require.NoError(t, err)
	require.Len(t, policies, 3)

	assert.Equal(t, 10, policies[0].Priority)
	assert.Equal(t, 5, policies[1].Priority)
	assert.Equal(t, 1, policies[2].Priority)
}

func TestLoaderCacheIsStable(t *testing.T) {
	source := &shufflingSource{policies: []authorize.Policy{
		authorize.AllowPolicy("role:a").On("post").WithPriority(1).Build(),
		authorize.AllowPolicy("role:b").On("post").WithPriority(1).Build(),
		authorize.AllowPolicy("role:c").On("post").WithPriority(1).Build(),
	}}

	loader := authorize.NewPolicyLoader(source)

	first, err := loader.Load()
	require.NoError(t, err)

	second, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls, "second Load must hit the cache")

	// invalidation refills from the source; equal priorities keep whatever
	// order the source produced this time
	loader.ClearCache()
	third, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
	assert.Len(t, third, 3)
}

func TestLoaderAddSourceInvalidates(t *testing.T) {
	loader := authorize.NewPolicyLoader(mustStaticSource(t,
		authorize.AllowPolicy("role:user").On("post").Build(),
	))

	policies, err := loader.Load()
	require.NoError(t, err)
	require.Len(t, policies, 1)

	loader.AddSource(mustStaticSource(t,
		authorize.DenyPolicy("role:user").On("post").WithPriority(5).Build(),
	))

	policies, err = loader.Load()
	require.NoError(t, err)
	require.Len(t, policies, 2)
	assert.True(t, policies[0].IsDeny(), "higher priority policy sorts first")
}

func TestLoaderSourceErrorAbortsLoad(t *testing.T) {
	loader := authorize.NewPolicyLoader(
		mustStaticSource(t, authorize.AllowPolicy("role:user").On("post").Build()),
		failingSource{},
	)

	policies, err := loader.Load()
	assert.Error(t, err)
	assert.Nil(t, policies)
}

func TestLoaderFindMatching(t *testing.T) {
	loader := authorize.NewPolicyLoader(mustStaticSource(t,
		authorize.AllowPolicy("role:editor").Actions("edit", "update").On("post").WithPriority(1).Build(),
		authorize.DenyPolicy("role:editor").Action("edit").On("post").WithPriority(10).Build(),
		authorize.AllowPolicy("user:u-1").AnyAction().On("comment").Build(),
		authorize.AllowPolicy("*").AnyAction().AnyResource().WithPriority(-1).Build(),
	))

	t.Run("filters and keeps priority order", func(t *testing.T) {
		matching, err := loader.FindMatching("u-9", []string{"editor"}, "edit", "post")
		require.NoError(t, err)
		require.Len(t, matching, 3)

		assert.True(t, matching[0].IsDeny())
		assert.Equal(t, 1, matching[1].Priority)
		assert.Equal(t, -1, matching[2].Priority)
	})

	t.Run("user pattern", func(t *testing.T) {
		matching, err := loader.FindMatching("u-1", nil, "reply", "comment")
		require.NoError(t, err)
		require.Len(t, matching, 2)
		assert.Equal(t, "user:u-1", matching[0].Subject)
	})

	t.Run("nothing matches", func(t *testing.T) {
		matching, err := loader.FindMatching("u-9", []string{"user"}, "edit", "post")
		require.NoError(t, err)
		require.Len(t, matching, 1)
		assert.Equal(t, "*", matching[0].Subject)
	})
}
