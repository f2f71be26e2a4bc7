package authorize

// StaticPolicySource serves a fixed, in-code policy list; the declarative
// source applications use for their baseline rules.
type StaticPolicySource struct {
	policies []Policy
}

var _ PolicySource = (*StaticPolicySource)(nil)

// NewStaticPolicySource validates and stores the given policies. Invalid
// policies are rejected up front: a typo in a subject pattern would otherwise
// silently never match.
func NewStaticPolicySource(policies ...Policy) (*StaticPolicySource, error) {
	for _, policy := range policies {
		if err := policy.Validate(); err != nil {
			return nil, err
		}
	}

	return &StaticPolicySource{policies: policies}, nil
}

func (s *StaticPolicySource) Load() ([]Policy, error) {
	out := make([]Policy, len(s.policies))
	copy(out, s.policies)
	return out, nil
}
