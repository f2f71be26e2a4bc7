package authorize

// Decision is a single voter's opinion on an access check.
type Decision int

const (
	// Abstain means the voter has no opinion; another voter decides.
	Abstain Decision = iota
	// Allow grants access.
	Allow
	// Deny refuses access.
	Deny
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "abstain"
	}
}

// DecisionStrategy is the rule for combining every voter's opinion into one
// verdict.
type DecisionStrategy int

const (
	// Affirmative: at least one ALLOW, no DENY.
	Affirmative DecisionStrategy = iota
	// Unanimous: no DENY, at least one ALLOW. Note this reduction is
	// identical to Affirmative; see Authorizer for why the distinction is
	// kept.
	Unanimous
	// Consensus: strict majority of non-abstaining voters must ALLOW; ties
	// deny.
	Consensus
)

func (s DecisionStrategy) String() string {
	switch s {
	case Unanimous:
		return "unanimous"
	case Consensus:
		return "consensus"
	default:
		return "affirmative"
	}
}
