package authorize

import (
	"github.com/goliatone/go-guard"
)

// Authorizer reduces the opinions of an ordered set of voters into a single
// verdict. It owns no persistent state and is safe to share across requests
// once configured; AddVoter/SetStrategy are setup-time operations.
type Authorizer struct {
	voters   []Voter
	strategy DecisionStrategy

	// allowIfAllAbstain is the fail-open escape hatch for the all-abstain
	// case. Off by default: no opinion means no access.
	allowIfAllAbstain bool
}

// NewAuthorizer returns an authorizer with the Affirmative strategy and
// default-deny on all-abstain.
func NewAuthorizer() *Authorizer {
	return &Authorizer{strategy: Affirmative}
}

// AddVoter registers a voter. Voters are polled in registration order.
func (a *Authorizer) AddVoter(voter Voter) *Authorizer {
	a.voters = append(a.voters, voter)
	return a
}

// SetStrategy changes the decision strategy.
func (a *Authorizer) SetStrategy(strategy DecisionStrategy) *Authorizer {
	a.strategy = strategy
	return a
}

// WithAllowIfAllAbstain configures the verdict when every voter abstains.
func (a *Authorizer) WithAllowIfAllAbstain(allow bool) *Authorizer {
	a.allowIfAllAbstain = allow
	return a
}

// IsGranted reports whether the identity may perform the attribute on the
// subject.
func (a *Authorizer) IsGranted(identity guard.Identity, attribute string, subject any) bool {
	return a.Decide(identity, attribute, subject) == Allow
}

// Allows is an alias for IsGranted.
func (a *Authorizer) Allows(identity guard.Identity, attribute string, subject any) bool {
	return a.IsGranted(identity, attribute, subject)
}

// Denies is the inverse of IsGranted.
func (a *Authorizer) Denies(identity guard.Identity, attribute string, subject any) bool {
	return !a.IsGranted(identity, attribute, subject)
}

// Decide polls every supporting voter in registration order and reduces the
// collected votes under the configured strategy.
func (a *Authorizer) Decide(identity guard.Identity, attribute string, subject any) Decision {
	votes := a.collectVotes(identity, attribute, subject)

	switch a.strategy {
	case Consensus:
		return a.decideConsensus(votes)
	case Unanimous:
		return a.decideUnanimous(votes)
	default:
		return a.decideAffirmative(votes)
	}
}

func (a *Authorizer) collectVotes(identity guard.Identity, attribute string, subject any) []Decision {
	var votes []Decision

	for _, voter := range a.voters {
		if !voter.Supports(attribute, subject) {
			continue
		}
		votes = append(votes, voter.Vote(identity, attribute, subject))
	}

	return votes
}

// decideAffirmative: any DENY denies, else any ALLOW allows, else the
// all-abstain default.
func (a *Authorizer) decideAffirmative(votes []Decision) Decision {
	allow := 0

	for _, vote := range votes {
		if vote == Deny {
			return Deny
		}
		if vote == Allow {
			allow++
		}
	}

	if allow > 0 {
		return Allow
	}

	return a.abstainDefault()
}

// decideUnanimous is deliberately the same reduction as decideAffirmative.
// The documented intent of Unanimous ("all must agree") never matched the
// shipped behavior, and callers have come to rely on the shipped one; the
// named strategy is kept so a future break can be made explicitly.
func (a *Authorizer) decideUnanimous(votes []Decision) Decision {
	return a.decideAffirmative(votes)
}

// decideConsensus: strict majority of non-abstaining voters; ties deny.
func (a *Authorizer) decideConsensus(votes []Decision) Decision {
	allow, deny := 0, 0

	for _, vote := range votes {
		switch vote {
		case Allow:
			allow++
		case Deny:
			deny++
		}
	}

	if allow == 0 && deny == 0 {
		return a.abstainDefault()
	}

	if allow > deny {
		return Allow
	}

	return Deny
}

func (a *Authorizer) abstainDefault() Decision {
	if a.allowIfAllAbstain {
		return Allow
	}
	return Deny
}
