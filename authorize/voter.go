package authorize

import (
	"github.com/goliatone/go-guard"
)

// Voter is an independent opinion-giver in an authorization decision.
//
// Supports gates whether the voter is consulted at all for a given
// attribute/subject pair. Vote never errors on a "not applicable" case; it
// signals that with Abstain.
type Voter interface {
	Supports(attribute string, subject any) bool
	Vote(identity guard.Identity, attribute string, subject any) Decision
}
