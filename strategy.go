package guard

import "context"

// Strategy is a pluggable credential verification algorithm. Strategies are
// registered by name on the Authenticator; Supports gates capability probing
// when no explicit name is given.
type Strategy interface {
	Name() string
	Supports(credential Credential) bool
	Authenticate(ctx context.Context, credential Credential) Result
}
