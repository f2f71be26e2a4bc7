package guard

import "context"

// RememberTokenStrategy restores a login from a remember-me token, e.g. one a
// transport layer read back from a long lived cookie. The provider performs
// the constant-time token comparison.
type RememberTokenStrategy struct {
	provider UserProvider
}

var _ Strategy = (*RememberTokenStrategy)(nil)

func NewRememberTokenStrategy(provider UserProvider) *RememberTokenStrategy {
	return &RememberTokenStrategy{provider: provider}
}

func (s *RememberTokenStrategy) Name() string {
	return CredentialTypeToken
}

func (s *RememberTokenStrategy) Supports(credential Credential) bool {
	_, ok := credential.(TokenCredential)
	return ok
}

func (s *RememberTokenStrategy) Authenticate(ctx context.Context, credential Credential) Result {
	cred, ok := credential.(TokenCredential)
	if !ok {
		return Failure("Invalid credential type")
	}

	if cred.Token == "" {
		return InvalidCredentials()
	}

	user, err := s.provider.FindByRememberToken(ctx, cred.UserID, cred.Token)
	if err != nil || user == nil {
		return InvalidCredentials()
	}

	if d, ok := user.(Disableable); ok && d.IsDisabled() {
		return AccountDisabled()
	}

	// The restored session keeps remember-me alive so the token rotates on
	// the next successful attempt.
	return Success(IdentityFromUser(user), user, map[string]any{
		"remember": true,
	})
}
