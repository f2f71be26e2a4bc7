package guard

import "context"

// PasswordStrategy verifies identifier/secret pairs against a UserProvider.
// It is the reference strategy; remember-me intent travels through result
// metadata so the authenticator can mint the token after login.
type PasswordStrategy struct {
	provider UserProvider
	// identifierField overrides the lookup column; empty means provider
	// default, then "email".
	identifierField string
}

var _ Strategy = (*PasswordStrategy)(nil)

// NewPasswordStrategy returns the password strategy. Pass an identifier
// field to override the provider's default lookup column.
func NewPasswordStrategy(provider UserProvider, identifierField ...string) *PasswordStrategy {
	s := &PasswordStrategy{provider: provider}
	if len(identifierField) > 0 {
		s.identifierField = identifierField[0]
	}
	return s
}

func (s *PasswordStrategy) Name() string {
	return CredentialTypePassword
}

func (s *PasswordStrategy) Supports(credential Credential) bool {
	_, ok := credential.(PasswordCredential)
	return ok
}

func (s *PasswordStrategy) Authenticate(ctx context.Context, credential Credential) Result {
	cred, ok := credential.(PasswordCredential)
	if !ok {
		return Failure("Invalid credential type")
	}

	user, err := s.provider.FindByCredential(ctx, s.lookupField(), cred.Identifier)
	if err != nil || user == nil {
		return InvalidCredentials()
	}

	if !s.provider.ValidatePassword(user, cred.Password) {
		return InvalidCredentials()
	}

	if d, ok := user.(Disableable); ok && d.IsDisabled() {
		return AccountDisabled()
	}

	s.provider.RehashPasswordIfRequired(ctx, user, cred.Password)

	return Success(IdentityFromUser(user), user, map[string]any{
		"remember": cred.Remember,
	})
}

func (s *PasswordStrategy) lookupField() string {
	if s.identifierField != "" {
		return s.identifierField
	}

	if f, ok := s.provider.(IdentifierFielder); ok {
		return f.IdentifierField()
	}

	return "email"
}
