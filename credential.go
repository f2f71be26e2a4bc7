package guard

// Credential is the raw input offered to prove an identity. Each variant
// self-reports its type tag so strategies can probe support cheaply.
type Credential interface {
	Type() string
}

const (
	CredentialTypePassword = "password"
	CredentialTypeToken    = "token"
)

// PasswordCredential carries an identifier/secret pair plus the remember-me
// intent of the login form.
type PasswordCredential struct {
	Identifier string
	Password   string
	Remember   bool
}

var _ Credential = PasswordCredential{}

func (PasswordCredential) Type() string {
	return CredentialTypePassword
}

// TokenCredential carries an opaque bearer value, e.g. a remember-me token
// restored from a cookie together with the user id it was minted for.
type TokenCredential struct {
	UserID string
	Token  string
}

var _ Credential = TokenCredential{}

func (TokenCredential) Type() string {
	return CredentialTypeToken
}
