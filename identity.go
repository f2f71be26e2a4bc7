package guard

// Identity is the resolved "who" of the current actor, independent of the
// storage record that backs it. Claims describe what the subject is (roles,
// email, department), not what it may do.
type Identity interface {
	ID() string
	Claims() map[string]any
	HasClaim(key string) bool
	Claim(key string, def any) any
	IsAuthenticated() bool
	// Roles reads the "roles" claim; empty when absent.
	Roles() []string
	HasRole(role string) bool
}

// UserIdentity is the claims-backed Identity for an authenticated user.
// Values are immutable; WithClaims returns a fresh copy.
type UserIdentity struct {
	id     string
	claims map[string]any
}

var _ Identity = UserIdentity{}

// NewIdentity builds an authenticated identity from an id and claims.
func NewIdentity(id string, claims map[string]any) UserIdentity {
	return UserIdentity{id: id, claims: cloneClaims(claims)}
}

// IdentityFromUser derives an identity from a user record's auth claims.
func IdentityFromUser(user Authenticatable) UserIdentity {
	return NewIdentity(user.AuthIdentifier(), user.AuthClaims())
}

func (i UserIdentity) ID() string {
	return i.id
}

func (i UserIdentity) Claims() map[string]any {
	return cloneClaims(i.claims)
}

func (i UserIdentity) HasClaim(key string) bool {
	_, ok := i.claims[key]
	return ok
}

func (i UserIdentity) Claim(key string, def any) any {
	if v, ok := i.claims[key]; ok {
		return v
	}
	return def
}

func (i UserIdentity) IsAuthenticated() bool {
	return true
}

func (i UserIdentity) Roles() []string {
	switch roles := i.claims["roles"].(type) {
	case []string:
		return roles
	case []any:
		out := make([]string, 0, len(roles))
		for _, r := range roles {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{roles}
	default:
		return nil
	}
}

func (i UserIdentity) HasRole(role string) bool {
	for _, r := range i.Roles() {
		if r == role {
			return true
		}
	}
	return false
}

// WithClaims returns a new identity with the additional claims merged in.
// The receiver is never mutated.
func (i UserIdentity) WithClaims(additional map[string]any) UserIdentity {
	merged := cloneClaims(i.claims)
	if merged == nil {
		merged = make(map[string]any, len(additional))
	}
	for k, v := range additional {
		merged[k] = v
	}
	return UserIdentity{id: i.id, claims: merged}
}

// anonymousIdentity is the fixed guest identity: id "0", no claims.
type anonymousIdentity struct{}

var _ Identity = anonymousIdentity{}

// AnonymousIdentity returns the identity used whenever no user is resolved.
func AnonymousIdentity() Identity {
	return anonymousIdentity{}
}

func (anonymousIdentity) ID() string {
	return "0"
}

func (anonymousIdentity) Claims() map[string]any {
	return map[string]any{}
}

func (anonymousIdentity) HasClaim(string) bool {
	return false
}

func (anonymousIdentity) Claim(_ string, def any) any {
	return def
}

func (anonymousIdentity) IsAuthenticated() bool {
	return false
}

func (anonymousIdentity) Roles() []string {
	return []string{RoleGuest}
}

func (anonymousIdentity) HasRole(role string) bool {
	return role == RoleGuest
}

func cloneClaims(claims map[string]any) map[string]any {
	if claims == nil {
		return nil
	}
	out := make(map[string]any, len(claims))
	for k, v := range claims {
		out[k] = v
	}
	return out
}
