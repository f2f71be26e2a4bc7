package guard

import "strconv"

// Result is the outcome of a single authentication attempt. Failures are
// expected data, not errors; callers branch on Success. Construct results
// only through the factory helpers so the shape stays consistent.
type Result struct {
	success  bool
	identity Identity
	user     Authenticatable
	err      string
	metadata map[string]any
}

// Success returns a successful result carrying the resolved identity and the
// backing user record.
func Success(identity Identity, user Authenticatable, metadata map[string]any) Result {
	return Result{
		success:  true,
		identity: identity,
		user:     user,
		metadata: cloneClaims(metadata),
	}
}

// Failure returns a failed result with a human readable reason.
func Failure(reason string, metadata ...map[string]any) Result {
	res := Result{success: false, err: reason}
	if len(metadata) > 0 {
		res.metadata = cloneClaims(metadata[0])
	}
	return res
}

// InvalidCredentials is the generic bad identifier/secret failure. The reason
// is deliberately identical for unknown users and wrong passwords.
func InvalidCredentials() Result {
	return Failure("Invalid credentials")
}

// UserNotFound reports a missing user record.
func UserNotFound() Result {
	return Failure("User not found")
}

// AccountDisabled reports a user that exists but may not log in.
func AccountDisabled() Result {
	return Failure("Account is disabled")
}

// TooManyAttempts reports rate limiting; retryAfter is seconds until the
// caller should try again.
func TooManyAttempts(retryAfter int) Result {
	return Failure("Too many attempts", map[string]any{
		"retry_after": retryAfter,
	})
}

func (r Result) Success() bool {
	return r.success
}

func (r Result) Failed() bool {
	return !r.success
}

func (r Result) Identity() Identity {
	return r.identity
}

func (r Result) User() Authenticatable {
	return r.user
}

func (r Result) Error() string {
	return r.err
}

func (r Result) Metadata() map[string]any {
	return cloneClaims(r.metadata)
}

func (r Result) MetadataValue(key string, def any) any {
	if v, ok := r.metadata[key]; ok {
		return v
	}
	return def
}

func (r Result) String() string {
	if r.success {
		id := ""
		if r.identity != nil {
			id = r.identity.ID()
		}
		return "success user=" + id
	}
	return "failure reason=" + strconv.Quote(r.err)
}
