package guard

import (
	"context"
	"time"
)

// UserAuthenticated is emitted after a successful attempt, once the session
// markers are written.
type UserAuthenticated struct {
	User       Authenticatable
	Identity   Identity
	Remember   bool
	OccurredAt time.Time
}

// LoginFailed is emitted when an attempt fails. Identifier is best effort and
// "unknown" when the credential type exposes none.
type LoginFailed struct {
	Identifier string
	Reason     string
	OccurredAt time.Time
}

// LoggedOut is emitted before the session state is cleared.
type LoggedOut struct {
	User       Authenticatable
	OccurredAt time.Time
}

// EventSink consumes authentication notifications for auditing or follow up
// work (e.g. cookie issuance by a transport layer). Sinks run best effort;
// errors are logged, never propagated into the auth flow.
type EventSink interface {
	UserAuthenticated(ctx context.Context, event UserAuthenticated) error
	LoginFailed(ctx context.Context, event LoginFailed) error
	LoggedOut(ctx context.Context, event LoggedOut) error
}

type noopEventSink struct{}

func (noopEventSink) UserAuthenticated(context.Context, UserAuthenticated) error { return nil }
func (noopEventSink) LoginFailed(context.Context, LoginFailed) error             { return nil }
func (noopEventSink) LoggedOut(context.Context, LoggedOut) error                 { return nil }

func normalizeEventSink(s EventSink) EventSink {
	if s == nil {
		return noopEventSink{}
	}
	return s
}
