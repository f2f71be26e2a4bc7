package authorize_test

import (
	"github.com/goliatone/go-guard"
	"github.com/goliatone/go-guard/authorize"
)

// stubVoter always supports and always returns its fixed decision.
type stubVoter struct {
	decision authorize.Decision
}

func (stubVoter) Supports(string, any) bool {
	return true
}

func (v stubVoter) Vote(guard.Identity, string, any) authorize.Decision {
	return v.decision
}

// pickyVoter only supports a single attribute.
type pickyVoter struct {
	attribute string
	decision  authorize.Decision
}

func (v pickyVoter) Supports(attribute string, _ any) bool {
	return attribute == v.attribute
}

func (v pickyVoter) Vote(guard.Identity, string, any) authorize.Decision {
	return v.decision
}

func identityWithRoles(id string, roles ...string) guard.Identity {
	return guard.NewIdentity(id, map[string]any{"roles": roles})
}

// post is a plain record with a conventional owner column.
type post struct {
	ID     string
	UserID string
	Title  string
}

// document exposes its owner through the accessor interface.
type document struct {
	owner string
}

func (d document) OwnerID() string { return d.owner }

// bag resolves attributes dynamically.
type bag struct {
	attrs map[string]any
}

func (b bag) GetAttribute(name string) any { return b.attrs[name] }

// article declares its own resource-type tag.
type article struct {
	AuthorID string
}

func (article) ResourceType() string { return "article" }
