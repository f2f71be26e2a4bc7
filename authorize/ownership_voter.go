package authorize

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-guard"
)

// Ownable lets a subject expose its owner id directly, skipping reflection.
type Ownable interface {
	OwnerID() string
}

// AttributeGetter is the generic fallback for record types that expose
// attributes dynamically.
type AttributeGetter interface {
	GetAttribute(name string) any
}

// OwnershipVoter allows actions on subjects the identity owns. It only ever
// answers Allow or Abstain: absence of ownership is not proof of prohibition,
// another voter gets to decide.
type OwnershipVoter struct {
	attributes map[string]struct{}
	ownerField string
}

var _ Voter = (*OwnershipVoter)(nil)

// NewOwnershipVoter configures the voter with the attribute set it handles;
// defaults to edit, update, delete, view. The owner field defaults to
// "user_id".
func NewOwnershipVoter(attributes ...string) *OwnershipVoter {
	if len(attributes) == 0 {
		attributes = []string{"edit", "update", "delete", "view"}
	}

	set := make(map[string]struct{}, len(attributes))
	for _, attr := range attributes {
		set[attr] = struct{}{}
	}

	return &OwnershipVoter{
		attributes: set,
		ownerField: "user_id",
	}
}

// WithOwnerField overrides the field consulted on the subject.
func (v *OwnershipVoter) WithOwnerField(field string) *OwnershipVoter {
	if field != "" {
		v.ownerField = field
	}
	return v
}

func (v *OwnershipVoter) Supports(attribute string, subject any) bool {
	// only structured objects can have an owner
	if !isStructured(subject) {
		return false
	}

	_, ok := v.attributes[attribute]
	return ok
}

func (v *OwnershipVoter) Vote(identity guard.Identity, attribute string, subject any) Decision {
	if !v.Supports(attribute, subject) {
		return Abstain
	}

	if !identity.IsAuthenticated() {
		return Abstain
	}

	ownerID, ok := v.ownerID(subject)
	if !ok {
		return Abstain
	}

	if ownerID == identity.ID() {
		return Allow
	}

	// let other voters decide
	return Abstain
}

// ownerID extracts the owner id from the subject, trying the accessor
// interface, an exported struct field, and the generic attribute getter, in
// that order.
func (v *OwnershipVoter) ownerID(subject any) (string, bool) {
	if ownable, ok := subject.(Ownable); ok {
		id := ownable.OwnerID()
		return id, id != ""
	}

	if value, ok := structField(subject, fieldNameFor(v.ownerField)); ok {
		return ownerString(value)
	}

	if getter, ok := subject.(AttributeGetter); ok {
		if value := getter.GetAttribute(v.ownerField); value != nil {
			return ownerString(value)
		}
	}

	return "", false
}

func isStructured(subject any) bool {
	if subject == nil {
		return false
	}

	t := reflect.TypeOf(subject)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() == reflect.Struct || t.Kind() == reflect.Map {
		return true
	}

	// interface implementations count as structured regardless of kind
	_, ownable := subject.(Ownable)
	_, getter := subject.(AttributeGetter)
	return ownable || getter
}

func structField(subject any, name string) (any, bool) {
	val := reflect.ValueOf(subject)
	for val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return nil, false
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return nil, false
	}

	field := val.FieldByName(name)
	if !field.IsValid() || !field.CanInterface() {
		return nil, false
	}

	return field.Interface(), true
}

// fieldNameFor maps a snake_case owner field to its exported Go name,
// "user_id" to "UserID".
func fieldNameFor(field string) string {
	parts := strings.Split(field, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		if strings.EqualFold(part, "id") {
			parts[i] = "ID"
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, "")
}

func ownerString(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, v != ""
	case fmt.Stringer:
		s := v.String()
		return s, s != ""
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), true
	default:
		return "", false
	}
}
