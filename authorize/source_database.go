package authorize

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PolicyRow is the bun model backing database policies. The action column
// holds either a scalar action or a JSON array of actions. Row-backed
// policies cannot carry executable conditions.
type PolicyRow struct {
	bun.BaseModel `bun:"table:policies,alias:pol"`

	ID        uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Subject   string     `bun:"subject,notnull" json:"subject"`
	Action    string     `bun:"action,notnull" json:"action"`
	Resource  string     `bun:"resource,notnull" json:"resource"`
	Effect    string     `bun:"effect,notnull,default:'allow'" json:"effect"`
	Priority  int        `bun:"priority,default:0" json:"priority"`
	Active    bool       `bun:"active,default:true" json:"active"`
	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// DatabasePolicySource loads active policy rows, highest priority first.
type DatabasePolicySource struct {
	db *bun.DB
}

var _ PolicySource = (*DatabasePolicySource)(nil)

func NewDatabasePolicySource(db *bun.DB) *DatabasePolicySource {
	return &DatabasePolicySource{db: db}
}

func (s *DatabasePolicySource) Load() ([]Policy, error) {
	ctx := context.Background()

	var rows []PolicyRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("?TableAlias.active = ?", true).
		OrderExpr("?TableAlias.priority DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load policy rows")
	}

	policies := make([]Policy, 0, len(rows))
	for _, row := range rows {
		policy := row.toPolicy()

		if err := policy.Validate(); err != nil {
			// skip rows operators fat-fingered rather than failing every
			// authorization check in the process
			continue
		}

		policies = append(policies, policy)
	}

	return policies, nil
}

func (r PolicyRow) toPolicy() Policy {
	policy := Policy{
		Subject:  r.Subject,
		Resource: r.Resource,
		Effect:   Effect(r.Effect),
		Priority: r.Priority,
	}

	if policy.Resource == "" {
		policy.Resource = "*"
	}

	if policy.Effect == "" {
		policy.Effect = EffectAllow
	}

	policy.Actions = parseActionColumn(r.Action)

	return policy
}

// parseActionColumn decodes the action column: a JSON array becomes a set,
// anything else is a scalar action. "*" and empty mean all actions.
func parseActionColumn(action string) []string {
	action = strings.TrimSpace(action)
	if action == "" || action == "*" {
		return nil
	}

	if strings.HasPrefix(action, "[") {
		var decoded []string
		if err := json.Unmarshal([]byte(action), &decoded); err == nil {
			return decoded
		}
	}

	return []string{action}
}
