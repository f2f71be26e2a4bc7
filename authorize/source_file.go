package authorize

import (
	"os"

	"github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"
)

// policyDocument is the YAML shape a policy file decodes into.
type policyDocument struct {
	Policies []struct {
		Subject  string `yaml:"subject"`
		Action   any    `yaml:"action"`
		Resource string `yaml:"resource"`
		Effect   string `yaml:"effect"`
		Priority int    `yaml:"priority"`
	} `yaml:"policies"`
}

// FilePolicySource loads policies from a YAML document:
//
//	policies:
//	  - subject: role:admin
//	    action: "*"
//	    resource: post
//	    effect: allow
//	    priority: 10
//
// A missing file loads zero policies; file-based policies cannot carry
// conditions.
type FilePolicySource struct {
	path string
}

var _ PolicySource = (*FilePolicySource)(nil)

func NewFilePolicySource(path string) *FilePolicySource {
	return &FilePolicySource{path: path}
}

func (s *FilePolicySource) Load() ([]Policy, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to read policy file")
	}

	var doc policyDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "failed to parse policy file")
	}

	policies := make([]Policy, 0, len(doc.Policies))
	for _, entry := range doc.Policies {
		policy := PolicyFromMap(map[string]any{
			"subject":  entry.Subject,
			"action":   entry.Action,
			"resource": entry.Resource,
			"effect":   entry.Effect,
			"priority": entry.Priority,
		})

		if err := policy.Validate(); err != nil {
			return nil, errors.Wrap(err, errors.CategoryValidation, "invalid policy in file").
				WithMetadata(map[string]any{
					"path":    s.path,
					"subject": entry.Subject,
				})
		}

		policies = append(policies, policy)
	}

	return policies, nil
}
