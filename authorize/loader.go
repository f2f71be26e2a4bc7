package authorize

import (
	"sort"
	"sync"
)

// PolicySource loads policies from somewhere: a static declaration, a YAML
// document, database rows.
type PolicySource interface {
	Load() ([]Policy, error)
}

// PolicyLoader aggregates policy sources behind a read-through cache. The
// cache fills on first Load, stays read-only until AddSource or ClearCache
// invalidates it, and is swapped atomically so concurrent readers never see a
// partially rebuilt list.
type PolicyLoader struct {
	mu      sync.RWMutex
	sources []PolicySource
	cache   []Policy
	loaded  bool
	logger  logger
}

type logger interface {
	Warn(format string, args ...any)
}

// NewPolicyLoader returns a loader over the given sources.
func NewPolicyLoader(sources ...PolicySource) *PolicyLoader {
	return &PolicyLoader{sources: sources}
}

func (l *PolicyLoader) WithLogger(lgr logger) *PolicyLoader {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = lgr
	return l
}

// AddSource appends a source and invalidates the cache.
func (l *PolicyLoader) AddSource(source PolicySource) *PolicyLoader {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sources = append(l.sources, source)
	l.cache = nil
	l.loaded = false
	return l
}

// ClearCache drops the cached policies; the next Load refills it.
func (l *PolicyLoader) ClearCache() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cache = nil
	l.loaded = false
}

// Load returns every policy from every source, stably sorted by descending
// priority. A failing source aborts the whole load; a partial policy set is
// worse than no policy set.
func (l *PolicyLoader) Load() ([]Policy, error) {
	l.mu.RLock()
	if l.loaded {
		cached := l.cache
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return l.cache, nil
	}

	var policies []Policy
	for _, source := range l.sources {
		loaded, err := source.Load()
		if err != nil {
			if l.logger != nil {
				l.logger.Warn("policy source load error", "error", err)
			}
			return nil, err
		}
		policies = append(policies, loaded...)
	}

	// stable: equal priorities keep source order
	sort.SliceStable(policies, func(i, j int) bool {
		return policies[i].Priority > policies[j].Priority
	})

	l.cache = policies
	l.loaded = true

	return policies, nil
}

// FindMatching filters the cached, sorted policies through the subject,
// action, and resource predicates, preserving priority order. PolicyVoter
// relies on that order for first-match-wins condition evaluation.
func (l *PolicyLoader) FindMatching(userID string, roles []string, action, resourceType string) ([]Policy, error) {
	policies, err := l.Load()
	if err != nil {
		return nil, err
	}

	var matching []Policy
	for _, policy := range policies {
		if !policy.MatchesSubject(userID, roles) {
			continue
		}
		if !policy.MatchesAction(action) {
			continue
		}
		if !policy.MatchesResource(resourceType) {
			continue
		}
		matching = append(matching, policy)
	}

	return matching, nil
}
