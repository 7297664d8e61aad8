package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/parley-dev/parley/pkg/ports"
)

type piiMiddleware struct {
	next     ports.ContextStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks context values whose keys
// match the patterns before the snapshot is persisted. Masking is one-way:
// loaded snapshots come back with "***" in place of the original values.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.ContextStore) ports.ContextStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID, serialized string) error {
	doc := make(map[string]any)
	if err := json.Unmarshal([]byte(serialized), &doc); err != nil {
		return fmt.Errorf("snapshot is not a JSON document: %w", err)
	}

	maskMap(doc, m.patterns)

	masked, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to re-serialize masked snapshot: %w", err)
	}
	return m.next.Save(ctx, sessionID, string(masked))
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (string, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func maskMap(doc map[string]any, patterns []*regexp.Regexp) {
	for k, v := range doc {
		for _, p := range patterns {
			if p.MatchString(k) {
				doc[k] = "***"
				break
			}
		}

		// Recurse if map
		if subMap, ok := v.(map[string]any); ok {
			maskMap(subMap, patterns)
		}
	}
}
