package kb

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gravitrone/annotator/cli/internal/api"
	"github.com/gravitrone/annotator/cli/internal/metrics"
)

// EntitySource provides the candidates for type-ahead listing.
type EntitySource interface {
	SearchEntitiesFullText(kb api.KnowledgeBase, text string) ([]api.KBHandle, error)
	ListEntitiesInScope(kb api.KnowledgeBase) ([]api.KBHandle, error)
}

// ListSearchResults returns the entities matching a typed prefix. Knowledge
// bases with full-text search delegate to the concept-linking index and keep
// its ranking. Otherwise every entity in scope is filtered by case-insensitive
// label prefix, sorted by label and deduplicated by identifier.
func ListSearchResults(kb api.KnowledgeBase, prefix string, src EntitySource) ([]api.KBHandle, error) {
	if kb.FullTextSearch {
		done := metrics.TimeCall("kb.search_full_text")
		results, err := src.SearchEntitiesFullText(kb, prefix)
		done(err == nil)
		if err != nil {
			return nil, fmt.Errorf("full-text search: %w", err)
		}
		return results, nil
	}

	done := metrics.TimeCall("kb.list_entities")
	entities, err := src.ListEntitiesInScope(kb)
	done(err == nil)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	return filterByPrefix(entities, prefix), nil
}

func filterByPrefix(entities []api.KBHandle, prefix string) []api.KBHandle {
	p := strings.ToLower(prefix)
	matches := make([]api.KBHandle, 0, len(entities))
	for _, e := range entities {
		if strings.HasPrefix(strings.ToLower(e.UIName()), p) {
			matches = append(matches, e)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].UIName() < matches[j].UIName()
	})

	seen := make(map[string]struct{}, len(matches))
	out := matches[:0]
	for _, m := range matches {
		if _, dup := seen[m.Identifier]; dup {
			continue
		}
		seen[m.Identifier] = struct{}{}
		out = append(out, m)
	}
	return out
}

// Selectable reports whether a handle can be opened in the detail region.
func Selectable(h api.KBHandle) bool {
	return h.Kind == api.KindConcept || h.Kind == api.KindProperty
}

// PickerVisible reports whether the knowledge-base picker offers a choice.
func PickerVisible(kbs []api.KnowledgeBase) bool {
	return len(kbs) >= 2
}

// DefaultIndex finds want by ID or case-insensitive name, else 0.
func DefaultIndex(kbs []api.KnowledgeBase, want string) int {
	want = strings.TrimSpace(want)
	if want == "" {
		return 0
	}
	for i, k := range kbs {
		if k.ID == want || strings.EqualFold(k.Name, want) {
			return i
		}
	}
	return 0
}
