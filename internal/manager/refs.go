package manager

import (
	"context"

	"github.com/alexanderramin/bizdesk/internal/observe"
)

// Choice is one entry of a reference picker. Value is the stored id; Key is
// the short human identifier accepted on the command line.
type Choice struct {
	Label string
	Value string
	Key   string
}

// ValidReferences returns the items that may be chosen as the reference of
// the record excludedID. The record itself is always excluded; when
// excludeDescendants is set, so is every item whose parent chain reaches it.
// parentOf returns "" for a root item.
func ValidReferences[T any](items []T, idOf func(T) string, parentOf func(T) string, excludedID string, excludeDescendants bool) []T {
	out := make([]T, 0, len(items))
	if excludedID == "" {
		return append(out, items...)
	}

	parents := make(map[string]string, len(items))
	for _, it := range items {
		parents[idOf(it)] = parentOf(it)
	}
	descends := func(id string) bool {
		seen := map[string]bool{}
		for p := parents[id]; p != "" && !seen[p]; p = parents[p] {
			if p == excludedID {
				return true
			}
			seen[p] = true
		}
		return false
	}

	for _, it := range items {
		id := idOf(it)
		if id == excludedID {
			continue
		}
		if excludeDescendants && descends(id) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// LoadChoices fetches a reference collection for a picker. A failed fetch is
// reported to obs and yields no choices; it never blocks the form.
func LoadChoices[T any](ctx context.Context, obs observe.UseCaseObserver, name string, list func(context.Context) ([]T, error), toChoice func(T) Choice) []Choice {
	done := observe.Track(ctx, observe.OrNoop(obs), name, nil)
	items, err := list(ctx)
	done(err)
	if err != nil {
		return []Choice{}
	}
	out := make([]Choice, len(items))
	for i, it := range items {
		out[i] = toChoice(it)
	}
	return out
}
