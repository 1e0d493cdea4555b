package menu

import (
	"slices"
	"strings"
)

// BuildShoppingList deduplicates ingredients case-insensitively, keeping the
// first-seen trimmed spelling, and sorts the result by its lowercase form.
// Blank entries are dropped.
func BuildShoppingList(ingredients []string) []string {
	seen := make(map[string]struct{}, len(ingredients))
	out := make([]string, 0, len(ingredients))
	for _, item := range ingredients {
		trimmed := strings.TrimSpace(item)
		key := strings.ToLower(trimmed)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	slices.SortStableFunc(out, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return out
}
