package menu

import (
	"fmt"
	"strings"
)

// DefaultWeekdays labels the five menu slots.
var DefaultWeekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

const (
	emailGreeting      = "Hello! Here is this week's suggested menu:"
	shoppingListHeader = "Shopping list:"
)

// ComposeEmail renders the plain-text body. Entry i is labeled
// weekdays[i % len(weekdays)]; slots without an entry are left out. A nil or
// empty weekdays uses DefaultWeekdays.
func ComposeEmail(entries []MenuEntry, shoppingList []string, weekdays []string) string {
	if len(weekdays) == 0 {
		weekdays = DefaultWeekdays
	}
	lines := make([]string, 0, len(entries)+len(shoppingList)+4)
	lines = append(lines, emailGreeting, "")
	for i, entry := range entries {
		day := weekdays[i%len(weekdays)]
		lines = append(lines, fmt.Sprintf("%s: %s - %s", day, entry.RecipeName, entry.URL))
	}
	lines = append(lines, "", shoppingListHeader)
	for _, item := range shoppingList {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}
