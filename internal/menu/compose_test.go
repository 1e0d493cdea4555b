package menu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComposeEmail(t *testing.T) {
	t.Parallel()

	entries := []MenuEntry{
		{RecipeName: "Arroz", URL: "https://x/receita/arroz"},
		{RecipeName: "Feijao", URL: "https://x/receita/feijao"},
		{RecipeName: "Salada", URL: "https://x/receita/salada"},
	}
	items := []string{"alface", "arroz", "feijao"}

	body := ComposeEmail(entries, items, nil)
	want := strings.Join([]string{
		"Hello! Here is this week's suggested menu:",
		"",
		"Monday: Arroz - https://x/receita/arroz",
		"Tuesday: Feijao - https://x/receita/feijao",
		"Wednesday: Salada - https://x/receita/salada",
		"",
		"Shopping list:",
		"- alface",
		"- arroz",
		"- feijao",
	}, "\n")
	require.Equal(t, want, body)
	require.NotContains(t, body, "Thursday")
	lines := strings.Split(body, "\n")
	for _, item := range items {
		count := 0
		for _, line := range lines {
			if line == "- "+item {
				count++
			}
		}
		require.Equal(t, 1, count, item)
	}
}

func TestComposeEmailCustomWeekdays(t *testing.T) {
	t.Parallel()

	body := ComposeEmail([]MenuEntry{{RecipeName: "A", URL: "u"}}, nil, []string{"Segunda", "Terca", "Quarta", "Quinta", "Sexta"})
	require.Contains(t, body, "Segunda: A - u")
	require.True(t, strings.HasSuffix(body, "Shopping list:"))
}
