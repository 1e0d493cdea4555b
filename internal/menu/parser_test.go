package menu

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRecipeHTML(t *testing.T) {
	t.Parallel()

	const url = "https://www.example.com/receita/x"
	tests := []struct {
		name     string
		html     string
		wantName string
		want     []string
	}{
		{
			name:     "structured data",
			html:     `<html><head><title>Page</title></head><body><script id="js_recipe_schema" type="application/ld+json">{"name":"X","recipeIngredient":["a","b"]}</script></body></html>`,
			wantName: "X",
			want:     []string{"a", "b"},
		},
		{
			name:     "malformed json falls back to heading",
			html:     `<html><head><title> Bolo </title></head><body><script id="js_recipe_schema">{not json</script><h3>Ingredientes</h3><ul><li> c </li><li>d</li></ul><ul><li>unrelated</li></ul></body></html>`,
			wantName: "Bolo",
			want:     []string{"c", "d"},
		},
		{
			name:     "structured name kept when ingredients come from heading",
			html:     `<script id="js_recipe_schema">{"name":"Sopa"}</script><h2>Ingredientes</h2><ul><li>agua</li></ul>`,
			wantName: "Sopa",
			want:     []string{"agua"},
		},
		{
			name:     "heading match is case-sensitive",
			html:     `<title>T</title><h2>ingredientes</h2><ul><li>x</li></ul>`,
			wantName: "T",
			want:     []string{"x"},
		},
		{
			name:     "every matching heading contributes",
			html:     `<h2>Ingredientes da massa</h2><ul><li>farinha</li></ul><h2>Ingredientes do recheio</h2><ul><li>queijo</li></ul>`,
			wantName: url,
			want:     []string{"farinha", "queijo"},
		},
		{
			name:     "any list items as last resort",
			html:     `<title>T</title><ul><li>one</li><li>   </li></ul><ol><li>two  items</li></ol>`,
			wantName: "T",
			want:     []string{"one", "two items"},
		},
		{
			name:     "nothing found",
			html:     `<p>empty</p>`,
			wantName: url,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			recipe, err := ParseRecipeHTML(url, []byte(tc.html), DefaultStrategies(testSource())...)
			require.NoError(t, err)
			require.Equal(t, tc.wantName, recipe.Name)
			require.Equal(t, tc.want, recipe.Ingredients)
		})
	}
}

func TestStructuredDataIgnoresNonStringIngredients(t *testing.T) {
	t.Parallel()

	html := `<div id="js_recipe_schema">{"name":1,"recipeIngredient":["a",2,null,"b"]}</div>`
	recipe, err := ParseRecipeHTML("u", []byte(html), StructuredData("js_recipe_schema"))
	require.NoError(t, err)
	require.Equal(t, "u", recipe.Name)
	require.Equal(t, []string{"a", "b"}, recipe.Ingredients)
}

func TestParserParse(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://www.example.com/receita/x": `<script id="js_recipe_schema">{"name":"X","recipeIngredient":["a"]}</script>`,
	}}
	parser := NewParser(fetcher, testSource())

	recipe, err := parser.Parse(context.Background(), "https://www.example.com/receita/x")
	require.NoError(t, err)
	require.Equal(t, Recipe{Name: "X", Ingredients: []string{"a"}}, recipe)

	_, err = parser.Parse(context.Background(), "https://www.example.com/receita/missing")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
}
