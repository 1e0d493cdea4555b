package menu

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Parser turns recipe pages into recipes.
type Parser struct {
	fetcher    Fetcher
	strategies []Strategy
}

// NewParser builds a Parser using the default strategy chain for src.
func NewParser(fetcher Fetcher, src Source) *Parser {
	return &Parser{
		fetcher:    fetcher,
		strategies: DefaultStrategies(src),
	}
}

// Parse fetches url and extracts its recipe. Only fetch failures are
// reported; an unreadable page yields a recipe with no ingredients.
func (p *Parser) Parse(ctx context.Context, url string) (Recipe, error) {
	resp, err := p.fetcher.Fetch(ctx, FetchRequest{URL: url})
	if err != nil {
		return Recipe{}, err
	}
	return ParseRecipeHTML(url, resp.Body, p.strategies...)
}

// ParseRecipeHTML extracts a recipe from an already fetched page. The name
// falls back to the page title, then to the URL itself.
func ParseRecipeHTML(url string, html []byte, strategies ...Strategy) (Recipe, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return Recipe{}, fmt.Errorf("parse recipe html %s: %w", url, err)
	}
	got := Extract(doc, strategies...)
	name := got.Name
	if name == "" {
		name = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if name == "" {
		name = url
	}
	return Recipe{Name: name, Ingredients: got.Ingredients}, nil
}
