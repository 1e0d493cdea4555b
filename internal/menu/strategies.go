package menu

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extraction is what a strategy managed to read from a recipe page. Either
// field may be empty.
type Extraction struct {
	Name        string
	Ingredients []string
}

// Strategy reads a recipe from a parsed page. Strategies are pure and never
// fail; an empty Ingredients slice means "try the next one".
type Strategy func(doc *goquery.Document) Extraction

// DefaultStrategies returns the extraction chain for src: embedded structured
// data, then the list under an ingredient heading, then every list item.
func DefaultStrategies(src Source) []Strategy {
	return []Strategy{
		StructuredData(src.StructuredDataID),
		IngredientHeading(src.IngredientHeading),
		AnyListItems(),
	}
}

// Extract runs the strategies in order. The first non-empty ingredient list
// wins; the name comes from the first strategy that reported one, even if
// that strategy had no ingredients.
func Extract(doc *goquery.Document, strategies ...Strategy) Extraction {
	var out Extraction
	for _, strategy := range strategies {
		got := strategy(doc)
		if out.Name == "" {
			out.Name = got.Name
		}
		if len(got.Ingredients) > 0 {
			out.Ingredients = got.Ingredients
			return out
		}
	}
	return out
}

type structuredRecipe map[string]any

// StructuredData decodes the JSON object embedded in the element with the
// given id and reads its "name" and "recipeIngredient" keys. Ingredient
// strings are returned as published.
func StructuredData(id string) Strategy {
	selector := fmt.Sprintf("[id=%q]", id)
	return func(doc *goquery.Document) Extraction {
		if id == "" {
			return Extraction{}
		}
		node := doc.Find(selector).First()
		if node.Length() == 0 {
			return Extraction{}
		}
		var data structuredRecipe
		if err := json.Unmarshal([]byte(node.Text()), &data); err != nil {
			return Extraction{}
		}
		var out Extraction
		if name, ok := data["name"].(string); ok {
			out.Name = name
		}
		if raw, ok := data["recipeIngredient"].([]any); ok {
			for _, item := range raw {
				if s, ok := item.(string); ok {
					out.Ingredients = append(out.Ingredients, s)
				}
			}
		}
		return out
	}
}

// IngredientHeading looks for h2-h5 headings whose text contains marker
// (case-sensitive) and collects the items of the first <ul> that follows each
// of them in document order.
func IngredientHeading(marker string) Strategy {
	return func(doc *goquery.Document) Extraction {
		if marker == "" {
			return Extraction{}
		}
		var (
			items   []string
			pending int
		)
		doc.Find("h2, h3, h4, h5, ul").Each(func(_ int, s *goquery.Selection) {
			if goquery.NodeName(s) != "ul" {
				if strings.Contains(s.Text(), marker) {
					pending++
				}
				return
			}
			if pending == 0 {
				return
			}
			found := listItemTexts(s.Find("li"))
			for ; pending > 0; pending-- {
				items = append(items, found...)
			}
		})
		return Extraction{Ingredients: items}
	}
}

// AnyListItems collects every list item on the page. It is the last resort
// and may pick up navigation or other non-ingredient content.
func AnyListItems() Strategy {
	return func(doc *goquery.Document) Extraction {
		return Extraction{Ingredients: listItemTexts(doc.Find("li"))}
	}
}

func listItemTexts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, li *goquery.Selection) {
		if text := normalizeText(li.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

// normalizeText trims the text and collapses internal whitespace runs left
// over from HTML formatting.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
