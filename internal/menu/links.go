package menu

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractRecipeLinks parses the listing page and returns the absolute recipe
// URLs its anchors point to, first occurrence first, without duplicates.
func ExtractRecipeLinks(html []byte, src Source) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}
	return recipeLinks(doc, src), nil
}

func recipeLinks(doc *goquery.Document, src Source) []string {
	origin := strings.TrimRight(src.Origin, "/")
	absolutePrefix := origin + src.RecipePath

	seen := make(map[string]struct{})
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		link, ok := resolveRecipeHref(href, origin, absolutePrefix, src.RecipePath)
		if !ok {
			return
		}
		if _, dup := seen[link]; dup {
			return
		}
		seen[link] = struct{}{}
		links = append(links, link)
	})
	return links
}

func resolveRecipeHref(href, origin, absolutePrefix, relativePrefix string) (string, bool) {
	switch {
	case strings.HasPrefix(href, absolutePrefix):
		return href, true
	case strings.HasPrefix(href, relativePrefix):
		return origin + href, true
	default:
		return "", false
	}
}

// DiscoverRecipeLinks fetches the listing page and extracts its recipe links.
// Fetch failures are returned unchanged so callers can match *FetchError.
func DiscoverRecipeLinks(ctx context.Context, fetcher Fetcher, src Source) ([]string, error) {
	resp, err := fetcher.Fetch(ctx, FetchRequest{URL: src.ListingURL})
	if err != nil {
		return nil, err
	}
	return ExtractRecipeLinks(resp.Body, src)
}
