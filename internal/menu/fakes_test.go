package menu

import (
	"context"
	"net/http"
)

type fakeFetcher struct {
	pages map[string]string
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, req FetchRequest) (FetchResponse, error) {
	f.calls = append(f.calls, req.URL)
	body, ok := f.pages[req.URL]
	if !ok {
		return FetchResponse{}, &FetchError{URL: req.URL, StatusCode: http.StatusNotFound}
	}
	return FetchResponse{URL: req.URL, StatusCode: http.StatusOK, Body: []byte(body)}, nil
}

func testSource() Source {
	return Source{
		ListingURL:        "https://www.example.com/blog/menus",
		Origin:            "https://www.example.com",
		RecipePath:        "/receita/",
		StructuredDataID:  "js_recipe_schema",
		IngredientHeading: "Ingrediente",
	}
}
