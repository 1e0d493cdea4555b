// Package menu implements the weekly menu pipeline: recipe link discovery on
// the listing page, best-effort recipe extraction, random sampling of the
// week's recipes, shopping list normalization and the plain-text email body.
package menu
