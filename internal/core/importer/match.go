package importer

import (
	"strings"

	"cocktail-catalog/internal/core/catalog"
)

// MatchKind discriminates how a staged ingredient resolves to a product.
type MatchKind string

const (
	// MatchExisting links the ingredient to a product already in the catalog.
	MatchExisting MatchKind = "existing"
	// MatchNew creates a fresh product from the draft fields.
	MatchNew MatchKind = "new"
	// MatchSkip leaves the ingredient out of the materialized cocktail.
	MatchSkip MatchKind = "skip"
	// MatchBatchContainer creates a Batch product whose components resolve
	// through SubMatches.
	MatchBatchContainer MatchKind = "batch_container"
)

// ProductMatch is one resolvable ingredient slot. ProductID is meaningful
// only for MatchExisting; SubMatches only for MatchBatchContainer.
type ProductMatch struct {
	RawName       string          `json:"rawName"`
	Amount        string          `json:"amount"`
	Role          string          `json:"role"`
	Kind          MatchKind       `json:"kind"`
	ProductID     string          `json:"productId,omitempty"`
	DraftProducer string          `json:"draftProducer,omitempty"`
	DraftName     string          `json:"draftName,omitempty"`
	SubMatches    []*ProductMatch `json:"subMatches,omitempty"`
}

// SetChoice applies a wizard override. The value is either one of the
// non-existing kinds or the id of an existing product.
func (m *ProductMatch) SetChoice(value string) {
	switch MatchKind(value) {
	case MatchNew, MatchSkip, MatchBatchContainer:
		m.Kind = MatchKind(value)
		m.ProductID = ""
	default:
		m.Kind = MatchExisting
		m.ProductID = value
	}
}

// ChoiceValue flattens the match back into the wire form used by SetChoice.
func (m *ProductMatch) ChoiceValue() string {
	if m.Kind == MatchExisting {
		return m.ProductID
	}
	return string(m.Kind)
}

// ProposeMatch builds the initial proposal for one staged ingredient.
// A Batch role with components always proposes a batch container; otherwise
// the first catalog product whose name contains the ingredient name (or vice
// versa, case-insensitive) wins, and an unmatched ingredient proposes a new
// product.
func ProposeMatch(ing StagingIngredient, store *catalog.Store) *ProductMatch {
	m := &ProductMatch{
		RawName: ing.Name,
		Amount:  ing.Amount,
		Role:    ing.RoleGuess,
	}

	if ing.RoleGuess == "Batch" && len(ing.SubIngredients) > 0 {
		m.Kind = MatchBatchContainer
		for _, sub := range ing.SubIngredients {
			m.SubMatches = append(m.SubMatches, ProposeMatch(sub, store))
		}
		return m
	}

	if p, ok := findBySubstring(ing.Name, store); ok {
		m.Kind = MatchExisting
		m.ProductID = p.ID
		return m
	}

	m.Kind = MatchNew
	m.DraftName = ing.Name
	return m
}

// BuildProposals proposes matches for every ingredient of a staged cocktail,
// preserving ingredient order.
func BuildProposals(c StagingCocktail, store *catalog.Store) []*ProductMatch {
	matches := make([]*ProductMatch, 0, len(c.Specs.Ingredients))
	for _, ing := range c.Specs.Ingredients {
		matches = append(matches, ProposeMatch(ing, store))
	}
	return matches
}

// findBySubstring scans products in insertion order and returns the first
// whose name contains the query or is contained by it.
func findBySubstring(name string, store *catalog.Store) (*catalog.Product, bool) {
	q := strings.ToLower(name)
	for _, p := range store.Products() {
		pn := strings.ToLower(p.Name)
		if strings.Contains(pn, q) || strings.Contains(q, pn) {
			return p, true
		}
	}
	return nil, false
}
