package importer

import (
	"fmt"
	"strings"
	"time"

	"cocktail-catalog/internal/pkg/common"
)

// ExtractedIngredient is one ingredient as returned by the extraction model.
type ExtractedIngredient struct {
	Name           string                `json:"name"`
	Amount         string                `json:"amount"`
	Role           string                `json:"role"`
	SubIngredients []ExtractedIngredient `json:"subIngredients,omitempty"`
}

// ExtractedCocktail is one cocktail as returned by the extraction model.
type ExtractedCocktail struct {
	Name        string                `json:"name"`
	Glass       string                `json:"glass"`
	Method      string                `json:"method"`
	Garnish     string                `json:"garnish"`
	Ingredients []ExtractedIngredient `json:"ingredients"`
}

// ExtractionResponse is the top-level extraction payload.
type ExtractionResponse struct {
	Cocktails []ExtractedCocktail `json:"cocktails"`
}

// StagingIngredient is a review-stage ingredient. Sub-ingredients go one
// level deep only: components of a batch are always leaves.
type StagingIngredient struct {
	Name           string              `json:"name"`
	Amount         string              `json:"amount"`
	RoleGuess      string              `json:"roleGuess"`
	SubIngredients []StagingIngredient `json:"subIngredients,omitempty"`
}

// StagingSpecs holds the editable recipe fields of a staging cocktail.
type StagingSpecs struct {
	Glass       string              `json:"glass"`
	Method      string              `json:"method"`
	Garnish     string              `json:"garnish"`
	Ingredients []StagingIngredient `json:"ingredients"`
}

// StagingCocktail is a cocktail awaiting review. The ID is temporary and is
// never reused for the materialized entity.
type StagingCocktail struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Specs StagingSpecs `json:"specs"`
}

// Normalize parses a raw extraction response and lifts it into staging form:
// names are title-cased, missing spec fields get defaults, and ingredient
// roles are inferred where the model omitted them.
func Normalize(raw string) ([]StagingCocktail, error) {
	payload := common.ExtractJSONObject(raw)

	var resp ExtractionResponse
	if err := common.ParseJSON(payload, &resp); err != nil {
		return nil, common.ErrAIServiceError.WithError(fmt.Errorf("parse extraction response: %w", err))
	}
	if len(resp.Cocktails) == 0 {
		return nil, common.ErrExtractionEmpty
	}

	now := time.Now().UnixMilli()
	staged := make([]StagingCocktail, 0, len(resp.Cocktails))
	for i, c := range resp.Cocktails {
		staged = append(staged, StagingCocktail{
			ID:   fmt.Sprintf("temp_%d_%d", now, i),
			Name: common.TitleCase(c.Name),
			Specs: StagingSpecs{
				Glass:       defaultString(c.Glass, "Unknown"),
				Method:      defaultString(c.Method, "Build"),
				Garnish:     defaultString(c.Garnish, "None"),
				Ingredients: normalizeIngredients(c.Ingredients),
			},
		})
	}
	return staged, nil
}

func normalizeIngredients(raw []ExtractedIngredient) []StagingIngredient {
	out := make([]StagingIngredient, 0, len(raw))
	for _, ing := range raw {
		s := StagingIngredient{
			Name:      common.TitleCase(ing.Name),
			Amount:    ing.Amount,
			RoleGuess: inferRole(ing),
		}
		for _, sub := range ing.SubIngredients {
			s.SubIngredients = append(s.SubIngredients, StagingIngredient{
				Name:      common.TitleCase(sub.Name),
				Amount:    sub.Amount,
				RoleGuess: "Modifier",
			})
		}
		out = append(out, s)
	}
	return out
}

// inferRole keeps the extractor's role when present, falling back to Batch
// for compound ingredients and Modifier otherwise.
func inferRole(ing ExtractedIngredient) string {
	if strings.TrimSpace(ing.Role) != "" {
		return ing.Role
	}
	if len(ing.SubIngredients) > 0 {
		return "Batch"
	}
	return "Modifier"
}

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
