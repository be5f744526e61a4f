package importer

import (
	"fmt"
	"strings"
)

// Persona is the fixed instruction prefix for every enrichment call.
const Persona = `You are a veteran Beverage Director at a World's 50 Best Bar.
Your goal is to educate professional bartenders with verified, actionable knowledge.

CRITICAL INTEGRITY PROTOCOL:
1. ACCURACY IS PARAMOUNT. Verify every technical detail.
2. NO TRUNCATION. You must provide all requested depth layers for every spirit.
3. SOURCE TRUTH. Prioritize technical sheets and reputable industry journalism.`

// spiritRoles are the roles that get the full four-layer product schema.
var spiritRoles = map[string]bool{
	"Base Spirit": true,
	"Modifier":    true,
	"Liqueur":     true,
	"Spirit":      true,
}

// ExtractionPrompt instructs the model to pull every cocktail and housemade
// batch recipe out of an uploaded menu document.
func ExtractionPrompt() string {
	return `Analyze this document (Cocktail Menu, Recipe Sheet, or Inventory List).
Extract every cocktail or house-made batch recipe found.

Return JSON:
{
  "cocktails": [
    {
      "name": "Drink Name",
      "glass": "string",
      "method": "string",
      "garnish": "string",
      "ingredients": [
        {
          "name": "Ingredient Name",
          "amount": "string",
          "role": "Base Spirit | Modifier | Citrus | Sweetener | Batch | Garnish",
          "subIngredients": [{"name": "string", "amount": "string"}]
        }
      ]
    }
  ]
}`
}

// ProductPrompt builds the enrichment prompt for a product. Spirit-class
// roles require all four depth layers plus botanicals; other roles get a
// reduced schema.
func ProductPrompt(name, role string) string {
	var sb strings.Builder
	sb.WriteString(Persona)
	sb.WriteString(fmt.Sprintf("\n\nTASK: Research %q (Role: %s) and generate a JSON object.\n", name, role))

	if spiritRoles[role] {
		sb.WriteString(`RULES: You MUST provide all four layers below. Do not leave them empty.

Return JSON:
{
  "contract": {
    "anchor": "define this product in 4-6 words, clinical but evocative",
    "say": "a single romantic sentence a bartender can say to sell this",
    "why": "the functional role in a cocktail, focused on structural impact",
    "proof": "one verifiable cool fact"
  },
  "layers": {
    "flavor_aroma": "dominant notes for Nose, Palate, and Finish",
    "style_region": "sub-category, region, soil, and climate details",
    "distillery_story": "still types, Master Distiller names, harvesting methods",
    "history": "dates, figureheads, and specific events (wars, decrees)",
    "botanicals": [{"label": "string", "info": "string"}]
  }
}`)
		return sb.String()
	}

	sb.WriteString(`Return JSON:
{
  "contract": {
    "anchor": "define this product in 4-6 words",
    "say": "a single sentence a bartender can say to sell this",
    "why": "the functional role in a cocktail",
    "proof": "one verifiable cool fact"
  },
  "layers": {
    "flavor_aroma": "string",
    "origin_story": "string",
    "production_notes": "string"
  }
}`)
	return sb.String()
}

// CocktailPrompt builds the enrichment prompt for a cocktail from its name
// and a flattened ingredient/amount description.
func CocktailPrompt(name, specs string) string {
	var sb strings.Builder
	sb.WriteString(Persona)
	sb.WriteString(fmt.Sprintf("\nTASK: Analyze %q with specs: %s.\n", name, specs))
	sb.WriteString(`Return JSON:
{
  "contract": {
    "anchor": "string",
    "say": "string",
    "why": "string",
    "whyExists": "string",
    "menuRole": "string",
    "ifTheyLikeX": "string"
  },
  "depthLayers": {
    "flavor_mechanics": "string",
    "history": "string"
  }
}`)
	return sb.String()
}
