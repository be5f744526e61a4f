package catalog

import (
	"encoding/json"
	"fmt"
)

// DepthLevel is the disclosure tier of a depth layer.
type DepthLevel string

const (
	DepthEssential DepthLevel = "essential"
	DepthUseful    DepthLevel = "useful"
	DepthDeep      DepthLevel = "deep"
)

// ContentContract is the fixed set of narrative fields attached to a product
// or cocktail: definition, rationale and talking-point script.
type ContentContract struct {
	Anchor     string `json:"anchor"`
	Say        string `json:"say"`
	Why        string `json:"why"`
	Proof      string `json:"proof,omitempty"`
	IfTheyAsk  string `json:"ifTheyAsk,omitempty"`
	IfTheyLike string `json:"ifTheyLikeX,omitempty"`
	WhyExists  string `json:"whyExists,omitempty"`
	MenuRole   string `json:"menuRole,omitempty"`
}

// LayerItem is one labelled tooltip entry inside a depth layer.
type LayerItem struct {
	Label string `json:"label"`
	Info  string `json:"info"`
}

// LayerContent is either free text or a set of labelled tooltip entries.
// Exactly one of Text and Items is populated.
type LayerContent struct {
	Text  string
	Items []LayerItem
}

// MarshalJSON encodes the populated variant.
func (c LayerContent) MarshalJSON() ([]byte, error) {
	if c.Items != nil {
		return json.Marshal(c.Items)
	}
	return json.Marshal(c.Text)
}

// UnmarshalJSON accepts either a string or an array of labelled entries.
func (c *LayerContent) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		c.Text = text
		c.Items = nil
		return nil
	}
	var items []LayerItem
	if err := json.Unmarshal(data, &items); err == nil {
		c.Items = items
		c.Text = ""
		return nil
	}
	return fmt.Errorf("layer content must be a string or a label/info array")
}

// DepthLayer is a unit of supplementary content tagged with a disclosure
// tier. Enabled is a display toggle, not a deletion.
type DepthLayer struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Content LayerContent `json:"content"`
	Depth   DepthLevel   `json:"depth"`
	Enabled bool         `json:"isEnabled"`
}

// BatchComponent pairs a batch constituent's display name with the catalog
// product it resolved to, if any.
type BatchComponent struct {
	Name      string `json:"name"`
	ProductID string `json:"productId,omitempty"`
}

// Product is a canonical catalog entity. A product with BatchComponents is a
// batch container: a housemade grouping whose real constituents are the
// referenced products, never shown directly to a guest.
type Product struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Producer        string           `json:"producer,omitempty"`
	Role            string           `json:"role"`
	Contract        ContentContract  `json:"contract"`
	DepthLayers     []DepthLayer     `json:"depthLayers"`
	BatchComponents []BatchComponent `json:"batchComponents,omitempty"`
}

// IsBatchContainer reports whether the product groups other products.
func (p *Product) IsBatchContainer() bool {
	return len(p.BatchComponents) > 0
}

// SpecIngredient is one line of a cocktail spec. SubIngredients is present
// only for batch items; the tree is at most one level deep.
type SpecIngredient struct {
	Name           string           `json:"name"`
	Amount         string           `json:"amount"`
	SubIngredients []SpecIngredient `json:"subIngredients,omitempty"`
}

// CocktailSpecs holds the build details of a cocktail.
type CocktailSpecs struct {
	Glass       string           `json:"glass"`
	Method      string           `json:"method"`
	Garnish     string           `json:"garnish"`
	Ingredients []SpecIngredient `json:"ingredients"`
}

// Cocktail is a canonical catalog entity. ProductIDs reference Product
// entities by id; all ids must resolve at materialization time.
type Cocktail struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Headline    string          `json:"headline"`
	Contract    ContentContract `json:"contract"`
	ProductIDs  []string        `json:"productIds"`
	ConceptIDs  []string        `json:"conceptIds"`
	DepthLayers []DepthLayer    `json:"depthLayers"`
	Specs       CocktailSpecs   `json:"specs"`
}
