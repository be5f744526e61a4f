package importer

import (
	"fmt"
	"strings"
	"time"

	"cocktail-catalog/internal/core/catalog"
	"cocktail-catalog/internal/pkg/common"

	"go.uber.org/zap"
)

// Materializer commits confirmed staging cocktails and their resolved
// product matches into the catalog.
type Materializer struct {
	store *catalog.Store
	now   func() time.Time
}

// NewMaterializer creates a materializer over the given catalog store.
func NewMaterializer(store *catalog.Store) *Materializer {
	return &Materializer{
		store: store,
		now:   time.Now,
	}
}

// Materialize turns each staged cocktail plus its match decisions into
// canonical entities. Skipped ingredients are dropped, existing products
// are linked, new and batch products are created, and every cocktail gets
// an id that is unique across the catalog and the batch. The created
// cocktail ids are returned in input order.
func (m *Materializer) Materialize(staged []StagingCocktail, matches map[string][]*ProductMatch) []string {
	usedIDs := make(map[string]bool)
	for _, c := range m.store.Cocktails() {
		usedIDs[c.ID] = true
	}

	created := make([]string, 0, len(staged))
	for _, sc := range staged {
		productIDs := make([]string, 0, len(matches[sc.ID]))
		for _, match := range matches[sc.ID] {
			id, ok := m.resolveMatch(match)
			if ok {
				productIDs = append(productIDs, id)
			}
		}

		id := m.cocktailID(sc.Name, usedIDs)
		usedIDs[id] = true

		m.store.UpsertCocktail(&catalog.Cocktail{
			ID:       id,
			Name:     sc.Name,
			Headline: "Imported Content",
			Contract: catalog.ContentContract{
				MenuRole: "Imported",
			},
			ProductIDs:  productIDs,
			ConceptIDs:  []string{},
			DepthLayers: []catalog.DepthLayer{},
			Specs:       specsFromStaging(sc.Specs),
		})
		created = append(created, id)
	}
	return created
}

// resolveMatch materializes one match decision into a product id. The bool
// is false when the ingredient is skipped or the decision cannot produce a
// valid reference.
func (m *Materializer) resolveMatch(match *ProductMatch) (string, bool) {
	switch match.Kind {
	case MatchSkip:
		return "", false

	case MatchExisting:
		if _, ok := m.store.Product(match.ProductID); !ok {
			common.LogWarn("match references unknown product, skipping",
				zap.String("product_id", match.ProductID),
				zap.String("ingredient", match.RawName),
			)
			return "", false
		}
		return match.ProductID, true

	case MatchBatchContainer:
		return m.createBatchProduct(match), true

	default:
		return m.createProduct(match), true
	}
}

// createProduct creates a bare product from the draft fields. An existing
// product with the same full name is reused instead of duplicated.
func (m *Materializer) createProduct(match *ProductMatch) string {
	producer := common.TitleCase(strings.TrimSpace(match.DraftProducer))
	name := common.TitleCase(strings.TrimSpace(match.DraftName))
	if name == "" {
		name = common.TitleCase(match.RawName)
	}
	fullName := name
	if producer != "" {
		fullName = producer + " " + name
	}

	if existing, ok := m.store.FindProductByName(fullName); ok {
		common.LogInfo("reusing existing product instead of creating duplicate",
			zap.String("product_id", existing.ID),
			zap.String("name", fullName),
		)
		return existing.ID
	}

	id := m.productID(fullName)
	m.store.UpsertProduct(&catalog.Product{
		ID:          id,
		Name:        fullName,
		Producer:    producer,
		Role:        match.Role,
		Contract:    catalog.ContentContract{},
		DepthLayers: []catalog.DepthLayer{},
	})
	return id
}

// createBatchProduct creates a batch container and resolves each component
// through the normal match rules. Skipped components are omitted entirely.
func (m *Materializer) createBatchProduct(match *ProductMatch) string {
	components := make([]catalog.BatchComponent, 0, len(match.SubMatches))
	for _, sub := range match.SubMatches {
		id, ok := m.resolveMatch(sub)
		if !ok {
			continue
		}
		comp := catalog.BatchComponent{Name: common.TitleCase(sub.RawName), ProductID: id}
		if p, found := m.store.Product(id); found {
			comp.Name = p.Name
		}
		components = append(components, comp)
	}

	id := m.productID(match.RawName)
	m.store.UpsertProduct(&catalog.Product{
		ID:   id,
		Name: common.TitleCase(match.RawName),
		Role: "Batch",
		Contract: catalog.ContentContract{
			Why: "Batch Container",
		},
		DepthLayers:     []catalog.DepthLayer{},
		BatchComponents: components,
	})
	return id
}

// productID builds a product id from the name slug and the current unix
// millisecond timestamp.
func (m *Materializer) productID(name string) string {
	return fmt.Sprintf("p_%s_%d", common.Slugify(name), m.now().UnixMilli())
}

// cocktailID builds a cocktail id from the name slug, suffixing a counter
// when the slug collides with an id already in use.
func (m *Materializer) cocktailID(name string, used map[string]bool) string {
	slug := common.Slugify(name)
	if slug == "" {
		slug = "imported"
	}
	base := "c_" + slug

	id := common.UniqueSuffixID(base, used)
	if id != base {
		common.LogWarn("cocktail id collision, suffix appended",
			zap.String("base", base),
			zap.String("id", id),
		)
	}
	return id
}

// specsFromStaging copies staging specs into the canonical spec shape.
func specsFromStaging(s StagingSpecs) catalog.CocktailSpecs {
	ingredients := make([]catalog.SpecIngredient, 0, len(s.Ingredients))
	for _, ing := range s.Ingredients {
		si := catalog.SpecIngredient{
			Name:   ing.Name,
			Amount: ing.Amount,
		}
		for _, sub := range ing.SubIngredients {
			si.SubIngredients = append(si.SubIngredients, catalog.SpecIngredient{
				Name:   sub.Name,
				Amount: sub.Amount,
			})
		}
		ingredients = append(ingredients, si)
	}
	return catalog.CocktailSpecs{
		Glass:       s.Glass,
		Method:      s.Method,
		Garnish:     s.Garnish,
		Ingredients: ingredients,
	}
}
