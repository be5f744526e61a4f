package importer

import (
	"strings"
	"testing"
	"time"

	"cocktail-catalog/internal/core/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMaterializer(store *catalog.Store) *Materializer {
	m := NewMaterializer(store)
	m.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return m
}

func TestMaterializeLinksExistingProduct(t *testing.T) {
	store := storeWith(&catalog.Product{ID: "p_mezcal_1", Name: "Del Maguey Vida Mezcal"})
	mat := testMaterializer(store)

	staged := []StagingCocktail{{
		ID:   "temp_1",
		Name: "Oaxacan Old Fashioned",
		Specs: StagingSpecs{
			Glass:  "Rocks",
			Method: "Stir",
			Ingredients: []StagingIngredient{
				{Name: "Mezcal", Amount: "2 oz", RoleGuess: "Base Spirit"},
			},
		},
	}}
	matches := map[string][]*ProductMatch{
		"temp_1": {{RawName: "Mezcal", Kind: MatchExisting, ProductID: "p_mezcal_1"}},
	}

	ids := mat.Materialize(staged, matches)
	require.Len(t, ids, 1)

	c, ok := store.Cocktail(ids[0])
	require.True(t, ok)
	assert.Equal(t, "c_oaxacan_old_fashioned", c.ID)
	assert.Equal(t, []string{"p_mezcal_1"}, c.ProductIDs)
	assert.Equal(t, "Imported Content", c.Headline)
	assert.Equal(t, "Imported", c.Contract.MenuRole)
	assert.Empty(t, c.DepthLayers)

	// no product was created
	products, _ := store.Counts()
	assert.Equal(t, 1, products)
}

func TestMaterializeCocktailIDCollision(t *testing.T) {
	store := catalog.NewStore()
	mat := testMaterializer(store)

	store.UpsertCocktail(&catalog.Cocktail{ID: "c_smoke_signal", Name: "Smoke Signal"})

	staged := []StagingCocktail{{ID: "temp_1", Name: "Smoke Signal"}}
	ids := mat.Materialize(staged, map[string][]*ProductMatch{})

	require.Len(t, ids, 1)
	assert.Equal(t, "c_smoke_signal_2", ids[0])
	assert.True(t, store.HasCocktail("c_smoke_signal"))
	assert.True(t, store.HasCocktail("c_smoke_signal_2"))
}

func TestMaterializeCollisionWithinBatch(t *testing.T) {
	store := catalog.NewStore()
	mat := testMaterializer(store)

	staged := []StagingCocktail{
		{ID: "temp_1", Name: "Paper Plane"},
		{ID: "temp_2", Name: "Paper Plane"},
		{ID: "temp_3", Name: "Paper Plane"},
	}
	ids := mat.Materialize(staged, map[string][]*ProductMatch{})
	assert.Equal(t, []string{"c_paper_plane", "c_paper_plane_2", "c_paper_plane_3"}, ids)
}

func TestMaterializeCreatesNewProduct(t *testing.T) {
	store := catalog.NewStore()
	mat := testMaterializer(store)

	staged := []StagingCocktail{{ID: "temp_1", Name: "Garden Spritz"}}
	matches := map[string][]*ProductMatch{
		"temp_1": {{
			RawName:       "elderflower liqueur",
			Role:          "Modifier",
			Kind:          MatchNew,
			DraftProducer: "st-germain",
			DraftName:     "elderflower liqueur",
		}},
	}

	ids := mat.Materialize(staged, matches)
	c, _ := store.Cocktail(ids[0])
	require.Len(t, c.ProductIDs, 1)

	p, ok := store.Product(c.ProductIDs[0])
	require.True(t, ok)
	// hyphenated producer is a single word for title casing
	assert.Equal(t, "St-germain Elderflower Liqueur", p.Name)
	assert.Equal(t, "St-germain", p.Producer)
	assert.Equal(t, "Modifier", p.Role)
	assert.True(t, strings.HasPrefix(p.ID, "p_st_germain_elderflower_liqueur_"))
	assert.Empty(t, p.Contract.Anchor, "new products start unenriched")
}

func TestMaterializeReusesProductWithSameName(t *testing.T) {
	store := storeWith(&catalog.Product{ID: "p_existing", Name: "St-Germain Elderflower Liqueur"})
	mat := testMaterializer(store)

	staged := []StagingCocktail{{ID: "temp_1", Name: "Garden Spritz"}}
	matches := map[string][]*ProductMatch{
		"temp_1": {{
			RawName:       "Elderflower",
			Kind:          MatchNew,
			DraftProducer: "St-Germain",
			DraftName:     "Elderflower Liqueur",
		}},
	}

	ids := mat.Materialize(staged, matches)
	c, _ := store.Cocktail(ids[0])
	assert.Equal(t, []string{"p_existing"}, c.ProductIDs)

	products, _ := store.Counts()
	assert.Equal(t, 1, products, "no duplicate product created")
}

func TestMaterializeSkipDropsIngredient(t *testing.T) {
	store := catalog.NewStore()
	mat := testMaterializer(store)

	staged := []StagingCocktail{{ID: "temp_1", Name: "Negroni"}}
	matches := map[string][]*ProductMatch{
		"temp_1": {
			{RawName: "Ice", Kind: MatchSkip},
			{RawName: "Campari", Kind: MatchNew, DraftName: "Campari"},
		},
	}

	ids := mat.Materialize(staged, matches)
	c, _ := store.Cocktail(ids[0])
	require.Len(t, c.ProductIDs, 1)

	p, _ := store.Product(c.ProductIDs[0])
	assert.Equal(t, "Campari", p.Name)
}

func TestMaterializeUnknownExistingIDIsDropped(t *testing.T) {
	store := catalog.NewStore()
	mat := testMaterializer(store)

	staged := []StagingCocktail{{ID: "temp_1", Name: "Negroni"}}
	matches := map[string][]*ProductMatch{
		"temp_1": {{RawName: "Gin", Kind: MatchExisting, ProductID: "p_ghost"}},
	}

	ids := mat.Materialize(staged, matches)
	c, _ := store.Cocktail(ids[0])
	assert.Empty(t, c.ProductIDs, "a dangling reference is never created")
}

func TestMaterializeBatchContainer(t *testing.T) {
	store := storeWith(&catalog.Product{ID: "p_cinnamon", Name: "Cinnamon Syrup"})
	mat := testMaterializer(store)

	staged := []StagingCocktail{{ID: "temp_1", Name: "House Punch"}}
	matches := map[string][]*ProductMatch{
		"temp_1": {{
			RawName: "spice blend",
			Kind:    MatchBatchContainer,
			SubMatches: []*ProductMatch{
				{RawName: "cinnamon syrup", Kind: MatchExisting, ProductID: "p_cinnamon"},
				{RawName: "allspice dram", Kind: MatchNew, DraftName: "Allspice Dram"},
				{RawName: "water", Kind: MatchSkip},
			},
		}},
	}

	ids := mat.Materialize(staged, matches)
	c, _ := store.Cocktail(ids[0])
	require.Len(t, c.ProductIDs, 1)

	batch, ok := store.Product(c.ProductIDs[0])
	require.True(t, ok)
	assert.Equal(t, "Spice Blend", batch.Name)
	assert.Equal(t, "Batch", batch.Role)
	assert.Equal(t, "Batch Container", batch.Contract.Why)
	assert.True(t, batch.IsBatchContainer())

	// the skipped component is omitted entirely
	require.Len(t, batch.BatchComponents, 2)

	// linked component takes the catalog display name
	assert.Equal(t, "Cinnamon Syrup", batch.BatchComponents[0].Name)
	assert.Equal(t, "p_cinnamon", batch.BatchComponents[0].ProductID)

	// new component was created and linked
	assert.NotEmpty(t, batch.BatchComponents[1].ProductID)
	created, ok := store.Product(batch.BatchComponents[1].ProductID)
	require.True(t, ok)
	assert.Equal(t, "Allspice Dram", created.Name)
}

func TestMaterializeEmptyNameFallsBack(t *testing.T) {
	store := catalog.NewStore()
	mat := testMaterializer(store)

	ids := mat.Materialize([]StagingCocktail{{ID: "temp_1", Name: "!!!"}}, nil)
	require.Len(t, ids, 1)
	assert.Equal(t, "c_imported", ids[0])
}
