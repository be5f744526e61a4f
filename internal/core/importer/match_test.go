package importer

import (
	"testing"

	"cocktail-catalog/internal/core/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeWith(products ...*catalog.Product) *catalog.Store {
	s := catalog.NewStore()
	for _, p := range products {
		s.UpsertProduct(p)
	}
	return s
}

func TestProposeMatchIngredientInsideProductName(t *testing.T) {
	store := storeWith(&catalog.Product{ID: "p_1", Name: "Del Maguey Vida Mezcal"})

	m := ProposeMatch(StagingIngredient{Name: "Mezcal", RoleGuess: "Base Spirit"}, store)
	assert.Equal(t, MatchExisting, m.Kind)
	assert.Equal(t, "p_1", m.ProductID)
}

func TestProposeMatchProductNameInsideIngredient(t *testing.T) {
	store := storeWith(&catalog.Product{ID: "p_1", Name: "Campari"})

	m := ProposeMatch(StagingIngredient{Name: "Campari Bitter Aperitivo", RoleGuess: "Modifier"}, store)
	assert.Equal(t, MatchExisting, m.Kind)
	assert.Equal(t, "p_1", m.ProductID)
}

func TestProposeMatchFirstMatchWins(t *testing.T) {
	store := storeWith(
		&catalog.Product{ID: "p_old", Name: "London Dry Gin"},
		&catalog.Product{ID: "p_new", Name: "Gin Mare"},
	)

	m := ProposeMatch(StagingIngredient{Name: "Gin"}, store)
	assert.Equal(t, "p_old", m.ProductID, "insertion order decides ties")
}

func TestProposeMatchCaseInsensitive(t *testing.T) {
	store := storeWith(&catalog.Product{ID: "p_1", Name: "APEROL"})

	m := ProposeMatch(StagingIngredient{Name: "aperol"}, store)
	assert.Equal(t, MatchExisting, m.Kind)
}

func TestProposeMatchNoMatchProposesNew(t *testing.T) {
	store := storeWith(&catalog.Product{ID: "p_1", Name: "Campari"})

	m := ProposeMatch(StagingIngredient{Name: "Yuzu Cordial", RoleGuess: "Modifier"}, store)
	assert.Equal(t, MatchNew, m.Kind)
	assert.Empty(t, m.ProductID)
	assert.Equal(t, "Yuzu Cordial", m.DraftName)
}

func TestProposeMatchBatchForcesContainer(t *testing.T) {
	// even if a product matches the batch name, the Batch role wins
	store := storeWith(&catalog.Product{ID: "p_1", Name: "Spice Blend"})

	ing := StagingIngredient{
		Name:      "Spice Blend",
		RoleGuess: "Batch",
		SubIngredients: []StagingIngredient{
			{Name: "Cinnamon Syrup", RoleGuess: "Modifier"},
			{Name: "Allspice Dram", RoleGuess: "Modifier"},
		},
	}
	m := ProposeMatch(ing, store)
	assert.Equal(t, MatchBatchContainer, m.Kind)
	require.Len(t, m.SubMatches, 2)
	assert.Equal(t, MatchNew, m.SubMatches[0].Kind)
}

func TestProposeMatchBatchRoleWithoutComponents(t *testing.T) {
	store := storeWith()

	m := ProposeMatch(StagingIngredient{Name: "House Mix", RoleGuess: "Batch"}, store)
	assert.Equal(t, MatchNew, m.Kind, "Batch role without components is a plain product")
}

func TestSetChoice(t *testing.T) {
	m := &ProductMatch{Kind: MatchNew}

	m.SetChoice("skip")
	assert.Equal(t, MatchSkip, m.Kind)
	assert.Equal(t, "skip", m.ChoiceValue())

	m.SetChoice("p_campari_123")
	assert.Equal(t, MatchExisting, m.Kind)
	assert.Equal(t, "p_campari_123", m.ProductID)
	assert.Equal(t, "p_campari_123", m.ChoiceValue())

	m.SetChoice("new")
	assert.Equal(t, MatchNew, m.Kind)
	assert.Empty(t, m.ProductID)
}

func TestBuildProposalsPreservesOrder(t *testing.T) {
	store := storeWith(&catalog.Product{ID: "p_1", Name: "Mezcal"})

	c := StagingCocktail{
		ID: "temp_1",
		Specs: StagingSpecs{
			Ingredients: []StagingIngredient{
				{Name: "Mezcal"},
				{Name: "Yuzu Cordial"},
			},
		},
	}
	ms := BuildProposals(c, store)
	require.Len(t, ms, 2)
	assert.Equal(t, MatchExisting, ms[0].Kind)
	assert.Equal(t, MatchNew, ms[1].Kind)
}
