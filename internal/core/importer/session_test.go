package importer

import (
	"testing"
	"time"

	"cocktail-catalog/internal/core/catalog"
	"cocktail-catalog/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stagedPunch() []StagingCocktail {
	return []StagingCocktail{{
		ID:   "temp_1",
		Name: "House Punch",
		Specs: StagingSpecs{
			Glass:   "Unknown",
			Method:  "Build",
			Garnish: "None",
			Ingredients: []StagingIngredient{
				{Name: "Mezcal", Amount: "2 oz", RoleGuess: "Base Spirit"},
				{
					Name:      "Spice Blend",
					Amount:    "1 oz",
					RoleGuess: "Batch",
					SubIngredients: []StagingIngredient{
						{Name: "Cinnamon Syrup", Amount: "2 parts", RoleGuess: "Modifier"},
					},
				},
			},
		},
	}}
}

func TestSessionStepEnforcement(t *testing.T) {
	mgr := NewManager()
	s := mgr.Create()
	assert.Equal(t, StepUpload, s.Step())

	// edits before upload are rejected
	err := s.RenameCocktail("temp_1", "New Name")
	require.Error(t, err)
	ce, ok := err.(*common.CustomError)
	require.True(t, ok)
	assert.Equal(t, common.ErrInvalidStep.Code, ce.Code)

	require.NoError(t, s.BeginReview(stagedPunch()))
	assert.Equal(t, StepReviewNames, s.Step())

	// a second upload cannot restart the wizard
	assert.Error(t, s.BeginReview(stagedPunch()))

	// spec edits are not allowed during name review
	assert.Error(t, s.UpdateSpecs("temp_1", nil, nil))

	require.NoError(t, s.ApproveNames())
	assert.Equal(t, StepReviewSpecs, s.Step())

	// name edits are closed once specs are open
	assert.Error(t, s.RenameCocktail("temp_1", "Too Late"))
}

func TestSessionNameReview(t *testing.T) {
	s := NewManager().Create()
	require.NoError(t, s.BeginReview(stagedPunch()))

	require.NoError(t, s.RenameCocktail("temp_1", "winter punch"))
	assert.Equal(t, "Winter Punch", s.Cocktails()[0].Name)

	assert.Error(t, s.RenameCocktail("temp_missing", "x"))

	require.NoError(t, s.RemoveCocktail("temp_1"))
	assert.Empty(t, s.Cocktails())
}

func TestSessionSpecEdits(t *testing.T) {
	s := NewManager().Create()
	require.NoError(t, s.BeginReview(stagedPunch()))
	require.NoError(t, s.ApproveNames())

	glass := "Tiki Mug"
	require.NoError(t, s.UpdateSpecs("temp_1", &glass, nil))
	assert.Equal(t, "Tiki Mug", s.Cocktails()[0].Specs.Glass)
	assert.Equal(t, "None", s.Cocktails()[0].Specs.Garnish, "nil fields stay untouched")

	amount := "2.5 oz"
	require.NoError(t, s.UpdateIngredient("temp_1", 0, nil, IngredientUpdate{Amount: &amount}))
	assert.Equal(t, "2.5 oz", s.Cocktails()[0].Specs.Ingredients[0].Amount)

	sub := 0
	name := "honey syrup"
	require.NoError(t, s.UpdateIngredient("temp_1", 1, &sub, IngredientUpdate{Name: &name}))
	assert.Equal(t, "Honey Syrup", s.Cocktails()[0].Specs.Ingredients[1].SubIngredients[0].Name)

	assert.Error(t, s.UpdateIngredient("temp_1", 9, nil, IngredientUpdate{}))
	badSub := 5
	assert.Error(t, s.UpdateIngredient("temp_1", 1, &badSub, IngredientUpdate{}))

	require.NoError(t, s.AddSubIngredient("temp_1", 0))
	ing := s.Cocktails()[0].Specs.Ingredients[0]
	assert.Equal(t, "Batch", ing.RoleGuess, "adding a component promotes the ingredient to a batch")
	assert.Len(t, ing.SubIngredients, 1)
}

func TestSessionMatchingAndConfirm(t *testing.T) {
	store := catalog.NewStore()
	store.UpsertProduct(&catalog.Product{ID: "p_mezcal", Name: "Vida Mezcal"})

	mat := NewMaterializer(store)
	mat.now = func() time.Time { return time.UnixMilli(1700000000000) }

	s := NewManager().Create()
	require.NoError(t, s.BeginReview(stagedPunch()))
	require.NoError(t, s.ApproveNames())
	require.NoError(t, s.ApproveSpecs(store))
	assert.Equal(t, StepMatchProducts, s.Step())

	matches := s.Matches()["temp_1"]
	require.Len(t, matches, 2)
	assert.Equal(t, MatchExisting, matches[0].Kind)
	assert.Equal(t, "p_mezcal", matches[0].ProductID)
	assert.Equal(t, MatchBatchContainer, matches[1].Kind)

	// override the batch component to skip
	sub := 0
	require.NoError(t, s.OverrideMatch("temp_1", 1, &sub, "skip", nil, nil))
	assert.Equal(t, MatchSkip, s.Matches()["temp_1"][1].SubMatches[0].Kind)

	// confirming twice must not double-materialize
	ids, err := s.Confirm(mat)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, StepEnhance, s.Step())
	assert.Equal(t, ids, s.ImportedIDs())
	assert.Empty(t, s.Cocktails(), "staging data is discarded after the commit")

	_, err = s.Confirm(mat)
	require.Error(t, err)

	c, ok := store.Cocktail(ids[0])
	require.True(t, ok)
	assert.Equal(t, "House Punch", c.Name)
	require.Len(t, c.ProductIDs, 2)
	assert.Equal(t, "p_mezcal", c.ProductIDs[0])

	batch, ok := store.Product(c.ProductIDs[1])
	require.True(t, ok)
	assert.Equal(t, "Batch", batch.Role)
	assert.Empty(t, batch.BatchComponents, "skipped component is omitted")
}

func TestManagerSessionLifecycle(t *testing.T) {
	mgr := NewManager()
	s := mgr.Create()

	got, ok := mgr.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	mgr.Remove(s.ID)
	_, ok = mgr.Get(s.ID)
	assert.False(t, ok)
}
