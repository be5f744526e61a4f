package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreInsertionOrder(t *testing.T) {
	s := NewStore()
	s.UpsertProduct(&Product{ID: "p_b", Name: "Beefeater Gin"})
	s.UpsertProduct(&Product{ID: "p_a", Name: "Aperol"})
	s.UpsertProduct(&Product{ID: "p_c", Name: "Campari"})

	ids := []string{}
	for _, p := range s.Products() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"p_b", "p_a", "p_c"}, ids)

	// re-upsert must not change position
	s.UpsertProduct(&Product{ID: "p_a", Name: "Aperol Aperitivo"})
	ids = ids[:0]
	for _, p := range s.Products() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"p_b", "p_a", "p_c"}, ids)

	p, ok := s.Product("p_a")
	require.True(t, ok)
	assert.Equal(t, "Aperol Aperitivo", p.Name)
}

func TestStoreCopiesOnReadAndWrite(t *testing.T) {
	s := NewStore()
	original := &Product{ID: "p_x", Name: "Mezcal"}
	s.UpsertProduct(original)
	original.Name = "mutated"

	p, ok := s.Product("p_x")
	require.True(t, ok)
	assert.Equal(t, "Mezcal", p.Name)

	p.Name = "also mutated"
	again, _ := s.Product("p_x")
	assert.Equal(t, "Mezcal", again.Name)
}

func TestFindProductByName(t *testing.T) {
	s := NewStore()
	s.UpsertProduct(&Product{ID: "p_1", Name: "Del Maguey Vida"})

	p, ok := s.FindProductByName("del maguey vida")
	require.True(t, ok)
	assert.Equal(t, "p_1", p.ID)

	_, ok = s.FindProductByName("Del Maguey")
	assert.False(t, ok, "lookup is exact, not substring")
}

func TestToggleLayer(t *testing.T) {
	s := NewStore()
	s.UpsertCocktail(&Cocktail{
		ID: "c_negroni",
		DepthLayers: []DepthLayer{
			{ID: "l_history", Enabled: true},
		},
	})

	require.True(t, s.ToggleLayer("c_negroni", "l_history"))
	c, _ := s.Cocktail("c_negroni")
	assert.False(t, c.DepthLayers[0].Enabled)

	require.True(t, s.ToggleLayer("c_negroni", "l_history"))
	c, _ = s.Cocktail("c_negroni")
	assert.True(t, c.DepthLayers[0].Enabled)

	assert.False(t, s.ToggleLayer("c_negroni", "l_missing"))
	assert.False(t, s.ToggleLayer("c_missing", "l_history"))

	// layer list is untouched by toggling
	assert.Len(t, c.DepthLayers, 1)
}

func TestLayerContentJSON(t *testing.T) {
	var c LayerContent
	require.NoError(t, c.UnmarshalJSON([]byte(`"peaty and bright"`)))
	assert.Equal(t, "peaty and bright", c.Text)
	assert.Nil(t, c.Items)

	require.NoError(t, c.UnmarshalJSON([]byte(`[{"label":"Juniper","info":"backbone of gin"}]`)))
	assert.Empty(t, c.Text)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "Juniper", c.Items[0].Label)

	assert.Error(t, c.UnmarshalJSON([]byte(`42`)))
}
