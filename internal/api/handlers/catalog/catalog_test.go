package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	catalogCore "cocktail-catalog/internal/core/catalog"
	"cocktail-catalog/internal/core/importer"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	content string
	err     error
}

func (s *stubGenerator) GenerateText(context.Context, string) (string, error) {
	return s.content, s.err
}

func testRouter(store *catalogCore.Store, gen importer.Generator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, importer.NewEnricher(store, gen))

	r := gin.New()
	g := r.Group("/catalog")
	g.GET("/products", h.ListProducts)
	g.GET("/products/:id", h.GetProduct)
	g.POST("/products/:id/enrich", h.EnrichProduct)
	g.GET("/cocktails", h.ListCocktails)
	g.GET("/cocktails/:id", h.GetCocktail)
	g.POST("/entities/:id/layers/:layerId/toggle", h.ToggleLayer)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func post(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListAndGet(t *testing.T) {
	store := catalogCore.NewStore()
	store.UpsertProduct(&catalogCore.Product{ID: "p_1", Name: "Campari", Role: "Modifier"})
	store.UpsertCocktail(&catalogCore.Cocktail{ID: "c_1", Name: "Negroni"})
	r := testRouter(store, &stubGenerator{})

	w := get(r, "/catalog/products")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Campari")

	w = get(r, "/catalog/products/p_1")
	require.Equal(t, http.StatusOK, w.Code)

	w = get(r, "/catalog/products/p_missing")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get(r, "/catalog/cocktails/c_1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Negroni")
}

func TestToggleLayerEndpoint(t *testing.T) {
	store := catalogCore.NewStore()
	store.UpsertCocktail(&catalogCore.Cocktail{
		ID:          "c_1",
		DepthLayers: []catalogCore.DepthLayer{{ID: "l_history", Enabled: true}},
	})
	r := testRouter(store, &stubGenerator{})

	w := post(r, "/catalog/entities/c_1/layers/l_history/toggle")
	require.Equal(t, http.StatusOK, w.Code)

	c, _ := store.Cocktail("c_1")
	assert.False(t, c.DepthLayers[0].Enabled)

	w = post(r, "/catalog/entities/c_1/layers/l_missing/toggle")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEnrichProductEndpoint(t *testing.T) {
	store := catalogCore.NewStore()
	store.UpsertProduct(&catalogCore.Product{ID: "p_1", Name: "Campari", Role: "Modifier"})
	gen := &stubGenerator{
		content: `{"contract":{"anchor":"bitter red icon"},"layers":{"flavor_aroma":"orange peel and gentian"}}`,
	}
	r := testRouter(store, gen)

	w := post(r, "/catalog/products/p_1/enrich")
	require.Equal(t, http.StatusOK, w.Code)

	var p catalogCore.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "bitter red icon", p.Contract.Anchor)
	require.Len(t, p.DepthLayers, 1)
	assert.Equal(t, "l_flavor_aroma", p.DepthLayers[0].ID)
}
