package catalog

import (
	"net/http"

	catalogCore "cocktail-catalog/internal/core/catalog"
	"cocktail-catalog/internal/core/importer"
	"cocktail-catalog/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves catalog reads, layer toggles and standalone product
// enrichment.
type Handler struct {
	store    *catalogCore.Store
	enricher *importer.Enricher
}

// NewHandler creates a catalog handler.
func NewHandler(store *catalogCore.Store, enricher *importer.Enricher) *Handler {
	return &Handler{
		store:    store,
		enricher: enricher,
	}
}

// ListProducts returns every product in insertion order.
func (h *Handler) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"products": h.store.Products(),
	})
}

// GetProduct returns one product by id.
func (h *Handler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	p, ok := h.store.Product(id)
	if !ok {
		respondError(c, common.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListCocktails returns every cocktail in insertion order.
func (h *Handler) ListCocktails(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"cocktails": h.store.Cocktails(),
	})
}

// GetCocktail returns one cocktail by id.
func (h *Handler) GetCocktail(c *gin.Context) {
	id := c.Param("id")
	ck, ok := h.store.Cocktail(id)
	if !ok {
		respondError(c, common.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, ck)
}

// ToggleLayer flips the enabled flag of one depth layer on a product or
// cocktail.
func (h *Handler) ToggleLayer(c *gin.Context) {
	entityID := c.Param("id")
	layerID := c.Param("layerId")

	if !h.store.ToggleLayer(entityID, layerID) {
		respondError(c, common.ErrNotFound)
		return
	}

	common.LogInfo("depth layer toggled",
		zap.String("entity_id", entityID),
		zap.String("layer_id", layerID),
	)
	c.JSON(http.StatusOK, gin.H{
		"entityId": entityID,
		"layerId":  layerID,
	})
}

// EnrichProduct regenerates narrative content for one product on demand.
func (h *Handler) EnrichProduct(c *gin.Context) {
	id := c.Param("id")
	if err := h.enricher.EnrichProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	p, _ := h.store.Product(id)
	c.JSON(http.StatusOK, p)
}

// respondError maps application errors onto HTTP responses.
func respondError(c *gin.Context, err error) {
	if ce, ok := err.(*common.CustomError); ok {
		c.JSON(ce.Status, common.ErrorResponse{
			Code:    ce.Code,
			Message: ce.Message,
			Details: detailOf(ce),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, common.ErrorResponse{
		Code:    common.ErrCodeInternalError,
		Message: err.Error(),
	})
}

func detailOf(ce *common.CustomError) string {
	if ce.Err != nil {
		return ce.Err.Error()
	}
	return ""
}
