package importer

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	catalogCore "cocktail-catalog/internal/core/catalog"
	importerCore "cocktail-catalog/internal/core/importer"
	"cocktail-catalog/internal/infrastructure/config"
	"cocktail-catalog/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Extractor pulls structured content out of an uploaded document.
type Extractor interface {
	ExtractDocument(ctx context.Context, prompt, mimeType string, data []byte) (string, error)
}

// Handler drives the import wizard over HTTP. Every route below /sessions/:id
// resolves the session first; step enforcement lives in the session itself.
type Handler struct {
	cfg          *config.Config
	sessions     *importerCore.Manager
	store        *catalogCore.Store
	extractor    Extractor
	materializer *importerCore.Materializer
	enricher     *importerCore.Enricher
}

// NewHandler creates an import wizard handler.
func NewHandler(
	cfg *config.Config,
	sessions *importerCore.Manager,
	store *catalogCore.Store,
	extractor Extractor,
	materializer *importerCore.Materializer,
	enricher *importerCore.Enricher,
) *Handler {
	return &Handler{
		cfg:          cfg,
		sessions:     sessions,
		store:        store,
		extractor:    extractor,
		materializer: materializer,
		enricher:     enricher,
	}
}

// CreateSession opens a new import session at the upload step.
func (h *Handler) CreateSession(c *gin.Context) {
	s := h.sessions.Create()
	c.JSON(http.StatusCreated, gin.H{
		"sessionId": s.ID,
		"step":      s.Step(),
	})
}

// GetSession returns the full wizard state of a session.
func (h *Handler) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessionId":   s.ID,
		"step":        s.Step(),
		"cocktails":   s.Cocktails(),
		"matches":     s.Matches(),
		"importedIds": s.ImportedIDs(),
	})
}

// DeleteSession discards a session and its staging data.
func (h *Handler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.sessions.Get(id); !ok {
		respondError(c, common.ErrSessionNotFound)
		return
	}
	h.sessions.Remove(id)
	c.JSON(http.StatusOK, gin.H{"sessionId": id})
}

// Upload accepts a PDF menu, extracts its cocktails through the AI service
// and advances the session to name review.
func (h *Handler) Upload(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	data, err := h.readUpload(c)
	if err != nil {
		respondError(c, err)
		return
	}

	raw, err := h.extractor.ExtractDocument(
		c.Request.Context(),
		importerCore.ExtractionPrompt(),
		"application/pdf",
		data,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	staged, err := importerCore.Normalize(raw)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := s.BeginReview(staged); err != nil {
		respondError(c, err)
		return
	}

	common.LogInfo("menu extracted",
		zap.String("session_id", s.ID),
		zap.Int("cocktails", len(staged)),
		zap.Int("document_bytes", len(data)),
	)
	c.JSON(http.StatusOK, gin.H{
		"step":      s.Step(),
		"cocktails": staged,
	})
}

// readUpload pulls the "file" field out of the multipart form and validates
// type and size.
func (h *Handler) readUpload(c *gin.Context) ([]byte, error) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return nil, common.ErrInvalidRequest.WithError(err)
	}
	defer file.Close()

	if header.Size > h.cfg.Upload.MaxSizeBytes {
		return nil, common.ErrFileTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if contentType != "application/pdf" && ext != ".pdf" {
		return nil, common.ErrInvalidFileType
	}

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.Upload.MaxSizeBytes+1))
	if err != nil {
		return nil, common.ErrInvalidRequest.WithError(err)
	}
	if int64(len(data)) > h.cfg.Upload.MaxSizeBytes {
		return nil, common.ErrFileTooLarge
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, common.ErrInvalidFileType
	}
	return data, nil
}

type renameRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameCocktail updates a staged cocktail's name.
func (h *Handler) RenameCocktail(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.ErrInvalidRequest.WithError(err))
		return
	}
	if err := s.RenameCocktail(c.Param("cocktailId"), req.Name); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cocktails": s.Cocktails()})
}

// RemoveCocktail drops a staged cocktail from the import.
func (h *Handler) RemoveCocktail(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.RemoveCocktail(c.Param("cocktailId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cocktails": s.Cocktails()})
}

// ApproveNames advances the session to spec review.
func (h *Handler) ApproveNames(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.ApproveNames(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": s.Step()})
}

type specsRequest struct {
	Glass   *string `json:"glass"`
	Garnish *string `json:"garnish"`
}

// UpdateSpecs edits the glass and garnish of a staged cocktail.
func (h *Handler) UpdateSpecs(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req specsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.ErrInvalidRequest.WithError(err))
		return
	}
	if err := s.UpdateSpecs(c.Param("cocktailId"), req.Glass, req.Garnish); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cocktails": s.Cocktails()})
}

type ingredientRequest struct {
	SubIndex *int    `json:"subIndex"`
	Name     *string `json:"name"`
	Amount   *string `json:"amount"`
	Role     *string `json:"role"`
}

// UpdateIngredient edits one staged ingredient or sub-ingredient.
func (h *Handler) UpdateIngredient(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, common.ErrInvalidRequest.WithError(err))
		return
	}
	var req ingredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.ErrInvalidRequest.WithError(err))
		return
	}
	upd := importerCore.IngredientUpdate{
		Name:   req.Name,
		Amount: req.Amount,
		Role:   req.Role,
	}
	if err := s.UpdateIngredient(c.Param("cocktailId"), index, req.SubIndex, upd); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cocktails": s.Cocktails()})
}

// AddSubIngredient appends an empty component to a batch ingredient.
func (h *Handler) AddSubIngredient(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, common.ErrInvalidRequest.WithError(err))
		return
	}
	if err := s.AddSubIngredient(c.Param("cocktailId"), index); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cocktails": s.Cocktails()})
}

// ApproveSpecs builds product match proposals and advances the session to
// product matching.
func (h *Handler) ApproveSpecs(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.ApproveSpecs(h.store); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"step":    s.Step(),
		"matches": s.Matches(),
	})
}

type matchRequest struct {
	SubIndex  *int    `json:"subIndex"`
	Choice    string  `json:"choice" binding:"required"`
	Producer  *string `json:"producer"`
	DraftName *string `json:"draftName"`
}

// OverrideMatch applies a wizard decision to one match slot.
func (h *Handler) OverrideMatch(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, common.ErrInvalidRequest.WithError(err))
		return
	}
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.ErrInvalidRequest.WithError(err))
		return
	}
	if err := s.OverrideMatch(c.Param("cocktailId"), index, req.SubIndex, req.Choice, req.Producer, req.DraftName); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": s.Matches()})
}

// Confirm materializes the staged cocktails into the catalog and registers
// them for enrichment.
func (h *Handler) Confirm(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	ids, err := s.Confirm(h.materializer)
	if err != nil {
		respondError(c, err)
		return
	}
	h.enricher.Track(ids)

	c.JSON(http.StatusOK, gin.H{
		"step":        s.Step(),
		"importedIds": ids,
		"progress":    h.enricher.Progress(),
	})
}

// EnrichCocktail runs enrichment for one imported cocktail.
func (h *Handler) EnrichCocktail(c *gin.Context) {
	if _, ok := h.session(c); !ok {
		return
	}
	report, err := h.enricher.EnrichCocktail(c.Request.Context(), c.Param("cocktailId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"report":   report,
		"progress": h.enricher.Progress(),
	})
}

// Progress returns the enrichment state of every tracked cocktail.
func (h *Handler) Progress(c *gin.Context) {
	if _, ok := h.session(c); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": h.enricher.Progress()})
}

func (h *Handler) session(c *gin.Context) (*importerCore.Session, bool) {
	s, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		respondError(c, common.ErrSessionNotFound)
		return nil, false
	}
	return s, true
}

func respondError(c *gin.Context, err error) {
	if ce, ok := err.(*common.CustomError); ok {
		resp := common.ErrorResponse{
			Code:    ce.Code,
			Message: ce.Message,
		}
		if ce.Err != nil {
			resp.Details = ce.Err.Error()
		}
		c.JSON(ce.Status, resp)
		return
	}
	c.JSON(http.StatusInternalServerError, common.ErrorResponse{
		Code:    common.ErrCodeInternalError,
		Message: err.Error(),
	})
}
