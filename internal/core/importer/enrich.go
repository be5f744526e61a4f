package importer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"cocktail-catalog/internal/core/catalog"
	"cocktail-catalog/internal/pkg/common"

	"go.uber.org/zap"
)

// EnrichmentState tracks one cocktail through the enrichment pipeline.
type EnrichmentState string

const (
	StatePending    EnrichmentState = "pending"
	StateProcessing EnrichmentState = "processing"
	StateDone       EnrichmentState = "done"
)

// Generator produces structured JSON content from a prompt.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// EnrichmentReport is the outcome of one cocktail enrichment, including
// per-product failures from the cascade. A product failure never reverts
// the committed cocktail content.
type EnrichmentReport struct {
	CocktailID       string            `json:"cocktailId"`
	EnrichedProducts []string          `json:"enrichedProducts,omitempty"`
	ProductFailures  map[string]string `json:"productFailures,omitempty"`
}

// Enricher drives AI enrichment of materialized cocktails and their
// products. Cocktails run strictly one at a time; the state map enforces
// the pending -> processing -> done transitions.
type Enricher struct {
	store *catalog.Store
	ai    Generator

	mu       sync.Mutex
	progress map[string]EnrichmentState
}

// NewEnricher creates an enricher over the store and generator.
func NewEnricher(store *catalog.Store, ai Generator) *Enricher {
	return &Enricher{
		store:    store,
		ai:       ai,
		progress: make(map[string]EnrichmentState),
	}
}

// Track registers freshly materialized cocktails as pending.
func (e *Enricher) Track(ids []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, id := range ids {
		e.progress[id] = StatePending
	}
}

// Progress returns a snapshot of every tracked cocktail's state.
func (e *Enricher) Progress() map[string]EnrichmentState {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]EnrichmentState, len(e.progress))
	for id, st := range e.progress {
		out[id] = st
	}
	return out
}

// State returns the tracked state of one cocktail.
func (e *Enricher) State(id string) (EnrichmentState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.progress[id]
	return st, ok
}

// begin moves a cocktail from pending to processing. An untracked cocktail
// is treated as pending so catalog entries can be re-enriched manually.
func (e *Enricher) begin(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.progress[id] {
	case StateProcessing:
		return common.ErrConflict.WithError(fmt.Errorf("cocktail %s is already being enriched", id))
	case StateDone:
		return common.ErrConflict.WithError(fmt.Errorf("cocktail %s is already enriched", id))
	}
	e.progress[id] = StateProcessing
	return nil
}

func (e *Enricher) setState(id string, st EnrichmentState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.progress[id] = st
}

// aiCocktailContent is the enrichment payload expected for a cocktail.
type aiCocktailContent struct {
	Contract    catalog.ContentContract `json:"contract"`
	DepthLayers map[string]string       `json:"depthLayers"`
}

// aiProductContent is the enrichment payload expected for a product.
type aiProductContent struct {
	Contract catalog.ContentContract         `json:"contract"`
	Layers   map[string]catalog.LayerContent `json:"layers"`
}

// EnrichCocktail generates and commits narrative content for one cocktail,
// then cascades into its unenriched products. The catalog is only touched
// after the full response parses: a failed call leaves the cocktail
// unchanged and back in pending.
func (e *Enricher) EnrichCocktail(ctx context.Context, id string) (*EnrichmentReport, error) {
	if err := e.begin(id); err != nil {
		return nil, err
	}

	cocktail, ok := e.store.Cocktail(id)
	if !ok {
		e.setState(id, StatePending)
		return nil, common.ErrNotFound.WithError(fmt.Errorf("cocktail %s not found", id))
	}

	prompt := CocktailPrompt(cocktail.Name, flattenSpecs(cocktail.Specs))
	content, err := e.generate(ctx, prompt)
	if err != nil {
		e.setState(id, StatePending)
		return nil, err
	}

	var gen aiCocktailContent
	if err := common.ParseJSON(common.ExtractJSONObject(content), &gen); err != nil {
		e.setState(id, StatePending)
		return nil, common.ErrAIServiceError.WithError(fmt.Errorf("parse cocktail enrichment: %w", err))
	}

	cocktail.Contract = mergeContract(cocktail.Contract, gen.Contract)
	cocktail.DepthLayers = cocktailLayers(gen.DepthLayers)
	e.store.UpsertCocktail(cocktail)
	e.setState(id, StateDone)

	common.LogInfo("cocktail enriched",
		zap.String("cocktail_id", id),
		zap.Int("layers", len(cocktail.DepthLayers)),
	)

	report := &EnrichmentReport{
		CocktailID:      id,
		ProductFailures: make(map[string]string),
	}
	for _, pid := range cocktail.ProductIDs {
		p, found := e.store.Product(pid)
		if !found || p.Contract.Anchor != "" || p.Role == "Batch" {
			continue
		}
		if err := e.EnrichProduct(ctx, pid); err != nil {
			common.LogWarn("product enrichment failed",
				zap.String("product_id", pid),
				zap.Error(err),
			)
			report.ProductFailures[pid] = err.Error()
			continue
		}
		report.EnrichedProducts = append(report.EnrichedProducts, pid)
	}
	if len(report.ProductFailures) == 0 {
		report.ProductFailures = nil
	}
	return report, nil
}

// EnrichProduct generates and commits narrative content for one product.
func (e *Enricher) EnrichProduct(ctx context.Context, id string) error {
	p, ok := e.store.Product(id)
	if !ok {
		return common.ErrNotFound.WithError(fmt.Errorf("product %s not found", id))
	}

	content, err := e.generate(ctx, ProductPrompt(p.Name, p.Role))
	if err != nil {
		return err
	}

	var gen aiProductContent
	if err := common.ParseJSON(common.ExtractJSONObject(content), &gen); err != nil {
		return common.ErrAIServiceError.WithError(fmt.Errorf("parse product enrichment: %w", err))
	}

	p.Contract = mergeContract(p.Contract, gen.Contract)
	p.DepthLayers = productLayers(gen.Layers)
	e.store.UpsertProduct(p)

	common.LogInfo("product enriched",
		zap.String("product_id", id),
		zap.Int("layers", len(p.DepthLayers)),
	)
	return nil
}

// generate calls the model and treats an empty response as a hard failure.
func (e *Enricher) generate(ctx context.Context, prompt string) (string, error) {
	content, err := e.ai.GenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", common.ErrAIServiceError.WithError(fmt.Errorf("model returned empty content"))
	}
	return content, nil
}

// mergeContract overlays generated contract fields onto the existing ones,
// keeping existing values where the model left a field empty.
func mergeContract(base, gen catalog.ContentContract) catalog.ContentContract {
	overlay := func(dst *string, src string) {
		if strings.TrimSpace(src) != "" {
			*dst = src
		}
	}
	overlay(&base.Anchor, gen.Anchor)
	overlay(&base.Say, gen.Say)
	overlay(&base.Why, gen.Why)
	overlay(&base.Proof, gen.Proof)
	overlay(&base.IfTheyAsk, gen.IfTheyAsk)
	overlay(&base.IfTheyLike, gen.IfTheyLike)
	overlay(&base.WhyExists, gen.WhyExists)
	overlay(&base.MenuRole, gen.MenuRole)
	return base
}

// essentialLayers are the layer keys surfaced at the essential depth tier.
var essentialLayers = map[string]bool{
	"flavor":       true,
	"flavor_aroma": true,
	"botanicals":   true,
}

// cocktailLayers converts generated cocktail layer text into depth layers.
// Cocktail layers are always useful; the essential tier applies only to
// product layers. Keys are sorted so rebuilt layer lists stay stable.
func cocktailLayers(layers map[string]string) []catalog.DepthLayer {
	out := make([]catalog.DepthLayer, 0, len(layers))
	for _, key := range sortedKeys(layers) {
		text := layers[key]
		if strings.TrimSpace(text) == "" {
			continue
		}
		out = append(out, catalog.DepthLayer{
			ID:      "l_" + key,
			Title:   layerTitle(key),
			Content: catalog.LayerContent{Text: text},
			Depth:   catalog.DepthUseful,
			Enabled: true,
		})
	}
	return out
}

// productLayers converts generated product layer content into depth layers.
func productLayers(layers map[string]catalog.LayerContent) []catalog.DepthLayer {
	keys := make([]string, 0, len(layers))
	for k := range layers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]catalog.DepthLayer, 0, len(layers))
	for _, key := range keys {
		content := layers[key]
		if strings.TrimSpace(content.Text) == "" && len(content.Items) == 0 {
			continue
		}
		out = append(out, catalog.DepthLayer{
			ID:      "l_" + key,
			Title:   layerTitle(key),
			Content: content,
			Depth:   layerDepth(key),
			Enabled: true,
		})
	}
	return out
}

func layerDepth(key string) catalog.DepthLevel {
	if essentialLayers[key] {
		return catalog.DepthEssential
	}
	return catalog.DepthUseful
}

// layerTitle turns a snake_case layer key into a display title.
func layerTitle(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// flattenSpecs renders a cocktail's ingredient list as "amount name" pairs
// for the prompt.
func flattenSpecs(specs catalog.CocktailSpecs) string {
	parts := make([]string, 0, len(specs.Ingredients))
	for _, ing := range specs.Ingredients {
		parts = append(parts, strings.TrimSpace(ing.Amount+" "+ing.Name))
	}
	return strings.Join(parts, ", ")
}
