package catalog

import (
	"strings"
	"sync"

	"cocktail-catalog/internal/pkg/common"

	"go.uber.org/zap"
)

// Store is the in-memory catalog of products and cocktails. All mutation
// goes through UpsertProduct/UpsertCocktail; this subsystem has no deletion
// path. Iteration follows insertion order so lookups that take the first
// match stay deterministic.
type Store struct {
	mu            sync.RWMutex
	products      map[string]*Product
	productOrder  []string
	cocktails     map[string]*Cocktail
	cocktailOrder []string
}

// NewStore creates an empty catalog store.
func NewStore() *Store {
	return &Store{
		products:  make(map[string]*Product),
		cocktails: make(map[string]*Cocktail),
	}
}

// UpsertProduct creates or replaces a product record.
func (s *Store) UpsertProduct(p *Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.ID]; !exists {
		s.productOrder = append(s.productOrder, p.ID)
	}
	cp := *p
	s.products[p.ID] = &cp

	common.LogDebug("product upserted",
		zap.String("product_id", p.ID),
		zap.String("name", p.Name),
	)
}

// UpsertCocktail creates or replaces a cocktail record.
func (s *Store) UpsertCocktail(c *Cocktail) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cocktails[c.ID]; !exists {
		s.cocktailOrder = append(s.cocktailOrder, c.ID)
	}
	cp := *c
	s.cocktails[c.ID] = &cp

	common.LogDebug("cocktail upserted",
		zap.String("cocktail_id", c.ID),
		zap.String("name", c.Name),
	)
}

// Product returns a copy of the product with the given id.
func (s *Store) Product(id string) (*Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

// Cocktail returns a copy of the cocktail with the given id.
func (s *Store) Cocktail(id string) (*Cocktail, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cocktails[id]
	if !ok {
		return nil, false
	}
	cp := *c
	return &cp, true
}

// Products returns all products in insertion order.
func (s *Store) Products() []*Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Product, 0, len(s.productOrder))
	for _, id := range s.productOrder {
		cp := *s.products[id]
		out = append(out, &cp)
	}
	return out
}

// Cocktails returns all cocktails in insertion order.
func (s *Store) Cocktails() []*Cocktail {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Cocktail, 0, len(s.cocktailOrder))
	for _, id := range s.cocktailOrder {
		cp := *s.cocktails[id]
		out = append(out, &cp)
	}
	return out
}

// FindProductByName returns the first product whose name equals name
// case-insensitively, in insertion order.
func (s *Store) FindProductByName(name string) (*Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lower := strings.ToLower(name)
	for _, id := range s.productOrder {
		p := s.products[id]
		if strings.ToLower(p.Name) == lower {
			cp := *p
			return &cp, true
		}
	}
	return nil, false
}

// Counts returns the number of products and cocktails in the catalog.
func (s *Store) Counts() (products, cocktails int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products), len(s.cocktails)
}

// HasCocktail reports whether a cocktail with the given id exists.
func (s *Store) HasCocktail(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.cocktails[id]
	return ok
}

// ToggleLayer flips the enabled flag of one depth layer on a product or
// cocktail. The layer itself is never removed.
func (s *Store) ToggleLayer(entityID, layerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.products[entityID]; ok {
		for i := range p.DepthLayers {
			if p.DepthLayers[i].ID == layerID {
				p.DepthLayers[i].Enabled = !p.DepthLayers[i].Enabled
				return true
			}
		}
		return false
	}
	if c, ok := s.cocktails[entityID]; ok {
		for i := range c.DepthLayers {
			if c.DepthLayers[i].ID == layerID {
				c.DepthLayers[i].Enabled = !c.DepthLayers[i].Enabled
				return true
			}
		}
	}
	return false
}
