package importer

import (
	"fmt"
	"sync"
	"time"

	"cocktail-catalog/internal/core/catalog"
	"cocktail-catalog/internal/pkg/common"

	"go.uber.org/zap"
)

// Step is the wizard stage an import session is in. Steps only move
// forward; edits are valid in the step that owns them.
type Step string

const (
	StepUpload        Step = "upload"
	StepReviewNames   Step = "review_names"
	StepReviewSpecs   Step = "review_specs"
	StepMatchProducts Step = "match_products"
	StepEnhance       Step = "enhance_cocktails"
)

// IngredientUpdate carries partial edits to a staged ingredient. Nil fields
// are left untouched.
type IngredientUpdate struct {
	Name   *string `json:"name"`
	Amount *string `json:"amount"`
	Role   *string `json:"role"`
}

// Session is one import run from upload to enhancement. All access is
// serialized through the session mutex.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu          sync.Mutex
	step        Step
	cocktails   []StagingCocktail
	matches     map[string][]*ProductMatch
	importedIDs []string
}

// Manager tracks live import sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create opens a fresh session at the upload step.
func (m *Manager) Create() *Session {
	s := &Session{
		ID:        common.GenerateUUID(),
		CreatedAt: time.Now(),
		step:      StepUpload,
		matches:   make(map[string][]*ProductMatch),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	common.LogInfo("import session created", zap.String("session_id", s.ID))
	return s
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove discards a session and its staging data.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Step returns the current wizard step.
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Cocktails returns a copy of the staged cocktails.
func (s *Session) Cocktails() []StagingCocktail {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StagingCocktail, len(s.cocktails))
	copy(out, s.cocktails)
	return out
}

// Matches returns the current match proposals per staged cocktail id.
func (s *Session) Matches() map[string][]*ProductMatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]*ProductMatch, len(s.matches))
	for id, ms := range s.matches {
		out[id] = ms
	}
	return out
}

// ImportedIDs returns the cocktail ids created by Confirm.
func (s *Session) ImportedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.importedIDs))
	copy(out, s.importedIDs)
	return out
}

func (s *Session) requireStep(step Step) error {
	if s.step != step {
		return common.ErrInvalidStep.WithError(
			fmt.Errorf("session is at step %s, expected %s", s.step, step))
	}
	return nil
}

// BeginReview stores the normalized extraction result and advances the
// session to name review.
func (s *Session) BeginReview(cocktails []StagingCocktail) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStep(StepUpload); err != nil {
		return err
	}
	s.cocktails = cocktails
	s.step = StepReviewNames
	return nil
}

// RenameCocktail updates a staged cocktail's name, title-cased.
func (s *Session) RenameCocktail(cocktailID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStep(StepReviewNames); err != nil {
		return err
	}
	c := s.findCocktail(cocktailID)
	if c == nil {
		return common.ErrNotFound.WithError(fmt.Errorf("staged cocktail %s not found", cocktailID))
	}
	c.Name = common.TitleCase(name)
	return nil
}

// RemoveCocktail drops a staged cocktail from the import.
func (s *Session) RemoveCocktail(cocktailID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStep(StepReviewNames); err != nil {
		return err
	}
	for i, c := range s.cocktails {
		if c.ID == cocktailID {
			s.cocktails = append(s.cocktails[:i], s.cocktails[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound.WithError(fmt.Errorf("staged cocktail %s not found", cocktailID))
}

// ApproveNames advances the session to spec review.
func (s *Session) ApproveNames() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStep(StepReviewNames); err != nil {
		return err
	}
	s.step = StepReviewSpecs
	return nil
}

// UpdateSpecs edits the glass and garnish of a staged cocktail. Nil fields
// are left untouched.
func (s *Session) UpdateSpecs(cocktailID string, glass, garnish *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStep(StepReviewSpecs); err != nil {
		return err
	}
	c := s.findCocktail(cocktailID)
	if c == nil {
		return common.ErrNotFound.WithError(fmt.Errorf("staged cocktail %s not found", cocktailID))
	}
	if glass != nil {
		c.Specs.Glass = *glass
	}
	if garnish != nil {
		c.Specs.Garnish = *garnish
	}
	return nil
}

// UpdateIngredient edits one staged ingredient, or one of its
// sub-ingredients when subIndex is given.
func (s *Session) UpdateIngredient(cocktailID string, index int, subIndex *int, upd IngredientUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStep(StepReviewSpecs); err != nil {
		return err
	}
	c := s.findCocktail(cocktailID)
	if c == nil {
		return common.ErrNotFound.WithError(fmt.Errorf("staged cocktail %s not found", cocktailID))
	}
	if index < 0 || index >= len(c.Specs.Ingredients) {
		return common.ErrInvalidRequest.WithError(fmt.Errorf("ingredient index %d out of range", index))
	}

	ing := &c.Specs.Ingredients[index]
	if subIndex != nil {
		if *subIndex < 0 || *subIndex >= len(ing.SubIngredients) {
			return common.ErrInvalidRequest.WithError(fmt.Errorf("sub-ingredient index %d out of range", *subIndex))
		}
		ing = &ing.SubIngredients[*subIndex]
	}

	if upd.Name != nil {
		ing.Name = common.TitleCase(*upd.Name)
	}
	if upd.Amount != nil {
		ing.Amount = *upd.Amount
	}
	if upd.Role != nil {
		ing.RoleGuess = *upd.Role
	}
	return nil
}

// AddSubIngredient appends an empty component to a batch ingredient.
func (s *Session) AddSubIngredient(cocktailID string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStep(StepReviewSpecs); err != nil {
		return err
	}
	c := s.findCocktail(cocktailID)
	if c == nil {
		return common.ErrNotFound.WithError(fmt.Errorf("staged cocktail %s not found", cocktailID))
	}
	if index < 0 || index >= len(c.Specs.Ingredients) {
		return common.ErrInvalidRequest.WithError(fmt.Errorf("ingredient index %d out of range", index))
	}

	ing := &c.Specs.Ingredients[index]
	ing.SubIngredients = append(ing.SubIngredients, StagingIngredient{RoleGuess: "Modifier"})
	ing.RoleGuess = "Batch"
	return nil
}

// ApproveSpecs builds match proposals against the catalog and advances the
// session to product matching.
func (s *Session) ApproveSpecs(store *catalog.Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStep(StepReviewSpecs); err != nil {
		return err
	}
	s.matches = make(map[string][]*ProductMatch, len(s.cocktails))
	for _, c := range s.cocktails {
		s.matches[c.ID] = BuildProposals(c, store)
	}
	s.step = StepMatchProducts
	return nil
}

// OverrideMatch applies a wizard decision to one match slot, or to one of
// its batch components when subIndex is given.
func (s *Session) OverrideMatch(cocktailID string, index int, subIndex *int, choice string, producer, draftName *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStep(StepMatchProducts); err != nil {
		return err
	}
	matches, ok := s.matches[cocktailID]
	if !ok {
		return common.ErrNotFound.WithError(fmt.Errorf("staged cocktail %s not found", cocktailID))
	}
	if index < 0 || index >= len(matches) {
		return common.ErrInvalidRequest.WithError(fmt.Errorf("match index %d out of range", index))
	}

	m := matches[index]
	if subIndex != nil {
		if *subIndex < 0 || *subIndex >= len(m.SubMatches) {
			return common.ErrInvalidRequest.WithError(fmt.Errorf("sub-match index %d out of range", *subIndex))
		}
		m = m.SubMatches[*subIndex]
	}

	m.SetChoice(choice)
	if producer != nil {
		m.DraftProducer = *producer
	}
	if draftName != nil {
		m.DraftName = *draftName
	}
	return nil
}

// Confirm materializes the staged cocktails into the catalog. Staging data
// is discarded once the commit succeeds; the session keeps only the created
// ids for the enhancement step.
func (s *Session) Confirm(mat *Materializer) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireStep(StepMatchProducts); err != nil {
		return nil, err
	}

	ids := mat.Materialize(s.cocktails, s.matches)
	s.importedIDs = ids
	s.cocktails = nil
	s.matches = make(map[string][]*ProductMatch)
	s.step = StepEnhance

	common.LogInfo("import session confirmed",
		zap.String("session_id", s.ID),
		zap.Int("cocktails", len(ids)),
	)
	return ids, nil
}

// findCocktail returns a pointer into the staging slice. Caller holds the
// session mutex.
func (s *Session) findCocktail(id string) *StagingCocktail {
	for i := range s.cocktails {
		if s.cocktails[i].ID == id {
			return &s.cocktails[i]
		}
	}
	return nil
}
