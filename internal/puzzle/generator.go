package puzzle

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/wheelwords/wheelwords-go/internal/dependencies/random"
	"github.com/wheelwords/wheelwords-go/internal/model"
)

// ErrEmptyCatalog is returned when the catalog has no puzzles at all,
// or none for the requested category
var ErrEmptyCatalog = errors.New("puzzle catalog is empty")

// Generator selects non-repeating puzzles from an injected catalog.
// When every puzzle in scope has been used, the used set resets and
// selection starts over.
type Generator struct {
	mu      sync.Mutex
	catalog Catalog
	random  random.Random
	used    map[string]bool
}

// NewGenerator creates a Generator over the given catalog
func NewGenerator(catalog Catalog, rnd random.Random) *Generator {
	return &Generator{
		catalog: catalog,
		random:  rnd,
		used:    make(map[string]bool),
	}
}

// Next returns a puzzle not yet handed out. An empty category draws
// from the whole catalog. The returned puzzle is marked used.
func (g *Generator) Next(category string) (*model.Puzzle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	candidates := g.unusedLocked(category)
	if len(candidates) == 0 {
		// Exhausted: reset and retry once
		g.used = make(map[string]bool)
		candidates = g.unusedLocked(category)
		if len(candidates) == 0 {
			return nil, ErrEmptyCatalog
		}
	}

	pick := candidates[g.random.Intn(len(candidates))]
	g.used[normalizeText(pick.puzzle.Text)] = true
	return model.NewPuzzle(pick.puzzle.Text, pick.category, pick.puzzle.Format), nil
}

// MarkUsed records a puzzle text as handed out, e.g. when another
// client already drew it into the shared record
func (g *Generator) MarkUsed(text string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.used[normalizeText(text)] = true
}

// Reset clears the used set
func (g *Generator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.used = make(map[string]bool)
}

type candidate struct {
	category string
	puzzle   Entry
}

func (g *Generator) unusedLocked(category string) []candidate {
	var out []candidate
	for cat, entries := range g.catalog {
		if category != "" && cat != category {
			continue
		}
		for _, e := range entries {
			if !g.used[normalizeText(e.Text)] {
				out = append(out, candidate{category: cat, puzzle: e})
			}
		}
	}
	// Stable order so selection indexes are reproducible under a
	// seeded random source
	sort.Slice(out, func(i, j int) bool {
		if out[i].category != out[j].category {
			return out[i].category < out[j].category
		}
		return out[i].puzzle.Text < out[j].puzzle.Text
	})
	return out
}

func normalizeText(text string) string {
	return strings.ToUpper(strings.TrimSpace(text))
}
