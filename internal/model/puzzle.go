package model

import "strings"

// PuzzleFormat tags the special display formats a puzzle can carry
type PuzzleFormat string

const (
	FormatPlain       PuzzleFormat = "plain"
	FormatBeforeAfter PuzzleFormat = "before_after"
	FormatRhyme       PuzzleFormat = "rhyme"
	FormatSameLetter  PuzzleFormat = "same_letter"
	FormatThenNow     PuzzleFormat = "then_now"
	FormatQuestion    PuzzleFormat = "question"
)

// Puzzle is the phrase being guessed. Text is always uppercase; Revealed
// holds the single-letter strings currently shown to players.
type Puzzle struct {
	Text          string
	Category      string
	Revealed      map[string]bool
	SpecialFormat PuzzleFormat
}

// NewPuzzle builds a puzzle with normalized uppercase text and an empty
// revealed set
func NewPuzzle(text, category string, format PuzzleFormat) *Puzzle {
	if format == "" {
		format = FormatPlain
	}
	return &Puzzle{
		Text:          strings.ToUpper(strings.TrimSpace(text)),
		Category:      category,
		Revealed:      make(map[string]bool),
		SpecialFormat: format,
	}
}

// ContainsLetter reports whether the uppercase letter occurs in the text
func (p *Puzzle) ContainsLetter(letter string) bool {
	return strings.Contains(p.Text, letter)
}

// CountLetter returns the number of occurrences of the uppercase letter
func (p *Puzzle) CountLetter(letter string) int {
	return strings.Count(p.Text, letter)
}

// DistinctLetters returns the set of distinct A-Z letters in the text
func (p *Puzzle) DistinctLetters() map[string]bool {
	letters := make(map[string]bool)
	for _, r := range p.Text {
		if r >= 'A' && r <= 'Z' {
			letters[string(r)] = true
		}
	}
	return letters
}

// RevealedFraction returns the fraction of distinct letters revealed
func (p *Puzzle) RevealedFraction() float64 {
	letters := p.DistinctLetters()
	if len(letters) == 0 {
		return 0
	}
	revealed := 0
	for l := range letters {
		if p.Revealed[l] {
			revealed++
		}
	}
	return float64(revealed) / float64(len(letters))
}

// IsFullyRevealed reports whether every letter in the text is revealed
func (p *Puzzle) IsFullyRevealed() bool {
	for l := range p.DistinctLetters() {
		if !p.Revealed[l] {
			return false
		}
	}
	return true
}

// RevealAll marks every letter in the text as revealed
func (p *Puzzle) RevealAll() {
	for l := range p.DistinctLetters() {
		p.Revealed[l] = true
	}
}

func (p *Puzzle) clone() *Puzzle {
	cp := *p
	cp.Revealed = make(map[string]bool, len(p.Revealed))
	for k, v := range p.Revealed {
		cp.Revealed[k] = v
	}
	return &cp
}
