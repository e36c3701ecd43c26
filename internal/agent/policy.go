package agent

import (
	"strings"

	"github.com/wheelwords/wheelwords-go/internal/dependencies/random"
	"github.com/wheelwords/wheelwords-go/internal/engine"
	"github.com/wheelwords/wheelwords-go/internal/model"
)

const (
	// letterFrequencyOrder is the fixed English letter-frequency
	// ranking the agent draws candidates from
	letterFrequencyOrder = "ETAOINSHRDLUCMFWYPVBGKJQXZ"

	// topCandidates is how many of the best remaining letters the
	// agent picks among uniformly
	topCandidates = 5

	// solveRevealThreshold is the fraction of distinct letters that
	// must be revealed before the agent considers solving
	solveRevealThreshold = 0.3

	// solveAttemptChance is the per-turn probability of attempting a
	// solve once the threshold is met
	solveAttemptChance = 0.3

	// solveSuccessChance is the probability a solve attempt produces
	// the correct text
	solveSuccessChance = 0.7

	vowels = "AEIOU"
)

// Policy is the heuristic decision function for AI seats. It is
// stateless; all inputs come from the game snapshot and the injected
// random source.
type Policy struct {
	random random.Random
}

// NewPolicy creates a Policy over the given random source
func NewPolicy(rnd random.Random) *Policy {
	return &Policy{random: rnd}
}

// ChooseAction returns the next action for the AI seat holding the
// turn, or nil when the seat must not act (not its turn, final round,
// game not active)
func (p *Policy) ChooseAction(g *model.Game, seatID model.PlayerID) engine.Action {
	if g.Status != model.GameStatusActive || g.CurrentPlayerID != seatID {
		return nil
	}
	seat := g.Players[seatID]
	if seat == nil || seat.IsHuman {
		return nil
	}
	// AI never plays the final round
	if g.FinalRound {
		return nil
	}

	// A pending wheel value demands a letter call
	if g.WheelValue != nil || g.WildCardActive {
		if letter, ok := p.chooseLetter(g, seat); ok {
			return engine.GuessLetter{PlayerID: seatID, Letter: letter}
		}
		// No callable letter left: solving is the only move
		return engine.Solve{PlayerID: seatID, Attempt: p.solveAttempt(g)}
	}

	if p.shouldSolve(g) {
		return engine.Solve{PlayerID: seatID, Attempt: p.solveAttempt(g)}
	}

	return engine.Spin{PlayerID: seatID, Outcome: engine.SpinWheel(p.random)}
}

// chooseLetter filters the frequency order down to letters the seat can
// legally call and picks uniformly among the top few
func (p *Policy) chooseLetter(g *model.Game, seat *model.Player) (rune, bool) {
	needConsonant := g.WheelValue != nil || g.WildCardActive
	canBuyVowel := g.WheelValue != nil && seat.RoundMoney >= engine.VowelCost

	var candidates []rune
	for _, r := range letterFrequencyOrder {
		letter := string(r)
		if g.UsedLetters[letter] {
			continue
		}
		isVowel := strings.Contains(vowels, letter)
		if isVowel && !canBuyVowel {
			continue
		}
		if !isVowel && !needConsonant {
			continue
		}
		candidates = append(candidates, r)
		if len(candidates) == topCandidates {
			break
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[p.random.Intn(len(candidates))], true
}

// shouldSolve decides whether to gamble on a solve this turn
func (p *Policy) shouldSolve(g *model.Game) bool {
	if p.noLettersLeft(g) {
		return true
	}
	if g.Puzzle.RevealedFraction() < solveRevealThreshold {
		return false
	}
	return p.random.Float64() < solveAttemptChance
}

// solveAttempt produces the puzzle text with fixed probability, or a
// deliberately wrong attempt otherwise
func (p *Policy) solveAttempt(g *model.Game) string {
	if p.random.Float64() < solveSuccessChance {
		return g.Puzzle.Text
	}
	return mangle(g.Puzzle.Text)
}

// noLettersLeft reports whether every A-Z letter has been called
func (p *Policy) noLettersLeft(g *model.Game) bool {
	for _, r := range letterFrequencyOrder {
		if !g.UsedLetters[string(r)] {
			return false
		}
	}
	return true
}

// mangle returns a string guaranteed not to match the text
func mangle(text string) string {
	if strings.HasPrefix(text, "X") {
		return "Z" + text[1:]
	}
	return "X" + text[1:]
}
