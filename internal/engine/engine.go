package engine

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/wheelwords/wheelwords-go/internal/model"
)

const (
	// VowelCost is the price of buying a vowel outside the final round
	VowelCost = 250

	// SpecialLetterValue is the per-occurrence award for consonants
	// called against a special wedge (prize, wild card, gift tag,
	// million wedge)
	SpecialLetterValue = 500

	// GiftTagPrizeValue is the cash prize attached to the gift tag
	GiftTagPrizeValue = 1000

	// FinalRoundConsonants and FinalRoundVowels are the final-round
	// letter budgets
	FinalRoundConsonants = 3
	FinalRoundVowels     = 1
)

// FinalRoundFreebies are auto-revealed at the start of the final round
const FinalRoundFreebies = "RSTLNE"

const vowels = "AEIOU"

// Result is the outcome of applying one action. Game is a deep copy of
// the input snapshot with the transition applied; the input is never
// mutated. RoundOver asks the caller to advance to the next round;
// GameOver means the record reached finished. Banked carries the money
// a correct solver just moved to their total, for the final-round gate.
type Result struct {
	Game      *model.Game
	Entry     *model.HistoryEntry
	RoundOver bool
	GameOver  bool
	Banked    int
}

// Apply resolves a single action against a game snapshot.
// It returns model.ErrWrongTurn when the acting seat no longer holds
// the turn and model.ErrInvalidAction (wrapped with a reason) for
// rejected moves; in both cases the snapshot is unchanged.
func Apply(g *model.Game, action Action, now time.Time) (Result, error) {
	if g.Status != model.GameStatusActive {
		return Result{}, fmt.Errorf("%w: game is not active", model.ErrInvalidAction)
	}
	if g.Puzzle == nil {
		return Result{}, model.ErrNoPuzzle
	}

	switch a := action.(type) {
	case Spin:
		return applySpin(g, a, now)
	case GuessLetter:
		return applyGuess(g, a, now)
	case Solve:
		return applySolve(g, a, now)
	case UseWildCard:
		return applyWildCard(g, a, now)
	case EndTurn:
		return applyEndTurn(g, a, now)
	default:
		return Result{}, fmt.Errorf("%w: unknown action %T", model.ErrInvalidAction, action)
	}
}

func applySpin(g *model.Game, a Spin, now time.Time) (Result, error) {
	if a.PlayerID != g.CurrentPlayerID {
		return Result{}, model.ErrWrongTurn
	}
	if g.FinalRound {
		return Result{}, fmt.Errorf("%w: no spinning in the final round", model.ErrInvalidAction)
	}

	next := g.Clone()
	p := next.CurrentPlayer()
	outcome := a.Outcome
	next.IsSpinning = false
	next.LastSpinResult = outcome.Label()
	next.Lease = nil

	switch outcome.Kind {
	case model.WheelBankrupt:
		p.RoundMoney = 0
		p.RoundPrizes = nil
		next.WheelValue = nil
		next.WildCardActive = false
		next.Message = fmt.Sprintf("%s went bankrupt", p.DisplayName)
		rotate(next)
	case model.WheelLoseTurn:
		next.WheelValue = nil
		next.WildCardActive = false
		next.Message = fmt.Sprintf("%s lost a turn", p.DisplayName)
		rotate(next)
	default:
		next.WheelValue = &outcome
		next.TurnInProgress = true
		next.Message = fmt.Sprintf("%s spun %s, call a consonant", p.DisplayName, outcome.Label())
	}

	finish(next, now)
	return Result{Game: next}, nil
}

func applyGuess(g *model.Game, a GuessLetter, now time.Time) (Result, error) {
	if a.PlayerID != g.CurrentPlayerID {
		return Result{}, model.ErrWrongTurn
	}

	letter := string(unicode.ToUpper(a.Letter))
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
		return Result{}, fmt.Errorf("%w: %q is not a letter", model.ErrInvalidAction, string(a.Letter))
	}
	if g.UsedLetters[letter] {
		return Result{}, fmt.Errorf("%w: letter %s already used", model.ErrInvalidAction, letter)
	}

	isVowel := strings.Contains(vowels, letter)
	p := g.CurrentPlayer()

	if g.FinalRound {
		if isVowel && g.VowelsRemaining <= 0 {
			return Result{}, fmt.Errorf("%w: no vowels remaining", model.ErrInvalidAction)
		}
		if !isVowel && g.ConsonantsRemaining <= 0 {
			return Result{}, fmt.Errorf("%w: no consonants remaining", model.ErrInvalidAction)
		}
	} else {
		if isVowel && p.RoundMoney < VowelCost {
			return Result{}, fmt.Errorf("%w: insufficient funds to buy a vowel", model.ErrInvalidAction)
		}
		if !isVowel && g.WheelValue == nil && !g.WildCardActive {
			return Result{}, fmt.Errorf("%w: spin before calling a consonant", model.ErrInvalidAction)
		}
	}

	next := g.Clone()
	p = next.CurrentPlayer()
	next.Lease = nil
	next.UsedLetters[letter] = true

	if g.FinalRound {
		if isVowel {
			next.VowelsRemaining--
		} else {
			next.ConsonantsRemaining--
		}
	} else if isVowel {
		p.RoundMoney -= VowelCost
	}

	entry := model.HistoryEntry{
		Kind:       model.HistoryLetter,
		PlayerID:   p.ID,
		PlayerName: p.DisplayName,
		Value:      letter,
		Timestamp:  now,
	}

	occurrences := next.Puzzle.CountLetter(letter)
	if occurrences == 0 {
		entry.Result = model.ResultIncorrect
		next.History = append(next.History, entry)
		next.WheelValue = nil
		next.WildCardActive = false
		next.Message = fmt.Sprintf("no %s in the puzzle", letter)
		rotate(next)
		finish(next, now)
		return Result{Game: next, Entry: &entry}, nil
	}

	next.Puzzle.Revealed[letter] = true
	if !isVowel {
		awardConsonant(next, p, occurrences)
		next.WheelValue = nil
		next.WildCardActive = false
	}

	entry.Result = model.ResultCorrect
	next.History = append(next.History, entry)
	next.Message = fmt.Sprintf("%d %s in the puzzle", occurrences, letter)
	finish(next, now)
	return Result{Game: next, Entry: &entry}, nil
}

// awardConsonant pays out a matched consonant against the pending wheel
// outcome, appending the matching special item on first award
func awardConsonant(g *model.Game, p *model.Player, occurrences int) {
	if g.FinalRound {
		return
	}

	wv := g.WheelValue
	if wv == nil {
		// Wild Card consonant: fixed per-occurrence value
		p.RoundMoney += occurrences * SpecialLetterValue
		return
	}

	switch wv.Kind {
	case model.WheelMoney:
		p.RoundMoney += occurrences * wv.Amount
	case model.WheelPrize:
		p.RoundMoney += occurrences * SpecialLetterValue
		grantPrize(p, model.Prize{Name: wv.PrizeName, Value: wv.PrizeValue})
	case model.WheelWildCard:
		p.RoundMoney += occurrences * SpecialLetterValue
		p.GrantCard(model.CardWildCard)
	case model.WheelGiftTag:
		p.RoundMoney += occurrences * SpecialLetterValue
		grantPrize(p, model.Prize{Name: "Gift Tag", Value: GiftTagPrizeValue})
	case model.WheelMillionWedge:
		p.RoundMoney += occurrences * SpecialLetterValue
		p.GrantCard(model.CardMillionWedge)
	}
}

// grantPrize appends the prize unless the player already won it
func grantPrize(p *model.Player, prize model.Prize) {
	for _, held := range p.RoundPrizes {
		if held.Name == prize.Name {
			return
		}
	}
	for _, held := range p.Prizes {
		if held.Name == prize.Name {
			return
		}
	}
	p.RoundPrizes = append(p.RoundPrizes, prize)
}

func applySolve(g *model.Game, a Solve, now time.Time) (Result, error) {
	if a.PlayerID != g.CurrentPlayerID {
		return Result{}, model.ErrWrongTurn
	}

	next := g.Clone()
	p := next.CurrentPlayer()
	next.Lease = nil
	next.WheelValue = nil
	next.WildCardActive = false

	entry := model.HistoryEntry{
		Kind:       model.HistorySolve,
		PlayerID:   p.ID,
		PlayerName: p.DisplayName,
		Value:      strings.TrimSpace(a.Attempt),
		Timestamp:  now,
	}

	if NormalizeAttempt(a.Attempt) != NormalizeAttempt(next.Puzzle.Text) {
		entry.Result = model.ResultIncorrect
		next.History = append(next.History, entry)
		next.Message = fmt.Sprintf("%s guessed wrong", p.DisplayName)
		rotate(next)
		finish(next, now)
		return Result{Game: next, Entry: &entry}, nil
	}

	banked := p.RoundMoney
	p.TotalMoney += banked
	p.RoundMoney = 0
	p.Prizes = append(p.Prizes, p.RoundPrizes...)
	p.RoundPrizes = nil
	next.Puzzle.RevealAll()
	next.TurnInProgress = false

	entry.Result = model.ResultCorrect
	next.History = append(next.History, entry)
	next.Message = fmt.Sprintf("%s solved the puzzle", p.DisplayName)

	result := Result{Game: next, Entry: &entry, Banked: banked}
	if next.RotationMode == model.RotationShared || next.FinalRound {
		next.Status = model.GameStatusFinished
		result.GameOver = true
	} else {
		result.RoundOver = true
	}

	finish(next, now)
	return result, nil
}

func applyWildCard(g *model.Game, a UseWildCard, now time.Time) (Result, error) {
	if a.PlayerID != g.CurrentPlayerID {
		return Result{}, model.ErrWrongTurn
	}
	if g.FinalRound {
		return Result{}, fmt.Errorf("%w: wild card cannot be played in the final round", model.ErrInvalidAction)
	}
	if g.WildCardActive {
		return Result{}, fmt.Errorf("%w: wild card already active", model.ErrInvalidAction)
	}
	if !g.CurrentPlayer().HasCard(model.CardWildCard) {
		return Result{}, fmt.Errorf("%w: no wild card held", model.ErrInvalidAction)
	}

	next := g.Clone()
	p := next.CurrentPlayer()
	p.RemoveCard(model.CardWildCard)
	next.WildCardActive = true
	next.Message = fmt.Sprintf("%s played a wild card", p.DisplayName)
	finish(next, now)
	return Result{Game: next}, nil
}

func applyEndTurn(g *model.Game, a EndTurn, now time.Time) (Result, error) {
	if _, ok := g.Players[a.Next]; !ok {
		return Result{}, fmt.Errorf("%w: %s", model.ErrPlayerNotFound, a.Next)
	}

	next := g.Clone()
	next.CurrentPlayerID = a.Next
	next.WheelValue = nil
	next.WildCardActive = false
	next.IsSpinning = false
	next.TurnInProgress = false
	next.Lease = nil
	next.Message = fmt.Sprintf("turn passed to %s", next.Players[a.Next].DisplayName)
	finish(next, now)
	return Result{Game: next}, nil
}

// BeginRound advances the game into its next round with a fresh puzzle.
// Round money and the used-letter set reset; prizes and special cards
// carry forward. Round four and beyond runs under final-round rules.
func BeginRound(g *model.Game, p *model.Puzzle, now time.Time) *model.Game {
	next := g.Clone()
	next.Round++
	next.Puzzle = p
	next.UsedLetters = make(map[string]bool)
	next.WheelValue = nil
	next.WildCardActive = false
	next.IsSpinning = false
	next.TurnInProgress = false
	next.LastSpinResult = ""
	next.Lease = nil
	next.FinalRound = next.Round >= model.FinalRoundNumber

	for _, seat := range next.Players {
		seat.RoundMoney = 0
		seat.RoundPrizes = nil
	}

	if next.FinalRound {
		next.ConsonantsRemaining = FinalRoundConsonants
		next.VowelsRemaining = FinalRoundVowels
		for _, r := range FinalRoundFreebies {
			letter := string(r)
			next.UsedLetters[letter] = true
			if next.Puzzle.ContainsLetter(letter) {
				next.Puzzle.Revealed[letter] = true
			}
		}
	} else {
		next.ConsonantsRemaining = 0
		next.VowelsRemaining = 0
	}

	ensureEligibleCurrent(next)
	next.Message = fmt.Sprintf("round %d", next.Round)
	finish(next, now)
	return next
}

// ResetGame restarts the whole game at round one: scores, prizes and
// special cards clear on every seat and the history log starts over
func ResetGame(g *model.Game, p *model.Puzzle, now time.Time) *model.Game {
	next := g.Clone()
	next.Round = 0
	next.History = nil
	next.FinalRound = false
	for _, seat := range next.Players {
		seat.RoundMoney = 0
		seat.TotalMoney = 0
		seat.RoundPrizes = nil
		seat.Prizes = nil
		seat.SpecialCards = nil
	}
	next = BeginRound(next, p, now)
	next.Message = "new game"
	return next
}

// NormalizeAttempt uppercases and collapses whitespace so solve
// attempts compare on content only
func NormalizeAttempt(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}

// rotate hands the turn to the next eligible seat per the rotation mode
func rotate(g *model.Game) {
	g.CurrentPlayerID = g.NextEligible(g.CurrentPlayerID)
	g.TurnInProgress = false
	g.Lease = nil
}

// ensureEligibleCurrent repairs CurrentPlayerID when the holder is not
// eligible under the current mode (e.g. an AI seat entering the
// human-only final round)
func ensureEligibleCurrent(g *model.Game) {
	for _, id := range g.EligibleSeats() {
		if id == g.CurrentPlayerID {
			return
		}
	}
	if eligible := g.EligibleSeats(); len(eligible) > 0 {
		g.CurrentPlayerID = eligible[0]
	}
}

func finish(g *model.Game, now time.Time) {
	g.LastUpdated = now
}
