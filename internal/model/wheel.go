package model

import "fmt"

// WheelOutcomeKind discriminates the tagged wheel outcome variants
type WheelOutcomeKind string

const (
	WheelMoney        WheelOutcomeKind = "money"
	WheelBankrupt     WheelOutcomeKind = "bankrupt"
	WheelLoseTurn     WheelOutcomeKind = "lose_turn"
	WheelPrize        WheelOutcomeKind = "prize"
	WheelWildCard     WheelOutcomeKind = "wild_card"
	WheelGiftTag      WheelOutcomeKind = "gift_tag"
	WheelMillionWedge WheelOutcomeKind = "million_wedge"
)

// WheelOutcome is the result of one wheel spin. Amount is set for money
// outcomes; PrizeName/PrizeValue for prize outcomes.
type WheelOutcome struct {
	Kind       WheelOutcomeKind
	Amount     int
	PrizeName  string
	PrizeValue int
}

// MoneyOutcome returns a cash wedge outcome
func MoneyOutcome(amount int) WheelOutcome {
	return WheelOutcome{Kind: WheelMoney, Amount: amount}
}

// PrizeOutcome returns a prize wedge outcome
func PrizeOutcome(name string, value int) WheelOutcome {
	return WheelOutcome{Kind: WheelPrize, PrizeName: name, PrizeValue: value}
}

// Label returns a short display string for the outcome
func (w WheelOutcome) Label() string {
	switch w.Kind {
	case WheelMoney:
		return fmt.Sprintf("$%d", w.Amount)
	case WheelBankrupt:
		return "BANKRUPT"
	case WheelLoseTurn:
		return "LOSE A TURN"
	case WheelPrize:
		return w.PrizeName
	case WheelWildCard:
		return "WILD CARD"
	case WheelGiftTag:
		return "GIFT TAG"
	case WheelMillionWedge:
		return "MILLION"
	default:
		return string(w.Kind)
	}
}

// KeepsTurn reports whether the spinner retains the turn after this
// outcome lands (and must call a letter next)
func (w WheelOutcome) KeepsTurn() bool {
	switch w.Kind {
	case WheelBankrupt, WheelLoseTurn:
		return false
	default:
		return true
	}
}
