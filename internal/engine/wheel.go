package engine

import (
	"github.com/wheelwords/wheelwords-go/internal/dependencies/random"
	"github.com/wheelwords/wheelwords-go/internal/model"
)

// wheelSegments is the fixed wedge layout used when a client (or the
// computer agent) needs an outcome for a spin
var wheelSegments = []model.WheelOutcome{
	model.MoneyOutcome(500),
	model.MoneyOutcome(550),
	model.MoneyOutcome(600),
	{Kind: model.WheelBankrupt},
	model.MoneyOutcome(650),
	model.MoneyOutcome(700),
	model.MoneyOutcome(500),
	{Kind: model.WheelLoseTurn},
	model.MoneyOutcome(800),
	model.PrizeOutcome("A Trip to Hawaii", 7500),
	model.MoneyOutcome(500),
	model.MoneyOutcome(900),
	{Kind: model.WheelWildCard},
	model.MoneyOutcome(600),
	model.MoneyOutcome(700),
	{Kind: model.WheelBankrupt},
	model.MoneyOutcome(550),
	{Kind: model.WheelGiftTag},
	model.MoneyOutcome(600),
	model.MoneyOutcome(2500),
	model.MoneyOutcome(500),
	{Kind: model.WheelMillionWedge},
	model.MoneyOutcome(650),
	model.MoneyOutcome(900),
}

// SpinWheel picks a wheel outcome uniformly across the wedge layout
func SpinWheel(rnd random.Random) model.WheelOutcome {
	return wheelSegments[rnd.Intn(len(wheelSegments))]
}

// WheelSegmentCount reports the number of wedges on the wheel
func WheelSegmentCount() int {
	return len(wheelSegments)
}
