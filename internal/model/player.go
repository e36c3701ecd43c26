package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Prize is a non-cash reward won on the wheel and banked at round end
type Prize struct {
	Name  string
	Value int
}

// SpecialCard tags the carried bonus tokens a player can hold
type SpecialCard string

const (
	CardWildCard     SpecialCard = "wild_card"
	CardGiftTag      SpecialCard = "gift_tag"
	CardMillionWedge SpecialCard = "million_wedge"
)

// Player represents one seat occupant in a game
type Player struct {
	ID          PlayerID
	DisplayName string
	IsHost      bool
	IsHuman     bool

	// Money won in the current round; banked into TotalMoney on a
	// correct solve, zeroed on Bankrupt and at round start
	RoundMoney int
	TotalMoney int

	// Prizes won this round (forfeited on Bankrupt) and banked prizes
	RoundPrizes []Prize
	Prizes      []Prize

	SpecialCards []SpecialCard

	LastSeen time.Time
}

// HasCard reports whether the player holds the given special card
func (p *Player) HasCard(card SpecialCard) bool {
	for _, c := range p.SpecialCards {
		if c == card {
			return true
		}
	}
	return false
}

// GrantCard appends the card if the player does not already hold it
func (p *Player) GrantCard(card SpecialCard) {
	if !p.HasCard(card) {
		p.SpecialCards = append(p.SpecialCards, card)
	}
}

// RemoveCard removes one instance of the card, if held
func (p *Player) RemoveCard(card SpecialCard) {
	for i, c := range p.SpecialCards {
		if c == card {
			p.SpecialCards = append(p.SpecialCards[:i], p.SpecialCards[i+1:]...)
			return
		}
	}
}

func (p *Player) clone() *Player {
	cp := *p
	cp.RoundPrizes = append([]Prize(nil), p.RoundPrizes...)
	cp.Prizes = append([]Prize(nil), p.Prizes...)
	cp.SpecialCards = append([]SpecialCard(nil), p.SpecialCards...)
	return &cp
}
