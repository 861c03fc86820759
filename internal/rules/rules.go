// Package rules holds the pure card-legality and special-effect rules of
// the game. Nothing here mutates state; the room state machine consults
// these predicates on every action.
package rules

import (
	"github.com/jahlib/czech-fool/internal/deck"
)

// CanPlay reports whether card may legally be played onto topCard.
//
// While an eight chain is pending only a 2 resolves it from hand, plus
// any card drawn during the chain itself (drawnThisChain holds those
// card IDs). Outside a chain a queen is always legal; a declared chosen
// suit replaces the normal suit match but rank matching against the top
// card stays available.
func CanPlay(card, topCard deck.Card, chosenSuit deck.Suit, waitingForEight bool, drawnThisChain map[string]bool) bool {
	if waitingForEight {
		return card.Rank == deck.Rank2 || drawnThisChain[card.ID]
	}
	if card.Rank == deck.Queen {
		return true
	}
	if chosenSuit != "" {
		return card.Suit == chosenSuit || card.Rank == topCard.Rank
	}
	return card.Suit == topCard.Suit || card.Rank == topCard.Rank
}

// EndsEightChain reports whether a freshly drawn card terminates an
// eight-chain draw: any 2, queen or 8, or a card matching the suit of
// the eight on top of the discard pile.
func EndsEightChain(card, topCard deck.Card) bool {
	return card.Rank == deck.Rank2 ||
		card.Rank == deck.Queen ||
		card.Rank == deck.Rank8 ||
		card.Suit == topCard.Suit
}

// PowerRanks returns the ranks that carry an attack effect for the given
// deck size. The 8 only acts in the 52-card game.
func PowerRanks(deckSize int) []deck.Rank {
	ranks := []deck.Rank{deck.Rank7, deck.Rank6, deck.Ace}
	if deckSize == deck.Size52 {
		ranks = append(ranks, deck.Rank8)
	}
	return ranks
}

// IsPowerCard reports whether c triggers a forced draw, skip or
// eight chain in a deck of the given size.
func IsPowerCard(c deck.Card, deckSize int) bool {
	for _, r := range PowerRanks(deckSize) {
		if c.Rank == r {
			return true
		}
	}
	return false
}
