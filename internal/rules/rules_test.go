package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jahlib/czech-fool/internal/deck"
)

func card(suit deck.Suit, rank deck.Rank) deck.Card {
	return deck.Card{Suit: suit, Rank: rank, ID: string(suit) + "-" + string(rank)}
}

func TestCanPlaySuitAndRankMatch(t *testing.T) {
	top := card(deck.Hearts, deck.Rank9)

	assert.True(t, CanPlay(card(deck.Hearts, deck.King), top, "", false, nil), "same suit")
	assert.True(t, CanPlay(card(deck.Clubs, deck.Rank9), top, "", false, nil), "same rank")
	assert.False(t, CanPlay(card(deck.Clubs, deck.King), top, "", false, nil), "no match")
}

func TestCanPlayQueenAlwaysLegal(t *testing.T) {
	top := card(deck.Hearts, deck.Rank9)
	assert.True(t, CanPlay(card(deck.Clubs, deck.Queen), top, "", false, nil))
	assert.True(t, CanPlay(card(deck.Clubs, deck.Queen), top, deck.Spades, false, nil))
}

func TestCanPlayChosenSuitOverridesTopSuit(t *testing.T) {
	top := card(deck.Hearts, deck.Queen)

	assert.True(t, CanPlay(card(deck.Spades, deck.Rank7), top, deck.Spades, false, nil))
	assert.False(t, CanPlay(card(deck.Hearts, deck.Rank7), top, deck.Spades, false, nil),
		"top card's own suit no longer matches")
	// Rank match against the top card survives a declared suit.
	assert.True(t, CanPlay(card(deck.Clubs, deck.Queen), top, deck.Spades, false, nil))
}

func TestCanPlayDuringEightChain(t *testing.T) {
	top := card(deck.Hearts, deck.Rank8)
	drawn := map[string]bool{"chain-card": true}

	assert.True(t, CanPlay(card(deck.Clubs, deck.Rank2), top, "", true, drawn), "a two always resolves")
	assert.False(t, CanPlay(card(deck.Hearts, deck.King), top, "", true, drawn),
		"suit match from hand does not resolve a chain")

	fromChain := deck.Card{Suit: deck.Spades, Rank: deck.Rank3, ID: "chain-card"}
	assert.True(t, CanPlay(fromChain, top, "", true, drawn), "cards drawn this chain are playable")
}

func TestEndsEightChain(t *testing.T) {
	top := card(deck.Hearts, deck.Rank8)

	assert.True(t, EndsEightChain(card(deck.Clubs, deck.Rank2), top))
	assert.True(t, EndsEightChain(card(deck.Clubs, deck.Queen), top))
	assert.True(t, EndsEightChain(card(deck.Clubs, deck.Rank8), top))
	assert.True(t, EndsEightChain(card(deck.Hearts, deck.Rank4), top))
	assert.False(t, EndsEightChain(card(deck.Clubs, deck.Rank9), top))
}

func TestPowerRanksDependOnDeckSize(t *testing.T) {
	assert.NotContains(t, PowerRanks(deck.Size36), deck.Rank8)
	assert.Contains(t, PowerRanks(deck.Size52), deck.Rank8)
}

func TestIsPowerCard(t *testing.T) {
	assert.True(t, IsPowerCard(card(deck.Hearts, deck.Rank6), deck.Size52))
	assert.True(t, IsPowerCard(card(deck.Hearts, deck.Rank7), deck.Size36))
	assert.True(t, IsPowerCard(card(deck.Hearts, deck.Ace), deck.Size36))
	assert.True(t, IsPowerCard(card(deck.Hearts, deck.Rank8), deck.Size52))
	assert.False(t, IsPowerCard(card(deck.Hearts, deck.Rank8), deck.Size36))
	assert.False(t, IsPowerCard(card(deck.Hearts, deck.Rank9), deck.Size52))
}
