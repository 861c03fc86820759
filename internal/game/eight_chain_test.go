package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jahlib/czech-fool/internal/deck"
)

func chainRoom(t *testing.T) *Room {
	t.Helper()
	room := startedRoom(t,
		[]deck.Card{tc(deck.Clubs, deck.Rank9, "c9")},
		[]deck.Card{tc(deck.Diamonds, deck.Rank4, "d4")},
	)
	room.DiscardPile = []deck.Card{tc(deck.Spades, deck.Rank8, "s8")}
	room.WaitingForEight = true
	return room
}

func TestEightChainDrawsUntilMatch(t *testing.T) {
	room := chainRoom(t)
	// Draw order is last-element-first: two misses, then a spade match.
	room.Deck = []deck.Card{
		tc(deck.Spades, deck.Rank10, "hit"),
		tc(deck.Hearts, deck.Rank5, "miss2"),
		tc(deck.Clubs, deck.Rank4, "miss1"),
	}

	res, err := room.DrawCard("p1")
	require.NoError(t, err)
	assert.Len(t, res.Drawn, 3)
	assert.Equal(t, "hit", res.Drawn[2].ID)
	assert.False(t, res.ChainEnded)
	assert.True(t, room.WaitingForEight, "the chain stays pending until the match is played")
	assert.Equal(t, "p1", room.CurrentPlayerID())

	// The matched card (drawn during this chain) is now playable.
	_, err = room.PlayCard("p1", "hit", "")
	require.NoError(t, err)
	assert.False(t, room.WaitingForEight)
	assert.Equal(t, "p2", room.CurrentPlayerID())
}

func TestEightChainDrawOnlyOnce(t *testing.T) {
	room := chainRoom(t)
	room.Deck = []deck.Card{tc(deck.Spades, deck.Rank10, "hit")}

	_, err := room.DrawCard("p1")
	require.NoError(t, err)

	_, err = room.DrawCard("p1")
	assert.ErrorIs(t, err, ErrEightDrawUsed)
}

func TestEightChainExhaustionPassesTurn(t *testing.T) {
	room := chainRoom(t)
	// Neither card qualifies against the spade eight.
	room.Deck = []deck.Card{
		tc(deck.Hearts, deck.Rank5, "m2"),
		tc(deck.Clubs, deck.Rank4, "m1"),
	}

	res, err := room.DrawCard("p1")
	require.NoError(t, err)
	assert.Len(t, res.Drawn, 2, "everything gets drawn before the chain dissolves")
	assert.True(t, res.ChainEnded)
	assert.False(t, room.WaitingForEight)
	assert.Equal(t, "p2", room.CurrentPlayerID())
}

func TestSkipRefusedDuringEightChain(t *testing.T) {
	room := chainRoom(t)
	assert.ErrorIs(t, room.SkipTurn("p1"), ErrEightPending)
}

func TestHandCardCannotResolveChainBySuit(t *testing.T) {
	room := startedRoom(t,
		[]deck.Card{tc(deck.Spades, deck.Rank9, "s9")},
		[]deck.Card{tc(deck.Diamonds, deck.Rank4, "d4")},
	)
	room.DiscardPile = []deck.Card{tc(deck.Spades, deck.Rank8, "s8")}
	room.WaitingForEight = true

	// A suit match straight from hand is not a chain resolution; only a
	// 2 or a card drawn during this chain qualifies.
	_, err := room.PlayCard("p1", "s9", "")
	assert.ErrorIs(t, err, ErrEightPending)
}
