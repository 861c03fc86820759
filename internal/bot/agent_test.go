package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jahlib/czech-fool/internal/deck"
	"github.com/jahlib/czech-fool/internal/game"
)

func bc(hand []deck.Card, top deck.Card) game.BotContext {
	return game.BotContext{Hand: hand, TopCard: top, DeckSize: deck.Size52}
}

func card(suit deck.Suit, rank deck.Rank, id string) deck.Card {
	return deck.Card{Suit: suit, Rank: rank, ID: id}
}

func TestNicknamesDistinct(t *testing.T) {
	names := Nicknames(3)
	require.Len(t, names, 3)
	assert.NotEqual(t, names[0], names[1])
	assert.NotEqual(t, names[1], names[2])
	assert.NotEqual(t, names[0], names[2])

	assert.Len(t, Nicknames(100), len(nicknames), "pool caps the count")
}

func TestDecidePrefersPowerCard(t *testing.T) {
	ctx := bc([]deck.Card{
		card(deck.Hearts, deck.King, "hk"),
		card(deck.Hearts, deck.Rank7, "h7"),
		card(deck.Clubs, deck.Rank4, "c4"),
	}, card(deck.Hearts, deck.Rank9, "top"))

	action := Decide(ctx)
	assert.Equal(t, ActionPlayCard, action.Kind)
	assert.Equal(t, "h7", action.CardID, "the seven beats the higher-point king")
}

func TestDecidePlaysHighestPoints(t *testing.T) {
	ctx := bc([]deck.Card{
		card(deck.Hearts, deck.Rank3, "h3"),
		card(deck.Hearts, deck.King, "hk"),
		card(deck.Clubs, deck.Rank4, "c4"),
	}, card(deck.Hearts, deck.Rank9, "top"))

	action := Decide(ctx)
	assert.Equal(t, ActionPlayCard, action.Kind)
	assert.Equal(t, "hk", action.CardID)
}

func TestDecideDrawsWhenStuck(t *testing.T) {
	ctx := bc([]deck.Card{
		card(deck.Clubs, deck.Rank4, "c4"),
	}, card(deck.Hearts, deck.Rank9, "top"))

	action := Decide(ctx)
	assert.Equal(t, ActionDrawCard, action.Kind)
}

func TestDecideSkipsAfterFruitlessDraw(t *testing.T) {
	ctx := bc([]deck.Card{
		card(deck.Clubs, deck.Rank4, "c4"),
	}, card(deck.Hearts, deck.Rank9, "top"))
	ctx.CardDrawn = true

	action := Decide(ctx)
	assert.Equal(t, ActionSkipTurn, action.Kind)
}

func TestDecideDrawsIntoEightChain(t *testing.T) {
	ctx := bc([]deck.Card{
		card(deck.Spades, deck.Rank9, "s9"), // suit match, but not from the chain
	}, card(deck.Spades, deck.Rank8, "top"))
	ctx.WaitingForEight = true
	ctx.EightDrawn = map[string]bool{}

	action := Decide(ctx)
	assert.Equal(t, ActionDrawCard, action.Kind)
}

func TestDecidePlaysTwoAgainstEightChain(t *testing.T) {
	ctx := bc([]deck.Card{
		card(deck.Clubs, deck.Rank2, "c2"),
		card(deck.Spades, deck.King, "sk"),
	}, card(deck.Spades, deck.Rank8, "top"))
	ctx.WaitingForEight = true
	ctx.EightDrawn = map[string]bool{}

	action := Decide(ctx)
	assert.Equal(t, ActionPlayCard, action.Kind)
	assert.Equal(t, "c2", action.CardID)
}

func TestDecideQueenDeclaresHeldSuit(t *testing.T) {
	ctx := bc([]deck.Card{
		card(deck.Hearts, deck.Queen, "hq"),
		card(deck.Diamonds, deck.Rank4, "d4"),
	}, card(deck.Spades, deck.Rank3, "top"))

	action := Decide(ctx)
	require.Equal(t, ActionPlayCard, action.Kind)
	require.Equal(t, "hq", action.CardID)
	assert.Equal(t, deck.Diamonds, action.ChosenSuit, "declares the only suit left in hand")
}

func TestDecideQueenPrefersPowerSuit(t *testing.T) {
	ctx := bc([]deck.Card{
		card(deck.Hearts, deck.Queen, "hq"),
		card(deck.Diamonds, deck.Rank4, "d4"),
		card(deck.Clubs, deck.Rank7, "c7"),
	}, card(deck.Spades, deck.Rank3, "top"))

	// The queen is the only legal play; clubs holds a remaining seven.
	action := Decide(ctx)
	require.Equal(t, "hq", action.CardID)
	assert.Equal(t, deck.Clubs, action.ChosenSuit)
}
