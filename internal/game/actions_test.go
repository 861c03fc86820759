package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jahlib/czech-fool/internal/deck"
)

func TestPlayCardTurnAndLegalityChecks(t *testing.T) {
	room := startedRoom(t,
		[]deck.Card{tc(deck.Hearts, deck.Rank9, "h9"), tc(deck.Clubs, deck.Rank3, "c3")},
		[]deck.Card{tc(deck.Clubs, deck.Rank9, "c9"), tc(deck.Spades, deck.Rank4, "s4")},
	)
	room.DiscardPile = []deck.Card{tc(deck.Hearts, deck.King, "top")}

	_, err := room.PlayCard("p2", "c9", "")
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = room.PlayCard("p1", "missing", "")
	assert.ErrorIs(t, err, ErrCardNotFound)

	_, err = room.PlayCard("p1", "c3", "")
	assert.ErrorIs(t, err, ErrIllegalCard)

	res, err := room.PlayCard("p1", "h9", "")
	require.NoError(t, err)
	assert.Equal(t, "h9", res.Card.ID)
	assert.Equal(t, "p2", room.CurrentPlayerID())
	assert.Equal(t, "h9", room.DiscardPile[len(room.DiscardPile)-1].ID)
	assert.Len(t, room.Players[0].Hand, 1)
}

func TestPlaySixForcesOneAndSkips(t *testing.T) {
	room := startedRoom(t,
		[]deck.Card{tc(deck.Hearts, deck.Rank6, "h6"), tc(deck.Clubs, deck.Rank3, "c3")},
		[]deck.Card{tc(deck.Clubs, deck.Rank9, "c9")},
		[]deck.Card{tc(deck.Spades, deck.Rank4, "s4")},
	)
	room.DiscardPile = []deck.Card{tc(deck.Hearts, deck.King, "top")}
	room.Deck = []deck.Card{tc(deck.Diamonds, deck.Rank10, "d10")}

	res, err := room.PlayCard("p1", "h6", "")
	require.NoError(t, err)
	require.NotNil(t, res.ForcedDraw)
	assert.Equal(t, "p2", res.ForcedDraw.PlayerID)
	assert.Equal(t, 1, res.ForcedDraw.Count)
	assert.Len(t, room.Players[1].Hand, 2)
	assert.Equal(t, "p3", room.CurrentPlayerID(), "victim's turn is skipped")
}

func TestPlaySevenForcesTwoAndSkips(t *testing.T) {
	room := startedRoom(t,
		[]deck.Card{tc(deck.Hearts, deck.Rank7, "h7"), tc(deck.Clubs, deck.Rank3, "c3")},
		[]deck.Card{tc(deck.Clubs, deck.Rank9, "c9")},
	)
	room.DiscardPile = []deck.Card{tc(deck.Hearts, deck.King, "top")}
	room.Deck = []deck.Card{
		tc(deck.Diamonds, deck.Rank10, "d10"),
		tc(deck.Diamonds, deck.Rank9, "d9"),
	}

	res, err := room.PlayCard("p1", "h7", "")
	require.NoError(t, err)
	require.NotNil(t, res.ForcedDraw)
	assert.Equal(t, 2, res.ForcedDraw.Count)
	assert.Len(t, room.Players[1].Hand, 3)
	// Two seats: skipping the victim wraps back to the player.
	assert.Equal(t, "p1", room.CurrentPlayerID())
}

func TestPlayAceSkipsNextSeat(t *testing.T) {
	room := startedRoom(t,
		[]deck.Card{tc(deck.Hearts, deck.Ace, "ha"), tc(deck.Clubs, deck.Rank3, "c3")},
		[]deck.Card{tc(deck.Clubs, deck.Rank9, "c9")},
		[]deck.Card{tc(deck.Spades, deck.Rank4, "s4")},
	)
	room.DiscardPile = []deck.Card{tc(deck.Hearts, deck.King, "top")}

	_, err := room.PlayCard("p1", "ha", "")
	require.NoError(t, err)
	assert.Equal(t, "p3", room.CurrentPlayerID())
	assert.Len(t, room.Players[1].Hand, 1, "skipped seat draws nothing")
}

func TestPlayQueenDeclaresSuit(t *testing.T) {
	room := startedRoom(t,
		[]deck.Card{tc(deck.Hearts, deck.Queen, "hq"), tc(deck.Clubs, deck.Rank3, "c3")},
		[]deck.Card{tc(deck.Spades, deck.Rank9, "s9"), tc(deck.Clubs, deck.Rank9, "c9")},
	)
	room.DiscardPile = []deck.Card{tc(deck.Diamonds, deck.King, "top")}

	_, err := room.PlayCard("p1", "hq", deck.Spades)
	require.NoError(t, err)
	assert.Equal(t, deck.Spades, room.ChosenSuit)

	// Only the declared suit (or a rank match) may follow.
	_, err = room.PlayCard("p2", "c9", "")
	assert.ErrorIs(t, err, ErrIllegalCard)
	_, err = room.PlayCard("p2", "s9", "")
	require.NoError(t, err)
	assert.Equal(t, deck.Suit(""), room.ChosenSuit, "a normal play clears the declaration")
}

func TestPlayQueenWithoutSuitKeepsPrevious(t *testing.T) {
	room := startedRoom(t,
		[]deck.Card{tc(deck.Hearts, deck.Queen, "hq"), tc(deck.Clubs, deck.Rank3, "c3")},
		[]deck.Card{tc(deck.Clubs, deck.Rank9, "c9")},
	)
	room.DiscardPile = []deck.Card{tc(deck.Diamonds, deck.King, "top")}
	room.ChosenSuit = deck.Clubs

	_, err := room.PlayCard("p1", "hq", "")
	require.NoError(t, err)
	assert.Equal(t, deck.Clubs, room.ChosenSuit)
}

func TestPlayEightStartsChainOnlyInBigDeck(t *testing.T) {
	room := startedRoom(t,
		[]deck.Card{tc(deck.Hearts, deck.Rank8, "h8"), tc(deck.Clubs, deck.Rank3, "c3")},
		[]deck.Card{tc(deck.Clubs, deck.Rank9, "c9")},
	)
	room.DiscardPile = []deck.Card{tc(deck.Hearts, deck.King, "top")}

	_, err := room.PlayCard("p1", "h8", "")
	require.NoError(t, err)
	assert.True(t, room.WaitingForEight)
	assert.Equal(t, "p2", room.CurrentPlayerID())

	small := startedRoom(t,
		[]deck.Card{tc(deck.Hearts, deck.Rank8, "h8"), tc(deck.Clubs, deck.Rank6, "c6")},
		[]deck.Card{tc(deck.Clubs, deck.Rank9, "c9")},
	)
	small.DeckSize = deck.Size36
	small.DiscardPile = []deck.Card{tc(deck.Hearts, deck.King, "top")}

	_, err = small.PlayCard("p1", "h8", "")
	require.NoError(t, err)
	assert.False(t, small.WaitingForEight, "the eight is plain in the 36-card game")
}

func TestWinningCardEffectNotApplied(t *testing.T) {
	room := startedRoom(t,
		[]deck.Card{tc(deck.Hearts, deck.Rank7, "h7")},
		[]deck.Card{tc(deck.Clubs, deck.Rank9, "c9")},
		[]deck.Card{tc(deck.Spades, deck.Rank4, "s4")},
	)
	room.DiscardPile = []deck.Card{tc(deck.Hearts, deck.King, "top")}
	room.Deck = []deck.Card{
		tc(deck.Diamonds, deck.Rank10, "d10"),
		tc(deck.Diamonds, deck.Rank9, "d9"),
	}

	res, err := room.PlayCard("p1", "h7", "")
	require.NoError(t, err)
	require.True(t, res.RoundOver)
	assert.Nil(t, res.ForcedDraw, "the seven's penalty does not fire on the winning play")
	assert.Len(t, room.Players[1].Hand, 0, "lobby reset clears hands")
	assert.Equal(t, "p1", res.Round.WinnerID)
}

func TestPlayResolvingEightChainWithTwo(t *testing.T) {
	room := startedRoom(t,
		[]deck.Card{tc(deck.Hearts, deck.Rank2, "h2"), tc(deck.Clubs, deck.Rank3, "c3")},
		[]deck.Card{tc(deck.Clubs, deck.Rank9, "c9")},
	)
	room.DiscardPile = []deck.Card{tc(deck.Spades, deck.Rank8, "s8")}
	room.WaitingForEight = true

	_, err := room.PlayCard("p1", "c3", "")
	assert.ErrorIs(t, err, ErrEightPending)

	_, err = room.PlayCard("p1", "h2", "")
	require.NoError(t, err)
	assert.False(t, room.WaitingForEight)
	assert.Equal(t, "p2", room.CurrentPlayerID())
}
