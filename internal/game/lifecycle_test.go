package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jahlib/czech-fool/internal/deck"
)

func lobbyRoom(t *testing.T, seats int) *Room {
	t.Helper()
	room := NewRoom(NewPlayer("Anna"), false)
	names := []string{"", "Boris", "Clara", "Dmitri"}
	for i := 1; i < seats; i++ {
		require.NoError(t, room.AddPlayer(NewPlayer(names[i])))
	}
	return room
}

func TestToggleReadyCounts(t *testing.T) {
	room := lobbyRoom(t, 3)

	st, err := room.ToggleReady(room.Players[0].ID)
	require.NoError(t, err)
	assert.True(t, st.Ready)
	assert.Equal(t, 1, st.ReadyCount)
	assert.Equal(t, 3, st.Total)

	st, err = room.ToggleReady(room.Players[0].ID)
	require.NoError(t, err)
	assert.False(t, st.Ready)
	assert.Equal(t, 0, st.ReadyCount)

	_, err = room.ToggleReady("ghost")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestCountdownSingleFlight(t *testing.T) {
	room := lobbyRoom(t, 2)
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.True(t, room.BeginCountdown(cancel))
	assert.False(t, room.BeginCountdown(cancel), "second arm refused while running")
	assert.True(t, room.CountdownActive())

	assert.True(t, room.CancelCountdown())
	assert.False(t, room.CountdownActive())
	assert.False(t, room.CancelCountdown(), "nothing left to cancel")
}

func TestKickUnreadyNeedsQuorum(t *testing.T) {
	room := lobbyRoom(t, 3)
	room.Players[0].Ready = true

	_, ok := room.KickUnready()
	assert.False(t, ok, "one ready seat cannot start")
	assert.Len(t, room.Players, 3)

	room.Players[1].Ready = true
	kicked, ok := room.KickUnready()
	require.True(t, ok)
	require.Len(t, kicked, 1)
	assert.Equal(t, "Clara", kicked[0].Nickname)
	assert.Len(t, room.Players, 2)
}

func TestStartGameDealsHands(t *testing.T) {
	room := lobbyRoom(t, 3)

	res, err := room.StartGame()
	require.NoError(t, err)
	require.NotEmpty(t, res.FirstCard.ID)

	assert.True(t, room.Started())
	assert.Equal(t, deck.Size52, room.CardCount(), "every card is in exactly one place")
	assert.GreaterOrEqual(t, len(room.DiscardPile), 1)
	for _, p := range room.Players {
		assert.GreaterOrEqual(t, len(p.Hand), HandSize, "five dealt, plus any opening penalty")
	}

	_, err = room.StartGame()
	assert.ErrorIs(t, err, ErrGameStarted)
}

func TestStartGameDealerFollowsLastLoser(t *testing.T) {
	room := lobbyRoom(t, 3)
	loser := room.Players[2]
	room.LastLoserID = loser.ID

	_, err := room.StartGame()
	require.NoError(t, err)
	assert.Equal(t, 2, room.DealerIndex)
	// Seat 0 acts first unless the opening card was a 6, 7 or ace, which
	// skips it to seat 1.
	assert.Contains(t, []int{0, 1}, room.CurrentPlayerIndex)
}

func TestStartGameNeedsTwoSeats(t *testing.T) {
	room := NewRoom(NewPlayer("Anna"), false)
	_, err := room.StartGame()
	assert.Error(t, err)
}
