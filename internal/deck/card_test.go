package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckSizes(t *testing.T) {
	assert.Len(t, New(Size52), 52)
	assert.Len(t, New(Size36), 36)
}

func TestNewDeckUniqueIDs(t *testing.T) {
	cards := New(Size52)
	seen := make(map[string]bool, len(cards))
	for _, c := range cards {
		require.NotEmpty(t, c.ID)
		require.False(t, seen[c.ID], "duplicate card id %s", c.ID)
		seen[c.ID] = true
	}
}

func TestSmallDeckDropsLowRanks(t *testing.T) {
	for _, c := range New(Size36) {
		assert.NotContains(t, []Rank{Rank2, Rank3, Rank4, Rank5}, c.Rank)
	}
}

func TestValidSize(t *testing.T) {
	assert.True(t, ValidSize(36))
	assert.True(t, ValidSize(52))
	assert.False(t, ValidSize(0))
	assert.False(t, ValidSize(54))
}

func TestPointValue(t *testing.T) {
	assert.Equal(t, 7, PointValue(Card{Suit: Hearts, Rank: Rank7}))
	assert.Equal(t, 10, PointValue(Card{Suit: Clubs, Rank: Rank10}))
	assert.Equal(t, 2, PointValue(Card{Suit: Hearts, Rank: Jack}))
	assert.Equal(t, 4, PointValue(Card{Suit: Hearts, Rank: King}))
	assert.Equal(t, 11, PointValue(Card{Suit: Hearts, Rank: Ace}))
	assert.Equal(t, 20, PointValue(Card{Suit: Hearts, Rank: Queen}))
	assert.Equal(t, 40, PointValue(Card{Suit: Spades, Rank: Queen}))
}

func TestHandPoints(t *testing.T) {
	hand := []Card{
		{Suit: Spades, Rank: Queen}, // 40
		{Suit: Hearts, Rank: Ace},   // 11
		{Suit: Clubs, Rank: Rank9},  // 9
	}
	assert.Equal(t, 60, HandPoints(hand))
	assert.Equal(t, 0, HandPoints(nil))
}
