package deck

import (
	"math/rand"

	"github.com/google/uuid"
)

// Suit identifies one of the four French suits.
type Suit string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

// Suits lists every suit in a fixed order.
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Rank is the face of a card. Numeral ranks keep their printed value as
// the string ("2".."10").
type Rank string

const (
	Rank2  Rank = "2"
	Rank3  Rank = "3"
	Rank4  Rank = "4"
	Rank5  Rank = "5"
	Rank6  Rank = "6"
	Rank7  Rank = "7"
	Rank8  Rank = "8"
	Rank9  Rank = "9"
	Rank10 Rank = "10"
	Jack   Rank = "J"
	Queen  Rank = "Q"
	King   Rank = "K"
	Ace    Rank = "A"
)

// Supported deck sizes.
const (
	Size36 = 36
	Size52 = 52
)

// Card is an immutable playing card. Identity is the ID, not the
// suit/rank pair: a specific physical card has to be trackable through
// draws and discards (the eight-chain rule depends on it).
type Card struct {
	Suit Suit   `json:"suit"`
	Rank Rank   `json:"rank"`
	ID   string `json:"id"`
}

// RanksFor returns the ranks present in a deck of the given size. The
// 36-card variant drops ranks 2 through 5.
func RanksFor(size int) []Rank {
	if size == Size36 {
		return []Rank{Rank6, Rank7, Rank8, Rank9, Rank10, Jack, Queen, King, Ace}
	}
	return []Rank{Rank2, Rank3, Rank4, Rank5, Rank6, Rank7, Rank8, Rank9, Rank10, Jack, Queen, King, Ace}
}

// ValidSize reports whether size is a supported deck size.
func ValidSize(size int) bool {
	return size == Size36 || size == Size52
}

// New builds a freshly shuffled deck of the given size. Each card gets a
// unique opaque ID.
func New(size int) []Card {
	ranks := RanksFor(size)
	cards := make([]Card, 0, len(Suits)*len(ranks))
	for _, suit := range Suits {
		for _, rank := range ranks {
			cards = append(cards, Card{Suit: suit, Rank: rank, ID: uuid.NewString()})
		}
	}
	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards
}

// PointValue returns the penalty value of a single card. Numerals score
// face value, J=2, K=4, A=11, Q=20 except the queen of spades at 40.
func PointValue(c Card) int {
	switch c.Rank {
	case Rank2:
		return 2
	case Rank3:
		return 3
	case Rank4:
		return 4
	case Rank5:
		return 5
	case Rank6:
		return 6
	case Rank7:
		return 7
	case Rank8:
		return 8
	case Rank9:
		return 9
	case Rank10:
		return 10
	case Jack:
		return 2
	case Queen:
		if c.Suit == Spades {
			return 40
		}
		return 20
	case King:
		return 4
	case Ace:
		return 11
	}
	return 0
}

// HandPoints sums the penalty values of every card in a hand.
func HandPoints(hand []Card) int {
	total := 0
	for _, c := range hand {
		total += PointValue(c)
	}
	return total
}
