// Package bot implements the synchronous decision procedure for bot
// seats. Given a view of the room it picks exactly the action a human
// would submit; the registry drives the room state machine with the
// result through the normal action entry points.
package bot

import (
	"math/rand"

	"github.com/jahlib/czech-fool/internal/deck"
	"github.com/jahlib/czech-fool/internal/game"
	"github.com/jahlib/czech-fool/internal/rules"
)

// ActionKind is the kind of move a bot decided on.
type ActionKind int

const (
	ActionPlayCard ActionKind = iota
	ActionDrawCard
	ActionSkipTurn
)

// Action is a bot's chosen move: either a card play (with a suit when
// the card is a queen), a draw, or a turn skip.
type Action struct {
	Kind       ActionKind
	CardID     string
	ChosenSuit deck.Suit
}

// nicknames is the pool bot seats draw their names from, sampled
// without replacement per game.
var nicknames = []string{
	"Дружище",
	"Братан",
	"Чувак",
	"Кент",
	"Напарник",
	"Товарищ",
	"Приятель",
	"Бывалый",
	"Земеля",
	"Коллега",
	"Зевака",
	"Компаньон",
	"Соратник",
	"Местный",
	"Мужик",
}

// Nicknames returns count distinct bot nicknames in random order.
func Nicknames(count int) []string {
	if count > len(nicknames) {
		count = len(nicknames)
	}
	idx := rand.Perm(len(nicknames))
	out := make([]string, count)
	for i := 0; i < count; i++ {
		out[i] = nicknames[idx[i]]
	}
	return out
}

// Decide picks the bot's move for the current turn:
//
//  1. among the legal cards, prefer a random power card (7/6/A, plus 8
//     in the 52-card game);
//  2. otherwise, outside an eight chain, the highest-point legal card,
//     ties broken at random;
//  3. inside an eight chain, any legal card at random;
//  4. with no legal card, draw once if the turn's draw is still
//     available, else skip.
//
// A queen play also picks the declared suit, preferring suits the bot
// still holds power cards in.
func Decide(ctx game.BotContext) Action {
	var playable []deck.Card
	for _, c := range ctx.Hand {
		if rules.CanPlay(c, ctx.TopCard, ctx.ChosenSuit, ctx.WaitingForEight, ctx.EightDrawn) {
			playable = append(playable, c)
		}
	}

	if len(playable) == 0 {
		if ctx.WaitingForEight || !ctx.CardDrawn {
			return Action{Kind: ActionDrawCard}
		}
		return Action{Kind: ActionSkipTurn}
	}

	var power []deck.Card
	for _, c := range playable {
		if rules.IsPowerCard(c, ctx.DeckSize) {
			power = append(power, c)
		}
	}

	var card deck.Card
	switch {
	case len(power) > 0:
		card = power[rand.Intn(len(power))]
	case !ctx.WaitingForEight:
		card = pickHighestPoints(playable)
	default:
		card = playable[rand.Intn(len(playable))]
	}

	action := Action{Kind: ActionPlayCard, CardID: card.ID}
	if card.Rank == deck.Queen {
		action.ChosenSuit = chooseSuit(ctx.Hand, card.ID, ctx.DeckSize)
	}
	return action
}

// pickHighestPoints returns a random card among those with the maximum
// point value.
func pickHighestPoints(cards []deck.Card) deck.Card {
	max := -1
	for _, c := range cards {
		if v := deck.PointValue(c); v > max {
			max = v
		}
	}
	var best []deck.Card
	for _, c := range cards {
		if deck.PointValue(c) == max {
			best = append(best, c)
		}
	}
	return best[rand.Intn(len(best))]
}

// chooseSuit picks the suit to declare for a queen: a suit holding a
// remaining power card when possible, else any suit still in hand, else
// a uniformly random suit.
func chooseSuit(hand []deck.Card, playedID string, deckSize int) deck.Suit {
	powerSuits := map[deck.Suit]bool{}
	handSuits := map[deck.Suit]bool{}
	for _, c := range hand {
		if c.ID == playedID {
			continue
		}
		handSuits[c.Suit] = true
		if rules.IsPowerCard(c, deckSize) {
			powerSuits[c.Suit] = true
		}
	}
	if suit, ok := randomSuit(powerSuits); ok {
		return suit
	}
	if suit, ok := randomSuit(handSuits); ok {
		return suit
	}
	return deck.Suits[rand.Intn(len(deck.Suits))]
}

func randomSuit(set map[deck.Suit]bool) (deck.Suit, bool) {
	if len(set) == 0 {
		return "", false
	}
	suits := make([]deck.Suit, 0, len(set))
	for s := range set {
		suits = append(suits, s)
	}
	return suits[rand.Intn(len(suits))], true
}
