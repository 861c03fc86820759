package game

import (
	"github.com/jahlib/czech-fool/internal/deck"
	"github.com/jahlib/czech-fool/internal/rules"
)

// ForcedDraw describes cards forced into a seat's hand by a 6 or 7.
type ForcedDraw struct {
	PlayerID string
	Nickname string
	Count    int
}

// PlayResult reports everything a caller needs to broadcast after a
// successful card play.
type PlayResult struct {
	Card         deck.Card
	ForcedDraw   *ForcedDraw
	DeckShuffled bool
	RoundOver    bool
	Round        *RoundSummary // set when RoundOver
}

// PlayCard plays one card from the acting seat's hand onto the discard
// pile, applying its special effect and advancing the turn. A play that
// empties the hand ends the round immediately; the winning card's effect
// is not applied (its queen scoring bonus still is).
func (r *Room) PlayCard(playerID, cardID string, chosenSuit deck.Suit) (*PlayResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.GameStarted {
		return nil, ErrGameNotStarted
	}
	if r.currentPlayerIDLocked() != playerID {
		return nil, ErrNotYourTurn
	}
	player := r.playerLocked(playerID)
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	cardIdx := -1
	for i, c := range player.Hand {
		if c.ID == cardID {
			cardIdx = i
			break
		}
	}
	if cardIdx < 0 {
		return nil, ErrCardNotFound
	}
	card := player.Hand[cardIdx]

	topCard, ok := r.topCardLocked()
	if !ok {
		return nil, ErrGameNotStarted
	}

	if r.WaitingForEight {
		if !rules.CanPlay(card, topCard, r.ChosenSuit, true, r.rt.eightDrawnCards) {
			return nil, ErrEightPending
		}
		r.clearEightChainLocked()
	} else if !rules.CanPlay(card, topCard, r.ChosenSuit, false, nil) {
		return nil, ErrIllegalCard
	}

	player.Hand = append(player.Hand[:cardIdx], player.Hand[cardIdx+1:]...)
	r.DiscardPile = append(r.DiscardPile, card)

	if card.Rank != deck.Queen {
		r.ChosenSuit = ""
	}

	// Emptying the hand wins the round before any effect resolves.
	if len(player.Hand) == 0 {
		summary := r.finishRoundLocked(playerID)
		return &PlayResult{Card: card, RoundOver: true, Round: summary}, nil
	}

	res := &PlayResult{Card: card}
	steps := 1
	switch card.Rank {
	case deck.Rank6:
		res.ForcedDraw, res.DeckShuffled = r.forcedDrawLocked(1)
		steps = 2
	case deck.Rank7:
		res.ForcedDraw, res.DeckShuffled = r.forcedDrawLocked(2)
		steps = 2
	case deck.Ace:
		steps = 2
	case deck.Rank8:
		if r.DeckSize == deck.Size52 {
			r.WaitingForEight = true
			r.EightDrawUsed = false
		}
	case deck.Queen:
		if chosenSuit != "" {
			r.ChosenSuit = chosenSuit
		}
	}

	r.advanceTurnLocked(steps)
	r.CardDrawnThisTurn = false
	return res, nil
}

// forcedDrawLocked deals count cards to the seat after the current one.
func (r *Room) forcedDrawLocked(count int) (*ForcedDraw, bool) {
	next := r.Players[(r.CurrentPlayerIndex+1)%len(r.Players)]
	drawn := 0
	shuffled := false
	for i := 0; i < count; i++ {
		_, ok, sh := r.drawOneLocked(next)
		shuffled = shuffled || sh
		if ok {
			drawn++
		}
	}
	if drawn == 0 {
		return nil, shuffled
	}
	return &ForcedDraw{PlayerID: next.ID, Nickname: next.Nickname, Count: drawn}, shuffled
}

// DrawResult reports the outcome of a draw action.
type DrawResult struct {
	Drawn        []deck.Card // goes only to the drawer's own view
	DeckShuffled bool
	ChainEnded   bool // an eight chain exhausted the deck and the turn passed
}

// DrawCard performs the current seat's draw. Outside an eight chain it
// takes one voluntary card, at most once per turn, without ending the
// turn. Inside an eight chain it draws until a qualifying card appears
// or deck plus discard are exhausted; every drawn card becomes playable
// this turn. An exhausted chain clears itself and passes the turn.
func (r *Room) DrawCard(playerID string) (*DrawResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.GameStarted {
		return nil, ErrGameNotStarted
	}
	if r.currentPlayerIDLocked() != playerID {
		return nil, ErrNotYourTurn
	}
	player := r.playerLocked(playerID)
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	if r.WaitingForEight {
		return r.eightChainDrawLocked(player)
	}

	if r.CardDrawnThisTurn {
		return nil, ErrAlreadyDrawn
	}
	card, ok, shuffled := r.drawOneLocked(player)
	if !ok {
		return nil, ErrDeckEmpty
	}
	r.CardDrawnThisTurn = true
	return &DrawResult{Drawn: []deck.Card{card}, DeckShuffled: shuffled}, nil
}

// eightChainDrawLocked runs the draw-until-match loop. Bounded by the
// cards remaining in deck plus discard.
func (r *Room) eightChainDrawLocked(player *Player) (*DrawResult, error) {
	if r.EightDrawUsed {
		return nil, ErrEightDrawUsed
	}
	r.EightDrawUsed = true

	res := &DrawResult{}
	matched := false
	for {
		card, ok, shuffled := r.drawOneLocked(player)
		res.DeckShuffled = res.DeckShuffled || shuffled
		if !ok {
			break
		}
		res.Drawn = append(res.Drawn, card)
		r.rt.eightDrawnCards[card.ID] = true

		top, hasTop := r.topCardLocked()
		if hasTop && rules.EndsEightChain(card, top) {
			matched = true
			break
		}
	}

	// No qualifying card left anywhere: the chain dissolves and the turn
	// passes automatically.
	if !matched {
		r.clearEightChainLocked()
		r.advanceTurnLocked(1)
		res.ChainEnded = true
	}
	return res, nil
}

// SkipTurn passes the turn. Allowed only after the voluntary draw was
// taken and never while an eight chain is pending.
func (r *Room) SkipTurn(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.GameStarted {
		return ErrGameNotStarted
	}
	if r.currentPlayerIDLocked() != playerID {
		return ErrNotYourTurn
	}
	if r.WaitingForEight {
		return ErrEightPending
	}
	if !r.CardDrawnThisTurn {
		return ErrDrawFirst
	}
	r.advanceTurnLocked(1)
	r.CardDrawnThisTurn = false
	return nil
}
