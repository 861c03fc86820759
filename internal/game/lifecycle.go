package game

import (
	"context"
	"errors"
	"math/rand"

	"github.com/jahlib/czech-fool/internal/deck"
)

// ReadyState summarizes lobby readiness after a toggle.
type ReadyState struct {
	Ready      bool
	ReadyCount int
	Total      int
}

// ToggleReady flips a seat's ready flag and reports the room's readiness
// so the caller can decide whether to start, arm or cancel a countdown.
func (r *Room) ToggleReady(playerID string) (ReadyState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	player := r.playerLocked(playerID)
	if player == nil {
		return ReadyState{}, ErrPlayerNotFound
	}
	player.Ready = !player.Ready

	st := ReadyState{Ready: player.Ready, Total: len(r.Players)}
	for _, p := range r.Players {
		if p.Ready {
			st.ReadyCount++
		}
	}
	return st, nil
}

// BeginCountdown arms the room's single pre-start countdown and stores
// its cancel handle. Returns false when one is already running.
func (r *Room) BeginCountdown(cancel context.CancelFunc) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rt.countdownActive {
		return false
	}
	r.rt.countdownActive = true
	r.rt.countdownCancel = cancel
	return true
}

// CancelCountdown stops a running countdown, if any. The cancelled task
// must not emit further ticks nor fire its completion action.
func (r *Room) CancelCountdown() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.rt.countdownActive {
		return false
	}
	if r.rt.countdownCancel != nil {
		r.rt.countdownCancel()
	}
	r.rt.countdownActive = false
	r.rt.countdownCancel = nil
	return true
}

// FinishCountdown clears countdown state once the timer expired on its
// own.
func (r *Room) FinishCountdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rt.countdownActive = false
	r.rt.countdownCancel = nil
}

// ReadyCount reports how many seats are currently ready.
func (r *Room) ReadyCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.Players {
		if p.Ready {
			n++
		}
	}
	return n
}

// CountdownActive reports whether a pre-start countdown is running.
func (r *Room) CountdownActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rt.countdownActive
}

// KickUnready removes every not-ready seat, provided at least two ready
// seats remain to play. Returns the removed seats and whether the start
// may proceed.
func (r *Room) KickUnready() ([]*Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ready := 0
	for _, p := range r.Players {
		if p.Ready {
			ready++
		}
	}
	if ready < 2 {
		return nil, false
	}

	var kicked []*Player
	for _, p := range r.Players {
		if !p.Ready {
			kicked = append(kicked, p)
		}
	}
	for _, p := range kicked {
		r.removePlayerLocked(p.ID)
	}
	return kicked, true
}

// StartResult reports the opening state of a round.
type StartResult struct {
	FirstCard    deck.Card
	ForcedDraw   *ForcedDraw
	DeckShuffled bool
}

// StartGame deals a fresh round: new shuffled deck, five cards per seat,
// one card onto the table. The dealer is last round's loser when still
// seated, otherwise random; the seat after the dealer acts first. The
// first table card's own effect fires exactly as if it had just been
// played, before anyone acts.
func (r *Room) StartGame() (*StartResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.GameStarted {
		return nil, ErrGameStarted
	}
	if len(r.Players) < 2 {
		return nil, errors.New("at least 2 players required")
	}

	r.GameStarted = true
	r.Deck = deck.New(r.DeckSize)
	r.clearEightChainLocked()
	r.ChosenSuit = ""
	r.CardDrawnThisTurn = false

	for _, p := range r.Players {
		p.Hand = nil
		for i := 0; i < HandSize; i++ {
			r.drawOneLocked(p)
		}
	}

	first := r.Deck[len(r.Deck)-1]
	r.Deck = r.Deck[:len(r.Deck)-1]
	r.DiscardPile = []deck.Card{first}

	if idx := r.playerIndexLocked(r.LastLoserID); idx >= 0 {
		r.DealerIndex = idx
	} else {
		r.DealerIndex = rand.Intn(len(r.Players))
	}
	r.CurrentPlayerIndex = (r.DealerIndex + 1) % len(r.Players)

	res := &StartResult{FirstCard: first}
	switch first.Rank {
	case deck.Rank6:
		res.ForcedDraw, res.DeckShuffled = r.startForcedDrawLocked(1)
		r.advanceTurnLocked(1)
	case deck.Rank7:
		res.ForcedDraw, res.DeckShuffled = r.startForcedDrawLocked(2)
		r.advanceTurnLocked(1)
	case deck.Rank8:
		if r.DeckSize == deck.Size52 {
			r.WaitingForEight = true
			r.EightDrawUsed = false
		}
	case deck.Ace:
		r.advanceTurnLocked(1)
	case deck.Queen:
		r.ChosenSuit = deck.Suits[rand.Intn(len(deck.Suits))]
	}

	return res, nil
}

// startForcedDrawLocked deals the opening 6/7 penalty to the seat that
// would otherwise act first.
func (r *Room) startForcedDrawLocked(count int) (*ForcedDraw, bool) {
	target := r.Players[r.CurrentPlayerIndex]
	drawn := 0
	shuffled := false
	for i := 0; i < count; i++ {
		_, ok, sh := r.drawOneLocked(target)
		shuffled = shuffled || sh
		if ok {
			drawn++
		}
	}
	if drawn == 0 {
		return nil, shuffled
	}
	return &ForcedDraw{PlayerID: target.ID, Nickname: target.Nickname, Count: drawn}, shuffled
}
