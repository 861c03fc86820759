// Package game implements the room state machine: seats, hands, the
// draw and discard piles, turn sequencing, special-card effects, scoring
// and the round lifecycle. A Room is a unit of mutual exclusion; every
// exported transition takes the room lock, so concurrent actions against
// the same room serialize while different rooms proceed in parallel.
package game

import (
	"context"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/jahlib/czech-fool/internal/deck"
)

const (
	// MaxPlayers is the seat limit per room.
	MaxPlayers = 4
	// HandSize is the number of cards dealt to each seat at round start.
	HandSize = 5
)

// Player is one seat in a room, human or bot. The hand is exclusively
// owned by the seat: a card is in exactly one of hand, draw pile or
// discard pile at all times.
type Player struct {
	ID       string
	Nickname string
	Hand     []deck.Card
	Ready    bool
	Score    int
	IsBot    bool
}

// runtimeState holds per-room fields that only exist while the process
// is alive. They are never part of a persisted snapshot and are rebuilt
// empty when a room is loaded from storage.
type runtimeState struct {
	eightDrawnCards map[string]bool
	countdownActive bool
	countdownCancel context.CancelFunc
}

// Room is the aggregate root for one game. Seat order is the turn
// sequence, fixed at game start and contracting only on elimination or
// pre-game departure.
type Room struct {
	mu sync.Mutex

	ID                 string
	Players            []*Player
	Deck               []deck.Card // top of the pile is the last element
	DiscardPile        []deck.Card // top (active) card is the last element
	CurrentPlayerIndex int
	DealerIndex        int
	GameStarted        bool
	ChosenSuit         deck.Suit
	WaitingForEight    bool
	EightDrawUsed      bool
	CardDrawnThisTurn  bool
	LastLoserID        string
	DeckSize           int
	CreatorID          string
	IsPrivate          bool

	rt runtimeState
}

// NewRoom creates an empty lobby room owned by the given creator seat.
func NewRoom(creator *Player, isPrivate bool) *Room {
	return &Room{
		ID:        uuid.NewString(),
		Players:   []*Player{creator},
		DeckSize:  deck.Size52,
		CreatorID: creator.ID,
		IsPrivate: isPrivate,
		rt:        runtimeState{eightDrawnCards: make(map[string]bool)},
	}
}

// NewPlayer creates a human seat with a fresh ID.
func NewPlayer(nickname string) *Player {
	return &Player{ID: uuid.NewString(), Nickname: nickname}
}

// NewBot creates a bot seat. Bots are always ready.
func NewBot(nickname string) *Player {
	return &Player{ID: "bot_" + uuid.NewString(), Nickname: nickname, Ready: true, IsBot: true}
}

// AddPlayer seats a new player in the lobby. Joining is refused once the
// game has started, once any seat carries a score, or when the room is
// full.
func (r *Room) AddPlayer(p *Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.GameStarted {
		return ErrGameStarted
	}
	if len(r.Players) >= MaxPlayers {
		return ErrRoomFull
	}
	for _, existing := range r.Players {
		if existing.Score != 0 {
			return ErrScoresExist
		}
	}
	r.Players = append(r.Players, p)
	return nil
}

// RemovePlayer drops a seat from the room, keeping the turn pointer on a
// seat that still exists. Returns false when the seat was not present.
func (r *Room) RemovePlayer(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removePlayerLocked(playerID)
}

func (r *Room) removePlayerLocked(playerID string) bool {
	idx := r.playerIndexLocked(playerID)
	if idx < 0 {
		return false
	}
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)
	if len(r.Players) == 0 {
		r.CurrentPlayerIndex = 0
		r.DealerIndex = 0
		return true
	}
	if idx < r.CurrentPlayerIndex {
		r.CurrentPlayerIndex--
	}
	if r.CurrentPlayerIndex >= len(r.Players) {
		r.CurrentPlayerIndex = 0
	}
	if idx < r.DealerIndex {
		r.DealerIndex--
	}
	if r.DealerIndex >= len(r.Players) {
		r.DealerIndex = 0
	}
	return true
}

func (r *Room) playerIndexLocked(playerID string) int {
	for i, p := range r.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

func (r *Room) playerLocked(playerID string) *Player {
	if idx := r.playerIndexLocked(playerID); idx >= 0 {
		return r.Players[idx]
	}
	return nil
}

// Player returns the seat with the given ID, or nil.
func (r *Room) Player(playerID string) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playerLocked(playerID)
}

// HasPlayer reports whether the seat is present in the room.
func (r *Room) HasPlayer(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playerIndexLocked(playerID) >= 0
}

// PlayerIDs returns seat IDs in turn order.
func (r *Room) PlayerIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, len(r.Players))
	for i, p := range r.Players {
		ids[i] = p.ID
	}
	return ids
}

// CurrentPlayerID returns the seat whose turn it is, or "" before the
// game starts or after the room empties.
func (r *Room) CurrentPlayerID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentPlayerIDLocked()
}

func (r *Room) currentPlayerIDLocked() string {
	if len(r.Players) == 0 || r.CurrentPlayerIndex >= len(r.Players) {
		return ""
	}
	return r.Players[r.CurrentPlayerIndex].ID
}

// IsBotTurn reports whether the game is running and it is currently the
// given bot seat's move. Bot tasks re-check this after their thinking
// delay, since the room may have changed while they slept.
func (r *Room) IsBotTurn(botID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.GameStarted {
		return false
	}
	p := r.playerLocked(botID)
	if p == nil || !p.IsBot {
		return false
	}
	return r.currentPlayerIDLocked() == botID
}

// HasHumans reports whether any seat is held by a human.
func (r *Room) HasHumans() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.Players {
		if !p.IsBot {
			return true
		}
	}
	return false
}

// ScoresExist reports whether any seat carries round points, i.e. a
// series is in progress even between rounds.
func (r *Room) ScoresExist() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.Players {
		if p.Score != 0 {
			return true
		}
	}
	return false
}

// Started reports whether a round is in progress.
func (r *Room) Started() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.GameStarted
}

// EightPending reports whether an unresolved eight chain governs the
// current turn.
func (r *Room) EightPending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.WaitingForEight
}

// SetDeckSize changes the deck variant. Creator-only, pre-game.
func (r *Room) SetDeckSize(playerID string, size int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreatorID != playerID {
		return ErrNotCreator
	}
	if r.GameStarted {
		return ErrGameStarted
	}
	if !deck.ValidSize(size) {
		return ErrBadDeckSize
	}
	r.DeckSize = size
	return nil
}

// SetPrivate toggles lobby visibility. Creator-only, and refused once a
// game has started or any score exists.
func (r *Room) SetPrivate(playerID string, private bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreatorID != playerID {
		return ErrNotCreator
	}
	if r.GameStarted {
		return ErrGameStarted
	}
	for _, p := range r.Players {
		if p.Score != 0 {
			return ErrGameStarted
		}
	}
	r.IsPrivate = private
	return nil
}

// CardCount returns deck + discard + all hands; it must always equal the
// configured deck size while a round is running.
func (r *Room) CardCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.Deck) + len(r.DiscardPile)
	for _, p := range r.Players {
		n += len(p.Hand)
	}
	return n
}

// advanceTurnLocked moves the turn pointer forward by steps seats.
func (r *Room) advanceTurnLocked(steps int) {
	if len(r.Players) == 0 {
		return
	}
	r.CurrentPlayerIndex = (r.CurrentPlayerIndex + steps) % len(r.Players)
}

// replenishLocked rebuilds the draw pile from the discard pile when the
// deck runs dry, keeping the active top card on the table. Reports
// whether a reshuffle happened.
func (r *Room) replenishLocked() bool {
	if len(r.Deck) != 0 || len(r.DiscardPile) <= 1 {
		return false
	}
	top := r.DiscardPile[len(r.DiscardPile)-1]
	refill := make([]deck.Card, len(r.DiscardPile)-1)
	copy(refill, r.DiscardPile[:len(r.DiscardPile)-1])
	rand.Shuffle(len(refill), func(i, j int) {
		refill[i], refill[j] = refill[j], refill[i]
	})
	r.Deck = refill
	r.DiscardPile = []deck.Card{top}
	return true
}

// drawOneLocked pops the top card of the draw pile into the given hand,
// replenishing first if needed. Returns the card, whether a card was
// drawn at all, and whether the deck was reshuffled.
func (r *Room) drawOneLocked(p *Player) (deck.Card, bool, bool) {
	shuffled := r.replenishLocked()
	if len(r.Deck) == 0 {
		return deck.Card{}, false, shuffled
	}
	c := r.Deck[len(r.Deck)-1]
	r.Deck = r.Deck[:len(r.Deck)-1]
	p.Hand = append(p.Hand, c)
	return c, true, shuffled
}

func (r *Room) topCardLocked() (deck.Card, bool) {
	if len(r.DiscardPile) == 0 {
		return deck.Card{}, false
	}
	return r.DiscardPile[len(r.DiscardPile)-1], true
}

func (r *Room) clearEightChainLocked() {
	r.WaitingForEight = false
	r.EightDrawUsed = false
	r.rt.eightDrawnCards = make(map[string]bool)
}
