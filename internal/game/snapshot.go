package game

import (
	"github.com/jahlib/czech-fool/internal/deck"
)

// PlayerSnapshot is the persisted form of a seat.
type PlayerSnapshot struct {
	ID       string
	Nickname string
	Ready    bool
	Score    int
	IsBot    bool
	Hand     []deck.Card
}

// Snapshot is the persisted form of a room: the full aggregate plus
// per-seat hands, deck and discard contents. Runtime-only state (the
// eight-chain drawn-card set, pending timers) is deliberately absent;
// loading reconstructs it empty.
type Snapshot struct {
	ID                 string
	Players            []PlayerSnapshot
	Deck               []deck.Card
	DiscardPile        []deck.Card
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
}

// Snapshot captures a consistent copy of the room for persistence.
func (r *Room) Snapshot() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	players := make([]PlayerSnapshot, len(r.Players))
	for i, p := range r.Players {
		hand := make([]deck.Card, len(p.Hand))
		copy(hand, p.Hand)
		players[i] = PlayerSnapshot{
			ID:       p.ID,
			Nickname: p.Nickname,
			Ready:    p.Ready,
			Score:    p.Score,
			IsBot:    p.IsBot,
			Hand:     hand,
		}
	}
	deckCards := make([]deck.Card, len(r.Deck))
	copy(deckCards, r.Deck)
	discard := make([]deck.Card, len(r.DiscardPile))
	copy(discard, r.DiscardPile)

	return &Snapshot{
		ID:                 r.ID,
		Players:            players,
		Deck:               deckCards,
		DiscardPile:        discard,
		CurrentPlayerIndex: r.CurrentPlayerIndex,
		DealerIndex:        r.DealerIndex,
		GameStarted:        r.GameStarted,
		ChosenSuit:         r.ChosenSuit,
		WaitingForEight:    r.WaitingForEight,
		EightDrawUsed:      r.EightDrawUsed,
		CardDrawnThisTurn:  r.CardDrawnThisTurn,
		LastLoserID:        r.LastLoserID,
		DeckSize:           r.DeckSize,
		CreatorID:          r.CreatorID,
		IsPrivate:          r.IsPrivate,
	}
}

// FromSnapshot rebuilds an in-memory room from its persisted form.
func FromSnapshot(s *Snapshot) *Room {
	players := make([]*Player, len(s.Players))
	for i, ps := range s.Players {
		hand := make([]deck.Card, len(ps.Hand))
		copy(hand, ps.Hand)
		players[i] = &Player{
			ID:       ps.ID,
			Nickname: ps.Nickname,
			Ready:    ps.Ready,
			Score:    ps.Score,
			IsBot:    ps.IsBot,
			Hand:     hand,
		}
	}

	deckSize := s.DeckSize
	if !deck.ValidSize(deckSize) {
		deckSize = deck.Size52
	}

	// The chain's drawn-card set is transient and gone after a restore;
	// re-open the chain draw so the seat is never left without a move.
	eightDrawUsed := s.EightDrawUsed
	if s.WaitingForEight {
		eightDrawUsed = false
	}

	return &Room{
		ID:                 s.ID,
		Players:            players,
		Deck:               append([]deck.Card(nil), s.Deck...),
		DiscardPile:        append([]deck.Card(nil), s.DiscardPile...),
		CurrentPlayerIndex: s.CurrentPlayerIndex,
		DealerIndex:        s.DealerIndex,
		GameStarted:        s.GameStarted,
		ChosenSuit:         s.ChosenSuit,
		WaitingForEight:    s.WaitingForEight,
		EightDrawUsed:      eightDrawUsed,
		CardDrawnThisTurn:  s.CardDrawnThisTurn,
		LastLoserID:        s.LastLoserID,
		DeckSize:           deckSize,
		CreatorID:          s.CreatorID,
		IsPrivate:          s.IsPrivate,
		rt:                 runtimeState{eightDrawnCards: make(map[string]bool)},
	}
}
