package game

import (
	"github.com/jahlib/czech-fool/internal/deck"
)

// PublicPlayer is a seat as every other seat may see it: hand count
// only, never hand contents.
type PublicPlayer struct {
	ID        string `json:"id"`
	Nickname  string `json:"nickname"`
	HandCount int    `json:"hand_count"`
	Ready     bool   `json:"ready"`
	Score     int    `json:"score"`
	IsBot     bool   `json:"is_bot"`
}

// RoomInfo is the lobby-facing summary used in room listings.
type RoomInfo struct {
	ID          string         `json:"id"`
	Players     []PublicPlayer `json:"players"`
	PlayerCount int            `json:"player_count"`
	GameStarted bool           `json:"game_started"`
	DeckSize    int            `json:"deck_size"`
	CreatorID   string         `json:"creator_id"`
	IsPrivate   bool           `json:"is_private"`
}

// TableView is one seat's complete view of a running game: its own hand
// in full, everyone else as counts. The eight-chain drawn-card IDs are
// disclosed only to the seat whose turn it is.
type TableView struct {
	Hand              []deck.Card    `json:"hand"`
	TopCard           *deck.Card     `json:"top_card"`
	CurrentPlayer     string         `json:"current_player"`
	Dealer            string         `json:"dealer,omitempty"`
	Players           []PublicPlayer `json:"players"`
	DeckCount         int            `json:"deck_count"`
	ChosenSuit        deck.Suit      `json:"chosen_suit,omitempty"`
	WaitingForEight   bool           `json:"waiting_for_eight"`
	EightDrawUsed     bool           `json:"eight_draw_used"`
	CardDrawnThisTurn bool           `json:"card_drawn_this_turn"`
	EightDrawnCards   []string       `json:"eight_drawn_cards"`
	DeckSize          int            `json:"deck_size"`
}

func (r *Room) publicPlayersLocked() []PublicPlayer {
	out := make([]PublicPlayer, len(r.Players))
	for i, p := range r.Players {
		out[i] = PublicPlayer{
			ID:        p.ID,
			Nickname:  p.Nickname,
			HandCount: len(p.Hand),
			Ready:     p.Ready,
			Score:     p.Score,
			IsBot:     p.IsBot,
		}
	}
	return out
}

// Info returns the lobby summary of the room.
func (r *Room) Info() RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RoomInfo{
		ID:          r.ID,
		Players:     r.publicPlayersLocked(),
		PlayerCount: len(r.Players),
		GameStarted: r.GameStarted,
		DeckSize:    r.DeckSize,
		CreatorID:   r.CreatorID,
		IsPrivate:   r.IsPrivate,
	}
}

// ViewFor builds the per-seat table view sent after every action.
func (r *Room) ViewFor(playerID string) TableView {
	r.mu.Lock()
	defer r.mu.Unlock()

	view := TableView{
		Hand:              []deck.Card{},
		CurrentPlayer:     r.currentPlayerIDLocked(),
		Players:           r.publicPlayersLocked(),
		DeckCount:         len(r.Deck),
		ChosenSuit:        r.ChosenSuit,
		WaitingForEight:   r.WaitingForEight,
		EightDrawUsed:     r.EightDrawUsed,
		CardDrawnThisTurn: r.CardDrawnThisTurn,
		EightDrawnCards:   []string{},
		DeckSize:          r.DeckSize,
	}
	if top, ok := r.topCardLocked(); ok {
		c := top
		view.TopCard = &c
	}
	if r.DealerIndex < len(r.Players) {
		view.Dealer = r.Players[r.DealerIndex].ID
	}
	if p := r.playerLocked(playerID); p != nil {
		view.Hand = make([]deck.Card, len(p.Hand))
		copy(view.Hand, p.Hand)
	}
	if playerID == r.currentPlayerIDLocked() {
		for id := range r.rt.eightDrawnCards {
			view.EightDrawnCards = append(view.EightDrawnCards, id)
		}
	}
	return view
}

// BotContext is the slice of room state a bot needs to decide its move.
type BotContext struct {
	Hand            []deck.Card
	TopCard         deck.Card
	ChosenSuit      deck.Suit
	WaitingForEight bool
	EightDrawn      map[string]bool
	CardDrawn       bool
	DeckSize        int
}

// BotContext captures the acting bot's decision inputs. Returns false
// when the game is not running or there is no table card yet.
func (r *Room) BotContext(botID string) (BotContext, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.GameStarted {
		return BotContext{}, false
	}
	p := r.playerLocked(botID)
	if p == nil {
		return BotContext{}, false
	}
	top, ok := r.topCardLocked()
	if !ok {
		return BotContext{}, false
	}

	hand := make([]deck.Card, len(p.Hand))
	copy(hand, p.Hand)
	drawn := make(map[string]bool, len(r.rt.eightDrawnCards))
	for id := range r.rt.eightDrawnCards {
		drawn[id] = true
	}
	return BotContext{
		Hand:            hand,
		TopCard:         top,
		ChosenSuit:      r.ChosenSuit,
		WaitingForEight: r.WaitingForEight,
		EightDrawn:      drawn,
		CardDrawn:       r.CardDrawnThisTurn,
		DeckSize:        r.DeckSize,
	}, true
}
