// Package protocol defines the JSON messages exchanged with clients.
// Every seat-targeted event carries that seat's own full hand and only
// hand counts for opponents; the server resends a full table view after
// every action rather than diffs.
package protocol

import (
	"github.com/jahlib/czech-fool/internal/deck"
	"github.com/jahlib/czech-fool/internal/game"
)

// Inbound action types.
const (
	TypeCreateRoom     = "create_room"
	TypeCreateBotGame  = "create_bot_game"
	TypeJoinRoom       = "join_room"
	TypeToggleReady    = "toggle_ready"
	TypePlayCard       = "play_card"
	TypeDrawCard       = "draw_card"
	TypeSkipTurn       = "skip_turn"
	TypeReconnect      = "reconnect"
	TypeGetRooms       = "get_rooms"
	TypeChatMessage    = "chat_message"
	TypeChangeDeckSize = "change_deck_size"
	TypeTogglePrivate  = "toggle_private"
)

// Inbound is the envelope for every client action; unused fields stay
// zero for a given type.
type Inbound struct {
	Type       string    `json:"type"`
	Nickname   string    `json:"nickname,omitempty"`
	IsPrivate  bool      `json:"is_private,omitempty"`
	BotCount   int       `json:"bot_count,omitempty"`
	DeckSize   int       `json:"deck_size,omitempty"`
	RoomID     string    `json:"room_id,omitempty"`
	PlayerID   string    `json:"player_id,omitempty"`
	CardID     string    `json:"card_id,omitempty"`
	ChosenSuit deck.Suit `json:"chosen_suit,omitempty"`
	Message    string    `json:"message,omitempty"`
}

// Error is the error event sent for any rejected action. The connection
// stays open.
type Error struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
}

// NewError builds an error event.
func NewError(message, code string) Error {
	return Error{Type: "error", Message: message, ErrorCode: code}
}

// RoomCreated acknowledges create_room / create_bot_game; RoomJoined
// acknowledges join_room and reconnects into a lobby.
type RoomCreated struct {
	Type     string        `json:"type"` // room_created or room_joined
	Room     game.RoomInfo `json:"room"`
	PlayerID string        `json:"player_id"`
	RoomID   string        `json:"room_id"`
}

// PlayerJoined announces a new seat to the rest of the room.
type PlayerJoined struct {
	Type   string            `json:"type"` // player_joined
	Player game.PublicPlayer `json:"player"`
}

// PlayerReadyChanged announces a ready toggle.
type PlayerReadyChanged struct {
	Type     string `json:"type"` // player_ready_changed
	PlayerID string `json:"player_id"`
	Ready    bool   `json:"ready"`
}

// CountdownTick is broadcast once per second while a pre-start countdown
// runs.
type CountdownTick struct {
	Type    string `json:"type"` // countdown_tick
	Seconds int    `json:"seconds"`
}

// CountdownCancelled announces a cancelled or failed countdown.
type CountdownCancelled struct {
	Type string `json:"type"` // countdown_cancelled
}

// GameStarted carries a seat's opening view. Also used to resync a
// reconnecting seat into a running game.
type GameStarted struct {
	Type string `json:"type"` // game_started
	game.TableView
	ForcedDrawPlayerID string `json:"forced_draw_player_id,omitempty"`
	ForcedDrawNickname string `json:"forced_draw_player_nickname,omitempty"`
	ForcedDrawCount    int    `json:"forced_draw_count,omitempty"`
}

// CardPlayed carries a seat's view after a card play.
type CardPlayed struct {
	Type           string    `json:"type"` // card_played
	PlayerID       string    `json:"player_id"`
	PlayerNickname string    `json:"player_nickname"`
	Card           deck.Card `json:"card"`
	game.TableView
	ForcedDrawPlayerID string `json:"forced_draw_player_id,omitempty"`
	ForcedDrawNickname string `json:"forced_draw_player_nickname,omitempty"`
	ForcedDrawCount    int    `json:"forced_draw_count,omitempty"`
}

// CardDrawn carries a seat's view after a draw action.
type CardDrawn struct {
	Type           string `json:"type"` // card_drawn
	PlayerID       string `json:"player_id"`
	PlayerNickname string `json:"player_nickname"`
	CardsCount     int    `json:"cards_count"`
	game.TableView
}

// TurnSkipped carries a seat's view after a skipped turn.
type TurnSkipped struct {
	Type           string `json:"type"` // turn_skipped
	PlayerID       string `json:"player_id"`
	PlayerNickname string `json:"player_nickname"`
	game.TableView
}

// DeckShuffled tells players the discard pile was reshuffled into a new
// draw pile.
type DeckShuffled struct {
	Type string `json:"type"` // deck_shuffled
}

// SeatResult is one line of the end-of-round tally on the wire.
type SeatResult struct {
	PlayerID   string      `json:"player_id"`
	Nickname   string      `json:"nickname"`
	Points     int         `json:"points"`
	TotalScore int         `json:"total_score"`
	Hand       []deck.Card `json:"hand"`
	QueenBonus int         `json:"queen_bonus,omitempty"`
}

// GameEnded announces the round result.
type GameEnded struct {
	Type        string       `json:"type"` // game_ended
	WinnerID    string       `json:"winner_id"`
	WinningCard *deck.Card   `json:"winning_card"`
	Results     []SeatResult `json:"results"`
}

// PlayerKicked announces an elimination.
type PlayerKicked struct {
	Type           string `json:"type"` // player_kicked
	PlayerID       string `json:"player_id"`
	PlayerNickname string `json:"player_nickname"`
	Reason         string `json:"reason"`
}

// FinalWinner concludes a room after eliminations leave fewer than two
// seats.
type FinalWinner struct {
	Type           string   `json:"type"` // final_winner
	WinnerID       string   `json:"winner_id"`
	WinnerNickname string   `json:"winner_nickname"`
	KickedPlayers  []string `json:"kicked_players"`
}

// RoomUpdated resends the lobby summary after a round returns the room
// to the lobby.
type RoomUpdated struct {
	Type string        `json:"type"` // room_updated
	Room game.RoomInfo `json:"room"`
}

// PlayerPresence covers player_disconnected / player_reconnected.
type PlayerPresence struct {
	Type     string `json:"type"`
	PlayerID string `json:"player_id"`
	Nickname string `json:"nickname"`
}

// PlayerLeft announces a pre-game departure.
type PlayerLeft struct {
	Type     string `json:"type"` // player_left
	PlayerID string `json:"player_id"`
}

// RoomClosed announces that the room was destroyed.
type RoomClosed struct {
	Type    string `json:"type"` // room_closed
	Message string `json:"message"`
}

// RoomsList is the public lobby listing.
type RoomsList struct {
	Type  string          `json:"type"` // rooms_list
	Rooms []game.RoomInfo `json:"rooms"`
}

// ChatMessage relays a chat line to the whole room.
type ChatMessage struct {
	Type           string `json:"type"` // chat_message
	Message        string `json:"message"`
	PlayerID       string `json:"player_id"`
	PlayerNickname string `json:"player_nickname"`
}

// DeckSizeChanged announces the creator switching deck variants.
type DeckSizeChanged struct {
	Type     string `json:"type"` // deck_size_changed
	DeckSize int    `json:"deck_size"`
}

// RoomPrivacyChanged announces the creator toggling lobby visibility.
type RoomPrivacyChanged struct {
	Type      string `json:"type"` // room_privacy_changed
	IsPrivate bool   `json:"is_private"`
}
