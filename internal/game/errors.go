package game

import "errors"

// Validation errors surfaced to players as error events. None of them
// leaves the room state modified.
var (
	ErrRoomNotFound   = errors.New("room not found or no longer exists")
	ErrPlayerNotFound = errors.New("player not found in this room")
	ErrGameStarted    = errors.New("game already started")
	ErrGameNotStarted = errors.New("game not started")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrCardNotFound   = errors.New("card not found in hand")
	ErrIllegalCard    = errors.New("cannot play this card")
	ErrEightPending   = errors.New("must play a 2 or draw cards")
	ErrEightDrawUsed  = errors.New("eight-chain draw already used this turn")
	ErrAlreadyDrawn   = errors.New("card already drawn this turn")
	ErrDeckEmpty      = errors.New("deck is empty")
	ErrDrawFirst      = errors.New("draw a card before skipping the turn")
	ErrNotCreator     = errors.New("only the room creator may do this")
	ErrRoomFull       = errors.New("room is full")
	ErrScoresExist    = errors.New("cannot join: players already have scores")
	ErrBadDeckSize    = errors.New("deck size must be 36 or 52")
	ErrBadBotCount    = errors.New("bot count must be between 1 and 3")
)

// ErrorCode returns the machine-readable code for an error event, or ""
// when the error carries none.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, ErrPlayerNotFound):
		return "player_not_found"
	case errors.Is(err, ErrGameStarted):
		return "game_started"
	}
	return ""
}
