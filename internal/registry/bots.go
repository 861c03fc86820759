package registry

import (
	"time"

	"go.uber.org/zap"

	"github.com/jahlib/czech-fool/internal/bot"
	"github.com/jahlib/czech-fool/internal/game"
)

// scheduleBot kicks off a bot move when the room's current seat is a
// bot. The thinking delay runs on its own goroutine so human actions
// are never blocked behind it.
func (reg *Registry) scheduleBot(room *game.Room) {
	botID := room.CurrentPlayerID()
	if botID == "" || !room.IsBotTurn(botID) {
		return
	}
	go func() {
		time.Sleep(reg.opts.BotDelay)
		reg.runBot(room, botID)
	}()
}

// runBot performs one bot decision. Every entry re-checks the room's
// state: the game may have ended, the room may be gone, or a reconnect
// resync may have scheduled the same seat twice.
func (reg *Registry) runBot(room *game.Room, botID string) {
	if !reg.roomExists(room.ID) || !room.IsBotTurn(botID) {
		return
	}
	ctx, ok := room.BotContext(botID)
	if !ok {
		return
	}

	action := bot.Decide(ctx)
	switch action.Kind {
	case bot.ActionPlayCard:
		reg.playCardAs(room, botID, nil, action.CardID, action.ChosenSuit)
	case bot.ActionDrawCard:
		res := reg.drawCardAs(room, botID, nil)
		if res == nil {
			reg.logger.Warn("bot draw rejected",
				zap.String("room_id", room.ID),
				zap.String("bot_id", botID),
			)
			return
		}
		// After a voluntary draw (or an eight chain that found its
		// match) the turn is still the bot's; decide again shortly.
		if room.IsBotTurn(botID) {
			go func() {
				time.Sleep(reg.opts.BotRetryDelay)
				reg.runBot(room, botID)
			}()
		}
	case bot.ActionSkipTurn:
		reg.skipTurnAs(room, botID, nil)
	}
}
