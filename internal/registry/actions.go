package registry

import (
	"go.uber.org/zap"

	"github.com/jahlib/czech-fool/internal/deck"
	"github.com/jahlib/czech-fool/internal/game"
	"github.com/jahlib/czech-fool/internal/protocol"
)

// ToggleReady flips the connection's ready flag and drives the lobby:
// everyone ready starts at once (superseding any countdown), two or
// more ready arms the countdown, and dropping below two cancels it.
func (reg *Registry) ToggleReady(c Client) {
	playerID, room := reg.resolve(c)
	if room == nil {
		return
	}
	st, err := room.ToggleReady(playerID)
	if err != nil {
		reg.replyErr(c, err)
		return
	}

	reg.broadcastRoom(room, protocol.PlayerReadyChanged{
		Type:     "player_ready_changed",
		PlayerID: playerID,
		Ready:    st.Ready,
	}, "")

	switch {
	case st.Total >= 2 && st.ReadyCount == st.Total:
		room.CancelCountdown()
		reg.startGame(room)
	case st.ReadyCount >= 2 && !room.CountdownActive():
		reg.startCountdown(room)
	case st.ReadyCount < 2 && room.CountdownActive():
		room.CancelCountdown()
		reg.broadcastRoom(room, protocol.CountdownCancelled{Type: "countdown_cancelled"}, "")
	}
}

// startGame deals a round and pushes each seat its opening view.
func (reg *Registry) startGame(room *game.Room) {
	res, err := room.StartGame()
	if err != nil {
		reg.logger.Warn("game start failed", zap.String("room_id", room.ID), zap.Error(err))
		return
	}
	reg.saveRoomAsync(room)
	reg.logger.Info("game started", zap.String("room_id", room.ID))

	for _, id := range room.PlayerIDs() {
		ev := protocol.GameStarted{Type: "game_started", TableView: room.ViewFor(id)}
		if res.ForcedDraw != nil {
			ev.ForcedDrawPlayerID = res.ForcedDraw.PlayerID
			ev.ForcedDrawNickname = res.ForcedDraw.Nickname
			ev.ForcedDrawCount = res.ForcedDraw.Count
		}
		reg.sendToPlayer(id, ev)
	}
	if res.DeckShuffled {
		reg.broadcastRoom(room, protocol.DeckShuffled{Type: "deck_shuffled"}, "")
	}
	reg.broadcastRooms()
	reg.scheduleBot(room)
}

// PlayCard plays a card for the acting connection.
func (reg *Registry) PlayCard(c Client, cardID string, chosenSuit deck.Suit) {
	playerID, room := reg.resolve(c)
	if room == nil {
		return
	}
	reg.playCardAs(room, playerID, c, cardID, chosenSuit)
}

// playCardAs is the shared play path for humans and bots (bots pass a
// nil client; their rejected actions are dropped silently).
func (reg *Registry) playCardAs(room *game.Room, playerID string, c Client, cardID string, chosenSuit deck.Suit) {
	res, err := room.PlayCard(playerID, cardID, chosenSuit)
	if err != nil {
		reg.replyErr(c, err)
		return
	}

	if res.RoundOver {
		reg.finishRound(room, res.Round)
		return
	}

	reg.saveRoomAsync(room)

	nickname := ""
	if p := room.Player(playerID); p != nil {
		nickname = p.Nickname
	}
	for _, id := range room.PlayerIDs() {
		ev := protocol.CardPlayed{
			Type:           "card_played",
			PlayerID:       playerID,
			PlayerNickname: nickname,
			Card:           res.Card,
			TableView:      room.ViewFor(id),
		}
		if res.ForcedDraw != nil {
			ev.ForcedDrawPlayerID = res.ForcedDraw.PlayerID
			ev.ForcedDrawNickname = res.ForcedDraw.Nickname
			ev.ForcedDrawCount = res.ForcedDraw.Count
		}
		reg.sendToPlayer(id, ev)
	}
	if res.DeckShuffled {
		reg.broadcastRoom(room, protocol.DeckShuffled{Type: "deck_shuffled"}, "")
	}
	reg.scheduleBot(room)
}

// DrawCard draws for the acting connection.
func (reg *Registry) DrawCard(c Client) {
	playerID, room := reg.resolve(c)
	if room == nil {
		return
	}
	reg.drawCardAs(room, playerID, c)
}

// drawCardAs is the shared draw path. Returns the result so the bot
// loop can decide whether to keep acting.
func (reg *Registry) drawCardAs(room *game.Room, playerID string, c Client) *game.DrawResult {
	res, err := room.DrawCard(playerID)
	if err != nil {
		reg.replyErr(c, err)
		return nil
	}

	reg.saveRoomAsync(room)

	nickname := ""
	if p := room.Player(playerID); p != nil {
		nickname = p.Nickname
	}
	for _, id := range room.PlayerIDs() {
		reg.sendToPlayer(id, protocol.CardDrawn{
			Type:           "card_drawn",
			PlayerID:       playerID,
			PlayerNickname: nickname,
			CardsCount:     len(res.Drawn),
			TableView:      room.ViewFor(id),
		})
	}
	if res.DeckShuffled {
		reg.broadcastRoom(room, protocol.DeckShuffled{Type: "deck_shuffled"}, "")
	}
	if res.ChainEnded {
		// The exhausted chain advanced the turn by itself.
		reg.scheduleBot(room)
	}
	return res
}

// SkipTurn passes the turn for the acting connection.
func (reg *Registry) SkipTurn(c Client) {
	playerID, room := reg.resolve(c)
	if room == nil {
		return
	}
	reg.skipTurnAs(room, playerID, c)
}

func (reg *Registry) skipTurnAs(room *game.Room, playerID string, c Client) {
	if err := room.SkipTurn(playerID); err != nil {
		reg.replyErr(c, err)
		return
	}

	reg.saveRoomAsync(room)

	nickname := ""
	if p := room.Player(playerID); p != nil {
		nickname = p.Nickname
	}
	for _, id := range room.PlayerIDs() {
		reg.sendToPlayer(id, protocol.TurnSkipped{
			Type:           "turn_skipped",
			PlayerID:       playerID,
			PlayerNickname: nickname,
			TableView:      room.ViewFor(id),
		})
	}
	reg.scheduleBot(room)
}

// finishRound broadcasts a round's tally, removes eliminated seats, and
// either returns the room to the lobby or concludes it entirely.
func (reg *Registry) finishRound(room *game.Room, summary *game.RoundSummary) {
	results := make([]protocol.SeatResult, len(summary.Results))
	for i, r := range summary.Results {
		results[i] = protocol.SeatResult{
			PlayerID:   r.PlayerID,
			Nickname:   r.Nickname,
			Points:     r.Points,
			TotalScore: r.TotalScore,
			Hand:       r.Hand,
			QueenBonus: r.QueenBonus,
		}
	}
	ended := protocol.GameEnded{
		Type:     "game_ended",
		WinnerID: summary.WinnerID,
		Results:  results,
	}
	card := summary.WinningCard
	ended.WinningCard = &card

	// Eliminated seats still get the final tally.
	for _, r := range summary.Results {
		reg.sendToPlayer(r.PlayerID, ended)
	}

	if summary.RoomClosed {
		final := protocol.FinalWinner{Type: "final_winner"}
		if summary.FinalWinner != nil {
			final.WinnerID = summary.FinalWinner.ID
			final.WinnerNickname = summary.FinalWinner.Nickname
		}
		for _, p := range summary.Kicked {
			final.KickedPlayers = append(final.KickedPlayers, p.Nickname)
		}
		for _, r := range summary.Results {
			reg.sendToPlayer(r.PlayerID, final)
		}
		reg.logger.Info("room concluded",
			zap.String("room_id", room.ID),
			zap.String("winner_id", final.WinnerID),
		)
		reg.destroyRoom(room)
		reg.broadcastRooms()
		return
	}

	for _, p := range summary.Kicked {
		reg.mu.Lock()
		delete(reg.playerRoom, p.ID)
		reg.mu.Unlock()
		reg.broadcastRoom(room, protocol.PlayerKicked{
			Type:           "player_kicked",
			PlayerID:       p.ID,
			PlayerNickname: p.Nickname,
			Reason:         "scored more than 101 points",
		}, "")
	}

	reg.saveRoomAsync(room)
	info := room.Info()
	reg.broadcastRoom(room, protocol.RoomUpdated{Type: "room_updated", Room: info}, "")
	reg.broadcastRooms()
}
