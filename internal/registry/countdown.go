package registry

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jahlib/czech-fool/internal/game"
	"github.com/jahlib/czech-fool/internal/protocol"
)

// startCountdown arms the pre-start countdown for a room and launches
// the ticking goroutine. The cancel func lives on the room so that any
// lobby change can abort it.
func (reg *Registry) startCountdown(room *game.Room) {
	ctx, cancel := context.WithCancel(context.Background())
	if !room.BeginCountdown(cancel) {
		// One is already ticking; a second goroutine would be
		// uncancellable.
		cancel()
		return
	}
	reg.logger.Debug("countdown armed",
		zap.String("room_id", room.ID),
		zap.Int("seconds", reg.opts.CountdownSeconds),
	)
	go reg.runCountdown(ctx, room)
}

func (reg *Registry) runCountdown(ctx context.Context, room *game.Room) {
	for remaining := reg.opts.CountdownSeconds; remaining > 0; remaining-- {
		reg.broadcastRoom(room, protocol.CountdownTick{
			Type:    "countdown_tick",
			Seconds: remaining,
		}, "")
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}

	// The countdown may have been cancelled, or the room destroyed, while
	// we slept between the last tick and now.
	if ctx.Err() != nil || !reg.roomExists(room.ID) {
		return
	}
	room.FinishCountdown()

	kicked, ok := room.KickUnready()
	for _, p := range kicked {
		reg.mu.Lock()
		delete(reg.playerRoom, p.ID)
		reg.mu.Unlock()
	}
	if !ok {
		reg.logger.Debug("countdown expired without quorum", zap.String("room_id", room.ID))
		reg.broadcastRoom(room, protocol.CountdownCancelled{Type: "countdown_cancelled"}, "")
		return
	}
	reg.startGame(room)
}
