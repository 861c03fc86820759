// Package registry owns the set of live rooms and the three indices
// tying them together: connection to player, player to room, and room
// ID to room. The indices are always updated together under one lock so
// none can go stale relative to another. Rooms themselves serialize
// their own mutations; the registry adds fan-out, countdown and bot
// scheduling, and fire-and-forget persistence on top.
package registry

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jahlib/czech-fool/internal/bot"
	"github.com/jahlib/czech-fool/internal/deck"
	"github.com/jahlib/czech-fool/internal/game"
	"github.com/jahlib/czech-fool/internal/protocol"
)

// Client is one connected player's outbound channel. Implementations
// must be safe for concurrent Send calls.
type Client interface {
	Send(v any) error
}

// Store is the persistence contract the registry saves through. Saves
// are fire-and-forget: memory stays authoritative while the process is
// alive and a failed save is logged, never rolled back.
type Store interface {
	SaveRoom(ctx context.Context, snap *game.Snapshot) error
	// LoadRoom returns (nil, nil) when no such room is persisted.
	LoadRoom(ctx context.Context, id string) (*game.Snapshot, error)
	DeleteRoom(ctx context.Context, id string) error
	ListRoomIDs(ctx context.Context) ([]string, error)
	PurgeInactiveSince(ctx context.Context, age time.Duration) (int, error)
}

// Options tunes registry timing. Zero values fall back to production
// defaults; tests shorten them.
type Options struct {
	CountdownSeconds int           // pre-start countdown length
	BotDelay         time.Duration // bot "thinking" pause before acting
	BotRetryDelay    time.Duration // pause before a bot re-decides after drawing
	SaveTimeout      time.Duration // per-save deadline
}

func (o Options) withDefaults() Options {
	if o.CountdownSeconds == 0 {
		o.CountdownSeconds = 24
	}
	if o.BotDelay == 0 {
		o.BotDelay = 1500 * time.Millisecond
	}
	if o.BotRetryDelay == 0 {
		o.BotRetryDelay = time.Second
	}
	if o.SaveTimeout == 0 {
		o.SaveTimeout = 5 * time.Second
	}
	return o
}

const maxChatLength = 200

// Registry coordinates all rooms and connected clients.
type Registry struct {
	mu           sync.RWMutex
	rooms        map[string]*game.Room
	playerRoom   map[string]string
	clientPlayer map[Client]string
	playerClient map[string]Client

	store  Store
	logger *zap.Logger
	opts   Options
}

// New creates a registry backed by the given store.
func New(store Store, logger *zap.Logger, opts Options) *Registry {
	return &Registry{
		rooms:        make(map[string]*game.Room),
		playerRoom:   make(map[string]string),
		clientPlayer: make(map[Client]string),
		playerClient: make(map[string]Client),
		store:        store,
		logger:       logger,
		opts:         opts.withDefaults(),
	}
}

// LoadPersistedRooms restores every room from the store into memory,
// rebuilding the player-to-room index. Called once at startup.
func (reg *Registry) LoadPersistedRooms(ctx context.Context) error {
	ids, err := reg.store.ListRoomIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := reg.loadRoom(ctx, id); err != nil {
			reg.logger.Warn("failed to load room", zap.String("room_id", id), zap.Error(err))
		}
	}
	reg.logger.Info("rooms restored from store", zap.Int("count", len(ids)))
	return nil
}

// loadRoom pulls one room from the store into memory. Returns nil when
// the room is not persisted.
func (reg *Registry) loadRoom(ctx context.Context, roomID string) (*game.Room, error) {
	snap, err := reg.store.LoadRoom(ctx, roomID)
	if err != nil || snap == nil {
		return nil, err
	}
	room := game.FromSnapshot(snap)

	reg.mu.Lock()
	reg.rooms[room.ID] = room
	for _, id := range snap.Players {
		reg.playerRoom[id.ID] = room.ID
	}
	reg.mu.Unlock()
	return room, nil
}

// Attach registers a fresh connection under a temporary identity so it
// receives lobby updates, and sends it the current rooms list.
func (reg *Registry) Attach(c Client) {
	tempID := uuid.NewString()
	reg.mu.Lock()
	reg.clientPlayer[c] = tempID
	reg.playerClient[tempID] = c
	reg.mu.Unlock()

	reg.send(c, protocol.RoomsList{Type: "rooms_list", Rooms: reg.openRooms()})
}

// bind ties a connection to a real player identity, replacing any
// temporary one, and records the player's room. All three indices move
// together.
func (reg *Registry) bind(c Client, playerID, roomID string) {
	reg.mu.Lock()
	if old, ok := reg.clientPlayer[c]; ok {
		delete(reg.playerClient, old)
	}
	// A reconnect supersedes the seat's previous connection, which must
	// stop resolving to the player or its eventual death would tear down
	// the fresh binding.
	if prev, ok := reg.playerClient[playerID]; ok && prev != c {
		delete(reg.clientPlayer, prev)
	}
	reg.clientPlayer[c] = playerID
	reg.playerClient[playerID] = c
	reg.playerRoom[playerID] = roomID
	reg.mu.Unlock()
}

// resolve maps a connection to its player and room. A nil room means
// the connection is not seated anywhere.
func (reg *Registry) resolve(c Client) (string, *game.Room) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	playerID, ok := reg.clientPlayer[c]
	if !ok {
		return "", nil
	}
	roomID, ok := reg.playerRoom[playerID]
	if !ok {
		return playerID, nil
	}
	return playerID, reg.rooms[roomID]
}

func (reg *Registry) room(roomID string) *game.Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.rooms[roomID]
}

func (reg *Registry) roomExists(roomID string) bool {
	return reg.room(roomID) != nil
}

// send delivers an event to one connection, dropping it on failure; a
// dead connection is cleaned up by its own read loop.
func (reg *Registry) send(c Client, v any) {
	if c == nil {
		return
	}
	if err := c.Send(v); err != nil {
		reg.logger.Debug("send failed", zap.Error(err))
	}
}

func (reg *Registry) sendToPlayer(playerID string, v any) {
	reg.mu.RLock()
	c := reg.playerClient[playerID]
	reg.mu.RUnlock()
	reg.send(c, v)
}

// broadcastRoom sends an event to every seat in the room except
// excludePlayer.
func (reg *Registry) broadcastRoom(room *game.Room, v any, excludePlayer string) {
	for _, id := range room.PlayerIDs() {
		if id == excludePlayer {
			continue
		}
		reg.sendToPlayer(id, v)
	}
}

// replyErr sends a validation error back to the acting connection. Bots
// act without a connection; their rejected actions are simply dropped.
func (reg *Registry) replyErr(c Client, err error) {
	if c == nil || err == nil {
		return
	}
	reg.send(c, protocol.NewError(err.Error(), game.ErrorCode(err)))
}

// saveRoomAsync persists the room without blocking the action that
// changed it. Failures are logged; memory remains the source of truth.
func (reg *Registry) saveRoomAsync(room *game.Room) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), reg.opts.SaveTimeout)
		defer cancel()
		if err := reg.store.SaveRoom(ctx, room.Snapshot()); err != nil {
			reg.logger.Warn("room save failed", zap.String("room_id", room.ID), zap.Error(err))
		}
	}()
}

// destroyRoom drops the room from memory and the store, unseating every
// player that was mapped to it.
func (reg *Registry) destroyRoom(room *game.Room) {
	reg.mu.Lock()
	delete(reg.rooms, room.ID)
	for playerID, roomID := range reg.playerRoom {
		if roomID == room.ID {
			delete(reg.playerRoom, playerID)
		}
	}
	reg.mu.Unlock()

	room.CancelCountdown()
	reg.deleteStoredRoom(room.ID)
}

// deleteStoredRoom drops the room's persisted state in the background.
func (reg *Registry) deleteStoredRoom(roomID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), reg.opts.SaveTimeout)
		defer cancel()
		if err := reg.store.DeleteRoom(ctx, roomID); err != nil {
			reg.logger.Warn("room delete failed", zap.String("room_id", roomID), zap.Error(err))
		}
	}()
}

// CreateRoom seats the connection in a brand-new lobby room.
func (reg *Registry) CreateRoom(c Client, nickname string, isPrivate bool) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		reg.send(c, protocol.NewError("nickname required", ""))
		return
	}

	player := game.NewPlayer(nickname)
	room := game.NewRoom(player, isPrivate)

	reg.mu.Lock()
	reg.rooms[room.ID] = room
	reg.mu.Unlock()
	reg.bind(c, player.ID, room.ID)

	reg.saveRoomAsync(room)
	reg.logger.Info("room created",
		zap.String("room_id", room.ID),
		zap.String("player_id", player.ID),
		zap.Bool("private", isPrivate),
	)

	reg.send(c, protocol.RoomCreated{
		Type:     "room_created",
		Room:     room.Info(),
		PlayerID: player.ID,
		RoomID:   room.ID,
	})
	reg.broadcastRooms()
}

// CreateBotGame seats the connection in a new room pre-filled with
// bots, which are always ready.
func (reg *Registry) CreateBotGame(c Client, nickname string, botCount, deckSize int) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		reg.send(c, protocol.NewError("nickname required", ""))
		return
	}
	if botCount < 1 || botCount > 3 {
		reg.replyErr(c, game.ErrBadBotCount)
		return
	}
	if !deck.ValidSize(deckSize) {
		reg.replyErr(c, game.ErrBadDeckSize)
		return
	}

	player := game.NewPlayer(nickname)
	room := game.NewRoom(player, false)
	if err := room.SetDeckSize(player.ID, deckSize); err != nil {
		reg.replyErr(c, err)
		return
	}
	for _, name := range bot.Nicknames(botCount) {
		if err := room.AddPlayer(game.NewBot(name)); err != nil {
			reg.replyErr(c, err)
			return
		}
	}

	reg.mu.Lock()
	reg.rooms[room.ID] = room
	reg.mu.Unlock()
	reg.bind(c, player.ID, room.ID)

	reg.saveRoomAsync(room)
	reg.logger.Info("bot game created",
		zap.String("room_id", room.ID),
		zap.Int("bots", botCount),
		zap.Int("deck_size", deckSize),
	)

	reg.send(c, protocol.RoomCreated{
		Type:     "room_created",
		Room:     room.Info(),
		PlayerID: player.ID,
		RoomID:   room.ID,
	})
	reg.broadcastRooms()
}

// JoinRoom seats the connection in an existing lobby room.
func (reg *Registry) JoinRoom(c Client, roomID, nickname string) {
	nickname = strings.TrimSpace(nickname)
	if roomID == "" || nickname == "" {
		reg.send(c, protocol.NewError("room id and nickname required", ""))
		return
	}
	room := reg.room(roomID)
	if room == nil {
		reg.replyErr(c, game.ErrRoomNotFound)
		return
	}

	player := game.NewPlayer(nickname)
	if err := room.AddPlayer(player); err != nil {
		reg.replyErr(c, err)
		return
	}
	reg.bind(c, player.ID, room.ID)

	reg.saveRoomAsync(room)

	reg.send(c, protocol.RoomCreated{
		Type:     "room_joined",
		Room:     room.Info(),
		PlayerID: player.ID,
		RoomID:   room.ID,
	})
	reg.broadcastRoom(room, protocol.PlayerJoined{
		Type: "player_joined",
		Player: game.PublicPlayer{
			ID:       player.ID,
			Nickname: player.Nickname,
		},
	}, player.ID)
	reg.broadcastRooms()
}

// Reconnect rebinds a connection to an existing seat, loading the room
// from the store if it fell out of memory, and resyncs the seat's view.
func (reg *Registry) Reconnect(c Client, playerID, roomID string) {
	if playerID == "" || roomID == "" {
		reg.send(c, protocol.NewError("player id and room id required", ""))
		return
	}

	room := reg.room(roomID)
	if room == nil {
		loaded, err := reg.loadRoom(context.Background(), roomID)
		if err != nil {
			reg.logger.Warn("reconnect load failed", zap.String("room_id", roomID), zap.Error(err))
		}
		room = loaded
	}
	if room == nil {
		reg.replyErr(c, game.ErrRoomNotFound)
		return
	}
	player := room.Player(playerID)
	if player == nil {
		reg.replyErr(c, game.ErrPlayerNotFound)
		return
	}

	reg.bind(c, playerID, room.ID)
	reg.logger.Info("player reconnected",
		zap.String("room_id", room.ID),
		zap.String("player_id", playerID),
	)

	reg.broadcastRoom(room, protocol.PlayerPresence{
		Type:     "player_reconnected",
		PlayerID: playerID,
		Nickname: player.Nickname,
	}, playerID)

	if room.Started() {
		reg.send(c, protocol.GameStarted{Type: "game_started", TableView: room.ViewFor(playerID)})
		reg.scheduleBot(room)
		return
	}
	reg.send(c, protocol.RoomCreated{
		Type:     "room_joined",
		Room:     room.Info(),
		PlayerID: playerID,
		RoomID:   room.ID,
	})
}

// Detach handles a dropped connection. Mid-game (or between rounds with
// scores on the table) the seat is kept for reconnection; otherwise the
// seat is removed, and rooms left without humans — or private rooms
// abandoned by their creator — are destroyed.
func (reg *Registry) Detach(c Client) {
	reg.mu.Lock()
	playerID, ok := reg.clientPlayer[c]
	if ok {
		delete(reg.clientPlayer, c)
		// A superseded connection must not unbind the one that replaced it.
		if reg.playerClient[playerID] == c {
			delete(reg.playerClient, playerID)
		}
	}
	roomID := reg.playerRoom[playerID]
	room := reg.rooms[roomID]
	reg.mu.Unlock()

	if !ok || room == nil || !room.HasPlayer(playerID) {
		return
	}

	if room.Started() || room.ScoresExist() {
		nickname := ""
		if p := room.Player(playerID); p != nil {
			nickname = p.Nickname
		}
		reg.broadcastRoom(room, protocol.PlayerPresence{
			Type:     "player_disconnected",
			PlayerID: playerID,
			Nickname: nickname,
		}, playerID)
		reg.saveRoomAsync(room)
		return
	}

	info := room.Info()
	room.RemovePlayer(playerID)
	reg.mu.Lock()
	delete(reg.playerRoom, playerID)
	reg.mu.Unlock()

	switch {
	case info.IsPrivate && info.CreatorID == playerID:
		reg.broadcastRoom(room, protocol.RoomClosed{
			Type:    "room_closed",
			Message: "room creator left; the room is closed",
		}, "")
		reg.destroyRoom(room)
	case !room.HasHumans():
		reg.destroyRoom(room)
	default:
		// Losing a ready seat can drop the room below countdown quorum.
		if room.CountdownActive() && room.ReadyCount() < 2 {
			room.CancelCountdown()
			reg.broadcastRoom(room, protocol.CountdownCancelled{Type: "countdown_cancelled"}, "")
		}
		reg.broadcastRoom(room, protocol.PlayerLeft{Type: "player_left", PlayerID: playerID}, "")
		reg.saveRoomAsync(room)
	}
	reg.broadcastRooms()
}

// Chat relays a chat line to the sender's room, truncated to the
// maximum length.
func (reg *Registry) Chat(c Client, message string) {
	playerID, room := reg.resolve(c)
	if room == nil {
		reg.send(c, protocol.NewError("you are not in a room", ""))
		return
	}
	player := room.Player(playerID)
	if player == nil {
		return
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	// Truncate by rune count so a multi-byte character is never cut in
	// half.
	if runes := []rune(message); len(runes) > maxChatLength {
		message = string(runes[:maxChatLength])
	}
	reg.broadcastRoom(room, protocol.ChatMessage{
		Type:           "chat_message",
		Message:        player.Nickname + ": " + message,
		PlayerID:       playerID,
		PlayerNickname: player.Nickname,
	}, "")
}

// ChangeDeckSize switches the room's deck variant. Creator-only,
// pre-game.
func (reg *Registry) ChangeDeckSize(c Client, size int) {
	playerID, room := reg.resolve(c)
	if room == nil {
		return
	}
	if err := room.SetDeckSize(playerID, size); err != nil {
		reg.replyErr(c, err)
		return
	}
	reg.saveRoomAsync(room)
	reg.broadcastRoom(room, protocol.DeckSizeChanged{Type: "deck_size_changed", DeckSize: size}, "")
}

// TogglePrivate switches the room's lobby visibility. Creator-only,
// before any score exists.
func (reg *Registry) TogglePrivate(c Client, private bool) {
	playerID, room := reg.resolve(c)
	if room == nil {
		return
	}
	if err := room.SetPrivate(playerID, private); err != nil {
		reg.replyErr(c, err)
		return
	}
	reg.saveRoomAsync(room)
	reg.broadcastRoom(room, protocol.RoomPrivacyChanged{Type: "room_privacy_changed", IsPrivate: private}, "")
	reg.broadcastRooms()
}

// SendRooms sends the public lobby listing to one connection.
func (reg *Registry) SendRooms(c Client) {
	reg.send(c, protocol.RoomsList{Type: "rooms_list", Rooms: reg.openRooms()})
}

// openRooms builds the public lobby listing: joinable rooms with at
// least one human, no scores, and not private. Bot-only rooms are
// pruned from the indices in the same locked pass, so a concurrent join
// cannot land in a room about to be destroyed.
func (reg *Registry) openRooms() []game.RoomInfo {
	open := []game.RoomInfo{}
	var pruned []*game.Room

	reg.mu.Lock()
	for id, room := range reg.rooms {
		if !room.HasHumans() {
			delete(reg.rooms, id)
			for playerID, roomID := range reg.playerRoom {
				if roomID == id {
					delete(reg.playerRoom, playerID)
				}
			}
			pruned = append(pruned, room)
			continue
		}
		info := room.Info()
		if room.Started() || room.ScoresExist() || info.IsPrivate {
			continue
		}
		open = append(open, info)
	}
	reg.mu.Unlock()

	for _, room := range pruned {
		reg.logger.Info("pruning bot-only room", zap.String("room_id", room.ID))
		room.CancelCountdown()
		reg.deleteStoredRoom(room.ID)
	}
	return open
}

// broadcastRooms pushes the lobby listing to every connection.
func (reg *Registry) broadcastRooms() {
	listing := protocol.RoomsList{Type: "rooms_list", Rooms: reg.openRooms()}

	reg.mu.RLock()
	clients := make([]Client, 0, len(reg.clientPlayer))
	for c := range reg.clientPlayer {
		clients = append(clients, c)
	}
	reg.mu.RUnlock()

	for _, c := range clients {
		reg.send(c, listing)
	}
}

// PurgeInactive removes rooms whose persisted state has been idle
// longer than age. Used by the periodic cleanup task.
func (reg *Registry) PurgeInactive(ctx context.Context, age time.Duration) {
	count, err := reg.store.PurgeInactiveSince(ctx, age)
	if err != nil {
		reg.logger.Warn("room purge failed", zap.Error(err))
		return
	}
	if count > 0 {
		reg.logger.Info("purged inactive rooms", zap.Int("count", count))
	}
}
