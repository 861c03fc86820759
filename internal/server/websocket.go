// Package server accepts websocket connections and routes decoded
// actions into the room registry.
package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jahlib/czech-fool/internal/protocol"
	"github.com/jahlib/czech-fool/internal/registry"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The game client is served from arbitrary hosts during play
	// testing; identity lives in player ids, not origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsClient wraps one websocket connection as a registry.Client. Writes
// are serialized with a mutex because broadcasts and bot goroutines
// send concurrently.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Handler serves the websocket endpoint.
type Handler struct {
	registry *registry.Registry
	logger   *zap.Logger
}

func NewHandler(reg *registry.Registry, logger *zap.Logger) *Handler {
	return &Handler{registry: reg, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			zap.String("remote", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	client := &wsClient{conn: conn}
	h.logger.Debug("client connected", zap.String("remote", r.RemoteAddr))
	h.registry.Attach(client)

	defer func() {
		h.registry.Detach(client)
		conn.Close()
		h.logger.Debug("client disconnected", zap.String("remote", r.RemoteAddr))
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("read error", zap.Error(err))
			}
			return
		}

		var msg protocol.Inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			_ = client.Send(protocol.NewError("invalid message format", ""))
			continue
		}
		h.dispatch(client, msg)
	}
}

func (h *Handler) dispatch(c *wsClient, msg protocol.Inbound) {
	switch msg.Type {
	case protocol.TypeCreateRoom:
		h.registry.CreateRoom(c, msg.Nickname, msg.IsPrivate)
	case protocol.TypeCreateBotGame:
		h.registry.CreateBotGame(c, msg.Nickname, msg.BotCount, msg.DeckSize)
	case protocol.TypeJoinRoom:
		h.registry.JoinRoom(c, msg.RoomID, msg.Nickname)
	case protocol.TypeToggleReady:
		h.registry.ToggleReady(c)
	case protocol.TypePlayCard:
		h.registry.PlayCard(c, msg.CardID, msg.ChosenSuit)
	case protocol.TypeDrawCard:
		h.registry.DrawCard(c)
	case protocol.TypeSkipTurn:
		h.registry.SkipTurn(c)
	case protocol.TypeReconnect:
		h.registry.Reconnect(c, msg.PlayerID, msg.RoomID)
	case protocol.TypeGetRooms:
		h.registry.SendRooms(c)
	case protocol.TypeChatMessage:
		h.registry.Chat(c, msg.Message)
	case protocol.TypeChangeDeckSize:
		h.registry.ChangeDeckSize(c, msg.DeckSize)
	case protocol.TypeTogglePrivate:
		h.registry.TogglePrivate(c, msg.IsPrivate)
	default:
		_ = c.Send(protocol.NewError("unknown action type", ""))
	}
}
