package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"blackjack-table-backend/internal/engine"
	"blackjack-table-backend/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler pushes round and bankroll updates to the player's open
// connection. One connection per player; a newer one replaces the old.
type WebSocketHandler struct {
	gameEngine *services.GameEngine
	hub        *WebSocketHub
}

type WebSocketHub struct {
	clients    map[string]*websocket.Conn
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
}

type Client struct {
	PlayerID string
	Conn     *websocket.Conn
}

type Message struct {
	Type     string      `json:"type"`
	PlayerID string      `json:"-"`
	Data     interface{} `json:"data"`
}

func NewWebSocketHandler(gameEngine *services.GameEngine) *WebSocketHandler {
	hub := &WebSocketHub{
		clients:    make(map[string]*websocket.Conn),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
	}

	go hub.run()

	return &WebSocketHandler{
		gameEngine: gameEngine,
		hub:        hub,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	playerID := c.GetString("player_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	client := &Client{
		PlayerID: playerID,
		Conn:     conn,
	}

	h.hub.register <- client

	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	h.sendSnapshot(c, client)

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		h.handleMessage(c, client, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(c *gin.Context, client *Client, msg *Message) {
	switch msg.Type {
	case "PING":
		h.sendPong(client)
	case "REFRESH":
		h.sendSnapshot(c, client)
	}
}

// sendSnapshot ships the current session state so a reconnecting client
// can resume mid-round.
func (h *WebSocketHandler) sendSnapshot(c *gin.Context, client *Client) {
	session, err := h.gameEngine.Session(c.Request.Context(), client.PlayerID)
	if err != nil {
		log.Printf("Failed to load session for WS snapshot: %v", err)
		return
	}

	client.Conn.WriteJSON(Message{
		Type: "SNAPSHOT",
		Data: gin.H{
			"bankroll_cents": session.BankrollCents,
			"round":          RoundView(session.RoundState),
		},
	})
}

func (h *WebSocketHandler) sendPong(client *Client) {
	client.Conn.WriteJSON(Message{
		Type: "PONG",
		Data: gin.H{
			"timestamp": time.Now().Unix(),
		},
	})
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			if old, ok := hub.clients[client.PlayerID]; ok {
				old.Close()
			}
			hub.clients[client.PlayerID] = client.Conn

		case client := <-hub.unregister:
			if conn, ok := hub.clients[client.PlayerID]; ok && conn == client.Conn {
				delete(hub.clients, client.PlayerID)
			}

		case message := <-hub.broadcast:
			if conn, ok := hub.clients[message.PlayerID]; ok {
				conn.WriteJSON(message)
			}
		}
	}
}

// BroadcastRoundUpdate implements services.Broadcaster. The round passes
// through the same view as HTTP responses, so the hole card stays hidden
// over the socket too.
func (h *WebSocketHandler) BroadcastRoundUpdate(playerID string, state *engine.RoundState) {
	msg := &Message{
		Type:     "ROUND_UPDATE",
		PlayerID: playerID,
		Data:     RoundView(state),
	}

	select {
	case h.hub.broadcast <- msg:
	default:
		log.Printf("WS broadcast queue full, dropping round update for %s", playerID)
	}
}

func (h *WebSocketHandler) BroadcastBankroll(playerID string, bankrollCents int64) {
	msg := &Message{
		Type:     "BANKROLL_UPDATE",
		PlayerID: playerID,
		Data: gin.H{
			"bankroll_cents": bankrollCents,
		},
	}

	select {
	case h.hub.broadcast <- msg:
	default:
		log.Printf("WS broadcast queue full, dropping bankroll update for %s", playerID)
	}
}
