package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"acaiteria/internal/storehours"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const (
	MessageStoreStatus = "store_status"

	pingInterval = 20 * time.Second
	readTimeout  = 30 * time.Second
	writeTimeout = 10 * time.Second
)

// WebSocketMessage represents a message sent through WebSocket
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// WebSocketClient represents a connected WebSocket client
type WebSocketClient struct {
	conn *websocket.Conn
	send chan WebSocketMessage
	hub  *StatusHub
}

// StatusHub distribui as mudanças de status da loja para os clientes conectados.
// Implementa storehours.Publisher.
type StatusHub struct {
	clients    map[*WebSocketClient]bool
	broadcast  chan WebSocketMessage
	register   chan *WebSocketClient
	unregister chan *WebSocketClient
	done       chan struct{}
	current    func() (storehours.Snapshot, bool)
	mu         sync.RWMutex
}

// NewStatusHub creates a hub. current returns the last snapshot sent to new clients.
func NewStatusHub(current func() (storehours.Snapshot, bool)) *StatusHub {
	return &StatusHub{
		clients:    make(map[*WebSocketClient]bool),
		broadcast:  make(chan WebSocketMessage),
		register:   make(chan *WebSocketClient),
		unregister: make(chan *WebSocketClient),
		done:       make(chan struct{}),
		current:    current,
	}
}

// PublishStoreStatus implements storehours.Publisher
func (hub *StatusHub) PublishStoreStatus(snapshot storehours.Snapshot) {
	message := WebSocketMessage{
		Type:      MessageStoreStatus,
		Data:      snapshot,
		Timestamp: snapshot.EvaluatedAt,
	}

	select {
	case hub.broadcast <- message:
	case <-hub.done:
	}
}

// Run manages the hub until ctx is cancelled
func (hub *StatusHub) Run(ctx context.Context) {
	defer close(hub.done)

	for {
		select {
		case <-ctx.Done():
			hub.mu.Lock()
			for client := range hub.clients {
				close(client.send)
				delete(hub.clients, client)
			}
			hub.mu.Unlock()
			return

		case client := <-hub.register:
			hub.mu.Lock()
			hub.clients[client] = true
			hub.mu.Unlock()
			log.Debug().Int("clients", hub.ConnectedClients()).Msg("WebSocket client connected")

			// o cliente recebe o status atual logo ao conectar
			if hub.current != nil {
				if snapshot, ok := hub.current(); ok {
					hub.deliver(client, WebSocketMessage{Type: MessageStoreStatus, Data: snapshot, Timestamp: snapshot.EvaluatedAt})
				}
			}

		case client := <-hub.unregister:
			hub.mu.Lock()
			if _, ok := hub.clients[client]; ok {
				delete(hub.clients, client)
				close(client.send)
			}
			hub.mu.Unlock()

		case message := <-hub.broadcast:
			hub.mu.RLock()
			clients := make([]*WebSocketClient, 0, len(hub.clients))
			for client := range hub.clients {
				clients = append(clients, client)
			}
			hub.mu.RUnlock()

			for _, client := range clients {
				hub.deliver(client, message)
			}
		}
	}
}

// deliver drops clients whose buffer is full
func (hub *StatusHub) deliver(client *WebSocketClient, message WebSocketMessage) {
	select {
	case client.send <- message:
	default:
		hub.mu.Lock()
		if _, ok := hub.clients[client]; ok {
			delete(hub.clients, client)
			close(client.send)
		}
		hub.mu.Unlock()
	}
}

// ConnectedClients returns the number of connected clients
func (hub *StatusHub) ConnectedClients() int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.clients)
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub *StatusHub
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *StatusHub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	// status da loja é público
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// HandleWebSocket godoc
// @Summary Store status stream
// @Description WebSocket que envia o status da loja ao conectar e a cada mudança
// @Tags store
// @Router /ws/status [get]
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return nil
	}

	client := &WebSocketClient{
		conn: conn,
		send: make(chan WebSocketMessage, 16),
		hub:  h.hub,
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return nil
	}

	go client.writePump()
	go client.readPump()

	return nil
}

// readPump handles reading messages from the WebSocket
func (c *WebSocketClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	// o stream é só de saída; lê apenas para processar pong e close
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Msg("WebSocket read error")
			}
			return
		}
	}
}

// writePump handles writing messages to the WebSocket
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				log.Debug().Err(err).Msg("WebSocket write error")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
