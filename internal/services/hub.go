package services

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WSClient represents one dashboard WebSocket connection
type WSClient struct {
	ID     string
	GameID uint
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *ProjectionHub
}

// ProjectionHub fans projection updates out to connected dashboards. Clients
// may subscribe to a single game or to everything.
type ProjectionHub struct {
	// Registered clients
	clients map[*WSClient]bool

	// Register requests from clients
	register chan *WSClient

	// Unregister requests from clients
	unregister chan *WSClient

	// Broadcast messages to all clients
	broadcast chan []byte

	// Clients subscribed to a specific game
	gameChannels map[uint][]*WSClient

	mu sync.RWMutex

	logger *logrus.Logger
}

// WSMessage is the envelope every hub message goes out in
type WSMessage struct {
	Type      string      `json:"type"`
	GameID    uint        `json:"game_id,omitempty"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// ProjectionUpdate announces a recompute for one game
type ProjectionUpdate struct {
	GameID           uint    `json:"game_id"`
	AwayTotalMinutes float64 `json:"away_total_minutes"`
	HomeTotalMinutes float64 `json:"home_total_minutes"`
	PlayerCount      int     `json:"player_count"`
	Trigger          string  `json:"trigger"` // override, injury, ingest, manual
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// In production, implement proper origin checking
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewProjectionHub creates a new WebSocket hub
func NewProjectionHub(logger *logrus.Logger) *ProjectionHub {
	return &ProjectionHub{
		clients:      make(map[*WSClient]bool),
		register:     make(chan *WSClient),
		unregister:   make(chan *WSClient),
		broadcast:    make(chan []byte),
		gameChannels: make(map[uint][]*WSClient),
		logger:       logger,
	}
}

// Run starts the hub and handles client registration/unregistration
func (h *ProjectionHub) Run() {
	h.logger.Info("Starting projection WebSocket hub")

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if client.GameID != 0 {
				h.gameChannels[client.GameID] = append(h.gameChannels[client.GameID], client)
			}
			h.mu.Unlock()

			h.logger.WithFields(logrus.Fields{
				"client_id": client.ID,
				"game_id":   client.GameID,
			}).Info("Client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)

				if client.GameID != 0 {
					if clients, exists := h.gameChannels[client.GameID]; exists {
						for i, c := range clients {
							if c == client {
								h.gameChannels[client.GameID] = append(clients[:i], clients[i+1:]...)
								break
							}
						}
						if len(h.gameChannels[client.GameID]) == 0 {
							delete(h.gameChannels, client.GameID)
						}
					}
				}
			}
			h.mu.Unlock()

			h.logger.WithFields(logrus.Fields{
				"client_id": client.ID,
				"game_id":   client.GameID,
			}).Info("Client unregistered")

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// HandleConnection upgrades a dashboard connection. An optional game_id query
// parameter scopes the subscription to one game.
func (h *ProjectionHub) HandleConnection(c *gin.Context) {
	var gameID uint
	if raw := c.Query("game_id"); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 32); err == nil {
			gameID = uint(parsed)
		}
	}

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Error("Failed to upgrade WebSocket connection")
		return
	}

	client := &WSClient{
		ID:     uuid.New().String(),
		GameID: gameID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		Hub:    h,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// SendToGame sends a message to all clients subscribed to a game
func (h *ProjectionHub) SendToGame(gameID uint, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal message")
		return
	}

	h.mu.RLock()
	clients, exists := h.gameChannels[gameID]
	h.mu.RUnlock()

	if !exists {
		return
	}

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.logger.WithField("game_id", gameID).Warn("Failed to send message to client")
		}
	}
}

// BroadcastProjectionUpdate notifies every client plus game subscribers that a
// game's projections changed.
func (h *ProjectionHub) BroadcastProjectionUpdate(update ProjectionUpdate) {
	message := WSMessage{
		Type:      "projection_update",
		GameID:    update.GameID,
		Data:      update,
		Timestamp: time.Now().Unix(),
	}

	h.SendToGame(update.GameID, message)
	h.Broadcast(message)
}

// BroadcastInjuryUpdate announces newly ingested injury report rows
func (h *ProjectionHub) BroadcastInjuryUpdate(data interface{}) {
	h.Broadcast(WSMessage{
		Type:      "injury_update",
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
}

// Broadcast sends a message to all connected clients
func (h *ProjectionHub) Broadcast(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal broadcast message")
		return
	}

	h.broadcast <- data
}

// readPump handles reading messages from the WebSocket connection
func (c *WSClient) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, _, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.WithError(err).Error("WebSocket error")
			}
			break
		}
	}
}

// writePump handles writing messages to the WebSocket connection
func (c *WSClient) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
