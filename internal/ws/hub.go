package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/cindyyylam/mj-quizarium/internal/game"

	"github.com/gorilla/websocket"
)

const sendBuffer = 16

var writeWait = 10 * time.Second

// client owns the write side of one connection. Only writePump writes to
// conn.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump(h *Hub, chatID int64) {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("ws: write error: %v", err)
			h.RemoveConnection(chatID, c.conn)
			c.conn.Close()
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
	c.conn.Close()
}

// Hub fans game events out to the websocket spectators of each chat.
type Hub struct {
	mu    sync.Mutex
	chats map[int64]map[*websocket.Conn]*client
}

func NewHub() *Hub {
	return &Hub{
		chats: make(map[int64]map[*websocket.Conn]*client),
	}
}

func (h *Hub) AddConnection(chatID int64, conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.chats[chatID] == nil {
		h.chats[chatID] = make(map[*websocket.Conn]*client)
	}
	h.chats[chatID][conn] = c
	total := len(h.chats[chatID])
	h.mu.Unlock()

	go c.writePump(h, chatID)
	log.Printf("ws: client connected to chat %d (total: %d)", chatID, total)
}

func (h *Hub) RemoveConnection(chatID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.dropLocked(chatID, conn) {
		log.Printf("ws: client disconnected from chat %d", chatID)
	}
}

func (h *Hub) dropLocked(chatID int64, conn *websocket.Conn) bool {
	conns, ok := h.chats[chatID]
	if !ok {
		return false
	}
	c, ok := conns[conn]
	if !ok {
		return false
	}
	delete(conns, conn)
	close(c.send)
	if len(conns) == 0 {
		delete(h.chats, chatID)
	}
	return true
}

func (h *Hub) Count(chatID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.chats[chatID])
}

// Publish implements game.EventPublisher. It never blocks on a connection:
// a spectator whose buffer is full is dropped.
func (h *Hub) Publish(chatID int64, ev game.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, c := range h.chats[chatID] {
		select {
		case c.send <- data:
		default:
			log.Printf("ws: dropping slow client of chat %d", chatID)
			h.dropLocked(chatID, conn)
			conn.Close()
		}
	}
}
