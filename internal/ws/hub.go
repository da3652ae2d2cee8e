package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
)

const (
	writeWait          = 10 * time.Second
	pongWait           = 60 * time.Second
	pingPeriod         = (pongWait * 9) / 10
	maxMessageSize     = 4 * 1024
	maxSendChannelSize = 64
)

// OutEvent исходящее событие
type OutEvent struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	UserID    uint      `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HubOptions опции хаба
type HubOptions struct {
	MaxConnectionsPerUser int
}

// Metrics метрики хаба
type Metrics struct {
	EventsSent    atomic.Int64
	EventsDropped atomic.Int64
	Connections   atomic.Int64
}

// Hub хранит открытые соединения пользователей и рассылает им уведомления
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*Client]struct{}
	options HubOptions
	metrics Metrics
}

// NewHub создает новый хаб
func NewHub(options ...HubOptions) *Hub {
	opts := HubOptions{MaxConnectionsPerUser: 10}
	if len(options) > 0 {
		opts = options[0]
	}

	return &Hub{
		clients: make(map[uint]map[*Client]struct{}),
		options: opts,
	}
}

// Register регистрирует соединение; false, если превышен лимит соединений
func (h *Hub) Register(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, exists := h.clients[client.UserID]
	if !exists {
		set = make(map[*Client]struct{})
		h.clients[client.UserID] = set
	}

	if len(set) >= h.options.MaxConnectionsPerUser {
		return false
	}

	set[client] = struct{}{}
	h.metrics.Connections.Inc()
	return true
}

// Unregister удаляет соединение и закрывает его
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if set, exists := h.clients[client.UserID]; exists {
		if _, ok := set[client]; ok {
			delete(set, client)
			h.metrics.Connections.Dec()
		}
		if len(set) == 0 {
			delete(h.clients, client.UserID)
		}
	}
	h.mu.Unlock()

	client.Close()
}

// NotifyUser отправляет событие во все соединения пользователя
func (h *Hub) NotifyUser(userID uint, eventType string, payload any) {
	data, err := json.Marshal(OutEvent{
		Type:      eventType,
		Payload:   payload,
		UserID:    userID,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Printf("hub: failed to marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		if client.SendRaw(data) {
			h.metrics.EventsSent.Inc()
		} else {
			h.metrics.EventsDropped.Inc()
		}
	}
}

// IsOnline проверяет, есть ли у пользователя открытые соединения
func (h *Hub) IsOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

func (h *Hub) Connections() int64 {
	return h.metrics.Connections.Load()
}

// Shutdown закрывает все соединения
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, set := range h.clients {
		for client := range set {
			client.Close()
		}
	}
	h.clients = make(map[uint]map[*Client]struct{})
	h.metrics.Connections.Store(0)
}

// Client представляет WebSocket соединение
type Client struct {
	UserID   uint
	ctx      context.Context
	cancel   context.CancelFunc
	conn     *websocket.Conn
	send     chan []byte
	mu       sync.RWMutex
	isClosed bool
}

// NewClient создает нового клиента
func NewClient(ctx context.Context, conn *websocket.Conn, userID uint) *Client {
	ctx, cancel := context.WithCancel(ctx)

	return &Client{
		UserID: userID,
		ctx:    ctx,
		cancel: cancel,
		conn:   conn,
		send:   make(chan []byte, maxSendChannelSize),
	}
}

// ReadPump держит соединение живым; входящие сообщения игнорируются
func (c *Client) ReadPump() {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				log.Printf("client read error: %v", err)
			}
			return
		}
	}
}

// WritePump отправляет события клиенту
func (c *Client) WritePump() error {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			return nil
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return nil
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return err
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// SendRaw ставит данные в очередь отправки; false, если клиент закрыт или перегружен
func (c *Client) SendRaw(data []byte) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.isClosed {
		return false
	}

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Close закрывает соединение
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isClosed {
		return
	}

	c.isClosed = true
	c.cancel()
	close(c.send)
	if c.conn != nil {
		c.conn.Close()
	}
}

// IsClosed проверяет, закрыто ли соединение
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isClosed
}
