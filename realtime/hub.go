package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/camden-git/hockeycoach/logger"
)

// Notice types published after a successful mutation
const (
	PlayerCreated    = "player.created"
	PlayerUpdated    = "player.updated"
	PlayerDeleted    = "player.deleted"
	EventTypeCreated = "event_type.created"
	VideoAdded       = "video.added"
	EventCreated     = "event.created"
	EventUpdated     = "event.updated"
	EventDeleted     = "event.deleted"
)

// Notice tells connected UI clients that something changed and which lists to reload
type Notice struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	EntityID  int64  `json:"entity_id"`
	VideoID   int64  `json:"video_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// NewNotice stamps a notice with a fresh id and the current time
func NewNotice(noticeType string, entityID int64) Notice {
	return Notice{
		ID:        uuid.NewString(),
		Type:      noticeType,
		EntityID:  entityID,
		Timestamp: time.Now().Unix(),
	}
}

type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans change notices out to websocket clients
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	mu         sync.RWMutex
	log        *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run serves registrations and broadcasts until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount reports the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues a notice for every client. It never blocks the caller;
// when the queue is full the notice is dropped.
func (h *Hub) Broadcast(notice Notice) {
	encoded, err := json.Marshal(notice)
	if err != nil {
		h.log.Error("realtime: failed to marshal notice", "error", err)
		return
	}
	select {
	case h.broadcast <- encoded:
	default:
		h.log.Warn("realtime: dropping notice, broadcast channel full", "type", notice.Type)
	}
}

var upgrader = websocket.Upgrader{
	// the UI is served from file:// or a dev server, so origin is not checked;
	// the listener is loopback-only
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection and registers a client
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("realtime: websocket upgrade error", "error", err)
		return
	}
	client := &Client{conn: conn, send: make(chan []byte, 256)}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	case <-r.Context().Done():
		conn.Close()
		return
	}

	// writer
	go func() {
		for msg := range client.send {
			if err := client.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
		client.conn.Close()
	}()

	// reader (just consume pings/close)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	case <-r.Context().Done():
	}
}
