package ws

import (
	"log"
	"net/http"
	"sync"

	"orgflow-backend/internal/models"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub pushes newly sent messages to connected dashboard clients.
// Delivery is best effort; the inbox endpoints remain the source of truth.
type Hub struct {
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan *models.Message
}

func NewHub() *Hub {
	h := &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan *models.Message, 64),
	}
	go h.run()
	return h
}

// HandleWS upgrades the connection and parks it until the client leaves
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	h.clientsMux.Lock()
	h.clients[conn] = true
	h.clientsMux.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.clientsMux.Lock()
			delete(h.clients, conn)
			h.clientsMux.Unlock()
			break
		}
	}
}

// Notify queues a message for broadcast. Drops when the buffer is full
// so senders never block on slow dashboard clients.
func (h *Hub) Notify(m *models.Message) {
	select {
	case h.broadcast <- m:
	default:
	}
}

func (h *Hub) run() {
	for m := range h.broadcast {
		h.clientsMux.Lock()
		for client := range h.clients {
			if err := client.WriteJSON(m); err != nil {
				client.Close()
				delete(h.clients, client)
			}
		}
		h.clientsMux.Unlock()
	}
}
