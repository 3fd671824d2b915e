package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub manages WebSocket connections per interview session. Each session
// has at most one candidate connection and any number of operator
// (observer) connections.
type Hub struct {
	candidateConns map[string]*Connection          // sessionID -> conn
	operatorConns  map[string]map[*Connection]bool // sessionID -> conns

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents one WebSocket client.
type Connection struct {
	SessionID  string
	IsOperator bool
	Send       chan []byte
	Hub        *Hub
}

// BroadcastMessage is a message to fan out to a session's clients.
type BroadcastMessage struct {
	SessionID string
	Message   *Message
}

// Message is the WebSocket envelope format.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewHub creates a hub and starts its run loop.
func NewHub() *Hub {
	h := &Hub{
		candidateConns: make(map[string]*Connection),
		operatorConns:  make(map[string]map[*Connection]bool),
		register:       make(chan *Connection),
		unregister:     make(chan *Connection),
		broadcast:      make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if conn.IsOperator {
				if h.operatorConns[conn.SessionID] == nil {
					h.operatorConns[conn.SessionID] = make(map[*Connection]bool)
				}
				h.operatorConns[conn.SessionID][conn] = true
				log.Printf("Operator connected to session %s", conn.SessionID)
			} else {
				if existing, ok := h.candidateConns[conn.SessionID]; ok {
					close(existing.Send)
				}
				h.candidateConns[conn.SessionID] = conn
				log.Printf("Candidate connected to session %s", conn.SessionID)
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conn.IsOperator {
				if conns, ok := h.operatorConns[conn.SessionID]; ok && conns[conn] {
					delete(conns, conn)
					close(conn.Send)
					log.Printf("Operator disconnected from session %s", conn.SessionID)
				}
			} else {
				if existing, ok := h.candidateConns[conn.SessionID]; ok && existing == conn {
					delete(h.candidateConns, conn.SessionID)
					close(conn.Send)
					log.Printf("Candidate disconnected from session %s", conn.SessionID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)

			if conn, ok := h.candidateConns[msg.SessionID]; ok {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			for conn := range h.operatorConns[msg.SessionID] {
				select {
				case conn.Send <- data:
				default:
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Broadcast sends a message to every client of a session (implements
// service.Broadcaster).
func (h *Hub) Broadcast(sessionID, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s payload: %v", msgType, err)
		return
	}
	h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		Message: &Message{
			Type:    msgType,
			Payload: data,
		},
	}
}
