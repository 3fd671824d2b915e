package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/vinaythanay/Interview-ChatBOt/internal/model"
	"github.com/vinaythanay/Interview-ChatBOt/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // face observation batches are chunky
)

// Inbound candidate message types.
const (
	inProctorSignal = "proctor_signal"
	inFaces         = "face_observations"
	inWindowMetrics = "window_metrics"
	inTranscript    = "transcript"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler handles WebSocket connections.
type Handler struct {
	hub     *Hub
	manager *service.SessionManager
	authSvc *service.AuthService

	mu    sync.Mutex
	feeds map[string]*SignalFeed
}

// NewHandler creates a new WebSocket handler.
func NewHandler(hub *Hub, manager *service.SessionManager, authSvc *service.AuthService) *Handler {
	return &Handler{
		hub:     hub,
		manager: manager,
		authSvc: authSvc,
		feeds:   make(map[string]*SignalFeed),
	}
}

// CandidateWS handles GET /v1/ws/sessions/{id}/candidate
func (h *Handler) CandidateWS(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if _, err := h.manager.Get(sessionID); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	feed := h.feedFor(sessionID)

	conn := &Connection{
		SessionID: sessionID,
		Send:      make(chan []byte, 256),
		Hub:       h.hub,
	}
	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.candidateReadPump(wsConn, conn, feed)
}

// OperatorWS handles GET /v1/ws/sessions/{id}/operator
func (h *Handler) OperatorWS(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	claims, err := h.authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	conn := &Connection{
		SessionID:  sessionID,
		IsOperator: true,
		Send:       make(chan []byte, 256),
		Hub:        h.hub,
	}
	h.hub.Register(conn)

	log.Printf("Operator %s watching session %s", claims.OperatorID, sessionID)

	go h.writePump(wsConn, conn)
	go h.operatorReadPump(wsConn, conn)
}

// feedFor returns the session's signal feed, attaching the proctoring
// monitor on first candidate connect.
func (h *Handler) feedFor(sessionID string) *SignalFeed {
	h.mu.Lock()
	defer h.mu.Unlock()
	if feed, ok := h.feeds[sessionID]; ok {
		return feed
	}
	feed := NewSignalFeed()
	h.feeds[sessionID] = feed
	if _, err := h.manager.AttachMonitor(sessionID, feed, feed); err != nil {
		log.Printf("Failed to attach proctoring monitor to session %s: %v", sessionID, err)
	}
	return feed
}

func (h *Handler) candidateReadPump(wsConn *websocket.Conn, conn *Connection, feed *SignalFeed) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		h.handleCandidateMessage(conn.SessionID, data, feed)
	}
}

func (h *Handler) handleCandidateMessage(sessionID string, data []byte, feed *SignalFeed) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("Malformed candidate message on session %s: %v", sessionID, err)
		return
	}

	switch msg.Type {
	case inProctorSignal:
		var p struct {
			Signal model.SignalType `json:"signal"`
			Detail string           `json:"detail"`
		}
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		orch, err := h.manager.Get(sessionID)
		if err != nil {
			return
		}
		if p.Signal.ZeroTolerance() {
			orch.Dispatch(model.ProctorViolation{Signal: p.Signal, Detail: p.Detail})
		}

	case inFaces:
		var p struct {
			Faces []model.FaceObservation `json:"faces"`
		}
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		feed.UpdateFaces(p.Faces)

	case inWindowMetrics:
		var p model.WindowMetrics
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		feed.UpdateMetrics(p)

	case inTranscript:
		var p struct {
			Text  string `json:"text"`
			Final bool   `json:"final"`
		}
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		// Interim transcripts are display-only; only finals become answers.
		if p.Final {
			h.manager.Dispatch(sessionID, model.AnswerSubmitted{Text: p.Text, Source: model.SourceVoice})
		}

	default:
		log.Printf("Unknown candidate message type %q on session %s", msg.Type, sessionID)
	}
}

func (h *Handler) operatorReadPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := wsConn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		// Operators are read-only observers.
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
