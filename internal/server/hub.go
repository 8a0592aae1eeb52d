package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"worldengine/internal/task"
)

// Message is the JSON frame pushed to websocket clients.
type Message struct {
	Type    string `json:"type"`
	Task    string `json:"task,omitempty"`
	Seq     int    `json:"seq,omitempty"`
	Message string `json:"message"`
	State   string `json:"state,omitempty"`
}

// writeWait bounds every write to a client.
const writeWait = 5 * time.Second

// Hub fans messages out to every connected websocket client.
type Hub struct {
	// WriteTimeout bounds each write; a client that does not keep up is
	// dropped instead of stalling the task that reports to the hub.
	WriteTimeout time.Duration

	upgrader websocket.Upgrader
	logger   *log.Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
}

// NewHub returns an empty hub.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		WriteTimeout: writeWait,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// ServeHTTP upgrades the request and keeps the client until it disconnects.
// Clients only listen; anything they send is discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Println("websocket upgrade:", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	h.mu.Unlock()
	defer h.remove(conn)

	h.send(conn, Message{Type: "hello", Message: "connected"})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast writes m to every client, dropping clients whose write fails.
func (h *Hub) Broadcast(m Message) {
	h.mu.RLock()
	var failed []*websocket.Conn
	for conn, mu := range h.clients {
		mu.Lock()
		err := h.write(conn, m)
		mu.Unlock()
		if err != nil {
			h.logger.Println("websocket write:", err)
			failed = append(failed, conn)
		}
	}
	h.mu.RUnlock()
	for _, conn := range failed {
		conn.Close()
		h.remove(conn)
	}
}

func (h *Hub) send(conn *websocket.Conn, m Message) {
	h.mu.RLock()
	mu, ok := h.clients[conn]
	h.mu.RUnlock()
	if !ok {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	if err := h.write(conn, m); err != nil {
		h.logger.Println("websocket write:", err)
	}
}

// write sends m to conn; the caller holds the connection's mutex.
func (h *Hub) write(conn *websocket.Conn, m Message) error {
	if err := conn.SetWriteDeadline(time.Now().Add(h.WriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(m)
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// sink forwards a task's progress to the hub.
type sink struct {
	hub   *Hub
	label string
	seq   int
}

func (s *sink) Status(msg string) {
	s.seq++
	s.hub.Broadcast(Message{Type: "status", Task: s.label, Seq: s.seq, Message: msg, State: task.Running.String()})
}

func (s *sink) Finish(err error) {
	s.seq++
	state := task.StateOf(err)
	msg := state.String()
	if err != nil {
		msg = err.Error()
	}
	s.hub.Broadcast(Message{Type: "finish", Task: s.label, Seq: s.seq, Message: msg, State: state.String()})
}
