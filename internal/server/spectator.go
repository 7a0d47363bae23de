// Package server publishes a running game to read-only websocket spectators.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/marcsingleton/Pydemic/internal/game"
	"github.com/marcsingleton/Pydemic/internal/game/rules"
	"go.uber.org/zap"
)

const (
	sendBuffer   = 256
	writeTimeout = 10 * time.Second
	readLimit    = 512
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is the frame sent to spectators.
type Message struct {
	Type  string       `json:"type"`
	Event *rules.Event `json:"event,omitempty"`
	View  *game.View   `json:"view,omitempty"`
}

const (
	MessageView  = "view"
	MessageEvent = "event"
)

// JournalSummary is the /journal response when no entry is requested.
type JournalSummary struct {
	Size   int                `json:"size"`
	Latest *game.JournalEntry `json:"latest,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans messages out to every connected spectator. Spectators never
// send commands; anything they write is discarded.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}

	mu      sync.RWMutex
	latest  []byte
	journal *game.Journal

	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, sendBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for c := range h.clients {
			delete(h.clients, c)
			close(c.send)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.clients[c] = true
			h.logger.Debug("spectator connected", zap.String("remote", c.conn.RemoteAddr().String()))
			if latest := h.Latest(); latest != nil {
				c.send <- latest
			}

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Debug("spectator disconnected", zap.String("remote", c.conn.RemoteAddr().String()))
			}

		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					close(c.send)
					delete(h.clients, c)
					h.logger.Warn("dropping slow spectator", zap.String("remote", c.conn.RemoteAddr().String()))
				}
			}
		}
	}
}

// Latest returns the last view frame published, or nil.
func (h *Hub) Latest() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// PublishView sends a full view and keeps it for spectators who join later.
func (h *Hub) PublishView(v game.View) {
	data, err := json.Marshal(Message{Type: MessageView, View: &v})
	if err != nil {
		h.logger.Error("failed to encode view", zap.Error(err))
		return
	}
	h.mu.Lock()
	h.latest = data
	h.mu.Unlock()
	h.send(data)
}

// Publish sends one engine event together with the view it produced.
func (h *Hub) Publish(ev rules.Event, v game.View) {
	data, err := json.Marshal(Message{Type: MessageEvent, Event: &ev, View: &v})
	if err != nil {
		h.logger.Error("failed to encode event", zap.Error(err), zap.String("type", string(ev.Type)))
		return
	}
	h.mu.Lock()
	h.latest, _ = json.Marshal(Message{Type: MessageView, View: &v})
	h.mu.Unlock()
	h.send(data)
}

func (h *Hub) send(data []byte) {
	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		h.logger.Warn("spectator broadcast buffer full, dropping frame")
	}
}

// Attach forwards every event of e to the hub. The returned func detaches it.
func (h *Hub) Attach(e *game.Engine) func() {
	handle := e.Events().Subscribe(func(ev rules.Event) {
		h.Publish(ev, e.View())
	})
	h.mu.Lock()
	h.journal = e.Journal()
	h.mu.Unlock()
	h.PublishView(e.View())
	return func() { e.Events().Unsubscribe(handle) }
}

// ServeWS upgrades the request and registers a spectator.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump(h)
}

// ServeState writes the latest view as JSON.
func (h *Hub) ServeState(w http.ResponseWriter, r *http.Request) {
	latest := h.Latest()
	if latest == nil {
		http.Error(w, "no game in progress", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(latest)
}

// ServeJournal writes the journal summary, or the entry named by ?at=N.
func (h *Hub) ServeJournal(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	journal := h.journal
	h.mu.RUnlock()
	if journal == nil {
		http.Error(w, "no game in progress", http.StatusServiceUnavailable)
		return
	}

	var body any = JournalSummary{Size: journal.Size(), Latest: journal.Latest()}
	if at := r.URL.Query().Get("at"); at != "" {
		n, err := strconv.Atoi(at)
		if err != nil {
			http.Error(w, "invalid journal index", http.StatusBadRequest)
			return
		}
		entry := journal.At(n)
		if entry == nil {
			http.Error(w, "no such journal entry", http.StatusNotFound)
			return
		}
		body = entry
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("failed to write journal", zap.Error(err))
	}
}

// Handler routes /ws, /state and /journal.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWS)
	mux.HandleFunc("/state", h.ServeState)
	mux.HandleFunc("/journal", h.ServeJournal)
	return mux
}

// ListenAndServe serves the hub on addr until ctx is cancelled.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	h.logger.Info("spectator server starting", zap.String("address", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (c *client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimit)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
