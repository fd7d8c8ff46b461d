package events

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// Stream identifies an event stream a subscriber can attach to.
type Stream string

const (
	StreamMint     Stream = "mint"
	StreamExercise Stream = "exercise"
	StreamWithdraw Stream = "withdraw"
	StreamAll      Stream = "all"
)

// envelope is the wire frame sent to subscribers.
type envelope struct {
	Stream  Stream `json:"stream"`
	Payload any    `json:"payload"`
}

// subscribeRequest is the only client-to-server message the hub accepts.
type subscribeRequest struct {
	Command string   `json:"command"` // "subscribe" | "unsubscribe"
	Streams []Stream `json:"streams"`
}

// conn is one WebSocket subscriber.
type conn struct {
	id      uint64
	ws      *websocket.Conn
	send    chan []byte
	streams map[Stream]bool
	mu      sync.RWMutex
}

func (c *conn) subscribed(s Stream) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.streams[StreamAll] || c.streams[s]
}

// Hub implements Publisher over WebSocket connections. Subscribers attach
// via ServeHTTP, send a subscribe request naming streams, and receive JSON
// envelopes. Slow subscribers are dropped rather than blocking the engine.
type Hub struct {
	upgrader websocket.Upgrader
	nextID   atomic.Uint64

	mu    sync.RWMutex
	conns map[uint64]*conn
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[uint64]*conn),
	}
}

// ServeHTTP upgrades the request and runs the subscriber until it leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	c := &conn{
		id:      h.nextID.Add(1),
		ws:      ws,
		send:    make(chan []byte, 64),
		streams: map[Stream]bool{StreamAll: true},
	}

	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *conn) {
	defer h.drop(c)
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		var req subscribeRequest
		if err := json.Unmarshal(data, &req); err != nil {
			continue
		}
		c.mu.Lock()
		switch req.Command {
		case "subscribe":
			// an explicit subscription replaces the default catch-all
			delete(c.streams, StreamAll)
			for _, s := range req.Streams {
				c.streams[s] = true
			}
		case "unsubscribe":
			for _, s := range req.Streams {
				delete(c.streams, s)
			}
		}
		c.mu.Unlock()
	}
}

func (h *Hub) writePump(c *conn) {
	for data := range c.send {
		if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

func (h *Hub) drop(c *conn) {
	h.mu.Lock()
	if _, ok := h.conns[c.id]; ok {
		delete(h.conns, c.id)
		close(c.send)
	}
	h.mu.Unlock()
	c.ws.Close()
}

// SubscriberCount returns the number of attached subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) broadcast(stream Stream, payload any) {
	data, err := json.Marshal(envelope{Stream: stream, Payload: payload})
	if err != nil {
		log.Printf("failed to marshal %s event: %v", stream, err)
		return
	}

	h.mu.RLock()
	stale := []*conn{}
	for _, c := range h.conns {
		if !c.subscribed(stream) {
			continue
		}
		select {
		case c.send <- data:
		default:
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stale {
		log.Printf("dropping slow subscriber %d", c.id)
		h.drop(c)
	}
}

// PublishMint broadcasts a mint event.
func (h *Hub) PublishMint(ev *MintEvent) {
	if ev == nil {
		return
	}
	h.broadcast(StreamMint, ev)
}

// PublishExercise broadcasts an exercise event.
func (h *Hub) PublishExercise(ev *ExerciseEvent) {
	if ev == nil {
		return
	}
	h.broadcast(StreamExercise, ev)
}

// PublishWithdraw broadcasts a withdraw event.
func (h *Hub) PublishWithdraw(ev *WithdrawEvent) {
	if ev == nil {
		return
	}
	h.broadcast(StreamWithdraw, ev)
}

var _ Publisher = (*Hub)(nil)

// Recorder is a Publisher that retains events in memory. Test helper.
type Recorder struct {
	mu        sync.Mutex
	Mints     []MintEvent
	Exercises []ExerciseEvent
	Withdraws []WithdrawEvent
}

func (r *Recorder) PublishMint(ev *MintEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Mints = append(r.Mints, *ev)
}

func (r *Recorder) PublishExercise(ev *ExerciseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Exercises = append(r.Exercises, *ev)
}

func (r *Recorder) PublishWithdraw(ev *WithdrawEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Withdraws = append(r.Withdraws, *ev)
}

func (r *Recorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fmt.Sprintf("mints=%d exercises=%d withdraws=%d",
		len(r.Mints), len(r.Exercises), len(r.Withdraws))
}
