// Package spectator broadcasts board snapshots of in-flight games to
// WebSocket subscribers, purely for live diagnostic viewing. The MCTS
// driver has no knowledge of this package; the HTTP layer posts each
// /move request's board to it, after the search, on a best-effort,
// non-blocking basis.
package spectator

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/arcsnake/mcts-engine/internal/board"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// Hub fans out board snapshots for one or more in-flight games to any
// number of WebSocket subscribers, keyed by game ID and then by a
// per-connection uuid so a subscriber can be dropped by key instead of
// a linear identity scan.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[uuid.UUID]chan *board.Board
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[uuid.UUID]chan *board.Board)}
}

// Publish posts b to every subscriber of gameID. Subscribers that
// aren't ready to receive are skipped rather than blocking the request
// handler that's calling Publish.
func (h *Hub) Publish(gameID string, b *board.Board) {
	h.mu.Lock()
	subs := h.subs[gameID]
	h.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- b:
		default:
		}
	}
}

// ServeWatch upgrades the request to a WebSocket and streams every board
// snapshot published for gameID as JSON until the connection closes.
func (h *Hub) ServeWatch(w http.ResponseWriter, r *http.Request, gameID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	id := uuid.New()
	ch := make(chan *board.Board, 1)
	h.subscribe(gameID, id, ch)
	defer h.unsubscribe(gameID, id)

	for b := range ch {
		if err := conn.WriteJSON(boardSnapshot(b)); err != nil {
			return
		}
	}
}

func (h *Hub) subscribe(gameID string, id uuid.UUID, ch chan *board.Board) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[gameID] == nil {
		h.subs[gameID] = make(map[uuid.UUID]chan *board.Board)
	}
	h.subs[gameID][id] = ch
}

func (h *Hub) unsubscribe(gameID string, id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[gameID], id)
	if len(h.subs[gameID]) == 0 {
		delete(h.subs, gameID)
	}
}

type snapshot struct {
	Turn   int           `json:"turn"`
	Snakes []snakeStatus `json:"snakes"`
}

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type snakeStatus struct {
	Health int     `json:"health"`
	Body   []point `json:"body"`
}

func boardSnapshot(b *board.Board) snapshot {
	s := snapshot{Turn: b.Turn}
	for _, sn := range b.Snakes {
		body := make([]point, len(sn.Body))
		for i, p := range sn.Body {
			body[i] = point{X: p.X, Y: p.Y}
		}
		s.Snakes = append(s.Snakes, snakeStatus{Health: sn.Health, Body: body})
	}
	return s
}
