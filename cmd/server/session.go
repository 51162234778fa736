package main

import (
	"sync"

	"github.com/arcsnake/mcts-engine/internal/board"
	"github.com/arcsnake/mcts-engine/internal/gamelog"
	"github.com/arcsnake/mcts-engine/internal/geom"
	"github.com/arcsnake/mcts-engine/internal/mcts"
)

// session is the per-game state kept between /start, /move and /end:
// optionally a persistent transposition table (MCTS_PERSISTENT) and a
// game-log recorder (GAME_LOG) that reconstructs each turn's joint
// action from the board snapshots the Battlesnake engine hands us,
// since this server never advances the real game itself.
type session struct {
	table     *mcts.Table
	recorder  *gamelog.Recorder
	initial   gamelog.Sketch
	haveInit  bool
	prevBoard *board.Board
	wrap      bool
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*session)}
}

// start allocates (or, on a session collision, replaces) the session for
// gameID.
func (s *sessionStore) start(gameID string, persistent bool, tableCapacity int, recordLog bool, wrap bool) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &session{wrap: wrap}
	if persistent {
		sess.table = mcts.NewTable(tableCapacity)
	}
	if recordLog {
		sess.recorder = gamelog.NewRecorder()
	}
	s.sessions[gameID] = sess
	return sess
}

func (s *sessionStore) get(gameID string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[gameID]
	return sess, ok
}

func (s *sessionStore) release(gameID string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[gameID]
	delete(s.sessions, gameID)
	return sess, ok
}

// observe feeds the session's recorder (if any) the transition from
// sess.prevBoard to current, inferring each living snake's action from
// its head displacement between the two snapshots.
func (sess *session) observe(current *board.Board) {
	if sess.recorder == nil {
		sess.prevBoard = current
		return
	}
	if !sess.haveInit {
		sess.initial = sketchOf(current)
		sess.haveInit = true
	}
	if sess.prevBoard != nil {
		actions := inferActions(sess.prevBoard, current, sess.wrap)
		sess.recorder.RecordTurn(sess.prevBoard, actions)
		sess.recorder.RecordFood(sess.prevBoard, current)
	}
	sess.prevBoard = current
}

func inferActions(before, after *board.Board, wrap bool) []geom.Direction {
	actions := make([]geom.Direction, len(before.Snakes))
	for i, s := range before.Snakes {
		if !s.IsAlive() || i >= len(after.Snakes) || !after.Snakes[i].IsAlive() {
			continue
		}
		if d, ok := geom.DirectionBetween(s.Head(), after.Snakes[i].Head(), wrap); ok {
			actions[i] = d
		}
	}
	return actions
}

func sketchOf(b *board.Board) gamelog.Sketch {
	hazards := make([]geom.Point, 0, len(b.Hazard))
	for i, on := range b.Hazard {
		if on {
			hazards = append(hazards, geom.FromIndex(i))
		}
	}
	return gamelog.Sketch{
		Turn:        b.Turn,
		Foods:       append([]geom.Point(nil), b.Foods...),
		Hazards:     hazards,
		HazardStart: b.HazardStart,
		SafeZone:    b.SafeZone,
		Snakes:      append([]board.Snake(nil), b.Snakes...),
	}
}
