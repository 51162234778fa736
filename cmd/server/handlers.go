package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/arcsnake/mcts-engine/internal/api"
	"github.com/arcsnake/mcts-engine/internal/board"
	"github.com/arcsnake/mcts-engine/internal/floodfill"
	"github.com/arcsnake/mcts-engine/internal/gamelog"
	"github.com/arcsnake/mcts-engine/internal/mcts"
	"github.com/arcsnake/mcts-engine/internal/notify"
	"github.com/arcsnake/mcts-engine/internal/render"
	"github.com/arcsnake/mcts-engine/internal/spectator"
	"github.com/arcsnake/mcts-engine/internal/storage"
)

// moveSafetyMargin is subtracted from the engine's reported timeout
// before deriving the search deadline, leaving room for JSON
// marshaling and network latency on the way back.
const moveSafetyMargin = 100 * time.Millisecond

type server struct {
	cfg      config
	sessions *sessionStore
	watchers *spectator.Hub
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, api.InfoResponse{
		APIVersion: "1",
		Author:     "arcsnake",
		Color:      "#1a6b3c",
		Head:       "default",
		Tail:       "default",
		Version:    "1.0.0",
	})
}

func (s *server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req api.GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("malformed request: %v", err), http.StatusBadRequest)
		return
	}

	if _, exists := s.sessions.get(req.Game.ID); exists {
		slog.Warn("session collision on start, replacing", "game_id", req.Game.ID)
	}
	s.sessions.start(req.Game.ID, s.cfg.persistent, s.cfg.mcts.TableCapacity, s.cfg.gameLog, s.cfg.mcts.Settings.Wrap)

	var opponents []string
	for _, snake := range req.Board.Snakes {
		if snake.ID != req.You.ID {
			opponents = append(opponents, snake.Name)
		}
	}
	go notify.Webhook(s.cfg.webhookURL, fmt.Sprintf("game %s started against %s", req.Game.ID, strings.Join(opponents, ", ")))

	writeJSON(w, map[string]string{})
}

func (s *server) handleMove(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req api.GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("malformed request: %v", err), http.StatusBadRequest)
		return
	}

	sess, ok := s.sessions.get(req.Game.ID)
	if !ok {
		slog.Warn("move for unknown session, proceeding without persistent state", "game_id", req.Game.ID)
		sess = &session{}
	}

	b, youIdx := req.ToBoard(s.cfg.mcts.Settings.Wrap)
	sess.observe(b)

	deadline := time.Duration(req.Game.Timeout)*time.Millisecond - moveSafetyMargin
	ctx, cancel := context.WithTimeout(r.Context(), deadline)
	defer cancel()

	cfg := s.cfg.mcts
	cfg.Table = sess.table

	var result mcts.Result
	if s.cfg.workers <= 1 {
		result = mcts.Search(ctx, b, youIdx, cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
	} else {
		result = mcts.SearchParallel(ctx, b, youIdx, cfg, s.cfg.workers, time.Now().UnixNano())
	}

	writeJSON(w, api.MoveResponse{Move: api.DirectionString(result.Move)})

	s.watchers.Publish(req.Game.ID, b)

	slog.Info("move computed",
		"game_id", req.Game.ID,
		"turn", req.Turn,
		"move", result.Move.String(),
		"iterations", result.Iterations,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func (s *server) handleEnd(w http.ResponseWriter, r *http.Request) {
	var req api.GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("malformed request: %v", err), http.StatusBadRequest)
		return
	}

	sess, _ := s.sessions.release(req.Game.ID)

	b, youIdx := req.ToBoard(s.cfg.mcts.Settings.Wrap)
	if sess != nil {
		sess.observe(b)
	}

	outcome, reason := board.Describe(b, youIdx)
	ascii := render.ASCII(b)
	embed := notify.Embed{Description: reason, Color: outcomeColor(outcome)}
	go notify.Webhook(s.cfg.webhookURL, fmt.Sprintf("game %s finished on turn %d (%s)\n```\n%s\n```", req.Game.ID, req.Turn, outcome, ascii), embed)

	if s.cfg.gameLog && sess != nil && sess.recorder != nil && s.cfg.gameLogBucket != "" {
		log := sess.recorder.Finish(sess.initial, []string{req.Game.ID}, s.cfg.mcts.Settings.Wrap)
		go s.persistGameLog(req.Game.ID, log)
	}

	writeJSON(w, map[string]string{})
}

func (s *server) persistGameLog(gameID string, log gamelog.GameLog) {
	data, err := gamelog.Marshal(log)
	if err != nil {
		slog.Error("failed to marshal game log", "game_id", gameID, "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := storage.UploadGameLog(ctx, s.cfg.gameLogBucket, gameID, data); err != nil {
		slog.Error("failed to persist game log", "game_id", gameID, "error", err)
	}
}

func (s *server) handleFloodFill(w http.ResponseWriter, r *http.Request) {
	var req api.GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("malformed request: %v", err), http.StatusBadRequest)
		return
	}
	b, _ := req.ToBoard(s.cfg.mcts.Settings.Wrap)
	writeJSON(w, floodfill.Evaluate(b))
}

func (s *server) handleWatch(w http.ResponseWriter, r *http.Request) {
	gameID := strings.TrimPrefix(r.URL.Path, "/watch/")
	if gameID == "" {
		http.Error(w, "missing game id", http.StatusBadRequest)
		return
	}
	s.watchers.ServeWatch(w, r, gameID)
}

// outcomeColor gives each game outcome its own Discord embed color,
// matching the convention of green wins, yellow draws, red losses.
func outcomeColor(o board.Outcome) int {
	switch o {
	case board.Win:
		return 0x00ff00
	case board.Draw:
		return 0xffff00
	default:
		return 0xff0000
	}
}

func corsOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
