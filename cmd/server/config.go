package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/arcsnake/mcts-engine/internal/bandit"
	"github.com/arcsnake/mcts-engine/internal/engine"
	"github.com/arcsnake/mcts-engine/internal/geom"
	"github.com/arcsnake/mcts-engine/internal/mcts"
)

// config holds everything read from the environment at startup. A
// configuration error here is fatal and fails fast, per this server's
// error taxonomy — every other error class is handled per-request.
type config struct {
	port string

	mcts       mcts.Config
	bandit     string // "ucb" or "thompson"
	workers    int
	persistent bool

	gameLog       bool
	gameLogBucket string

	gcpProject string
	webhookURL string
}

func loadConfig() (config, error) {
	cfg := config{
		port:    envOr("PORT", "8080"),
		bandit:  envOr("MCTS_BANDIT", "ucb"),
		workers: runtime.NumCPU(),

		gameLog:       envPresent("GAME_LOG"),
		gameLogBucket: os.Getenv("GAME_LOG_BUCKET"),
		gcpProject:    os.Getenv("GCP_PROJECT"),
		webhookURL:    os.Getenv("DISCORD_WEBHOOK_URL"),
		persistent:    envPresent("MCTS_PERSISTENT"),
	}

	if cfg.bandit != "ucb" && cfg.bandit != "thompson" {
		return config{}, fmt.Errorf("MCTS_BANDIT must be ucb or thompson, got %q", cfg.bandit)
	}

	if v := os.Getenv("MCTS_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return config{}, fmt.Errorf("MCTS_WORKERS: %w", err)
		}
		cfg.workers = n
	}

	tableCap, err := envInt("MCTS_TABLE_CAPACITY", 200000)
	if err != nil {
		return config{}, err
	}
	iterations, err := envInt("MCTS_ITERATIONS", 0)
	if err != nil {
		return config{}, err
	}
	searchTimeMS, err := envInt("MCTS_SEARCH_TIME", 0)
	if err != nil {
		return config{}, err
	}
	if iterations == 0 && searchTimeMS == 0 {
		return config{}, fmt.Errorf("one of MCTS_ITERATIONS or MCTS_SEARCH_TIME must be set")
	}
	rolloutCutoff, err := envInt("MCTS_ROLLOUT_CUTOFF", 0)
	if err != nil {
		return config{}, err
	}
	selectDepth, err := envInt("MCTS_SELECT_DEPTH", 50)
	if err != nil {
		return config{}, err
	}
	drawReward, err := envFloat("MCTS_DRAW_REWARD", 0.01)
	if err != nil {
		return config{}, err
	}

	newBandit, err := banditFactory(cfg.bandit)
	if err != nil {
		return config{}, err
	}

	cfg.mcts = mcts.Config{
		TableCapacity:  tableCap,
		Iterations:     iterations,
		SearchTime:     time.Duration(searchTimeMS) * time.Millisecond,
		RolloutCutoff:  rolloutCutoff,
		DrawReward:     drawReward,
		MaxSelectDepth: selectDepth,
		NewBandit:      newBandit,
		Settings: engine.Settings{
			FoodSpawner:      engine.StandardFoodSpawner,
			SafeZoneShrinker: engine.StandardSafeZoneShrinker,
			Wrap:             envPresent("RULESET_WRAP"),
		},
	}
	return cfg, nil
}

func banditFactory(name string) (mcts.NewBanditFunc, error) {
	switch name {
	case "ucb":
		return func(legal []geom.Direction) bandit.Bandit { return bandit.NewUCB(legal) }, nil
	case "thompson":
		// nil Src: each node's bandit samples from math/rand's global
		// source rather than carrying its own *rand.Rand.
		return func(legal []geom.Direction) bandit.Bandit { return bandit.NewThompson(legal, nil) }, nil
	default:
		return nil, fmt.Errorf("unknown bandit %q", name)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envPresent(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
