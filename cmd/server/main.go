// Command server runs the Battlesnake HTTP surface backed by the MCTS
// engine in internal/mcts: it decodes the official Battlesnake protocol,
// drives a search under a deadline derived from the request's timeout,
// and optionally persists a bit-packed replay of the game.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arcsnake/mcts-engine/internal/logging"
	"github.com/arcsnake/mcts-engine/internal/notify"
	"github.com/arcsnake/mcts-engine/internal/secrets"
	"github.com/arcsnake/mcts-engine/internal/spectator"
)

func main() {
	slog.SetDefault(slog.New(logging.NewCloudHandler(os.Stdout, slog.LevelInfo)))

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	if cfg.gcpProject != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		secretName := "projects/" + cfg.gcpProject + "/secrets/discord_webhook/versions/latest"
		url, err := secrets.AccessLatest(ctx, secretName)
		cancel()
		if err != nil {
			slog.Warn("failed to fetch discord webhook secret, continuing without it", "error", err)
		} else {
			cfg.webhookURL = url
		}
	}

	srv := &server{
		cfg:      cfg,
		sessions: newSessionStore(),
		watchers: spectator.NewHub(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.handleIndex)
	mux.HandleFunc("/start", srv.handleStart)
	mux.HandleFunc("/move", methodSplit(srv.handleMove, corsOptions))
	mux.HandleFunc("/end", srv.handleEnd)
	mux.HandleFunc("/flood_fill", methodSplit(srv.handleFloodFill, corsOptions))
	mux.HandleFunc("/watch/", srv.handleWatch)

	httpServer := &http.Server{Addr: ":" + cfg.port, Handler: mux}

	go notify.Webhook(cfg.webhookURL, "arcsnake starting up")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("listening", "port", cfg.port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-shutdown
	notify.Webhook(cfg.webhookURL, "arcsnake shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

// methodSplit routes OPTIONS requests (CORS preflight) to opts and
// everything else to post.
func methodSplit(post, opts http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			opts(w, r)
			return
		}
		post(w, r)
	}
}
