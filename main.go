package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"snake-arena/auth"
	"snake-arena/config"
	"snake-arena/game"
	"snake-arena/handlers"
	"snake-arena/store"
	"snake-arena/webrtc"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	target := cfg.ScoreFile
	if cfg.ScoreStore == store.BackendPostgres {
		target = cfg.DatabaseURL
	}
	scores, err := store.Open(cfg.ScoreStore, target)
	if err != nil {
		log.Fatalf("Failed to open score store: %v", err)
	}

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)

	gameManager := game.NewGameManager(game.Options{
		TickInterval:    cfg.TickInterval,
		DefaultGridSize: cfg.DefaultGridSize,
		MaxRoomPlayers:  cfg.MaxRoomPlayers,
	}, scores, issuer)
	webrtcManager := webrtc.NewManager(webrtc.ICEConfig{
		STUNURLs:       cfg.STUNURLs,
		TURNURLs:       cfg.TURNURLs,
		TURNUsername:   cfg.TURNUsername,
		TURNCredential: cfg.TURNCredential,
	})
	gameManager.SetWebRTCManager(webrtcManager)

	requireSession := issuer.Middleware(gameManager)
	wsHandler := handlers.NewWebSocketHandler(gameManager)
	webrtcHandler := handlers.NewWebRTCHandler(gameManager, webrtcManager)
	scoreHandler := handlers.NewScoreHandler(scores)
	roomsHandler := handlers.NewRoomsHandler(gameManager.Rooms)

	mux := http.NewServeMux()

	// WebSocket (primary session transport)
	mux.Handle("/ws", wsHandler)

	// DataChannel bound to an existing session
	mux.Handle("/webrtc/offer", handlers.WithCORS(requireSession(http.HandlerFunc(webrtcHandler.HandleOffer))))

	mux.Handle("GET /api/scores", handlers.WithCORS(scoreHandler))
	mux.Handle("POST /api/scores", handlers.WithCORS(requireSession(scoreHandler)))
	mux.Handle("OPTIONS /api/scores", handlers.WithCORS(scoreHandler))
	mux.Handle("/api/rooms", handlers.WithCORS(roomsHandler))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		log.Printf("WebSocket endpoint: /ws")
		log.Printf("WebRTC endpoint: /webrtc/offer")
		log.Printf("HTTP endpoints: /api/scores, /api/rooms")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
	gameManager.Shutdown()
	if err := scores.Close(); err != nil {
		log.Printf("Failed to close score store: %v", err)
	}
	log.Printf("Server stopped")
}
