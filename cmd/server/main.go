package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/go-chi/chi/v5"

	"github.com/pagebound/score-service/internal/auth"
	"github.com/pagebound/score-service/internal/config"
	"github.com/pagebound/score-service/internal/gamify"
	"github.com/pagebound/score-service/internal/httpapi"
	"github.com/pagebound/score-service/internal/logging"
	"github.com/pagebound/score-service/internal/notify"
	"github.com/pagebound/score-service/internal/server"
)

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("config error: %w", err))
	}

	logger := logging.New("score-service")

	var (
		repo     gamify.Repository
		recorder notify.Recorder
	)
	switch cfg.DataStore {
	case "memory":
		repo = gamify.NewMemoryRepository()
		recorder = notify.NewMemoryRecorder()
	default:
		client, err := firestore.NewClientWithDatabase(ctx, cfg.GCPProjectID, cfg.FirestoreDB)
		if err != nil {
			panic(fmt.Errorf("firestore client: %w", err))
		}
		defer client.Close()
		repo = gamify.NewFirestoreRepository(client)
		recorder = notify.NewFirestoreRecorder(client)
	}

	scores := gamify.NewService(repo, logger)

	verifier, err := auth.NewVerifier(auth.Config{
		Mode:     auth.Mode(cfg.Auth.Mode),
		JWKSURL:  cfg.Auth.JWKSURL,
		Audience: cfg.Auth.Audience,
		Issuer:   cfg.Auth.Issuer,
	})
	if err != nil {
		panic(fmt.Errorf("auth verifier error: %w", err))
	}

	router := server.NewRouter("score-service", func(r chi.Router) {
		// Event endpoints are reachable by internal triggers only; the
		// request-style score endpoints require a verified caller.
		httpapi.RegisterEventRoutes(r, scores, recorder, logger)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(verifier))
			httpapi.RegisterScoreRoutes(r, scores)
		})
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if err := server.Run(ctx, srv, logger); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	}
}
