// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/tictacgo/tictacgo/internal/auth"
	"github.com/tictacgo/tictacgo/internal/cache"
	"github.com/tictacgo/tictacgo/internal/database"
	"github.com/tictacgo/tictacgo/internal/handlers"
	"github.com/tictacgo/tictacgo/internal/middleware"
)

func main() {
	auth.Init()
	database.ConnectDB()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	if err := database.InitSchema(context.Background()); err != nil {
		logger.Fatalf("failed to init schema: %v", err)
	}

	// Redis is optional; without it move events are simply not queued.
	if err := cache.ConnectRedis(); err != nil {
		logger.Warnf("redis unavailable, move events disabled: %v", err)
		cache.Rdb = nil
	}

	mux := http.NewServeMux()

	// auth endpoints
	mux.HandleFunc("/auth/register", handlers.RegisterHandler)
	mux.HandleFunc("/auth/login", handlers.LoginHandler)
	mux.HandleFunc("/auth/me", handlers.MeHandler)

	// game endpoints
	mux.HandleFunc("/games", handlers.GamesHandler)
	mux.HandleFunc("/games/", handlers.GamesSubtreeHandler)

	loggedMux := middleware.LogMiddleware(logger)(mux)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	logger.Infof("Starting server on %s", addr)
	if err := http.ListenAndServe(addr, loggedMux); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}
