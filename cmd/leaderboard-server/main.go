package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/plus3/blockfall/leaderboard/server"
	"github.com/plus3/blockfall/leaderboard/store"
)

func main() {
	envFile := flag.String("env", ".env", "Environment file to load before reading configuration.")
	verbose := flag.Bool("v", false, "Enable debug logging.")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Failed to load %s: %v", *envFile, err)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	port := getenv("PORT", "5000")
	allow := strings.Split(getenv("ORIGIN_ALLOWLIST", "http://localhost:"+port+",http://127.0.0.1:"+port), ",")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, getenv("DB_TYPE", "memory"), os.Getenv("DATABASE_URL"), logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer st.Close()

	srv := server.New(server.Config{
		Store:        st,
		AllowOrigins: allow,
		Logger:       logger,
	})

	httpServer := &http.Server{
		Addr:              ":" + port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		srv.Feed().Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	logger.Info("server listening", "port", port)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func openStore(ctx context.Context, dbType, url string, logger *slog.Logger) (store.Storage, error) {
	switch dbType {
	case "postgres":
		if url == "" {
			return nil, errors.New("DATABASE_URL is required for postgres storage")
		}
		logger.Info("using postgres storage")
		return store.NewPostgresStore(ctx, url, logger)
	case "memory":
		logger.Info("using in-memory storage")
		return store.NewMemoryStore(), nil
	default:
		return nil, errors.New("unknown DB_TYPE " + dbType + ", want memory or postgres")
	}
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
