package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cpretorius/huiswinkel/internal/config"
	"github.com/cpretorius/huiswinkel/internal/ledger"
	"github.com/cpretorius/huiswinkel/internal/server"
	"github.com/cpretorius/huiswinkel/internal/store"
	"github.com/cpretorius/huiswinkel/internal/store/googlesheets"
	"github.com/cpretorius/huiswinkel/internal/store/sqlitestore"
)

// simple middleware chain
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Apply sqlite store migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	if *migrateOnlyFlag {
		s, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("migrate-only failed: %v", err)
		}
		_ = s.Close()
		log.Println("migrations completed; exiting as requested")
		return
	}

	ts, err := openStore(cfg)
	if err != nil {
		log.Fatalf("store init: %v", err)
	}
	log.Printf("Starting server env=%s port=%s backend=%s", cfg.Env, cfg.Port, cfg.StoreBackend)

	l := ledger.New(ts)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: withLogging(server.New(l, cfg))}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

func openStore(cfg config.Config) (store.TableStore, error) {
	switch cfg.StoreBackend {
	case "sheets":
		if cfg.SpreadsheetID == "" {
			return nil, fmt.Errorf("SPREADSHEET_ID is required for the sheets backend")
		}
		creds, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials: %w", err)
		}
		return googlesheets.New(context.Background(), creds, cfg.SpreadsheetID)
	case "sqlite":
		return sqlitestore.Open(cfg.SQLitePath)
	case "memory":
		log.Println("[store] memory backend selected; data will not survive a restart")
		return store.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
