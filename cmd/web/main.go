package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/tomz197/meteordash/internal/config"
	"github.com/tomz197/meteordash/internal/storage"
)

const (
	defaultHost   = "0.0.0.0"
	defaultPort   = "8080"
	defaultDBPath = "/app/data/meteordash.db"
)

//go:embed index.html
var htmlPage string

func main() {
	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger("web")

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	dbPath := config.GetEnv("DB_PATH", defaultDBPath)

	db, err := storage.OpenSQLite(dbPath)
	if err != nil {
		logger.Fatal("failed to open database", "path", dbPath, "err", err)
	}
	defer db.Close()
	records := storage.NewRecords(db, logger)

	addr := fmt.Sprintf("%s:%s", host, port)
	logger.Info("starting web server", "addr", "http://"+addr)
	if err := http.ListenAndServe(addr, routes(records, sshHost)); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

// routes serves the landing page and the read-only records API.
func routes(records *storage.Records, sshHost string) *http.ServeMux {
	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", sshHost)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	mux.HandleFunc("GET /api/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, records.Leaderboard())
	})
	mux.HandleFunc("GET /api/highscore", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]int{"highScore": records.HighScore()})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
