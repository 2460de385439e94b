package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/tomz197/meteordash/internal/audio"
	"github.com/tomz197/meteordash/internal/config"
	"github.com/tomz197/meteordash/internal/controller"
	gameconfig "github.com/tomz197/meteordash/internal/loop/config"
	"github.com/tomz197/meteordash/internal/loop/client"
	"github.com/tomz197/meteordash/internal/loop/server"
	"github.com/tomz197/meteordash/internal/storage"
	"golang.org/x/term"
)

func main() {
	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the game, so logs go to a file or nowhere.
	logger := config.NewLogger("game")
	logger.SetOutput(io.Discard)
	if path := config.GetEnv("LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	records, closeDB := openRecords(logger)
	defer closeDB()

	synth := audio.Disabled()
	if config.GetEnvBool("AUDIO", true) {
		synth = audio.New(logger)
	}
	defer synth.Close()

	registry := server.NewServer(logger)

	var pairer client.Pairer
	if addr := config.GetEnv("HTTP_ADDR", ""); addr != "" {
		tokens, err := controller.NewTokens([]byte(config.GetEnv("CONTROLLER_SECRET", "")), gameconfig.PairingTokenTTL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "controller setup failed: %v\n", err)
			os.Exit(1)
		}
		publicURL := config.GetEnv("PUBLIC_URL", controller.DefaultPublicURL(addr))
		hub := controller.NewHub(registry, tokens, publicURL, logger)
		srv := hub.Start(addr)
		defer srv.Close()
		pairer = hub
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	c := client.NewClient(registry, reader, os.Stdout, client.ClientOptions{
		Username:   config.GetEnv("USER", ""),
		Records:    records,
		FX:         synth,
		Pairer:     pairer,
		Logger:     logger,
		ViewWidth:  float64(config.GetEnvInt("VIEWPORT_WIDTH", gameconfig.DefaultViewWidth)),
		ViewHeight: float64(config.GetEnvInt("VIEWPORT_HEIGHT", gameconfig.DefaultViewHeight)),
	})
	if err := c.Run(); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

// openRecords opens the sqlite store at DB_PATH, falling back to memory
// when it can't be opened.
func openRecords(logger *log.Logger) (*storage.Records, func()) {
	path := config.GetEnv("DB_PATH", "meteordash.db")
	db, err := storage.OpenSQLite(path)
	if err != nil {
		logger.Warn("records kept in memory", "path", path, "err", err)
		return storage.NewRecords(storage.NewMemory(), logger), func() {}
	}
	return storage.NewRecords(db, logger), func() { db.Close() }
}
