package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomz197/meteordash/internal/storage"
)

func TestRoutes(t *testing.T) {
	records := storage.NewRecords(storage.NewMemory(), nil)
	records.RaiseHighScore(86)
	records.AddEntry(storage.Entry{Name: "alice", Score: 86})
	records.AddEntry(storage.Entry{Name: "bob", Score: 40})

	srv := httptest.NewServer(routes(records, "play.example.com"))
	defer srv.Close()

	get := func(path string) []byte {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: status %d", path, resp.StatusCode)
		}
		body, _ := io.ReadAll(resp.Body)
		return body
	}

	if page := string(get("/")); !strings.Contains(page, "ssh -t play.example.com") {
		t.Error("landing page missing ssh host")
	}

	var best struct {
		HighScore int `json:"highScore"`
	}
	if err := json.Unmarshal(get("/api/highscore"), &best); err != nil || best.HighScore != 86 {
		t.Errorf("highscore = %+v (%v)", best, err)
	}

	var board []storage.Entry
	if err := json.Unmarshal(get("/api/leaderboard"), &board); err != nil {
		t.Fatal(err)
	}
	if len(board) != 2 || board[0].Name != "alice" || board[1].Name != "bob" {
		t.Errorf("leaderboard = %+v", board)
	}

	resp, err := http.Get(srv.URL + "/missing")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown path: status %d", resp.StatusCode)
	}
}
