package storage

import (
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Record keys.
const (
	HighScoreKey   = "highScore"
	LeaderboardKey = "leaderboard"
)

// DefaultLeaderboardSize is the number of entries kept on the leaderboard.
const DefaultLeaderboardSize = 10

// Entry is one leaderboard row.
type Entry struct {
	Name     string    `json:"name"`
	Score    int       `json:"score"`
	Points   int       `json:"points"`
	Distance int       `json:"distance"`
	Date     time.Time `json:"date"`
}

// Records reads and writes the high score and leaderboard. Reads fall back
// to defaults when data is missing or malformed; writes are best effort and
// failures are only logged.
type Records struct {
	kv     KV
	logger *log.Logger
	size   int
	mu     sync.Mutex // Serializes read-modify-write of both records across sessions
}

// NewRecords wraps kv. A nil logger discards warnings.
func NewRecords(kv KV, logger *log.Logger) *Records {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Records{kv: kv, logger: logger, size: DefaultLeaderboardSize}
}

// HighScore returns the stored high score, or 0.
func (r *Records) HighScore() int {
	raw, err := r.kv.Get(HighScoreKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.logger.Warn("read high score", "err", err)
		}
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		r.logger.Warn("malformed high score, using 0", "value", raw)
		return 0
	}
	return n
}

// RaiseHighScore stores score if it beats the stored high score and returns
// the high score after the update. The stored value never goes down, even
// with several sessions sharing the store.
func (r *Records) RaiseHighScore(score int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	best := r.HighScore()
	if score <= best {
		return best
	}
	if err := r.kv.Set(HighScoreKey, strconv.Itoa(score)); err != nil {
		r.logger.Warn("save high score", "err", err)
	}
	return score
}

// Leaderboard returns the stored entries, best first.
func (r *Records) Leaderboard() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaderboard()
}

func (r *Records) leaderboard() []Entry {
	raw, err := r.kv.Get(LeaderboardKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.logger.Warn("read leaderboard", "err", err)
		}
		return []Entry{}
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		r.logger.Warn("malformed leaderboard, starting empty", "err", err)
		return []Entry{}
	}
	return RankEntries(entries, r.size)
}

// AddEntry inserts e into the leaderboard, keeps the best entries and
// returns the new board.
func (r *Records) AddEntry(e Entry) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	board := RankEntries(append(r.leaderboard(), e), r.size)
	data, err := json.Marshal(board)
	if err != nil {
		r.logger.Warn("encode leaderboard", "err", err)
		return board
	}
	if err := r.kv.Set(LeaderboardKey, string(data)); err != nil {
		r.logger.Warn("save leaderboard", "err", err)
	}
	return board
}

// RankEntries sorts entries by score, best first, keeping earlier entries
// ahead on ties, and truncates to size.
func RankEntries(entries []Entry, size int) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > size {
		out = out[:size]
	}
	return out
}
