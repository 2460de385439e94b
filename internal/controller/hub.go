// Package controller pairs a browser with a game session. The browser runs
// the tilt recognizer and streams its signals over a websocket; the game's
// HUD is pushed back so the phone can show it.
package controller

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/tomz197/meteordash/internal/loop/server"
)

//go:embed controller.html
var controllerPage string

// Sessions looks up running games by id.
type Sessions interface {
	Lookup(id string) (*server.Session, bool)
}

// Hub serves the controller page and its websocket.
type Hub struct {
	sessions  Sessions
	tokens    *Tokens
	publicURL string
	logger    *log.Logger
	upgrader  websocket.Upgrader
}

// NewHub creates a hub. publicURL is the address browsers reach the hub at,
// e.g. "http://192.168.1.10:8081".
func NewHub(sessions Sessions, tokens *Tokens, publicURL string, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		sessions:  sessions,
		tokens:    tokens,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				return u.Host == r.Host
			},
		},
	}
}

// Routes returns the hub's HTTP handlers.
func (h *Hub) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /controller", h.handlePage)
	mux.HandleFunc("GET /ws", h.handleWS)
	return mux
}

// PairingURL returns the link a phone opens to control sessionID.
func (h *Hub) PairingURL(sessionID string) (string, error) {
	token, err := h.tokens.Issue(sessionID)
	if err != nil {
		return "", fmt.Errorf("issue pairing token: %w", err)
	}
	return h.publicURL + "/controller?token=" + url.QueryEscape(token), nil
}

// authorize resolves the request's token to a live session.
func (h *Hub) authorize(r *http.Request) (*server.Session, string, int) {
	token := r.URL.Query().Get("token")
	sid, err := h.tokens.Verify(token)
	if err != nil {
		return nil, "", http.StatusUnauthorized
	}
	sess, ok := h.sessions.Lookup(sid)
	if !ok {
		return nil, "", http.StatusGone
	}
	return sess, token, http.StatusOK
}

func (h *Hub) handlePage(w http.ResponseWriter, r *http.Request) {
	_, token, status := h.authorize(r)
	if status != http.StatusOK {
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	page := strings.ReplaceAll(controllerPage, "{{.Token}}", token)
	fmt.Fprint(w, page)
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	sess, _, status := h.authorize(r)
	if status != http.StatusOK {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if !sess.Attach() {
		http.Error(w, "a controller is already paired", http.StatusConflict)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		sess.Detach()
		h.logger.Warn("websocket upgrade failed", "session", sess.ID, "err", err)
		return
	}
	h.logger.Info("controller paired", "session", sess.ID, "user", sess.Username, "remote", r.RemoteAddr)

	c := newConn(ws, sess, h.logger)
	c.sendJSON(Envelope{T: MsgHello, Data: HelloMsg{Player: sess.Username}})
	go c.writePump()
	go c.readPump()
}

// Start serves the hub on addr in the background. Close the returned server
// to stop it.
func (h *Hub) Start(addr string) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		h.logger.Info("controller server listening", "addr", addr, "public", h.publicURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.logger.Error("controller server failed", "err", err)
		}
	}()
	return srv
}

// DefaultPublicURL guesses the address phones on the same network can reach
// a listener on addr at: the first private IPv4 address of this host.
func DefaultPublicURL(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		port = "8081"
	}
	host := "localhost"
	if addrs, err := net.InterfaceAddrs(); err == nil {
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if ok && ipnet.IP.To4() != nil && ipnet.IP.IsPrivate() {
				host = ipnet.IP.String()
				break
			}
		}
	}
	return "http://" + net.JoinHostPort(host, port)
}
