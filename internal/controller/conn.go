package controller

import (
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/tomz197/meteordash/internal/loop/config"
	"github.com/tomz197/meteordash/internal/loop/server"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 1024
	sendBufSize       = 16
	maxMessagesPerSec = 60 // Recognizers report at up to 30 Hz
)

// conn is one paired controller. Signals read from the browser go to the
// session; the write side streams the session's HUD back.
type conn struct {
	ws         *websocket.Conn
	session    *server.Session
	send       chan []byte
	closed     chan struct{}
	logger     *log.Logger
	msgCount   int
	msgResetAt time.Time
}

func newConn(ws *websocket.Conn, session *server.Session, logger *log.Logger) *conn {
	return &conn{
		ws:      ws,
		session: session,
		send:    make(chan []byte, sendBufSize),
		closed:  make(chan struct{}),
		logger:  logger,
	}
}

// readPump reads signals until the browser goes away. It releases the
// session's controller claim on exit.
func (c *conn) readPump() {
	defer func() {
		close(c.closed)
		c.session.Detach()
		c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("controller read failed", "session", c.session.ID, "err", err)
			}
			return
		}

		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			c.logger.Warn("controller rate limit exceeded, disconnecting", "session", c.session.ID)
			return
		}

		sig, err := DecodeSignal(message)
		if err != nil {
			c.logger.Debug("bad controller message", "session", c.session.ID, "err", err)
			c.sendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
			continue
		}
		c.session.Deliver(sig)
	}
}

// writePump pushes HUD frames and queued text messages, and keeps the
// connection alive with pings.
func (c *conn) writePump() {
	ping := time.NewTicker(pingPeriod)
	hud := time.NewTicker(config.HUDInterval)
	defer func() {
		ping.Stop()
		hud.Stop()
		c.ws.Close()
	}()

	var last HUD
	sent := false
	for {
		select {
		case message := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-hud.C:
			snap, ok := c.session.Snapshot()
			if !ok {
				continue
			}
			h := NewHUD(snap)
			if sent && h == last {
				continue
			}
			data, err := EncodeHUD(h)
			if err != nil {
				c.logger.Error("encode hud", "err", err)
				continue
			}
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
			last, sent = h, true

		case <-ping.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.session.Done():
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "game closed"))
			return

		case <-c.closed:
			return
		}
	}
}

// sendJSON queues a text message, dropping it if the browser is too slow.
func (c *conn) sendJSON(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("marshal controller message", "err", err)
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
