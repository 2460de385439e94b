package server

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/tomz197/meteordash/internal/input"
	"github.com/tomz197/meteordash/internal/loop"
)

// ErrUnknownSession is returned for ids that are not registered.
var ErrUnknownSession = errors.New("unknown session")

// Registry is what clients and controllers need from the server.
// Decouples the terminal client from the concrete Server, so tests can run a
// client against a stub.
type Registry interface {
	Register(username string) *Session
	Unregister(id string)
	Lookup(id string) (*Session, bool)
}

// Compile-time check that Server implements Registry.
var _ Registry = (*Server)(nil)

// EventType identifies a server to client event.
type EventType int

const (
	EventServerShutdown EventType = iota
	EventControllerPaired
	EventControllerLeft
)

func (t EventType) String() string {
	switch t {
	case EventServerShutdown:
		return "shutdown"
	case EventControllerPaired:
		return "controller-paired"
	case EventControllerLeft:
		return "controller-left"
	default:
		return "unknown"
	}
}

// Event is sent from the server to a session's client.
type Event struct {
	Type EventType
}

const (
	signalBuffer = 32
	eventBuffer  = 16
)

// Session is one running game, usually one terminal. Each game runs on its
// client's goroutine; the session is the only part other goroutines touch.
type Session struct {
	ID       string
	Username string
	Created  time.Time

	signals    chan input.Signal
	events     chan Event
	done       chan struct{}
	closeOnce  sync.Once
	snapshot   atomic.Pointer[loop.Snapshot]
	controller atomic.Bool
}

func newSession(id, username string) *Session {
	return &Session{
		ID:       id,
		Username: username,
		Created:  time.Now(),
		signals:  make(chan input.Signal, signalBuffer),
		events:   make(chan Event, eventBuffer),
		done:     make(chan struct{}),
	}
}

// Signals delivers recognizer signals to the game loop.
func (s *Session) Signals() <-chan input.Signal { return s.signals }

// Events delivers server events to the game loop.
func (s *Session) Events() <-chan Event { return s.events }

// Done is closed when the session is unregistered.
func (s *Session) Done() <-chan struct{} { return s.done }

// Deliver queues a signal without blocking. When the buffer is full the
// oldest signal is dropped, since newer readings supersede it.
func (s *Session) Deliver(sig input.Signal) {
	for {
		select {
		case s.signals <- sig:
			return
		default:
		}
		select {
		case <-s.signals:
		default:
		}
	}
}

// Publish stores the latest game snapshot for readers on other goroutines.
func (s *Session) Publish(snap loop.Snapshot) {
	s.snapshot.Store(&snap)
}

// Snapshot returns the last published snapshot.
func (s *Session) Snapshot() (loop.Snapshot, bool) {
	p := s.snapshot.Load()
	if p == nil {
		return loop.Snapshot{}, false
	}
	return *p, true
}

// Attach claims the session for a controller. Only one controller can be
// attached at a time.
func (s *Session) Attach() bool {
	if !s.controller.CompareAndSwap(false, true) {
		return false
	}
	s.notify(Event{Type: EventControllerPaired})
	return true
}

// Detach releases the controller claim.
func (s *Session) Detach() {
	if s.controller.CompareAndSwap(true, false) {
		s.notify(Event{Type: EventControllerLeft})
	}
}

// HasController reports whether a controller is attached.
func (s *Session) HasController() bool {
	return s.controller.Load()
}

func (s *Session) notify(ev Event) {
	select {
	case s.events <- ev:
	default:
		// Events channel full, drop event
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Server tracks the live sessions of a process.
type Server struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *log.Logger
}

// NewServer creates an empty session server. A nil logger discards output.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// Register creates a session for username.
func (s *Server) Register(username string) *Session {
	sess := newSession(uuid.NewString(), username)
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	n := len(s.sessions)
	s.mu.Unlock()
	s.logger.Info("session registered", "id", sess.ID, "user", username, "sessions", n)
	return sess
}

// Unregister removes a session and closes its Done channel.
func (s *Server) Unregister(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()
	if !ok {
		return
	}
	sess.close()
	s.logger.Info("session ended", "id", id, "user", sess.Username,
		"duration", time.Since(sess.Created).Round(time.Second), "sessions", n)
}

// Lookup returns the session with the given id.
func (s *Server) Lookup(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Deliver queues a signal for the session with the given id.
func (s *Server) Deliver(id string, sig input.Signal) error {
	sess, ok := s.Lookup(id)
	if !ok {
		return ErrUnknownSession
	}
	sess.Deliver(sig)
	return nil
}

// Len returns the number of live sessions.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Shutdown notifies every session that the server is going away and waits
// for them to unregister, up to timeout.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, sess := range s.sessions {
		sess.notify(Event{Type: EventServerShutdown})
	}
	remaining := len(s.sessions)
	s.mu.RUnlock()
	s.logger.Info("notified sessions about shutdown", "sessions", remaining)

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for remaining > 0 {
		select {
		case <-deadline:
			s.logger.Warn("shutdown timed out", "sessions", s.Len())
			return
		case <-ticker.C:
			remaining = s.Len()
		}
	}
}
