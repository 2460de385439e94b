package physics

// RocketKey is the tracker key under which the rocket's box is stored.
const RocketKey = "rocket"

// Tracker maps entity keys to their latest on-screen bounding box.
// The renderer writes entity boxes, the frame loop writes the rocket box and
// the collision engine reads both. It is owned by a single goroutine.
type Tracker struct {
	rects map[string]Rect
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{rects: make(map[string]Rect)}
}

// Set records the box for key, replacing any previous one.
func (t *Tracker) Set(key string, r Rect) {
	t.rects[key] = r
}

// Get returns the box for key. ok is false when no geometry is known,
// e.g. for an entity that has not been laid out yet.
func (t *Tracker) Get(key string) (r Rect, ok bool) {
	r, ok = t.rects[key]
	return r, ok
}

// Delete drops the box for key.
func (t *Tracker) Delete(key string) {
	delete(t.rects, key)
}

// Len returns the number of tracked boxes, the rocket included.
func (t *Tracker) Len() int {
	return len(t.rects)
}

// Reset drops every box except the rocket's.
func (t *Tracker) Reset() {
	for k := range t.rects {
		if k != RocketKey {
			delete(t.rects, k)
		}
	}
}

// Snapshot returns a copy of all boxes.
func (t *Tracker) Snapshot() map[string]Rect {
	out := make(map[string]Rect, len(t.rects))
	for k, v := range t.rects {
		out[k] = v
	}
	return out
}
