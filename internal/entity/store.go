package entity

import (
	"strconv"
	"time"
)

// RemoveFunc is called with the key of every entity leaving a store.
type RemoveFunc func(key string)

// Store keeps the live entities of one kind in spawn order.
// It is not safe for concurrent use; the frame loop goroutine owns it.
type Store struct {
	kind     Kind
	capacity int
	ttl      time.Duration

	seq      uint64 // Never reset, so keys are never reused
	items    []*Entity
	index    map[string]*Entity
	onRemove []RemoveFunc
}

// NewStore creates a store holding at most capacity entities of kind, each
// living at most ttl.
func NewStore(kind Kind, capacity int, ttl time.Duration) *Store {
	return &Store{
		kind:     kind,
		capacity: capacity,
		ttl:      ttl,
		index:    make(map[string]*Entity),
	}
}

// Kind returns the kind of entities this store holds.
func (s *Store) Kind() Kind { return s.kind }

// Capacity returns the maximum number of live entities.
func (s *Store) Capacity() int { return s.capacity }

// OnRemove registers fn to run for every removed entity, whatever the reason.
// Side tables keyed by entity key use it to stay in sync.
func (s *Store) OnRemove(fn RemoveFunc) {
	s.onRemove = append(s.onRemove, fn)
}

// Insert adds one entity per placement, all stamped with now, and returns them.
// Capacity is not enforced here; call EnforceCapacity after a batch.
func (s *Store) Insert(now time.Time, placements ...Placement) []*Entity {
	added := make([]*Entity, 0, len(placements))
	for _, p := range placements {
		s.seq++
		e := &Entity{
			Key:       s.kind.keyPrefix() + strconv.FormatUint(s.seq, 10),
			Kind:      s.kind,
			Seq:       s.seq,
			SpawnTime: now,
			X:         p.X,
			Y:         p.Y,
			Rotation:  p.Rotation,
			Rare:      p.Rare,
		}
		s.items = append(s.items, e)
		s.index[e.Key] = e
		added = append(added, e)
	}
	return added
}

// EnforceCapacity drops the oldest entities until at most Capacity remain.
// It returns the removed keys.
func (s *Store) EnforceCapacity() []string {
	excess := len(s.items) - s.capacity
	if excess <= 0 {
		return nil
	}
	removed := make([]string, 0, excess)
	for _, e := range s.items[:excess] {
		removed = append(removed, e.Key)
	}
	s.items = append(s.items[:0], s.items[excess:]...)
	for _, key := range removed {
		s.forget(key)
	}
	return removed
}

// EvictExpired removes every entity whose age at now has reached the TTL and
// returns the removed keys.
func (s *Store) EvictExpired(now time.Time) []string {
	var removed []string
	kept := s.items[:0]
	for _, e := range s.items {
		if e.Age(now) >= s.ttl {
			removed = append(removed, e.Key)
			continue
		}
		kept = append(kept, e)
	}
	clear(s.items[len(kept):])
	s.items = kept
	for _, key := range removed {
		s.forget(key)
	}
	return removed
}

// Remove deletes the entity with key. It reports whether it was present.
func (s *Store) Remove(key string) bool {
	if _, ok := s.index[key]; !ok {
		return false
	}
	for i, e := range s.items {
		if e.Key == key {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.forget(key)
	return true
}

// MarkCollected flags the reward with key as collected. It reports false when
// the entity is missing or was already collected.
func (s *Store) MarkCollected(key string) bool {
	e, ok := s.index[key]
	if !ok || e.Collected {
		return false
	}
	e.Collected = true
	return true
}

// Clear removes every entity. The key sequence keeps counting.
func (s *Store) Clear() {
	items := s.items
	s.items = nil
	for _, e := range items {
		s.forget(e.Key)
	}
}

// Get returns the entity with key.
func (s *Store) Get(key string) (*Entity, bool) {
	e, ok := s.index[key]
	return e, ok
}

// All returns the live entities in spawn order. The slice is a copy but the
// entities are shared.
func (s *Store) All() []*Entity {
	out := make([]*Entity, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of live entities.
func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) forget(key string) {
	delete(s.index, key)
	for _, fn := range s.onRemove {
		fn(key)
	}
}
