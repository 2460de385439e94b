package loop

// Event is something the collision engine observed. The set is closed:
// CollisionEvent, CollectEvent and NearMissEvent.
type Event interface {
	isEvent()
}

// CollisionEvent reports the rocket touching an obstacle.
type CollisionEvent struct {
	Key string
}

// CollectEvent reports the rocket touching an uncollected reward.
type CollectEvent struct {
	Key  string
	Rare bool
}

// NearMissEvent reports an obstacle passing close to the rocket.
type NearMissEvent struct {
	Key string
}

func (CollisionEvent) isEvent() {}
func (CollectEvent) isEvent()   {}
func (NearMissEvent) isEvent()  {}

// eventQueue buffers events between detection and the state machine.
type eventQueue struct {
	events []Event
}

func (q *eventQueue) push(e Event) {
	q.events = append(q.events, e)
}

// drain returns the queued events and empties the queue.
func (q *eventQueue) drain() []Event {
	out := q.events
	q.events = nil
	return out
}

func (q *eventQueue) reset() {
	q.events = nil
}
