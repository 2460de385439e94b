package clock

import "time"

// TaskID identifies a scheduled task. The zero value is never issued.
type TaskID uint64

// TaskFunc runs when a task comes due. at is the instant the task was due,
// which may be earlier than the time passed to Run when catching up.
type TaskFunc func(at time.Time)

type task struct {
	id    TaskID
	due   time.Time
	next  func() time.Duration // nil for one-shot tasks
	fn    TaskFunc
	alive bool
}

// Scheduler runs timed tasks from the goroutine that calls Run.
// Nothing fires between Run calls and cancellation is synchronous: once
// Cancel returns the task never runs again, even when cancelled from inside
// another task's callback during the same Run.
type Scheduler struct {
	tasks  map[TaskID]*task
	nextID TaskID
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{tasks: make(map[TaskID]*task)}
}

// Every schedules fn every interval, first at now+interval.
func (s *Scheduler) Every(now time.Time, interval time.Duration, fn TaskFunc) TaskID {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return s.add(now.Add(interval), func() time.Duration { return interval }, fn)
}

// After schedules fn once at now+delay.
func (s *Scheduler) After(now time.Time, delay time.Duration, fn TaskFunc) TaskID {
	return s.add(now.Add(delay), nil, fn)
}

// Repeat schedules fn after a delay drawn from delay, and again after a fresh
// delay each time it fires. Used for jittered waves.
func (s *Scheduler) Repeat(now time.Time, delay func() time.Duration, fn TaskFunc) TaskID {
	next := func() time.Duration {
		d := delay()
		if d <= 0 {
			d = time.Millisecond
		}
		return d
	}
	return s.add(now.Add(next()), next, fn)
}

func (s *Scheduler) add(due time.Time, next func() time.Duration, fn TaskFunc) TaskID {
	s.nextID++
	t := &task{id: s.nextID, due: due, next: next, fn: fn, alive: true}
	s.tasks[t.id] = t
	return t.id
}

// Cancel stops the task. Cancelling an unknown or finished task is a no-op.
func (s *Scheduler) Cancel(id TaskID) {
	if t, ok := s.tasks[id]; ok {
		t.alive = false
		delete(s.tasks, id)
	}
}

// CancelAll stops every task.
func (s *Scheduler) CancelAll() {
	for id := range s.tasks {
		s.Cancel(id)
	}
}

// Active reports whether the task is still scheduled.
func (s *Scheduler) Active(id TaskID) bool {
	_, ok := s.tasks[id]
	return ok
}

// Len returns the number of scheduled tasks.
func (s *Scheduler) Len() int {
	return len(s.tasks)
}

// Run fires every task due at or before now, earliest first, ties broken by
// scheduling order. A repeating task that fell several periods behind fires
// once per missed period. It returns the number of callbacks run.
func (s *Scheduler) Run(now time.Time) int {
	fired := 0
	for {
		t := s.earliestDue(now)
		if t == nil {
			return fired
		}
		at := t.due
		if t.next != nil {
			t.due = t.due.Add(t.next())
		} else {
			s.Cancel(t.id)
		}
		t.fn(at)
		fired++
	}
}

func (s *Scheduler) earliestDue(now time.Time) *task {
	var best *task
	for _, t := range s.tasks {
		if !t.alive || t.due.After(now) {
			continue
		}
		if best == nil || t.due.Before(best.due) || (t.due.Equal(best.due) && t.id < best.id) {
			best = t
		}
	}
	return best
}
