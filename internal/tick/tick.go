// Package tick provides the process-wide "now" reference that drives
// countdown re-projection without re-fetching from upstream.
package tick

import (
	"sync"
	"time"
)

// DefaultInterval is how often the tick advances while observed.
const DefaultInterval = 60 * time.Second

// Source is a shared, periodically-refreshed timestamp (milliseconds since
// epoch). The ticking loop runs only while at least one subscriber is
// attached: it starts when the first subscriber arrives and stops when the
// last one detaches. Every consumer reacting to the same tick observes the
// same Now value.
type Source struct {
	mu        sync.Mutex
	interval  time.Duration
	nowMillis int64
	subs      map[int]chan int64
	nextID    int
	stopCh    chan struct{}
	kickCh    chan struct{}
	running   bool
}

// NewSource creates a Source. A non-positive interval falls back to
// DefaultInterval.
func NewSource(interval time.Duration) *Source {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Source{
		interval:  interval,
		nowMillis: time.Now().UnixMilli(),
		subs:      make(map[int]chan int64),
	}
}

// Now returns the current tick value.
func (s *Source) Now() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nowMillis
}

// Subscribe registers an observer channel that receives each tick value.
// The returned cancel function detaches the observer and must be called when
// the owning scope is torn down; the ticking loop stops once no observers
// remain.
func (s *Source) Subscribe(buffer int) (<-chan int64, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan int64, buffer)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	if !s.running {
		s.running = true
		s.nowMillis = time.Now().UnixMilli()
		s.stopCh = make(chan struct{})
		s.kickCh = make(chan struct{}, 1)
		go s.run(s.stopCh, s.kickCh)
	}
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			if len(s.subs) == 0 && s.running {
				close(s.stopCh)
				s.running = false
			}
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// ForceRefresh immediately sets the tick to the actual current time, notifies
// subscribers, and resets the interval phase. Used after a manual data
// refresh so displayed countdowns don't stay on a stale baseline for up to a
// full interval.
func (s *Source) ForceRefresh() {
	s.mu.Lock()
	s.nowMillis = time.Now().UnixMilli()
	s.broadcastLocked(s.nowMillis)
	kick := s.kickCh
	running := s.running
	s.mu.Unlock()

	if running {
		select {
		case kick <- struct{}{}:
		default:
		}
	}
}

func (s *Source) run(stopCh <-chan struct{}, kickCh <-chan struct{}) {
	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-kickCh:
			// Phase reset after ForceRefresh; the refreshed value was
			// already broadcast.
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(s.interval)
		case <-timer.C:
			s.mu.Lock()
			s.nowMillis = time.Now().UnixMilli()
			s.broadcastLocked(s.nowMillis)
			s.mu.Unlock()
			timer.Reset(s.interval)
		}
	}
}

func (s *Source) broadcastLocked(now int64) {
	for _, ch := range s.subs {
		select {
		case ch <- now:
		default:
		}
	}
}
