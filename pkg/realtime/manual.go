package realtime

import (
	"sync"
	"time"
)

// ManualScheduler is a Scheduler driven by Advance instead of the wall clock.
// Callbacks run synchronously on the goroutine calling Advance.
type ManualScheduler struct {
	mu   sync.Mutex
	now  time.Duration
	seq  int
	jobs []*manualJob
}

type manualJob struct {
	seq       int
	interval  time.Duration
	next      time.Duration
	fn        func()
	cancelled bool
}

// NewManualScheduler returns a scheduler at virtual time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Every implements Scheduler.
func (m *ManualScheduler) Every(interval time.Duration, fn func()) func() {
	if interval <= 0 {
		interval = time.Second
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	job := &manualJob{
		seq:      m.seq,
		interval: interval,
		next:     m.now + interval,
		fn:       fn,
	}
	m.jobs = append(m.jobs, job)
	return func() {
		m.mu.Lock()
		job.cancelled = true
		m.mu.Unlock()
	}
}

// Advance moves virtual time forward by d, firing every callback that falls due
// in order of due time (registration order breaks ties).
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		job := m.nextDueLocked(target)
		if job == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = job.next
		job.next += job.interval
		fn := job.fn
		m.mu.Unlock()

		fn()
	}
}

// Now returns the virtual time elapsed since creation.
func (m *ManualScheduler) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Active counts schedules that have not been cancelled.
func (m *ManualScheduler) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, job := range m.jobs {
		if !job.cancelled {
			n++
		}
	}
	return n
}

func (m *ManualScheduler) nextDueLocked(target time.Duration) *manualJob {
	live := m.jobs[:0]
	var due *manualJob
	for _, job := range m.jobs {
		if job.cancelled {
			continue
		}
		live = append(live, job)
		if job.next > target {
			continue
		}
		if due == nil || job.next < due.next || (job.next == due.next && job.seq < due.seq) {
			due = job
		}
	}
	for i := len(live); i < len(m.jobs); i++ {
		m.jobs[i] = nil
	}
	m.jobs = live
	return due
}
