package realtime

import (
	"testing"
	"time"
)

func TestManualScheduler_FiresOnInterval(t *testing.T) {
	m := NewManualScheduler()
	calls := 0
	m.Every(time.Second, func() { calls++ })

	m.Advance(999 * time.Millisecond)
	if calls != 0 {
		t.Fatalf("calls %d before first interval, want 0", calls)
	}
	m.Advance(time.Millisecond)
	if calls != 1 {
		t.Fatalf("calls %d, want 1", calls)
	}
	m.Advance(3 * time.Second)
	if calls != 4 {
		t.Errorf("calls %d, want 4", calls)
	}
	if m.Now() != 4*time.Second {
		t.Errorf("Now %v, want 4s", m.Now())
	}
}

func TestManualScheduler_Cancel(t *testing.T) {
	m := NewManualScheduler()
	calls := 0
	cancel := m.Every(time.Second, func() { calls++ })
	m.Advance(2 * time.Second)
	cancel()
	m.Advance(5 * time.Second)
	if calls != 2 {
		t.Errorf("calls %d, want 2", calls)
	}
	if m.Active() != 0 {
		t.Errorf("Active %d, want 0", m.Active())
	}
}

func TestManualScheduler_OrderByDueTime(t *testing.T) {
	m := NewManualScheduler()
	var got []string
	m.Every(2*time.Second, func() { got = append(got, "slow") })
	m.Every(time.Second, func() { got = append(got, "fast") })

	m.Advance(2 * time.Second)

	want := []string{"fast", "slow", "fast"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestManualScheduler_CancelFromCallback(t *testing.T) {
	m := NewManualScheduler()
	calls := 0
	var cancel func()
	cancel = m.Every(time.Second, func() {
		calls++
		cancel()
	})
	m.Advance(10 * time.Second)
	if calls != 1 {
		t.Errorf("calls %d, want 1", calls)
	}
}
