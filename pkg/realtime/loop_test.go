package realtime

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoop_RunsInOrder(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	var got []int
	for i := 0; i < 5; i++ {
		i := i
		l.Post(func() { got = append(got, i) })
	}
	if err := l.Do(context.Background(), func() {}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("got %v, want ascending order", got)
		}
	}
	if len(got) != 5 {
		t.Errorf("len %d, want 5", len(got))
	}
}

func TestLoop_PostFromLoop(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	done := make(chan struct{})
	l.Post(func() {
		l.Post(func() { close(done) })
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("nested Post never ran")
	}
}

func TestLoop_DoAfterClose(t *testing.T) {
	l := NewLoop()
	l.Close()
	l.Close()

	err := l.Do(context.Background(), func() { t.Error("should not run") })
	if !errors.Is(err, ErrLoopClosed) {
		t.Errorf("err %v, want ErrLoopClosed", err)
	}
	if l.Post(func() {}) {
		t.Error("Post after Close should report false")
	}
}

func TestLoop_DoContextCancelled(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	block := make(chan struct{})
	l.Post(func() { <-block })
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.Do(ctx, func() {})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err %v, want deadline exceeded", err)
	}
}

func TestLoop_EveryStopsAfterCancel(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	ticks := make(chan struct{}, 100)
	var cancel func()
	count := 0
	// Register on the loop so cancel is only ever touched from there.
	_ = l.Do(context.Background(), func() {
		cancel = l.Every(5*time.Millisecond, func() {
			count++
			ticks <- struct{}{}
			if count == 2 {
				cancel()
			}
		})
	})

	for i := 0; i < 2; i++ {
		select {
		case <-ticks:
		case <-time.After(time.Second):
			t.Fatal("tick never arrived")
		}
	}
	time.Sleep(30 * time.Millisecond)
	var final int
	_ = l.Do(context.Background(), func() { final = count })
	if final != 2 {
		t.Errorf("count %d after cancel, want 2", final)
	}
}
