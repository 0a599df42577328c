package gesture

import (
	"testing"
	"time"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

func TestHold_IdleReportsNothing(t *testing.T) {
	h := NewHold(0, 0)
	quit, progress, active := h.Tick(at(0))
	if quit || active || progress != 0 {
		t.Fatalf("Tick = (%v, %v, %v), want idle", quit, progress, active)
	}
}

func TestHold_SinglePressResetsAfterSlack(t *testing.T) {
	h := NewHold(time.Second, 600*time.Millisecond)
	h.Press(at(0))

	for ms := 100; ms <= 600; ms += 100 {
		quit, progress, active := h.Tick(at(ms))
		if quit || !active {
			t.Fatalf("at %dms Tick = (%v, %v, %v), want active", ms, quit, progress, active)
		}
		if want := float64(ms) / 1000; progress != want {
			t.Fatalf("at %dms progress = %v, want %v", ms, progress, want)
		}
	}

	for ms := 700; ms <= 2000; ms += 100 {
		quit, _, active := h.Tick(at(ms))
		if quit {
			t.Fatalf("quit fired at %dms after a single press", ms)
		}
		if active {
			t.Fatalf("still active at %dms", ms)
		}
	}
	if h.Active() {
		t.Fatalf("Active = true after slack elapsed")
	}
}

func TestHold_HeldKeyQuitsExactlyOnce(t *testing.T) {
	h := NewHold(time.Second, 600*time.Millisecond)

	quits := 0
	for ms := 0; ms <= 1500; ms += 50 {
		if ms%100 == 0 {
			h.Press(at(ms))
		}
		quit, progress, _ := h.Tick(at(ms))
		if progress < 0 || progress > 1 {
			t.Fatalf("progress %v out of range at %dms", progress, ms)
		}
		if quit {
			quits++
			if ms != 1000 {
				t.Fatalf("quit fired at %dms, want 1000ms", ms)
			}
			break
		}
	}
	if quits != 1 {
		t.Fatalf("quit fired %d times, want 1", quits)
	}
	if h.Active() {
		t.Fatalf("gesture still active after quit")
	}
	if quit, _, _ := h.Tick(at(1050)); quit {
		t.Fatalf("quit fired again after reset")
	}
}

func TestHold_GapLongerThanSlackRestartsHold(t *testing.T) {
	h := NewHold(time.Second, 600*time.Millisecond)
	h.Press(at(0))
	h.Press(at(500))
	h.Press(at(1200)) // 700ms gap: a new hold starts here

	quit, progress, active := h.Tick(at(1300))
	if quit || !active {
		t.Fatalf("Tick = (%v, %v, %v), want active", quit, progress, active)
	}
	if want := 0.1; progress < want-1e-9 || progress > want+1e-9 {
		t.Fatalf("progress = %v, want %v", progress, want)
	}
}

func TestHold_Reset(t *testing.T) {
	h := NewHold(time.Second, 600*time.Millisecond)
	h.Press(at(0))
	h.Reset()
	if _, _, active := h.Tick(at(100)); active {
		t.Fatalf("active after Reset")
	}
}
