package testing

import (
	"sync"
	"testing"
	"time"
)

func TestFakeClock_Advance(t *testing.T) {
	clk := NewFakeClock()
	start := clk.Now()

	clk.Advance(100 * time.Millisecond)
	elapsed := clk.Now().Sub(start)

	if elapsed != 100*time.Millisecond {
		t.Errorf("expected 100ms elapsed, got %v", elapsed)
	}
}

func TestFakeClock_Set(t *testing.T) {
	clk := NewFakeClock()
	target := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	clk.Set(target)
	if !clk.Now().Equal(target) {
		t.Errorf("expected %v, got %v", target, clk.Now())
	}
}

func TestFakeClock_AutoStep(t *testing.T) {
	clk := NewFakeClock()
	clk.AutoStep(time.Second)

	first := clk.Now()
	second := clk.Now()
	if got := second.Sub(first); got != time.Second {
		t.Errorf("expected 1s between readings, got %v", got)
	}
	if !clk.Peek().Equal(second.Add(time.Second)) {
		t.Errorf("Peek = %v, want %v", clk.Peek(), second.Add(time.Second))
	}

	clk.AutoStep(0)
	if !clk.Now().Equal(clk.Now()) {
		t.Error("expected stable readings with auto step disabled")
	}
}

func TestFakeClock_Concurrent(t *testing.T) {
	clk := NewFakeClock()
	start := clk.Peek()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clk.Advance(time.Millisecond)
			_ = clk.Now()
		}()
	}
	wg.Wait()

	if got := clk.Peek().Sub(start); got != 10*time.Millisecond {
		t.Errorf("expected 10ms elapsed, got %v", got)
	}
}
