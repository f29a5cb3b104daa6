package concurrent

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
)

func TestMapPreservesOrder(t *testing.T) {
	items := make([]int, 50)
	for i := range items {
		items[i] = i
	}

	results, err := Map(context.Background(), items, func(_ context.Context, n int) (int, error) {
		return n * 2, nil
	}, 8)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	for i, r := range results {
		if r != i*2 {
			t.Fatalf("results[%d] = %d, want %d", i, r, i*2)
		}
	}
}

func TestMapFirstErrorWins(t *testing.T) {
	boom := errors.New("boom")
	var completed atomic.Int32

	items := []int{0, 1, 2, 3, 4, 5, 6, 7}
	_, err := Map(context.Background(), items, func(_ context.Context, n int) (int, error) {
		if n == 3 {
			return 0, boom
		}
		completed.Add(1)
		return n, nil
	}, 2)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	// The remaining items still drain; an error does not abandon work in
	// flight.
	if got := completed.Load(); got != 7 {
		t.Errorf("completed = %d, want 7", got)
	}
}

func TestMapEmptyInput(t *testing.T) {
	results, err := Map(context.Background(), nil, func(_ context.Context, n int) (int, error) {
		return n, nil
	}, 4)
	if err != nil || results != nil {
		t.Errorf("empty input: results = %v, err = %v", results, err)
	}
}

func TestMapBoundsConcurrency(t *testing.T) {
	var active, peak atomic.Int32

	items := make([]int, 40)
	_, err := Map(context.Background(), items, func(_ context.Context, _ int) (int, error) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		active.Add(-1)
		return 0, nil
	}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if peak.Load() > 3 {
		t.Errorf("peak concurrency = %d, want at most 3", peak.Load())
	}
}

func TestMapCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []int{1, 2, 3}
	_, err := Map(ctx, items, func(_ context.Context, n int) (int, error) {
		return n, nil
	}, 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestForEach(t *testing.T) {
	var sum atomic.Int64
	items := []int{1, 2, 3, 4, 5}

	if err := ForEach(context.Background(), items, func(_ context.Context, n int) error {
		sum.Add(int64(n))
		return nil
	}, 2); err != nil {
		t.Fatal(err)
	}
	if sum.Load() != 15 {
		t.Errorf("sum = %d, want 15", sum.Load())
	}

	wantErr := fmt.Errorf("item rejected")
	err := ForEach(context.Background(), items, func(_ context.Context, n int) error {
		if n == 4 {
			return wantErr
		}
		return nil
	}, 2)
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want item rejected", err)
	}
}
