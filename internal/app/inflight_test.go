package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/miteshsondhi/swagger-stats/internal/domain"
)

func TestInflight_WaitIdle(t *testing.T) {
	var f inflight
	if err := f.Wait(context.Background()); err != nil {
		t.Fatalf("Wait on idle group: %v", err)
	}
}

func TestInflight_WaitBlocksUntilDone(t *testing.T) {
	var f inflight
	release := make(chan struct{})
	f.Go(func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := f.Wait(ctx); !errors.Is(err, domain.ErrShutdownTimeout) {
		t.Fatalf("Wait error = %v, want ErrShutdownTimeout", err)
	}

	close(release)
	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := f.Wait(ctx2); err != nil {
		t.Fatalf("Wait after release: %v", err)
	}

	// The group is reusable once idle.
	f.Go(func() {})
	if err := f.Wait(ctx2); err != nil {
		t.Fatalf("Wait after reuse: %v", err)
	}
}

func TestInflight_ConcurrentGoAndWait(t *testing.T) {
	var f inflight
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					f.Go(func() {})
				}
			}
		}()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := 0; i < 2000; i++ {
		if err := f.Wait(ctx); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	close(stop)
	wg.Wait()
	if err := f.Wait(ctx); err != nil {
		t.Fatalf("final Wait: %v", err)
	}
}
