package process_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ghostmind-dev/run/pkg/process"
)

func waitClosed(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestManager_CancelThenStopReturns(t *testing.T) {
	var handled int32
	handlerDone := make(chan struct{})

	m := process.NewManager(nil)
	m.RegisterShutdownHandler(func() {
		atomic.AddInt32(&handled, 1)
		close(handlerDone)
	})

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)

	if !m.IsRunning() {
		t.Fatal("expected manager to be running after Start")
	}

	// Stop waits for the signal goroutine; it only returns promptly
	// when the context was cancelled first.
	stopDone := make(chan struct{})
	go func() {
		cancel()
		m.Stop()
		close(stopDone)
	}()

	waitClosed(t, stopDone, "Stop after cancel")
	waitClosed(t, handlerDone, "shutdown handler")

	if atomic.LoadInt32(&handled) != 1 {
		t.Errorf("expected the shutdown handler to run once, ran %d times", handled)
	}
	if m.IsRunning() {
		t.Error("expected manager to be stopped")
	}
}

func TestManager_HandlersRunInReverseOrder(t *testing.T) {
	var order []string
	done := make(chan struct{})

	m := process.NewManager(nil)
	// Registered first, so it runs last and signals completion.
	m.RegisterShutdownHandler(func() {
		order = append(order, "first")
		close(done)
	})
	m.RegisterShutdownHandler(func() {
		order = append(order, "second")
	})

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)

	cancel()
	waitClosed(t, done, "shutdown handlers")
	m.Stop()

	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Errorf("expected reverse registration order, got %v", order)
	}
}

func TestManager_StartIsIdempotent(t *testing.T) {
	m := process.NewManager(nil)

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	m.Start(ctx)

	cancel()
	m.Stop()

	if m.IsRunning() {
		t.Error("expected manager to be stopped")
	}
}
