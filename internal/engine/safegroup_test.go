package engine_test

import (
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ghostmind-dev/run/internal/engine"
)

func TestSafeGroup_WaitIsABarrier(t *testing.T) {
	var done int32
	sg := engine.NewSafeGroup(nil)

	for i := 0; i < 5; i++ {
		sg.Go(func() error {
			atomic.AddInt32(&done, 1)
			return nil
		})
	}

	if err := sg.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atomic.LoadInt32(&done) != 5 {
		t.Errorf("expected 5 completed tasks, got %d", done)
	}
}

func TestSafeGroup_PanicBecomesError(t *testing.T) {
	sg := engine.NewSafeGroup(nil)

	sg.Go(func() error {
		panic("exploded")
	})

	err := sg.Wait()
	if err == nil {
		t.Fatal("expected a panic to surface as an error")
	}
	if !strings.Contains(err.Error(), "exploded") {
		t.Errorf("expected panic value in error, got %v", err)
	}
}

func TestSafeGroup_SiblingsFinishDespiteFailure(t *testing.T) {
	var done int32
	sg := engine.NewSafeGroup(nil)

	sg.Go(func() error {
		return errors.New("boom")
	})
	sg.Go(func() error {
		atomic.AddInt32(&done, 1)
		return nil
	})

	if err := sg.Wait(); err == nil {
		t.Fatal("expected the first error to be returned")
	}
	if atomic.LoadInt32(&done) != 1 {
		t.Error("a failing task must not stop its siblings")
	}
}
