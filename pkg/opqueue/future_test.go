package opqueue

import (
	"context"
	"testing"
	"time"
)

func TestFuture_WaitContextCancelled(t *testing.T) {
	f := newFuture()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.Wait(ctx)
	if err != context.DeadlineExceeded {
		t.Fatalf("Wait() = %v, want context.DeadlineExceeded", err)
	}
}

func TestAwait_TypedResult(t *testing.T) {
	f := newFuture()
	f.complete("hello", nil)

	got, err := Await[string](context.Background(), f)
	if err != nil {
		t.Fatalf("Await() = %v", err)
	}
	if got != "hello" {
		t.Fatalf("Await() = %q, want %q", got, "hello")
	}
}

func TestAwait_TypeMismatch(t *testing.T) {
	f := newFuture()
	f.complete("hello", nil)

	if _, err := Await[int](context.Background(), f); err == nil {
		t.Fatal("Await() with wrong type should fail")
	}
}

func TestAwait_NilResult(t *testing.T) {
	f := newFuture()
	f.complete(nil, nil)

	got, err := Await[string](context.Background(), f)
	if err != nil {
		t.Fatalf("Await() = %v", err)
	}
	if got != "" {
		t.Fatalf("Await() = %q, want zero value", got)
	}
}

func TestFuture_DoneClosedAfterCompletion(t *testing.T) {
	q := New(Options{})
	fut := q.Enqueue(func(ctx context.Context) (any, error) {
		return nil, nil
	})

	select {
	case <-fut.Done():
	case <-time.After(time.Second):
		t.Fatal("Done() not closed after operation completed")
	}

	// Wait after completion must not block and must keep returning the result.
	if _, err := fut.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
}
