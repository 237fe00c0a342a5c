package pool

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolExecutesAllJobsExactlyOnce(t *testing.T) {
	const (
		workers = 4
		jobs    = 100 // more jobs than workers, so jobs queue up
	)

	p := New(workers)

	runs := make([]int32, jobs)
	for i := 0; i < jobs; i++ {
		i := i
		if ok := p.Submit(func() {
			atomic.AddInt32(&runs[i], 1)
		}); !ok {
			t.Fatalf("job %d rejected by open pool", i)
		}
	}

	// Close waits for every submitted job to finish
	p.Close()

	for i, n := range runs {
		if n != 1 {
			t.Errorf("job %d ran %d times, expected exactly once", i, n)
		}
	}
}

func TestPoolCloseWaitsForRunningJobs(t *testing.T) {
	p := New(2)

	var done atomic.Bool
	p.Submit(func() {
		time.Sleep(50 * time.Millisecond)
		done.Store(true)
	})

	p.Close()

	if !done.Load() {
		t.Error("Close returned before the in-flight job finished")
	}
}

func TestPoolSubmitAfterClose(t *testing.T) {
	p := New(1)
	p.Close()

	var ran atomic.Bool
	if ok := p.Submit(func() { ran.Store(true) }); ok {
		t.Error("Submit after Close must report the job as dropped")
	}

	// give a stray execution a chance to show up
	time.Sleep(20 * time.Millisecond)
	if ran.Load() {
		t.Error("job submitted after Close was executed")
	}
}

func TestPoolPanicIsolation(t *testing.T) {
	p := New(1)

	var after atomic.Bool
	p.Submit(func() { panic("boom") })
	p.Submit(func() { after.Store(true) })
	p.Close()

	if !after.Load() {
		t.Error("worker died after a panicking job instead of continuing")
	}
}

func TestPoolCloseIdempotent(t *testing.T) {
	p := New(2)
	p.Close()
	p.Close() // must not panic or hang
}

func TestPoolZeroWorkersPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected New(0) to panic")
		}
	}()
	New(0)
}
