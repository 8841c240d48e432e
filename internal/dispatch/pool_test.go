package dispatch

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_ExecutesSubmittedTasks(t *testing.T) {
	p := NewPool(4, 16)
	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		p.Submit(func() {
			defer wg.Done()
			ran.Add(1)
		})
	}
	wg.Wait()
	p.Stop()
	assert.Equal(t, int32(100), ran.Load())
}

func TestPool_StopDrainsQueuedTasks(t *testing.T) {
	p := NewPool(1, 32)
	var ran atomic.Int32
	for i := 0; i < 20; i++ {
		p.Submit(func() { ran.Add(1) })
	}
	p.Stop()
	assert.Equal(t, int32(20), ran.Load())
}

func TestPool_SubmitAfterStopIsDropped(t *testing.T) {
	p := NewPool(1, 1)
	p.Stop()
	assert.NotPanics(t, func() {
		p.Submit(func() { t.Error("task must not run after Stop") })
	})
}

func TestPool_RecoversFromPanickingTask(t *testing.T) {
	p := NewPool(1, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	p.Submit(func() {
		defer wg.Done()
		panic("boom")
	})
	wg.Wait()

	var ran atomic.Bool
	wg.Add(1)
	p.Submit(func() {
		defer wg.Done()
		ran.Store(true)
	})
	wg.Wait()
	p.Stop()
	assert.True(t, ran.Load())
}

func TestPool_StopTwice(t *testing.T) {
	p := NewPool(2, 2)
	p.Stop()
	assert.NotPanics(t, p.Stop)
}

func TestSynchronous_RunsInline(t *testing.T) {
	ran := false
	Synchronous{}.Submit(func() { ran = true })
	assert.True(t, ran)
}
