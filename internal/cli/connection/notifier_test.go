package connection

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestNotifier(t *testing.T) {
	var n Notifier

	if n.Fire() {
		t.Error("empty slot should not fire")
	}

	var a, b int32
	n.Register(func() { atomic.AddInt32(&a, 1) })
	n.Register(func() { atomic.AddInt32(&b, 1) })

	if !n.Fire() {
		t.Error("expected callback to run")
	}
	if a != 0 || b != 1 {
		t.Errorf("a=%d b=%d; registration should replace", a, b)
	}

	n.Register(nil)
	if n.Fire() {
		t.Error("Register(nil) should empty the slot")
	}
}

func TestNotifier_Concurrent(t *testing.T) {
	var n Notifier
	var calls int32

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			n.Register(func() { atomic.AddInt32(&calls, 1) })
		}()
		go func() {
			defer wg.Done()
			n.Fire()
		}()
	}
	wg.Wait()

	if !n.Fire() {
		t.Error("slot should hold the last registration")
	}
}
