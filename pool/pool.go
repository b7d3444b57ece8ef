// Package pool provides a typed sync.Pool for objects backed by C memory.
package pool

import (
	"runtime"
	"sync"
)

// Pool recycles objects; objects dropped by the sync.Pool are released
// with the free function by a finalizer.
type Pool[T any] struct {
	pool      sync.Pool
	resetFunc func(*T)

	// NoReuse makes Put a no-op, which helps to catch use-after-put bugs.
	NoReuse bool
}

func NewPool[T any](
	allocFunc func() *T,
	resetFunc func(*T),
	freeFunc func(*T),
) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				v := allocFunc()
				runtime.SetFinalizer(v, func(v *T) {
					freeFunc(v)
				})
				return v
			},
		},
		resetFunc: resetFunc,
	}
}

func (p *Pool[T]) Get() *T {
	return p.pool.Get().(*T)
}

// Put resets the items and returns them to the pool. Nil items are
// skipped.
func (p *Pool[T]) Put(items ...*T) {
	if p.NoReuse {
		return
	}
	for _, item := range items {
		if item == nil {
			continue
		}
		p.resetFunc(item)
		p.pool.Put(item)
	}
}
