package cache

import (
	"bytes"
	"context"
	"sync"
)

// call is one in-flight load.
type call struct {
	wg  sync.WaitGroup
	val []byte
	err error
}

// flight deduplicates concurrent loads for the same key.
type flight struct {
	mu    sync.Mutex
	loads map[string]*call
}

// do runs loader once per key among concurrent callers. store is invoked
// with the loaded value before waiters are released.
func (f *flight) do(ctx context.Context, key string, loader func(context.Context) ([]byte, error), store func([]byte)) ([]byte, error) {
	f.mu.Lock()
	if f.loads == nil {
		f.loads = make(map[string]*call)
	}
	if c, ok := f.loads[key]; ok {
		f.mu.Unlock()
		c.wg.Wait()
		if c.err != nil {
			return nil, c.err
		}
		return bytes.Clone(c.val), nil
	}

	c := &call{}
	c.wg.Add(1)
	f.loads[key] = c
	f.mu.Unlock()

	f.run(c, key, func() {
		c.val, c.err = loader(ctx)
		if c.err == nil {
			store(c.val)
		}
	})

	if c.err != nil {
		return nil, c.err
	}
	return bytes.Clone(c.val), nil
}

// run executes load and always releases the waiters of c, also when load
// panics or exits the goroutine. The panic keeps unwinding after cleanup.
func (f *flight) run(c *call, key string, load func()) {
	normalReturn := false
	defer func() {
		if !normalReturn {
			c.val, c.err = nil, ErrLoaderPanicked
		}
		c.wg.Done()

		f.mu.Lock()
		delete(f.loads, key)
		f.mu.Unlock()
	}()

	load()
	normalReturn = true
}
