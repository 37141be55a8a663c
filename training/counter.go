package training

import (
	"encoding/binary"
	"sync"
	"sync/atomic"
)

// CounterMap is the shared concurrent ngram-key -> counter map spec.md §5
// calls for: "a global concurrent map<ngram-key, counter> accumulates; the
// ngram-key hashes the full integer vector... document emission order is
// irrelevant because counts are commutative." Keys are the exact byte
// encoding of the id vector, not a hash, so there are no collisions to
// reason about.
type CounterMap struct {
	mu     sync.RWMutex
	counts map[string]*int64
}

// NewCounterMap returns an empty CounterMap.
func NewCounterMap() *CounterMap {
	return &CounterMap{counts: make(map[string]*int64)}
}

// counterKey encodes an id vector as a fixed-width big-endian byte string
// usable as a map key; two equal vectors always produce equal keys.
func counterKey(ngram []int32) string {
	buf := make([]byte, len(ngram)*4)
	for i, id := range ngram {
		binary.BigEndian.PutUint32(buf[i*4:], uint32(id))
	}
	return string(buf)
}

func decodeCounterKey(key string) []int32 {
	ids := make([]int32, len(key)/4)
	for i := range ids {
		ids[i] = int32(binary.BigEndian.Uint32([]byte(key[i*4 : i*4+4])))
	}
	return ids
}

// Increment adds one occurrence of ngram, creating its counter on first
// use, and returns the updated total.
func (c *CounterMap) Increment(ngram []int32) int64 {
	key := counterKey(ngram)

	c.mu.RLock()
	p, ok := c.counts[key]
	c.mu.RUnlock()
	if ok {
		return atomic.AddInt64(p, 1)
	}

	c.mu.Lock()
	p, ok = c.counts[key]
	if !ok {
		v := new(int64)
		c.counts[key] = v
		p = v
	}
	c.mu.Unlock()
	return atomic.AddInt64(p, 1)
}

// Len reports the number of distinct n-grams observed.
func (c *CounterMap) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.counts)
}

// ForEach visits every accumulated (ngram, count) pair. It takes a
// snapshot of the key set under the read lock then reads counters without
// holding any lock, consistent with spec.md §5's guarantee that document
// order doesn't matter once training is aggregating counts sequentially
// after the fan-out stage completes.
func (c *CounterMap) ForEach(fn func(ngram []int32, count int64)) {
	c.mu.RLock()
	keys := make([]string, 0, len(c.counts))
	ptrs := make([]*int64, 0, len(c.counts))
	for k, p := range c.counts {
		keys = append(keys, k)
		ptrs = append(ptrs, p)
	}
	c.mu.RUnlock()

	for i, k := range keys {
		fn(decodeCounterKey(k), atomic.LoadInt64(ptrs[i]))
	}
}
