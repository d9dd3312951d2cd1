// Package bufpool provides reusable I/O buffers. Workload runs churn
// through one buffer per in-flight unit at a fixed block size; recycling
// them keeps the hot loop free of allocator traffic.
package bufpool

import "sync"

// Pool hands out fixed-size byte buffers.
type Pool struct {
	size int
	p    sync.Pool
}

// New creates a pool of size-byte buffers.
func New(size int) *Pool {
	pl := &Pool{size: size}
	pl.p.New = func() any {
		b := make([]byte, size)
		return &b
	}
	return pl
}

// Size returns the buffer size this pool serves.
func (p *Pool) Size() int { return p.size }

// Get returns a buffer of exactly the pool's size. Contents are
// unspecified; callers overwrite what they use.
func (p *Pool) Get() []byte {
	return *p.p.Get().(*[]byte)
}

// Put returns a buffer obtained from Get. Buffers of any other size are
// dropped rather than poisoning the pool.
func (p *Pool) Put(b []byte) {
	if len(b) != p.size {
		return
	}
	p.p.Put(&b)
}
