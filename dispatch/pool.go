package dispatch

// EmitterPool hands out emitter handles round-robin
// An emitter reused before its previous sound ends cuts that sound off
type EmitterPool struct {
	size int
	next int
}

func NewEmitterPool(size int) *EmitterPool {
	return &EmitterPool{size: size}
}

// Next returns the current handle and advances with wraparound
// Returns -1 for an empty or released pool
func (p *EmitterPool) Next() int {
	if p.size <= 0 {
		return -1
	}
	h := p.next
	p.next = (p.next + 1) % p.size
	return h
}

func (p *EmitterPool) Size() int { return p.size }

// Release empties the pool
func (p *EmitterPool) Release() {
	p.size, p.next = 0, 0
}
