package port

import (
	"fmt"
	"sort"
	"sync"
)

// ReadFunc serves a read of a mapped region. It fills buf, whose first byte
// corresponds to address.
type ReadFunc func(address int64, buf []byte) error

// WriteFunc serves a write to a mapped region.
type WriteFunc func(address int64, data []byte) error

// region is a memory-mapped range served by callbacks.
type region struct {
	start, end int64 // inclusive
	onRead     ReadFunc
	onWrite    WriteFunc
}

// MemoryPort is an in-memory register bank. Unwritten addresses read as
// zero. It is safe for concurrent use.
type MemoryPort struct {
	mu      sync.RWMutex
	mem     map[int64]byte
	regions []region
	access  AccessMode

	reads  int
	writes int
}

// NewMemoryPort creates an empty read-write memory port.
func NewMemoryPort() *MemoryPort {
	return &MemoryPort{
		mem:    make(map[int64]byte),
		access: AccessRW,
	}
}

// Compile-time interface satisfaction check.
var _ Port = (*MemoryPort)(nil)

// MapRegion routes accesses starting inside [start, end] to the callbacks.
// A nil callback falls back to plain memory for that direction.
func (p *MemoryPort) MapRegion(start, end int64, onRead ReadFunc, onWrite WriteFunc) error {
	if end < start {
		return fmt.Errorf("%w: region 0x%x-0x%x", ErrInvalidRange, start, end)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.regions {
		if start <= r.end && r.start <= end {
			return fmt.Errorf("%w: region 0x%x-0x%x overlaps 0x%x-0x%x",
				ErrInvalidRange, start, end, r.start, r.end)
		}
	}
	p.regions = append(p.regions, region{start: start, end: end, onRead: onRead, onWrite: onWrite})
	sort.Slice(p.regions, func(i, j int) bool { return p.regions[i].start < p.regions[j].start })
	return nil
}

// SetAccessMode changes the access the port reports.
func (p *MemoryPort) SetAccessMode(mode AccessMode) {
	p.mu.Lock()
	p.access = mode
	p.mu.Unlock()
}

// AccessMode reports the port access.
func (p *MemoryPort) AccessMode() AccessMode {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.access
}

// Read returns length bytes at address.
func (p *MemoryPort) Read(address, length int64) ([]byte, error) {
	if length < 0 {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidRange, length)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.access.CanRead() {
		return nil, fmt.Errorf("%w: port is %s", ErrAccessDenied, p.access)
	}
	p.reads++

	buf := make([]byte, length)
	if r := p.regionAt(address); r != nil && r.onRead != nil {
		if err := r.onRead(address, buf); err != nil {
			return nil, err
		}
		return buf, nil
	}
	for i := range buf {
		buf[i] = p.mem[address+int64(i)]
	}
	return buf, nil
}

// Write stores data at address.
func (p *MemoryPort) Write(address int64, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.access.CanWrite() {
		return fmt.Errorf("%w: port is %s", ErrAccessDenied, p.access)
	}
	p.writes++

	if r := p.regionAt(address); r != nil && r.onWrite != nil {
		return r.onWrite(address, append([]byte(nil), data...))
	}
	p.store(address, data)
	return nil
}

// Poke stores data without access checks or counting. It models the device
// changing its own registers.
func (p *MemoryPort) Poke(address int64, data []byte) {
	p.mu.Lock()
	p.store(address, data)
	p.mu.Unlock()
}

// Peek returns memory contents without access checks or counting.
func (p *MemoryPort) Peek(address, length int64) []byte {
	p.mu.RLock()
	defer p.mu.RUnlock()
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = p.mem[address+int64(i)]
	}
	return buf
}

// Load copies an image of register contents into memory.
func (p *MemoryPort) Load(image map[int64][]byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for addr, data := range image {
		p.store(addr, data)
	}
}

// Stats returns the number of reads and writes served.
func (p *MemoryPort) Stats() (reads, writes int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.reads, p.writes
}

// ResetStats clears the read and write counters.
func (p *MemoryPort) ResetStats() {
	p.mu.Lock()
	p.reads, p.writes = 0, 0
	p.mu.Unlock()
}

func (p *MemoryPort) store(address int64, data []byte) {
	for i, b := range data {
		p.mem[address+int64(i)] = b
	}
}

func (p *MemoryPort) regionAt(address int64) *region {
	i := sort.Search(len(p.regions), func(i int) bool { return p.regions[i].end >= address })
	if i < len(p.regions) && p.regions[i].start <= address {
		return &p.regions[i]
	}
	return nil
}
