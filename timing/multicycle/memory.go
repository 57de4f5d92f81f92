package multicycle

import (
	"fmt"

	"github.com/sarchlab/lcsim/emu"
)

// LatencyMemory wraps a memory with variable access latency. A new access
// (a different address or direction, or a write of different data) waits
// address%3 extra cycles; each retry of the same access counts the delay
// down.
type LatencyMemory struct {
	memory *emu.Memory

	lastAddress int
	lastRead    bool
	lastData    int32
	delay       int
}

// NewLatencyMemory creates a latency model over memory.
func NewLatencyMemory(memory *emu.Memory) *LatencyMemory {
	return &LatencyMemory{
		memory:      memory,
		lastAddress: -1,
	}
}

// Read attempts a read. ready is false while the access is still pending.
func (m *LatencyMemory) Read(addr int) (value int32, ready bool, err error) {
	ready, err = m.access(addr, true, 0)
	if err != nil || !ready {
		return 0, ready, err
	}
	return m.memory.Read(addr), true, nil
}

// Write attempts a write. ready is false while the access is still pending.
func (m *LatencyMemory) Write(addr int, value int32) (ready bool, err error) {
	ready, err = m.access(addr, false, value)
	if err != nil || !ready {
		return ready, err
	}
	m.memory.Write(addr, value)
	return true, nil
}

func (m *LatencyMemory) access(addr int, read bool, data int32) (bool, error) {
	if !emu.InBounds(addr) {
		return false, fmt.Errorf("access to %d: %w", addr, emu.ErrAddressOutOfBounds)
	}

	if addr != m.lastAddress || read != m.lastRead || (!read && data != m.lastData) {
		m.delay = addr % 3
		m.lastAddress = addr
		m.lastRead = read
		m.lastData = data
	}

	if m.delay == 0 {
		return true, nil
	}

	m.delay--
	return false, nil
}
