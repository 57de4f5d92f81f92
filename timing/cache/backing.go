package cache

import "github.com/sarchlab/lcsim/emu"

// MemoryBacking wraps emu.Memory as a BackingStore.
type MemoryBacking struct {
	memory *emu.Memory
}

// NewMemoryBacking creates a new MemoryBacking adapter.
func NewMemoryBacking(memory *emu.Memory) *MemoryBacking {
	return &MemoryBacking{memory: memory}
}

// Read fetches size words starting at addr.
func (m *MemoryBacking) Read(addr, size int) []int32 {
	data := make([]int32, size)
	for i := range data {
		data[i] = m.memory.Read(addr + i)
	}
	return data
}

// Write stores data starting at addr.
func (m *MemoryBacking) Write(addr int, data []int32) {
	for i, v := range data {
		m.memory.Write(addr+i, v)
	}
}
