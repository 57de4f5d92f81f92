package emu

import "fmt"

// MaxMemory is the number of words in the address space.
const MaxMemory = 65536

// DataPort is the memory-port contract used by the execute units. Memory
// implements it directly; a cache implements it by layering over Memory.
type DataPort interface {
	// Load reads the word at addr.
	Load(addr int) (int32, error)
	// Store writes value to addr.
	Store(addr int, value int32) error
}

// Memory is the word-addressed LC-2K memory. Instructions and data share the
// same address space.
type Memory struct {
	words [MaxMemory]int32

	// numMemory is the length of the program-supplied prefix.
	numMemory int
}

// NewMemory creates an all-zero memory.
func NewMemory() *Memory {
	return &Memory{}
}

// LoadProgram copies words starting at address 0 and records their count.
func (m *Memory) LoadProgram(words []int32) error {
	if len(words) > MaxMemory {
		return fmt.Errorf("program of %d words exceeds memory size %d",
			len(words), MaxMemory)
	}
	copy(m.words[:], words)
	m.numMemory = len(words)
	return nil
}

// NumMemory returns how many words the program supplied.
func (m *Memory) NumMemory() int {
	return m.numMemory
}

// InBounds reports whether addr is a valid word address.
func InBounds(addr int) bool {
	return addr >= 0 && addr < MaxMemory
}

// Read returns the word at addr. It panics on an invalid address; callers
// that cannot guarantee the address use Load.
func (m *Memory) Read(addr int) int32 {
	return m.words[addr]
}

// Write stores a word at addr. It panics on an invalid address.
func (m *Memory) Write(addr int, value int32) {
	m.words[addr] = value
}

// Load implements DataPort.
func (m *Memory) Load(addr int) (int32, error) {
	if !InBounds(addr) {
		return 0, fmt.Errorf("load from %d: %w", addr, ErrAddressOutOfBounds)
	}
	return m.words[addr], nil
}

// Store implements DataPort.
func (m *Memory) Store(addr int, value int32) error {
	if !InBounds(addr) {
		return fmt.Errorf("store to %d: %w", addr, ErrAddressOutOfBounds)
	}
	m.words[addr] = value
	return nil
}

// Words returns a copy of the first n words. n is clamped to the memory
// size.
func (m *Memory) Words(n int) []int32 {
	if n > MaxMemory {
		n = MaxMemory
	}
	out := make([]int32, n)
	copy(out, m.words[:n])
	return out
}

// Clone returns a deep copy of the memory.
func (m *Memory) Clone() *Memory {
	c := *m
	return &c
}
