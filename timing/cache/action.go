package cache

import (
	"fmt"
	"io"
)

// ActionType names the two ends of a transfer.
type ActionType int

// Transfer directions.
const (
	// CacheToProcessor is a load served by the cache.
	CacheToProcessor ActionType = iota
	// ProcessorToCache is a store written into the cache.
	ProcessorToCache
	// MemoryToCache is a block fill.
	MemoryToCache
	// CacheToMemory is a dirty block written back.
	CacheToMemory
	// CacheToNowhere is a clean block dropped on eviction.
	CacheToNowhere
)

var actionEnds = [...]string{
	CacheToProcessor: "from the cache to the processor",
	ProcessorToCache: "from the processor to the cache",
	MemoryToCache:    "from the memory to the cache",
	CacheToMemory:    "from the cache to the memory",
	CacheToNowhere:   "from the cache to nowhere",
}

// String returns the direction phrase used in transfer logs.
func (t ActionType) String() string {
	if t < 0 || int(t) >= len(actionEnds) {
		return fmt.Sprintf("ActionType(%d)", int(t))
	}
	return actionEnds[t]
}

// Action is one transfer of a word range.
type Action struct {
	// Address is the first word transferred.
	Address int
	// Size is the number of words.
	Size int
	Type ActionType
}

// String formats the action as "@@@ transferring word [a-b] from ...".
func (a Action) String() string {
	return fmt.Sprintf("@@@ transferring word [%d-%d] %s",
		a.Address, a.Address+a.Size-1, a.Type)
}

// NewActionPrinter returns an observer that writes each action on its own
// line.
func NewActionPrinter(w io.Writer) func(Action) {
	return func(a Action) {
		fmt.Fprintln(w, a.String())
	}
}
