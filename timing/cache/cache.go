// Package cache provides a word-addressed LC-2K data cache using Akita cache
// components.
//
// The cache is set-associative, write-back and write-allocate with LRU
// replacement. It implements emu.DataPort, so any processor model can place
// it in front of its data memory.
package cache

import (
	"errors"
	"fmt"
	"log/slog"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/sarchlab/lcsim/emu"
)

// Size limits, in words and sets.
const (
	MaxBlockSize = 256
	MaxNumSets   = 256
)

// ErrInvalidConfig is returned for a geometry the cache cannot model.
var ErrInvalidConfig = errors.New("invalid cache configuration")

// Config holds cache geometry. All sizes are in words.
type Config struct {
	// BlockSize is the number of words per block.
	BlockSize int
	// NumSets is the number of sets.
	NumSets int
	// BlocksPerSet is the associativity.
	BlocksPerSet int
}

// DefaultConfig returns a small 2-way cache of 4-word blocks.
func DefaultConfig() Config {
	return Config{
		BlockSize:    4,
		NumSets:      2,
		BlocksPerSet: 2,
	}
}

// Size returns the capacity in words.
func (c Config) Size() int {
	return c.BlockSize * c.NumSets * c.BlocksPerSet
}

// Validate checks that every dimension is a positive power of two and that
// blocks and sets stay within their limits.
func (c Config) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"block size", c.BlockSize},
		{"number of sets", c.NumSets},
		{"blocks per set", c.BlocksPerSet},
	}

	for _, f := range fields {
		if f.value <= 0 || f.value&(f.value-1) != 0 {
			return fmt.Errorf("%s %d is not a positive power of two: %w",
				f.name, f.value, ErrInvalidConfig)
		}
	}

	if c.BlockSize > MaxBlockSize {
		return fmt.Errorf("block size %d exceeds %d: %w", c.BlockSize, MaxBlockSize, ErrInvalidConfig)
	}

	if c.NumSets > MaxNumSets {
		return fmt.Errorf("number of sets %d exceeds %d: %w", c.NumSets, MaxNumSets, ErrInvalidConfig)
	}

	return nil
}

// Statistics holds cache performance statistics.
type Statistics struct {
	Reads      uint64
	Writes     uint64
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Writebacks uint64
}

// HitRate returns hits over accesses.
func (s Statistics) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// BackingStore interface for the next level in the memory hierarchy.
type BackingStore interface {
	// Read fetches size words starting at addr.
	Read(addr, size int) []int32
	// Write stores words starting at addr.
	Write(addr int, data []int32)
}

// Option is a functional option for configuring the Cache.
type Option func(*Cache)

// WithActionObserver registers a function called for every transfer.
func WithActionObserver(observer func(Action)) Option {
	return func(c *Cache) {
		c.observer = observer
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// Cache represents an LC-2K data cache using Akita cache components.
type Cache struct {
	// Configuration
	config Config

	// Akita cache directory for tag/state management
	directory *akitacache.DirectoryImpl

	// Data storage - indexed by (setID * associativity + wayID)
	dataStore [][]int32

	// Statistics
	stats Statistics

	// Backing store interface (for fetching on miss and writeback)
	backing BackingStore

	observer func(Action)
	logger   *slog.Logger
}

// New creates a new cache with the given configuration.
func New(config Config, backing BackingStore, opts ...Option) (*Cache, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	totalBlocks := config.NumSets * config.BlocksPerSet
	dataStore := make([][]int32, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]int32, config.BlockSize)
	}

	c := &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			config.NumSets,
			config.BlocksPerSet,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
		backing:   backing,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// ResetStats clears cache statistics.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
}

// blockIndex computes the index into dataStore for a block.
func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.BlocksPerSet + block.WayID
}

func (c *Cache) blockAddr(addr int) int {
	return addr / c.config.BlockSize * c.config.BlockSize
}

// Load implements emu.DataPort.
func (c *Cache) Load(addr int) (int32, error) {
	if !emu.InBounds(addr) {
		return 0, fmt.Errorf("load from %d: %w", addr, emu.ErrAddressOutOfBounds)
	}

	c.stats.Reads++
	block := c.lookup(addr)

	value := c.dataStore[c.blockIndex(block)][addr%c.config.BlockSize]
	c.emit(addr, 1, CacheToProcessor)

	return value, nil
}

// Store implements emu.DataPort.
func (c *Cache) Store(addr int, value int32) error {
	if !emu.InBounds(addr) {
		return fmt.Errorf("store to %d: %w", addr, emu.ErrAddressOutOfBounds)
	}

	c.stats.Writes++
	block := c.lookup(addr)

	c.dataStore[c.blockIndex(block)][addr%c.config.BlockSize] = value
	block.IsDirty = true
	c.emit(addr, 1, ProcessorToCache)

	return nil
}

// lookup returns the block holding addr, filling it on a miss, and marks it
// most recently used.
func (c *Cache) lookup(addr int) *akitacache.Block {
	blockAddr := c.blockAddr(addr)

	block := c.directory.Lookup(0, uint64(blockAddr))
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)
		return block
	}

	c.stats.Misses++
	block = c.handleMiss(blockAddr)
	c.directory.Visit(block)

	return block
}

// handleMiss evicts the LRU block of the set and fills it from the backing
// store.
func (c *Cache) handleMiss(blockAddr int) *akitacache.Block {
	victim := c.directory.FindVictim(uint64(blockAddr))
	victimData := c.dataStore[c.blockIndex(victim)]

	if victim.IsValid {
		c.stats.Evictions++
		c.evict(victim, victimData)
	}

	copy(victimData, c.backing.Read(blockAddr, c.config.BlockSize))
	c.emit(blockAddr, c.config.BlockSize, MemoryToCache)

	// Tag stores the block-aligned word address.
	victim.Tag = uint64(blockAddr)
	victim.IsValid = true
	victim.IsDirty = false

	return victim
}

func (c *Cache) evict(victim *akitacache.Block, data []int32) {
	addr := int(victim.Tag)

	if victim.IsDirty {
		c.stats.Writebacks++
		c.backing.Write(addr, data)
		c.emit(addr, c.config.BlockSize, CacheToMemory)
		return
	}

	c.emit(addr, c.config.BlockSize, CacheToNowhere)
}

// Flush writes back all dirty blocks and invalidates every block.
func (c *Cache) Flush() {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid && block.IsDirty {
				c.stats.Writebacks++
				addr := int(block.Tag)
				c.backing.Write(addr, c.dataStore[c.blockIndex(block)])
				c.emit(addr, c.config.BlockSize, CacheToMemory)
			}
			block.IsValid = false
			block.IsDirty = false
		}
	}
}

// Reset invalidates all cache lines without writeback.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}

func (c *Cache) emit(addr, size int, t ActionType) {
	action := Action{Address: addr, Size: size, Type: t}
	c.logger.Debug("cache transfer",
		"first", addr, "last", addr+size-1, "direction", t.String())
	if c.observer != nil {
		c.observer(action)
	}
}
