// Package report renders machine state and run statistics as text tables.
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/sarchlab/lcsim/emu"
	"github.com/sarchlab/lcsim/timing/cache"
)

// WriteState prints the final architectural state: the PC and registers,
// then every loaded memory word.
func WriteState(w io.Writer, regs emu.RegFile, mem *emu.Memory) error {
	regTable := table.NewWriter()
	regTable.SetTitle("Registers")
	regTable.AppendHeader(table.Row{"Register", "Value"})
	regTable.AppendRow(table.Row{"pc", regs.PC})
	for i, v := range regs.R {
		regTable.AppendRow(table.Row{fmt.Sprintf("reg[%d]", i), v})
	}
	regTable.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})

	memTable := table.NewWriter()
	memTable.SetTitle("Memory")
	memTable.AppendHeader(table.Row{"Address", "Value", "Hex"})
	for addr := 0; addr < mem.NumMemory(); addr++ {
		v := mem.Read(addr)
		memTable.AppendRow(table.Row{addr, v, fmt.Sprintf("0x%08x", uint32(v))})
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n", regTable.Render(), memTable.Render())
	return err
}

// Summary collects the statistics of one run.
type Summary struct {
	// Model names the processor model that produced the run.
	Model string

	// Cycles is zero for the single-cycle model, which does not count them.
	Cycles       uint64
	Instructions uint64
	Stalls       uint64
	Flushes      uint64

	// Cache is nil when no cache was used.
	Cache *cache.Statistics
}

// CPI returns cycles per instruction, or zero when either is unknown.
func (s Summary) CPI() float64 {
	if s.Cycles == 0 || s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// WriteSummary prints the run statistics and, if present, the cache
// statistics.
func WriteSummary(w io.Writer, s Summary) error {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("Summary (%s)", s.Model))
	if s.Cycles > 0 {
		t.AppendRow(table.Row{"Cycles", s.Cycles})
	}
	t.AppendRow(table.Row{"Instructions", s.Instructions})
	if s.Cycles > 0 {
		t.AppendRow(table.Row{"CPI", fmt.Sprintf("%.3f", s.CPI())})
		t.AppendRow(table.Row{"Stalls", s.Stalls})
		t.AppendRow(table.Row{"Flushes", s.Flushes})
	}

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}

	if s.Cache == nil {
		return nil
	}

	c := table.NewWriter()
	c.SetTitle("Cache")
	c.AppendRows([]table.Row{
		{"Reads", s.Cache.Reads},
		{"Writes", s.Cache.Writes},
		{"Hits", s.Cache.Hits},
		{"Misses", s.Cache.Misses},
		{"Hit rate", fmt.Sprintf("%.1f%%", 100*s.Cache.HitRate())},
		{"Evictions", s.Cache.Evictions},
		{"Writebacks", s.Cache.Writebacks},
	})

	_, err := fmt.Fprintln(w, c.Render())
	return err
}
