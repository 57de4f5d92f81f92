// Package loader reads LC-2K machine-code files.
//
// A machine-code file holds one decimal integer per line. Line i becomes the
// word at address i; instructions and data share the address space.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/lcsim/emu"
)

var (
	// ErrMalformedLine is returned when a line does not start with a
	// decimal integer that fits in 32 bits.
	ErrMalformedLine = errors.New("malformed machine-code line")

	// ErrProgramTooLarge is returned when the file has more words than the
	// address space holds.
	ErrProgramTooLarge = errors.New("exceeded memory size")
)

// Program represents a loaded machine-code image.
type Program struct {
	// Words holds the image, address 0 first.
	Words []int32
}

// NumMemory returns the number of words in the image.
func (p *Program) NumMemory() int {
	return len(p.Words)
}

// NewMemory returns a fresh memory initialized with the image.
func (p *Program) NewMemory() *emu.Memory {
	memory := emu.NewMemory()
	// Parse already enforces the size bound.
	_ = memory.LoadProgram(p.Words)
	return memory
}

// Load opens and parses a machine-code file.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("can't open file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Parse reads a machine-code image. Each line must begin (after optional
// whitespace) with a decimal integer; anything after the integer is ignored.
func Parse(r io.Reader) (*Program, error) {
	prog := &Program{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		addr := len(prog.Words)
		if addr >= emu.MaxMemory {
			return nil, fmt.Errorf("address %d: %w", addr, ErrProgramTooLarge)
		}

		word, err := parseWord(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("error in reading address %d: %w", addr, err)
		}

		prog.Words = append(prog.Words, word)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read machine code: %w", err)
	}

	return prog, nil
}

// parseWord accepts the same prefix sscanf("%d") would: optional leading
// whitespace, an optional sign and at least one digit.
func parseWord(line string) (int32, error) {
	s := strings.TrimLeft(line, " \t\r\v\f")

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, fmt.Errorf("%q: %w", line, ErrMalformedLine)
	}

	v, err := strconv.ParseInt(s[:end], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", line, ErrMalformedLine)
	}

	return int32(v), nil
}
