// Package insts provides LC-2K instruction definitions and decoding.
//
// Every instruction is a single 32-bit word. Bits [24:22] select one of eight
// opcodes and the remaining fields are laid out per format:
//   - R-type (ADD, NAND): regA [21:19], regB [18:16], dest [2:0]
//   - I-type (LW, SW, BEQ): regA [21:19], regB [18:16], offset [15:0]
//   - J-type (JALR): regA [21:19], regB [18:16]
//   - O-type (HALT, NOOP): no operands
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(8454151) // lw 0 1 7
//	fmt.Printf("Op: %v, RegA: %d, RegB: %d, Offset: %d\n",
//		inst.Op, inst.RegA, inst.RegB, inst.Offset)
package insts
