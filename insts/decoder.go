// Package insts provides LC-2K instruction definitions and decoding.
package insts

import "fmt"

// Op represents an LC-2K opcode.
type Op int8

// LC-2K opcodes. The numeric values are the encoded opcode field.
const (
	OpADD Op = iota
	OpNAND
	OpLW
	OpSW
	OpBEQ
	OpJALR
	OpHALT
	OpNOOP

	// OpIllegal is reported for any opcode field outside 0..7. Such words
	// are usually data that was fetched as an instruction.
	OpIllegal Op = -1
)

// NumRegs is the number of general-purpose registers.
const NumRegs = 8

// NoopWord is the encoding of "noop". Pipeline latches reset to it.
const NoopWord int32 = int32(OpNOOP) << 22

var opNames = [...]string{"add", "nand", "lw", "sw", "beq", "jalr", "halt", "noop"}

// String returns the assembler mnemonic. Illegal opcodes print as "data".
func (o Op) String() string {
	if !o.Valid() {
		return "data"
	}
	return opNames[o]
}

// Valid reports whether the opcode is one of the eight defined opcodes.
func (o Op) Valid() bool {
	return o >= OpADD && o <= OpNOOP
}

// WritesRegister reports whether the opcode produces a register result.
// Only these opcodes can act as forwarding sources.
func (o Op) WritesRegister() bool {
	return o == OpADD || o == OpNAND || o == OpLW
}

// IsRType reports whether the opcode uses the dest field rather than the
// offset field.
func (o Op) IsRType() bool {
	return o == OpADD || o == OpNAND
}

// Instruction represents a decoded LC-2K instruction.
type Instruction struct {
	Op   Op    // Operation code
	Word int32 // Raw encoded word

	RegA uint8 // First source register
	RegB uint8 // Second source register, or destination for LW and JALR
	Dest uint8 // Destination register for ADD and NAND

	Offset int32 // Sign-extended 16-bit offset for LW, SW and BEQ
}

// DestReg returns the register written by the instruction, if any.
// LW writes regB; ADD and NAND write dest. JALR is not a forwarding
// source.
func (i *Instruction) DestReg() (uint8, bool) {
	switch i.Op {
	case OpLW:
		return i.RegB, true
	case OpADD, OpNAND:
		return i.Dest, true
	default:
		return 0, false
	}
}

// String formats the instruction as "<mnemonic> <regA> <regB> <low16>".
func (i *Instruction) String() string {
	return fmt.Sprintf("%s %d %d %d", i.Op, i.RegA, i.RegB, Field2(i.Word))
}

// Opcode extracts the opcode field. The shift is arithmetic, so negative
// words and words wider than 25 bits yield values outside 0..7.
func Opcode(word int32) int32 {
	return word >> 22
}

// RegA extracts bits [21:19].
func RegA(word int32) uint8 {
	return uint8((word >> 19) & 0x7)
}

// RegB extracts bits [18:16].
func RegB(word int32) uint8 {
	return uint8((word >> 16) & 0x7)
}

// Dest extracts bits [2:0].
func Dest(word int32) uint8 {
	return uint8(word & 0x7)
}

// Field2 extracts the raw low 16 bits without sign extension.
func Field2(word int32) int32 {
	return word & 0xFFFF
}

// Offset extracts bits [15:0] and sign-extends them.
func Offset(word int32) int32 {
	return SignExtend16(word & 0xFFFF)
}

// SignExtend16 converts a 16-bit two's complement value to int32.
func SignExtend16(v int32) int32 {
	return int32(int16(uint16(v)))
}

// OpOf returns the opcode of a word, or OpIllegal.
func OpOf(word int32) Op {
	op := Opcode(word)
	if op < int32(OpADD) || op > int32(OpNOOP) {
		return OpIllegal
	}
	return Op(op)
}

// Decoder decodes LC-2K machine words into instructions.
type Decoder struct{}

// NewDecoder creates a new LC-2K instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit word. It never fails; words with an undefined
// opcode decode with Op == OpIllegal and the caller decides whether that is
// a fault.
func (d *Decoder) Decode(word int32) *Instruction {
	inst := &Instruction{
		Op:   OpOf(word),
		Word: word,
		RegA: RegA(word),
		RegB: RegB(word),
	}

	switch {
	case inst.Op.IsRType():
		inst.Dest = Dest(word)
	case inst.Op == OpLW, inst.Op == OpSW, inst.Op == OpBEQ:
		inst.Offset = Offset(word)
	}

	return inst
}
