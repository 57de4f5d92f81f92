package insts

import "fmt"

// EncodeRType encodes ADD or NAND.
func EncodeRType(op Op, regA, regB, dest uint8) int32 {
	return int32(op)<<22 | int32(regA&0x7)<<19 | int32(regB&0x7)<<16 | int32(dest&0x7)
}

// EncodeIType encodes LW, SW or BEQ. It panics if offset does not fit in a
// signed 16-bit field; encoders are used to build fixed test programs, where
// an out-of-range offset is a bug in the program text.
func EncodeIType(op Op, regA, regB uint8, offset int32) int32 {
	if offset < -32768 || offset > 32767 {
		panic(fmt.Sprintf("offset %d does not fit in 16 bits", offset))
	}
	return int32(op)<<22 | int32(regA&0x7)<<19 | int32(regB&0x7)<<16 | (offset & 0xFFFF)
}

// EncodeJType encodes JALR.
func EncodeJType(regA, regB uint8) int32 {
	return int32(OpJALR)<<22 | int32(regA&0x7)<<19 | int32(regB&0x7)<<16
}

// EncodeOType encodes HALT or NOOP.
func EncodeOType(op Op) int32 {
	return int32(op) << 22
}

// ADD encodes "add regA regB dest".
func ADD(regA, regB, dest uint8) int32 { return EncodeRType(OpADD, regA, regB, dest) }

// NAND encodes "nand regA regB dest".
func NAND(regA, regB, dest uint8) int32 { return EncodeRType(OpNAND, regA, regB, dest) }

// LW encodes "lw regA regB offset".
func LW(regA, regB uint8, offset int32) int32 { return EncodeIType(OpLW, regA, regB, offset) }

// SW encodes "sw regA regB offset".
func SW(regA, regB uint8, offset int32) int32 { return EncodeIType(OpSW, regA, regB, offset) }

// BEQ encodes "beq regA regB offset".
func BEQ(regA, regB uint8, offset int32) int32 { return EncodeIType(OpBEQ, regA, regB, offset) }

// JALR encodes "jalr regA regB".
func JALR(regA, regB uint8) int32 { return EncodeJType(regA, regB) }

// HALT encodes "halt".
func HALT() int32 { return EncodeOType(OpHALT) }

// NOOP encodes "noop".
func NOOP() int32 { return EncodeOType(OpNOOP) }
