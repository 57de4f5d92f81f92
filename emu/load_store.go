package emu

// LoadStoreUnit implements LW and SW through a DataPort.
type LoadStoreUnit struct {
	regFile *RegFile
	port    DataPort
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory port.
func NewLoadStoreUnit(regFile *RegFile, port DataPort) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		port:    port,
	}
}

// EffectiveAddress returns R[regA] + offset.
func (lsu *LoadStoreUnit) EffectiveAddress(regA uint8, offset int32) int {
	return int(lsu.regFile.ReadReg(regA)) + int(offset)
}

// LW performs R[regB] = mem[R[regA] + offset].
func (lsu *LoadStoreUnit) LW(regA, regB uint8, offset int32) error {
	value, err := lsu.port.Load(lsu.EffectiveAddress(regA, offset))
	if err != nil {
		return err
	}
	lsu.regFile.WriteReg(regB, value)
	return nil
}

// SW performs mem[R[regA] + offset] = R[regB].
func (lsu *LoadStoreUnit) SW(regA, regB uint8, offset int32) error {
	return lsu.port.Store(lsu.EffectiveAddress(regA, offset), lsu.regFile.ReadReg(regB))
}
