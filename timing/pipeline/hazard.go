package pipeline

import "github.com/sarchlab/lcsim/insts"

// ForwardSource indicates where a forwarded value should come from.
type ForwardSource int

const (
	// ForwardNone means no forwarding needed - use the value read in ID.
	ForwardNone ForwardSource = iota
	// ForwardFromEXMEM means forward the EX/MEM ALU result.
	ForwardFromEXMEM
	// ForwardFromMEMWB means forward the MEM/WB write data.
	ForwardFromMEMWB
	// ForwardFromWBEND means forward the WB/END write data.
	ForwardFromWBEND
)

// String returns the latch name of the source.
func (s ForwardSource) String() string {
	switch s {
	case ForwardFromEXMEM:
		return "EXMEM"
	case ForwardFromMEMWB:
		return "MEMWB"
	case ForwardFromWBEND:
		return "WBEND"
	default:
		return "none"
	}
}

// ForwardingResult contains forwarding decisions for both source operands.
type ForwardingResult struct {
	// ForwardRegA specifies the forwarding source for the regA operand.
	ForwardRegA ForwardSource
	// ForwardRegB specifies the forwarding source for the regB operand.
	ForwardRegB ForwardSource
}

// Any reports whether either operand is forwarded.
func (r ForwardingResult) Any() bool {
	return r.ForwardRegA != ForwardNone || r.ForwardRegB != ForwardNone
}

// HazardUnit detects data hazards and determines forwarding/stall signals.
type HazardUnit struct{}

// NewHazardUnit creates a new hazard detection unit.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{}
}

// DetectLoadUse reports whether the instruction in IF/ID must wait one cycle
// for the LW in ID/EX.
//
// A consuming LW is checked on regA only, since its regB is a destination.
// NOOP reads nothing. Every other opcode is checked on both fields.
func (h *HazardUnit) DetectLoadUse(idex *IDEX, ifid *IFID) bool {
	if idex.Op() != insts.OpLW {
		return false
	}

	loadDest := insts.RegB(idex.Instr)

	switch ifid.Op() {
	case insts.OpNOOP:
		return false
	case insts.OpLW:
		return insts.RegA(ifid.Instr) == loadDest
	default:
		return insts.RegA(ifid.Instr) == loadDest ||
			insts.RegB(ifid.Instr) == loadDest
	}
}

// DetectForwarding determines the forwarding source for the regA and regB
// fields of the instruction in ID/EX. The nearest producer wins.
func (h *HazardUnit) DetectForwarding(
	idex *IDEX,
	exmem *EXMEM,
	memwb *MEMWB,
	wbend *WBEND,
) ForwardingResult {
	return ForwardingResult{
		ForwardRegA: h.detectForwardForReg(insts.RegA(idex.Instr), exmem, memwb, wbend),
		ForwardRegB: h.detectForwardForReg(insts.RegB(idex.Instr), exmem, memwb, wbend),
	}
}

// detectForwardForReg checks if a specific register needs forwarding.
func (h *HazardUnit) detectForwardForReg(
	reg uint8,
	exmem *EXMEM,
	memwb *MEMWB,
	wbend *WBEND,
) ForwardSource {
	if writes(exmem.Instr, reg) {
		return ForwardFromEXMEM
	}

	if writes(memwb.Instr, reg) {
		return ForwardFromMEMWB
	}

	if writes(wbend.Instr, reg) {
		return ForwardFromWBEND
	}

	return ForwardNone
}

// writes reports whether word is an LW, ADD or NAND whose destination is reg.
func writes(word int32, reg uint8) bool {
	switch insts.OpOf(word) {
	case insts.OpLW:
		return insts.RegB(word) == reg
	case insts.OpADD, insts.OpNAND:
		return insts.Dest(word) == reg
	default:
		return false
	}
}

// ForwardedValue returns the value to use based on a forwarding decision.
func (h *HazardUnit) ForwardedValue(
	forward ForwardSource,
	originalValue int32,
	exmem *EXMEM,
	memwb *MEMWB,
	wbend *WBEND,
) int32 {
	switch forward {
	case ForwardFromEXMEM:
		// An LW here would forward its address; the load-use stall keeps
		// that from being observed.
		return exmem.ALUResult
	case ForwardFromMEMWB:
		return memwb.WriteData
	case ForwardFromWBEND:
		return wbend.WriteData
	default:
		return originalValue
	}
}
