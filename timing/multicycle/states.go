package multicycle

import "fmt"

// State is a control state of the micro-sequencer. Each visit to a state
// takes one cycle.
type State int

// Control states.
const (
	StateFetch State = iota
	StateCheck
	StateInstruction
	StateLoadRegA
	StateALUAdd
	StateALUNand
	StateLoadDest
	StateALUBeq
	StateALUBeq2
	StateALUBeq3
	StateCalcOffset
	StateALULw
	StateALULw2
	StateALULw3
	StateALUSw
	StateALUSw2
	StateALUSw3
	StateALUJalr
	StateALUJalr2
	StateHalt
)

var stateNames = [...]string{
	StateFetch:       "fetch",
	StateCheck:       "check",
	StateInstruction: "instruction",
	StateLoadRegA:    "ldRegA",
	StateALUAdd:      "ALUadd",
	StateALUNand:     "ALUnand",
	StateLoadDest:    "ldDest",
	StateALUBeq:      "ALUbeq",
	StateALUBeq2:     "ALUbeq2",
	StateALUBeq3:     "ALUbeq3",
	StateCalcOffset:  "calcOffset",
	StateALULw:       "ALUlw",
	StateALULw2:      "ALUlw2",
	StateALULw3:      "ALUlw3",
	StateALUSw:       "ALUsw",
	StateALUSw2:      "ALUsw2",
	StateALUSw3:      "ALUsw3",
	StateALUJalr:     "ALUjalr",
	StateALUJalr2:    "ALUjalr2",
	StateHalt:        "ALUhalt",
}

// String returns the state name used in traces.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// stateFunc performs the datapath work of one state and returns the next
// state.
type stateFunc func(m *Machine) (State, error)

// transitions is the control table. StateHalt has no entry; reaching it
// ends the run.
var transitions = map[State]stateFunc{
	StateFetch:       (*Machine).fetch,
	StateCheck:       (*Machine).check,
	StateInstruction: (*Machine).instruction,
	StateLoadRegA:    (*Machine).loadRegA,
	StateALUAdd:      (*Machine).aluAdd,
	StateALUNand:     (*Machine).aluNand,
	StateLoadDest:    (*Machine).loadDest,
	StateALUBeq:      (*Machine).aluBeq,
	StateALUBeq2:     (*Machine).aluBeq2,
	StateALUBeq3:     (*Machine).aluBeq3,
	StateCalcOffset:  (*Machine).calcOffset,
	StateALULw:       (*Machine).aluLw,
	StateALULw2:      (*Machine).aluLw2,
	StateALULw3:      (*Machine).aluLw3,
	StateALUSw:       (*Machine).aluSw,
	StateALUSw2:      (*Machine).aluSw2,
	StateALUSw3:      (*Machine).aluSw3,
	StateALUJalr:     (*Machine).aluJalr,
	StateALUJalr2:    (*Machine).aluJalr2,
}
