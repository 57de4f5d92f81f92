package benchmarks

import "github.com/sarchlab/lcsim/insts"

// GetMicrobenchmarks returns the standard set of microbenchmarks. Each one
// targets a specific pipeline characteristic.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		independentALU(),
		dependencyChain(),
		loadUseChain(),
		takenBranchLoop(),
		multiplyLoop(),
		memoryCopy(),
	}
}

// GetCoreBenchmarks returns a minimal set for quick validation.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		takenBranchLoop(),
		multiplyLoop(),
	}
}

// 1. Independent ALU - no two neighbouring instructions share a result
func independentALU() Benchmark {
	return Benchmark{
		Name:        "independent_alu",
		Description: "10 ALU operations reading one register - measures ideal throughput",
		Program: []int32{
			insts.LW(0, 1, 12),
			insts.ADD(1, 1, 2),
			insts.ADD(1, 1, 3),
			insts.ADD(1, 1, 4),
			insts.ADD(1, 1, 5),
			insts.NAND(1, 1, 6),
			insts.ADD(1, 1, 7),
			insts.ADD(1, 1, 2),
			insts.ADD(1, 1, 3),
			insts.ADD(1, 1, 4),
			insts.ADD(1, 1, 5),
			insts.HALT(),
			1,
		},
		ExpectedRegs: map[int]int32{1: 1, 2: 2, 3: 2, 4: 2, 5: 2, 6: -2, 7: 2},
	}
}

// 2. Dependency Chain - every ADD needs the previous result
func dependencyChain() Benchmark {
	return Benchmark{
		Name:         "dependency_chain",
		Description:  "16 dependent ADDs (r2 = r2 + r1) - measures forwarding",
		Program:      buildDependencyChain(16),
		ExpectedRegs: map[int]int32{1: 1, 2: 16},
	}
}

func buildDependencyChain(n int) []int32 {
	words := make([]int32, 0, n+3)
	words = append(words, insts.LW(0, 1, int32(n+2)))
	for i := 0; i < n; i++ {
		words = append(words, insts.ADD(1, 2, 2))
	}
	words = append(words, insts.HALT(), 1)
	return words
}

// 3. Load-Use Chain - every load feeds the next instruction
func loadUseChain() Benchmark {
	return Benchmark{
		Name:        "load_use_chain",
		Description: "4 loads each consumed immediately - measures load-use stalls",
		Program: []int32{
			insts.LW(0, 1, 9),
			insts.ADD(1, 2, 2),
			insts.LW(0, 1, 10),
			insts.ADD(1, 2, 2),
			insts.LW(0, 1, 11),
			insts.ADD(1, 2, 2),
			insts.LW(0, 1, 12),
			insts.ADD(1, 2, 2),
			insts.HALT(),
			1, 2, 3, 4,
		},
		ExpectedRegs: map[int]int32{1: 4, 2: 10},
	}
}

// 4. Taken Branch Loop - a countdown whose back edge is always taken
func takenBranchLoop() Benchmark {
	return Benchmark{
		Name:        "taken_branch_loop",
		Description: "Count 10 down to 0 - measures squashes on taken branches",
		Program: []int32{
			insts.LW(0, 1, 7),
			insts.LW(0, 2, 8),
			insts.ADD(1, 2, 1), // loop
			insts.BEQ(0, 1, 1),
			insts.BEQ(0, 0, -3),
			insts.NOOP(),
			insts.HALT(),
			10,
			-1,
		},
		ExpectedRegs: map[int]int32{1: 0, 2: -1},
	}
}

// 5. Multiply Loop - shift-and-add over 15 multiplier bits
func multiplyLoop() Benchmark {
	return Benchmark{
		Name:        "multiply_loop",
		Description: "1103 * 7043 by shift-and-add - mixes ALU, NAND masking and branches",
		Program: []int32{
			insts.LW(0, 1, 15), // multiplicand
			insts.LW(0, 2, 16), // multiplier
			insts.LW(0, 4, 17), // mask
			insts.LW(0, 5, 18), // counter
			insts.LW(0, 7, 17),
			insts.NAND(2, 4, 6), // loop
			insts.NAND(6, 6, 6),
			insts.BEQ(0, 6, 1),
			insts.ADD(3, 1, 3),
			insts.ADD(1, 1, 1), // skip
			insts.ADD(4, 4, 4),
			insts.ADD(5, 7, 5),
			insts.BEQ(0, 5, 1),
			insts.BEQ(0, 0, -9),
			insts.HALT(),
			1103,
			7043,
			1,
			-15,
		},
		ExpectedRegs: map[int]int32{3: 1103 * 7043, 5: 0},
	}
}

// 6. Memory Copy - copy four words with a load/store loop
func memoryCopy() Benchmark {
	return Benchmark{
		Name:        "memory_copy",
		Description: "Copy 4 words to an unloaded region - exercises stores and cache write-back",
		Program: []int32{
			insts.LW(0, 1, 10),
			insts.LW(0, 2, 11),
			insts.LW(0, 7, 12),
			insts.LW(3, 4, 13), // loop
			insts.SW(3, 4, 17),
			insts.ADD(3, 7, 3),
			insts.ADD(1, 2, 1),
			insts.BEQ(0, 1, 1),
			insts.BEQ(0, 0, -6),
			insts.HALT(),
			4,
			-1,
			1,
			5, 6, 7, 8,
		},
		ExpectedRegs:   map[int]int32{1: 0, 3: 4},
		ExpectedMemory: map[int]int32{17: 5, 18: 6, 19: 7, 20: 8},
	}
}
