package benchmarks

// GetMicrobenchmarks returns the built-in programs. Each one targets a
// specific load-use pattern and records the stall count the pipeline model
// must produce.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		independentALU(),
		loadUseALU(),
		loadUseStore(),
		loadUseBranch(),
		loadThenIndependent(),
		pointerChase(),
		arraySum(),
		mixedWidthCopy(),
		scheduledCopy(),
		moveWide(),
	}
}

// GetCoreBenchmarks returns the four programs from the acceptance scenarios.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		loadUseALU(),
		independentALU(),
		loadUseStore(),
		singleLoad(),
	}
}

func independentALU() Benchmark {
	return Benchmark{
		Name:        "independent_alu",
		Description: "ALU operations without loads - no stalls",
		Program: []string{
			"ADD X1, X2, X3",
			"SUB X4, X5, X6",
		},
		ExpectedStalls: 0,
	}
}

func loadUseALU() Benchmark {
	return Benchmark{
		Name:        "load_use_alu",
		Description: "ADD reads the register loaded by the previous LDUR",
		Program: []string{
			"LDUR X1, [X2, #0]",
			"ADD X3, X1, X4",
		},
		ExpectedStalls: 1,
	}
}

func loadUseStore() Benchmark {
	return Benchmark{
		Name:        "load_use_store",
		Description: "STUR stores the value loaded by the previous LDUR",
		Program: []string{
			"LDUR X1, [X2, #0]",
			"STUR X1, [X3, #0]",
		},
		ExpectedStalls: 1,
	}
}

func singleLoad() Benchmark {
	return Benchmark{
		Name:           "single_load",
		Description:    "a lone load has no successor to stall",
		Program:        []string{"LDUR X1, [X2, #0]"},
		ExpectedStalls: 0,
	}
}

func loadUseBranch() Benchmark {
	return Benchmark{
		Name:        "load_use_branch",
		Description: "CBZ tests the register loaded by the previous LDURSW",
		Program: []string{
			"LDURSW X9, [X0, #4]",
			"CBZ X9, done",
			"ADDI X0, X0, #8",
			"B done",
		},
		ExpectedStalls: 1,
	}
}

func loadThenIndependent() Benchmark {
	return Benchmark{
		Name:        "load_then_independent",
		Description: "an independent ADD separates the load from its reader",
		Program: []string{
			"LDUR X1, [X2, #0]",
			"ADD X5, X6, X7",
			"ADD X3, X1, X4",
		},
		ExpectedStalls: 0,
	}
}

func pointerChase() Benchmark {
	return Benchmark{
		Name:        "pointer_chase",
		Description: "loads through loaded pointers; only the final ALU reader stalls",
		Program: []string{
			"LDUR X1, [X0, #0]",
			"LDUR X2, [X1, #0]",
			"LDUR X3, [X2, #0]",
			"ADD X4, X3, X3",
		},
		ExpectedStalls: 1,
	}
}

func arraySum() Benchmark {
	return Benchmark{
		Name:        "array_sum",
		Description: "two unrolled iterations of an array sum loop",
		Program: []string{
			"LDUR X9, [X10, #0]",
			"ADD X11, X11, X9",
			"ADDI X10, X10, #8",
			"LDUR X9, [X10, #0]",
			"ADD X11, X11, X9",
			"SUBI X12, X12, #1",
			"CBNZ X12, loop",
		},
		ExpectedStalls: 2,
	}
}

func mixedWidthCopy() Benchmark {
	return Benchmark{
		Name:        "mixed_width_copy",
		Description: "byte, half and word copies with each store right after its load",
		Program: []string{
			"LDURB X1, [X2, #0]",
			"STURB X1, [X3, #0]",
			"LDURH X4, [X2, #1]",
			"STURH X4, [X3, #1]",
			"LDURSW X5, [X2, #4]",
			"STUR X5, [X3, #4]",
		},
		ExpectedStalls: 3,
	}
}

func scheduledCopy() Benchmark {
	return Benchmark{
		Name:        "scheduled_copy",
		Description: "mixed_width_copy with loads hoisted so no store follows its load",
		Program: []string{
			"LDURB X1, [X2, #0]",
			"LDURH X4, [X2, #1]",
			"STURB X1, [X3, #0]",
			"LDURSW X5, [X2, #4]",
			"STURH X4, [X3, #1]",
			"STUR X5, [X3, #4]",
		},
		ExpectedStalls: 0,
	}
}

func moveWide() Benchmark {
	return Benchmark{
		Name:        "move_wide",
		Description: "MOVZ/MOVK address build; a move never reads the loaded register",
		Program: []string{
			"MOVZ X0, #4",
			"MOVK X0, #1, LSL #16",
			"LDUR X1, [X0, #0]",
			"MOVZ X1, #0",
			"CMP X1, X2",
			"B.EQ done",
		},
		ExpectedStalls: 0,
	}
}
