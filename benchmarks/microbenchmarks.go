package benchmarks

import "fmt"

// GetMicrobenchmarks returns the standard set of microbenchmarks. Each one
// targets a specific scheduling characteristic.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		independentAdds(),
		dependencyChain(),
		multiplyPressure(),
		divideLatency(),
		renameReuse(),
		branchNotTaken(),
		countingLoop(),
		mixedOperations(),
	}
}

// GetCoreBenchmarks returns a minimal set for quick validation: the
// example program, a loop and a dependency chain.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		mixedOperations(),
		countingLoop(),
		dependencyChain(),
	}
}

// 1. Independent adds - limited only by add stations and ROB size
func independentAdds() Benchmark {
	var program []string
	for i := 0; i < 12; i++ {
		program = append(program, fmt.Sprintf("ADD R%d, R1, R2", 4+i))
	}
	return Benchmark{
		Name:        "independent_adds",
		Description: "12 independent ADDs - measures add-class throughput",
		Program:     program,
	}
}

// 2. Dependency chain - every ADD waits for the previous one
func dependencyChain() Benchmark {
	var program []string
	for i := 0; i < 10; i++ {
		program = append(program, "ADD R1, R1, 1")
	}
	return Benchmark{
		Name:        "dependency_chain",
		Description: "10 chained ADDs - measures RAW latency through the CDB",
		Program:     program,
	}
}

// 3. Multiply pressure - more MULs than mul-class stations
func multiplyPressure() Benchmark {
	return Benchmark{
		Name:        "multiply_pressure",
		Description: "6 independent MULs - structural stalls on mul stations",
		Program: []string{
			"MUL R4, R1, R2",
			"MUL R5, R1, R3",
			"MUL R6, R2, R3",
			"MUL R7, R1, 2",
			"MUL R8, R2, 2",
			"MUL R9, R3, 2",
		},
	}
}

// 4. Divide latency - a long DIV blocks commit of younger fast ops
func divideLatency() Benchmark {
	return Benchmark{
		Name:        "divide_latency",
		Description: "DIV followed by independent ADDs - ROB fills behind a long op",
		Program: []string{
			"DIV R4, R3, R1",
			"ADD R5, R1, 1",
			"ADD R6, R1, 2",
			"ADD R7, R1, 3",
			"ADD R8, R1, 4",
			"ADD R9, R1, 5",
			"ADD R10, R1, 6",
			"ADD R11, R1, 7",
			"DIV R12, R4, 0",
		},
	}
}

// 5. Rename reuse - WAW and WAR on the same register
func renameReuse() Benchmark {
	return Benchmark{
		Name:        "rename_reuse",
		Description: "repeated writes to R4 - renaming removes WAW/WAR stalls",
		Program: []string{
			"MUL R4, R1, R2",
			"ADD R5, R4, 1",
			"ADD R4, R2, R3",
			"SUB R6, R4, R1",
			"ADD R4, R6, R5",
		},
	}
}

// 6. Branch not taken - predictions always correct
func branchNotTaken() Benchmark {
	return Benchmark{
		Name:        "branch_not_taken",
		Description: "not-taken BEQs between ADDs - no flushes expected",
		Program: []string{
			"ADD R4, R1, 1",
			"BEQ R4, R1, 0",
			"ADD R5, R4, 1",
			"BEQ R5, R4, 0",
			"ADD R6, R5, 1",
			"BEQ R6, R0, 0",
		},
	}
}

// 7. Counting loop - a taken back edge every iteration
func countingLoop() Benchmark {
	return Benchmark{
		Name:        "counting_loop",
		Description: "5-iteration loop - one misprediction flush per taken branch",
		Registers:   map[uint8]int64{},
		Program: []string{
			"ADD R1, R1, 1",
			"ADD R2, R2, R1",
			"SUB R3, R1, 5",
			"BEQ R3, R0, 5",
			"BEQ R0, R0, 0",
			"MUL R4, R2, 2",
		},
	}
}

// 8. Mixed operations - the built-in example program
func mixedOperations() Benchmark {
	return Benchmark{
		Name:        "mixed_operations",
		Description: "ADD/MUL/SUB/DIV with RAW chains - the example program",
		Program: []string{
			"ADD R1, R2, R3",
			"MUL R4, R1, R2",
			"SUB R5, R3, R1",
			"DIV R6, R4, R2",
		},
	}
}
