// Package loader reads program listings for the simulator.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// commentMarkers start a comment that runs to the end of the line.
var commentMarkers = []string{"#", ";", "//"}

// Program represents a loaded program listing ready for decoding.
type Program struct {
	// Name identifies where the listing came from.
	Name string
	// Lines contains the instruction lines with comments and blank lines
	// removed.
	Lines []string
	// LineNumbers holds the 1-based source line of each entry in Lines.
	LineNumbers []int
}

// Load reads a program listing from a file.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program file: %w", err)
	}
	defer func() { _ = f.Close() }()

	prog, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	prog.Name = path

	return prog, nil
}

// Parse reads a program listing, one instruction per line.
func Parse(r io.Reader) (*Program, error) {
	prog := &Program{}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		line := StripComment(scanner.Text())
		if line == "" {
			continue
		}

		prog.Lines = append(prog.Lines, line)
		prog.LineNumbers = append(prog.LineNumbers, lineNo)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return prog, nil
}

// StripComment removes a trailing comment and surrounding whitespace.
func StripComment(line string) string {
	for _, marker := range commentMarkers {
		if i := strings.Index(line, marker); i >= 0 {
			line = line[:i]
		}
	}
	return strings.TrimSpace(line)
}

// ExampleProgram returns the built-in demonstration program. With the default
// registers it has a RAW chain through R1 and R4 and a long DIV at the end.
func ExampleProgram() *Program {
	return &Program{
		Name: "example",
		Lines: []string{
			"ADD R1, R2, R3",
			"MUL R4, R1, R2",
			"SUB R5, R3, R1",
			"DIV R6, R4, R2",
		},
		LineNumbers: []int{1, 2, 3, 4},
	}
}
