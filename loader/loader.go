// Package loader reads LEGv8 assembly source files into instruction lines.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// commentMarkers start a comment that runs to end of line.
var commentMarkers = []string{"//", ";"}

// Line is one instruction line of a source file.
type Line struct {
	// Number is the 1-based line number in the original file.
	Number int
	// Text is the instruction text with comments and surrounding blanks
	// removed.
	Text string
}

// Source represents an assembly program ready for decoding.
type Source struct {
	// Name identifies where the source came from, usually a file path.
	Name string
	// Lines contains the non-empty instruction lines in file order.
	Lines []Line
}

// Texts returns the instruction text of every line, in order.
func (s *Source) Texts() []string {
	texts := make([]string, len(s.Lines))
	for i, l := range s.Lines {
		texts[i] = l.Text
	}
	return texts
}

// FileLine maps a 1-based instruction position back to its file line number.
// It returns 0 if pos is out of range.
func (s *Source) FileLine(pos int) int {
	if pos < 1 || pos > len(s.Lines) {
		return 0
	}
	return s.Lines[pos-1].Number
}

// Load opens an assembly file and returns its instruction lines.
func Load(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Read(path, f)
}

// Read parses assembly text from r. Blank lines and comments starting with
// "//" or ";" are dropped.
func Read(name string, r io.Reader) (*Source, error) {
	src := &Source{Name: name}

	scanner := bufio.NewScanner(r)
	number := 0
	for scanner.Scan() {
		number++

		text := stripComment(scanner.Text())
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		src.Lines = append(src.Lines, Line{Number: number, Text: text})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	return src, nil
}

func stripComment(text string) string {
	for _, marker := range commentMarkers {
		if i := strings.Index(text, marker); i >= 0 {
			text = text[:i]
		}
	}
	return text
}
