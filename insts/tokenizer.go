package insts

import "strings"

// maxTokenLen is the longest operand token kept. Longer tokens are truncated
// and the cursor stops on the first character that did not fit.
const maxTokenLen = 31

// maxMnemonicLen is the longest mnemonic kept.
const maxMnemonicLen = 15

// Stop sets used by the format decoders.
const (
	stopField    = ", \t\n"
	stopLast     = " \t\n"
	stopBase     = ", ]\t\n"
	stopOffset   = "] \t\n"
	blankSpace   = " \t"
	newlineBytes = "\n"
)

// scanner walks a single line left to right exactly once.
type scanner struct {
	line string
	pos  int
}

func newScanner(line string) *scanner {
	return &scanner{line: line}
}

// done returns true once the cursor is at end of line.
func (s *scanner) done() bool {
	return s.pos >= len(s.line)
}

// peek returns the byte under the cursor, or 0 at end of line.
func (s *scanner) peek() byte {
	if s.done() {
		return 0
	}
	return s.line[s.pos]
}

// skipBlanks advances past spaces and tabs.
func (s *scanner) skipBlanks() {
	for !s.done() && strings.IndexByte(blankSpace, s.line[s.pos]) >= 0 {
		s.pos++
	}
}

// skipByte consumes c if it is under the cursor after any blanks.
func (s *scanner) skipByte(c byte) bool {
	s.skipBlanks()
	if s.peek() == c {
		s.pos++
		return true
	}
	return false
}

// skipSeparator skips blanks, at most one comma, and blanks again.
func (s *scanner) skipSeparator() {
	s.skipBlanks()
	if s.peek() == ',' {
		s.pos++
	}
	s.skipBlanks()
}

// skipWord advances to the next space, tab or newline.
func (s *scanner) skipWord() {
	for !s.done() && strings.IndexByte(blankSpace+newlineBytes, s.line[s.pos]) < 0 {
		s.pos++
	}
}

// readToken skips leading blanks and copies up to maxTokenLen characters
// until a byte in stops or end of line. The cursor is left on the stopper.
// Reading nothing yields an absent operand.
func (s *scanner) readToken(stops string) Operand {
	s.skipBlanks()

	start := s.pos
	for !s.done() &&
		strings.IndexByte(stops, s.line[s.pos]) < 0 &&
		s.pos-start < maxTokenLen {
		s.pos++
	}

	if s.pos == start {
		return Operand{}
	}
	return NewOperand(s.line[start:s.pos])
}

// readMnemonic skips leading blanks and returns the blank delimited word
// under the cursor, truncated to maxMnemonicLen. The cursor is left after the
// whole word.
func (s *scanner) readMnemonic() string {
	s.skipBlanks()
	start := s.pos
	s.skipWord()

	word := s.line[start:s.pos]
	if len(word) > maxMnemonicLen {
		word = word[:maxMnemonicLen]
	}
	return word
}
