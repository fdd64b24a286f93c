package main

import "strings"

// ANSI control sequences used by the report.
const (
	csiReset = "\033[0m"
	csiBold  = "\033[1m"
	csiRed   = "\033[31m"
	csiGreen = "\033[32m"
	csiBlue  = "\033[34m"
)

// pens colors report text. A disabled pens returns text unchanged.
type pens struct {
	enabled bool
}

func (p pens) style(text string, codes ...string) string {
	if !p.enabled || len(codes) == 0 {
		return text
	}
	return strings.Join(codes, "") + text + csiReset
}

func (p pens) errorTag() string {
	return p.style("[ERROR]:", csiBold, csiRed)
}

func (p pens) infoTag() string {
	return p.style("[INFO]:", csiBold)
}

func (p pens) message(text string) string {
	return p.style(text, csiBlue)
}

func (p pens) errorText(text string) string {
	return p.style(text, csiRed)
}

func (p pens) heading(text string) string {
	return p.style(text, csiBold, csiGreen)
}

// open returns the sequence that starts a colored block, or "" when disabled.
func (p pens) open(codes ...string) string {
	if !p.enabled {
		return ""
	}
	return strings.Join(codes, "")
}

// close ends a block started by open.
func (p pens) close() string {
	if !p.enabled {
		return ""
	}
	return csiReset
}
