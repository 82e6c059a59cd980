// Package ui provides terminal styling for CLI list and watch output.
package ui

import "fmt"

// ANSI256 color codes.
const (
	colorAccent = 74  // blue
	colorDone   = 114 // green
	colorMuted  = 245 // medium gray
	colorUrgent = 203 // red
)

var noColor bool

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// RenderDone returns s in the done (green) color.
func RenderDone(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorDone, s)
}

// RenderUrgent returns s in the urgent (red) color.
func RenderUrgent(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorUrgent, s)
}

// Checkbox renders an item's done state as a checkbox glyph.
func Checkbox(done bool) string {
	if done {
		return RenderDone("[x]")
	}
	return "[ ]"
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
