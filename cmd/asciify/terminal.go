package main

import (
	"os"

	"golang.org/x/term"
)

// Fallback terminal size when stdout is not a terminal.
const (
	defaultColumns = 80
	defaultRows    = 20
)

// terminalSize returns the columns and rows of the terminal attached to
// stdout, or the defaults when there is none.
func terminalSize() (columns, rows int) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultColumns, defaultRows
	}
	columns, rows, err := term.GetSize(fd)
	if err != nil || columns <= 0 || rows <= 0 {
		return defaultColumns, defaultRows
	}
	return columns, rows
}

// fitHeight returns the prepared image height that fills the terminal,
// leaving one line free for the prompt.
func fitHeight(rows, strideY int) int {
	if rows < 2 {
		rows = 2
	}
	return (rows - 1) * strideY
}
