package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Messenger prints host messages to a terminal.
type Messenger struct {
	Out io.Writer
}

var (
	messageColor  = color.New(color.FgCyan)
	progressColor = color.New(color.FgYellow)
	errorColor    = color.New(color.FgRed, color.Bold)
)

func (m *Messenger) Message(text string) {
	messageColor.Fprintln(m.Out, text)
}

func (m *Messenger) Progress(text string) {
	progressColor.Fprintln(m.Out, text)
}

func (m *Messenger) Error(err error) {
	errorColor.Fprintln(m.Out, fmt.Sprintf("Error: %v", err))
}
