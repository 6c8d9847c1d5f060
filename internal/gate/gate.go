// Package gate implements the execution confirmation prompt.
//
// Nothing runs without a decision from the gate (preview mode bypasses it
// entirely and never reads input). The answer set follows the shell user's
// muscle memory: y runs, n skips, b bans the command, q or exit or quit
// abandons the session. EOF on the input is an abort, never consent.
package gate

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Decision is the gate's verdict for one command.
type Decision int

const (
	Execute Decision = iota
	Skip
	Ban
	Abort
)

func (d Decision) String() string {
	switch d {
	case Execute:
		return "execute"
	case Skip:
		return "skip"
	case Ban:
		return "ban"
	default:
		return "abort"
	}
}

// Gate asks for confirmation on one input stream. Prompts and feedback are
// written to Out so tests can capture them.
type Gate struct {
	reader *bufio.Reader
	out    io.Writer

	// DefaultYes treats an empty answer as consent. When false an empty
	// answer skips.
	DefaultYes bool
	// MaxRetries bounds how many unrecognized answers are re-prompted
	// before the command is skipped.
	MaxRetries int
}

// New builds a Gate reading answers from in and prompting on out. An in
// that is already a *bufio.Reader is used as is, so the gate can share one
// stdin reader with a surrounding prompt loop instead of buffering ahead of
// it.
func New(in io.Reader, out io.Writer, defaultYes bool, maxRetries int) *Gate {
	if maxRetries < 0 {
		maxRetries = 0
	}
	reader, ok := in.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(in)
	}
	return &Gate{
		reader:     reader,
		out:        out,
		DefaultYes: defaultYes,
		MaxRetries: maxRetries,
	}
}

// Confirm asks whether the shown command should run and returns the
// decision. The command itself is displayed by the caller before the call;
// Confirm only collects the answer.
func (g *Gate) Confirm() Decision {
	for attempt := 0; attempt <= g.MaxRetries; attempt++ {
		fmt.Fprint(g.out, g.prompt())

		line, err := g.reader.ReadString('\n')
		if err != nil && strings.TrimSpace(line) == "" {
			return Abort
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return Execute
		case "":
			if g.DefaultYes {
				return Execute
			}
			return Skip
		case "n", "no":
			return Skip
		case "b", "ban":
			return Ban
		case "q", "quit", "exit":
			return Abort
		}
		fmt.Fprintln(g.out, "Invalid input.")

		if err != nil {
			return Abort
		}
	}
	return Skip
}

func (g *Gate) prompt() string {
	if g.DefaultYes {
		return "Do you want to execute this command? (Y/n/b for ban) "
	}
	return "Do you want to execute this command? (y/N/b for ban) "
}
