// Package ui renders wisp's terminal output: the shell prompt, generated
// command blocks, chat markdown, and the provider-call spinner.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// UI writes user-facing output. Out carries normal output, Err carries
// errors and the spinner.
type UI struct {
	Out io.Writer
	Err io.Writer

	color bool
}

// New builds a UI for the given writers. Color is resolved once at
// construction from forceNoColor, NO_COLOR, and whether Out is a terminal.
func New(out, errOut io.Writer, forceNoColor bool) *UI {
	return &UI{
		Out:   out,
		Err:   errOut,
		color: resolveColorChoice(forceNoColor, out),
	}
}

// Printf writes formatted output.
func (u *UI) Printf(format string, args ...any) {
	fmt.Fprintf(u.Out, format, args...)
}

// Errorf writes formatted output to the error stream.
func (u *UI) Errorf(format string, args ...any) {
	fmt.Fprintf(u.Err, format, args...)
}

// ShowCommand prints the command exactly as it would be executed, framed
// the way shell users expect to read it.
func (u *UI) ShowCommand(command string) {
	fmt.Fprintf(u.Out, "\nGenerated Command:\n```bash\n%s\n```\n", command)
}

// ShellPrompt renders the continuous-mode prompt: [wisp]:user:cwd$ with the
// program name in red, the user in green, and the directory in blue.
func (u *UI) ShellPrompt() string {
	name := "wisp"
	user := username()
	dir := currentDirWithTilde()
	if u.color {
		name = colorize(ansiRed, name)
		user = colorize(ansiGreen, user)
		dir = colorize(ansiBlue, dir)
	}
	return fmt.Sprintf("[%s]:%s:%s$ ", name, user, dir)
}

// Markdown renders chat replies for the terminal. Without color the text
// passes through unchanged so pipes see the raw markdown.
func (u *UI) Markdown(text string) string {
	if !u.color {
		return text
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(u.wrapWidth()),
	)
	if err != nil {
		return text
	}
	rendered, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return rendered
}

func (u *UI) wrapWidth() int {
	if f, ok := u.Out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

// Banner is shown when wisp runs interactively without arguments.
func (u *UI) Banner() {
	fmt.Fprintln(u.Out, `
 __      _____ ___ ___
 \ \    / /_ _/ __| _ \
  \ \/\/ / | |\__ \  _/
   \_/\_/ |___|___/_|

  Natural language to shell commands

  Usage: wisp [options] "<prompt>"
         wisp --help

  MCP server mode requires piped input.`)
}

func username() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "Unknown User"
}

func currentDirWithTilde() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "?"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return cwd
	}
	return tildify(cwd, home)
}

func tildify(path, home string) string {
	if home != "" && strings.HasPrefix(path, home) {
		return "~" + strings.TrimPrefix(path, home)
	}
	return path
}
