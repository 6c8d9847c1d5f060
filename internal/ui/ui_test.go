package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestShowCommand_FramesExactText(t *testing.T) {
	var out bytes.Buffer
	u := New(&out, &out, true)

	u.ShowCommand("ls -la | head")

	want := "\nGenerated Command:\n```bash\nls -la | head\n```\n"
	if out.String() != want {
		t.Errorf("ShowCommand() wrote %q, want %q", out.String(), want)
	}
}

func TestShellPrompt_NoColor(t *testing.T) {
	var out bytes.Buffer
	u := New(&out, &out, true)

	prompt := u.ShellPrompt()
	if !strings.HasPrefix(prompt, "[wisp]:") {
		t.Errorf("prompt = %q, want [wisp]: prefix", prompt)
	}
	if !strings.HasSuffix(prompt, "$ ") {
		t.Errorf("prompt = %q, want $ suffix", prompt)
	}
	if strings.Contains(prompt, "\x1b[") {
		t.Errorf("prompt = %q contains escape codes with color off", prompt)
	}
}

func TestShellPrompt_Colored(t *testing.T) {
	var out bytes.Buffer
	u := &UI{Out: &out, Err: &out, color: true}

	prompt := u.ShellPrompt()
	if !strings.Contains(prompt, ansiRed+"wisp"+ansiReset) {
		t.Errorf("prompt = %q, want the program name in red", prompt)
	}
}

func TestResolveColorChoice(t *testing.T) {
	var buf bytes.Buffer

	if resolveColorChoice(true, &buf) {
		t.Error("color enabled despite explicit opt-out")
	}
	if resolveColorChoice(false, &buf) {
		t.Error("color enabled for a non-terminal writer")
	}

	t.Setenv("NO_COLOR", "1")
	if resolveColorChoice(false, &buf) {
		t.Error("color enabled despite NO_COLOR")
	}
}

func TestMarkdown_PassthroughWithoutColor(t *testing.T) {
	var out bytes.Buffer
	u := New(&out, &out, true)

	text := "# heading\n\nsome *markdown*\n"
	if got := u.Markdown(text); got != text {
		t.Errorf("Markdown() = %q, want unchanged text without color", got)
	}
}

func TestTildify(t *testing.T) {
	tests := []struct {
		path string
		home string
		want string
	}{
		{"/home/pat/src", "/home/pat", "~/src"},
		{"/home/pat", "/home/pat", "~"},
		{"/etc", "/home/pat", "/etc"},
		{"/home/patricia", "/home/pat", "~ricia"}, // prefix match is on the raw string
		{"/anywhere", "", "/anywhere"},
	}
	for _, tt := range tests {
		if got := tildify(tt.path, tt.home); got != tt.want {
			t.Errorf("tildify(%q, %q) = %q, want %q", tt.path, tt.home, got, tt.want)
		}
	}
}

func TestBanner_MentionsUsage(t *testing.T) {
	var out bytes.Buffer
	u := New(&out, &out, true)

	u.Banner()
	if !strings.Contains(out.String(), "Usage: wisp") {
		t.Errorf("banner = %q, want usage line", out.String())
	}
}
