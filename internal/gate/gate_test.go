package gate

import (
	"bytes"
	"strings"
	"testing"
)

func confirm(t *testing.T, input string, defaultYes bool, maxRetries int) (Decision, string) {
	t.Helper()
	var out bytes.Buffer
	g := New(strings.NewReader(input), &out, defaultYes, maxRetries)
	return g.Confirm(), out.String()
}

func TestConfirm_Answers(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       Decision
	}{
		{"y executes", "y\n", true, Execute},
		{"yes executes", "yes\n", true, Execute},
		{"uppercase Y executes", "Y\n", true, Execute},
		{"padded answer", "  y  \n", true, Execute},
		{"empty executes when default yes", "\n", true, Execute},
		{"empty skips when default no", "\n", false, Skip},
		{"n skips", "n\n", true, Skip},
		{"no skips", "no\n", true, Skip},
		{"b bans", "b\n", true, Ban},
		{"ban bans", "ban\n", true, Ban},
		{"q aborts", "q\n", true, Abort},
		{"quit aborts", "quit\n", true, Abort},
		{"exit aborts", "exit\n", true, Abort},
		{"answer without newline", "y", true, Execute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := confirm(t, tt.input, tt.defaultYes, 3)
			if got != tt.want {
				t.Errorf("Confirm() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestConfirm_EOFAborts(t *testing.T) {
	got, _ := confirm(t, "", true, 3)
	if got != Abort {
		t.Errorf("Confirm() = %s on EOF, want %s", got, Abort)
	}
}

func TestConfirm_RetriesThenSkips(t *testing.T) {
	got, out := confirm(t, "wat\nhuh\neh\nhm\nstill wrong\n", true, 2)
	if got != Skip {
		t.Errorf("Confirm() = %s after exhausted retries, want %s", got, Skip)
	}
	if n := strings.Count(out, "Do you want to execute"); n != 3 {
		t.Errorf("prompt shown %d times, want 3 (1 ask + 2 retries)", n)
	}
}

func TestConfirm_RecoversAfterInvalidAnswer(t *testing.T) {
	got, out := confirm(t, "wat\ny\n", true, 3)
	if got != Execute {
		t.Errorf("Confirm() = %s, want %s after retry", got, Execute)
	}
	if !strings.Contains(out, "Invalid input.") {
		t.Error("missing feedback for the unrecognized answer")
	}
}

func TestConfirm_PromptReflectsDefault(t *testing.T) {
	_, out := confirm(t, "y\n", true, 0)
	if !strings.Contains(out, "(Y/n/b for ban)") {
		t.Errorf("default-yes prompt = %q, want capital Y", out)
	}

	_, out = confirm(t, "y\n", false, 0)
	if !strings.Contains(out, "(y/N/b for ban)") {
		t.Errorf("default-no prompt = %q, want capital N", out)
	}
}

func TestConfirm_InvalidThenEOFAborts(t *testing.T) {
	got, _ := confirm(t, "wat", true, 5)
	if got != Abort {
		t.Errorf("Confirm() = %s, want %s when input ends mid-retry", got, Abort)
	}
}
