// Package session drives the confirmation-gated execution loop: one round
// takes a user prompt through the provider, the extractor, the gate, and the
// runner, folding the result back into the conversation so later prompts
// have that context.
package session

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/hpungsan/wisp/internal/config"
	"github.com/hpungsan/wisp/internal/conversation"
	"github.com/hpungsan/wisp/internal/extract"
	"github.com/hpungsan/wisp/internal/gate"
	"github.com/hpungsan/wisp/internal/history"
	"github.com/hpungsan/wisp/internal/llm"
	"github.com/hpungsan/wisp/internal/logging"
	"github.com/hpungsan/wisp/internal/policy"
	"github.com/hpungsan/wisp/internal/runner"
	"github.com/hpungsan/wisp/internal/ui"
)

// Mode selects how prompts are framed and how responses are presented.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeShell  Mode = "shell"
	ModeChat   Mode = "chat"
)

// CommandRunner executes a confirmed command. Satisfied by runner.Runner.
type CommandRunner interface {
	Run(ctx context.Context, command string) runner.Outcome
}

// Confirmer collects the user's decision for a shown command. Satisfied by
// gate.Gate.
type Confirmer interface {
	Confirm() gate.Decision
}

// Coordinator owns one session's conversation state and runs rounds against
// it strictly sequentially. It must not be shared across sessions.
type Coordinator struct {
	Client llm.Client
	Runner CommandRunner
	Gate   Confirmer
	UI     *ui.UI
	State  *conversation.State

	// In feeds both the prompt loop and the gate. They must share one
	// buffered reader: a second reader over the same stream buffers ahead
	// and starves the other of the confirmation line.
	In *bufio.Reader

	// Policy holds the allowed/banned lists; nil means no lists.
	Policy *policy.Lists
	// DB is the history store; nil disables recording.
	DB *sql.DB

	Cfg  *config.Config
	Mode Mode
	// Model is recorded with each history entry.
	Model string
	// NoExecute forces every candidate to a Skip without reading input.
	NoExecute bool
	// Spinner animates provider calls; nil means none.
	Spinner *ui.Spinner
}

// New builds a coordinator wired to the process's standard streams and
// seeds the pinned system turn for the mode. Tests replace individual
// fields with fakes.
func New(client llm.Client, cfg *config.Config, u *ui.UI, mode Mode) *Coordinator {
	stdin := bufio.NewReader(os.Stdin)
	c := &Coordinator{
		Client: client,
		Runner: runner.New(),
		Gate:   gate.New(stdin, u.Out, !cfg.ConfirmDefaultNo, cfg.ConfirmRetries),
		UI:     u,
		State:  conversation.New(cfg.MaxTurns),
		In:     stdin,
		Cfg:    cfg,
		Mode:   mode,
		Model:  llm.ModelName(cfg),
	}
	if ui.IsTerminal(u.Err) {
		c.Spinner = ui.NewSpinner(u.Err, true)
	}
	c.seedSystemTurn()
	return c
}

// seedSystemTurn pins the mode's system prompt. Translate modes take the
// configured context when set; chat mode always uses the persona.
func (c *Coordinator) seedSystemTurn() {
	if c.Mode == ModeChat {
		c.State.PinSystem(chatSystemPrompt)
		return
	}
	instruction := translateSystemPrompt
	if c.Cfg.Context != "" {
		instruction = c.Cfg.Context
	}
	c.State.PinSystem(instruction)
}

// Result reports what one round did. The zero Decision only means something
// when HasCommand is set.
type Result struct {
	Response   string
	Command    string
	HasCommand bool
	Decision   gate.Decision
	Outcome    *runner.Outcome
	// Err is a provider failure; the round appended no assistant turn.
	Err error
}

// Aborted reports whether the user ended the session at the gate.
func (r Result) Aborted() bool {
	return r.HasCommand && r.Decision == gate.Abort
}

// ExitCode maps the round result onto a single-shot process exit code.
func (r Result) ExitCode() int {
	if r.Err != nil {
		return 1
	}
	if r.Outcome == nil {
		return 0
	}
	switch r.Outcome.Status {
	case runner.StatusSucceeded:
		return 0
	case runner.StatusFailedNonZero:
		return r.Outcome.ExitCode
	default:
		return 1
	}
}

// Round runs one prompt through the full cycle. Provider failures abandon
// the round before any assistant turn is appended; every later failure is
// folded into the conversation and reported, never propagated.
func (c *Coordinator) Round(ctx context.Context, prompt string) Result {
	content := prompt
	if c.Mode != ModeChat {
		content = fmt.Sprintf(translateTemplate, prompt)
	}
	c.State.Append(conversation.Turn{Role: conversation.RoleUser, Content: content})

	response, err := c.complete(ctx)
	if err != nil {
		logging.L().Debug("round failed at provider", zap.Error(err))
		return Result{Err: err}
	}
	c.State.Append(conversation.Turn{Role: conversation.RoleAssistant, Content: response})

	res := Result{Response: response}
	command, ok := extract.Command(response)
	if !ok {
		// The normal path for chat conversation; in the translate modes it
		// means the model answered outside a bash fence.
		if c.Mode == ModeChat {
			c.UI.Printf("%s\n", c.UI.Markdown(response))
		} else {
			c.UI.Printf("%s\n", response)
			c.UI.Errorf("No command found in the response.\n")
		}
		return res
	}

	if c.Mode == ModeChat && command == "ls" {
		// Columned output reads better inline in a chat transcript. Adjusted
		// before display so the shown text is still the executed text.
		command = "ls -C"
	}
	res.HasCommand = true
	res.Command = command

	c.UI.ShowCommand(command)
	res.Decision = c.decide(command)

	switch res.Decision {
	case gate.Execute:
		outcome := c.Runner.Run(ctx, command)
		res.Outcome = &outcome
		c.State.Append(conversation.Turn{Role: conversation.RoleSystem, Content: observation(outcome)})
		c.report(outcome)
		if c.Mode == ModeChat {
			c.followUp(ctx)
		}
	case gate.Ban:
		c.ban(command)
		c.State.Append(skipTurn(command))
	default: // Skip, Abort
		c.State.Append(skipTurn(command))
	}

	c.record(prompt, res)
	return res
}

// decide resolves the candidate to a decision, consulting the gate only
// when no earlier check settles it.
func (c *Coordinator) decide(command string) gate.Decision {
	if runner.IsBuiltin(command) {
		c.UI.Errorf("%q is a shell builtin; it would only affect a subshell. Run it in your own shell.\n", strings.Fields(command)[0])
		return gate.Skip
	}
	if c.Policy != nil && c.Policy.Banned(command) {
		c.UI.Errorf("Command is on the banned list; not executing.\n")
		return gate.Skip
	}
	if c.NoExecute {
		c.UI.Printf("[no-execute] Command not executed.\n")
		return gate.Skip
	}
	if c.Policy != nil && c.Policy.Allowed(command) {
		return gate.Execute
	}
	return c.Gate.Confirm()
}

// complete requests a completion on the current snapshot. This is the only
// blocking point of a round besides command execution, bounded by the
// configured request timeout.
func (c *Coordinator) complete(ctx context.Context) (string, error) {
	timeout := time.Duration(c.Cfg.RequestTimeoutSecs) * time.Second
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if c.Spinner != nil {
		c.Spinner.Start()
		defer c.Spinner.Stop()
	}
	return c.Client.Chat(cctx, c.State.Snapshot())
}

// followUp gives the chat model one turn to comment on the outcome it just
// caused. Failures here are reported and dropped; the round already
// committed its turns.
func (c *Coordinator) followUp(ctx context.Context) {
	response, err := c.complete(ctx)
	if err != nil {
		c.UI.Errorf("follow-up failed: %v\n", err)
		return
	}
	c.State.Append(conversation.Turn{Role: conversation.RoleAssistant, Content: response})
	c.UI.Printf("%s\n", c.UI.Markdown(response))
}

func (c *Coordinator) ban(command string) {
	if c.Policy == nil {
		return
	}
	if err := c.Policy.Ban(command); err != nil {
		c.UI.Errorf("could not update the banned list: %v\n", err)
		return
	}
	c.UI.Printf("Command added to the banned list.\n")
}

// report tells the user how the run ended. Success stays quiet: the
// command's own output already streamed through.
func (c *Coordinator) report(o runner.Outcome) {
	switch o.Status {
	case runner.StatusSucceeded:
	case runner.StatusFailedNonZero:
		c.UI.Errorf("[error] command exited with code %d\n", o.ExitCode)
	default:
		c.UI.Errorf("[error] command could not be started: %s\n", o.Reason)
	}
}

// record writes the round to the history store. Best-effort: a failed write
// is logged and the round is unaffected.
func (c *Coordinator) record(prompt string, res Result) {
	if c.DB == nil || c.Cfg.HistoryDisabled || !res.HasCommand {
		return
	}
	decision := res.Decision.String()
	rec := &history.Record{
		ID:        history.NewID(),
		CreatedAt: time.Now().Unix(),
		Mode:      string(c.Mode),
		Model:     c.Model,
		Prompt:    prompt,
		Command:   &res.Command,
		Decision:  &decision,
	}
	if res.Outcome != nil {
		status := string(res.Outcome.Status)
		code := res.Outcome.ExitCode
		ms := res.Outcome.Duration.Milliseconds()
		rec.Status = &status
		rec.ExitCode = &code
		rec.DurationMs = &ms
	}
	if err := history.Insert(c.DB, rec); err != nil {
		logging.L().Debug("history write failed", zap.Error(err))
	}
}

// maxObservationChars caps how much captured output is folded back into the
// conversation so one verbose command cannot crowd out the history.
const maxObservationChars = 1500

// observation renders an outcome as the system turn later prompts will see.
func observation(o runner.Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Observation: %s.", o.Summary())
	if out := truncate(strings.TrimSpace(o.Stdout)); out != "" {
		b.WriteString("\nstdout:\n" + out)
	}
	if errOut := truncate(strings.TrimSpace(o.Stderr)); errOut != "" {
		b.WriteString("\nstderr:\n" + errOut)
	}
	return b.String()
}

func skipTurn(command string) conversation.Turn {
	return conversation.Turn{
		Role:    conversation.RoleSystem,
		Content: fmt.Sprintf("Observation: the command `%s` was not executed.", command),
	}
}

func truncate(s string) string {
	if len(s) <= maxObservationChars {
		return s
	}
	cut := s[:maxObservationChars]
	// Do not split a multi-byte rune at the boundary.
	for len(cut) > 0 {
		r, size := utf8.DecodeLastRuneInString(cut)
		if r == utf8.RuneError && size <= 1 {
			cut = cut[:len(cut)-1]
			continue
		}
		break
	}
	return cut + "\n[output truncated]"
}
