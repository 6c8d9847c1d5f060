package session

import (
	"context"
	"strings"
)

// SingleShot runs exactly one round and returns the process exit code: 0
// when nothing ran or the command succeeded, the command's own code when it
// exited non-zero, 1 for a start or provider failure.
func (c *Coordinator) SingleShot(ctx context.Context, prompt string) int {
	res := c.Round(ctx, prompt)
	if res.Err != nil {
		c.UI.Errorf("Error: %v\n", res.Err)
	}
	return res.ExitCode()
}

// Shell reads prompts from c.In line by line until `exit`, EOF, or an
// abort at the gate. A failed round is reported and the loop re-prompts.
func (c *Coordinator) Shell(ctx context.Context) {
	c.runLoop(ctx, false)
}

// Chat is the same loop with the chat framing: `quit` also ends it, and
// responses render as markdown inside Round.
func (c *Coordinator) Chat(ctx context.Context) {
	c.runLoop(ctx, true)
}

func (c *Coordinator) runLoop(ctx context.Context, chat bool) {
	reader := c.In
	for {
		if ctx.Err() != nil {
			return
		}

		if chat {
			c.UI.Printf("> ")
		} else {
			c.UI.Printf("%s", c.UI.ShellPrompt())
		}

		line, readErr := reader.ReadString('\n')
		prompt := strings.TrimSpace(line)
		if isExitWord(prompt, chat) {
			return
		}

		if prompt != "" {
			res := c.Round(ctx, prompt)
			if res.Err != nil {
				c.UI.Errorf("Error: %v\n", res.Err)
			}
			if res.Aborted() {
				return
			}
		}

		// EOF (or a read error) ends the loop, but only after the final
		// line, if any, got its round.
		if readErr != nil {
			return
		}
	}
}

// isExitWord reports whether the trimmed line ends the loop before any
// round runs. Chat mode additionally accepts quit.
func isExitWord(prompt string, chat bool) bool {
	if strings.EqualFold(prompt, "exit") {
		return true
	}
	return chat && strings.EqualFold(prompt, "quit")
}
