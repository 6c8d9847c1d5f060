package session

import (
	"context"
	"fmt"
	"time"

	"github.com/hpungsan/wisp/internal/config"
	"github.com/hpungsan/wisp/internal/conversation"
	"github.com/hpungsan/wisp/internal/extract"
	"github.com/hpungsan/wisp/internal/llm"
)

// Translate runs one stateless translation round: prompt in, extracted
// command out. Nothing is executed and nothing is recorded; this backs the
// MCP translate tool. contextOverride replaces the configured system
// context when set. ok is false when the model answered without a
// qualifying fenced block.
func Translate(ctx context.Context, client llm.Client, cfg *config.Config, prompt, contextOverride string) (command string, ok bool, err error) {
	state := conversation.New(cfg.MaxTurns)

	instruction := translateSystemPrompt
	switch {
	case contextOverride != "":
		instruction = contextOverride
	case cfg.Context != "":
		instruction = cfg.Context
	}
	state.PinSystem(instruction)
	state.Append(conversation.Turn{
		Role:    conversation.RoleUser,
		Content: fmt.Sprintf(translateTemplate, prompt),
	})

	cctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.RequestTimeoutSecs)*time.Second)
	defer cancel()

	response, err := client.Chat(cctx, state.Snapshot())
	if err != nil {
		return "", false, err
	}
	command, ok = extract.Command(response)
	return command, ok, nil
}
