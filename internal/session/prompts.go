package session

// translateTemplate wraps each translate-mode prompt so the model answers
// with a command instead of conversation.
const translateTemplate = "Translate the following prompt into a bash command without explanation:\n%s"

// translateSystemPrompt seeds the translate modes unless config `context`
// overrides it. The fenced-block requirement is what the extractor relies
// on: an answer outside a ```bash fence is treated as no command.
const translateSystemPrompt = "You translate natural language into shell commands. " +
	"Reply with exactly one bash command inside a ```bash fenced code block. " +
	"Do not add explanations outside the block."

// chatSystemPrompt seeds chat mode. Commands only run after the user
// confirms, and only when fenced, so the persona asks the model to fence
// anything runnable.
const chatSystemPrompt = "You are wisp, a friendly command-line assistant. " +
	"Converse naturally and keep answers short. When you propose something the " +
	"user should run, put the exact command in a ```bash fenced code block; the " +
	"user is asked to confirm before anything executes."
