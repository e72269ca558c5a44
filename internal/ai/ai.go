package ai

import "context"

// Role tags a conversation message with its author.
type Role string

const (
	RoleCandidate Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged utterance in the interview conversation.
type Message struct {
	Role    Role
	Content string
}

// GenerateRequest carries one history-bearing completion request.
type GenerateRequest struct {
	// SystemPrompt is the fixed behavioral prompt for the whole interview.
	SystemPrompt string
	// History is the bounded conversation window, oldest first.
	History []Message
	// Instruction is the phase-specific instruction for this turn.
	Instruction string
}

// Generator produces conversational replies from the completion service.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// Judge answers single-shot classification or scoring prompts with a short,
// deterministic completion (no history, zero temperature).
type Judge interface {
	Judge(ctx context.Context, prompt string) (string, error)
}

// Gateway combines both call shapes offered by a completion provider.
type Gateway interface {
	Generator
	Judge
}
