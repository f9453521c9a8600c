package ai

import "context"

// Generator produces free text from a prompt. Implementations may return
// prose-wrapped or fenced JSON; callers are expected to sanitize before
// parsing.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
