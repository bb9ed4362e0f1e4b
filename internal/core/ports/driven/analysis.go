package driven

import "context"

// AnalysisService produces an analysis text block for note content.
// It is an opaque external collaborator: input text in, output text or a
// failure out. Failures are transient and retryable by the pipeline.
//
// Implementations may include:
//   - LM Studio (local inference server, OpenAI-compatible)
//   - Ollama (local models, OpenAI-compatible endpoint)
//   - OpenAI (cloud)
type AnalysisService interface {
	// Analyse sends content with a system prompt and returns the generated
	// analysis text. Content longer than the configured input window is
	// truncated to its first characters before sending.
	Analyse(ctx context.Context, systemPrompt, content string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test
	// request. Used at startup to fail fast on misconfiguration.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
