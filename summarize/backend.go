package summarize

import "context"

// Params shapes a single summarization pass.
type Params struct {
	// MaxWords bounds the summary length.
	MaxWords int

	// MinWords keeps the backend from collapsing a section to a fragment.
	MinWords int

	// PreserveStructure asks the backend to keep lists and tables intact.
	PreserveStructure bool

	// Deterministic disables sampling so repeated runs converge.
	Deterministic bool
}

// Backend produces an abstractive summary of one text section. A Backend is
// expensive to initialize and shared across requests; implementations must
// be goroutine-safe.
type Backend interface {
	// Name identifies the backend and model for logging and health output.
	Name() string

	// Summarize condenses text according to p. The returned text is raw
	// model output; validation and post-processing happen in the caller.
	Summarize(ctx context.Context, text string, p Params) (string, error)

	// Ping verifies the backend is reachable. Used during candidate
	// probing at initialization.
	Ping(ctx context.Context) error
}
