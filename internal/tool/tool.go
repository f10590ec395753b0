// Package tool defines the tool interface and the registry the turn engine
// dispatches into. Tools are looked up by name, run one at a time, and
// return plain text; failures are reported as errors for the engine to fold
// back into the conversation.
package tool

import "context"

// Tool is the interface all built-in tools implement.
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a one-line summary used in the model-facing
	// usage instructions.
	Description() string

	// Execute runs the tool and returns its textual output.
	Execute(ctx context.Context) (string, error)
}
