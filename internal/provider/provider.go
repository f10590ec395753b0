// Package provider defines the chat backend interface and the message model
// shared by every component that talks to an LLM.
package provider

import "context"

// Provider is the interface for communicating with a chat backend.
// Concrete implementations live in subpackages (e.g. provider/ollama).
type Provider interface {
	// Chat sends the ordered message sequence and returns the model's
	// reply text. The sequence always begins with the conversation's
	// system prefix.
	Chat(ctx context.Context, messages []Message) (string, error)

	// ModelName returns the identifier of the underlying model.
	ModelName() string
}
