package provider

// MessageRole identifies the sender of a message in a conversation.
type MessageRole string

// MessageRole constants for conversation messages.
const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Message is a single role-tagged message in a conversation. Messages are
// value types and are never mutated after creation.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// System returns a system message with the given content.
func System(content string) Message {
	return Message{Role: MessageRoleSystem, Content: content}
}

// User returns a user message with the given content.
func User(content string) Message {
	return Message{Role: MessageRoleUser, Content: content}
}

// Assistant returns an assistant message with the given content.
func Assistant(content string) Message {
	return Message{Role: MessageRoleAssistant, Content: content}
}
