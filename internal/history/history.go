// Package history implements the bounded conversation buffer. Entries carry
// a semantic kind alongside the wire message; the kind drives the trimming
// policy and is never transmitted to the backend.
package history

import "github.com/flemzord/fizz/internal/provider"

// DefaultMaxMessages is the capacity applied when New is called with a
// non-positive maximum.
const DefaultMaxMessages = 40

// Kind classifies a history entry for trimming decisions.
type Kind string

// Kind constants for history entries.
const (
	KindSystem     Kind = "system"
	KindUserInput  Kind = "user_input"
	KindToolResult Kind = "tool_result"
	KindAssistant  Kind = "assistant"
)

// Entry is one message in the buffer together with its semantic kind.
type Entry struct {
	Message provider.Message
	Kind    Kind
}

// Buffer is an ordered, capacity-bounded message sequence with an immutable
// system prefix. It is owned by a single conversation and is not safe for
// concurrent mutation.
type Buffer struct {
	entries   []Entry
	systemLen int
	max       int
}

// New creates a buffer seeded with the given system messages. The prefix is
// fixed for the buffer's lifetime: it survives trimming and is restored by
// Reset. A non-positive max falls back to DefaultMaxMessages.
func New(system []provider.Message, max int) *Buffer {
	if max <= 0 {
		max = DefaultMaxMessages
	}
	entries := make([]Entry, 0, len(system))
	for _, msg := range system {
		entries = append(entries, Entry{Message: msg, Kind: KindSystem})
	}
	return &Buffer{
		entries:   entries,
		systemLen: len(entries),
		max:       max,
	}
}

// Push appends a message with the given kind and enforces capacity.
func (b *Buffer) Push(msg provider.Message, kind Kind) {
	b.entries = append(b.entries, Entry{Message: msg, Kind: kind})
	b.trim()
}

// Reset truncates the buffer back to exactly the system prefix.
func (b *Buffer) Reset() {
	b.entries = b.entries[:b.systemLen]
}

// Len returns the number of entries currently held.
func (b *Buffer) Len() int {
	return len(b.entries)
}

// SystemLen returns the size of the immutable system prefix.
func (b *Buffer) SystemLen() int {
	return b.systemLen
}

// Snapshot returns a copy of the messages in order, for transmission to the
// backend. Kinds are not included.
func (b *Buffer) Snapshot() []provider.Message {
	msgs := make([]provider.Message, len(b.entries))
	for i, e := range b.entries {
		msgs[i] = e.Message
	}
	return msgs
}

// Entries returns a copy of the full entries, kinds included.
func (b *Buffer) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// trim enforces the capacity bound. The retained suffix must start at a
// UserInput entry so the window always holds whole turns; when no UserInput
// falls inside the allowed tail, every non-system entry is dropped.
func (b *Buffer) trim() {
	if len(b.entries) <= b.max {
		return
	}

	keepTail := b.max - b.systemLen
	if keepTail < 0 {
		keepTail = 0
	}

	minStart := len(b.entries) - keepTail
	if minStart < b.systemLen {
		minStart = b.systemLen
	}

	alignedStart := -1
	for i := minStart; i < len(b.entries); i++ {
		if b.entries[i].Kind == KindUserInput {
			alignedStart = i
			break
		}
	}

	trimmed := append([]Entry(nil), b.entries[:b.systemLen]...)
	if alignedStart >= 0 {
		trimmed = append(trimmed, b.entries[alignedStart:]...)
	}
	b.entries = trimmed
}
