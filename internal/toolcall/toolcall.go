// Package toolcall implements the text protocol through which the model
// requests tool invocations: a bare JSON envelope of the form
// {"tool_call":{"name":"..."}} occupying the entire response.
package toolcall

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Call is a parsed tool invocation request. It is ephemeral: produced from
// one model response and consumed immediately.
type Call struct {
	Name string
}

// envelope mirrors the wire format. Any field outside this shape rejects
// the parse.
type envelope struct {
	ToolCall *payload `json:"tool_call"`
}

type payload struct {
	Name string `json:"name"`
}

// Parse attempts to interpret the entire trimmed text as a tool-call
// envelope. Plain prose, malformed JSON, envelopes embedded in surrounding
// text, unknown fields, and empty names all yield ok == false: the text is
// then an ordinary assistant reply, never an error.
func Parse(text string) (Call, bool) {
	trimmed := strings.TrimSpace(text)

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.DisallowUnknownFields()

	var env envelope
	if err := dec.Decode(&env); err != nil {
		return Call{}, false
	}

	// The envelope must be the whole response, not a JSON prefix of it.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return Call{}, false
	}

	if env.ToolCall == nil {
		return Call{}, false
	}

	name := strings.TrimSpace(env.ToolCall.Name)
	if name == "" {
		return Call{}, false
	}

	return Call{Name: name}, true
}

// FormatResult renders a tool outcome as the user-role message fed back to
// the model. The backend protocol has no tool role, so results travel as
// user content with a fixed textual marker.
func FormatResult(name, result string) string {
	return fmt.Sprintf("Tool '%s' result: %s", name, result)
}

// ToolInfo describes one invokable tool for the usage instructions.
type ToolInfo struct {
	Name        string
	Description string
}

// UsageInstructions returns the system message teaching the model which
// tools exist and the exact envelope it must emit to invoke one.
func UsageInstructions(tools []ToolInfo) string {
	var b strings.Builder
	b.WriteString("Tools are available.\n")
	b.WriteString("Available tools:\n")
	for _, t := range tools {
		fmt.Fprintf(&b, "- %s: %s\n", t.Name, t.Description)
	}
	b.WriteString("If a tool is needed, reply with exactly this JSON object and nothing else:\n")

	example := "time.now"
	if len(tools) > 0 {
		example = tools[0].Name
	}
	fmt.Fprintf(&b, "{\"tool_call\":{\"name\":%q}}\n", example)
	b.WriteString("After receiving tool results, respond normally to the user.")
	return b.String()
}
