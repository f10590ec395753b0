package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/flemzord/fizz/internal/history"
	"github.com/flemzord/fizz/internal/provider"
	"github.com/flemzord/fizz/internal/toolcall"
)

// mockTools is a ToolSource returning canned outputs per tool name.
type mockTools struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (m *mockTools) Execute(_ context.Context, name string) (string, error) {
	m.calls = append(m.calls, name)
	if err, ok := m.errs[name]; ok {
		return "", err
	}
	out, ok := m.outputs[name]
	if !ok {
		return "", fmt.Errorf("unknown tool '%s'", name)
	}
	return out, nil
}

func (m *mockTools) Infos() []toolcall.ToolInfo {
	return []toolcall.ToolInfo{{Name: "time.now", Description: "returns current UTC time and unix time in seconds."}}
}

// scriptedProvider returns replies in order and records each request.
type scriptedProvider struct {
	replies  []string
	err      error // returned once the script is exhausted
	requests [][]provider.Message
}

func (p *scriptedProvider) Chat(_ context.Context, messages []provider.Message) (string, error) {
	snapshot := make([]provider.Message, len(messages))
	copy(snapshot, messages)
	p.requests = append(p.requests, snapshot)

	if len(p.requests) > len(p.replies) {
		if p.err != nil {
			return "", p.err
		}
		return "", fmt.Errorf("scripted provider exhausted after %d calls", len(p.replies))
	}
	return p.replies[len(p.requests)-1], nil
}

func (p *scriptedProvider) ModelName() string { return "scripted" }

func newTestEngine(p provider.Provider, tools ToolExecutor) (*Engine, *history.Buffer) {
	buf := history.New([]provider.Message{
		provider.System("sys"),
		provider.System("tools"),
	}, history.DefaultMaxMessages)
	return NewEngine(p, tools, buf), buf
}

const timeCallJSON = `{"tool_call":{"name":"time.now"}}`

func TestRunTurn_PlainReply(t *testing.T) {
	t.Parallel()

	p := &scriptedProvider{replies: []string{"Hello!"}}
	engine, buf := newTestEngine(p, &mockTools{})

	reply, err := engine.RunTurn(context.Background(), "hi")
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if reply != "Hello!" {
		t.Errorf("reply = %q, want %q", reply, "Hello!")
	}
	if len(p.requests) != 1 {
		t.Errorf("chat calls = %d, want 1", len(p.requests))
	}

	entries := buf.Entries()
	wantKinds := []history.Kind{history.KindSystem, history.KindSystem, history.KindUserInput, history.KindAssistant}
	if len(entries) != len(wantKinds) {
		t.Fatalf("history len = %d, want %d", len(entries), len(wantKinds))
	}
	for i, k := range wantKinds {
		if entries[i].Kind != k {
			t.Errorf("entry[%d].Kind = %s, want %s", i, entries[i].Kind, k)
		}
	}
}

func TestRunTurn_SingleToolHop(t *testing.T) {
	t.Parallel()

	tools := &mockTools{outputs: map[string]string{"time.now": "2024-01-01T00:00:00Z (unix: 1704067200)"}}
	p := &scriptedProvider{replies: []string{timeCallJSON, "Here is the final answer."}}
	engine, buf := newTestEngine(p, tools)

	reply, err := engine.RunTurn(context.Background(), "what time is it?")
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if reply != "Here is the final answer." {
		t.Errorf("reply = %q, want final answer", reply)
	}
	if len(p.requests) != 2 {
		t.Errorf("chat calls = %d, want 2", len(p.requests))
	}
	if len(tools.calls) != 1 || tools.calls[0] != "time.now" {
		t.Errorf("tool calls = %v, want exactly one time.now", tools.calls)
	}

	var found bool
	for _, e := range buf.Entries() {
		if strings.HasPrefix(e.Message.Content, "Tool 'time.now' result:") {
			found = true
			if e.Kind != history.KindToolResult {
				t.Errorf("tool result kind = %s, want %s", e.Kind, history.KindToolResult)
			}
			if e.Message.Role != provider.MessageRoleUser {
				t.Errorf("tool result role = %s, want user", e.Message.Role)
			}
		}
	}
	if !found {
		t.Error("history has no tool result entry")
	}
}

func TestRunTurn_HopLimit(t *testing.T) {
	t.Parallel()

	tools := &mockTools{outputs: map[string]string{"time.now": "noon"}}
	p := &scriptedProvider{replies: []string{timeCallJSON, timeCallJSON, timeCallJSON}}
	engine, buf := newTestEngine(p, tools)

	reply, err := engine.RunTurn(context.Background(), "loop forever")
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if !strings.Contains(reply, "I stopped after 2 tool calls") {
		t.Errorf("reply = %q, want hop limit message", reply)
	}
	if len(p.requests) != 3 {
		t.Errorf("chat calls = %d, want 3", len(p.requests))
	}
	if len(tools.calls) != 2 {
		t.Errorf("tool executions = %d, want 2", len(tools.calls))
	}

	// The refused tool-call response and the limit message both land in
	// history as assistant entries.
	entries := buf.Entries()
	last := entries[len(entries)-1]
	if last.Message.Content != LimitMessage || last.Kind != history.KindAssistant {
		t.Errorf("last entry = %+v, want assistant limit message", last)
	}
	secondToLast := entries[len(entries)-2]
	if secondToLast.Message.Content != timeCallJSON {
		t.Errorf("second-to-last entry = %q, want refused tool call", secondToLast.Message.Content)
	}
}

func TestRunTurn_EnvelopeEmbeddedInProseIsPlainReply(t *testing.T) {
	t.Parallel()

	tools := &mockTools{outputs: map[string]string{"time.now": "noon"}}
	text := "Let me check.\n{\"tool_call\":{\"name\":\"time.now\"}}"
	p := &scriptedProvider{replies: []string{text}}
	engine, _ := newTestEngine(p, tools)

	reply, err := engine.RunTurn(context.Background(), "time?")
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if reply != text {
		t.Errorf("reply = %q, want the verbatim response", reply)
	}
	if len(p.requests) != 1 {
		t.Errorf("chat calls = %d, want 1", len(p.requests))
	}
	if len(tools.calls) != 0 {
		t.Errorf("tool executions = %d, want 0", len(tools.calls))
	}
}

func TestRunTurn_ToolErrorFoldsIntoConversation(t *testing.T) {
	t.Parallel()

	tools := &mockTools{errs: map[string]error{"time.now": errors.New("clock unavailable")}}
	p := &scriptedProvider{replies: []string{timeCallJSON, "Sorry, I could not get the time."}}
	engine, buf := newTestEngine(p, tools)

	reply, err := engine.RunTurn(context.Background(), "time?")
	if err != nil {
		t.Fatalf("RunTurn returned error for tool failure: %v", err)
	}
	if reply != "Sorry, I could not get the time." {
		t.Errorf("reply = %q", reply)
	}

	var found bool
	for _, e := range buf.Entries() {
		if e.Kind == history.KindToolResult {
			found = true
			want := "Tool 'time.now' result: ERROR: clock unavailable"
			if e.Message.Content != want {
				t.Errorf("tool result = %q, want %q", e.Message.Content, want)
			}
		}
	}
	if !found {
		t.Error("no tool result entry recorded")
	}
}

func TestRunTurn_UnknownToolNameFoldsIntoConversation(t *testing.T) {
	t.Parallel()

	tools := &mockTools{}
	p := &scriptedProvider{replies: []string{`{"tool_call":{"name":"missing.tool"}}`, "done"}}
	engine, buf := newTestEngine(p, tools)

	if _, err := engine.RunTurn(context.Background(), "go"); err != nil {
		t.Fatalf("RunTurn: %v", err)
	}

	var result string
	for _, e := range buf.Entries() {
		if e.Kind == history.KindToolResult {
			result = e.Message.Content
		}
	}
	if !strings.Contains(result, "ERROR:") || !strings.Contains(result, "missing.tool") {
		t.Errorf("tool result = %q, want ERROR naming missing.tool", result)
	}
}

func TestRunTurn_BackendErrorAbortsTurn(t *testing.T) {
	t.Parallel()

	backendErr := fmt.Errorf("%w: connection refused", provider.ErrBackendDown)
	p := &scriptedProvider{err: backendErr}
	engine, buf := newTestEngine(p, &mockTools{})

	before := buf.Len()
	_, err := engine.RunTurn(context.Background(), "hello")
	if !errors.Is(err, provider.ErrBackendDown) {
		t.Fatalf("err = %v, want ErrBackendDown", err)
	}

	// User input was pushed before the failing call; nothing after it.
	if buf.Len() != before+1 {
		t.Errorf("history len = %d, want %d", buf.Len(), before+1)
	}
	entries := buf.Entries()
	last := entries[len(entries)-1]
	if last.Kind != history.KindUserInput || last.Message.Content != "hello" {
		t.Errorf("last entry = %+v, want the user input", last)
	}
}

func TestRunTurn_BackendErrorMidTurnKeepsEarlierMessages(t *testing.T) {
	t.Parallel()

	tools := &mockTools{outputs: map[string]string{"time.now": "noon"}}
	p := &scriptedProvider{replies: []string{timeCallJSON}, err: provider.ErrBackendDown}
	engine, buf := newTestEngine(p, tools)

	_, err := engine.RunTurn(context.Background(), "time?")
	if !errors.Is(err, provider.ErrBackendDown) {
		t.Fatalf("err = %v, want ErrBackendDown", err)
	}

	// user input + assistant tool call + tool result survive; no entry was
	// added for the failed follow-up call.
	kinds := []history.Kind{}
	for _, e := range buf.Entries()[buf.SystemLen():] {
		kinds = append(kinds, e.Kind)
	}
	want := []history.Kind{history.KindUserInput, history.KindAssistant, history.KindToolResult}
	if len(kinds) != len(want) {
		t.Fatalf("non-system kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestRunTurn_RequestsAlwaysBeginWithSystemPrefix(t *testing.T) {
	t.Parallel()

	tools := &mockTools{outputs: map[string]string{"time.now": "noon"}}
	p := &scriptedProvider{replies: []string{timeCallJSON, "done"}}
	engine, _ := newTestEngine(p, tools)

	if _, err := engine.RunTurn(context.Background(), "time?"); err != nil {
		t.Fatalf("RunTurn: %v", err)
	}

	for i, req := range p.requests {
		if len(req) < 2 {
			t.Fatalf("request %d has %d messages", i, len(req))
		}
		if req[0].Role != provider.MessageRoleSystem || req[0].Content != "sys" {
			t.Errorf("request %d does not start with system prefix: %+v", i, req[0])
		}
		if req[1].Role != provider.MessageRoleSystem || req[1].Content != "tools" {
			t.Errorf("request %d second message = %+v, want system 'tools'", i, req[1])
		}
	}
}

// recordingSink captures Recorder calls.
type recordingSink struct {
	records []string
	err     error
}

func (r *recordingSink) Record(_ context.Context, turn int, role, kind, content string) error {
	r.records = append(r.records, fmt.Sprintf("%d/%s/%s/%s", turn, role, kind, content))
	return r.err
}

func TestRunTurn_RecorderSeesEveryMessage(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	tools := &mockTools{outputs: map[string]string{"time.now": "noon"}}
	p := &scriptedProvider{replies: []string{timeCallJSON, "done"}}

	buf := history.New([]provider.Message{provider.System("sys")}, history.DefaultMaxMessages)
	engine := NewEngine(p, tools, buf, WithRecorder(sink))

	if _, err := engine.RunTurn(context.Background(), "time?"); err != nil {
		t.Fatalf("RunTurn: %v", err)
	}

	// user input, assistant tool call, tool result, final assistant reply.
	if len(sink.records) != 4 {
		t.Fatalf("recorded %d messages, want 4: %v", len(sink.records), sink.records)
	}
	if sink.records[0] != "1/user/user_input/time?" {
		t.Errorf("records[0] = %q", sink.records[0])
	}
	if !strings.HasPrefix(sink.records[2], "1/user/tool_result/Tool 'time.now' result:") {
		t.Errorf("records[2] = %q", sink.records[2])
	}
}

func TestRunTurn_RecorderFailureDoesNotAbortTurn(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{err: errors.New("disk full")}
	p := &scriptedProvider{replies: []string{"fine"}}
	buf := history.New(nil, history.DefaultMaxMessages)
	engine := NewEngine(p, &mockTools{}, buf, WithRecorder(sink))

	reply, err := engine.RunTurn(context.Background(), "hi")
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if reply != "fine" {
		t.Errorf("reply = %q, want %q", reply, "fine")
	}
}
