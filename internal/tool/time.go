package tool

import (
	"context"
	"fmt"
	"time"
)

// TimeTool reports the current UTC time. The clock is injectable so tests
// get deterministic output.
type TimeTool struct {
	now func() time.Time
}

// NewTimeTool creates a TimeTool backed by the system clock.
func NewTimeTool() *TimeTool {
	return &TimeTool{now: time.Now}
}

// NewTimeToolWithClock creates a TimeTool backed by the given clock.
func NewTimeToolWithClock(now func() time.Time) *TimeTool {
	return &TimeTool{now: now}
}

// Name implements Tool.
func (t *TimeTool) Name() string { return "time.now" }

// Description implements Tool.
func (t *TimeTool) Description() string {
	return "returns current UTC time and unix time in seconds."
}

// Execute implements Tool. The output carries both a human-readable RFC 3339
// timestamp and the raw epoch seconds.
func (t *TimeTool) Execute(_ context.Context) (string, error) {
	now := t.now()
	return fmt.Sprintf("%s (unix: %d)", now.UTC().Format(time.RFC3339), now.Unix()), nil
}

// Interface guard.
var _ Tool = (*TimeTool)(nil)
