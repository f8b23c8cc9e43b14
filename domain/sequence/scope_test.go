package sequence

import (
	"context"
	"testing"
)

// TestAdjustmentScope tests that the permission is carried only by the
// marked context and its children
func TestAdjustmentScope(t *testing.T) {
	base := context.Background()
	if AdjustmentEnabled(base) {
		t.Error("Expected adjustment off by default")
	}

	marked := WithAdjustment(base)
	if !AdjustmentEnabled(marked) {
		t.Error("Expected adjustment on for marked context")
	}

	child := context.WithValue(marked, struct{ key string }{"k"}, "v")
	if !AdjustmentEnabled(child) {
		t.Error("Expected adjustment to propagate to derived contexts")
	}

	// The original context is untouched; nothing to reset on exit
	if AdjustmentEnabled(base) {
		t.Error("Expected base context to stay unmarked")
	}
}
