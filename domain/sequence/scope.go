package sequence

import "context"

type adjustmentKey struct{}

// WithAdjustment marks the dynamic extent of ctx as permitted to advance
// an existing native counter past already-occupied values. The permission
// travels with the context: it covers exactly the calls made with the
// returned context (or one derived from it) and nothing else, so there is
// no reset to forget on error paths.
func WithAdjustment(ctx context.Context) context.Context {
	return context.WithValue(ctx, adjustmentKey{}, true)
}

// AdjustmentEnabled reports whether ctx carries the adjustment permission
func AdjustmentEnabled(ctx context.Context) bool {
	enabled, _ := ctx.Value(adjustmentKey{}).(bool)
	return enabled
}
