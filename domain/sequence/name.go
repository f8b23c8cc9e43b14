package sequence

import "strings"

// CounterName identifies a backing-store sequence object
type CounterName string

const (
	// NamePrefix marks every counter name this package derives
	NamePrefix = "seq_"

	// MaxNameLength matches the identifier limit of the backing store
	MaxNameLength = 64
)

// halfLength is the budget for each of the two sanitized name components,
// leaving room for the prefix and the joining underscore.
const halfLength = (MaxNameLength - len(NamePrefix) - 1) / 2

// String returns the string representation
func (n CounterName) String() string {
	return string(n)
}

// ResolveName derives the counter name for an (entity type, attribute) pair.
// The derivation is deterministic: the same inputs always produce the same
// name. Truncation means distinct inputs can collide on very long names;
// that is an accepted limitation.
func ResolveName(entityType, attribute string) CounterName {
	table := truncate(sanitize(entityType), halfLength)
	attr := truncate(sanitize(attribute), halfLength)
	return CounterName(NamePrefix + table + "_" + attr)
}

// sanitize lowercases s and replaces every character outside [a-z0-9_]
// with an underscore.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
