package sequence

// ValueMapper translates a 1-based index into the attribute value that
// would be stored for that index. Plain integer columns use Identity;
// composite or encoded attributes supply their own formatting.
type ValueMapper func(index int64) any

// Identity maps each index to itself
func Identity(index int64) any {
	return index
}
