package store

// RangeSlice resolves an inclusive [start, stop] range over list, with
// negative indices counting from the end (-1 is the last element). Indices
// are clamped to the list bounds and an inverted range yields an empty
// result. The returned slice is a copy.
func RangeSlice(list []string, start, stop int) []string {
	n := len(list)

	if start < 0 {
		start = max(n+start, 0)
	} else {
		start = min(start, n)
	}
	if stop < 0 {
		stop = max(n+stop, 0)
	} else {
		stop = min(stop, n-1)
	}

	if start > stop || start >= n {
		return []string{}
	}

	out := make([]string, stop-start+1)
	copy(out, list[start:stop+1])
	return out
}
