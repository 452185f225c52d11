// Package partition splits work into contiguous, ordered batches.
package partition

import "iter"

// Batches yields contiguous sub-slices of items, each of length size except
// possibly the last, together with their 0-based batch number. The sequence is
// lazy and restartable: ranging over it again starts from the first batch.
// A non-positive size yields everything as a single batch.
func Batches[T any](items []T, size int) iter.Seq2[int, []T] {
	return func(yield func(int, []T) bool) {
		if len(items) == 0 {
			return
		}
		step := size
		if step <= 0 {
			step = len(items)
		}
		for n, start := 0, 0; start < len(items); n, start = n+1, start+step {
			end := min(start+step, len(items))
			if !yield(n, items[start:end:end]) {
				return
			}
		}
	}
}

// Count returns the number of batches Batches yields for n items.
func Count(n, size int) int {
	if n <= 0 {
		return 0
	}
	if size <= 0 {
		return 1
	}
	return (n + size - 1) / size
}
