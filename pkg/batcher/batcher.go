// Package batcher plans fixed-size batches over inclusive height ranges.
package batcher

import (
	"errors"
	"fmt"
)

// ErrZeroSize is returned when a batch size of zero is requested.
var ErrZeroSize = errors.New("batch size must be positive")

// Range is an inclusive run of heights.
type Range struct {
	From uint64
	To   uint64
}

// Len returns the number of heights covered by the range.
func (r Range) Len() uint64 {
	return r.To - r.From + 1
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d]", r.From, r.To)
}

// Count returns how many batches Split would produce for [from, to].
func Count(from, to, size uint64) uint64 {
	if size == 0 || from > to {
		return 0
	}
	n := to - from
	return n/size + 1
}

// Split cuts [from, to] into contiguous, non-overlapping ranges of at most size
// heights, in ascending order. Only the last range may be shorter than size.
func Split(from, to, size uint64) ([]Range, error) {
	if size == 0 {
		return nil, ErrZeroSize
	}
	if from > to {
		return nil, nil
	}

	ranges := make([]Range, 0, Count(from, to, size))
	for start := from; ; {
		end := start + size - 1
		if end < start || end > to {
			end = to
		}
		ranges = append(ranges, Range{From: start, To: end})
		if end == to {
			return ranges, nil
		}
		start = end + 1
	}
}
