package richtext

import (
	"fmt"
)

// Segment partitions st into maximal runs of uniform link and style.
//
// The returned runs are contiguous, non-overlapping, and cover
// [0, st.Len()) exactly; no two adjacent runs carry a value-equal
// (link, style) tuple. An empty text yields an empty sequence.
//
// Each position's attributes are read exactly once, so the cost stays
// linear even when the adapter's per-position lookup is not free.
func Segment(st StyledText) ([]Run, error) {
	n := st.Len()
	runs := []Run{}
	if n == 0 {
		return runs, nil
	}

	curStyle, err := st.StyleAt(0)
	if err != nil {
		return nil, fmt.Errorf("segment position 0: %w", err)
	}
	curLink, err := st.LinkAt(0)
	if err != nil {
		return nil, fmt.Errorf("segment position 0: %w", err)
	}

	start := 0
	for i := 1; i < n; i++ {
		style, err := st.StyleAt(i)
		if err != nil {
			return nil, fmt.Errorf("segment position %d: %w", i, err)
		}
		link, err := st.LinkAt(i)
		if err != nil {
			return nil, fmt.Errorf("segment position %d: %w", i, err)
		}

		if style == curStyle && link == curLink {
			continue
		}

		runs = append(runs, Run{Start: start, End: i, Link: curLink, Style: curStyle})
		start, curStyle, curLink = i, style, link
	}

	runs = append(runs, Run{Start: start, End: n, Link: curLink, Style: curStyle})
	return runs, nil
}
