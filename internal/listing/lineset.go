package listing

import (
	"sort"

	"golang.org/x/exp/slices"
)

// LineRange is a half-open range. It is used both for source line numbers
// and for segment index ranges in Block.Related.
type LineRange struct{ From, To int }

// Contains reports whether v is inside the range.
func (r LineRange) Contains(v int) bool { return r.From <= v && v < r.To }

// LineSet is a sorted set of line numbers.
type LineSet struct {
	list []int
}

// Add inserts line keeping the set sorted.
func (rs *LineSet) Add(line int) {
	if len(rs.list) == 0 {
		rs.list = append(rs.list, line)
		return
	}
	at := sort.SearchInts(rs.list, line)
	if at >= len(rs.list) {
		rs.list = append(rs.list, line)
	} else if rs.list[at] != line {
		rs.list = slices.Insert(rs.list, at, line)
	}
}

// Ranges merges the set into ranges, expanding each line by context lines
// on both sides. Touching ranges coalesce.
func (rs *LineSet) Ranges(context int) []LineRange {
	if len(rs.list) == 0 {
		return nil
	}

	var all []LineRange

	current := LineRange{From: rs.list[0] - context, To: rs.list[0] + context + 1}
	if current.From < 1 {
		current.From = 1
	}
	for _, line := range rs.list {
		if line-context <= current.To {
			current.To = line + context + 1
		} else {
			all = append(all, current)
			current = LineRange{From: line - context, To: line + context + 1}
		}
	}
	all = append(all, current)

	return all
}

// RangesZero merges the set into ranges without context expansion.
func (rs *LineSet) RangesZero() []LineRange {
	if len(rs.list) == 0 {
		return nil
	}

	var all []LineRange

	current := LineRange{From: rs.list[0], To: rs.list[0] + 1}
	for _, line := range rs.list {
		if line <= current.To {
			current.To = line + 1
		} else {
			all = append(all, current)
			current = LineRange{From: line, To: line + 1}
		}
	}
	all = append(all, current)

	return all
}
