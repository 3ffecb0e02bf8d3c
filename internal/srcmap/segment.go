package srcmap

import (
	"log/slog"
	"sort"
)

// Segment is a maximal run of bytecode characters sharing one mapping
// status. A mapped segment carries the source character range it was
// compiled from; an unmapped segment fills a gap the compiler said nothing
// about.
type Segment struct {
	Offset      int
	Bytes       string
	Mapped      bool
	SourceStart int
	SourceEnd   int
	Description string
}

// End returns the character offset just past the segment.
func (s Segment) End() int { return s.Offset + len(s.Bytes) }

// Segments builds the full covering segmentation of bytecode from entries.
// The result is sorted by offset, non-overlapping and contiguous, and the
// concatenated Bytes of all segments reproduce bytecode exactly. Entries
// may arrive unordered; overlapping or overlong entries are clamped with a
// warning rather than dropped.
func Segments(entries []Entry, bytecode string, logger *slog.Logger) []Segment {
	if logger == nil {
		logger = slog.Default()
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, k int) bool {
		return sorted[i].CharOffset < sorted[k].CharOffset
	})

	var segs []Segment
	cursor := 0
	for _, entry := range sorted {
		start, end := entry.CharOffset, entry.CharOffset+entry.CharLength
		if start < cursor {
			// Overlap with the previous entry. Keep the part the cursor
			// has not covered yet.
			logger.Warn("overlapping source map entries",
				"offset", start, "cursor", cursor)
			start = cursor
		}
		if end > len(bytecode) {
			logger.Warn("source map entry past end of bytecode",
				"end", end, "bytecode", len(bytecode))
			end = len(bytecode)
		}
		if start >= end {
			continue
		}
		if start > cursor {
			segs = append(segs, Segment{
				Offset: cursor,
				Bytes:  bytecode[cursor:start],
			})
		}
		segs = append(segs, Segment{
			Offset:      start,
			Bytes:       bytecode[start:end],
			Mapped:      true,
			SourceStart: entry.SourceStart,
			SourceEnd:   entry.SourceEnd,
			Description: entry.Description,
		})
		cursor = end
	}

	if cursor < len(bytecode) {
		segs = append(segs, Segment{
			Offset: cursor,
			Bytes:  bytecode[cursor:],
		})
	}
	return segs
}
