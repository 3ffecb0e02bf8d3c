package editor

import "strings"

// TextIndex resolves character offsets in a fixed text snapshot to
// positions. Build a fresh index whenever the text changes.
type TextIndex struct {
	text       string
	lineStarts []int
}

func NewTextIndex(text string) *TextIndex {
	ix := &TextIndex{text: text, lineStarts: []int{0}}
	for off := 0; ; {
		nl := strings.IndexByte(text[off:], '\n')
		if nl < 0 {
			break
		}
		off += nl + 1
		ix.lineStarts = append(ix.lineStarts, off)
	}
	return ix
}

func (ix *TextIndex) Len() int { return len(ix.text) }

// Position converts a character offset to a 1-based position. Offsets are
// clamped to the text.
func (ix *TextIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(ix.text) {
		offset = len(ix.text)
	}

	// Last line start at or before offset.
	lo, hi := 0, len(ix.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if ix.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Position{Line: lo + 1, Column: offset - ix.lineStarts[lo] + 1}
}

// Range converts a character offset range to positions. It reports false
// when the offsets do not describe a usable range in this text.
func (ix *TextIndex) Range(start, end int) (Range, bool) {
	if start < 0 || end < start || start > len(ix.text) {
		return Range{}, false
	}
	if end > len(ix.text) {
		end = len(ix.text)
	}
	return Range{Start: ix.Position(start), End: ix.Position(end)}, true
}
