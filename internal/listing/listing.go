// Package listing builds the displayable view of one compiled bytecode: the
// covering segments with their instruction spans, and the source excerpts
// they were compiled from with back-references from each source line to the
// segments it produced.
package listing

import (
	"strings"

	"loov.dev/evmlens/internal/editor"
	"loov.dev/evmlens/internal/evmasm"
	"loov.dev/evmlens/internal/srcmap"
)

// Segment is a srcmap segment annotated with its instruction spans and the
// source lines it maps to.
type Segment struct {
	srcmap.Segment
	Spans []evmasm.Span
	Lines []LineRange // source line ranges, empty when unmapped
}

// Block is a run of source lines shown together, with context.
type Block struct {
	LineRange
	Lines   []string
	Related [][]LineRange // for each line, segment index ranges
}

// Listing is the full annotated view.
type Listing struct {
	Segments []Segment
	Blocks   []Block
}

// Build assembles a listing. The whole bytecode is tokenized first and the
// spans re-sliced per segment, so a push operand crossing a segment
// boundary keeps its immediate-data classification on both sides. context
// is the number of extra source lines shown around mapped ones.
func Build(source, bytecode string, segs []srcmap.Segment, context int) *Listing {
	spans := evmasm.ScanAll(bytecode)
	ix := editor.NewTextIndex(source)

	out := &Listing{}
	needed := &LineSet{}
	lineRefs := map[int]*LineSet{}

	for i, seg := range segs {
		annotated := Segment{
			Segment: seg,
			Spans:   evmasm.Reslice(spans, seg.Offset, len(seg.Bytes)),
		}

		if seg.Mapped && seg.SourceStart <= ix.Len() {
			from := ix.Position(seg.SourceStart).Line
			last := seg.SourceEnd - 1
			if last < seg.SourceStart {
				last = seg.SourceStart
			}
			to := ix.Position(last).Line

			lines := &LineSet{}
			for line := from; line <= to; line++ {
				lines.Add(line)
				needed.Add(line)
				refs, ok := lineRefs[line]
				if !ok {
					refs = &LineSet{}
					lineRefs[line] = refs
				}
				refs.Add(i)
			}
			annotated.Lines = lines.RangesZero()
		}

		out.Segments = append(out.Segments, annotated)
	}

	sourceLines := strings.Split(source, "\n")
	for _, r := range needed.Ranges(context) {
		to := r.To - 1
		if to > len(sourceLines) {
			to = len(sourceLines)
		}
		if r.From > to {
			continue
		}
		block := Block{
			LineRange: LineRange{From: r.From, To: to + 1},
			Lines:     make([]string, 0, to-r.From+1),
		}
		for line := r.From; line <= to; line++ {
			block.Lines = append(block.Lines, strings.Replace(sourceLines[line-1], "\t", "    ", -1))
			if refs, ok := lineRefs[line]; ok {
				block.Related = append(block.Related, refs.RangesZero())
			} else {
				block.Related = append(block.Related, nil)
			}
		}
		out.Blocks = append(out.Blocks, block)
	}

	return out
}
