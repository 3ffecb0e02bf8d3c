package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"loov.dev/evmlens/internal/evmasm"
	"loov.dev/evmlens/internal/listing"
)

var (
	opcodeColor    = color.New(color.FgGreen, color.Bold)
	immediateColor = color.New(color.FgCyan)
	unmappedColor  = color.New(color.Faint)
	headerColor    = color.New(color.Bold)
	errorColor     = color.New(color.FgRed)
	gutterColor    = color.New(color.FgYellow)
)

// renderListing writes the annotated bytecode followed by the source
// excerpts it maps to.
func renderListing(w io.Writer, l *listing.Listing, mode string) {
	headerColor.Fprintf(w, "%s bytecode\n", mode)

	for i, seg := range l.Segments {
		byteOffset := seg.Offset / 2
		if seg.Mapped {
			where := fmt.Sprintf("source %d..%d", seg.SourceStart, seg.SourceEnd)
			if seg.Description != "" {
				where += " " + seg.Description
			}
			fmt.Fprintf(w, "  [%d] 0x%04x  %s\n", i, byteOffset, where)
		} else {
			fmt.Fprintf(w, "  [%d] 0x%04x  %s\n", i, byteOffset, unmappedColor.Sprint("unmapped"))
		}
		fmt.Fprintf(w, "      %s\n", renderSpans(seg.Spans))
	}

	for _, block := range l.Blocks {
		fmt.Fprintln(w)
		for i, line := range block.Lines {
			lineNo := block.From + i
			marker := " "
			if len(block.Related[i]) > 0 {
				marker = gutterColor.Sprint("●")
			}
			fmt.Fprintf(w, "  %4d %s %s", lineNo, marker, line)
			if refs := block.Related[i]; len(refs) > 0 {
				fmt.Fprintf(w, "  %s", unmappedColor.Sprint(formatRefs(refs)))
			}
			fmt.Fprintln(w)
		}
	}
}

func renderSpans(spans []evmasm.Span) string {
	var parts []string
	for _, span := range spans {
		switch span.Kind {
		case evmasm.Instruction:
			parts = append(parts, opcodeColor.Sprint(span.Op.String()))
		case evmasm.Immediate:
			parts = append(parts, immediateColor.Sprintf("0x%s", span.Bytes))
		}
	}
	return strings.Join(parts, " ")
}

// formatRefs renders segment index ranges like "[0] [2-4]".
func formatRefs(refs []listing.LineRange) string {
	var parts []string
	for _, r := range refs {
		if r.To-r.From == 1 {
			parts = append(parts, fmt.Sprintf("[%d]", r.From))
		} else {
			parts = append(parts, fmt.Sprintf("[%d-%d]", r.From, r.To-1))
		}
	}
	return strings.Join(parts, " ")
}

func renderErrors(w io.Writer, errs []string) {
	for _, e := range errs {
		errorColor.Fprintln(w, e)
	}
}
