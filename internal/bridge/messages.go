package bridge

import (
	"loov.dev/evmlens/internal/editor"
	"loov.dev/evmlens/internal/evmasm"
	"loov.dev/evmlens/internal/listing"
)

// Protocol version sent in the ready message.
const Version = "1.0.0"

// Inbound is a client→server message.
//
//	open    — Name, Files: start a session, compile once
//	change  — Text: full replacement of the entry file's text
//	auto    — On: toggle automatic recompilation
//	compile — explicit compile of the latest text
//	mode    — Mode: "creation" or "runtime"
//	hover   — Segment: hovered segment index, -1 for none
type Inbound struct {
	Type    string            `json:"type"`
	Name    string            `json:"name,omitempty"`
	Files   map[string]string `json:"files,omitempty"`
	Text    string            `json:"text,omitempty"`
	On      bool              `json:"on,omitempty"`
	Mode    string            `json:"mode,omitempty"`
	Segment int               `json:"segment,omitempty"`
}

// Outbound is a server→client message.
//
//	ready     — Version
//	compiled  — Seq, Success, Errors or Mode+Segments
//	highlight — Range
//	clear     — (no payload)
//	reveal    — Range
//	error     — Message
type Outbound struct {
	Type     string        `json:"type"`
	Version  string        `json:"version,omitempty"`
	Seq      uint64        `json:"seq,omitempty"`
	Success  bool          `json:"success,omitempty"`
	Errors   []string      `json:"errors,omitempty"`
	Mode     string        `json:"mode,omitempty"`
	Segments []SegmentJSON `json:"segments,omitempty"`
	Range    *editor.Range `json:"range,omitempty"`
	Message  string        `json:"message,omitempty"`
}

// SegmentJSON is one covering segment with its rendered spans.
type SegmentJSON struct {
	Offset      int        `json:"offset"`
	Bytes       string     `json:"bytes"`
	Mapped      bool       `json:"mapped"`
	SourceStart int        `json:"sourceStart,omitempty"`
	SourceEnd   int        `json:"sourceEnd,omitempty"`
	Description string     `json:"description,omitempty"`
	Spans       []SpanJSON `json:"spans,omitempty"`
}

// SpanJSON is one instruction or immediate-data run inside a segment.
type SpanJSON struct {
	Kind  string `json:"kind"`
	Op    string `json:"op,omitempty"`
	Bytes string `json:"bytes"`
}

func segmentsJSON(l *listing.Listing) []SegmentJSON {
	out := make([]SegmentJSON, 0, len(l.Segments))
	for _, seg := range l.Segments {
		sj := SegmentJSON{
			Offset:      seg.Offset,
			Bytes:       seg.Bytes,
			Mapped:      seg.Mapped,
			Description: seg.Description,
		}
		if seg.Mapped {
			sj.SourceStart = seg.SourceStart
			sj.SourceEnd = seg.SourceEnd
		}
		for _, span := range seg.Spans {
			switch span.Kind {
			case evmasm.Instruction:
				sj.Spans = append(sj.Spans, SpanJSON{Kind: "instruction", Op: span.Op.String(), Bytes: span.Bytes})
			case evmasm.Immediate:
				sj.Spans = append(sj.Spans, SpanJSON{Kind: "immediate", Bytes: span.Bytes})
			}
		}
		out = append(out, sj)
	}
	return out
}
