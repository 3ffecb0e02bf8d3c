// Package evmasm tokenizes EVM bytecode, given as a hex string, into
// instruction and immediate-data spans. Push instructions embed their
// operand bytes directly in the code, so the byte stream cannot be
// rendered byte-by-byte without classifying those runs first.
package evmasm

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/core/vm"
)

// Kind tells whether a span is an instruction byte or immediate data.
type Kind uint8

const (
	Instruction Kind = iota
	Immediate
)

// Span is one run of hex characters with a single classification. An
// Instruction span is always one byte; an Immediate span covers the operand
// bytes of the push instruction in Op, possibly truncated by the end of the
// scanned window.
type Span struct {
	Offset int // hex-character offset into the scanned string
	Kind   Kind
	Op     vm.OpCode // the instruction, or the push an immediate belongs to
	Bytes  string    // hex characters
}

// End returns the character offset just past the span.
func (s Span) End() int { return s.Offset + len(s.Bytes) }

func (s Span) String() string {
	if s.Kind == Immediate {
		return "0x" + s.Bytes
	}
	return s.Op.String()
}

// Scanner walks a hex string one span at a time.
//
//	sc := evmasm.NewScanner(code)
//	for sc.Scan() {
//		span := sc.Span()
//		...
//	}
type Scanner struct {
	code    string
	pos     int
	cur     Span
	pending *Span // immediate run of the push just scanned
}

func NewScanner(code string) *Scanner {
	return &Scanner{code: code}
}

// Scan advances to the next span. It returns false once the input is
// exhausted.
func (sc *Scanner) Scan() bool {
	if sc.pending != nil {
		sc.cur = *sc.pending
		sc.pending = nil
		return true
	}
	if sc.pos >= len(sc.code) {
		return false
	}
	if sc.pos+2 > len(sc.code) {
		// Dangling hex digit. Render it as data so the caller still
		// accounts for every character.
		sc.cur = Span{Offset: sc.pos, Kind: Immediate, Bytes: sc.code[sc.pos:]}
		sc.pos = len(sc.code)
		return true
	}

	start := sc.pos
	b, err := strconv.ParseUint(sc.code[start:start+2], 16, 8)
	if err != nil {
		// Not valid hex. Same degradation as above.
		sc.cur = Span{Offset: start, Kind: Immediate, Bytes: sc.code[start : start+2]}
		sc.pos = start + 2
		return true
	}

	op := vm.OpCode(b)
	sc.cur = Span{Offset: start, Kind: Instruction, Op: op, Bytes: sc.code[start : start+2]}
	sc.pos = start + 2

	// PUSH0 carries no operand, so only PUSH1..PUSH32 consume data bytes.
	if op >= vm.PUSH1 && op <= vm.PUSH32 {
		n := int(op-vm.PUSH1) + 1
		end := sc.pos + n*2
		if end > len(sc.code) {
			// Truncated push operand. A rendering degradation, not an
			// error: the window simply ends mid-instruction.
			end = len(sc.code)
		}
		if end > sc.pos {
			sc.pending = &Span{Offset: sc.pos, Kind: Immediate, Op: op, Bytes: sc.code[sc.pos:end]}
			sc.pos = end
		}
	}
	return true
}

// Span returns the current span.
func (sc *Scanner) Span() Span { return sc.cur }

// ScanAll tokenizes the whole input eagerly.
func ScanAll(code string) []Span {
	var spans []Span
	sc := NewScanner(code)
	for sc.Scan() {
		spans = append(spans, sc.Span())
	}
	return spans
}

// Reslice clips spans to the window [offset, offset+length). Spans crossing
// the window edge are split; classification is untouched, so a push operand
// straddling a segment boundary stays immediate data on both sides.
func Reslice(spans []Span, offset, length int) []Span {
	end := offset + length
	var out []Span
	for _, span := range spans {
		if span.End() <= offset || span.Offset >= end {
			continue
		}
		from, to := span.Offset, span.End()
		if from < offset {
			from = offset
		}
		if to > end {
			to = end
		}
		clipped := span
		clipped.Bytes = span.Bytes[from-span.Offset : to-span.Offset]
		clipped.Offset = from
		out = append(out, clipped)
	}
	return out
}

// Format renders a span list the way a disassembly listing would, one
// instruction with its operand per element.
func Format(spans []Span) []string {
	var out []string
	for _, span := range spans {
		switch span.Kind {
		case Instruction:
			out = append(out, span.Op.String())
		case Immediate:
			out = append(out, fmt.Sprintf("0x%s", span.Bytes))
		}
	}
	return out
}
