// Package srcmap correlates compiled EVM bytecode with the source text it
// was compiled from. Bytecode is handled as a hex-digit string, two
// characters per byte, so every offset and length in this package is in
// hex characters unless a name says otherwise.
package srcmap

import (
	"fmt"
	"log/slog"
)

// RawEntry is a single source map entry as emitted by the compiler for one
// region. Offsets are in bytes relative to that region's bytecode.
type RawEntry struct {
	PC           int    `json:"programCounter"`
	ByteLength   int    `json:"byteLength"`
	SourceStart  int    `json:"sourceStart"`
	SourceLength int    `json:"sourceLength"`
	Description  string `json:"description,omitempty"`
}

// Entry is a RawEntry converted to hex-character units. Entries are only
// ever produced by Normalize so that byte offsets cannot be mistaken for
// character offsets.
type Entry struct {
	CharOffset  int
	CharLength  int
	SourceStart int
	SourceEnd   int
	Description string
}

// InvalidEntryError reports a raw entry with a negative or otherwise
// malformed field. Such entries are a contract violation by the compiler.
type InvalidEntryError struct {
	Field string
	Value int
}

func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("invalid source map entry: %s = %d", e.Field, e.Value)
}

// Normalize converts a raw byte-oriented entry to hex-character units.
func Normalize(raw RawEntry) (Entry, error) {
	switch {
	case raw.PC < 0:
		return Entry{}, &InvalidEntryError{Field: "programCounter", Value: raw.PC}
	case raw.ByteLength <= 0:
		return Entry{}, &InvalidEntryError{Field: "byteLength", Value: raw.ByteLength}
	case raw.SourceStart < 0:
		return Entry{}, &InvalidEntryError{Field: "sourceStart", Value: raw.SourceStart}
	case raw.SourceLength < 0:
		return Entry{}, &InvalidEntryError{Field: "sourceLength", Value: raw.SourceLength}
	}

	return Entry{
		CharOffset:  raw.PC * 2,
		CharLength:  raw.ByteLength * 2,
		SourceStart: raw.SourceStart,
		SourceEnd:   raw.SourceStart + raw.SourceLength,
		Description: raw.Description,
	}, nil
}

// NormalizeAll converts raw entries, dropping malformed ones with a warning
// instead of failing the whole map.
func NormalizeAll(raws []RawEntry, logger *slog.Logger) []Entry {
	if logger == nil {
		logger = slog.Default()
	}

	entries := make([]Entry, 0, len(raws))
	for i, raw := range raws {
		entry, err := Normalize(raw)
		if err != nil {
			logger.Warn("dropping source map entry", "index", i, "err", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// Stitch concatenates the constructor-region map and the runtime-region map
// into a single offset space. initLen is the constructor bytecode length in
// hex characters; runtime entries are shifted past it. With no constructor
// region the runtime map passes through unchanged.
func Stitch(initLen int, init, runtime []Entry) []Entry {
	unified := make([]Entry, 0, len(init)+len(runtime))
	unified = append(unified, init...)
	for _, entry := range runtime {
		entry.CharOffset += initLen
		unified = append(unified, entry)
	}
	return unified
}
