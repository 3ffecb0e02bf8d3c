package srcmap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	entry, err := Normalize(RawEntry{PC: 3, ByteLength: 2, SourceStart: 10, SourceLength: 5})
	require.NoError(t, err)
	assert.Equal(t, 6, entry.CharOffset)
	assert.Equal(t, 4, entry.CharLength)
	assert.Equal(t, 10, entry.SourceStart)
	assert.Equal(t, 15, entry.SourceEnd)
}

func TestNormalize_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		raw   RawEntry
		field string
	}{
		{"negative pc", RawEntry{PC: -1, ByteLength: 1}, "programCounter"},
		{"zero length", RawEntry{PC: 0, ByteLength: 0}, "byteLength"},
		{"negative length", RawEntry{PC: 0, ByteLength: -2}, "byteLength"},
		{"negative source start", RawEntry{PC: 0, ByteLength: 1, SourceStart: -4}, "sourceStart"},
		{"negative source length", RawEntry{PC: 0, ByteLength: 1, SourceLength: -1}, "sourceLength"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw)
			require.Error(t, err)
			var invalid *InvalidEntryError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestNormalizeAll_DropsInvalid(t *testing.T) {
	entries := NormalizeAll([]RawEntry{
		{PC: 0, ByteLength: 1, SourceStart: 0, SourceLength: 2},
		{PC: -5, ByteLength: 1},
		{PC: 2, ByteLength: 3, SourceStart: 7, SourceLength: 1},
	}, nil)
	require.Len(t, entries, 2)
	assert.Equal(t, 0, entries[0].CharOffset)
	assert.Equal(t, 4, entries[1].CharOffset)
}

func TestStitch(t *testing.T) {
	init := []Entry{{CharOffset: 0, CharLength: 8}}
	runtime := []Entry{{CharOffset: 4, CharLength: 2}}

	unified := Stitch(20, init, runtime)
	require.Len(t, unified, 2)
	assert.Equal(t, 0, unified[0].CharOffset)
	assert.Equal(t, 24, unified[1].CharOffset)
}

func TestStitch_RuntimeOnly(t *testing.T) {
	runtime := []Entry{{CharOffset: 4, CharLength: 2}}
	unified := Stitch(0, nil, runtime)
	require.Len(t, unified, 1)
	assert.Equal(t, 4, unified[0].CharOffset)
}

// checkCovering verifies the core segmentation invariant: ordered,
// contiguous, and reproducing the bytecode exactly.
func checkCovering(t *testing.T, segs []Segment, bytecode string) {
	t.Helper()
	var sb strings.Builder
	cursor := 0
	for _, seg := range segs {
		assert.Equal(t, cursor, seg.Offset)
		sb.WriteString(seg.Bytes)
		cursor = seg.End()
		if seg.Mapped {
			assert.LessOrEqual(t, seg.SourceStart, seg.SourceEnd)
		}
	}
	assert.Equal(t, bytecode, sb.String())
}

func TestSegments_EmptyMap(t *testing.T) {
	segs := Segments(nil, "6001600201", nil)
	require.Len(t, segs, 1)
	assert.False(t, segs[0].Mapped)
	assert.Equal(t, "6001600201", segs[0].Bytes)
	checkCovering(t, segs, "6001600201")
}

func TestSegments_GapFilling(t *testing.T) {
	bytecode := "00112233445566778899"
	entries := []Entry{
		{CharOffset: 4, CharLength: 4, SourceStart: 1, SourceEnd: 3},
		{CharOffset: 12, CharLength: 2, SourceStart: 5, SourceEnd: 9},
	}

	segs := Segments(entries, bytecode, nil)
	require.Len(t, segs, 5)

	assert.False(t, segs[0].Mapped)
	assert.Equal(t, "0011", segs[0].Bytes)
	assert.True(t, segs[1].Mapped)
	assert.Equal(t, "2233", segs[1].Bytes)
	assert.False(t, segs[2].Mapped)
	assert.Equal(t, "4455", segs[2].Bytes)
	assert.True(t, segs[3].Mapped)
	assert.Equal(t, "66", segs[3].Bytes)
	assert.False(t, segs[4].Mapped)
	assert.Equal(t, "778899", segs[4].Bytes)

	checkCovering(t, segs, bytecode)
}

func TestSegments_UnorderedInput(t *testing.T) {
	bytecode := "aabbccdd"
	entries := []Entry{
		{CharOffset: 4, CharLength: 4, SourceStart: 9, SourceEnd: 9},
		{CharOffset: 0, CharLength: 4, SourceStart: 0, SourceEnd: 4},
	}

	segs := Segments(entries, bytecode, nil)
	require.Len(t, segs, 2)
	assert.Equal(t, "aabb", segs[0].Bytes)
	assert.Equal(t, "ccdd", segs[1].Bytes)
	checkCovering(t, segs, bytecode)
}

func TestSegments_OverlapClamped(t *testing.T) {
	bytecode := "aabbccdd"
	entries := []Entry{
		{CharOffset: 0, CharLength: 6, SourceStart: 0, SourceEnd: 1},
		{CharOffset: 4, CharLength: 4, SourceStart: 2, SourceEnd: 3},
	}

	segs := Segments(entries, bytecode, nil)
	require.Len(t, segs, 2)
	assert.Equal(t, "aabbcc", segs[0].Bytes)
	// The second entry keeps only the part past the first one.
	assert.Equal(t, "dd", segs[1].Bytes)
	assert.True(t, segs[1].Mapped)
	checkCovering(t, segs, bytecode)
}

func TestSegments_EntryFullyCovered(t *testing.T) {
	bytecode := "aabbccdd"
	entries := []Entry{
		{CharOffset: 0, CharLength: 8, SourceStart: 0, SourceEnd: 1},
		{CharOffset: 2, CharLength: 2, SourceStart: 2, SourceEnd: 3},
	}

	segs := Segments(entries, bytecode, nil)
	require.Len(t, segs, 1)
	checkCovering(t, segs, bytecode)
}

func TestSegments_EntryPastEnd(t *testing.T) {
	bytecode := "aabb"
	entries := []Entry{{CharOffset: 2, CharLength: 10, SourceStart: 0, SourceEnd: 1}}

	segs := Segments(entries, bytecode, nil)
	require.Len(t, segs, 2)
	assert.Equal(t, "bb", segs[1].Bytes)
	checkCovering(t, segs, bytecode)
}

func TestSegments_Idempotent(t *testing.T) {
	bytecode := "00112233445566778899"
	entries := []Entry{
		{CharOffset: 12, CharLength: 2, SourceStart: 5, SourceEnd: 9},
		{CharOffset: 4, CharLength: 4, SourceStart: 1, SourceEnd: 3},
	}

	first := Segments(entries, bytecode, nil)
	second := Segments(entries, bytecode, nil)
	assert.Equal(t, first, second)
}
