package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loov.dev/evmlens/internal/evmasm"
	"loov.dev/evmlens/internal/srcmap"
)

func TestLineSet(t *testing.T) {
	set := &LineSet{}
	for _, line := range []int{7, 3, 5, 3, 4} {
		set.Add(line)
	}

	assert.Equal(t, []LineRange{{From: 3, To: 6}, {From: 7, To: 8}}, set.RangesZero())
	assert.Equal(t, []LineRange{{From: 2, To: 9}}, set.Ranges(1))
	assert.Equal(t, []LineRange{{From: 1, To: 11}}, set.Ranges(3))
}

func TestLineSet_Empty(t *testing.T) {
	set := &LineSet{}
	assert.Nil(t, set.Ranges(2))
	assert.Nil(t, set.RangesZero())
}

func TestBuild(t *testing.T) {
	source := "line one\nline two\nline three\nline four\nline five"
	// PUSH1 01 mapped to "line two", then unmapped ADD.
	bytecode := "600101"
	segs := []srcmap.Segment{
		{Offset: 0, Bytes: "6001", Mapped: true, SourceStart: 9, SourceEnd: 17},
		{Offset: 4, Bytes: "01"},
	}

	l := Build(source, bytecode, segs, 1)
	require.Len(t, l.Segments, 2)

	assert.Equal(t, []string{"PUSH1", "0x01"}, evmasm.Format(l.Segments[0].Spans))
	assert.Equal(t, []LineRange{{From: 2, To: 3}}, l.Segments[0].Lines)
	assert.Equal(t, []string{"ADD"}, evmasm.Format(l.Segments[1].Spans))
	assert.Empty(t, l.Segments[1].Lines)

	require.Len(t, l.Blocks, 1)
	block := l.Blocks[0]
	assert.Equal(t, LineRange{From: 1, To: 4}, block.LineRange)
	assert.Equal(t, []string{"line one", "line two", "line three"}, block.Lines)
	require.Len(t, block.Related, 3)
	assert.Nil(t, block.Related[0])
	assert.Equal(t, []LineRange{{From: 0, To: 1}}, block.Related[1], "line two relates to segment 0")
	assert.Nil(t, block.Related[2])
}

func TestBuild_SplitPushAcrossSegments(t *testing.T) {
	// PUSH3 ffeedd STOP with the map boundary inside the operand.
	bytecode := "62ffeedd00"
	segs := []srcmap.Segment{
		{Offset: 0, Bytes: "62ff", Mapped: true, SourceStart: 0, SourceEnd: 1},
		{Offset: 4, Bytes: "eedd00"},
	}

	l := Build("x", bytecode, segs, 0)
	require.Len(t, l.Segments, 2)

	first := l.Segments[0].Spans
	require.Len(t, first, 2)
	assert.Equal(t, evmasm.Immediate, first[1].Kind)
	assert.Equal(t, "ff", first[1].Bytes)

	second := l.Segments[1].Spans
	require.Len(t, second, 2)
	assert.Equal(t, evmasm.Immediate, second[0].Kind, "operand tail must stay immediate data")
	assert.Equal(t, "eedd", second[0].Bytes)
}

func TestBuild_ContextCoalesces(t *testing.T) {
	source := "a\nb\nc\nd\ne\nf\ng\nh"
	segs := []srcmap.Segment{
		{Offset: 0, Bytes: "60", Mapped: true, SourceStart: 0, SourceEnd: 1},   // line 1
		{Offset: 2, Bytes: "60", Mapped: true, SourceStart: 12, SourceEnd: 13}, // line 7
	}

	far := Build(source, "6060", segs, 1)
	require.Len(t, far.Blocks, 2)

	near := Build(source, "6060", segs, 3)
	require.Len(t, near.Blocks, 1)
}
