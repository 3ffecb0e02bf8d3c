package editor

import (
	"log/slog"

	"loov.dev/evmlens/internal/solc"
	"loov.dev/evmlens/internal/srcmap"
)

// DisplayMode selects which bytecode a session view shows.
type DisplayMode int

const (
	// ModeCreation shows the deployment bytecode: constructor region
	// followed by the runtime region, both maps stitched together.
	ModeCreation DisplayMode = iota
	// ModeRuntime shows only the runtime bytecode, offsets from zero.
	ModeRuntime
)

func (m DisplayMode) String() string {
	switch m {
	case ModeCreation:
		return "creation"
	case ModeRuntime:
		return "runtime"
	default:
		return "unknown"
	}
}

// ParseDisplayMode maps a mode name to its DisplayMode, defaulting to
// creation.
func ParseDisplayMode(s string) DisplayMode {
	if s == "runtime" {
		return ModeRuntime
	}
	return ModeCreation
}

// Session owns the state derived from the latest accepted compilation: the
// per-mode segment views and the hover highlight. Segment views are
// recomputed from scratch when a new result arrives and cached per display
// mode until then.
type Session struct {
	hover *HoverController
	log   *slog.Logger

	result   *solc.Result
	segments map[DisplayMode][]srcmap.Segment
}

func NewSession(editor Editor, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		hover:    NewHoverController(editor),
		log:      logger,
		segments: map[DisplayMode][]srcmap.Segment{},
	}
}

// SetResult installs a new compilation result, drops every cached segment
// view and clears the hover highlight.
func (s *Session) SetResult(res *solc.Result) {
	s.result = res
	s.segments = map[DisplayMode][]srcmap.Segment{}
	s.hover.Clear()
}

// Result returns the latest accepted compilation result, or nil.
func (s *Session) Result() *solc.Result { return s.result }

// Bytecode returns the bytecode shown in the given mode.
func (s *Session) Bytecode(mode DisplayMode) string {
	if s.result == nil || !s.result.Success {
		return ""
	}
	if mode == ModeRuntime {
		return s.result.RuntimeBytecode
	}
	return s.result.Bytecode
}

// Segments returns the covering segmentation for the given mode, building
// and caching it on first use.
func (s *Session) Segments(mode DisplayMode) []srcmap.Segment {
	if segs, ok := s.segments[mode]; ok {
		return segs
	}
	if s.result == nil || !s.result.Success {
		return nil
	}

	runtime := srcmap.NormalizeAll(s.result.RuntimeMap, s.log)

	var unified []srcmap.Entry
	bytecode := s.Bytecode(mode)
	switch mode {
	case ModeRuntime:
		unified = srcmap.Stitch(0, nil, runtime)
	default:
		constructor := srcmap.NormalizeAll(s.result.ConstructorMap, s.log)
		// The runtime region sits at the tail of the deployment
		// bytecode; everything before it is the constructor region.
		initLen := len(s.result.Bytecode) - len(s.result.RuntimeBytecode)
		if initLen < 0 {
			initLen = 0
		}
		unified = srcmap.Stitch(initLen, constructor, runtime)
	}

	segs := srcmap.Segments(unified, bytecode, s.log)
	s.segments[mode] = segs
	return segs
}

// Segment returns the indexed segment of a mode's view, or nil when the
// index is out of range.
func (s *Session) Segment(mode DisplayMode, index int) *srcmap.Segment {
	segs := s.Segments(mode)
	if index < 0 || index >= len(segs) {
		return nil
	}
	return &segs[index]
}

// Hover forwards a hovered segment index to the highlight controller. An
// out-of-range index clears the highlight.
func (s *Session) Hover(mode DisplayMode, index int) {
	s.hover.HoverSegment(s.Segment(mode, index))
}
