package editor

import "loov.dev/evmlens/internal/srcmap"

// HoverController links a hovered bytecode segment to a highlight in the
// source text. It owns the single active decoration: clearing always
// happens before applying, so a stale highlight can never linger.
type HoverController struct {
	editor Editor
	active Handle
}

func NewHoverController(editor Editor) *HoverController {
	return &HoverController{editor: editor}
}

// HoverSegment highlights the source range of a mapped segment and scrolls
// it into view. A nil or unmapped segment, or one whose offsets fall
// outside the current text, just clears the highlight.
func (h *HoverController) HoverSegment(seg *srcmap.Segment) {
	h.Clear()
	if seg == nil || !seg.Mapped {
		return
	}

	ix := NewTextIndex(h.editor.Text())
	r, ok := ix.Range(seg.SourceStart, seg.SourceEnd)
	if !ok {
		return
	}

	h.active = h.editor.ApplyHighlight(r)
	h.editor.RevealRange(r)
}

// Clear removes the active decoration, if any.
func (h *HoverController) Clear() {
	if h.active != 0 {
		h.editor.ClearHighlight(h.active)
		h.active = 0
	}
}
