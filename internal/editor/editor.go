// Package editor is the boundary to the host text editor and the
// controllers that drive it: hover-to-highlight correlation and debounced
// recompilation. The editor widget itself lives outside this program; it is
// reached only through the Editor interface.
package editor

// Position is a 1-based line and column in the source text.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range is a half-open [Start, End) position range.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Handle identifies one applied highlight decoration. The zero Handle is
// never returned by ApplyHighlight.
type Handle int

// Editor is what the host editor must provide.
type Editor interface {
	// Text returns the full current source text.
	Text() string
	// ApplyHighlight decorates the range and returns a handle for removal.
	ApplyHighlight(Range) Handle
	// ClearHighlight removes a previously applied decoration.
	ClearHighlight(Handle)
	// RevealRange scrolls the range into view.
	RevealRange(Range)
}
