// Package window partitions a terminal screen into a binary tree of
// rectangular windows and renders their frames, titles, and contents
// through a term.Controller.
//
// A Window is either a leaf with a character buffer or a split into
// exactly two children along one axis. Splitting an already-split
// window cascades the split into both children, so repeated splits
// grow a grid instead of replacing the existing partition. Draw
// operations recurse through the tree and terminate at leaves; every
// draw is a full redraw.
package window

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidGeometry indicates a window or split was requested with
// dimensions too small to hold a frame and interior.
var ErrInvalidGeometry = errors.New("window: invalid geometry")

// ErrSplitWindow indicates a content operation on a window that has
// been split and therefore has no buffer of its own.
var ErrSplitWindow = errors.New("window: window is split")

// Axis identifies the direction of a split.
type Axis int

const (
	// AxisColumns divides the width: two children side by side.
	AxisColumns Axis = iota
	// AxisRows divides the height: two children stacked.
	AxisRows
)

// String returns the axis name.
func (a Axis) String() string {
	switch a {
	case AxisColumns:
		return "columns"
	case AxisRows:
		return "rows"
	default:
		return "unknown"
	}
}

type split struct {
	axis   Axis
	first  *Window
	second *Window
}

// Window is one node of the layout tree. The rect is fixed at
// construction; the only structural mutation is the one-time
// transition from leaf to split.
type Window struct {
	id     uuid.UUID
	row    int
	col    int
	height int
	width  int
	title  string
	glyphs GlyphSet
	buf    [][]rune
	split  *split
}

// Option configures a Window at construction.
type Option func(*Window)

// WithTitle sets the window title.
func WithTitle(title string) Option {
	return func(w *Window) { w.title = title }
}

// WithGlyphs sets the frame glyph set. Children created by splits
// inherit it.
func WithGlyphs(g GlyphSet) Option {
	return func(w *Window) { w.glyphs = g }
}

// New creates a leaf window at the 1-indexed terminal position
// (row, col) with the given outer dimensions. The interior buffer is
// (height-2) x (width-2); dimensions below 3 leave no interior and
// are rejected.
func New(row, col, height, width int, opts ...Option) (*Window, error) {
	if height < 3 || width < 3 {
		return nil, fmt.Errorf("%w: %dx%d at (%d,%d), need at least 3x3",
			ErrInvalidGeometry, height, width, row, col)
	}
	w := &Window{
		id:     uuid.New(),
		row:    row,
		col:    col,
		height: height,
		width:  width,
		glyphs: LightGlyphs(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.buf = blankBuffer(height-2, width-2)
	return w, nil
}

// Full creates a leaf window covering the whole terminal, sized by
// the given query.
func Full(size func() (rows, cols int, err error), opts ...Option) (*Window, error) {
	rows, cols, err := size()
	if err != nil {
		return nil, fmt.Errorf("window: full-screen size: %w", err)
	}
	return New(1, 1, rows, cols, opts...)
}

func blankBuffer(rows, cols int) [][]rune {
	buf := make([][]rune, rows)
	for i := range buf {
		buf[i] = blankRow(cols)
	}
	return buf
}

func blankRow(cols int) []rune {
	row := make([]rune, cols)
	for i := range row {
		row[i] = ' '
	}
	return row
}

// ID returns the window's identity, assigned at construction.
func (w *Window) ID() uuid.UUID {
	return w.id
}

// Rect returns the window's outer rectangle in terminal coordinates.
func (w *Window) Rect() (row, col, height, width int) {
	return w.row, w.col, w.height, w.width
}

// Title returns the current title.
func (w *Window) Title() string {
	return w.title
}

// SetTitle replaces the title. It takes effect on the next frame
// draw.
func (w *Window) SetTitle(title string) {
	w.title = title
}

// SetGlyphs replaces the frame glyph set recursively. It takes
// effect on the next frame draw.
func (w *Window) SetGlyphs(g GlyphSet) {
	w.glyphs = g
	if w.split != nil {
		w.split.first.SetGlyphs(g)
		w.split.second.SetGlyphs(g)
	}
}

// IsSplit reports whether the window has been partitioned.
func (w *Window) IsSplit() bool {
	return w.split != nil
}

// Clear blanks leaf buffers recursively. Rects and the split
// structure are untouched.
func (w *Window) Clear() {
	if w.split != nil {
		w.split.first.Clear()
		w.split.second.Clear()
		return
	}
	for i := range w.buf {
		for j := range w.buf[i] {
			w.buf[i][j] = ' '
		}
	}
}

// HSplit partitions the window into a left and right child, the left
// taking floor(width*frac) columns. On an already-split window the
// same split recurses into both children, subdividing the existing
// grid. The newly created leaves are returned depth-first.
func (w *Window) HSplit(frac float64) ([]*Window, error) {
	return w.splitBy(frac, AxisColumns)
}

// WSplit partitions the window into a top and bottom child, the top
// taking floor(height*frac) rows. Recursion on split windows matches
// HSplit.
func (w *Window) WSplit(frac float64) ([]*Window, error) {
	return w.splitBy(frac, AxisRows)
}

func (w *Window) splitBy(frac float64, axis Axis) ([]*Window, error) {
	if frac <= 0 || frac >= 1 {
		return nil, fmt.Errorf("%w: split fraction %v outside (0,1)", ErrInvalidGeometry, frac)
	}
	if w.split != nil {
		first, err := w.split.first.splitBy(frac, axis)
		if err != nil {
			return nil, err
		}
		second, err := w.split.second.splitBy(frac, axis)
		if err != nil {
			return nil, err
		}
		return append(first, second...), nil
	}

	var first, second *Window
	var err error
	switch axis {
	case AxisColumns:
		firstW := int(float64(w.width) * frac)
		if first, err = New(w.row, w.col, w.height, firstW, WithGlyphs(w.glyphs)); err != nil {
			return nil, err
		}
		if second, err = New(w.row, w.col+firstW, w.height, w.width-firstW, WithGlyphs(w.glyphs)); err != nil {
			return nil, err
		}
	case AxisRows:
		firstH := int(float64(w.height) * frac)
		if first, err = New(w.row, w.col, firstH, w.width, WithGlyphs(w.glyphs)); err != nil {
			return nil, err
		}
		if second, err = New(w.row+firstH, w.col, w.height-firstH, w.width, WithGlyphs(w.glyphs)); err != nil {
			return nil, err
		}
	}

	w.split = &split{axis: axis, first: first, second: second}
	w.buf = nil
	return []*Window{first, second}, nil
}

// Leaves returns the leaf windows of the tree in depth-first order,
// first child before second. A leaf returns itself.
func (w *Window) Leaves() []*Window {
	if w.split == nil {
		return []*Window{w}
	}
	return append(w.split.first.Leaves(), w.split.second.Leaves()...)
}

// Find locates a window in the tree by ID, or nil.
func (w *Window) Find(id uuid.UUID) *Window {
	if w.id == id {
		return w
	}
	if w.split == nil {
		return nil
	}
	if found := w.split.first.Find(id); found != nil {
		return found
	}
	return w.split.second.Find(id)
}
