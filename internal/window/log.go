package window

import (
	"time"
)

// Line records the inclusive span a single wrapped message occupies
// inside a log window's buffer, in buffer-local 0-indexed
// coordinates. EndCol is the number of runes on the final row, so a
// full final row reports the content width.
type Line struct {
	BeginRow int
	BeginCol int
	EndRow   int
	EndCol   int
}

func (l Line) rows() int {
	return l.EndRow - l.BeginRow + 1
}

// Template controls how a log message is rendered before wrapping.
// Timestamping is explicit configuration, not inferred from the
// prefix text.
type Template struct {
	// Prefix is literal text prepended to every message.
	Prefix string
	// Timestamp prepends the current time in brackets.
	Timestamp bool
	// TimestampFormat is a Go reference layout; defaults to
	// "15:04:05".
	TimestampFormat string
}

// DefaultTemplate matches the classic "[HH:MM:SS] message" form.
func DefaultTemplate() Template {
	return Template{Timestamp: true, TimestampFormat: "15:04:05"}
}

func (t Template) render(msg string, now time.Time) string {
	if !t.Timestamp {
		return t.Prefix + msg
	}
	layout := t.TimestampFormat
	if layout == "" {
		layout = "15:04:05"
	}
	return t.Prefix + "[" + now.Format(layout) + "] " + msg
}

// LogWindow is a leaf window rendering an append-only, line-wrapping
// message log. The interior is a fixed-capacity scrolling viewport:
// messages append at the bottom and the oldest rows are evicted once
// the viewport fills, keeping the newest message bottom-anchored.
type LogWindow struct {
	*Window
	template Template
	lines    []Line
	now      func() time.Time
}

// LogOption configures a LogWindow.
type LogOption func(*LogWindow)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) LogOption {
	return func(lw *LogWindow) {
		if now != nil {
			lw.now = now
		}
	}
}

// NewLog creates a log window leaf at the given rect.
func NewLog(row, col, height, width int, tmpl Template, opts ...Option) (*LogWindow, error) {
	w, err := New(row, col, height, width, opts...)
	if err != nil {
		return nil, err
	}
	return NewLogOn(w, tmpl)
}

// NewLogOn attaches log semantics to an existing leaf window, e.g.
// one produced by a split.
func NewLogOn(w *Window, tmpl Template, opts ...LogOption) (*LogWindow, error) {
	if w.IsSplit() {
		return nil, ErrSplitWindow
	}
	lw := &LogWindow{
		Window:   w,
		template: tmpl,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(lw)
	}
	return lw, nil
}

// SetTemplate replaces the message template. Messages already in the
// buffer keep their rendered form.
func (lw *LogWindow) SetTemplate(t Template) {
	lw.template = t
}

// Lines returns a copy of the message spans, oldest first.
func (lw *LogWindow) Lines() []Line {
	out := make([]Line, len(lw.lines))
	copy(out, lw.lines)
	return out
}

// Clear empties the buffer and the message spans.
func (lw *LogWindow) Clear() {
	lw.Window.Clear()
	lw.lines = nil
}

// AddMsg renders msg through the template, wraps it to the content
// width, writes it into the buffer, and evicts the oldest messages if
// the viewport overflowed.
func (lw *LogWindow) AddMsg(msg string) error {
	if lw.IsSplit() {
		return ErrSplitWindow
	}

	rendered := []rune(lw.template.render(msg, lw.now()))
	length := len(rendered)
	width := lw.width - 2
	capacity := lw.height - 2

	rows := 1
	endCol := length
	if length > width {
		rows = (length + width - 1) / width
		endCol = length - (rows-1)*width
	}

	start := 0
	if n := len(lw.lines); n > 0 {
		start = lw.lines[n-1].EndRow + 1
	}
	lw.lines = append(lw.lines, Line{
		BeginRow: start,
		BeginCol: 0,
		EndRow:   start + rows - 1,
		EndCol:   endCol,
	})

	skip := 0
	if over := start + rows - capacity; over > 0 {
		skip = lw.evict(over, capacity)
	}
	lw.writeSpan(lw.lines[len(lw.lines)-1], rendered, skip*width)
	return nil
}

// evict drops the oldest messages until the total row span fits the
// viewport again, shifting the surviving spans and buffer rows up.
// When the newest message alone exceeds the viewport, its own leading
// rows are dropped; the return value is how many rows of the newest
// message were trimmed.
func (lw *LogWindow) evict(over, capacity int) int {
	dropped := 0
	for len(lw.lines) > 1 && dropped < over {
		dropped += lw.lines[0].rows()
		lw.lines = lw.lines[1:]
	}
	for i := range lw.lines {
		lw.lines[i].BeginRow -= dropped
		lw.lines[i].EndRow -= dropped
	}
	lw.scrollUp(dropped)

	trimmed := 0
	newest := &lw.lines[len(lw.lines)-1]
	if newest.rows() > capacity {
		trimmed = newest.rows() - capacity
		newest.BeginRow = 0
		newest.EndRow = capacity - 1
	}
	return trimmed
}

// scrollUp shifts buffer contents up n rows and blanks the vacated
// bottom rows.
func (lw *LogWindow) scrollUp(n int) {
	if n <= 0 {
		return
	}
	if n >= len(lw.buf) {
		n = len(lw.buf)
	}
	copy(lw.buf, lw.buf[n:])
	cols := lw.width - 2
	for i := len(lw.buf) - n; i < len(lw.buf); i++ {
		lw.buf[i] = blankRow(cols)
	}
}

// writeSpan copies the rendered runes into the buffer rows the span
// covers, skipping any leading runes trimmed by eviction.
func (lw *LogWindow) writeSpan(ln Line, runes []rune, skip int) {
	width := lw.width - 2
	idx := skip
	for row := ln.BeginRow; row <= ln.EndRow; row++ {
		end := width
		if row == ln.EndRow {
			end = ln.EndCol
		}
		for col := 0; col < end && idx < len(runes); col++ {
			lw.buf[row][col] = runes[idx]
			idx++
		}
	}
}
