// Package term drives a VT100-compatible terminal through raw escape
// sequences and tracks the state those sequences leave behind: cursor
// position, resolution, and which screen buffer is active.
//
// A Controller is the single channel between layout code and the
// physical terminal. Most control operations re-query the cursor
// position and terminal size after emitting their sequence, so the
// cached State stays honest at the cost of a round trip; the dense
// redraw path (MoveCursorTo, WriteLine) skips the refresh.
package term

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// Position is a cursor location in 1-indexed terminal coordinates.
type Position struct {
	Col int
	Row int
}

// Unknown is the sentinel position reported when the terminal did not
// answer the cursor-position query.
var Unknown = Position{Col: -1, Row: -1}

// Resolution is the terminal size in character cells.
type Resolution struct {
	Rows int
	Cols int
}

// State is the cached terminal state. It is updated only by
// Controller operations, never by layout code.
type State struct {
	Cursor     Position
	Resolution Resolution
	AltBuffer  bool
}

// Prober performs the cursor-position report handshake. A call must
// return within roughly the given timeout; implementations that
// cannot bound the read should return an error instead of blocking.
type Prober interface {
	CursorPosition(timeout time.Duration) (Position, error)
}

// Sizer reports the terminal dimensions in rows and columns.
type Sizer func() (rows, cols int, err error)

// QuerySize is the default Sizer, backed by the controlling terminal
// of stdout.
func QuerySize() (rows, cols int, err error) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("terminal size: %w", err)
	}
	return h, w, nil
}

// Controller owns the output stream and the cached terminal state.
// All operations are serialized; the Controller is the only writer to
// both the stream and the state.
type Controller struct {
	mu           sync.Mutex
	out          *bufio.Writer
	probe        Prober
	size         Sizer
	probeTimeout time.Duration
	state        State
}

// Option configures a Controller.
type Option func(*Controller)

// WithProbe sets the cursor-position prober. Without one the cursor
// stays at the Unknown sentinel.
func WithProbe(p Prober) Option {
	return func(c *Controller) { c.probe = p }
}

// WithSizer sets the terminal size query.
func WithSizer(s Sizer) Option {
	return func(c *Controller) { c.size = s }
}

// WithProbeTimeout bounds each cursor-position query.
func WithProbeTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.probeTimeout = d
		}
	}
}

// New creates a Controller writing to out.
func New(out io.Writer, opts ...Option) *Controller {
	c := &Controller{
		out:          bufio.NewWriter(out),
		probeTimeout: 250 * time.Millisecond,
		state: State{
			Cursor:     Unknown,
			Resolution: Resolution{Rows: -1, Cols: -1},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init primes the cached state with an initial cursor and size query.
func (c *Controller) Init() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh()
}

// State returns a copy of the cached terminal state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// refresh re-queries cursor position and terminal size. A probe
// failure degrades the cursor to Unknown; a size failure keeps the
// last known resolution. Callers hold c.mu.
func (c *Controller) refresh() {
	if c.probe != nil {
		if pos, err := c.probe.CursorPosition(c.probeTimeout); err == nil {
			c.state.Cursor = pos
		} else {
			c.state.Cursor = Unknown
		}
	}
	if c.size != nil {
		if rows, cols, err := c.size(); err == nil {
			c.state.Resolution = Resolution{Rows: rows, Cols: cols}
		}
	}
}

func (c *Controller) emit(format string, args ...any) error {
	if _, err := fmt.Fprintf(c.out, format, args...); err != nil {
		return fmt.Errorf("terminal write: %w", err)
	}
	return nil
}

// MoveCursorTo positions the cursor at the 1-indexed row and column.
// Hot path: no flush, no state refresh.
func (c *Controller) MoveCursorTo(row, col int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.emit("\x1b[%d;%dH", row, col)
}

// ScrollUp scrolls the screen content up n lines.
func (c *Controller) ScrollUp(n int) error {
	return c.scroll(n, 'S')
}

// ScrollDown scrolls the screen content down n lines.
func (c *Controller) ScrollDown(n int) error {
	return c.scroll(n, 'T')
}

func (c *Controller) scroll(n int, dir byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.emit("\x1b[%d%c", n, dir); err != nil {
		return err
	}
	if err := c.flushLocked(); err != nil {
		return err
	}
	c.refresh()
	return nil
}

// CursorUp moves the cursor up n rows.
func (c *Controller) CursorUp(n int) error {
	return c.cursorMove(n, 'A')
}

// CursorDown moves the cursor down n rows.
func (c *Controller) CursorDown(n int) error {
	return c.cursorMove(n, 'B')
}

func (c *Controller) cursorMove(n int, dir byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.emit("\x1b[%d%c", n, dir); err != nil {
		return err
	}
	c.refresh()
	return nil
}

// CursorToColumn1 returns the cursor to the first column of the
// current row.
func (c *Controller) CursorToColumn1() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.emit("\x1b[0G"); err != nil {
		return err
	}
	c.refresh()
	return nil
}

// EraseToLineEnd erases from the cursor to the end of the line.
func (c *Controller) EraseToLineEnd() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.emit("\x1b[K"); err != nil {
		return err
	}
	c.refresh()
	return nil
}

// ClearLine erases the entire current line.
func (c *Controller) ClearLine() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.emit("\x1b[2K")
}

// ToggleAltBuffer switches between the main and alternate screen
// buffers, tracking which one is active.
func (c *Controller) ToggleAltBuffer() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	seq := "\x1b[?1049h"
	if c.state.AltBuffer {
		seq = "\x1b[?1049l"
	}
	if err := c.emit("%s", seq); err != nil {
		return err
	}
	c.state.AltBuffer = !c.state.AltBuffer
	if err := c.flushLocked(); err != nil {
		return err
	}
	c.refresh()
	return nil
}

// AltBufferActive reports whether the alternate screen buffer is
// active.
func (c *Controller) AltBufferActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.AltBuffer
}

// ClearScreen erases the whole screen.
func (c *Controller) ClearScreen() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.emit("\x1b[2J"); err != nil {
		return err
	}
	c.refresh()
	return nil
}

// HomeCursor moves the cursor to the screen origin.
func (c *Controller) HomeCursor() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.emit("\x1b[H"); err != nil {
		return err
	}
	c.refresh()
	return nil
}

// WriteLine writes literal text followed by the terminator. No cursor
// refresh, no flush.
func (c *Controller) WriteLine(text, terminator string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.out.WriteString(text); err != nil {
		return fmt.Errorf("terminal write: %w", err)
	}
	if _, err := c.out.WriteString(terminator); err != nil {
		return fmt.Errorf("terminal write: %w", err)
	}
	return nil
}

// Flush pushes buffered output to the terminal.
func (c *Controller) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushLocked()
}

func (c *Controller) flushLocked() error {
	if err := c.out.Flush(); err != nil {
		return fmt.Errorf("terminal flush: %w", err)
	}
	return nil
}
