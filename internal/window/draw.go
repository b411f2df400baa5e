package window

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/termpane/internal/term"
)

// DrawFrame renders the window border, title block, and blank
// interior. When root is true and the window is split, the call
// delegates to both children and draws no border of its own; the root
// flag propagates so the whole tree terminates at leaves.
func (w *Window) DrawFrame(c *term.Controller, root bool) error {
	if root && w.split != nil {
		if err := w.split.first.DrawFrame(c, root); err != nil {
			return err
		}
		return w.split.second.DrawFrame(c, root)
	}

	g := w.glyphs
	inner := w.width - 2
	edge := strings.Repeat(string(g.Horizontal), inner)

	if err := c.MoveCursorTo(w.row, w.col); err != nil {
		return err
	}
	if err := c.WriteLine(string(g.TopLeft)+edge+string(g.TopRight), ""); err != nil {
		return err
	}

	row := w.row
	if w.title != "" {
		for _, chunk := range wrapRunes(w.title, inner) {
			row++
			if row >= w.row+w.height-1 {
				// Title taller than the window; the divider and
				// content lose out, the bottom border stays intact.
				row = w.row + w.height - 2
				break
			}
			if err := c.MoveCursorTo(row, w.col); err != nil {
				return err
			}
			line := string(g.Vertical) + padCells(chunk, inner) + string(g.Vertical)
			if err := c.WriteLine(line, ""); err != nil {
				return err
			}
		}
		row++
		if row < w.row+w.height-1 {
			if err := c.MoveCursorTo(row, w.col); err != nil {
				return err
			}
			if err := c.WriteLine(string(g.TeeLeft)+edge+string(g.TeeRight), ""); err != nil {
				return err
			}
		}
	}

	blank := string(g.Vertical) + strings.Repeat(" ", inner) + string(g.Vertical)
	for r := row + 1; r < w.row+w.height-1; r++ {
		if err := c.MoveCursorTo(r, w.col); err != nil {
			return err
		}
		if err := c.WriteLine(blank, ""); err != nil {
			return err
		}
	}

	if err := c.MoveCursorTo(w.row+w.height-1, w.col); err != nil {
		return err
	}
	if err := c.WriteLine(string(g.BottomLeft)+edge+string(g.BottomRight), ""); err != nil {
		return err
	}
	return c.Flush()
}

// DrawText writes the leaf buffers into the frame interiors. Content
// starts below the title rows and their divider; rows that would
// cross the bottom border are clipped.
func (w *Window) DrawText(c *term.Controller, root bool) error {
	if root && w.split != nil {
		if err := w.split.first.DrawText(c, root); err != nil {
			return err
		}
		return w.split.second.DrawText(c, root)
	}

	offset := w.titleRows()
	for i, bufRow := range w.buf {
		r := w.row + 1 + offset + i
		if r >= w.row+w.height-1 {
			break
		}
		if err := c.MoveCursorTo(r, w.col+1); err != nil {
			return err
		}
		if err := c.WriteLine(string(bufRow), ""); err != nil {
			return err
		}
	}
	return c.Flush()
}

// titleRows counts the interior rows consumed by the wrapped title
// plus its divider.
func (w *Window) titleRows() int {
	if w.title == "" {
		return 0
	}
	return len(wrapRunes(w.title, w.width-2)) + 1
}

// wrapRunes cuts s into chunks of at most n runes.
func wrapRunes(s string, n int) []string {
	if n <= 0 {
		return nil
	}
	runes := []rune(s)
	chunks := make([]string, 0, (len(runes)+n-1)/n)
	for len(runes) > n {
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return append(chunks, string(runes))
}

// padCells right-pads s with spaces to the given display width so
// wide runes do not push the frame edge out of column.
func padCells(s string, cells int) string {
	gap := cells - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
