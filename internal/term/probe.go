package term

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"time"

	"golang.org/x/term"
)

// ErrNoReport indicates the terminal produced no parsable
// cursor-position report within the timeout.
var ErrNoReport = errors.New("term: no cursor position report")

// maxReportLen bounds how many bytes a report may occupy before the
// read gives up. A well-formed report is at most ~12 bytes.
const maxReportLen = 32

var reportPattern = regexp.MustCompile(`\[(\d+);(\d+)R`)

// TTYProbe performs the CSI 6n cursor-position handshake against a
// real terminal. The input stream is switched to raw mode for the
// duration of the handshake and restored on every exit path, and the
// report read is bounded by a deadline so a non-interactive stream
// degrades to an error instead of a hang.
type TTYProbe struct {
	in  *os.File
	out io.Writer
}

// NewTTYProbe creates a probe reading reports from in and writing the
// query to out. Typical wiring is os.Stdin and os.Stdout.
func NewTTYProbe(in *os.File, out io.Writer) *TTYProbe {
	return &TTYProbe{in: in, out: out}
}

// CursorPosition requests and parses a cursor-position report.
func (p *TTYProbe) CursorPosition(timeout time.Duration) (Position, error) {
	fd := int(p.in.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return Unknown, fmt.Errorf("term: raw mode: %w", err)
	}
	defer term.Restore(fd, oldState) //nolint:errcheck // restore is best effort

	if err := p.in.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		// Unbounded reads risk hanging forever; refuse to probe.
		return Unknown, fmt.Errorf("term: read deadline unsupported: %w", err)
	}
	defer p.in.SetReadDeadline(time.Time{}) //nolint:errcheck

	if _, err := io.WriteString(p.out, "\x1b[6n"); err != nil {
		return Unknown, fmt.Errorf("term: query write: %w", err)
	}

	report, err := readReport(p.in, maxReportLen)
	if err != nil {
		return Unknown, fmt.Errorf("%w: %w", ErrNoReport, err)
	}
	return parseReport(report)
}

// readReport reads single bytes until the report terminator 'R'
// arrives or max bytes have been consumed.
func readReport(r io.Reader, max int) ([]byte, error) {
	buf := make([]byte, 0, max)
	one := make([]byte, 1)
	for len(buf) < max {
		n, err := r.Read(one)
		if n > 0 {
			buf = append(buf, one[0])
			if one[0] == 'R' {
				return buf, nil
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("no terminator in %d bytes", max)
}

// parseReport extracts the position from a CSI {row};{col}R report.
func parseReport(report []byte) (Position, error) {
	m := reportPattern.FindSubmatch(report)
	if m == nil {
		return Unknown, fmt.Errorf("%w: malformed report %q", ErrNoReport, report)
	}
	row, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return Unknown, fmt.Errorf("%w: bad row in %q", ErrNoReport, report)
	}
	col, err := strconv.Atoi(string(m[2]))
	if err != nil {
		return Unknown, fmt.Errorf("%w: bad column in %q", ErrNoReport, report)
	}
	return Position{Col: col, Row: row}, nil
}
