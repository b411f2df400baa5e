package term

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestParseReport(t *testing.T) {
	tests := []struct {
		name    string
		report  string
		want    Position
		wantErr bool
	}{
		{name: "typical", report: "\x1b[12;34R", want: Position{Col: 34, Row: 12}},
		{name: "origin", report: "\x1b[1;1R", want: Position{Col: 1, Row: 1}},
		{name: "leading noise", report: "x\x1b[5;9R", want: Position{Col: 9, Row: 5}},
		{name: "missing column", report: "\x1b[12R", wantErr: true},
		{name: "empty", report: "", wantErr: true},
		{name: "garbage", report: "hello", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseReport([]byte(tt.report))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.report)
				}
				if got != Unknown {
					t.Errorf("expected sentinel on error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseReport(%q): %v", tt.report, err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestReadReportStopsAtTerminator(t *testing.T) {
	r := bytes.NewReader([]byte("\x1b[3;7Rtrailing"))

	got, err := readReport(r, maxReportLen)
	if err != nil {
		t.Fatalf("readReport: %v", err)
	}
	if string(got) != "\x1b[3;7R" {
		t.Errorf("expected report up to terminator, got %q", got)
	}
}

func TestReadReportBounded(t *testing.T) {
	r := bytes.NewReader(bytes.Repeat([]byte{'x'}, 100))

	if _, err := readReport(r, maxReportLen); err == nil {
		t.Error("expected error when no terminator arrives")
	}
}

func TestReadReportPropagatesReadError(t *testing.T) {
	r := io.MultiReader(bytes.NewReader([]byte("\x1b[1;")), errReader{})

	_, err := readReport(r, maxReportLen)
	if err == nil {
		t.Fatal("expected read error")
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("tty gone")
}
