// Package app wires the terminal controller, the window tree, and the
// configuration system into a running program.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dshills/termpane/internal/config"
	"github.com/dshills/termpane/internal/term"
	"github.com/dshills/termpane/internal/window"
)

// Options configures the application.
type Options struct {
	// ConfigPath locates the TOML configuration file; empty means
	// defaults only.
	ConfigPath string

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string

	// Debug forces debug logging.
	Debug bool

	// Watch enables live configuration reload.
	Watch bool

	// Out is the terminal stream; defaults to stdout.
	Out io.Writer

	// LogOut receives log lines; defaults to stderr. The terminal
	// stream belongs to the renderer, so logs must go elsewhere.
	LogOut io.Writer
}

// App is the demo application: a full-screen window split into log
// panes that are fed a message stream.
type App struct {
	opts   Options
	log    *Logger
	cfg    config.Config
	glyphs window.GlyphSet
	tmpl   window.Template
}

// New loads and validates configuration and prepares the application.
func New(opts Options) (*App, error) {
	level := ParseLogLevel(opts.LogLevel)
	if opts.Debug {
		level = LogLevelDebug
	}
	logger := NewLogger(opts.LogOut, level)

	cfg := config.Default()
	if opts.ConfigPath != "" {
		var err error
		cfg, err = config.Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("app: invalid configuration: %w", err)
	}

	glyphs, err := glyphsFromConfig(cfg.Frame)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	return &App{
		opts:   opts,
		log:    logger,
		cfg:    cfg,
		glyphs: glyphs,
		tmpl:   templateFromConfig(cfg.Log),
	}, nil
}

// glyphsFromConfig resolves the theme and applies per-glyph
// overrides.
func glyphsFromConfig(fc config.FrameConfig) (window.GlyphSet, error) {
	g, err := window.GlyphsForTheme(fc.Theme)
	if err != nil {
		return window.GlyphSet{}, err
	}
	for name, value := range fc.Glyphs {
		runes := []rune(value)
		if len(runes) != 1 {
			return window.GlyphSet{}, fmt.Errorf("glyph override %s: %q is not a single character", name, value)
		}
		r := runes[0]
		switch name {
		case "top_left":
			g.TopLeft = r
		case "top_right":
			g.TopRight = r
		case "bottom_left":
			g.BottomLeft = r
		case "bottom_right":
			g.BottomRight = r
		case "horizontal":
			g.Horizontal = r
		case "vertical":
			g.Vertical = r
		case "tee_left":
			g.TeeLeft = r
		case "tee_right":
			g.TeeRight = r
		case "tee_top":
			g.TeeTop = r
		case "tee_bottom":
			g.TeeBottom = r
		case "cross":
			g.Cross = r
		default:
			return window.GlyphSet{}, fmt.Errorf("unknown glyph override %q", name)
		}
	}
	return g, nil
}

func templateFromConfig(lc config.LogConfig) window.Template {
	return window.Template{
		Prefix:          lc.Prefix,
		Timestamp:       lc.Timestamp,
		TimestampFormat: lc.TimestampFormat,
	}
}

// buildLayout splits the root into n log panes, alternating the split
// axis while subdividing.
func buildLayout(root *window.Window, n int, tmpl window.Template) ([]*window.LogWindow, error) {
	leaves := []*window.Window{root}
	axis := window.AxisColumns
	for len(leaves) < n {
		// Split the first leaf still large enough to divide.
		split := false
		for _, leaf := range leaves {
			if leaf.IsSplit() {
				continue
			}
			var children []*window.Window
			var err error
			if axis == window.AxisColumns {
				children, err = leaf.HSplit(0.5)
			} else {
				children, err = leaf.WSplit(0.5)
			}
			if err != nil {
				continue
			}
			fresh := make([]*window.Window, 0, len(leaves)+1)
			for _, l := range leaves {
				if l == leaf {
					fresh = append(fresh, children...)
					continue
				}
				fresh = append(fresh, l)
			}
			leaves = fresh
			split = true
			break
		}
		if !split {
			return nil, fmt.Errorf("app: cannot divide layout into %d panes: %w", n, window.ErrInvalidGeometry)
		}
		if axis == window.AxisColumns {
			axis = window.AxisRows
		} else {
			axis = window.AxisColumns
		}
	}

	panes := make([]*window.LogWindow, 0, len(leaves))
	for _, leaf := range leaves {
		lw, err := window.NewLogOn(leaf, tmpl)
		if err != nil {
			return nil, err
		}
		panes = append(panes, lw)
	}
	return panes, nil
}

// Run drives the demo loop until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	out := a.opts.Out
	if out == nil {
		out = os.Stdout
	}

	ctlOpts := []term.Option{term.WithSizer(term.QuerySize)}
	if f, ok := out.(*os.File); ok {
		ctlOpts = append(ctlOpts, term.WithProbe(term.NewTTYProbe(os.Stdin, f)))
	}
	ctl := term.New(out, ctlOpts...)
	ctl.Init()

	rows, cols := ctl.State().Resolution.Rows, ctl.State().Resolution.Cols
	if rows < 3 || cols < 3 {
		// Size query failed (not a terminal); use the classic default.
		rows, cols = 24, 80
	}

	if err := ctl.ToggleAltBuffer(); err != nil {
		return err
	}
	defer func() {
		if ctl.AltBufferActive() {
			_ = ctl.ToggleAltBuffer()
		}
		_ = ctl.Flush()
	}()
	if err := ctl.ClearScreen(); err != nil {
		return err
	}

	root, err := window.New(1, 1, rows, cols, window.WithGlyphs(a.glyphs))
	if err != nil {
		return err
	}
	panes, err := buildLayout(root, a.cfg.Demo.Panes, a.tmpl)
	if err != nil {
		return err
	}
	for i, pane := range panes {
		pane.SetTitle(fmt.Sprintf("log %d", i+1))
		a.log.Debug("pane %d: id=%s", i+1, pane.ID())
	}
	a.log.Info("layout ready: %dx%d terminal, %d panes", rows, cols, len(panes))

	var watcher *config.Watcher
	if a.opts.Watch && a.opts.ConfigPath != "" {
		watcher, err = config.Watch(a.opts.ConfigPath)
		if err != nil {
			a.log.Warn("config watch unavailable: %v", err)
		} else {
			defer watcher.Close() //nolint:errcheck
		}
	}
	var reloads <-chan config.Event
	var watchErrs <-chan error
	if watcher != nil {
		reloads = watcher.Events()
		watchErrs = watcher.Errors()
	}

	ticker := time.NewTicker(time.Duration(a.cfg.Demo.TickMillis) * time.Millisecond)
	defer ticker.Stop()

	tick := 0
	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutting down")
			return nil

		case <-ticker.C:
			tick++
			pane := panes[tick%len(panes)]
			msg := fmt.Sprintf("tick %d %s", tick, strings.Repeat("·", tick%32))
			if err := pane.AddMsg(msg); err != nil {
				return err
			}
			if err := root.DrawFrame(ctl, true); err != nil {
				return fmt.Errorf("app: frame draw: %w", err)
			}
			if err := root.DrawText(ctl, true); err != nil {
				return fmt.Errorf("app: text draw: %w", err)
			}

		case ev := <-reloads:
			if err := a.reload(root, panes); err != nil {
				a.log.Warn("config reload failed: %v", err)
				continue
			}
			a.log.Info("configuration reloaded from %s", ev.Path)

		case err := <-watchErrs:
			a.log.Warn("config watcher: %v", err)
		}
	}
}

// reload re-reads the configuration and applies glyph and template
// changes to the existing layout.
func (a *App) reload(root *window.Window, panes []*window.LogWindow) error {
	cfg, err := config.Load(a.opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	glyphs, err := glyphsFromConfig(cfg.Frame)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.glyphs = glyphs
	a.tmpl = templateFromConfig(cfg.Log)
	root.SetGlyphs(glyphs)
	for _, pane := range panes {
		pane.SetTemplate(a.tmpl)
	}
	return nil
}
