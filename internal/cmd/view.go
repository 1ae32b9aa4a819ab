package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/Alia5/keyview/internal/log"
	"github.com/Alia5/keyview/internal/persist"
	"github.com/Alia5/keyview/internal/render"
	"github.com/Alia5/keyview/internal/viewer"
)

const watchPeriod = time.Second

type View struct {
	Path string `arg:"" optional:"" help:"Keymap file (.c, .h, .json, .yaml, .toml); defaults to the remembered keymap" type:"path"`

	SourceConfig `embed:""`

	FPS      int  `help:"Redraws per second" default:"30" env:"KEYVIEW_FPS"`
	Remember bool `help:"Remember the keymap for the next run" default:"true" negatable:""`
	Watch    bool `help:"Reload the keymap when the file changes" default:"true" negatable:""`
	NoColor  bool `help:"Disable colors"`
	Once     bool `help:"Print a single frame and exit"`

	resize func() int
}

// Run is called by Kong when the view command is executed.
func (v *View) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := persist.Default()
	if err != nil {
		logger.Warn("Keymap will not be remembered", "error", err)
		store = nil
	}

	v.resize = func() int { return terminalWidth(os.Stdout) }
	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	r := &render.Renderer{
		Out:     colorable.NewColorable(os.Stdout),
		Width:   v.resize(),
		NoColor: v.NoColor || color.NoColor,
		Redraw:  tty && !v.Once,
	}
	return v.Start(ctx, logger, rawLogger, store, r)
}

// Start opens the keymap and the source and renders until ctx is done.
func (v *View) Start(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger, store *persist.Store, r *render.Renderer) error {
	session := viewer.New(logger, store)
	if err := v.open(session, logger); err != nil {
		return err
	}

	if v.Once {
		return r.Frame(session.State())
	}

	src, err := v.Open(logger, rawLogger)
	if err != nil {
		return err
	}
	reports := v.Poller(src, logger).Start(ctx)

	fps := v.FPS
	if fps <= 0 {
		fps = 30
	}
	frames := time.NewTicker(time.Second / time.Duration(fps))
	defer frames.Stop()
	watch := time.NewTicker(watchPeriod)
	defer watch.Stop()

	r.Begin()
	defer r.End()
	if err := r.Frame(session.State()); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			// Let the poller close the source before returning.
			for range reports {
			}
			return nil
		case <-frames.C:
			if !session.Tick(reports) {
				continue
			}
		case <-watch.C:
			if !v.Watch || !session.Modified() {
				continue
			}
			if err := session.Reload(); err != nil {
				continue
			}
			if v.Remember {
				if err := session.Remember(); err != nil {
					logger.Warn("Failed to remember keymap", "error", err)
				}
			}
		}
		if v.resize != nil {
			r.Width = v.resize()
		}
		if err := r.Frame(session.State()); err != nil {
			return err
		}
	}
}

// open loads the keymap named on the command line or, without one, the
// remembered keymap. A file that fails to load leaves the empty Planck
// layout in place.
func (v *View) open(session *viewer.Session, logger *slog.Logger) error {
	if v.Path == "" {
		restored, err := session.Restore()
		if err != nil {
			logger.Warn("Failed to restore the remembered keymap", "error", err)
		}
		if !restored {
			logger.Info("No keymap given, showing an empty Planck layout")
		}
		return nil
	}

	if err := session.Load(v.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("keymap not found: %s", v.Path)
		}
		logger.Warn("Showing an empty Planck layout instead", "path", v.Path)
		return nil
	}
	if v.Remember {
		if err := session.Remember(); err != nil {
			logger.Warn("Failed to remember keymap", "error", err)
		}
	}
	return nil
}

func terminalWidth(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return render.DefaultWidth
	}
	return w
}
