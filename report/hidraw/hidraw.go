// Package hidraw reads report packets from a Linux hidraw character device,
// the node the kernel exposes for a QMK raw HID interface.
package hidraw

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/Alia5/keyview/report"
)

// Name is the registry name of the hidraw source.
const Name = "hidraw"

const (
	// QMK raw HID reports are 32 bytes; read room for the largest full
	// speed report.
	readSize     = 64
	reopenPeriod = 500 * time.Millisecond
)

func init() {
	report.Register(Name, func(opts report.Options) (report.Source, error) {
		return New(opts), nil
	})
}

// Source polls a hidraw node. The node is opened lazily and reopened after
// read errors, at most once per reopenPeriod.
type Source struct {
	opts report.Options
	fs   afero.Fs

	mu       sync.Mutex
	file     *os.File
	path     string
	lastOpen time.Time
	closed   bool

	buf [readSize]byte
}

// New returns a source for opts.Device, or for the first matching device
// found under /sys when Device is empty.
func New(opts report.Options) *Source {
	return &Source{opts: opts.WithDefaults(), fs: afero.NewOsFs()}
}

func (s *Source) Poll(ctx context.Context) (report.Report, bool, error) {
	if err := ctx.Err(); err != nil {
		return report.Report{}, false, err
	}
	f, err := s.ensureOpen()
	if f == nil || err != nil {
		return report.Report{}, false, err
	}

	if err := f.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout)); err != nil && !errors.Is(err, os.ErrNoDeadline) {
		s.reset(f)
		return report.Report{}, false, err
	}
	n, err := f.Read(s.buf[:])
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return report.Report{}, false, nil
		}
		s.reset(f)
		return report.Report{}, false, fmt.Errorf("read %s: %w", f.Name(), err)
	}

	s.opts.RawLogger.Log(Name, s.buf[:n])
	r, ok := report.Decode(s.buf[:n])
	return r, ok, nil
}

func (s *Source) ensureOpen() (*os.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, os.ErrClosed
	}
	if s.file != nil {
		return s.file, nil
	}
	if !s.lastOpen.IsZero() && time.Since(s.lastOpen) < reopenPeriod {
		return nil, nil
	}
	s.lastOpen = time.Now()

	path := s.opts.Device
	if path == "" {
		found, err := Discover(s.fs, DefaultSysRoot, DefaultDevRoot)
		if err != nil {
			return nil, err
		}
		path = found
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open hidraw device: %w", err)
	}
	if s.path != path {
		s.opts.Logger.Info("Opened raw HID device", "path", path)
	}
	s.file, s.path = f, path
	return f, nil
}

func (s *Source) reset(f *os.File) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == f {
		_ = f.Close()
		s.file = nil
	}
}

func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
