// Package console reads layer/key state lines that a QMK keymap prints to a
// USB serial console, in the form "L:<layer> B:<hex mask>".
package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Alia5/keyview/report"
)

// Name is the registry name of the console source.
const Name = "console"

const (
	// BaudRate is the rate the serial port is configured to.
	BaudRate     = 115200
	reopenPeriod = 500 * time.Millisecond
	readSize     = 128
	// maxLine bounds the pending buffer when no newline ever arrives.
	maxLine = 4096
)

// devicePatterns are tried in order when no device is configured.
var devicePatterns = []string{
	"/dev/ttyACM*",
	"/dev/ttyUSB*",
	"/dev/cu.usbmodem*",
	"/dev/cu.usbserial*",
	"/dev/tty.usbmodem*",
}

// ErrNoPort is returned when no serial device could be found.
var ErrNoPort = errors.New("no usb serial console found")

func init() {
	report.Register(Name, func(opts report.Options) (report.Source, error) {
		return New(opts), nil
	})
}

// ParseLine decodes one console line. Both the L: (decimal layer) and the
// B: (hex mask) field must be present; other fields are ignored.
func ParseLine(line string) (report.Report, bool) {
	var (
		layer           uint64
		bits            uint64
		layerOK, bitsOK bool
	)
	for _, field := range strings.Fields(line) {
		if v, ok := strings.CutPrefix(field, "L:"); ok {
			n, err := strconv.ParseUint(v, 10, 8)
			layer, layerOK = n, err == nil
		} else if v, ok := strings.CutPrefix(field, "B:"); ok {
			v = strings.TrimPrefix(strings.TrimPrefix(v, "0x"), "0X")
			n, err := strconv.ParseUint(v, 16, 64)
			bits, bitsOK = n, err == nil
		}
	}
	if !layerOK || !bitsOK {
		return report.Report{}, false
	}
	return report.Report{Time: time.Now(), ActiveLayer: uint8(layer), PressedBits: bits}, true
}

// Source polls a serial console. The port is opened lazily and reopened
// after errors, at most once per reopenPeriod.
type Source struct {
	opts report.Options

	mu       sync.Mutex
	port     *os.File
	lastOpen time.Time
	closed   bool

	pending []byte
	buf     [readSize]byte
}

func New(opts report.Options) *Source {
	return &Source{opts: opts.WithDefaults()}
}

func (s *Source) Poll(ctx context.Context) (report.Report, bool, error) {
	if err := ctx.Err(); err != nil {
		return report.Report{}, false, err
	}
	if r, ok := s.nextLine(); ok {
		return r, true, nil
	}

	port, err := s.ensureOpen()
	if port == nil || err != nil {
		return report.Report{}, false, err
	}
	if err := port.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout)); err != nil && !errors.Is(err, os.ErrNoDeadline) {
		s.reset(port)
		return report.Report{}, false, err
	}
	n, err := port.Read(s.buf[:])
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return report.Report{}, false, nil
		}
		s.reset(port)
		return report.Report{}, false, fmt.Errorf("read %s: %w", port.Name(), err)
	}
	s.pending = append(s.pending, s.buf[:n]...)
	if len(s.pending) > maxLine {
		s.pending = s.pending[len(s.pending)-maxLine:]
	}

	r, ok := s.nextLine()
	return r, ok, nil
}

// nextLine consumes complete lines from the pending buffer until one parses.
func (s *Source) nextLine() (report.Report, bool) {
	for {
		i := bytes.IndexByte(s.pending, '\n')
		if i < 0 {
			return report.Report{}, false
		}
		line := strings.TrimSpace(string(s.pending[:i]))
		s.pending = s.pending[i+1:]
		if line == "" {
			continue
		}
		s.opts.RawLogger.Log(Name, []byte(line))
		if r, ok := ParseLine(line); ok {
			return r, true
		}
		s.opts.Logger.Debug("Ignoring console line", "line", line)
	}
}

func (s *Source) ensureOpen() (*os.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, os.ErrClosed
	}
	if s.port != nil {
		return s.port, nil
	}
	if !s.lastOpen.IsZero() && time.Since(s.lastOpen) < reopenPeriod {
		return nil, nil
	}
	s.lastOpen = time.Now()

	path := s.opts.Device
	if path == "" {
		found, err := FindPort()
		if err != nil {
			return nil, err
		}
		path = found
	}
	port, err := openPort(path)
	if err != nil {
		return nil, err
	}
	s.opts.Logger.Info("Opened serial console", "path", path, "baud", BaudRate)
	s.port = port
	return port, nil
}

func (s *Source) reset(port *os.File) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == port {
		_ = port.Close()
		s.port = nil
		s.pending = s.pending[:0]
	}
}

func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}

// FindPort returns the first device node that looks like a USB serial
// adapter or a CDC ACM console.
func FindPort() (string, error) {
	for _, pattern := range devicePatterns {
		matches, _ := filepath.Glob(pattern)
		sort.Strings(matches)
		if len(matches) > 0 {
			return matches[0], nil
		}
	}
	return "", ErrNoPort
}

// openPort opens path and switches it to raw mode at BaudRate.
func openPort(path string) (*os.File, error) {
	port, err := os.OpenFile(path, os.O_RDWR|noCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("open serial console: %w", err)
	}
	raw, err := port.SyscallConn()
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	var cfgErr error
	if err := raw.Control(func(fd uintptr) { cfgErr = configure(int(fd)) }); err != nil {
		cfgErr = err
	}
	if cfgErr != nil {
		_ = port.Close()
		return nil, fmt.Errorf("configure %s: %w", path, cfgErr)
	}
	return port, nil
}
