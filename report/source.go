package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Alia5/keyview/internal/log"
)

// Source produces reports on demand.
//
// Poll returns ok=false when nothing arrived within the source's read
// timeout; that is not an error. Implementations reconnect lazily, so a
// Poll after an error may succeed again. Close must be safe to call more
// than once.
type Source interface {
	Poll(ctx context.Context) (r Report, ok bool, err error)
	Close() error
}

// DefaultReadTimeout bounds a single Poll of a device-backed source.
const DefaultReadTimeout = 2 * time.Millisecond

// Options configures a Source. Fields that do not apply to a source are
// ignored by it.
type Options struct {
	// Device is a device node (hidraw, tty). Empty means auto-detect.
	Device string
	// Addr is a relay address for the net source.
	Addr string
	// Password enables encrypted relay frames.
	Password    string
	ReadTimeout time.Duration
	Logger      *slog.Logger
	RawLogger   log.RawLogger
}

// WithDefaults fills unset fields.
func (o Options) WithDefaults() Options {
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = DefaultReadTimeout
	}
	if o.Logger == nil {
		o.Logger = log.Discard()
	}
	if o.RawLogger == nil {
		o.RawLogger = log.NewRaw(nil)
	}
	return o
}

// Factory creates a Source.
type Factory func(opts Options) (Source, error)

// ErrUnknownSource is returned by New for unregistered names.
var ErrUnknownSource = errors.New("unknown report source")

var (
	sourcesMu sync.RWMutex
	sources   = map[string]Factory{}
)

// Register makes a source available by name. Sources register themselves
// from init. Name lookup is case-insensitive.
func Register(name string, f Factory) {
	sourcesMu.Lock()
	defer sourcesMu.Unlock()
	sources[strings.ToLower(name)] = f
}

// New creates the source registered under name.
func New(name string, opts Options) (Source, error) {
	sourcesMu.RLock()
	f, ok := sources[strings.ToLower(name)]
	sourcesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownSource, name, strings.Join(Names(), ", "))
	}
	return f(opts.WithDefaults())
}

// Names lists the registered sources in sorted order.
func Names() []string {
	sourcesMu.RLock()
	defer sourcesMu.RUnlock()
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
