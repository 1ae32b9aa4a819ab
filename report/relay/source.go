package relay

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/Alia5/keyview/report"
)

// Name is the registry name of the relay client source.
const Name = "net"

// DefaultAddr is where relay servers listen unless configured otherwise.
const DefaultAddr = "localhost:3247"

const (
	dialTimeout   = 2 * time.Second
	redialPeriod  = 500 * time.Millisecond
	sessionBuffer = 64
)

func init() {
	report.Register(Name, func(opts report.Options) (report.Source, error) {
		return New(opts)
	})
}

// Source receives reports from a relay Server.
type Source struct {
	// Dial connects to the relay; tests replace it.
	Dial func(ctx context.Context, network, addr string) (net.Conn, error)

	opts report.Options
	key  []byte

	mu       sync.Mutex
	sess     *session
	lastDial time.Time
	closed   bool
	wg       sync.WaitGroup
}

type session struct {
	conn   net.Conn
	frames chan report.Report
	errc   chan error
	done   chan struct{}
	once   sync.Once
}

func (ss *session) close() {
	ss.once.Do(func() {
		close(ss.done)
		_ = ss.conn.Close()
	})
}

// New creates a relay client for opts.Addr. The password, if any, is
// stretched once here rather than on every reconnect.
func New(opts report.Options) (*Source, error) {
	opts = opts.WithDefaults()
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	s := &Source{opts: opts}
	dialer := &net.Dialer{Timeout: dialTimeout}
	s.Dial = dialer.DialContext
	if opts.Password != "" {
		key, err := DeriveKey(opts.Password)
		if err != nil {
			return nil, err
		}
		s.key = key
	}
	return s, nil
}

func (s *Source) Poll(ctx context.Context) (report.Report, bool, error) {
	ss, err := s.ensureSession(ctx)
	if ss == nil || err != nil {
		return report.Report{}, false, err
	}

	timer := time.NewTimer(s.opts.ReadTimeout)
	defer timer.Stop()
	select {
	case r := <-ss.frames:
		return r, true, nil
	case err := <-ss.errc:
		s.drop(ss)
		return report.Report{}, false, fmt.Errorf("relay %s: %w", s.opts.Addr, err)
	case <-timer.C:
		return report.Report{}, false, nil
	case <-ctx.Done():
		return report.Report{}, false, ctx.Err()
	}
}

func (s *Source) ensureSession(ctx context.Context) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, net.ErrClosed
	}
	if s.sess != nil {
		return s.sess, nil
	}
	if !s.lastDial.IsZero() && time.Since(s.lastDial) < redialPeriod {
		return nil, nil
	}
	s.lastDial = time.Now()

	conn, err := s.Dial(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return nil, fmt.Errorf("dial relay: %w", err)
	}
	r, err := s.handshake(conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	ss := &session{
		conn:   conn,
		frames: make(chan report.Report, sessionBuffer),
		errc:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.read(ss, r)
	}()
	s.sess = ss
	s.opts.Logger.Info("Connected to relay", "addr", s.opts.Addr, "sealed", s.key != nil)
	return ss, nil
}

// handshake reads the relay hello and returns the reader frames arrive on.
func (s *Source) handshake(conn net.Conn) (io.Reader, error) {
	_ = conn.SetReadDeadline(time.Now().Add(dialTimeout))
	defer func() { _ = conn.SetReadDeadline(time.Time{}) }()

	sealed, nonce, err := readHello(conn)
	if err != nil {
		return nil, err
	}
	switch {
	case sealed && s.key == nil:
		return nil, ErrPasswordRequired
	case !sealed && s.key != nil:
		return nil, ErrPasswordUnexpected
	case !sealed:
		return conn, nil
	}
	return WrapConn(conn, SessionKey(s.key, nonce))
}

func (s *Source) read(ss *session, r io.Reader) {
	var buf [report.PacketSize]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			ss.errc <- err
			return
		}
		s.opts.RawLogger.Log(Name, buf[:])
		rep, _ := report.Decode(buf[:])
		select {
		case ss.frames <- rep:
		case <-ss.done:
			return
		}
	}
}

func (s *Source) drop(ss *session) {
	ss.close()
	s.mu.Lock()
	if s.sess == ss {
		s.sess = nil
	}
	s.mu.Unlock()
}

// Close disconnects and waits for the reader goroutine to exit.
func (s *Source) Close() error {
	s.mu.Lock()
	s.closed = true
	ss := s.sess
	s.sess = nil
	s.mu.Unlock()
	if ss != nil {
		ss.close()
	}
	s.wg.Wait()
	return nil
}
