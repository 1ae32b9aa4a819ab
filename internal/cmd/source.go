package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Alia5/keyview/internal/log"
	"github.com/Alia5/keyview/report"
	"github.com/Alia5/keyview/report/relay"
)

// SourceConfig selects and configures the report source. It is embedded by
// every command that reads reports.
type SourceConfig struct {
	Source      string        `help:"Report source (mock, hidraw, console, net)" default:"mock" env:"KEYVIEW_SOURCE"`
	Device      string        `help:"Device node for the hidraw and console sources; auto-detected when empty" env:"KEYVIEW_DEVICE"`
	Addr        string        `help:"Relay address for the net source" default:"localhost:3247" env:"KEYVIEW_ADDR"`
	Password    string        `help:"Password of the relay the net source connects to" env:"KEYVIEW_PASSWORD"`
	Interval    time.Duration `help:"Pause between two polls" default:"8ms" env:"KEYVIEW_INTERVAL"`
	ReadTimeout time.Duration `help:"Maximum wait for a single read" default:"2ms" env:"KEYVIEW_READ_TIMEOUT"`
}

// Open creates the configured source.
func (c SourceConfig) Open(logger *slog.Logger, rawLogger log.RawLogger) (report.Source, error) {
	addr := c.Addr
	if addr == "" {
		addr = relay.DefaultAddr
	}
	src, err := report.New(c.Source, report.Options{
		Device:      c.Device,
		Addr:        addr,
		Password:    c.Password,
		ReadTimeout: c.ReadTimeout,
		Logger:      logger,
		RawLogger:   rawLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s source: %w", c.Source, err)
	}
	return src, nil
}

// Poller wraps src in a poller using the configured interval.
func (c SourceConfig) Poller(src report.Source, logger *slog.Logger) *report.Poller {
	return &report.Poller{Source: src, Interval: c.Interval, Logger: logger}
}

// Sources lists the registered report sources.
type Sources struct{}

func (s *Sources) Run() error {
	for _, name := range report.Names() {
		fmt.Println(name)
	}
	return nil
}
