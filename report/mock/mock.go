// Package mock provides a simulated report source that walks a single
// pressed key across a 48-key board and cycles through four layers.
package mock

import (
	"context"
	"sync/atomic"

	"github.com/Alia5/keyview/report"
)

const (
	// Keys is the number of keys the simulated board walks over.
	Keys = 48
	// Layers is the number of layers cycled through.
	Layers = 4
	// PollsPerLayer is how many polls stay on one layer.
	PollsPerLayer = 120
)

// Name is the registry name of the mock source.
const Name = "mock"

func init() {
	report.Register(Name, func(opts report.Options) (report.Source, error) {
		return New(), nil
	})
}

// Source is a deterministic report source for demos and tests.
type Source struct {
	counter atomic.Uint64
}

func New() *Source {
	return &Source{}
}

// Poll always produces a report.
func (s *Source) Poll(ctx context.Context) (report.Report, bool, error) {
	if err := ctx.Err(); err != nil {
		return report.Report{}, false, err
	}
	n := s.counter.Add(1)
	return At(n), true, nil
}

func (s *Source) Close() error {
	return nil
}

// At returns the report the mock produces on its n-th poll.
func At(n uint64) report.Report {
	layer := uint8((n / PollsPerLayer) % Layers)
	bit := n % Keys
	r, _ := report.Decode(report.Report{ActiveLayer: layer, PressedBits: 1 << bit}.Encode())
	return r
}
