package modemlink

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/modem-link-go/internal/driver"
	"github.com/wagiedev/modem-link-go/internal/pipe"
	"github.com/wagiedev/modem-link-go/internal/responder"
)

// Exerciser wires a driver and a responder to the two ends of an in-memory
// link and runs both loops concurrently. The loops share nothing but the
// link; each suspends only at its own bounded read, so the transport is the
// sole synchronization point.
//
// Exercisers are single-use: after Close, build a new one.
type Exerciser struct {
	driver    *driver.Driver
	responder *responder.Responder
	driverEnd *pipe.Endpoint
	modemEnd  *pipe.Endpoint
}

// NewExerciser builds the link and both peers. Options apply to both sides
// (the logger and recorder are shared; each loop tags its own component).
func NewExerciser(opts ...Option) (*Exerciser, error) {
	options := applyOptions(opts)
	options.Normalize()

	driverEnd, modemEnd := pipe.Link(options.LinkCapacity)

	resp, err := responder.New(modemEnd, options)
	if err != nil {
		return nil, err
	}

	drv, err := driver.New(driverEnd, options)
	if err != nil {
		return nil, err
	}

	return &Exerciser{
		driver:    drv,
		responder: resp,
		driverEnd: driverEnd,
		modemEnd:  modemEnd,
	}, nil
}

// Run starts both loops and blocks until ctx is done or a loop fails. The
// loops have no terminal protocol state, so the returned error is normally
// ctx.Err() once the context ends.
func (e *Exerciser) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return e.responder.Run(ctx)
	})
	g.Go(func() error {
		return e.driver.Run(ctx)
	})

	return g.Wait()
}

// Driver returns the driver peer, e.g. to consume its Outcomes channel.
func (e *Exerciser) Driver() *Driver {
	return e.driver
}

// Responder returns the responder peer, e.g. to sample its Stats.
func (e *Exerciser) Responder() *Responder {
	return e.responder
}

// DriverEnd returns the driver's link endpoint. Toggling its readiness
// simulates the controller deasserting RTS.
func (e *Exerciser) DriverEnd() *Endpoint {
	return e.driverEnd
}

// ModemEnd returns the responder's link endpoint.
func (e *Exerciser) ModemEnd() *Endpoint {
	return e.modemEnd
}

// Close tears down both link endpoints. Safe to call multiple times.
func (e *Exerciser) Close() error {
	e.driverEnd.Close()
	e.modemEnd.Close()

	return nil
}
