package envdep

import (
	"context"

	"github.com/gburgyan/go-timing"
)

type TimingMode int

const (
	// TimingDisable will disable timing of integration steps.
	TimingDisable TimingMode = iota

	// TimingSteps times the construct and hook steps of an integration under a
	// "<container>:<step>" timing context. Pass a context made with timing.Root to
	// Bootstrap.Start to see where startup time goes.
	TimingSteps
)

var EnableTiming = TimingDisable

// timeStep runs fn, inside a timing context when step timing is enabled.
func timeStep(ctx context.Context, name string, fn func(context.Context) error) error {
	if EnableTiming != TimingSteps {
		return fn(ctx)
	}
	timingCtx, complete := timing.Start(ctx, name)
	defer complete()
	return fn(timingCtx)
}
