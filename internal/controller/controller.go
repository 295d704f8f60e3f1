// Package controller wires the port driver, chip profile, backlight and
// power sequencer together and exposes one method per gmux operation.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/brianhealey/gmux/internal/backlight"
	"github.com/brianhealey/gmux/internal/hardware"
	"github.com/brianhealey/gmux/internal/identity"
	"github.com/brianhealey/gmux/internal/power"
)

// Options configures a Controller.
type Options struct {
	Family         string // "standard" or "alternate"
	RequireVersion string // semver constraint on the chip version; empty skips the check
	Delays         power.Delays
	Sleep          func(time.Duration) // nil means time.Sleep
	Machine        identity.Info
}

// Controller owns the hardware for one invocation. The driver must already
// be initialised; the caller closes it.
type Controller struct {
	mu      sync.Mutex
	hw      hardware.Driver
	profile *hardware.Profile
	seq     *power.Sequencer
	bl      *backlight.Backlight // calibrated on first use
	machine identity.Info
}

// New detects the chip and checks it against the version guard. It reads
// the version registers but writes nothing.
func New(ctx context.Context, hw hardware.Driver, opts Options) (*Controller, error) {
	profile, err := hardware.Detect(ctx, hw, opts.Family)
	if err != nil {
		return nil, fmt.Errorf("detect gmux: %w", err)
	}
	if err := profile.Require(opts.RequireVersion); err != nil {
		return nil, err
	}
	if v := opts.Machine.Vendor; v != "" && v != identity.Unknown && !opts.Machine.IsApple() {
		slog.Warn("controller: machine vendor is not Apple, gmux ports may not exist",
			"vendor", opts.Machine.Vendor, "product", opts.Machine.Product)
	}

	delays := opts.Delays
	if delays.Settle <= 0 {
		delays.Settle = power.DefaultDelays.Settle
	}
	if delays.PowerOn <= 0 {
		delays.PowerOn = power.DefaultDelays.PowerOn
	}
	seqOpts := []power.Option{power.WithDelays(delays)}
	if opts.Sleep != nil {
		seqOpts = append(seqOpts, power.WithSleep(opts.Sleep))
	}

	return &Controller{
		hw:      hw,
		profile: profile,
		seq:     power.New(hw, profile.Layout, seqOpts...),
		machine: opts.Machine,
	}, nil
}

// Profile returns the detected chip profile.
func (c *Controller) Profile() *hardware.Profile {
	return c.profile
}

// backlight returns the backlight, calibrating it on first use.
func (c *Controller) backlight(ctx context.Context) *backlight.Backlight {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bl == nil {
		c.bl = backlight.New(ctx, c.hw)
	}
	return c.bl
}
