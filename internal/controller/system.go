package controller

import (
	"context"

	"github.com/brianhealey/gmux/internal/hardware"
	"github.com/brianhealey/gmux/internal/identity"
	"github.com/brianhealey/gmux/internal/models"
)

// Info reports the tool version, the machine and the detected chip.
func (c *Controller) Info(ctx context.Context) models.Info {
	return models.Info{
		Version:       identity.Version,
		Hostname:      c.machine.Hostname,
		Vendor:        c.machine.Vendor,
		Product:       c.machine.Product,
		ChipVersion:   c.profile.Version.String(),
		Family:        c.profile.Layout.Name,
		Driver:        c.hw.String(),
		Mock:          !c.hw.IsReal(),
		MaxBrightness: c.backlight(ctx).Max(),
	}
}

// Dump reads every gmux register. It never writes.
func (c *Controller) Dump(ctx context.Context) (*hardware.RegisterDump, error) {
	return hardware.ReadDump(ctx, c.hw)
}
