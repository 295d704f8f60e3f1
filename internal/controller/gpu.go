package controller

import (
	"context"
	"log/slog"

	"github.com/brianhealey/gmux/internal/models"
)

// PowerStatus samples the GPU power and mux registers.
func (c *Controller) PowerStatus(ctx context.Context) (models.PowerState, error) {
	return c.seq.Status(ctx)
}

// SetGPUPower runs the power sequence for cmd and returns the state sampled
// once it has finished.
func (c *Controller) SetGPUPower(ctx context.Context, cmd models.GPUPowerCommand) (models.PowerState, error) {
	slog.Info("controller: discrete GPU power", "cmd", cmd.String(), "family", c.profile.Layout.Name)
	st, err := c.seq.Run(ctx, cmd)
	if err != nil {
		slog.Error("controller: power sequence failed", "cmd", cmd.String(), "err", err)
		return models.PowerState{}, err
	}
	return st, nil
}
