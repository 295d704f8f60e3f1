package controller

import (
	"context"

	"periph.io/x/conn/v3/display"

	"github.com/brianhealey/gmux/internal/backlight"
	"github.com/brianhealey/gmux/internal/models"
)

// Brightness reads the current brightness.
func (c *Controller) Brightness(ctx context.Context) (models.BrightnessReading, error) {
	return c.backlight(ctx).Read(ctx)
}

// SetBrightness applies an absolute or relative brightness request and
// returns the value written. Absolute levels go through the panel's
// display.DisplayBacklight interface.
func (c *Controller) SetBrightness(ctx context.Context, mode models.ConversionMode) (models.BrightnessReading, error) {
	bl := c.backlight(ctx)
	if mode.Kind != models.ModeAbsolute {
		return bl.Set(ctx, mode)
	}
	var panel display.DisplayBacklight = bl
	if err := panel.Backlight(display.Intensity(mode.Value)); err != nil {
		return models.BrightnessReading{}, err
	}
	return models.BrightnessReading{Raw: backlight.PercentToRaw(mode.Value, bl.Max()), Max: bl.Max()}, nil
}
