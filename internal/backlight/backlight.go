package backlight

import (
	"context"
	"fmt"
	"log/slog"

	"periph.io/x/conn/v3/display"

	"github.com/brianhealey/gmux/internal/hardware"
	"github.com/brianhealey/gmux/internal/models"
)

// Backlight is the panel backlight behind the gmux brightness register. The
// maximum is calibrated once at construction; the current value is read
// from the chip on every call.
type Backlight struct {
	drv hardware.Driver
	max uint32
}

// New calibrates the maximum brightness and returns a Backlight.
func New(ctx context.Context, drv hardware.Driver) *Backlight {
	return &Backlight{drv: drv, max: Calibrate(ctx, drv)}
}

// NewWithMax returns a Backlight with a known maximum, skipping calibration.
// max must be non-zero.
func NewWithMax(drv hardware.Driver, max uint32) *Backlight {
	mustMax(max)
	return &Backlight{drv: drv, max: max}
}

// Max returns the calibrated maximum brightness.
func (b *Backlight) Max() uint32 { return b.max }

// Read returns the current brightness. A register value above the maximum is
// reported as the maximum.
func (b *Backlight) Read(ctx context.Context) (models.BrightnessReading, error) {
	raw, err := b.register(ctx)
	if err != nil {
		return models.BrightnessReading{}, err
	}
	return models.BrightnessReading{Raw: min(raw, b.max), Max: b.max}, nil
}

// register reads the brightness register as the chip reports it.
func (b *Backlight) register(ctx context.Context) (uint32, error) {
	raw, err := b.drv.Read32(ctx, hardware.PortBrightness)
	if err != nil {
		return 0, fmt.Errorf("read brightness: %w", err)
	}
	if raw > b.max {
		slog.Debug("backlight: raw value above max", "raw", fmt.Sprintf("0x%x", raw), "max", fmt.Sprintf("0x%x", b.max))
	}
	return raw, nil
}

// Set applies mode and writes the new raw value. Relative requests step from
// the register value as read, even above the maximum; only the result is
// clamped. The returned reading holds the value written.
func (b *Backlight) Set(ctx context.Context, mode models.ConversionMode) (models.BrightnessReading, error) {
	var current uint32
	if mode.Kind == models.ModeRelative {
		var err error
		if current, err = b.register(ctx); err != nil {
			return models.BrightnessReading{}, err
		}
	}
	raw, err := Apply(mode, current, b.max)
	if err != nil {
		return models.BrightnessReading{}, err
	}
	if err := b.drv.Write32(ctx, hardware.PortBrightness, raw); err != nil {
		return models.BrightnessReading{}, fmt.Errorf("write brightness: %w", err)
	}
	slog.Debug("backlight: set", "mode", mode.String(), "from", current, "to", raw)
	return models.BrightnessReading{Raw: raw, Max: b.max}, nil
}

// Backlight sets the brightness to intensity percent. It implements
// display.DisplayBacklight.
func (b *Backlight) Backlight(intensity display.Intensity) error {
	if intensity < 0 || intensity > 100 {
		return models.ErrInputValidation(fmt.Sprint(int(intensity)), "brightness level must be 0-100")
	}
	_, err := b.Set(context.Background(), models.Absolute(int32(intensity)))
	return err
}

func (b *Backlight) String() string { return "gmux-backlight" }

// Percent returns the rounded percentage of a reading.
func Percent(r models.BrightnessReading) int32 {
	return RawToPercent(r.Raw, r.Max)
}

var _ display.DisplayBacklight = (*Backlight)(nil)
