// Package backlight converts between the gmux brightness register and
// percentages, and drives the brightness register through a hardware.Driver.
package backlight

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brianhealey/gmux/internal/hardware"
	"github.com/brianhealey/gmux/internal/models"
)

// Accepted band for the chip-reported maximum brightness, and the value used
// when the chip reports something outside it.
const (
	MaxBrightnessMin      uint32 = 0x10000
	MaxBrightnessMax      uint32 = 0x30000
	FallbackMaxBrightness uint32 = 0x24EC4 // 151236
)

// CalibrateValue returns v if it lies in [MaxBrightnessMin, MaxBrightnessMax],
// otherwise FallbackMaxBrightness. ok reports whether v was accepted.
func CalibrateValue(v uint32) (max uint32, ok bool) {
	if v < MaxBrightnessMin || v > MaxBrightnessMax {
		return FallbackMaxBrightness, false
	}
	return v, true
}

// Calibrate reads the maximum brightness register and validates it. It never
// fails: an unreadable or implausible value is replaced by the fallback and
// logged.
func Calibrate(ctx context.Context, drv hardware.Driver) uint32 {
	v, err := drv.Read32(ctx, hardware.PortMaxBrightness)
	if err != nil {
		slog.Warn("backlight: cannot read max brightness, using fallback",
			"err", err, "fallback", fmt.Sprintf("0x%x", FallbackMaxBrightness))
		return FallbackMaxBrightness
	}
	max, ok := CalibrateValue(v)
	if !ok {
		cerr := models.ErrCalibrationOutOfBounds(fmt.Sprintf(
			"max brightness 0x%x outside [0x%x, 0x%x]", v, MaxBrightnessMin, MaxBrightnessMax))
		slog.Warn("backlight: implausible max brightness, using fallback",
			"err", cerr, "code", cerr.Code, "fallback", fmt.Sprintf("0x%x", FallbackMaxBrightness))
	}
	return max
}
