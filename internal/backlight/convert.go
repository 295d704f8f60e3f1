package backlight

import (
	"fmt"

	"github.com/brianhealey/gmux/internal/models"
)

// All conversions run in 64-bit arithmetic; max is a calibrated value and
// must not be zero.

func mustMax(max uint32) {
	if max == 0 {
		panic("backlight: maximum brightness is zero")
	}
}

// RawToPercent converts a raw register value to a percentage, rounding to
// the nearest integer.
func RawToPercent(raw, max uint32) int32 {
	mustMax(max)
	return int32((uint64(raw)*100 + uint64(max)/2) / uint64(max))
}

// PercentToRaw converts a percentage to a raw register value, truncating.
// The result is clamped to [0, max].
func PercentToRaw(percent int32, max uint32) uint32 {
	mustMax(max)
	return clampRaw(int64(percent)*int64(max)/100, max)
}

// AdjustRaw moves current by delta percent of max, truncating the step
// toward zero, and clamps the result to [0, max].
func AdjustRaw(current uint32, delta int32, max uint32) uint32 {
	mustMax(max)
	step := int64(delta) * int64(max) / 100
	return clampRaw(int64(current)+step, max)
}

// Apply computes the raw value a request resolves to, given the current raw
// value. Relative requests work in raw space so repeated small steps are not
// lost to percentage rounding.
func Apply(mode models.ConversionMode, current, max uint32) (uint32, error) {
	switch mode.Kind {
	case models.ModeAbsolute:
		if mode.Value < 0 || mode.Value > 100 {
			return 0, models.ErrInputValidation(mode.String(), "absolute value must be 0-100")
		}
		return PercentToRaw(mode.Value, max), nil
	case models.ModeRelative:
		if mode.Value < -100 || mode.Value > 100 {
			return 0, models.ErrInputValidation(mode.String(), "relative value must be -100 to +100")
		}
		return AdjustRaw(current, mode.Value, max), nil
	default:
		return 0, models.ErrInputValidation(mode.Kind.String(), fmt.Sprintf("unknown conversion mode %d", mode.Kind))
	}
}

func clampRaw(v int64, max uint32) uint32 {
	if v < 0 {
		return 0
	}
	if v > int64(max) {
		return max
	}
	return uint32(v)
}
