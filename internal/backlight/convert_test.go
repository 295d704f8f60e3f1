package backlight_test

import (
	"testing"

	"github.com/brianhealey/gmux/internal/backlight"
	"github.com/brianhealey/gmux/internal/models"
)

const defaultMax = backlight.FallbackMaxBrightness

func TestRawToPercent(t *testing.T) {
	tests := []struct {
		raw, max uint32
		want     int32
	}{
		{0, defaultMax, 0},
		{defaultMax, defaultMax, 100},
		{75618, defaultMax, 50},
		{0x12762, defaultMax, 50},
		{1512, defaultMax, 1},  // 0.9998% rounds up
		{755, defaultMax, 0},   // 0.499% rounds down
		{0x30000, 0x30000, 100},
	}
	for _, tc := range tests {
		if got := backlight.RawToPercent(tc.raw, tc.max); got != tc.want {
			t.Errorf("RawToPercent(%d, %d) = %d, want %d", tc.raw, tc.max, got, tc.want)
		}
	}
}

func TestPercentToRaw(t *testing.T) {
	tests := []struct {
		percent int32
		want    uint32
	}{
		{0, 0},
		{50, 75618},
		{100, defaultMax},
		{1, 1512},
		{-5, 0},
		{150, defaultMax},
	}
	for _, tc := range tests {
		if got := backlight.PercentToRaw(tc.percent, defaultMax); got != tc.want {
			t.Errorf("PercentToRaw(%d) = %d, want %d", tc.percent, got, tc.want)
		}
	}
}

func TestPercentRoundTrip(t *testing.T) {
	for _, max := range []uint32{0x10000, 0x1ABCD, defaultMax, 0x30000} {
		for p := int32(0); p <= 100; p++ {
			got := backlight.RawToPercent(backlight.PercentToRaw(p, max), max)
			if d := got - p; d < -1 || d > 1 {
				t.Errorf("max=0x%x: RawToPercent(PercentToRaw(%d)) = %d", max, p, got)
			}
		}
	}
}

func TestRawRoundTrip(t *testing.T) {
	for _, max := range []uint32{0x10000, defaultMax, 0x30000} {
		step := max / 100
		for raw := uint32(0); raw <= max; raw += 97 {
			back := backlight.PercentToRaw(backlight.RawToPercent(raw, max), max)
			diff := int64(back) - int64(raw)
			if diff < 0 {
				diff = -diff
			}
			if diff > int64(step)+1 {
				t.Fatalf("max=0x%x raw=%d: round trip gave %d", max, raw, back)
			}
		}
	}
}

func TestAdjustRaw(t *testing.T) {
	tests := []struct {
		name    string
		current uint32
		delta   int32
		want    uint32
	}{
		{"clamp high", defaultMax, 10, defaultMax},
		{"clamp low", 0, -10, 0},
		{"up 10", 75618, 10, 75618 + 15123},
		{"down 10", 75618, -10, 75618 - 15123},
		{"zero delta", 1234, 0, 1234},
		{"full down", defaultMax, -100, 0},
		{"full up", 0, 100, defaultMax},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := backlight.AdjustRaw(tc.current, tc.delta, defaultMax); got != tc.want {
				t.Errorf("AdjustRaw(%d, %d) = %d, want %d", tc.current, tc.delta, got, tc.want)
			}
		})
	}
}

func TestAdjustRaw_NeverLeavesRange(t *testing.T) {
	for _, cur := range []uint32{0, 1, 75618, defaultMax - 1, defaultMax} {
		for d := int32(-100); d <= 100; d++ {
			if got := backlight.AdjustRaw(cur, d, defaultMax); got > defaultMax {
				t.Fatalf("AdjustRaw(%d, %d) = %d exceeds max", cur, d, got)
			}
		}
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		mode    models.ConversionMode
		current uint32
		want    uint32
		wantErr bool
	}{
		{models.Absolute(50), 0, 75618, false},
		{models.Absolute(0), defaultMax, 0, false},
		{models.Relative(10), defaultMax, defaultMax, false},
		{models.Relative(-10), 0, 0, false},
		{models.Absolute(101), 0, 0, true},
		{models.Relative(-101), 0, 0, true},
		{models.ConversionMode{Kind: 7}, 0, 0, true},
	}
	for _, tc := range tests {
		got, err := backlight.Apply(tc.mode, tc.current, defaultMax)
		if tc.wantErr {
			if !models.HasCode(err, models.CodeInputValidation) {
				t.Errorf("Apply(%v) err = %v, want INPUT_VALIDATION", tc.mode, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Apply(%v): %v", tc.mode, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Apply(%v, %d) = %d, want %d", tc.mode, tc.current, got, tc.want)
		}
	}
}

func TestZeroMaxPanics(t *testing.T) {
	fns := map[string]func(){
		"RawToPercent": func() { backlight.RawToPercent(1, 0) },
		"PercentToRaw": func() { backlight.PercentToRaw(1, 0) },
		"AdjustRaw":    func() { backlight.AdjustRaw(1, 1, 0) },
	}
	for name, fn := range fns {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("%s with max=0 did not panic", name)
				}
			}()
			fn()
		})
	}
}
