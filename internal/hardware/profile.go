package hardware

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Masterminds/semver"

	"github.com/brianhealey/gmux/internal/models"
)

// Profile is populated once per invocation by Detect and is read-only
// afterwards.
type Profile struct {
	Version *semver.Version
	Layout  Layout
}

// ReadVersion reads the chip version registers as major.minor.release.
func ReadVersion(ctx context.Context, drv Driver) (*semver.Version, error) {
	var parts [3]uint8
	for i, p := range []Port{PortVersionMajor, PortVersionMinor, PortVersionRelease} {
		v, err := drv.Read8(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("read version register 0x%03x: %w", p, err)
		}
		parts[i] = v
	}
	if parts == [3]uint8{0xff, 0xff, 0xff} {
		slog.Warn("gmux: version registers read 0xff, chip may not be present")
	}
	return semver.NewVersion(fmt.Sprintf("%d.%d.%d", parts[0], parts[1], parts[2]))
}

// Detect reads the chip version and resolves the addressing layout for the
// configured family. Must be called after Driver.Init.
func Detect(ctx context.Context, drv Driver, family string) (*Profile, error) {
	layout, err := LayoutByName(family)
	if err != nil {
		return nil, models.ErrInputValidation(family, err.Error())
	}
	ver, err := ReadVersion(ctx, drv)
	if err != nil {
		return nil, err
	}
	slog.Debug("gmux: detected", "version", ver.String(), "family", layout.Name)
	return &Profile{Version: ver, Layout: layout}, nil
}

// Require checks the chip version against a semver constraint such as
// ">= 1.9". An empty constraint always passes.
func (p *Profile) Require(constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return models.ErrInputValidation(constraint, fmt.Sprintf("invalid version constraint: %v", err))
	}
	if ok, errs := c.Validate(p.Version); !ok {
		msg := fmt.Sprintf("gmux version %s does not satisfy %q", p.Version, constraint)
		if len(errs) > 0 {
			msg += ": " + errs[0].Error()
		}
		return models.ErrUnsupportedChip(msg)
	}
	return nil
}
