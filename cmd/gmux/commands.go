package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/brianhealey/gmux/internal/backlight"
	"github.com/brianhealey/gmux/internal/config"
	"github.com/brianhealey/gmux/internal/models"
)

// newFlagSet returns a flag set with the common flags and a usage message.
func newFlagSet(name, usage string, cf *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cf.register(fs)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	return fs
}

const backlightUsage = `Usage:

  gmux backlight [flags] [N | +N | -N | incr N | decr N]

Without a level, prints the current brightness. N is a percentage (0-100);
+N and -N (or incr N and decr N) adjust the brightness by N percent.

Flags:
`

func cmdBacklight(args []string) {
	var cf commonFlags
	flags, levels := splitArgs(args)
	fs := newFlagSet("backlight", backlightUsage, &cf)
	if err := fs.Parse(flags); err != nil {
		exit(err)
	}
	exit(runBacklight(context.Background(), &cf, append(levels, fs.Args()...), os.Stdout))
}

func runBacklight(ctx context.Context, cf *commonFlags, levels []string, stdout io.Writer) error {
	set := len(levels) > 0
	var mode models.ConversionMode
	if set {
		// Reject bad input before touching the hardware.
		var err error
		if mode, err = models.ParseBrightnessArgs(levels); err != nil {
			return err
		}
	}

	s, err := open(ctx, cf)
	if err != nil {
		return err
	}
	defer s.close()

	if !set {
		r, err := s.ctrl.Brightness(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Current brightness: 0x%x (%d%%)\n", r.Raw, backlight.Percent(r))
		return nil
	}
	r, err := s.ctrl.SetBrightness(ctx, mode)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Set brightness to %d%% (0x%x)\n", backlight.Percent(r), r.Raw)
	return nil
}

const switchUsage = `Usage:

  gmux switch [flags] [0 | 1]

Without an argument, prints the GPU power and mux status.
  0 (or off)  route the display to the integrated GPU and power off the discrete GPU
  1 (or on)   power on the discrete GPU

Flags:
`

func cmdSwitch(args []string) {
	var cf commonFlags
	fs := newFlagSet("switch", switchUsage, &cf)
	if err := fs.Parse(args); err != nil {
		exit(err)
	}
	if fs.NArg() > 1 {
		fs.Usage()
		exit(models.ErrInputValidation("", "too many arguments"))
	}
	exit(runSwitch(context.Background(), &cf, fs.Args(), os.Stdout))
}

func runSwitch(ctx context.Context, cf *commonFlags, args []string, stdout io.Writer) error {
	set := len(args) > 0
	var cmd models.GPUPowerCommand
	if set {
		var err error
		if cmd, err = models.ParsePowerArg(args[0]); err != nil {
			return err
		}
	}

	s, err := open(ctx, cf)
	if err != nil {
		return err
	}
	defer s.close()

	if !set {
		st, err := s.ctrl.PowerStatus(ctx)
		if err != nil {
			return err
		}
		writeStatus(stdout, st)
		return nil
	}

	switch cmd {
	case models.PowerOff:
		fmt.Fprintln(stdout, "Powering OFF discrete GPU...")
	case models.PowerOn:
		fmt.Fprintln(stdout, "Powering ON discrete GPU...")
	}
	st, err := s.ctrl.SetGPUPower(ctx, cmd)
	if err != nil {
		return err
	}
	if cmd == models.PowerOff {
		fmt.Fprintln(stdout, "Discrete GPU powered off.")
	} else {
		fmt.Fprintln(stdout, "Discrete GPU powered on.")
	}
	writeStatus(stdout, st)
	return nil
}

// writeStatus prints a power state in the classic gmux status layout.
func writeStatus(w io.Writer, st models.PowerState) {
	fmt.Fprintln(w, "=== Gmux Status ===")
	fmt.Fprintf(w, "Discrete GPU power:   0x%02x (%s)\n", st.DiscretePowerReg, onOff(st.DiscretePower))
	fmt.Fprintf(w, "Integrated GPU power: 0x%02x (%s)\n", st.IntegratedPowerReg, onOff(st.IntegratedPower))
	fmt.Fprintf(w, "Display mux:          0x%08x (%s)\n", st.DisplayReg, gpuName(st.DisplayDiscrete))
	fmt.Fprintf(w, "DDC mux:              0x%02x (%s)\n", st.DDCReg, gpuName(st.DDCDiscrete))
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

func gpuName(discrete bool) string {
	if discrete {
		return "discrete"
	}
	return "integrated"
}

const dumpUsage = `Usage:

  gmux dump [flags]

Prints the version, switch, power and brightness registers, then every
non-empty dword in the gmux register window. Nothing is written.

Flags:
`

func cmdDump(args []string) {
	var cf commonFlags
	fs := newFlagSet("dump", dumpUsage, &cf)
	if err := fs.Parse(args); err != nil {
		exit(err)
	}
	exit(runDump(context.Background(), &cf, os.Stdout))
}

func runDump(ctx context.Context, cf *commonFlags, stdout io.Writer) error {
	s, err := open(ctx, cf)
	if err != nil {
		return err
	}
	defer s.close()

	d, err := s.ctrl.Dump(ctx)
	if err != nil {
		return err
	}
	_, err = d.WriteTo(stdout)
	return err
}

const infoUsage = `Usage:

  gmux info [flags]

Prints the tool version, the machine model and the detected gmux chip.

Flags:
`

func cmdInfo(args []string) {
	var cf commonFlags
	fs := newFlagSet("info", infoUsage, &cf)
	if err := fs.Parse(args); err != nil {
		exit(err)
	}
	exit(runInfo(context.Background(), &cf, os.Stdout))
}

func runInfo(ctx context.Context, cf *commonFlags, stdout io.Writer) error {
	s, err := open(ctx, cf)
	if err != nil {
		return err
	}
	defer s.close()

	info := s.ctrl.Info(ctx)
	fmt.Fprintf(stdout, "gmux %s\n", info.Version)
	fmt.Fprintf(stdout, "Machine:        %s %s (%s)\n", info.Vendor, info.Product, info.Hostname)
	fmt.Fprintf(stdout, "Chip version:   %s\n", info.ChipVersion)
	fmt.Fprintf(stdout, "Family:         %s\n", info.Family)
	fmt.Fprintf(stdout, "Driver:         %s\n", info.Driver)
	fmt.Fprintf(stdout, "Max brightness: 0x%x\n", info.MaxBrightness)
	return nil
}

const configUsage = `Usage:

  gmux config [flags]

Prints the effective configuration as YAML, or writes it to the file named
by -o. No hardware is accessed.

Flags:
`

func cmdConfig(args []string) {
	var cf commonFlags
	fs := newFlagSet("config", configUsage, &cf)
	out := fs.String("o", "", "write the configuration to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		exit(err)
	}
	exit(runConfig(&cf, *out, os.Stdout))
}

func runConfig(cf *commonFlags, out string, stdout io.Writer) error {
	cfg, err := cf.loadConfig()
	if err != nil {
		return err
	}
	if out != "" {
		return config.Save(out, cfg)
	}
	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
