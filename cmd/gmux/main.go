// Command gmux controls the GPU multiplexer found in dual-GPU laptops: it
// reads and sets the panel backlight, powers the discrete GPU on and off
// and dumps the chip registers. It needs root for /dev/port; run with -mock
// to use a simulated register bank instead.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cespare/subcmd"

	"github.com/brianhealey/gmux/internal/config"
	"github.com/brianhealey/gmux/internal/controller"
	"github.com/brianhealey/gmux/internal/hardware"
	"github.com/brianhealey/gmux/internal/identity"
	"github.com/brianhealey/gmux/internal/power"
)

var cmds = []subcmd.Command{
	{
		Name:        "backlight",
		Description: "show or set the panel brightness",
		Do:          cmdBacklight,
	},
	{
		Name:        "switch",
		Description: "show GPU status or power the discrete GPU off (0) or on (1)",
		Do:          cmdSwitch,
	},
	{
		Name:        "dump",
		Description: "print all gmux registers",
		Do:          cmdDump,
	},
	{
		Name:        "info",
		Description: "print machine and chip information",
		Do:          cmdInfo,
	},
	{
		Name:        "config",
		Description: "print the effective configuration or write it to a file",
		Do:          cmdConfig,
	},
}

func main() {
	subcmd.Run(cmds)
}

// commonFlags are accepted by every subcommand.
type commonFlags struct {
	configPath string
	mock       bool
	debug      bool
	family     string
}

func (cf *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&cf.configPath, "config", "", "config file (default "+config.DefaultPath+" if present)")
	fs.BoolVar(&cf.mock, "mock", false, "use a simulated register bank instead of "+hardware.DefaultDevice)
	fs.BoolVar(&cf.debug, "debug", false, "enable debug logging")
	fs.StringVar(&cf.family, "family", "", "gmux addressing family: standard or alternate (overrides config)")
}

// loadConfig reads the config file and applies flag overrides.
func (cf *commonFlags) loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if cf.configPath != "" {
		cfg, err = config.Load(cf.configPath)
	} else {
		cfg, err = config.LoadOptional(config.DefaultPath)
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	if cf.family != "" {
		cfg.Family = cf.family
		if err := cfg.Validate(); err != nil {
			return config.Config{}, fmt.Errorf("-family: %w", err)
		}
	}
	if cf.debug {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// session is one invocation's hold on the hardware.
type session struct {
	cfg  config.Config
	drv  hardware.Driver
	ctrl *controller.Controller
	logs io.Closer
}

// open loads configuration, sets up logging, acquires the port driver and
// detects the chip. On success the caller must call close.
func open(ctx context.Context, cf *commonFlags) (*session, error) {
	cfg, err := cf.loadConfig()
	if err != nil {
		return nil, err
	}
	logs, err := setupLogging(cfg.Log, os.Stderr)
	if err != nil {
		return nil, err
	}

	var drv hardware.Driver
	if cf.mock {
		slog.Debug("using mock register bank")
		drv = hardware.NewMock()
	} else {
		drv = hardware.NewDevPort(cfg.Device, cfg.IO.MaxOpsPerSec)
	}
	if err := drv.Init(ctx); err != nil {
		logs.Close()
		return nil, err
	}

	ctrl, err := controller.New(ctx, drv, controller.Options{
		Family:         cfg.Family,
		RequireVersion: cfg.RequireVersion,
		Delays:         power.Delays{Settle: cfg.Delays.Settle, PowerOn: cfg.Delays.PowerOn},
		Machine:        identity.Get(),
	})
	if err != nil {
		drv.Close()
		logs.Close()
		return nil, err
	}
	return &session{cfg: cfg, drv: drv, ctrl: ctrl, logs: logs}, nil
}

// close halts the port driver, which releases its handle.
func (s *session) close() {
	if err := s.drv.Halt(); err != nil {
		slog.Warn("closing port driver", "err", err)
	}
	s.logs.Close()
}

// exit reports err and terminates with status 1. All deferred cleanup has
// already run by the time the subcommand hands its error here.
func exit(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	fmt.Fprintf(os.Stderr, "gmux: %v\n", err)
	os.Exit(1)
}
