package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/brianhealey/gmux/internal/config"
	"github.com/brianhealey/gmux/internal/hardware"
	"github.com/brianhealey/gmux/internal/models"
)

// mockFlags returns flags for a mock session with short delays.
func mockFlags(t *testing.T, extra string) *commonFlags {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gmux.yaml")
	contents := "delays:\n  settle: 1ms\n  power_on: 1ms\n" + extra
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return &commonFlags{configPath: path, mock: true}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		args           []string
		flags, posArgs []string
	}{
		{nil, nil, nil},
		{[]string{"50"}, nil, []string{"50"}},
		{[]string{"-10"}, nil, []string{"-10"}},
		{[]string{"-mock", "-10%"}, []string{"-mock"}, []string{"-10%"}},
		{[]string{"-config", "/tmp/g.yaml", "+5"}, []string{"-config", "/tmp/g.yaml"}, []string{"+5"}},
		{[]string{"--family=standard", "decr", "5"}, []string{"--family=standard"}, []string{"decr", "5"}},
		{[]string{"-", "5"}, nil, []string{"-", "5"}},
		{[]string{"-debug", "--", "-x"}, []string{"-debug"}, []string{"-x"}},
	}
	for _, tc := range tests {
		flags, pos := splitArgs(tc.args)
		if !reflect.DeepEqual(flags, tc.flags) || !reflect.DeepEqual(pos, tc.posArgs) {
			t.Errorf("splitArgs(%q) = %q, %q; want %q, %q", tc.args, flags, pos, tc.flags, tc.posArgs)
		}
	}
}

func TestRunBacklight_Show(t *testing.T) {
	var out bytes.Buffer
	if err := runBacklight(context.Background(), mockFlags(t, ""), nil, &out); err != nil {
		t.Fatalf("runBacklight: %v", err)
	}
	if got, want := out.String(), "Current brightness: 0x12762 (50%)\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRunBacklight_Set(t *testing.T) {
	tests := []struct {
		levels []string
		want   string
	}{
		{[]string{"50"}, "Set brightness to 50% (0x12762)\n"},
		{[]string{"+10"}, "Set brightness to 60% (0x16275)\n"},
		{[]string{"incr", "10"}, "Set brightness to 60% (0x16275)\n"},
		{[]string{"100%"}, "Set brightness to 100% (0x24ec4)\n"},
		{[]string{"-100"}, "Set brightness to 0% (0x0)\n"},
	}
	for _, tc := range tests {
		var out bytes.Buffer
		if err := runBacklight(context.Background(), mockFlags(t, ""), tc.levels, &out); err != nil {
			t.Errorf("runBacklight(%q): %v", tc.levels, err)
			continue
		}
		if out.String() != tc.want {
			t.Errorf("runBacklight(%q) output = %q, want %q", tc.levels, out.String(), tc.want)
		}
	}
}

func TestRunBacklight_InvalidInputBeforeHardware(t *testing.T) {
	// A real driver on a missing device: validation must fail first.
	cf := mockFlags(t, "device: "+filepath.Join(t.TempDir(), "missing")+"\n")
	cf.mock = false
	var out bytes.Buffer
	err := runBacklight(context.Background(), cf, []string{"150"}, &out)
	if !models.HasCode(err, models.CodeInputValidation) {
		t.Fatalf("err = %v, want INPUT_VALIDATION", err)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRunSwitch_Status(t *testing.T) {
	var out bytes.Buffer
	if err := runSwitch(context.Background(), mockFlags(t, ""), nil, &out); err != nil {
		t.Fatalf("runSwitch: %v", err)
	}
	want := "=== Gmux Status ===\n" +
		"Discrete GPU power:   0x01 (ON)\n" +
		"Integrated GPU power: 0x01 (ON)\n" +
		"Display mux:          0x00000002 (integrated)\n" +
		"DDC mux:              0x02 (integrated)\n"
	if out.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", out.String(), want)
	}
}

func TestRunSwitch_PowerOff(t *testing.T) {
	var out bytes.Buffer
	if err := runSwitch(context.Background(), mockFlags(t, ""), []string{"0"}, &out); err != nil {
		t.Fatalf("runSwitch: %v", err)
	}
	s := out.String()
	for _, want := range []string{
		"Powering OFF discrete GPU...\n",
		"Discrete GPU powered off.\n",
		"Discrete GPU power:   0x00 (OFF)\n",
		"DDC mux:              0x00 (integrated)\n",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}
}

func TestRunSwitch_PowerOnStandard(t *testing.T) {
	var out bytes.Buffer
	cf := mockFlags(t, "")
	cf.family = "standard"
	if err := runSwitch(context.Background(), cf, []string{"on"}, &out); err != nil {
		t.Fatalf("runSwitch: %v", err)
	}
	if !strings.Contains(out.String(), "Discrete GPU powered on.\n") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunSwitch_InvalidCommand(t *testing.T) {
	var out bytes.Buffer
	err := runSwitch(context.Background(), mockFlags(t, ""), []string{"2"}, &out)
	if !models.HasCode(err, models.CodeInputValidation) {
		t.Fatalf("err = %v, want INPUT_VALIDATION", err)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRunSwitch_VersionGuard(t *testing.T) {
	var out bytes.Buffer
	err := runSwitch(context.Background(), mockFlags(t, "require_version: '>= 2'\n"), []string{"0"}, &out)
	if !models.HasCode(err, models.CodeUnsupportedChip) {
		t.Fatalf("err = %v, want UNSUPPORTED_CHIP", err)
	}
}

func TestRunDump(t *testing.T) {
	var out bytes.Buffer
	if err := runDump(context.Background(), mockFlags(t, ""), &out); err != nil {
		t.Fatalf("runDump: %v", err)
	}
	if !strings.HasPrefix(out.String(), "=== Gmux Register Dump ===\n") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunInfo(t *testing.T) {
	var out bytes.Buffer
	if err := runInfo(context.Background(), mockFlags(t, ""), &out); err != nil {
		t.Fatalf("runInfo: %v", err)
	}
	for _, want := range []string{"Chip version:   1.9.35\n", "Family:         alternate\n", "Driver:         mock\n"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunConfig(t *testing.T) {
	cf := mockFlags(t, "")
	cf.family = "standard"

	var out bytes.Buffer
	if err := runConfig(cf, "", &out); err != nil {
		t.Fatalf("runConfig: %v", err)
	}
	if !strings.Contains(out.String(), "family: standard\n") {
		t.Errorf("output = %q", out.String())
	}

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := runConfig(cf, path, &out); err != nil {
		t.Fatalf("runConfig -o: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(written): %v", err)
	}
	if cfg.Family != "standard" || cfg.Delays.Settle.Milliseconds() != 1 {
		t.Errorf("written config = %+v", cfg)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	cf := &commonFlags{configPath: filepath.Join(t.TempDir(), "missing.yaml")}
	if _, err := cf.loadConfig(); err == nil {
		t.Error("loadConfig with missing explicit path: expected error")
	}

	cf = mockFlags(t, "")
	cf.family = "indexed"
	if _, err := cf.loadConfig(); err == nil {
		t.Error("loadConfig with bad -family: expected error")
	}

	cf = mockFlags(t, "")
	cf.debug = true
	cfg, err := cf.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
}

func TestSetupLogging_File(t *testing.T) {
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	path := filepath.Join(t.TempDir(), "gmux.log")
	var stderr bytes.Buffer
	closer, err := setupLogging(config.LogConfig{Level: "debug", File: path, MaxSizeMB: 1}, &stderr)
	if err != nil {
		t.Fatalf("setupLogging: %v", err)
	}
	slog.Debug("hello", "port", "0x774")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	for _, got := range []string{string(data), stderr.String()} {
		if !strings.Contains(got, "msg=hello") || !strings.Contains(got, "port=0x774") {
			t.Errorf("log output = %q", got)
		}
	}
}

func TestSetupLogging_BadLevel(t *testing.T) {
	if _, err := setupLogging(config.LogConfig{Level: "loud"}, &bytes.Buffer{}); err == nil {
		t.Error("setupLogging(loud): expected error")
	}
}

func TestSessionCloseReleasesDriver(t *testing.T) {
	s, err := open(context.Background(), mockFlags(t, ""))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	m, ok := s.drv.(*hardware.Mock)
	if !ok {
		t.Fatalf("driver = %T, want *hardware.Mock", s.drv)
	}
	s.close()
	if !m.Closed() {
		t.Error("session close did not release the port driver")
	}
}
