// Package identity reports which machine gmux is running on.
package identity

import (
	"os"
	"path/filepath"
	"strings"
)

// Version is the gmux tool version.
const Version = "0.3.0"

// DefaultDMIDir is where the kernel exposes firmware identification strings.
const DefaultDMIDir = "/sys/class/dmi/id"

// Unknown is reported for any identification string that cannot be read.
const Unknown = "unknown"

// Info holds machine identity information.
type Info struct {
	Hostname string
	Vendor   string // DMI sys_vendor, e.g. "Apple Inc."
	Product  string // DMI product_name, e.g. "MacBookPro11,3"
}

// IsApple reports whether the firmware vendor is Apple, the only vendor
// known to ship the gmux chip.
func (i Info) IsApple() bool {
	return strings.HasPrefix(i.Vendor, "Apple")
}

// GetHostname returns the system hostname.
func GetHostname() string {
	h, err := os.Hostname()
	if err != nil {
		return Unknown
	}
	return h
}

// Get returns the identity of the running machine.
func Get() Info {
	return GetFromDir(DefaultDMIDir)
}

// GetFromDir reads the DMI strings from a specific directory.
// This variant is exported for testing.
func GetFromDir(dir string) Info {
	return Info{
		Hostname: GetHostname(),
		Vendor:   readDMI(dir, "sys_vendor"),
		Product:  readDMI(dir, "product_name"),
	}
}

func readDMI(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return Unknown
	}
	s := strings.TrimSpace(string(data))
	if s == "" {
		return Unknown
	}
	return s
}
