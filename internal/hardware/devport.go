package hardware

const (
	// DefaultDevice is the character device exposing the I/O port space.
	DefaultDevice = "/dev/port"

	// DefaultMaxOpsPerSec paces port accesses. The whole gmux register
	// window fits in one second of traffic at this rate.
	DefaultMaxOpsPerSec = 2000

	opsBurst = 16
)
