package serial

import (
	"io"

	"stepctl/config"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - Pipes into the host simulator (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate; the controller's UART runs 8N1 at 9600 by default
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns the default configuration for the controller's UART
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        9600,
		ReadTimeout: 100,
	}
}

// FromConfig converts the serial section of a loaded configuration
func FromConfig(sc config.SerialConfig) *Config {
	cfg := DefaultConfig(sc.Device)
	if sc.Baud > 0 {
		cfg.Baud = sc.Baud
	}
	if sc.ReadTimeoutMs > 0 {
		cfg.ReadTimeout = sc.ReadTimeoutMs
	}
	return cfg
}
