// Package config holds the controller configuration. Firmware builds use
// Default(); host builds may also load YAML files (see load.go).
package config

import (
	"stepctl/core"
	"stepctl/protocol"
)

// Config is the complete configuration
type Config struct {
	Firmware FirmwareConfig `yaml:"firmware"`
	Board    BoardConfig    `yaml:"board"`
	Serial   SerialConfig   `yaml:"serial"`
	Sim      SimConfig      `yaml:"sim"`
}

// FirmwareConfig configures the control loop and the motor's power-on state
type FirmwareConfig struct {
	TickRate     uint32 `yaml:"tick_rate" env:"STEPCTL_TICK_RATE"`         // Time base rate (Hz)
	Period       uint32 `yaml:"period" env:"STEPCTL_PERIOD"`               // Initial step period (ticks)
	Direction    string `yaml:"direction" env:"STEPCTL_DIRECTION"`         // "cw" or "cc"
	StepSize     string `yaml:"step_size" env:"STEPCTL_STEP_SIZE"`         // "full" or "half"
	Echo         bool   `yaml:"echo" env:"STEPCTL_ECHO"`                   // Retransmit received bytes
	PulseTicks   uint32 `yaml:"pulse_ticks" env:"STEPCTL_PULSE_TICKS"`     // Step pulse width (ticks)
	PulseBackend string `yaml:"pulse_backend" env:"STEPCTL_PULSE_BACKEND"` // "gpio" or "pio"
	TxQueueSize  int    `yaml:"tx_queue_size"`
	Debug        bool   `yaml:"debug" env:"STEPCTL_DEBUG"`
}

// BoardConfig assigns the motor-driver outputs (GPIO numbers) and the
// device UART speed
type BoardConfig struct {
	StepSizePin  uint8  `yaml:"step_size_pin"` // Must be DirectionPin-1 for the PIO backend
	DirectionPin uint8  `yaml:"direction_pin"`
	StepPin      uint8  `yaml:"step_pin"`
	ActivityPin  uint8  `yaml:"activity_pin"`
	UARTBaud     uint32 `yaml:"uart_baud"`
}

// SerialConfig describes the host side of the serial link
type SerialConfig struct {
	Device        string `yaml:"device" env:"STEPCTL_DEVICE"`
	Baud          int    `yaml:"baud" env:"STEPCTL_BAUD"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms" env:"STEPCTL_READ_TIMEOUT_MS"`
}

// SimConfig configures the host simulator
type SimConfig struct {
	Realtime   bool `yaml:"realtime" env:"STEPCTL_SIM_REALTIME"` // Drive ticks from a wall-clock ticker
	DumpEvents bool `yaml:"dump_events" env:"STEPCTL_SIM_DUMP_EVENTS"`
}

// Default returns the power-on configuration of the reference board
func Default() *Config {
	cfg := &Config{
		Firmware: FirmwareConfig{
			Direction:    "cw",
			StepSize:     "full",
			PulseBackend: "gpio",
		},
		Board: BoardConfig{
			StepSizePin:  2,
			DirectionPin: 3,
			StepPin:      4,
			ActivityPin:  25,
		},
		Sim: SimConfig{
			Realtime: true,
		},
	}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in missing configuration values
func applyDefaults(cfg *Config) {
	fw := &cfg.Firmware
	if fw.TickRate == 0 {
		fw.TickRate = core.DefaultTickRate
	}
	if fw.Period == 0 {
		fw.Period = core.DefaultPeriod
	}
	if fw.Direction == "" {
		fw.Direction = "cw"
	}
	if fw.StepSize == "" {
		fw.StepSize = "full"
	}
	if fw.PulseTicks == 0 {
		fw.PulseTicks = 1
	}
	if fw.PulseBackend == "" {
		fw.PulseBackend = "gpio"
	}
	if fw.TxQueueSize == 0 {
		fw.TxQueueSize = protocol.TxQueueSize
	}

	if cfg.Board.UARTBaud == 0 {
		cfg.Board.UARTBaud = 9600
	}

	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = 9600
	}
	if cfg.Serial.ReadTimeoutMs == 0 {
		cfg.Serial.ReadTimeoutMs = 100
	}
}
