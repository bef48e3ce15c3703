package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDefault(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		cfg := Default()

		Convey("It matches the reference board", func() {
			So(cfg.Firmware.TickRate, ShouldEqual, 1580)
			So(cfg.Firmware.Period, ShouldEqual, 790)
			So(cfg.Firmware.Direction, ShouldEqual, "cw")
			So(cfg.Firmware.StepSize, ShouldEqual, "full")
			So(cfg.Firmware.Echo, ShouldBeFalse)
			So(cfg.Board.UARTBaud, ShouldEqual, 9600)
		})

		Convey("It is valid", func() {
			So(Validate(cfg), ShouldBeNil)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given an otherwise valid configuration", t, func() {
		cfg := Default()

		Convey("A period below the minimum is rejected", func() {
			cfg.Firmware.Period = 2
			err := Validate(cfg)
			So(errors.Is(err, ErrPeriod), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "(3): 2")
		})

		Convey("An unknown direction is rejected", func() {
			cfg.Firmware.Direction = "left"
			So(Validate(cfg), ShouldEqual, ErrDirection)
		})

		Convey("An unknown step size is rejected", func() {
			cfg.Firmware.StepSize = "quarter"
			So(Validate(cfg), ShouldEqual, ErrStepSize)
		})

		Convey("A pulse as long as the period is rejected", func() {
			cfg.Firmware.Period = 3
			cfg.Firmware.PulseTicks = 3
			So(Validate(cfg), ShouldEqual, ErrPulseWidth)
		})

		Convey("Shared motor pins are rejected", func() {
			cfg.Board.StepPin = cfg.Board.DirectionPin
			So(Validate(cfg), ShouldEqual, ErrPins)
		})

		Convey("The pio backend needs consecutive size and direction pins", func() {
			cfg.Firmware.PulseBackend = "pio"
			So(Validate(cfg), ShouldBeNil)

			cfg.Board.DirectionPin = 7
			So(Validate(cfg), ShouldEqual, ErrPIOPins)
		})

		Convey("The pio backend rejects pulses its divider cannot time", func() {
			cfg.Firmware.PulseBackend = "pio"
			cfg.Firmware.TickRate = 1580
			So(MaxPIOPulseTicks(1580), ShouldEqual, 26)

			cfg.Firmware.PulseTicks = 26
			So(Validate(cfg), ShouldBeNil)

			cfg.Firmware.PulseTicks = 27
			So(errors.Is(Validate(cfg), ErrPIOPulse), ShouldBeTrue)

			cfg.Firmware.PulseBackend = "gpio"
			So(Validate(cfg), ShouldBeNil)
		})

		Convey("An unknown pulse backend is rejected", func() {
			cfg.Firmware.PulseBackend = "dma"
			So(Validate(cfg), ShouldEqual, ErrPulseBackend)
		})

		Convey("Validation does not mutate", func() {
			cfg.Firmware.Period = 0
			Validate(cfg)
			So(cfg.Firmware.Period, ShouldEqual, 0)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a YAML file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "stepctl.yaml")
		err := os.WriteFile(path, []byte(`
firmware:
  period: 500
  direction: cc
  echo: true
serial:
  device: /dev/ttyUSB1
`), 0644)
		So(err, ShouldBeNil)

		Convey("Values from the file override defaults", func() {
			cfg, err := Load(path)
			So(err, ShouldBeNil)
			So(cfg.Firmware.Period, ShouldEqual, 500)
			So(cfg.Firmware.Direction, ShouldEqual, "cc")
			So(cfg.Firmware.Echo, ShouldBeTrue)
			So(cfg.Serial.Device, ShouldEqual, "/dev/ttyUSB1")
			So(cfg.Firmware.TickRate, ShouldEqual, 1580)
			So(cfg.Serial.Baud, ShouldEqual, 9600)
		})
	})

	Convey("A missing file is an error", t, func() {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		So(err, ShouldNotBeNil)
	})

	Convey("Malformed YAML is an error", t, func() {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		So(os.WriteFile(path, []byte("firmware: [\n"), 0644), ShouldBeNil)
		_, err := Load(path)
		So(err, ShouldNotBeNil)
	})

	Convey("An empty path uses defaults", t, func() {
		cfg, err := Load("")
		So(err, ShouldBeNil)
		So(cfg.Firmware.Period, ShouldEqual, 790)
	})
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("STEPCTL_PERIOD", "1200")
	t.Setenv("STEPCTL_DEVICE", "/dev/ttyACM3")

	Convey("Given a YAML file and STEPCTL_* variables", t, func() {
		path := filepath.Join(t.TempDir(), "stepctl.yaml")
		So(os.WriteFile(path, []byte("firmware:\n  period: 500\n"), 0644), ShouldBeNil)

		Convey("The environment overrides the file", func() {
			cfg, err := Load(path)
			So(err, ShouldBeNil)
			So(cfg.Firmware.Period, ShouldEqual, 1200)
			So(cfg.Serial.Device, ShouldEqual, "/dev/ttyACM3")
		})
	})

	Convey("A malformed variable is an error", t, func() {
		t.Setenv("STEPCTL_TICK_RATE", "fast")
		_, err := Load("")
		So(err, ShouldNotBeNil)
	})
}
