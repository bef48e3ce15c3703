//go:build rp2040

package main

import (
	"machine"
	"time"
)

// initDebug routes core debug output to the USB serial port, leaving UART0
// to the command console
func initDebug(enabled bool) func(string) {
	if !enabled {
		return nil
	}
	return func(s string) {
		machine.Serial.Write([]byte(s))
		machine.Serial.Write([]byte("\r\n"))
	}
}

// fault blinks the activity LED forever
func fault(pin uint8) {
	led := machine.Pin(pin)
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		led.High()
		time.Sleep(100 * time.Millisecond)
		led.Low()
		time.Sleep(100 * time.Millisecond)
	}
}
