//go:build rp2040

package main

import (
	"machine"
	"runtime/volatile"
	"unsafe"
)

const (
	uart0Base   = 0x40034000
	uart0UARTFR = uart0Base + 0x18
	uartFRTXFF  = 1 << 5 // transmit FIFO full
)

var uart0Flags = (*volatile.Register32)(unsafe.Pointer(uintptr(uart0UARTFR)))

// UARTSerial implements core.SerialDriver on UART0
type UARTSerial struct {
	uart *machine.UART
}

// NewUARTSerial configures UART0 for 8N1 at baud
func NewUARTSerial(baud uint32) (*UARTSerial, error) {
	u := machine.UART0
	err := u.Configure(machine.UARTConfig{
		BaudRate: baud,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
	if err != nil {
		return nil, err
	}
	return &UARTSerial{uart: u}, nil
}

// TryReadByte implements core.SerialDriver
func (s *UARTSerial) TryReadByte() (byte, bool) {
	if s.uart.Buffered() == 0 {
		return 0, false
	}
	b, err := s.uart.ReadByte()
	return b, err == nil
}

// WriteByte implements core.SerialDriver
func (s *UARTSerial) WriteByte(b byte) error {
	return s.uart.WriteByte(b)
}

// ReadyToTransmit implements core.SerialDriver
func (s *UARTSerial) ReadyToTransmit() bool {
	return !uart0Flags.HasBits(uartFRTXFF)
}

// RxPending implements core.SerialDriver
func (s *UARTSerial) RxPending() bool {
	return s.uart.Buffered() > 0
}
