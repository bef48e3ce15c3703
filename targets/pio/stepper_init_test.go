package pio

import (
	"testing"

	"stepctl/config"
)

func TestAllocatePIO(t *testing.T) {
	ResetPIOAllocations()
	defer ResetPIOAllocations()

	seen := make(map[[2]uint8]bool)
	for i := 0; i < 8; i++ {
		p, sm, ok := allocatePIO()
		if !ok {
			t.Fatalf("Allocation %d failed", i)
		}
		key := [2]uint8{p, sm}
		if seen[key] {
			t.Errorf("State machine %v allocated twice", key)
		}
		seen[key] = true
	}

	if _, _, ok := allocatePIO(); ok {
		t.Error("Expected allocation to fail when all state machines are taken")
	}

	releasePIO(1, 2)
	p, sm, ok := allocatePIO()
	if !ok || p != 1 || sm != 2 {
		t.Errorf("Expected released PIO1/SM2, got PIO%d/SM%d (ok=%v)", p, sm, ok)
	}
}

func TestClockDivider(t *testing.T) {
	// 125 MHz, 1580 Hz ticks, one-tick pulse: 125e6 / (32*1580) = 2472.31
	whole, frac := clockDivider(125000000, 1580, 1)
	if whole != 2472 {
		t.Errorf("Expected whole divider 2472, got %d", whole)
	}
	if frac != 79 {
		t.Errorf("Expected fraction 79/256, got %d", frac)
	}

	// Longer pulses past 16 bits saturate to the slowest divider
	if whole, frac := clockDivider(125000000, 1580, 30); whole != 0 || frac != 0 {
		t.Errorf("Expected saturated divider, got %d.%d", whole, frac)
	}

	// Very fast tick rates clamp to 1
	if whole, _ := clockDivider(125000000, 10000000, 1); whole != 1 {
		t.Errorf("Expected divider clamped to 1, got %d", whole)
	}
}

func TestCommandWord(t *testing.T) {
	tests := []struct {
		full, ccw bool
		want      uint32
	}{
		{false, false, 0},
		{true, false, 1},
		{false, true, 2},
		{true, true, 3},
	}
	for _, tt := range tests {
		if got := commandWord(tt.full, tt.ccw); got != tt.want {
			t.Errorf("commandWord(%v, %v): expected %d, got %d", tt.full, tt.ccw, tt.want, got)
		}
	}
}

func TestClockDividerValidatedRange(t *testing.T) {
	for _, rate := range []uint32{1000, 1580, 10000} {
		max := config.MaxPIOPulseTicks(rate)
		if whole, frac := clockDivider(config.PIOClockHz, rate, max); whole == 0 && frac == 0 {
			t.Errorf("%d Hz: expected %d ticks to fit the divider", rate, max)
		}
		if whole, frac := clockDivider(config.PIOClockHz, rate, max+1); whole != 0 || frac != 0 {
			t.Errorf("%d Hz: expected %d ticks to saturate, got %d.%d", rate, max+1, whole, frac)
		}
	}
}
