package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stepctl/config"
	"stepctl/core"
	"stepctl/host/serial"
	"stepctl/host/sim"
)

var (
	configPath = flag.String("config", "", "YAML configuration file")
	device     = flag.String("device", "", "Serve a serial device instead of stdin/stdout")
	realtime   = flag.Bool("realtime", true, "Drive ticks from the wall clock")
	ticks      = flag.Int("ticks", 0, "Ticks to run after the input script when not realtime")
	dump       = flag.Bool("dump", false, "Dump the event ring on exit")
	verbose    = flag.Bool("verbose", false, "Log every step pulse")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "realtime":
			cfg.Sim.Realtime = *realtime
		case "dump":
			cfg.Sim.DumpEvents = *dump
		case "verbose":
			cfg.Firmware.Debug = *verbose
		}
	})

	core.SetDebugWriter(func(s string) { log.Println(s) })
	core.SetDebugEnabled(cfg.Firmware.Debug)

	var pulseLog *log.Logger
	if cfg.Firmware.Debug {
		pulseLog = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)
	}

	in, out, closer, err := openIO(cfg)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer closer.Close()

	d, err := sim.NewDevice(cfg, out, pulseLog)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	if cfg.Sim.Realtime {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Printf("Simulating at %d Hz, Ctrl-C to stop", cfg.Firmware.TickRate)
		d.Serial.Attach(in)
		d.Run(ctx)
	} else {
		script, err := io.ReadAll(in)
		if err != nil {
			log.Fatalf("Error: reading input: %v", err)
		}
		d.Send(string(script))
		d.Step(*ticks)
	}

	log.Printf("%d steps, position %d, motor %s", d.Pins.Count(), d.Pins.Position(), d.Motor().Mode())
	if cfg.Sim.DumpEvents {
		core.DumpEvents()
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openIO(cfg *config.Config) (io.Reader, io.Writer, io.Closer, error) {
	if *device == "" {
		return os.Stdin, os.Stdout, nopCloser{}, nil
	}
	sc := cfg.Serial
	sc.Device = *device
	pc := serial.FromConfig(sc)
	pc.ReadTimeout = 0 // block; a timed-out read looks like EOF
	port, err := serial.Open(pc)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open %s: %w", *device, err)
	}
	return port, port, port, nil
}
