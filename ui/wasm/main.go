//go:build js && wasm

// Browser bindings for the command parser and a simulated controller.
// Build with: GOOS=js GOARCH=wasm go build -o stepctl.wasm ./ui/wasm
package main

import (
	"bytes"
	"syscall/js"

	"stepctl/config"
	"stepctl/console"
	"stepctl/host/sim"
	"stepctl/protocol"
)

func main() {
	// Export functions to JavaScript
	js.Global().Set("stepctlWasm", js.ValueOf(map[string]interface{}{
		"parse":            js.FuncOf(parseWrapper),
		"parseUnsigned":    js.FuncOf(parseUnsignedWrapper),
		"help":             js.FuncOf(helpWrapper),
		"createController": js.FuncOf(createControllerWrapper),
		"version":          protocol.Version,
	}))

	// Keep the program running
	select {}
}

// parseWrapper parses one command line
// Args: line (string)
// Returns: {kind, arg}
func parseWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("error: missing line argument")
	}

	cmd := console.Parse(args[0].String())
	return js.ValueOf(map[string]interface{}{
		"kind": cmd.Kind.String(),
		"arg":  cmd.Arg,
	})
}

// parseUnsignedWrapper applies the controller's number parsing
// Args: text (string)
// Returns: number
func parseUnsignedWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(0)
	}
	return js.ValueOf(int(console.ParseUnsigned(args[0].String())))
}

func helpWrapper(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(console.HelpText())
}

// createControllerWrapper creates a simulated controller driven from JS
// Args: optional config YAML (string)
// Returns: object with send(text), tick(n) and state() methods
func createControllerWrapper(this js.Value, args []js.Value) interface{} {
	cfg := config.Default()
	cfg.Sim.Realtime = false
	if len(args) > 0 && args[0].Type() == js.TypeString {
		if err := config.Parse([]byte(args[0].String()), cfg); err != nil {
			return js.ValueOf("error: " + err.Error())
		}
		cfg.Sim.Realtime = false
	}

	var out bytes.Buffer
	d, err := sim.NewDevice(cfg, &out, nil)
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}

	// send feeds text to the controller and returns what it printed
	send := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			return js.ValueOf("")
		}
		out.Reset()
		d.Send(args[0].String())
		return js.ValueOf(out.String())
	})

	// tick advances time and returns the output produced meanwhile
	tick := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		n := 1
		if len(args) > 0 {
			n = args[0].Int()
		}
		out.Reset()
		d.Step(n)
		return js.ValueOf(out.String())
	})

	state := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		m := d.Motor()
		return js.ValueOf(map[string]interface{}{
			"mode":      m.Mode().String(),
			"period":    int(m.Period()),
			"direction": m.Direction().String(),
			"stepSize":  m.StepSize().String(),
			"remaining": int(m.RemainingSteps()),
			"steps":     d.Pins.Count(),
			"position":  d.Pins.Position(),
			"tick":      int(d.TimeBase.Now()),
		})
	})

	return js.ValueOf(map[string]interface{}{
		"send":  send,
		"tick":  tick,
		"state": state,
	})
}
