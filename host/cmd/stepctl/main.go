package main

import (
	"flag"
	"log"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"stepctl/config"
	"stepctl/host/link"
	"stepctl/host/serial"
	"stepctl/protocol"
)

var (
	configPath = flag.String("config", "", "YAML configuration file")
	device     = flag.String("device", "", "Serial device path (overrides config)")
	baud       = flag.Int("baud", 0, "Baud rate (overrides config)")
	quiet      = flag.Duration("quiet", 300*time.Millisecond, "How long to wait for more reply lines")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if *device != "" {
		cfg.Serial.Device = *device
	}
	if *baud > 0 {
		cfg.Serial.Baud = *baud
	}
	if cfg.Serial.Device == "" {
		cfg.Serial.Device = "/dev/ttyUSB0"
	}

	log.Printf("Connecting to controller on %s at %d baud...", cfg.Serial.Device, cfg.Serial.Baud)
	conn, err := link.ConnectWithConfig(serial.FromConfig(cfg.Serial))
	if err != nil {
		log.Fatalf("Error: Failed to connect: %v", err)
	}
	defer conn.Close()

	shell := newShell(conn, *quiet)

	// Commands given on the command line run once, without a prompt
	if args := flag.Args(); len(args) > 0 {
		if err := shell.Process(args...); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	}

	shell.Println("stepctl " + protocol.Version + " - stepper controller terminal")
	shell.Println("Type 'help' for commands, 'exit' to quit")
	shell.Run()
}

func newShell(conn *link.Link, quiet time.Duration) *ishell.Shell {
	shell := ishell.New()
	shell.ShowPrompt(true)

	exchange := func(c *ishell.Context, line string) {
		replies, err := conn.Exchange(line, quiet)
		if err != nil {
			c.Err(err)
			return
		}
		for _, r := range replies {
			c.Println(r)
		}
	}

	// keyword sends the command name followed by any arguments
	keyword := func(name, help string, complete []string) *ishell.Cmd {
		cmd := &ishell.Cmd{
			Name: name,
			Help: help,
			Func: func(c *ishell.Context) {
				line := name
				if len(c.Args) > 0 {
					line += " " + strings.Join(c.Args, " ")
				}
				exchange(c, line)
			},
		}
		if complete != nil {
			cmd.Completer = func([]string) []string { return complete }
		}
		return cmd
	}

	shell.AddCmd(keyword("?", "show the controller's command reference", nil))
	shell.AddCmd(keyword("info", "show motor state, period, direction and step size", nil))
	shell.AddCmd(keyword("start", "run the motor continuously", nil))
	shell.AddCmd(keyword("stop", "stop the motor and drop pending steps", nil))
	shell.AddCmd(keyword("speed", "speed <ticks> - set the step period (3 or more)", nil))
	shell.AddCmd(keyword("dir", "dir <cc|cw> - set the direction", []string{"cc", "cw"}))
	shell.AddCmd(keyword("size", "size <full|half> - set the step size", []string{"full", "half"}))
	shell.AddCmd(keyword("step", "step <n> - make exactly n steps", nil))

	shell.AddCmd(&ishell.Cmd{
		Name: "raw",
		Help: "raw <text> - send text to the controller unchanged",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Println("Usage: raw <text>")
				return
			}
			exchange(c, strings.Join(c.Args, " "))
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "listen",
		Help: "listen <seconds> - print anything the controller sends",
		Func: func(c *ishell.Context) {
			wait := 5 * time.Second
			if len(c.Args) > 0 {
				if d, err := time.ParseDuration(c.Args[0] + "s"); err == nil {
					wait = d
				}
			}
			for _, r := range conn.Collect(wait) {
				c.Println(r)
			}
		},
	})

	// Anything else goes to the controller as typed
	shell.NotFound(func(c *ishell.Context) {
		exchange(c, strings.Join(c.RawArgs, " "))
	})

	return shell
}
