package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/abiosoft/ishell"
	"github.com/caarlos0/env"

	"github.com/binworks/gosortrig/sorter"
	"github.com/binworks/gosortrig/sorter/hardware"
	"github.com/binworks/gosortrig/sorter/serlink"
)

type EnvConfig struct {
	CONFIG string `env:"SORTRIG_CONFIG" envDefault:"./sortrig.yaml"`
	DEBUG  bool   `env:"DEBUG" envDefault:"0"`
}

var (
	ENV *EnvConfig
)

func init() {
	ENV = new(EnvConfig)
	env.Parse(ENV)
}

func main() {
	simulated := flag.Bool("sim", false, "Run the device on simulated actuators")
	shellMode := flag.Bool("shell", false, "Run the operator shell instead of the serial command loop")
	configPath := flag.String("config", ENV.CONFIG, "Path to the rig config yaml")
	flag.Parse()

	cfg := loadConfig(*configPath)
	if ENV.DEBUG {
		log.Printf("running with config %+v", cfg)
	}

	acts, led, cleanup, err := buildActuators(cfg, *simulated)
	if err != nil {
		panic(fmt.Sprintf("Unable to initialize actuators: %v", err))
	}
	defer cleanup()

	shutdown := cleanup

	var link serlink.Link
	if !*shellMode {
		l, err := serlink.OpenSerialLink(cfg.Serial.Device, cfg.Serial.Baud)
		if err != nil {
			panic(fmt.Sprintf("Unable to open command port %s: %v", cfg.Serial.Device, err))
		}
		defer l.Close()
		link = l
		shutdown = func() {
			l.Close()
			cleanup()
		}
	}

	device := sorter.New(cfg, acts, led, link, log.Default())

	if err := device.Home(); err != nil {
		panic(fmt.Sprintf("Unable to home servos: %v", err))
	}

	waitForKillCommand(shutdown)

	if *shellMode {
		runShell(device)
		return
	}

	if err := device.Run(); err != nil {
		log.Fatalf("command loop stopped: %v", err)
	}
}

func loadConfig(filename string) sorter.SorterConfig {
	data, err := ioutil.ReadFile(filename)
	if os.IsNotExist(err) {
		log.Printf("no config at %s, running on defaults", filename)
		return sorter.DefaultConfig()
	}
	if err != nil {
		panic(fmt.Sprintf("Unable to read yaml file: %v", err))
	}

	cfg, err := sorter.ParseConfig(data)
	if err != nil {
		panic(fmt.Sprintf("Unable to parse config: %v", err))
	}

	return cfg
}

func buildActuators(cfg sorter.SorterConfig, simulated bool) (acts sorter.Actuators, led sorter.Indicator, cleanup func(), err error) {
	cleanup = func() {}

	if simulated || cfg.Backend == "sim" {
		return sorter.NewSimulatedActuators(), new(sorter.SimulatedIndicator), cleanup, nil
	}

	switch cfg.Backend {
	case "", "firmata":
		var rig *hardware.FirmataRig
		rig, err = hardware.NewFirmataRig(cfg.Firmata.Device, cfg.Firmata.Baud)
		if err != nil {
			return
		}

		var indicator *hardware.FirmataIndicator
		indicator, err = rig.Indicator(cfg.Firmata.IndicatorPin)
		if err != nil {
			rig.Close()
			return
		}

		acts = sorter.Actuators{
			Position: rig.Servo("position", cfg.Firmata.PositionPin),
			Flap:     rig.Servo("flap", cfg.Firmata.FlapPin),
		}
		return acts, indicator, func() { rig.Close() }, nil

	case "feetech":
		var rig *hardware.FeetechRig
		rig, err = hardware.NewFeetechRig(cfg.Feetech.Port, cfg.Feetech.Baud)
		if err != nil {
			return
		}

		acts = sorter.Actuators{
			Position: rig.Servo("position", cfg.Feetech.PositionID),
			Flap:     rig.Servo("flap", cfg.Feetech.FlapID),
		}
		// no LED on the servo bus
		return acts, nil, func() { rig.Close() }, nil

	default:
		err = fmt.Errorf("unknown backend %q", cfg.Backend)
		return
	}
}

// runShell drives the same device from an interactive console, mirroring
// the old host-side servo test scripts without the classification pipeline.
func runShell(device *sorter.Sorter) {
	materials := map[string]sorter.Material{
		"paper":   sorter.Paper,
		"metal":   sorter.Metal,
		"plastic": sorter.Plastic,
		"glass":   sorter.Glass,
		"trash":   sorter.Trash,
	}

	shell := ishell.New()
	shell.Println("Sorting rig operator shell")
	shell.ShowPrompt(true)

	shell.AddCmd(&ishell.Cmd{
		Name: "sort",
		Help: "sort <paper|metal|plastic|glass|trash>",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("usage: sort <material>"))
				return
			}
			m, ok := materials[c.Args[0]]
			if !ok {
				c.Err(fmt.Errorf("unknown material %q", c.Args[0]))
				return
			}
			if err := device.Sort(m); err != nil {
				c.Err(err)
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "reset",
		Help: "home both servos",
		Func: func(c *ishell.Context) {
			if err := device.Reset(); err != nil {
				c.Err(err)
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "testpos",
		Help: "run the positioning servo self-test",
		Func: func(c *ishell.Context) {
			if err := device.PositionSelfTest(); err != nil {
				c.Err(err)
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "testflap",
		Help: "run the flap sweep test",
		Func: func(c *ishell.Context) {
			if err := device.FlapSweepTest(); err != nil {
				c.Err(err)
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "detach",
		Help: "run the detach/reattach test on the positioning servo",
		Func: func(c *ishell.Context) {
			if err := device.DetachTest(); err != nil {
				c.Err(err)
			}
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "state",
		Help: "show last commanded angles",
		Func: func(c *ishell.Context) {
			pos, flap := device.State()
			c.Printf("position: %d deg, flap: %d deg\n", pos, flap)
		},
	})

	shell.Start()
}

// it's annoying to reconnect to the microcontroller if you don't close it
func waitForKillCommand(shutdown func()) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		shutdown()
		os.Exit(0)
	}()
}
