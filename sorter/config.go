package sorter

import (
	"fmt"
	"time"

	"github.com/Masterminds/semver"
	"gopkg.in/yaml.v2"
)

// CONFIG_VERSION constrains the config schema this build understands.
const CONFIG_VERSION = "~1.0"

// Duration lets timing values be written as "800ms" in the YAML file.
type Duration time.Duration

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

type TimingConfig struct {
	PositionSettle Duration `yaml:"position_settle"` // after a bin selection move
	FlapStep       Duration `yaml:"flap_step"`       // per 2° of flap ramp travel
	OpenDwell      Duration `yaml:"open_dwell"`      // flap held open, item falling
	CloseSettle    Duration `yaml:"close_settle"`    // after the flap closes
	HomeSettle     Duration `yaml:"home_settle"`     // after returning to rest
	DiagDwell      Duration `yaml:"diag_dwell"`      // per stop in the position self-test
	DetachPause    Duration `yaml:"detach_pause"`    // hands-on window in the detach test
}

type SorterConfig struct {
	Version string `yaml:"version"`

	Serial struct {
		Device string `yaml:"device"`
		Baud   int    `yaml:"baud"`
	} `yaml:"serial"`

	// firmata (default), feetech or sim
	Backend string `yaml:"backend"`

	Firmata struct {
		Device       string `yaml:"device"`
		Baud         int    `yaml:"baud"`
		PositionPin  uint8  `yaml:"position_pin"`
		FlapPin      uint8  `yaml:"flap_pin"`
		IndicatorPin uint8  `yaml:"indicator_pin"`
	} `yaml:"firmata"`

	Feetech struct {
		Port       string `yaml:"port"`
		Baud       int    `yaml:"baud"`
		PositionID int    `yaml:"position_id"`
		FlapID     int    `yaml:"flap_id"`
	} `yaml:"feetech"`

	// earlier flap hardware only swung to 90
	FlapOpen int `yaml:"flap_open"`

	Verify struct {
		Enabled   bool `yaml:"enabled"`
		Tolerance int  `yaml:"tolerance"`
	} `yaml:"verify"`

	Timing TimingConfig `yaml:"timing"`
}

func DefaultTiming() TimingConfig {
	return TimingConfig{
		PositionSettle: Duration(800 * time.Millisecond),
		FlapStep:       Duration(15 * time.Millisecond),
		OpenDwell:      Duration(time.Second),
		CloseSettle:    Duration(300 * time.Millisecond),
		HomeSettle:     Duration(300 * time.Millisecond),
		DiagDwell:      Duration(2 * time.Second),
		DetachPause:    Duration(5 * time.Second),
	}
}

func DefaultConfig() (cfg SorterConfig) {
	cfg.Version = "1.0.0"
	cfg.Serial.Device = "/dev/ttyUSB0"
	cfg.Serial.Baud = 9600
	cfg.Backend = "firmata"
	cfg.Firmata.Device = "/dev/ttyACM0"
	cfg.Firmata.Baud = 57600
	cfg.Firmata.PositionPin = 9
	cfg.Firmata.FlapPin = 10
	cfg.Firmata.IndicatorPin = 13
	cfg.Feetech.Baud = 1000000
	cfg.Feetech.PositionID = 1
	cfg.Feetech.FlapID = 2
	cfg.FlapOpen = 180
	cfg.Verify.Tolerance = 3
	cfg.Timing = DefaultTiming()
	return
}

// ParseConfig unmarshals a YAML config on top of the defaults and rejects
// schema versions this build was not written for.
func ParseConfig(data []byte) (cfg SorterConfig, err error) {
	cfg = DefaultConfig()
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return
	}

	ver, err := semver.NewVersion(cfg.Version)
	if err != nil {
		err = fmt.Errorf("bad config version %q: %v", cfg.Version, err)
		return
	}

	constraint, err := semver.NewConstraint(CONFIG_VERSION)
	if err != nil {
		return
	}

	if !constraint.Check(ver) {
		err = fmt.Errorf("unable to use config version %s - require %s", cfg.Version, CONFIG_VERSION)
		return
	}

	if cfg.FlapOpen <= FlapClosed || cfg.FlapOpen > 180 {
		err = fmt.Errorf("flap_open %d must be within (0, 180]", cfg.FlapOpen)
	}

	return
}
