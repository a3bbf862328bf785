package config

import (
	"errors"
	"fmt"
	"maps"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/JeanRibes/looper/shared"
	"github.com/JeanRibes/looper/surface"
)

const DefaultPath = "~/.config/looper/config.yaml"

type Config struct {
	Audio       Audio            `yaml:"audio"`
	Midi        Midi             `yaml:"midi"`
	Controllers map[string]uint8 `yaml:"controllers"`
	Keyboard    Keyboard         `yaml:"keyboard"`
	Serial      Serial           `yaml:"serial"`
	Log         Log              `yaml:"log"`
}

type Audio struct {
	SampleRate      float64 `yaml:"sample_rate"`
	FramesPerBuffer int     `yaml:"frames_per_buffer"`
	MaxLoopSeconds  float64 `yaml:"max_loop_seconds"`
	Threshold       float32 `yaml:"threshold"`
	Slots           int     `yaml:"slots"`
	QueueSize       int     `yaml:"queue_size"`
}

// Capacity is the size of every loop buffer, in samples per channel.
func (a Audio) Capacity() int {
	return int(a.SampleRate * a.MaxLoopSeconds)
}

type Midi struct {
	Input       string `yaml:"input"`
	Output      string `yaml:"output"`
	Channel     uint8  `yaml:"channel"`
	VirtualName string `yaml:"virtual_name"`
}

type Keyboard struct {
	MinPitch    uint8 `yaml:"min_pitch"`
	Width       uint8 `yaml:"width"`
	ProgramKeys uint8 `yaml:"program_keys"`
}

type Serial struct {
	Port   string `yaml:"port"`
	Baud   int    `yaml:"baud"`
	Keymap string `yaml:"keymap"`
}

type Log struct {
	Level string `yaml:"level"`
}

func Default() Config {
	return Config{
		Audio: Audio{
			SampleRate:      48000,
			FramesPerBuffer: 256,
			MaxLoopSeconds:  60,
			Threshold:       1e-4,
			Slots:           shared.NUM_SLOTS,
			QueueSize:       256,
		},
		Midi: Midi{
			Input:       "midi314",
			VirtualName: "looper",
		},
		Controllers: maps.Clone(surface.DefaultControllers),
		Keyboard: Keyboard{
			MinPitch:    48,
			Width:       28,
			ProgramKeys: 10,
		},
		Serial: Serial{
			Port:   "/dev/ttyACM0",
			Baud:   115200,
			Keymap: "~/.config/looper/keymap.txt",
		},
		Log: Log{Level: "info"},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if cfg.Serial.Keymap, err = homedir.Expand(cfg.Serial.Keymap); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	a := c.Audio
	if a.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.sample_rate must be positive, got %v", a.SampleRate))
	}
	if a.FramesPerBuffer <= 0 {
		errs = append(errs, fmt.Errorf("audio.frames_per_buffer must be positive, got %d", a.FramesPerBuffer))
	}
	if a.MaxLoopSeconds <= 0 {
		errs = append(errs, fmt.Errorf("audio.max_loop_seconds must be positive, got %v", a.MaxLoopSeconds))
	} else if a.SampleRate > 0 && a.Capacity() < a.FramesPerBuffer {
		errs = append(errs, errors.New("audio.max_loop_seconds is shorter than one buffer"))
	}
	if a.Threshold < 0 {
		errs = append(errs, fmt.Errorf("audio.threshold must not be negative, got %v", a.Threshold))
	}
	if a.Slots < 1 || a.Slots > 128 {
		errs = append(errs, fmt.Errorf("audio.slots must be in [1, 128], got %d", a.Slots))
	}
	if a.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("audio.queue_size must be positive, got %d", a.QueueSize))
	}
	if c.Midi.Channel > 15 {
		errs = append(errs, fmt.Errorf("midi.channel must be in [0, 15], got %d", c.Midi.Channel))
	}
	if _, err := surface.NewKeyboard(c.Controllers); err != nil {
		errs = append(errs, fmt.Errorf("controllers: %w", err))
	}
	if c.Keyboard.Width == 0 {
		errs = append(errs, errors.New("keyboard.width must be positive"))
	}
	if c.Serial.Baud <= 0 {
		errs = append(errs, fmt.Errorf("serial.baud must be positive, got %d", c.Serial.Baud))
	}
	if _, err := charmlog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// NewKeyboard builds the control surface decoder described by the config.
func (c *Config) NewKeyboard() (*surface.Keyboard, error) {
	kb, err := surface.NewKeyboard(c.Controllers)
	if err != nil {
		return nil, err
	}
	kb.MinPitch = c.Keyboard.MinPitch
	kb.KeyboardWidth = c.Keyboard.Width
	kb.ProgramKeys = c.Keyboard.ProgramKeys
	return kb, nil
}
