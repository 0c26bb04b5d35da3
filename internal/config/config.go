package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"

	"foliotui/internal/domain"
	"foliotui/internal/eventbus"
	"foliotui/internal/scrubsync"
	"foliotui/internal/visibility"
)

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidThreshold = errors.New("motion threshold must be in (0, 1]")
	ErrInvalidDuration  = errors.New("durations must not be negative")
	ErrInvalidColor     = errors.New("invalid color")
)

// Config represents the application configuration
type Config struct {
	Version  int            `toml:"version"`
	Reader   ReaderSettings `toml:"reader"`
	Scrubber ScrubberConfig `toml:"scrubber"`
}

// ReaderSettings represents how documents are laid out
type ReaderSettings struct {
	Direction domain.DirectionMode `toml:"direction"`
	WrapWidth int                  `toml:"wrap_width"` // 0 follows the terminal width
	Watch     bool                 `toml:"watch"`
}

// ScrubberConfig holds the scrubber timings and colors
type ScrubberConfig struct {
	ShowSpeed          Duration `toml:"show_speed"`
	HideSpeed          Duration `toml:"hide_speed"`
	HideDelay          Duration `toml:"hide_delay"`
	MotionThreshold    float64  `toml:"motion_threshold"`
	BaselineResetDelay Duration `toml:"baseline_reset_delay"`
	FrameInterval      Duration `toml:"frame_interval"`
	TrackColor         string   `toml:"track_color"`
	ThumbColor         string   `toml:"thumb_color"`
}

// Duration is a time.Duration written as "600ms" in the config file
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDuration, text)
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// EngineSettings converts the scrubber section into engine settings
func (c *Config) EngineSettings() scrubsync.Settings {
	s := c.Scrubber
	return scrubsync.Settings{
		Visibility: visibility.Settings{
			ShowSpeed: s.ShowSpeed.Std(),
			HideSpeed: s.HideSpeed.Std(),
			HideDelay: s.HideDelay.Std(),
		},
		MotionThreshold:    s.MotionThreshold,
		BaselineResetDelay: s.BaselineResetDelay.Std(),
		FrameInterval:      s.FrameInterval.Std(),
	}
}

// SetDirection overrides the reader direction from a flag value
func (c *Config) SetDirection(name string) error {
	mode, err := domain.ParseDirectionMode(name)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, name)
	}
	c.Reader.Direction = mode
	return nil
}

// Validate checks every value that would otherwise misbehave at runtime
func (c *Config) Validate() error {
	if !c.Reader.Direction.Supported() {
		return fmt.Errorf("%w: %d", ErrInvalidDirection, c.Reader.Direction)
	}
	if c.Reader.WrapWidth < 0 {
		return fmt.Errorf("wrap_width must not be negative, got %d", c.Reader.WrapWidth)
	}

	s := c.Scrubber
	if !(s.MotionThreshold > 0 && s.MotionThreshold <= 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, s.MotionThreshold)
	}
	durations := map[string]Duration{
		"show_speed":           s.ShowSpeed,
		"hide_speed":           s.HideSpeed,
		"hide_delay":           s.HideDelay,
		"baseline_reset_delay": s.BaselineResetDelay,
		"frame_interval":       s.FrameInterval,
	}
	for name, d := range durations {
		if d < 0 {
			return fmt.Errorf("%w: %s is %s", ErrInvalidDuration, name, d.Std())
		}
	}
	for name, hex := range map[string]string{"track_color": s.TrackColor, "thumb_color": s.ThumbColor} {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("%w: %s %q", ErrInvalidColor, name, hex)
		}
	}
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath returns $XDG_CONFIG_HOME/foliotui/config.toml or its platform equivalent
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "foliotui", "config.toml")
}

// NewConfigService creates a config service for path; an empty path uses DefaultPath
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

func (cs *configService) Path() string { return cs.filePath }

// Load loads the configuration from file, falling back to defaults when it does not exist
func (cs *configService) Load() (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		cfg, err = cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Keys missing from the
// file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := Marshal(config)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders config as TOML
func Marshal(config *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(config); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return buf.Bytes(), nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	d := scrubsync.DefaultSettings()
	return &Config{
		Version: 1,
		Reader: ReaderSettings{
			Direction: domain.Vertical,
			Watch:     true,
		},
		Scrubber: ScrubberConfig{
			ShowSpeed:          Duration(d.Visibility.ShowSpeed),
			HideSpeed:          Duration(d.Visibility.HideSpeed),
			HideDelay:          Duration(d.Visibility.HideDelay),
			MotionThreshold:    d.MotionThreshold,
			BaselineResetDelay: Duration(d.BaselineResetDelay),
			FrameInterval:      Duration(d.FrameInterval),
			TrackColor:         "#3a3a3a",
			ThumbColor:         "#5fafd7",
		},
	}
}
