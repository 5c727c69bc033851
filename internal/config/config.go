package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lowaak/pulse/internal/catalog"
	"github.com/lowaak/pulse/internal/nav"
)

// AppDirName is the per-user directory holding the config and log files
const AppDirName = ".pulse"

// Config is the resolved application configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	UI       UIConfig       `mapstructure:"ui"`
	Training TrainingConfig `mapstructure:"training"`

	// ConfigFile is the file that was read, empty when none was found
	ConfigFile string `mapstructure:"-"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type UIConfig struct {
	DarkMode bool `mapstructure:"dark_mode"`
	// Open is a route path shown right after login, e.g. "training/Core%20Strength/12/COUNTDOWN"
	Open string `mapstructure:"open"`
}

// TrainingConfig holds the starting values of the settings screen
type TrainingConfig struct {
	Intensity      string `mapstructure:"intensity"`
	CountdownSound bool   `mapstructure:"countdown_sound"`
	Vibration      bool   `mapstructure:"vibration"`
}

func appDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, AppDirName)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.file", filepath.Join(appDir(), "pulse.log"))
	v.SetDefault("log.max_size_mb", 5)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("ui.dark_mode", false)
	v.SetDefault("ui.open", "")
	v.SetDefault("training.intensity", "Normal")
	v.SetDefault("training.countdown_sound", true)
	v.SetDefault("training.vibration", true)
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("pulse", pflag.ContinueOnError)
	fs.String("config", "", "path to a config file (default $HOME/.pulse/pulse.yaml)")
	fs.String("log-file", "", "log file path")
	fs.Bool("dark-mode", false, "start in dark mode")
	fs.String("open", "", "route to open after login, e.g. session/Running/0/STOPWATCH")
	fs.String("intensity", "", "training intensity: Easy, Normal or Hard")
	fs.Bool("countdown-sound", true, "play a sound when a countdown ends")
	fs.Bool("vibration", true, "vibration feedback")
	return fs
}

var flagKeys = map[string]string{
	"log-file":        "log.file",
	"dark-mode":       "ui.dark_mode",
	"open":            "ui.open",
	"intensity":       "training.intensity",
	"countdown-sound": "training.countdown_sound",
	"vibration":       "training.vibration",
}

// Load resolves the configuration from, in order of precedence, command-line
// flags, PULSE_* environment variables, the config file and defaults.
func Load(args []string) (*Config, error) {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	v.SetEnvPrefix("PULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configFile, _ := fs.GetString("config")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("pulse")
		v.SetConfigType("yaml")
		v.AddConfigPath(appDir())
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that the settings screen cannot represent
func (c *Config) Validate() error {
	if !catalog.ValidIntensity(c.Training.Intensity) {
		return fmt.Errorf("invalid training.intensity %q: want one of %s",
			c.Training.Intensity, strings.Join(catalog.Intensities, ", "))
	}
	if c.Log.File == "" {
		return errors.New("log.file cannot be empty")
	}
	if c.UI.Open != "" {
		if _, err := nav.ParseRoute(c.UI.Open); err != nil {
			return fmt.Errorf("invalid ui.open: %w", err)
		}
	}
	return nil
}
