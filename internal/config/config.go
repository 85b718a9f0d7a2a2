package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type Specification struct {
	LogDir   string `yaml:"logDir" envconfig:"LOCATION"`
	ChanDir  string `yaml:"chanDir" envconfig:"CHAN_DIR"`
	CSSFile  string `yaml:"cssFile" envconfig:"CSS_FILE"`
	LogLevel string `yaml:"logLevel" split_words:"true"`
	Port     int    `yaml:"port" split_words:"true"`

	flags *pflag.FlagSet `ignored:"true"`
}

const envPrefix = "IRCLOG"

func (s *Specification) Usage() {
	fmt.Fprint(os.Stderr, s.flags.FlagUsages())
}

// Load => defaults < .env/YAML < env < flags.
// configPath may be ""; if so we auto-discover. args are the raw
// command-line arguments (without the program name).
func Load(configPath string, fs *pflag.FlagSet, args []string) (Specification, error) {
	var cfg Specification

	// a .env file, if present, feeds the env layer
	_ = godotenv.Load()

	// set defaults (lowest precedence)
	setDefaults(&cfg)
	bindFlags(fs, &cfg, args)

	// config file
	path := configPath
	if path == "" {
		if v := os.Getenv(envPrefix + "_CONFIG"); v != "" {
			path = v
		} else {
			for _, cand := range []string{
				"config/irclogd.yaml",
				"config/config.yaml",
				"./irclogd.yaml",
				"./config.yaml",
			} {
				if fileExists(cand) {
					path = cand
					break
				}
			}
		}
	}

	if path != "" {
		if !fileExists(path) {
			return Specification{}, fmt.Errorf("config file not found: %s", path)
		}
		if err := loadYAML(path, &cfg); err != nil {
			return Specification{}, fmt.Errorf("load yaml %s: %w", path, err)
		}
	}

	// env overrides config file
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Specification{}, fmt.Errorf("env override: %w", err)
	}

	// flags override everything
	if err := fs.Parse(args); err != nil {
		return Specification{}, err
	}
	applyChangedFlags(fs, &cfg)

	// Minimal sanity
	if strings.TrimSpace(cfg.LogDir) == "" && strings.TrimSpace(cfg.ChanDir) == "" {
		return Specification{}, fmt.Errorf("IRCLOG_LOCATION or IRCLOG_CHAN_DIR is required (env/file/flag)")
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// ChanScoped reports whether logs live in per-channel subdirectories.
func (s *Specification) ChanScoped() bool {
	return s.ChanDir != ""
}

// ---------- helpers ----------

func loadYAML(path string, into any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, into)
}

func fileExists(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}

func bindFlags(fs *pflag.FlagSet, c *Specification, args []string) {
	fs.String("config", "", "Path to config file")

	// If --config is provided on the command line, capture it now so
	// config discovery (which runs before flags.Parse) can use it.
	for i, a := range args {
		if a == "--config" {
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				_ = os.Setenv(envPrefix+"_CONFIG", args[i+1])
			}
		} else if strings.HasPrefix(a, "--config=") {
			parts := strings.SplitN(a, "=", 2)
			if len(parts) == 2 {
				_ = os.Setenv(envPrefix+"_CONFIG", parts[1])
			}
		}
	}

	fs.String("log-dir", c.LogDir, "Directory holding the pre-rendered logs")
	fs.String("chan-dir", c.ChanDir, "Directory with one subdirectory per channel (enables channel scoping)")
	fs.String("css-file", c.CSSFile, "Location of the built-in stylesheet")
	fs.String("log-level", c.LogLevel, "Log level (debug|info|warn|error)")
	fs.Int("port", c.Port, "HTTP server port")

	// Used later for usage/help
	copied := pflag.NewFlagSet("temp", pflag.ContinueOnError)
	*copied = *fs
	c.flags = copied
}

func applyChangedFlags(fs *pflag.FlagSet, c *Specification) {
	setStr := func(name string, dst *string) {
		if fs.Changed(name) {
			v, _ := fs.GetString(name)
			*dst = v
		}
	}
	setInt := func(name string, dst *int) {
		if fs.Changed(name) {
			v, _ := fs.GetInt(name)
			*dst = v
		}
	}

	// (We ignore --config here; it's for discovery.)
	setStr("log-dir", &c.LogDir)
	setStr("chan-dir", &c.ChanDir)
	setStr("css-file", &c.CSSFile)
	setStr("log-level", &c.LogLevel)
	setInt("port", &c.Port)
}

func setDefaults(c *Specification) {
	c.LogDir = "."
	c.CSSFile = "assets/irclog.css"
	c.LogLevel = "info"
	c.Port = 8080
}
