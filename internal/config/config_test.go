package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func clearTestEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"IRCLOG_CONFIG",
		"IRCLOG_LOCATION",
		"IRCLOG_CHAN_DIR",
		"IRCLOG_CSS_FILE",
		"IRCLOG_LOG_LEVEL",
		"IRCLOG_PORT",
	} {
		if v, ok := os.LookupEnv(key); ok {
			t.Setenv(key, v) // restore after the test
			os.Unsetenv(key)
		}
	}
}

func TestSpecificationDefaults(t *testing.T) {
	clearTestEnv(t)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)

	cfg, err := Load("", fs, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LogDir != "." {
		t.Errorf("Expected LogDir %q, got %q", ".", cfg.LogDir)
	}
	if cfg.ChanDir != "" {
		t.Errorf("Expected empty ChanDir, got %q", cfg.ChanDir)
	}
	if cfg.CSSFile != "assets/irclog.css" {
		t.Errorf("Expected CSSFile %q, got %q", "assets/irclog.css", cfg.CSSFile)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel %q, got %q", "info", cfg.LogLevel)
	}
	if cfg.Port != 8080 {
		t.Errorf("Expected Port %d, got %d", 8080, cfg.Port)
	}
	if cfg.ChanScoped() {
		t.Error("Expected ChanScoped() to be false by default")
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	clearTestEnv(t)
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "test-config.yaml")

	yamlContent := `
logDir: "/var/www/irclogs"
cssFile: "/etc/irclogd/irclog.css"
logLevel: "debug"
port: 9090
`
	if err := os.WriteFile(configFile, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg, err := Load(configFile, fs, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LogDir != "/var/www/irclogs" {
		t.Errorf("Expected LogDir %q, got %q", "/var/www/irclogs", cfg.LogDir)
	}
	if cfg.CSSFile != "/etc/irclogd/irclog.css" {
		t.Errorf("Expected CSSFile %q, got %q", "/etc/irclogd/irclog.css", cfg.CSSFile)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LogLevel %q, got %q", "debug", cfg.LogLevel)
	}
	if cfg.Port != 9090 {
		t.Errorf("Expected Port %d, got %d", 9090, cfg.Port)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearTestEnv(t)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), fs, nil)
	if err == nil {
		t.Fatal("Expected error for missing config file")
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	clearTestEnv(t)
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "test-config.yaml")
	if err := os.WriteFile(configFile, []byte("logDir: /from/yaml\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("IRCLOG_LOCATION", "/from/env")
	t.Setenv("IRCLOG_CHAN_DIR", "/chans")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg, err := Load(configFile, fs, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LogDir != "/from/env" {
		t.Errorf("Expected LogDir %q, got %q", "/from/env", cfg.LogDir)
	}
	if cfg.ChanDir != "/chans" {
		t.Errorf("Expected ChanDir %q, got %q", "/chans", cfg.ChanDir)
	}
	if !cfg.ChanScoped() {
		t.Error("Expected ChanScoped() to be true")
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	clearTestEnv(t)
	t.Setenv("IRCLOG_LOCATION", "/from/env")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg, err := Load("", fs, []string{"--log-dir", "/from/flag", "--port", "3000"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LogDir != "/from/flag" {
		t.Errorf("Expected LogDir %q, got %q", "/from/flag", cfg.LogDir)
	}
	if cfg.Port != 3000 {
		t.Errorf("Expected Port %d, got %d", 3000, cfg.Port)
	}
}
