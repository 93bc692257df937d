package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nodemap-go/nodemap/pkg/nodemap"
)

// Config holds the shell configuration. Values come from an optional YAML
// file; flags given on the command line override them.
type Config struct {
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	Capture     string `yaml:"capture"`
	State       string `yaml:"state"`
	LogLevel    string `yaml:"logLevel"`
	Visibility  string `yaml:"visibility"`
	Port        string `yaml:"port"`
}

func defaultConfig() Config {
	return Config{
		LogLevel:   "info",
		Visibility: "Guru",
	}
}

// loadConfigFile reads a YAML config file over cfg.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// applyFlags copies the flags set on the command line into cfg.
func applyFlags(fs *flag.FlagSet, flags *Config, cfg *Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "description":
			cfg.Description = flags.Description
		case "image":
			cfg.Image = flags.Image
		case "capture":
			cfg.Capture = flags.Capture
		case "state":
			cfg.State = flags.State
		case "log-level":
			cfg.LogLevel = flags.LogLevel
		case "visibility":
			cfg.Visibility = flags.Visibility
		case "port":
			cfg.Port = flags.Port
		}
	})
}

func (c Config) validate() error {
	if c.Description == "" {
		return fmt.Errorf("a description file is required")
	}
	if _, err := c.level(); err != nil {
		return err
	}
	if _, err := c.maxVisibility(); err != nil {
		return err
	}
	return nil
}

func (c Config) level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", c.LogLevel)
}

func (c Config) maxVisibility() (nodemap.Visibility, error) {
	v, ok := nodemap.ParseVisibility(c.Visibility)
	if !ok {
		return 0, fmt.Errorf("invalid visibility %q (must be Beginner, Expert, Guru, or Invisible)", c.Visibility)
	}
	return v, nil
}

// registerImage is the YAML form of the initial register contents: a map
// from address to bytes. Addresses accept any strconv base prefix; bytes are
// hex with an optional 0x prefix, or a quoted string prefixed with "text:".
type registerImage map[string]string

// loadImage reads a register image file.
func loadImage(path string) (map[int64][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	var img registerImage
	if err := yaml.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("parsing image %s: %w", path, err)
	}
	return img.decode()
}

func (img registerImage) decode() (map[int64][]byte, error) {
	out := make(map[int64][]byte, len(img))
	for k, v := range img {
		addr, err := strconv.ParseInt(k, 0, 64)
		if err != nil || addr < 0 {
			return nil, fmt.Errorf("invalid image address %q", k)
		}
		if text, ok := strings.CutPrefix(v, "text:"); ok {
			out[addr] = []byte(text)
			continue
		}
		digits := strings.TrimPrefix(strings.TrimPrefix(v, "0x"), "0X")
		b, err := hex.DecodeString(digits)
		if err != nil {
			return nil, fmt.Errorf("invalid image bytes at %s: %w", k, err)
		}
		out[addr] = b
	}
	return out, nil
}
