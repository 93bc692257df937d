// Command nodemap-shell loads a device description and lets you browse
// and drive its node map interactively.
//
// The node map is backed by an in-memory register bank, optionally
// preloaded from a register image, so descriptions can be explored
// without hardware.
//
// Usage:
//
//	nodemap-shell [flags]
//
// Flags:
//
//	-config string       YAML configuration file
//	-description string  Description file (.xml, .yaml)
//	-image string        YAML register image loaded into the memory port
//	-capture string      File path for node map event capture (CBOR format)
//	-state string        JSON file used by the save and load commands
//	-log-level string    Log level: debug, info, warn, error (default "info")
//	-visibility string   Highest visibility shown (default "Guru")
//	-port string         Port node to connect (default: the only port)
//
// Examples:
//
//	# Explore a camera description
//	nodemap-shell -description camera.xml -image camera-regs.yaml
//
//	# Capture register traffic for nodemap-log
//	nodemap-shell -config shell.yaml -capture camera.nlog
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/nodemap-go/nodemap/cmd/nodemap-shell/interactive"
	"github.com/nodemap-go/nodemap/pkg/description"
	"github.com/nodemap-go/nodemap/pkg/log"
	"github.com/nodemap-go/nodemap/pkg/nodemap"
	"github.com/nodemap-go/nodemap/pkg/persistence"
	"github.com/nodemap-go/nodemap/pkg/port"
)

func main() {
	fs := flag.NewFlagSet("nodemap-shell", flag.ExitOnError)
	configFile := fs.String("config", "", "YAML configuration file")
	var flags Config
	fs.StringVar(&flags.Description, "description", "", "Description file (.xml, .yaml)")
	fs.StringVar(&flags.Image, "image", "", "YAML register image loaded into the memory port")
	fs.StringVar(&flags.Capture, "capture", "", "File path for node map event capture (CBOR format)")
	fs.StringVar(&flags.State, "state", "", "JSON file used by the save and load commands")
	fs.StringVar(&flags.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.StringVar(&flags.Visibility, "visibility", "Guru", "Highest visibility shown: Beginner, Expert, Guru, Invisible")
	fs.StringVar(&flags.Port, "port", "", "Port node to connect (default: the only port)")
	_ = fs.Parse(os.Args[1:])

	cfg := defaultConfig()
	if *configFile != "" {
		if err := loadConfigFile(*configFile, &cfg); err != nil {
			fatal(err)
		}
	}
	applyFlags(fs, &flags, &cfg)
	if err := cfg.validate(); err != nil {
		fatal(err)
	}

	if err := run(cfg); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func run(cfg Config) error {
	level, _ := cfg.level()
	maxVisibility, _ := cfg.maxVisibility()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	desc, err := description.Load(cfg.Description)
	if err != nil {
		return err
	}

	opts := []nodemap.Option{nodemap.WithLogger(logger)}
	if cfg.Capture != "" {
		capture, err := log.NewFileLogger(cfg.Capture)
		if err != nil {
			return fmt.Errorf("failed to create capture logger: %w", err)
		}
		defer func() {
			written, dropped := capture.Counts()
			if err := capture.Close(); err != nil {
				logger.Warn("capture incomplete", "file", cfg.Capture, "dropped", dropped, "error", err)
			}
			logger.Debug("capture closed", "file", cfg.Capture, "events", written)
		}()
		var events log.Logger = capture
		if level <= slog.LevelDebug {
			events = log.NewMultiLogger(capture, log.NewSlogAdapter(logger))
		}
		opts = append(opts, nodemap.WithEventLogger(events))
		logger.Info("capturing node map events", "file", cfg.Capture)
	}

	m, err := nodemap.New(desc, opts...)
	if err != nil {
		return err
	}
	defer m.Close()

	mem := port.NewMemoryPort()
	if cfg.Image != "" {
		image, err := loadImage(cfg.Image)
		if err != nil {
			return err
		}
		mem.Load(image)
	}
	if err := m.Connect(mem, cfg.Port); err != nil {
		return err
	}
	logger.Info("node map ready", "model", m.ModelName(), "vendor", m.VendorName(), "nodes", len(m.Nodes()))

	var store *persistence.FileStore
	if cfg.State != "" {
		store = persistence.NewFileStore(cfg.State)
	}
	return interactive.New(m, store, maxVisibility, os.Stdout).Run()
}
