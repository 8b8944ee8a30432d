package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"

	"github.com/san-kum/fluxsim/internal/config"
	"github.com/san-kum/fluxsim/internal/control"
	"github.com/san-kum/fluxsim/internal/export"
	"github.com/san-kum/fluxsim/internal/logging"
	"github.com/san-kum/fluxsim/internal/particle"
	"github.com/san-kum/fluxsim/internal/skin"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "fluxsim.yaml"

// annotationConfig set to "optional" lets a command run against a --config
// path that does not exist yet.
const annotationConfig = "config"

type resolved struct {
	cfg     *config.Config
	session control.Options
	log     *slog.Logger
	closer  io.Closer
}

// resolve layers the configuration: skin defaults, then the config file,
// then a preset, then explicit flags.
func resolve(cmd *cobra.Command) (*resolved, error) {
	flags := cmd.Flags()

	cfg, fromFile, err := loadConfig(cmd.Annotations[annotationConfig] == "optional")
	if err != nil {
		return nil, err
	}

	if flags.Changed("skin") {
		cfg.Skin = skinName
	}
	if flags.Changed("mode") {
		cfg.Mode = modeName
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("log") {
		cfg.Log.File = logFile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}

	sk, err := skin.Get(cfg.Skin)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(skin.Names(), ", "))
	}
	mode, err := particle.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	if !fromFile {
		cfg.Settings = sk.Defaults
	}
	if presetName != "" {
		p, ok := config.GetPreset(mode.String(), presetName)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", presetName, config.ListPresets(mode.String()))
		}
		cfg.Settings = p
	}
	if flags.Changed("count") {
		cfg.Settings.Count = count
	}
	if flags.Changed("speed") {
		cfg.Settings.Speed = speed
	}
	if flags.Changed("size") {
		cfg.Settings.Size = size
	}
	if flags.Changed("glow") {
		cfg.Settings.Glow = glow
	}
	if flags.Changed("trail") {
		cfg.Settings.Trail = trail
	}
	cfg.Settings = cfg.Settings.Clamp()

	log, closer, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	if !sk.Supports(mode) {
		log.Warn("mode not offered by skin, using its first mode", "mode", mode, "skin", sk.Name)
	}

	return &resolved{
		cfg: cfg,
		session: control.Options{
			Skin:     sk,
			Mode:     mode,
			Settings: cfg.Settings,
			Seed:     cfg.Seed,
			Logger:   log,
		},
		log:    log,
		closer: closer,
	}, nil
}

// loadConfig reads --config, or the default path when it exists. A missing
// default file is not an error.
func loadConfig(optional bool) (*config.Config, bool, error) {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if optional && errors.Is(err, fs.ErrNotExist) {
			return config.DefaultConfig(), false, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, true, nil
	}
	cfg, err := config.Load(defaultConfigPath)
	if errors.Is(err, fs.ErrNotExist) {
		return config.DefaultConfig(), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, true, nil
}

func parsePoint(s string) (export.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return export.Point{}, fmt.Errorf("expected x,y, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return export.Point{}, fmt.Errorf("bad x in %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return export.Point{}, fmt.Errorf("bad y in %q: %w", s, err)
	}
	return export.Point{X: x, Y: y}, nil
}
