package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/fluxsim/internal/bench"
	"github.com/san-kum/fluxsim/internal/config"
	"github.com/san-kum/fluxsim/internal/export"
	"github.com/san-kum/fluxsim/internal/gui"
	"github.com/san-kum/fluxsim/internal/particle"
	"github.com/san-kum/fluxsim/internal/skin"
	"github.com/san-kum/fluxsim/internal/storage"
	"github.com/san-kum/fluxsim/internal/tui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	dataDir    string
	configFile string
	skinName   string
	modeName   string
	presetName string
	count      int
	speed      float64
	size       float64
	glow       float64
	trail      float64
	seed       int64
	logFile    string
	logLevel   string
	logFormat  string

	// gui
	width  int
	height int
	fps    int
	font   string

	// snapshot
	snapFrames int
	outFile    string
	clicks     []string
	pointer    string

	// bench
	benchFrames int
	benchWidth  float64
	clickRate   int
	runs        int
	csvOut      bool
	save        bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "fluxsim",
		Short:        "interactive particle sandbox",
		SilenceUsage: true,
		RunE:         runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".fluxsim", "data directory for saved bench runs")
	pf.StringVar(&configFile, "config", "", "config file path (yaml), "+defaultConfigPath+" when present")
	pf.StringVar(&skinName, "skin", config.DefaultSkin, "skin: "+strings.Join(skin.Names(), ", "))
	pf.StringVar(&modeName, "mode", config.DefaultMode, "starting mode")
	pf.StringVar(&presetName, "preset", "", "settings preset for the starting mode")
	pf.IntVar(&count, "count", config.DefaultCount, "particle count")
	pf.Float64Var(&speed, "speed", config.DefaultSpeed, "speed multiplier")
	pf.Float64Var(&size, "size", config.DefaultSize, "particle size")
	pf.Float64Var(&glow, "glow", config.DefaultGlow, "glow intensity")
	pf.Float64Var(&trail, "trail", config.DefaultTrail, "trail wash for flow mode")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	pf.StringVar(&logFile, "log", "", "log file (logging is off when empty)")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level")
	pf.StringVar(&logFormat, "log-format", "text", "log format: text or json")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the sandbox in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
	tuiCmd.Flags().IntVar(&fps, "fps", config.DefaultTUIFPS, "frame rate")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the sandbox in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	guiCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "window width")
	guiCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "window height")
	guiCmd.Flags().IntVar(&fps, "fps", config.DefaultGUIFPS, "target frame rate")
	guiCmd.Flags().StringVar(&font, "font", "", "font with katakana glyphs for rain mode")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "run headless and write the last frame as svg",
		Args:  cobra.NoArgs,
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().IntVar(&snapFrames, "frames", 120, "frames to simulate")
	snapshotCmd.Flags().IntVar(&width, "width", 800, "surface width")
	snapshotCmd.Flags().IntVar(&height, "height", 600, "surface height")
	snapshotCmd.Flags().StringVar(&outFile, "out", "", "output file (stdout when empty)")
	snapshotCmd.Flags().StringArrayVar(&clicks, "click", nil, "click at x,y (repeatable)")
	snapshotCmd.Flags().StringVar(&pointer, "pointer", "", "pointer position x,y")

	benchCmd := &cobra.Command{
		Use:   "bench [mode...]",
		Short: "measure frame throughput per mode",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 600, "frames per mode")
	benchCmd.Flags().Float64Var(&benchWidth, "width", 1280, "surface width (height is 9/16 of it)")
	benchCmd.Flags().IntVar(&clickRate, "clicks", 2, "clicks per second of simulated time")
	benchCmd.Flags().IntVar(&runs, "runs", 1, "seeds per mode, run concurrently")
	benchCmd.Flags().BoolVar(&csvOut, "csv", false, "write csv instead of a table")
	benchCmd.Flags().BoolVar(&save, "save", false, "keep the results in the data directory")

	runsCmd := &cobra.Command{
		Use:   "runs [run_id]",
		Short: "list saved bench runs, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listRuns,
	}

	modesCmd := &cobra.Command{
		Use:   "modes",
		Short: "list modes and how the chosen skin labels them",
		Args:  cobra.NoArgs,
		RunE:  listModes,
	}

	skinsCmd := &cobra.Command{
		Use:   "skins",
		Short: "list skins",
		Args:  cobra.NoArgs,
		RunE:  listSkins,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [mode]",
		Short: "list settings presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "inspect or create the config file",
	}
	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "print the effective configuration",
			Args:  cobra.NoArgs,
			RunE:  showConfig,
		},
		&cobra.Command{
			Use:         "init",
			Short:       "write the effective configuration to the config path",
			Args:        cobra.NoArgs,
			Annotations: map[string]string{annotationConfig: "optional"},
			RunE:        initConfig,
		},
	)

	rootCmd.AddCommand(tuiCmd, guiCmd, snapshotCmd, benchCmd, runsCmd, modesCmd, skinsCmd, presetsCmd, configCmd)
	return rootCmd
}

func runTUI(cmd *cobra.Command, args []string) error {
	r, err := resolve(cmd)
	if err != nil {
		return err
	}
	defer r.closer.Close()

	opts := tui.Options{Options: r.session, Scale: r.cfg.TUI.Scale, FPS: r.cfg.TUI.FPS}
	if cmd.Flags().Lookup("fps") != nil && cmd.Flags().Changed("fps") {
		opts.FPS = fps
	}
	r.log.Info("starting terminal host", "skin", r.session.Skin.Name, "mode", r.session.Mode)
	return tui.Run(cmd.Context(), opts)
}

func runGUI(cmd *cobra.Command, args []string) error {
	r, err := resolve(cmd)
	if err != nil {
		return err
	}
	defer r.closer.Close()

	opts := gui.Options{
		Options:  r.session,
		Width:    r.cfg.GUI.Width,
		Height:   r.cfg.GUI.Height,
		FPS:      r.cfg.GUI.FPS,
		FontPath: font,
	}
	if cmd.Flags().Changed("width") {
		opts.Width = width
	}
	if cmd.Flags().Changed("height") {
		opts.Height = height
	}
	if cmd.Flags().Changed("fps") {
		opts.FPS = fps
	}
	r.log.Info("starting window host", "skin", r.session.Skin.Name, "mode", r.session.Mode)
	return gui.Run(cmd.Context(), opts)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	r, err := resolve(cmd)
	if err != nil {
		return err
	}
	defer r.closer.Close()

	opts := export.Options{
		Options: r.session,
		Width:   float64(width),
		Height:  float64(height),
		Frames:  snapFrames,
	}
	for _, c := range clicks {
		p, err := parsePoint(c)
		if err != nil {
			return fmt.Errorf("--click: %w", err)
		}
		opts.Clicks = append(opts.Clicks, p)
	}
	if pointer != "" {
		p, err := parsePoint(pointer)
		if err != nil {
			return fmt.Errorf("--pointer: %w", err)
		}
		opts.Pointer = &p
	}

	out := cmd.OutOrStdout()
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	stats, err := export.Snapshot(cmd.Context(), out, opts)
	if err != nil {
		return err
	}
	r.log.Info("snapshot written", "out", outFile, "stats", stats)
	if outFile != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d frames, %d particles peak)\n", outFile, stats.Frames, stats.Peak)
	}
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	r, err := resolve(cmd)
	if err != nil {
		return err
	}
	defer r.closer.Close()

	modes := particle.AllModes
	if len(args) > 0 {
		modes = make([]particle.Mode, 0, len(args))
		for _, a := range args {
			m, err := particle.ParseMode(a)
			if err != nil {
				return err
			}
			modes = append(modes, m)
		}
	}

	if !csvOut {
		fmt.Fprintf(cmd.OutOrStdout(), "benchmarking %d modes, %d frames each\n\n", len(modes), benchFrames)
	}
	cfg := bench.Config{
		Modes:    modes,
		Frames:   benchFrames,
		Width:    benchWidth,
		Height:   benchWidth * 9 / 16,
		Settings: r.session.Settings.Engine(),
		Seed:     r.session.Seed,
		Clicks:   clickRate,
		Runs:     runs,
	}
	results, err := bench.Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	r.log.Info("bench finished", "modes", len(modes), "results", len(results))

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, r.session.Settings, results)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved %s\n", runID)
	}

	if csvOut {
		return bench.WriteCSV(cmd.OutOrStdout(), results)
	}
	return bench.WriteTable(cmd.OutOrStdout(), results)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		meta, err := st.Load(args[0])
		if err != nil {
			return fmt.Errorf("run %s: %w", args[0], err)
		}
		results, err := st.LoadResults(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s  %s  seed=%d  %s\n\n", meta.ID, meta.Timestamp.Format("2006-01-02 15:04:05"),
			meta.Seed, strings.Join(meta.Modes, ","))
		return bench.WriteTable(out, results)
	}

	list, err := st.List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tMODES\tFRAMES\tRUNS\tSEED\tCOUNT")
	for _, run := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			strings.Join(run.Modes, ","),
			run.Frames,
			run.Runs,
			run.Seed,
			run.Settings.Count,
		)
	}
	return w.Flush()
}

func listModes(cmd *cobra.Command, args []string) error {
	s, err := skin.Get(skinName)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "KEY\tMODE\t%s\tDESCRIPTION\n", strings.ToUpper(s.Name))
	for i, l := range s.Modes {
		fmt.Fprintf(w, "%d\t%s\t%s %s\t%s\n", i+1, l.Mode, l.Icon, l.Name, l.Description)
	}
	return w.Flush()
}

func listSkins(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SKIN\tTITLE\tMODES")
	for _, s := range skin.Skins {
		fmt.Fprintf(w, "%s\t%s\t%d\n", s.Name, s.Title, len(s.Modes))
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	modes := particle.AllModes
	if len(args) == 1 {
		m, err := particle.ParseMode(args[0])
		if err != nil {
			return err
		}
		modes = []particle.Mode{m}
	}

	out := cmd.OutOrStdout()
	for _, m := range modes {
		names := config.ListPresets(m.String())
		if len(names) == 0 {
			fmt.Fprintf(out, "no presets for mode: %s\n", m)
			continue
		}
		fmt.Fprintf(out, "presets for %s:\n", m)
		for _, n := range names {
			p, _ := config.GetPreset(m.String(), n)
			fmt.Fprintf(out, "  %-12s count=%d speed=%.1f size=%.1f glow=%.0f trail=%.2f\n",
				n, p.Count, p.Speed, p.Size, p.Glow, p.Trail)
		}
	}
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	r, err := resolve(cmd)
	if err != nil {
		return err
	}
	defer r.closer.Close()
	data, err := yaml.Marshal(r.cfg)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func initConfig(cmd *cobra.Command, args []string) error {
	r, err := resolve(cmd)
	if err != nil {
		return err
	}
	defer r.closer.Close()

	path := configFile
	if path == "" {
		path = defaultConfigPath
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := config.Save(path, r.cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
