package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/diffdrive/internal/automation"
	"github.com/san-kum/diffdrive/internal/config"
	"github.com/san-kum/diffdrive/internal/geom"
	"github.com/san-kum/diffdrive/internal/logging"
	"github.com/san-kum/diffdrive/internal/storage"
	"github.com/san-kum/diffdrive/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	port       string
	baud       int
	timeout    time.Duration
	noSave     bool
	nonBlock   bool
	width      int
	height     int
	scale      float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "diffdrive",
		Short:         "differential-drive motion control",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".diffdrive", "data directory")
	pf.StringVar(&configFile, "config", "", "robot profile (yaml)")
	pf.StringVar(&preset, "preset", "", "use a built-in profile")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&port, "port", "", "serial port of a real robot; empty runs the simulator")
	pf.IntVar(&baud, "baud", 0, "serial baud rate")

	runCmd := &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenarioFile,
	}
	addRunFlags(runCmd)

	driveCmd := &cobra.Command{
		Use:   "drive [distance]",
		Short: "drive straight by inches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("distance: %w", err)
			}
			return runCommand(cmd, "drive", automation.Step{Action: "drive", Distance: d})
		},
	}

	turnCmd := &cobra.Command{
		Use:   "turn [heading]",
		Short: "turn in place to a field heading in degrees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("heading: %w", err)
			}
			return runCommand(cmd, "turn", automation.Step{Action: "turn_to", Heading: h})
		},
	}

	moveCmd := &cobra.Command{
		Use:   "move [x,y]",
		Short: "move to a field point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePoint(args[0])
			if err != nil {
				return err
			}
			return runCommand(cmd, "move", automation.Step{Action: "move_to", Point: p})
		},
	}

	faceCmd := &cobra.Command{
		Use:   "face [x,y]",
		Short: "seek a field point, reversing into points behind the robot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePoint(args[0])
			if err != nil {
				return err
			}
			return runCommand(cmd, "face", automation.Step{Action: "turn_to_point", Point: p})
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path [x,y]...",
		Short: "follow waypoints with pure pursuit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := make([]geom.Vector2, 0, len(args))
			for _, a := range args {
				p, err := parsePoint(a)
				if err != nil {
					return err
				}
				path = append(path, p)
			}
			return runCommand(cmd, "path", automation.Step{Action: "follow_path", Path: path})
		},
	}

	for _, c := range []*cobra.Command{driveCmd, turnCmd, moveCmd, faceCmd, pathCmd} {
		addRunFlags(c)
	}

	liveCmd := &cobra.Command{
		Use:   "live [scenario.yaml]",
		Short: "run a scenario with the live dashboard",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().Float64Var(&scale, "scale", 1, "dashboard dots per inch")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "chart drive and turn error of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&width, "width", 70, "chart width")
	plotCmd.Flags().IntVar(&height, "height", 12, "chart height")

	trajectoryCmd := &cobra.Command{
		Use:   "trajectory [run_id] [out.png]",
		Short: "plot estimated and true paths to an image",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  plotTrajectory,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id] [path]",
		Short: "export run data to JSON",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0] + ".json"
			if len(args) > 1 {
				path = args[1]
			}
			if err := storage.New(dataDir).ExportJSON(args[0], path); err != nil {
				return err
			}
			fmt.Printf("exported %s to %s\n", args[0], path)
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the resolved profile as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, "")
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return config.Save(args[0], cfg)
			}
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		},
	}

	rootCmd.AddCommand(runCmd, driveCmd, turnCmd, moveCmd, faceCmd, pathCmd, liveCmd,
		listCmd, plotCmd, trajectoryCmd, exportJSONCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-step timeout")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	cmd.Flags().BoolVar(&nonBlock, "no-wait", false, "issue single commands without waiting (scenario settles at the end)")
}

func parsePoint(s string) (geom.Vector2, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geom.Vector2{}, fmt.Errorf("point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return geom.Vector2{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return geom.Vector2{}, fmt.Errorf("point %q: %w", s, err)
	}
	return geom.Vec(x, y), nil
}

// resolveConfig layers defaults, then a preset (flag or scenario profile),
// then a config file, then flags.
func resolveConfig(cmd *cobra.Command, profile string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	name := preset
	if name == "" {
		name = profile
	}
	if name != "" {
		p := config.GetPreset(name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Serial.Port = port
	}
	if flags.Changed("baud") {
		cfg.Serial.Baud = baud
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config) (*log.Logger, error) {
	return logging.New(os.Stderr, cfg.LogLevel)
}

func runScenarioFile(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}
	return execute(cmd, sc, nil)
}

func runCommand(cmd *cobra.Command, name string, step automation.Step) error {
	sc := &automation.Scenario{Name: name, Steps: []automation.Step{step}}
	if nonBlock && step.Action != "follow_path" {
		b := false
		sc.Steps[0].Blocking = &b
		sc.Steps = append(sc.Steps, automation.Step{Action: "settle"})
	}
	return execute(cmd, sc, nil)
}

// execute runs sc on a fresh rig and stores the run. attach, when set,
// runs alongside the scenario and cancels it on return.
func execute(cmd *cobra.Command, sc *automation.Scenario, attach func(*rig) error) error {
	cfg, err := resolveConfig(cmd, sc.Profile)
	if err != nil {
		return err
	}
	if sc.Start != nil {
		cfg.Start = config.StartConfig{X: sc.Start.Position.X, Y: sc.Start.Position.Y, Heading: sc.Start.Heading}
	}
	if sc.StepTimeout == 0 {
		sc.StepTimeout = timeout
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	if attach != nil {
		// the dashboard owns the terminal
		logger.SetLevel(log.ErrorLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r, err := newRig(cfg, logger)
	if err != nil {
		return err
	}
	if err := r.start(ctx); err != nil {
		return err
	}

	began := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	scCtx, cancelScenario := context.WithCancel(gctx)
	defer cancelScenario()

	g.Go(func() error {
		return automation.Run(scCtx, sc, r.drive, r.hooks, logger)
	})
	if attach != nil {
		g.Go(func() error {
			defer cancelScenario()
			return attach(r)
		})
	}
	runErr := g.Wait()
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	if err := r.shutdown(); err != nil && runErr == nil {
		runErr = err
	}

	pose := r.drive.Pose()
	fmt.Printf("completed in %v\n", time.Since(began).Round(time.Millisecond))
	fmt.Printf("final pose: %s\n", pose)
	if r.plant != nil {
		fmt.Printf("true pose:  %s\n", r.plant.Pose())
	}
	fmt.Println("\nmetrics:")
	for name, val := range r.metrics.Values() {
		fmt.Printf("  %s: %.4f\n", name, val)
	}

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		name := sc.Name
		if name == "" {
			name = "run"
		}
		id, err := r.save(st, name, cfg.Name)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", id)
	}
	return runErr
}

func runLive(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}
	title := sc.Name
	if title == "" {
		title = args[0]
	}
	return execute(cmd, sc, func(r *rig) error {
		return viz.Run(r.recorder, title, scale)
	})
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROFILE\tSOURCE\tCYCLES\tTIMESTAMP")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			run.ID, run.Profile, run.Source, run.Cycles, run.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}

	chart, err := viz.PlotErrors(rows, width, height)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s, %d cycles)\n\n", meta.ID, meta.Source, meta.Cycles)
	fmt.Println(chart)
	return nil
}

func plotTrajectory(cmd *cobra.Command, args []string) error {
	rows, err := storage.New(dataDir).LoadTrace(args[0])
	if err != nil {
		return err
	}
	out := args[0] + ".png"
	if len(args) > 1 {
		out = args[1]
	}
	if err := viz.SaveTrajectory(rows, args[0], out); err != nil {
		return err
	}
	fmt.Printf("saved %s\n", out)
	return nil
}
