package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/gray-logic-motion/internal/api"
	"github.com/nerrad567/gray-logic-motion/internal/flicker"
	"github.com/nerrad567/gray-logic-motion/internal/runner"
	"github.com/nerrad567/gray-logic-motion/internal/sequence"
)

type serveOptions struct {
	environment string
	sequence    string
	speed       float64
}

func newServeCmd(c *cli) *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the studio behind the HTTP and WebSocket API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.serve(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.environment, "environment", "", "environment preset to apply at startup")
	cmd.Flags().StringVar(&opts.sequence, "sequence", "", "stored sequence to run at startup")
	cmd.Flags().Float64Var(&opts.speed, "speed", 1, "speed multiplier of the startup sequence")
	return cmd
}

func (c *cli) serve(ctx context.Context, opts serveOptions) error {
	log := c.log
	log.Info("starting Gray Motion",
		"version", version,
		"commit", commit,
		"build_date", date,
		"site", c.cfg.Site.ID,
	)

	a, err := newApp(ctx, c.cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := api.New(api.Deps{
		Config:  c.cfg.API,
		WS:      c.cfg.WebSocket,
		Logger:  log.Component("api"),
		Studio:  a.studio,
		Checks:  a.checks(),
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	hub := srv.Hub()
	a.emitter.SetSampleFunc(hub.PublishSample)
	a.addStepHook(hub.PublishStep)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, cleaning up")
		a.studio.StopAll()
		return srv.Close()
	})
	if opts.environment != "" || opts.sequence != "" {
		g.Go(func() error {
			return autostart(gctx, a, opts)
		})
	}

	log.Info("initialisation complete, waiting for shutdown signal")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("Gray Motion stopped")
	return nil
}

// autostart applies the startup environment, then runs the startup
// sequence to its end.
func autostart(ctx context.Context, a *app, opts serveOptions) error {
	if opts.environment != "" {
		if err := a.studio.ApplyEnvironment(ctx, opts.environment); err != nil {
			return fmt.Errorf("applying startup environment: %w", err)
		}
	}
	if opts.sequence == "" {
		return nil
	}
	task, err := a.studio.RunSequence(ctx, opts.sequence, opts.speed, nil)
	if err != nil {
		return fmt.Errorf("starting startup sequence: %w", err)
	}
	return waitTask(ctx, task)
}

type playOptions struct {
	duration time.Duration
	preset   string
	speed    float64
}

func newPlayCmd(c *cli) *cobra.Command {
	var opts playOptions
	cmd := &cobra.Command{
		Use:   "play [template|file]",
		Short: "play a timeline template or file, or an animation preset",
		Long: "play samples a keyframe timeline (a builtin template name or a JSON/YAML file)\n" +
			"or an animation preset (--preset) and prints the final property values.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && opts.preset == "" {
				return errors.New("a timeline source or --preset is required")
			}
			source := ""
			if len(args) == 1 {
				source = args[0]
			}
			return c.play(cmd.Context(), cmd.OutOrStdout(), source, opts)
		},
	}
	cmd.Flags().DurationVar(&opts.duration, "duration", 0, "playback length; zero plays the timeline at its own length")
	cmd.Flags().StringVar(&opts.preset, "preset", "", "animation preset to play instead of a timeline")
	cmd.Flags().Float64Var(&opts.speed, "speed", 1, "speed multiplier of the animation preset")
	return cmd
}

func (c *cli) play(ctx context.Context, out io.Writer, source string, opts playOptions) error {
	a, err := newApp(ctx, c.cfg, c.log)
	if err != nil {
		return err
	}
	defer a.Close()

	var task *runner.Task
	if opts.preset != "" {
		task, err = a.studio.PlayPreset(ctx, opts.preset, opts.speed, nil)
	} else {
		tl, loadErr := loadTimeline(source)
		if loadErr != nil {
			return loadErr
		}
		if _, err = a.studio.SetTimeline("Load "+source, tl); err != nil {
			return err
		}
		task, err = a.studio.Play(ctx, opts.duration, nil)
	}
	if err != nil {
		return err
	}
	if err := waitTask(ctx, task); err != nil {
		return err
	}
	return printJSON(out, a.studio.State())
}

func newSequenceCmd(c *cli) *cobra.Command {
	var speed float64
	cmd := &cobra.Command{
		Use:   "sequence <name|file>",
		Short: "run a stored sequence or a script file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.sequence(cmd.Context(), cmd.OutOrStdout(), args[0], speed)
		},
	}
	cmd.Flags().Float64Var(&speed, "speed", 1, "speed multiplier; waits and transitions are divided by it")
	return cmd
}

func (c *cli) sequence(ctx context.Context, out io.Writer, source string, speed float64) error {
	a, err := newApp(ctx, c.cfg, c.log)
	if err != nil {
		return err
	}
	defer a.Close()

	a.addStepHook(func(script string, index int, step sequence.Step) {
		fmt.Fprintf(out, "[%s] %d %s\n", script, index, step)
	})

	var task *runner.Task
	if _, statErr := os.Stat(source); statErr == nil {
		script, loadErr := loadScript(source)
		if loadErr != nil {
			return loadErr
		}
		name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		task = a.studio.RunScript(ctx, name, script, speed, nil)
	} else {
		task, err = a.studio.RunSequence(ctx, source, speed, nil)
		if err != nil {
			return err
		}
	}
	return waitTask(ctx, task)
}

func newValidateCmd(c *cli) *cobra.Command {
	kind := kindAuto
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "check timeline and sequence files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.validate(cmd.OutOrStdout(), args, kind)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", kindAuto, "file kind: auto, timeline or sequence")
	return cmd
}

func (c *cli) validate(out io.Writer, paths []string, kind string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	failed := 0
	for _, path := range paths {
		problems, err := validateFile(path, kind)
		if err != nil {
			problems = []string{err.Error()}
		}
		if len(problems) == 0 {
			fmt.Fprintf(w, "%s\tok\n", path)
			continue
		}
		failed++
		for _, p := range problems {
			fmt.Fprintf(w, "%s\t%s\n", path, p)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files invalid", failed, len(paths))
	}
	return nil
}

func newPresetsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "presets [environments|animations|sequences|flicker]",
		Short:     "list presets",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"environments", "animations", "sequences", "flicker"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := "environments"
			if len(args) == 1 {
				kind = args[0]
			}
			return c.presets(cmd.Context(), cmd.OutOrStdout(), kind)
		},
	}
}

func (c *cli) presets(ctx context.Context, out io.Writer, kind string) error {
	if kind == "flicker" {
		for _, p := range flicker.Presets() {
			fmt.Fprintln(out, p)
		}
		return nil
	}

	a, err := newApp(ctx, c.cfg, c.log)
	if err != nil {
		return err
	}
	defer a.Close()
	reg := a.studio.Presets()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	switch kind {
	case "environments":
		for _, e := range reg.Environments(ctx) {
			fmt.Fprintf(w, "%s\t%d values\t%s\n", e.Name, len(e.Values), origin(e.Builtin))
		}
	case "animations":
		for _, an := range reg.Animations(ctx) {
			fmt.Fprintf(w, "%s\t%s\t%s\n", an.Name, an.Kind, origin(an.Builtin))
		}
	case "sequences":
		for _, s := range reg.Sequences(ctx) {
			fmt.Fprintf(w, "%s\t%d steps\t%s\n", s.Name, len(s.Steps), origin(s.Builtin))
		}
	default:
		return fmt.Errorf("unknown preset kind %q", kind)
	}
	return w.Flush()
}

func origin(builtin bool) string {
	if builtin {
		return "builtin"
	}
	return "stored"
}

// waitTask blocks until task ends. On interrupt the task is cancelled and
// awaited so its last values are delivered before shutdown.
func waitTask(ctx context.Context, task *runner.Task) error {
	select {
	case <-task.Done():
	case <-ctx.Done():
		task.Cancel()
		<-task.Done()
		return ctx.Err()
	}
	if err := task.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
