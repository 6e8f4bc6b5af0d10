// Gray Motion - property animation studio
//
// graymotion drives scene properties (sun, fog, colour grading, field of
// view) from keyframe timelines, animation presets, flickers, transitions
// and scripted sequences, publishing every tick to an MQTT sink.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gray-logic-motion/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-motion/internal/infrastructure/logging"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// configEnv names the config file when --config is not given.
const configEnv = "GRAYMOTION_CONFIG"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli carries state shared by the subcommands.
type cli struct {
	configPath string
	cfg        *config.Config
	log        *logging.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "graymotion",
		Short:         "property animation studio",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load()
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", os.Getenv(configEnv), "config file path (yaml); defaults apply when empty")

	root.AddCommand(
		newServeCmd(c),
		newPlayCmd(c),
		newSequenceCmd(c),
		newValidateCmd(c),
		newPresetsCmd(c),
		newVersionCmd(),
	)
	return root
}

// load reads the configuration and builds the logger.
func (c *cli) load() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	c.cfg = cfg
	c.log = logging.New(cfg.Logging, version)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version information",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "graymotion %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
