// ============================================================================
// CLI
// Responsibility: the cobra command surface of disk-hammer
//
// Command structure:
//   hammer
//   ├── run          # write the target with fingerprinted blocks, then
//   │                # read everything back and verify it
//   ├── verify       # verify-only scan of an existing target
//   ├── algorithms   # list selectable checksum algorithms
//   └── version      # print build version
//
// Configuration comes from an optional YAML file (--config); the most
// common knobs are also exposed as flags, which win over the file. The run
// command installs SIGINT/SIGTERM handling so an interrupted workload
// stops between I/O units and still reports its partial stats.
// ============================================================================

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ChuLiYu/disk-hammer/internal/checksum"
	"github.com/ChuLiYu/disk-hammer/internal/config"
	"github.com/ChuLiYu/disk-hammer/internal/controller"
	"github.com/ChuLiYu/disk-hammer/internal/metrics"
	"github.com/ChuLiYu/disk-hammer/pkg/types"
)

// Version is injected at build time.
var Version = "dev"

// flag overrides shared by run and verify.
type overrides struct {
	configPath string
	target     string
	workers    int
	blockSize  int
	blocks     int
	algorithm  string
	seed       int64
}

func (o *overrides) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVarP(&o.target, "target", "t", "", "target file path")
	cmd.Flags().IntVarP(&o.workers, "workers", "w", 0, "number of workers")
	cmd.Flags().IntVar(&o.blockSize, "block-size", 0, "bytes per I/O unit")
	cmd.Flags().IntVar(&o.blocks, "blocks", 0, "blocks per worker")
	cmd.Flags().StringVarP(&o.algorithm, "algorithm", "a", "", "verify algorithm")
	cmd.Flags().Int64Var(&o.seed, "seed", 0, "payload generator seed")
}

// load resolves the effective configuration: defaults, then the config
// file, then explicit flags.
func (o *overrides) load(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		cfg, err = config.Load(o.configPath)
		if err != nil {
			return cfg, err
		}
	}

	if cmd.Flags().Changed("target") {
		cfg.Target.Path = o.target
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workload.Workers = o.workers
	}
	if cmd.Flags().Changed("block-size") {
		cfg.Workload.BlockSize = o.blockSize
	}
	if cmd.Flags().Changed("blocks") {
		cfg.Workload.BlocksPerWorker = o.blocks
	}
	if cmd.Flags().Changed("algorithm") {
		cfg.Verify.Algorithm = o.algorithm
	}
	if cmd.Flags().Changed("seed") {
		cfg.Workload.Seed = o.seed
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// BuildCLI assembles the root command.
func BuildCLI() *cobra.Command {
	root := &cobra.Command{
		Use:           "hammer",
		Short:         "disk-hammer - data-integrity I/O workload generator",
		Long:          "disk-hammer writes a storage target with checksummed pseudo-random blocks,\nthen reads everything back and verifies that nothing was corrupted,\nreordered, or silently dropped.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newVerifyCmd())
	root.AddCommand(newAlgorithmsCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var o overrides
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Write the target and verify it by read-back",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load(cmd)
			if err != nil {
				return err
			}
			return runWorkload(cmd, cfg, func(ctl *controller.Controller, ctx context.Context) (types.RunStats, error) {
				return ctl.Run(ctx)
			})
		},
	}
	o.register(cmd)
	return cmd
}

func newVerifyCmd() *cobra.Command {
	var o overrides
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify an existing target without writing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load(cmd)
			if err != nil {
				return err
			}
			return runWorkload(cmd, cfg, func(ctl *controller.Controller, ctx context.Context) (types.RunStats, error) {
				return ctl.VerifyScan(ctx)
			})
		},
	}
	o.register(cmd)
	return cmd
}

func newAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List selectable checksum algorithms",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range checksum.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "disk-hammer %s\n", Version)
		},
	}
}

// runWorkload handles the plumbing both data commands share: logging,
// metrics, signal-driven cancellation, and the final summary.
func runWorkload(cmd *cobra.Command, cfg config.Config, fn workloadFunc) error {
	setupLogging(cfg.Logging.Level)

	var mc *metrics.Collector
	if cfg.Metrics.Enabled {
		mc = metrics.NewCollector()
		go func() {
			if err := metrics.StartServer(cfg.Metrics.Port); err != nil {
				logrus.WithError(err).Error("metrics server stopped")
			}
		}()
		logrus.WithField("port", cfg.Metrics.Port).Info("metrics server listening")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctl := controller.New(cfg, mc, nil)
	stats, err := fn(ctl, ctx)
	printSummary(cmd, stats)
	return err
}

// workloadFunc is the controller operation a data command runs.
type workloadFunc func(ctl *controller.Controller, ctx context.Context) (types.RunStats, error)

func printSummary(cmd *cobra.Command, s types.RunStats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "writes:        %d (%d bytes)\n", s.WritesIssued, s.BytesWritten)
	fmt.Fprintf(out, "reads:         %d (%d bytes)\n", s.ReadsIssued, s.BytesRead)
	fmt.Fprintf(out, "verify ok:     %d\n", s.VerifyOK)
	fmt.Fprintf(out, "verify failed: %d\n", s.VerifyFailed)
	if s.SchedSkipped > 0 {
		fmt.Fprintf(out, "skipped:       %d\n", s.SchedSkipped)
	}
}

func setupLogging(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
