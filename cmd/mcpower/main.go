package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"mcpower/adapters/contrast"
	"mcpower/adapters/sink"
	csvsink "mcpower/adapters/sink/csv"
	pgsink "mcpower/adapters/sink/postgres"
	xlsxsink "mcpower/adapters/sink/xlsx"
	"mcpower/adapters/synth"
	"mcpower/app"
	"mcpower/internal/config"
	"mcpower/internal/logging"
	"mcpower/internal/mc"
	"mcpower/ports"
)

func main() {
	// .env is optional; environment overrides still apply without it.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "mcpower",
		Short: "Monte Carlo power estimation for dependency contrast measures",
	}
	rootCmd.AddCommand(newRunCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var configPath string
	var csvPath string
	var parallelism int
	var seed int64

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full power study grid",
		Long: `Run the full power study: calibrate null thresholds per grid coordinate,
estimate power for every generator, noise level, and dilution mode, and
stream one summary record per cell to the configured sinks.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("csv") {
				cfg.Output.CSVPath = csvPath
			}
			if cmd.Flags().Changed("parallelism") {
				cfg.Runtime.Parallelism = parallelism
			}
			if cmd.Flags().Changed("seed") {
				cfg.Grid.Seed = seed
			}
			return runStudy(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file (optional)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV output path (overrides config)")
	cmd.Flags().IntVar(&parallelism, "parallelism", 0, "trial pool size (0 = hardware parallelism)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "base seed for the run (overrides config)")
	return cmd
}

func runStudy(cmd *cobra.Command, cfg *config.Config) error {
	log := logging.FromEnv()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	log.Info("mcpower starting on %s", hostname)

	resultSink, err := buildSinks(cfg)
	if err != nil {
		return err
	}

	pool := mc.NewPool(cfg.Runtime.Parallelism)
	runner, err := app.NewGridRunner(
		cfg.Plan(),
		synth.Catalog(),
		contrast.New(),
		resultSink,
		logging.NewRunLogObserver(log),
		pool,
		log,
	)
	if err != nil {
		resultSink.Close()
		return err
	}

	runErr := runner.Run(cmd.Context())
	// Pending writes must land even when the run aborts mid-grid.
	if cerr := resultSink.Close(); cerr != nil {
		log.Error("closing result sinks: %v", cerr)
		if runErr == nil {
			runErr = cerr
		}
	}
	if runErr != nil {
		log.Error("power study failed: %v", runErr)
	}
	return runErr
}

func buildSinks(cfg *config.Config) (ports.ResultSink, error) {
	var sinks []ports.ResultSink

	if cfg.Output.CSVPath != "" {
		s, err := csvsink.New(cfg.Output.CSVPath)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if cfg.Output.PostgresDSN != "" {
		s, err := pgsink.New(cfg.Output.PostgresDSN)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if cfg.Output.XLSXPath != "" {
		s, err := xlsxsink.New(cfg.Output.XLSXPath)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}

	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return sink.NewFanout(sinks...), nil
}
