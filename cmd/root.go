package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/cohort-sim/sim"
)

var (
	// CLI flags for the cohort experiment
	cohortID         int64   // Cohort id; seeds patient ids as cohortID*population + index
	population       int     // Number of patients per cohort
	horizon          int     // Maximum number of simulated time steps per patient
	alpha            float64 // Significance level for confidence intervals
	trackedState     string  // Health state whose dwell steps are counted
	workers          int     // Patients simulated concurrently per cohort
	logLevel         string  // Log verbosity level
	defaultsFilePath string  // Path to defaults.yaml
	resultsPath      string  // Optional YAML export of summaries and survival paths
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cohort-sim",
	Short: "Discrete-time Markov cohort simulator for treatment survival comparisons",
}

// runCmd executes the baseline-vs-treatment experiment
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate baseline and treatment cohorts and compare survival",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		experiment, err := cfg.ExperimentConfig()
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		experiment.Workers = workers

		logrus.Infof("Starting experiment: cohort=%d, population=%d, horizon=%d, alpha=%v, tracked=%s",
			experiment.CohortID, experiment.PopulationSize, experiment.Horizon, experiment.Alpha, experiment.TrackedState)
		startTime := time.Now()

		cmp, err := sim.RunComparison(cmd.Context(), experiment)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		cmp.Print(cmd.OutOrStdout())

		if resultsPath != "" {
			if err := cmp.SaveResults(resultsPath); err != nil {
				logrus.Fatalf("Failed to save results: %v", err)
			}
		}
		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// setupLogging applies --log to the global logger.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// resolveConfig loads defaults.yaml (or the built-in defaults when the default
// path does not exist) and applies any explicitly set flags on top.
func resolveConfig(cmd *cobra.Command) (Config, error) {
	cfg, err := loadDefaultsConfig(defaultsFilePath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("defaults-filepath") {
			return Config{}, err
		}
		logrus.Infof("%s not found; using built-in defaults", defaultsFilePath)
		cfg = builtinConfig()
	}
	applyFlagOverrides(cmd, &cfg)
	return cfg, nil
}

// applyFlagOverrides copies flag values into cfg only for flags the user set,
// so file values are never clobbered by flag defaults.
func applyFlagOverrides(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	if flags.Changed("cohort-id") {
		cfg.CohortID = cohortID
	}
	if flags.Changed("population") {
		cfg.Population = population
	}
	if flags.Changed("horizon") {
		cfg.Horizon = horizon
	}
	if flags.Changed("alpha") {
		cfg.Alpha = alpha
	}
	if flags.Changed("tracked-state") {
		cfg.TrackedState = trackedState
	}
}

// Execute runs the CLI root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	envCfg, err := parseEnvConfig()
	if err != nil {
		logrus.Warnf("Ignoring environment configuration: %v", err)
		envCfg = EnvConfig{LogLevel: "info", DefaultsFilePath: "defaults.yaml", Workers: 1}
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log", envCfg.LogLevel, "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&defaultsFilePath, "defaults-filepath", envCfg.DefaultsFilePath, "Path to defaults.yaml")

	runCmd.Flags().Int64Var(&cohortID, "cohort-id", sim.DefaultCohortID, "Cohort id (seeds patient random streams)")
	runCmd.Flags().IntVar(&population, "population", sim.DefaultPopulationSize, "Number of patients per cohort")
	runCmd.Flags().IntVar(&horizon, "horizon", sim.DefaultHorizon, "Simulation horizon (in time steps)")
	runCmd.Flags().Float64Var(&alpha, "alpha", sim.DefaultAlpha, "Significance level for confidence intervals")
	runCmd.Flags().StringVar(&trackedState, "tracked-state", sim.Stroke.String(), "Health state whose dwell steps are counted")
	runCmd.Flags().IntVar(&workers, "workers", envCfg.Workers, "Patients simulated concurrently per cohort")
	runCmd.Flags().StringVar(&resultsPath, "results-path", "", "Write summaries and survival paths as YAML to this file")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}
