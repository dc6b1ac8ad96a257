package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/cohort-sim/sim"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check defaults.yaml and its transition matrices without simulating",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := loadDefaultsConfig(defaultsFilePath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		experiment, err := cfg.ExperimentConfig()
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		printMatrices(cmd, experiment)
	},
}

// printMatrices lists every validated row so the user can eyeball what will be simulated.
func printMatrices(cmd *cobra.Command, e sim.ExperimentConfig) {
	w := cmd.OutOrStdout()
	for _, p := range sim.AllPolicies() {
		m := e.Matrices[p]
		fmt.Fprintf(w, "%s (%s): OK\n", p, p.Label())
		for _, s := range sim.AllHealthStates() {
			fmt.Fprintf(w, "  %-12s %v\n", s, m.Row(s))
		}
		if expected, err := sim.ExpectedSurvivalTime(m); err == nil {
			fmt.Fprintf(w, "  expected survival %.4f steps\n", expected)
		} else {
			fmt.Fprintf(w, "  expected survival unbounded: %v\n", err)
		}
	}
}
