package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/minigrid/config"
	"github.com/kilianp07/minigrid/core/engine"
	"github.com/kilianp07/minigrid/core/metrics"
	"github.com/kilianp07/minigrid/core/params"
	"github.com/kilianp07/minigrid/core/solver"
	"github.com/kilianp07/minigrid/infra/logger"
)

var (
	cfgPath string
	outDir  string
)

var rootCmd = &cobra.Command{
	Use:   "minigrid",
	Short: "Hybrid mini-grid sizing and dispatch optimizer",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVarP(&outDir, "output", "o", "results", "output directory")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// setup loads the configuration and input tables, builds the model and wires
// an engine around the configured backend and metric sinks.
func setup() (*config.Config, *engine.Engine, *engine.Model, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	in, err := params.LoadInputs(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load inputs: %w", err)
	}
	m, err := engine.BuildModel(cfg, in)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build model: %w", err)
	}

	backend, err := solver.New(cfg.Solver.Backend)
	if err != nil {
		return nil, nil, nil, err
	}
	logg := logger.New("engine")
	sink, err := metrics.NewFromConfig(cfg.Metrics, logg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("metrics: %w", err)
	}
	e := engine.New(backend, cfg.Solver.Options(cfg.Advanced.MILPFormulation), logg, sink)
	return cfg, e, m, nil
}
