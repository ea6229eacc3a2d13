package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/minigrid/core/engine"
	"github.com/kilianp07/minigrid/pkg/export"
)

var paretoPoints int

var paretoCmd = &cobra.Command{
	Use:   "pareto",
	Short: "Trace the cost/emissions trade-off curve",
	RunE:  runPareto,
}

func init() {
	paretoCmd.Flags().IntVar(&paretoPoints, "points", 0, "number of sweep points (default from config)")
	rootCmd.AddCommand(paretoCmd)
}

func runPareto(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, e, m, err := setup()
	if err != nil {
		return err
	}
	n := paretoPoints
	if n == 0 {
		n = cfg.Advanced.MultiObjective.NumPoints
	}

	points, err := e.Pareto(ctx, m, n)
	if err != nil {
		return err
	}
	for i, p := range points {
		dir := filepath.Join(outDir, fmt.Sprintf("point_%d", i))
		if err := export.WriteDir(dir, p.Solution); err != nil {
			return fmt.Errorf("export point %d: %w", i, err)
		}
	}
	if err := writeFrontier(filepath.Join(outDir, "frontier.csv"), points); err != nil {
		return err
	}

	for i, p := range points {
		fmt.Fprintf(cmd.OutOrStdout(), "point %d: co2 <= %.2f kg, cost %.2f\n", i, p.Threshold, p.Cost)
	}
	return nil
}

func writeFrontier(path string, points []engine.Point) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"point", "co2_threshold_kg", "cost"}); err != nil {
		return err
	}
	for i, p := range points {
		rec := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(p.Threshold, 'f', -1, 64),
			strconv.FormatFloat(p.Cost, 'f', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
