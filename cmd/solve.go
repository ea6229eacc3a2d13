package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/minigrid/pkg/export"
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Size the system for minimal cost and export the solution",
	RunE:  runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, e, m, err := setup()
	if err != nil {
		return err
	}
	sol, err := e.Solve(ctx, m)
	if err != nil {
		return err
	}
	if err := export.WriteDir(outDir, sol); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if npc, ok := sol.Value("Net Present Cost"); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "net present cost: %.2f\n", npc)
	}
	if co2, ok := sol.Value("Total CO2 Emissions"); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "total co2: %.2f kg\n", co2)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "solution written to %s\n", outDir)
	return nil
}
