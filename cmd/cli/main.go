package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"golimit/app"
	"golimit/internal/config"
	"golimit/internal/report"
)

func main() {
	// .env is optional; environment variables seed the flag defaults
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "golimit-cli",
		Short: "CLs exclusion limits for single-bin counting experiments",
	}

	rootCmd.AddCommand(newRunCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var jsonOut bool
	req := app.DefaultRequest()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the hypothesis test and upper-limit scan",
		Long: `Build the counting-experiment model, test the signal hypothesis at
--poi-test and scan for the upper limit on the signal strength.

Example: golimit-cli run --signal 10 --background 100 --bkg-uncertainty 10 --observed 100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			service := app.NewAnalysisService(nil)
			result, err := service.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			if jsonOut {
				return report.JSON(cmd.OutOrStdout(), result)
			}
			report.Console(cmd.OutOrStdout(), result)
			return nil
		},
	}

	defaults, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	a := defaults.Analysis

	cmd.Flags().Float64Var(&req.Signal, "signal", a.Signal, "Expected signal events")
	cmd.Flags().Float64Var(&req.Background, "background", a.Background, "Expected background events")
	cmd.Flags().Float64Var(&req.BkgUncertainty, "bkg-uncertainty", a.BkgUncertainty, "Absolute background uncertainty")
	cmd.Flags().Float64Var(&req.Observed, "observed", a.Observed, "Observed events")
	cmd.Flags().Float64Var(&req.POITest, "poi-test", a.POITest, "Signal-strength value to test")
	cmd.Flags().Float64Var(&req.ScanMin, "scan-min", a.ScanMin, "Lower edge of the POI scan")
	cmd.Flags().Float64Var(&req.ScanMax, "scan-max", a.ScanMax, "Upper edge of the POI scan")
	cmd.Flags().IntVar(&req.ScanSteps, "scan-steps", a.ScanSteps, "Number of scan grid points")
	cmd.Flags().Float64Var(&req.Level, "level", a.Level, "Exclusion level (0.05 for 95% CL)")
	cmd.Flags().IntVar(&req.Workers, "workers", a.Workers, "Concurrent scan evaluations")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the result as JSON")

	return cmd
}
