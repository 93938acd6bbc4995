package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"golimit/app"
	"golimit/internal/config"
	"golimit/internal/report"
)

// Demonstration entry point: runs the default counting-experiment analysis
// (signal 10, background 100 +/- 10, observed 100 unless overridden via the
// environment) and prints the console report.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	a := cfg.Analysis

	service := app.NewAnalysisService(nil)
	result, err := service.Run(context.Background(), app.AnalysisRequest{
		Signal:         a.Signal,
		Background:     a.Background,
		BkgUncertainty: a.BkgUncertainty,
		Observed:       a.Observed,
		POITest:        a.POITest,
		ScanMin:        a.ScanMin,
		ScanMax:        a.ScanMax,
		ScanSteps:      a.ScanSteps,
		Level:          a.Level,
		Workers:        a.Workers,
	})
	if err != nil {
		log.Fatalf("analysis: %v", err)
	}

	report.Console(os.Stdout, result)
}
