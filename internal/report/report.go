package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golimit/app"
	"golimit/internal/inference"
)

var bandNames = [inference.BandSize]string{"-2 sigma", "-1 sigma", "median", "+1 sigma", "+2 sigma"}

// JSON writes the analysis result as an indented machine-readable document
func JSON(w io.Writer, res *app.AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// Console writes the human-readable analysis report
func Console(w io.Writer, res *app.AnalysisResult) {
	req := res.Request

	rule := strings.Repeat("=", 60)
	sub := strings.Repeat("-", 60)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "CLs Limit Setting Analysis")
	fmt.Fprintln(w, rule)

	fmt.Fprintln(w, "\nModel Configuration:")
	fmt.Fprintf(w, "  Observed events:      %g\n", req.Observed)
	fmt.Fprintf(w, "  Expected background:  %g +/- %g\n", req.Background, req.BkgUncertainty)
	fmt.Fprintf(w, "  Expected signal:      %g\n", req.Signal)
	fmt.Fprintf(w, "  Number of channels:   %d\n", res.Channels)
	fmt.Fprintf(w, "  Number of parameters: %d\n", len(res.Parameters))
	fmt.Fprintf(w, "  Parameters:           %v\n", res.Parameters)

	fmt.Fprintln(w, "\n"+sub)
	fmt.Fprintf(w, "Hypothesis Test (mu = %g)\n", req.POITest)
	fmt.Fprintln(w, sub)
	fmt.Fprintf(w, "\n  CLs observed:        %.4f\n", res.Test.CLsObs)
	fmt.Fprintln(w, "\n  CLs expected band:")
	for i, name := range bandNames {
		fmt.Fprintf(w, "    %-9s          %.4f\n", name+":", res.Test.CLsExp[i])
	}

	cl := (1 - req.Level) * 100
	if res.Test.CLsObs < req.Level {
		fmt.Fprintf(w, "\n  Result: Signal hypothesis EXCLUDED at %.0f%% CL\n", cl)
		fmt.Fprintf(w, "          (CLs = %.4f < %.2f)\n", res.Test.CLsObs, req.Level)
	} else {
		fmt.Fprintf(w, "\n  Result: Signal hypothesis NOT excluded at %.0f%% CL\n", cl)
		fmt.Fprintf(w, "          (CLs = %.4f >= %.2f)\n", res.Test.CLsObs, req.Level)
	}

	fmt.Fprintln(w, "\n"+sub)
	fmt.Fprintf(w, "Upper Limit Calculation (%.0f%% CL)\n", cl)
	fmt.Fprintln(w, sub)

	if res.LimitInRange {
		fmt.Fprintf(w, "\n  Observed upper limit on mu:        %.3f\n", res.Limit.Observed)
		fmt.Fprintf(w, "  Median expected upper limit on mu: %.3f\n", res.Limit.ExpectedMedian())
		fmt.Fprintf(w, "\n  This means: signal cross-section is excluded at %.3fx\n", res.Limit.Observed)
		fmt.Fprintf(w, "              the nominal signal hypothesis at %.0f%% CL\n", cl)
	} else {
		fmt.Fprintf(w, "\n  Could not calculate upper limit: %s\n", res.LimitNote)
		fmt.Fprintf(w, "  (The limit lies outside the scanned range [%g, %g];\n", req.ScanMin, req.ScanMax)
		fmt.Fprintln(w, "   retry with a wider or denser scan grid)")
	}

	fmt.Fprintln(w, "\n"+rule)
	fmt.Fprintf(w, "Analysis complete (run %s, %d ms)\n", res.AnalysisID, res.RuntimeMs)
	fmt.Fprintln(w, rule)
}
