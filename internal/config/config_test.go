package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	a := cfg.Analysis
	if a.Signal != 10 || a.Background != 100 || a.BkgUncertainty != 10 || a.Observed != 100 {
		t.Errorf("unexpected model defaults: %+v", a)
	}
	if a.POITest != 1.0 {
		t.Errorf("POITest default %g, want 1.0", a.POITest)
	}
	if a.ScanMin != 0 || a.ScanMax != 10 || a.ScanSteps != 21 {
		t.Errorf("unexpected scan defaults: %+v", a)
	}
	if a.Level != 0.05 {
		t.Errorf("Level default %g, want 0.05", a.Level)
	}
	if a.Workers != 1 {
		t.Errorf("Workers default %d, want 1", a.Workers)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Port default %q, want 8080", cfg.Server.Port)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SIGNAL", "25.5")
	t.Setenv("SCAN_STEPS", "41")
	t.Setenv("SCAN_WORKERS", "4")
	t.Setenv("PORT", "9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Analysis.Signal != 25.5 {
		t.Errorf("Signal %g, want 25.5", cfg.Analysis.Signal)
	}
	if cfg.Analysis.ScanSteps != 41 {
		t.Errorf("ScanSteps %d, want 41", cfg.Analysis.ScanSteps)
	}
	if cfg.Analysis.Workers != 4 {
		t.Errorf("Workers %d, want 4", cfg.Analysis.Workers)
	}
	if cfg.Server.Port != "9999" {
		t.Errorf("Port %q, want 9999", cfg.Server.Port)
	}
}

func TestLoad_MalformedEnvFallsBack(t *testing.T) {
	t.Setenv("SIGNAL", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Analysis.Signal != 10 {
		t.Errorf("Signal %g, want default 10", cfg.Analysis.Signal)
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := []struct{ key, value string }{
		{"SIGNAL", "-1"},
		{"BKG_UNCERTAINTY", "0"},
		{"OBSERVED", "-5"},
		{"POI_TEST", "-0.5"},
		{"SCAN_STEPS", "1"},
		{"CONFIDENCE_LEVEL", "1.5"},
		{"SCAN_WORKERS", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected validation error for %s=%s", tc.key, tc.value)
			}
		})
	}
}

func TestLoad_ScanRangeValidation(t *testing.T) {
	t.Setenv("SCAN_MIN", "5")
	t.Setenv("SCAN_MAX", "5")
	if _, err := Load(); err == nil {
		t.Errorf("expected validation error for empty scan range")
	}
}
