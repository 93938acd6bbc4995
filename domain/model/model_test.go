package model

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"golimit/domain/core"
)

func TestNewCounting_Shape(t *testing.T) {
	m, err := NewCounting(10, 100, 10)
	if err != nil {
		t.Fatalf("NewCounting failed: %v", err)
	}

	if m.NumChannels() != 1 {
		t.Errorf("expected 1 channel, got %d", m.NumChannels())
	}
	if got := len(m.Spec().Channels[0].Samples); got != 2 {
		t.Errorf("expected 2 samples, got %d", got)
	}
	if got := len(m.ParamSets()); got != 2 {
		t.Errorf("expected 2 parameter sets, got %d", got)
	}
	if m.NumMainBins() != 1 {
		t.Errorf("expected 1 main bin, got %d", m.NumMainBins())
	}
	if m.NumAux() != 1 {
		t.Errorf("expected 1 auxiliary entry, got %d", m.NumAux())
	}
	if m.ExpectedDataSize() != 2 {
		t.Errorf("expected data size 2, got %d", m.ExpectedDataSize())
	}

	names := m.ParamNames()
	want := []string{"mu", "bkg_uncertainty"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("parameter names %v, want %v", names, want)
	}
	if m.POIIndex() != 0 {
		t.Errorf("POI slot should be 0, got %d", m.POIIndex())
	}
}

func TestNewCounting_ParameterConfig(t *testing.T) {
	m, err := NewCounting(10, 100, 10)
	if err != nil {
		t.Fatalf("NewCounting failed: %v", err)
	}

	init := m.SuggestedInit()
	if !reflect.DeepEqual(init, []float64{1, 1}) {
		t.Errorf("suggested init %v, want [1 1]", init)
	}

	bounds := m.SuggestedBounds()
	if bounds[0] != [2]float64{0, 10} {
		t.Errorf("mu bounds %v, want [0 10]", bounds[0])
	}
	if bounds[1][0] <= 0 || bounds[1][1] != 10 {
		t.Errorf("staterror bounds %v, want (0, 10]", bounds[1])
	}

	if aux := m.AuxData(); !reflect.DeepEqual(aux, []float64{1}) {
		t.Errorf("aux data %v, want [1]", aux)
	}

	// relative constraint width: 10/100
	cts := m.Constraints()
	if len(cts) != 1 {
		t.Fatalf("expected 1 constraint, got %d", len(cts))
	}
	if math.Abs(cts[0].Sigma-0.1) > 1e-12 {
		t.Errorf("constraint sigma %g, want 0.1", cts[0].Sigma)
	}
}

func TestNewCounting_InvalidInputs(t *testing.T) {
	cases := []struct {
		name                     string
		signal, background, unc float64
	}{
		{"negative signal", -1, 100, 10},
		{"negative background", 10, -1, 10},
		{"negative uncertainty", 10, 100, -1},
		{"zero uncertainty", 10, 100, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCounting(tc.signal, tc.background, tc.unc)
			if !core.IsInvalidModelError(err) {
				t.Errorf("expected invalid model error, got %v", err)
			}
		})
	}
}

func TestCompile_BinCountMismatch(t *testing.T) {
	spec := Spec{Channels: []Channel{{
		Name: "ch",
		Samples: []Sample{
			{Name: "a", Data: []float64{1, 2}, Modifiers: []Modifier{{Name: "mu", Type: NormFactor}}},
			{Name: "b", Data: []float64{3}},
		},
	}}}
	if _, err := Compile(spec, "mu"); !core.IsInvalidModelError(err) {
		t.Errorf("expected invalid model error, got %v", err)
	}
}

func TestCompile_ModifierTypeConflict(t *testing.T) {
	spec := Spec{Channels: []Channel{{
		Name: "ch",
		Samples: []Sample{
			{Name: "a", Data: []float64{1}, Modifiers: []Modifier{{Name: "x", Type: NormFactor}}},
			{Name: "b", Data: []float64{3}, Modifiers: []Modifier{{Name: "x", Type: StatError, Data: []float64{1}}}},
			{Name: "c", Data: []float64{1}, Modifiers: []Modifier{{Name: "mu", Type: NormFactor}}},
		},
	}}}
	if _, err := Compile(spec, "mu"); !core.IsInvalidModelError(err) {
		t.Errorf("expected invalid model error, got %v", err)
	}
}

func TestCompile_POIMustBeNormFactor(t *testing.T) {
	spec := CountingSpec(10, 100, 10)
	if _, err := Compile(spec, "bkg_uncertainty"); !core.IsInvalidModelError(err) {
		t.Errorf("expected invalid model error, got %v", err)
	}
	if _, err := Compile(spec, "nope"); !core.IsInvalidModelError(err) {
		t.Errorf("expected invalid model error for unknown POI, got %v", err)
	}
}

func TestCompile_DeterministicParameterOrder(t *testing.T) {
	spec := Spec{Channels: []Channel{{
		Name: "ch",
		Samples: []Sample{
			{Name: "bkg", Data: []float64{50, 60}, Modifiers: []Modifier{
				{Name: "stat", Type: StatError, Data: []float64{5, 6}},
				{Name: "norm_bkg", Type: NormFactor},
			}},
			{Name: "sig", Data: []float64{5, 5}, Modifiers: []Modifier{{Name: "mu", Type: NormFactor}}},
		},
	}}}

	m1, err := Compile(spec, "mu")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	m2, _ := Compile(spec, "mu")

	want := []string{"mu", "norm_bkg", "stat[0]", "stat[1]"}
	if !reflect.DeepEqual(m1.ParamNames(), want) {
		t.Errorf("parameter order %v, want %v", m1.ParamNames(), want)
	}
	if !reflect.DeepEqual(m1.ParamNames(), m2.ParamNames()) {
		t.Errorf("parameter order not deterministic")
	}
}

func TestExpectedData_CountingModel(t *testing.T) {
	m, err := NewCounting(10, 100, 10)
	if err != nil {
		t.Fatalf("NewCounting failed: %v", err)
	}

	// mu=1, gamma=1: nominal expectation
	got := m.ExpectedData([]float64{1, 1})
	if math.Abs(got[0]-110) > 1e-12 || math.Abs(got[1]-1) > 1e-12 {
		t.Errorf("expected data %v, want [110 1]", got)
	}

	// mu=2, gamma=0.5: 2*10 + 0.5*100
	got = m.ExpectedData([]float64{2, 0.5})
	if math.Abs(got[0]-70) > 1e-12 || math.Abs(got[1]-0.5) > 1e-12 {
		t.Errorf("expected data %v, want [70 0.5]", got)
	}
}

func TestSpec_JSONRoundTrip(t *testing.T) {
	spec := CountingSpec(10, 100, 10)

	data, err := json.Marshal(spec)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	parsed, err := ParseSpec(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !reflect.DeepEqual(parsed, spec) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", parsed, spec)
	}

	// normfactor data must serialize as null per the wire convention
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal to map failed: %v", err)
	}
	channels := doc["channels"].([]any)
	samples := channels[0].(map[string]any)["samples"].([]any)
	mods := samples[0].(map[string]any)["modifiers"].([]any)
	if mods[0].(map[string]any)["data"] != nil {
		t.Errorf("normfactor data should be null, got %v", mods[0].(map[string]any)["data"])
	}
}

func TestParseSpec_Invalid(t *testing.T) {
	if _, err := ParseSpec([]byte(`{"channels": []}`)); !core.IsInvalidModelError(err) {
		t.Errorf("expected invalid model error for empty channels, got %v", err)
	}
	if _, err := ParseSpec([]byte(`not json`)); !core.IsInvalidModelError(err) {
		t.Errorf("expected invalid model error for bad JSON, got %v", err)
	}
}
