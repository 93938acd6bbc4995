package model

import (
	"encoding/json"

	"golimit/domain/core"
)

// ModifierType identifies how a modifier acts on its sample
type ModifierType string

const (
	// NormFactor is an unconstrained multiplicative normalization parameter
	NormFactor ModifierType = "normfactor"
	// StatError is a per-bin multiplicative parameter constrained by an
	// auxiliary Gaussian measurement of the stated uncertainty
	StatError ModifierType = "staterror"
)

// Modifier declares a named parameter and its effect on the parent sample.
// Data is nil for normfactor and holds per-bin absolute uncertainties for
// staterror.
type Modifier struct {
	Name string       `json:"name"`
	Type ModifierType `json:"type"`
	Data []float64    `json:"data"`
}

// Sample carries expected per-bin event counts and the modifiers acting on them
type Sample struct {
	Name      string     `json:"name"`
	Data      []float64  `json:"data"`
	Modifiers []Modifier `json:"modifiers"`
}

// Channel is a named measurement region holding an ordered list of samples
type Channel struct {
	Name    string   `json:"name"`
	Samples []Sample `json:"samples"`
}

// Spec is the declarative model specification. It is JSON-compatible so it
// can interoperate with any fitting backend implementing the same
// channels/samples/modifiers convention.
type Spec struct {
	Channels []Channel `json:"channels"`
}

// MarshalJSON keeps the wire format stable
func (s Spec) MarshalJSON() ([]byte, error) {
	type alias Spec
	return json.Marshal(alias(s))
}

// ParseSpec decodes a JSON specification document
func ParseSpec(data []byte) (Spec, error) {
	var s Spec
	if err := json.Unmarshal(data, &s); err != nil {
		return Spec{}, core.NewInvalidModelError("spec", err.Error())
	}
	if len(s.Channels) == 0 {
		return Spec{}, core.NewInvalidModelError("channels", "at least one channel required")
	}
	return s, nil
}
