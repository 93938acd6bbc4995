package model

import (
	"fmt"
	"math"

	"golimit/domain/core"
)

// Default parameter domains used when deriving the fit configuration
const (
	normFactorInit = 1.0
	normFactorLo   = 0.0
	normFactorHi   = 10.0

	statErrorInit = 1.0
	statErrorLo   = 1e-10
	statErrorHi   = 10.0
)

// ParamSet is one named fit parameter derived from the specification.
// A normfactor contributes a single scalar, a staterror contributes one
// scalar per bin of its channel.
type ParamSet struct {
	Name   string
	Type   ModifierType
	N      int
	Inits  []float64
	Bounds [][2]float64
	Sigmas []float64 // staterror only: relative constraint width per bin

	slot int // first flattened parameter index
}

// ConstraintTerm links one auxiliary measurement to a flattened parameter
// slot. The auxiliary observation is constrained by Normal(aux | par, Sigma).
type ConstraintTerm struct {
	Slot  int
	Sigma float64
}

type modRef struct {
	set int // index into Model.sets
}

type sampleRef struct {
	nominal []float64
	mods    []modRef
}

type channelRef struct {
	name    string
	nbins   int
	samples []sampleRef
}

// Model is a compiled specification: immutable parameter configuration plus
// expected-rate evaluation. Construct via Compile; treat as read-only.
type Model struct {
	spec    Spec
	poiName string

	sets        []ParamSet
	channels    []channelRef
	constraints []ConstraintTerm
	aux         []float64

	nMain   int
	nSlots  int
	poiSlot int
}

// staterror bookkeeping during compilation
type statAccum struct {
	channel string
	nbins   int
	sumSq   []float64
	sumNom  []float64
}

// Compile validates a specification and derives its parameter
// configuration. poiName must name a normfactor modifier; it becomes the
// first fit parameter.
func Compile(spec Spec, poiName string) (*Model, error) {
	if len(spec.Channels) == 0 {
		return nil, core.NewInvalidModelError("channels", "at least one channel required")
	}
	if poiName == "" {
		return nil, core.NewInvalidModelError("poi", "parameter of interest name required")
	}

	m := &Model{spec: spec, poiName: poiName, poiSlot: -1}

	setIdx := map[string]int{}
	var order []string
	accums := map[string]*statAccum{}

	for _, ch := range spec.Channels {
		if ch.Name == "" {
			return nil, core.NewInvalidModelError("channel", "channel name required")
		}
		if len(ch.Samples) == 0 {
			return nil, core.NewInvalidModelError(ch.Name, "at least one sample required")
		}
		nbins := len(ch.Samples[0].Data)
		if nbins == 0 {
			return nil, core.NewInvalidModelError(ch.Name, "sample data must have at least one bin")
		}

		cref := channelRef{name: ch.Name, nbins: nbins}
		for _, s := range ch.Samples {
			if len(s.Data) != nbins {
				return nil, core.NewInvalidModelError(ch.Name,
					fmt.Sprintf("sample %q has %d bins, channel has %d", s.Name, len(s.Data), nbins))
			}
			for _, v := range s.Data {
				if v < 0 || math.IsNaN(v) {
					return nil, core.NewInvalidModelError(s.Name, "negative or NaN expected count")
				}
			}

			sref := sampleRef{nominal: s.Data}
			for _, mod := range s.Modifiers {
				idx, err := registerModifier(mod, ch, s, nbins, setIdx, &order, m, accums)
				if err != nil {
					return nil, err
				}
				sref.mods = append(sref.mods, modRef{set: idx})
			}
			cref.samples = append(cref.samples, sref)
		}
		m.channels = append(m.channels, cref)
		m.nMain += nbins
	}

	if err := m.finalize(order, setIdx, accums); err != nil {
		return nil, err
	}
	return m, nil
}

func registerModifier(mod Modifier, ch Channel, s Sample, nbins int,
	setIdx map[string]int, order *[]string, m *Model, accums map[string]*statAccum) (int, error) {

	if mod.Name == "" {
		return 0, core.NewInvalidModelError(s.Name, "modifier name required")
	}
	switch mod.Type {
	case NormFactor:
		if len(mod.Data) != 0 {
			return 0, core.NewInvalidModelError(mod.Name, "normfactor takes no data")
		}
	case StatError:
		if len(mod.Data) != nbins {
			return 0, core.NewInvalidModelError(mod.Name,
				fmt.Sprintf("staterror data has %d entries, channel has %d bins", len(mod.Data), nbins))
		}
		for _, d := range mod.Data {
			if d < 0 || math.IsNaN(d) {
				return 0, core.NewInvalidModelError(mod.Name, "negative or NaN uncertainty")
			}
		}
	default:
		return 0, core.NewInvalidModelError(mod.Name, fmt.Sprintf("unknown modifier type %q", mod.Type))
	}

	idx, seen := setIdx[mod.Name]
	if seen {
		if m.sets[idx].Type != mod.Type {
			return 0, core.NewInvalidModelError(mod.Name, "modifier name reused with a different type")
		}
	} else {
		set := ParamSet{Name: mod.Name, Type: mod.Type}
		idx = len(m.sets)
		m.sets = append(m.sets, set)
		setIdx[mod.Name] = idx
		*order = append(*order, mod.Name)
	}

	if mod.Type == StatError {
		acc, ok := accums[mod.Name]
		if !ok {
			acc = &statAccum{channel: ch.Name, nbins: nbins,
				sumSq: make([]float64, nbins), sumNom: make([]float64, nbins)}
			accums[mod.Name] = acc
		}
		// staterror parameters are scoped to a single channel
		if acc.channel != ch.Name {
			return 0, core.NewInvalidModelError(mod.Name, "staterror modifier shared across channels")
		}
		for i, d := range mod.Data {
			acc.sumSq[i] += d * d
			acc.sumNom[i] += s.Data[i]
		}
	}
	return idx, nil
}

// finalize orders parameter sets (POI, remaining normfactors, staterrors),
// assigns flattened slots and derives constraint terms and auxiliary data.
func (m *Model) finalize(order []string, setIdx map[string]int, accums map[string]*statAccum) error {
	poiIdx, ok := setIdx[m.poiName]
	if !ok {
		return core.NewInvalidModelError("poi", fmt.Sprintf("no modifier named %q", m.poiName))
	}
	if m.sets[poiIdx].Type != NormFactor {
		return core.NewInvalidModelError("poi", fmt.Sprintf("%q is not a normfactor", m.poiName))
	}

	oldSets := m.sets

	var ordered []ParamSet
	appendByType := func(t ModifierType) {
		for _, name := range order {
			if name == m.poiName {
				continue
			}
			if set := m.sets[setIdx[name]]; set.Type == t {
				ordered = append(ordered, set)
			}
		}
	}
	ordered = append(ordered, m.sets[poiIdx])
	appendByType(NormFactor)
	appendByType(StatError)
	m.sets = ordered

	slot := 0
	for i := range m.sets {
		set := &m.sets[i]
		set.slot = slot
		switch set.Type {
		case NormFactor:
			set.N = 1
			set.Inits = []float64{normFactorInit}
			set.Bounds = [][2]float64{{normFactorLo, normFactorHi}}
		case StatError:
			acc := accums[set.Name]
			set.N = acc.nbins
			set.Inits = make([]float64, acc.nbins)
			set.Bounds = make([][2]float64, acc.nbins)
			set.Sigmas = make([]float64, acc.nbins)
			for b := 0; b < acc.nbins; b++ {
				if acc.sumNom[b] <= 0 {
					return core.NewInvalidModelError(set.Name, "staterror on zero nominal yield")
				}
				sigma := math.Sqrt(acc.sumSq[b]) / acc.sumNom[b]
				if sigma <= 0 {
					// singular constraint covariance
					return core.NewInvalidModelError(set.Name, "zero staterror uncertainty")
				}
				set.Inits[b] = statErrorInit
				set.Bounds[b] = [2]float64{statErrorLo, statErrorHi}
				set.Sigmas[b] = sigma
			}
		}
		if set.Name == m.poiName {
			m.poiSlot = slot
		}
		for b := 0; b < set.N; b++ {
			if set.Type == StatError {
				m.constraints = append(m.constraints, ConstraintTerm{Slot: slot + b, Sigma: set.Sigmas[b]})
				m.aux = append(m.aux, 1.0)
			}
		}
		slot += set.N
	}
	m.nSlots = slot

	// sample modifier references were recorded against pre-order set
	// indices; remap them onto the final ordering
	newIdx := make(map[string]int, len(m.sets))
	for i, set := range m.sets {
		newIdx[set.Name] = i
	}
	for ci := range m.channels {
		for si := range m.channels[ci].samples {
			mods := m.channels[ci].samples[si].mods
			for mi := range mods {
				mods[mi].set = newIdx[oldSets[mods[mi].set].Name]
			}
		}
	}
	return nil
}

// Spec returns the source specification
func (m *Model) Spec() Spec { return m.spec }

// POIName returns the name of the parameter of interest
func (m *Model) POIName() string { return m.poiName }

// POIIndex returns the flattened slot of the parameter of interest
func (m *Model) POIIndex() int { return m.poiSlot }

// NumChannels returns the number of channels
func (m *Model) NumChannels() int { return len(m.channels) }

// NumMainBins returns the total number of primary measurement bins
func (m *Model) NumMainBins() int { return m.nMain }

// NumParams returns the number of flattened scalar fit parameters
func (m *Model) NumParams() int { return m.nSlots }

// NumAux returns the number of auxiliary measurements
func (m *Model) NumAux() int { return len(m.aux) }

// ExpectedDataSize is the length HypothesisTest expects for the full
// observation vector (primary bins plus auxiliary entries)
func (m *Model) ExpectedDataSize() int { return m.nMain + len(m.aux) }

// ParamSets returns the ordered parameter sets
func (m *Model) ParamSets() []ParamSet {
	out := make([]ParamSet, len(m.sets))
	copy(out, m.sets)
	return out
}

// ParamNames returns flattened parameter names; per-bin sets are suffixed
// with the bin index when they span more than one bin
func (m *Model) ParamNames() []string {
	names := make([]string, 0, m.nSlots)
	for _, set := range m.sets {
		if set.N == 1 {
			names = append(names, set.Name)
			continue
		}
		for b := 0; b < set.N; b++ {
			names = append(names, fmt.Sprintf("%s[%d]", set.Name, b))
		}
	}
	return names
}

// SuggestedInit returns the initial parameter vector for fits
func (m *Model) SuggestedInit() []float64 {
	out := make([]float64, 0, m.nSlots)
	for _, set := range m.sets {
		out = append(out, set.Inits...)
	}
	return out
}

// SuggestedBounds returns the search domain per flattened parameter
func (m *Model) SuggestedBounds() [][2]float64 {
	out := make([][2]float64, 0, m.nSlots)
	for _, set := range m.sets {
		out = append(out, set.Bounds...)
	}
	return out
}

// AuxData returns the auxiliary observations implied by constrained
// modifiers, in constraint order
func (m *Model) AuxData() []float64 {
	out := make([]float64, len(m.aux))
	copy(out, m.aux)
	return out
}

// Constraints returns the Gaussian constraint terms in auxiliary-data order
func (m *Model) Constraints() []ConstraintTerm {
	out := make([]ConstraintTerm, len(m.constraints))
	copy(out, m.constraints)
	return out
}

// MainExpected evaluates the expected per-bin rates for all channels under
// the given parameter vector
func (m *Model) MainExpected(pars []float64) []float64 {
	out := make([]float64, 0, m.nMain)
	for _, ch := range m.channels {
		for b := 0; b < ch.nbins; b++ {
			rate := 0.0
			for _, s := range ch.samples {
				f := s.nominal[b]
				for _, mr := range s.mods {
					set := &m.sets[mr.set]
					switch set.Type {
					case NormFactor:
						f *= pars[set.slot]
					case StatError:
						f *= pars[set.slot+b]
					}
				}
				rate += f
			}
			out = append(out, rate)
		}
	}
	return out
}

// AuxExpected evaluates the expected auxiliary measurements (the
// constrained parameters themselves) under the given parameter vector
func (m *Model) AuxExpected(pars []float64) []float64 {
	out := make([]float64, 0, len(m.constraints))
	for _, ct := range m.constraints {
		out = append(out, pars[ct.Slot])
	}
	return out
}

// ExpectedData concatenates MainExpected and AuxExpected, matching the
// layout of the full observation vector
func (m *Model) ExpectedData(pars []float64) []float64 {
	out := m.MainExpected(pars)
	return append(out, m.AuxExpected(pars)...)
}
