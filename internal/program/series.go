package program

import (
	"errors"
	"regexp"
	"strings"
)

// Series validation errors.
var (
	ErrNegativeReps           = errors.New("reps cannot be negative")
	ErrAmrapWithReps          = errors.New("AMRAP series should have reps of null or 0")
	ErrRepsRange              = errors.New("maximum reps must be greater than or equal to minimum reps")
	ErrIntensityValueRequired = errors.New("intensity value is required when intensity type is set")
	ErrIntensityTypeRequired  = errors.New("intensity type is required when intensity value is set")
	ErrPercentageRange        = errors.New("percentage must be between 0 and 100")
	ErrRPERange               = errors.New("RPE must be between 0 and 10")
	ErrRIRRange               = errors.New("RIR must be between 0 and 10")
	ErrNegativeWeight         = errors.New("weight cannot be negative")
	ErrUnknownIntensity       = errors.New("unknown intensity type")
	ErrInvalidTempo           = errors.New("tempo must be 4 characters of digits or X")
	ErrNegativeRest           = errors.New("rest cannot be negative")
	ErrUnknownUnit            = errors.New("weight unit must be kg or lb")
	ErrUnknownUnilateral      = errors.New("unilateral unit must be leg, arm or side")
)

// IntensityType describes how a series intensity is expressed.
type IntensityType string

const (
	IntensityNone       IntensityType = ""
	IntensityAbsolute   IntensityType = "absolute"
	IntensityPercentage IntensityType = "percentage"
	IntensityRPE        IntensityType = "rpe"
	IntensityRIR        IntensityType = "rir"
)

// Weight units for absolute intensity.
const (
	UnitKg = "kg"
	UnitLb = "lb"
)

var tempoPattern = regexp.MustCompile(`^[\dXx]{4}$`)

// Series is one prescribed set.
type Series struct {
	OrderIndex     int           `json:"orderIndex" yaml:"order_index"`
	Reps           *int          `json:"reps" yaml:"reps,omitempty"`
	RepsMax        *int          `json:"repsMax" yaml:"reps_max,omitempty"`
	IsAmrap        bool          `json:"isAmrap" yaml:"amrap,omitempty"`
	IntensityType  IntensityType `json:"intensityType,omitempty" yaml:"intensity_type,omitempty"`
	IntensityValue *float64      `json:"intensityValue" yaml:"intensity_value,omitempty"`
	IntensityUnit  string        `json:"intensityUnit,omitempty" yaml:"intensity_unit,omitempty"`   // kg or lb, absolute only
	UnilateralUnit string        `json:"unilateralUnit,omitempty" yaml:"unilateral_unit,omitempty"` // leg, arm or side
	Tempo          string        `json:"tempo,omitempty" yaml:"tempo,omitempty"`
	RestSeconds    *int          `json:"restSeconds" yaml:"rest_seconds,omitempty"`
}

// Validate checks the series invariants.
func (s Series) Validate() error {
	if s.Reps != nil && *s.Reps < 0 {
		return ErrNegativeReps
	}
	if s.IsAmrap && s.Reps != nil && *s.Reps > 0 {
		return ErrAmrapWithReps
	}
	if s.RepsMax != nil && s.Reps != nil && *s.RepsMax < *s.Reps {
		return ErrRepsRange
	}

	switch {
	case s.IntensityType != IntensityNone && s.IntensityValue == nil:
		return ErrIntensityValueRequired
	case s.IntensityType == IntensityNone && s.IntensityValue != nil:
		return ErrIntensityTypeRequired
	}
	if s.IntensityValue != nil {
		v := *s.IntensityValue
		switch s.IntensityType {
		case IntensityPercentage:
			if v < 0 || v > 100 {
				return ErrPercentageRange
			}
		case IntensityRPE:
			if v < 0 || v > 10 {
				return ErrRPERange
			}
		case IntensityRIR:
			if v < 0 || v > 10 {
				return ErrRIRRange
			}
		case IntensityAbsolute:
			if v < 0 {
				return ErrNegativeWeight
			}
			switch strings.ToLower(s.IntensityUnit) {
			case "", UnitKg, UnitLb:
			default:
				return ErrUnknownUnit
			}
		default:
			return ErrUnknownIntensity
		}
	}

	switch strings.ToLower(s.UnilateralUnit) {
	case "", "leg", "arm", "side":
	default:
		return ErrUnknownUnilateral
	}
	if s.Tempo != "" && !tempoPattern.MatchString(s.Tempo) {
		return ErrInvalidTempo
	}
	if s.RestSeconds != nil && *s.RestSeconds < 0 {
		return ErrNegativeRest
	}
	return nil
}

// Normalize returns the canonical form of the series, the one notation
// reproduces exactly:
//   - a rep count is always set (0 when missing); AMRAP series have 0 reps
//     and no maximum
//   - a maximum equal to the minimum is dropped
//   - tempo is upper-cased and units are lower-cased
//   - absolute intensity defaults to kg and other intensities carry no unit
//
// RestSeconds has no notation form and is kept as is.
func (s Series) Normalize() Series {
	s.Reps = cloneInt(s.Reps)
	s.RepsMax = cloneInt(s.RepsMax)
	if s.IsAmrap || s.Reps == nil {
		s.Reps = Int(0)
	}
	if s.IsAmrap || (s.RepsMax != nil && *s.RepsMax == *s.Reps) {
		s.RepsMax = nil
	}
	s.Tempo = strings.ToUpper(s.Tempo)
	s.UnilateralUnit = strings.ToLower(s.UnilateralUnit)
	s.IntensityUnit = strings.ToLower(s.IntensityUnit)
	if s.IntensityType == IntensityAbsolute && s.IntensityUnit == "" {
		s.IntensityUnit = UnitKg
	}
	if s.IntensityType != IntensityAbsolute {
		s.IntensityUnit = ""
	}
	return s
}

// NormalizeSeries returns a normalized deep copy of the list with order
// indexes renumbered from 0. A nil list stays nil.
func NormalizeSeries(in []Series) []Series {
	out := CloneSeries(in)
	for i := range out {
		out[i] = out[i].Normalize()
		out[i].OrderIndex = i
	}
	return out
}

// SameSet reports whether two series prescribe the same set, ignoring
// OrderIndex.
func (s Series) SameSet(o Series) bool {
	return intEq(s.Reps, o.Reps) &&
		intEq(s.RepsMax, o.RepsMax) &&
		s.IsAmrap == o.IsAmrap &&
		s.IntensityType == o.IntensityType &&
		floatEq(s.IntensityValue, o.IntensityValue) &&
		s.IntensityUnit == o.IntensityUnit &&
		s.UnilateralUnit == o.UnilateralUnit &&
		s.Tempo == o.Tempo &&
		intEq(s.RestSeconds, o.RestSeconds)
}

// Equal reports whether two series are identical, including OrderIndex.
func (s Series) Equal(o Series) bool {
	return s.OrderIndex == o.OrderIndex && s.SameSet(o)
}

// SeriesEqual reports whether two series lists are identical.
func SeriesEqual(a, b []Series) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// CloneSeries returns a deep copy of the list. A nil list stays nil.
func CloneSeries(in []Series) []Series {
	if in == nil {
		return nil
	}
	out := make([]Series, len(in))
	for i, s := range in {
		out[i] = s
		out[i].Reps = cloneInt(s.Reps)
		out[i].RepsMax = cloneInt(s.RepsMax)
		out[i].RestSeconds = cloneInt(s.RestSeconds)
		if s.IntensityValue != nil {
			v := *s.IntensityValue
			out[i].IntensityValue = &v
		}
	}
	return out
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func intEq(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func floatEq(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
