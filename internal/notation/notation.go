// Package notation converts between the compact prescription notation used
// in the grid ("3x8@RIR2", "5x3@85% (31X0)", "3x5@80% + 1xAMRAP") and
// structured series lists.
package notation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/javiermolinar/coachgrid/internal/program"
)

// Placeholder is displayed for a cell without a prescription.
const Placeholder = "—"

// MaxSets bounds the set count of a single notation part.
const MaxSets = 50

// ErrInvalid is returned for text that is not valid notation.
var ErrInvalid = errors.New("invalid prescription notation")

var (
	partSeparator = regexp.MustCompile(`\s*\+\s*`)
	tempoSuffix   = regexp.MustCompile(`^(.*?)\s*\(\s*([\dXx]{4})\s*\)\s*$`)
	setPattern    = regexp.MustCompile(`(?i)^(\d+)\s*x\s*(?:(amrap)|(\d+)(?:\s*-\s*(\d+))?)` +
		`(?:\s*/\s*(leg|arm|side))?` +
		`(?:\s*@\s*(?:(rpe|rir)\s*(\d+(?:\.\d+)?)|(\d+(?:\.\d+)?)\s*(%|kg|lb)?))?$`)
)

// IsEmpty reports whether text means "no prescription".
func IsEmpty(text string) bool {
	switch strings.TrimSpace(text) {
	case "", Placeholder, "-":
		return true
	}
	return false
}

// Parse converts notation into a series list. Empty text, the placeholder
// and a lone dash yield a nil list. Unparsable text returns an error
// wrapping ErrInvalid.
func Parse(text string) ([]program.Series, error) {
	if IsEmpty(text) {
		return nil, nil
	}

	var out []program.Series
	for _, part := range partSeparator.Split(strings.TrimSpace(text), -1) {
		series, err := parsePart(part)
		if err != nil {
			return nil, err
		}
		for _, s := range series {
			s.OrderIndex = len(out)
			out = append(out, s)
		}
	}
	return out, nil
}

func parsePart(part string) ([]program.Series, error) {
	invalid := fmt.Errorf("%w: %q", ErrInvalid, part)
	if part == "" {
		return nil, invalid
	}

	var tempo string
	if m := tempoSuffix.FindStringSubmatch(part); m != nil {
		part = m[1]
		tempo = strings.ToUpper(m[2])
	}

	m := setPattern.FindStringSubmatch(strings.TrimSpace(part))
	if m == nil {
		return nil, invalid
	}

	sets, err := strconv.Atoi(m[1])
	if err != nil || sets < 1 || sets > MaxSets {
		return nil, invalid
	}

	s := program.Series{Tempo: tempo, UnilateralUnit: strings.ToLower(m[5])}
	if m[2] != "" {
		s.IsAmrap = true
	} else {
		reps, err := strconv.Atoi(m[3])
		if err != nil {
			return nil, invalid
		}
		s.Reps = program.Int(reps)
		if m[4] != "" {
			max, err := strconv.Atoi(m[4])
			if err != nil {
				return nil, invalid
			}
			s.RepsMax = program.Int(max)
		}
	}

	switch {
	case m[6] != "":
		v, err := strconv.ParseFloat(m[7], 64)
		if err != nil {
			return nil, invalid
		}
		s.IntensityType = program.IntensityType(strings.ToLower(m[6]))
		s.IntensityValue = program.Float(v)
	case m[8] != "":
		v, err := strconv.ParseFloat(m[8], 64)
		if err != nil {
			return nil, invalid
		}
		s.IntensityValue = program.Float(v)
		switch strings.ToLower(m[9]) {
		case "%":
			s.IntensityType = program.IntensityPercentage
		case program.UnitLb:
			s.IntensityType = program.IntensityAbsolute
			s.IntensityUnit = program.UnitLb
		default:
			s.IntensityType = program.IntensityAbsolute
			s.IntensityUnit = program.UnitKg
		}
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalid, part, err)
	}
	s = s.Normalize()

	out := make([]program.Series, sets)
	for i := range out {
		out[i] = program.CloneSeries([]program.Series{s})[0]
	}
	return out, nil
}

// Format renders a series list as notation. Series are normalized first and
// consecutive identical ones collapse into one "NxR" part. An empty list
// formats as "". Rest has no notation form and is not rendered.
func Format(series []program.Series) string {
	if len(series) == 0 {
		return ""
	}

	series = program.NormalizeSeries(series)
	var parts []string
	for i := 0; i < len(series); {
		j := i + 1
		for j < len(series) && series[j].SameSet(series[i]) {
			j++
		}
		parts = append(parts, formatPart(j-i, series[i]))
		i = j
	}
	return strings.Join(parts, " + ")
}

func formatPart(count int, s program.Series) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(count))
	b.WriteString("x")

	if s.IsAmrap {
		b.WriteString("AMRAP")
	} else {
		reps := *s.Reps
		b.WriteString(strconv.Itoa(reps))
		if s.RepsMax != nil {
			b.WriteString("-")
			b.WriteString(strconv.Itoa(*s.RepsMax))
		}
	}

	if s.UnilateralUnit != "" {
		b.WriteString("/")
		b.WriteString(s.UnilateralUnit)
	}

	if s.IntensityType != program.IntensityNone && s.IntensityValue != nil {
		v := formatNumber(*s.IntensityValue)
		b.WriteString("@")
		switch s.IntensityType {
		case program.IntensityPercentage:
			b.WriteString(v + "%")
		case program.IntensityRPE:
			b.WriteString("RPE" + v)
		case program.IntensityRIR:
			b.WriteString("RIR" + v)
		default:
			b.WriteString(v + s.IntensityUnit)
		}
	}

	if s.Tempo != "" {
		b.WriteString(" (")
		b.WriteString(s.Tempo)
		b.WriteString(")")
	}
	return b.String()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Display returns the text shown in a grid cell: the placeholder for empty
// text, the text itself otherwise.
func Display(text string) string {
	if text == "" {
		return Placeholder
	}
	return text
}
