package circuit

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// piDenominators are the fractions of pi FormatAngle writes symbolically.
var piDenominators = []float64{1, 2, 3, 4, 6, 8}

// ParseAngle reads a rotation angle in radians. Besides plain numbers it accepts
// multiples and fractions of pi written as [k][*]pi[/d], e.g. "pi/2", "3pi/4"
// or "-2*pi". Spaces and case are ignored.
func ParseAngle(s string) (float64, error) {
	expr := strings.ToLower(strings.Join(strings.Fields(s), ""))
	if expr == "" {
		return 0, errors.New("empty angle")
	}
	if v, err := strconv.ParseFloat(expr, 64); err == nil {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, fmt.Errorf("invalid angle %q: not finite", s)
		}
		return v, nil
	}

	num, den, hasDen := strings.Cut(expr, "/")
	coeff, ok := strings.CutSuffix(num, "pi")
	if !ok {
		return 0, fmt.Errorf("invalid angle %q: want a number or a multiple of pi", s)
	}

	k := 1.0
	switch coeff = strings.TrimSuffix(coeff, "*"); coeff {
	case "", "+":
	case "-":
		k = -1
	default:
		v, err := strconv.ParseFloat(coeff, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid angle %q: bad coefficient %q", s, coeff)
		}
		k = v
	}

	angle := k * math.Pi
	if hasDen {
		d, err := strconv.ParseFloat(den, 64)
		if err != nil || d == 0 {
			return 0, fmt.Errorf("invalid angle %q: bad denominator %q", s, den)
		}
		angle /= d
	}
	return angle, nil
}

// FormatAngle writes val as n*pi/d when it is a non-zero multiple of pi/d for a
// small d, and as a plain number otherwise. The output parses with ParseAngle.
func FormatAngle(val float64) string {
	ratio := val / math.Pi
	for _, d := range piDenominators {
		n := math.Round(ratio * d)
		if n == 0 || math.Abs(ratio*d-n) > 1e-9 {
			continue
		}
		var sb strings.Builder
		if n < 0 {
			sb.WriteByte('-')
		}
		if a := math.Abs(n); a != 1 {
			fmt.Fprintf(&sb, "%g*", a)
		}
		sb.WriteString("pi")
		if d != 1 {
			fmt.Fprintf(&sb, "/%g", d)
		}
		return sb.String()
	}
	return strconv.FormatFloat(val, 'g', -1, 64)
}
