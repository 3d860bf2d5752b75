package svgicon

import (
	"fmt"
	"strconv"
	"strings"
)

// CSS absolute units, at 96 dpi, and the default font metrics
// used to resolve relative units.
const (
	dpi      = 96.
	fontSize = 12.
)

var unitToPx = map[string]float64{
	"":   1,
	"px": 1,
	"in": dpi,
	"cm": dpi / 2.54,
	"mm": dpi / 25.4,
	"pt": dpi / 72,
	"pc": dpi / 6,
	"em": fontSize,
	"ex": fontSize / 2,
}

// length is an SVG <length> value
type length struct {
	value float64
	unit  string // lower case, "%" for percentages
}

func isUnitByte(b byte) bool {
	return b == '%' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func parseLength(s string) (length, error) {
	s = strings.TrimSpace(s)
	i := len(s)
	for i > 0 && isUnitByte(s[i-1]) {
		i--
	}
	v, err := parseNumber(s[:i])
	if err != nil {
		return length{}, fmt.Errorf("invalid length %q", s)
	}
	unit := strings.ToLower(s[i:])
	if _, ok := unitToPx[unit]; !ok && unit != "%" {
		return length{}, fmt.Errorf("unsupported unit %q in %q", unit, s)
	}
	return length{value: v, unit: unit}, nil
}

// toPx resolves the length, using `ref` as the 100% reference
func (l length) toPx(ref float64) float64 {
	if l.unit == "%" {
		return ref * l.value / 100
	}
	return l.value * unitToPx[l.unit]
}
