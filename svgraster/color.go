package svgraster

import (
	"errors"
	"image/color"
	"strconv"
	"strings"
)

// ErrInvalidBackground is returned for colors not written as RRGGBB.
var ErrInvalidBackground = errors.New("invalid background color (expected #RRGGBB)")

// ParseBackground reads an opaque "#RRGGBB" (or "RRGGBB") color.
// A blank string means no background, and returns ok == false.
func ParseBackground(s string) (c color.NRGBA, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return c, false, nil
	}
	s = strings.TrimLeft(s, "#")
	if len(s) != 6 {
		return c, false, ErrInvalidBackground
	}
	var comps [3]uint8
	for i := range comps {
		v, err := strconv.ParseUint(s[2*i:2*i+2], 16, 8)
		if err != nil {
			return c, false, ErrInvalidBackground
		}
		comps[i] = uint8(v)
	}
	return color.NRGBA{R: comps[0], G: comps[1], B: comps[2], A: 0xff}, true, nil
}
