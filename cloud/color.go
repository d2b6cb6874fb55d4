package cloud

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand/v2"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ErrInvalidColor is returned when a colour string is neither a known name nor a hex triplet.
var ErrInvalidColor = errors.New("invalid color")

// ParseColor resolves a CSS/SVG colour name ("white", "DarkBlue") or a
// "#rgb"/"#rrggbb" hex string. An empty string is black.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.Black, nil
	}
	if strings.HasPrefix(s, "#") {
		if (len(s) != 4 && len(s) != 7) || !isHex(s[1:]) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		c, err := colorful.Hex(strings.ToLower(s))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
		}
		return c.Clamped(), nil
	}
	name := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

// HexColor formats c as "#rrggbb".
func HexColor(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Clamped().Hex()
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// Palette maps a position in [0,1] to a colour.
type Palette []colorful.Color

// Viridis is the default word palette.
var Viridis = mustPalette(
	"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
)

// NewPalette builds a palette from hex stops.
func NewPalette(stops ...string) (Palette, error) {
	if len(stops) == 0 {
		return nil, errors.New("palette needs at least one stop")
	}
	p := make(Palette, 0, len(stops))
	for _, s := range stops {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("%w: palette stop %q", ErrInvalidColor, s)
		}
		p = append(p, c)
	}
	return p, nil
}

func mustPalette(stops ...string) Palette {
	p, err := NewPalette(stops...)
	if err != nil {
		panic(err)
	}
	return p
}

// At blends the two stops around t in Lab space.
func (p Palette) At(t float64) color.Color {
	if len(p) == 1 {
		return p[0].Clamped()
	}
	t = min(max(t, 0), 1)
	pos := t * float64(len(p)-1)
	i := int(pos)
	if i >= len(p)-1 {
		return p[len(p)-1].Clamped()
	}
	return p[i].BlendLab(p[i+1], pos-float64(i)).Clamped()
}

func (p Palette) random(rng *rand.Rand) color.Color {
	return p.At(rng.Float64())
}
