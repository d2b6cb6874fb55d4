package cloud

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "#000000"},
		{"white", "#ffffff"},
		{"DarkBlue", "#00008b"},
		{" light green ", "#90ee90"},
		{"#ff8800", "#ff8800"},
		{"#F80", "#ff8800"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, HexColor(c))
		})
	}
}

func TestParseColorRejects(t *testing.T) {
	for _, in := range []string{"blurple", "#12345", "#ggg", "#ff00001", "ff0000"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseColor(in)
			require.ErrorIs(t, err, ErrInvalidColor)
		})
	}
}

func TestPaletteAt(t *testing.T) {
	p, err := NewPalette("#000000", "#ffffff")
	require.NoError(t, err)

	assert.Equal(t, "#000000", HexColor(p.At(0)))
	assert.Equal(t, "#ffffff", HexColor(p.At(1)))
	assert.Equal(t, "#ffffff", HexColor(p.At(7)))

	mid := color.GrayModel.Convert(p.At(0.5)).(color.Gray)
	assert.InDelta(t, 119, int(mid.Y), 20)

	_, err = NewPalette()
	require.Error(t, err)
	_, err = NewPalette("nope")
	require.ErrorIs(t, err, ErrInvalidColor)
}
