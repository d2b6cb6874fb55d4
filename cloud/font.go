package cloud

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// glyphCacheEntries bounds the mask cache of each drawing face; truetype
// allocates it up front at the face's full glyph size.
const glyphCacheEntries = 16

// fontSet measures text from the parsed font and hands out drawing faces.
// Faces are not safe for concurrent use; the renderer serializes access.
type fontSet struct {
	ttf   *truetype.Font
	faces map[int]font.Face
}

func loadFont(path string) (*fontSet, error) {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		data = b
	}
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &fontSet{ttf: ttf, faces: make(map[int]font.Face)}, nil
}

// face returns an unhinted face so drawn advances match measure.
func (fs *fontSet) face(size int) font.Face {
	if f, ok := fs.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(fs.ttf, &truetype.Options{
		Size:              float64(size),
		DPI:               72,
		Hinting:           font.HintingNone,
		GlyphCacheEntries: glyphCacheEntries,
	})
	fs.faces[size] = f
	return f
}

// measure returns the advance width of s and the font's bounding-box height
// and ascent at size pixels. No face is created.
func (fs *fontSet) measure(s string, size int) (w, h, ascent int) {
	scale := fixed.I(size)
	var adv fixed.Int26_6
	var prev truetype.Index
	for i, r := range []rune(s) {
		idx := fs.ttf.Index(r)
		if i > 0 {
			adv += fs.ttf.Kern(scale, prev, idx)
		}
		adv += fs.ttf.HMetric(scale, idx).AdvanceWidth
		prev = idx
	}
	b := fs.ttf.Bounds(scale)
	ascent = b.Max.Y.Ceil()
	return adv.Ceil(), ascent + (-b.Min.Y).Ceil(), ascent
}

func (fs *fontSet) close() {
	for size, f := range fs.faces {
		_ = f.Close()
		delete(fs.faces, size)
	}
}
