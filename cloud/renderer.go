package cloud

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fogleman/gg"
)

const (
	DefaultWidth            = 800
	DefaultHeight           = 400
	DefaultMaxWords         = 200
	DefaultMinFontSize      = 4
	DefaultRelativeScaling  = 0.5
	DefaultPreferHorizontal = 0.9
	DefaultMargin           = 2
	DefaultSeed             = 42

	gridStep = 2
)

// ErrNoSpace reports that not even the first word fits on the canvas at
// the minimum font size.
var ErrNoSpace = errors.New("no space to draw any word")

// Word is one entry of the cloud; Weight is typically a frequency count.
type Word struct {
	Text   string
	Weight float64
}

// Canvas describes the output raster.
type Canvas struct {
	Width      int
	Height     int
	Background color.Color
}

// Placement is where and how a word was laid out. X, Y, W and H give the
// text box in pixels after rotation.
type Placement struct {
	Word     Word
	FontSize int
	Rotated  bool
	X, Y     int
	W, H     int
	Color    color.Color

	ascent int
}

// Options tunes the layout. Zero values select the defaults.
type Options struct {
	FontPath         string
	MaxWords         int
	MinFontSize      int
	MaxFontSize      int // 0 means the canvas height
	FontStep         int
	RelativeScaling  float64
	PreferHorizontal float64
	Margin           int
	Seed             uint64
	Palette          Palette
	Logger           *log.Logger
}

func (o *Options) applyDefaults() {
	if o.MaxWords <= 0 {
		o.MaxWords = DefaultMaxWords
	}
	if o.MinFontSize <= 0 {
		o.MinFontSize = DefaultMinFontSize
	}
	if o.FontStep <= 0 {
		o.FontStep = 1
	}
	if o.RelativeScaling <= 0 || o.RelativeScaling > 1 {
		o.RelativeScaling = DefaultRelativeScaling
	}
	if o.PreferHorizontal <= 0 || o.PreferHorizontal > 1 {
		o.PreferHorizontal = DefaultPreferHorizontal
	}
	if o.Margin <= 0 {
		o.Margin = DefaultMargin
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if len(o.Palette) == 0 {
		o.Palette = Viridis
	}
}

// Renderer lays words out and rasterizes them. It is safe for concurrent
// use; renders are serialized.
type Renderer struct {
	mu    sync.Mutex
	opts  Options
	fonts *fontSet
}

// New loads the font and returns a renderer.
func New(opts Options) (*Renderer, error) {
	opts.applyDefaults()
	fonts, err := loadFont(opts.FontPath)
	if err != nil {
		return nil, err
	}
	return &Renderer{opts: opts, fonts: fonts}, nil
}

func (r *Renderer) logf(format string, args ...any) {
	if r.opts.Logger != nil {
		r.opts.Logger.Debugf(format, args...)
	}
}

// Layout positions words on a width x height canvas. The same input always
// yields the same placements.
func (r *Renderer) Layout(ctx context.Context, words []Word, width, height int) ([]Placement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.layout(ctx, words, width, height)
}

func (r *Renderer) layout(ctx context.Context, words []Word, width, height int) ([]Placement, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	ranked := rankWords(words, r.opts.MaxWords)
	if len(ranked) == 0 {
		return nil, errors.New("no words to lay out")
	}

	rng := rand.New(rand.NewPCG(r.opts.Seed, r.opts.Seed^0x9e3779b97f4a7c15))
	grid := newOccupancy(width, height, gridStep)
	maxWeight := ranked[0].Weight
	fontSize := r.opts.MaxFontSize
	if fontSize <= 0 {
		fontSize = height
	}
	lastWeight := 1.0
	placed := make([]Placement, 0, len(ranked))

	for _, w := range ranked {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		weight := w.Weight / maxWeight
		fontSize = nextFontSize(fontSize, weight, lastWeight, r.opts.RelativeScaling)
		rotate := rng.Float64() > r.opts.PreferHorizontal
		triedOther := false

		var p Placement
		found := false
		for fontSize >= r.opts.MinFontSize {
			tw, th, ascent := r.fonts.measure(w.Text, fontSize)
			bw, bh := tw, th
			if rotate {
				bw, bh = th, tw
			}
			cw := grid.cells(bw + 2*r.opts.Margin)
			ch := grid.cells(bh + 2*r.opts.Margin)
			if x, y, ok := grid.findFree(cw, ch, rng); ok {
				grid.mark(x, y, cw, ch)
				p = Placement{
					Word:     w,
					FontSize: fontSize,
					Rotated:  rotate,
					X:        x*gridStep + r.opts.Margin,
					Y:        y*gridStep + r.opts.Margin,
					W:        bw,
					H:        bh,
					ascent:   ascent,
				}
				found = true
				break
			}
			if !triedOther {
				rotate = !rotate
				triedOther = true
				continue
			}
			fontSize -= r.opts.FontStep
			triedOther = false
		}
		if !found {
			r.logf("canvas full after %d of %d words", len(placed), len(ranked))
			break
		}
		p.Color = r.opts.Palette.random(rng)
		placed = append(placed, p)
		lastWeight = weight
	}
	if len(placed) == 0 {
		return nil, fmt.Errorf("%w: %q at %dpx on %dx%d", ErrNoSpace, ranked[0].Text, r.opts.MinFontSize, width, height)
	}
	return placed, nil
}

// rankWords drops empty and non-positive entries, orders by weight
// descending (stable) and truncates to limit.
func rankWords(words []Word, limit int) []Word {
	ranked := make([]Word, 0, len(words))
	for _, w := range words {
		if w.Text == "" || w.Weight <= 0 || math.IsNaN(w.Weight) {
			continue
		}
		ranked = append(ranked, w)
	}
	slices.SortStableFunc(ranked, func(a, b Word) int {
		return cmp.Compare(b.Weight, a.Weight)
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Render lays out words and draws them on a new image of the canvas size.
func (r *Renderer) Render(ctx context.Context, words []Word, canvas Canvas) (image.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	placements, err := r.layout(ctx, words, canvas.Width, canvas.Height)
	if err != nil {
		return nil, err
	}
	bg := canvas.Background
	if bg == nil {
		bg = color.Black
	}

	defer r.fonts.close()

	dc := gg.NewContext(canvas.Width, canvas.Height)
	dc.SetColor(bg)
	dc.Clear()
	for _, p := range placements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dc.SetFontFace(r.fonts.face(p.FontSize))
		dc.SetColor(p.Color)
		if !p.Rotated {
			dc.DrawString(p.Word.Text, float64(p.X), float64(p.Y+p.ascent))
			continue
		}
		// Rotated text reads bottom to top; W is the line height here.
		dc.Push()
		dc.Translate(float64(p.X)+float64(p.W)/2, float64(p.Y)+float64(p.H)/2)
		dc.Rotate(-math.Pi / 2)
		dc.DrawString(p.Word.Text, -float64(p.H)/2, -float64(p.W)/2+float64(p.ascent))
		dc.Pop()
	}
	r.logf("rendered %d words on %dx%d", len(placements), canvas.Width, canvas.Height)
	return dc.Image(), nil
}

// Close releases any font faces still held.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fonts.close()
	return nil
}
