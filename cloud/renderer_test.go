package cloud

import (
	"context"
	"image"
	"image/color"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWords() []Word {
	return []Word{
		{Text: "run", Weight: 2},
		{Text: "cat", Weight: 1},
		{Text: "dog", Weight: 1},
		{Text: "бежать", Weight: 5},
		{Text: "книга", Weight: 3},
		{Text: "читать", Weight: 3},
		{Text: "дом", Weight: 2},
		{Text: "окно", Weight: 1},
	}
}

func overlaps(a, b Placement) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W && a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

func TestLayoutStaysInsideCanvasWithoutOverlap(t *testing.T) {
	r, err := New(Options{})
	require.NoError(t, err)
	defer r.Close()

	placed, err := r.Layout(context.Background(), sampleWords(), DefaultWidth, DefaultHeight)
	require.NoError(t, err)
	require.Len(t, placed, len(sampleWords()))

	assert.Equal(t, "бежать", placed[0].Word.Text)
	for i, p := range placed {
		assert.GreaterOrEqual(t, p.X, 0)
		assert.GreaterOrEqual(t, p.Y, 0)
		assert.LessOrEqual(t, p.X+p.W, DefaultWidth, p.Word.Text)
		assert.LessOrEqual(t, p.Y+p.H, DefaultHeight, p.Word.Text)
		assert.GreaterOrEqual(t, p.FontSize, DefaultMinFontSize)
		for _, q := range placed[i+1:] {
			assert.False(t, overlaps(p, q), "%s overlaps %s", p.Word.Text, q.Word.Text)
		}
	}
	for i := 1; i < len(placed); i++ {
		if placed[i].Word.Weight == placed[i-1].Word.Weight {
			continue
		}
		assert.LessOrEqual(t, placed[i].FontSize, placed[i-1].FontSize)
	}
}

func TestLayoutIsDeterministic(t *testing.T) {
	r1, err := New(Options{})
	require.NoError(t, err)
	r2, err := New(Options{})
	require.NoError(t, err)

	a, err := r1.Layout(context.Background(), sampleWords(), 400, 200)
	require.NoError(t, err)
	b, err := r2.Layout(context.Background(), sampleWords(), 400, 200)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := r1.Layout(context.Background(), sampleWords(), 400, 200)
	require.NoError(t, err)
	assert.Equal(t, a, c)
}

func TestLayoutRejectsBadInput(t *testing.T) {
	r, err := New(Options{})
	require.NoError(t, err)

	_, err = r.Layout(context.Background(), sampleWords(), 0, 400)
	require.Error(t, err)

	_, err = r.Layout(context.Background(), []Word{{Text: "", Weight: 1}, {Text: "x", Weight: 0}}, 100, 100)
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Layout(ctx, sampleWords(), 100, 100)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLayoutHonoursMaxWords(t *testing.T) {
	r, err := New(Options{MaxWords: 3})
	require.NoError(t, err)

	placed, err := r.Layout(context.Background(), sampleWords(), DefaultWidth, DefaultHeight)
	require.NoError(t, err)
	require.Len(t, placed, 3)
	assert.Equal(t, []string{"бежать", "книга", "читать"},
		[]string{placed[0].Word.Text, placed[1].Word.Text, placed[2].Word.Text})
}

func TestRenderDrawsOnBackground(t *testing.T) {
	r, err := New(Options{})
	require.NoError(t, err)

	bg := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	img, err := r.Render(context.Background(), sampleWords(), Canvas{Width: DefaultWidth, Height: DefaultHeight, Background: bg})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, DefaultWidth, DefaultHeight), img.Bounds())

	corner := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	assert.Equal(t, bg, corner)

	inked := 0
	for y := 0; y < DefaultHeight; y++ {
		for x := 0; x < DefaultWidth; x++ {
			if color.RGBAModel.Convert(img.At(x, y)).(color.RGBA) != bg {
				inked++
			}
		}
	}
	assert.Greater(t, inked, 100)
}

func TestRenderIsDeterministic(t *testing.T) {
	r, err := New(Options{})
	require.NoError(t, err)

	canvas := Canvas{Width: 300, Height: 150}
	a, err := r.Render(context.Background(), sampleWords(), canvas)
	require.NoError(t, err)
	b, err := r.Render(context.Background(), sampleWords(), canvas)
	require.NoError(t, err)
	assert.Equal(t, a.(*image.RGBA).Pix, b.(*image.RGBA).Pix)
}

func heapAlloc() uint64 {
	runtime.GC()
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc
}

func TestLayoutMeasuresWithoutFaces(t *testing.T) {
	r, err := New(Options{})
	require.NoError(t, err)
	defer r.Close()

	words := []Word{{Text: "run", Weight: 2}, {Text: "cat", Weight: 1}, {Text: "dog", Weight: 1}}
	before := heapAlloc()
	placed, err := r.Layout(context.Background(), words, DefaultWidth, DefaultHeight)
	require.NoError(t, err)
	require.Len(t, placed, 3)
	assert.Empty(t, r.fonts.faces)

	after := heapAlloc()
	if after > before {
		assert.Less(t, after-before, uint64(32<<20), "layout retained %d bytes", after-before)
	}
}

func TestRenderReleasesFaces(t *testing.T) {
	r, err := New(Options{})
	require.NoError(t, err)
	defer r.Close()

	canvas := Canvas{Width: DefaultWidth, Height: DefaultHeight}
	before := heapAlloc()
	for i := 0; i < 3; i++ {
		_, err := r.Render(context.Background(), sampleWords(), canvas)
		require.NoError(t, err)
		assert.Empty(t, r.fonts.faces)
	}
	after := heapAlloc()
	if after > before {
		assert.Less(t, after-before, uint64(32<<20), "renders retained %d bytes", after-before)
	}
}

func TestMeasureScalesWithSize(t *testing.T) {
	fs, err := loadFont("")
	require.NoError(t, err)

	w10, h10, a10 := fs.measure("слово", 10)
	w40, h40, a40 := fs.measure("слово", 40)
	assert.Positive(t, w10)
	assert.Greater(t, h10, a10)
	assert.Greater(t, a10, 0)
	assert.InDelta(t, 4*w10, w40, 4)
	assert.InDelta(t, 4*h10, h40, 8)
	assert.Greater(t, a40, a10)
	assert.Empty(t, fs.faces)
}

func TestLayoutReportsNoSpace(t *testing.T) {
	r, err := New(Options{})
	require.NoError(t, err)
	defer r.Close()

	long := "cats" + strings.Repeat("s", 600)
	_, err = r.Layout(context.Background(), []Word{{Text: long, Weight: 3}, {Text: "cat", Weight: 1}}, DefaultWidth, DefaultHeight)
	require.ErrorIs(t, err, ErrNoSpace)

	_, err = r.Render(context.Background(), []Word{{Text: long, Weight: 1}}, Canvas{Width: DefaultWidth, Height: DefaultHeight})
	require.ErrorIs(t, err, ErrNoSpace)
}

func TestNewRejectsMissingFont(t *testing.T) {
	_, err := New(Options{FontPath: "/nonexistent/font.ttf"})
	require.Error(t, err)
}

func TestNextFontSize(t *testing.T) {
	assert.Equal(t, 100, nextFontSize(100, 1, 1, 0.5))
	assert.Equal(t, 75, nextFontSize(100, 0.5, 1, 0.5))
	assert.Equal(t, 50, nextFontSize(100, 0.5, 1, 1))
}
