package cloud

import (
	"math"
	"math/rand/v2"
)

// occupancy is a coarse grid of taken canvas cells with an integral image
// for constant-time "is this box free" queries.
type occupancy struct {
	step   int
	w, h   int
	taken  []bool
	sums   []int
	stride int
}

func newOccupancy(width, height, step int) *occupancy {
	w, h := width/step, height/step
	o := &occupancy{
		step:   step,
		w:      w,
		h:      h,
		taken:  make([]bool, w*h),
		stride: w + 1,
	}
	o.sums = make([]int, (w+1)*(h+1))
	return o
}

func (o *occupancy) cells(px int) int {
	return (px + o.step - 1) / o.step
}

// boxSum counts taken cells in [x, x+bw) x [y, y+bh).
func (o *occupancy) boxSum(x, y, bw, bh int) int {
	s := o.sums
	return s[(y+bh)*o.stride+x+bw] - s[y*o.stride+x+bw] - s[(y+bh)*o.stride+x] + s[y*o.stride+x]
}

// findFree picks a uniformly random free position for a box of bw x bh cells.
func (o *occupancy) findFree(bw, bh int, rng *rand.Rand) (x, y int, ok bool) {
	if bw > o.w || bh > o.h || bw <= 0 || bh <= 0 {
		return 0, 0, false
	}
	free := 0
	for y := 0; y <= o.h-bh; y++ {
		for x := 0; x <= o.w-bw; x++ {
			if o.boxSum(x, y, bw, bh) == 0 {
				free++
			}
		}
	}
	if free == 0 {
		return 0, 0, false
	}
	pick := rng.IntN(free)
	for y := 0; y <= o.h-bh; y++ {
		for x := 0; x <= o.w-bw; x++ {
			if o.boxSum(x, y, bw, bh) != 0 {
				continue
			}
			if pick == 0 {
				return x, y, true
			}
			pick--
		}
	}
	return 0, 0, false
}

func (o *occupancy) mark(x, y, bw, bh int) {
	for yy := y; yy < y+bh; yy++ {
		for xx := x; xx < x+bw; xx++ {
			o.taken[yy*o.w+xx] = true
		}
	}
	o.rebuild()
}

func (o *occupancy) rebuild() {
	for y := 0; y < o.h; y++ {
		row := 0
		for x := 0; x < o.w; x++ {
			if o.taken[y*o.w+x] {
				row++
			}
			o.sums[(y+1)*o.stride+x+1] = o.sums[y*o.stride+x+1] + row
		}
	}
}

// nextFontSize scales the previous size by the weight ratio of consecutive words.
func nextFontSize(prev int, weight, prevWeight, relativeScaling float64) int {
	if prevWeight <= 0 {
		return prev
	}
	return int(math.Round((relativeScaling*(weight/prevWeight) + (1 - relativeScaling)) * float64(prev)))
}
