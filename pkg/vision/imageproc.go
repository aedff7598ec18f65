/*
 * Copyright © Vibe Print Authors. 2025-2026. All rights reserved.
 */

package vision

import (
	"image"
	"math"
)

// grayPlane is a dense 8-bit grayscale image.
type grayPlane struct {
	pix    []uint8
	w, h   int
	stride int
}

func newGrayPlane(w, h int) *grayPlane {
	return &grayPlane{pix: make([]uint8, w*h), w: w, h: h, stride: w}
}

func (g *grayPlane) at(x, y int) uint8 {
	return g.pix[y*g.stride+x]
}

func (g *grayPlane) set(x, y int, v uint8) {
	g.pix[y*g.stride+x] = v
}

// toGray converts any image to a grayscale plane using the ITU-R 601
// luma weights.
func toGray(img image.Image) *grayPlane {
	b := img.Bounds()
	g := newGrayPlane(b.Dx(), b.Dy())
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			r, gg, bb, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			// 16-bit channels; luma in 0..255
			v := (299*float64(r) + 587*float64(gg) + 114*float64(bb)) / 1000 / 257
			g.set(x, y, uint8(math.Min(v, 255)))
		}
	}
	return g
}

// crop returns a view-copy of the rows [y0, y1).
func (g *grayPlane) crop(y0, y1 int) *grayPlane {
	if y0 < 0 {
		y0 = 0
	}
	if y1 > g.h {
		y1 = g.h
	}
	out := newGrayPlane(g.w, y1-y0)
	copy(out.pix, g.pix[y0*g.stride:y1*g.stride])
	return out
}

// sobel computes horizontal and vertical gradients with 3x3 Sobel
// kernels. Border pixels are left zero.
func sobel(g *grayPlane) (gx, gy []float64) {
	gx = make([]float64, g.w*g.h)
	gy = make([]float64, g.w*g.h)
	for y := 1; y < g.h-1; y++ {
		for x := 1; x < g.w-1; x++ {
			p := func(dx, dy int) float64 { return float64(g.at(x+dx, y+dy)) }
			sx := -p(-1, -1) + p(1, -1) - 2*p(-1, 0) + 2*p(1, 0) - p(-1, 1) + p(1, 1)
			sy := -p(-1, -1) - 2*p(0, -1) - p(1, -1) + p(-1, 1) + 2*p(0, 1) + p(1, 1)
			gx[y*g.w+x] = sx
			gy[y*g.w+x] = sy
		}
	}
	return gx, gy
}

// edgeMap builds a binary edge image by gradient-magnitude hysteresis:
// pixels above high are edges, pixels above low are kept only when
// connected to one.
func edgeMap(g *grayPlane, low, high float64) *binaryPlane {
	gx, gy := sobel(g)
	mag := make([]float64, g.w*g.h)
	for i := range mag {
		mag[i] = math.Hypot(gx[i], gy[i])
	}

	out := newBinaryPlane(g.w, g.h)
	var queue []int
	for i, m := range mag {
		if m >= high {
			out.pix[i] = true
			queue = append(queue, i)
		}
	}
	// grow strong edges into weak neighbors
	for len(queue) > 0 {
		i := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		x, y := i%g.w, i/g.w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= g.w || ny >= g.h {
					continue
				}
				ni := ny*g.w + nx
				if !out.pix[ni] && mag[ni] >= low {
					out.pix[ni] = true
					queue = append(queue, ni)
				}
			}
		}
	}
	return out
}

// binaryPlane is a boolean mask with the same layout as grayPlane.
type binaryPlane struct {
	pix  []bool
	w, h int
}

func newBinaryPlane(w, h int) *binaryPlane {
	return &binaryPlane{pix: make([]bool, w*h), w: w, h: h}
}

func (b *binaryPlane) at(x, y int) bool {
	return b.pix[y*b.w+x]
}

// component is one 8-connected region of a binary image.
type component struct {
	area       int
	minX, minY int
	maxX, maxY int
	sumX, sumY float64
	pixels     []int
}

func (c *component) centroid() (float64, float64) {
	return c.sumX / float64(c.area), c.sumY / float64(c.area)
}

func (c *component) bbox() Location {
	return Location{X: c.minX, Y: c.minY, Width: c.maxX - c.minX + 1, Height: c.maxY - c.minY + 1}
}

// connectedComponents labels 8-connected regions.
func connectedComponents(b *binaryPlane) []*component {
	visited := make([]bool, len(b.pix))
	var comps []*component
	var stack []int
	for start, on := range b.pix {
		if !on || visited[start] {
			continue
		}
		c := &component{minX: b.w, minY: b.h}
		stack = append(stack[:0], start)
		visited[start] = true
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%b.w, i/b.w
			c.area++
			c.sumX += float64(x)
			c.sumY += float64(y)
			c.pixels = append(c.pixels, i)
			if x < c.minX {
				c.minX = x
			}
			if x > c.maxX {
				c.maxX = x
			}
			if y < c.minY {
				c.minY = y
			}
			if y > c.maxY {
				c.maxY = y
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= b.w || ny >= b.h {
						continue
					}
					ni := ny*b.w + nx
					if b.pix[ni] && !visited[ni] {
						visited[ni] = true
						stack = append(stack, ni)
					}
				}
			}
		}
		comps = append(comps, c)
	}
	return comps
}

// orientation fits an ellipse to the component via second central
// moments and returns the major/minor axis ratio and the major-axis
// angle in degrees, normalized so that a horizontal major axis maps to
// 90 and a vertical one to 0 (or 180).
func (c *component) orientation(b *binaryPlane) (ratio, angleDeg float64) {
	cx, cy := c.centroid()
	var mu20, mu02, mu11 float64
	for _, i := range c.pixels {
		dx := float64(i%b.w) - cx
		dy := float64(i/b.w) - cy
		mu20 += dx * dx
		mu02 += dy * dy
		mu11 += dx * dy
	}
	n := float64(c.area)
	mu20, mu02, mu11 = mu20/n, mu02/n, mu11/n

	common := math.Sqrt(math.Pow(mu20-mu02, 2) + 4*mu11*mu11)
	l1 := (mu20 + mu02 + common) / 2
	l2 := (mu20 + mu02 - common) / 2
	if l2 < 0 {
		l2 = 0
	}
	ratio = math.Sqrt(l1) / (math.Sqrt(l2) + 0.01)

	theta := 0.5 * math.Atan2(2*mu11, mu20-mu02)
	angleDeg = theta*180/math.Pi + 90
	if angleDeg < 0 {
		angleDeg += 180
	}
	if angleDeg >= 180 {
		angleDeg -= 180
	}
	return ratio, angleDeg
}

// perimeter counts pixels that touch a 4-connected background pixel.
func (c *component) perimeter(b *binaryPlane) int {
	p := 0
	for _, i := range c.pixels {
		x, y := i%b.w, i/b.w
		for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			nx, ny := x+d[0], y+d[1]
			if nx < 0 || ny < 0 || nx >= b.w || ny >= b.h || !b.pix[ny*b.w+nx] {
				p++
				break
			}
		}
	}
	return p
}

// filterThinLines convolves with a [-1 2 -1] column kernel that
// responds to one-pixel-wide vertical structures, then thresholds.
func filterThinLines(g *grayPlane, threshold uint8) *binaryPlane {
	out := newBinaryPlane(g.w, g.h)
	for y := 0; y < g.h; y++ {
		for x := 1; x < g.w-1; x++ {
			v := 2*int(g.at(x, y)) - int(g.at(x-1, y)) - int(g.at(x+1, y))
			if v > int(threshold) {
				out.pix[y*g.w+x] = true
			}
		}
	}
	return out
}

// verticalSegments counts near-vertical line segments: per-column runs
// of set pixels at least minLen long, allowing gaps up to maxGap.
func verticalSegments(b *binaryPlane, minLen, maxGap int) int {
	segments := 0
	for x := 0; x < b.w; x++ {
		runLen, gap := 0, 0
		flush := func() {
			if runLen >= minLen {
				segments++
			}
			runLen, gap = 0, 0
		}
		for y := 0; y < b.h; y++ {
			if b.at(x, y) {
				runLen += gap + 1
				gap = 0
			} else if runLen > 0 {
				gap++
				if gap > maxGap {
					flush()
				}
			}
		}
		flush()
	}
	return segments
}

// diffRatio is the fraction of pixels whose absolute difference exceeds
// the threshold. Frames of different sizes compare over the overlap.
func diffRatio(a, b *grayPlane, threshold uint8) float64 {
	w, h := a.w, a.h
	if b.w < w {
		w = b.w
	}
	if b.h < h {
		h = b.h
	}
	if w == 0 || h == 0 {
		return 0
	}
	changed := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := int(a.at(x, y)) - int(b.at(x, y))
			if d < 0 {
				d = -d
			}
			if d > int(threshold) {
				changed++
			}
		}
	}
	return float64(changed) / float64(w*h)
}

func meanStddev(vals []float64) (mean, stddev float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))
	for _, v := range vals {
		stddev += (v - mean) * (v - mean)
	}
	stddev = math.Sqrt(stddev / float64(len(vals)))
	return mean, stddev
}
