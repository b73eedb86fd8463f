package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// kappa places cubic control points so four segments approximate a circle.
const kappa = 0.5522847498

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// measure returns the advance width of s in pixels.
func measure(face font.Face, s string) float64 {
	return fromFixed(font.MeasureString(face, s))
}

// drawTextTop draws s with the top of its em box at y.
func drawTextTop(dst *image.RGBA, face font.Face, c color.Color, s string, x, y float64) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: toFixed(x), Y: toFixed(y) + face.Metrics().Ascent},
	}
	d.DrawString(s)
}

// drawTextMiddle draws s vertically centred on y.
func drawTextMiddle(dst *image.RGBA, face font.Face, c color.Color, s string, x, y float64) {
	m := face.Metrics()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: toFixed(x), Y: toFixed(y) + (m.Ascent-m.Descent)/2},
	}
	d.DrawString(s)
}

// fillCircle paints an anti-aliased disc. Only the bounding box of the disc
// is rasterized.
func fillCircle(dst *image.RGBA, cx, cy, radius float64, c color.Color) {
	box := image.Rect(
		int(math.Floor(cx-radius))-1, int(math.Floor(cy-radius))-1,
		int(math.Ceil(cx+radius))+1, int(math.Ceil(cy+radius))+1,
	).Intersect(dst.Bounds())
	if box.Empty() {
		return
	}

	r := vector.NewRasterizer(box.Dx(), box.Dy())

	x, y := float32(cx-float64(box.Min.X)), float32(cy-float64(box.Min.Y))
	rad := float32(radius)
	k := float32(kappa) * rad

	r.MoveTo(x+rad, y)
	r.CubeTo(x+rad, y+k, x+k, y+rad, x, y+rad)
	r.CubeTo(x-k, y+rad, x-rad, y+k, x-rad, y)
	r.CubeTo(x-rad, y-k, x-k, y-rad, x, y-rad)
	r.CubeTo(x+k, y-rad, x+rad, y-k, x+rad, y)
	r.ClosePath()

	r.Draw(dst, box, image.NewUniform(c), image.Point{})
}

// strokeRect outlines a rectangle with the stroke centred on its edges.
// The ring is rasterized into four strips around the frame so memory stays
// proportional to the border, not the canvas.
func strokeRect(dst *image.RGBA, x, y, w, h, width float64, c color.Color) {
	half := width / 2
	outer := [4]float64{x - half, y - half, x + w + half, y + h + half}
	inner := [4]float64{x + half, y + half, x + w - half, y + h - half}
	hollow := w > width && h > width

	box := image.Rect(
		int(math.Floor(outer[0])), int(math.Floor(outer[1])),
		int(math.Ceil(outer[2])), int(math.Ceil(outer[3])),
	).Intersect(dst.Bounds())
	if box.Empty() {
		return
	}
	if !hollow {
		fillRing(dst, box, outer, inner, false, c)
		return
	}

	// Pixels strictly inside the inner edge have no coverage.
	top := clampInt(int(math.Ceil(inner[1])), box.Min.Y, box.Max.Y)
	bottom := clampInt(int(math.Floor(inner[3])), top, box.Max.Y)
	left := clampInt(int(math.Ceil(inner[0])), box.Min.X, box.Max.X)
	right := clampInt(int(math.Floor(inner[2])), left, box.Max.X)

	for _, strip := range []image.Rectangle{
		image.Rect(box.Min.X, box.Min.Y, box.Max.X, top),
		image.Rect(box.Min.X, bottom, box.Max.X, box.Max.Y),
		image.Rect(box.Min.X, top, left, bottom),
		image.Rect(right, top, box.Max.X, bottom),
	} {
		if !strip.Empty() {
			fillRing(dst, strip, outer, inner, true, c)
		}
	}
}

// fillRing rasterizes the area between outer and inner (x0, y0, x1, y1),
// clipped to box.
func fillRing(dst *image.RGBA, box image.Rectangle, outer, inner [4]float64, hollow bool, c color.Color) {
	r := vector.NewRasterizer(box.Dx(), box.Dy())
	ox, oy := float64(box.Min.X), float64(box.Min.Y)

	x0, y0 := float32(outer[0]-ox), float32(outer[1]-oy)
	x1, y1 := float32(outer[2]-ox), float32(outer[3]-oy)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.ClosePath()

	// The inner edge winds the other way and cancels the fill.
	if hollow {
		x0, y0 = float32(inner[0]-ox), float32(inner[1]-oy)
		x1, y1 = float32(inner[2]-ox), float32(inner[3]-oy)
		r.MoveTo(x0, y0)
		r.LineTo(x0, y1)
		r.LineTo(x1, y1)
		r.LineTo(x1, y0)
		r.ClosePath()
	}

	r.Draw(dst, box, image.NewUniform(c), image.Point{})
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
