// Package render paints the year calendar described by a layout plan onto
// an RGBA raster and encodes it as PNG.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strconv"
	"time"

	"github.com/kozaktomas/wallcal/internal/calendar"
	"github.com/kozaktomas/wallcal/internal/layout"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// minFontSize keeps face creation valid on very small canvases.
const minFontSize = 1.0

// ErrInvalidCanvas is returned for plans without a drawable area.
var ErrInvalidCanvas = errors.New("canvas dimensions must be positive")

// Options are the per-render inputs besides the geometry.
type Options struct {
	Year  int
	Today time.Time
	Theme Theme
}

// Renderer holds the parsed fonts. It is immutable and safe for concurrent
// use; faces are created per render because they are not.
type Renderer struct {
	regular *opentype.Font
	bold    *opentype.Font
}

// New parses the embedded Go fonts.
func New() (*Renderer, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing bold font: %w", err)
	}
	return &Renderer{regular: regular, bold: bold}, nil
}

// faceSet is the handful of faces a single render needs.
type faceSet struct {
	title     font.Face
	bigNum    font.Face
	monthName font.Face
	day       font.Face
}

func (fs *faceSet) Close() {
	for _, f := range []font.Face{fs.title, fs.bigNum, fs.monthName, fs.day} {
		if f != nil {
			f.Close()
		}
	}
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    max(size, minFontSize),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %.2fpx face: %w", size, err)
	}
	return face, nil
}

func (r *Renderer) faces(plan layout.Plan) (*faceSet, error) {
	fs := &faceSet{}
	var err error
	if fs.title, err = newFace(r.bold, plan.TitleSize); err != nil {
		return nil, err
	}
	if fs.bigNum, err = newFace(r.bold, plan.BigNumSize); err != nil {
		fs.Close()
		return nil, err
	}
	if fs.monthName, err = newFace(r.bold, plan.MonthNameSize); err != nil {
		fs.Close()
		return nil, err
	}
	if fs.day, err = newFace(r.regular, plan.DayTextSize); err != nil {
		fs.Close()
		return nil, err
	}
	return fs, nil
}

// Render paints the twelve months of opts.Year. The output depends only on
// the plan and the options.
func (r *Renderer) Render(plan layout.Plan, opts Options) (*image.RGBA, error) {
	if plan.Width <= 0 || plan.Height <= 0 {
		return nil, ErrInvalidCanvas
	}

	fs, err := r.faces(plan)
	if err != nil {
		return nil, err
	}
	defer fs.Close()

	theme := opts.Theme
	img := image.NewRGBA(image.Rect(0, 0, plan.Width, plan.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(theme.Background), image.Point{}, draw.Src)

	strokeRect(img, plan.Padding, plan.Padding, plan.ContentW, plan.ContentH, plan.BorderWidth, theme.Text)
	drawTextMiddle(img, fs.title, theme.Text, strconv.Itoa(opts.Year), plan.TitleX, plan.TitleCenterY)

	for m := range 12 {
		drawMonth(img, plan, fs, theme, opts.Year, m, opts.Today)
	}
	return img, nil
}

func drawMonth(img *image.RGBA, plan layout.Plan, fs *faceSet, theme Theme, year, monthIndex int, today time.Time) {
	cell := plan.Cell(monthIndex)
	x := cell.X + plan.CellPadding

	number := fmt.Sprintf("%02d", monthIndex+1)
	drawTextTop(img, fs.bigNum, theme.Text, number, x, cell.Y)
	nameX := x + measure(fs.bigNum, number) + plan.MonthNameGap
	drawTextTop(img, fs.monthName, theme.Text, calendar.MonthNames[monthIndex], nameX, cell.Y+plan.MonthNameNudge)

	headerY := plan.SubGridY(cell, 0)
	for i, label := range calendar.WeekdayLabels {
		drawTextTop(img, fs.day, theme.Text, label, plan.ColumnX(cell, i), headerY)
	}

	for _, d := range calendar.Days(year, monthIndex, today) {
		dx := plan.ColumnX(cell, d.Column)
		dy := plan.SubGridY(cell, d.Row+1)
		label := strconv.Itoa(d.Day)

		if d.Highlight {
			cx := dx + measure(fs.day, label)/2
			cy := dy + plan.DayTextSize/2
			fillCircle(img, cx, cy, plan.HighlightR, theme.Highlight)
			drawTextTop(img, fs.day, theme.HighlightText, label, dx, dy)
			continue
		}
		drawTextTop(img, fs.day, theme.Text, label, dx, dy)
	}
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}
