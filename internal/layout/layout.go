// Package layout derives the geometry of the year calendar from the canvas
// size. Every length is a ratio of a dimension that already scales with the
// target resolution, so the same plan works for a small preview and a 6K
// display alike.
package layout

import "math"

// Orientation of the canvas.
type Orientation string

// Orientation values.
const (
	Landscape Orientation = "landscape"
	Portrait  Orientation = "portrait"
)

// Ratios are the tunables shared by the layout engine and the renderer.
// Changing one of them changes the picture for every client, so they live
// in one place.
type Ratios struct {
	Padding          float64 // of min(width, height)
	BorderWidth      float64 // of min(width, height)
	Header           float64 // of content height
	TitleWidthCap    float64 // of content width
	TitleHeightCap   float64 // of header height
	TitleInset       float64 // of content width
	GridBottomMargin float64 // of padding
	BigNumber        float64 // of column width
	MonthName        float64 // of column width
	DayText          float64 // of column width
	CellPadding      float64 // of column width
	HeaderReserve    float64 // of row height, kept free around the month header
	SubGridTop       float64 // of row height, offset of the weekday row below the number
	HighlightRadius  float64 // of day text size
	MonthNameNudge   float64 // of big number size
	MonthNameGap     float64 // of column width
	SubRows          int
	WeekColumns      int
}

// DefaultRatios returns the reference tunables.
func DefaultRatios() Ratios {
	return Ratios{
		Padding:          0.05,
		BorderWidth:      0.003,
		Header:           0.12,
		TitleWidthCap:    0.15,
		TitleHeightCap:   0.8,
		TitleInset:       0.02,
		GridBottomMargin: 0.5,
		BigNumber:        0.20,
		MonthName:        0.07,
		DayText:          0.042,
		CellPadding:      0.08,
		HeaderReserve:    0.1,
		SubGridTop:       0.05,
		HighlightRadius:  1.1,
		MonthNameNudge:   0.25,
		MonthNameGap:     0.03,
		SubRows:          8,
		WeekColumns:      7,
	}
}

// Plan is the complete geometry of one render. All lengths are in pixels.
type Plan struct {
	Width       int
	Height      int
	Orientation Orientation
	Cols        int
	Rows        int

	Padding     float64
	ContentW    float64
	ContentH    float64
	BorderWidth float64

	HeaderH      float64
	TitleSize    float64
	TitleX       float64
	TitleCenterY float64

	GridTop float64
	GridH   float64
	ColW    float64
	RowH    float64

	BigNumSize     float64
	MonthNameSize  float64
	DayTextSize    float64
	CellPadding    float64
	MonthNameGap   float64
	MonthNameNudge float64
	SubGridTop     float64
	LinePitch      float64 // vertical distance between sub-grid rows
	ColumnPitch    float64 // horizontal distance between weekday columns
	HighlightR     float64
}

// Cell is the rectangle owned by one month.
type Cell struct {
	Month int
	Col   int
	Row   int
	X     float64
	Y     float64
	W     float64
	H     float64
}

// GridShape returns the orientation and the month grid for a canvas.
// Columns times rows is always 12.
func GridShape(width, height int) (Orientation, int, int) {
	if width >= height {
		return Landscape, 4, 3
	}
	return Portrait, 2, 6
}

// Compute builds the plan for a canvas with the default ratios.
func Compute(width, height int) Plan {
	return ComputeWith(width, height, DefaultRatios())
}

// ComputeWith builds the plan for a canvas. Non-positive sizes yield a
// meaningless plan (possibly NaN); callers are expected to default them.
func ComputeWith(width, height int, r Ratios) Plan {
	orientation, cols, rows := GridShape(width, height)
	w, h := float64(width), float64(height)
	short := math.Min(w, h)

	p := Plan{
		Width:       width,
		Height:      height,
		Orientation: orientation,
		Cols:        cols,
		Rows:        rows,
		Padding:     r.Padding * short,
		BorderWidth: r.BorderWidth * short,
	}
	p.ContentW = w - 2*p.Padding
	p.ContentH = h - 2*p.Padding

	p.HeaderH = r.Header * p.ContentH
	p.TitleSize = math.Min(r.TitleWidthCap*p.ContentW, r.TitleHeightCap*p.HeaderH)
	p.TitleX = p.Padding + r.TitleInset*p.ContentW
	p.TitleCenterY = p.Padding + p.HeaderH/2

	p.GridTop = p.Padding + p.HeaderH
	p.GridH = (p.Padding + p.ContentH) - p.GridTop - r.GridBottomMargin*p.Padding
	p.ColW = p.ContentW / float64(cols)
	p.RowH = p.GridH / float64(rows)

	// Type scales off the column width only.
	p.BigNumSize = r.BigNumber * p.ColW
	p.MonthNameSize = r.MonthName * p.ColW
	p.DayTextSize = r.DayText * p.ColW
	p.CellPadding = r.CellPadding * p.ColW
	p.MonthNameGap = r.MonthNameGap * p.ColW
	p.MonthNameNudge = r.MonthNameNudge * p.BigNumSize
	p.HighlightR = r.HighlightRadius * p.DayTextSize

	// A fixed number of sub-rows keeps week rows aligned across months even
	// when a month only needs four or five of them.
	p.SubGridTop = r.SubGridTop * p.RowH
	p.LinePitch = (p.RowH - (p.BigNumSize + r.HeaderReserve*p.RowH)) / float64(r.SubRows)
	p.ColumnPitch = (p.ColW - 2*p.CellPadding) / float64(r.WeekColumns)

	return p
}

// Cell returns the rectangle of a month. Months are laid out row-major.
func (p Plan) Cell(monthIndex int) Cell {
	col := monthIndex % p.Cols
	row := monthIndex / p.Cols
	return Cell{
		Month: monthIndex,
		Col:   col,
		Row:   row,
		X:     p.Padding + float64(col)*p.ColW,
		Y:     p.GridTop + float64(row)*p.RowH,
		W:     p.ColW,
		H:     p.RowH,
	}
}

// SubGridY returns the top of sub-grid row n of a cell. Row 0 holds the
// weekday labels, week rows start at 1.
func (p Plan) SubGridY(c Cell, n int) float64 {
	return c.Y + p.BigNumSize + p.SubGridTop + float64(n)*p.LinePitch
}

// ColumnX returns the left edge of weekday column n of a cell.
func (p Plan) ColumnX(c Cell, n int) float64 {
	return c.X + p.CellPadding + float64(n)*p.ColumnPitch
}
