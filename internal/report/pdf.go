// Package report renders the expense analysis as a PDF document.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"

	"ledger/internal/core"
)

// ErrNothingToVisualize is returned when the summary holds no expenses.
var ErrNothingToVisualize = errors.New("no expenses to visualize")

const (
	pieRadius = 45.0
	pieStep   = 2.0 // degrees between arc points
)

var palette = [][3]int{
	{66, 133, 244},
	{219, 68, 55},
	{244, 180, 0},
	{15, 157, 88},
	{171, 71, 188},
	{0, 172, 193},
	{255, 112, 67},
	{158, 157, 36},
	{92, 107, 192},
	{240, 98, 146},
}

// BuildPDF renders totals, the category breakdown and a pie chart.
func BuildPDF(sum core.Summary, generated time.Time) ([]byte, error) {
	spans := pieSpans(sum.ByCategory)
	if len(spans) == 0 {
		return nil, ErrNothingToVisualize
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Expense Report")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, fmt.Sprintf("%d transactions", sum.Count))
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)

	sumW := []float64{60, 60, 60}
	pdf.CellFormat(sumW[0], 10, "Income", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 10, "Expense", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[2], 10, "Balance", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW[0], 10, core.DisplayAmount(sum.Income), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 10, core.DisplayAmount(sum.Expense), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[2], 10, core.DisplayAmount(sum.Balance), "1", 1, "C", false, 0, "")
	pdf.Ln(8)

	cx, cy := 14+pieRadius, pdf.GetY()+pieRadius
	drawPie(pdf, cx, cy, spans)
	pdf.SetY(cy + pieRadius + 10)

	colW := []float64{10, 90, 50, 30}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	pdf.CellFormat(colW[0], 8, "", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colW[1], 8, "CATEGORY", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colW[2], 8, "AMOUNT", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colW[3], 8, "SHARE", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for i, share := range sum.ByCategory {
		if pdf.GetY() > 270 {
			pdf.AddPage()
		}
		c := palette[i%len(palette)]
		pdf.SetFillColor(c[0], c[1], c[2])
		pdf.CellFormat(colW[0], 8, "", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW[1], 8, string(share.Category), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[2], 8, core.DisplayAmount(share.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colW[3], 8, share.Percent.StringFixed(1)+"%", "1", 1, "R", false, 0, "")
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated "+generated.Format(time.RFC3339), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the report to path.
func WriteFile(path string, sum core.Summary, generated time.Time) error {
	data, err := BuildPDF(sum, generated)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// span is one wedge of the pie, in degrees, with its palette index.
type span struct {
	from, to float64
	color    int
}

// pieSpans lays the positive shares out around the full circle. Categories
// that net to zero or below have no area and are left out of the chart.
func pieSpans(shares []core.CategoryShare) []span {
	total := decimal.Zero
	for _, share := range shares {
		if share.Amount.IsPositive() {
			total = total.Add(share.Amount)
		}
	}
	if !total.IsPositive() {
		return nil
	}

	var spans []span
	start := 0.0
	for i, share := range shares {
		if !share.Amount.IsPositive() {
			continue
		}
		end := start + share.Amount.Div(total).InexactFloat64()*360
		if end > 360 {
			end = 360
		}
		spans = append(spans, span{from: start, to: end, color: i % len(palette)})
		start = end
	}
	return spans
}

func drawPie(pdf *gofpdf.Fpdf, cx, cy float64, spans []span) {
	pdf.SetDrawColor(255, 255, 255)
	for _, sp := range spans {
		c := palette[sp.color]
		pdf.SetFillColor(c[0], c[1], c[2])
		pdf.Polygon(wedge(cx, cy, pieRadius, sp.from, sp.to), "FD")
	}
}

// wedge approximates a pie slice as a polygon starting at the center.
// Angles are in degrees, clockwise from twelve o'clock.
func wedge(cx, cy, r, from, to float64) []gofpdf.PointType {
	points := []gofpdf.PointType{{X: cx, Y: cy}}
	for a := from; ; a += pieStep {
		if a > to {
			a = to
		}
		rad := a * math.Pi / 180
		points = append(points, gofpdf.PointType{
			X: cx + r*math.Sin(rad),
			Y: cy - r*math.Cos(rad),
		})
		if a >= to {
			break
		}
	}
	return points
}
