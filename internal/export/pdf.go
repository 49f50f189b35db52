package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/LotLayout/internal/geometry"
	"github.com/piwi3910/LotLayout/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	footerHeight = 22.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	summaryQR    = 35.0
)

// reportSummary is encoded into the QR code on the report's second page.
type reportSummary struct {
	Project     string  `json:"project"`
	Layout      string  `json:"layout"`
	Orientation int     `json:"orientation"`
	Stalls      int     `json:"stalls"`
	LotArea     float64 `json:"lot_area_m2"`
}

// ExportPDF writes the layout report for a planned project to path.
func ExportPDF(path string, proj model.Project) error {
	pdf, err := buildReport(proj)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WritePDF writes the layout report to w.
func WritePDF(w io.Writer, proj model.Project) error {
	pdf, err := buildReport(proj)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

// buildReport renders the drawing page followed by the rules page.
func buildReport(proj model.Project) (*fpdf.Fpdf, error) {
	layout, err := layoutOf(proj)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	renderLayoutPage(pdf, tr, proj, layout)

	pdf.AddPage()
	if err := renderRulesPage(pdf, tr, proj, layout); err != nil {
		return nil, err
	}
	return pdf, pdf.Error()
}

// renderLayoutPage draws the boundary, the grid and every stall scaled to the page.
func renderLayoutPage(pdf *fpdf.Fpdf, tr func(string) string, proj model.Project, layout model.Layout) {
	lotArea := geometry.ToMetres(geometry.ToMetres(proj.Boundary.Polygon().Area()))

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Car Park Layout: %s", proj.Name)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, tr(title), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Orientation: %s | Stalls: %d | Lot area: %.1f m² | Density: %.2f per 100 m²",
		layout.Orientation, layout.Count(), lotArea, model.Density(layout.Count(), lotArea))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, tr(stats), "", 0, "L", false, 0, "")

	bounds := drawingBounds(proj, layout)
	if bounds.Empty() {
		return
	}

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - footerHeight
	scale := math.Min(drawWidth/bounds.W, drawHeight/bounds.H)

	canvasW := bounds.W * scale
	canvasH := bounds.H * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	toPage := func(p geometry.Point) (float64, float64) {
		return offsetX + (p.X-bounds.X)*scale, offsetY + (p.Y-bounds.Y)*scale
	}

	// One grid cell is one metre
	pdf.SetDrawColor(int(gridColor.R), int(gridColor.G), int(gridColor.B))
	pdf.SetLineWidth(0.1)
	step := geometry.PixelsPerMetre
	for x := math.Ceil(bounds.X/step) * step; x <= bounds.MaxX(); x += step {
		px, _ := toPage(geometry.Pt(x, 0))
		pdf.Line(px, offsetY, px, offsetY+canvasH)
	}
	for y := math.Ceil(bounds.Y/step) * step; y <= bounds.MaxY(); y += step {
		_, py := toPage(geometry.Pt(0, y))
		pdf.Line(offsetX, py, offsetX+canvasW, py)
	}

	pdf.SetDrawColor(int(stallColor.R), int(stallColor.G), int(stallColor.B))
	pdf.SetLineWidth(0.2)
	for _, p := range layout.Placements {
		outline := model.StallOutline(p.Position, proj.Dimensions, layout.Orientation)
		pts := make([]fpdf.PointType, len(outline))
		for i, v := range outline {
			x, y := toPage(v)
			pts[i] = fpdf.PointType{X: x, Y: y}
		}
		pdf.Polygon(pts, "D")
	}

	pdf.SetLineWidth(0.6)
	for _, s := range proj.Boundary.Segments() {
		c := edgeColor(s.Type)
		pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
		x1, y1 := toPage(s.A)
		x2, y2 := toPage(s.B)
		pdf.Line(x1, y1, x2, y2)
	}

	y := offsetY + canvasH + 4
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(drawWidth, 5, tr(Summary(layout)), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(marginLeft, y+6)
	pdf.CellFormat(drawWidth, 4, "1 grid cell = 1 m", "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// renderRulesPage lists the dimensions used, the edge legend and a QR summary.
func renderRulesPage(pdf *fpdf.Fpdf, tr func(string) string, proj model.Project, layout model.Layout) error {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Layout Rules", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	colWidths := []float64{70, 30}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(colWidths[0], 6, "Tag", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colWidths[1], 6, "Metres", "1", 0, "C", true, 0, "")
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, f := range proj.Dimensions.Fields() {
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(colWidths[0], 6, f.Tag, "1", 0, "L", true, 0, "")
		pdf.CellFormat(colWidths[1], 6, fmt.Sprintf("%.2f", f.Value), "1", 0, "R", true, 0, "")
		y += 6
	}

	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Edges", "", 0, "L", false, 0, "")
	y += 9

	pdf.SetFont("Helvetica", "", 9)
	for _, t := range []model.EdgeType{model.EdgeBorder, model.EdgeEntrance, model.EdgeExit, model.EdgeEntranceExit} {
		c := edgeColor(t)
		pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
		pdf.Rect(marginLeft+5, y+1, 8, 3, "F")
		pdf.SetXY(marginLeft+16, y)
		pdf.CellFormat(60, 5, t.String(), "", 0, "L", false, 0, "")
		y += 6
	}

	lotArea := geometry.ToMetres(geometry.ToMetres(proj.Boundary.Polygon().Area()))
	data, err := json.Marshal(reportSummary{
		Project:     proj.Name,
		Layout:      layout.ID,
		Orientation: int(layout.Orientation.Normalize()),
		Stalls:      layout.Count(),
		LotArea:     math.Round(lotArea*100) / 100,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal report summary: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	pdf.RegisterImageOptionsReader("summary_qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions("summary_qr", pageWidth-marginRight-summaryQR, marginTop+18, summaryQR, summaryQR,
		false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, tr("Generated by LotLayout - "+Summary(layout)), "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}
