package export

import (
	"fmt"
	"io"

	"github.com/piwi3910/LotLayout/internal/geometry"
	"github.com/piwi3910/LotLayout/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	sheetBoundary   = "Boundary"
	sheetStalls     = "Stalls"
	sheetDimensions = "Dimensions"
)

// ExportXLSX writes the stall schedule workbook to path. The first sheet
// holds the boundary vertices in the format the importer reads back.
func ExportXLSX(path string, proj model.Project) error {
	f, err := buildWorkbook(proj)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// WriteXLSX writes the stall schedule workbook to w.
func WriteXLSX(w io.Writer, proj model.Project) error {
	f, err := buildWorkbook(proj)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func buildWorkbook(proj model.Project) (*excelize.File, error) {
	layout, err := layoutOf(proj)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheetBoundary); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{sheetStalls, sheetDimensions} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	var rows [][]interface{}
	for _, s := range proj.Boundary.Segments() {
		rows = append(rows, []interface{}{geometry.ToMetres(s.A.X), geometry.ToMetres(s.A.Y), s.Type.String()})
	}
	if err := writeTable(f, sheetBoundary, bold, []interface{}{"X", "Y", "Type"}, rows); err != nil {
		f.Close()
		return nil, err
	}

	rows = rows[:0]
	for _, st := range CollectStalls(layout, proj.Dimensions) {
		rows = append(rows, []interface{}{st.Label, st.Row, st.X, st.Y, st.Orientation, st.Width, st.Depth})
	}
	header := []interface{}{"Stall", "Row", "X (m)", "Y (m)", "Angle", "Width (m)", "Depth (m)"}
	if err := writeTable(f, sheetStalls, bold, header, rows); err != nil {
		f.Close()
		return nil, err
	}

	rows = rows[:0]
	for _, fld := range proj.Dimensions.Fields() {
		rows = append(rows, []interface{}{fld.Tag, fld.Value})
	}
	rows = append(rows, []interface{}{}, []interface{}{Summary(layout)})
	if err := writeTable(f, sheetDimensions, bold, []interface{}{"Tag", "Metres"}, rows); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// writeTable writes a bold header row followed by rows, starting at A1.
func writeTable(f *excelize.File, sheet string, headerStyle int, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	end, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", end, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}
