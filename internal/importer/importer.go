// Package importer reads car park inputs: dimension tag files, and boundary
// vertex lists from CSV, Excel and DXF. Vertex lists support automatic
// delimiter detection, flexible column mapping, and case-insensitive header
// recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/LotLayout/internal/geometry"
	"github.com/piwi3910/LotLayout/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of a boundary import.
type ImportResult struct {
	Boundary *model.Boundary
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	X    int
	Y    int
	Type int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"x":    {"x", "x (m)", "x_m", "east", "easting", "e"},
	"y":    {"y", "y (m)", "y_m", "north", "northing", "n"},
	"type": {"type", "edge", "edge type", "kind", "role", "access"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping x, y, type and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{X: -1, Y: -1, Type: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "x":
					if mapping.X == -1 {
						mapping.X = i
					}
				case "y":
					if mapping.Y == -1 {
						mapping.Y = i
					}
				case "type":
					if mapping.Type == -1 {
						mapping.Type = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{X: 0, Y: 1, Type: 2}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts one vertex, in metres, and the type of the edge that
// starts there.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (geometry.Point, model.EdgeType, string, string) {
	xStr := getCell(row, mapping.X)
	if xStr == "" {
		return geometry.Point{}, model.EdgeBorder, fmt.Sprintf("%s: Missing x value", rowLabel), ""
	}
	x, err := strconv.ParseFloat(xStr, 64)
	if err != nil {
		return geometry.Point{}, model.EdgeBorder, fmt.Sprintf("%s: Invalid x '%s'", rowLabel, xStr), ""
	}

	yStr := getCell(row, mapping.Y)
	if yStr == "" {
		return geometry.Point{}, model.EdgeBorder, fmt.Sprintf("%s: Missing y value", rowLabel), ""
	}
	y, err := strconv.ParseFloat(yStr, 64)
	if err != nil {
		return geometry.Point{}, model.EdgeBorder, fmt.Sprintf("%s: Invalid y '%s'", rowLabel, yStr), ""
	}

	var warning string
	edge := model.EdgeBorder
	if typeStr := getCell(row, mapping.Type); typeStr != "" {
		parsed, err := model.ParseEdgeType(typeStr)
		switch {
		case err != nil:
			warning = fmt.Sprintf("%s: Unknown edge type '%s', defaulting to border", rowLabel, typeStr)
		case parsed == model.EdgeCollision:
			warning = fmt.Sprintf("%s: Edge type 'collision' is not allowed, defaulting to border", rowLabel)
		default:
			edge = parsed
		}
	}

	return geometry.Pt(x, y), edge, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports a boundary from a CSV file of vertices in metres.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports a boundary from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports a boundary from the first sheet of an Excel file.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// ImportFile picks the importer from the file extension.
func ImportFile(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return ImportCSV(path)
	case ".xlsx", ".xlsm":
		return ImportExcel(path)
	case ".dxf":
		return ImportDXF(path)
	default:
		return ImportResult{Errors: []string{fmt.Sprintf("Unsupported boundary file type %q", filepath.Ext(path))}}
	}
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.X == -1 {
			missing = append(missing, "X")
		}
		if mapping.Y == -1 {
			missing = append(missing, "Y")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if _, err := strconv.ParseFloat(getCell(rows[0], 0), 64); err != nil {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	var pts []geometry.Point
	var types []model.EdgeType
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		pt, edge, errMsg, warning := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		pts = append(pts, pt)
		types = append(types, edge)
	}

	if len(result.Errors) > 0 {
		return result
	}
	b, warnings, errMsg := buildBoundary(pts, types)
	result.Warnings = append(result.Warnings, warnings...)
	if errMsg != "" {
		result.Errors = append(result.Errors, errMsg)
		return result
	}
	result.Boundary = b
	return result
}

// buildBoundary converts vertices in metres to a closed, grid-snapped
// boundary. Vertices that collapse onto their predecessor after snapping are
// dropped, as is a final vertex repeating the first.
func buildBoundary(pts []geometry.Point, types []model.EdgeType) (*model.Boundary, []string, string) {
	var warnings []string
	var outPts []geometry.Point
	var outTypes []model.EdgeType
	moved := 0

	for i, p := range pts {
		px := geometry.Pt(geometry.ToPixels(p.X), geometry.ToPixels(p.Y))
		snapped := px.Snap()
		if snapped != px {
			moved++
		}
		if n := len(outPts); n > 0 && outPts[n-1] == snapped {
			warnings = append(warnings, fmt.Sprintf("Vertex %d duplicates the previous vertex, skipping", i+1))
			continue
		}
		outPts = append(outPts, snapped)
		outTypes = append(outTypes, types[i])
	}
	if n := len(outPts); n > 1 && outPts[n-1] == outPts[0] {
		outPts = outPts[:n-1]
		outTypes = outTypes[:n-1]
		warnings = append(warnings, "Last vertex repeats the first, closing the outline there")
	}
	if moved > 0 {
		warnings = append(warnings, fmt.Sprintf("%d vertices moved onto the %.1f m grid", moved, geometry.ToMetres(geometry.GridSize)))
	}
	if len(outPts) < 3 {
		return nil, warnings, fmt.Sprintf("At least 3 distinct vertices are required, found %d", len(outPts))
	}
	return model.BoundaryFromPoints(outPts, outTypes), warnings, ""
}
