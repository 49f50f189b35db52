package importer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/LotLayout/internal/geometry"
	"github.com/piwi3910/LotLayout/internal/model"
	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
)

// ─── Dimension Tag Tests ───────────────────────────────────

const validTags = `# car park rules
[ENTRY WIDTH MIN] 3
[ENTRY CLEARANCE MIN] 1
[ANGLE0 WIDTH] 2.5
[ANGLE0 LENGTH] 6
[ANGLE0 SPACE MIN] 3.5
[ANGLE90 WIDTH] 2.5
[ANGLE90 DEPTH] 5
[ANGLE90 SPACE MIN] 6
[ANGLE60 WIDTH] 2.5
[ANGLE60 DEPTH] 5.5
[ANGLE60 SPACE MIN] 4.5
`

func TestParseDimensions_Valid(t *testing.T) {
	d, err := ParseDimensions(strings.NewReader(validTags))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != model.DefaultDimensions() {
		t.Errorf("expected default dimensions, got %+v", d)
	}
}

func TestParseDimensions_MissingTag(t *testing.T) {
	data := strings.Replace(validTags, "[ANGLE60 SPACE MIN] 4.5\n", "", 1)
	_, err := ParseDimensions(strings.NewReader(data))

	var tagErr *TagError
	if !errors.As(err, &tagErr) {
		t.Fatalf("expected TagError, got %v", err)
	}
	if tagErr.Tag != model.TagAngle60SpaceMin {
		t.Errorf("expected missing %q, got %q", model.TagAngle60SpaceMin, tagErr.Tag)
	}
	if !errors.Is(err, ErrMissingTag) {
		t.Errorf("expected ErrMissingTag, got %v", err)
	}
}

func TestParseDimensions_DuplicateTag(t *testing.T) {
	data := validTags + "[ANGLE0 WIDTH] 2.4\n"
	_, err := ParseDimensions(strings.NewReader(data))
	if !errors.Is(err, ErrDuplicateTag) {
		t.Fatalf("expected ErrDuplicateTag, got %v", err)
	}
	var tagErr *TagError
	if errors.As(err, &tagErr) && tagErr.Tag != model.TagAngle0Width {
		t.Errorf("expected duplicate %q, got %q", model.TagAngle0Width, tagErr.Tag)
	}
}

func TestParseDimensions_InvalidValueThenValid(t *testing.T) {
	data := strings.Replace(validTags, "[ANGLE0 WIDTH] 2.5\n", "[ANGLE0 WIDTH] -1\n[ANGLE0 WIDTH] abc\n[ANGLE0 WIDTH] 2.75\n", 1)
	d, err := ParseDimensions(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Angle0Width != 2.75 {
		t.Errorf("expected 2.75, got %v", d.Angle0Width)
	}
}

func TestParseDimensions_ValidThenInvalidIsDuplicate(t *testing.T) {
	data := validTags + "[ANGLE0 WIDTH] abc\n"
	_, err := ParseDimensions(strings.NewReader(data))
	if !errors.Is(err, ErrDuplicateTag) {
		t.Fatalf("expected ErrDuplicateTag, got %v", err)
	}
}

func TestParseDimensions_OnlyInvalidValues(t *testing.T) {
	data := strings.Replace(validTags, "[ENTRY WIDTH MIN] 3\n", "[ENTRY WIDTH MIN] wide\n[ENTRY WIDTH MIN] NaN\n[ENTRY WIDTH MIN]\n", 1)
	_, err := ParseDimensions(strings.NewReader(data))
	var tagErr *TagError
	if !errors.As(err, &tagErr) || tagErr.Tag != model.TagEntryWidthMin {
		t.Fatalf("expected missing %q, got %v", model.TagEntryWidthMin, err)
	}
}

func TestParseDimensions_LooseFormatting(t *testing.T) {
	data := strings.Replace(validTags, "[ANGLE90 DEPTH] 5\n", "   [ ANGLE90 DEPTH ]    5.25  \n", 1)
	data += "ANGLE90 DEPTH] 9\n[UNKNOWN TAG] 4\nnot a tag line\n"
	d, err := ParseDimensions(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Angle90Depth != 5.25 {
		t.Errorf("expected 5.25, got %v", d.Angle90Depth)
	}
}

func TestParseDimensions_ZeroAllowed(t *testing.T) {
	data := strings.Replace(validTags, "[ENTRY CLEARANCE MIN] 1\n", "[ENTRY CLEARANCE MIN] 0\n", 1)
	d, err := ParseDimensions(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ClearanceMin != 0 {
		t.Errorf("expected 0, got %v", d.ClearanceMin)
	}
}

func TestImportDimensions_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dimensions.txt")
	if err := os.WriteFile(path, []byte(validTags), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	d, err := ImportDimensions(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Angle60Depth != 5.5 {
		t.Errorf("expected 5.5, got %v", d.Angle60Depth)
	}
}

func TestImportDimensions_FileNotFound(t *testing.T) {
	if _, err := ImportDimensions("/nonexistent/dimensions.txt"); err == nil {
		t.Error("expected error for missing file")
	}
}

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "x,y,type\n0,0,entrance\n20,0,border\n", ','},
		{"semicolon", "x;y;type\n0;0;entrance\n20;0;border\n", ';'},
		{"tab", "x\ty\ttype\n0\t0\tentrance\n20\t0\tborder\n", '\t'},
		{"pipe", "x|y|type\n0|0|entrance\n20|0|border\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"X", "Y", "Type"})
	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.X != 0 || mapping.Y != 1 || mapping.Type != 2 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_ReorderedAliases(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Edge", "Northing", "Easting"})
	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.X != 2 || mapping.Y != 1 || mapping.Type != 0 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"0", "0", "entrance"})
	if isHeader {
		t.Error("expected no header")
	}
	if mapping.X != 0 || mapping.Y != 1 || mapping.Type != 2 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

const squareCSV = "x,y,type\n0,0,entrance\n20,0,border\n20,20,exit\n0,20,border\n"

func hasWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

func TestImportCSVFromReader_Square(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(squareCSV), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	b := result.Boundary
	if b == nil || b.Len() != 4 {
		t.Fatalf("expected 4 segments, got %v", b)
	}
	if b.Segment(0).Type != model.EdgeEntrance {
		t.Errorf("expected entrance on segment 0, got %v", b.Segment(0).Type)
	}
	if b.Segment(2).Type != model.EdgeExit {
		t.Errorf("expected exit on segment 2, got %v", b.Segment(2).Type)
	}
	if got := b.Segment(1).B; got != geometry.Pt(500, 500) {
		t.Errorf("expected (500, 500), got %v", got)
	}
	if !b.Closed() {
		t.Error("expected a closed boundary")
	}
	if !hasWarning(result.Warnings, "header") {
		t.Errorf("expected header warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "0;0\n20;0\n20;20\n0;20\n"
	result := ImportCSVFromReader(strings.NewReader(data), ';')

	if result.Boundary == nil || result.Boundary.Len() != 4 {
		t.Fatalf("expected 4 segments (errors: %v)", result.Errors)
	}
	for i, s := range result.Boundary.Segments() {
		if s.Type != model.EdgeBorder {
			t.Errorf("segment %d: expected border, got %v", i, s.Type)
		}
	}
}

func TestImportCSVFromReader_SnapsToGrid(t *testing.T) {
	data := "0.1,0\n20,0\n20,20\n0,20\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if result.Boundary == nil {
		t.Fatalf("expected boundary (errors: %v)", result.Errors)
	}
	if got := result.Boundary.Segment(0).A; got != geometry.Pt(0, 0) {
		t.Errorf("expected (0, 0), got %v", got)
	}
	if !hasWarning(result.Warnings, "1 vertices moved onto the 0.2 m grid") {
		t.Errorf("expected snapping warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_DuplicateVertices(t *testing.T) {
	data := "0,0\n0.1,0.1\n20,0\n20,20\n0,0\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if result.Boundary == nil || result.Boundary.Len() != 3 {
		t.Fatalf("expected triangle (errors: %v)", result.Errors)
	}
	if !hasWarning(result.Warnings, "Vertex 2 duplicates the previous vertex") {
		t.Errorf("expected duplicate warning, got %v", result.Warnings)
	}
	if !hasWarning(result.Warnings, "Last vertex repeats the first") {
		t.Errorf("expected closing warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_TooFewVertices(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("0,0\n20,0\n"), ',')

	if result.Boundary != nil {
		t.Error("expected no boundary")
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "found 2") {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestImportCSVFromReader_InvalidCoordinate(t *testing.T) {
	data := "0,0\nabc,5\n20,0\n20,20\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if result.Boundary != nil {
		t.Error("expected no boundary")
	}
	if len(result.Errors) != 1 || result.Errors[0] != "Line 2: Invalid x 'abc'" {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestImportCSVFromReader_MissingY(t *testing.T) {
	data := "0,0\n5\n20,0\n20,20\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 1 || result.Errors[0] != "Line 2: Missing y value" {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestImportCSVFromReader_UnknownEdgeType(t *testing.T) {
	data := "0,0,gate\n20,0,collision\n20,20,in\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if result.Boundary == nil {
		t.Fatalf("expected boundary (errors: %v)", result.Errors)
	}
	if !hasWarning(result.Warnings, "Line 1: Unknown edge type 'gate'") {
		t.Errorf("expected unknown type warning, got %v", result.Warnings)
	}
	if !hasWarning(result.Warnings, "Line 2: Edge type 'collision' is not allowed") {
		t.Errorf("expected collision warning, got %v", result.Warnings)
	}
	if result.Boundary.Segment(0).Type != model.EdgeBorder || result.Boundary.Segment(2).Type != model.EdgeEntrance {
		t.Errorf("unexpected types: %v", result.Boundary.Segments())
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	data := "x,type\n0,border\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) != 1 || result.Errors[0] != "Required columns not found in header: Y" {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestImportCSVFromReader_Empty(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')
	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
}

func TestImportCSV_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lot.csv")
	data := strings.ReplaceAll(squareCSV, ",", ";")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	result := ImportCSV(path)
	if result.Boundary == nil || result.Boundary.Len() != 4 {
		t.Fatalf("expected 4 segments (errors: %v)", result.Errors)
	}
	if !hasWarning(result.Warnings, "Detected semicolon delimiter") {
		t.Errorf("expected delimiter warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/lot.csv")
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	result := ImportCSV(path)
	if len(result.Errors) != 1 || result.Errors[0] != "File is empty" {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestImportFile_DispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "LOT.CSV")
	if err := os.WriteFile(path, []byte(squareCSV), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if result := ImportFile(path); result.Boundary == nil {
		t.Fatalf("expected a boundary from the CSV importer (errors: %v)", result.Errors)
	}

	result := ImportFile(filepath.Join(dir, "lot.shp"))
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Unsupported boundary file type") {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lot.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Type", "X", "Y"},
		{"entrance_exit", 0, 0},
		{"border", 30, 0},
		{"border", 30, 10.4},
		{"border", 0, 10.4},
	})

	result := ImportExcel(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	b := result.Boundary
	if b.Len() != 4 {
		t.Fatalf("expected 4 segments, got %d", b.Len())
	}
	if b.Segment(0).Type != model.EdgeEntranceExit {
		t.Errorf("expected entrance_exit, got %v", b.Segment(0).Type)
	}
	if got := b.Segment(1).B; got != geometry.Pt(750, 260) {
		t.Errorf("expected (750, 260), got %v", got)
	}
}

func TestImportExcel_WithoutHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{0, 0},
		{10, 0},
		{10, 10},
	})

	result := ImportExcel(path)
	if result.Boundary == nil || result.Boundary.Len() != 3 {
		t.Fatalf("expected triangle (errors: %v)", result.Errors)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/lot.xlsx")
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

// ─── DXF Import Tests ──────────────────────────────────────

type dxfLine struct {
	layer          string
	x1, y1, x2, y2 float64
}

func createTestDXF(t *testing.T, lines []dxfLine) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lot.dxf")

	d := dxf.NewDrawing()
	layers := map[string]bool{"0": true}
	for _, l := range lines {
		if !layers[l.layer] {
			if _, err := d.AddLayer(l.layer, color.White, dxf.DefaultLineType, false); err != nil {
				t.Fatalf("failed to add layer: %v", err)
			}
			layers[l.layer] = true
		}
		if err := d.ChangeLayer(l.layer); err != nil {
			t.Fatalf("failed to change layer: %v", err)
		}
		if _, err := d.Line(l.x1, l.y1, 0, l.x2, l.y2, 0); err != nil {
			t.Fatalf("failed to add line: %v", err)
		}
	}
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("failed to save DXF file: %v", err)
	}
	return path
}

func TestImportDXF_LayersBecomeEdgeTypes(t *testing.T) {
	path := createTestDXF(t, []dxfLine{
		{"ENTRANCE", 0, 0, 20, 0},
		{"EXIT", 20, 0, 20, 20},
		{"0", 0, 20, 20, 20},
		{"0", 0, 20, 0, 0},
	})

	result := ImportDXF(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	b := result.Boundary
	if b.Len() != 4 {
		t.Fatalf("expected 4 segments, got %d", b.Len())
	}
	if b.Segment(0).Type != model.EdgeEntrance {
		t.Errorf("expected entrance, got %v", b.Segment(0).Type)
	}
	if b.Segment(1).Type != model.EdgeExit {
		t.Errorf("expected exit, got %v", b.Segment(1).Type)
	}
	// Drawing y points up; the entrance along y=0 ends up at the bottom.
	if got := b.Segment(0).A; got != geometry.Pt(0, 500) {
		t.Errorf("expected (0, 500), got %v", got)
	}
	if !b.HasEntrance() || !b.HasExit() {
		t.Error("expected entrance and exit")
	}
}

func TestImportDXF_LargestLoopWins(t *testing.T) {
	path := createTestDXF(t, []dxfLine{
		{"0", 2, 2, 4, 2},
		{"0", 4, 2, 4, 4},
		{"0", 4, 4, 2, 4},
		{"0", 2, 4, 2, 2},
		{"0", 0, 0, 30, 0},
		{"0", 30, 0, 30, 10},
		{"0", 30, 10, 0, 10},
		{"0", 0, 10, 0, 0},
	})

	result := ImportDXF(path)
	if result.Boundary == nil {
		t.Fatalf("expected boundary (errors: %v)", result.Errors)
	}
	bounds := model.OutlineBounds(result.Boundary.Points())
	if bounds.W != 750 || bounds.H != 250 {
		t.Errorf("expected 750x250 bounds, got %vx%v", bounds.W, bounds.H)
	}
	if !hasWarning(result.Warnings, "Found 2 closed outlines") {
		t.Errorf("expected multiple outline warning, got %v", result.Warnings)
	}
}

func TestImportDXF_OpenChain(t *testing.T) {
	path := createTestDXF(t, []dxfLine{
		{"0", 0, 0, 20, 0},
		{"0", 20, 0, 20, 20},
	})

	result := ImportDXF(path)
	if result.Boundary != nil {
		t.Error("expected no boundary")
	}
	if len(result.Errors) != 1 || result.Errors[0] != "No closed outline found in DXF file" {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestImportDXF_FileNotFound(t *testing.T) {
	result := ImportDXF("/nonexistent/lot.dxf")
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestLayerEdgeType(t *testing.T) {
	tests := []struct {
		name string
		want model.EdgeType
	}{
		{"ENTRANCE", model.EdgeEntrance},
		{"Exit", model.EdgeExit},
		{"ENTRANCE_EXIT", model.EdgeEntranceExit},
		{"COLLISION", model.EdgeBorder},
		{"WALLS-2", model.EdgeBorder},
	}
	for _, tt := range tests {
		d := dxf.NewDrawing()
		layer, err := d.AddLayer(tt.name, color.White, dxf.DefaultLineType, false)
		if err != nil {
			t.Fatalf("failed to add layer: %v", err)
		}
		if got := layerEdgeType(layer); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
	if got := layerEdgeType(nil); got != model.EdgeBorder {
		t.Errorf("nil layer: expected border, got %v", got)
	}
}
