// LotLayout: Car Park Stall Planner
//
// Plans parking stalls inside a closed lot boundary and exports the
// result as a PDF report, spreadsheet, DXF drawing or PNG preview.
//
// Build:
//   go build -o lotlayout ./cmd/lotlayout
//
// Usage:
//   lotlayout plan -boundary lot.csv -tags rules.txt -orientation 90 -out lot.pdf,lot.lotlayout
//   lotlayout compare -boundary lot.dxf
//   lotlayout check -project lot.lotlayout
//   lotlayout presets [-save name -tags rules.txt]
//   lotlayout backup -o settings.json | lotlayout restore -i settings.json

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/LotLayout/internal/engine"
	"github.com/piwi3910/LotLayout/internal/export"
	"github.com/piwi3910/LotLayout/internal/geometry"
	"github.com/piwi3910/LotLayout/internal/importer"
	"github.com/piwi3910/LotLayout/internal/model"
	"github.com/piwi3910/LotLayout/internal/project"
)

const usage = `usage: lotlayout <command> [flags]

commands:
  plan      plan stalls at one orientation and write exports
  compare   plan every orientation and report the best
  check     validate a boundary and audit a saved layout
  presets   list or save dimension presets
  backup    write settings and presets to one file
  restore   load settings and presets from a backup file
`

// inputs are the flags shared by every planning command.
type inputs struct {
	boundary    string
	projectPath string
	tags        string
	preset      string
	orientation string
	clearance   string
}

func (in *inputs) register(fs *flag.FlagSet) {
	fs.StringVar(&in.boundary, "boundary", "", "boundary file (.csv, .xlsx or .dxf)")
	fs.StringVar(&in.projectPath, "project", "", "saved project file")
	fs.StringVar(&in.tags, "tags", "", "dimension tag file")
	fs.StringVar(&in.preset, "preset", "", "name of a saved dimension preset")
	fs.StringVar(&in.orientation, "orientation", "", "stall angle: 0, 60 or 90")
	fs.StringVar(&in.clearance, "clearance", "", "clearance mode: top_left or symmetric")
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("lotlayout: ")

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "plan":
		err = runPlan(args)
	case "compare":
		err = runCompare(args)
	case "check":
		err = runCheck(args)
	case "presets":
		err = runPresets(args)
	case "backup":
		err = runBackup(args)
	case "restore":
		err = runRestore(args)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// loadProject assembles a project from the config defaults, then a saved
// project, preset, tag file and boundary file, each overriding the last.
func loadProject(in inputs) (model.Project, model.AppConfig, error) {
	cfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		return model.Project{}, cfg, fmt.Errorf("failed to load config: %w", err)
	}

	var proj model.Project
	if in.projectPath != "" {
		proj, err = project.LoadProject(in.projectPath)
	} else {
		proj, err = project.NewProjectFromConfig(cfg)
	}
	if err != nil {
		return proj, cfg, err
	}

	if in.preset != "" {
		store, err := project.LoadDefaultPresets()
		if err != nil {
			return proj, cfg, fmt.Errorf("failed to load presets: %w", err)
		}
		p := store.FindByName(in.preset)
		if p == nil {
			return proj, cfg, fmt.Errorf("no preset named %q", in.preset)
		}
		proj.Dimensions = p.Dimensions
		proj.Orientation = p.Orientation
		if p.Clearance != "" {
			proj.Clearance = p.Clearance
		}
	}

	if in.tags != "" {
		dims, err := importer.ImportDimensions(in.tags)
		if err != nil {
			return proj, cfg, err
		}
		proj.Dimensions = dims
	}

	if in.boundary != "" {
		result := importer.ImportFile(in.boundary)
		for _, w := range result.Warnings {
			log.Printf("warning: %s", w)
		}
		if len(result.Errors) > 0 {
			return proj, cfg, fmt.Errorf("failed to import %s: %s", in.boundary, strings.Join(result.Errors, "; "))
		}
		proj.Boundary = *result.Boundary
		proj.Result = nil
		if in.projectPath == "" {
			proj.Name = strings.TrimSuffix(filepath.Base(in.boundary), filepath.Ext(in.boundary))
		}
	}

	if in.orientation != "" {
		o, err := model.ParseOrientation(in.orientation)
		if err != nil {
			return proj, cfg, err
		}
		proj.Orientation = o
	}
	if in.clearance != "" {
		proj.Clearance = model.ParseClearanceMode(in.clearance)
	}
	return proj, cfg, nil
}

func planner(proj model.Project) *engine.Planner {
	p := engine.New(proj.Dimensions)
	p.Clearance = proj.Clearance
	return p
}

func runPlan(args []string) error {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	var in inputs
	in.register(fs)
	out := fs.String("out", "", "comma-separated output files (.pdf, .xlsx, .dxf, .png, .lotlayout)")
	labels := fs.String("labels", "", "write a PDF sheet of stall labels")
	_ = fs.Parse(args)

	proj, cfg, err := loadProject(in)
	if err != nil {
		return err
	}
	if err := model.ValidateBoundary(&proj.Boundary); err != nil {
		return err
	}

	layout := planner(proj).Plan(&proj.Boundary, proj.Orientation)
	proj.Result = &layout
	fmt.Println(export.Summary(layout))

	for _, path := range strings.Split(*out, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if err := writeOutput(path, proj); err != nil {
			return err
		}
		if strings.EqualFold(filepath.Ext(path), project.FileExtension) {
			cfg.AddRecent(path)
			if err := project.SaveAppConfig(project.DefaultConfigPath(), cfg); err != nil {
				log.Printf("warning: failed to update recent projects: %v", err)
			}
		}
		fmt.Printf("wrote %s\n", path)
	}
	if *labels != "" {
		if err := export.ExportLabels(*labels, proj); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", *labels)
	}
	return nil
}

// writeOutput exports proj in the format named by the file extension.
func writeOutput(path string, proj model.Project) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return export.ExportPDF(path, proj)
	case ".xlsx":
		return export.ExportXLSX(path, proj)
	case ".dxf":
		return export.ExportDXF(path, proj)
	case ".png":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create preview: %w", err)
		}
		if err := export.WritePNG(f, proj); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	case project.FileExtension, ".json":
		return project.SaveProject(path, proj)
	default:
		return fmt.Errorf("unsupported output type %q", ext)
	}
}

func runCompare(args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	var in inputs
	in.register(fs)
	_ = fs.Parse(args)

	proj, _, err := loadProject(in)
	if err != nil {
		return err
	}
	if err := model.ValidateBoundary(&proj.Boundary); err != nil {
		return err
	}

	results := planner(proj).CompareOrientations(&proj.Boundary)
	fmt.Printf("%-6s %7s %8s %10s %9s\n", "Angle", "Stalls", "Bound", "Density", "Coverage")
	for _, r := range results {
		fmt.Printf("%-6s %7d %8d %10.2f %8.1f%%\n",
			r.Orientation, r.Stalls, r.Estimate.UpperBound, r.Density, r.Coverage)
	}
	if best, ok := engine.Best(results); ok {
		fmt.Printf("best: %s with %d stalls\n", best.Orientation, best.Stalls)
	}
	return nil
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var in inputs
	in.register(fs)
	_ = fs.Parse(args)

	proj, _, err := loadProject(in)
	if err != nil {
		return err
	}

	b := &proj.Boundary
	area := b.Polygon().Area() / (geometry.PixelsPerMetre * geometry.PixelsPerMetre)
	fmt.Printf("segments: %d  perimeter: %.1f m  area: %.1f m²\n", b.Len(), b.PerimeterMetres(), area)
	if err := model.ValidateBoundary(b); err != nil {
		return err
	}
	fmt.Println("boundary ok")

	if proj.Result == nil {
		return nil
	}
	violations := engine.Audit(*proj.Result, b, proj.Dimensions)
	for _, v := range violations {
		fmt.Printf("stall %d: %s\n", v.Index, v.Message)
	}
	if len(violations) > 0 {
		return fmt.Errorf("layout has %d violations", len(violations))
	}
	fmt.Printf("layout ok: %d stalls\n", proj.Result.Count())
	return nil
}

func runPresets(args []string) error {
	fs := flag.NewFlagSet("presets", flag.ExitOnError)
	save := fs.String("save", "", "save the current dimensions under this name")
	desc := fs.String("description", "", "preset description")
	var in inputs
	in.register(fs)
	_ = fs.Parse(args)

	store, err := project.LoadDefaultPresets()
	if err != nil {
		return err
	}
	if *save == "" {
		for _, p := range store.Presets {
			fmt.Printf("%-20s %-4s %s\n", p.Name, p.Orientation, p.Description)
		}
		return nil
	}

	proj, _, err := loadProject(in)
	if err != nil {
		return err
	}
	if old := store.FindByName(*save); old != nil {
		store.Remove(old.ID)
	}
	p := model.NewDimensionPreset(*save, *desc, proj.Dimensions, proj.Orientation)
	p.Clearance = proj.Clearance
	store.Add(p)
	if err := project.SaveDefaultPresets(store); err != nil {
		return err
	}
	fmt.Printf("saved preset %s\n", p.Name)
	return nil
}

func runBackup(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	out := fs.String("o", "lotlayout-backup.json", "backup file")
	_ = fs.Parse(args)

	cfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		return err
	}
	store, err := project.LoadDefaultPresets()
	if err != nil {
		return err
	}
	if err := project.ExportAllData(*out, cfg, store); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", *out)
	return nil
}

func runRestore(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	in := fs.String("i", "", "backup file")
	_ = fs.Parse(args)
	if *in == "" {
		return fmt.Errorf("restore needs -i")
	}

	data, err := project.ImportAllData(*in)
	if err != nil {
		return err
	}
	if err := project.SaveAppConfig(project.DefaultConfigPath(), data.Config); err != nil {
		return err
	}
	if err := project.SaveDefaultPresets(data.Presets); err != nil {
		return err
	}
	fmt.Printf("restored %d presets from %s\n", len(data.Presets.Presets), *in)
	return nil
}
