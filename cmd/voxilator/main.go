// voxilator is a CLI utility for simplifying voxel-style OBJ meshes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/ryanmaugv1/voxilator/internal/config"
	"github.com/ryanmaugv1/voxilator/internal/logger"
	"github.com/ryanmaugv1/voxilator/internal/mesh"
	"github.com/ryanmaugv1/voxilator/internal/optimize"
	"github.com/ryanmaugv1/voxilator/pkg/obj"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "filter":
		cmdFilter(args)
	case "scale":
		cmdScale(args)
	case "init-config":
		cmdInitConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`voxilator - voxel mesh simplification utility

Usage:
  voxilator <command> [options] <args>

Commands:
  info <input.obj>                     Show mesh statistics
  filter [options] <in.obj> <out.obj>  Delete faces by selection predicate
  scale [options] <in.obj> <out.obj>   Merge blocks of coplanar faces
  init-config [path]                   Write a default config file

Examples:
  voxilator info model.obj
  voxilator filter -select-material "glass*" -strategy selected model.obj out.obj
  voxilator scale -factor 4 -shape horizontal-strip model.obj out.obj
  voxilator scale -select-object "wall_*" -selected-only model.obj out.obj

Run 'voxilator <command> -h' for command options.`)
}

// commonFlags registers the flags every mesh-editing command shares.
type commonFlags struct {
	configPath string
	logLevel   string
	logFile    string
	selObjects string
	selMats    string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "Path to config file (default: voxilator.yaml in cwd or config dir)")
	fs.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&c.logFile, "log-file", "", "Also log to this file")
	fs.StringVar(&c.selObjects, "select-object", "", "Comma-separated globs; faces of matching objects count as selected")
	fs.StringVar(&c.selMats, "select-material", "", "Comma-separated globs; faces with matching materials count as selected")
}

// loadConfig resolves defaults < config file < explicitly set flags.
func (c *commonFlags) loadConfig(fs *flag.FlagSet) *config.Config {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.Logging.Level = c.logLevel
		case "log-file":
			cfg.Logging.LogFile = c.logFile
		}
	})
	return cfg
}

func initLogger(cfg *config.Config) {
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
}

// loadMeshes parses an OBJ file into editable per-object meshes and
// applies the selection globs.
func loadMeshes(path string, c *commonFlags) []*mesh.Mesh {
	file, err := obj.ParseFile(path)
	if err != nil {
		logger.Fatal("failed to parse OBJ file", zap.String("path", path), zap.Error(err))
	}
	meshes, err := mesh.FromOBJ(file)
	if err != nil {
		logger.Fatal("failed to build meshes", zap.String("path", path), zap.Error(err))
	}

	selected := markSelection(meshes, splitGlobs(c.selObjects), splitGlobs(c.selMats))
	logger.Debug("loaded meshes",
		zap.String("path", path),
		zap.Int("objects", len(meshes)),
		zap.Int("selected_faces", selected))
	return meshes
}

func splitGlobs(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	globs := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			globs = append(globs, p)
		}
	}
	return globs
}

// markSelection sets Face.Selected on every face whose object name
// matches an object glob or whose material matches a material glob.
// OBJ files carry no selection state of their own, so the globs are how
// a selection is expressed on the command line.
func markSelection(meshes []*mesh.Mesh, objectGlobs, materialGlobs []string) int {
	selected := 0
	for _, m := range meshes {
		objectMatch := matchAny(objectGlobs, m.Name)
		for _, f := range m.Faces() {
			f.Selected = objectMatch || matchAny(materialGlobs, f.Material)
			if f.Selected {
				selected++
			}
		}
	}
	return selected
}

func matchAny(globs []string, name string) bool {
	for _, g := range globs {
		if ok, _ := filepath.Match(g, name); ok {
			return true
		}
	}
	return false
}

func writeMeshes(path string, meshes []*mesh.Mesh) {
	file := mesh.ToOBJ(meshes...)
	file.Comments = append(file.Comments, "simplified by voxilator")
	if err := file.WriteFile(path); err != nil {
		logger.Fatal("failed to write OBJ file", zap.String("path", path), zap.Error(err))
	}
}

// severity extracts the pass error classification, if any.
func severity(err error) (optimize.Severity, bool) {
	var s interface{ Severity() optimize.Severity }
	if errors.As(err, &s) {
		return s.Severity(), true
	}
	return 0, false
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: voxilator info <input.obj>")
		os.Exit(1)
	}

	file, err := obj.ParseFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	meshes, err := mesh.FromOBJ(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File:     %s\n", fs.Arg(0))
	fmt.Printf("Objects:  %d\n", len(meshes))
	fmt.Printf("Vertices: %d\n", len(file.Positions))
	fmt.Println()

	totalFaces := 0
	for _, m := range meshes {
		quads := 0
		for _, f := range m.Faces() {
			if f.VertexCount() == 4 {
				quads++
			}
		}
		totalFaces += m.FaceCount()
		note := ""
		if quads != m.FaceCount() {
			note = fmt.Sprintf("  (%d non-quad, not optimizable)", m.FaceCount()-quads)
		}
		fmt.Printf("  %-24s %6d faces  %6d vertices%s\n", m.Name, m.FaceCount(), m.VertexCount(), note)
	}
	fmt.Printf("\nTotal faces: %d\n", totalFaces)
}

func cmdFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	strategyFlag := fs.String("strategy", "", "Which faces to delete: selected or unselected")
	joinFlag := fs.Bool("join", true, "Join surviving objects into one")
	recenterFlag := fs.Bool("recenter", true, "Move origin to the joined object's center of mass")
	weldFlag := fs.Float64("weld-threshold", 0, "Distance under which vertices are merged afterwards")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: voxilator filter [options] <input.obj> <output.obj>")
		os.Exit(1)
	}

	cfg := common.loadConfig(fs)
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "strategy":
			cfg.Optimize.FilterStrategy = *strategyFlag
		case "join":
			cfg.Cleanup.JoinObjects = *joinFlag
		case "recenter":
			cfg.Cleanup.RecenterOrigin = *recenterFlag
		case "weld-threshold":
			cfg.Cleanup.WeldThreshold = *weldFlag
		}
	})
	initLogger(cfg)
	defer logger.Sync()

	strategy, err := optimize.ParseFilterStrategy(cfg.Optimize.FilterStrategy)
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	meshes := loadMeshes(fs.Arg(0), &common)

	deleted := 0
	failed := 0
	survivors := make([]*mesh.Mesh, 0, len(meshes))
	for _, m := range meshes {
		n, err := optimize.FilterFaces(m, strategy)
		if err != nil {
			if sev, ok := severity(err); ok && sev == optimize.SeverityObject {
				logger.Warn("skipping object", zap.String("object", m.Name), zap.Error(err))
				failed++
				survivors = append(survivors, m)
				continue
			}
			logger.Fatal("filter pass failed", zap.String("object", m.Name), zap.Error(err))
		}
		deleted += n
		logger.Debug("filtered object", zap.String("object", m.Name), zap.Int("deleted", n))
		if m.FaceCount() > 0 {
			survivors = append(survivors, m)
		}
	}

	if cfg.Cleanup.JoinObjects && len(survivors) > 1 {
		joined := mesh.Join(survivors...)
		survivors = []*mesh.Mesh{joined}
		logger.Debug("joined objects", zap.String("object", joined.Name))
	}
	for _, m := range survivors {
		if cfg.Cleanup.RecenterOrigin {
			offset := m.RecenterOrigin()
			logger.Debug("recentered origin",
				zap.String("object", m.Name),
				zap.Float64s("offset", offset[:]))
		}
		if cfg.Cleanup.WeldThreshold > 0 {
			welded := m.WeldVertices(cfg.Cleanup.WeldThreshold)
			logger.Debug("welded vertices", zap.String("object", m.Name), zap.Int("welded", welded))
		}
	}

	writeMeshes(fs.Arg(1), survivors)

	logger.Info("filter pass complete",
		zap.Int("objects", len(meshes)),
		zap.Int("deleted_faces", deleted),
		zap.Int("skipped_objects", failed),
		zap.String("output", fs.Arg(1)))
	if failed > 0 && failed == len(meshes) {
		os.Exit(1)
	}
}

func cmdScale(args []string) {
	fs := flag.NewFlagSet("scale", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	factorFlag := fs.Int("factor", 0, "Merge window size seed, minimum 2")
	shapeFlag := fs.String("shape", "", "Window shape: square, horizontal-strip or vertical-strip")
	selOnlyFlag := fs.Bool("selected-only", false, "Merge only selected faces")
	preserveUVFlag := fs.Bool("preserve-uv", false, "Keep the merged faces' texture footprint")
	weldFlag := fs.Float64("weld-threshold", 0, "Distance under which vertices are merged afterwards")
	cpuProfile := fs.Bool("cpu-profile", false, "Write a CPU profile to the current directory")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: voxilator scale [options] <input.obj> <output.obj>")
		os.Exit(1)
	}

	cfg := common.loadConfig(fs)
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "factor":
			cfg.Optimize.ScaleFactor = *factorFlag
		case "shape":
			cfg.Optimize.WindowShape = *shapeFlag
		case "selected-only":
			cfg.Optimize.SelectedFacesOnly = *selOnlyFlag
		case "preserve-uv":
			cfg.Optimize.PreserveUV = *preserveUVFlag
		case "weld-threshold":
			cfg.Cleanup.WeldThreshold = *weldFlag
		}
	})
	initLogger(cfg)
	defer logger.Sync()

	shape, err := optimize.ParseWindowShape(cfg.Optimize.WindowShape)
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	opts := optimize.Options{
		ScaleFactor:  cfg.Optimize.ScaleFactor,
		Shape:        shape,
		SelectedOnly: cfg.Optimize.SelectedFacesOnly,
		PreserveUV:   cfg.Optimize.PreserveUV,
	}
	// Reject a bad factor before touching any geometry.
	if _, err := optimize.DeriveWindow(opts.ScaleFactor, opts.Shape); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	meshes := loadMeshes(fs.Arg(0), &common)

	merges := 0
	failed := 0
	for _, m := range meshes {
		before := m.FaceCount()
		n, err := optimize.ScaleFaces(m, opts)
		merges += n
		if err != nil {
			if sev, ok := severity(err); ok && sev == optimize.SeverityObject {
				logger.Warn("skipping object", zap.String("object", m.Name), zap.Error(err))
				failed++
				continue
			}
			logger.Fatal("scale pass failed", zap.String("object", m.Name), zap.Error(err))
		}
		logger.Debug("scaled object",
			zap.String("object", m.Name),
			zap.Int("merges", n),
			zap.Int("faces_before", before),
			zap.Int("faces_after", m.FaceCount()))
		if cfg.Cleanup.WeldThreshold > 0 {
			m.WeldVertices(cfg.Cleanup.WeldThreshold)
		}
	}

	writeMeshes(fs.Arg(1), meshes)

	logger.Info("scale pass complete",
		zap.Int("objects", len(meshes)),
		zap.Int("merges", merges),
		zap.Int("skipped_objects", failed),
		zap.String("output", fs.Arg(1)))
	if failed > 0 && failed == len(meshes) {
		os.Exit(1)
	}
}

func cmdInitConfig(args []string) {
	fs := flag.NewFlagSet("init-config", flag.ExitOnError)
	fs.Parse(args)

	cfg := config.Default()
	if fs.NArg() > 0 {
		path := fs.Arg(0)
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
		return
	}

	if err := cfg.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", filepath.Join(config.ConfigDir(), "voxilator.yaml"))
}
