// Command shapetool compiles polygon primitives into node-shape
// definition files and inspects existing ones. It is the command-line
// stand-in for the host editor's authoring UI: geometry comes from a
// primitives file instead of a live scene graph.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/EJaworenko/Node-Weaver/pkg/classify"
	"github.com/EJaworenko/Node-Weaver/pkg/codec"
	"github.com/EJaworenko/Node-Weaver/pkg/host"
	"github.com/EJaworenko/Node-Weaver/pkg/normalize"
	"github.com/EJaworenko/Node-Weaver/pkg/palette"
	"github.com/EJaworenko/Node-Weaver/pkg/preview"
	"github.com/EJaworenko/Node-Weaver/pkg/shape"
	"github.com/EJaworenko/Node-Weaver/pkg/stats"
	"github.com/EJaworenko/Node-Weaver/pkg/wire"
)

// Environment variables naming the two shape-directory roots. They may
// come from the process environment or a .env file next to the tool.
const (
	envUserRoot    = "NODEWEAVER_USER_ROOT"
	envPackageRoot = "NODEWEAVER_PACKAGE_ROOT"
)

var log zerolog.Logger

func main() {
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "export":
		err = runExport(os.Args[2:])
	case "inspect":
		err = runInspect(os.Args[2:])
	case "preview":
		err = runPreview(os.Args[2:])
	case "compare":
		err = runCompare(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Msg(os.Args[1] + " failed")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: shapetool <command> [flags]

commands:
  export   compile a primitives file into a shape definition
  inspect  measure a shape definition and print its statistics
  preview  render a shape definition to SVG
  compare  report deltas against the built-in shape table
  list     list the shape palette of a directory`)
}

// shapeDir resolves the export/list directory: an explicit -dir wins,
// then the user-preference root, then the package root.
func shapeDir(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	dirs := codec.ResolveShapeDirs(os.Getenv(envUserRoot), os.Getenv(envPackageRoot))
	if len(dirs) == 0 {
		return "", fmt.Errorf("no shape directory: pass -dir or set %s / %s", envUserRoot, envPackageRoot)
	}
	return dirs[0], nil
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	geoPath := fs.String("geo", "", "primitives file (required)")
	name := fs.String("name", "", "shape name, also the output filename stem (required)")
	dir := fs.String("dir", "", "target shape directory (default: resolved from environment)")
	scale := fs.Float64("scale", 1, "footprint scale factor")
	iconScale := fs.Float64("icon-scale", 0, "absolute icon box size (0 leaves the icon untouched)")
	restrictIcon := fs.Bool("restrict-icon", false, "clamp the icon box to the shape extents")
	unbounded := fs.Bool("unbounded", false, "allow geometry outside the canonical 0-1 frame")

	inMethod := fs.String("in-method", "auto", "input connector mode: auto, custom, matched")
	inStart := fs.Float64("in-start", 0.1, "input silhouette window start fraction")
	inEnd := fs.Float64("in-end", 0.9, "input silhouette window end fraction")
	inEndMatch := fs.Bool("in-end-match", false, "mirror the end fraction from the start")
	inOffset := fs.Float64("in-offset", -0.02, "input normal offset")
	inSegs := fs.Int("in-segs", 16, "input connector point count")
	inBlend := fs.Float64("in-wire-blend", 0, "input curvature blend toward the anchor")
	inCustom := fs.String("in-custom", "", "input custom curve reference")

	outMethod := fs.String("out-method", "auto", "output connector mode: auto, custom, matched")
	outStart := fs.Float64("out-start", 0.1, "output silhouette window start fraction")
	outEnd := fs.Float64("out-end", 0.9, "output silhouette window end fraction")
	outEndMatch := fs.Bool("out-end-match", false, "mirror the end fraction from the start")
	outOffset := fs.Float64("out-offset", 0.02, "output normal offset")
	outSegs := fs.Int("out-segs", 16, "output connector point count")
	outBlend := fs.Float64("out-wire-blend", 0, "output curvature blend toward the anchor")
	outCustom := fs.String("out-custom", "", "output custom curve reference")
	fs.Parse(args)

	if *geoPath == "" || *name == "" {
		return fmt.Errorf("export needs -geo and -name")
	}
	if *inEndMatch {
		*inEnd = host.MatchedEnd(*inStart)
	}
	if *outEndMatch {
		*outEnd = host.MatchedEnd(*outStart)
	}

	src, err := host.LoadFile(*geoPath)
	if err != nil {
		return err
	}
	prims, err := src.Primitives()
	if err != nil {
		return err
	}

	groups, err := classify.Classify(prims)
	if err != nil {
		return err
	}
	doc := shape.New(*name)
	doc.Groups = groups

	cfg := normalize.DefaultConfig()
	cfg.Scale = shape.Point{X: *scale, Y: *scale}
	cfg.IconScale = *iconScale
	cfg.RestrictIcon = *restrictIcon
	cfg.Unbounded = *unbounded
	if err := normalize.Normalize(doc, cfg); err != nil {
		return err
	}

	params := host.Params{
		host.ParamInMethod: *inMethod, host.ParamInStart: *inStart, host.ParamInEnd: *inEnd,
		host.ParamInOffset: *inOffset, host.ParamInSegs: *inSegs, host.ParamInBlend: *inBlend,
		host.ParamInCustom: *inCustom,
		host.ParamOutMethod: *outMethod, host.ParamOutStart: *outStart, host.ParamOutEnd: *outEnd,
		host.ParamOutOffset: *outOffset, host.ParamOutSegs: *outSegs, host.ParamOutBlend: *outBlend,
		host.ParamOutCustom: *outCustom,
	}

	// Matched connectors mirror the opposite one, so synthesize the
	// non-matched side first.
	inCfg := wire.ConfigFromParams(params, wire.SideInput)
	outCfg := wire.ConfigFromParams(params, wire.SideOutput)
	if inCfg.Mode == shape.WireMatched && outCfg.Mode == shape.WireMatched {
		return fmt.Errorf("input and output connectors cannot both be matched")
	}
	synth := func(side wire.Side, cfg wire.Config) error {
		wc, err := wire.Synthesize(doc, side, cfg, src)
		if err != nil {
			return err
		}
		if side == wire.SideInput {
			doc.In = wc
		} else {
			doc.Out = wc
		}
		return nil
	}
	first, second := wire.SideInput, wire.SideOutput
	firstCfg, secondCfg := inCfg, outCfg
	if inCfg.Mode == shape.WireMatched {
		first, second = second, first
		firstCfg, secondCfg = secondCfg, firstCfg
	}
	if err := synth(first, firstCfg); err != nil {
		return err
	}
	if err := synth(second, secondCfg); err != nil {
		return err
	}

	target, err := shapeDir(*dir)
	if err != nil {
		return err
	}
	written, err := codec.Write(doc, target)
	if err != nil {
		return err
	}
	log.Info().Str("path", codec.DisplayPath(written)).Msg("wrote shape definition")
	return nil
}

func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	file := fs.String("file", "", "shape definition file (required)")
	digits := fs.Int("digits", 3, "label precision")
	fs.Parse(args)
	if *file == "" {
		return fmt.Errorf("inspect needs -file")
	}

	doc, rec, err := stats.Inspect(*file)
	if err != nil {
		return err
	}

	fmt.Printf("name: %s\n", doc.Name)
	fmt.Printf("overall  %s\n", stats.Format(rec.Overall, *digits))
	for r := shape.RoleShape; r <= shape.RoleIcon; r++ {
		if bb, ok := rec.PerRole[r]; ok {
			fmt.Printf("%-13s %s\n", r, stats.Format(bb, *digits))
		}
	}
	for _, v := range rec.Violations {
		fmt.Printf("problem: %s\n", v.Error())
	}
	return nil
}

func runPreview(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	file := fs.String("file", "", "shape definition file (required)")
	out := fs.String("out", "", "output SVG path (required)")
	width := fs.Int("width", 512, "SVG pixel width")
	fs.Parse(args)
	if *file == "" || *out == "" {
		return fmt.Errorf("preview needs -file and -out")
	}

	doc, err := codec.ReadFile(*file)
	if err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := preview.Render(f, doc, *width); err != nil {
		return err
	}
	log.Info().Str("path", *out).Msg("wrote preview")
	return nil
}

func runCompare(args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	file := fs.String("file", "", "shape definition file (required)")
	fs.Parse(args)
	if *file == "" {
		return fmt.Errorf("compare needs -file")
	}

	_, rec, err := stats.Inspect(*file)
	if err != nil {
		return err
	}
	for _, d := range stats.CompareAll(rec) {
		fmt.Printf("%-14s size %+.3f x %+.3f  center %+.3f x %+.3f\n",
			d.Reference, d.SizeX, d.SizeY, d.CenterX, d.CenterY)
	}
	return nil
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	dir := fs.String("dir", "", "shape directory (default: resolved from environment)")
	reload := fs.Bool("reload", false, "bypass the palette cache")
	fs.Parse(args)

	target, err := shapeDir(*dir)
	if err != nil {
		return err
	}
	cache, err := palette.New(log)
	if err != nil {
		return err
	}
	load := cache.Load
	if *reload {
		load = cache.Reload
	}
	entries, err := load(target)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%-20s %s\n", e.Name, codec.DisplayPath(e.Path))
	}
	return nil
}
