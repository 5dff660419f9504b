// windtool converts SpeedTree XML hierarchy exports into wind-simulation
// bone group descriptions.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/jacoelho/xsd"
	"go.uber.org/zap"

	"github.com/Faultbox/windtool/internal/config"
	"github.com/Faultbox/windtool/internal/logger"
	"github.com/Faultbox/windtool/pkg/speedtree"
	"github.com/Faultbox/windtool/pkg/wind"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "convert":
		cmdConvert(args)
	case "info":
		cmdInfo(args)
	case "groups":
		cmdGroups(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`windtool - SpeedTree wind hierarchy converter

Usage:
  windtool <command> [options]

Commands:
  convert <in.xml> <out.json>  Convert an export to a wind hierarchy JSON
  info <in.xml>                Show per-level object and bone counts
  groups <in.xml>              Preview the simulation group table

Options (all commands):
  -config <file>   Path to config file
  -debug           Enable debug logging
  -log-file <file> Write logs to file
  -gust <x>        Gust attenuation override
  -groundcover     Mark the asset as ground cover

Convert options:
  -schema <file.xsd>  Validate the input against an XSD schema first

Examples:
  windtool convert palm_tree.xml palm_tree_wind.json
  windtool convert -schema speedtree.xsd -gust 0.4 oak.xml oak_wind.json
  windtool info oak.xml`)
}

// setup loads config, applies flag overrides and initializes logging.
func setup(flags *config.Flags) *config.Config {
	cfg, err := config.Load(flags.ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	flags.Apply(cfg)

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func cmdConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	schemaPath := fs.String("schema", "", "Validate input against an XSD schema")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: windtool convert [options] <in.xml> <out.json>")
		os.Exit(1)
	}
	inPath := fs.Arg(0)
	outPath := fs.Arg(1)

	cfg := setup(flags)
	defer logger.Sync()

	if *schemaPath != "" {
		schema, err := xsd.LoadFile(*schemaPath)
		if err != nil {
			logger.Error("loading schema", zap.String("schema", *schemaPath), zap.Error(err))
			os.Exit(1)
		}
		if err := schema.ValidateFile(inPath); err != nil {
			logger.Error("schema validation failed", zap.String("input", inPath), zap.Error(err))
			os.Exit(1)
		}
		logger.Debug("schema validation passed", zap.String("input", inPath))
	}

	exp, err := speedtree.Open(inPath)
	if err != nil {
		logger.Error("reading export", zap.String("input", inPath), zap.Error(err))
		os.Exit(1)
	}
	logger.Debug("parsed export",
		zap.String("input", inPath),
		zap.Int("objects", len(exp.Objects)),
		zap.Ints("levels", exp.Levels()))

	doc, err := wind.Build(exp, cfg.Wind.Options())
	if err != nil {
		logger.Error("building wind hierarchy", zap.Error(err))
		os.Exit(1)
	}

	if err := doc.WriteFile(outPath); err != nil {
		logger.Error("writing output", zap.String("output", outPath), zap.Error(err))
		os.Exit(1)
	}

	logger.Info("wrote wind hierarchy",
		zap.String("output", outPath),
		zap.Int("joints", len(doc.Joints)),
		zap.Int("groups", len(doc.SimulationGroups)))
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: windtool info <in.xml>")
		os.Exit(1)
	}

	setup(flags)
	defer logger.Sync()

	exp, err := speedtree.Open(fs.Arg(0))
	if err != nil {
		logger.Error("reading export", zap.String("input", fs.Arg(0)), zap.Error(err))
		os.Exit(1)
	}

	type levelStat struct {
		objects int
		bones   map[int]bool
	}
	stats := map[int]*levelStat{}
	trunkObjects := 0
	for i := range exp.Objects {
		obj := &exp.Objects[i]
		if !obj.Wind {
			trunkObjects++
			continue
		}
		st := stats[obj.Level]
		if st == nil {
			st = &levelStat{bones: map[int]bool{}}
			stats[obj.Level] = st
		}
		st.objects++
		for id := range obj.BoneWeights {
			st.bones[id] = true
		}
	}

	fmt.Printf("Export:  %s\n", fs.Arg(0))
	fmt.Printf("Objects: %d (%d without wind level)\n", len(exp.Objects), trunkObjects)
	fmt.Println()
	fmt.Println("Wind levels:")

	levels := make([]int, 0, len(stats))
	for lvl := range stats {
		levels = append(levels, lvl)
	}
	sort.Ints(levels)
	for _, lvl := range levels {
		st := stats[lvl]
		fmt.Printf("  L%-3d %d objects, %d bones\n", lvl, st.objects, len(st.bones))
	}
	if len(levels) == 0 {
		fmt.Println("  (none)")
	}
}

func cmdGroups(args []string) {
	fs := flag.NewFlagSet("groups", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: windtool groups <in.xml>")
		os.Exit(1)
	}

	cfg := setup(flags)
	defer logger.Sync()

	exp, err := speedtree.Open(fs.Arg(0))
	if err != nil {
		logger.Error("reading export", zap.String("input", fs.Arg(0)), zap.Error(err))
		os.Exit(1)
	}

	doc, err := wind.Build(exp, cfg.Wind.Options())
	if err != nil {
		logger.Error("building wind hierarchy", zap.Error(err))
		os.Exit(1)
	}

	jointCount := make([]int, len(doc.SimulationGroups))
	for _, j := range doc.Joints {
		jointCount[j.SimulationGroupIndex]++
	}

	fmt.Printf("Simulation groups (%d):\n", len(doc.SimulationGroups))
	for i, g := range doc.SimulationGroups {
		kind := "branch"
		if g.TrunkGroup {
			kind = "trunk"
		}
		if g.UseDualInfluence {
			fmt.Printf("  %d  %-6s dual   min=%.2f max=%.2f shift=%.2f  %d joints\n",
				i, kind, *g.MinInfluence, *g.MaxInfluence, *g.ShiftTop, jointCount[i])
		} else {
			fmt.Printf("  %d  %-6s single influence=%.2f  %d joints\n",
				i, kind, *g.Influence, jointCount[i])
		}
	}
	fmt.Printf("\nGust attenuation: %.2f, ground cover: %v\n", doc.GustAttenuation, doc.GroundCover)
}
