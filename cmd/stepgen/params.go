package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/stepgen/internal/chart"
	"github.com/vovakirdan/stepgen/internal/config"
	"github.com/vovakirdan/stepgen/internal/stepgen"
	"github.com/vovakirdan/stepgen/internal/style"
)

// Preset flags shared by generate, preview and serve.
var (
	flagFrom               string
	flagTo                 string
	flagConfig             string
	flagParams             string
	flagSeed               uint64
	flagCrossovers         int
	flagMoreEasyCrossovers bool
	flagVroom              bool
	flagPreserve           bool
	flagFootswitches       bool
	flagMinDifficulty      int
	flagMaxDifficulty      int
)

func addPresetFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&flagFrom, "input", "i", string(style.ItgSingles), "Style the source charts are written for")
	f.StringVarP(&flagTo, "output", "o", "", "Style(s) to generate, comma separated")
	f.StringVar(&flagConfig, "config", "", "Path to custom tuning YAML")
	f.StringVar(&flagParams, "params", "", "Path to a full generator params YAML (replaces the preset)")
	f.Uint64Var(&flagSeed, "seed", 0, "RNG seed (default: derived from each chart)")
	f.IntVarP(&flagCrossovers, "crossovers", "c", 0, "Allow crossovers: 0 none, 1 some, 2 more")
	f.BoolVar(&flagMoreEasyCrossovers, "more-easy-crossovers", false, "Favor crossovers that need little travel")
	f.BoolVar(&flagVroom, "vroom", false, "Travel widely across doubles layouts")
	f.BoolVarP(&flagPreserve, "preserve", "p", false, "Repeat the output step when the input repeats")
	f.BoolVarP(&flagFootswitches, "footswitches", "f", false, "Allow both feet on the same panel in a row")
	f.IntVar(&flagMinDifficulty, "min", 0, "Only convert charts with at least this meter")
	f.IntVar(&flagMaxDifficulty, "max", 0, "Only convert charts with at most this meter")
	//nolint:errcheck // Flag is defined above
	cmd.MarkFlagRequired("output")
}

// presetOptions collects the preset flags the user set.
func presetOptions(cmd *cobra.Command) config.Options {
	o := config.Options{
		Crossovers:               flagCrossovers,
		MoreEasyCrossovers:       flagMoreEasyCrossovers,
		Vroom:                    flagVroom,
		PreserveInputRepetitions: flagPreserve,
		Footswitches:             flagFootswitches,
	}
	if cmd.Flags().Changed("seed") {
		o.Seed = &flagSeed
	}
	if cmd.Flags().Changed("min") {
		o.MinDifficulty = &flagMinDifficulty
	}
	if cmd.Flags().Changed("max") {
		o.MaxDifficulty = &flagMaxDifficulty
	}
	return o
}

// parseStyles resolves the input style and the output styles.
func parseStyles() (*style.Layout, []*style.Layout, error) {
	from, err := style.Parse(flagFrom)
	if err != nil {
		return nil, nil, err
	}
	to, err := style.ParseList(flagTo)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// buildTargets returns generator params for every output style: the preset
// built from the flags and tuning file, or a copy of the --params file with
// seed and difficulty flags applied on top.
func buildTargets(cmd *cobra.Command, to []*style.Layout) ([]chart.Target, error) {
	o := presetOptions(cmd)
	targets := make([]chart.Target, 0, len(to))

	if flagParams != "" {
		base, err := config.LoadParams(flagParams)
		if err != nil {
			return nil, err
		}
		for _, l := range to {
			p, err := config.Clone(base)
			if err != nil {
				return nil, err
			}
			applyOverrides(&p, o)
			targets = append(targets, chart.Target{Layout: l, Params: p})
		}
		return targets, nil
	}

	tuning, err := config.LoadTuning(flagConfig)
	if err != nil {
		return nil, err
	}
	for _, l := range to {
		targets = append(targets, chart.Target{Layout: l, Params: config.BuildParams(tuning, o, l)})
	}
	return targets, nil
}

func applyOverrides(p *stepgen.Params, o config.Options) {
	if o.Seed != nil {
		p.Seed = o.Seed
	}
	if o.MinDifficulty != nil {
		p.MinDifficulty = o.MinDifficulty
	}
	if o.MaxDifficulty != nil {
		p.MaxDifficulty = o.MaxDifficulty
	}
}

// exitOnErr prints err and exits when it is set.
func exitOnErr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
