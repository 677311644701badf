package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/stepgen/internal/chart"
	"github.com/vovakirdan/stepgen/internal/platform/tui"
	"github.com/vovakirdan/stepgen/internal/style"
)

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Preview a conversion in the terminal",
	Long: `Convert the charts of one file into a single output style and scroll
through the result without writing anything. Left foot steps are red, right
foot steps blue.

Controls:
  Up/Down, j/k  - Scroll
  Tab/S-Tab     - Next/previous chart
  Space         - Play/pause
  R             - Convert again with a new seed
  Q/Esc         - Quit

Examples:
  stepgen preview song.sm -o itg-doubles
  stepgen preview song.ssc -o pump-singles -c 2 --seed 7`,
	Args: cobra.ExactArgs(1),
	Run:  runPreview,
}

func init() {
	addPresetFlags(previewCmd)
}

// loadPreview reads a chart file and builds the preview of its conversion.
func loadPreview(cmd *cobra.Command, path string) (tui.Preview, error) {
	format, ok := chart.FormatOf(path)
	if !ok {
		return tui.Preview{}, fmt.Errorf("%s is not a .sm or .ssc file", path)
	}
	from, err := style.Parse(flagFrom)
	if err != nil {
		return tui.Preview{}, err
	}
	to, err := style.Parse(flagTo)
	if err != nil {
		return tui.Preview{}, err
	}
	targets, err := buildTargets(cmd, []*style.Layout{to})
	if err != nil {
		return tui.Preview{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return tui.Preview{}, err
	}
	charts, err := tui.PreviewCharts(string(data), format, from)
	if err != nil {
		return tui.Preview{}, err
	}

	return tui.Preview{
		File:   path,
		From:   from,
		To:     to,
		Charts: charts,
		Params: targets[0].Params,
	}, nil
}

func runPreview(cmd *cobra.Command, args []string) {
	src, err := loadPreview(cmd, args[0])
	exitOnErr(err)

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	exitOnErr(tui.RunPreview(src, width, height))
}
