package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/stepgen/internal/chart"
	"github.com/vovakirdan/stepgen/internal/storage"
	"github.com/vovakirdan/stepgen/internal/style"
)

var (
	flagRemove    bool
	flagEdits     bool
	flagExtra     string
	flagDryRun    bool
	flagJobs      int
	flagNoHistory bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <paths...>",
	Short: "Add generated charts to chart files",
	Long: `Convert every chart of the input style found in the given .sm/.ssc files
(directories are searched recursively) into each output style, and append the
results to the same files.

A file that already holds generated charts of an output style is left alone
for that style; pass -r to replace them.

Crossover options:
  -c 0   - No crossovers (default)
  -c 1   - Allow crossovers, removing jumps
  -c 2   - Allow sharper crossovers and turns

Examples:
  stepgen generate ./Songs -o itg-doubles
  stepgen generate song.sm -i itg-singles -o pump-singles,pump-doubles
  stepgen generate song.ssc -o itg-doubles -c 1 --more-easy-crossovers
  stepgen generate ./Songs -o horizon-doubles --vroom -r
  stepgen generate song.sm -o itg-doubles --params ./my-params.yaml -d`,
	Args: cobra.MinimumNArgs(1),
	Run:  runGenerate,
}

func init() {
	addPresetFlags(generateCmd)
	f := generateCmd.Flags()
	f.BoolVarP(&flagRemove, "remove", "r", false, "Remove previously generated charts first")
	f.BoolVarP(&flagEdits, "edits", "e", false, "Write generated charts with the Edit difficulty")
	f.StringVarP(&flagExtra, "extra", "x", "", "Extra text for the description of generated charts")
	f.BoolVarP(&flagDryRun, "dry-run", "d", false, "Convert but do not write files or history")
	f.IntVar(&flagJobs, "jobs", runtime.NumCPU(), "Number of files converted in parallel")
	f.BoolVar(&flagNoHistory, "no-history", false, "Do not record conversions in the history database")
}

// fileResult summarizes one processed chart file.
type fileResult struct {
	generated int
	removed   int
	failed    int
}

func runGenerate(cmd *cobra.Command, args []string) {
	logger := newLogger("stepgen")

	from, to, err := parseStyles()
	exitOnErr(err)
	targets, err := buildTargets(cmd, to)
	exitOnErr(err)

	files, err := chart.FindFiles(args)
	exitOnErr(err)
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no .sm or .ssc files found")
		os.Exit(1)
	}

	// Open history storage
	var store *storage.Store
	if !flagNoHistory && !flagDryRun {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			logger.Warn("could not open history database", "error", err)
			// Continue without history
			store = nil
		}
	}
	if store != nil {
		defer store.Close()
	}

	opts := chart.Options{Edits: flagEdits, Extra: flagExtra}

	var (
		mu    sync.Mutex
		total fileResult
	)
	var g errgroup.Group
	g.SetLimit(max(1, flagJobs))
	for _, f := range files {
		g.Go(func() error {
			res, err := processFile(f, from, targets, opts, store, logger.With("file", f.Path))
			if err != nil {
				logger.Error("file failed", "file", f.Path, "error", err)
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			total.generated += res.generated
			total.removed += res.removed
			total.failed += res.failed
			if res.generated > 0 || res.removed > 0 {
				fmt.Printf("%s: +%d charts", f.Path, res.generated)
				if res.removed > 0 {
					fmt.Printf(" (%d removed)", res.removed)
				}
				fmt.Println()
			}
			return nil
		})
	}
	waitErr := g.Wait()

	fmt.Printf("Generated %d charts from %d files", total.generated, len(files))
	if total.failed > 0 {
		fmt.Printf(", %d failed", total.failed)
	}
	if flagDryRun {
		fmt.Print(" (dry run, nothing written)")
	}
	fmt.Println()

	if waitErr != nil {
		os.Exit(1)
	}
}

// processFile converts one chart file and writes it back unless this is a
// dry run.
func processFile(f chart.File, from *style.Layout, targets []chart.Target, opts chart.Options, store *storage.Store, logger *log.Logger) (fileResult, error) {
	info, err := os.Stat(f.Path)
	if err != nil {
		return fileResult{}, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return fileResult{}, err
	}

	opts.Logger = logger
	out, err := chart.Generate(string(data), f.Format, from, targets, flagRemove, opts)
	if err != nil {
		return fileResult{}, err
	}

	res := fileResult{generated: out.Generated(), removed: out.Removed}
	for _, oc := range out.Outcomes {
		if oc.Err != nil && !errors.Is(oc.Err, chart.ErrFiltered) && !errors.Is(oc.Err, chart.ErrAlreadyGenerated) {
			res.failed++
		}
	}

	if !flagDryRun && (res.generated > 0 || res.removed > 0) {
		if err := os.WriteFile(f.Path, []byte(out.Contents), info.Mode().Perm()); err != nil {
			return res, fmt.Errorf("cannot write %s: %w", f.Path, err)
		}
	}

	if store != nil {
		for _, run := range historyRuns(f.Path, from, out) {
			if _, err := store.SaveRun(run); err != nil {
				logger.Warn("could not record conversion", "error", err)
			}
		}
	}

	return res, nil
}

// historyRuns turns the outcomes of one file into history records.
func historyRuns(path string, from *style.Layout, out *chart.Output) []storage.Run {
	runs := make([]storage.Run, 0, len(out.Outcomes))
	for _, oc := range out.Outcomes {
		run := storage.Run{
			File:        path,
			From:        string(from.ID()),
			To:          string(oc.Target),
			Description: oc.Source.Description,
			Difficulty:  oc.Source.Difficulty,
			Meter:       oc.Source.Meter,
			Rows:        oc.Source.Rows(),
		}
		switch {
		case oc.Err == nil:
			run.Status = storage.StatusOK
			run.Seed = oc.Result.Seed
			run.Steps = oc.Result.Stats.Steps[0] + oc.Result.Stats.Steps[1]
			run.Duration = oc.Result.Duration
		case errors.Is(oc.Err, chart.ErrFiltered):
			run.Status = storage.StatusFiltered
		case errors.Is(oc.Err, chart.ErrAlreadyGenerated):
			run.Status = storage.StatusSkipped
			run.Error = oc.Err.Error()
		default:
			run.Status = storage.StatusFailed
			run.Error = oc.Err.Error()
		}
		runs = append(runs, run)
	}
	return runs
}
