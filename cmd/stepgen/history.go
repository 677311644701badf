package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/stepgen/internal/platform/tui"
	"github.com/vovakirdan/stepgen/internal/storage"
)

var (
	flagLimit       int
	flagHistoryFile string
	flagHistoryTUI  bool
	flagClear       bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past conversions",
	Long: `Display recent conversions recorded by 'stepgen generate', followed by
totals per output style.

Examples:
  stepgen history
  stepgen history --limit 50
  stepgen history --file song.sm
  stepgen history --tui
  stepgen history --clear`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of conversions to show")
	historyCmd.Flags().StringVar(&flagHistoryFile, "file", "", "Only show conversions of this chart file")
	historyCmd.Flags().BoolVar(&flagHistoryTUI, "tui", false, "Browse the history interactively")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the whole history")
}

func runHistory(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		exitOnErr(store.ClearRuns())
		fmt.Println("History cleared.")
		return
	}

	if flagHistoryTUI {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
			height = h
		}
		exitOnErr(tui.RunHistory(store, width, height))
		return
	}

	var runs []storage.Run
	if flagHistoryFile != "" {
		runs, err = store.RunsForFile(flagHistoryFile, flagLimit)
	} else {
		runs, err = store.RecentRuns(flagLimit)
	}
	exitOnErr(err)

	fmt.Println("Recent conversions")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No conversions recorded yet.")
		fmt.Println()
		fmt.Println("Run 'stepgen generate <paths> -o <style>' to add some!")
		return
	}

	fmt.Printf("  %-16s  %-24s  %-22s  %-16s  %6s  %s\n", "Date", "File", "To", "Chart", "Steps", "Status")
	fmt.Printf("  %-16s  %-24s  %-22s  %-16s  %6s  %s\n", "----", "----", "--", "-----", "-----", "------")
	for _, r := range runs {
		status := r.Status
		if r.Error != "" {
			status += ": " + r.Error
		}
		fmt.Printf("  %-16s  %-24s  %-22s  %-16s  %6d  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"),
			truncate(filepath.Base(r.File), 24),
			r.To,
			truncate(fmt.Sprintf("%s %d", r.Difficulty, r.Meter), 16),
			r.Steps,
			status,
		)
	}

	stats, err := store.Stats()
	if err != nil || len(stats) == 0 {
		return
	}

	styles := make([]string, 0, len(stats))
	for to := range stats {
		styles = append(styles, to)
	}
	sort.Strings(styles)

	fmt.Println()
	fmt.Printf("  %-22s  %6s  %6s  %9s\n", "Style", "Runs", "Failed", "Avg steps")
	fmt.Printf("  %-22s  %6s  %6s  %9s\n", "-----", "----", "------", "---------")
	for _, to := range styles {
		st := stats[to]
		fmt.Printf("  %-22s  %6d  %6d  %9.0f\n", to, st.Runs, st.Failed, st.AvgSteps)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
