// stepgen retargets dance-pad step charts from one pad layout to another.
//
// Usage:
//
//	stepgen generate <paths...> -o <styles>  - Add generated charts to .sm/.ssc files
//	stepgen styles                           - List supported layouts
//	stepgen preview <file> -o <style>        - Scroll through a conversion in the terminal
//	stepgen history                          - Show past conversions
//	stepgen serve <file> -o <style>          - Serve a preview over SSH
//
// Global flags:
//
//	--db <path>     - Set history database path (default: ~/.stepgen/history.db)
//	-v, --verbose   - Log every conversion and step decision
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagDBPath  string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stepgen",
	Short: "stepgen - Retarget step charts to other pad layouts",
	Long: `stepgen converts StepMania charts written for one dance pad layout into
charts for another, keeping the rhythm of the original and choosing steps
that stay comfortable to play.

Available commands:
  generate - Add generated charts to .sm and .ssc files
  styles   - Show all supported layouts
  preview  - Scroll through a conversion in the terminal
  history  - View past conversions
  serve    - Serve a conversion preview over SSH

Examples:
  stepgen styles
  stepgen generate ./Songs -o itg-doubles,pump-singles
  stepgen generate song.ssc -o pump-doubles -c 1 --seed 42
  stepgen preview song.sm -o itg-doubles
  stepgen history --tui`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.stepgen/history.db", "Path to history database")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(stylesCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger returns the stderr logger used by every command.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
