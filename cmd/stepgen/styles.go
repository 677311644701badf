package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/stepgen/internal/style"
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List all supported layouts",
	Long:  `Shows every pad layout stepgen can read from and generate for.`,
	Run:   runStyles,
}

func runStyles(cmd *cobra.Command, args []string) {
	layouts := style.List()

	// Calculate column widths
	maxIDLen, maxTypeLen := 2, 10 // "ID", "Steps-type" headers
	for _, l := range layouts {
		maxIDLen = max(maxIDLen, len(l.ID))
		maxTypeLen = max(maxTypeLen, len(l.StepsType))
	}

	fmt.Println("Supported styles:")
	fmt.Println()

	fmt.Printf("  %-*s  %-*s  %5s  %6s  %s\n", maxIDLen, "ID", maxTypeLen, "Steps-type", "Cols", "Panels", "Title")
	fmt.Printf("  %-*s  %-*s  %5s  %6s  %s\n", maxIDLen, "--", maxTypeLen, "----------", "----", "------", "-----")

	for _, l := range layouts {
		fmt.Printf("  %-*s  %-*s  %5d  %6d  %s\n", maxIDLen, l.ID, maxTypeLen, l.StepsType, l.Cols, l.Panels, l.Title)
	}

	fmt.Println()
	fmt.Println("Run 'stepgen generate <paths> -i <id> -o <id,...>' to convert charts.")
}
