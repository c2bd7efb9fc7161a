package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"imconv/internal/convert"
	"imconv/internal/tui"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported output formats",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		rows := make([]tui.SummaryRow, 0, len(convert.Formats()))
		for _, f := range convert.Formats() {
			kind := "lossless"
			if f.Lossy {
				kind = "lossy, takes --quality"
			}
			rows = append(rows, tui.SummaryRow{
				Label: fmt.Sprintf("%-5s %-5s", f.ID, f.Ext),
				Value: fmt.Sprintf("%s (%s)", f.Label, kind),
			})
		}
		fmt.Fprintln(os.Stdout, tui.RenderTable(rows, styles))
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
