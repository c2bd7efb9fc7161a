package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"imconv/internal/metadata"
	"imconv/internal/queue"
	"imconv/pkg/imgutil"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file|dir>...",
	Short: "Report the metadata --keep-metadata would carry over",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := queue.Expand(args)
		if err != nil {
			return err
		}

		for i, path := range inputs {
			if i > 0 {
				fmt.Fprintln(os.Stdout)
			}
			fmt.Fprintf(os.Stdout, "%s\n", styles.Title.Render(path))

			a, err := inspectFile(path)
			if errors.Is(err, errNotImage) {
				printInspectLine("skipped", "not a recognised image container")
				continue
			}
			if err != nil {
				printInspectLine("error", err.Error())
				continue
			}

			printInspectLine("container", a.Container.String())
			if !a.HasAny() {
				fmt.Fprintf(os.Stdout, "  %s %s\n", styles.Dim.Render("-"), styles.Dim.Render("no metadata"))
				continue
			}
			if a.ExifTags > 0 {
				printInspectLine("exif tags", fmt.Sprintf("%d", a.ExifTags))
			}
			if a.HasModel {
				model := a.Model
				if model == "" {
					model = "present"
				}
				printInspectLine("camera", model)
			}
			if a.HasTimestamp {
				printInspectLine("timestamp", "yes")
			}
			if a.HasGPS {
				printInspectLine("gps tags", fmt.Sprintf("%d", a.GPSCount))
			}
			if a.SerialCount > 0 {
				printInspectLine("serial numbers", fmt.Sprintf("%d", a.SerialCount))
			}
			if a.HasICC {
				printInspectLine("icc profile", "yes")
			}
			for _, key := range a.TextKeys {
				printInspectLine("text chunk", key)
			}
		}
		return nil
	},
}

var errNotImage = errors.New("not a recognised image container")

// inspectFile sniffs path before reading it whole, so non-images are skipped
// cheaply. EXIF parse failures still return what was found.
func inspectFile(path string) (metadata.Analysis, error) {
	kind, err := imgutil.SniffFile(path)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || (err == nil && kind == imgutil.KindUnknown) {
		return metadata.Analysis{}, errNotImage
	}
	if err != nil {
		return metadata.Analysis{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return metadata.Analysis{}, err
	}
	a, err := metadata.Analyze(data)
	if err != nil {
		logger.Debug("exif analysis failed", "path", path, "err", err)
	}
	return a, nil
}

func printInspectLine(category, value string) {
	fmt.Fprintf(os.Stdout, "  %s %s %s\n",
		styles.Dim.Render("-"),
		styles.Accent.Render(category+":"),
		styles.Label.Render(value),
	)
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
