package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"imconv/internal/codec"
	"imconv/internal/config"
	"imconv/internal/convert"
	"imconv/internal/heic"
	"imconv/internal/queue"
	"imconv/internal/tui"
)

var (
	convertFormat       string
	convertOutputDir    string
	convertQuality      int
	convertWidth        int
	convertHeight       int
	convertKeepMetadata bool
	convertPlain        bool
	convertOpen         bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [flags] <file|dir>...",
	Short: "Convert images to another format",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		rawFormat := cfg.Format
		if flags.Changed("format") {
			rawFormat = convertFormat
		}
		format, err := convert.LookupFormat(convert.ParseFormatID(rawFormat))
		if err != nil {
			return err
		}

		quality := cfg.Quality
		if flags.Changed("quality") {
			quality = convertQuality
		}
		opts := convert.Options{
			Quality:      quality,
			Width:        convertWidth,
			Height:       convertHeight,
			KeepMetadata: convertKeepMetadata,
		}
		if err := opts.Validate(); err != nil {
			return err
		}

		inputs, err := queue.Expand(args)
		if err != nil {
			return err
		}
		q := queue.New()
		q.Add(inputs...)
		if q.Len() == 0 {
			return errors.New("no images found in the given paths")
		}

		if convertOutputDir != "" {
			if err := os.MkdirAll(convertOutputDir, 0o755); err != nil {
				return err
			}
		}

		if flags.Changed("format") || flags.Changed("quality") {
			cfg.Format = string(format.ID)
			cfg.Quality = quality
			saveConfig()
		}
		if !format.Lossy && flags.Changed("quality") {
			fmt.Fprintln(os.Stderr, styles.Warn.Render(fmt.Sprintf("note: --quality is ignored for %s", format.Label)))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		conv := convert.New(codec.NewNative(), heic.NewDecoder(), logger)
		var outcomes []convert.Outcome
		if convertPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
			outcomes = runPlain(ctx, conv, q.Paths(), format.ID, opts)
		} else {
			outcomes = runInteractive(ctx, conv, q.Paths(), format.ID, opts)
		}

		summary := convert.Summarize(outcomes)
		fmt.Fprintln(os.Stdout, tui.RenderSummary(summary, styles))

		if summary.OutputDir != "" {
			outPath := summary.OutputDir
			if abs, absErr := filepath.Abs(outPath); absErr == nil {
				outPath = abs
			}
			fmt.Fprintf(os.Stdout, "Converted files written to: %s\n", outPath)
			if convertOpen {
				if err := openFolder(outPath); err != nil {
					logger.Warn("could not open output folder", "dir", outPath, "err", err)
				}
			}
		}
		return nil
	},
}

func runInteractive(ctx context.Context, conv *convert.Converter, inputs []string, format convert.FormatID, opts convert.Options) []convert.Outcome {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan convert.Progress, 64)
	program := tea.NewProgram(tui.NewModel(updates, styles))

	uiDone := make(chan struct{})
	go func() {
		defer close(uiDone)
		final, err := program.Run()
		if err != nil {
			logger.Warn("progress view stopped", "err", err)
			for range updates {
			}
			return
		}
		if m, ok := final.(tui.Model); ok && m.Interrupted() {
			cancel()
		}
	}()

	outcomes := conv.RunBatch(ctx, inputs, format, convertOutputDir, opts, updates)
	close(updates)
	<-uiDone
	return outcomes
}

func runPlain(ctx context.Context, conv *convert.Converter, inputs []string, format convert.FormatID, opts convert.Options) []convert.Outcome {
	updates := make(chan convert.Progress, 64)
	logged := make(chan struct{})
	go func() {
		defer close(logged)
		for p := range updates {
			logger.Info("converting", "current", p.Current, "total", p.Total, "file", p.File)
		}
	}()

	outcomes := conv.RunBatch(ctx, inputs, format, convertOutputDir, opts, updates)
	close(updates)
	<-logged
	return outcomes
}

func init() {
	f := convertCmd.Flags()
	f.StringVarP(&convertFormat, "format", "f", config.DefaultFormat, "output format: jpeg, png, webp, avif, tiff, gif or bmp (default: last used)")
	f.StringVarP(&convertOutputDir, "output", "o", "", "destination folder (default: next to each input)")
	f.IntVarP(&convertQuality, "quality", "q", config.DefaultQuality, "quality 1-100 for lossy formats (default: last used)")
	f.IntVar(&convertWidth, "width", 0, "maximum output width in pixels")
	f.IntVar(&convertHeight, "height", 0, "maximum output height in pixels")
	f.BoolVarP(&convertKeepMetadata, "keep-metadata", "m", false, "carry EXIF and ICC profiles into JPEG/PNG output")
	f.BoolVar(&convertPlain, "plain", false, "log progress lines instead of the interactive view")
	f.BoolVar(&convertOpen, "open", false, "open the output folder when done")

	rootCmd.AddCommand(convertCmd)
}
