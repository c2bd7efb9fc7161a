package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"imconv/internal/config"
	"imconv/internal/tui"
)

var (
	verbose bool
	theme   string

	cfg        = config.Default()
	configPath string
	logger     = slog.New(slog.DiscardHandler)
	styles     = tui.NewStyles(tui.DarkPalette)
)

var rootCmd = &cobra.Command{
	Use:   "imconv",
	Short: "imconv - batch image format converter",
	Long:  "imconv converts batches of images between JPG, PNG, WebP, AVIF, TIFF, GIF and BMP, reading HEIC/HEIF as well.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		path, err := config.Path()
		if err != nil {
			logger.Debug("no user config directory", "err", err)
		} else {
			configPath = path
			loaded, err := config.Load(path)
			if err != nil {
				logger.Warn("ignoring config file", "path", path, "err", err)
			} else {
				cfg = loaded
			}
		}

		if cmd.Flags().Changed("theme") {
			if theme != config.ThemeDark && theme != config.ThemeLight {
				return fmt.Errorf("--theme must be %q or %q", config.ThemeLight, config.ThemeDark)
			}
			if theme != cfg.Theme {
				cfg.Theme = theme
				saveConfig()
			}
		}
		styles = tui.NewStyles(tui.PaletteFor(cfg.Theme))
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func saveConfig() {
	if configPath == "" {
		return
	}
	if err := config.Save(configPath, cfg); err != nil {
		logger.Warn("could not save config", "path", configPath, "err", err)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log debug details to stderr")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "", "colour theme: light or dark (remembered)")
}
