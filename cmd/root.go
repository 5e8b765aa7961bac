package cmd

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"captioncraft/internal/app"
	"captioncraft/pkg/config"
)

var (
	verbose  bool
	logLevel = new(slog.LevelVar)
)

var rootCmd = &cobra.Command{
	Use:   "captioncraft",
	Short: "Turn text, PDFs and images into social media captions",
	Long: `Captioncraft summarizes text, PDF or image content with Gemini and writes
platform-specific caption variants with Groq.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setupLogger()
	}
}

func Execute() error {
	return rootCmd.Execute()
}

func setupLogger() {
	if verbose {
		logLevel.Set(slog.LevelDebug)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

// applyLogLevel honours log.level from config unless --verbose was given.
func applyLogLevel(level string) {
	if verbose {
		return
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err == nil {
		logLevel.Set(l)
	}
}

func loadPipeline(ctx context.Context) (*config.Config, *app.Pipeline, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	applyLogLevel(cfg.Log.Level)

	service, err := app.BuildService(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, app.NewPipeline(service), nil
}
