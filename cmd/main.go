package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"docsummary/internal/config"
	"docsummary/internal/extractor"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "docsummary",
		Usage: "summarize PDF, DOCX, text and image files in Norwegian",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			summarizeCommand(),
			extractCommand(),
			formatsCommand(),
		},
	}
}

func newLogger(c *cli.Context, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if c.Bool("quiet") {
		level = slog.LevelError
	}

	log := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	return log
}

func newExtractorSet(mode string, tesseractPath string) (extractor.Set, error) {
	switch mode {
	case config.ExtractionModeSimulated:
		return extractor.NewSimulatedSet(), nil
	case config.ExtractionModeNative:
		return extractor.NewNativeSet(tesseractPath), nil
	default:
		return nil, fmt.Errorf("unsupported extraction mode: %q", mode)
	}
}
