package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"docsummary/internal/client"
	"docsummary/internal/config"
	"docsummary/internal/domain"
	"docsummary/internal/markdown"
	"docsummary/internal/pipeline"
	"docsummary/internal/upload"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON     = "json"
	formatYAML     = "yaml"
	formatMarkdown = "markdown"
)

func summarizeCommand() *cli.Command {
	return &cli.Command{
		Name:      "summarize",
		Usage:     "extract a file locally and summarize it through the API",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "endpoint",
				Usage: "summarize endpoint URL (default: SUMMARIZE_URL)",
			},
			&cli.StringFlag{
				Name:  "type",
				Usage: "MIME type of the file (default: guessed from the extension)",
			},
			&cli.StringFlag{
				Name:  "extraction-mode",
				Usage: "simulated or native (default: EXTRACTION_MODE)",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: formatJSON,
				Usage: "output format: json, yaml or markdown",
			},
		},
		Action: summarizeAction,
	}
}

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "print the text extracted from a file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "type",
				Usage: "MIME type of the file (default: guessed from the extension)",
			},
			&cli.StringFlag{
				Name:  "extraction-mode",
				Usage: "simulated or native (default: EXTRACTION_MODE)",
			},
		},
		Action: extractAction,
	}
}

func formatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "formats",
		Usage: "list accepted file types",
		Action: func(c *cli.Context) error {
			return writeFormats(c.App.Writer)
		},
	}
}

func summarizeAction(c *cli.Context) error {
	log := newLogger(c, os.Stderr)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	format := strings.ToLower(c.String("format"))
	switch format {
	case formatJSON, formatYAML, formatMarkdown:
	default:
		return cli.Exit(fmt.Sprintf("unsupported format: %q", format), 2)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	path, err := fileArg(c)
	if err != nil {
		return err
	}

	extractors, err := newExtractorSet(extractionMode(c, cfg), cfg.TesseractPath)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	endpoint := cfg.SummarizeURL
	if c.IsSet("endpoint") {
		endpoint = c.String("endpoint")
	}

	cl, err := client.New(endpoint, &http.Client{Timeout: cfg.ClientTimeout}, log)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	file, closeFile, err := openUpload(path, c.String("type"))
	if err != nil {
		return err
	}
	defer closeFile(log)

	p := pipeline.New(extractors, cl, func(percent int) {
		log.InfoContext(ctx, "Progress is updated",
			"fileName", file.Name,
			"percent", percent)
	}, log)

	result, err := p.Run(ctx, file)
	if err != nil {
		log.ErrorContext(ctx, "Failed to summarize file",
			"error", err,
			"fileName", file.Name,
			"endpoint", endpoint)

		return err
	}

	return writeResult(c.App.Writer, file.Name, result, format)
}

func extractAction(c *cli.Context) error {
	log := newLogger(c, os.Stderr)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	path, err := fileArg(c)
	if err != nil {
		return err
	}

	extractors, err := newExtractorSet(extractionMode(c, cfg), cfg.TesseractPath)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	file, closeFile, err := openUpload(path, c.String("type"))
	if err != nil {
		return err
	}
	defer closeFile(log)

	processed, kind, err := upload.Process(ctx, file, extractors)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	log.InfoContext(ctx, "File is extracted",
		"fileName", processed.Name,
		"kind", kind,
		"contentLength", len(processed.Content))

	_, err = fmt.Fprintln(c.App.Writer, processed.Content)

	return err
}

func fileArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", cli.Exit("expected exactly one file argument", 2)
	}

	return c.Args().First(), nil
}

func extractionMode(c *cli.Context, cfg config.Config) string {
	if c.IsSet("extraction-mode") {
		return c.String("extraction-mode")
	}

	return cfg.ExtractionMode
}

// openUpload opens path as an upload. When mimeType is empty it is guessed
// from the file extension and may stay empty.
func openUpload(path string, mimeType string) (domain.UploadedFile, func(*slog.Logger), error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.UploadedFile{}, nil, fmt.Errorf("open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		return domain.UploadedFile{}, nil, errors.Join(fmt.Errorf("stat file: %w", err), f.Close())
	}

	if info.IsDir() {
		return domain.UploadedFile{}, nil, errors.Join(fmt.Errorf("%s is a directory", path), f.Close())
	}

	if mimeType == "" {
		mimeType = mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	}

	closeFile := func(log *slog.Logger) {
		if err := f.Close(); err != nil {
			log.Error("Failed to close file",
				"error", err,
				"path", path)
		}
	}

	return domain.UploadedFile{
		Name:     filepath.Base(path),
		MIMEType: mimeType,
		Size:     info.Size(),
		Content:  f,
	}, closeFile, nil
}

func writeResult(w io.Writer, fileName string, result *domain.SummaryResult, format string) error {
	var (
		out []byte
		err error
	)

	switch format {
	case formatMarkdown:
		out = []byte(markdown.Report(fileName, *result))
	case formatYAML:
		out, err = yaml.Marshal(result)
	default:
		out, err = json.MarshalIndent(result, "", "  ")
		out = append(out, '\n')
	}
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	_, err = w.Write(out)

	return err
}

func writeFormats(w io.Writer) error {
	_, err := fmt.Fprintf(w, "extensions: %s\nmime types: %s, image/*\nmax size: %d bytes\n",
		strings.Join(upload.AllowedExtensions(), ", "),
		strings.Join(upload.AllowedMIMETypes(), ", "),
		domain.MaxFileSize)

	return err
}
