package extractor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"docsummary/internal/domain"
)

const (
	defaultTesseractBinary = "tesseract"
	defaultOCRTimeout      = 2 * time.Minute
	defaultOCRLanguage     = "nor+eng"
)

// OCR recognises text in images by running the tesseract CLI.
type OCR struct {
	Binary   string
	Language string
	Timeout  time.Duration
}

func NewOCR(binary string) *OCR {
	if strings.TrimSpace(binary) == "" {
		binary = defaultTesseractBinary
	}

	return &OCR{
		Binary:   binary,
		Language: defaultOCRLanguage,
		Timeout:  defaultOCRTimeout,
	}
}

func (o *OCR) Extract(ctx context.Context, file domain.UploadedFile) (string, error) {
	raw, err := readAll(file.Content)
	if err != nil {
		return "", err
	}

	input, err := os.CreateTemp("", "ocr-input-*"+strings.ToLower(filepath.Ext(file.Name)))
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}
	defer os.Remove(input.Name())

	if _, err = input.Write(raw); err != nil {
		_ = input.Close()
		return "", fmt.Errorf("write temp image: %w", err)
	}
	if err = input.Close(); err != nil {
		return "", fmt.Errorf("close temp image: %w", err)
	}

	timeout := o.Timeout
	if timeout <= 0 {
		timeout = defaultOCRTimeout
	}

	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{input.Name(), "stdout"}
	if o.Language != "" {
		args = append(args, "-l", o.Language)
	}

	cmd := exec.CommandContext(cmdCtx, o.Binary, args...) //nolint:gosec // binary comes from config
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err = cmd.Run(); err != nil {
		return "", fmt.Errorf("run %s: %w - %s", o.Binary, err, strings.TrimSpace(stderr.String()))
	}

	return strings.ReplaceAll(stdout.String(), "\r\n", "\n"), nil
}
