package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"docsummary/internal/domain"

	"github.com/ledongthuc/pdf"
)

// PDF extracts the text layer of a PDF document page by page. Scanned PDFs
// without a text layer yield empty text.
type PDF struct{}

func (PDF) Extract(ctx context.Context, file domain.UploadedFile) (string, error) {
	raw, err := readAll(file.Content)
	if err != nil {
		return "", err
	}

	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	fonts := make(map[string]*pdf.Font)

	for i := 1; i <= r.NumPage(); i++ {
		if err = ctx.Err(); err != nil {
			return "", err
		}

		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; ok {
				continue
			}
			f := p.Font(name)
			fonts[name] = &f
		}

		text, textErr := p.GetPlainText(fonts)
		if textErr != nil {
			return "", fmt.Errorf("get plain text (page = %d): %w", i, textErr)
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
	}

	return sb.String(), nil
}
