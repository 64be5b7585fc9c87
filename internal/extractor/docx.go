package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"docsummary/internal/domain"
)

const docxBodyEntry = "word/document.xml"

// DOCX extracts paragraph text from the main document part of a Word file.
type DOCX struct{}

func (DOCX) Extract(ctx context.Context, file domain.UploadedFile) (string, error) {
	raw, err := readAll(file.Content)
	if err != nil {
		return "", err
	}

	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != docxBodyEntry {
			continue
		}

		rc, openErr := f.Open()
		if openErr != nil {
			return "", fmt.Errorf("open %s: %w", docxBodyEntry, openErr)
		}

		text, readErr := docxParagraphs(ctx, rc)
		closeErr := rc.Close()

		return text, errors.Join(readErr, closeErr)
	}

	return "", fmt.Errorf("%s is missing", docxBodyEntry)
}

func docxParagraphs(ctx context.Context, r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var sb strings.Builder
	var paragraph strings.Builder
	inText := false

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", fmt.Errorf("decode xml: %w", err)
		}

		switch v := tok.(type) {
		case xml.CharData:
			if inText {
				paragraph.Write(v)
			}
		case xml.StartElement:
			switch v.Name.Local {
			case "t":
				inText = true
			case "tab":
				paragraph.WriteByte('\t')
			case "br":
				paragraph.WriteByte('\n')
			}
		case xml.EndElement:
			if v.Name.Local == "t" {
				inText = false
				continue
			}
			if v.Name.Local != "p" {
				continue
			}

			line := strings.TrimSpace(paragraph.String())
			paragraph.Reset()
			if line == "" {
				continue
			}

			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(line)
		}
	}

	return sb.String(), nil
}
