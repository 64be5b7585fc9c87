package extractor

import (
	"context"
	"fmt"
	"unicode/utf8"

	"docsummary/internal/domain"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Text decodes plain text files. Content is returned verbatim apart from a
// leading byte order mark.
type Text struct{}

func (Text) Extract(ctx context.Context, file domain.UploadedFile) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	raw, err := readAll(file.Content)
	if err != nil {
		return "", err
	}

	return decodeText(raw)
}

func decodeText(raw []byte) (string, error) {
	if !hasUTF16BOM(raw) && !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: content is not valid UTF-8", ErrRead)
	}

	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return "", fmt.Errorf("%w: decode: %w", ErrRead, err)
	}

	return string(decoded), nil
}

func hasUTF16BOM(b []byte) bool {
	if len(b) < 2 {
		return false
	}

	return (b[0] == 0xFF && b[1] == 0xFE) || (b[0] == 0xFE && b[1] == 0xFF)
}
