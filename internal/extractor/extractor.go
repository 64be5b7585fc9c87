package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"docsummary/internal/domain"
)

var ErrRead = errors.New("read file")

// ContentExtractor turns an uploaded file into plain text.
type ContentExtractor interface {
	Extract(ctx context.Context, file domain.UploadedFile) (string, error)
}

// Set holds exactly one extractor per supported file kind.
type Set map[domain.FileKind]ContentExtractor

// NewSimulatedSet returns the default set: real text decoding plus
// fixed-delay stand-ins for PDF, DOCX and image files.
func NewSimulatedSet() Set {
	return Set{
		domain.FileKindText:  Text{},
		domain.FileKindPDF:   NewSimulatedPDF(),
		domain.FileKindDOCX:  NewSimulatedDOCX(),
		domain.FileKindImage: NewSimulatedImage(),
	}
}

// NewNativeSet returns extractors that parse PDF and DOCX content and run
// OCR on images with the tesseract binary.
func NewNativeSet(tesseractPath string) Set {
	return Set{
		domain.FileKindText:  Text{},
		domain.FileKindPDF:   PDF{},
		domain.FileKindDOCX:  DOCX{},
		domain.FileKindImage: NewOCR(tesseractPath),
	}
}

func (s Set) For(kind domain.FileKind) (ContentExtractor, error) {
	e, ok := s[kind]
	if !ok || e == nil {
		return nil, fmt.Errorf("no extractor for %q", kind)
	}

	return e, nil
}

func readAll(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: content is missing", ErrRead)
	}

	b, err := io.ReadAll(io.LimitReader(r, domain.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	if len(b) > domain.MaxFileSize {
		return nil, fmt.Errorf("%w: content exceeds %d bytes", ErrRead, domain.MaxFileSize)
	}

	return b, nil
}
