// Package upload validates uploaded files and routes them to the matching
// content extractor.
package upload

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"docsummary/internal/domain"
	"docsummary/internal/extractor"
)

const (
	mimeText  = "text/plain"
	mimePDF   = "application/pdf"
	mimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeImage = "image/"

	unknownMIMEType = "unknown"
)

var (
	ErrInvalidFileType = errors.New("invalid file type, supported formats: PDF, DOCX, TXT, JPG, PNG")
	ErrFileTooLarge    = errors.New("file is too large, maximum size: 10MB")
	ErrUnknownFileType = errors.New("unknown file type")
	ErrEmptyContent    = errors.New("could not extract any content from the file")
)

var (
	allowedMIMETypes = []string{
		mimePDF,
		mimeDOCX,
		mimeText,
		"image/jpeg",
		"image/jpg",
		"image/png",
	}

	allowedExtensions = []string{".pdf", ".docx", ".txt", ".jpg", ".jpeg", ".png"}
	imageExtensions   = []string{".jpg", ".jpeg", ".png"}
)

// AllowedExtensions lists accepted file extensions.
func AllowedExtensions() []string {
	return slices.Clone(allowedExtensions)
}

// AllowedMIMETypes lists accepted MIME types. Any other image/* type is
// accepted as well.
func AllowedMIMETypes() []string {
	return slices.Clone(allowedMIMETypes)
}

// Validate checks the declared type and size of a file and reports which
// extraction path it belongs to.
func Validate(file domain.UploadedFile) (domain.FileKind, error) {
	ext := strings.ToLower(filepath.Ext(file.Name))
	mimeType := normalizeMIMEType(file.MIMEType)

	validType := slices.Contains(allowedMIMETypes, mimeType) ||
		slices.Contains(allowedExtensions, ext) ||
		isImage(mimeType, ext)
	if !validType {
		return "", ErrInvalidFileType
	}

	if file.Size > domain.MaxFileSize {
		return "", ErrFileTooLarge
	}

	return dispatch(mimeType, ext)
}

func dispatch(mimeType string, ext string) (domain.FileKind, error) {
	switch {
	case mimeType == mimeText || ext == ".txt":
		return domain.FileKindText, nil
	case mimeType == mimePDF || ext == ".pdf":
		return domain.FileKindPDF, nil
	case mimeType == mimeDOCX || ext == ".docx":
		return domain.FileKindDOCX, nil
	case isImage(mimeType, ext):
		return domain.FileKindImage, nil
	default:
		return "", ErrUnknownFileType
	}
}

// Process validates the file, runs exactly one extractor for it and returns
// the extracted content.
func Process(
	ctx context.Context,
	file domain.UploadedFile,
	extractors extractor.Set,
) (domain.ProcessedFile, domain.FileKind, error) {
	kind, err := Validate(file)
	if err != nil {
		return domain.ProcessedFile{}, "", err
	}

	e, err := extractors.For(kind)
	if err != nil {
		return domain.ProcessedFile{}, kind, fmt.Errorf("select extractor: %w", err)
	}

	content, err := e.Extract(ctx, file)
	if err != nil {
		return domain.ProcessedFile{}, kind, fmt.Errorf("extract %s content: %w", kind, err)
	}

	if strings.TrimSpace(content) == "" {
		return domain.ProcessedFile{}, kind, ErrEmptyContent
	}

	mimeType := file.MIMEType
	if mimeType == "" {
		mimeType = unknownMIMEType
	}

	return domain.ProcessedFile{
		Name:     file.Name,
		MIMEType: mimeType,
		Size:     file.Size,
		Content:  content,
	}, kind, nil
}

func isImage(mimeType string, ext string) bool {
	return strings.HasPrefix(mimeType, mimeImage) || slices.Contains(imageExtensions, ext)
}

func normalizeMIMEType(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	return mimeType
}
