package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"docsummary/internal/domain"
	"docsummary/internal/extractor"
	"docsummary/internal/journal"
	"docsummary/internal/summarizer"
	"docsummary/internal/upload"

	"github.com/gin-gonic/gin"
)

const (
	maxRequestBodyBytes = 4 * domain.MaxFileSize
	maxUploadBodyBytes  = domain.MaxFileSize + 1<<20

	msgMethodNotAllowed = "Method Not Allowed"
	msgMissingBody      = "Missing body"
	msgInvalidBody      = "Invalid body"
	msgMissingContent   = "Missing content"
	msgBodyTooLarge     = "Request body too large"
	msgUpstreamError    = "AI error"
)

// SummaryService produces a summary for extracted text.
type SummaryService interface {
	Summarize(ctx context.Context, input summarizer.Input) (summarizer.Outcome, error)
}

// Journal records request metadata. It is optional.
type Journal interface {
	Record(ctx context.Context, e journal.Entry) error
	Stats(ctx context.Context) (*journal.Stats, error)
}

// LanguageDetector guesses the language of a text. It is optional.
type LanguageDetector interface {
	Detect(text string) string
}

type Handler struct {
	summarizer SummaryService
	extractors extractor.Set
	journal    Journal
	detector   LanguageDetector
	log        *slog.Logger
}

func NewHandler(
	s SummaryService,
	extractors extractor.Set,
	j Journal,
	detector LanguageDetector,
	log *slog.Logger,
) *Handler {
	return &Handler{
		summarizer: s,
		extractors: extractors,
		journal:    j,
		detector:   detector,
		log:        log,
	}
}

type uploadResponse struct {
	File   uploadedFileResponse `json:"file"`
	Result domain.SummaryResult `json:"result"`
}

type uploadedFileResponse struct {
	Name string          `json:"name"`
	Type string          `json:"type"`
	Size int64           `json:"size"`
	Kind domain.FileKind `json:"kind"`
}

// Summarize serves the summarization endpoint. The router puts WithMethod in
// front of it so only POST requests get here.
func (h *Handler) Summarize(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.reject(c, start, "", http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}

		h.log.WarnContext(ctx, "Failed to read request body",
			"error", err)
		h.reject(c, start, "", http.StatusBadRequest, msgMissingBody)
		return
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		h.reject(c, start, "", http.StatusBadRequest, msgMissingBody)
		return
	}

	var req domain.SummaryRequest
	if err = json.Unmarshal(body, &req); err != nil {
		h.reject(c, start, "", http.StatusBadRequest, msgInvalidBody)
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		h.reject(c, start, req.FileName, http.StatusBadRequest, msgMissingContent)
		return
	}

	result, ok := h.summarize(c, start, req.Content, req.FileName)
	if !ok {
		c.String(http.StatusInternalServerError, msgUpstreamError)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Upload accepts a multipart file, extracts its text and summarises it in one
// request.
func (h *Handler) Upload(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBodyBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.rejectJSON(c, start, "", http.StatusRequestEntityTooLarge, upload.ErrFileTooLarge.Error())
			return
		}

		h.rejectJSON(c, start, "", http.StatusBadRequest, "missing file")
		return
	}
	defer func() {
		if err = file.Close(); err != nil {
			h.log.ErrorContext(ctx, "Failed to close uploaded file",
				"error", err,
				"fileName", header.Filename)
		}
	}()

	uploaded := domain.UploadedFile{
		Name:     header.Filename,
		MIMEType: header.Header.Get("Content-Type"),
		Size:     header.Size,
		Content:  file,
	}

	processed, kind, err := upload.Process(ctx, uploaded, h.extractors)
	if err != nil {
		status := uploadErrorStatus(err)
		h.log.WarnContext(ctx, "Failed to process upload",
			"error", err,
			"fileName", uploaded.Name,
			"mimeType", uploaded.MIMEType,
			"size", uploaded.Size,
			"kind", kind,
			"statusCode", status)

		message := err.Error()
		if status == http.StatusInternalServerError {
			message = "file processing failed"
		}
		h.rejectJSON(c, start, uploaded.Name, status, message)
		return
	}

	result, ok := h.summarize(c, start, processed.Content, processed.Name)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": msgUpstreamError,
		})
		return
	}

	c.JSON(http.StatusOK, uploadResponse{
		File: uploadedFileResponse{
			Name: processed.Name,
			Type: processed.MIMEType,
			Size: processed.Size,
			Kind: kind,
		},
		Result: result,
	})
}

func (h *Handler) Stats(c *gin.Context) {
	if h.journal == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "journal is disabled",
		})
		return
	}

	stats, err := h.journal.Stats(c.Request.Context())
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "Failed to read journal stats",
			"error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal error",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) summarize(
	c *gin.Context,
	start time.Time,
	content string,
	fileName string,
) (domain.SummaryResult, bool) {
	ctx := c.Request.Context()

	outcome, err := h.summarizer.Summarize(ctx, summarizer.Input{
		Content:  content,
		FileName: fileName,
	})

	entry := journal.Entry{
		RequestID:      requestID(c),
		FileName:       fileName,
		OriginalLength: utf8.RuneCountInString(content),
		WordCount:      len(strings.Fields(content)),
		Language:       h.detectLanguage(content),
	}

	if err != nil {
		h.log.ErrorContext(ctx, "Failed to summarize content",
			"error", err,
			"fileName", fileName,
			"contentLength", entry.OriginalLength)

		entry.StatusCode = http.StatusInternalServerError
		h.record(ctx, start, entry)

		return domain.SummaryResult{}, false
	}

	entry.StatusCode = http.StatusOK
	entry.Fallback = outcome.Fallback
	h.record(ctx, start, entry)

	h.log.InfoContext(ctx, "Content is summarized",
		"fileName", fileName,
		"contentLength", entry.OriginalLength,
		"language", entry.Language,
		"fallback", outcome.Fallback,
		"keyPointCount", len(outcome.Result.KeyPoints))

	return outcome.Result, true
}

func (h *Handler) reject(c *gin.Context, start time.Time, fileName string, status int, message string) {
	h.record(c.Request.Context(), start, journal.Entry{
		RequestID:  requestID(c),
		FileName:   fileName,
		StatusCode: status,
	})
	c.String(status, message)
}

func (h *Handler) rejectJSON(c *gin.Context, start time.Time, fileName string, status int, message string) {
	h.record(c.Request.Context(), start, journal.Entry{
		RequestID:  requestID(c),
		FileName:   fileName,
		StatusCode: status,
	})
	c.JSON(status, gin.H{
		"error": message,
	})
}

func (h *Handler) record(ctx context.Context, start time.Time, entry journal.Entry) {
	if h.journal == nil {
		return
	}

	entry.Duration = time.Since(start)

	if err := h.journal.Record(ctx, entry); err != nil {
		h.log.ErrorContext(ctx, "Failed to record journal entry",
			"error", err,
			"requestID", entry.RequestID,
			"statusCode", entry.StatusCode)
	}
}

// detectLanguage only runs when the result is journaled.
func (h *Handler) detectLanguage(content string) string {
	if h.journal == nil || h.detector == nil {
		return ""
	}

	return h.detector.Detect(content)
}

func uploadErrorStatus(err error) int {
	switch {
	case errors.Is(err, upload.ErrInvalidFileType), errors.Is(err, upload.ErrUnknownFileType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, upload.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, upload.ErrEmptyContent), errors.Is(err, extractor.ErrRead):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
