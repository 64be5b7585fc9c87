package domain

import "io"

// MaxFileSize is the largest upload accepted, in bytes.
const MaxFileSize = 10 * 1024 * 1024

type FileKind string

const (
	FileKindText  FileKind = "text"
	FileKindPDF   FileKind = "pdf"
	FileKindDOCX  FileKind = "docx"
	FileKindImage FileKind = "image"
)

// UploadedFile is a file as received from the user. MIMEType is whatever the
// sender declared and may be empty.
type UploadedFile struct {
	Name     string
	MIMEType string
	Size     int64
	Content  io.Reader
}

type ProcessedFile struct {
	Name     string `json:"name"`
	MIMEType string `json:"type"`
	Size     int64  `json:"size"`
	Content  string `json:"content"`
}

type SummaryResult struct {
	Summary        string   `json:"summary"        yaml:"summary"`
	KeyPoints      []string `json:"keyPoints"      yaml:"keyPoints"`
	WordCount      int      `json:"wordCount"      yaml:"wordCount"`
	OriginalLength int      `json:"originalLength" yaml:"originalLength"`
}

// SummaryRequest is the payload accepted by the summarization endpoint.
type SummaryRequest struct {
	Content  string `json:"content"`
	FileName string `json:"fileName,omitempty"`
}
