// Package model defines the data model shared by every pipeline stage
// (§3): documents, extracted entities, metrics, the risk register,
// weightings, scores, and the terminal DealMemo artifact.
package model

import "time"

// ProcessingStatus is a DocumentMetadata lifecycle state.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusInProgress ProcessingStatus = "in_progress"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// DocumentMetadata is immutable after creation.
type DocumentMetadata struct {
	Filename         string
	ByteSize         int64
	MimeType         string
	UploadedAt       time.Time
	ProcessingStatus ProcessingStatus
}

// SourceType is the detected/declared binary format of a document.
type SourceType string

const (
	SourcePDF  SourceType = "pdf"
	SourceDOCX SourceType = "docx"
	SourcePPTX SourceType = "pptx"
	SourceText SourceType = "text"
)

// ExtractionMethod records how a document's text was ultimately produced.
type ExtractionMethod string

const (
	ExtractionText   ExtractionMethod = "text"
	ExtractionOCR    ExtractionMethod = "ocr"
	ExtractionHybrid ExtractionMethod = "hybrid"
)

// DocumentSection is produced only by parsers/OCR, never hand-authored.
type DocumentSection struct {
	Title          string
	Content        string
	PageNumber     *int
	SourceDocument string
	Confidence     float64
}

// Quality is the three-axis parse-quality score, each in [0,1].
type Quality struct {
	TextClarity           float64
	StructurePreservation float64
	Completeness          float64
}

// ProcessedDocument is created once by a parser and never mutated
// afterward.
type ProcessedDocument struct {
	ID                  string
	SourceType          SourceType
	ExtractedText       string
	Sections            []DocumentSection
	Metadata            DocumentMetadata
	WordCount           int
	Language            string
	Encoding            string
	ExtractionMethod    ExtractionMethod
	Quality             Quality
	Warnings            []string
	ProcessingTimestamp time.Time
	ProcessingDuration  time.Duration
}
