// Package ocr implements the OCR subsystem (§4.3): a two-tier detector
// fallback (document-text detector, then general text detector),
// confidence-threshold warnings, and conversion of detected text blocks
// into model.DocumentSection values via position-sorted grouping, built
// on an option.WithAPIKey-authenticated client against the Vision API
// shipped in the google.golang.org/api module.
package ocr

import "context"

// Block is one OCR-detected text region with its bounding geometry.
type Block struct {
	Text       string
	Confidence float64
	Top        float64
	Left       float64
}

// DetectionResult is what a single detector tier returns.
type DetectionResult struct {
	Blocks     []Block
	Confidence float64 // overall page confidence
}

// Detector is satisfied by each OCR tier: a full-document text detector
// (better for dense paragraphs) and a general sparse-text detector
// (better for slides/images).
type Detector interface {
	Detect(ctx context.Context, image []byte) (DetectionResult, error)
}
