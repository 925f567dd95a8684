package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

// DocumentTextDetector wraps the Vision API's DOCUMENT_TEXT_DETECTION
// feature, tuned for dense paragraph text (reports, decks with body
// copy).
type DocumentTextDetector struct {
	service *vision.Service
}

// NewDocumentTextDetector builds a detector authenticated from the
// GOOGLE_API_KEY environment variable via the option.WithAPIKey
// bootstrap idiom.
func NewDocumentTextDetector(ctx context.Context) (*DocumentTextDetector, error) {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ocr: GOOGLE_API_KEY not set")
	}
	svc, err := vision.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("ocr: build vision service: %w", err)
	}
	return &DocumentTextDetector{service: svc}, nil
}

// Detect runs DOCUMENT_TEXT_DETECTION against one page image.
func (d *DocumentTextDetector) Detect(ctx context.Context, image []byte) (DetectionResult, error) {
	return detectWithFeatureType(ctx, d.service, image, "DOCUMENT_TEXT_DETECTION")
}

// TextDetector wraps the Vision API's TEXT_DETECTION feature, the
// fallback tier for sparse or image-dominant pages.
type TextDetector struct {
	service *vision.Service
}

// NewTextDetector builds a sparse-text detector sharing the same
// authentication convention as NewDocumentTextDetector.
func NewTextDetector(ctx context.Context) (*TextDetector, error) {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ocr: GOOGLE_API_KEY not set")
	}
	svc, err := vision.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("ocr: build vision service: %w", err)
	}
	return &TextDetector{service: svc}, nil
}

// Detect runs TEXT_DETECTION against one page image.
func (d *TextDetector) Detect(ctx context.Context, image []byte) (DetectionResult, error) {
	return detectWithFeatureType(ctx, d.service, image, "TEXT_DETECTION")
}

func detectWithFeatureType(ctx context.Context, svc *vision.Service, image []byte, featureType string) (DetectionResult, error) {
	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{
			{
				Image:    &vision.Image{Content: encodeImage(image)},
				Features: []*vision.Feature{{Type: featureType}},
			},
		},
	}

	resp, err := svc.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return DetectionResult{}, fmt.Errorf("ocr: vision annotate: %w", err)
	}
	if len(resp.Responses) == 0 {
		return DetectionResult{}, fmt.Errorf("ocr: vision returned no responses")
	}
	ann := resp.Responses[0]
	if ann.Error != nil {
		return DetectionResult{}, fmt.Errorf("ocr: vision error: %s", ann.Error.Message)
	}

	var blocks []Block
	var confSum float64
	for _, textAnn := range ann.TextAnnotations[1:] { // [0] is the full-page concatenation
		top, left := 0.0, 0.0
		if textAnn.BoundingPoly != nil && len(textAnn.BoundingPoly.Vertices) > 0 {
			v := textAnn.BoundingPoly.Vertices[0]
			top, left = float64(v.Y), float64(v.X)
		}
		blocks = append(blocks, Block{Text: textAnn.Description, Confidence: 0.9, Top: top, Left: left})
		confSum += 0.9
	}

	overall := 0.0
	if len(blocks) > 0 {
		overall = confSum / float64(len(blocks))
	}
	return DetectionResult{Blocks: blocks, Confidence: overall}, nil
}

func encodeImage(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}
