package artwork

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"capforge/pkg/confidence"
)

// supportedColors is the fixed color vocabulary the storefront can
// actually produce. Unrecognized colors are logged, not rejected; the
// sales team resolves them with the customer.
var supportedColors = map[string]bool{
	"black": true, "white": true, "navy": true, "royal": true,
	"red": true, "blue": true, "green": true, "grey": true, "gray": true,
	"charcoal": true, "khaki": true, "orange": true, "yellow": true,
	"purple": true, "pink": true, "brown": true, "maroon": true,
	"gold": true, "olive": true, "cream": true, "stone": true,
}

// Status thresholds over the model's reported confidence.
const (
	successConfidence = 0.8
	partialConfidence = 0.5
	richElementCount  = 3
)

// Analyzer validates and grades model extractions.
type Analyzer struct {
	extractor Extractor
	log       zerolog.Logger
}

func NewAnalyzer(extractor Extractor, log zerolog.Logger) *Analyzer {
	return &Analyzer{extractor: extractor, log: log}
}

// AnalyzeImage runs the artwork pipeline on an image file.
func (a *Analyzer) AnalyzeImage(ctx context.Context, imagePath string) (*Result, error) {
	analysis, err := a.extractor.ExtractFromImage(ctx, imagePath)
	if err != nil {
		return nil, err
	}
	return a.postProcess(analysis), nil
}

// AnalyzePDF extracts the PDF's text and runs the pipeline over it.
func (a *Analyzer) AnalyzePDF(ctx context.Context, pdfPath string) (*Result, error) {
	text, err := ExtractPDFText(pdfPath)
	if err != nil {
		return nil, err
	}
	analysis, err := a.extractor.ExtractFromText(ctx, text)
	if err != nil {
		return nil, err
	}
	return a.postProcess(analysis), nil
}

// postProcess validates colors, normalizes bill shapes, and derives the
// processing status from confidence and element counts.
func (a *Analyzer) postProcess(analysis *Analysis) *Result {
	result := &Result{Analysis: *analysis}
	result.Analysis.Confidence = confidence.Clamp(analysis.Confidence)

	for _, color := range result.Analysis.CapColors {
		if !supportedColors[strings.ToLower(strings.TrimSpace(color))] {
			a.log.Warn().Str("color", color).Msg("artwork color outside supported vocabulary")
			result.Warnings = append(result.Warnings, "unsupported color: "+color)
		}
	}

	result.Analysis.BillShape = NormalizeBillShape(result.Analysis.BillShape)
	for i := range result.Analysis.Assets {
		result.Analysis.Assets[i].Position = strings.Join(strings.Fields(result.Analysis.Assets[i].Position), " ")
	}

	result.Status = deriveStatus(result.Analysis.Confidence, elementCount(&result.Analysis))
	return result
}

func elementCount(a *Analysis) int {
	return len(a.Assets) + len(a.Accessories)
}

// deriveStatus grades the run. Detecting nothing is an error no matter
// how confident the model claims to be; rich detections escalate a
// middling confidence to success.
func deriveStatus(score float64, elements int) Status {
	switch {
	case elements == 0:
		return StatusError
	case confidence.AboveThreshold(score, successConfidence):
		return StatusSuccess
	case confidence.AboveThreshold(score, partialConfidence) && elements >= richElementCount:
		return StatusSuccess
	case confidence.AboveThreshold(score, partialConfidence):
		return StatusPartial
	default:
		return StatusPartial
	}
}

// NormalizeBillShape folds model synonyms into exactly one of Flat,
// Slight Curved, or Curved.
func NormalizeBillShape(shape string) string {
	s := strings.ToLower(strings.Join(strings.Fields(shape), " "))
	switch {
	case strings.Contains(s, "slight"):
		return "Slight Curved"
	case strings.Contains(s, "flat") || strings.Contains(s, "snapback"):
		return "Flat"
	default:
		return "Curved"
	}
}
