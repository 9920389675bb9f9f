package domain

import "fmt"

// Tesseract engine modes (tessedit_ocr_engine_mode).
const (
	EngineModeLegacy     = 0
	EngineModeLSTM       = 1
	EngineModeLegacyLSTM = 2
	EngineModeDefault    = 3
)

// PSMSingleBlock assumes a single uniform block of text, the right default
// for full contract pages.
const PSMSingleBlock = 6

// ExtractionOptions carries the per-call recognition configuration. It is a
// value object: supplied once per extraction call, never mutated mid-call.
// Two concurrent calls may use different settings without interference.
type ExtractionOptions struct {
	// Language selects the trained Tesseract model(s). Composite values such
	// as "eng+ind" are passed through for multi-language documents.
	Language string
	// DPI used when rasterizing pages for OCR. Lower is faster, higher is
	// more accurate; this is caller policy, not a pipeline decision.
	DPI int
	// EngineMode selects the recognition algorithm variant (OEM).
	EngineMode int
	// SegmentationMode selects the page-layout assumption (PSM).
	SegmentationMode int
	// PageLimit bounds OCR to the first N pages. Zero processes every page.
	PageLimit int
	// Parallel fans page work out across a bounded worker pool.
	Parallel bool
}

// DefaultExtractionOptions returns the service defaults: English, a fast
// 100 DPI render, LSTM-only recognition, single-block segmentation, no page
// limit, parallel page processing.
func DefaultExtractionOptions() ExtractionOptions {
	return ExtractionOptions{
		Language:         "eng",
		DPI:              100,
		EngineMode:       EngineModeLSTM,
		SegmentationMode: PSMSingleBlock,
		PageLimit:        0,
		Parallel:         true,
	}
}

// Validate checks that the options describe a recognizable configuration.
func (o ExtractionOptions) Validate() error {
	if o.Language == "" {
		return &ValidationError{Field: "language", Message: "language is required"}
	}
	if o.DPI <= 0 {
		return &ValidationError{Field: "dpi", Message: fmt.Sprintf("dpi must be positive, got %d", o.DPI)}
	}
	if o.EngineMode < EngineModeLegacy || o.EngineMode > EngineModeDefault {
		return &ValidationError{Field: "oem", Message: fmt.Sprintf("engine mode must be 0-3, got %d", o.EngineMode)}
	}
	if o.SegmentationMode < 0 || o.SegmentationMode > 13 {
		return &ValidationError{Field: "psm", Message: fmt.Sprintf("segmentation mode must be 0-13, got %d", o.SegmentationMode)}
	}
	if o.PageLimit < 0 {
		return &ValidationError{Field: "max_pages", Message: fmt.Sprintf("page limit must not be negative, got %d", o.PageLimit)}
	}
	return nil
}
