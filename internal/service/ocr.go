package service

import (
	"fmt"
	"strings"

	"contract-analyzer/internal/domain"

	"github.com/otiai10/gosseract/v2"
)

// TesseractRecognizer performs OCR through the Tesseract engine (gosseract).
// A gosseract client is not safe for concurrent use, so a fresh client is
// created per Recognize call; page workers can then run in parallel.
type TesseractRecognizer struct {
	tessdataPrefix string
	clientFactory  func() *gosseract.Client
	logger         domain.Logger
}

// NewTesseractRecognizer creates a Tesseract-backed page recognizer. The
// tessdata prefix is injected here rather than read from the environment in
// the hot path, so the recognizer stays testable with fakes.
func NewTesseractRecognizer(tessdataPrefix string, logger domain.Logger) *TesseractRecognizer {
	return &TesseractRecognizer{
		tessdataPrefix: tessdataPrefix,
		clientFactory:  gosseract.NewClient,
		logger:         logger,
	}
}

// Recognize runs OCR over one rendered page image and returns the recognized
// text trimmed of leading and trailing whitespace.
func (r *TesseractRecognizer) Recognize(image []byte, opts domain.ExtractionOptions) (string, error) {
	client := r.clientFactory()
	defer client.Close()

	if r.tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(r.tessdataPrefix); err != nil {
			return "", fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(strings.Split(opts.Language, "+")...); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(opts.SegmentationMode)); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetVariable(gosseract.SettableVariable("tessedit_ocr_engine_mode"), fmt.Sprint(opts.EngineMode)); err != nil {
		return "", fmt.Errorf("failed to set engine mode: %w", err)
	}
	if err := client.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(opts.DPI)); err != nil {
		return "", fmt.Errorf("failed to set dpi: %w", err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognition failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}
