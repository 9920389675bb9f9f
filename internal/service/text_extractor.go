package service

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"contract-analyzer/internal/domain"

	"golang.org/x/sync/errgroup"
)

// PDFTextExtractor extracts plain text from PDF documents of unknown
// provenance. Digitally produced PDFs are served from their native text
// layer; scanned PDFs fall back to page-level OCR. Page failures during the
// OCR phase are absorbed so a single bad page never sinks the document.
type PDFTextExtractor struct {
	opener     domain.PDFOpener
	recognizer domain.PageRecognizer
	workers    int
	logger     domain.Logger
}

// NewPDFTextExtractor creates the extraction pipeline. The OCR worker pool
// is sized to the available CPUs: the bottleneck is native rendering and
// recognition work, not I/O wait.
func NewPDFTextExtractor(opener domain.PDFOpener, recognizer domain.PageRecognizer, logger domain.Logger) *PDFTextExtractor {
	return &PDFTextExtractor{
		opener:     opener,
		recognizer: recognizer,
		workers:    runtime.NumCPU(),
		logger:     logger,
	}
}

// pageSeparator joins per-page text in the final output.
const pageSeparator = "\n\n"

// Extract returns the text of the document, trying the native text layer
// first and falling back to per-page OCR.
//
// An empty result is a valid outcome: a blank or purely graphical document
// yields "" with a nil error. The only fatal condition is a byte stream that
// cannot be opened as a document at all during the OCR phase, reported as
// domain.ErrDocumentOpen.
func (e *PDFTextExtractor) Extract(ctx context.Context, pdf []byte, opts domain.ExtractionOptions) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	if text := e.extractDirect(pdf); text != "" {
		e.logger.Debug("Direct text layer found, skipping OCR", "chars", len(text))
		return text, nil
	}

	return e.extractOCR(ctx, pdf, opts)
}

// extractDirect reads the native text layer of every page. Any failure,
// including unparseable bytes, yields the empty "no text" signal: at this
// stage a corrupt document and a scanned one are indistinguishable, and both
// fall through to the OCR phase.
func (e *PDFTextExtractor) extractDirect(pdf []byte) string {
	doc, err := e.opener.Open(pdf)
	if err != nil {
		e.logger.Debug("Direct text extraction could not open document", "error", err)
		return ""
	}
	defer doc.Close()

	var parts []string
	for i := 0; i < doc.PageCount(); i++ {
		text, err := doc.PageText(i)
		if err != nil {
			e.logger.Warn("Failed to read text layer of page", "page", i+1, "error", err)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, pageSeparator))
}

// extractOCR renders and recognizes each selected page, then reassembles the
// results in page order regardless of completion order.
func (e *PDFTextExtractor) extractOCR(ctx context.Context, pdf []byte, opts domain.ExtractionOptions) (string, error) {
	doc, err := e.opener.Open(pdf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDocumentOpen, err)
	}
	defer doc.Close()

	pages := doc.PageCount()
	if opts.PageLimit > 0 && opts.PageLimit < pages {
		pages = opts.PageLimit
	}
	e.logger.Info("Running OCR fallback", "pages", pages, "dpi", opts.DPI, "language", opts.Language, "parallel", opts.Parallel)

	// Results are index-addressed so page order survives any completion
	// order. Each slot is written by exactly one worker.
	results := make([]string, pages)

	if opts.Parallel {
		sem := make(chan struct{}, e.workers)
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < pages; i++ {
			i := i
			g.Go(func() error {
				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-gctx.Done():
					return gctx.Err()
				}
				results[i] = e.processPage(doc, i, opts)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return "", err
		}
	} else {
		for i := 0; i < pages; i++ {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			results[i] = e.processPage(doc, i, opts)
		}
	}

	var parts []string
	for _, text := range results {
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, pageSeparator)), nil
}

// processPage is the per-page unit of work: render, then recognize. Failures
// are absorbed here and contribute an empty string; the page is skipped, not
// the document. No retry is attempted, that is caller policy.
func (e *PDFTextExtractor) processPage(doc domain.PDFDocument, index int, opts domain.ExtractionOptions) string {
	image, err := doc.RenderPage(index, opts.DPI)
	if err != nil {
		e.logger.Warn("Failed to render page, skipping", "page", index+1, "error", err)
		return ""
	}
	text, err := e.recognizer.Recognize(image, opts)
	if err != nil {
		e.logger.Warn("Failed to recognize page, skipping", "page", index+1, "error", err)
		return ""
	}
	return strings.TrimSpace(text)
}
