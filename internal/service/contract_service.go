package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"contract-analyzer/internal/domain"
	apperrors "contract-analyzer/pkg/errors"

	"github.com/google/uuid"
)

// ContractService ties the extraction pipeline to storage, persistence and
// the language-model analyzer. Handlers resolve requests into a
// domain.FileSource and call one method per endpoint.
type ContractService struct {
	extractor domain.TextExtractor
	analyzer  domain.ContractAnalyzer
	storage   domain.ObjectStorage
	repo      domain.ContractRepository
	logger    domain.Logger
}

// NewContractService creates a new contract service instance.
func NewContractService(
	extractor domain.TextExtractor,
	analyzer domain.ContractAnalyzer,
	storage domain.ObjectStorage,
	repo domain.ContractRepository,
	logger domain.Logger,
) *ContractService {
	return &ContractService{
		extractor: extractor,
		analyzer:  analyzer,
		storage:   storage,
		repo:      repo,
		logger:    logger,
	}
}

// ExtractText resolves the file source and runs the extraction pipeline.
func (s *ContractService) ExtractText(ctx context.Context, src domain.FileSource, opts domain.ExtractionOptions) (string, error) {
	return s.contractText(ctx, src, opts)
}

// AnalyzeMetadata extracts the contract text and pulls targeted metadata
// from it. The analysis record is persisted best-effort; a storage hiccup
// never fails the request.
func (s *ContractService) AnalyzeMetadata(ctx context.Context, src domain.FileSource, opts domain.ExtractionOptions) (*domain.ContractMetadata, string, error) {
	if err := s.requireAnalyzer(); err != nil {
		return nil, "", err
	}
	text, err := s.contractText(ctx, src, opts)
	if err != nil {
		return nil, "", err
	}
	metadata, err := s.analyzer.ExtractMetadata(ctx, text)
	if err != nil {
		return nil, "", err
	}

	analysisID := uuid.NewString()
	objectKey := src.ObjectKey

	// Inline uploads are kept in storage under the analysis id so later
	// requests can reference the document by object key instead of
	// re-uploading it. Best-effort, like the record insert below.
	if src.IsInline() && s.storage != nil {
		key := analysisID + ".pdf"
		if err := s.storage.Upload(ctx, key, src.Data); err != nil {
			s.logger.Warn("Failed to store uploaded contract", "error", err, "key", key)
		} else {
			objectKey = key
		}
	}

	if s.repo != nil {
		analysis := &domain.ContractAnalysis{
			ID:            analysisID,
			ObjectKey:     objectKey,
			ExtractedText: text,
			Metadata:      metadata,
			CreatedAt:     time.Now().UTC(),
		}
		if err := s.repo.SaveAnalysis(analysis); err != nil {
			s.logger.Warn("Failed to persist analysis record", "error", err, "object_key", objectKey)
		}
	}
	return metadata, text, nil
}

// Summarize extracts the contract text and produces the review summary.
func (s *ContractService) Summarize(ctx context.Context, src domain.FileSource, opts domain.ExtractionOptions) (string, error) {
	if err := s.requireAnalyzer(); err != nil {
		return "", err
	}
	text, err := s.contractText(ctx, src, opts)
	if err != nil {
		return "", err
	}
	languageHint := "en"
	if strings.HasPrefix(opts.Language, "ind") {
		languageHint = "id"
	}
	return s.analyzer.Summarize(ctx, text, languageHint)
}

// AnalyzeRisks extracts the contract text and reports risky clauses.
func (s *ContractService) AnalyzeRisks(ctx context.Context, src domain.FileSource, opts domain.ExtractionOptions) (*domain.RiskReport, error) {
	if err := s.requireAnalyzer(); err != nil {
		return nil, err
	}
	text, err := s.contractText(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	return s.analyzer.AnalyzeRisks(ctx, text)
}

// CheckCompliance extracts the contract text and evaluates it against the
// company policy list.
func (s *ContractService) CheckCompliance(ctx context.Context, src domain.FileSource, opts domain.ExtractionOptions) (*domain.ComplianceReport, error) {
	if err := s.requireAnalyzer(); err != nil {
		return nil, err
	}
	text, err := s.contractText(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	return s.analyzer.CheckCompliance(ctx, text)
}

// Chat answers a question about the contract.
func (s *ContractService) Chat(ctx context.Context, src domain.FileSource, question, sessionID string, opts domain.ExtractionOptions) (string, error) {
	if err := s.requireAnalyzer(); err != nil {
		return "", err
	}
	text, err := s.contractText(ctx, src, opts)
	if err != nil {
		return "", err
	}
	return s.analyzer.Answer(ctx, text, question, sessionID)
}

// requireAnalyzer rejects analysis calls when the container started without
// a language-model backend.
func (s *ContractService) requireAnalyzer() error {
	if s.analyzer == nil {
		return apperrors.NewUpstreamError("contract analyzer is not configured", nil)
	}
	return nil
}

// contractText turns a file source into plain text. Contract ids resolve
// purely through the repository. For object references a previously
// extracted text in the repository is preferred; only on a miss is the PDF
// downloaded and run through the pipeline.
func (s *ContractService) contractText(ctx context.Context, src domain.FileSource, opts domain.ExtractionOptions) (string, error) {
	if src.IsEmpty() {
		return "", domain.ErrMissingFile
	}

	if src.IsInline() {
		return s.extractor.Extract(ctx, src.Data, opts)
	}

	if src.ContractID != "" {
		if s.repo == nil {
			return "", apperrors.NewStorageError("contract repository is not configured", nil)
		}
		return s.repo.GetTextByContractID(src.ContractID)
	}

	if s.repo != nil {
		text, err := s.repo.GetTextByObjectKey(src.ObjectKey)
		if err == nil && strings.TrimSpace(text) != "" {
			s.logger.Debug("Serving contract text from repository", "object_key", src.ObjectKey)
			return text, nil
		}
		if err != nil && !errors.Is(err, domain.ErrContractNotFound) {
			s.logger.Warn("Repository lookup failed, falling back to storage", "error", err, "object_key", src.ObjectKey)
		}
	}

	if s.storage == nil {
		return "", apperrors.NewStorageError("object storage is not configured", nil)
	}
	pdf, err := s.storage.Download(ctx, src.ObjectKey)
	if err != nil {
		return "", err
	}
	if len(pdf) == 0 {
		return "", domain.ErrEmptyFile
	}
	return s.extractor.Extract(ctx, pdf, opts)
}
