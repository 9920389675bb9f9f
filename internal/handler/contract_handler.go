// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"contract-analyzer/internal/domain"
	apperrors "contract-analyzer/pkg/errors"
)

// ContractHandler handles contract extraction and analysis requests.
type ContractHandler struct {
	contractService domain.ContractService
	defaultLanguage string
	maxFileSize     int64
	logger          domain.Logger
}

// NewContractHandler creates a new contract handler.
func NewContractHandler(contractService domain.ContractService, cfg domain.Config, logger domain.Logger) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
		defaultLanguage: cfg.GetDefaultLanguage(),
		maxFileSize:     cfg.GetMaxFileSize(),
		logger:          logger,
	}
}

// Status responds with an RTF status banner.
func (h *ContractHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeRTF(w, statusRTF())
}

// Extract runs the text extraction pipeline and returns the text as RTF.
func (h *ContractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	src, opts, err := h.parseRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	text, err := h.contractService.ExtractText(r.Context(), src, opts)
	if err != nil {
		h.logger.Error("Extraction failed", err, "object_key", src.ObjectKey)
		h.writeError(w, err)
		return
	}
	writeRTF(w, extractedTextRTF(text))
}

// Metadata extracts the text and returns targeted contract metadata along
// with the RTF-formatted content.
func (h *ContractHandler) Metadata(w http.ResponseWriter, r *http.Request) {
	src, opts, err := h.parseRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	metadata, text, err := h.contractService.AnalyzeMetadata(r.Context(), src, opts)
	if err != nil {
		h.logger.Error("Metadata analysis failed", err, "object_key", src.ObjectKey)
		h.writeError(w, err)
		return
	}

	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		h.writeError(w, apperrors.NewInternalError("failed to encode metadata", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"metadata": string(metaJSON),
		"content":  extractedTextRTF(text),
	})
}

// Summarize returns an RTF summary of the contract.
func (h *ContractHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	src, opts, err := h.parseRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	summary, err := h.contractService.Summarize(r.Context(), src, opts)
	if err != nil {
		h.logger.Error("Summarization failed", err, "object_key", src.ObjectKey)
		h.writeError(w, err)
		return
	}
	writeRTF(w, summaryRTF(summary))
}

// Risks returns an RTF risk analysis of the contract.
func (h *ContractHandler) Risks(w http.ResponseWriter, r *http.Request) {
	src, opts, err := h.parseRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	report, err := h.contractService.AnalyzeRisks(r.Context(), src, opts)
	if err != nil {
		h.logger.Error("Risk analysis failed", err, "object_key", src.ObjectKey)
		h.writeError(w, err)
		return
	}
	writeRTF(w, riskReportRTF(report))
}

// Compliance returns an RTF compliance check against the policy list.
func (h *ContractHandler) Compliance(w http.ResponseWriter, r *http.Request) {
	src, opts, err := h.parseRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	report, err := h.contractService.CheckCompliance(r.Context(), src, opts)
	if err != nil {
		h.logger.Error("Compliance check failed", err, "object_key", src.ObjectKey)
		h.writeError(w, err)
		return
	}
	writeRTF(w, complianceReportRTF(report))
}

// Chat answers a question about the contract in RTF.
func (h *ContractHandler) Chat(w http.ResponseWriter, r *http.Request) {
	src, opts, err := h.parseRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	question := strings.TrimSpace(r.FormValue("question"))
	if question == "" {
		h.writeError(w, apperrors.NewValidationError("question is required"))
		return
	}
	sessionID := r.FormValue("session_id")

	answer, err := h.contractService.Chat(r.Context(), src, question, sessionID, opts)
	if err != nil {
		h.logger.Error("Chat failed", err, "object_key", src.ObjectKey)
		h.writeError(w, err)
		return
	}
	writeRTF(w, chatRTF(question, answer))
}

// parseRequest resolves the uploaded file (or object reference) and the
// per-call extraction options.
func (h *ContractHandler) parseRequest(r *http.Request) (domain.FileSource, domain.ExtractionOptions, error) {
	src, err := h.resolveFileSource(r)
	if err != nil {
		return domain.FileSource{}, domain.ExtractionOptions{}, err
	}
	opts, err := h.parseOptions(r)
	if err != nil {
		return domain.FileSource{}, domain.ExtractionOptions{}, err
	}
	return src, opts, nil
}

// resolveFileSource turns the request into the typed file source: inline
// multipart bytes, an object-storage key, or a contract id. Some clients
// send the file under an arbitrary field name, so when "file" is absent
// every part is scanned for one that carries a filename.
func (h *ContractHandler) resolveFileSource(r *http.Request) (domain.FileSource, error) {
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil && err != http.ErrNotMultipart {
		return domain.FileSource{}, apperrors.NewValidationError("invalid multipart form", err.Error())
	}

	file, header, err := r.FormFile("file")
	if err != nil && r.MultipartForm != nil {
		for _, headers := range r.MultipartForm.File {
			if len(headers) > 0 && headers[0].Filename != "" {
				header = headers[0]
				file, err = header.Open()
				break
			}
		}
	}

	if err == nil && file != nil {
		defer file.Close()
		return h.inlineSource(file, header)
	}

	if objectKey := strings.TrimSpace(r.FormValue("object_key")); objectKey != "" {
		return domain.FileSource{ObjectKey: objectKey}, nil
	}
	if contractID := strings.TrimSpace(r.FormValue("contract_id")); contractID != "" {
		return domain.FileSource{ContractID: contractID}, nil
	}
	return domain.FileSource{}, domain.ErrMissingFile
}

func (h *ContractHandler) inlineSource(file multipart.File, header *multipart.FileHeader) (domain.FileSource, error) {
	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		return domain.FileSource{}, domain.ErrInvalidFileType
	}
	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		return domain.FileSource{}, apperrors.NewInternalError("failed to read upload", err)
	}
	if len(data) == 0 {
		return domain.FileSource{}, domain.ErrEmptyFile
	}
	if int64(len(data)) > h.maxFileSize {
		return domain.FileSource{}, apperrors.NewValidationError("file too large")
	}
	return domain.FileSource{Data: data, Filename: header.Filename}, nil
}

// parseOptions reads the per-call recognition parameters from the query
// string, falling back to the service defaults.
func (h *ContractHandler) parseOptions(r *http.Request) (domain.ExtractionOptions, error) {
	opts := domain.DefaultExtractionOptions()
	if h.defaultLanguage != "" {
		opts.Language = h.defaultLanguage
	}

	query := r.URL.Query()
	if lang := query.Get("lang"); lang != "" {
		opts.Language = lang
	}
	var err error
	if opts.DPI, err = intParam(query.Get("dpi"), opts.DPI); err != nil {
		return opts, apperrors.NewValidationError("invalid dpi", query.Get("dpi"))
	}
	if opts.EngineMode, err = intParam(query.Get("oem"), opts.EngineMode); err != nil {
		return opts, apperrors.NewValidationError("invalid oem", query.Get("oem"))
	}
	if opts.SegmentationMode, err = intParam(query.Get("psm"), opts.SegmentationMode); err != nil {
		return opts, apperrors.NewValidationError("invalid psm", query.Get("psm"))
	}
	if opts.PageLimit, err = intParam(query.Get("max_pages"), opts.PageLimit); err != nil {
		return opts, apperrors.NewValidationError("invalid max_pages", query.Get("max_pages"))
	}
	if raw := query.Get("parallel"); raw != "" {
		parallel, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, apperrors.NewValidationError("invalid parallel flag", raw)
		}
		opts.Parallel = parallel
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func (h *ContractHandler) writeError(w http.ResponseWriter, err error) {
	app := apperrors.FromDomain(err)
	writeError(w, app.StatusCode, app.Message)
}
