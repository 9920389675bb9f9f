package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"contract-analyzer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock implementations for handler testing

type mockContractService struct {
	lastSrc      domain.FileSource
	lastOpts     domain.ExtractionOptions
	lastQuestion string
	text         string
	err          error
}

func (m *mockContractService) ExtractText(ctx context.Context, src domain.FileSource, opts domain.ExtractionOptions) (string, error) {
	m.lastSrc, m.lastOpts = src, opts
	return m.text, m.err
}

func (m *mockContractService) AnalyzeMetadata(ctx context.Context, src domain.FileSource, opts domain.ExtractionOptions) (*domain.ContractMetadata, string, error) {
	m.lastSrc, m.lastOpts = src, opts
	if m.err != nil {
		return nil, "", m.err
	}
	return &domain.ContractMetadata{ContractTitle: "Agreement with Acme"}, m.text, nil
}

func (m *mockContractService) Summarize(ctx context.Context, src domain.FileSource, opts domain.ExtractionOptions) (string, error) {
	m.lastSrc, m.lastOpts = src, opts
	return "<h3>Contract Summary</h3>", m.err
}

func (m *mockContractService) AnalyzeRisks(ctx context.Context, src domain.FileSource, opts domain.ExtractionOptions) (*domain.RiskReport, error) {
	m.lastSrc, m.lastOpts = src, opts
	if m.err != nil {
		return nil, m.err
	}
	return &domain.RiskReport{SummaryCounts: map[string]int{"Low": 1, "Medium": 0, "High": 0}, OverallRiskLevel: domain.RiskLevelLow}, nil
}

func (m *mockContractService) CheckCompliance(ctx context.Context, src domain.FileSource, opts domain.ExtractionOptions) (*domain.ComplianceReport, error) {
	m.lastSrc, m.lastOpts = src, opts
	if m.err != nil {
		return nil, m.err
	}
	return &domain.ComplianceReport{Summary: map[string]int{"Compliant": 5, "Partial": 0, "Non-compliant": 0}}, nil
}

func (m *mockContractService) Chat(ctx context.Context, src domain.FileSource, question, sessionID string, opts domain.ExtractionOptions) (string, error) {
	m.lastSrc, m.lastOpts, m.lastQuestion = src, opts, question
	return "<div><h4>Answer</h4></div>", m.err
}

type testConfig struct{}

func (testConfig) GetServerPort() string      { return "8080" }
func (testConfig) GetLogLevel() string        { return "error" }
func (testConfig) GetMaxFileSize() int64      { return 1 << 20 }
func (testConfig) GetSupabaseURL() string     { return "" }
func (testConfig) GetSupabaseKey() string     { return "" }
func (testConfig) GetStorageBucket() string   { return "contracts" }
func (testConfig) GetVertexProjectID() string { return "" }
func (testConfig) GetVertexLocation() string  { return "" }
func (testConfig) GetTessdataPrefix() string  { return "" }
func (testConfig) GetDefaultLanguage() string { return "eng" }

type testLogger struct{}

func (testLogger) Info(msg string, fields ...interface{})             {}
func (testLogger) Error(msg string, err error, fields ...interface{}) {}
func (testLogger) Debug(msg string, fields ...interface{})            {}
func (testLogger) Warn(msg string, fields ...interface{})             {}

func newTestHandler(svc domain.ContractService) *ContractHandler {
	return NewContractHandler(svc, testConfig{}, testLogger{})
}

func multipartBody(t *testing.T, fieldName, filename string, content []byte, extraFields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile(fieldName, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range extraFields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestExtract_ReturnsRTF(t *testing.T) {
	svc := &mockContractService{text: "extracted contract text"}
	h := newTestHandler(svc)

	body, contentType := multipartBody(t, "file", "contract.pdf", []byte("%PDF-1.4 data"), nil)
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Extract(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/rtf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "extracted contract text")
	assert.True(t, svc.lastSrc.IsInline())
	assert.Equal(t, "contract.pdf", svc.lastSrc.Filename)
}

func TestExtract_QueryParamsOverrideDefaults(t *testing.T) {
	svc := &mockContractService{}
	h := newTestHandler(svc)

	body, contentType := multipartBody(t, "file", "scan.pdf", []byte("%PDF"), nil)
	req := httptest.NewRequest(http.MethodPost, "/extract?lang=eng%2Bind&dpi=200&oem=3&psm=4&max_pages=5&parallel=false", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Extract(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "eng+ind", svc.lastOpts.Language)
	assert.Equal(t, 200, svc.lastOpts.DPI)
	assert.Equal(t, 3, svc.lastOpts.EngineMode)
	assert.Equal(t, 4, svc.lastOpts.SegmentationMode)
	assert.Equal(t, 5, svc.lastOpts.PageLimit)
	assert.False(t, svc.lastOpts.Parallel)
}

func TestExtract_MissingFileRejected(t *testing.T) {
	h := newTestHandler(&mockContractService{})

	body, contentType := multipartBody(t, "file", "", nil, map[string]string{"unrelated": "value"})
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Extract(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestExtract_NonPDFRejected(t *testing.T) {
	h := newTestHandler(&mockContractService{})

	body, contentType := multipartBody(t, "file", "notes.txt", []byte("plain text"), nil)
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Extract(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// Clients that put the upload under an unexpected field name still work:
// the handler scans every part for one that carries a filename.
func TestExtract_FallbackFileField(t *testing.T) {
	svc := &mockContractService{text: "ok"}
	h := newTestHandler(svc)

	body, contentType := multipartBody(t, "document", "contract.pdf", []byte("%PDF"), nil)
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Extract(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.lastSrc.IsInline())
}

func TestExtract_ObjectKeySource(t *testing.T) {
	svc := &mockContractService{text: "stored text"}
	h := newTestHandler(svc)

	body, contentType := multipartBody(t, "file", "", nil, map[string]string{"object_key": "abc123"})
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Extract(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc123", svc.lastSrc.ObjectKey)
	assert.False(t, svc.lastSrc.IsInline())
}

func TestExtract_ContractIDSource(t *testing.T) {
	svc := &mockContractService{text: "persisted text"}
	h := newTestHandler(svc)

	body, contentType := multipartBody(t, "file", "", nil, map[string]string{"contract_id": "c-42"})
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Extract(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c-42", svc.lastSrc.ContractID)
	assert.Empty(t, svc.lastSrc.ObjectKey)
	assert.False(t, svc.lastSrc.IsInline())
}

func TestExtract_DocumentOpenFailureMapsToUnprocessable(t *testing.T) {
	svc := &mockContractService{err: domain.ErrDocumentOpen}
	h := newTestHandler(svc)

	body, contentType := multipartBody(t, "file", "broken.pdf", []byte("not a pdf"), nil)
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Extract(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "document cannot be opened")
}

func TestExtract_InvalidDPIRejected(t *testing.T) {
	h := newTestHandler(&mockContractService{})

	body, contentType := multipartBody(t, "file", "contract.pdf", []byte("%PDF"), nil)
	req := httptest.NewRequest(http.MethodPost, "/extract?dpi=-50", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Extract(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetadata_ReturnsJSONEnvelope(t *testing.T) {
	svc := &mockContractService{text: "contract body"}
	h := newTestHandler(svc)

	body, contentType := multipartBody(t, "file", "contract.pdf", []byte("%PDF"), nil)
	req := httptest.NewRequest(http.MethodPost, "/metadata", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Metadata(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Agreement with Acme")
	assert.Contains(t, rec.Body.String(), `Extracted Text`)
}

func TestChat_RequiresQuestion(t *testing.T) {
	h := newTestHandler(&mockContractService{})

	body, contentType := multipartBody(t, "file", "contract.pdf", []byte("%PDF"), nil)
	req := httptest.NewRequest(http.MethodPost, "/chat", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Chat(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_AnswersQuestion(t *testing.T) {
	svc := &mockContractService{}
	h := newTestHandler(svc)

	body, contentType := multipartBody(t, "file", "contract.pdf", []byte("%PDF"), map[string]string{
		"question":   "Who is the counterparty?",
		"session_id": "sess-1",
	})
	req := httptest.NewRequest(http.MethodPost, "/chat", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Chat(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Who is the counterparty?", svc.lastQuestion)
	assert.Contains(t, rec.Body.String(), "Answer")
}

func TestStatus_ReturnsRTFBanner(t *testing.T) {
	h := newTestHandler(&mockContractService{})
	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `Contract Analyzer API`)
}
