package domain

import "context"

// PDFDocument is a read-only view over one opened PDF for the duration of a
// single extraction call. Implementations own the native document handle and
// must be closed by the caller.
type PDFDocument interface {
	PageCount() int
	// PageText returns the native text layer of one zero-based page.
	PageText(index int) (string, error)
	// RenderPage rasterizes one zero-based page at the given DPI and returns
	// an encoded grayscale image suitable for OCR.
	RenderPage(index, dpi int) ([]byte, error)
	Close() error
}

// PDFOpener opens a PDF document from raw bytes.
type PDFOpener interface {
	Open(pdf []byte) (PDFDocument, error)
}

// PageRecognizer runs OCR against one rendered page image.
type PageRecognizer interface {
	Recognize(image []byte, opts ExtractionOptions) (string, error)
}

// TextExtractor is the document text extraction pipeline: direct text-layer
// read first, page-level OCR fallback for scanned documents.
type TextExtractor interface {
	Extract(ctx context.Context, pdf []byte, opts ExtractionOptions) (string, error)
}

// ObjectStorage fetches and stores PDF objects in the storage bucket.
type ObjectStorage interface {
	Download(ctx context.Context, objectKey string) ([]byte, error)
	Upload(ctx context.Context, objectKey string, data []byte) error
}

// ContractRepository persists and retrieves contract text and analysis results.
type ContractRepository interface {
	GetTextByObjectKey(objectKey string) (string, error)
	GetTextByContractID(contractID string) (string, error)
	SaveAnalysis(analysis *ContractAnalysis) error
}

// ContractAnalyzer runs language-model analysis over extracted contract text.
type ContractAnalyzer interface {
	ExtractMetadata(ctx context.Context, text string) (*ContractMetadata, error)
	Summarize(ctx context.Context, text, languageHint string) (string, error)
	AnalyzeRisks(ctx context.Context, text string) (*RiskReport, error)
	CheckCompliance(ctx context.Context, text string) (*ComplianceReport, error)
	Answer(ctx context.Context, text, question, sessionID string) (string, error)
}

// ContractService is the request-level API the HTTP layer talks to: one
// method per endpoint, each taking an already-resolved file source.
type ContractService interface {
	ExtractText(ctx context.Context, src FileSource, opts ExtractionOptions) (string, error)
	AnalyzeMetadata(ctx context.Context, src FileSource, opts ExtractionOptions) (*ContractMetadata, string, error)
	Summarize(ctx context.Context, src FileSource, opts ExtractionOptions) (string, error)
	AnalyzeRisks(ctx context.Context, src FileSource, opts ExtractionOptions) (*RiskReport, error)
	CheckCompliance(ctx context.Context, src FileSource, opts ExtractionOptions) (*ComplianceReport, error)
	Chat(ctx context.Context, src FileSource, question, sessionID string, opts ExtractionOptions) (string, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetMaxFileSize() int64
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetStorageBucket() string
	GetVertexProjectID() string
	GetVertexLocation() string
	GetTessdataPrefix() string
	GetDefaultLanguage() string
}
