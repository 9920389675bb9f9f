package config

import (
	"context"

	"contract-analyzer/internal/domain"
	"contract-analyzer/internal/repository"
	"contract-analyzer/internal/service"
	"contract-analyzer/pkg/logger"

	"github.com/supabase-community/supabase-go"
)

// Container holds all application dependencies
type Container struct {
	Config          domain.Config
	Logger          domain.Logger
	TextExtractor   domain.TextExtractor
	Analyzer        domain.ContractAnalyzer
	Storage         domain.ObjectStorage
	Repository      domain.ContractRepository
	ContractService *service.ContractService
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context) *Container {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())

	// Extraction pipeline: MuPDF document access + Tesseract recognition.
	opener := service.NewFitzOpener()
	recognizer := service.NewTesseractRecognizer(config.GetTessdataPrefix(), appLogger)
	extractor := service.NewPDFTextExtractor(opener, recognizer, appLogger)

	// Supabase persistence is optional: without credentials the service
	// still extracts and analyzes, it just cannot reuse stored text.
	var contractRepo domain.ContractRepository
	var storage domain.ObjectStorage
	if config.GetSupabaseURL() != "" && config.GetSupabaseKey() != "" {
		client, err := supabase.NewClient(config.GetSupabaseURL(), config.GetSupabaseKey(), &supabase.ClientOptions{})
		if err != nil {
			appLogger.Error("Failed to create Supabase client", err)
		} else {
			contractRepo = repository.NewSupabaseContractRepository(client, appLogger)
		}
		storage = service.NewStorageService(config.GetSupabaseURL(), config.GetSupabaseKey(), config.GetStorageBucket(), appLogger)
	} else {
		appLogger.Warn("Supabase not configured; object references will be rejected")
	}

	// Vertex AI analyzer is optional as well: extraction endpoints keep
	// working without a GCP project.
	var analyzer domain.ContractAnalyzer
	if config.GetVertexProjectID() != "" {
		ai, err := service.NewAIService(ctx, config.GetVertexProjectID(), config.GetVertexLocation(), appLogger)
		if err != nil {
			appLogger.Error("Failed to initialize Vertex AI analyzer", err)
		} else {
			analyzer = ai
		}
	} else {
		appLogger.Warn("Vertex AI not configured; analysis endpoints disabled")
	}

	contractService := service.NewContractService(extractor, analyzer, storage, contractRepo, appLogger)

	return &Container{
		Config:          config,
		Logger:          appLogger,
		TextExtractor:   extractor,
		Analyzer:        analyzer,
		Storage:         storage,
		Repository:      contractRepo,
		ContractService: contractService,
	}
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}
