package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"contract-analyzer/internal/domain"

	"github.com/supabase-community/supabase-go"
)

// SupabaseContractRepository implements domain.ContractRepository on top of
// the Supabase Postgrest API. Contract text lives in the documents table,
// keyed by the storage object hash; a contract may span several documents
// through the contract_documents join table.
type SupabaseContractRepository struct {
	client *supabase.Client
	logger domain.Logger
}

// NewSupabaseContractRepository creates a new contract repository.
func NewSupabaseContractRepository(client *supabase.Client, logger domain.Logger) *SupabaseContractRepository {
	return &SupabaseContractRepository{
		client: client,
		logger: logger,
	}
}

type documentRow struct {
	Content string `json:"content"`
}

type contractDocumentRow struct {
	DocumentHash string `json:"document_hash"`
}

// GetTextByObjectKey returns previously extracted contract text for one
// storage object.
func (r *SupabaseContractRepository) GetTextByObjectKey(objectKey string) (string, error) {
	if r.client == nil {
		return "", fmt.Errorf("supabase client not initialized")
	}

	data, _, err := r.client.From("documents").
		Select("content", "", false).
		Eq("hash", objectKey).
		Execute()
	if err != nil {
		return "", fmt.Errorf("failed to query documents: %w", err)
	}

	var rows []documentRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return "", fmt.Errorf("failed to decode documents: %w", err)
	}
	if len(rows) == 0 {
		return "", domain.ErrContractNotFound
	}
	return rows[0].Content, nil
}

// GetTextByContractID joins all documents attached to a contract and returns
// their combined text in storage order.
func (r *SupabaseContractRepository) GetTextByContractID(contractID string) (string, error) {
	if r.client == nil {
		return "", fmt.Errorf("supabase client not initialized")
	}

	data, _, err := r.client.From("contract_documents").
		Select("document_hash", "", false).
		Eq("contract_id", contractID).
		Execute()
	if err != nil {
		return "", fmt.Errorf("failed to query contract documents: %w", err)
	}

	var refs []contractDocumentRow
	if err := json.Unmarshal(data, &refs); err != nil {
		return "", fmt.Errorf("failed to decode contract documents: %w", err)
	}
	if len(refs) == 0 {
		return "", domain.ErrContractNotFound
	}

	var parts []string
	for _, ref := range refs {
		text, err := r.GetTextByObjectKey(ref.DocumentHash)
		if err != nil {
			r.logger.Warn("Missing document content for contract", "contract_id", contractID, "hash", ref.DocumentHash, "error", err)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", domain.ErrContractNotFound
	}
	return strings.Join(parts, "\n\n"), nil
}

// SaveAnalysis inserts one analysis record.
func (r *SupabaseContractRepository) SaveAnalysis(analysis *domain.ContractAnalysis) error {
	if r.client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	_, _, err := r.client.From("contract_analyses").
		Insert(analysis, false, "", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}
