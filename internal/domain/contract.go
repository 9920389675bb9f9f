package domain

import "time"

// ContractMetadata is the targeted metadata pulled from a contract by the
// analyzer: counterparty, validity dates and a formatted title. Fields the
// model cannot find stay empty.
type ContractMetadata struct {
	ExternalCompanyName string `json:"external_company_name"`
	ContractStartDate   string `json:"contract_start_date"`
	ContractEndDate     string `json:"contract_end_date"`
	ContractTitle       string `json:"contract_title"`
}

// RiskFinding is one risky clause identified in the contract.
type RiskFinding struct {
	ClauseText string `json:"clause_text"`
	RiskType   string `json:"risk_type"`
	Severity   string `json:"severity"` // Low, Medium or High
	Rationale  string `json:"rationale"`
}

// Overall risk levels derived from finding severities.
const (
	RiskLevelLow    = 1
	RiskLevelMedium = 2
	RiskLevelHigh   = 3
)

// RiskReport aggregates risk findings with per-severity counts.
type RiskReport struct {
	Findings         []RiskFinding  `json:"findings"`
	SummaryCounts    map[string]int `json:"summary_counts"`
	OverallRiskLevel int            `json:"overall_risk_level"`
}

// Policy is one company policy a contract is checked against.
type Policy struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Rule string `json:"rule"`
}

// ComplianceMatch is the evaluation of a contract against one policy.
type ComplianceMatch struct {
	PolicyID   string `json:"policy_id"`
	PolicyName string `json:"policy_name"`
	Status     string `json:"status"` // Compliant, Partial or Non-compliant
	Evidence   string `json:"evidence"`
	Note       string `json:"note"`
}

// ComplianceReport aggregates policy matches with per-status counts.
type ComplianceReport struct {
	Matches []ComplianceMatch `json:"matches"`
	Summary map[string]int    `json:"summary"`
}

// ContractAnalysis is a persisted record of one analysis run.
type ContractAnalysis struct {
	ID            string            `json:"id"`
	ObjectKey     string            `json:"object_key,omitempty"`
	ExtractedText string            `json:"extracted_text"`
	Metadata      *ContractMetadata `json:"metadata,omitempty"`
	Summary       string            `json:"summary,omitempty"`
	Risks         *RiskReport       `json:"risks,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}
