package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"contract-analyzer/internal/domain"

	"cloud.google.com/go/vertexai/genai"
)

const (
	analysisModel = "gemini-2.0-flash-001"

	// Upper bounds on contract text sent to the model, to stay inside the
	// token budget. OCR text is verbose; the head of a contract carries the
	// parties, dates and title.
	metadataTextLimit = 8000
	chatTextLimit     = 6000

	maxSessionTurns = 10
)

type chatTurn struct {
	Question string
	Answer   string
}

// AIService runs contract analysis through Vertex AI Gemini models. It
// implements domain.ContractAnalyzer. Model calls go through the generate
// field so tests can substitute a canned model.
type AIService struct {
	client   *genai.Client
	logger   domain.Logger
	generate func(ctx context.Context, system, prompt string, temperature float32) (string, error)

	sessionsMu sync.Mutex
	sessions   map[string][]chatTurn
}

// NewAIService creates the Vertex AI-backed contract analyzer.
func NewAIService(ctx context.Context, projectID, location string, logger domain.Logger) (*AIService, error) {
	client, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex ai client: %w", err)
	}
	s := &AIService{
		client:   client,
		logger:   logger,
		sessions: make(map[string][]chatTurn),
	}
	s.generate = s.generateContent
	return s, nil
}

// Close releases the underlying client.
func (s *AIService) Close() error {
	return s.client.Close()
}

// ExtractMetadata pulls the counterparty name, start/end dates and a
// formatted title out of (possibly OCR-damaged) contract text.
func (s *AIService) ExtractMetadata(ctx context.Context, text string) (*domain.ContractMetadata, error) {
	system := "You are a meticulous legal assistant reading contract text that may contain OCR damage. " +
		"Extract four fields: " +
		"(1) external_company_name: the counterparty (second party) company name, " +
		"(2) contract_start_date: the date the contract starts or was signed, " +
		"(3) contract_end_date: the date the contract ends, " +
		"(4) contract_title: a formatted title 'Agreement with [company] regarding [subject]'. " +
		"IMPORTANT: ignore OCR noise such as '———', '[', ']' and broken words. " +
		"Dates in ISO-8601 (YYYY-MM-DD) where possible; null when a field cannot be found. " +
		"Return ONLY JSON, no other text."

	prompt := "Contract text:\n" + truncateText(text, metadataTextLimit) + "\n" +
		"Return JSON with keys: external_company_name, contract_start_date, contract_end_date, contract_title."

	raw, err := s.generate(ctx, system, prompt, 0.2)
	if err != nil {
		return nil, err
	}

	var metadata domain.ContractMetadata
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &metadata); err != nil {
		s.logger.Warn("Metadata response was not valid JSON", "error", err)
		return &domain.ContractMetadata{}, nil
	}
	return &metadata, nil
}

// Summarize produces an HTML bullet summary aimed at legal review.
func (s *AIService) Summarize(ctx context.Context, text, languageHint string) (string, error) {
	language := "English"
	if languageHint == "id" {
		language = "Indonesian"
	}
	system := "You are legal counsel writing an HTML summary for a legal review team, in " + language + ". " +
		"Use the structure: <h3>Contract Summary</h3><ul><li>Point 1</li>...</ul>. " +
		"Focus on: parties and roles, scope of services, value and payment, term, penalties, " +
		"termination, dispute resolution, force majeure, key obligations. " +
		"At most 7 points of 1-2 short sentences each. No preamble. Return HTML only."

	raw, err := s.generate(ctx, system, truncateText(text, metadataTextLimit), 0.3)
	if err != nil {
		return "", err
	}
	return normalizeSummary(raw), nil
}

// AnalyzeRisks asks the model for risky clauses and normalizes the severity
// counts and overall level locally rather than trusting the model's math.
func (s *AIService) AnalyzeRisks(ctx context.Context, text string) (*domain.RiskReport, error) {
	system := "You are senior contract counsel skilled at reading damaged OCR text. Find risky clauses. " +
		"Ignore OCR noise (———, [, ], broken words). Look for patterns such as: unilateral termination, " +
		"unlimited liability, heavy penalties, foreign governing law, late payment, long warranty periods. " +
		"For each finding return: clause_text (HTML quote of the clause plus at least 3 risk bullet points in <ul><li>), " +
		"risk_type, severity (Low/Medium/High), and rationale " +
		"(<div><h5>Recommendation</h5><p>next steps in 2-3 sentences</p></div>). " +
		"Return JSON: {\"findings\": [...], \"summary_counts\": {\"Low\":0,\"Medium\":0,\"High\":0}}. " +
		"If nothing is clearly risky, still report minor Low-severity findings."

	prompt := "Analyze risks in the following contract text and return the JSON described above.\n\n" +
		"Contract text:\n" + truncateText(text, metadataTextLimit)

	raw, err := s.generate(ctx, system, prompt, 0.3)
	if err != nil {
		return nil, err
	}

	var report domain.RiskReport
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &report); err != nil {
		s.logger.Warn("Risk response was not valid JSON", "error", err)
		report = domain.RiskReport{}
	}
	finalizeRiskReport(&report)
	return &report, nil
}

// defaultPolicies is the company policy set contracts are checked against.
var defaultPolicies = []domain.Policy{
	{ID: "P-001", Name: "Payment terms within 30 days", Rule: "Payment must be net 30 days or faster."},
	{ID: "P-002", Name: "Liability cap at contract value", Rule: "A liability cap of at least the contract value must exist."},
	{ID: "P-003", Name: "Governing law Indonesia", Rule: "The governing law must be Indonesian law."},
	{ID: "P-004", Name: "No termination for convenience by counterparty", Rule: "The counterparty must not be able to terminate unilaterally without cause."},
	{ID: "P-005", Name: "Confidentiality covers personal data", Rule: "The confidentiality clause must cover personal data and protection mechanisms."},
}

// CheckCompliance evaluates the contract against the company policy list.
func (s *AIService) CheckCompliance(ctx context.Context, text string) (*domain.ComplianceReport, error) {
	policies, err := json.MarshalIndent(defaultPolicies, "", "  ")
	if err != nil {
		return nil, err
	}

	system := "You are a compliance officer evaluating a contract against a list of company policies. " +
		"For each policy decide a status: Compliant, Partial or Non-compliant. When there is no evidence, " +
		"the status is Non-compliant. Evidence is a short quote; note is at most 2 sentences. " +
		"Return JSON: {\"matches\": [{\"policy_id\":\"\",\"policy_name\":\"\",\"status\":\"\",\"evidence\":\"\",\"note\":\"\"}]}. " +
		"Return ONLY JSON."

	prompt := "Evaluate the contract below against these policies:\n\nPolicies:\n" + string(policies) +
		"\n\nContract text:\n" + truncateText(text, chatTextLimit)

	raw, err := s.generate(ctx, system, prompt, 0.2)
	if err != nil {
		return nil, err
	}

	var report domain.ComplianceReport
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &report); err != nil {
		s.logger.Warn("Compliance response was not valid JSON", "error", err)
		report = domain.ComplianceReport{}
	}
	report.Summary = map[string]int{"Compliant": 0, "Partial": 0, "Non-compliant": 0}
	for _, m := range report.Matches {
		if _, ok := report.Summary[m.Status]; ok {
			report.Summary[m.Status]++
		}
	}
	return &report, nil
}

// Answer handles a contract Q&A turn, keeping a bounded per-session history
// so follow-up questions carry context.
func (s *AIService) Answer(ctx context.Context, text, question, sessionID string) (string, error) {
	history := s.sessionHistory(sessionID)

	var b strings.Builder
	b.WriteString("You are a contract Q&A assistant answering in HTML. ")
	b.WriteString("Answer concisely, professionally, and ONLY from the contract content. ")
	b.WriteString("Answer format: <div><h4>Answer</h4><p>...</p></div>. ")
	b.WriteString("Quote contract passages with <blockquote>. ")
	b.WriteString("Consider the conversation history for context.\n\n")
	b.WriteString("Contract text: ")
	b.WriteString(truncateText(text, chatTextLimit))
	b.WriteString("\n")
	for i, turn := range history {
		fmt.Fprintf(&b, "Turn %d Q: %s\nTurn %d A: %s\n", i+1, turn.Question, i+1, turn.Answer)
	}
	b.WriteString("Question: ")
	b.WriteString(question)

	answer, err := s.generate(ctx, "", b.String(), 0.5)
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)

	if sessionID != "" {
		s.appendTurn(sessionID, chatTurn{Question: question, Answer: answer})
	}
	return answer, nil
}

func (s *AIService) sessionHistory(sessionID string) []chatTurn {
	if sessionID == "" {
		return nil
	}
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	return append([]chatTurn(nil), s.sessions[sessionID]...)
}

func (s *AIService) appendTurn(sessionID string, turn chatTurn) {
	s.sessionsMu.Lock()
	defer s.sessionsMu.Unlock()
	history := append(s.sessions[sessionID], turn)
	if len(history) > maxSessionTurns {
		history = history[len(history)-maxSessionTurns:]
	}
	s.sessions[sessionID] = history
}

// generateContent runs one model call and concatenates the text parts of
// the first candidate.
func (s *AIService) generateContent(ctx context.Context, system, prompt string, temperature float32) (string, error) {
	model := s.client.GenerativeModel(analysisModel)
	model.SetTemperature(temperature)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String(), nil
}

// finalizeRiskReport recounts severities and derives the overall level.
func finalizeRiskReport(report *domain.RiskReport) {
	counts := map[string]int{"Low": 0, "Medium": 0, "High": 0}
	for _, f := range report.Findings {
		severity := capitalize(f.Severity)
		if _, ok := counts[severity]; ok {
			counts[severity]++
		}
	}
	report.SummaryCounts = counts
	switch {
	case counts["High"] > 0:
		report.OverallRiskLevel = domain.RiskLevelHigh
	case counts["Medium"] > 0:
		report.OverallRiskLevel = domain.RiskLevelMedium
	default:
		report.OverallRiskLevel = domain.RiskLevelLow
	}
}

// capitalize normalizes a severity label ("high" -> "High").
func capitalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// extractJSONObject recovers the first JSON object from model output that may
// wrap it in code fences or surrounding prose.
func extractJSONObject(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "```json"); idx >= 0 {
		s = s[idx+len("```json"):]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		return strings.TrimSpace(s)
	}
	s = strings.Trim(s, "` \n")

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return s
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == '{':
			depth++
		case !inString && c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return s[start:]
}

var (
	summaryPrefixes = []string{
		"here is the summary:",
		"here is the contract summary:",
		"summary:",
		"contract summary:",
	}
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// normalizeSummary strips code fences and boilerplate prefixes and collapses
// the HTML onto one line.
func normalizeSummary(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.Trim(raw, "` \n")
		raw = strings.TrimPrefix(raw, "html")
	}
	lower := strings.ToLower(raw)
	for _, prefix := range summaryPrefixes {
		if strings.HasPrefix(lower, prefix) {
			raw = strings.TrimSpace(raw[len(prefix):])
			break
		}
	}
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(raw, " "))
}

// truncateText caps text at limit bytes without splitting a rune.
func truncateText(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
