package handler

import (
	"fmt"
	"strings"

	"contract-analyzer/internal/domain"
)

// The clients of this service render RTF, so responses are plain RTF
// documents rather than JSON.

// escapeRTF escapes RTF control characters and normalizes newlines to \par.
func escapeRTF(text string) string {
	if text == "" {
		return ""
	}
	escaped := strings.NewReplacer(
		`\`, `\\`,
		"{", `\{`,
		"}", `\}`,
	).Replace(text)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	escaped = strings.ReplaceAll(escaped, "\r", "\n")
	return strings.ReplaceAll(escaped, "\n", `\par `)
}

func statusRTF() string {
	return `{\rtf1\ansi \b Contract Analyzer API\b0\par Status: ok}`
}

func extractedTextRTF(text string) string {
	return `{\rtf1\ansi \b Extracted Text\b0\par ` + escapeRTF(text) + "}"
}

func summaryRTF(summary string) string {
	return `{\rtf1\ansi \b Summary\b0\par ` + escapeRTF(summary) + "}"
}

func chatRTF(question, answer string) string {
	return `{\rtf1\ansi \b Q&A\b0\par \b Question:\b0 ` + escapeRTF(question) +
		`\par \b Answer:\b0 ` + escapeRTF(answer) + "}"
}

func riskReportRTF(report *domain.RiskReport) string {
	var b strings.Builder
	b.WriteString(`{\rtf1\ansi \b Risk Analysis\b0\par `)
	fmt.Fprintf(&b, `Counts - Low: %d, Medium: %d, High: %d\par `,
		report.SummaryCounts["Low"], report.SummaryCounts["Medium"], report.SummaryCounts["High"])
	for _, f := range report.Findings {
		b.WriteString(`\par \b ` + escapeRTF(f.RiskType) + `\b0  - ` + escapeRTF(f.Severity))
		b.WriteString(`\par \tab \b Quote:\b0 ` + escapeRTF(f.ClauseText))
		b.WriteString(`\par \tab \b Reason:\b0 ` + escapeRTF(f.Rationale) + `\par `)
	}
	b.WriteString("}")
	return b.String()
}

func complianceReportRTF(report *domain.ComplianceReport) string {
	var b strings.Builder
	b.WriteString(`{\rtf1\ansi \b Compliance Check\b0\par `)
	fmt.Fprintf(&b, `Compliant: %d | Partial: %d | Non-compliant: %d\par `,
		report.Summary["Compliant"], report.Summary["Partial"], report.Summary["Non-compliant"])
	for _, m := range report.Matches {
		b.WriteString(`\par \b [` + escapeRTF(m.PolicyID) + `] ` + escapeRTF(m.PolicyName) + `\b0`)
		b.WriteString(`\par \tab Status: ` + escapeRTF(m.Status))
		b.WriteString(`\par \tab Evidence: ` + escapeRTF(m.Evidence))
		b.WriteString(`\par \tab Note: ` + escapeRTF(m.Note) + `\par `)
	}
	b.WriteString("}")
	return b.String()
}
