package acsa

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	riskScoreRe = regexp.MustCompile(`RISK_SCORE:\s*(\d+)`)
	isSafeRe    = regexp.MustCompile(`IS_SAFE:\s*(true|false)`)
	mitigationRe = regexp.MustCompile(`(?s)MITIGATION:\s*(.+?)(?:\n[A-Z_]+:|$)`)
)

// ParseAuditResult extracts the structured fields the auditor's system
// prompt requires it to emit. Missing fields fail closed: risk_score=50,
// is_safe=false — so a malformed or truncated auditor response always
// forces the router's risk gate to fail rather than silently pass.
func ParseAuditResult(raw string) AuditResult {
	result := AuditResult{
		IsSafe:      false,
		RiskScore:   50,
		RawResponse: raw,
	}

	if m := riskScoreRe.FindStringSubmatch(raw); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			if n < 0 {
				n = 0
			}
			if n > 255 {
				n = 255
			}
			result.RiskScore = uint8(n)
		}
	}

	if m := isSafeRe.FindStringSubmatch(raw); m != nil {
		result.IsSafe = m[1] == "true"
	}

	if m := mitigationRe.FindStringSubmatch(raw); m != nil {
		result.Mitigation = strings.TrimRight(m[1], " \t\n")
	}

	result.LegalRisks = extractBracketList(raw, "LEGAL_RISKS")
	result.PhysicalRisks = extractBracketList(raw, "PHYSICAL_RISKS")
	result.EthicalRisks = extractBracketList(raw, "ETHICAL_RISKS")

	return result
}

// extractBracketList parses a `FIELD: [a, b, c]` line into its comma-split,
// trimmed elements. Returns nil both when the field is absent and when its
// list is empty (`[]`) — the two cases are not distinguished, matching the
// auditor contract's "sequences of strings" with no further normalization
// requirement.
func extractBracketList(raw, field string) []string {
	re := regexp.MustCompile(field + `:\s*\[(.*?)\]`)
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	inner := strings.TrimSpace(m[1])
	if inner == "" {
		return nil
	}

	var items []string
	for _, part := range strings.Split(inner, ",") {
		item := strings.Trim(strings.TrimSpace(part), `"'`)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
