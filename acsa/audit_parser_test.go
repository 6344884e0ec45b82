package acsa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAuditResultFullContract(t *testing.T) {
	raw := `RISK_SCORE: 85
IS_SAFE: false
LEGAL_RISKS: [unauthorized data export, contract breach]
PHYSICAL_RISKS: []
ETHICAL_RISKS: [privacy violation]
MITIGATION: add a sandboxed dry-run step before the destructive operation
`
	result := ParseAuditResult(raw)

	assert.Equal(t, uint8(85), result.RiskScore)
	assert.False(t, result.IsSafe)
	assert.Equal(t, []string{"unauthorized data export", "contract breach"}, result.LegalRisks)
	assert.Nil(t, result.PhysicalRisks)
	assert.Equal(t, []string{"privacy violation"}, result.EthicalRisks)
	assert.Equal(t, "add a sandboxed dry-run step before the destructive operation", result.Mitigation)
	assert.Equal(t, raw, result.RawResponse)
}

func TestParseAuditResultFailsClosedOnMissingFields(t *testing.T) {
	result := ParseAuditResult("I think this plan looks fine.")

	assert.Equal(t, uint8(50), result.RiskScore)
	assert.False(t, result.IsSafe)
	assert.Empty(t, result.Mitigation)
}

func TestParseAuditResultPassingAudit(t *testing.T) {
	result := ParseAuditResult("RISK_SCORE: 30\nIS_SAFE: true\nMITIGATION: ok")
	assert.Equal(t, uint8(30), result.RiskScore)
	assert.True(t, result.IsSafe)
	assert.Equal(t, "ok", result.Mitigation)
}
