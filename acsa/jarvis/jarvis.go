// Package jarvis implements the deterministic, non-bypassable safety circuit
// breaker: a hard-coded rule engine with supreme veto over the router's
// audit loop. Rules are compiled into the binary, never read from
// configuration or disk, and strict mode cannot be disabled by any API.
package jarvis

import (
	"fmt"
	"strings"

	"github.com/o-sovereign/acsa-orchestrator/core"
)

// DangerousOp categorizes what kind of harm a matched pattern represents.
// Carried on Verdict only via TriggeredRules' text, not as a typed field —
// mirrors the source's use of the category purely for the log label.
type DangerousOp int

const (
	OpPhysicalDestruction DangerousOp = iota
	OpPrivacyViolation
	OpFinancialCrime
	OpCyberAttack
	OpSocialEngineering
	OpMalwareGeneration
	OpLegalViolation
	OpHarmToOthers
)

func (o DangerousOp) String() string {
	switch o {
	case OpPhysicalDestruction:
		return "PhysicalDestruction"
	case OpPrivacyViolation:
		return "PrivacyViolation"
	case OpFinancialCrime:
		return "FinancialCrime"
	case OpCyberAttack:
		return "CyberAttack"
	case OpSocialEngineering:
		return "SocialEngineering"
	case OpMalwareGeneration:
		return "MalwareGeneration"
	case OpLegalViolation:
		return "LegalViolation"
	case OpHarmToOthers:
		return "HarmToOthers"
	default:
		return "Unknown"
	}
}

// Verdict is the result of one verify_safety scan. allowed=false always
// implies BlockReason is non-empty; IsHardBlock=true always implies
// allowed=false.
type Verdict struct {
	Allowed        bool
	RiskLevel      uint8 // 0..10
	TriggeredRules []string
	BlockReason    string
	Warnings       []string
	IsHardBlock    bool
}

// dangerPattern is a named keyword category with a fixed risk level and
// hard-block flag.
type dangerPattern struct {
	description string
	keywords    []string
	op          DangerousOp
	isHardBlock bool
	riskLevel   uint8
}

// CircuitBreaker is the deterministic safety filter. strictMode is
// permanently true; no constructor or method can lower it — see
// IsStrictMode / TryDisableStrictMode.
type CircuitBreaker struct {
	hardBlacklist  []string
	dangerDetectors []dangerPattern
	strictMode     bool
}

// New constructs a CircuitBreaker with the compiled-in rule set.
func New() *CircuitBreaker {
	return &CircuitBreaker{
		hardBlacklist:   buildHardBlacklist(),
		dangerDetectors: buildDangerDetectors(),
		strictMode:      true,
	}
}

// buildHardBlacklist returns the fixed, ORDERED list of literal phrases
// (English and Chinese variants) that trigger an immediate hard block
// regardless of any other context. Order is fixed (not a map) so that a
// plan matching several phrases always reports the same one —
// VerifySafety must be deterministic for identical input.
func buildHardBlacklist() []string {
	phrases := []string{
		// Physical destruction
		"rm -rf /",
		"format c:",
		"dd if=/dev/zero",
		"删除整个数据库",
		// Malware
		"ransomware",
		"勒索软件",
		"keylogger",
		"键盘记录器",
		// Cyber attack
		"ddos attack",
		"syn flood",
		"botnet",
		"肉鸡",
		// Privacy
		"steal passwords",
		"偷密码",
		"spy on someone",
		"监控某人",
		// Financial
		"credit card fraud",
		"信用卡诈骗",
		"money laundering",
		"洗钱",
		// Social engineering
		"phishing email",
		"钓鱼邮件",
		"impersonate",
		"冒充",
	}

	lowered := make([]string, len(phrases))
	for i, p := range phrases {
		lowered[i] = strings.ToLower(p)
	}
	return lowered
}

// buildDangerDetectors returns the six compiled-in danger categories.
func buildDangerDetectors() []dangerPattern {
	return []dangerPattern{
		{
			description: "数据破坏操作",
			keywords:    []string{"删除所有", "格式化", "清空数据库", "drop database", "truncate table"},
			op:          OpPhysicalDestruction,
			isHardBlock: true,
			riskLevel:   10,
		},
		{
			description: "隐私数据窃取",
			keywords:    []string{"窃取用户信息", "导出密码", "获取个人隐私", "steal user data", "extract passwords"},
			op:          OpPrivacyViolation,
			isHardBlock: true,
			riskLevel:   9,
		},
		{
			description: "未授权网络攻击",
			keywords:    []string{"攻击服务器", "瘫痪网站", "ddos", "flood attack"},
			op:          OpCyberAttack,
			isHardBlock: true,
			riskLevel:   10,
		},
		{
			description: "恶意软件开发",
			keywords:    []string{"病毒", "木马", "malware", "trojan", "ransomware"},
			op:          OpMalwareGeneration,
			isHardBlock: true,
			riskLevel:   10,
		},
		{
			description: "社会工程攻击",
			keywords:    []string{"钓鱼", "诱导用户", "伪造身份", "phishing", "social engineering"},
			op:          OpSocialEngineering,
			isHardBlock: false, // legitimate security training scenarios possible
			riskLevel:   7,
		},
		{
			description: "金融欺诈行为",
			keywords:    []string{"盗刷信用卡", "转移资金", "洗钱", "credit card theft", "fraud"},
			op:          OpFinancialCrime,
			isHardBlock: true,
			riskLevel:   10,
		},
	}
}

// IsStrictMode always returns true. Strict mode is a hardcoded safety
// guarantee, not a runtime toggle.
func (c *CircuitBreaker) IsStrictMode() bool {
	return true
}

// TryDisableStrictMode always fails. There is no code path that can turn
// this off, by design of the specification this implements.
func (c *CircuitBreaker) TryDisableStrictMode() error {
	return fmt.Errorf("strict mode cannot be disabled: jarvis safety rules are non-negotiable")
}

// VerifySafety runs the four-step decision algorithm over plan+context and
// returns the accumulated verdict. Deterministic: depends only on its
// arguments, never on prior calls.
func (c *CircuitBreaker) VerifySafety(plan, context string) Verdict {
	combined := plan + "\n" + context
	combinedLower := strings.ToLower(combined)

	v := Verdict{Allowed: true}

	// Step 1: hard blacklist, immediate short-circuit on first match.
	for _, phrase := range c.hardBlacklist {
		if strings.Contains(combinedLower, phrase) {
			return Verdict{
				Allowed:        false,
				RiskLevel:      10,
				IsHardBlock:    true,
				TriggeredRules: []string{fmt.Sprintf("HARD_BLACKLIST: %s", phrase)},
				BlockReason:    fmt.Sprintf("Blocked: '%s'", phrase),
			}
		}
	}

	// Step 2: danger pattern categories.
	for _, pattern := range c.dangerDetectors {
		var matched []string
		for _, kw := range pattern.keywords {
			if strings.Contains(combinedLower, strings.ToLower(kw)) {
				matched = append(matched, kw)
			}
		}
		if len(matched) == 0 {
			continue
		}

		if pattern.riskLevel > v.RiskLevel {
			v.RiskLevel = pattern.riskLevel
		}
		v.TriggeredRules = append(v.TriggeredRules, fmt.Sprintf("%s: %s", pattern.op, pattern.description))

		if pattern.isHardBlock {
			v.Allowed = false
			v.IsHardBlock = true
			v.BlockReason = fmt.Sprintf("%s: %s", pattern.description, strings.Join(matched, ", "))
		} else {
			v.Warnings = append(v.Warnings, fmt.Sprintf("%s (Lv%d)", pattern.description, pattern.riskLevel))
		}
	}

	// Step 3: physics-feasibility cross-check (never blocks).
	if checkPhysicsViolation(plan, &v) && v.RiskLevel < 3 {
		v.RiskLevel = 3
	}

	// Step 4: logic-consistency cross-check (never blocks).
	if checkLogicConsistency(plan, &v) && v.RiskLevel < 2 {
		v.RiskLevel = 2
	}

	return v
}

func checkPhysicsViolation(plan string, v *Verdict) bool {
	lower := strings.ToLower(plan)
	triggered := false

	if (strings.Contains(plan, "1秒") || strings.Contains(lower, "1 second")) &&
		(strings.Contains(plan, "训练") || strings.Contains(lower, "train")) &&
		(strings.Contains(plan, "模型") || strings.Contains(lower, "model")) {
		v.Warnings = append(v.Warnings, "Cannot train a complex model in 1 second — physically infeasible")
		triggered = true
	}

	if (strings.Contains(lower, "1kb内存") || strings.Contains(lower, "1kb memory")) &&
		(strings.Contains(plan, "加载") || strings.Contains(lower, "load")) &&
		(strings.Contains(lower, "1gb") || strings.Contains(lower, "1tb")) {
		v.Warnings = append(v.Warnings, "Cannot load 1GB+ data into 1KB memory — physically infeasible")
		triggered = true
	}

	return triggered
}

func checkLogicConsistency(plan string, v *Verdict) bool {
	triggered := false

	if strings.Contains(plan, "删除") && strings.Contains(plan, "恢复") && strings.Contains(plan, "同时") {
		v.Warnings = append(v.Warnings, "Cannot delete and restore simultaneously — logically inconsistent")
		triggered = true
	}

	lower := strings.ToLower(plan)
	if (strings.Contains(lower, "encrypt") && strings.Contains(lower, "plaintext") && strings.Contains(lower, "same time")) ||
		(strings.Contains(plan, "加密") && strings.Contains(plan, "明文") && strings.Contains(plan, "同时")) {
		v.Warnings = append(v.Warnings, "Cannot keep data encrypted and in plaintext at the same time — logically inconsistent")
		triggered = true
	}

	return triggered
}

// EmergencyShutdown is a fatal terminator callable by any component. There
// is no recovery path — the returned error always wraps core.ErrEmergencyAbort
// and carries the reason. No caller in this module invokes it.
func (c *CircuitBreaker) EmergencyShutdown(reason string) error {
	return fmt.Errorf("jarvis: %w: %s", core.ErrEmergencyAbort, reason)
}
