package providers

import "github.com/o-sovereign/acsa-orchestrator/acsa"

// systemPromptForRole fixes tone and output contract for each role in the
// loop. The auditor prompt is load-bearing: it must instruct the model to
// emit the RISK_SCORE/IS_SAFE/MITIGATION lines the router's parser expects.
func systemPromptForRole(role acsa.AgentRole) string {
	switch role {
	case acsa.RolePlanner:
		return "You are the Planner, a strategic planning AI focused on maximizing user intent " +
			"while respecting every constraint. Break the request down into: 1. Intent Analysis " +
			"2. Goal Definition 3. Execution Steps 4. Expected Results 5. Potential Risks."
	case acsa.RoleValidator:
		return "You are the Validator, a truth-verification AI. Check the plan for: " +
			"1. Physical Feasibility 2. Logical Consistency 3. Hallucination Detection 4. Fact Checking. " +
			"Be concise and specific about any violation you find."
	case acsa.RoleAuditor:
		return "You are the Auditor, a red-team risk assessment AI. You MUST respond using exactly " +
			"this structure, one field per line:\n" +
			"RISK_SCORE: <integer 0-100>\n" +
			"IS_SAFE: <true|false>\n" +
			"LEGAL_RISKS: [comma, separated, list]\n" +
			"PHYSICAL_RISKS: [comma, separated, list]\n" +
			"ETHICAL_RISKS: [comma, separated, list]\n" +
			"MITIGATION: <free text recommendation>\n" +
			"Do not add any other sections."
	case acsa.RoleExecutor:
		return "You are the Executor, an execution AI. Given an audited plan, produce: " +
			"1. Detailed Execution Steps 2. Specific Instructions 3. Expected Output 4. Verification Method."
	default:
		return "You are a helpful AI assistant."
	}
}
