package acsa

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/o-sovereign/acsa-orchestrator/acsa/jarvis"
	"github.com/o-sovereign/acsa-orchestrator/acsa/protocol"
	"github.com/o-sovereign/acsa-orchestrator/core"
	"github.com/o-sovereign/acsa-orchestrator/telemetry"
)

// Router is the ACSA orchestration loop: Planner -> optional Validator ->
// bounded Auditor/replan loop -> Jarvis pre-execution check -> Executor.
// A Router instance is safe for concurrent Execute calls; each call gets
// its own ACSAExecutionLog and the four providers are expected to be
// individually concurrency-safe per the Provider contract.
type Router struct {
	planner   Provider
	validator Provider
	auditor   Provider
	executor  Provider

	config ACSAConfig

	// safety is optional: a nil safety disables the pre-execution Jarvis
	// check entirely. The active protocol's EnableJarvisFilter has no effect
	// on whether the check runs.
	safety *jarvis.CircuitBreaker

	protocolMgr *protocol.Manager

	logger    core.Logger
	telemetry core.Telemetry

	logsMu sync.Mutex
	logs   []*ACSAExecutionLog
}

// RouterOption configures optional Router collaborators.
type RouterOption func(*Router)

func WithSafety(cb *jarvis.CircuitBreaker) RouterOption {
	return func(r *Router) { r.safety = cb }
}

func WithProtocolManager(m *protocol.Manager) RouterOption {
	return func(r *Router) { r.protocolMgr = m }
}

func WithRouterLogger(logger core.Logger) RouterOption {
	return func(r *Router) { r.logger = logger }
}

func WithRouterTelemetry(t core.Telemetry) RouterOption {
	return func(r *Router) { r.telemetry = t }
}

// NewRouter wires the four role providers into one orchestration loop.
func NewRouter(planner, validator, auditor, executor Provider, config ACSAConfig, opts ...RouterOption) *Router {
	r := &Router{
		planner:   planner,
		validator: validator,
		auditor:   auditor,
		executor:  executor,
		config:    config,
		logger:    &core.NoOpLogger{},
		telemetry: &core.NoOpTelemetry{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute runs one full ACSA cycle for userInput. Once the loop starts it
// returns a non-nil log, including on internal phase failures — Success=false
// and the partially-filled log communicate what happened; the error return
// (with a nil log) is reserved for request-scoped problems (a canceled
// context) that prevent the loop from starting at all.
func (r *Router) Execute(ctx context.Context, userInput string) (*ACSAExecutionLog, error) {
	start := time.Now()
	log, err := r.execute(ctx, userInput)

	status := "success"
	if err != nil || log == nil || !log.Success {
		status = "error"
	}
	telemetry.RecordRequest(telemetry.ModuleOrchestration, "acsa.execute", float64(time.Since(start).Milliseconds()), status)

	return log, err
}

func (r *Router) execute(ctx context.Context, userInput string) (*ACSAExecutionLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	ctx, span := r.telemetry.StartSpan(ctx, "acsa.router.execute")
	span.SetAttribute("request_id", requestID)
	defer span.End()

	log := NewACSAExecutionLog(userInput)

	activeProtocol := protocol.ForProtocol(protocol.ProtocolArchitect)
	if r.protocolMgr != nil {
		if _, switched := r.protocolMgr.AutoDetectAndSwitch(userInput); switched {
			r.logger.Info("protocol auto-switched", map[string]interface{}{"request_id": requestID, "protocol": r.protocolMgr.CurrentProtocol().Name()})
		}
		activeProtocol = r.protocolMgr.CurrentConfig()
	}
	// Jarvis is the supreme, non-bypassable safety veto: it runs whenever a
	// breaker is configured, full stop. EnableJarvisFilter is a *different*
	// knob — the protocol's chitchat/high-frequency command filter — and
	// must never gate the pre-Omega VerifySafety call below.
	jarvisEnabled := r.safety != nil

	r.logger.Info("acsa execution started", map[string]interface{}{"request_id": requestID})

	// Phase 1: Planner
	plannerResp, err := r.callPlanner(ctx, userInput, activeProtocol.Temperature)
	if err != nil {
		r.logger.Error("planner phase failed", map[string]interface{}{"request_id": requestID, "error": err.Error()})
		log.Complete(false)
		return log, nil
	}
	log.AddCost(plannerResp.Cost)
	log.PlannerResponse = &plannerResp
	currentPlan := plannerResp.Text

	// Phase 2: Validator (optional)
	currentVerification := ""
	if r.config.EnableValidator {
		validatorResp, err := r.callValidator(ctx, currentPlan, userInput, activeProtocol.Temperature)
		if err != nil {
			r.logger.Error("validator phase failed", map[string]interface{}{"request_id": requestID, "error": err.Error()})
			log.Complete(false)
			return log, nil
		}
		log.AddCost(validatorResp.Cost)
		log.ValidatorResponse = &validatorResp
		currentVerification = validatorResp.Text
	}

	// Phase 3: Auditor loop with bounded replanning.
	var lastAudit AuditResult
	maxIterations := r.config.MaxIterations
	if maxIterations == 0 {
		maxIterations = 1
	}

	auditPassed := false
	for iteration := uint32(0); iteration < maxIterations; iteration++ {
		log.Iterations = iteration + 1

		auditResp, err := r.callAuditor(ctx, currentPlan, currentVerification, userInput, activeProtocol.Temperature)
		if err != nil {
			r.logger.Error("auditor phase failed", map[string]interface{}{"request_id": requestID, "error": err.Error()})
			log.Complete(false)
			return log, nil
		}
		log.AddCost(auditResp.Cost)
		log.AuditorResponse = &auditResp

		audit := ParseAuditResult(auditResp.Text)
		log.AuditResultValue = &audit
		lastAudit = audit

		if audit.IsSafe && audit.RiskScore < r.config.RiskThreshold {
			auditPassed = true
			break
		}

		r.logger.Warn("audit risk too high", map[string]interface{}{
			"request_id": requestID, "risk_score": audit.RiskScore, "threshold": r.config.RiskThreshold,
		})

		if iteration+1 >= maxIterations {
			break
		}

		replanResp, err := r.callPlannerWithFeedback(ctx, userInput, audit.Mitigation, activeProtocol.Temperature)
		if err != nil {
			r.logger.Error("replan failed", map[string]interface{}{"request_id": requestID, "error": err.Error()})
			log.Complete(false)
			return log, nil
		}
		log.AddCost(replanResp.Cost)
		log.PlannerResponse = &replanResp
		currentPlan = replanResp.Text

		if r.config.EnableValidator {
			reverifyResp, err := r.callValidator(ctx, currentPlan, userInput, activeProtocol.Temperature)
			if err != nil {
				r.logger.Warn("validator re-verification failed, continuing with prior verification", map[string]interface{}{
					"request_id": requestID, "error": err.Error(),
				})
			} else {
				log.AddCost(reverifyResp.Cost)
				log.ValidatorResponse = &reverifyResp
				currentVerification = reverifyResp.Text
			}
		}
	}

	if !auditPassed && r.config.FailClosedOnExhaustedRetries {
		r.logger.Error("max iterations exhausted, failing closed", map[string]interface{}{"request_id": requestID})
		log.Complete(false)
		return log, nil
	}

	// Pre-execution Jarvis check: the deterministic safety veto over the
	// final plan text, independent of whatever the auditor concluded.
	if jarvisEnabled {
		verdict := r.safety.VerifySafety(currentPlan, lastAudit.Mitigation)
		log.JarvisVerdicts = append(log.JarvisVerdicts, verdict)
		if !verdict.Allowed {
			telemetry.AddSpanEvent(ctx, "jarvis_blocked")
			telemetry.RecordRequestError(telemetry.ModuleOrchestration, "acsa.execute", "jarvis_block")
			r.logger.Error("jarvis blocked execution", map[string]interface{}{
				"request_id": requestID, "block_reason": verdict.BlockReason,
			})
			log.Complete(false)
			return log, nil
		}
		telemetry.AddSpanEvent(ctx, "jarvis_passed")
	}

	// Phase 4: Executor
	executorResp, err := r.callExecutor(ctx, currentPlan, lastAudit.Mitigation, activeProtocol.Temperature)
	if err != nil {
		r.logger.Error("executor phase failed", map[string]interface{}{"request_id": requestID, "error": err.Error()})
		log.Complete(false)
		return log, nil
	}
	log.AddCost(executorResp.Cost)
	log.ExecutorResponse = &executorResp
	finalOutput := executorResp.Text
	log.FinalOutput = &finalOutput

	log.Complete(true)

	r.logsMu.Lock()
	r.logs = append(r.logs, log)
	r.logsMu.Unlock()

	r.logger.Info("acsa execution completed", map[string]interface{}{
		"request_id": requestID, "total_time_ms": log.TotalTimeMS, "total_cost": log.TotalCost, "iterations": log.Iterations,
	})

	return log, nil
}

// Logs returns a snapshot copy of every successfully completed execution log
// retained by this Router.
func (r *Router) Logs() []*ACSAExecutionLog {
	r.logsMu.Lock()
	defer r.logsMu.Unlock()
	out := make([]*ACSAExecutionLog, len(r.logs))
	copy(out, r.logs)
	return out
}

func (r *Router) callPlanner(ctx context.Context, userInput string, temperature float64) (AgentResponse, error) {
	prompt := fmt.Sprintf(
		"As the Planner, analyze and create an optimal execution plan.\n\n"+
			"User Input: %s\n\n"+
			"Provide:\n"+
			"1. Intent Analysis\n"+
			"2. Goal Definition\n"+
			"3. Execution Steps\n"+
			"4. Expected Results\n"+
			"5. Potential Risks", userInput)
	return r.planner.Generate(ctx, prompt, 1500, temperature)
}

func (r *Router) callPlannerWithFeedback(ctx context.Context, userInput, auditorFeedback string, temperature float64) (AgentResponse, error) {
	prompt := fmt.Sprintf(
		"As the Planner, your previous plan was flagged by the Auditor.\n\n"+
			"User Input: %s\n\n"+
			"Auditor Feedback:\n%s\n\n"+
			"Create a SAFER and MORE COMPLIANT plan based on the feedback.", userInput, auditorFeedback)
	return r.planner.Generate(ctx, prompt, 1500, temperature)
}

func (r *Router) callValidator(ctx context.Context, plan, userInput string, _ float64) (AgentResponse, error) {
	prompt := fmt.Sprintf(
		"As the Validator, verify the plan's feasibility.\n\n"+
			"User Need: %s\n\n"+
			"Plan:\n%s\n\n"+
			"Verify:\n"+
			"1. Physical Feasibility\n"+
			"2. Logical Consistency\n"+
			"3. Hallucination Detection\n"+
			"4. Fact Checking", userInput, plan)
	return r.validator.Generate(ctx, prompt, 1000, 0.3)
}

func (r *Router) callAuditor(ctx context.Context, plan, verification, userInput string, _ float64) (AgentResponse, error) {
	prompt := fmt.Sprintf(
		"As the Auditor, identify ALL potential risks.\n\n"+
			"User Need: %s\n\n"+
			"Plan:\n%s\n\n"+
			"Validator Verification:\n%s\n\n"+
			"Audit:\n"+
			"1. Legal Risks\n"+
			"2. Physical Risks\n"+
			"3. Ethical Risks\n"+
			"4. Privacy Risks\n"+
			"5. Security Risks\n\n"+
			"OUTPUT FORMAT (STRICT):\n"+
			"RISK_SCORE: [0-100]\n"+
			"IS_SAFE: [true/false]\n"+
			"LEGAL_RISKS: [risk1, risk2, ...]\n"+
			"PHYSICAL_RISKS: [risk1, risk2, ...]\n"+
			"ETHICAL_RISKS: [risk1, risk2, ...]\n"+
			"MITIGATION: [how to fix the plan]", userInput, plan, verification)
	return r.auditor.Generate(ctx, prompt, 1500, 0.5)
}

func (r *Router) callExecutor(ctx context.Context, plan, mitigation string, temperature float64) (AgentResponse, error) {
	prompt := fmt.Sprintf(
		"As the Executor, execute the audited plan.\n\n"+
			"Execution Plan:\n%s\n\n"+
			"Safety Constraints:\n%s\n\n"+
			"Provide:\n"+
			"1. Detailed Execution Steps\n"+
			"2. Specific Instructions\n"+
			"3. Expected Output\n"+
			"4. Verification Method", plan, mitigation)
	return r.executor.Generate(ctx, prompt, 1500, temperature)
}
