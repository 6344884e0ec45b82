// Command acsa runs a single ACSA cycle against the configured providers and
// prints the resulting execution log.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/o-sovereign/acsa-orchestrator/acsa"
	"github.com/o-sovereign/acsa-orchestrator/acsa/jarvis"
	"github.com/o-sovereign/acsa-orchestrator/acsa/protocol"
	_ "github.com/o-sovereign/acsa-orchestrator/acsa/providers"
	"github.com/o-sovereign/acsa-orchestrator/core"
	"github.com/o-sovereign/acsa-orchestrator/telemetry"
)

func main() {
	var (
		input           = flag.String("input", "", "user request to run through the ACSA loop")
		backend         = flag.String("backend", "", "provider backend for the planner/validator/auditor/executor roles (e.g. openai, anthropic, gemini, openrouter, siliconflow, deepseek, mock)")
		useMock         = flag.Bool("mock", false, "force the mock provider for every role regardless of -backend")
		protocolName    = flag.String("protocol", "architect", "starting protocol (architect, reviewer2, aegis, predator, mckinsey, lsd, ghost, sunday, or a custom name)")
		disableJarvis   = flag.Bool("disable-jarvis", false, "disable the Jarvis pre-execution safety check")
		listProviders   = flag.Bool("list-providers", false, "print registered provider backend names and exit")
		riskThreshold   = flag.Int("risk-threshold", 70, "audit risk score must be strictly below this to pass")
		maxIterations   = flag.Int("max-iterations", 3, "maximum planner/auditor replan iterations")
		failClosed      = flag.Bool("fail-closed", false, "abort instead of executing a risky plan when iterations are exhausted")
	)
	flag.Parse()

	if *listProviders {
		names := acsa.RegisteredFactoryNames()
		sort.Strings(names)
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	if *input == "" {
		fmt.Fprintln(os.Stderr, "acsa: -input is required (or pass -list-providers)")
		os.Exit(2)
	}

	logger := core.NewProductionLogger(
		core.LoadLoggingConfigFromEnv(),
		core.LoadDevelopmentConfigFromEnv(),
		"acsa-cli",
	)

	cfg := acsa.ProviderConfig{UseMock: *useMock}

	planner, err := acsa.CreateProvider(acsa.RolePlanner, *backend, cfg)
	if err != nil {
		fail(logger, "failed to create planner provider", err)
	}
	validator, err := acsa.CreateProvider(acsa.RoleValidator, *backend, cfg)
	if err != nil {
		fail(logger, "failed to create validator provider", err)
	}
	auditor, err := acsa.CreateProvider(acsa.RoleAuditor, *backend, cfg)
	if err != nil {
		fail(logger, "failed to create auditor provider", err)
	}
	executor, err := acsa.CreateProvider(acsa.RoleExecutor, *backend, cfg)
	if err != nil {
		fail(logger, "failed to create executor provider", err)
	}

	protoMgr := protocol.NewManager()
	protoMgr.SwitchProtocol(resolveProtocol(*protocolName))
	if overridePath := os.Getenv("ACSA_PROTOCOL_OVERRIDES"); overridePath != "" {
		if err := protoMgr.LoadOverrides(overridePath); err != nil {
			logger.Warn("protocol overrides not applied", map[string]interface{}{"path": overridePath, "error": err.Error()})
		}
	}

	acsaConfig := acsa.DefaultACSAConfig()
	acsaConfig.RiskThreshold = uint8(*riskThreshold)
	acsaConfig.MaxIterations = uint32(*maxIterations)
	acsaConfig.FailClosedOnExhaustedRetries = *failClosed

	opts := []acsa.RouterOption{
		acsa.WithProtocolManager(protoMgr),
		acsa.WithRouterLogger(logger),
	}
	if !*disableJarvis {
		opts = append(opts, acsa.WithSafety(jarvis.New()))
	}

	// Initialize activates the registry once and wires framework integration
	// (core.SetMetricsRegistry) — without this call every Emit/
	// RecordRequest/RecordAIRequest call in acsa/ and acsa/providers/ is a
	// silent no-op, since globalRegistry stays nil for the life of the
	// process until Initialize populates it.
	telemetryCfg := telemetry.UseProfile(telemetry.ProfileDevelopment)
	telemetryCfg.ServiceName = "acsa-cli"
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		telemetryCfg.Endpoint = endpoint
	}
	if err := telemetry.Initialize(telemetryCfg); err != nil {
		logger.Warn("telemetry initialization failed, continuing without metrics/tracing", map[string]interface{}{"error": err.Error()})
	} else {
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = telemetry.Shutdown(shutdownCtx)
		}()
		if provider := telemetry.GetTelemetryProvider(); provider != nil {
			opts = append(opts, acsa.WithRouterTelemetry(provider))
		}
	}

	router := acsa.NewRouter(planner, validator, auditor, executor, acsaConfig, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log, err := router.Execute(ctx, *input)
	if err != nil {
		fail(logger, "execution aborted", err)
	}

	printLog(log)
}

func resolveProtocol(name string) protocol.Protocol {
	for _, p := range protocol.All() {
		if p.Name() == name {
			return p
		}
	}
	return protocol.Custom(name)
}

func fail(logger core.Logger, msg string, err error) {
	logger.Error(msg, map[string]interface{}{"error": err.Error()})
	os.Exit(1)
}

func printLog(log *acsa.ACSAExecutionLog) {
	fmt.Printf("iterations: %d\n", log.Iterations)
	fmt.Printf("success: %v\n", log.Success)
	fmt.Printf("total cost: $%.4f\n", log.TotalCost)
	fmt.Printf("total time: %dms\n", log.TotalTimeMS)

	if len(log.JarvisVerdicts) > 0 {
		verdict := log.JarvisVerdicts[len(log.JarvisVerdicts)-1]
		fmt.Printf("jarvis allowed: %v (risk %d/10)\n", verdict.Allowed, verdict.RiskLevel)
		if !verdict.Allowed {
			fmt.Printf("jarvis block reason: %s\n", verdict.BlockReason)
		}
	}

	if log.AuditResultValue != nil {
		fmt.Printf("audit risk score: %d/100 (safe=%v)\n", log.AuditResultValue.RiskScore, log.AuditResultValue.IsSafe)
	}

	if log.FinalOutput != nil {
		fmt.Println("\n--- final output ---")
		fmt.Println(*log.FinalOutput)
	}
}
