package protocol

import "math"

// AgentWeights is a recipe consumed at prompt-construction time (tone,
// emphasis, filter policy) — it never causes the router to skip a phase.
type AgentWeights struct {
	Planner   float64
	Validator float64
	Auditor   float64
	Executor  float64
}

const weightTolerance = 0.01

// IsValid reports whether the weights are each non-negative and sum to
// 1.0 within tolerance.
func (w AgentWeights) IsValid() bool {
	if w.Planner < 0 || w.Validator < 0 || w.Auditor < 0 || w.Executor < 0 {
		return false
	}
	sum := w.Planner + w.Validator + w.Auditor + w.Executor
	return math.Abs(sum-1.0) <= weightTolerance
}

// Normalize rescales the weights so they sum to 1.0. A zero-sum input is
// returned unchanged — there is nothing meaningful to rescale.
func (w AgentWeights) Normalize() AgentWeights {
	sum := w.Planner + w.Validator + w.Auditor + w.Executor
	if sum == 0 {
		return w
	}
	return AgentWeights{
		Planner:   w.Planner / sum,
		Validator: w.Validator / sum,
		Auditor:   w.Auditor / sum,
		Executor:  w.Executor / sum,
	}
}

// ProtocolConfig is a recipe chosen per-request — not shared mutable state.
type ProtocolConfig struct {
	Protocol               Protocol
	AgentWeights           AgentWeights
	Temperature            float64 // [0,2]
	EnableJarvisFilter     bool
	EnableHighFreqCommands bool
	Description            string
}

// ForProtocol returns the fixed recipe for a named style. Custom protocols
// receive the documented balanced default.
func ForProtocol(p Protocol) ProtocolConfig {
	switch p {
	case ProtocolArchitect:
		return ProtocolConfig{
			Protocol:               p,
			AgentWeights:           AgentWeights{Planner: 0.00, Validator: 0.15, Auditor: 0.05, Executor: 0.80},
			Temperature:            0.2,
			EnableJarvisFilter:     false,
			EnableHighFreqCommands: true,
			Description:            "Fast iterative coding: plan lightly, execute heavily, audit barely.",
		}
	case ProtocolReviewer2:
		return ProtocolConfig{
			Protocol:               p,
			AgentWeights:           AgentWeights{Planner: 0.30, Validator: 0.60, Auditor: 0.10, Executor: 0.00},
			Temperature:            0.1,
			EnableJarvisFilter:     true,
			EnableHighFreqCommands: false,
			Description:            "Research verification: validator dominates, no execution phase weight.",
		}
	case ProtocolAegis:
		return ProtocolConfig{
			Protocol:               p,
			AgentWeights:           AgentWeights{Planner: 0.05, Validator: 0.05, Auditor: 0.90, Executor: 0.00},
			Temperature:            0.05,
			EnableJarvisFilter:     true,
			EnableHighFreqCommands: false,
			Description:            "Legal/compliance: audit carries nearly all the weight, near-zero temperature.",
		}
	case ProtocolPredator:
		return ProtocolConfig{
			Protocol:               p,
			AgentWeights:           AgentWeights{Planner: 0.50, Validator: 0.00, Auditor: 0.00, Executor: 0.50},
			Temperature:            1.0,
			EnableJarvisFilter:     false,
			EnableHighFreqCommands: true,
			Description:            "Financial decisions: plan and execute, no validation or audit weight.",
		}
	case ProtocolMcKinsey:
		return ProtocolConfig{
			Protocol:               p,
			AgentWeights:           AgentWeights{Planner: 0.70, Validator: 0.20, Auditor: 0.10, Executor: 0.00},
			Temperature:            0.3,
			EnableJarvisFilter:     true,
			EnableHighFreqCommands: false,
			Description:            "Consulting deliverables: strong planning, secondary validation.",
		}
	case ProtocolLsd:
		return ProtocolConfig{
			Protocol:               p,
			AgentWeights:           AgentWeights{Planner: 0.80, Validator: 0.00, Auditor: 0.00, Executor: 0.20},
			Temperature:            1.5,
			EnableJarvisFilter:     false,
			EnableHighFreqCommands: true,
			Description:            "Creative exploration: heavy planning, high temperature, thin execution.",
		}
	case ProtocolGhost:
		return ProtocolConfig{
			Protocol:               p,
			AgentWeights:           AgentWeights{Planner: 0.40, Validator: 0.00, Auditor: 0.10, Executor: 0.50},
			Temperature:            0.4,
			EnableJarvisFilter:     false,
			EnableHighFreqCommands: true,
			Description:            "Stealth operations: balanced plan/execute, light audit, no validator.",
		}
	case ProtocolSunday:
		return ProtocolConfig{
			Protocol:               p,
			AgentWeights:           AgentWeights{Planner: 0.80, Validator: 0.00, Auditor: 0.00, Executor: 0.20},
			Temperature:            1.2,
			EnableJarvisFilter:     false,
			EnableHighFreqCommands: true,
			Description:            "Everyday low-stakes requests: heavy planning, light execution.",
		}
	default:
		return ProtocolConfig{
			Protocol:               p,
			AgentWeights:           AgentWeights{Planner: 0.50, Validator: 0.20, Auditor: 0.20, Executor: 0.10},
			Temperature:            0.7,
			EnableJarvisFilter:     true,
			EnableHighFreqCommands: false,
			Description:            "Custom/operator-defined style: balanced default recipe.",
		}
	}
}
