// Package protocol implements the style/protocol engine: a pure selector
// over user input that picks per-request weights, temperature, and Jarvis
// filter policy. It holds no mutable state observable outside a single
// request and never calls providers.
package protocol

import "strings"

// Protocol is a named style. The eight fixed styles plus Custom cover every
// recipe for_protocol can return.
type Protocol struct {
	name   string
	custom bool
}

var (
	ProtocolArchitect  = Protocol{name: "architect"}   // code/hacker
	ProtocolReviewer2  = Protocol{name: "reviewer2"}    // research
	ProtocolAegis      = Protocol{name: "aegis"}        // legal
	ProtocolPredator   = Protocol{name: "predator"}     // finance
	ProtocolMcKinsey   = Protocol{name: "mckinsey"}     // consulting
	ProtocolLsd        = Protocol{name: "lsd"}          // design/creative
	ProtocolGhost      = Protocol{name: "ghost"}        // stealth/shadow
	ProtocolSunday     = Protocol{name: "sunday"}       // daily/entertainment
)

// Custom returns a Protocol carrying an arbitrary operator-defined name.
func Custom(name string) Protocol {
	return Protocol{name: name, custom: true}
}

// Name returns the protocol's identifying slug.
func (p Protocol) Name() string {
	if p.custom {
		return "custom:" + p.name
	}
	return p.name
}

// IsCustom reports whether this is an operator-defined Custom protocol.
func (p Protocol) IsCustom() bool {
	return p.custom
}

// DisplayName returns a human-facing title for logs and prompts.
func (p Protocol) DisplayName() string {
	switch p {
	case ProtocolArchitect:
		return "Architect"
	case ProtocolReviewer2:
		return "Reviewer-2"
	case ProtocolAegis:
		return "Aegis"
	case ProtocolPredator:
		return "Predator"
	case ProtocolMcKinsey:
		return "McKinsey"
	case ProtocolLsd:
		return "LSD"
	case ProtocolGhost:
		return "Ghost"
	case ProtocolSunday:
		return "Sunday"
	default:
		if p.custom {
			return p.name
		}
		return "Unknown"
	}
}

// Tagline returns a short one-line description of the style's intent.
func (p Protocol) Tagline() string {
	switch p {
	case ProtocolArchitect:
		return "Ship working code fast, review lightly."
	case ProtocolReviewer2:
		return "Verify before you trust."
	case ProtocolAegis:
		return "Compliance first, execution last."
	case ProtocolPredator:
		return "Act decisively under uncertainty."
	case ProtocolMcKinsey:
		return "Structure the problem before solving it."
	case ProtocolLsd:
		return "Explore the widest space of ideas."
	case ProtocolGhost:
		return "Move quietly, minimize footprint."
	case ProtocolSunday:
		return "Low-stakes, conversational, fast."
	default:
		return "Operator-defined balance of planning, validation and audit."
	}
}

// Philosophy returns the longer-form rationale for this style's weight
// recipe, used in onboarding docs and --help-style output.
func (p Protocol) Philosophy() string {
	switch p {
	case ProtocolArchitect:
		return "Coding tasks are cheap to verify by running them; over-auditing wastes iterations better spent executing."
	case ProtocolReviewer2:
		return "Research claims are expensive to unwind once trusted; validator gets the largest weight of any style."
	case ProtocolAegis:
		return "Legal and compliance questions are almost entirely an audit problem — planning and execution are thin wrappers."
	case ProtocolPredator:
		return "Financial decisions reward speed; planning and execution dominate, validation and audit carry no weight."
	case ProtocolMcKinsey:
		return "Consulting deliverables need a strong planning phase with a meaningful but secondary validation pass."
	case ProtocolLsd:
		return "Creative work benefits from loose constraints and high temperature; validation and audit carry no weight."
	case ProtocolGhost:
		return "Stealth/shadow operations balance planning and execution with a light audit, no validator."
	case ProtocolSunday:
		return "Everyday requests are low-risk; heavy planning with light execution, no validation or audit weight."
	default:
		return "Balanced default recipe for styles without a dedicated detection keyword set."
	}
}

// keywordRoute pairs a protocol with its detection keyword list. Order is
// significant: the documented detection order is
// code/hacker -> legal -> finance -> research -> consulting -> design/creative -> daily/entertainment.
// Ghost/stealth has no detection keywords — it requires explicit selection.
var keywordRoutes = []struct {
	protocol Protocol
	keywords []string
}{
	{ProtocolArchitect, []string{"code", "bug", "refactor", "compile", "debug", "爬虫", "函数", "hacker", "exploit", "写代码"}},
	{ProtocolAegis, []string{"legal", "compliance", "contract", "法律", "合规", "合同", "lawsuit"}},
	{ProtocolPredator, []string{"finance", "invest", "trading", "stock", "金融", "投资", "股票", "portfolio"}},
	{ProtocolReviewer2, []string{"research", "paper", "study", "研究", "论文", "fact-check", "citation"}},
	{ProtocolMcKinsey, []string{"consult", "strategy", "business plan", "咨询", "战略", "roadmap"}},
	{ProtocolLsd, []string{"design", "creative", "art", "设计", "创意", "brainstorm", "story"}},
	{ProtocolSunday, []string{"daily", "chat", "饿了", "闲聊", "entertainment", "joke", "weather"}},
}

// DetectFromInput inspects lowercased text for category keywords in the
// fixed order above and returns the first match. Returns (zero, false) when
// nothing matches — a total function, same input always yields the same
// result.
func DetectFromInput(text string) (Protocol, bool) {
	lower := strings.ToLower(text)
	for _, route := range keywordRoutes {
		for _, kw := range route.keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return route.protocol, true
			}
		}
	}
	return Protocol{}, false
}

// All returns the eight named styles (excluding Custom, which is open-ended).
func All() []Protocol {
	return []Protocol{
		ProtocolArchitect,
		ProtocolReviewer2,
		ProtocolAegis,
		ProtocolPredator,
		ProtocolMcKinsey,
		ProtocolLsd,
		ProtocolGhost,
		ProtocolSunday,
	}
}
