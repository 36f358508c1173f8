package insight

// ScenarioCategory is the coarse intent/risk category of a comment, derived
// purely from lexical pattern matching. It selects deterministic overrides
// and category-specific lint rules; it is never persisted.
type ScenarioCategory string

const (
	CategoryCoercionThreat  ScenarioCategory = "coercion_threat"
	CategoryPersonalAttack  ScenarioCategory = "personal_attack"
	CategoryVoluntaryExit   ScenarioCategory = "voluntary_exit"
	CategoryNeutralCritique ScenarioCategory = "neutral_critique"
	CategoryOther           ScenarioCategory = "other"
)

// RiskLevel is the ordinal triage risk.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// IsElevated reports whether the level is high or critical.
func (r RiskLevel) IsElevated() bool {
	return r == RiskHigh || r == RiskCritical
}

// Triage is the first analysis stage: risk and removal decision.
type Triage struct {
	RiskLevel         RiskLevel `json:"risk_level"`
	RemoveImmediately bool      `json:"remove_immediately"`
	RuleViolations    []string  `json:"rule_violations"`
	Rationale         string    `json:"rationale"`
	Assumption        string    `json:"assumption"`
}

// MessageAnalysis captures the four facets of the comment as an act of
// communication.
type MessageAnalysis struct {
	FactualContent     string `json:"factual_content"`
	SelfRevelation     string `json:"self_revelation"`
	RelationshipSignal string `json:"relationship_signal"`
	ImpliedDemand      string `json:"implied_demand"`
}

// GroupDynamics describes the social framing of the comment inside the
// community.
type GroupDynamics struct {
	InOutGroupFraming string `json:"in_out_group_framing"`
	CommunityNorms    string `json:"community_norms"`
	AudienceMessage   string `json:"audience_message"`
}

// ToneReply is the drafted moderator response. Exactly one public reply;
// the direct message is used only when IncludeDM is true.
type ToneReply struct {
	PublicReply   string `json:"public_reply"`
	IncludeDM     bool   `json:"include_dm"`
	DirectMessage string `json:"direct_message"`
	Action        string `json:"action"` // none | warn | restrict | remove | ban
}

// StructuredAnalysis is the schema-constrained generation output. Every
// field is always present; optional semantics are expressed with empty
// strings and false flags, never absent fields.
type StructuredAnalysis struct {
	Triage          Triage          `json:"triage"`
	MessageAnalysis MessageAnalysis `json:"message_analysis"`
	GroupDynamics   GroupDynamics   `json:"group_dynamics"`
	ToneReply       ToneReply       `json:"tone_reply"`
}

// Result is the outcome of one full pipeline run.
type Result struct {
	Document string
	Analysis StructuredAnalysis
	Category ScenarioCategory
	Model    string
	Attempts int
	Warnings []string
}
