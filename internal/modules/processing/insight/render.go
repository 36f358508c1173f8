package insight

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	headingRiskTriage      = "## Risk Triage"
	headingMessageAnalysis = "## Message Analysis"
	headingGroupDynamics   = "## Group Dynamics"
	headingReplyDraft      = "## Reply Draft"

	publicReplyMarker   = "Public reply:"
	directMessageMarker = "Direct message:"

	continueSentence = "No immediate removal needed, continue to step 1."

	unspecifiedFiller = "(not specified)"
)

var blankLineRuns = regexp.MustCompile(`\n{3,}`)

// renderDocument turns the structured analysis into the fixed four-section
// markdown document. Pure and total: any input yields a document, the same
// input always yields the same document.
func renderDocument(analysis StructuredAnalysis) string {
	var b strings.Builder

	b.WriteString(headingRiskTriage + "\n\n")
	fmt.Fprintf(&b, "Risk level: %s\n\n", orFiller(string(analysis.Triage.RiskLevel)))
	if analysis.Triage.RemoveImmediately {
		b.WriteString("Decision: remove immediately.\n\n")
	} else {
		b.WriteString("Decision: " + continueSentence + "\n\n")
	}
	if len(analysis.Triage.RuleViolations) > 0 {
		b.WriteString("Rule violations:\n")
		for _, rule := range analysis.Triage.RuleViolations {
			fmt.Fprintf(&b, "- %s\n", orFiller(rule))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Rationale: %s\n\n", orFiller(analysis.Triage.Rationale))
	if strings.TrimSpace(analysis.Triage.Assumption) != "" {
		fmt.Fprintf(&b, "Assumption: %s\n\n", strings.TrimSpace(analysis.Triage.Assumption))
	}

	b.WriteString(headingMessageAnalysis + "\n\n")
	fmt.Fprintf(&b, "Factual content: %s\n\n", orFiller(analysis.MessageAnalysis.FactualContent))
	fmt.Fprintf(&b, "Self-revelation: %s\n\n", orFiller(analysis.MessageAnalysis.SelfRevelation))
	fmt.Fprintf(&b, "Relationship signal: %s\n\n", orFiller(analysis.MessageAnalysis.RelationshipSignal))
	fmt.Fprintf(&b, "Implied demand: %s\n\n", orFiller(analysis.MessageAnalysis.ImpliedDemand))

	b.WriteString(headingGroupDynamics + "\n\n")
	fmt.Fprintf(&b, "In-group/out-group framing: %s\n\n", orFiller(analysis.GroupDynamics.InOutGroupFraming))
	fmt.Fprintf(&b, "Community norms: %s\n\n", orFiller(analysis.GroupDynamics.CommunityNorms))
	fmt.Fprintf(&b, "Message to the audience: %s\n\n", orFiller(analysis.GroupDynamics.AudienceMessage))

	b.WriteString(headingReplyDraft + "\n\n")
	fmt.Fprintf(&b, "%s %s\n\n", publicReplyMarker, orFiller(analysis.ToneReply.PublicReply))
	if analysis.ToneReply.IncludeDM && strings.TrimSpace(analysis.ToneReply.DirectMessage) != "" {
		fmt.Fprintf(&b, "%s %s\n\n", directMessageMarker, strings.TrimSpace(analysis.ToneReply.DirectMessage))
	}
	fmt.Fprintf(&b, "Action: %s\n", orFiller(analysis.ToneReply.Action))

	doc := blankLineRuns.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(doc)
}

func orFiller(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return unspecifiedFiller
	}
	return trimmed
}
