package insight

import (
	"fmt"
	"regexp"
	"strings"
)

// Phrases the brand voice bans outright, checked case-insensitively against
// the whole document. German variants included for the bilingual community.
var bannedPhrases = []string{
	"we apologize for any inconvenience",
	"thank you for your feedback",
	"please do not hesitate",
	"we take this very seriously",
	"as per our policy",
	"wir entschuldigen uns",
	"vielen dank für ihr feedback",
	"vielen dank für dein feedback",
	"zögern sie nicht",
	"wir nehmen das sehr ernst",
	"gemäß unserer richtlinie",
}

// Soft empathy filler is banned only in replies to elevated-risk comments,
// where it reads as backing down.
var softEmpathyPhrases = []string{
	"we understand your frustration",
	"we hear you",
	"wir verstehen deinen frust",
	"wir verstehen ihren frust",
	"wir hören dich",
}

var concreteActionVerb = regexp.MustCompile(`(?i)\b(remove|ban|restrict|suspend|warn)`)

// lint checks the rendered document and the structured analysis against the
// response contract. Each check is independent; an empty result means the
// output is compliant. Findings are human-readable and double as corrective
// feedback for the repair loop.
func lint(doc string, analysis StructuredAnalysis, category ScenarioCategory) []string {
	var findings []string

	for _, heading := range []string{headingRiskTriage, headingMessageAnalysis, headingGroupDynamics, headingReplyDraft} {
		if n := strings.Count(doc, heading); n != 1 {
			findings = append(findings, fmt.Sprintf("heading %q must appear exactly once, found %d", heading, n))
		}
	}

	if n := strings.Count(doc, publicReplyMarker); n != 1 {
		findings = append(findings, fmt.Sprintf("exactly one %q block required, found %d", publicReplyMarker, n))
	}
	if n := strings.Count(doc, directMessageMarker); n > 1 {
		findings = append(findings, fmt.Sprintf("at most one %q block allowed, found %d", directMessageMarker, n))
	}

	if strings.ContainsRune(doc, '–') || strings.ContainsRune(doc, '—') {
		findings = append(findings, "document contains an en dash or em dash")
	}
	if containsEmoji(doc) {
		findings = append(findings, "document contains emoji")
	}

	lowered := strings.ToLower(doc)
	for _, phrase := range bannedPhrases {
		if strings.Contains(lowered, phrase) {
			findings = append(findings, fmt.Sprintf("banned phrase present: %q", phrase))
		}
	}

	if !analysis.Triage.RemoveImmediately && !strings.Contains(doc, continueSentence) {
		findings = append(findings, fmt.Sprintf("missing mandatory sentence %q", continueSentence))
	}

	reply := analysis.ToneReply.PublicReply
	loweredReply := strings.ToLower(reply)

	if analysis.Triage.RiskLevel.IsElevated() {
		if !concreteActionVerb.MatchString(reply) {
			findings = append(findings, "elevated-risk reply must name a concrete action (remove, ban, restrict, suspend, warn)")
		}
		for _, phrase := range softEmpathyPhrases {
			if strings.Contains(loweredReply, phrase) {
				findings = append(findings, fmt.Sprintf("elevated-risk reply contains soft empathy filler: %q", phrase))
			}
		}
	}

	switch category {
	case CategoryCoercionThreat:
		if analysis.Triage.RiskLevel.IsElevated() && !analysis.ToneReply.IncludeDM {
			findings = append(findings, "high-risk threat requires a direct message")
		}
	case CategoryVoluntaryExit:
		if !analysis.Triage.RiskLevel.IsElevated() {
			if !strings.Contains(reply, "?") {
				findings = append(findings, "leaving-announcement reply must ask a concrete question")
			}
			if !strings.Contains(loweredReply, "direct message") && !strings.Contains(loweredReply, "direktnachricht") {
				findings = append(findings, "leaving-announcement reply must offer a direct message")
			}
		}
	}

	return findings
}

func containsEmoji(text string) bool {
	for _, r := range text {
		if isEmojiRune(r) {
			return true
		}
	}
	return false
}
