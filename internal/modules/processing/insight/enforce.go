package insight

import (
	"fmt"
	"strings"
	"unicode"
)

const enforcedQuoteMaxRunes = 80

// enforce applies the non-negotiable response policies on top of whatever
// the generator produced. It returns a new StructuredAnalysis and never
// mutates its input. Applying it twice yields the same result.
//
// Policies:
//   - A coercive threat at high or critical risk always gets the firm
//     templated reply, a direct message, and a concrete action. The
//     generated reply for this scenario is advisory at best and is
//     replaced wholesale.
//   - A calm leaving announcement gets an acknowledgment with exactly one
//     concrete question and an offered direct message, never pressure to
//     stay.
func enforce(analysis StructuredAnalysis, category ScenarioCategory, originalText string) StructuredAnalysis {
	out := analysis
	out.Triage.RuleViolations = append([]string(nil), analysis.Triage.RuleViolations...)

	switch {
	case category == CategoryCoercionThreat && out.Triage.RiskLevel.IsElevated():
		quote := sanitizeExcerpt(originalText, enforcedQuoteMaxRunes)
		out.ToneReply.PublicReply = fmt.Sprintf(
			"You wrote: \"%s\". That is a threat, and threats have no place here. "+
				"We decide based on our community rules, not on pressure. "+
				"If you post another threat, we will remove your posts and suspend your account.",
			quote)
		out.ToneReply.IncludeDM = true
		out.ToneReply.DirectMessage = "Your comment crossed a line. Threats against this community or its members end the conversation. " +
			"If you want to raise your concern without the threat, write to us here and we will read it."
		if !isConcreteAction(out.ToneReply.Action) {
			out.ToneReply.Action = "warn"
		}

	case category == CategoryVoluntaryExit && !out.Triage.RiskLevel.IsElevated():
		out.ToneReply.PublicReply = "Thanks for telling us directly instead of just going quiet. " +
			"What was the moment that made you decide to leave? " +
			"If you would rather not discuss it publicly, send us a direct message."
		out.ToneReply.DirectMessage = ""
		out.ToneReply.IncludeDM = false
		if out.ToneReply.Action != "none" {
			out.ToneReply.Action = "none"
		}
	}

	return out
}

func isConcreteAction(action string) bool {
	switch action {
	case "warn", "restrict", "remove", "ban":
		return true
	}
	return false
}

// sanitizeExcerpt produces a quotable, lint-clean excerpt of the original
// comment: emoji and banned dashes removed, whitespace collapsed, bounded
// length.
func sanitizeExcerpt(text string, maxRunes int) string {
	var b strings.Builder
	for _, r := range text {
		switch {
		case r == '–' || r == '—':
			b.WriteRune('-')
		case isEmojiRune(r):
			// drop
		case r == '"':
			b.WriteRune('\'')
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case unicode.IsControl(r):
			// drop
		default:
			b.WriteRune(r)
		}
	}

	collapsed := strings.Join(strings.Fields(b.String()), " ")
	runes := []rune(collapsed)
	if len(runes) > maxRunes {
		collapsed = strings.TrimSpace(string(runes[:maxRunes])) + "..."
	}
	return collapsed
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r == 0xFE0F:
		return true
	case r >= 0x1F000 && r <= 0x1F0FF:
		return true
	}
	return false
}
