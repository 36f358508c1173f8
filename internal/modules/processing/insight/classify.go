package insight

import "regexp"

// Lexical trigger lists for the scenario classifier. The corpus and most of
// the community are German-speaking, so German triggers sit next to the
// English ones. These lists are a starting policy table, tuned from observed
// comments, not an exhaustive taxonomy.
var (
	coercionThreatPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bor else\b`),
		regexp.MustCompile(`(?i)\bi('| wi)ll make sure\b`),
		regexp.MustCompile(`(?i)\byou('| wi)ll regret\b`),
		regexp.MustCompile(`(?i)\b(remove|delete)\b.{0,60}\bor\b.{0,60}\b(i|we)\b`),
		regexp.MustCompile(`(?i)\blose(s)? members\b`),
		regexp.MustCompile(`(?i)\bi('| wi)ll (report|expose|ruin|destroy)\b`),
		regexp.MustCompile(`(?i)\bsonst\b.{0,60}\b(werde|werden|gibt)\b`),
		regexp.MustCompile(`(?i)\bansonsten\b`),
		regexp.MustCompile(`(?i)\bdrohe\b|\bich warne (dich|euch)\b`),
		regexp.MustCompile(`(?i)\bmitglieder verlier`),
	}

	personalAttackPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(idiot|idiots|idioten|moron|stupid|dumb|pathetic|incompetent|clown|clowns)\b`),
		regexp.MustCompile(`(?i)\byou people are\b`),
		regexp.MustCompile(`(?i)\bworst (mod|mods|moderator|admin)\b`),
		regexp.MustCompile(`(?i)\b(dumm|d[äa]mlich|l[äa]cherlich|unf[äa]hig|versager)\b`),
		regexp.MustCompile(`(?i)\bihr seid (alle )?(doof|bl[öo]d)\b`),
	}

	voluntaryExitPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bi('| a)m leaving\b`),
		regexp.MustCompile(`(?i)\bi quit\b`),
		regexp.MustCompile(`(?i)\bunsubscrib`),
		regexp.MustCompile(`(?i)\bdone with this (group|community|forum)\b`),
		regexp.MustCompile(`(?i)\bdelet(e|ing) my account\b`),
		regexp.MustCompile(`(?i)\bich verlasse\b`),
		regexp.MustCompile(`(?i)\btrete aus\b`),
		regexp.MustCompile(`(?i)\bk[üu]ndige\b`),
		regexp.MustCompile(`(?i)\bich bin (dann mal )?raus\b`),
	}

	neutralCritiquePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(suggest|suggestion|feedback|improve|improvement)\b`),
		regexp.MustCompile(`(?i)\bcould be better\b`),
		regexp.MustCompile(`(?i)\bi disagree\b`),
		regexp.MustCompile(`(?i)\bdon'?t like (the|this|how)\b`),
		regexp.MustCompile(`(?i)\b(vorschlag|kritik|verbessern|feedback)\b`),
		regexp.MustCompile(`(?i)\bfinde ich nicht gut\b`),
	}
)

// Classify maps a comment to its scenario category. Pure pattern matching,
// no failure modes. When several categories match, threat signals dominate:
// coercion_threat > personal_attack > voluntary_exit > neutral_critique.
func Classify(text string) ScenarioCategory {
	ordered := []struct {
		category ScenarioCategory
		patterns []*regexp.Regexp
	}{
		{CategoryCoercionThreat, coercionThreatPatterns},
		{CategoryPersonalAttack, personalAttackPatterns},
		{CategoryVoluntaryExit, voluntaryExitPatterns},
		{CategoryNeutralCritique, neutralCritiquePatterns},
	}

	for _, entry := range ordered {
		for _, pattern := range entry.patterns {
			if pattern.MatchString(text) {
				return entry.category
			}
		}
	}
	return CategoryOther
}
