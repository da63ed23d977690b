// Package scoring holds the pure text heuristics: rubric scoring of
// candidate answers and the diagnostic plan recommendation. No I/O.
package scoring

import (
	"regexp"
	"strings"
	"unicode"
)

// Evaluation mirrors what gets persisted per evaluated answer. Scores
// run 0..5 per rubric.
type Evaluation struct {
	RubricScores    map[string]int
	SummaryFeedback string
	Contradictions  []string
	Flags           map[string]bool
}

var vagueWords = []string{
	"maybe", "probably", "perhaps", "somehow", "kind of", "sort of", "i guess",
	"вроде", "как бы", "наверное", "возможно", "типа", "короче", "как-то",
	"irgendwie", "vielleicht", "sozusagen", "quasi",
}

var blameShiftMarkers = []string{
	"they made me", "it was their fault", "not my fault", "forced me",
	"меня заставили", "они виноваты", "не моя вина", "виноваты они",
	"ich konnte nichts dafür", "die anderen", "die schuld liegt",
}

var responsibilityMarkers = []string{
	"i did", "i decided", "i chose", "i take responsibility", "i was wrong",
	"я сделал", "я решил", "я выбирал", "я беру ответственность", "я был неправ",
	"ich habe", "ich entschied", "ich übernehme verantwortung", "ich habe einen fehler gemacht",
}

var actionVerbs = []string{
	"stopped", "quit", "changed", "started", "learned", "planned", "scheduled", "attend",
	"перестал", "бросил", "изменил", "начал", "выучил", "планирую", "записался", "посещаю",
	"aufgehört", "geändert", "begonnen", "gelernt", "plane", "habe mich angemeldet",
}

var timeHints = []string{
	"yesterday", "today", "tomorrow", "last", "since", "month", "week", "year",
	"вчера", "сегодня", "завтра", "прошл", "недел", "месяц", "год",
	"gestern", "heute", "morgen", "seit", "woche", "monat", "jahr",
}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
	"январ", "феврал", "март", "апрел", "май", "июн", "июл",
	"сентябр", "октябр", "ноябр", "декабр",
	"januar", "februar", "märz", "mai", "juni", "juli",
	"oktober", "dezember",
}

var contradictionPairs = [][2]string{
	{"never", "sometimes"},
	{"always", "sometimes"},
	{"never", "often"},
	{"никогда", "иногда"},
	{"всегда", "иногда"},
	{"никогда", "часто"},
	{"nie", "manchmal"},
	{"immer", "manchmal"},
}

var (
	digitRe     = regexp.MustCompile(`\d`)
	cityRe      = regexp.MustCompile(`(?i)\b(berlin|hamburg|münchen|munich|köln|cologne|kyiv|kiev|frankfurt)\b`)
	placeHintRe = regexp.MustCompile(`\b(in|at|в|у|bei)\s+\p{Lu}`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

type signals struct {
	wordCount      int
	hasNumbers     bool
	hasTime        bool
	hasPlaceLike   bool
	hasActions     bool
	responsibility bool
	blameShift     bool
	vagueness      bool
	contradictions []string
}

func normalize(s string) string {
	return spaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

func wordCount(s string) int {
	return len(strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}))
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func detectSignals(content string) signals {
	txt := normalize(content)

	hasNumbers := digitRe.MatchString(txt)
	hasTime := hasNumbers || containsAny(txt, monthNames) || containsAny(txt, timeHints)
	hasPlaceLike := placeHintRe.MatchString(content) || cityRe.MatchString(txt)

	contradictions := make([]string, 0)
	for _, pair := range contradictionPairs {
		if strings.Contains(txt, pair[0]) && strings.Contains(txt, pair[1]) {
			contradictions = append(contradictions, "'"+pair[0]+"' vs '"+pair[1]+"'")
		}
	}

	return signals{
		wordCount:      wordCount(txt),
		hasNumbers:     hasNumbers,
		hasTime:        hasTime,
		hasPlaceLike:   hasPlaceLike,
		hasActions:     containsAny(txt, actionVerbs),
		responsibility: containsAny(txt, responsibilityMarkers),
		blameShift:     containsAny(txt, blameShiftMarkers),
		vagueness:      containsAny(txt, vagueWords),
		contradictions: contradictions,
	}
}

func clamp(x int) int {
	if x < 0 {
		return 0
	}
	if x > 5 {
		return 5
	}
	return x
}

// EvaluateAnswer scores one candidate answer against the four rubrics.
func EvaluateAnswer(content string) *Evaluation {
	s := detectSignals(content)

	// Clarity penalizes both too-short and rambling answers.
	var clarity int
	switch {
	case s.wordCount < 10:
		clarity = 1
	case s.wordCount < 25:
		clarity = 3
	case s.wordCount < 80:
		clarity = 4
	default:
		clarity = 3
	}
	if s.vagueness {
		clarity--
	}
	clarity = clamp(clarity)

	specificity := 1
	if s.hasTime {
		specificity++
	}
	if s.hasNumbers {
		specificity++
	}
	if s.hasPlaceLike {
		specificity++
	}
	if s.hasActions {
		specificity++
	}
	if s.vagueness {
		specificity--
	}
	specificity = clamp(specificity)

	responsibility := 2
	if s.responsibility {
		responsibility += 2
	}
	if s.hasActions {
		responsibility++
	}
	if s.blameShift {
		responsibility -= 2
	}
	responsibility = clamp(responsibility)

	// Without history only self-contradiction markers count against
	// consistency.
	consistency := 4
	if s.vagueness {
		consistency--
	}
	if len(s.contradictions) > 0 {
		consistency -= 2
	}
	consistency = clamp(consistency)

	flags := map[string]bool{
		"too_short":             s.wordCount < 10,
		"vague_language":        s.vagueness,
		"missing_timeline":      !s.hasTime,
		"missing_actions":       !s.hasActions,
		"blame_shift":           s.blameShift,
		"contradiction_markers": len(s.contradictions) > 0,
	}

	return &Evaluation{
		RubricScores: map[string]int{
			"clarity":        clarity,
			"specificity":    specificity,
			"consistency":    consistency,
			"responsibility": responsibility,
		},
		SummaryFeedback: buildFeedback(flags),
		Contradictions:  s.contradictions,
		Flags:           flags,
	}
}

func buildFeedback(flags map[string]bool) string {
	bullets := make([]string, 0, 4)
	if flags["too_short"] {
		bullets = append(bullets, "Add 2-3 concrete facts (what/when/where).")
	}
	if flags["missing_timeline"] {
		bullets = append(bullets, "Include timeline (date/month/period).")
	}
	if flags["missing_actions"] {
		bullets = append(bullets, "State what you did to change the situation (specific steps).")
	}
	if flags["blame_shift"] {
		bullets = append(bullets, "Avoid shifting blame; emphasize your responsibility and decisions.")
	}
	if flags["vague_language"] {
		bullets = append(bullets, "Remove vague wording; be specific and measurable.")
	}
	if flags["contradiction_markers"] {
		bullets = append(bullets, "Your wording contains contradiction markers; keep statements consistent.")
	}

	if len(bullets) == 0 {
		return "Solid answer. Keep it factual, time-bound, and focused on your responsibility and concrete changes."
	}
	if len(bullets) > 4 {
		bullets = bullets[:4]
	}
	return strings.Join(bullets, " | ")
}
