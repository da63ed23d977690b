package scoring

import "strings"

// Plan categories offered by the funnel.
const (
	PlanStart     = "start"
	PlanPro       = "pro"
	PlanIntensive = "intensive"
)

var incidentReasonMarkers = []string{
	"инцидент", "поведение", "incident", "behavior", "verhalten", "straftat",
}

var pressureMarkers = []string{
	"конфликт", "стресс", "срочно", "быстро", "скоро", "суд", "повтор",
	"conflict", "stress", "urgent", "quickly", "asap", "court", "deadline",
	"konflikt", "dringend", "schnell", "frist", "gericht", "wiederholung",
}

// DetectPlan recommends a plan from the diagnostic free-text answers.
// Behavioral incidents and time or stress pressure push towards the
// heavier plans; with no such signals the entry plan is recommended.
func DetectPlan(reasons []string, situation, history, goal string) string {
	score := 0

	joinedReasons := strings.ToLower(strings.Join(reasons, " "))
	for _, marker := range incidentReasonMarkers {
		if strings.Contains(joinedReasons, marker) {
			score += 2
			break
		}
	}

	text := strings.ToLower(situation + " " + history + " " + goal)
	for _, marker := range pressureMarkers {
		if strings.Contains(text, marker) {
			score++
		}
	}

	switch {
	case score >= 3:
		return PlanIntensive
	case score >= 1:
		return PlanPro
	default:
		return PlanStart
	}
}
