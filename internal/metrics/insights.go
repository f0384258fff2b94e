package metrics

import (
	"fmt"

	"github.com/verte-zerg/keyrace/internal/model"
)

const shortPassageChars = 120

// Insights runs the rule pass over the session and its history. Rules are
// independent and fire in a stable order; every qualifying rule contributes,
// except the consistency tiers, which produce at most one message. An empty
// result is replaced with a fallback so at least one insight always exists.
func Insights(session model.Session, history model.SessionHistory) []model.Insight {
	var out []model.Insight
	races := session.Races

	if len(races) >= 2 {
		switch {
		case session.ImprovementRate >= 1:
			out = append(out, model.Insight{
				Label:   "Trend",
				Message: fmt.Sprintf("Your WPM is climbing: up %.1f per race this session.", session.ImprovementRate),
			})
		case session.ImprovementRate <= -1:
			out = append(out, model.Insight{
				Label:   "Trend",
				Message: fmt.Sprintf("Your WPM is slipping: down %.1f per race. Time for a break?", -session.ImprovementRate),
			})
		}
	}

	if len(races) >= 2 {
		switch {
		case session.ConsistencyPct >= 85:
			out = append(out, model.Insight{
				Label:   "Consistency",
				Message: "Rock steady: your race speeds barely vary.",
			})
		case session.ConsistencyPct >= 65:
			out = append(out, model.Insight{
				Label:   "Consistency",
				Message: "Fairly consistent, with a little room to smooth out.",
			})
		default:
			out = append(out, model.Insight{
				Label:   "Consistency",
				Message: "Your speed swings a lot between races. Slow down slightly to stabilize.",
			})
		}
	}

	if insight, ok := passageLengthPreference(races); ok {
		out = append(out, insight)
	}

	if insight, ok := errorTier(races); ok {
		out = append(out, insight)
	}

	if len(races) >= 10 {
		out = append(out, model.Insight{
			Label:   "Stamina",
			Message: fmt.Sprintf("Marathon session: %d races and counting.", len(races)),
		})
	}

	if insight, ok := timeOfDayPattern(races); ok {
		out = append(out, insight)
	}

	if bestHistoryPeak(history) < session.PeakWPM && session.PeakWPM > 0 && len(history.Sessions) > 0 {
		out = append(out, model.Insight{
			Label:   "Peak",
			Message: fmt.Sprintf("New peak: %.1f WPM beats every recorded session.", session.PeakWPM),
		})
	}

	if len(out) == 0 {
		out = append(out, model.Insight{
			Label:   "Getting started",
			Message: "Race a few more times to unlock trends and comparisons.",
		})
	}
	return out
}

func passageLengthPreference(races []model.RaceRecord) (model.Insight, bool) {
	var shortSum, longSum float64
	var shortN, longN int
	for _, r := range races {
		if r.PassageLength < shortPassageChars {
			shortSum += r.WPM
			shortN++
		} else {
			longSum += r.WPM
			longN++
		}
	}
	if shortN == 0 || longN == 0 {
		return model.Insight{}, false
	}
	shortAvg := shortSum / float64(shortN)
	longAvg := longSum / float64(longN)
	switch {
	case shortAvg-longAvg > 5:
		return model.Insight{
			Label:   "Passage fit",
			Message: fmt.Sprintf("You're %.0f WPM faster on short passages. Long texts wear you down.", shortAvg-longAvg),
		}, true
	case longAvg-shortAvg > 5:
		return model.Insight{
			Label:   "Passage fit",
			Message: fmt.Sprintf("You're %.0f WPM faster on long passages once you settle in.", longAvg-shortAvg),
		}, true
	}
	return model.Insight{}, false
}

func errorTier(races []model.RaceRecord) (model.Insight, bool) {
	if len(races) == 0 {
		return model.Insight{}, false
	}
	total := 0
	for _, r := range races {
		total += r.Errors
	}
	avg := float64(total) / float64(len(races))
	switch {
	case total == 0:
		return model.Insight{Label: "Accuracy", Message: "Flawless session: not a single missed word."}, true
	case avg <= 2:
		return model.Insight{Label: "Accuracy", Message: "Low error rate. Accuracy is carrying your speed."}, true
	case avg > 5:
		return model.Insight{
			Label:   "Accuracy",
			Message: fmt.Sprintf("Averaging %.1f errors per race. Accuracy first, speed follows.", avg),
		}, true
	}
	return model.Insight{}, false
}

func timeOfDayPattern(races []model.RaceRecord) (model.Insight, bool) {
	if len(races) < 3 {
		return model.Insight{}, false
	}
	buckets := map[string]int{}
	for _, r := range races {
		buckets[dayPart(r.Date.Hour())]++
	}
	for part, n := range buckets {
		if float64(n) >= 0.6*float64(len(races)) {
			return model.Insight{
				Label:   "Schedule",
				Message: fmt.Sprintf("Most of this session happened in the %s.", part),
			}, true
		}
	}
	return model.Insight{}, false
}

func dayPart(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 18:
		return "afternoon"
	case hour >= 18 && hour < 23:
		return "evening"
	default:
		return "small hours"
	}
}

func bestHistoryPeak(history model.SessionHistory) float64 {
	best := 0.0
	for _, s := range history.Sessions {
		if s.PeakWPM > best {
			best = s.PeakWPM
		}
	}
	return best
}
