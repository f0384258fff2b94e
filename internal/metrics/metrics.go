// Package metrics derives race and session performance figures.
package metrics

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/keyrace/internal/model"
)

// RaceWPM computes words per minute from correctly typed characters, rounded
// to one decimal. Zero elapsed time yields 0.
func RaceWPM(correctChars int, elapsed time.Duration) float64 {
	minutes := elapsed.Minutes()
	if minutes <= 0 {
		return 0
	}
	return math.Round((float64(correctChars)/5.0)/minutes*10) / 10
}

// RecordInput carries everything needed to finalize one race.
type RecordInput struct {
	Title         string
	CorrectChars  int
	Accuracy      int
	Errors        int
	Words         int
	PassageLength int
	Placing       int
	StartedAt     time.Time
	EndedAt       time.Time
	Opponents     []model.Opponent
}

// BuildRecord produces the immutable finished-race record.
func BuildRecord(in RecordInput) model.RaceRecord {
	return model.RaceRecord{
		ID:            uuid.NewString(),
		Date:          in.EndedAt,
		Title:         in.Title,
		WPM:           RaceWPM(in.CorrectChars, in.EndedAt.Sub(in.StartedAt)),
		Accuracy:      in.Accuracy,
		Errors:        in.Errors,
		Words:         in.Words,
		PassageLength: in.PassageLength,
		Placing:       in.Placing,
		Opponents:     in.Opponents,
	}
}

// Recompute rebuilds session aggregates from the full race list. Aggregates
// are always derived from scratch, never maintained incrementally.
func Recompute(s model.Session) model.Session {
	races := s.Races
	if len(races) == 0 {
		s.AverageWPM = 0
		s.PeakWPM = 0
		s.ConsistencyPct = 100
		s.ImprovementRate = 0
		return s
	}
	var sum, peak float64
	for _, r := range races {
		sum += r.WPM
		if r.WPM > peak {
			peak = r.WPM
		}
	}
	avg := sum / float64(len(races))
	s.AverageWPM = avg
	s.PeakWPM = peak
	s.ConsistencyPct = consistency(races, avg)
	s.ImprovementRate = (races[len(races)-1].WPM - races[0].WPM) / float64(len(races))
	return s
}

// consistency maps WPM spread to a 0-100 score. A single race or a zero
// average scores 100.
func consistency(races []model.RaceRecord, avg float64) float64 {
	if len(races) < 2 || avg == 0 {
		return 100
	}
	var sq float64
	for _, r := range races {
		d := r.WPM - avg
		sq += d * d
	}
	stdDev := math.Sqrt(sq / float64(len(races)))
	return math.Max(0, 100-100*stdDev/avg)
}
