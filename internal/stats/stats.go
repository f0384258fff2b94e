// Package stats renders session history, race tables, and learning curves.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/keyrace/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RaceWPMs extracts the WPM series from a race list in order.
func RaceWPMs(races []model.RaceRecord) []float64 {
	out := make([]float64, len(races))
	for i, r := range races {
		out[i] = r.WPM
	}
	return out
}

// RenderSession prints the active session summary and its insights.
func RenderSession(w io.Writer, session model.Session, insights []model.Insight) error {
	if _, err := fmt.Fprintln(w, "Current Session"); err != nil {
		return err
	}
	if len(session.Races) == 0 {
		if _, err := fmt.Fprintln(w, "No races yet."); err != nil {
			return err
		}
	} else {
		lines := []string{
			fmt.Sprintf("Races: %d", len(session.Races)),
			fmt.Sprintf("Avg WPM: %.1f", session.AverageWPM),
			fmt.Sprintf("Peak WPM: %.1f", session.PeakWPM),
			fmt.Sprintf("Consistency: %.0f%%", session.ConsistencyPct),
			fmt.Sprintf("Improvement: %+.1f WPM/race", session.ImprovementRate),
			"WPM " + Sparkline(RaceWPMs(session.Races)),
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	for _, in := range insights {
		if _, err := fmt.Fprintf(w, "[%s] %s\n", in.Label, in.Message); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderRaces prints a table of the session's races, newest last.
func RenderRaces(w io.Writer, races []model.RaceRecord) error {
	if len(races) == 0 {
		return nil
	}
	headers := []string{"Time", "Passage", "WPM", "Acc", "Errors", "Place"}
	rows := make([][]string, 0, len(races))
	for _, r := range races {
		rows = append(rows, []string{
			r.Date.Local().Format("15:04"),
			r.Title,
			fmt.Sprintf("%.1f", r.WPM),
			fmt.Sprintf("%d%%", r.Accuracy),
			fmt.Sprintf("%d", r.Errors),
			placeLabel(r.Placing, len(r.Opponents)+1),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderHistory prints the bounded session history table.
func RenderHistory(w io.Writer, history model.SessionHistory) error {
	if _, err := fmt.Fprintln(w, "Session History"); err != nil {
		return err
	}
	if len(history.Sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions recorded.")
		return err
	}
	headers := []string{"Date", "Races", "Avg WPM", "Peak WPM", "Consistency"}
	rows := make([][]string, 0, len(history.Sessions))
	for _, s := range history.Sessions {
		rows = append(rows, []string{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", s.Races),
			fmt.Sprintf("%.1f", s.AverageWPM),
			fmt.Sprintf("%.1f", s.PeakWPM),
			fmt.Sprintf("%.0f%%", s.ConsistencyPct),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Total sessions: %d\n", history.TotalSessions); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderLifetime prints lifetime totals.
func RenderLifetime(w io.Writer, lt model.LifetimeStats) error {
	if lt.TotalRaces == 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "Lifetime: %d races, %d words, best %.1f WPM\n\n",
		lt.TotalRaces, lt.TotalWords, lt.BestWPM)
	return err
}

func placeLabel(placing, racers int) string {
	return fmt.Sprintf("%d/%d", placing, racers)
}
