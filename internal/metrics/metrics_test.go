package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/verte-zerg/keyrace/internal/model"
)

func TestRaceWPM(t *testing.T) {
	// 250 correct chars in one minute is exactly 50 WPM.
	if got := RaceWPM(250, time.Minute); got != 50 {
		t.Fatalf("expected 50 WPM, got %.1f", got)
	}
	// Rounded to one decimal.
	if got := RaceWPM(100, 37*time.Second); got != 32.4 {
		t.Fatalf("expected 32.4 WPM, got %.1f", got)
	}
	if got := RaceWPM(100, 0); got != 0 {
		t.Fatalf("expected 0 WPM at zero elapsed, got %.1f", got)
	}
}

func raceWith(wpm float64) model.RaceRecord {
	return model.RaceRecord{WPM: wpm}
}

func TestRecomputeAggregates(t *testing.T) {
	s := model.Session{Races: []model.RaceRecord{raceWith(40), raceWith(50), raceWith(60)}}
	s = Recompute(s)
	if s.AverageWPM != 50 {
		t.Fatalf("expected average 50, got %.2f", s.AverageWPM)
	}
	if s.PeakWPM != 60 {
		t.Fatalf("expected peak 60, got %.2f", s.PeakWPM)
	}
	// (60-40)/3 per race.
	if math.Abs(s.ImprovementRate-20.0/3) > 1e-9 {
		t.Fatalf("expected improvement %.4f, got %.4f", 20.0/3, s.ImprovementRate)
	}
	// stddev of {40,50,60} is sqrt(200/3) ~ 8.165 -> 100 - 16.33.
	want := 100 - 100*math.Sqrt(200.0/3)/50
	if math.Abs(s.ConsistencyPct-want) > 1e-9 {
		t.Fatalf("expected consistency %.4f, got %.4f", want, s.ConsistencyPct)
	}
}

func TestRecomputeDegenerateCases(t *testing.T) {
	s := Recompute(model.Session{})
	if s.ConsistencyPct != 100 || s.AverageWPM != 0 || s.ImprovementRate != 0 {
		t.Fatalf("unexpected empty-session aggregates: %+v", s)
	}
	s = Recompute(model.Session{Races: []model.RaceRecord{raceWith(45)}})
	if s.ConsistencyPct != 100 {
		t.Fatalf("single race should score consistency 100, got %.2f", s.ConsistencyPct)
	}
	s = Recompute(model.Session{Races: []model.RaceRecord{raceWith(0), raceWith(0)}})
	if s.ConsistencyPct != 100 {
		t.Fatalf("zero average should score consistency 100, got %.2f", s.ConsistencyPct)
	}
}

func TestBuildRecord(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rec := BuildRecord(RecordInput{
		Title:         "Kitchen Rules",
		CorrectChars:  250,
		Accuracy:      96,
		Errors:        1,
		Words:         42,
		PassageLength: 249,
		Placing:       2,
		StartedAt:     started,
		EndedAt:       started.Add(time.Minute),
		Opponents:     []model.Opponent{{Name: "Caps Locke", WPM: 61.2}},
	})
	if rec.ID == "" {
		t.Fatalf("record missing id")
	}
	if rec.WPM != 50 {
		t.Fatalf("expected 50 WPM, got %.1f", rec.WPM)
	}
	if rec.Placing != 2 || rec.Accuracy != 96 || rec.Errors != 1 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !rec.Date.Equal(started.Add(time.Minute)) {
		t.Fatalf("record date should be the end time, got %v", rec.Date)
	}
}
