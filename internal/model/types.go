// Package model defines shared data structures.
package model

import "time"

// Config defines race settings.
type Config struct {
	Bots        int
	Profile     string
	Strict      bool
	Beginner    bool
	MaxLength   int
	Passage     string
	PassageFile string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
	Interactive bool
}

// WordResult records the outcome of one committed word.
type WordResult struct {
	Word        string `json:"word"`
	Typed       string `json:"typed"`
	Correct     bool   `json:"correct"`
	TimestampMs int64  `json:"timestampMs"`
}

// Bot is a simulated opponent with a fixed WPM and monotonic progress.
type Bot struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	WPM           float64 `json:"wpm"`
	ProgressChars float64 `json:"progressChars"`
}

// Opponent captures a bot's identity in a finished-race record.
type Opponent struct {
	Name string  `json:"name"`
	WPM  float64 `json:"wpm"`
}

// RaceRecord is the immutable result of one finished race.
type RaceRecord struct {
	ID            string     `json:"id"`
	Date          time.Time  `json:"date"`
	Title         string     `json:"title"`
	WPM           float64    `json:"wpm"`
	Accuracy      int        `json:"accuracy"`
	Errors        int        `json:"errors"`
	Words         int        `json:"words"`
	PassageLength int        `json:"passageLength"`
	Placing       int        `json:"placing"`
	Opponents     []Opponent `json:"opponents"`
}

// Session aggregates the races typed since the session began.
type Session struct {
	ID              string       `json:"id"`
	StartedAt       time.Time    `json:"startedAt"`
	Races           []RaceRecord `json:"races"`
	AverageWPM      float64      `json:"averageWPM"`
	PeakWPM         float64      `json:"peakWPM"`
	ConsistencyPct  float64      `json:"consistencyScore"`
	ImprovementRate float64      `json:"improvementRate"`
}

// SessionSummary is the compact form kept in session history.
type SessionSummary struct {
	ID              string    `json:"id"`
	StartedAt       time.Time `json:"startedAt"`
	EndedAt         time.Time `json:"endedAt"`
	Races           int       `json:"races"`
	AverageWPM      float64   `json:"averageWPM"`
	PeakWPM         float64   `json:"peakWPM"`
	ConsistencyPct  float64   `json:"consistencyScore"`
	ImprovementRate float64   `json:"improvementRate"`
}

// SessionHistory holds the most recent session summaries.
type SessionHistory struct {
	Sessions      []SessionSummary `json:"sessions"`
	TotalSessions int              `json:"totalSessions"`
	LastCleanup   time.Time        `json:"lastCleanup"`
}

// LifetimeStats tracks totals across every finished race.
type LifetimeStats struct {
	TotalRaces int     `json:"totalRaces"`
	TotalWords int     `json:"totalWords"`
	BestWPM    float64 `json:"bestWPM"`
}

// SavedPassage is a user-saved passage in the passage library.
type SavedPassage struct {
	Title   string    `json:"title"`
	Text    string    `json:"text"`
	SavedAt time.Time `json:"savedAt"`
}

// PassageLibrary holds user-saved passages.
type PassageLibrary struct {
	Passages []SavedPassage `json:"passages"`
}

// Insight is a labeled observation derived from session history.
type Insight struct {
	Label   string `json:"label"`
	Message string `json:"message"`
}
