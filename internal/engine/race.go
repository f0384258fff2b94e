package engine

import (
	"time"

	"github.com/verte-zerg/keyrace/internal/metrics"
	"github.com/verte-zerg/keyrace/internal/model"
	"github.com/verte-zerg/keyrace/internal/passage"
)

// Phase is the race state machine phase.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCounting
	PhaseRunning
	PhaseFinished
)

// CountdownSeconds is the pre-race countdown length.
const CountdownSeconds = 3

// Race owns all mutable race state and drives the idle -> counting ->
// running -> finished machine. The evaluator and simulator operate on values
// it hands them; nothing else mutates race state.
type Race struct {
	title      string
	words      []string
	passageLen int
	strict     bool
	botCount   int
	profile    Profile
	sim        *Simulator

	phase     Phase
	countdown int
	startedAt time.Time
	endedAt   time.Time

	eval   *Evaluator
	bots   []model.Bot
	record *model.RaceRecord
}

// NewRace prepares a race over the given passage text. The passage is
// segmented once and immutable afterwards.
func NewRace(title, text string, strict bool, botCount int, profile Profile, sim *Simulator) *Race {
	words := passage.Segment(text)
	return &Race{
		title:      title,
		words:      words,
		passageLen: passage.Length(words),
		strict:     strict,
		botCount:   botCount,
		profile:    profile,
		sim:        sim,
		eval:       NewEvaluator(words),
	}
}

// Start begins the countdown, resetting all per-race state. It reports false
// when the passage is empty or a race is already underway.
func (r *Race) Start() bool {
	if len(r.words) == 0 {
		return false
	}
	if r.phase == PhaseCounting || r.phase == PhaseRunning {
		return false
	}
	r.eval = NewEvaluator(r.words)
	r.bots = nil
	r.record = nil
	r.startedAt = time.Time{}
	r.endedAt = time.Time{}
	r.countdown = CountdownSeconds
	r.phase = PhaseCounting
	return true
}

// TickCountdown advances the one-second countdown. Reaching zero instantiates
// the bots, stamps the start time, and enters the running phase. Ticks in any
// other phase are ignored.
func (r *Race) TickCountdown(now time.Time) {
	if r.phase != PhaseCounting {
		return
	}
	r.countdown--
	if r.countdown > 0 {
		return
	}
	r.bots = r.sim.NewBots(r.botCount, r.profile)
	r.startedAt = now
	r.phase = PhaseRunning
}

// TickBots advances every bot by the measured delta and checks the finish
// condition. The human is checked before the bots, so ties within one tick
// resolve in the human's favor. Ticks outside the running phase are ignored.
func (r *Race) TickBots(now time.Time, delta time.Duration) {
	if r.phase != PhaseRunning {
		return
	}
	// Human first: a completed evaluator finishes the race before the bots
	// move, so a same-tick tie goes to the human.
	if r.eval.Done() {
		r.finish(now)
		return
	}
	for i, bot := range r.bots {
		r.bots[i] = r.sim.Advance(bot, delta, r.passageLen)
	}
	for _, bot := range r.bots {
		if bot.ProgressChars >= float64(r.passageLen) {
			r.finish(now)
			return
		}
	}
}

// Type feeds the raw input-field value to the evaluator. Committing the last
// word finishes the race immediately. Input outside the running phase is
// rejected.
func (r *Race) Type(value string, now time.Time) Verdict {
	if r.phase != PhaseRunning {
		return VerdictReject
	}
	verdict := r.eval.OnInputChange(value, r.strict, now)
	if verdict == VerdictCommit && r.eval.Done() {
		r.finish(now)
	}
	return verdict
}

// Reset returns to idle from any phase, discarding in-flight data without
// recording a result.
func (r *Race) Reset() {
	r.phase = PhaseIdle
	r.countdown = 0
	r.startedAt = time.Time{}
	r.endedAt = time.Time{}
	r.eval = NewEvaluator(r.words)
	r.bots = nil
	r.record = nil
}

func (r *Race) finish(now time.Time) {
	r.endedAt = now
	r.phase = PhaseFinished

	// Placing is 1 plus the bots already across the line when the finish is
	// observed, whether the human or a bot triggered it.
	placing := 1
	for _, bot := range r.bots {
		if bot.ProgressChars >= float64(r.passageLen) {
			placing++
		}
	}

	opponents := make([]model.Opponent, 0, len(r.bots))
	for _, bot := range r.bots {
		opponents = append(opponents, model.Opponent{Name: bot.Name, WPM: bot.WPM})
	}
	record := metrics.BuildRecord(metrics.RecordInput{
		Title:         r.title,
		CorrectChars:  r.eval.CorrectChars(),
		Accuracy:      r.eval.Accuracy(),
		Errors:        r.eval.Errors(),
		Words:         len(r.words),
		PassageLength: r.passageLen,
		Placing:       placing,
		StartedAt:     r.startedAt,
		EndedAt:       now,
		Opponents:     opponents,
	})
	r.record = &record
}

// Phase returns the current state machine phase.
func (r *Race) Phase() Phase {
	return r.phase
}

// Countdown returns the remaining countdown seconds.
func (r *Race) Countdown() int {
	return r.countdown
}

// Words returns the passage word sequence.
func (r *Race) Words() []string {
	return r.words
}

// PassageLength returns the passage length in characters.
func (r *Race) PassageLength() int {
	return r.passageLen
}

// Bots returns the current bot list.
func (r *Race) Bots() []model.Bot {
	return r.bots
}

// Evaluator exposes the typing evaluator for progress queries.
func (r *Race) Evaluator() *Evaluator {
	return r.eval
}

// HumanProgress returns the human's correctly typed character count.
func (r *Race) HumanProgress() int {
	return r.eval.CorrectChars()
}

// LiveWPM computes the human's words per minute as of now.
func (r *Race) LiveWPM(now time.Time) float64 {
	if r.phase != PhaseRunning {
		if r.record != nil {
			return r.record.WPM
		}
		return 0
	}
	return metrics.RaceWPM(r.eval.CorrectChars(), now.Sub(r.startedAt))
}

// Record returns the finished-race record, or nil before the finish.
func (r *Race) Record() *model.RaceRecord {
	return r.record
}
