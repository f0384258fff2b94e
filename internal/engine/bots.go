package engine

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/keyrace/internal/model"
)

// Profile selects the WPM range bots are sampled from.
type Profile string

const (
	ProfileChill    Profile = "chill"
	ProfileBalanced Profile = "balanced"
	ProfileSpeedy   Profile = "speedy"
)

var botNames = []string{
	"Swift Sloth",
	"Key Smasher",
	"Turbo Tortoise",
	"Miss Print",
	"Sir Types-a-Lot",
	"Caps Locke",
	"The Backspacer",
	"Qwerty Quinn",
	"Homerow Hero",
	"Daily Typo",
}

// Simulator produces and advances bot opponents.
type Simulator struct {
	rnd *rand.Rand
}

// NewSimulator returns a Simulator seeded with the current time.
func NewSimulator() *Simulator {
	return &Simulator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSimulatorSeeded returns a deterministic Simulator for tests.
func NewSimulatorSeeded(seed int64) *Simulator {
	return &Simulator{rnd: rand.New(rand.NewSource(seed))}
}

// NewBots creates count opponents with WPM sampled uniformly from the
// profile's range. Names repeat freely from a fixed pool.
func (s *Simulator) NewBots(count int, profile Profile) []model.Bot {
	lo, hi := profileRange(profile)
	bots := make([]model.Bot, 0, count)
	for i := 0; i < count; i++ {
		bots = append(bots, model.Bot{
			ID:   uuid.NewString(),
			Name: botNames[s.rnd.Intn(len(botNames))],
			WPM:  lo + s.rnd.Float64()*(hi-lo),
		})
	}
	return bots
}

func profileRange(profile Profile) (lo, hi float64) {
	switch profile {
	case ProfileChill:
		return 35, 45
	case ProfileBalanced:
		return 55, 70
	case ProfileSpeedy:
		return 85, 110
	default:
		return 50, 70
	}
}

// Advance moves a bot forward by the measured delta, applying per-tick
// jitter. Progress never regresses and never exceeds the passage length.
func (s *Simulator) Advance(bot model.Bot, delta time.Duration, passageLen int) model.Bot {
	if delta <= 0 {
		return bot
	}
	cps := bot.WPM * 5 / 60
	jitter := 0.85 + s.rnd.Float64()*0.3
	bot.ProgressChars += cps * delta.Seconds() * jitter
	if bot.ProgressChars > float64(passageLen) {
		bot.ProgressChars = float64(passageLen)
	}
	return bot
}
