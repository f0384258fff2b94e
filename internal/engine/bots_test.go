package engine

import (
	"testing"
	"time"
)

func TestNewBotsSamplesProfileRange(t *testing.T) {
	tests := []struct {
		profile Profile
		lo, hi  float64
	}{
		{ProfileChill, 35, 45},
		{ProfileBalanced, 55, 70},
		{ProfileSpeedy, 85, 110},
		{Profile("bogus"), 50, 70},
	}
	sim := NewSimulatorSeeded(1)
	for _, tt := range tests {
		bots := sim.NewBots(20, tt.profile)
		if len(bots) != 20 {
			t.Fatalf("%s: expected 20 bots, got %d", tt.profile, len(bots))
		}
		for _, bot := range bots {
			if bot.WPM < tt.lo || bot.WPM > tt.hi {
				t.Fatalf("%s: WPM %.1f outside [%.0f,%.0f]", tt.profile, bot.WPM, tt.lo, tt.hi)
			}
			if bot.Name == "" || bot.ID == "" {
				t.Fatalf("%s: bot missing identity: %+v", tt.profile, bot)
			}
			if bot.ProgressChars != 0 {
				t.Fatalf("%s: new bot has progress %.1f", tt.profile, bot.ProgressChars)
			}
		}
	}
}

func TestAdvanceMonotonicAndClamped(t *testing.T) {
	sim := NewSimulatorSeeded(7)
	bots := sim.NewBots(2, ProfileSpeedy)
	const passageLen = 500
	tick := 100 * time.Millisecond

	for step := 0; step < 600; step++ { // 60 seconds of 100 ms ticks
		for i, bot := range bots {
			next := sim.Advance(bot, tick, passageLen)
			if next.ProgressChars < bot.ProgressChars {
				t.Fatalf("progress regressed: %.2f -> %.2f", bot.ProgressChars, next.ProgressChars)
			}
			if next.ProgressChars > passageLen {
				t.Fatalf("progress exceeded passage length: %.2f", next.ProgressChars)
			}
			bots[i] = next
		}
	}
	// A speedy bot (>=85 WPM, ~7 cps) covers 500 chars well inside a minute.
	for _, bot := range bots {
		if bot.ProgressChars != passageLen {
			t.Fatalf("expected bot to finish, progress %.2f", bot.ProgressChars)
		}
	}
}

func TestAdvanceIgnoresNonPositiveDelta(t *testing.T) {
	sim := NewSimulatorSeeded(3)
	bot := sim.NewBots(1, ProfileBalanced)[0]
	bot.ProgressChars = 10
	if got := sim.Advance(bot, 0, 100); got.ProgressChars != 10 {
		t.Fatalf("zero delta moved bot: %.2f", got.ProgressChars)
	}
	if got := sim.Advance(bot, -time.Second, 100); got.ProgressChars != 10 {
		t.Fatalf("negative delta moved bot: %.2f", got.ProgressChars)
	}
}
