package passage

import (
	"context"
	"math/rand"
	"time"

	"github.com/verte-zerg/keyrace/internal/model"
	"github.com/verte-zerg/keyrace/internal/storage"
)

// Builtin is a bundled practice passage.
type Builtin struct {
	Title string
	Text  string
}

var builtins = []Builtin{
	{
		Title: "Morning Commute",
		Text: "The train rattled past rows of sleeping houses while the city " +
			"slowly turned its lights on. A paper cup of coffee cooled on the " +
			"fold-down tray, forgotten between two stops.",
	},
	{
		Title: "The Lighthouse",
		Text: "Every evening the keeper climbed the spiral stairs and lit the " +
			"lamp, and every evening the sea answered with the same patient " +
			"roar. Ships passed far out, trusting a light they never thanked.",
	},
	{
		Title: "Kitchen Rules",
		Text: "Sharpen the knife before you need it. Salt the water until it " +
			"tastes of the sea. Taste everything twice, and never apologize " +
			"for garlic.",
	},
	{
		Title: "Desert Road",
		Text: "Heat bent the horizon into water that was never there. The " +
			"radio lost its last station an hour back, so she counted mile " +
			"markers instead and sang whatever the numbers suggested.",
	},
	{
		Title: "Old Arcade",
		Text: "Quarters lined up on the cabinet glass meant you were next. " +
			"The joystick was worn smooth by a thousand hands, and the high " +
			"score list remembered names of people long moved away.",
	},
	{
		Title: "First Snow",
		Text: "The dog did not understand snow and tried to bite all of it. " +
			"School was cancelled before breakfast, and the whole street " +
			"sounded softer, as if the houses were listening.",
	},
	{
		Title: "Night Shift",
		Text: "By three in the morning the hospital hallway belonged to the " +
			"vending machine and the hum of the lights. She wrote her notes " +
			"in careful block letters so the day shift could not complain.",
	},
	{
		Title: "The Garden",
		Text: "Tomatoes demand attention and reward it unreasonably well. He " +
			"staked each plant with old pantyhose and string, a trick his " +
			"mother swore by and his neighbors quietly copied.",
	},
}

// Builtins returns the bundled passages in stable order.
func Builtins() []Builtin {
	out := make([]Builtin, len(builtins))
	copy(out, builtins)
	return out
}

// BuiltinByIndex returns the bundled passage at a 1-based index.
func BuiltinByIndex(index int) (Builtin, bool) {
	if index < 1 || index > len(builtins) {
		return Builtin{}, false
	}
	return builtins[index-1], true
}

// RandomBuiltin picks a bundled passage using the provided source.
func RandomBuiltin(rnd *rand.Rand) Builtin {
	return builtins[rnd.Intn(len(builtins))]
}

// LoadLibrary reads the saved-passage library, substituting an empty library
// when the document is missing or corrupt.
func LoadLibrary(ctx context.Context, st storage.Store) model.PassageLibrary {
	var lib model.PassageLibrary
	storage.LoadJSON(ctx, st, storage.KeyLibrary, &lib)
	return lib
}

// SaveToLibrary appends a passage to the saved library and persists it.
func SaveToLibrary(ctx context.Context, st storage.Store, title, text string, now time.Time) model.PassageLibrary {
	lib := LoadLibrary(ctx, st)
	lib.Passages = append(lib.Passages, model.SavedPassage{
		Title:   title,
		Text:    text,
		SavedAt: now,
	})
	storage.StoreJSON(ctx, st, storage.KeyLibrary, lib)
	return lib
}
