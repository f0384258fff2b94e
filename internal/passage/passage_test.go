package passage

import (
	"context"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/verte-zerg/keyrace/internal/storage"
	"github.com/verte-zerg/keyrace/internal/textnorm"
)

func TestSegmentDropsEmptyTokens(t *testing.T) {
	words := Segment("  the   cat\tsat \n on ")
	want := []string{"the", "cat", "sat", "on"}
	if len(words) != len(want) {
		t.Fatalf("expected %d words, got %d: %v", len(want), len(words), words)
	}
	for i, w := range want {
		if words[i] != w {
			t.Fatalf("word %d: expected %q, got %q", i, w, words[i])
		}
	}
}

func TestSegmentEmptyText(t *testing.T) {
	if words := Segment("   \n\t "); len(words) != 0 {
		t.Fatalf("expected no words, got %v", words)
	}
}

func TestLength(t *testing.T) {
	if got := Length([]string{"the", "cat", "sat"}); got != 11 {
		t.Fatalf("expected length 11, got %d", got)
	}
	if got := Length(nil); got != 0 {
		t.Fatalf("expected length 0 for empty passage, got %d", got)
	}
}

func TestBuiltinByIndex(t *testing.T) {
	first, ok := BuiltinByIndex(1)
	if !ok || first.Title == "" || first.Text == "" {
		t.Fatalf("expected first builtin, got %+v (ok=%v)", first, ok)
	}
	if _, ok := BuiltinByIndex(0); ok {
		t.Fatalf("index 0 should be out of range")
	}
	if _, ok := BuiltinByIndex(len(Builtins()) + 1); ok {
		t.Fatalf("index past end should be out of range")
	}
}

func TestRandomBuiltinDeterministicWithSeed(t *testing.T) {
	a := RandomBuiltin(rand.New(rand.NewSource(42)))
	b := RandomBuiltin(rand.New(rand.NewSource(42)))
	if a.Title != b.Title {
		t.Fatalf("same seed picked different passages: %q vs %q", a.Title, b.Title)
	}
}

func TestSavedLibraryRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemory()

	lib := LoadLibrary(ctx, st)
	if len(lib.Passages) != 0 {
		t.Fatalf("expected empty library, got %d passages", len(lib.Passages))
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	SaveToLibrary(ctx, st, "mine", "some passage text", now)
	lib = LoadLibrary(ctx, st)
	if len(lib.Passages) != 1 {
		t.Fatalf("expected 1 passage, got %d", len(lib.Passages))
	}
	if lib.Passages[0].Title != "mine" || lib.Passages[0].Text != "some passage text" {
		t.Fatalf("unexpected passage: %+v", lib.Passages[0])
	}
}

func TestLoadFileNormalizes(t *testing.T) {
	path := t.TempDir() + "/p.txt"
	if err := os.WriteFile(path, []byte("  some “text” \n\n\n here "), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	got, err := LoadFile(path, textnorm.Options{})
	if err != nil {
		t.Fatalf("failed to load passage: %v", err)
	}
	if got != "some \"text\"\n\nhere" {
		t.Fatalf("unexpected text: %q", got)
	}
}
