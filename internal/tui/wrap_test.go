package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/keyrace/internal/engine"
)

func TestBuildStyledWordsStatuses(t *testing.T) {
	words := []string{"the", "cat", "sat", "on"}
	statuses := []engine.WordStatus{
		engine.WordCorrect, engine.WordIncorrect, engine.WordCurrent, engine.WordPending,
	}
	styled := buildStyledWords(words, statuses, "")
	if len(styled) != 4 {
		t.Fatalf("expected 4 styled words, got %d", len(styled))
	}
	if styled[0].rendered != correctStyle.Render("the") {
		t.Fatalf("expected correct style for committed word")
	}
	if styled[1].rendered != incorrectStyle.Render("cat") {
		t.Fatalf("expected incorrect style for missed word")
	}
	if styled[3].rendered != pendingStyle.Render("on") {
		t.Fatalf("expected pending style for unreached word")
	}
	for i, word := range words {
		if styled[i].width != len(word) {
			t.Fatalf("word %d: expected width %d, got %d", i, len(word), styled[i].width)
		}
	}
}

func TestRenderCurrentWordMarksPrefix(t *testing.T) {
	got := renderCurrentWord("cat", "cx")
	want := correctStyle.Render("c") +
		incorrectStyle.Render("a") +
		cursorStyle.Render("t")
	if got != want {
		t.Fatalf("unexpected rendering:\n got %q\nwant %q", got, want)
	}
}

func TestRenderCurrentWordOverflow(t *testing.T) {
	got := renderCurrentWord("cat", "catzz")
	if !strings.HasSuffix(got, incorrectStyle.Render("z")+incorrectStyle.Render("z")) {
		t.Fatalf("overflow characters should render incorrect: %q", got)
	}
}

func TestWrapStyledWordsBreaksAtWordBoundaries(t *testing.T) {
	words := []string{"aaaa", "bbbb", "cccc"}
	statuses := []engine.WordStatus{engine.WordPending, engine.WordPending, engine.WordPending}
	styled := buildStyledWords(words, statuses, "")
	wrapped := wrapStyledWords(styled, 9)
	lines := strings.Split(wrapped, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), wrapped)
	}
	if lines[0] != pendingStyle.Render("aaaa")+" "+pendingStyle.Render("bbbb") {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
}

func TestWrapStyledWordsZeroWidth(t *testing.T) {
	styled := buildStyledWords([]string{"a", "b"}, nil, "")
	wrapped := wrapStyledWords(styled, 0)
	if !strings.Contains(wrapped, " ") {
		t.Fatalf("zero width should join with spaces: %q", wrapped)
	}
}
