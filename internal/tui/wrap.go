package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/keyrace/internal/engine"
)

type styledWord struct {
	rendered string
	width    int
}

// buildStyledWords renders each passage word according to its status. The
// current word is styled per character against the typed buffer.
func buildStyledWords(words []string, statuses []engine.WordStatus, buffer string) []styledWord {
	out := make([]styledWord, 0, len(words))
	for i, word := range words {
		status := engine.WordPending
		if i < len(statuses) {
			status = statuses[i]
		}
		var rendered string
		switch status {
		case engine.WordCorrect:
			rendered = correctStyle.Render(word)
		case engine.WordIncorrect:
			rendered = incorrectStyle.Render(word)
		case engine.WordCurrent:
			rendered = renderCurrentWord(word, buffer)
		default:
			rendered = pendingStyle.Render(word)
		}
		out = append(out, styledWord{
			rendered: rendered,
			width:    runewidth.StringWidth(word),
		})
	}
	return out
}

// renderCurrentWord marks the typed prefix character by character: matching
// characters render as correct, mismatches as incorrect, the rest stays in
// the current-word style with the next character underlined as a cursor.
func renderCurrentWord(word, buffer string) string {
	target := []rune(word)
	typed := []rune(buffer)
	var b strings.Builder
	for i, r := range target {
		switch {
		case i < len(typed) && typed[i] == r:
			b.WriteString(correctStyle.Render(string(r)))
		case i < len(typed):
			b.WriteString(incorrectStyle.Render(string(r)))
		case i == len(typed):
			b.WriteString(cursorStyle.Render(string(r)))
		default:
			b.WriteString(currentWordStyle.Render(string(r)))
		}
	}
	// Overflow beyond the target renders as incorrect so the player sees it.
	for _, r := range typed[min(len(typed), len(target)):] {
		b.WriteString(incorrectStyle.Render(string(r)))
	}
	return b.String()
}

// wrapStyledWords joins styled words with spaces, wrapping at word
// boundaries to the given display width.
func wrapStyledWords(words []styledWord, width int) string {
	if width <= 0 {
		parts := make([]string, len(words))
		for i, w := range words {
			parts[i] = w.rendered
		}
		return strings.Join(parts, " ")
	}
	var out strings.Builder
	lineWidth := 0
	for i, w := range words {
		sep := 0
		if lineWidth > 0 {
			sep = 1
		}
		if lineWidth > 0 && lineWidth+sep+w.width > width {
			out.WriteByte('\n')
			lineWidth = 0
		} else if i > 0 && lineWidth > 0 {
			out.WriteByte(' ')
			lineWidth++
		}
		out.WriteString(w.rendered)
		lineWidth += w.width
	}
	return out.String()
}
