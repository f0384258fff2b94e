// Package textnorm cleans raw passage text before segmentation.
package textnorm

import "strings"

// Options controls optional normalization behavior.
type Options struct {
	Beginner  bool
	MaxLength int
}

var invisibleReplacer = strings.NewReplacer(
	" ", " ", // non-breaking space
	"⁠", "", // word joiner
	"\uFEFF", "", // BOM
	"​", "", // zero-width space
	"‌", "",
	"‍", "",
)

var punctReplacer = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"‚", "'",
	"“", `"`,
	"”", `"`,
	"„", `"`,
	"…", "...",
	"—", "--",
	"–", "-",
)

// Normalize cleans raw passage text. It collapses whitespace, canonicalizes
// typographic punctuation to ASCII, and strips invisible Unicode artifacts.
// With Beginner set, the text is additionally reduced to a simple character
// set. With MaxLength set, the text is truncated at a sentence or word
// boundary, never mid-word. Empty input yields "".
func Normalize(raw string, opts Options) string {
	if raw == "" {
		return ""
	}
	text := invisibleReplacer.Replace(raw)
	text = punctReplacer.Replace(text)
	text = collapseWhitespace(text)
	if opts.Beginner {
		text = simplify(text)
		text = collapseWhitespace(text)
	}
	if opts.MaxLength > 0 {
		text = truncate(text, opts.MaxLength)
	}
	return text
}

func collapseWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

func simplify(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '-':
			b.WriteByte(' ')
		case r == '@':
			b.WriteString(" at ")
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\n':
			b.WriteRune(r)
		case r == '.' || r == ',' || r == '!' || r == '?' || r == '\'':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// truncate cuts text to at most max runes. A sentence-terminal cut is
// preferred when it falls within the last 20% of the limit; otherwise the
// last word boundary before the limit wins.
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	prefix := runes[:max]
	sentenceCut := -1
	for i := len(prefix) - 1; i >= 0; i-- {
		if prefix[i] == '.' || prefix[i] == '?' || prefix[i] == '!' {
			sentenceCut = i
			break
		}
	}
	if sentenceCut >= 0 && sentenceCut+1 >= max*4/5 {
		return strings.TrimSpace(string(prefix[:sentenceCut+1]))
	}
	wordCut := -1
	for i := len(prefix) - 1; i >= 0; i-- {
		if prefix[i] == ' ' || prefix[i] == '\n' {
			wordCut = i
			break
		}
	}
	if wordCut >= 0 {
		return strings.TrimSpace(string(prefix[:wordCut]))
	}
	return string(prefix)
}
