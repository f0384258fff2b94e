// Package engine implements the race core: typing evaluation, bot
// simulation, and the race state machine.
package engine

import (
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/keyrace/internal/model"
)

// Verdict classifies the outcome of one input change.
type Verdict int

const (
	// VerdictUpdate means the typed buffer was replaced with the new value.
	VerdictUpdate Verdict = iota
	// VerdictCommit means a word boundary was reached and a result recorded.
	VerdictCommit
	// VerdictReject means strict mode refused the keystroke; the caller must
	// restore the previous visible value.
	VerdictReject
)

// WordStatus describes a passage word for highlighting.
type WordStatus int

const (
	WordPending WordStatus = iota
	WordCurrent
	WordCorrect
	WordIncorrect
)

// Evaluator validates typed input against the passage word by word.
type Evaluator struct {
	words   []string
	index   int
	buffer  string
	results []model.WordResult
}

// NewEvaluator creates an evaluator over the passage words.
func NewEvaluator(words []string) *Evaluator {
	return &Evaluator{words: words}
}

// OnInputChange consumes the full value of the input field after a keystroke.
// A trailing space or tab commits the current word; otherwise the buffer is
// updated, unless strict mode rejects a mismatched character.
func (e *Evaluator) OnInputChange(newValue string, strict bool, now time.Time) Verdict {
	if strings.HasSuffix(newValue, " ") || strings.HasSuffix(newValue, "\t") {
		return e.commit(newValue, now)
	}
	if strict && !e.strictAccepts(newValue) {
		return VerdictReject
	}
	e.buffer = newValue
	return VerdictUpdate
}

func (e *Evaluator) commit(newValue string, now time.Time) Verdict {
	if e.index >= len(e.words) {
		// Past the end of the passage the boundary keystroke is a no-op.
		return VerdictUpdate
	}
	typed := strings.TrimRight(newValue, " \t")
	target := e.words[e.index]
	e.results = append(e.results, model.WordResult{
		Word:        target,
		Typed:       typed,
		Correct:     typed == target,
		TimestampMs: now.UnixMilli(),
	})
	e.index++
	e.buffer = ""
	return VerdictCommit
}

// strictAccepts checks only the last-typed character against the expected
// character at that position. Deletions always pass.
func (e *Evaluator) strictAccepts(newValue string) bool {
	value := []rune(newValue)
	if len(value) <= len([]rune(e.buffer)) {
		return true
	}
	if e.index >= len(e.words) {
		return false
	}
	target := []rune(e.words[e.index])
	pos := len(value) - 1
	if pos >= len(target) {
		return false
	}
	return value[pos] == target[pos]
}

// Done reports whether every passage word has been committed.
func (e *Evaluator) Done() bool {
	return len(e.words) > 0 && e.index >= len(e.words)
}

// Index returns the 0-based index of the word currently being typed.
func (e *Evaluator) Index() int {
	return e.index
}

// Buffer returns the in-flight partial word.
func (e *Evaluator) Buffer() string {
	return e.buffer
}

// Results returns the committed word results in passage order.
func (e *Evaluator) Results() []model.WordResult {
	return e.results
}

// CorrectChars counts characters typed correctly so far. Each correct word
// contributes its length plus one for the separator; the in-flight buffer
// contributes its matching prefix.
func (e *Evaluator) CorrectChars() int {
	total := 0
	for _, res := range e.results {
		if res.Correct {
			total += len([]rune(res.Word)) + 1
		}
	}
	if e.index < len(e.words) {
		target := []rune(e.words[e.index])
		for i, r := range []rune(e.buffer) {
			if i >= len(target) || r != target[i] {
				break
			}
			total++
		}
	}
	return total
}

// Accuracy returns the rounded percentage of committed words typed correctly.
// It is 100 before any word has been committed.
func (e *Evaluator) Accuracy() int {
	if len(e.results) == 0 {
		return 100
	}
	correct := 0
	for _, res := range e.results {
		if res.Correct {
			correct++
		}
	}
	return int(math.Round(100 * float64(correct) / float64(len(e.results))))
}

// Errors counts committed words typed incorrectly.
func (e *Evaluator) Errors() int {
	count := 0
	for _, res := range e.results {
		if !res.Correct {
			count++
		}
	}
	return count
}

// Statuses returns the per-word status sequence used for highlighting.
func (e *Evaluator) Statuses() []WordStatus {
	out := make([]WordStatus, len(e.words))
	for i := range e.words {
		switch {
		case i < len(e.results):
			if e.results[i].Correct {
				out[i] = WordCorrect
			} else {
				out[i] = WordIncorrect
			}
		case i == e.index:
			out[i] = WordCurrent
		default:
			out[i] = WordPending
		}
	}
	return out
}
