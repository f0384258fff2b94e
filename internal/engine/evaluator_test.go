package engine

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func typeWords(t *testing.T, e *Evaluator, strict bool, inputs ...string) {
	t.Helper()
	for _, input := range inputs {
		e.OnInputChange(input, strict, testNow)
	}
}

func TestPerfectRun(t *testing.T) {
	e := NewEvaluator([]string{"the", "cat", "sat"})
	typeWords(t, e, true, "the ", "cat ", "sat ")

	results := e.Results()
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, res := range results {
		if !res.Correct {
			t.Fatalf("result %d unexpectedly incorrect: %+v", i, res)
		}
	}
	if e.Errors() != 0 {
		t.Fatalf("expected 0 errors, got %d", e.Errors())
	}
	if e.Accuracy() != 100 {
		t.Fatalf("expected accuracy 100, got %d", e.Accuracy())
	}
	if !e.Done() {
		t.Fatalf("expected evaluator to be done")
	}
}

func TestTypoScoredOnCommit(t *testing.T) {
	e := NewEvaluator([]string{"the", "cat", "sat"})
	typeWords(t, e, false, "teh ", "cat ", "sat ")

	results := e.Results()
	if results[0].Correct {
		t.Fatalf("first word should be incorrect: %+v", results[0])
	}
	if results[0].Typed != "teh" {
		t.Fatalf("expected typed %q, got %q", "teh", results[0].Typed)
	}
	if e.Errors() != 1 {
		t.Fatalf("expected 1 error, got %d", e.Errors())
	}
	if e.Accuracy() != 67 {
		t.Fatalf("expected accuracy 67, got %d", e.Accuracy())
	}
}

func TestStrictModeRejectsMismatch(t *testing.T) {
	e := NewEvaluator([]string{"cat"})
	if v := e.OnInputChange("c", true, testNow); v != VerdictUpdate {
		t.Fatalf("expected update for matching char, got %v", v)
	}
	if v := e.OnInputChange("cx", true, testNow); v != VerdictReject {
		t.Fatalf("expected reject for mismatch, got %v", v)
	}
	if e.Buffer() != "c" {
		t.Fatalf("buffer changed on reject: %q", e.Buffer())
	}
}

func TestStrictModeAllowsDeletion(t *testing.T) {
	e := NewEvaluator([]string{"cat"})
	e.OnInputChange("ca", true, testNow)
	if v := e.OnInputChange("c", true, testNow); v != VerdictUpdate {
		t.Fatalf("expected update for deletion, got %v", v)
	}
	if e.Buffer() != "c" {
		t.Fatalf("expected buffer %q, got %q", "c", e.Buffer())
	}
}

func TestStrictModeRejectsOverrun(t *testing.T) {
	e := NewEvaluator([]string{"cat"})
	e.OnInputChange("cat", true, testNow)
	if v := e.OnInputChange("cats", true, testNow); v != VerdictReject {
		t.Fatalf("expected reject past end of word, got %v", v)
	}
}

func TestWhitespaceOnlyCommitIsIncorrect(t *testing.T) {
	e := NewEvaluator([]string{"cat"})
	if v := e.OnInputChange(" ", false, testNow); v != VerdictCommit {
		t.Fatalf("expected commit, got %v", v)
	}
	results := e.Results()
	if len(results) != 1 || results[0].Correct {
		t.Fatalf("double space should score incorrect: %+v", results)
	}
	if results[0].Typed != "" {
		t.Fatalf("expected empty typed value, got %q", results[0].Typed)
	}
}

func TestBoundaryPastEndIsNoOp(t *testing.T) {
	e := NewEvaluator([]string{"one"})
	typeWords(t, e, false, "one ")
	before := len(e.Results())
	if v := e.OnInputChange("x ", false, testNow); v != VerdictUpdate {
		t.Fatalf("expected no-op update past end, got %v", v)
	}
	if len(e.Results()) != before {
		t.Fatalf("result emitted past end of passage")
	}
}

func TestCorrectCharsCountsSeparatorsAndPrefix(t *testing.T) {
	e := NewEvaluator([]string{"the", "cat"})
	typeWords(t, e, false, "the ")
	// "the" plus its separator.
	if got := e.CorrectChars(); got != 4 {
		t.Fatalf("expected 4 correct chars, got %d", got)
	}
	e.OnInputChange("ca", false, testNow)
	if got := e.CorrectChars(); got != 6 {
		t.Fatalf("expected 6 correct chars, got %d", got)
	}
	// A mismatch stops the prefix count at the first bad character.
	e.OnInputChange("cx", false, testNow)
	if got := e.CorrectChars(); got != 5 {
		t.Fatalf("expected 5 correct chars after mismatch, got %d", got)
	}
}

func TestIncorrectWordContributesNoChars(t *testing.T) {
	e := NewEvaluator([]string{"the", "cat"})
	typeWords(t, e, false, "teh ")
	if got := e.CorrectChars(); got != 0 {
		t.Fatalf("expected 0 correct chars, got %d", got)
	}
}

func TestAccuracyDefinedBeforeFirstCommit(t *testing.T) {
	e := NewEvaluator([]string{"cat"})
	if got := e.Accuracy(); got != 100 {
		t.Fatalf("expected accuracy 100 with no results, got %d", got)
	}
}

func TestStatuses(t *testing.T) {
	e := NewEvaluator([]string{"the", "cat", "sat"})
	typeWords(t, e, false, "teh ")
	statuses := e.Statuses()
	want := []WordStatus{WordIncorrect, WordCurrent, WordPending}
	for i, w := range want {
		if statuses[i] != w {
			t.Fatalf("status %d: expected %v, got %v", i, w, statuses[i])
		}
	}
}
