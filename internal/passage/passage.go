// Package passage segments race text and manages the passage library.
package passage

import (
	"fmt"
	"os"
	"strings"

	"github.com/verte-zerg/keyrace/internal/textnorm"
)

// Segment splits normalized text into the ordered word sequence raced over.
// Words are separated by whitespace runs; empty tokens are dropped.
func Segment(text string) []string {
	return strings.Fields(text)
}

// Length returns the character length of the passage as raced: words joined
// by single spaces.
func Length(words []string) int {
	if len(words) == 0 {
		return 0
	}
	total := len(words) - 1
	for _, w := range words {
		total += len([]rune(w))
	}
	return total
}

// LoadFile reads a custom passage from a text file and runs it through the
// normalizer.
func LoadFile(path string, opts textnorm.Options) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := textnorm.Normalize(string(raw), opts)
	if text == "" {
		return "", fmt.Errorf("passage file is empty after normalization: %s", path)
	}
	return text, nil
}
