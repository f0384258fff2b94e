// Package storage provides best-effort key-value persistence for JSON documents.
package storage

import (
	"context"
	"encoding/json"
)

// Document keys used by the application. Stable across releases.
const (
	KeySession = "session"
	KeyHistory = "session_history"
	KeyLibrary = "passages"
	KeyStats   = "stats"
)

// Store is a key-value collaborator for JSON documents. Implementations
// swallow their own failures: a failed read reports absence and a failed
// write is silently dropped.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}

// LoadJSON reads the document at key into out. It reports false when the key
// is absent or the payload does not parse, leaving out untouched so the
// caller keeps its defaults.
func LoadJSON(ctx context.Context, st Store, key string, out any) bool {
	raw, ok := st.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false
	}
	return true
}

// StoreJSON writes v as a JSON document at key. Marshal failures drop the
// write; persistence is best-effort throughout.
func StoreJSON(ctx context.Context, st Store, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	st.Set(ctx, key, string(raw))
}

// Memory is an in-process Store used by tests and as a fallback when no
// database can be opened. Not safe for concurrent use; the application is
// single-threaded by design.
type Memory struct {
	docs map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: map[string]string{}}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	v, ok := m.docs[key]
	return v, ok
}

// Set implements Store.
func (m *Memory) Set(_ context.Context, key, value string) {
	m.docs[key] = value
}
