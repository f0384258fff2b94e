package storage

import (
	"context"
	"testing"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestLoadJSONMissingKeyKeepsDefaults(t *testing.T) {
	st := NewMemory()
	out := doc{Name: "default", Count: 7}
	if LoadJSON(context.Background(), st, KeySession, &out) {
		t.Fatalf("expected miss for absent key")
	}
	if out.Name != "default" || out.Count != 7 {
		t.Fatalf("defaults were clobbered: %+v", out)
	}
}

func TestLoadJSONCorruptPayloadKeepsDefaults(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()
	st.Set(ctx, KeySession, "{not json")
	out := doc{Name: "default"}
	if LoadJSON(ctx, st, KeySession, &out) {
		t.Fatalf("expected miss for corrupt payload")
	}
	if out.Name != "default" {
		t.Fatalf("defaults were clobbered: %+v", out)
	}
}

func TestStoreJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()
	StoreJSON(ctx, st, KeyStats, doc{Name: "x", Count: 3})
	var out doc
	if !LoadJSON(ctx, st, KeyStats, &out) {
		t.Fatalf("expected hit after store")
	}
	if out.Name != "x" || out.Count != 3 {
		t.Fatalf("unexpected document: %+v", out)
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/kv.db"
	st, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			t.Fatalf("failed to close store: %v", cerr)
		}
	}()

	if _, ok := st.Get(ctx, "missing"); ok {
		t.Fatalf("expected miss for absent key")
	}
	st.Set(ctx, "k", "v1")
	st.Set(ctx, "k", "v2")
	got, ok := st.Get(ctx, "k")
	if !ok || got != "v2" {
		t.Fatalf("expected v2, got %q (ok=%v)", got, ok)
	}
}
