package persist

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"pkt.systems/orrery/schema"
)

func TestStoreLoadMissing(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	_, ok, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatalf("expected missing snapshot")
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	snapshot := Snapshot{
		SavedAt: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		WebViews: []WebViewSession{
			{
				URLs:    []string{"https://example.test/a", "https://example.test/b"},
				Current: 1,
				Focused: true,
			},
			{
				URLs:    []string{"https://example.test/c"},
				Current: 0,
			},
		},
	}
	if err := store.Save(snapshot); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatalf("expected snapshot to exist")
	}
	if !reflect.DeepEqual(snapshot, got) {
		t.Fatalf("snapshot mismatch:\nwant: %+v\ngot:  %+v", snapshot, got)
	}
}

func TestStoreLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	path := filepath.Join(dir, sessionFile)
	if err := os.WriteFile(path, []byte("{not-json"), 0o600); err != nil {
		t.Fatalf("write bad json: %v", err)
	}
	_, _, err = store.Load()
	if !errors.Is(err, schema.ErrSessionCorrupt) {
		t.Fatalf("load corrupt = %v, want ErrSessionCorrupt", err)
	}
}

func TestStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Save(Snapshot{SavedAt: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)}); err != nil {
		t.Fatalf("save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if entry.Name() == sessionFile {
			continue
		}
		if strings.HasPrefix(entry.Name(), "session-") {
			t.Fatalf("leftover temp file %q", entry.Name())
		}
	}
	if len(entries) != 1 {
		t.Fatalf("state dir has %d entries, want only %s", len(entries), sessionFile)
	}
}
