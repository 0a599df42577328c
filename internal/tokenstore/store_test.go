package tokenstore

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestStore_LoadMissing(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "auth.json"))

	_, ok, err := s.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if ok {
		t.Fatalf("Load ok = true, want false for missing file")
	}
}

func TestStore_SaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "auth.json")
	s := New(path)

	want := Record{
		AccessToken:                   "access",
		RefreshToken:                  "refresh",
		ExpiresIn:                     600,
		RefreshTokenExpiresIn:         3600,
		RefreshTokenAbsoluteExpiresIn: 86400,
		TokenType:                     "Bearer",
	}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, ok, err := s.Load()
	if err != nil || !ok {
		t.Fatalf("Load = ok %v err %v, want stored record", ok, err)
	}
	if got != want {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Fatalf("mode = %v, want 0600", perm)
		}
	}
}

func TestStore_SaveOverwritesWholesaleAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "auth.json"))

	if err := s.Save(Record{AccessToken: "old", RefreshToken: "old-refresh", ExpiresIn: 1}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(Record{AccessToken: "new"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, _, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != (Record{AccessToken: "new"}) {
		t.Fatalf("Load = %+v, want only the new record", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("dir has %d entries, want only auth.json", len(entries))
	}
}

func TestStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, ok, err := New(path).Load()
	if ok || !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Load = ok %v err %v, want ErrCorrupt", ok, err)
	}
}
