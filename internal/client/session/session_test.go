package session

import (
	"os"
	"path/filepath"
	"testing"

	"dentallab/internal/core"
)

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	t.Run("load before save returns nil", func(t *testing.T) {
		s, err := store.Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if s != nil {
			t.Errorf("session = %+v, want nil", s)
		}
	})

	t.Run("save and restore", func(t *testing.T) {
		in := Session{Token: "tok-1", User: core.User{ID: "u-1", Email: "a@b.c", Role: "admin"}}
		if err := store.Save(in); err != nil {
			t.Fatalf("Save: %v", err)
		}

		out, err := store.Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if out == nil || out.Token != "tok-1" || out.User.Email != "a@b.c" {
			t.Errorf("restored = %+v", out)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Errorf("file mode = %o, want 600", perm)
		}
	})

	t.Run("corrupt file reads as no session", func(t *testing.T) {
		if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		s, err := store.Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if s != nil {
			t.Errorf("session = %+v, want nil for corrupt file", s)
		}
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		if err := store.Clear(); err != nil {
			t.Fatalf("Clear: %v", err)
		}
		if err := store.Clear(); err != nil {
			t.Fatalf("second Clear: %v", err)
		}
		if s, _ := store.Load(); s != nil {
			t.Error("session survived Clear")
		}
	})
}
