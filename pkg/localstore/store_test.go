package localstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetGetRoundTrip(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "store.json"))

	if err := s.Set("a", []byte(`{"n":1}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set("b", []byte(`[1,2,3]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, found, err := s.Get("a")
	if err != nil || !found {
		t.Fatalf("Get(a) = found %v, err %v", found, err)
	}
	if string(got) != `{"n":1}` {
		t.Errorf("Get(a) = %s, want {\"n\":1}", got)
	}

	// Overwrite wins.
	if err := s.Set("a", []byte(`{"n":2}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, _, _ = s.Get("a")
	if string(got) != `{"n":2}` {
		t.Errorf("Get(a) after overwrite = %s, want {\"n\":2}", got)
	}
}

func TestGetAbsentKey(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "store.json"))

	got, found, err := s.Get("missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found || got != nil {
		t.Errorf("Get(missing) = %s, found %v, want nil, false", got, found)
	}
}

func TestSetRejectsInvalidJSON(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "store.json"))

	if err := s.Set("a", []byte(`{broken`)); err == nil {
		t.Error("Set accepted invalid JSON")
	}
	if _, found, _ := s.Get("a"); found {
		t.Error("invalid value was stored anyway")
	}
}

func TestRemove(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "store.json"))

	if err := s.Set("a", []byte(`1`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set("b", []byte(`2`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := s.Remove("a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, found, _ := s.Get("a"); found {
		t.Error("removed key still present")
	}
	if _, found, _ := s.Get("b"); !found {
		t.Error("unrelated key lost on remove")
	}

	// Absent key is a no-op.
	if err := s.Remove("nope"); err != nil {
		t.Errorf("Remove(absent) = %v, want nil", err)
	}
}

func TestCorruptedFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("not json at all"), 0644); err != nil {
		t.Fatal(err)
	}
	s := New(path)

	_, found, err := s.Get("a")
	if err != nil {
		t.Fatalf("Get on corrupted file: %v", err)
	}
	if found {
		t.Error("found a key in a corrupted file")
	}

	// Writes recover the file.
	if err := s.Set("a", []byte(`"ok"`)); err != nil {
		t.Fatalf("Set after corruption: %v", err)
	}
	got, found, _ := s.Get("a")
	if !found || string(got) != `"ok"` {
		t.Errorf("Get after recovery = %s, found %v", got, found)
	}
}

func TestPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	if err := New(path).Set("a", []byte(`42`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, found, err := New(path).Get("a")
	if err != nil || !found {
		t.Fatalf("Get from fresh instance = found %v, err %v", found, err)
	}
	if string(got) != `42` {
		t.Errorf("Get = %s, want 42", got)
	}
}
