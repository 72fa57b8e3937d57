package profile

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestDiscoverFindsNestedJSONFiles(t *testing.T) {
	dir := t.TempDir()
	mustWrite := func(rel string) {
		full := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	mustWrite("default.json")
	mustWrite("studio/mixing.json")
	mustWrite("notes.txt")

	got, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(got)

	want := []string{
		filepath.Join(dir, "default.json"),
		filepath.Join(dir, "studio/mixing.json"),
	}
	sort.Strings(want)

	if len(got) != len(want) {
		t.Fatalf("Discover returned %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("Discover[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDiscoverEmptyDirReturnsNoMatches(t *testing.T) {
	got, err := Discover(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("Discover = %v, want empty", got)
	}
}
