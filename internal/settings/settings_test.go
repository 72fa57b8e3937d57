package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func withTempHomeAndCwd(t *testing.T) (home, cwd string) {
	t.Helper()
	home = t.TempDir()
	cwd = t.TempDir()
	t.Setenv("HOME", home)
	origCwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(cwd); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(origCwd) })
	return home, cwd
}

func TestLoadBootstrapsDefaultsWhenNoConfigFound(t *testing.T) {
	home, _ := withTempHomeAndCwd(t)

	s, path, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := Default()
	if s != want {
		t.Fatalf("Load() = %+v, want defaults %+v", s, want)
	}
	wantPath := filepath.Join(home, ".config", "midifluxd", "config.yaml")
	if path != wantPath {
		t.Fatalf("path = %q, want %q", path, wantPath)
	}
	if _, err := os.Stat(wantPath); err != nil {
		t.Fatalf("expected config bootstrapped at %s: %v", wantPath, err)
	}
}

func TestLoadReadsLocalConfigAndFillsMissingFields(t *testing.T) {
	_, cwd := withTempHomeAndCwd(t)
	content := "profilesDir: /custom/profiles\n"
	if err := os.WriteFile(filepath.Join(cwd, "midifluxd.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, path, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if path != "./midifluxd.yaml" {
		t.Fatalf("path = %q, want ./midifluxd.yaml", path)
	}
	if s.ProfilesDir != "/custom/profiles" {
		t.Fatalf("ProfilesDir = %q, want /custom/profiles", s.ProfilesDir)
	}
	if s.DefaultProfile != Default().DefaultProfile {
		t.Fatalf("DefaultProfile = %q, want default %q", s.DefaultProfile, Default().DefaultProfile)
	}
	if s.LatencyThreshold != 5*time.Millisecond {
		t.Fatalf("LatencyThreshold = %v, want the default 5ms", s.LatencyThreshold)
	}
}

func TestProfilePathJoinsRelativeAgainstProfilesDir(t *testing.T) {
	s := Settings{ProfilesDir: "profiles", DefaultProfile: "default.json"}
	want := filepath.Join("profiles", "default.json")
	if got := s.ProfilePath(); got != want {
		t.Fatalf("ProfilePath() = %q, want %q", got, want)
	}
}

func TestProfilePathPassesThroughAbsolute(t *testing.T) {
	abs := filepath.Join(string(filepath.Separator), "etc", "midiflux", "live.json")
	s := Settings{ProfilesDir: "profiles", DefaultProfile: abs}
	if got := s.ProfilePath(); got != abs {
		t.Fatalf("ProfilePath() = %q, want %q (absolute path passthrough)", got, abs)
	}
}
