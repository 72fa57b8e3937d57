package profile

import (
	"fmt"
	"testing"

	"github.com/midiflux/midiflux/internal/action/effector"
)

type fakeAudio struct {
	preloaded map[string]string
	failPaths map[string]bool
}

func newFakeAudio() *fakeAudio {
	return &fakeAudio{preloaded: map[string]string{}, failPaths: map[string]bool{}}
}

func (a *fakeAudio) Preload(path string) (string, error) {
	if a.failPaths[path] {
		return "", fmt.Errorf("no such asset %q", path)
	}
	id := "asset:" + path
	a.preloaded[path] = id
	return id, nil
}

func (a *fakeAudio) Play(assetID string) error { return nil }

const profileWithSound = `{
	"ProfileName": "Sound Profile",
	"MidiDevices": [{
		"DeviceName": "d",
		"Mappings": [{
			"Id": "m1", "InputType": "NoteOn", "Channel": 1, "Note": 1,
			"Action": {"$type": "PlaySound", "Parameters": {"Path": "beep.wav"}}
		}]
	}]
}`

func TestManagerActivatePreloadsSoundAssets(t *testing.T) {
	au := newFakeAudio()
	m := NewManager(&effector.Set{Audio: au})

	result, err := Decode([]byte(profileWithSound))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Activate(result.Profile); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	if _, ok := au.preloaded["beep.wav"]; !ok {
		t.Fatal("expected beep.wav to be preloaded during activation")
	}
	if m.Current() != result.Profile {
		t.Fatal("Current() should return the activated profile")
	}
}

func TestManagerActivateFailsWhenAssetMissing(t *testing.T) {
	au := newFakeAudio()
	au.failPaths["beep.wav"] = true
	m := NewManager(&effector.Set{Audio: au})

	result, err := Decode([]byte(profileWithSound))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Activate(result.Profile); err == nil {
		t.Fatal("expected Activate to fail when a referenced asset cannot be preloaded")
	}
	if m.Current() != nil {
		t.Fatal("a failed activation must not publish a partially-preloaded profile")
	}
}

func TestManagerActivateInitializesStateFromProfile(t *testing.T) {
	m := NewManager(&effector.Set{})
	p := &Profile{Name: "p", InitialStates: map[int]int{3: 99}}
	p.Registry = result(t, `{"ProfileName":"p","MidiDevices":[]}`).Profile.Registry
	if err := m.Activate(p); err != nil {
		t.Fatal(err)
	}
	if got := m.State().Get(3); got != 99 {
		t.Fatalf("state[3] = %d, want 99 from InitialStates", got)
	}
}

func result(t *testing.T, doc string) LoadResult {
	t.Helper()
	r, err := Decode([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	return r
}
