package hook

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_Discover(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, "scoreboard", "", EventGameOver)
	writeHook(t, dir, "lights", "", EventSliced, EventHazardHit)
	writeHook(t, dir, "logger", "", "*")

	// Entries the manager must ignore.
	os.WriteFile(filepath.Join(dir, "README"), []byte("not a hook"), 0644)
	os.MkdirAll(filepath.Join(dir, "empty"), 0755)
	os.MkdirAll(filepath.Join(dir, "broken"), 0755)
	os.WriteFile(filepath.Join(dir, "broken", ManifestFile), []byte("{"), 0644)
	os.MkdirAll(filepath.Join(dir, "nameless"), 0755)
	os.WriteFile(filepath.Join(dir, "nameless", ManifestFile), []byte(`{"executable":"x"}`), 0644)

	m := NewManager(dir)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	hooks := m.List()
	if len(hooks) != 3 {
		t.Fatalf("expected 3 hooks, got %d", len(hooks))
	}
	if hooks[0].Manifest.Name != "lights" || hooks[1].Manifest.Name != "logger" || hooks[2].Manifest.Name != "scoreboard" {
		t.Errorf("List() not sorted by name: %s, %s, %s", hooks[0].Manifest.Name, hooks[1].Manifest.Name, hooks[2].Manifest.Name)
	}

	h, err := m.Get("scoreboard")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if h.Path != filepath.Join(dir, "scoreboard") {
		t.Errorf("Path = %q", h.Path)
	}
	if h.Executable != filepath.Join(dir, "scoreboard", "run.sh") {
		t.Errorf("Executable = %q", h.Executable)
	}
}

func TestManager_Subscribers(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, "scoreboard", "", EventGameOver)
	writeHook(t, dir, "lights", "", EventSliced, EventHazardHit)
	writeHook(t, dir, "logger", "", "*")

	m := NewManager(dir)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	tests := []struct {
		event string
		want  []string
	}{
		{event: EventSliced, want: []string{"lights", "logger"}},
		{event: EventGameOver, want: []string{"logger", "scoreboard"}},
		{event: EventCombo, want: []string{"logger"}},
	}

	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			got := m.Subscribers(tt.event)
			if len(got) != len(tt.want) {
				t.Fatalf("Subscribers(%s) = %d hooks, want %v", tt.event, len(got), tt.want)
			}
			for i := range got {
				if got[i].Manifest.Name != tt.want[i] {
					t.Errorf("hook %d = %s, want %s", i, got[i].Manifest.Name, tt.want[i])
				}
			}
		})
	}
}

func TestManager_Discover_MissingDir(t *testing.T) {
	for _, dir := range []string{"", filepath.Join(t.TempDir(), "nope")} {
		m := NewManager(dir)
		if err := m.Discover(); err != nil {
			t.Errorf("Discover(%q) error = %v", dir, err)
		}
		if len(m.List()) != 0 {
			t.Errorf("Discover(%q) found hooks", dir)
		}
	}
}

func TestManager_Get_NotFound(t *testing.T) {
	m := NewManager(t.TempDir())
	m.Discover()

	if _, err := m.Get("nope"); !errors.Is(err, ErrHookNotFound) {
		t.Errorf("Get() error = %v, want ErrHookNotFound", err)
	}
}

func TestHook_Wants(t *testing.T) {
	h := &Hook{Manifest: Manifest{Events: []string{EventSliced}}}
	if !h.Wants(EventSliced) || h.Wants(EventMissed) {
		t.Error("Wants() should match listed events only")
	}

	all := &Hook{Manifest: Manifest{Events: []string{"*"}}}
	if !all.Wants(EventMissed) {
		t.Error("wildcard hook should want every event")
	}
}
