package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Particles.Count != 72 {
		t.Errorf("particles.count = %d, want 72", cfg.Particles.Count)
	}
	if cfg.Derived.Width != 1280 || cfg.Derived.Height != 720 {
		t.Errorf("derived size = %vx%v, want 1280x720", cfg.Derived.Width, cfg.Derived.Height)
	}
	if got := cfg.Duration("grid"); got != 12*time.Second {
		t.Errorf("grid duration = %v, want 12s", got)
	}
	if got := cfg.Duration("loading"); got != 0 {
		t.Errorf("loading duration = %v, want 0", got)
	}
	if len(cfg.States.Sequence) != 3 || cfg.States.Sequence[0] != "grid" {
		t.Errorf("sequence = %v, want [grid wave flock]", cfg.States.Sequence)
	}
	if cfg.TrailLength("flock") != 10 || cfg.TrailLength("grid") != 0 {
		t.Errorf("trail lengths = flock %d grid %d", cfg.TrailLength("flock"), cfg.TrailLength("grid"))
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "user.yaml")
	data := []byte("particles:\n  count: 10\nstates:\n  sequence: [flock]\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Particles.Count != 10 {
		t.Errorf("count = %d, want 10", cfg.Particles.Count)
	}
	// Keys absent from the user file keep their defaults.
	if cfg.Particles.MaxSpeed != 5 {
		t.Errorf("max_speed = %v, want 5", cfg.Particles.MaxSpeed)
	}
	if len(cfg.States.Sequence) != 1 || cfg.States.Sequence[0] != "flock" {
		t.Errorf("sequence = %v, want [flock]", cfg.States.Sequence)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("particles: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestNormalizeClamps(t *testing.T) {
	cfg := Default()
	cfg.Particles.Count = 0
	cfg.Particles.MaxSpeed = -1
	cfg.Repel.Exponent = 0
	cfg.Screen.Width = 0
	cfg.Grid.Rows = -3
	cfg.Loading.RotationSpeed = 0
	cfg.Loading.Rotations = -1
	cfg.Refresh()

	if cfg.Particles.Count != 1 {
		t.Errorf("count = %d, want 1", cfg.Particles.Count)
	}
	if cfg.Particles.MaxSpeed <= 0 {
		t.Errorf("max_speed = %v, want > 0", cfg.Particles.MaxSpeed)
	}
	if cfg.Repel.Exponent != 1 {
		t.Errorf("exponent = %v, want 1", cfg.Repel.Exponent)
	}
	if cfg.Derived.Width != 1 {
		t.Errorf("width = %v, want 1", cfg.Derived.Width)
	}
	if cfg.Grid.Rows != 0 {
		t.Errorf("rows = %d, want 0", cfg.Grid.Rows)
	}
	if cfg.Loading.RotationSpeed <= 0 {
		t.Errorf("rotation_speed = %v, want > 0", cfg.Loading.RotationSpeed)
	}
	if cfg.Loading.Rotations < 0 {
		t.Errorf("rotations = %v, want >= 0", cfg.Loading.Rotations)
	}
}

func TestResize(t *testing.T) {
	cfg := Default()
	cfg.Resize(400, 300)
	if cfg.Derived.Bounds.Max.X != 400 || cfg.Derived.Bounds.Max.Y != 300 {
		t.Errorf("bounds = %v, want 400x300", cfg.Derived.Bounds)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := Default()
	cp := cfg.Clone()
	cp.States.Sequence[0] = "wander"
	cp.Derived.Durations["grid"] = time.Second
	cp.Particles.Count = 3

	if cfg.States.Sequence[0] != "grid" {
		t.Error("clone shares sequence slice")
	}
	if cfg.Duration("grid") != 12*time.Second {
		t.Error("clone shares durations map")
	}
	if cfg.Particles.Count != 72 {
		t.Error("clone shares particle config")
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := Default()
	if err := cfg.ApplyPreset(PresetMobile); err != nil {
		t.Fatalf("ApplyPreset: %v", err)
	}
	if cfg.Particles.Count != 50 || cfg.Repel.Radius != 400 || cfg.Grid.Cols != 4 {
		t.Errorf("mobile preset not applied: count %d radius %v cols %d",
			cfg.Particles.Count, cfg.Repel.Radius, cfg.Grid.Cols)
	}

	if err := cfg.ApplyPreset("tablet"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Particles.Count = 33
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Particles.Count != 33 {
		t.Errorf("count = %d, want 33", back.Particles.Count)
	}
}
