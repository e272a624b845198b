package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/drift/config"
)

func TestNormalizeRoundtrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()

	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: roundtrip %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	pv := NewParamVector()
	got := pv.ExtractFromConfig(config.Default())
	for i, spec := range pv.Specs {
		if math.Abs(got[i]-spec.Default) > 1e-9 {
			t.Errorf("%s: config default %v, spec default %v", spec.Path, got[i], spec.Default)
		}
	}
}

func TestApplyClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	pv.ApplyToConfig(cfg, []float64{100, -5, 0.9, 0.05})
	got := pv.ExtractFromConfig(cfg)
	want := []float64{4.0, 10, 0.9, 0.05}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("%s = %v, want %v", pv.Specs[i].Path, got[i], want[i])
		}
	}
}
