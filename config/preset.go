package config

import "fmt"

// Preset names accepted by ApplyPreset.
const (
	PresetDesktop = "desktop"
	PresetMobile  = "mobile"
)

// ApplyPreset overlays a named set of values on c. The desktop preset is the
// embedded defaults and changes nothing. Derived values are recomputed.
func (c *Config) ApplyPreset(name string) error {
	switch name {
	case "", PresetDesktop:
	case PresetMobile:
		c.Particles.Count = 50
		c.Particles.MaxSpeed = 7
		c.Particles.DotSize = 20
		c.Repel.Radius = 400
		c.Flock.BottomBoundary = 0.3
		c.Grid.Cols = 4
		c.Grid.Rows = 0
		c.Grid.MarginX = 0
		c.Grid.MarginY = 0
		c.Loading.Distance = 14
		// Always lay the wave out vertically.
		c.Wave.VerticalBelowAspect = 1e9
	default:
		return fmt.Errorf("unknown preset %q", name)
	}
	c.Refresh()
	return nil
}
