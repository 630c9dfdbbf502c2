package grid

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/gravitas-games/hexext/hex"
)

// GenConfig holds terrain generation parameters.
type GenConfig struct {
	Radius      int     // Hex grid radius
	Seed        int64   // Random seed (0 = random)
	SeaLevel    float64 // Elevation threshold for water (0.0–1.0)
	HillLevel   float64 // Elevation threshold for hills (0.0–1.0)
	MountainLvl float64 // Elevation threshold for mountains (0.0–1.0)
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:      16,
		Seed:        0,
		SeaLevel:    0.28,
		HillLevel:   0.60,
		MountainLvl: 0.72,
	}
}

// Generate creates a terrain map from layered simplex noise. The same
// non-zero seed always yields the same map.
func Generate(cfg GenConfig) *Map {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	elevNoise := opensimplex.NewNormalized(seed)
	wetNoise := opensimplex.NewNormalized(seed + 1)

	m := NewMap(cfg.Radius)
	m.Seed = seed

	for _, a := range hex.Disk(hex.Axial{}, cfg.Radius) {
		// Axial -> cartesian so noise is isotropic across the hex layout.
		x := float64(a.Q) + float64(a.R)*0.5
		y := float64(a.R) * math.Sqrt(3.0) / 2.0

		elev := octaveNoise(elevNoise, x, y, 4, 0.09, 0.5)
		wet := octaveNoise(wetNoise, x, y, 3, 0.07, 0.5)

		m.Cells[a] = deriveTerrain(elev, wet, cfg)
	}

	return m
}

func deriveTerrain(elev, wet float64, cfg GenConfig) Terrain {
	switch {
	case elev < cfg.SeaLevel:
		return Water
	case elev >= cfg.MountainLvl:
		return Mountain
	case elev >= cfg.HillLevel:
		return Hills
	case wet > 0.62 && elev < cfg.SeaLevel+0.08:
		return Swamp
	case wet > 0.52:
		return Forest
	default:
		return Plains
	}
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
