package smoke

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

const (
	lattice = 64
	// torusRadius sets the feature size: about 2*pi*r noise cells span
	// the tile.
	torusRadius = 2.0
)

// Noise is a tiling simplex noise texture sampled bilinearly, like a
// repeat-wrapped noise image.
type Noise struct {
	grid [lattice * lattice]float64
}

// NewNoise bakes the lattice from seed. Each axis of the unit square is
// mapped onto a circle in 4D simplex space so both edges wrap seamlessly.
func NewNoise(seed uint64) *Noise {
	src := opensimplex.NewNormalized(int64(seed))
	n := &Noise{}
	for y := range lattice {
		ay := 2 * math.Pi * float64(y) / lattice
		for x := range lattice {
			ax := 2 * math.Pi * float64(x) / lattice
			v := src.Eval4(
				torusRadius*math.Cos(ax), torusRadius*math.Sin(ax),
				torusRadius*math.Cos(ay), torusRadius*math.Sin(ay),
			)
			n.grid[y*lattice+x] = math.Min(1, math.Max(0, v))
		}
	}
	return n
}

// At samples the field at (u, v) in [0,1]. Coordinates wrap.
func (n *Noise) At(u, v float64) float64 {
	fx := u * lattice
	fy := v * lattice
	x0, y0 := math.Floor(fx), math.Floor(fy)
	tx, ty := fade(fx-x0), fade(fy-y0)

	ix, iy := wrap(int(x0)), wrap(int(y0))
	ix1, iy1 := wrap(ix+1), wrap(iy+1)

	a := n.grid[iy*lattice+ix]
	b := n.grid[iy*lattice+ix1]
	c := n.grid[iy1*lattice+ix]
	d := n.grid[iy1*lattice+ix1]

	top := a + (b-a)*tx
	bot := c + (d-c)*tx
	return top + (bot-top)*ty
}

func fade(t float64) float64 {
	return t * t * (3 - 2*t)
}

func wrap(i int) int {
	i %= lattice
	if i < 0 {
		i += lattice
	}
	return i
}
