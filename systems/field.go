package systems

import "math"

// channelWidth is the Gaussian cross-channel width of the river centerline.
const channelWidth = 0.18

// VectorField is the analytic river surface flow field: a meandering fast
// channel with sinusoidal cross-currents layered on top. It is a pure
// function of normalized position and time; the formula is the visual
// identity of the installation and must not drift.
type VectorField struct {
	Duration  float64 // seconds per full phase cycle
	BaseSpeed float64 // downstream speed scale
}

// NewVectorField creates a field with the given phase duration and base speed.
func NewVectorField(duration, baseSpeed float64) *VectorField {
	return &VectorField{Duration: duration, BaseSpeed: baseSpeed}
}

// Velocity returns the flow vector at a normalized position and time.
// Defined for all real inputs; intended domain is [0,1]x[0,1].
func (f *VectorField) Velocity(x, y, t float64) (vx, vy float64) {
	phase := 2 * math.Pi * t / f.Duration

	// Meandering channel centerline and Gaussian cross-channel weighting
	yCenter := 0.5 + 0.12*math.Sin(2*math.Pi*0.65*x+phase)
	d := (y - yCenter) / channelWidth
	profile := math.Exp(-0.5 * d * d)

	vx = f.BaseSpeed*(0.65+1.7*profile) +
		0.10*math.Sin(2*math.Pi*3*y+phase) +
		0.05*math.Sin(2*math.Pi*(1.2*x+0.4*y)+2*phase)

	vy = 0.25*(yCenter-y)*profile +
		0.10*math.Sin(2*math.Pi*1.4*x+1.5*phase) +
		0.05*math.Sin(2*math.Pi*(2.2*y+0.3*x)+0.8*phase)

	return vx, vy
}

// MaxSpeed returns the maximum speed magnitude observed on a coarse 11x11
// grid over the unit square at time t. Used by the trail pipeline as a
// normalization denominator, not for advection.
func (f *VectorField) MaxSpeed(t float64) float64 {
	var maxSq float64
	for yi := 0; yi <= 10; yi++ {
		y := float64(yi) * 0.1
		for xi := 0; xi <= 10; xi++ {
			x := float64(xi) * 0.1
			vx, vy := f.Velocity(x, y, t)
			sq := vx*vx + vy*vy
			if sq > maxSq {
				maxSq = sq
			}
		}
	}
	return math.Sqrt(maxSq)
}
