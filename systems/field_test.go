package systems

import (
	"math"
	"testing"
)

func testField() *VectorField {
	return NewVectorField(6.0, 0.5)
}

func TestVelocityDeterministic(t *testing.T) {
	f := testField()
	points := []struct{ x, y, tm float64 }{
		{0, 0, 0},
		{0.5, 0.5, 1.25},
		{1, 1, 6},
		{-0.3, 1.7, 123.4},
	}
	for _, pt := range points {
		vx1, vy1 := f.Velocity(pt.x, pt.y, pt.tm)
		vx2, vy2 := f.Velocity(pt.x, pt.y, pt.tm)
		if vx1 != vx2 || vy1 != vy2 {
			t.Errorf("Velocity(%v,%v,%v) not deterministic: (%v,%v) vs (%v,%v)",
				pt.x, pt.y, pt.tm, vx1, vy1, vx2, vy2)
		}
	}
}

func TestVelocityContinuous(t *testing.T) {
	f := testField()
	const h = 1e-3
	const maxJump = 0.05 // generous bound on |v(p+h) - v(p)| for smooth sinusoids

	for yi := 0; yi <= 20; yi++ {
		for xi := 0; xi <= 20; xi++ {
			x := float64(xi) * 0.05
			y := float64(yi) * 0.05
			vx, vy := f.Velocity(x, y, 1.0)

			for _, d := range [][2]float64{{h, 0}, {0, h}} {
				nvx, nvy := f.Velocity(x+d[0], y+d[1], 1.0)
				if math.Abs(nvx-vx) > maxJump || math.Abs(nvy-vy) > maxJump {
					t.Fatalf("discontinuity at (%v,%v): dv=(%v,%v)",
						x, y, nvx-vx, nvy-vy)
				}
			}

			nvx, nvy := f.Velocity(x, y, 1.0+h)
			if math.Abs(nvx-vx) > maxJump || math.Abs(nvy-vy) > maxJump {
				t.Fatalf("time discontinuity at (%v,%v)", x, y)
			}
		}
	}
}

func TestVelocityFasterAtCenterline(t *testing.T) {
	f := testField()
	// At t=0 and x=0 the centerline sits at y=0.5; the Gaussian profile must
	// make downstream flow faster there than far off-channel.
	vxCenter, _ := f.Velocity(0, 0.5, 0)
	vxEdge, _ := f.Velocity(0, 0.02, 0)
	if vxCenter <= vxEdge {
		t.Errorf("centerline vx = %v not faster than edge vx = %v", vxCenter, vxEdge)
	}
}

func TestMaxSpeedBoundsGridSamples(t *testing.T) {
	f := testField()
	for _, tm := range []float64{0, 1.5, 3.7} {
		maxSpeed := f.MaxSpeed(tm)
		if maxSpeed <= 0 {
			t.Fatalf("MaxSpeed(%v) = %v, want > 0", tm, maxSpeed)
		}
		for yi := 0; yi <= 10; yi++ {
			for xi := 0; xi <= 10; xi++ {
				vx, vy := f.Velocity(float64(xi)*0.1, float64(yi)*0.1, tm)
				if s := math.Sqrt(vx*vx + vy*vy); s > maxSpeed+1e-12 {
					t.Fatalf("grid sample speed %v exceeds MaxSpeed %v", s, maxSpeed)
				}
			}
		}
	}
}
