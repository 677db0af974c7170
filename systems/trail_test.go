package systems

import (
	"math"
	"testing"

	"github.com/nakagimadevelop002-glitch/RiverProjectionMapping/config"
)

func testTrailConfig() config.TrailConfig {
	return config.TrailConfig{
		Width:             16,
		Height:            16,
		DecayFactor:       0.92,
		BlurPasses:        1,
		Gamma:             0.72,
		NormalizeMode:     "approx",
		NormalizeInterval: 6,
		Percentile:        0.99,
	}
}

func newTestPipeline(t *testing.T, cfg config.TrailConfig) *TrailPipeline {
	t.Helper()
	p := NewTrailPipeline(testField(), cfg)
	if err := p.Initialize(cfg.Width, cfg.Height); err != nil {
		t.Fatalf("initializing pipeline: %v", err)
	}
	return p
}

func TestInitializeRejectsBadResolution(t *testing.T) {
	p := NewTrailPipeline(testField(), testTrailConfig())
	if err := p.Initialize(0, 16); err == nil {
		t.Error("expected error for zero width")
	}
	if err := p.Initialize(16, -1); err == nil {
		t.Error("expected error for negative height")
	}
}

func TestDecayPassExact(t *testing.T) {
	p := newTestPipeline(t, testTrailConfig())

	p.accum[(3*16+5)*4] = 2.0
	p.accum[(7*16+1)*4+1] = 0.25
	p.decayPass()

	if got := p.accum[(3*16+5)*4]; got != 2.0*0.92 {
		t.Errorf("decayed pixel = %v, want %v", got, 2.0*0.92)
	}
	if got := p.accum[(7*16+1)*4+1]; got != 0.25*0.92 {
		t.Errorf("decayed pixel = %v, want %v", got, 0.25*0.92)
	}
}

func TestDecayOnlyFramesTendToZero(t *testing.T) {
	p := newTestPipeline(t, testTrailConfig())
	for i := range p.accum {
		p.accum[i] = 10
	}

	for frame := 0; frame < 300; frame++ {
		p.RenderFrame(nil, 0, 0)
	}

	for i, v := range p.accum {
		if v > 1e-6 {
			t.Fatalf("accum[%d] = %v after 300 decay-only frames, want ~0", i, v)
		}
	}
}

func TestSplatSkipsOutsideDomain(t *testing.T) {
	p := newTestPipeline(t, testTrailConfig())
	outside := []Particle{
		{X: -0.1, Y: 0.5},
		{X: 1.5, Y: 0.5},
		{X: 0.5, Y: -0.01},
		{X: 0.5, Y: 1.01},
		{X: parkedX, Y: 0},
	}
	p.splatPass(outside, 0)

	for i, v := range p.accum {
		if v != 0 {
			t.Fatalf("accum[%d] = %v, want 0 for all-outside snapshot", i, v)
		}
	}
}

func TestSplatIntensityRange(t *testing.T) {
	p := newTestPipeline(t, testTrailConfig())
	p.splatPass([]Particle{{X: 0.5, Y: 0.5}}, 0)

	px := int(0.5*15 + 0.5)
	idx := (px*16 + px) * 4
	got := p.accum[idx]
	// Intensity is 0.5 + 1.5*speedNorm with speedNorm in [0,1]
	if got < 0.5 || got > 2.0 {
		t.Errorf("splat intensity = %v, want [0.5, 2.0]", got)
	}
	if p.accum[idx+1] != got || p.accum[idx+2] != got {
		t.Errorf("splat not uniform across RGB: %v %v %v",
			got, p.accum[idx+1], p.accum[idx+2])
	}
}

func TestSplatsAccumulateAdditively(t *testing.T) {
	p := newTestPipeline(t, testTrailConfig())
	one := []Particle{{X: 0.5, Y: 0.5}}

	p.splatPass(one, 0)
	px := int(0.5*15 + 0.5)
	idx := (px*16 + px) * 4
	single := p.accum[idx]

	p.splatPass(one, 0)
	if got := p.accum[idx]; math.Abs(float64(got-2*single)) > 1e-6 {
		t.Errorf("two splats = %v, want %v", got, 2*single)
	}
}

func TestBlurConservesInteriorImpulse(t *testing.T) {
	p := newTestPipeline(t, testTrailConfig())
	center := (8*16 + 8) * 4
	p.accum[center] = 16

	p.blurPass()

	// Separable [1,2,1]/4 twice: 3x3 kernel summing to 1, center weight 1/4.
	if got := p.accum[center]; math.Abs(float64(got-4)) > 1e-5 {
		t.Errorf("center after blur = %v, want 4", got)
	}
	var sum float32
	for i := 0; i < len(p.accum); i += 4 {
		sum += p.accum[i]
	}
	if math.Abs(float64(sum-16)) > 1e-4 {
		t.Errorf("blur total = %v, want 16 (interior impulse conserved)", sum)
	}
}

func TestNormalizeClampsHugeValues(t *testing.T) {
	p := newTestPipeline(t, testTrailConfig())
	for i := range p.accum {
		p.accum[i] = 1e9
	}
	p.normalizePass()

	for i, v := range p.display {
		if v < 0 || v > 1 {
			t.Fatalf("display[%d] = %v outside [0,1]", i, v)
		}
	}
}

func TestApproxCeilingSchedule(t *testing.T) {
	p := newTestPipeline(t, testTrailConfig())

	// Ceiling updates on frames 0, 6, 12, ... in approx mode.
	for frame := 0; frame < 6; frame++ {
		p.RenderFrame(nil, 0, 0)
	}
	want := float32(1 * 0.99)
	if got := p.Ceiling(); math.Abs(float64(got-want)) > 1e-7 {
		t.Errorf("ceiling after 6 frames = %v, want %v", got, want)
	}

	p.RenderFrame(nil, 0, 0)
	want *= 0.99
	if got := p.Ceiling(); math.Abs(float64(got-want)) > 1e-7 {
		t.Errorf("ceiling after 7 frames = %v, want %v", got, want)
	}
}

func TestPercentileCeilingTracksPixels(t *testing.T) {
	cfg := testTrailConfig()
	cfg.NormalizeMode = "percentile"
	p := newTestPipeline(t, cfg)

	for i := 0; i < 16*16; i++ {
		v := float32(i) / 255 * 4 // luminance ramp 0..~4
		p.accum[i*4] = v
		p.accum[i*4+1] = v
		p.accum[i*4+2] = v
	}
	p.updateCeiling()

	got := float64(p.Ceiling())
	if got < 3.5 || got > 4.01 {
		t.Errorf("percentile ceiling = %v, want near the top of the 0..4 ramp", got)
	}
}

func TestCleanupIdempotent(t *testing.T) {
	p := newTestPipeline(t, testTrailConfig())
	p.RenderFrame([]Particle{{X: 0.5, Y: 0.5}}, 1, 0)

	p.Cleanup()
	p.Cleanup()

	// RenderFrame after Cleanup must degrade to a no-op, not panic.
	p.RenderFrame([]Particle{{X: 0.5, Y: 0.5}}, 1, 0)
	if p.Output() != nil {
		t.Error("output not released by Cleanup")
	}
}

func TestRenderFrameHonorsCount(t *testing.T) {
	p := newTestPipeline(t, testTrailConfig())
	snapshot := []Particle{{X: 0.25, Y: 0.25}, {X: 0.75, Y: 0.75}}

	// Count beyond the snapshot length must not panic.
	p.RenderFrame(snapshot, 10, 0)

	w := float64(15)
	px := int(0.75*w + 0.5)
	idx := (px*16 + px) * 4
	if p.accum[idx] == 0 {
		t.Error("second particle not splatted")
	}
}
