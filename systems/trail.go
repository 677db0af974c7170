package systems

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/nakagimadevelop002-glitch/RiverProjectionMapping/config"
)

// NormalizeMode selects how the brightness ceiling is estimated.
type NormalizeMode uint8

const (
	// NormalizeApprox reproduces the original placeholder: the ceiling only
	// decays exponentially toward a floor.
	NormalizeApprox NormalizeMode = iota
	// NormalizePercentile tracks a genuine percentile of pixel luminance.
	NormalizePercentile
)

// ParseNormalizeMode converts a config mode string.
func ParseNormalizeMode(s string) NormalizeMode {
	if s == "percentile" {
		return NormalizePercentile
	}
	return NormalizeApprox
}

// ceilingEpsilon is the floor of the brightness ceiling, guarding the
// normalization divide.
const ceilingEpsilon = 1e-4

// maxCeilingSamples caps the luminance sample count per percentile update.
const maxCeilingSamples = 65536

// TrailPipeline turns particle snapshots into a persistent, decaying light
// trail image. Four image-space passes run per frame over a float RGBA
// accumulation buffer: decay, additive splat, separable blur, and
// normalize+gamma into the display buffer.
type TrailPipeline struct {
	field *VectorField

	width, height int
	accum         []float32 // persistent accumulation image, RGBA interleaved
	scratch       []float32 // blur working buffer
	display       []float32 // normalized output in [0,1], RGBA interleaved

	decay      float32
	blurPasses int
	gamma      float64
	mode       NormalizeMode
	interval   int
	percentile float64

	ceiling   float32
	frame     int
	sampleBuf []float64

	warnedUninitialized bool
}

// NewTrailPipeline creates a pipeline with the configured pass parameters.
// Initialize must be called before RenderFrame.
func NewTrailPipeline(field *VectorField, cfg config.TrailConfig) *TrailPipeline {
	interval := cfg.NormalizeInterval
	if interval < 1 {
		interval = 1
	}
	return &TrailPipeline{
		field:      field,
		decay:      cfg.DecayFactor,
		blurPasses: cfg.BlurPasses,
		gamma:      cfg.Gamma,
		mode:       ParseNormalizeMode(cfg.NormalizeMode),
		interval:   interval,
		percentile: cfg.Percentile,
	}
}

// Initialize allocates the persistent image and working buffers at the given
// resolution. Calling it again with a new resolution replaces the buffers;
// accumulated trails are lost but nothing is ever truncated.
func (p *TrailPipeline) Initialize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("trail resolution must be positive, got %dx%d", width, height)
	}
	p.width = width
	p.height = height
	n := width * height * 4
	p.accum = make([]float32, n)
	p.scratch = make([]float32, n)
	p.display = make([]float32, n)
	p.ceiling = 1
	p.frame = 0
	return nil
}

// Width returns the output image width in pixels.
func (p *TrailPipeline) Width() int { return p.width }

// Height returns the output image height in pixels.
func (p *TrailPipeline) Height() int { return p.height }

// Output returns a live reference to the display image, RGBA interleaved
// with every channel in [0,1]. The contents change on the next RenderFrame;
// consumers that need stable pixels must copy.
func (p *TrailPipeline) Output() []float32 {
	return p.display
}

// RenderFrame runs the four passes in order. Call exactly once per displayed
// frame. An uninitialized pipeline logs once and no-ops.
func (p *TrailPipeline) RenderFrame(snapshot []Particle, count int, t float64) {
	if p.accum == nil {
		if !p.warnedUninitialized {
			slog.Warn("trail pipeline used before Initialize, skipping frames")
			p.warnedUninitialized = true
		}
		return
	}
	if count > len(snapshot) {
		count = len(snapshot)
	}

	p.decayPass()
	p.splatPass(snapshot[:count], t)
	for i := 0; i < p.blurPasses; i++ {
		p.blurPass()
	}
	p.normalizePass()
	p.frame++
}

// decayPass dampens the whole accumulation image so trails fade out over a
// multi-second window instead of persisting forever.
func (p *TrailPipeline) decayPass() {
	decay := p.decay
	accum := p.accum
	parallelChunks(p.height, func(start, end int) {
		for i := start * p.width * 4; i < end*p.width*4; i++ {
			accum[i] *= decay
		}
	})
}

// splatPass additively draws one bright pixel per visible particle.
// Overlapping particles sum, so brightness encodes density times speed.
func (p *TrailPipeline) splatPass(particles []Particle, t float64) {
	maxSpeed := p.field.MaxSpeed(t) + 1e-6
	for i := range particles {
		x, y := particles[i].X, particles[i].Y
		if x < 0 || x > 1 || y < 0 || y > 1 {
			continue
		}
		px := int(x*float64(p.width-1) + 0.5)
		py := int(y*float64(p.height-1) + 0.5)

		vx, vy := p.field.Velocity(x, y, t)
		speedNorm := magnitude(vx, vy) / maxSpeed
		intensity := float32(0.5 + 1.5*speedNorm)

		idx := (py*p.width + px) * 4
		p.accum[idx] += intensity
		p.accum[idx+1] += intensity
		p.accum[idx+2] += intensity
	}
}

// blurPass applies one separable [1,2,1]/4 pass, horizontal then vertical,
// with edge replication. Softens point splats into continuous streaks.
func (p *TrailPipeline) blurPass() {
	w, h := p.width, p.height
	accum, scratch := p.accum, p.scratch

	// Horizontal: accum -> scratch
	parallelChunks(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := y * w * 4
			for x := 0; x < w; x++ {
				left, right := x-1, x+1
				if left < 0 {
					left = 0
				}
				if right >= w {
					right = w - 1
				}
				for c := 0; c < 3; c++ {
					scratch[row+x*4+c] = (accum[row+left*4+c] +
						2*accum[row+x*4+c] +
						accum[row+right*4+c]) * 0.25
				}
			}
		}
	})

	// Vertical: scratch -> accum
	parallelChunks(h, func(start, end int) {
		for y := start; y < end; y++ {
			up, down := y-1, y+1
			if up < 0 {
				up = 0
			}
			if down >= h {
				down = h - 1
			}
			for x := 0; x < w; x++ {
				for c := 0; c < 3; c++ {
					accum[(y*w+x)*4+c] = (scratch[(up*w+x)*4+c] +
						2*scratch[(y*w+x)*4+c] +
						scratch[(down*w+x)*4+c]) * 0.25
				}
			}
		}
	})
}

// normalizePass rescales the accumulation image into [0,1] by the current
// brightness ceiling and applies the gamma curve into the display buffer.
func (p *TrailPipeline) normalizePass() {
	if p.frame%p.interval == 0 {
		p.updateCeiling()
	}

	inv := 1 / p.ceiling
	gamma := p.gamma
	accum, display := p.accum, p.display
	w := p.width
	parallelChunks(p.height, func(start, end int) {
		for i := start * w; i < end*w; i++ {
			idx := i * 4
			for c := 0; c < 3; c++ {
				v := clamp01(accum[idx+c] * inv)
				display[idx+c] = float32(math.Pow(float64(v), gamma))
			}
			display[idx+3] = 1
		}
	})
}

// updateCeiling re-estimates the brightness ceiling.
func (p *TrailPipeline) updateCeiling() {
	switch p.mode {
	case NormalizeApprox:
		// Original placeholder behavior, preserved for visual parity:
		// exponential decay toward a floor, no dependence on pixel values.
		c := p.ceiling * 0.99
		if c < ceilingEpsilon {
			c = ceilingEpsilon
		}
		p.ceiling = c
	case NormalizePercentile:
		stride := (p.width*p.height)/maxCeilingSamples + 1
		p.sampleBuf = p.sampleBuf[:0]
		for i := 0; i < p.width*p.height; i += stride {
			idx := i * 4
			lum := (p.accum[idx] + p.accum[idx+1] + p.accum[idx+2]) / 3
			p.sampleBuf = append(p.sampleBuf, float64(lum))
		}
		sort.Float64s(p.sampleBuf)
		q := stat.Quantile(p.percentile, stat.Empirical, p.sampleBuf, nil)
		if q < ceilingEpsilon {
			q = ceilingEpsilon
		}
		p.ceiling = float32(q)
	}
}

// Ceiling returns the current brightness ceiling estimate.
func (p *TrailPipeline) Ceiling() float32 {
	return p.ceiling
}

// Frames returns the number of frames rendered since Initialize.
func (p *TrailPipeline) Frames() int {
	return p.frame
}

// SetDecayFactor changes the per-frame trail decay, clamped to (0, 1].
func (p *TrailPipeline) SetDecayFactor(v float32) {
	if v <= 0 || v > 1 {
		return
	}
	p.decay = v
}

// SetGamma changes the display gamma curve exponent.
func (p *TrailPipeline) SetGamma(v float64) {
	if v <= 0 {
		return
	}
	p.gamma = v
}

// SetNormalizeMode switches the ceiling estimation strategy. Switching resets
// the ceiling so the new estimator starts from a known state.
func (p *TrailPipeline) SetNormalizeMode(m NormalizeMode) {
	if m == p.mode {
		return
	}
	p.mode = m
	p.ceiling = 1
}

// Cleanup releases the persistent buffers. Idempotent.
func (p *TrailPipeline) Cleanup() {
	p.accum = nil
	p.scratch = nil
	p.display = nil
	p.sampleBuf = nil
	p.width, p.height = 0, 0
}
