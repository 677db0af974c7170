package systems

import (
	"log/slog"
	"math/rand"

	"github.com/nakagimadevelop002-glitch/RiverProjectionMapping/config"
)

// Mode selects how particles are emitted and advected.
type Mode uint8

const (
	// ModeContinuous keeps a constant population flowing in from the left edge.
	ModeContinuous Mode = iota
	// ModePulsed emits coherent walls of particles from a reusable pool.
	ModePulsed
)

// String returns the config-file name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeContinuous:
		return "continuous"
	case ModePulsed:
		return "pulsed"
	}
	return "unknown"
}

// ParseMode converts a config mode string. Unknown strings fall back to
// continuous; config validation rejects them before this is reached.
func ParseMode(s string) Mode {
	if s == "pulsed" {
		return ModePulsed
	}
	return ModeContinuous
}

// Particle is one massless tracer advected through the vector field.
// Group is -1 in continuous mode and the pool slot id in pulsed mode.
type Particle struct {
	X, Y  float64
	Group int
}

// TickDT is the fixed internal timestep in seconds. Advection always steps
// by this amount regardless of frame time, which decouples visual flow speed
// from frame rate.
const TickDT = 0.7 / 24.0

// Domain boundaries and pool positions, in normalized units.
const (
	rightEdge       = 1.02
	bottomEdge      = -0.02
	topEdge         = 1.02
	hiddenThreshold = -5.0
	parkedX         = -10.0

	// Continuous-mode left-edge inflow band
	inflowMinX = -0.02
	inflowMaxX = 0.03
)

// Simulation owns the particle array and advances it through the vector
// field. A single caller drives Advance at a steady cadence; per-particle
// work inside one tick is fanned out to goroutines, but particles never read
// each other's state.
type Simulation struct {
	field *VectorField
	rng   *rand.Rand

	mode      Mode
	particles []Particle
	speedMul  float64

	continuousCount int

	emitter      *WaveEmitter
	waveSpeed    float64
	waveInterval float64
	undulation   float64
	lastEmit     float64
	emitArmed    bool
}

// NewSimulation creates a simulation in the configured mode.
func NewSimulation(field *VectorField, cfg *config.Config, seed int64) *Simulation {
	s := &Simulation{
		field:           field,
		rng:             rand.New(rand.NewSource(seed)),
		speedMul:        cfg.Simulation.SpeedMultiplier,
		continuousCount: cfg.Simulation.ParticleCount,
		waveSpeed:       cfg.Wave.Speed,
		waveInterval:    cfg.Wave.Interval,
		undulation:      cfg.Wave.UndulationStrength,
		emitter:         NewWaveEmitter(cfg.Wave),
	}
	s.mode = ParseMode(cfg.Simulation.Mode)
	s.reinit()
	return s
}

// Mode returns the active emission mode.
func (s *Simulation) Mode() Mode {
	return s.mode
}

// SetMode switches the emission mode. Switching clears and reinitializes the
// particle array; no state migrates between modes.
func (s *Simulation) SetMode(m Mode) {
	if m == s.mode {
		return
	}
	s.mode = m
	s.reinit()
	slog.Info("simulation mode switched", "mode", m.String(), "particles", len(s.particles))
}

// reinit rebuilds the particle array for the active mode.
func (s *Simulation) reinit() {
	switch s.mode {
	case ModeContinuous:
		s.particles = make([]Particle, s.continuousCount)
		for i := range s.particles {
			s.particles[i] = Particle{
				X:     s.inflowX(),
				Y:     s.rng.Float64(),
				Group: -1,
			}
		}
	case ModePulsed:
		s.particles = make([]Particle, s.emitter.PoolSize())
		s.emitter.Reset(s.particles, s.rng)
		s.emitArmed = false
	}
}

// inflowX draws a fresh left-edge inflow position.
func (s *Simulation) inflowX() float64 {
	return inflowMinX + s.rng.Float64()*(inflowMaxX-inflowMinX)
}

// Advance runs one simulation tick at the given wall-clock time.
func (s *Simulation) Advance(t float64) {
	switch s.mode {
	case ModeContinuous:
		s.advanceContinuous(t)
	case ModePulsed:
		s.maybeEmit(t)
		s.advancePulsed(t)
	}
}

// advanceContinuous advects every particle and re-injects leavers.
func (s *Simulation) advanceContinuous(t float64) {
	field := s.field
	speedMul := s.speedMul
	parallelChunks(len(s.particles), func(start, end int) {
		for i := start; i < end; i++ {
			p := &s.particles[i]
			vx, vy := field.Velocity(p.X, p.Y, t)
			// Flow is faster near the top edge
			ySpeedMul := 1 + p.Y
			step := TickDT * speedMul * ySpeedMul
			p.X += vx * step
			p.Y += vy * step
		}
	})

	// Boundary handling stays serial: re-injection draws from the shared RNG.
	for i := range s.particles {
		p := &s.particles[i]
		if p.X > rightEdge {
			p.X = s.inflowX()
			p.Y = s.rng.Float64()
		}
		if p.Y < bottomEdge {
			p.Y = -p.Y
		} else if p.Y > topEdge {
			p.Y = 2 - p.Y
		}
	}
}

// maybeEmit runs the periodic wave emission timer. The timer re-arms on the
// first tick after a mode or interval change.
func (s *Simulation) maybeEmit(t float64) {
	if !s.emitArmed || t < s.lastEmit {
		s.lastEmit = t
		s.emitArmed = true
		return
	}
	if t-s.lastEmit < s.waveInterval {
		return
	}
	s.lastEmit = t
	if g := s.emitter.TrySpawn(s.particles, s.rng); g < 0 {
		// Pool exhaustion is backpressure, not an error: retry next interval.
		slog.Debug("wave pool exhausted, skipping emission", "t", t)
	}
}

// advancePulsed advects visible pooled particles as coherent wave walls.
func (s *Simulation) advancePulsed(t float64) {
	field := s.field
	speedMul := s.speedMul
	waveSpeed := s.waveSpeed * speedMul
	undulation := s.undulation
	randomizeEdge := s.emitter.RandomizeEdge()

	parallelChunks(len(s.particles), func(start, end int) {
		for i := start; i < end; i++ {
			p := &s.particles[i]
			if p.X < hiddenThreshold {
				continue
			}

			// Per-group phase/space offsets keep concurrently visible groups
			// from advecting identically even though the pool is reused.
			timeOff := float64(p.Group) * groupTimeOffset
			spaceOff := float64(p.Group) * groupSpaceOffset
			vx, vy := field.Velocity(p.X+spaceOff, p.Y, t+timeOff)

			mul := 1.0
			if randomizeEdge {
				bottom, top := s.emitter.EdgeSpeeds(p.Group)
				mul = lerp(bottom, top, p.Y)
			}

			p.X += (waveSpeed*mul + undulation*vx*mul*speedMul) * TickDT
			p.Y += undulation * vy * TickDT
		}
	})

	for i := range s.particles {
		p := &s.particles[i]
		if p.X < hiddenThreshold {
			continue
		}
		if p.X > rightEdge {
			// Back to the pool; eligible for reuse once confirmed hidden.
			p.X = parkedX
			p.Y = 0
			continue
		}
		if s.undulation > 0 {
			if p.Y < bottomEdge {
				p.Y = -p.Y
			} else if p.Y > topEdge {
				p.Y = 2 - p.Y
			}
		}
	}
}

// Snapshot returns a copy of the particle array, safe to read while the
// simulation keeps mutating on later ticks.
func (s *Simulation) Snapshot() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

// Count returns the current particle count.
func (s *Simulation) Count() int {
	return len(s.particles)
}

// VisibleCount returns the number of particles not parked in the pool.
func (s *Simulation) VisibleCount() int {
	n := 0
	for i := range s.particles {
		if s.particles[i].X >= hiddenThreshold {
			n++
		}
	}
	return n
}

// ActiveGroups returns the number of wave groups currently on screen.
// Always zero in continuous mode.
func (s *Simulation) ActiveGroups() int {
	if s.mode != ModePulsed {
		return 0
	}
	return s.emitter.VisibleGroups(s.particles)
}

// SpeedMultiplier returns the global speed multiplier.
func (s *Simulation) SpeedMultiplier() float64 {
	return s.speedMul
}

// SetSpeedMultiplier sets the global speed multiplier. In continuous mode it
// scales advection; in pulsed mode it scales the base wave speed. Must be
// called from the thread driving Advance; values are not validated here.
func (s *Simulation) SetSpeedMultiplier(v float64) {
	s.speedMul = v
}

// WaveInterval returns the seconds between wave emission attempts.
func (s *Simulation) WaveInterval() float64 {
	return s.waveInterval
}

// SetWaveInterval changes the emission interval and restarts the timer.
func (s *Simulation) SetWaveInterval(sec float64) {
	if sec <= 0 {
		return
	}
	s.waveInterval = sec
	s.emitArmed = false
}

// UndulationStrength returns the fraction of field motion mixed into waves.
func (s *Simulation) UndulationStrength() float64 {
	return s.undulation
}

// SetUndulationStrength sets the wave undulation fraction, clamped to [0,1].
func (s *Simulation) SetUndulationStrength(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	s.undulation = v
}
