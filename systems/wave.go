package systems

import (
	"math"
	"math/rand"

	"github.com/nakagimadevelop002-glitch/RiverProjectionMapping/config"
)

// Golden-ratio derived per-group offsets. Reused pool groups sample the
// field at shifted time/space so simultaneous waves never advect identically.
const (
	groupTimeOffset  = 0.618
	groupSpaceOffset = 0.382
)

const (
	// spawnBaseWidth is the horizontal thickness of a spawned wave wall
	// before the per-group width multiplier is applied.
	spawnBaseWidth = 0.05

	// On-screen band used for visibility stats.
	visibleMinX = -0.1
	visibleMaxX = 1.2

	// Edge speed randomization: candidates are drawn from
	// [edgeCandidateMin, edgeCandidateMax], kept strictly below the slowest
	// wave still in flight minus edgeGap so a new wave can never overtake
	// one ahead of it, and floored at edgeFloor.
	edgeCandidateMin = 0.9
	edgeCandidateMax = 1.1
	edgeGap          = 0.02
	edgeFloor        = 0.8
)

// waveGroup carries the per-group randomized multipliers. Width is assigned
// once per reinitialization; edge speeds are re-drawn on every spawn.
type waveGroup struct {
	widthMul    float64
	bottomSpeed float64
	topSpeed    float64
}

// WaveEmitter layers object-pool wave emission over the particle array.
// maxGroups groups of particlesPerGroup particles are allocated once and
// forever reused: a "spawn" repositions hidden particles, never allocates.
type WaveEmitter struct {
	groups         []waveGroup
	cursor         int
	perGroup       int
	randomizeWidth bool
	widthUpper     float64
	randomizeEdge  bool
}

// NewWaveEmitter creates an emitter for the configured pool dimensions.
func NewWaveEmitter(cfg config.WaveConfig) *WaveEmitter {
	return &WaveEmitter{
		groups:         make([]waveGroup, cfg.MaxGroups),
		perGroup:       cfg.ParticlesPerGroup,
		randomizeWidth: cfg.RandomizeWidth,
		widthUpper:     cfg.WidthUpper,
		randomizeEdge:  cfg.RandomizeEdgeSpeed,
	}
}

// PoolSize returns the fixed total particle count of the pool.
func (e *WaveEmitter) PoolSize() int {
	return len(e.groups) * e.perGroup
}

// RandomizeEdge reports whether per-edge speed randomization is enabled.
func (e *WaveEmitter) RandomizeEdge() bool {
	return e.randomizeEdge
}

// EdgeSpeeds returns the bottom and top edge speed multipliers of a group.
func (e *WaveEmitter) EdgeSpeeds(group int) (bottom, top float64) {
	g := &e.groups[group]
	return g.bottomSpeed, g.topSpeed
}

// Reset parks every particle fully offscreen and re-draws the per-group
// width multipliers. Particle i belongs to group i mod maxGroups.
func (e *WaveEmitter) Reset(particles []Particle, rng *rand.Rand) {
	maxGroups := len(e.groups)
	for i := range particles {
		particles[i] = Particle{X: parkedX, Y: 0, Group: i % maxGroups}
	}
	for g := range e.groups {
		widthMul := 1.0
		if e.randomizeWidth {
			widthMul = 0.5 + rng.Float64()*(e.widthUpper-0.5)
		}
		e.groups[g] = waveGroup{widthMul: widthMul, bottomSpeed: 1, topSpeed: 1}
	}
	e.cursor = 0
}

// TrySpawn scans for a fully hidden group starting at the rotating cursor
// and respawns it as a wall of particles entering from the left. Returns the
// spawned group id, or -1 when every group is still in flight.
func (e *WaveEmitter) TrySpawn(particles []Particle, rng *rand.Rand) int {
	maxGroups := len(e.groups)
	for k := 0; k < maxGroups; k++ {
		g := (e.cursor + k) % maxGroups
		if !e.groupHidden(particles, g) {
			continue
		}
		e.spawn(particles, g, rng)
		e.cursor = (g + 1) % maxGroups
		return g
	}
	return -1
}

// spawn repositions every member of group g to the left-edge entry band.
func (e *WaveEmitter) spawn(particles []Particle, g int, rng *rand.Rand) {
	grp := &e.groups[g]
	grp.bottomSpeed, grp.topSpeed = 1, 1
	if e.randomizeEdge {
		minBottom, minTop := e.minActiveEdgeSpeeds(particles, g)
		grp.bottomSpeed = drawEdgeSpeed(rng, minBottom)
		grp.topSpeed = drawEdgeSpeed(rng, minTop)
	}

	width := spawnBaseWidth * grp.widthMul
	maxGroups := len(e.groups)
	for i := g; i < len(particles); i += maxGroups {
		particles[i].X = visibleMinX - width + rng.Float64()*width
		particles[i].Y = rng.Float64()
	}
}

// drawEdgeSpeed draws a candidate multiplier and clamps it strictly below
// the slowest one still in flight, so the new wave never catches up.
func drawEdgeSpeed(rng *rand.Rand, minObserved float64) float64 {
	cand := edgeCandidateMin + rng.Float64()*(edgeCandidateMax-edgeCandidateMin)
	limit := minObserved - edgeGap
	if cand >= limit {
		cand = limit - 1e-3
	}
	if cand < edgeFloor {
		cand = edgeFloor
	}
	return cand
}

// minActiveEdgeSpeeds returns the minimum bottom and top edge multipliers
// among groups still in flight, excluding the spawning group. A just-spawned
// group in the entry band counts: it is ahead of the new wave even though it
// has not reached the visible band yet. Returns +Inf when every other group
// is parked.
func (e *WaveEmitter) minActiveEdgeSpeeds(particles []Particle, spawning int) (minBottom, minTop float64) {
	minBottom, minTop = math.Inf(1), math.Inf(1)
	for g := range e.groups {
		if g == spawning || e.groupHidden(particles, g) {
			continue
		}
		if e.groups[g].bottomSpeed < minBottom {
			minBottom = e.groups[g].bottomSpeed
		}
		if e.groups[g].topSpeed < minTop {
			minTop = e.groups[g].topSpeed
		}
	}
	return minBottom, minTop
}

// groupHidden reports whether every member of the group is fully offscreen.
func (e *WaveEmitter) groupHidden(particles []Particle, g int) bool {
	maxGroups := len(e.groups)
	for i := g; i < len(particles); i += maxGroups {
		if particles[i].X >= hiddenThreshold {
			return false
		}
	}
	return true
}

// groupVisible reports whether any member of the group is on screen.
func (e *WaveEmitter) groupVisible(particles []Particle, g int) bool {
	maxGroups := len(e.groups)
	for i := g; i < len(particles); i += maxGroups {
		if particles[i].X >= visibleMinX && particles[i].X <= visibleMaxX {
			return true
		}
	}
	return false
}

// VisibleGroups counts groups with at least one on-screen member.
func (e *WaveEmitter) VisibleGroups(particles []Particle) int {
	n := 0
	for g := range e.groups {
		if e.groupVisible(particles, g) {
			n++
		}
	}
	return n
}
