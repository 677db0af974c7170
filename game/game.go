// Package game wires the simulation, trail pipeline, measurement feed and
// rendering into a single update/draw loop.
package game

import (
	"fmt"
	"log/slog"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/nakagimadevelop002-glitch/RiverProjectionMapping/camera"
	"github.com/nakagimadevelop002-glitch/RiverProjectionMapping/config"
	"github.com/nakagimadevelop002-glitch/RiverProjectionMapping/measure"
	"github.com/nakagimadevelop002-glitch/RiverProjectionMapping/renderer"
	"github.com/nakagimadevelop002-glitch/RiverProjectionMapping/systems"
	"github.com/nakagimadevelop002-glitch/RiverProjectionMapping/telemetry"
	"github.com/nakagimadevelop002-glitch/RiverProjectionMapping/ui"
)

// Options configures game construction.
type Options struct {
	Seed           int64
	LogStats       bool
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
}

// Game holds the complete visualization state.
type Game struct {
	cfg *config.Config

	field *systems.VectorField
	sim   *systems.Simulation
	trail *systems.TrailPipeline
	feed  *measure.Feed

	display  *renderer.TrailDisplay
	overlay  *renderer.PointOverlay
	cam      *camera.Camera
	controls *ui.ControlsPanel
	hud      *ui.HUD
	settings ui.Settings

	perf   *telemetry.PerfCollector
	stats  *telemetry.StatsCollector
	output *telemetry.OutputManager

	// Eases the speed multiplier toward the latest camera reading.
	speedTween *gween.Tween

	tick            int64
	simTime         float64
	statsEveryTicks int64
	stepsPerUpdate  int
	logStats        bool
	paused          bool
	headless        bool

	lastMeasured float64
	measureLive  bool

	// Snapshot of the last advanced tick, shared by trail and overlay.
	snapshot []systems.Particle
}

// NewGame creates a game from the global config and the given options.
func NewGame(opts Options) (*Game, error) {
	cfg := config.Cfg()

	field := systems.NewVectorField(cfg.Field.Duration, cfg.Field.BaseSpeed)
	sim := systems.NewSimulation(field, cfg, opts.Seed)

	trail := systems.NewTrailPipeline(field, cfg.Trail)
	if err := trail.Initialize(cfg.Trail.Width, cfg.Trail.Height); err != nil {
		return nil, fmt.Errorf("initializing trail pipeline: %w", err)
	}

	feed, err := measure.Start(cfg.Measure)
	if err != nil {
		// The show must go on without the camera; the configured multiplier holds.
		slog.Warn("measurement feed unavailable", "error", err)
		feed = nil
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("initializing output: %w", err)
	}
	if err := output.WriteConfig(cfg); err != nil {
		slog.Warn("failed to write config snapshot", "error", err)
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	statsTicks := int64(cfg.Telemetry.StatsWindow / systems.TickDT)
	if statsTicks < 1 {
		statsTicks = 1
	}

	g := &Game{
		cfg:             cfg,
		field:           field,
		sim:             sim,
		trail:           trail,
		feed:            feed,
		perf:            telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		stats:           telemetry.NewStatsCollector(),
		output:          output,
		statsEveryTicks: statsTicks,
		stepsPerUpdate:  steps,
		logStats:        opts.LogStats,
		headless:        opts.Headless,
		settings: ui.Settings{
			SpeedMultiplier: float32(cfg.Simulation.SpeedMultiplier),
			WaveInterval:    float32(cfg.Wave.Interval),
			Undulation:      float32(cfg.Wave.UndulationStrength),
			DecayFactor:     cfg.Trail.DecayFactor,
			Gamma:           float32(cfg.Trail.Gamma),
			Pulsed:          systems.ParseMode(cfg.Simulation.Mode) == systems.ModePulsed,
			Percentile:      systems.ParseNormalizeMode(cfg.Trail.NormalizeMode) == systems.NormalizePercentile,
		},
	}

	if !opts.Headless {
		g.display = renderer.NewTrailDisplay(cfg.Trail.Width, cfg.Trail.Height)
		g.overlay = renderer.NewPointOverlay(cfg.Trail.Width, cfg.Trail.Height)
		g.cam = camera.New(
			cfg.Derived.ScreenW32, cfg.Derived.ScreenH32,
			float32(cfg.Trail.Width), float32(cfg.Trail.Height),
		)
		g.controls = ui.NewControlsPanel(int32(cfg.Screen.Width)-300, 10, 290)
		g.hud = ui.NewHUD()
	}

	slog.Info("game initialized",
		"mode", sim.Mode().String(),
		"particles", sim.Count(),
		"trail", fmt.Sprintf("%dx%d", cfg.Trail.Width, cfg.Trail.Height),
		"measure", feed != nil,
		"seed", opts.Seed,
	)

	return g, nil
}

// Update runs input handling and one or more simulation steps.
func (g *Game) Update() {
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseInput)
	g.handleInput()
	g.applySettings()

	g.perf.StartPhase(telemetry.PhaseMeasure)
	g.pollMeasurement()

	if !g.paused {
		g.advance()
	}
	// The tick ends after Draw so the draw phase is captured too.
}

// UpdateHeadless runs simulation steps without any windowing input.
func (g *Game) UpdateHeadless() {
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseMeasure)
	g.pollMeasurement()

	g.advance()

	g.perf.EndTick()
}

// advance runs the configured number of fixed simulation ticks, then renders
// the trail once. The trail accumulates exactly one frame per displayed
// frame; intermediate ticks only advect.
func (g *Game) advance() {
	g.perf.StartPhase(telemetry.PhaseAdvance)
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.easeSpeed()
		g.sim.Advance(g.simTime)
		g.simTime += systems.TickDT
		g.tick++
		g.recordTelemetry()
	}
	g.snapshot = g.sim.Snapshot()

	g.perf.StartPhase(telemetry.PhaseTrail)
	g.trail.RenderFrame(g.snapshot, len(g.snapshot), g.simTime)
}

// pollMeasurement consumes the latest camera reading, if any, and retargets
// the speed multiplier tween toward it.
func (g *Game) pollMeasurement() {
	if g.feed == nil {
		return
	}
	v, ok := g.feed.Take()
	if !ok {
		return
	}
	g.lastMeasured = v
	g.measureLive = true

	target := float32(v * g.cfg.Measure.SpeedScale)
	current := float32(g.sim.SpeedMultiplier())
	g.speedTween = gween.New(current, target, g.cfg.Measure.EaseSeconds, ease.InOutQuad)
}

// easeSpeed steps the active speed tween, if any.
func (g *Game) easeSpeed() {
	if g.speedTween == nil {
		return
	}
	cur, done := g.speedTween.Update(float32(systems.TickDT))
	g.sim.SetSpeedMultiplier(float64(cur))
	g.settings.SpeedMultiplier = cur
	if done {
		g.speedTween = nil
	}
}

// applySettings pushes dirty panel values into the owning subsystems.
func (g *Game) applySettings() {
	s := &g.settings

	if s.ModeChanged {
		s.ModeChanged = false
		mode := systems.ModeContinuous
		if s.Pulsed {
			mode = systems.ModePulsed
		}
		g.sim.SetMode(mode)
	}

	if s.SimChanged {
		s.SimChanged = false
		// A panel drag overrides any in-flight measurement ease.
		g.speedTween = nil
		g.sim.SetSpeedMultiplier(float64(s.SpeedMultiplier))
		g.sim.SetWaveInterval(float64(s.WaveInterval))
		g.sim.SetUndulationStrength(float64(s.Undulation))
	}

	if s.TrailChanged {
		s.TrailChanged = false
		g.trail.SetDecayFactor(s.DecayFactor)
		g.trail.SetGamma(float64(s.Gamma))
		mode := systems.NormalizeApprox
		if s.Percentile {
			mode = systems.NormalizePercentile
		}
		g.trail.SetNormalizeMode(mode)
	}
}

// recordTelemetry records the tick and flushes the window when due.
func (g *Game) recordTelemetry() {
	g.stats.Record(telemetry.FrameRecord{
		Tick:          g.tick,
		Mode:          g.sim.Mode().String(),
		ParticleCount: g.sim.Count(),
		VisibleCount:  g.sim.VisibleCount(),
		ActiveGroups:  g.sim.ActiveGroups(),
		MaxFieldSpeed: g.field.MaxSpeed(g.simTime),
		Ceiling:       float64(g.trail.Ceiling()),
		SpeedMul:      g.sim.SpeedMultiplier(),
	})

	if g.tick%g.statsEveryTicks != 0 {
		return
	}

	window := g.stats.Window()
	perfStats := g.perf.Stats()

	if g.logStats {
		window.LogStats()
		perfStats.LogStats()
	}

	if g.output != nil {
		if err := g.output.WriteWindow(window); err != nil {
			slog.Error("failed to write window stats", "error", err)
		}
		if err := g.output.WritePerf(perfStats.ToCSV(g.tick)); err != nil {
			slog.Error("failed to write perf stats", "error", err)
		}
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 {
	return g.tick
}

// Unload releases all resources, including the external measurement process.
func (g *Game) Unload() {
	g.trail.Cleanup()
	g.feed.Stop()
	if g.display != nil {
		g.display.Unload()
	}
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
