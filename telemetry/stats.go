package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FrameRecord is one tick's observation of the visualization state.
type FrameRecord struct {
	Tick          int64
	Mode          string
	ParticleCount int
	VisibleCount  int
	ActiveGroups  int
	MaxFieldSpeed float64
	Ceiling       float64
	SpeedMul      float64
}

// WindowStats aggregates frame records over one stats window.
type WindowStats struct {
	WindowEnd     int64   `csv:"window_end"`
	Mode          string  `csv:"mode"`
	ParticleCount int     `csv:"particle_count"`
	MeanVisible   float64 `csv:"mean_visible"`
	MaxVisible    float64 `csv:"max_visible"`
	MeanGroups    float64 `csv:"mean_groups"`
	MeanMaxSpeed  float64 `csv:"mean_max_speed"`
	Ceiling       float64 `csv:"ceiling"`
	SpeedMul      float64 `csv:"speed_mul"`
}

// StatsCollector accumulates per-tick records and periodically flushes them
// as window aggregates.
type StatsCollector struct {
	visible []float64
	groups  []float64
	speeds  []float64
	last    FrameRecord
}

// NewStatsCollector creates an empty collector.
func NewStatsCollector() *StatsCollector {
	return &StatsCollector{}
}

// Record adds one tick's observation.
func (c *StatsCollector) Record(rec FrameRecord) {
	c.visible = append(c.visible, float64(rec.VisibleCount))
	c.groups = append(c.groups, float64(rec.ActiveGroups))
	c.speeds = append(c.speeds, rec.MaxFieldSpeed)
	c.last = rec
}

// Count returns the number of records in the current window.
func (c *StatsCollector) Count() int {
	return len(c.visible)
}

// Window aggregates and resets the current window. The window is tagged
// with the most recent record's tick and instantaneous values.
func (c *StatsCollector) Window() WindowStats {
	ws := WindowStats{
		WindowEnd:     c.last.Tick,
		Mode:          c.last.Mode,
		ParticleCount: c.last.ParticleCount,
		Ceiling:       c.last.Ceiling,
		SpeedMul:      c.last.SpeedMul,
	}
	if len(c.visible) > 0 {
		ws.MeanVisible = stat.Mean(c.visible, nil)
		ws.MaxVisible = floats.Max(c.visible)
		ws.MeanGroups = stat.Mean(c.groups, nil)
		ws.MeanMaxSpeed = stat.Mean(c.speeds, nil)
	}
	c.visible = c.visible[:0]
	c.groups = c.groups[:0]
	c.speeds = c.speeds[:0]
	return ws
}

// LogStats logs a window via slog.
func (ws WindowStats) LogStats() {
	slog.Info("window",
		"tick", ws.WindowEnd,
		"mode", ws.Mode,
		"particles", ws.ParticleCount,
		"mean_visible", ws.MeanVisible,
		"mean_groups", ws.MeanGroups,
		"mean_max_speed", ws.MeanMaxSpeed,
		"ceiling", ws.Ceiling,
		"speed_mul", ws.SpeedMul,
	)
}
