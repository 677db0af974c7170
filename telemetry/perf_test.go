package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollectorWindow(t *testing.T) {
	p := NewPerfCollector(4)

	for i := 0; i < 6; i++ {
		p.StartTick()
		p.StartPhase(PhaseAdvance)
		time.Sleep(time.Millisecond)
		p.StartPhase(PhaseTrail)
		time.Sleep(time.Millisecond)
		p.EndTick()
	}

	stats := p.Stats()
	if stats.AvgTickDuration < time.Millisecond {
		t.Errorf("avg tick = %v, want >= 2ms of phased work", stats.AvgTickDuration)
	}
	if stats.PhaseAvg[PhaseAdvance] == 0 || stats.PhaseAvg[PhaseTrail] == 0 {
		t.Error("phase averages missing")
	}
	if stats.MinTickDuration > stats.MaxTickDuration {
		t.Errorf("min %v > max %v", stats.MinTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	p := NewPerfCollector(8)
	stats := p.Stats()
	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("empty collector stats = %+v, want zeros", stats)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	p := NewPerfCollector(2)
	p.StartTick()
	p.StartPhase(PhaseTrail)
	time.Sleep(time.Millisecond)
	p.EndTick()

	row := p.Stats().ToCSV(42)
	if row.WindowEnd != 42 {
		t.Errorf("window end = %d, want 42", row.WindowEnd)
	}
	if row.TrailPct <= 0 {
		t.Errorf("trail pct = %v, want > 0", row.TrailPct)
	}
}
