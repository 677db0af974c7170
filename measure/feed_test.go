package measure

import (
	"strings"
	"testing"
	"time"

	"github.com/nakagimadevelop002-glitch/RiverProjectionMapping/config"
)

func TestCellOverwrites(t *testing.T) {
	var c Cell

	if _, ok := c.Take(); ok {
		t.Fatal("empty cell returned a value")
	}

	c.Put(0.5)
	c.Put(0.8)
	c.Put(1.2)

	v, ok := c.Take()
	if !ok || v != 1.2 {
		t.Fatalf("Take() = (%v,%v), want (1.2,true): only the freshest value survives", v, ok)
	}
	if _, ok := c.Take(); ok {
		t.Fatal("second Take() returned a value, cell must be consumed once")
	}
}

func TestConsumeParsesMeasurementStream(t *testing.T) {
	f := &Feed{minSpeed: 0.05}
	// READY handshake, normal readings, garbage, a failed (low) reading.
	stream := "READY\n0.4210\nnot-a-number\n\n0.0100\n0.8875\n"
	f.consume(strings.NewReader(stream))

	v, ok := f.cell.Take()
	if !ok {
		t.Fatal("no measurement delivered")
	}
	if v != 0.8875 {
		t.Errorf("latest measurement = %v, want 0.8875", v)
	}
}

func TestConsumeDiscardsBelowThreshold(t *testing.T) {
	f := &Feed{minSpeed: 0.5}
	f.consume(strings.NewReader("0.4999\n0.1\n"))

	if v, ok := f.cell.Take(); ok {
		t.Errorf("low readings must be discarded, got %v", v)
	}
}

func TestConsumeKeepsPreviousOnFailure(t *testing.T) {
	f := &Feed{minSpeed: 0.05}
	f.consume(strings.NewReader("0.7000\nERROR GARBAGE\n0.0001\n"))

	v, ok := f.cell.Take()
	if !ok || v != 0.7 {
		t.Errorf("Take() = (%v,%v), want the last good reading 0.7", v, ok)
	}
}

func TestStopJoinsBothReaders(t *testing.T) {
	f, err := Start(config.MeasureConfig{
		Enabled:     true,
		Interpreter: "echo",
		Script:      "READY",
		MinSpeed:    0.05,
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Stop must drain stdout and stderr before reaping the process; a missed
	// join deadlocks here.
	done := make(chan struct{})
	go func() {
		f.Stop()
		f.Stop() // idempotent
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestNilFeedIsInert(t *testing.T) {
	var f *Feed
	if _, ok := f.Take(); ok {
		t.Error("nil feed returned a value")
	}
	f.Stop() // must not panic
}
