// Package measure runs the external river speed measurement process and
// hands its freshest reading to the simulation loop.
package measure

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/nakagimadevelop002-glitch/RiverProjectionMapping/config"
)

// Cell is a single-slot mailbox: the producer overwrites, the consumer takes
// at most one value per tick. Intermediate values are dropped on purpose -
// only the freshest measurement matters, so this is never a queue.
type Cell struct {
	mu    sync.Mutex
	value float64
	full  bool
}

// Put stores a value, replacing any unconsumed one.
func (c *Cell) Put(v float64) {
	c.mu.Lock()
	c.value = v
	c.full = true
	c.mu.Unlock()
}

// Take removes and returns the stored value, if any.
func (c *Cell) Take() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.full {
		return 0, false
	}
	c.full = false
	return c.value, true
}

// Feed owns the camera measurement child process. The script prints READY
// once on startup, then one flow speed in m/s per stdout line; diagnostics
// go to stderr.
type Feed struct {
	minSpeed float64

	cmd        *exec.Cmd
	cell       Cell
	stopOnce   sync.Once
	done       chan struct{}
	stderrDone chan struct{}
}

// Start spawns the configured measurement process and begins reading it.
// Returns nil, nil when the feature is disabled. A spawn failure is a
// configuration error: it is logged and the caller runs without the feed.
func Start(cfg config.MeasureConfig) (*Feed, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	cmd := exec.Command(cfg.Interpreter, cfg.Script)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("opening measurement stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("opening measurement stderr: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting measurement process %s %s: %w",
			cfg.Interpreter, cfg.Script, err)
	}

	f := &Feed{
		minSpeed:   cfg.MinSpeed,
		cmd:        cmd,
		done:       make(chan struct{}),
		stderrDone: make(chan struct{}),
	}

	go func() {
		defer close(f.done)
		f.consume(stdout)
	}()
	go func() {
		defer close(f.stderrDone)
		logStderr(stderr)
	}()

	slog.Info("measurement process started", "script", cfg.Script, "pid", cmd.Process.Pid)
	return f, nil
}

// consume parses measurement lines into the cell until the reader closes.
// Unparsable lines and readings below the minimum threshold are failed
// measurements: discarded silently, the previous value stays in effect.
func (f *Feed) consume(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "READY" {
			slog.Info("measurement process ready")
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			slog.Debug("discarding unparsable measurement", "line", line)
			continue
		}
		if v < f.minSpeed {
			slog.Debug("discarding low measurement", "value", v, "min", f.minSpeed)
			continue
		}
		f.cell.Put(v)
	}
}

// logStderr forwards the child's diagnostics to the log.
func logStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		slog.Warn("measurement process", "stderr", scanner.Text())
	}
}

// Take returns the freshest unconsumed reading in m/s. Call once per tick
// from the loop that owns the simulation; never apply readings from another
// goroutine.
func (f *Feed) Take() (float64, bool) {
	if f == nil {
		return 0, false
	}
	return f.cell.Take()
}

// Stop kills the measurement process and waits for both pipe readers to
// drain before reaping it; Wait closes the pipes, so the readers must be
// done first. Idempotent.
func (f *Feed) Stop() {
	if f == nil {
		return
	}
	f.stopOnce.Do(func() {
		if f.cmd.Process != nil {
			_ = f.cmd.Process.Kill()
		}
		<-f.done
		<-f.stderrDone
		_ = f.cmd.Wait()
		slog.Info("measurement process stopped")
	})
}
