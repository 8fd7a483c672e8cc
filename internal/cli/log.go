package cli

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/conga/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Decomposed 34 vertices (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// iterationCounter reports decomposition progress to a spinner and the
// debug log. Install it with observability.SetDecomposeHooks for the
// duration of one CLI run.
type iterationCounter struct {
	logger   *log.Logger
	spinner  *Spinner
	iter     atomic.Int64
	clusters atomic.Int64
}

func newIterationCounter(l *log.Logger, s *Spinner) *iterationCounter {
	return &iterationCounter{logger: l, spinner: s}
}

func (h *iterationCounter) OnRunStart(_ context.Context, vertices, edges int) {
	h.clusters.Store(1)
	h.logger.Debug("decomposition started", "vertices", vertices, "edges", edges)
}

func (h *iterationCounter) OnIteration(_ context.Context, action string, disconnected bool) {
	n := h.iter.Add(1)
	clusters := h.clusters.Load()
	if disconnected {
		clusters = h.clusters.Add(1)
		h.logger.Debug("graph disconnected", "iteration", n, "action", action, "clusters", clusters)
	}
	if h.spinner != nil && n%16 == 0 {
		h.spinner.SetMessagef("Decomposing: iteration %d, %d clusters", n, clusters)
	}
}

func (h *iterationCounter) OnRunComplete(_ context.Context, clusters, iterations int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("decomposition failed", "iterations", iterations, "error", err)
		return
	}
	h.logger.Debug("decomposition finished", "clusters", clusters, "iterations", iterations, "duration", d)
}

// Iterations returns how many iterations were observed.
func (h *iterationCounter) Iterations() int { return int(h.iter.Load()) }

var _ observability.DecomposeHooks = (*iterationCounter)(nil)
