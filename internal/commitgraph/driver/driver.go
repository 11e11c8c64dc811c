// Package driver runs the commit-graph Walker off the UI path, publishing
// periodic snapshots through a bounded single-producer/single-consumer
// handoff so a terminal UI can poll for updates without blocking on long
// repository walks.
//
// Ported from the original engine's App::walk/App::run (app/app.rs): a
// spawned worker repeatedly calls Walker with a fixed budget and sends a
// full-state snapshot down a channel; the consumer polls non-blockingly and
// replaces its displayed state wholesale on each receipt.
package driver

import (
	"context"

	"github.com/google/uuid"
	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph"
	"github.com/lazygit-lite/lazygit-lite/internal/commitgraph/walker"
	"github.com/rs/zerolog"
)

// DefaultBatchSize is the walker budget per driver iteration, matching the
// original engine's fixed 10,000-commit batch.
const DefaultBatchSize = 10000

// Snapshot is one published batch of engine state: a clone of the row and
// id vectors plus the tip map, ready for the UI to swap in wholesale.
type Snapshot struct {
	// RunID identifies the driver run that produced this snapshot, so a
	// consumer holding a stale snapshot handle can detect that a Reload
	// superseded it — a robustness feature the single-threaded Rust
	// original does not need, since its receiver is dropped and recreated
	// synchronously with the rest of App.
	RunID uuid.UUID

	Rows  []walker.Row
	IDs   []commitgraph.ID
	Tips  commitgraph.TipMap
	Again bool
}

// Driver owns at most one background walker run at a time.
type Driver struct {
	src       commitgraph.Source
	batchSize int
	diag      bool
	log       zerolog.Logger

	cancel context.CancelFunc
	ch     chan Snapshot
	runID  uuid.UUID
}

// Option configures a Driver.
type Option func(*Driver)

// WithBatchSize overrides DefaultBatchSize.
func WithBatchSize(n int) Option {
	return func(d *Driver) { d.batchSize = n }
}

// WithDiagnostic enables the walker's diagnostic column.
func WithDiagnostic(enabled bool) Option {
	return func(d *Driver) { d.diag = enabled }
}

// WithLogger attaches a logger for repository-access failures.
func WithLogger(log zerolog.Logger) Option {
	return func(d *Driver) { d.log = log }
}

// New builds a Driver against src. No background run is started until
// Start is called.
func New(src commitgraph.Source, opts ...Option) *Driver {
	d := &Driver{src: src, batchSize: DefaultBatchSize, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start cancels any in-flight run and begins a fresh one, returning a
// channel of capacity 1 (the bounded handoff) and this run's identifier.
// A reload cancels and replaces the previous run per spec.md §4.6.
func (d *Driver) Start(ctx context.Context) (<-chan Snapshot, uuid.UUID) {
	if d.cancel != nil {
		d.cancel()
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.runID = uuid.New()
	d.ch = make(chan Snapshot, 1)

	go d.run(runCtx, d.runID, d.ch)
	return d.ch, d.runID
}

// Cancel stops the current run without starting a new one. A consumer that
// merely stops reading from the channel does not stop the run: the producer
// then blocks on its next send until the run's context is cancelled (by
// Cancel, by a later Start, or by the parent context).
func (d *Driver) Cancel() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Driver) run(ctx context.Context, runID uuid.UUID, ch chan<- Snapshot) {
	w := walker.New(d.src)
	w.Diagnostic = d.diag

	for {
		if ctx.Err() != nil {
			return
		}

		again, err := w.Walk(ctx, d.batchSize)
		if err != nil {
			d.log.Warn().Err(err).Msg("commitgraph: walker batch failed")
			return
		}

		snapshot := Snapshot{
			RunID: runID,
			Rows:  append([]walker.Row(nil), w.Rows...),
			IDs:   append([]commitgraph.ID(nil), w.IDs...),
			Tips:  w.Tips(),
			Again: again,
		}

		select {
		case ch <- snapshot:
		case <-ctx.Done():
			return
		}

		if !again {
			close(ch)
			return
		}
	}
}
