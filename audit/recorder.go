package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Recorder writes audit entries to a store asynchronously. Record never
// blocks the caller and never returns an error: a full buffer drops the
// entry with a warning, and a failed store write is logged and
// discarded. Audit failures must not fail the operation being audited.
type Recorder struct {
	store  Store
	logger *slog.Logger

	buffer   chan *Entry
	stopChan chan struct{}
	wg       sync.WaitGroup

	writeTimeout time.Duration
	dropped      atomic.Int64
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithRecorderLogger sets the logger.
func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// WithRecorderBuffer sets the entry buffer capacity.
func WithRecorderBuffer(size int) RecorderOption {
	return func(r *Recorder) {
		r.buffer = make(chan *Entry, size)
	}
}

// WithRecorderWriteTimeout bounds each store write.
func WithRecorderWriteTimeout(d time.Duration) RecorderOption {
	return func(r *Recorder) {
		r.writeTimeout = d
	}
}

// NewRecorder creates a recorder over the given store.
func NewRecorder(s Store, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store:        s,
		logger:       slog.Default(),
		buffer:       make(chan *Entry, 1000),
		stopChan:     make(chan struct{}),
		writeTimeout: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Start begins the background writer.
func (r *Recorder) Start() {
	r.wg.Add(1)
	go r.writeWorker()
}

// Stop drains buffered entries and waits for the writer to exit.
func (r *Recorder) Stop() {
	close(r.stopChan)
	r.wg.Wait()
}

// Record enqueues an entry for asynchronous persistence. If the buffer
// is full the entry is dropped and counted.
func (r *Recorder) Record(entry *Entry) {
	select {
	case r.buffer <- entry:
	default:
		n := r.dropped.Add(1)
		r.logger.Warn("audit buffer full, dropping entry",
			"action", entry.Action,
			"target_type", entry.TargetType,
			"dropped_total", n,
		)
	}
}

// Dropped returns the number of entries discarded due to a full buffer.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// writeWorker persists entries until stopped, then drains the buffer.
func (r *Recorder) writeWorker() {
	defer r.wg.Done()

	for {
		select {
		case <-r.stopChan:
			// Final drain
			for {
				select {
				case entry := <-r.buffer:
					r.write(entry)
				default:
					return
				}
			}

		case entry := <-r.buffer:
			r.write(entry)
		}
	}
}

func (r *Recorder) write(entry *Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), r.writeTimeout)
	defer cancel()

	if err := r.store.Append(ctx, entry); err != nil {
		r.logger.Error("failed to write audit entry",
			"error", err,
			"action", entry.Action,
			"target_type", entry.TargetType,
			"target_id", entry.TargetID,
		)
	}
}
