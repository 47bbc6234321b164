// Package device provides execution streams: FIFO launch queues served by
// an executor.
package device

import (
	"context"
	"errors"
	"sync"

	"github.com/born-ml/strided/internal/launch"
	"github.com/born-ml/strided/internal/logx"
)

// ErrClosed is reported by Synchronize for launches submitted after Close.
var ErrClosed = errors.New("device: stream closed")

// DefaultQueueDepth is the number of launches a stream buffers before Submit
// blocks.
const DefaultQueueDepth = 64

// Stream executes submitted launches one at a time in submission order.
// Submit does not wait for execution. Ordering between different streams is
// undefined.
type Stream struct {
	exec  launch.Executor
	tasks chan launch.Launch

	done chan struct{}

	mu       sync.Mutex
	inflight int
	idle     chan struct{} // closed while inflight == 0
	closed   bool
	fault    error
}

// Compile-time check that Stream implements launch.Submitter.
var _ launch.Submitter = (*Stream)(nil)

// NewStream starts a stream backed by exec. A depth <= 0 uses
// DefaultQueueDepth.
func NewStream(exec launch.Executor, depth int) *Stream {
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	s := &Stream{
		exec:  exec,
		tasks: make(chan launch.Launch, depth),
		done:  make(chan struct{}),
		idle:  make(chan struct{}),
	}
	close(s.idle)
	go s.worker()
	return s
}

// worker is the single goroutine that drains the queue.
func (s *Stream) worker() {
	defer close(s.done)
	for l := range s.tasks {
		err := s.exec.Run(l)
		if err != nil {
			logx.Logger().Warn("launch fault", "executor", s.exec.Name(), "kernel", l.Kernel.Name, "err", err)
		}
		s.finish(err)
	}
}

// finish retires one launch and records its fault, if any.
func (s *Stream) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil && s.fault == nil {
		s.fault = err
	}
	s.inflight--
	if s.inflight == 0 {
		close(s.idle)
	}
}

// Submit enqueues l and returns. It blocks only while the queue is full.
func (s *Stream) Submit(l launch.Launch) {
	s.mu.Lock()
	if s.closed {
		if s.fault == nil {
			s.fault = ErrClosed
		}
		s.mu.Unlock()
		return
	}
	if s.inflight == 0 {
		s.idle = make(chan struct{})
	}
	s.inflight++
	s.mu.Unlock()
	s.tasks <- l
}

// Synchronize waits until every submitted launch has finished or ctx is
// done. It returns the first fault recorded since the previous call, or the
// context error.
func (s *Stream) Synchronize(ctx context.Context) error {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.fault
	s.fault = nil
	return err
}

// Close waits for queued launches to finish and stops the worker.
// Calling Close multiple times is safe.
func (s *Stream) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.closed = true
	idle := s.idle
	s.mu.Unlock()

	<-idle
	close(s.tasks)
	<-s.done
}

// Executor returns the executor serving the stream.
func (s *Stream) Executor() launch.Executor {
	return s.exec
}
