package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

const channelBuffer = 64

// ErrStopped is returned by Do once the worker has exited.
var ErrStopped = errors.New("queue stopped")

type job struct {
	name string
	fn   func() error
	done chan error
}

// Serial runs submitted jobs one at a time on a single worker goroutine, in
// submission order. Simulated mutations go through it so id allocation and
// collection writes never interleave.
type Serial struct {
	jobs    chan job
	stopped chan struct{}
	log     zerolog.Logger
}

// NewSerial creates a Serial. Call Start before submitting jobs.
func NewSerial(log zerolog.Logger) *Serial {
	return &Serial{
		jobs:    make(chan job, channelBuffer),
		stopped: make(chan struct{}),
		log:     log,
	}
}

// Start launches the worker. It stops when ctx is cancelled.
func (s *Serial) Start(ctx context.Context) {
	go s.run(ctx)
}

// Do enqueues fn and waits for it to finish. A panic inside fn is recovered
// and reported as an error so the worker keeps serving.
func (s *Serial) Do(ctx context.Context, name string, fn func() error) error {
	j := job{name: name, fn: fn, done: make(chan error, 1)}

	select {
	case s.jobs <- j:
	case <-s.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-j.done:
		return err
	case <-s.stopped:
		return ErrStopped
	}
}

func (s *Serial) run(ctx context.Context) {
	defer close(s.stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.jobs:
			j.done <- s.execute(j)
		}
	}
}

func (s *Serial) execute(j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Str("job", j.name).Interface("panic", r).Msg("queued job panicked")
			err = fmt.Errorf("%s: panic: %v", j.name, r)
		}
	}()
	return j.fn()
}
