// Package worker runs stretch jobs on background goroutines so the caller's
// goroutine stays responsive. Each job streams progress events and ends with
// a Result carrying whatever output was produced and a status line.
package worker

import (
	"context"
	"sync"

	"github.com/cwbudde/algo-stretch/dsp/buffer"
	"github.com/cwbudde/algo-stretch/dsp/core"
	"github.com/cwbudde/algo-stretch/dsp/render"
	"github.com/cwbudde/algo-stretch/dsp/source"
	"github.com/cwbudde/algo-stretch/dsp/stretch"
	"github.com/google/uuid"
	"github.com/ossrs/go-oryx-lib/errors"
	"github.com/ossrs/go-oryx-lib/logger"
)

const (
	// StatusComplete is the status of a job that produced all its output.
	StatusComplete = "complete"

	eventBuffer = 64
)

// Job describes one stretch pass.
type Job struct {
	Source    *source.Buffered
	Tempo     float64
	Pitch     float64
	Rate      float64
	BlockSize int
	Options   []stretch.Option
}

// EventKind tags an Event.
type EventKind int

const (
	// EventProgress carries a new completed fraction.
	EventProgress EventKind = iota
	// EventChunk reports a block of output frames.
	EventChunk
	// EventDone is the last event of a task.
	EventDone
)

// Event is a notification from a running task.
type Event struct {
	Kind     EventKind
	Progress float64
	Frames   int
}

// Result is the outcome of a task. Output holds every frame produced before
// the task ended, also when it failed or was cancelled.
type Result struct {
	ID     string
	Output *buffer.Frames
	Frames int
	Status string
	Err    error
}

// Task is a submitted job.
type Task struct {
	ID string

	events chan Event
	cancel context.CancelFunc
	done   chan struct{}
	result Result
}

// Events returns the task's event stream. Progress and chunk events are
// dropped while the channel is full; EventDone is always delivered, then the
// channel is closed.
func (t *Task) Events() <-chan Event { return t.events }

// Cancel asks the task to stop after the current block.
func (t *Task) Cancel() { t.cancel() }

// Wait blocks until the task has finished and returns its result.
func (t *Task) Wait() Result {
	<-t.done
	return t.result
}

// Runner bounds the number of concurrently running tasks.
type Runner struct {
	slots chan struct{}
	wg    sync.WaitGroup
}

// NewRunner returns a Runner executing at most workers tasks at once.
func NewRunner(workers int) (*Runner, error) {
	if workers <= 0 {
		return nil, errors.Errorf("workers must be > 0, got %v", workers)
	}
	return &Runner{slots: make(chan struct{}, workers)}, nil
}

// Submit validates job, builds its engine and starts it in the background.
// Parameter errors are returned here rather than through the Result.
func (r *Runner) Submit(ctx context.Context, job Job) (*Task, error) {
	if job.Source == nil {
		return nil, errors.New("no source")
	}
	engine, err := newEngine(job)
	if err != nil {
		return nil, errors.Wrapf(err, "build engine")
	}
	driver, err := render.NewDriver(job.Source, engine, core.WithBlockSize(job.BlockSize))
	if err != nil {
		return nil, errors.Wrapf(err, "build driver")
	}

	ctx, cancel := context.WithCancel(logger.WithContext(ctx))
	task := &Task{
		ID:     uuid.NewString(),
		events: make(chan Event, eventBuffer),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()
		r.run(ctx, task, driver)
	}()
	return task, nil
}

// Wait blocks until every submitted task has finished.
func (r *Runner) Wait() { r.wg.Wait() }

func (r *Runner) run(ctx context.Context, task *Task, driver *render.Driver) {
	defer close(task.done)
	defer close(task.events)

	task.result.ID = task.ID
	select {
	case r.slots <- struct{}{}:
		defer func() { <-r.slots }()
	case <-ctx.Done():
		r.finish(ctx, task, nil, errors.Wrapf(ctx.Err(), "wait for slot"))
		return
	}

	logger.Tf(ctx, "stretch task %v start, output=%v frames", task.ID, driver.OutputLength())
	var chunks []*buffer.Frames
	_, err := driver.Run(ctx, func(block *buffer.Frames) error {
		chunks = append(chunks, block)
		task.notify(Event{Kind: EventChunk, Frames: block.Len()})
		return nil
	}, func(fraction float64) {
		task.notify(Event{Kind: EventProgress, Progress: fraction})
	})
	r.finish(ctx, task, chunks, err)
}

func (r *Runner) finish(ctx context.Context, task *Task, chunks []*buffer.Frames, err error) {
	channels := 1
	if len(chunks) > 0 {
		channels = chunks[0].Channels()
	}
	out := concat(channels, chunks)

	task.result.Output = out
	task.result.Frames = out.Len()
	task.result.Err = err
	task.result.Status = Status(err)

	switch {
	case err == nil:
		logger.Tf(ctx, "stretch task %v %v, frames=%v", task.ID, task.result.Status, out.Len())
	case errors.Cause(err) == context.Canceled:
		logger.Wf(ctx, "stretch task %v cancelled after %v frames", task.ID, out.Len())
	default:
		logger.Ef(ctx, "stretch task %v %v", task.ID, task.result.Status)
	}
	task.events <- Event{Kind: EventDone, Progress: progressOf(err), Frames: out.Len()}
}

// Status returns "complete" for a nil error and "failed: <reason>" otherwise.
func Status(err error) string {
	if err == nil {
		return StatusComplete
	}
	return "failed: " + err.Error()
}

func progressOf(err error) float64 {
	if err == nil {
		return 1
	}
	return 0
}

// notify never blocks and keeps the last slot free for EventDone. Only the
// task goroutine sends, so the length check cannot race with another sender.
func (t *Task) notify(ev Event) {
	if len(t.events) < cap(t.events)-1 {
		t.events <- ev
	}
}

func newEngine(job Job) (*stretch.Engine, error) {
	engine, err := stretch.NewEngine(job.Source.Channels(), job.Source.SampleRate(), job.Options...)
	if err != nil {
		return nil, err
	}
	if err := engine.SetTempo(orOne(job.Tempo)); err != nil {
		return nil, err
	}
	if err := engine.SetPitch(orOne(job.Pitch)); err != nil {
		return nil, err
	}
	if err := engine.SetRate(orOne(job.Rate)); err != nil {
		return nil, err
	}
	return engine, nil
}

// orOne maps an unset control to its neutral value.
func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func concat(channels int, chunks []*buffer.Frames) *buffer.Frames {
	total := 0
	for _, c := range chunks {
		total += c.Len()
	}
	out := buffer.NewFrames(channels, total)
	offset := 0
	for _, c := range chunks {
		n, _ := out.CopyFrom(c, offset)
		offset += n
	}
	return out
}
