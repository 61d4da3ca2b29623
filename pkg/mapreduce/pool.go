package mapreduce

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Pool runs batches of independent tasks on a fixed number of workers.
// Tasks share no state; the only coordination is the join at the end of a batch.
type Pool struct {
	workers int
	logger  *slog.Logger
}

// NewPool creates a pool with the given worker count (at least 1).
// A nil logger discards output.
func NewPool(workers int, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pool{workers: workers, logger: logger}
}

// Workers returns the configured worker count.
func (p *Pool) Workers() int { return p.workers }

type job[In any] struct {
	index int
	input In
}

type result[Out any] struct {
	index  int
	output Out
	err    error
}

// RunBatch applies fn to every input concurrently and returns the outputs in
// input order. It returns only after every task has finished. If any task
// fails, the lowest-indexed failure is returned as a *TaskError and no
// outputs are returned.
func RunBatch[In, Out any](p *Pool, stage string, inputs []In, fn func(In) (Out, error)) ([]Out, error) {
	outputs := make([]Out, len(inputs))
	if len(inputs) == 0 {
		return outputs, nil
	}

	workerCount := min(p.workers, len(inputs))
	var wg sync.WaitGroup
	jobs := make(chan job[In], len(inputs))
	results := make(chan result[Out], len(inputs))

	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go worker(w, p.logger, stage, fn, &wg, jobs, results)
	}

	for i, in := range inputs {
		jobs <- job[In]{index: i, input: in}
	}
	close(jobs)

	wg.Wait()
	close(results)

	var firstErr *TaskError
	for r := range results {
		if r.err != nil {
			taskErr := asTaskError(stage, r.index, r.err)
			if firstErr == nil || taskErr.Index < firstErr.Index {
				firstErr = taskErr
			}
			continue
		}
		outputs[r.index] = r.output
	}
	if firstErr != nil {
		return nil, firstErr
	}

	return outputs, nil
}

// worker is a goroutine that processes jobs from the jobs channel
// and sends results to the results channel.
func worker[In, Out any](id int, logger *slog.Logger, stage string, fn func(In) (Out, error), wg *sync.WaitGroup, jobs <-chan job[In], results chan<- result[Out]) {
	defer wg.Done()
	processed := 0
	for j := range jobs {
		out, err := runTask(fn, j.input)
		results <- result[Out]{index: j.index, output: out, err: err}
		processed++
	}
	logger.Debug("Worker finished", "stage", stage, "worker_id", id, "tasks", processed)
}

func runTask[In, Out any](fn func(In) (Out, error), in In) (out Out, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return fn(in)
}

func asTaskError(stage string, index int, err error) *TaskError {
	var taskErr *TaskError
	if errors.As(err, &taskErr) {
		out := *taskErr
		if out.Stage == "" {
			out.Stage = stage
		}
		out.Index = index
		return &out
	}
	return &TaskError{Stage: stage, Index: index, Err: err}
}
