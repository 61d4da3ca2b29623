package mapreduce

import "fmt"

// TaskError reports a failed map or reduce task. Any TaskError aborts the
// whole batch: partial counts are never returned.
type TaskError struct {
	Stage string
	Index int // position of the input in its batch
	Key   string
	Err   error
}

func (e *TaskError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s task %d (key %q) failed: %v", e.Stage, e.Index, e.Key, e.Err)
	}
	return fmt.Sprintf("%s task %d failed: %v", e.Stage, e.Index, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }
