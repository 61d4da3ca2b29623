package mapreduce

import (
	"errors"
	"strconv"
	"sync/atomic"
	"testing"
)

func TestRunBatch_PreservesOrder(t *testing.T) {
	inputs := make([]int, 1000)
	for i := range inputs {
		inputs[i] = i
	}

	out, err := RunBatch(NewPool(7, nil), "square", inputs, func(n int) (string, error) {
		return strconv.Itoa(n * n), nil
	})
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}
	for i, s := range out {
		if s != strconv.Itoa(i*i) {
			t.Fatalf("out[%d] = %s, want %d", i, s, i*i)
		}
	}
}

func TestRunBatch_Empty(t *testing.T) {
	out, err := RunBatch(NewPool(3, nil), "noop", []string{}, func(s string) (string, error) {
		t.Error("task should not run")
		return s, nil
	})
	if err != nil || len(out) != 0 {
		t.Errorf("RunBatch(empty) = %v, %v", out, err)
	}
}

func TestRunBatch_RunsEveryTaskBeforeFailing(t *testing.T) {
	var ran atomic.Int64
	boom := errors.New("boom")
	inputs := []int{0, 1, 2, 3, 4, 5, 6, 7}

	_, err := RunBatch(NewPool(3, nil), "check", inputs, func(n int) (int, error) {
		ran.Add(1)
		if n == 5 || n == 2 {
			return 0, boom
		}
		return n, nil
	})

	if got := ran.Load(); got != int64(len(inputs)) {
		t.Errorf("ran %d tasks, want %d (batch must drain)", got, len(inputs))
	}
	var taskErr *TaskError
	if !errors.As(err, &taskErr) {
		t.Fatalf("error = %v, want *TaskError", err)
	}
	if taskErr.Index != 2 || taskErr.Stage != "check" {
		t.Errorf("TaskError = %+v, want lowest failing index 2 in stage check", taskErr)
	}
	if !errors.Is(err, boom) {
		t.Errorf("errors.Is(err, boom) = false")
	}
}

func TestRunBatch_RecoversPanics(t *testing.T) {
	_, err := RunBatch(NewPool(2, nil), StageReduce, []int{1, 2, 3}, func(n int) (int, error) {
		if n == 3 {
			panic("unexpected")
		}
		return n, nil
	})
	var taskErr *TaskError
	if !errors.As(err, &taskErr) {
		t.Fatalf("error = %v, want *TaskError", err)
	}
	if taskErr.Index != 2 {
		t.Errorf("TaskError.Index = %d, want 2", taskErr.Index)
	}
}

func TestNewPool_MinimumOneWorker(t *testing.T) {
	if got := NewPool(0, nil).Workers(); got != 1 {
		t.Errorf("Workers() = %d, want 1", got)
	}
}
