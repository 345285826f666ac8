package work

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewWorkerPool(t *testing.T) {
	tests := []struct {
		name            string
		numWorkers      int
		taskChannelSize int
		expectError     bool
	}{
		{"valid pool", 5, 10, false},
		{"zero workers", 0, 10, true},
		{"negative workers", -1, 10, true},
		{"negative channel size", 5, -1, true},
		{"zero channel size", 5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := NewWorkerPool[string](tt.numWorkers, tt.taskChannelSize)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if pool == nil {
				t.Error("Expected pool but got nil")
			}
		})
	}
}

func TestWorkerPoolBasicOperation(t *testing.T) {
	ctx := context.Background()
	pool, err := NewWorkerPool[int](2, 5)
	if err != nil {
		t.Fatal(err)
	}

	pool.Start(ctx, "search-pool")
	defer pool.Stop()

	var executedCount int64
	task, err := NewTask[int](
		func(ctx context.Context) (int, error) {
			atomic.AddInt64(&executedCount, 1)
			// Pretend we found three cases.
			return 3, nil
		},
		WithErrorHandler[int](func(err error) {
			t.Errorf("Unexpected error: %v", err)
		}),
		WithTimeout[int](5*time.Second),
	)
	if err != nil {
		t.Fatal(err)
	}

	if err := pool.AddTask(ctx, task); err != nil {
		t.Fatal(err)
	}

	select {
	case result := <-pool.Results():
		if !result.IsSuccess() {
			t.Errorf("Task failed: %v", result.Error)
		}
		if result.Result != 3 {
			t.Errorf("Expected 3, got %d", result.Result)
		}
		if atomic.LoadInt64(&executedCount) != 1 {
			t.Errorf("Expected 1 execution, got %d", executedCount)
		}
	case <-time.After(3 * time.Second):
		t.Error("Timeout waiting for result")
	}
}

func TestWorkerPoolConcurrency(t *testing.T) {
	ctx := context.Background()
	pool, err := NewWorkerPool[int](3, 10)
	if err != nil {
		t.Fatal(err)
	}

	pool.Start(ctx, "concurrency-pool")
	defer pool.Stop()

	const numTasks = 10
	var completedTasks int64

	for i := 0; i < numTasks; i++ {
		taskNum := i
		task, err := NewTask[int](
			func(ctx context.Context) (int, error) {
				time.Sleep(50 * time.Millisecond)
				atomic.AddInt64(&completedTasks, 1)
				return taskNum, nil
			},
			WithErrorHandler[int](func(err error) {
				t.Errorf("Task %d failed: %v", taskNum, err)
			}),
			WithTimeout[int](5*time.Second),
		)
		if err != nil {
			t.Fatal(err)
		}

		if err := pool.AddTask(ctx, task); err != nil {
			t.Fatal(err)
		}
	}

	results := make([]int, 0, numTasks)
	for i := 0; i < numTasks; i++ {
		select {
		case result := <-pool.Results():
			if !result.IsSuccess() {
				t.Errorf("Task failed: %v", result.Error)
			} else {
				results = append(results, result.Result)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("Timeout waiting for results")
		}
	}

	if len(results) != numTasks {
		t.Errorf("Expected %d results, got %d", numTasks, len(results))
	}

	if atomic.LoadInt64(&completedTasks) != numTasks {
		t.Errorf("Expected %d completed tasks, got %d", numTasks, completedTasks)
	}
}

func TestWorkerPoolTimeout(t *testing.T) {
	ctx := context.Background()
	pool, err := NewWorkerPool[string](1, 1)
	if err != nil {
		t.Fatal(err)
	}

	pool.Start(ctx, "timeout-pool")
	defer pool.Stop()

	task, err := NewTask[string](
		func(ctx context.Context) (string, error) {
			select {
			case <-time.After(2 * time.Second):
				return "should not complete", nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		},
		WithTimeout[string](100*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}

	if err := pool.AddTask(ctx, task); err != nil {
		t.Fatal(err)
	}

	select {
	case result := <-pool.Results():
		if result.IsSuccess() {
			t.Error("Expected task to timeout")
		}
		if !errors.Is(result.Error, ErrTaskTimeout) {
			t.Errorf("Expected timeout error, got: %v", result.Error)
		}
	case <-time.After(3 * time.Second):
		t.Error("Timeout waiting for result")
	}
}

func TestWorkerPoolStoppedRejectsTasks(t *testing.T) {
	ctx := context.Background()
	pool, err := NewWorkerPool[string](2, 5)
	if err != nil {
		t.Fatal(err)
	}

	pool.Start(ctx, "shutdown-pool")
	pool.Stop()

	task, err := NewTask[string](
		func(ctx context.Context) (string, error) {
			return "should not execute", nil
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	if err := pool.AddTask(ctx, task); !errors.Is(err, ErrPoolStopped) {
		t.Errorf("Expected ErrPoolStopped, got: %v", err)
	}
	if err := pool.AddTaskNonBlocking(task); !errors.Is(err, ErrPoolStopped) {
		t.Errorf("Expected ErrPoolStopped, got: %v", err)
	}
}

func TestWorkerPoolStats(t *testing.T) {
	ctx := context.Background()
	pool, err := NewWorkerPool[string](2, 5)
	if err != nil {
		t.Fatal(err)
	}

	pool.Start(ctx, "stats-pool")
	defer pool.Stop()

	time.Sleep(50 * time.Millisecond)

	stats := pool.Stats()
	if stats.ActiveWorkers != 2 {
		t.Errorf("Expected 2 active workers, got %d", stats.ActiveWorkers)
	}
	if stats.TasksQueued != 0 {
		t.Errorf("Expected 0 queued tasks, got %d", stats.TasksQueued)
	}

	task, err := NewTask[string](
		func(ctx context.Context) (string, error) {
			time.Sleep(200 * time.Millisecond)
			return "done", nil
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	if err := pool.AddTask(ctx, task); err != nil {
		t.Fatal(err)
	}

	stats = pool.Stats()
	if stats.TasksQueued != 1 {
		t.Errorf("Expected 1 queued task, got %d", stats.TasksQueued)
	}

	<-pool.Results()

	time.Sleep(100 * time.Millisecond)
	stats = pool.Stats()
	if stats.TasksCompleted != 1 {
		t.Errorf("Expected 1 completed task, got %d", stats.TasksCompleted)
	}
}

func TestSimpleTask(t *testing.T) {
	ctx := context.Background()
	pool, err := NewWorkerPool[struct{}](1, 1)
	if err != nil {
		t.Fatal(err)
	}

	pool.Start(ctx, "simple-pool")
	defer pool.Stop()

	var executed bool
	task, err := SimpleTask(
		func(ctx context.Context) error {
			executed = true
			return nil
		},
		WithID[struct{}]("job-123"),
	)
	if err != nil {
		t.Fatal(err)
	}

	if task.ExecutorID() != "job-123" {
		t.Errorf("Expected custom ID, got %q", task.ExecutorID())
	}

	if err := pool.AddTask(ctx, task); err != nil {
		t.Fatal(err)
	}

	select {
	case result := <-pool.Results():
		if !result.IsSuccess() {
			t.Errorf("Simple task failed: %v", result.Error)
		}
		if !executed {
			t.Error("Task was not executed")
		}
	case <-time.After(3 * time.Second):
		t.Error("Timeout waiting for result")
	}
}

func TestAddTaskNonBlockingQueueFull(t *testing.T) {
	ctx := context.Background()
	pool, err := NewWorkerPool[string](1, 1)
	if err != nil {
		t.Fatal(err)
	}

	pool.Start(ctx, "nonblocking-pool")
	defer pool.Stop()

	time.Sleep(50 * time.Millisecond)

	blocker, err := NewTask[string](
		func(ctx context.Context) (string, error) {
			time.Sleep(500 * time.Millisecond)
			return "blocker", nil
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	if err := pool.AddTask(ctx, blocker); err != nil {
		t.Fatal(err)
	}

	time.Sleep(50 * time.Millisecond)

	filler, err := NewTask[string](func(ctx context.Context) (string, error) { return "filler", nil })
	if err != nil {
		t.Fatal(err)
	}
	if err := pool.AddTaskNonBlocking(filler); err != nil {
		t.Fatal(err)
	}

	overflow, err := NewTask[string](func(ctx context.Context) (string, error) { return "overflow", nil })
	if err != nil {
		t.Fatal(err)
	}
	if err := pool.AddTaskNonBlocking(overflow); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Expected ErrQueueFull, got: %v", err)
	}
}
