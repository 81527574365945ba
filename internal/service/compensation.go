package service

import (
	"context"
	"sync"
	"time"

	"printshop/internal/logging"
)

const defaultCleanupTimeout = 30 * time.Second

type compensation struct {
	key  string
	undo func(context.Context) error
}

// compensationList is the ordered record of side effects completed by a
// multi-step workflow. It is safe for concurrent push.
type compensationList struct {
	mu    sync.Mutex
	steps []compensation
}

func (l *compensationList) push(key string, undo func(context.Context) error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.steps = append(l.steps, compensation{key: key, undo: undo})
}

func (l *compensationList) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.steps)
}

// run undoes every recorded step in reverse order and returns the keys it
// attempted. Each step gets the same detached deadline so a cancelled request
// still cleans up; failures are logged and reported to onFailure, never returned.
func (l *compensationList) run(ctx context.Context, timeout time.Duration, onFailure func()) []string {
	l.mu.Lock()
	steps := append([]compensation(nil), l.steps...)
	l.mu.Unlock()

	if timeout <= 0 {
		timeout = defaultCleanupTimeout
	}
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	log := logging.FromContext(ctx)
	attempted := make([]string, 0, len(steps))
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		attempted = append(attempted, step.key)
		if err := step.undo(cctx); err != nil {
			log.WithError(err).WithField("object_key", step.key).Error("compensation_failed")
			if onFailure != nil {
				onFailure()
			}
		}
	}
	return attempted
}
