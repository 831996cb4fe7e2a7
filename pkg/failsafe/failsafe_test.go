package failsafe

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu    sync.Mutex
	infos []string
	warns []string
	errs  []string
}

func (l *recordingLogger) Infof(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, fmt.Sprintf(format, v...))
}

func (l *recordingLogger) Warnf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, v...))
}

func (l *recordingLogger) Errorf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, fmt.Sprintf(format, v...))
}

var errFlaky = errors.New("flaky")

func TestRun_WhenNoError(t *testing.T) {
	logger := &recordingLogger{}
	e := NewExecutor(logger)

	var list []string
	err := e.Run(context.Background(), func() error {
		list = append(list, "test")
		return nil
	}, time.Millisecond, 1)

	require.NoError(t, err)
	assert.Equal(t, []string{"test"}, list)
	assert.Empty(t, logger.infos)
	assert.Empty(t, logger.errs)
}

func TestRun_WhenOnlyFirstError(t *testing.T) {
	logger := &recordingLogger{}
	var retries []int
	e := NewExecutor(logger, WithRetryHook(func(attempt int, err error) {
		retries = append(retries, attempt)
	}))

	var list []string
	err := e.Run(context.Background(), func() error {
		list = append(list, "test")
		if len(list) < 2 {
			return errFlaky
		}
		return nil
	}, time.Millisecond, 2)

	require.NoError(t, err)
	assert.Equal(t, []string{"test", "test"}, list)
	assert.Equal(t, []int{1}, retries)
	assert.Len(t, logger.infos, 1)
	assert.Empty(t, logger.errs)
}

func TestRun_WhenAlwaysError(t *testing.T) {
	logger := &recordingLogger{}
	var exhausted int
	e := NewExecutor(logger, WithExhaustedHook(func(attempts int, err error) {
		exhausted = attempts
	}))

	calls := 0
	var lastErr error
	err := e.Run(context.Background(), func() error {
		calls++
		lastErr = fmt.Errorf("attempt %d: %w", calls, errFlaky)
		return lastErr
	}, time.Millisecond, 4)

	require.Error(t, err)
	assert.Equal(t, 4, calls)
	assert.Same(t, lastErr, err, "last failure is returned unwrapped")
	assert.Equal(t, 4, exhausted)
	assert.Len(t, logger.infos, 3)
	assert.Len(t, logger.errs, 1)
}

func TestRun_OnlyMatchingKindsAreRetried(t *testing.T) {
	logger := &recordingLogger{}
	e := NewExecutor(logger)
	errFatal := errors.New("fatal")

	calls := 0
	err := e.Run(context.Background(), func() error {
		calls++
		return errFatal
	}, time.Millisecond, 5, errFlaky)

	assert.Same(t, errFatal, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, logger.errs, "a non-retryable failure is not exhaustion")

	calls = 0
	err = e.Run(context.Background(), func() error {
		calls++
		return fmt.Errorf("wrapped: %w", errFlaky)
	}, time.Millisecond, 3, errFlaky)

	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 3, calls)
}

func TestRun_ZeroAttemptsRunsOnce(t *testing.T) {
	e := NewExecutor(&recordingLogger{})

	calls := 0
	err := e.Run(context.Background(), func() error {
		calls++
		return errFlaky
	}, time.Millisecond, 0)

	assert.Same(t, errFlaky, err)
	assert.Equal(t, 1, calls)
}

func TestRun_StopsWhenContextCanceled(t *testing.T) {
	e := NewExecutor(&recordingLogger{})
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := e.Run(ctx, func() error {
		calls++
		cancel()
		return errFlaky
	}, time.Hour, 5)

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRunWithDefaultPolicy(t *testing.T) {
	e := NewExecutor(&recordingLogger{})

	var list []string
	err := e.RunWithDefaultPolicy(context.Background(), func() error {
		list = append(list, "test")
		if len(list) < 2 {
			return errFlaky
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"test", "test"}, list)
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, time.Second, p.Delay)
	assert.Equal(t, 3, p.MaxAttempts)
	assert.Nil(t, p.RetryIf)
}

func TestOn(t *testing.T) {
	assert.Nil(t, On())

	match := On(errFlaky, context.DeadlineExceeded)
	assert.True(t, match(errFlaky))
	assert.True(t, match(fmt.Errorf("x: %w", context.DeadlineExceeded)))
	assert.False(t, match(errors.New("other")))
}

func TestRunBestEffort_AbsorbsFailure(t *testing.T) {
	logger := &recordingLogger{}
	var recorded []string
	e := NewExecutor(logger, WithFallbackHook(func(message string, err error) {
		recorded = append(recorded, message)
	}))

	assert.NotPanics(t, func() {
		e.RunBestEffort(func() error { return errFlaky }, "Error during waitForLoadState. Absorbing exception.")
	})

	require.Len(t, logger.warns, 1)
	assert.Contains(t, logger.warns[0], "Absorbing exception")
	assert.Contains(t, logger.warns[0], "flaky")
	assert.Equal(t, []string{"Error during waitForLoadState. Absorbing exception."}, recorded)
}

func TestRunBestEffort_AbsorbsPanic(t *testing.T) {
	logger := &recordingLogger{}
	e := NewExecutor(logger)

	assert.NotPanics(t, func() {
		e.RunBestEffort(func() error { panic("boom") }, "nice to have")
	})

	require.Len(t, logger.warns, 1)
	assert.Contains(t, logger.warns[0], "boom")
}

func TestRunBestEffort_Success(t *testing.T) {
	logger := &recordingLogger{}
	e := NewExecutor(logger)

	ran := false
	e.RunBestEffort(func() error {
		ran = true
		return nil
	}, "unused")

	assert.True(t, ran)
	assert.Empty(t, logger.warns)
}
