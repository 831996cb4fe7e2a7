package failsafe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
)

// Named timeouts shared by callers that wait on the engine.
const (
	OneSecond     = time.Second
	TwoSeconds    = 2 * time.Second
	ThreeSeconds  = 3 * time.Second
	FiveSeconds   = 5 * time.Second
	TenSeconds    = 10 * time.Second
	TwentySeconds = 20 * time.Second
)

// Default retry policy values
const (
	DefaultDelay       = OneSecond
	DefaultMaxAttempts = 3
)

// Logger is the observability sink for retry and fallback notices.
type Logger interface {
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

// Policy describes how an operation is retried.
type Policy struct {
	// Delay is the fixed wait between attempts
	Delay time.Duration

	// MaxAttempts is the total number of attempts, including the first
	MaxAttempts int

	// RetryIf selects which failures are retried. Nil retries every failure.
	RetryIf func(err error) bool
}

// DefaultPolicy retries any failure up to three attempts, one second apart.
func DefaultPolicy() Policy {
	return Policy{
		Delay:       DefaultDelay,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// On returns a RetryIf predicate matching errors that wrap any of kinds.
// With no kinds every error matches.
func On(kinds ...error) func(error) bool {
	if len(kinds) == 0 {
		return nil
	}
	return func(err error) bool {
		for _, kind := range kinds {
			if errors.Is(err, kind) {
				return true
			}
		}
		return false
	}
}

// Executor runs operations under retry and fallback policies.
type Executor struct {
	logger      Logger
	onRetry     func(attempt int, err error)
	onExhausted func(attempts int, err error)
	onFallback  func(message string, err error)
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithRetryHook is called before every retry with the number of the attempt
// that just failed.
func WithRetryHook(fn func(attempt int, err error)) ExecutorOption {
	return func(e *Executor) {
		e.onRetry = fn
	}
}

// WithExhaustedHook is called once when every attempt has failed.
func WithExhaustedHook(fn func(attempts int, err error)) ExecutorOption {
	return func(e *Executor) {
		e.onExhausted = fn
	}
}

// WithFallbackHook is called whenever a best-effort step fails.
func WithFallbackHook(fn func(message string, err error)) ExecutorOption {
	return func(e *Executor) {
		e.onFallback = fn
	}
}

// NewExecutor creates an executor reporting to logger.
func NewExecutor(logger Logger, opts ...ExecutorOption) *Executor {
	e := &Executor{logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes op up to maxAttempts times, waiting delay between attempts.
// Only failures matching one of kinds are retried; with no kinds every
// failure is. The last failure is returned unwrapped.
func (e *Executor) Run(ctx context.Context, op func() error, delay time.Duration, maxAttempts int, kinds ...error) error {
	return e.RunPolicy(ctx, op, Policy{
		Delay:       delay,
		MaxAttempts: maxAttempts,
		RetryIf:     On(kinds...),
	})
}

// RunWithDefaultPolicy executes op under DefaultPolicy.
func (e *Executor) RunWithDefaultPolicy(ctx context.Context, op func() error) error {
	return e.RunPolicy(ctx, op, DefaultPolicy())
}

// RunPolicy executes op under policy.
func (e *Executor) RunPolicy(ctx context.Context, op func() error, policy Policy) error {
	if ctx == nil {
		ctx = context.Background()
	}
	maxAttempts := policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	retryIf := policy.RetryIf
	if retryIf == nil {
		retryIf = func(error) bool { return true }
	}

	attempt := 0
	err := retry.Do(
		func() error {
			attempt++
			err := op()
			if err != nil && attempt < maxAttempts && retryIf(err) {
				e.logger.Infof("Failed on attempt #%d! Error: %v. Retrying...", attempt, err)
				if e.onRetry != nil {
					e.onRetry(attempt, err)
				}
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(uint(maxAttempts)),
		retry.Delay(policy.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.RetryIf(retryIf),
		retry.LastErrorOnly(true),
	)
	if err == nil {
		return nil
	}

	if attempt >= maxAttempts && retryIf(err) {
		e.logger.Errorf("Max attempts reached (%d): %v", attempt, err)
		if e.onExhausted != nil {
			e.onExhausted(attempt, err)
		}
	}
	return err
}

// RunBestEffort executes op and absorbs any failure, including a panic.
// The failure is logged together with message.
func (e *Executor) RunBestEffort(op func() error, message string) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return op()
	}()
	if err == nil {
		return
	}

	e.logger.Warnf("Fallback... %s: %v", message, err)
	if e.onFallback != nil {
		e.onFallback(message, err)
	}
}
