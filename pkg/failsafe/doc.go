// Package failsafe shields flaky steps from transient failures.
//
// Two executors are provided:
//
//   - Run retries an operation a bounded number of times with a fixed delay
//     between attempts. When every attempt fails the last error is returned
//     exactly as the operation produced it.
//   - RunBestEffort runs a "nice to have" step and never propagates its
//     failure; the failure is logged and counted instead.
//
// Both report through a Logger and optional hooks so callers can surface
// retries and fallbacks as metrics.
package failsafe
