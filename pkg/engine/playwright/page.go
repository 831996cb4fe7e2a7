package playwright

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/pwfactory/pkg/failsafe"
	"github.com/entrhq/pwfactory/pkg/options"
)

// LoadStateWaiter is the part of playwright.Page needed to wait for load states.
type LoadStateWaiter interface {
	WaitForLoadState(options ...playwright.PageWaitForLoadStateOptions) error
}

// WaitForAllLoadStates waits for the load, domcontentloaded and networkidle
// states in turn. It never fails: a timeout is logged through exec and the
// caller carries on.
func WaitForAllLoadStates(exec *failsafe.Executor, page LoadStateWaiter) {
	exec.RunBestEffort(func() error {
		for _, state := range []*playwright.LoadState{
			playwright.LoadStateLoad,
			playwright.LoadStateDomcontentloaded,
			playwright.LoadStateNetworkidle,
		} {
			if err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{State: state}); err != nil {
				return err
			}
		}
		return nil
	}, "Error during waitForLoadState. Absorbing exception.")
}

// Navigator is the part of playwright.Page needed to navigate.
type Navigator interface {
	LoadStateWaiter
	Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error)
}

// Navigate loads url under the default retry policy, then waits for the
// page to settle.
func Navigate(ctx context.Context, exec *failsafe.Executor, page Navigator, url string) error {
	err := exec.RunWithDefaultPolicy(ctx, func() error {
		_, err := page.Goto(url)
		return err
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	WaitForAllLoadStates(exec, page)
	return nil
}

// Screenshotter is the part of playwright.Page needed to take a screenshot.
type Screenshotter interface {
	Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error)
}

// Screenshot captures page according to o, creating the target directory
// if needed.
func Screenshot(page Screenshotter, o options.ScreenshotOptions) ([]byte, error) {
	if o.Path != "" {
		if err := os.MkdirAll(filepath.Dir(o.Path), 0750); err != nil {
			return nil, fmt.Errorf("failed to create screenshot directory: %w", err)
		}
	}

	data, err := page.Screenshot(ScreenshotOptions(o))
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return data, nil
}
