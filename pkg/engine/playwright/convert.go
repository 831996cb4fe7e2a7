package playwright

import (
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/pwfactory/pkg/options"
)

// LaunchOptions maps launch options onto Playwright's. The "chrome" and
// "msedge" selectors become a chromium channel.
func LaunchOptions(o options.LaunchOptions) playwright.BrowserTypeLaunchOptions {
	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(o.Headless),
		SlowMo:   playwright.Float(float64(o.SlowMo.Milliseconds())),
		Timeout:  playwright.Float(float64(o.StartTimeout.Milliseconds())),
	}

	switch channel := strings.ToLower(o.Browser); channel {
	case "chrome", "msedge":
		opts.Channel = playwright.String(channel)
	}
	return opts
}

// NewContextOptions maps session options onto Playwright's. The viewport
// size is also the recorded video size.
func NewContextOptions(o options.SessionOptions) playwright.BrowserNewContextOptions {
	size := &playwright.Size{
		Width:  o.Viewport.Width,
		Height: o.Viewport.Height,
	}

	opts := playwright.BrowserNewContextOptions{
		Viewport: size,
	}
	if o.RecordVideoDir != "" {
		opts.RecordVideo = &playwright.RecordVideo{
			Dir:  o.RecordVideoDir,
			Size: size,
		}
	}
	return opts
}

// TracingStartOptions maps trace start options onto Playwright's.
func TracingStartOptions(o options.TraceStartOptions) playwright.TracingStartOptions {
	return playwright.TracingStartOptions{
		Screenshots: playwright.Bool(o.Screenshots),
		Snapshots:   playwright.Bool(o.Snapshots),
		Sources:     playwright.Bool(o.Sources),
	}
}

// ScreenshotOptions maps screenshot options onto Playwright's.
func ScreenshotOptions(o options.ScreenshotOptions) playwright.PageScreenshotOptions {
	return playwright.PageScreenshotOptions{
		Path:     playwright.String(o.Path),
		FullPage: playwright.Bool(o.FullPage),
	}
}
