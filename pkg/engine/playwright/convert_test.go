package playwright

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pwfactory/pkg/options"
)

func TestLaunchOptions(t *testing.T) {
	tests := []struct {
		name        string
		browser     string
		wantChannel string
	}{
		{"chrome channel", "chrome", "chrome"},
		{"msedge channel", "MSEdge", "msedge"},
		{"plain chromium", "chromium", ""},
		{"firefox", "firefox", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := options.DefaultLaunchOptions().With(func(o *options.LaunchOptions) {
				o.Browser = tt.browser
			})
			got := LaunchOptions(o)

			require.NotNil(t, got.Headless)
			assert.True(t, *got.Headless)
			require.NotNil(t, got.SlowMo)
			assert.Equal(t, 300.0, *got.SlowMo)
			require.NotNil(t, got.Timeout)
			assert.Equal(t, 30000.0, *got.Timeout)

			if tt.wantChannel == "" {
				assert.Nil(t, got.Channel)
			} else {
				require.NotNil(t, got.Channel)
				assert.Equal(t, tt.wantChannel, *got.Channel)
			}
		})
	}
}

func TestLaunchOptions_Durations(t *testing.T) {
	o := options.LaunchOptions{SlowMo: 0, StartTimeout: 1500 * time.Millisecond, Browser: "webkit"}
	got := LaunchOptions(o)
	assert.Equal(t, 0.0, *got.SlowMo)
	assert.Equal(t, 1500.0, *got.Timeout)
	assert.False(t, *got.Headless)
}

func TestNewContextOptions(t *testing.T) {
	got := NewContextOptions(options.DefaultSessionOptions())

	require.NotNil(t, got.Viewport)
	assert.Equal(t, 1920, got.Viewport.Width)
	assert.Equal(t, 1080, got.Viewport.Height)
	require.NotNil(t, got.RecordVideo)
	assert.Equal(t, "target/video/", got.RecordVideo.Dir)
	assert.Equal(t, got.Viewport, got.RecordVideo.Size)
}

func TestNewContextOptions_NoRecording(t *testing.T) {
	o := options.DefaultSessionOptions().With(func(o *options.SessionOptions) {
		o.RecordVideoDir = ""
	})
	got := NewContextOptions(o)
	assert.Nil(t, got.RecordVideo)
}

func TestTracingStartOptions(t *testing.T) {
	got := TracingStartOptions(options.DefaultTraceStartOptions())
	assert.True(t, *got.Screenshots)
	assert.True(t, *got.Snapshots)
	assert.False(t, *got.Sources)
}

func TestScreenshotOptions(t *testing.T) {
	got := ScreenshotOptions(options.DefaultScreenshotOptions())
	assert.Equal(t, "target/screenshot/screenshot.png", *got.Path)
	assert.True(t, *got.FullPage)
}
