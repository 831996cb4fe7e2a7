// Package main provides pwfactory, a smoke check for the resource factory.
// It starts the Playwright driver, launches a browser, opens a traced
// session, loads a page, saves a screenshot and then closes everything in
// reverse order.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/entrhq/pwfactory/pkg/config"
	pwengine "github.com/entrhq/pwfactory/pkg/engine/playwright"
	"github.com/entrhq/pwfactory/pkg/factory"
	"github.com/entrhq/pwfactory/pkg/logging"
	"github.com/entrhq/pwfactory/pkg/metrics"
	"github.com/entrhq/pwfactory/pkg/options"
	"github.com/entrhq/pwfactory/pkg/registry"
	"github.com/entrhq/pwfactory/pkg/resource"
)

const version = "0.1.0"

// Config holds the command line configuration
type Config struct {
	URL            string
	Browser        string
	Headed         bool
	ConfigPath     string
	TracePath      string
	ScreenshotPath string
	Install        bool
	Worker         string
	ShowVersion    bool
}

func main() {
	cfg := parseFlags()

	if cfg.ShowVersion {
		fmt.Printf("pwfactory v%s\n", version)
		return
	}

	if err := cfg.validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func parseFlags() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.URL, "url", "https://example.com", "Page to load")
	flag.StringVar(&cfg.Browser, "browser", "", "Browser to launch: chromium, chrome, msedge, firefox or webkit (default from config)")
	flag.BoolVar(&cfg.Headed, "headed", false, "Show the browser window")
	flag.StringVar(&cfg.ConfigPath, "config", os.Getenv(config.EnvConfigPath), "Path to defaults file (YAML)")
	flag.StringVar(&cfg.TracePath, "trace", "", "Where to write the trace archive (default from config)")
	flag.StringVar(&cfg.ScreenshotPath, "screenshot", "", "Where to write the screenshot (default from config)")
	flag.BoolVar(&cfg.Install, "install", false, "Install the Playwright driver and browsers first")
	flag.StringVar(&cfg.Worker, "worker", registry.DefaultWorker, "Worker identity to create resources under")
	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pwfactory v%s - resource factory smoke check\n\n", version)
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()
	return cfg
}

func (c *Config) validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	return nil
}

func run(ctx context.Context, cfg *Config) error {
	logger, err := logging.NewLogger("pwfactory")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer logger.Close()

	defaults, err := loadDefaults(cfg.ConfigPath)
	if err != nil {
		return err
	}

	collector := metrics.NewPrometheusCollector("")
	// registered before the closes below, so it runs after them
	defer printMetrics(collector, os.Stdout)
	f := factory.New(
		pwengine.New(pwengine.WithInstall(cfg.Install), pwengine.WithOutput(logger.Writer())),
		factory.WithConfig(defaults),
		factory.WithLogger(logger),
		factory.WithMetrics(collector),
	)
	ctx = registry.WithWorker(ctx, cfg.Worker)

	launch := defaults.Launch.With(func(o *options.LaunchOptions) {
		o.Headless = !cfg.Headed
		if cfg.Browser != "" {
			o.Browser = cfg.Browser
		}
	})

	env, err := f.Environment(ctx)
	if err != nil {
		return fmt.Errorf("failed to start environment: %w", err)
	}
	defer closeLogged(ctx, f, env, "environment")

	rt, err := f.Runtime(ctx, launch)
	if err != nil {
		return fmt.Errorf("failed to launch runtime: %w", err)
	}
	defer closeLogged(ctx, f, rt, "runtime")

	session, err := f.Session(ctx)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	var closeArgs []any
	if cfg.TracePath != "" {
		closeArgs = append(closeArgs, options.TraceStopOptions{Path: cfg.TracePath})
	}
	defer func() {
		if err := f.Close(ctx, session, closeArgs...); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: closing session: %v\n", err)
		}
	}()

	page, err := pwengine.PageOf(session)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := pwengine.Navigate(ctx, f.Executor(), page, cfg.URL); err != nil {
		return err
	}
	fmt.Printf("Loaded %s in %s\n", cfg.URL, time.Since(start).Round(time.Millisecond))

	var shotArgs []any
	if cfg.ScreenshotPath != "" {
		shotArgs = append(shotArgs, defaults.Screenshot.With(func(o *options.ScreenshotOptions) {
			o.Path = cfg.ScreenshotPath
		}))
	}
	shot := factory.Resolve[options.ScreenshotOptions](ctx, f, shotArgs...)
	if _, err := pwengine.Screenshot(page, shot); err != nil {
		return err
	}
	fmt.Printf("Screenshot saved to %s\n", shot.Path)

	if logger.LogPath() != "" {
		fmt.Printf("Log: %s\n", logger.LogPath())
	}
	return nil
}

func loadDefaults(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	return cfg, nil
}

func printMetrics(c *metrics.PrometheusCollector, w io.Writer) {
	fmt.Fprintln(w, "Metrics:")
	if err := c.WriteSummary(w); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

func closeLogged(ctx context.Context, f *factory.Factory, h resource.Handle, what string) {
	if err := f.Close(ctx, h); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: closing %s: %v\n", what, err)
	}
}
