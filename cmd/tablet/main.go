package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/TabletOS/backend/internal/apps/clock"
	"github.com/GriffinCanCode/TabletOS/backend/internal/apps/sketchpad"
	"github.com/GriffinCanCode/TabletOS/backend/internal/domain/app"
	"github.com/GriffinCanCode/TabletOS/backend/internal/domain/tablet"
	"github.com/GriffinCanCode/TabletOS/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/TabletOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/TabletOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/TabletOS/backend/internal/infrastructure/server"
	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/frame"
	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/resource"
	"github.com/GriffinCanCode/TabletOS/backend/internal/shared/text"
)

// translationsID holds the display names beyond English
var translationsID = resource.MustParse("tablet:lang/names.yaml")

func main() {
	// Parse flags
	open := flag.String("open", "", "Application to open after session start")
	frames := flag.Int("frames", 0, "Frames to render before exiting (0 = until interrupted)")
	fps := flag.Int("fps", 30, "Frames per second")
	out := flag.String("out", "", "Write the last frame to this PNG file")
	resources := flag.String("resources", "", "Resource directory (overrides TABLET_RESOURCES)")
	admin := flag.Bool("admin", false, "Enable the admin HTTP API (overrides ADMIN_ENABLED)")
	dev := flag.Bool("dev", false, "Development logging")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *resources != "" {
		cfg.Device.ResourceDir = *resources
	}
	if *admin {
		cfg.Admin.Enabled = true
	}
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Development = cfg.Logging.Development
	logger, err := logging.New(logCfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, options{open: *open, frames: *frames, fps: *fps, out: *out}); err != nil {
		logger.Error("Tablet host failed", zap.Error(err))
		os.Exit(1)
	}
}

type options struct {
	open   string
	frames int
	fps    int
	out    string
}

func run(ctx context.Context, cfg *config.Config, logger *logging.Logger, opts options) error {
	logger.Info("Starting tablet host",
		zap.Int("width", cfg.Device.Width),
		zap.Int("height", cfg.Device.Height),
		zap.String("resources", cfg.Device.ResourceDir),
		zap.String("lang", cfg.Device.Language),
	)

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)

	reg := app.DefaultRegistry().
		WithLogger(logger.Component("registry")).
		WithMetrics(metrics)
	if _, err := clock.New(reg); err != nil {
		return fmt.Errorf("failed to create clock: %w", err)
	}
	if _, err := sketchpad.New(reg); err != nil {
		return fmt.Errorf("failed to create sketchpad: %w", err)
	}

	loader := resource.NewLoader(os.DirFS(cfg.Device.ResourceDir))

	catalog := text.NewCatalog()
	if data, err := loader.Bytes(translationsID); err == nil {
		if err := catalog.LoadYAML(data); err != nil {
			return err
		}
	} else {
		logger.Warn("No translations loaded", zap.Error(err))
	}

	device := tablet.NewDevice(reg, loader, tablet.ConfigFrom(cfg.Device)).
		WithLogger(logger.Component("device")).
		WithMetrics(metrics)

	device.StartSession()
	defer device.Shutdown()

	for _, a := range reg.List() {
		logger.Info("Application registered",
			zap.String("app", a.ID()),
			zap.String("name", catalog.Localize(a.DisplayName(), cfg.Device.Language)),
			zap.Bool("available", device.Available(a.ID())),
		)
	}

	if opts.open != "" {
		if err := device.Open(opts.open); err != nil {
			return fmt.Errorf("failed to open %s: %w", opts.open, err)
		}
	}

	stats := monitoring.NewFrameStats(monitoring.DefaultFrameWindow)

	// The loop ending (frame budget or signal) stops the admin server too
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(loopCtx)

	if cfg.Admin.Enabled {
		srv := server.New(device, server.Options{
			Admin:       cfg.Admin,
			Language:    cfg.Device.Language,
			Development: cfg.Logging.Development,
			Catalog:     catalog,
			Metrics:     metrics,
			Gatherer:    prometheus.DefaultGatherer,
			FrameStats:  stats,
			Logger:      logger.Component("admin"),
		})
		g.Go(func() error { return srv.Run(gctx) })
	}

	var last *frame.Buffer
	g.Go(func() error {
		defer cancel()
		var err error
		last, err = loop(gctx, device, stats, logger.Logger, opts)
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	summary := stats.Summary()
	logger.Info("Frame times",
		zap.Uint64("frames", summary.Frames),
		zap.Float64("mean_ms", summary.MeanMs),
		zap.Float64("p95_ms", summary.P95Ms),
		zap.Float64("p99_ms", summary.P99Ms),
		zap.Float64("max_ms", summary.MaxMs),
	)

	if opts.out != "" {
		if err := writePNG(opts.out, last); err != nil {
			return err
		}
		logger.Info("Frame written", zap.String("path", opts.out))
	}

	logger.Info("Tablet host stopped", zap.Uint64("frames", device.Frames()))
	return nil
}

// loop renders frames at fps until ctx ends or the frame budget is spent.
// The cursor circles the canvas center.
func loop(ctx context.Context, device *tablet.Device, stats *monitoring.FrameStats, logger *zap.Logger, opts options) (*frame.Buffer, error) {
	if opts.fps <= 0 {
		opts.fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(opts.fps))
	defer ticker.Stop()

	width, height := device.Size()
	cx, cy := float64(width)/2, float64(height)/2
	radius := math.Min(cx, cy) / 2

	last := device.LastFrame()
	for n := 0; opts.frames <= 0 || n < opts.frames; n++ {
		select {
		case <-ctx.Done():
			return last, nil
		case <-ticker.C:
		}

		angle := float64(n) * 2 * math.Pi / float64(opts.fps*4)
		x := int(cx + radius*math.Cos(angle))
		y := int(cy + radius*math.Sin(angle))

		start := time.Now()
		buf, err := device.Render(x, y)
		stats.Add(time.Since(start))
		if err != nil {
			var appErr *app.ApplicationError
			if !errors.As(err, &appErr) {
				return last, err
			}
			logger.Warn("Frame failed", zap.Int("frame", n), zap.Error(err))
		}
		last = buf
	}
	return last, nil
}

func writePNG(path string, buf *frame.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, buf.Image()); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
