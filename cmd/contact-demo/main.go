package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/contact-audio/audio"
	"github.com/lixenwraith/contact-audio/catalog"
	"github.com/lixenwraith/contact-audio/core"
	"github.com/lixenwraith/contact-audio/engine"
	"github.com/lixenwraith/contact-audio/parameter"
	"github.com/lixenwraith/contact-audio/service"
	"github.com/lixenwraith/contact-audio/status"
)

var (
	catalogPath  = flag.String("catalog", "", "TOML sound catalog; empty uses the built-in synthesized set")
	catalogDelay = flag.Duration("catalog-delay", 0, "publish the catalog after this delay")
	muted        = flag.Bool("muted", false, "start with audio muted")
	tick         = flag.Duration("tick", parameter.DefaultTickInterval, "simulation tick interval")
	boxes        = flag.Int("boxes", 8, "number of falling crates")
	logPath      = flag.String("log", "", "log file; empty discards logs")
	verbose      = flag.Bool("v", false, "debug logging")
	sentryDSN    = flag.String("sentry-dsn", os.Getenv("SENTRY_DSN"), "report crashes to sentry")
	statsAddr    = flag.String("statsview", "", "serve runtime charts on this address, e.g. localhost:18066")
	frameRate    = flag.Duration("frame", 33*time.Millisecond, "render interval")
)

func main() {
	flag.Parse()

	log, closeLog, err := newLogger(*logPath, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(log)

	if *sentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: *sentryDSN, Release: "contact-demo"}); err != nil {
			log.Warn("sentry init failed", "error", err)
		}
		defer sentry.Flush(2 * time.Second)
		core.SetCrashReport(reportCrash)
	}

	// Panic recovery for the main goroutine; core.Go covers the others
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	if *statsAddr != "" {
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(*statsAddr))
		mgr := statsview.New()
		core.Go(func() { mgr.Start() })
	}

	if err := run(log); err != nil {
		log.Error("demo failed", "error", err)
		fmt.Fprintf(os.Stderr, "contact-demo: %v\n", err)
		os.Exit(1)
	}
}

// reportCrash sends a recovered panic to sentry before the process exits
func reportCrash(r any) {
	hub := sentry.CurrentHub().Clone()
	hub.Recover(r)
	hub.Flush(5 * time.Second)
}

func newLogger(path string, debug bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), func() { f.Close() }, nil
}

func loadCatalog(log *slog.Logger) (*catalog.Catalog, error) {
	if *catalogPath == "" {
		return builtinCatalog(log), nil
	}
	return catalog.LoadFile(*catalogPath, log)
}

func run(log *slog.Logger) error {
	stats := status.NewRegistry()

	cat, err := loadCatalog(log)
	if err != nil {
		return err
	}

	// Audio back end; a missing device degrades to silent mode
	cfg := audio.LoadAudioConfig()
	if *muted {
		cfg.Enabled = false
	}
	cfg.Listener = mgl32.Vec3{0, 2, 0}
	sound := audio.NewEngine(cfg, stats, log)

	world := engine.NewWorld()
	scene, err := NewScene(world, cat, *boxes, log)
	if err != nil {
		return err
	}

	// Initialize terminal
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer screen.Fini()
	core.SetCrashReset(screen.Fini)

	provider := catalog.NewProvider()
	tps := status.NewFrameRate(stats.Gauge(status.KeyFPS))
	lastTick := time.Now()
	sched := engine.NewScheduler(world, engine.Options{
		TickInterval: *tick,
		Physics:      scene.physics,
		Caster:       scene.physics,
		Catalogs:     provider,
		Backend:      sound,
		Stats:        stats,
		Log:          log,
		OnTick: func(rep engine.TickReport) {
			scene.FollowSled()
			now := time.Now()
			tps.Observe(now, now.Sub(lastTick))
			lastTick = now
			if rep.Dispatch.Dropped > 0 {
				log.Debug("sounds dropped", "tick", rep.Tick, "dropped", rep.Dispatch.Dropped)
			}
		},
	})

	hub := service.NewHub(log)
	for _, svc := range []service.Service{
		&service.Func{
			ID: "audio",
			OnStart: func(context.Context) error {
				if err := sound.Start(); err != nil {
					return err
				}
				sound.LoadClips(cat)
				return nil
			},
			OnStop: func() error { sound.Stop(); return nil },
		},
		// The catalog can arrive late; dispatch holds pending sounds until it does
		&service.Func{
			ID:   "catalog",
			Deps: []string{"audio"},
			OnStart: func(ctx context.Context) error {
				if *catalogDelay <= 0 {
					provider.Publish(cat)
					return nil
				}
				core.Go(func() {
					select {
					case <-time.After(*catalogDelay):
						provider.Publish(cat)
					case <-ctx.Done():
					}
				})
				return nil
			},
			OnStop: func() error { provider.Publish(nil); return nil },
		},
		&service.Func{
			ID:      "scheduler",
			Deps:    []string{"catalog", "audio"},
			OnStart: func(ctx context.Context) error { sched.Start(ctx); return nil },
			OnStop:  func() error { sched.Stop(); return nil },
		},
	} {
		if err := hub.Register(svc); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := hub.StartAll(ctx); err != nil {
		return err
	}
	defer hub.StopAll()

	events := make(chan tcell.Event, 64)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	})

	v := &view{screen: screen, scene: scene, stats: stats}
	frames := time.NewTicker(*frameRate)
	defer frames.Stop()

	log.Info("demo started", "crates", *boxes, "tick", *tick, "catalog", *catalogPath)
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return nil
				}
				switch ev.Rune() {
				case ' ':
					scene.DropCrates()
				case 's':
					scene.PushSled()
				case 'p':
					if sched.IsPaused() {
						sched.Resume()
					} else {
						sched.Pause()
					}
				case 'm':
					sound.ToggleMute()
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-frames.C:
			v.draw(sched.IsPaused(), sound.IsMuted())
		}
	}
}
