package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/ayusman/holohud/internal/action"
	"github.com/ayusman/holohud/internal/app"
	"github.com/ayusman/holohud/internal/capture"
	"github.com/ayusman/holohud/internal/config"
	"github.com/ayusman/holohud/internal/detector"
	"github.com/ayusman/holohud/internal/effects"
	"github.com/ayusman/holohud/internal/gesture"
	"github.com/ayusman/holohud/internal/landmark"
	"github.com/ayusman/holohud/internal/log"
	"github.com/ayusman/holohud/internal/overlay"
	"github.com/ayusman/holohud/internal/plugin"
	"github.com/ayusman/holohud/internal/server"
	"github.com/ayusman/holohud/internal/tray"
	"github.com/ayusman/holohud/internal/voice"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	app := &cli.App{
		Name:    "holohud",
		Usage:   "Gesture and voice driven holographic HUD",
		Version: Version,
		Commands: []*cli.Command{
			runCmd(),
			actionsCmd(),
			configCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// configFlags are shared by the commands that resolve a configuration.
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "data-dir", Aliases: []string{"d"}, Value: defaultDataDir(), Usage: "Directory holding config.json"},
		&cli.IntFlag{Name: "camera", Aliases: []string{"c"}, Usage: "Camera device ID"},
		&cli.StringFlag{Name: "addr", Aliases: []string{"a"}, Usage: "HTTP listen address"},
		&cli.StringFlag{Name: "plugins", Usage: "Plugin directory"},
		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Usage: "Log level: debug|info|warn|error"},
		&cli.BoolFlag{Name: "no-tray", Usage: "Do not show the system tray menu"},
		&cli.BoolFlag{Name: "no-voice", Usage: "Do not start the voice listener"},
	}
}

// loadConfig reads config.json from --data-dir and applies flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("data-dir"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if c.IsSet("camera") {
		cfg.CameraID = c.Int("camera")
	}
	if c.IsSet("addr") {
		cfg.ListenAddr = c.String("addr")
	}
	if c.IsSet("plugins") {
		cfg.PluginDir = c.String("plugins")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.Bool("no-tray") {
		cfg.DisableTray = true
	}
	if c.Bool("no-voice") {
		cfg.DisableVoice = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runCmd creates the run command.
func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Start the HUD",
		Flags: configFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			log.Init(cfg.LogLevel)
			return run(c.Context, cfg, c.String("data-dir"))
		},
	}
}

// actionsCmd creates the actions command.
func actionsCmd() *cli.Command {
	return &cli.Command{
		Name:  "actions",
		Usage: "List the actions accepted by POST /api/actions",
		Action: func(c *cli.Context) error {
			for _, a := range action.All() {
				fmt.Fprintln(c.App.Writer, a.String())
			}
			return nil
		},
	}
}

// configCmd creates the config command.
func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the effective configuration",
		Flags: append(configFlags(),
			&cli.BoolFlag{Name: "save", Usage: "Write the effective configuration to config.json"},
		),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if c.Bool("save") {
				if err := cfg.Save(c.String("data-dir")); err != nil {
					return fmt.Errorf("save config: %w", err)
				}
			}
			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		},
	}
}

// appConfig maps the configuration onto the frame orchestrator.
func appConfig(cfg *config.Config, source landmark.Source, queue *action.Queue, fx action.Effects) app.Config {
	return app.Config{
		Source:  source,
		Queue:   queue,
		Effects: fx,
		Thresholds: gesture.Thresholds{
			Pinch: cfg.PinchThreshold,
			Hold:  cfg.HoldDuration.Std(),
			Drag:  cfg.DragThreshold,
		},
		Animation: overlay.Options{
			ParticleCount:   cfg.ParticleCount,
			PanelSlideSpeed: cfg.PanelSlideSpeed,
			RotationStep:    overlay.DefaultRotationStep,
			Width:           cfg.ViewportWidth,
			Height:          cfg.ViewportHeight,
		},
		Dispatch: action.DispatcherConfig{
			VideoURL:  cfg.VideoURL,
			PanelLife: cfg.PanelLife,
		},
		TickInterval: cfg.TickInterval(),
		Seed:         cfg.Seed,
	}
}

// hudURL is the browser address of the HUD served on addr.
func hudURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// run wires every component and blocks until interrupted or quit from the tray.
func run(parent context.Context, cfg *config.Config, dataDir string) error {
	logger := log.With("component", "main")

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	// Effects
	pluginDir := cfg.PluginDir
	if pluginDir == "" {
		pluginDir = findPluginDir(dataDir)
	}
	plugins := plugin.NewManager(pluginDir)
	if err := plugins.Discover(); err != nil {
		logger.Warn("plugin discovery failed, effects disabled", "dir", pluginDir, "error", err)
	}
	runner := effects.NewRunner(plugins, plugin.NewExecutor(cfg.PluginTimeout.Std()), effects.Config{
		QueueSize:  cfg.EffectsQueue,
		SpeechRate: cfg.SpeechRate,
	})
	wg.Add(1)
	go func() {
		defer wg.Done()
		runner.Run(ctx)
	}()

	// Hand tracking: MediaPipe first, fall back to the mock detector
	var det detector.Detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		det = mp
		logger.Info("using MediaPipe hand detection")
	} else {
		logger.Warn("MediaPipe not available, using mock detector", "error", err)
		det = detector.NewMockDetector()
	}
	cam := capture.NewCameraWithOptions(capture.Options{DeviceID: cfg.CameraID, Mirror: cfg.Mirror})
	tracker := landmark.NewTracker(cam, det, capture.DefaultFPS)
	if err := tracker.Start(ctx); err != nil {
		logger.Warn("camera unavailable, running without hand tracking", "camera", cfg.CameraID, "error", err)
	} else {
		defer tracker.Stop()
	}

	// Core
	queue := action.NewQueue(cfg.ActionQueue)
	hud := app.New(appConfig(cfg, tracker, queue, runner))

	hub := server.NewHub()
	hud.AddSink(hub)

	srv := server.New(server.Config{
		StaticDir: findWebDir(dataDir),
		Actions:   queue,
		State:     hud,
		Textures:  tracker,
		Hub:       hub,
	})
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("serving HUD", "addr", cfg.ListenAddr, "url", hudURL(cfg.ListenAddr))
		if err := srv.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	// Voice
	if !cfg.DisableVoice {
		rec, err := voice.NewServiceRecognizer(cfg.VoicePhraseLimit.Std())
		if err != nil {
			logger.Warn("voice recognition not available", "error", err)
		} else {
			listener := voice.NewListener(rec, queue, runner, voice.ListenerConfig{
				BackoffBase: cfg.VoiceBackoffBase.Std(),
				BackoffMax:  cfg.VoiceBackoffMax.Std(),
				MaxFailures: cfg.VoiceMaxFailures,
				Greeting:    cfg.VoiceGreeting,
			})
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer rec.Close()
				if err := listener.Run(ctx); err != nil {
					logger.Error("voice listener stopped", "error", err)
				}
			}()
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		hud.Run(ctx)
	}()

	if cfg.DisableTray {
		<-ctx.Done()
		logger.Info("shutting down")
		return nil
	}

	// The tray owns the main goroutine until it quits.
	t := tray.New(queue)
	t.OnToggle(tracker.SetEnabled)
	t.OnSettings(func() { runner.OpenLink(hudURL(cfg.ListenAddr)) })
	t.OnQuit(stop)
	hud.OnAction(t.SetLastAction)
	go func() {
		<-ctx.Done()
		t.Quit()
	}()
	t.Run()

	stop()
	logger.Info("shutting down")
	return nil
}
