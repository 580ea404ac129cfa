package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ayusman/katana/internal/app"
	"github.com/ayusman/katana/internal/audio"
	"github.com/ayusman/katana/internal/capture"
	"github.com/ayusman/katana/internal/config"
	"github.com/ayusman/katana/internal/detector"
	"github.com/ayusman/katana/internal/hook"
	"github.com/ayusman/katana/internal/metrics"
	"github.com/ayusman/katana/internal/server"
	"github.com/ayusman/katana/internal/store"
	"github.com/ayusman/katana/internal/terminal"
	"github.com/ayusman/katana/internal/tray"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// The terminal HUD owns stdout, so logs go to a file beside the database.
	dataDir := dataDirFor(cfg)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	if cfg.UI == "terminal" {
		logFile, err := os.OpenFile(filepath.Join(dataDir, "katana.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	} else {
		fmt.Println("Katana - Hand Tracking Arcade")
	}

	// Initialize the store
	st, err := store.New(filepath.Join(dataDir, "katana.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	rules := cfg.Game
	hands, err := openDetector(cfg)
	if err != nil {
		log.Fatalf("Failed to start detector: %v", err)
	}
	adapter := detector.NewAdapter(hands, rules.FieldWidth, rules.FieldHeight, cfg.Detector.MinConfidence)
	defer adapter.Close()

	preprocessor := capture.NewPreprocessor(cfg.Camera.Mirror, cfg.Camera.Contrast, cfg.Camera.Brightness)
	defer preprocessor.Close()

	m := metrics.NewManager()
	game := app.New(app.Config{
		Rules:        rules,
		Camera:       capture.NewCamera(cfg.Camera.DeviceID, cfg.Camera.Width, cfg.Camera.Height),
		Preprocessor: preprocessor,
		Hands:        adapter,
		Results:      st.Results(),
		Metrics:      m,
	})

	var sounds *audio.SoundManager
	if cfg.Audio {
		volume, err := st.Settings().Float(store.SettingVolume, 1.0)
		if err != nil {
			log.Printf("Ignoring stored volume: %v", err)
		}
		sounds = audio.NewSoundManager(volume)
		sounds.Load(cfg.SoundsDir)
		if err := sounds.Initialize(); err != nil {
			log.Printf("Audio disabled: %v", err)
			sounds = nil
		} else {
			defer sounds.Cleanup()
			game.AddEffectSink(sounds)
		}
	}

	hooksDir := cfg.HooksDir
	if hooksDir == "" {
		hooksDir = filepath.Join(dataDir, "hooks")
	}
	hooks := hook.NewManager(hooksDir)
	if err := hooks.Discover(); err != nil {
		log.Printf("Hook discovery failed: %v", err)
	} else if n := len(hooks.List()); n > 0 {
		log.Printf("Loaded %d hook(s) from %s", n, hooksDir)
	}
	dispatcher := hook.NewDispatcher(hooks, hook.NewExecutor(hook.DefaultTimeout), 0)
	defer dispatcher.Close()
	game.AddEffectSink(dispatcher)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Addr != "" {
		hub := server.NewSnapshotHub()
		game.AddRenderer(hub)

		webDir := findWebDir()
		if webDir != "" {
			log.Printf("Serving static files from: %s", webDir)
		}
		onSetting := func(key, value string) {
			applySetting(sounds, key, value)
		}
		srv := server.New(server.Config{
			StaticDir:       webDir,
			Store:           st,
			Game:            game,
			Frames:          game,
			Snapshots:       hub,
			Metrics:         m,
			OnSettingChange: onSetting,
		})
		go func() {
			log.Printf("Starting server on %s", cfg.Addr)
			if err := srv.Run(ctx, cfg.Addr); err != nil {
				log.Printf("Server failed: %v", err)
			}
		}()
	}

	go func() {
		if err := game.Run(ctx); err != nil {
			log.Printf("Game loop failed: %v", err)
		}
		stop()
	}()

	if err := runUI(ctx, stop, cfg, game); err != nil {
		log.Printf("UI failed: %v", err)
	}

	stop()
	game.Stop()
	select {
	case <-game.Done():
	case <-time.After(2 * time.Second):
		log.Println("Game loop did not stop in time")
	}
	if err := game.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "katana: %v\n", err)
	}
}

// applySetting makes a setting saved over the API take effect at once.
func applySetting(sounds *audio.SoundManager, key, value string) {
	switch key {
	case store.SettingVolume:
		if sounds == nil {
			return
		}
		volume, err := strconv.ParseFloat(value, 64)
		if err != nil {
			log.Printf("Ignoring volume %q: %v", value, err)
			return
		}
		sounds.SetVolume(volume)
	}
}

// openDetector returns the replay detector when one is configured, then
// the MediaPipe service, then a mock that never sees a hand.
func openDetector(cfg *config.Config) (detector.Detector, error) {
	if cfg.Detector.Replay != "" {
		log.Printf("Replaying landmarks from %s", cfg.Detector.Replay)
		return detector.OpenReplay(cfg.Detector.Replay, true)
	}

	d, err := detector.NewMediaPipeDetector(detector.Config{
		MaxHands:        cfg.Detector.MaxHands,
		MinConfidence:   cfg.Detector.MinConfidence,
		MinTrackingConf: cfg.Detector.MinTrackingConf,
	})
	if errors.Is(err, detector.ErrServiceNotFound) {
		log.Printf("MediaPipe service not found, hands will not be tracked: %v", err)
		return detector.NewMockDetector(), nil
	}
	return d, err
}

// runUI blocks on the configured control surface until the user quits or
// ctx is cancelled.
func runUI(ctx context.Context, stop context.CancelFunc, cfg *config.Config, game *app.App) error {
	switch cfg.UI {
	case "terminal":
		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		if err := screen.Init(); err != nil {
			return err
		}
		defer screen.Fini()

		hud := terminal.New(screen, game, cfg.Game.ComboBonus)
		game.AddRenderer(hud)
		return hud.Run(ctx)

	case "tray":
		t := tray.New(game)
		game.AddRenderer(t)
		t.OnQuit(stop)
		if cfg.Addr != "" {
			t.OnScores(func() { openBrowser("http://localhost" + cfg.Addr + "/api/results") })
		}
		go func() {
			<-ctx.Done()
			t.Quit()
		}()
		t.Run()
		return nil

	default:
		<-ctx.Done()
		return nil
	}
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

func dataDirFor(cfg *config.Config) string {
	if cfg.DataDir != "" {
		return cfg.DataDir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}
	return filepath.Join(homeDir, ".katana")
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.katana/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".katana", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
