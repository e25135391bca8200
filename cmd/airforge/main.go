package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ayusman/airforge/internal/capture"
	"github.com/ayusman/airforge/internal/detector"
	"github.com/ayusman/airforge/internal/engine"
	"github.com/ayusman/airforge/internal/render"
	"github.com/ayusman/airforge/internal/scene"
	"github.com/ayusman/airforge/internal/server"
	"github.com/ayusman/airforge/internal/track"
	"github.com/ayusman/airforge/internal/tray"
)

const tickInterval = time.Second / render.TPS

func main() {
	headless := flag.Bool("headless", false, "run without a window (tray + API only)")
	addr := flag.String("addr", ":8080", "control API listen address")
	deviceID := flag.Int("camera", 0, "camera device ID")
	flag.Parse()

	fmt.Println("AirForge - Gesture Voxel Editor")

	// Initialize the scene store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dbDir := filepath.Join(homeDir, ".airforge")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dbDir, "airforge.db")
	st, err := scene.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize scene store: %v", err)
	}
	defer st.Close()

	// Build the tracking pipeline
	cam := capture.NewCamera(*deviceID)
	if err := cam.Open(); err != nil {
		log.Fatalf("Failed to open camera %d: %v", *deviceID, err)
	}

	var det detector.Detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		det = mp
	} else {
		log.Printf("MediaPipe detector unavailable (%v), using mock detector", err)
		det = detector.NewMockDetector()
	}

	tracker := track.NewTracker(cam, det)
	eng := engine.New(tracker)
	defer eng.Close()

	// Control API
	srv := server.New(server.Config{Store: st, Engine: eng})
	go func() {
		log.Printf("Control API listening on %s", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Printf("Server failed: %v", err)
		}
	}()

	// ebiten and systray both insist on the main thread, so the two
	// modes are mutually exclusive.
	if *headless {
		runHeadless(eng)
		return
	}

	game := render.NewGame(eng, st, tracker)
	if err := game.Run(); err != nil {
		log.Fatalf("Window closed with error: %v", err)
	}
}

// runHeadless drives the engine from a plain ticker and parks the
// main goroutine in the system tray loop.
func runHeadless(eng *engine.Engine) {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				eng.Tick(now)
			}
		}
	}()

	t := tray.New()
	t.OnToggle(func(enabled bool) {
		eng.SetTracking(enabled)
		log.Printf("Tracking %v", enabled)
	})
	t.OnQuit(func() {
		close(stop)
	})

	// Mirror the last gesture into the tray menu.
	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				t.SetLastGesture(eng.Snapshot().Gesture)
			}
		}
	}()

	t.Run()
}
