package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/airforge/internal/detector"
	"github.com/ayusman/airforge/internal/engine"
	"github.com/ayusman/airforge/internal/scene"
)

// idleSource reports no hand on every poll.
type idleSource struct{}

func (idleSource) Poll(nowMs int64) (*detector.HandLandmarks, bool, error) { return nil, true, nil }
func (idleSource) SetEnabled(enabled bool)                                 {}
func (idleSource) IsEnabled() bool                                         { return true }
func (idleSource) Close() error                                            { return nil }

// newTestHandler builds a scene handler over a temp-file store and a
// continuously ticking engine.
func newTestHandler(t *testing.T) (*SceneHandler, *engine.Engine) {
	t.Helper()

	store, err := scene.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	e := engine.New(idleSource{})

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				e.Tick(now)
			}
		}
	}()
	t.Cleanup(func() { close(stop) })

	return NewSceneHandler(store, e), e
}

func saveScene(t *testing.T, h *SceneHandler, name string) scene.Scene {
	t.Helper()

	body := fmt.Sprintf(`{"name":%q}`, name)
	req := httptest.NewRequest(http.MethodPost, "/api/scenes", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("save: expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body)
	}

	var sc scene.Scene
	if err := json.NewDecoder(rec.Body).Decode(&sc); err != nil {
		t.Fatalf("save: failed to decode response: %v", err)
	}
	return sc
}

func TestSceneHandler_SaveAndList(t *testing.T) {
	h, _ := newTestHandler(t)

	sc := saveScene(t, h, "demo")
	if sc.Name != "demo" {
		t.Errorf("saved name = %q, want demo", sc.Name)
	}
	// The engine starts with the 25-voxel demo floor.
	if sc.VoxelCount != 25 {
		t.Errorf("saved voxel count = %d, want 25", sc.VoxelCount)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/scenes", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var scenes []scene.Scene
	if err := json.NewDecoder(rec.Body).Decode(&scenes); err != nil {
		t.Fatalf("list: failed to decode response: %v", err)
	}
	if len(scenes) != 1 {
		t.Errorf("list returned %d scenes, want 1", len(scenes))
	}
}

func TestSceneHandler_SaveRequiresName(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/scenes", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestSceneHandler_GetAndDelete(t *testing.T) {
	h, _ := newTestHandler(t)
	sc := saveScene(t, h, "keeper")

	req := httptest.NewRequest(http.MethodGet, "/api/scenes/"+sc.ID, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected status %d, got %d", http.StatusOK, rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/scenes/"+sc.ID, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/scenes/"+sc.ID, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestSceneHandler_Load(t *testing.T) {
	h, e := newTestHandler(t)
	sc := saveScene(t, h, "restore-me")

	// Wipe the grid, then load the snapshot back.
	e.Do(engine.Command{Kind: engine.CmdLoadVoxels, Voxels: nil})

	req := httptest.NewRequest(http.MethodPost, "/api/scenes/"+sc.ID+"/load", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("load: expected status %d, got %d", http.StatusAccepted, rec.Code)
	}

	// The load command applies on the next tick.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if e.Snapshot().VoxelCount == 25 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Errorf("grid not restored: %d voxels", e.Snapshot().VoxelCount)
}

func TestSceneHandler_LoadMissing(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/scenes/no-such-id/load", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}
