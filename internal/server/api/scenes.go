package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/airforge/internal/engine"
	"github.com/ayusman/airforge/internal/scene"
)

// exportTimeout bounds how long a save request waits for the engine
// to answer with the grid contents.
const exportTimeout = time.Second

// SceneHandler handles HTTP requests for scene snapshots.
type SceneHandler struct {
	store  *scene.Store
	engine *engine.Engine
}

// NewSceneHandler creates a new SceneHandler with the given store and engine.
func NewSceneHandler(s *scene.Store, e *engine.Engine) *SceneHandler {
	return &SceneHandler{store: s, engine: e}
}

type saveSceneRequest struct {
	Name string `json:"name"`
}

// ServeHTTP implements the http.Handler interface and routes requests
// to appropriate methods. Expected paths: /api/scenes,
// /api/scenes/{id} and /api/scenes/{id}/load.
func (h *SceneHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/scenes")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/scenes
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.save(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/load"); ok {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.load(w, r, id)
		return
	}

	// Item endpoint: /api/scenes/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// list handles GET /api/scenes.
func (h *SceneHandler) list(w http.ResponseWriter, r *http.Request) {
	scenes, err := h.store.List()
	if err != nil {
		http.Error(w, "Failed to list scenes", http.StatusInternalServerError)
		return
	}
	if scenes == nil {
		scenes = []*scene.Scene{}
	}

	writeJSON(w, http.StatusOK, scenes)
}

// save handles POST /api/scenes: snapshot the current grid under the
// given name.
func (h *SceneHandler) save(w http.ResponseWriter, r *http.Request) {
	var req saveSceneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Scene name is required", http.StatusBadRequest)
		return
	}

	voxels := h.engine.ExportVoxels(exportTimeout)
	if voxels == nil {
		http.Error(w, "Engine is not ticking", http.StatusServiceUnavailable)
		return
	}

	saved, err := h.store.Save(req.Name, h.engine.Grid().Size(), voxels)
	if err != nil {
		http.Error(w, "Failed to save scene", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, saved)
}

// get handles GET /api/scenes/{id}.
func (h *SceneHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	sc, _, err := h.store.Load(id)
	if err != nil {
		if errors.Is(err, scene.ErrNotFound) {
			http.Error(w, "Scene not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load scene", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, sc)
}

// load handles POST /api/scenes/{id}/load: replace the live grid with
// the snapshot.
func (h *SceneHandler) load(w http.ResponseWriter, r *http.Request, id string) {
	sc, voxels, err := h.store.Load(id)
	if err != nil {
		if errors.Is(err, scene.ErrNotFound) {
			http.Error(w, "Scene not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load scene", http.StatusInternalServerError)
		return
	}

	if !h.engine.Do(engine.Command{Kind: engine.CmdLoadVoxels, Voxels: voxels}) {
		http.Error(w, "Command queue full", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, sc)
}

// delete handles DELETE /api/scenes/{id}.
func (h *SceneHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Delete(id); err != nil {
		if errors.Is(err, scene.ErrNotFound) {
			http.Error(w, "Scene not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete scene", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
