// Package api provides HTTP API handlers for the editor's control
// surface.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/airforge/internal/engine"
)

// CommandHandler handles POST requests that queue engine commands.
type CommandHandler struct {
	engine *engine.Engine
}

// NewCommandHandler creates a new CommandHandler over the given engine.
func NewCommandHandler(e *engine.Engine) *CommandHandler {
	return &CommandHandler{engine: e}
}

type commandRequest struct {
	Name string `json:"name"`
}

var commandNames = map[string]engine.CommandKind{
	"undo":        engine.CmdUndo,
	"cycleColor":  engine.CmdCycleColor,
	"clearAll":    engine.CmdClearAll,
	"resetCamera": engine.CmdResetCamera,
}

// ServeHTTP implements the http.Handler interface.
func (h *CommandHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	kind, ok := commandNames[req.Name]
	if !ok {
		http.Error(w, "Unknown command", http.StatusBadRequest)
		return
	}

	if !h.engine.Do(engine.Command{Kind: kind}) {
		http.Error(w, "Command queue full", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "queued"})
}
