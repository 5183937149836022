// Package handler exposes the engine and the dataset store over HTTP.
//
// Interaction endpoints translate browser events (hover, drag, filter,
// zoom) into engine calls. A stale event — one naming a node or link that
// the current generation no longer has — is acknowledged but not applied,
// mirroring how the engine silently drops it.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"graphlens/internal/domain"
	"graphlens/internal/engine"
	"graphlens/internal/interact"
	"graphlens/internal/repository"
	"graphlens/internal/viewport"
)

// Handler handles graph API requests.
type Handler struct {
	engine *engine.Engine
	store  repository.Store
}

// New creates a handler around the engine and dataset store.
func New(e *engine.Engine, store repository.Store) *Handler {
	return &Handler{engine: e, store: store}
}

// Register wires all API routes onto the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/graph", h.GetGraph)
	mux.HandleFunc("POST /api/graph", h.LoadGraph)
	mux.HandleFunc("GET /api/frame", h.GetFrame)

	mux.HandleFunc("POST /api/filter", h.SetFilter)
	mux.HandleFunc("POST /api/nodes/{id}/visibility", h.ToggleVisibility)
	mux.HandleFunc("POST /api/selection", h.SetSelection)
	mux.HandleFunc("POST /api/hover", h.SetHover)
	mux.HandleFunc("DELETE /api/hover", h.ClearHover)
	mux.HandleFunc("POST /api/drag", h.Drag)

	mux.HandleFunc("POST /api/viewport", h.ApplyViewport)
	mux.HandleFunc("POST /api/viewport/reset", h.ResetViewport)

	mux.HandleFunc("GET /api/datasets", h.ListDatasets)
	mux.HandleFunc("GET /api/datasets/{name}", h.GetDataset)
	mux.HandleFunc("PUT /api/datasets/{name}", h.SaveDataset)
	mux.HandleFunc("DELETE /api/datasets/{name}", h.DeleteDataset)
	mux.HandleFunc("POST /api/datasets/{name}/activate", h.ActivateDataset)
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// LoadGraphRequest is the raw input for a graph rebuild.
type LoadGraphRequest struct {
	Nodes []domain.NodeDatum `json:"nodes"`
	Links []domain.LinkDatum `json:"links"`
	Reset bool               `json:"reset,omitempty"`
}

// GraphResponse is the raw model view.
type GraphResponse struct {
	Generation int64          `json:"generation"`
	Nodes      []*domain.Node `json:"nodes"`
	Links      []domain.Link  `json:"links"`
}

// AppliedResponse acknowledges an interaction event. Applied is false when
// the event referenced a stale or hidden element and was dropped.
type AppliedResponse struct {
	Applied bool `json:"applied"`
}

// LoadGraph rebuilds the model from raw input.
func (h *Handler) LoadGraph(w http.ResponseWriter, r *http.Request) {
	var req LoadGraphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.engine.Load(req.Nodes, req.Links, req.Reset); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			h.writeError(w, "Invalid graph data", verr.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Failed to load graph: %v", err)
		h.writeError(w, "Failed to load graph", err.Error(), http.StatusInternalServerError)
		return
	}

	gen, nodes, links := h.engine.Graph()
	h.writeJSON(w, GraphResponse{Generation: gen, Nodes: nodes, Links: links}, http.StatusOK)
}

// GetGraph returns the raw model for the current generation.
func (h *Handler) GetGraph(w http.ResponseWriter, r *http.Request) {
	gen, nodes, links := h.engine.Graph()
	h.writeJSON(w, GraphResponse{Generation: gen, Nodes: nodes, Links: links}, http.StatusOK)
}

// GetFrame returns the render snapshot.
func (h *Handler) GetFrame(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.engine.Frame(), http.StatusOK)
}

// SetFilter switches the sign filter.
func (h *Handler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	mode, err := interact.ParseFilterMode(req.Mode)
	if err != nil {
		h.writeError(w, "Invalid filter mode", err.Error(), http.StatusBadRequest)
		return
	}

	h.engine.SetFilter(mode)
	h.writeJSON(w, AppliedResponse{Applied: true}, http.StatusOK)
}

// ToggleVisibility flips one node's visibility.
func (h *Handler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, "Invalid node ID", "Node ID is required", http.StatusBadRequest)
		return
	}
	h.writeJSON(w, AppliedResponse{Applied: h.engine.ToggleVisibility(id)}, http.StatusOK)
}

// SetSelection applies a bulk visibility action.
func (h *Handler) SetSelection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	switch req.Action {
	case "all":
		h.engine.SelectAll()
	case "none":
		h.engine.SelectNone()
	default:
		h.writeError(w, "Invalid selection action", req.Action, http.StatusBadRequest)
		return
	}
	h.writeJSON(w, AppliedResponse{Applied: true}, http.StatusOK)
}

// SetHover moves or clears the hover target.
func (h *Handler) SetHover(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Target string `json:"target"` // "node", "link", or "clear"
		ID     string `json:"id,omitempty"`
		Index  int    `json:"index,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	switch req.Target {
	case "node":
		h.writeJSON(w, AppliedResponse{Applied: h.engine.HoverNode(req.ID)}, http.StatusOK)
	case "link":
		h.writeJSON(w, AppliedResponse{Applied: h.engine.HoverLink(req.Index)}, http.StatusOK)
	case "clear":
		h.engine.ClearHover()
		h.writeJSON(w, AppliedResponse{Applied: true}, http.StatusOK)
	default:
		h.writeError(w, "Invalid hover target", req.Target, http.StatusBadRequest)
	}
}

// ClearHover restores the baseline projection.
func (h *Handler) ClearHover(w http.ResponseWriter, r *http.Request) {
	h.engine.ClearHover()
	h.writeJSON(w, AppliedResponse{Applied: true}, http.StatusOK)
}

// Drag applies one phase of the drag protocol.
func (h *Handler) Drag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phase string  `json:"phase"` // "start", "move", or "end"
		ID    string  `json:"id"`
		X     float64 `json:"x,omitempty"`
		Y     float64 `json:"y,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	var applied bool
	switch req.Phase {
	case "start":
		applied = h.engine.DragStart(req.ID)
	case "move":
		applied = h.engine.Drag(req.ID, req.X, req.Y)
	case "end":
		applied = h.engine.DragEnd(req.ID)
	default:
		h.writeError(w, "Invalid drag phase", req.Phase, http.StatusBadRequest)
		return
	}
	h.writeJSON(w, AppliedResponse{Applied: applied}, http.StatusOK)
}

// ApplyViewport installs a pan/zoom transform, clamped to the zoom extent.
func (h *Handler) ApplyViewport(w http.ResponseWriter, r *http.Request) {
	var t viewport.Transform
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	h.writeJSON(w, h.engine.ApplyZoom(t), http.StatusOK)
}

// ResetViewport starts the animated return to the identity transform.
func (h *Handler) ResetViewport(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.engine.ResetViewport(), http.StatusOK)
}

// ListDatasets returns stored dataset summaries.
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	infos, err := h.store.ListDatasets(r.Context())
	if err != nil {
		log.Printf("Failed to list datasets: %v", err)
		h.writeError(w, "Failed to list datasets", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, infos, http.StatusOK)
}

// GetDataset returns one stored dataset with its contents.
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	ds, err := h.store.GetDataset(r.Context(), name)
	if err != nil {
		log.Printf("Failed to get dataset: %v", err)
		h.writeError(w, "Failed to get dataset", err.Error(), http.StatusInternalServerError)
		return
	}
	if ds == nil {
		h.writeError(w, "Not found", "no dataset named "+name, http.StatusNotFound)
		return
	}
	h.writeJSON(w, ds, http.StatusOK)
}

// SaveDataset stores raw input under a name without loading it.
func (h *Handler) SaveDataset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req LoadGraphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	// Validate before storing so a bad dataset can never be activated.
	if _, err := domain.Build(req.Nodes, req.Links); err != nil {
		h.writeError(w, "Invalid graph data", err.Error(), http.StatusBadRequest)
		return
	}

	ds := &repository.Dataset{Name: name, Nodes: req.Nodes, Links: req.Links}
	if err := h.store.SaveDataset(r.Context(), ds); err != nil {
		log.Printf("Failed to save dataset: %v", err)
		h.writeError(w, "Failed to save dataset", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, ds, http.StatusCreated)
}

// DeleteDataset removes a stored dataset.
func (h *Handler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteDataset(r.Context(), r.PathValue("name")); err != nil {
		log.Printf("Failed to delete dataset: %v", err)
		h.writeError(w, "Failed to delete dataset", err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ActivateDataset loads a stored dataset into the engine.
func (h *Handler) ActivateDataset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	ds, err := h.store.GetDataset(r.Context(), name)
	if err != nil {
		log.Printf("Failed to get dataset: %v", err)
		h.writeError(w, "Failed to get dataset", err.Error(), http.StatusInternalServerError)
		return
	}
	if ds == nil {
		h.writeError(w, "Not found", "no dataset named "+name, http.StatusNotFound)
		return
	}

	if err := h.engine.Load(ds.Nodes, ds.Links, false); err != nil {
		h.writeError(w, "Failed to load dataset", err.Error(), http.StatusBadRequest)
		return
	}

	gen, nodes, links := h.engine.Graph()
	h.writeJSON(w, GraphResponse{Generation: gen, Nodes: nodes, Links: links}, http.StatusOK)
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
